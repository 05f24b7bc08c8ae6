package dto

import "time"

// OptionCreateDTO is one choice of a question being created by an admin.
type OptionCreateDTO struct {
	Text    string `json:"text" binding:"required"`
	Correct bool   `json:"correct"`
}

// QuestionCreateDTO is used within ContestCreateDTO and question replacement.
type QuestionCreateDTO struct {
	Prompt         string            `json:"prompt" binding:"required"`
	Points         int               `json:"points" binding:"omitempty,gte=1"`
	OrderInContest int               `json:"order_in_contest" binding:"required,min=1"`
	Options        []OptionCreateDTO `json:"options" binding:"required,min=2,dive"`
}

// ContestCreateDTO is for admins creating a contest, optionally with its
// question set and schedule. With no schedule the contest stays a draft.
type ContestCreateDTO struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description,omitempty"`
	Price       float64             `json:"price" binding:"omitempty,gte=0"`
	StartTime   *time.Time          `json:"start_time"`
	EndTime     *time.Time          `json:"end_time"`
	Questions   []QuestionCreateDTO `json:"questions" binding:"omitempty,dive"`
}

// ContestUpdateDTO is a partial update; nil fields are left untouched.
// Schedule and questions are rejected once the contest is active.
type ContestUpdateDTO struct {
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
	Price       *float64            `json:"price,omitempty" binding:"omitempty,gte=0"`
	StartTime   *time.Time          `json:"start_time,omitempty"`
	EndTime     *time.Time          `json:"end_time,omitempty"`
	Questions   []QuestionCreateDTO `json:"questions,omitempty" binding:"omitempty,dive"`
}

// OptionResponseDTO never exposes the correct flag to players.
type OptionResponseDTO struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuestionResponseDTO struct {
	ID             uint                `json:"id"`
	ContestID      uint                `json:"contest_id"`
	Prompt         string              `json:"prompt"`
	Points         int                 `json:"points"`
	OrderInContest int                 `json:"order_in_contest"`
	Options        []OptionResponseDTO `json:"options,omitempty"`
}

// ContestSummaryDTO is the listing shape: stored attributes plus the derived
// status and aggregates.
type ContestSummaryDTO struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Price            float64    `json:"price"`
	Status           string     `json:"status"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	QuestionCount    int        `json:"question_count"`
	ParticipantCount int        `json:"participant_count"`
	LeaderboardCount int        `json:"leaderboard_entry_count"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ContestDetailDTO adds the playable question set to the summary.
type ContestDetailDTO struct {
	ContestSummaryDTO
	Questions []QuestionResponseDTO `json:"questions,omitempty"`
}
