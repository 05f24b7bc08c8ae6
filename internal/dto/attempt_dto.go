package dto

import "time"

// AnswerSubmitDTO is one selected option for one question.
type AnswerSubmitDTO struct {
	QuestionID uint `json:"question_id" binding:"required"`
	OptionID   uint `json:"option_id" binding:"required"`
}

// AttemptSubmitDTO is the full answer set for a contest; a participant gets
// exactly one of these per contest.
type AttemptSubmitDTO struct {
	Answers []AnswerSubmitDTO `json:"answers" binding:"required,min=1,dive"`
}

type AttemptResponseDTO struct {
	ID           uint      `json:"id"`
	ContestID    uint      `json:"contest_id"`
	UserID       uint      `json:"user_id"`
	Score        int       `json:"score"`
	CorrectCount int       `json:"correct_count"`
	AnswerCount  int       `json:"answer_count"`
	CompletedAt  time.Time `json:"completed_at"`
}

// ScoreOverrideDTO is the admin-only corrective edit of an attempt's score.
type ScoreOverrideDTO struct {
	Score int `json:"score" binding:"gte=0"`
}
