package dto

import "time"

type LeaderboardEntryDTO struct {
	Rank        int       `json:"rank"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// LeaderboardResponseDTO carries the ranking plus whether it is the frozen
// (final) board or a live recomputation.
type LeaderboardResponseDTO struct {
	ContestID uint                  `json:"contest_id"`
	Status    string                `json:"contest_status"`
	Frozen    bool                  `json:"frozen"`
	Entries   []LeaderboardEntryDTO `json:"entries"`
}
