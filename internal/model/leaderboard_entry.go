package model

import (
	"time"
)

// LeaderboardEntry is a persisted row of a frozen leaderboard. Live
// leaderboards for active contests are derived from attempts on every read
// and never stored.
type LeaderboardEntry struct {
	ID          uint      `gorm:"primarykey" json:"-"`
	ContestID   uint      `gorm:"not null;index" json:"contest_id"`
	UserID      uint      `gorm:"not null" json:"user_id"`
	Username    string    `gorm:"size:50;not null" json:"username"`
	Rank        int       `gorm:"not null" json:"rank"`
	Score       int       `gorm:"not null" json:"score"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
	CreatedAt   time.Time `json:"-"`
}
