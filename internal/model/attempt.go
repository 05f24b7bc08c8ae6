package model

import (
	"time"
)

// Attempt is one participant's single submission for a contest. The composite
// unique index on (contest_id, user_id) is what makes concurrent duplicate
// submissions safe: the insert itself is the existence check.
type Attempt struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ContestID    uint      `gorm:"not null;index;uniqueIndex:idx_contest_user" json:"contest_id"`
	UserID       uint      `gorm:"not null;index;uniqueIndex:idx_contest_user" json:"user_id"`
	Username     string    `gorm:"size:50;not null" json:"username"`
	Score        int       `gorm:"not null;default:0" json:"score"`
	CorrectCount int       `gorm:"not null;default:0" json:"correct_count"`
	AnswerCount  int       `gorm:"not null;default:0" json:"answer_count"`
	CompletedAt  time.Time `gorm:"not null;index" json:"completed_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
