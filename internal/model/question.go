package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	ContestID      uint           `gorm:"not null;index" json:"contest_id"`
	Prompt         string         `gorm:"type:text;not null" json:"prompt"`
	Points         int            `gorm:"not null;default:1" json:"points"`
	OrderInContest int            `gorm:"not null" json:"order_in_contest"`
	Options        []Option       `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"options,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Option is one possible answer; exactly one per question is marked correct.
type Option struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"type:text;not null" json:"text"`
	Correct    bool   `gorm:"not null;default:false" json:"-"`
}

// CorrectOptionID returns the ID of the correct option, or 0 if none is set.
func (q *Question) CorrectOptionID() uint {
	for _, opt := range q.Options {
		if opt.Correct {
			return opt.ID
		}
	}
	return 0
}
