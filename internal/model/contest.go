package model

import (
	"time"

	"gorm.io/gorm"
)

type ContestStatus string

const (
	ContestStatusDraft     ContestStatus = "draft"
	ContestStatusScheduled ContestStatus = "scheduled"
	ContestStatusActive    ContestStatus = "active"
	ContestStatusCompleted ContestStatus = "completed"
)

// Contest is a timed quiz event. Its lifecycle status is never stored; it is
// a pure function of the stored window and the clock (see StatusAt). The only
// persisted lifecycle bit is LeaderboardFrozen, the compare-and-set flag for
// the one-time freeze at completion.
type Contest struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	Title             string         `gorm:"size:100;not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description,omitempty"`
	Price             float64        `gorm:"not null;default:0" json:"price"`
	StartTime         *time.Time     `gorm:"index" json:"start_time,omitempty"`
	EndTime           *time.Time     `json:"end_time,omitempty"`
	LeaderboardFrozen bool           `gorm:"not null;default:false" json:"-"`
	Questions         []Question     `gorm:"foreignKey:ContestID" json:"questions,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// StatusAt computes the lifecycle state at the given instant.
// draft -> scheduled -> active -> completed, never backwards.
func (c *Contest) StatusAt(now time.Time) ContestStatus {
	if c.StartTime == nil || c.EndTime == nil {
		return ContestStatusDraft
	}
	switch {
	case now.Before(*c.StartTime):
		return ContestStatusScheduled
	case now.Before(*c.EndTime):
		return ContestStatusActive
	default:
		return ContestStatusCompleted
	}
}

// ScheduleValid reports whether the stored window is well formed. A contest
// with no window (draft) is valid; a half-set window is not.
func (c *Contest) ScheduleValid() bool {
	if c.StartTime == nil && c.EndTime == nil {
		return true
	}
	if c.StartTime == nil || c.EndTime == nil {
		return false
	}
	return c.StartTime.Before(*c.EndTime)
}

// Locked reports whether the question set and window may no longer change.
func (c *Contest) Locked(now time.Time) bool {
	status := c.StatusAt(now)
	return status == ContestStatusActive || status == ContestStatusCompleted
}
