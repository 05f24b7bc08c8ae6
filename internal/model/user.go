package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleSubAdmin UserRole = "SUB_ADMIN"
	RoleUser     UserRole = "USER"
)

// Action names the operations gated by role checks.
type Action string

const (
	ActionManageContests Action = "manage_contests"
	ActionOverrideScores Action = "override_scores"
	ActionPlayContests   Action = "play_contests"
)

// RoleAllowed is the single authorization predicate. An empty role (no
// identity) is denied everything.
func RoleAllowed(role UserRole, action Action) bool {
	switch action {
	case ActionManageContests:
		return role == RoleAdmin || role == RoleSubAdmin
	case ActionOverrideScores:
		return role == RoleAdmin
	case ActionPlayContests:
		return role == RoleAdmin || role == RoleSubAdmin || role == RoleUser
	default:
		return false
	}
}

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Username  string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      UserRole       `gorm:"size:20;not null;default:'USER'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeSave hashes the password on create and whenever it changes.
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	if u.ID == 0 || tx.Statement.Changed("Password") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hashed)
	}
	return
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
