package repository

import (
	"github.com/lshigami/Marmoset/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository interface {
	// CreateIfAbsent inserts the attempt unless one already exists for the
	// (contest, user) pair. The check and the insert are a single statement,
	// so concurrent duplicate submissions cannot both succeed.
	CreateIfAbsent(attempt *model.Attempt) error
	FindByContestAndUser(contestID, userID uint) (*model.Attempt, error)
	FindAllByContest(contestID uint) ([]model.Attempt, error)
	// UpdateScore writes the score and correct count, conditional on the
	// contest's leaderboard not being frozen. A freeze landing after the
	// caller's own check still causes model.ErrLeaderboardFrozen here.
	UpdateScore(attempt *model.Attempt) error
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) CreateIfAbsent(attempt *model.Attempt) error {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contest_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(attempt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrDuplicateAttempt
	}
	return nil
}

func (r *attemptRepository) FindByContestAndUser(contestID, userID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.Where("contest_id = ? AND user_id = ?", contestID, userID).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByContest(contestID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.Where("contest_id = ?", contestID).
		Order("score DESC, completed_at ASC, user_id ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) UpdateScore(attempt *model.Attempt) error {
	result := r.db.Model(&model.Attempt{}).
		Where("id = ?", attempt.ID).
		Where("NOT EXISTS (SELECT 1 FROM contests WHERE contests.id = ? AND contests.leaderboard_frozen)", attempt.ContestID).
		Updates(map[string]interface{}{
			"score":         attempt.Score,
			"correct_count": attempt.CorrectCount,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// The caller fetched the attempt already, so zero rows means the
		// freeze won the race, not a missing row.
		return model.ErrLeaderboardFrozen
	}
	return nil
}
