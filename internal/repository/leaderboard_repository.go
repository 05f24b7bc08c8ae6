package repository

import (
	"github.com/lshigami/Marmoset/internal/model"
	"gorm.io/gorm"
)

type LeaderboardRepository interface {
	// FreezeIfAbsent persists the entries as the contest's frozen leaderboard
	// unless another caller already froze it. Returns (true, nil) when this
	// call won the compare-and-set, (false, nil) when the board was already
	// frozen. Exactly one caller ever writes entries for a contest.
	FreezeIfAbsent(contestID uint, entries []model.LeaderboardEntry) (bool, error)
	FindByContest(contestID uint) ([]model.LeaderboardEntry, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) FreezeIfAbsent(contestID uint, entries []model.LeaderboardEntry) (bool, error) {
	won := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// The flag flip is the CAS: only one transaction sees RowsAffected == 1.
		result := tx.Model(&model.Contest{}).
			Where("id = ? AND leaderboard_frozen = ?", contestID, false).
			Update("leaderboard_frozen", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		won = true
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
	return won, err
}

func (r *leaderboardRepository) FindByContest(contestID uint) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := r.db.Where("contest_id = ?", contestID).
		Order("rank ASC, completed_at ASC, user_id ASC").
		Find(&entries).Error
	return entries, err
}
