package repository

import (
	"time"

	"github.com/lshigami/Marmoset/internal/model"
	"gorm.io/gorm"
)

// ContestWithCounts carries a contest plus the cheap aggregates used by the
// listing endpoints (participant count = attempt count).
type ContestWithCounts struct {
	model.Contest
	QuestionCount    int
	ParticipantCount int
	LeaderboardCount int
}

type ContestRepository interface {
	Create(contest *model.Contest) error
	FindByID(id uint) (*model.Contest, error)
	FindByIDWithQuestions(id uint) (*model.Contest, error)
	FindByIDWithCounts(id uint) (*ContestWithCounts, error)
	FindAllWithCounts() ([]ContestWithCounts, error)
	FindCompletedWithCounts(now time.Time) ([]ContestWithCounts, error)
	Update(contest *model.Contest) error
}

type contestRepository struct {
	db *gorm.DB
}

func NewContestRepository(db *gorm.DB) ContestRepository {
	return &contestRepository{db: db}
}

const contestCountSelect = `contests.*,
(SELECT COUNT(*) FROM questions WHERE questions.contest_id = contests.id AND questions.deleted_at IS NULL) AS question_count,
(SELECT COUNT(*) FROM attempts WHERE attempts.contest_id = contests.id) AS participant_count,
(SELECT COUNT(*) FROM leaderboard_entries WHERE leaderboard_entries.contest_id = contests.id) AS leaderboard_count`

func (r *contestRepository) Create(contest *model.Contest) error {
	// Create with associations also persists contest.Questions and their options.
	return r.db.Create(contest).Error
}

func (r *contestRepository) FindByID(id uint) (*model.Contest, error) {
	var contest model.Contest
	if err := r.db.First(&contest, id).Error; err != nil {
		return nil, err
	}
	return &contest, nil
}

func (r *contestRepository) FindByIDWithQuestions(id uint) (*model.Contest, error) {
	var contest model.Contest
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_in_contest ASC")
	}).Preload("Questions.Options").First(&contest, id).Error
	if err != nil {
		return nil, err
	}
	return &contest, nil
}

func (r *contestRepository) FindByIDWithCounts(id uint) (*ContestWithCounts, error) {
	var result ContestWithCounts
	err := r.db.Model(&model.Contest{}).
		Select(contestCountSelect).
		Where("contests.id = ? AND contests.deleted_at IS NULL", id).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	if result.Contest.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &result, nil
}

func (r *contestRepository) FindAllWithCounts() ([]ContestWithCounts, error) {
	var results []ContestWithCounts
	err := r.db.Model(&model.Contest{}).
		Select(contestCountSelect).
		Where("contests.deleted_at IS NULL").
		Order("contests.created_at DESC").
		Scan(&results).Error
	return results, err
}

func (r *contestRepository) FindCompletedWithCounts(now time.Time) ([]ContestWithCounts, error) {
	var results []ContestWithCounts
	err := r.db.Model(&model.Contest{}).
		Select(contestCountSelect).
		Where("contests.end_time IS NOT NULL AND contests.end_time <= ? AND contests.deleted_at IS NULL", now).
		Order("contests.end_time DESC").
		Scan(&results).Error
	return results, err
}

func (r *contestRepository) Update(contest *model.Contest) error {
	// leaderboard_frozen is owned by FreezeIfAbsent. A Save here may carry a
	// row read before a concurrent freeze committed; writing the flag back
	// would revert the compare-and-set and allow a second freeze.
	return r.db.Omit("leaderboard_frozen").Save(contest).Error
}
