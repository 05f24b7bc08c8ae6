package repository

import (
	"github.com/lshigami/Marmoset/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByContestID(contestID uint) ([]model.Question, error)
	ReplaceForContest(contestID uint, questions []model.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByContestID(contestID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Where("contest_id = ?", contestID).
		Preload("Options").
		Order("order_in_contest ASC").
		Find(&questions).Error
	return questions, err
}

// ReplaceForContest swaps a contest's question set in one transaction. The
// service refuses this on locked contests, so no status check happens here.
func (r *questionRepository) ReplaceForContest(contestID uint, questions []model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contest_id = ?", contestID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ContestID = contestID
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}
