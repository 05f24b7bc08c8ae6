package service

import (
	"github.com/lshigami/Marmoset/internal/dto"
	"github.com/lshigami/Marmoset/internal/model"
)

// ScorerService turns an answer set into a score against a frozen question
// set. Implementations must be deterministic: same questions and answers,
// same score.
type ScorerService interface {
	Score(questions []model.Question, answers []dto.AnswerSubmitDTO) (score int, correct int)
}

type pointsScorer struct{}

// NewScorerService returns the default scorer: each answer matching a
// question's correct option earns that question's points. Answers to unknown
// questions, or repeated answers to the same question, count nothing.
func NewScorerService() ScorerService {
	return &pointsScorer{}
}

func (pointsScorer) Score(questions []model.Question, answers []dto.AnswerSubmitDTO) (int, int) {
	correctByQuestion := make(map[uint]uint, len(questions))
	pointsByQuestion := make(map[uint]int, len(questions))
	for _, q := range questions {
		correctByQuestion[q.ID] = q.CorrectOptionID()
		points := q.Points
		if points <= 0 {
			points = 1
		}
		pointsByQuestion[q.ID] = points
	}

	score, correct := 0, 0
	seen := make(map[uint]bool, len(answers))
	for _, ans := range answers {
		if seen[ans.QuestionID] {
			continue
		}
		seen[ans.QuestionID] = true
		want, ok := correctByQuestion[ans.QuestionID]
		if !ok || want == 0 {
			continue
		}
		if ans.OptionID == want {
			score += pointsByQuestion[ans.QuestionID]
			correct++
		}
	}
	return score, correct
}
