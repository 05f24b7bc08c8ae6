package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Marmoset/internal/dto"
	"github.com/lshigami/Marmoset/internal/model"
	"github.com/lshigami/Marmoset/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AttemptService interface {
	// Submit scores the answer set against the contest's frozen questions and
	// records the participant's single attempt.
	Submit(contestID uint, actor Identity, req dto.AttemptSubmitDTO) (*dto.AttemptResponseDTO, error)
	Get(contestID, userID uint) (*dto.AttemptResponseDTO, error)
	// OverrideScore is the administrative correction path. It logs the prior
	// value and is refused once the contest's leaderboard is frozen.
	OverrideScore(contestID, userID uint, req dto.ScoreOverrideDTO, actor Identity) (*dto.AttemptResponseDTO, error)
}

type attemptService struct {
	contestRepo repository.ContestRepository
	attemptRepo repository.AttemptRepository
	scorer      ScorerService
	now         func() time.Time
}

func NewAttemptService(contestRepo repository.ContestRepository, attemptRepo repository.AttemptRepository, scorer ScorerService) AttemptService {
	return &attemptService{
		contestRepo: contestRepo,
		attemptRepo: attemptRepo,
		scorer:      scorer,
		now:         time.Now,
	}
}

func (s *attemptService) Submit(contestID uint, actor Identity, req dto.AttemptSubmitDTO) (*dto.AttemptResponseDTO, error) {
	if !actor.Allowed(model.ActionPlayContests) {
		return nil, model.ErrUnauthorized
	}

	contest, err := s.contestRepo.FindByIDWithQuestions(contestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("fetching contest %d: %w", contestID, err)
	}

	submittedAt := s.now()
	if contest.StatusAt(submittedAt) != model.ContestStatusActive {
		return nil, model.ErrContestNotActive
	}

	score, correct := s.scorer.Score(contest.Questions, req.Answers)

	attempt := model.Attempt{
		ContestID:    contestID,
		UserID:       actor.UserID,
		Username:     actor.Username,
		Score:        score,
		CorrectCount: correct,
		AnswerCount:  len(req.Answers),
		CompletedAt:  submittedAt,
	}
	// Atomic conditional insert; a concurrent duplicate loses here, not in a
	// separate existence check.
	if err := s.attemptRepo.CreateIfAbsent(&attempt); err != nil {
		if errors.Is(err, model.ErrDuplicateAttempt) {
			return nil, model.ErrDuplicateAttempt
		}
		log.Error().Err(err).Uint("contestID", contestID).Uint("userID", actor.UserID).Msg("Submit: attempt insert failed")
		return nil, fmt.Errorf("recording attempt: %w", err)
	}

	log.Info().Uint("contestID", contestID).Uint("userID", actor.UserID).Int("score", score).Msg("Attempt recorded")
	return attemptToDTO(&attempt)
}

func (s *attemptService) Get(contestID, userID uint) (*dto.AttemptResponseDTO, error) {
	attempt, err := s.attemptRepo.FindByContestAndUser(contestID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("fetching attempt: %w", err)
	}
	return attemptToDTO(attempt)
}

func (s *attemptService) OverrideScore(contestID, userID uint, req dto.ScoreOverrideDTO, actor Identity) (*dto.AttemptResponseDTO, error) {
	if !actor.Allowed(model.ActionOverrideScores) {
		return nil, model.ErrUnauthorized
	}

	contest, err := s.contestRepo.FindByID(contestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("fetching contest %d: %w", contestID, err)
	}
	if contest.LeaderboardFrozen {
		return nil, model.ErrLeaderboardFrozen
	}

	attempt, err := s.attemptRepo.FindByContestAndUser(contestID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("fetching attempt: %w", err)
	}

	// The audit trail for the override: prior value is logged before the write.
	log.Warn().
		Uint("contestID", contestID).
		Uint("userID", userID).
		Uint("actorID", actor.UserID).
		Int("priorScore", attempt.Score).
		Int("newScore", req.Score).
		Msg("Score override")

	attempt.Score = req.Score
	if err := s.attemptRepo.UpdateScore(attempt); err != nil {
		log.Error().Err(err).Uint("contestID", contestID).Uint("userID", userID).Msg("Score override write failed")
		return nil, fmt.Errorf("updating score: %w", err)
	}
	return attemptToDTO(attempt)
}

func attemptToDTO(attempt *model.Attempt) (*dto.AttemptResponseDTO, error) {
	var resp dto.AttemptResponseDTO
	if err := copier.Copy(&resp, attempt); err != nil {
		return nil, fmt.Errorf("preparing attempt response: %w", err)
	}
	return &resp, nil
}
