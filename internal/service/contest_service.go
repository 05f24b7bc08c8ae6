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

type ContestService interface {
	Create(req dto.ContestCreateDTO, actor Identity) (*dto.ContestDetailDTO, error)
	Get(id uint) (*dto.ContestDetailDTO, error)
	Update(id uint, req dto.ContestUpdateDTO, actor Identity) (*dto.ContestDetailDTO, error)
	ListAll() ([]dto.ContestSummaryDTO, error)
	ListCompleted() ([]dto.ContestSummaryDTO, error)
}

type contestService struct {
	contestRepo  repository.ContestRepository
	questionRepo repository.QuestionRepository
	now          func() time.Time
}

func NewContestService(contestRepo repository.ContestRepository, questionRepo repository.QuestionRepository) ContestService {
	return &contestService{
		contestRepo:  contestRepo,
		questionRepo: questionRepo,
		now:          time.Now,
	}
}

func (s *contestService) Create(req dto.ContestCreateDTO, actor Identity) (*dto.ContestDetailDTO, error) {
	if !actor.Allowed(model.ActionManageContests) {
		return nil, model.ErrUnauthorized
	}

	contest := model.Contest{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Questions:   questionsFromDTO(req.Questions),
	}
	if !contest.ScheduleValid() {
		return nil, model.ErrInvalidSchedule
	}
	if contest.Price < 0 {
		return nil, model.ErrInvalidPrice
	}

	if err := s.contestRepo.Create(&contest); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Create contest failed")
		return nil, fmt.Errorf("creating contest: %w", err)
	}
	log.Info().Uint("contestID", contest.ID).Uint("actorID", actor.UserID).Msg("Contest created")

	return s.Get(contest.ID)
}

func (s *contestService) Get(id uint) (*dto.ContestDetailDTO, error) {
	counts, err := s.contestRepo.FindByIDWithCounts(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("fetching contest %d: %w", id, err)
	}

	questions, err := s.questionRepo.FindByContestID(id)
	if err != nil {
		return nil, fmt.Errorf("fetching questions for contest %d: %w", id, err)
	}

	detail := dto.ContestDetailDTO{
		ContestSummaryDTO: s.summaryFromCounts(*counts),
	}
	if err := copier.Copy(&detail.Questions, &questions); err != nil {
		log.Error().Err(err).Uint("contestID", id).Msg("Failed to copy questions to DTO")
		return nil, fmt.Errorf("preparing contest response: %w", err)
	}
	return &detail, nil
}

func (s *contestService) Update(id uint, req dto.ContestUpdateDTO, actor Identity) (*dto.ContestDetailDTO, error) {
	if !actor.Allowed(model.ActionManageContests) {
		return nil, model.ErrUnauthorized
	}

	contest, err := s.contestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("fetching contest %d: %w", id, err)
	}

	touchesLocked := req.StartTime != nil || req.EndTime != nil || len(req.Questions) > 0
	if touchesLocked && contest.Locked(s.now()) {
		return nil, model.ErrImmutableField
	}

	if req.Title != nil {
		contest.Title = *req.Title
	}
	if req.Description != nil {
		contest.Description = *req.Description
	}
	if req.Price != nil {
		contest.Price = *req.Price
	}
	if req.StartTime != nil {
		contest.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		contest.EndTime = req.EndTime
	}
	if !contest.ScheduleValid() {
		return nil, model.ErrInvalidSchedule
	}
	if contest.Price < 0 {
		return nil, model.ErrInvalidPrice
	}

	if err := s.contestRepo.Update(contest); err != nil {
		log.Error().Err(err).Uint("contestID", id).Msg("Update contest failed")
		return nil, fmt.Errorf("updating contest %d: %w", id, err)
	}

	if len(req.Questions) > 0 {
		if err := s.questionRepo.ReplaceForContest(id, questionsFromDTO(req.Questions)); err != nil {
			log.Error().Err(err).Uint("contestID", id).Msg("Replacing question set failed")
			return nil, fmt.Errorf("replacing questions for contest %d: %w", id, err)
		}
	}

	log.Info().Uint("contestID", id).Uint("actorID", actor.UserID).Msg("Contest updated")
	return s.Get(id)
}

func (s *contestService) ListAll() ([]dto.ContestSummaryDTO, error) {
	results, err := s.contestRepo.FindAllWithCounts()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list contests")
		return nil, fmt.Errorf("listing contests: %w", err)
	}
	summaries := make([]dto.ContestSummaryDTO, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, s.summaryFromCounts(r))
	}
	return summaries, nil
}

func (s *contestService) ListCompleted() ([]dto.ContestSummaryDTO, error) {
	results, err := s.contestRepo.FindCompletedWithCounts(s.now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list completed contests")
		return nil, fmt.Errorf("listing completed contests: %w", err)
	}
	summaries := make([]dto.ContestSummaryDTO, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, s.summaryFromCounts(r))
	}
	return summaries, nil
}

func (s *contestService) summaryFromCounts(r repository.ContestWithCounts) dto.ContestSummaryDTO {
	leaderboardCount := r.LeaderboardCount
	if !r.Contest.LeaderboardFrozen {
		// Until the freeze, the board is derived one row per attempt.
		leaderboardCount = r.ParticipantCount
	}
	return dto.ContestSummaryDTO{
		ID:               r.Contest.ID,
		Title:            r.Contest.Title,
		Description:      r.Contest.Description,
		Price:            r.Contest.Price,
		Status:           string(r.Contest.StatusAt(s.now())),
		StartTime:        r.Contest.StartTime,
		EndTime:          r.Contest.EndTime,
		QuestionCount:    r.QuestionCount,
		ParticipantCount: r.ParticipantCount,
		LeaderboardCount: leaderboardCount,
		CreatedAt:        r.Contest.CreatedAt,
	}
}

func questionsFromDTO(dtos []dto.QuestionCreateDTO) []model.Question {
	questions := make([]model.Question, 0, len(dtos))
	for _, q := range dtos {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		options := make([]model.Option, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, model.Option{Text: o.Text, Correct: o.Correct})
		}
		questions = append(questions, model.Question{
			Prompt:         q.Prompt,
			Points:         points,
			OrderInContest: q.OrderInContest,
			Options:        options,
		})
	}
	return questions
}
