package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lshigami/Marmoset/internal/dto"
	"github.com/lshigami/Marmoset/internal/model"
	"github.com/lshigami/Marmoset/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type LeaderboardService interface {
	// Rank returns the ranking for a contest: recomputed from attempts while
	// the contest is active, frozen exactly once at completion.
	Rank(ctx context.Context, contestID uint) (*dto.LeaderboardResponseDTO, error)
}

type leaderboardService struct {
	contestRepo     repository.ContestRepository
	attemptRepo     repository.AttemptRepository
	leaderboardRepo repository.LeaderboardRepository
	cache           *repository.LeaderboardCache
	now             func() time.Time
}

func NewLeaderboardService(
	contestRepo repository.ContestRepository,
	attemptRepo repository.AttemptRepository,
	leaderboardRepo repository.LeaderboardRepository,
	cache *repository.LeaderboardCache,
) LeaderboardService {
	return &leaderboardService{
		contestRepo:     contestRepo,
		attemptRepo:     attemptRepo,
		leaderboardRepo: leaderboardRepo,
		cache:           cache,
		now:             time.Now,
	}
}

func (s *leaderboardService) Rank(ctx context.Context, contestID uint) (*dto.LeaderboardResponseDTO, error) {
	contest, err := s.contestRepo.FindByID(contestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("fetching contest %d: %w", contestID, err)
	}

	status := contest.StatusAt(s.now())
	resp := &dto.LeaderboardResponseDTO{
		ContestID: contestID,
		Status:    string(status),
		Entries:   []dto.LeaderboardEntryDTO{},
	}

	switch status {
	case model.ContestStatusCompleted:
		entries, err := s.frozenEntries(ctx, contest)
		if err != nil {
			return nil, err
		}
		resp.Frozen = true
		resp.Entries = entriesToDTO(entries)
	case model.ContestStatusActive:
		attempts, err := s.attemptRepo.FindAllByContest(contestID)
		if err != nil {
			return nil, fmt.Errorf("fetching attempts for contest %d: %w", contestID, err)
		}
		resp.Entries = entriesToDTO(RankAttempts(contestID, attempts))
	}
	// Draft/scheduled contests have no standings yet; the empty board is fine.
	return resp, nil
}

// frozenEntries returns the one true board for a completed contest, freezing
// it on first read. Concurrent first reads race on the repository's
// compare-and-set; losers read the winner's rows.
func (s *leaderboardService) frozenEntries(ctx context.Context, contest *model.Contest) ([]model.LeaderboardEntry, error) {
	if contest.LeaderboardFrozen {
		if cached, ok := s.cache.Get(ctx, contest.ID); ok {
			return cached, nil
		}
		entries, err := s.leaderboardRepo.FindByContest(contest.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching frozen leaderboard for contest %d: %w", contest.ID, err)
		}
		s.cache.Set(ctx, contest.ID, entries)
		return entries, nil
	}

	attempts, err := s.attemptRepo.FindAllByContest(contest.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching attempts for contest %d: %w", contest.ID, err)
	}
	computed := RankAttempts(contest.ID, attempts)

	won, err := s.leaderboardRepo.FreezeIfAbsent(contest.ID, computed)
	if err != nil {
		return nil, fmt.Errorf("freezing leaderboard for contest %d: %w", contest.ID, err)
	}
	if !won {
		// Another reader froze first; their rows are authoritative.
		entries, err := s.leaderboardRepo.FindByContest(contest.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching frozen leaderboard for contest %d: %w", contest.ID, err)
		}
		s.cache.Set(ctx, contest.ID, entries)
		return entries, nil
	}

	log.Info().Uint("contestID", contest.ID).Int("entries", len(computed)).Msg("Leaderboard frozen")
	s.cache.Set(ctx, contest.ID, computed)
	return computed, nil
}

// RankAttempts orders attempts into leaderboard entries: score descending,
// then earlier completion, then user ID for determinism. Attempts that tie on
// both score and completion time share a rank; ranks are dense.
func RankAttempts(contestID uint, attempts []model.Attempt) []model.LeaderboardEntry {
	sorted := make([]model.Attempt, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if !sorted[i].CompletedAt.Equal(sorted[j].CompletedAt) {
			return sorted[i].CompletedAt.Before(sorted[j].CompletedAt)
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	entries := make([]model.LeaderboardEntry, 0, len(sorted))
	rank := 0
	for i, a := range sorted {
		if i == 0 || a.Score != sorted[i-1].Score || !a.CompletedAt.Equal(sorted[i-1].CompletedAt) {
			rank++
		}
		entries = append(entries, model.LeaderboardEntry{
			ContestID:   contestID,
			UserID:      a.UserID,
			Username:    a.Username,
			Rank:        rank,
			Score:       a.Score,
			CompletedAt: a.CompletedAt,
		})
	}
	return entries
}

func entriesToDTO(entries []model.LeaderboardEntry) []dto.LeaderboardEntryDTO {
	dtos := make([]dto.LeaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, dto.LeaderboardEntryDTO{
			Rank:        e.Rank,
			UserID:      e.UserID,
			Username:    e.Username,
			Score:       e.Score,
			CompletedAt: e.CompletedAt,
		})
	}
	return dtos
}
