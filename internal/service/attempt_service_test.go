package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/Marmoset/internal/dto"
	"github.com/lshigami/Marmoset/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttemptFixture(t *testing.T, start, end time.Time) (*attemptService, *fakeContestRepo, *fakeAttemptRepo, uint) {
	t.Helper()
	attempts := newFakeAttemptRepo()
	contests := newFakeContestRepo(attempts)
	contest := model.Contest{
		Title:     "Speed Round",
		StartTime: &start,
		EndTime:   &end,
		Questions: []model.Question{
			{ID: 1, Points: 10, Options: []model.Option{{ID: 11, Correct: true}, {ID: 12}}},
			{ID: 2, Points: 5, Options: []model.Option{{ID: 21, Correct: true}, {ID: 22}}},
		},
	}
	require.NoError(t, contests.Create(&contest))

	svc := NewAttemptService(contests, attempts, NewScorerService()).(*attemptService)
	return svc, contests, attempts, contest.ID
}

func allCorrect() dto.AttemptSubmitDTO {
	return dto.AttemptSubmitDTO{Answers: []dto.AnswerSubmitDTO{
		{QuestionID: 1, OptionID: 11},
		{QuestionID: 2, OptionID: 21},
	}}
}

func TestSubmitOutsideActiveWindow(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(60 * time.Second)
	svc, _, _, contestID := newAttemptFixture(t, start, end)

	svc.now = func() time.Time { return start.Add(-time.Second) }
	_, err := svc.Submit(contestID, userIdentity, allCorrect())
	assert.True(t, errors.Is(err, model.ErrContestNotActive), "before start the contest is only scheduled")

	svc.now = func() time.Time { return end.Add(time.Second) }
	_, err = svc.Submit(contestID, userIdentity, allCorrect())
	assert.True(t, errors.Is(err, model.ErrContestNotActive), "after end the contest is completed")
}

func TestSubmitScoresAndRecordsAttempt(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(60 * time.Second)
	svc, _, attempts, contestID := newAttemptFixture(t, start, end)

	submittedAt := start.Add(time.Second)
	svc.now = func() time.Time { return submittedAt }

	resp, err := svc.Submit(contestID, userIdentity, dto.AttemptSubmitDTO{Answers: []dto.AnswerSubmitDTO{
		{QuestionID: 1, OptionID: 11},
		{QuestionID: 2, OptionID: 22}, // wrong
	}})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Score)
	assert.Equal(t, 1, resp.CorrectCount)
	assert.Equal(t, 2, resp.AnswerCount)
	assert.True(t, resp.CompletedAt.Equal(submittedAt))

	stored, err := attempts.FindByContestAndUser(contestID, userIdentity.UserID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Score)
	assert.Equal(t, userIdentity.Username, stored.Username)
}

func TestSubmitTwiceIsDuplicate(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _, contestID := newAttemptFixture(t, start, start.Add(time.Hour))
	svc.now = func() time.Time { return start.Add(time.Minute) }

	_, err := svc.Submit(contestID, userIdentity, allCorrect())
	require.NoError(t, err)

	_, err = svc.Submit(contestID, userIdentity, allCorrect())
	assert.True(t, errors.Is(err, model.ErrDuplicateAttempt))
}

func TestConcurrentSubmissionsYieldExactlyOneAttempt(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, attempts, contestID := newAttemptFixture(t, start, start.Add(time.Hour))
	svc.now = func() time.Time { return start.Add(time.Minute) }

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(contestID, userIdentity, allCorrect())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, duplicates := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, model.ErrDuplicateAttempt):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one submission wins")
	assert.Equal(t, workers-1, duplicates)
	assert.Equal(t, 1, attempts.countByContest(contestID))
}

func TestSubmitRequiresPlayerRole(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, attempts, contestID := newAttemptFixture(t, start, start.Add(time.Hour))
	svc.now = func() time.Time { return start.Add(time.Minute) }

	_, err := svc.Submit(contestID, Identity{}, allCorrect())
	assert.True(t, errors.Is(err, model.ErrUnauthorized), "no identity must fail closed")
	assert.Equal(t, 0, attempts.countByContest(contestID))

	_, err = svc.Submit(contestID, userIdentity, allCorrect())
	assert.NoError(t, err)
}

func TestSubmitUnknownContest(t *testing.T) {
	svc := NewAttemptService(newFakeContestRepo(newFakeAttemptRepo()), newFakeAttemptRepo(), NewScorerService())
	_, err := svc.Submit(777, userIdentity, allCorrect())
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestGetAttempt(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _, contestID := newAttemptFixture(t, start, start.Add(time.Hour))
	svc.now = func() time.Time { return start.Add(time.Minute) }

	_, err := svc.Get(contestID, userIdentity.UserID)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	_, err = svc.Submit(contestID, userIdentity, allCorrect())
	require.NoError(t, err)

	attempt, err := svc.Get(contestID, userIdentity.UserID)
	require.NoError(t, err)
	assert.Equal(t, 15, attempt.Score)
}

func TestOverrideScoreRequiresAdmin(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _, contestID := newAttemptFixture(t, start, start.Add(time.Hour))
	svc.now = func() time.Time { return start.Add(time.Minute) }
	_, err := svc.Submit(contestID, userIdentity, allCorrect())
	require.NoError(t, err)

	_, err = svc.OverrideScore(contestID, userIdentity.UserID, dto.ScoreOverrideDTO{Score: 3}, subIdentity)
	assert.True(t, errors.Is(err, model.ErrUnauthorized), "SUB_ADMIN may not override scores")

	overridden, err := svc.OverrideScore(contestID, userIdentity.UserID, dto.ScoreOverrideDTO{Score: 3}, adminIdentity)
	require.NoError(t, err)
	assert.Equal(t, 3, overridden.Score)

	stored, err := svc.Get(contestID, userIdentity.UserID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Score)
}

func TestOverrideScoreRejectedAfterFreeze(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, contests, _, contestID := newAttemptFixture(t, start, start.Add(time.Hour))
	svc.now = func() time.Time { return start.Add(time.Minute) }
	_, err := svc.Submit(contestID, userIdentity, allCorrect())
	require.NoError(t, err)

	frozen, err := newFakeLeaderboardRepo(contests).FreezeIfAbsent(contestID, nil)
	require.NoError(t, err)
	require.True(t, frozen)

	_, err = svc.OverrideScore(contestID, userIdentity.UserID, dto.ScoreOverrideDTO{Score: 3}, adminIdentity)
	assert.True(t, errors.Is(err, model.ErrLeaderboardFrozen))
}

func TestScoreWriteRefusedWhenFreezeRacesOverride(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, contests, attempts, contestID := newAttemptFixture(t, start, start.Add(time.Hour))
	svc.now = func() time.Time { return start.Add(time.Minute) }
	_, err := svc.Submit(contestID, userIdentity, allCorrect())
	require.NoError(t, err)

	// The override's own frozen check already passed; the freeze lands before
	// the write. The conditional write itself must refuse the edit.
	attempt, err := attempts.FindByContestAndUser(contestID, userIdentity.UserID)
	require.NoError(t, err)

	frozen, err := newFakeLeaderboardRepo(contests).FreezeIfAbsent(contestID, nil)
	require.NoError(t, err)
	require.True(t, frozen)

	attempt.Score = 99
	err = attempts.UpdateScore(attempt)
	assert.True(t, errors.Is(err, model.ErrLeaderboardFrozen))

	stored, err := attempts.FindByContestAndUser(contestID, userIdentity.UserID)
	require.NoError(t, err)
	assert.Equal(t, 15, stored.Score, "the frozen board still reflects the stored attempt")
}
