package service

import (
	"sync"
	"time"

	"github.com/lshigami/Marmoset/internal/model"
	"github.com/lshigami/Marmoset/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// In-memory repository fakes. They honor the same contracts as the postgres
// implementations, including the atomic conditional insert on attempts and
// the compare-and-set on the freeze flag.

type fakeContestRepo struct {
	mu       sync.Mutex
	nextID   uint
	contests map[uint]*model.Contest
	attempts *fakeAttemptRepo
	frozen   map[uint]int // contestID -> frozen entry count
}

func newFakeContestRepo(attempts *fakeAttemptRepo) *fakeContestRepo {
	r := &fakeContestRepo{
		nextID:   1,
		contests: make(map[uint]*model.Contest),
		attempts: attempts,
		frozen:   make(map[uint]int),
	}
	attempts.contests = r
	return r
}

func (r *fakeContestRepo) Create(contest *model.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	contest.ID = r.nextID
	r.nextID++
	contest.CreatedAt = time.Now()
	stored := *contest
	r.contests[contest.ID] = &stored
	return nil
}

func (r *fakeContestRepo) FindByID(id uint) (*model.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contest, ok := r.contests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *contest
	clone.Questions = nil
	return &clone, nil
}

func (r *fakeContestRepo) FindByIDWithQuestions(id uint) (*model.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contest, ok := r.contests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *contest
	return &clone, nil
}

func (r *fakeContestRepo) FindByIDWithCounts(id uint) (*repository.ContestWithCounts, error) {
	r.mu.Lock()
	contest, ok := r.contests[id]
	if !ok {
		r.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	clone := *contest
	frozenCount := r.frozen[id]
	r.mu.Unlock()

	return &repository.ContestWithCounts{
		Contest:          clone,
		QuestionCount:    len(clone.Questions),
		ParticipantCount: r.attempts.countByContest(id),
		LeaderboardCount: frozenCount,
	}, nil
}

func (r *fakeContestRepo) FindAllWithCounts() ([]repository.ContestWithCounts, error) {
	r.mu.Lock()
	ids := make([]uint, 0, len(r.contests))
	for id := range r.contests {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	var results []repository.ContestWithCounts
	for _, id := range ids {
		cwc, err := r.FindByIDWithCounts(id)
		if err != nil {
			return nil, err
		}
		results = append(results, *cwc)
	}
	return results, nil
}

func (r *fakeContestRepo) FindCompletedWithCounts(now time.Time) ([]repository.ContestWithCounts, error) {
	all, err := r.FindAllWithCounts()
	if err != nil {
		return nil, err
	}
	var completed []repository.ContestWithCounts
	for _, cwc := range all {
		if cwc.Contest.EndTime != nil && !now.Before(*cwc.Contest.EndTime) {
			completed = append(completed, cwc)
		}
	}
	return completed, nil
}

func (r *fakeContestRepo) Update(contest *model.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.contests[contest.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *contest
	// Mirrors the gorm repository's Omit: only FreezeIfAbsent writes the
	// freeze flag, so a stale row here never reverts it.
	stored.LeaderboardFrozen = current.LeaderboardFrozen
	if stored.Questions == nil {
		stored.Questions = current.Questions
	}
	r.contests[contest.ID] = &stored
	return nil
}

type fakeQuestionRepo struct {
	contests *fakeContestRepo
}

func newFakeQuestionRepo(contests *fakeContestRepo) *fakeQuestionRepo {
	return &fakeQuestionRepo{contests: contests}
}

func (r *fakeQuestionRepo) FindByContestID(contestID uint) ([]model.Question, error) {
	contest, err := r.contests.FindByIDWithQuestions(contestID)
	if err != nil {
		return nil, err
	}
	return contest.Questions, nil
}

func (r *fakeQuestionRepo) ReplaceForContest(contestID uint, questions []model.Question) error {
	r.contests.mu.Lock()
	defer r.contests.mu.Unlock()
	contest, ok := r.contests.contests[contestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range questions {
		questions[i].ContestID = contestID
	}
	contest.Questions = questions
	return nil
}

type attemptKey struct {
	contestID uint
	userID    uint
}

type fakeAttemptRepo struct {
	mu       sync.Mutex
	nextID   uint
	attempts map[attemptKey]*model.Attempt
	contests *fakeContestRepo
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{nextID: 1, attempts: make(map[attemptKey]*model.Attempt)}
}

func (r *fakeAttemptRepo) CreateIfAbsent(attempt *model.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := attemptKey{attempt.ContestID, attempt.UserID}
	if _, exists := r.attempts[key]; exists {
		return model.ErrDuplicateAttempt
	}
	attempt.ID = r.nextID
	r.nextID++
	stored := *attempt
	r.attempts[key] = &stored
	return nil
}

func (r *fakeAttemptRepo) FindByContestAndUser(contestID, userID uint) (*model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt, ok := r.attempts[attemptKey{contestID, userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *attempt
	return &clone, nil
}

func (r *fakeAttemptRepo) FindAllByContest(contestID uint) ([]model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var attempts []model.Attempt
	for key, attempt := range r.attempts {
		if key.contestID == contestID {
			attempts = append(attempts, *attempt)
		}
	}
	return attempts, nil
}

func (r *fakeAttemptRepo) UpdateScore(attempt *model.Attempt) error {
	// Mirrors the gorm repository's conditional write: a freeze landing
	// between the service's check and this write still refuses the edit.
	if r.contests != nil {
		r.contests.mu.Lock()
		contest, ok := r.contests.contests[attempt.ContestID]
		frozen := ok && contest.LeaderboardFrozen
		r.contests.mu.Unlock()
		if frozen {
			return model.ErrLeaderboardFrozen
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.attempts[attemptKey{attempt.ContestID, attempt.UserID}]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Score = attempt.Score
	stored.CorrectCount = attempt.CorrectCount
	return nil
}

func (r *fakeAttemptRepo) countByContest(contestID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key := range r.attempts {
		if key.contestID == contestID {
			count++
		}
	}
	return count
}

type fakeLeaderboardRepo struct {
	mu       sync.Mutex
	contests *fakeContestRepo
	entries  map[uint][]model.LeaderboardEntry
	freezes  int
}

func newFakeLeaderboardRepo(contests *fakeContestRepo) *fakeLeaderboardRepo {
	return &fakeLeaderboardRepo{contests: contests, entries: make(map[uint][]model.LeaderboardEntry)}
}

func (r *fakeLeaderboardRepo) FreezeIfAbsent(contestID uint, entries []model.LeaderboardEntry) (bool, error) {
	// Held for the whole operation so losers of the CAS never observe the
	// frozen flag without the entries; the transaction gives the same
	// guarantee in postgres.
	r.mu.Lock()
	defer r.mu.Unlock()

	r.contests.mu.Lock()
	contest, ok := r.contests.contests[contestID]
	if !ok {
		r.contests.mu.Unlock()
		return false, gorm.ErrRecordNotFound
	}
	if contest.LeaderboardFrozen {
		r.contests.mu.Unlock()
		return false, nil
	}
	contest.LeaderboardFrozen = true
	r.contests.frozen[contestID] = len(entries)
	r.contests.mu.Unlock()

	r.entries[contestID] = append([]model.LeaderboardEntry(nil), entries...)
	r.freezes++
	return true, nil
}

func (r *fakeLeaderboardRepo) FindByContest(contestID uint) ([]model.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.LeaderboardEntry(nil), r.entries[contestID]...), nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	// Mirror the model's BeforeSave hook, which gorm runs on insert.
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	stored := *user
	r.users[user.Username] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}
