package model

import "errors"

var (
	// ErrUnauthenticated is returned when no credential or an invalid/expired one is presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized is returned when a verified identity lacks the role for an action.
	ErrUnauthorized = errors.New("insufficient role")
	// ErrNotFound indicates the requested contest, attempt or user does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidSchedule indicates a contest window where start is not before end.
	ErrInvalidSchedule = errors.New("contest start must be before end")
	// ErrInvalidPrice indicates a negative contest price.
	ErrInvalidPrice = errors.New("contest price must not be negative")
	// ErrImmutableField indicates an edit of dates or questions on an active or completed contest.
	ErrImmutableField = errors.New("field is immutable once the contest is active")
	// ErrContestNotActive indicates a submission outside the contest's active window.
	ErrContestNotActive = errors.New("contest is not active")
	// ErrDuplicateAttempt indicates a second submission for the same (contest, participant) pair.
	ErrDuplicateAttempt = errors.New("participant already attempted this contest")
	// ErrLeaderboardFrozen indicates a score edit after the leaderboard was frozen.
	ErrLeaderboardFrozen = errors.New("leaderboard already frozen")
)
