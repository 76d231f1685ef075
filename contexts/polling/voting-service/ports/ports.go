package ports

import (
	"context"
	"time"

	"pollhub/contexts/polling/voting-service/domain/entities"
)

// DefaultIndexLimit is the number of latest published questions on the index.
const DefaultIndexLimit = 5

type QuestionRepository interface {
	GetQuestion(ctx context.Context, questionID string) (entities.Question, error)
	ListRecentQuestions(ctx context.Context, now time.Time, limit int) ([]entities.Question, error)
	SaveQuestion(ctx context.Context, question entities.Question) error
	DeleteQuestion(ctx context.Context, questionID string) error
}

type ChoiceRepository interface {
	GetChoice(ctx context.Context, choiceID string) (entities.Choice, error)
	ListChoices(ctx context.Context, questionID string) ([]entities.Choice, error)
	SaveChoice(ctx context.Context, choice entities.Choice) error
}

// VoteRepository stores at most one vote per (user, question).
type VoteRepository interface {
	FindVote(ctx context.Context, userID string, questionID string) (entities.Vote, bool, error)
	// SaveVote inserts or updates by vote id. It returns ErrConflict when a
	// different vote already holds the (user, question) key.
	SaveVote(ctx context.Context, vote entities.Vote) (entities.Vote, error)
	CountVotes(ctx context.Context, questionID string) (map[string]int, error)
	// WithVoteLock runs fn atomically with respect to other calls for the same
	// (user, question) key. Store calls made through the ctx passed to fn join
	// the locked unit of work.
	WithVoteLock(ctx context.Context, userID string, questionID string, fn func(ctx context.Context) error) error
}

type EntityStore interface {
	QuestionRepository
	ChoiceRepository
	VoteRepository
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// NormalizeLimit maps non-positive limits to DefaultIndexLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultIndexLimit
	}
	return limit
}
