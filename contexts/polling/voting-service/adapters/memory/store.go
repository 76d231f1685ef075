package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pollhub/contexts/polling/voting-service/domain/entities"
	domainerrors "pollhub/contexts/polling/voting-service/domain/errors"
	"pollhub/contexts/polling/voting-service/ports"

	"github.com/google/uuid"
)

// Seed is the initial content of a Store.
type Seed struct {
	Questions []entities.Question
	Choices   []entities.Choice
	Votes     []entities.Vote
}

type Store struct {
	mu sync.RWMutex

	questions map[string]entities.Question
	choices   map[string]entities.Choice
	votes     map[string]entities.Vote
	// voteKeys maps voteKey(user, question) to the vote id holding it.
	voteKeys map[string]string

	locks voteLocks
}

func NewStore(seed Seed) *Store {
	s := &Store{
		questions: make(map[string]entities.Question, len(seed.Questions)),
		choices:   make(map[string]entities.Choice, len(seed.Choices)),
		votes:     make(map[string]entities.Vote, len(seed.Votes)),
		voteKeys:  make(map[string]string, len(seed.Votes)),
		locks:     voteLocks{held: make(map[string]*voteLock)},
	}
	for _, question := range seed.Questions {
		s.questions[question.QuestionID] = question
	}
	for _, choice := range seed.Choices {
		s.choices[choice.ChoiceID] = choice
	}
	for _, vote := range seed.Votes {
		s.votes[vote.VoteID] = vote
		s.voteKeys[voteKey(vote.UserID, vote.QuestionID)] = vote.VoteID
	}
	return s
}

func (s *Store) GetQuestion(_ context.Context, questionID string) (entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[strings.TrimSpace(questionID)]
	if !ok {
		return entities.Question{}, domainerrors.ErrQuestionNotFound
	}
	return question, nil
}

func (s *Store) ListRecentQuestions(_ context.Context, now time.Time, limit int) ([]entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = ports.NormalizeLimit(limit)
	items := make([]entities.Question, 0, len(s.questions))
	for _, question := range s.questions {
		if question.PublishAt.After(now) {
			continue
		}
		items = append(items, question)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].PublishAt.Equal(items[j].PublishAt) {
			return items[i].QuestionID < items[j].QuestionID
		}
		return items[i].PublishAt.After(items[j].PublishAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) SaveQuestion(_ context.Context, question entities.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[strings.TrimSpace(question.QuestionID)] = question
	return nil
}

// DeleteQuestion removes the question and cascades to its choices and votes.
func (s *Store) DeleteQuestion(_ context.Context, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	questionID = strings.TrimSpace(questionID)
	if _, ok := s.questions[questionID]; !ok {
		return domainerrors.ErrQuestionNotFound
	}
	delete(s.questions, questionID)
	for id, choice := range s.choices {
		if choice.QuestionID == questionID {
			delete(s.choices, id)
		}
	}
	for id, vote := range s.votes {
		if vote.QuestionID == questionID {
			delete(s.votes, id)
			delete(s.voteKeys, voteKey(vote.UserID, vote.QuestionID))
		}
	}
	return nil
}

func (s *Store) GetChoice(_ context.Context, choiceID string) (entities.Choice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	choice, ok := s.choices[strings.TrimSpace(choiceID)]
	if !ok {
		return entities.Choice{}, domainerrors.ErrChoiceNotFound
	}
	return choice, nil
}

func (s *Store) ListChoices(_ context.Context, questionID string) ([]entities.Choice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Choice, 0)
	for _, choice := range s.choices {
		if choice.QuestionID == strings.TrimSpace(questionID) {
			items = append(items, choice)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ChoiceID < items[j].ChoiceID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) SaveChoice(_ context.Context, choice entities.Choice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[choice.QuestionID]; !ok {
		return domainerrors.ErrQuestionNotFound
	}
	s.choices[strings.TrimSpace(choice.ChoiceID)] = choice
	return nil
}

func (s *Store) FindVote(_ context.Context, userID string, questionID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voteID, ok := s.voteKeys[voteKey(strings.TrimSpace(userID), strings.TrimSpace(questionID))]
	if !ok {
		return entities.Vote{}, false, nil
	}
	return s.votes[voteID], true, nil
}

func (s *Store) SaveVote(_ context.Context, vote entities.Vote) (entities.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	choice, ok := s.choices[vote.ChoiceID]
	if !ok {
		return entities.Vote{}, domainerrors.ErrChoiceNotFound
	}
	vote.QuestionID = choice.QuestionID
	key := voteKey(vote.UserID, vote.QuestionID)
	if holder, ok := s.voteKeys[key]; ok && holder != vote.VoteID {
		return entities.Vote{}, domainerrors.ErrConflict
	}
	if previous, ok := s.votes[vote.VoteID]; ok {
		delete(s.voteKeys, voteKey(previous.UserID, previous.QuestionID))
		vote.CreatedAt = previous.CreatedAt
	}
	s.votes[vote.VoteID] = vote
	s.voteKeys[key] = vote.VoteID
	return vote, nil
}

func (s *Store) CountVotes(_ context.Context, questionID string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, vote := range s.votes {
		if vote.QuestionID == strings.TrimSpace(questionID) {
			counts[vote.ChoiceID]++
		}
	}
	return counts, nil
}

// WithVoteLock serializes fn per (user, question). Other keys are not blocked.
func (s *Store) WithVoteLock(
	ctx context.Context,
	userID string,
	questionID string,
	fn func(ctx context.Context) error,
) error {
	key := voteKey(strings.TrimSpace(userID), strings.TrimSpace(questionID))
	unlock := s.locks.acquire(key)
	defer unlock()
	return fn(ctx)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type voteLock struct {
	mu   sync.Mutex
	refs int
}

// voteLocks is a reference-counted keyed mutex; entries are dropped once no
// caller holds or waits on them.
type voteLocks struct {
	mu   sync.Mutex
	held map[string]*voteLock
}

func (l *voteLocks) acquire(key string) func() {
	l.mu.Lock()
	lock, ok := l.held[key]
	if !ok {
		lock = &voteLock{}
		l.held[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.held, key)
		}
		l.mu.Unlock()
	}
}

func voteKey(userID string, questionID string) string {
	return userID + "\x00" + questionID
}

var _ ports.EntityStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
