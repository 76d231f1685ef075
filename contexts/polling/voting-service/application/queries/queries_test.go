package queries

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"pollhub/contexts/polling/voting-service/adapters/memory"
	"pollhub/contexts/polling/voting-service/domain/entities"
	domainerrors "pollhub/contexts/polling/voting-service/domain/errors"
	"pollhub/contexts/polling/voting-service/domain/valueobjects"
)

var now = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

func question(id string, publishAt time.Time, closeAt *time.Time) entities.Question {
	return entities.Question{QuestionID: id, Text: "Question " + id, PublishAt: publishAt, CloseAt: closeAt}
}

func TestIndexWithNoQuestions(t *testing.T) {
	uc := IndexUseCase{Questions: memory.NewStore(memory.Seed{})}
	view, err := uc.Index(context.Background(), now)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(view.Questions) != 0 {
		t.Fatalf("expected empty index, got %d", len(view.Questions))
	}
}

func TestIndexFiltersFutureAndOrdersNewestFirst(t *testing.T) {
	store := memory.NewStore(memory.Seed{Questions: []entities.Question{
		question("past-30d", now.AddDate(0, 0, -30), nil),
		question("past-5d", now.AddDate(0, 0, -5), nil),
		question("future", now.AddDate(0, 0, 30), nil),
		question("recent", now.Add(-time.Hour), nil),
	}})
	view, err := IndexUseCase{Questions: store}.Index(context.Background(), now)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	got := make([]string, 0, len(view.Questions))
	for _, item := range view.Questions {
		got = append(got, item.Question.QuestionID)
	}
	want := []string{"recent", "past-5d", "past-30d"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !view.Questions[0].WasPublishedRecently || view.Questions[1].WasPublishedRecently {
		t.Fatalf("unexpected recency flags: %+v", view.Questions)
	}
}

func TestIndexLimit(t *testing.T) {
	seed := memory.Seed{}
	for i := 0; i < 8; i++ {
		seed.Questions = append(seed.Questions, question(fmt.Sprintf("q-%d", i), now.Add(-time.Duration(i+1)*time.Hour), nil))
	}
	store := memory.NewStore(seed)

	view, err := IndexUseCase{Questions: store}.Index(context.Background(), now)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(view.Questions) != 5 {
		t.Fatalf("expected default limit of 5, got %d", len(view.Questions))
	}
	if view.Questions[0].Question.QuestionID != "q-0" {
		t.Fatalf("expected newest first, got %s", view.Questions[0].Question.QuestionID)
	}

	view, err = IndexUseCase{Questions: store, Limit: 2}.Index(context.Background(), now)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(view.Questions) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(view.Questions))
	}
}

func TestIndexRequiresReferenceTime(t *testing.T) {
	_, err := IndexUseCase{Questions: memory.NewStore(memory.Seed{})}.Index(context.Background(), time.Time{})
	if !errors.Is(err, domainerrors.ErrReferenceTimeRequired) {
		t.Fatalf("expected ErrReferenceTimeRequired, got %v", err)
	}
}

func newPollStore() *memory.Store {
	closeAt := now.Add(-time.Hour)
	return memory.NewStore(memory.Seed{
		Questions: []entities.Question{
			question("q-open", now.Add(-24*time.Hour), nil),
			question("q-future", now.Add(24*time.Hour), nil),
			question("q-closed", now.Add(-24*time.Hour), &closeAt),
		},
		Choices: []entities.Choice{
			{ChoiceID: "c-a", QuestionID: "q-open", Text: "A", CreatedAt: now.Add(-3 * time.Hour)},
			{ChoiceID: "c-b", QuestionID: "q-open", Text: "B", CreatedAt: now.Add(-2 * time.Hour)},
			{ChoiceID: "c-c", QuestionID: "q-open", Text: "C", CreatedAt: now.Add(-1 * time.Hour)},
			{ChoiceID: "c-x", QuestionID: "q-closed", Text: "X"},
		},
		Votes: []entities.Vote{
			{VoteID: "v-1", UserID: "user-1", ChoiceID: "c-a", QuestionID: "q-open"},
			{VoteID: "v-2", UserID: "user-2", ChoiceID: "c-a", QuestionID: "q-open"},
			{VoteID: "v-3", UserID: "user-3", ChoiceID: "c-b", QuestionID: "q-open"},
			{VoteID: "v-4", UserID: "user-1", ChoiceID: "c-x", QuestionID: "q-closed"},
		},
	})
}

func TestDetailReportsSelection(t *testing.T) {
	store := newPollStore()
	uc := DetailUseCase{Questions: store, Choices: store, Votes: store}
	ctx := context.Background()

	user, _ := valueobjects.NewAuthenticatedIdentity("user-3")
	view, err := uc.Detail(ctx, DetailQuery{QuestionID: "q-open", Identity: user, Now: now})
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(view.Choices) != 3 || view.Choices[0].ChoiceID != "c-a" {
		t.Fatalf("expected choices in creation order, got %+v", view.Choices)
	}
	if view.SelectedChoiceID != "c-b" || !view.HasSelection() {
		t.Fatalf("expected selection c-b, got %q", view.SelectedChoiceID)
	}

	view, err = uc.Detail(ctx, DetailQuery{QuestionID: "q-open", Identity: valueobjects.Anonymous(), Now: now})
	if err != nil {
		t.Fatalf("anonymous detail: %v", err)
	}
	if view.HasSelection() {
		t.Fatalf("anonymous detail must not carry a selection")
	}

	fresh, _ := valueobjects.NewAuthenticatedIdentity("user-9")
	view, err = uc.Detail(ctx, DetailQuery{QuestionID: "q-open", Identity: fresh, Now: now})
	if err != nil || view.HasSelection() {
		t.Fatalf("expected no selection for new voter: %+v %v", view, err)
	}
}

func TestDetailGating(t *testing.T) {
	store := newPollStore()
	uc := DetailUseCase{Questions: store, Choices: store, Votes: store}
	cases := []struct {
		question string
		want     error
	}{
		{question: "q-missing", want: domainerrors.ErrQuestionNotFound},
		{question: "q-future", want: domainerrors.ErrNotPublished},
		{question: "q-closed", want: domainerrors.ErrVotingClosed},
	}
	for _, tc := range cases {
		t.Run(tc.question, func(t *testing.T) {
			_, err := uc.Detail(context.Background(), DetailQuery{QuestionID: tc.question, Now: now})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTallyIncludesZeroChoices(t *testing.T) {
	store := newPollStore()
	uc := ResultsUseCase{Questions: store, Choices: store, Votes: store}

	counts, err := uc.Tally(context.Background(), "q-open")
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	want := map[string]int{"c-a": 2, "c-b": 1, "c-c": 0}
	if len(counts) != len(want) {
		t.Fatalf("expected %v, got %v", want, counts)
	}
	for choiceID, votes := range want {
		if count, ok := counts[choiceID]; !ok || count != votes {
			t.Fatalf("choice %s: expected %d, got %d (present=%v)", choiceID, votes, count, ok)
		}
	}

	future, err := uc.Tally(context.Background(), "q-future")
	if err != nil || len(future) != 0 {
		t.Fatalf("tally is not publish-gated: %v %v", future, err)
	}
	if _, err := uc.Tally(context.Background(), "q-missing"); !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestResults(t *testing.T) {
	store := newPollStore()
	uc := ResultsUseCase{Questions: store, Choices: store, Votes: store}
	ctx := context.Background()

	view, err := uc.Results(ctx, "q-open", now)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if view.TotalVotes != 3 || len(view.Choices) != 3 {
		t.Fatalf("unexpected results %+v", view)
	}

	closed, err := uc.Results(ctx, "q-closed", now)
	if err != nil {
		t.Fatalf("closed results must stay visible: %v", err)
	}
	if closed.TotalVotes != 1 {
		t.Fatalf("expected 1 vote on closed question, got %d", closed.TotalVotes)
	}

	if _, err := uc.Results(ctx, "q-future", now); !errors.Is(err, domainerrors.ErrNotPublished) {
		t.Fatalf("expected ErrNotPublished, got %v", err)
	}
}
