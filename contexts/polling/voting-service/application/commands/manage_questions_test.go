package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pollhub/contexts/polling/voting-service/adapters/memory"
	domainerrors "pollhub/contexts/polling/voting-service/domain/errors"
	"pollhub/contexts/polling/voting-service/domain/valueobjects"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newQuestionUseCase(store *memory.Store) QuestionUseCase {
	return QuestionUseCase{
		Questions: store,
		Choices:   store,
		Clock:     fixedClock{now: now},
		IDGen:     store,
	}
}

func TestCreateQuestionDefaultsPublishToNow(t *testing.T) {
	store := memory.NewStore(memory.Seed{})
	question, err := newQuestionUseCase(store).CreateQuestion(context.Background(), CreateQuestionCommand{Text: "  What's new?  "})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	if question.Text != "What's new?" || !question.PublishAt.Equal(now) || question.CloseAt != nil {
		t.Fatalf("unexpected question %+v", question)
	}
	stored, err := store.GetQuestion(context.Background(), question.QuestionID)
	if err != nil || stored.Text != question.Text {
		t.Fatalf("question not stored: %+v %v", stored, err)
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	closeBefore := now.Add(-time.Hour)
	cases := []struct {
		name string
		cmd  CreateQuestionCommand
		want error
	}{
		{name: "empty text", cmd: CreateQuestionCommand{Text: "  "}, want: domainerrors.ErrInvalidQuestionInput},
		{name: "text too long", cmd: CreateQuestionCommand{Text: strings.Repeat("q", 201)}, want: domainerrors.ErrInvalidQuestionInput},
		{name: "close before publish", cmd: CreateQuestionCommand{Text: "Q", PublishAt: now, CloseAt: &closeBefore}, want: domainerrors.ErrInvalidQuestionWindow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newQuestionUseCase(memory.NewStore(memory.Seed{})).CreateQuestion(context.Background(), tc.cmd)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAddChoice(t *testing.T) {
	store := memory.NewStore(memory.Seed{})
	uc := newQuestionUseCase(store)
	ctx := context.Background()

	question, err := uc.CreateQuestion(ctx, CreateQuestionCommand{Text: "Pick one"})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	choice, err := uc.AddChoice(ctx, AddChoiceCommand{QuestionID: question.QuestionID, Text: "First"})
	if err != nil {
		t.Fatalf("add choice: %v", err)
	}
	if choice.QuestionID != question.QuestionID {
		t.Fatalf("choice attached to %q", choice.QuestionID)
	}

	if _, err := uc.AddChoice(ctx, AddChoiceCommand{QuestionID: "missing", Text: "Orphan"}); !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	if _, err := uc.AddChoice(ctx, AddChoiceCommand{QuestionID: question.QuestionID, Text: strings.Repeat("c", 201)}); !errors.Is(err, domainerrors.ErrInvalidChoiceInput) {
		t.Fatalf("expected ErrInvalidChoiceInput, got %v", err)
	}
}

func TestDeleteQuestionCascades(t *testing.T) {
	store := memory.NewStore(memory.Seed{})
	admin := newQuestionUseCase(store)
	votes := newVoteUseCase(store)
	ctx := context.Background()

	question, err := admin.CreateQuestion(ctx, CreateQuestionCommand{Text: "Doomed", PublishAt: now.Add(-time.Hour)})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	choice, err := admin.AddChoice(ctx, AddChoiceCommand{QuestionID: question.QuestionID, Text: "Only"})
	if err != nil {
		t.Fatalf("add choice: %v", err)
	}
	user, _ := valueobjects.NewAuthenticatedIdentity("user-1")
	if _, err := votes.CastVote(ctx, CastVoteCommand{Identity: user, QuestionID: question.QuestionID, ChoiceID: choice.ChoiceID, Now: now}); err != nil {
		t.Fatalf("cast vote: %v", err)
	}

	if err := admin.DeleteQuestion(ctx, question.QuestionID); err != nil {
		t.Fatalf("delete question: %v", err)
	}
	if _, err := store.GetChoice(ctx, choice.ChoiceID); !errors.Is(err, domainerrors.ErrChoiceNotFound) {
		t.Fatalf("expected choice to be removed, got %v", err)
	}
	if _, found, _ := store.FindVote(ctx, "user-1", question.QuestionID); found {
		t.Fatalf("expected vote to be removed")
	}
	if err := admin.DeleteQuestion(ctx, question.QuestionID); !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound on second delete, got %v", err)
	}
}
