package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	application "pollhub/contexts/polling/voting-service/application"
	"pollhub/contexts/polling/voting-service/domain/entities"
	domainerrors "pollhub/contexts/polling/voting-service/domain/errors"
	"pollhub/contexts/polling/voting-service/domain/services"
	"pollhub/contexts/polling/voting-service/ports"
)

// CreateQuestionCommand creates a question. A zero PublishAt publishes at the
// clock's current time.
type CreateQuestionCommand struct {
	Text      string
	PublishAt time.Time
	CloseAt   *time.Time
}

type AddChoiceCommand struct {
	QuestionID string
	Text       string
}

// QuestionUseCase holds the administrative write paths for questions and
// their choices.
type QuestionUseCase struct {
	Questions ports.QuestionRepository
	Choices   ports.ChoiceRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc QuestionUseCase) CreateQuestion(ctx context.Context, cmd CreateQuestionCommand) (entities.Question, error) {
	logger := application.ResolveLogger(uc.Logger)
	text := strings.TrimSpace(cmd.Text)
	if !validText(text) {
		return entities.Question{}, domainerrors.ErrInvalidQuestionInput
	}
	now := uc.now()
	publishAt := cmd.PublishAt.UTC()
	if cmd.PublishAt.IsZero() {
		publishAt = now
	}
	var closeAt *time.Time
	if cmd.CloseAt != nil {
		value := cmd.CloseAt.UTC()
		closeAt = &value
	}
	if err := services.ValidateWindow(publishAt, closeAt); err != nil {
		logger.Warn("question window rejected",
			"event", "polls_question_window_invalid",
			"module", application.ModuleName,
			"layer", "application",
			"publish_at", publishAt,
			"close_at", closeAt,
		)
		return entities.Question{}, err
	}

	questionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Question{}, err
	}
	question := entities.Question{
		QuestionID: questionID,
		Text:       text,
		PublishAt:  publishAt,
		CloseAt:    closeAt,
		CreatedAt:  now,
	}
	if err := uc.Questions.SaveQuestion(ctx, question); err != nil {
		return entities.Question{}, err
	}
	logger.Info("question created",
		"event", "polls_question_created",
		"module", application.ModuleName,
		"layer", "application",
		"question_id", question.QuestionID,
		"publish_at", question.PublishAt,
	)
	return question, nil
}

func (uc QuestionUseCase) AddChoice(ctx context.Context, cmd AddChoiceCommand) (entities.Choice, error) {
	logger := application.ResolveLogger(uc.Logger)
	text := strings.TrimSpace(cmd.Text)
	if !validText(text) {
		return entities.Choice{}, domainerrors.ErrInvalidChoiceInput
	}
	question, err := uc.Questions.GetQuestion(ctx, strings.TrimSpace(cmd.QuestionID))
	if err != nil {
		return entities.Choice{}, err
	}
	choiceID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Choice{}, err
	}
	choice := entities.Choice{
		ChoiceID:   choiceID,
		QuestionID: question.QuestionID,
		Text:       text,
		CreatedAt:  uc.now(),
	}
	if err := uc.Choices.SaveChoice(ctx, choice); err != nil {
		return entities.Choice{}, err
	}
	logger.Info("choice added",
		"event", "polls_choice_added",
		"module", application.ModuleName,
		"layer", "application",
		"question_id", question.QuestionID,
		"choice_id", choice.ChoiceID,
	)
	return choice, nil
}

// DeleteQuestion removes the question with its choices and votes.
func (uc QuestionUseCase) DeleteQuestion(ctx context.Context, questionID string) error {
	logger := application.ResolveLogger(uc.Logger)
	questionID = strings.TrimSpace(questionID)
	if err := uc.Questions.DeleteQuestion(ctx, questionID); err != nil {
		return err
	}
	logger.Info("question deleted",
		"event", "polls_question_deleted",
		"module", application.ModuleName,
		"layer", "application",
		"question_id", questionID,
	)
	return nil
}

func (uc QuestionUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func validText(text string) bool {
	return text != "" && utf8.RuneCountInString(text) <= entities.MaxTextLength
}
