package queries

import (
	"context"
	"strings"
	"time"

	"pollhub/contexts/polling/voting-service/domain/entities"
	domainerrors "pollhub/contexts/polling/voting-service/domain/errors"
	"pollhub/contexts/polling/voting-service/domain/services"
	"pollhub/contexts/polling/voting-service/ports"
)

type ResultsView struct {
	Question   entities.Question
	Choices    []entities.ChoiceTally
	TotalVotes int
}

type ResultsUseCase struct {
	Questions ports.QuestionRepository
	Choices   ports.ChoiceRepository
	Votes     ports.VoteRepository
}

// Tally maps every choice of the question to its vote count, zeros included.
// It does not check the publish window.
func (uc ResultsUseCase) Tally(ctx context.Context, questionID string) (map[string]int, error) {
	question, err := uc.Questions.GetQuestion(ctx, strings.TrimSpace(questionID))
	if err != nil {
		return nil, err
	}
	tallies, err := uc.tally(ctx, question.QuestionID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(tallies))
	for _, item := range tallies {
		counts[item.Choice.ChoiceID] = item.Votes
	}
	return counts, nil
}

// Results requires the question to be published at now.
func (uc ResultsUseCase) Results(ctx context.Context, questionID string, now time.Time) (ResultsView, error) {
	if now.IsZero() {
		return ResultsView{}, domainerrors.ErrReferenceTimeRequired
	}
	question, err := uc.Questions.GetQuestion(ctx, strings.TrimSpace(questionID))
	if err != nil {
		return ResultsView{}, err
	}
	if !services.IsPublished(question, now.UTC()) {
		return ResultsView{}, domainerrors.ErrNotPublished
	}
	tallies, err := uc.tally(ctx, question.QuestionID)
	if err != nil {
		return ResultsView{}, err
	}
	total := 0
	for _, item := range tallies {
		total += item.Votes
	}
	return ResultsView{Question: question, Choices: tallies, TotalVotes: total}, nil
}

func (uc ResultsUseCase) tally(ctx context.Context, questionID string) ([]entities.ChoiceTally, error) {
	choices, err := uc.Choices.ListChoices(ctx, questionID)
	if err != nil {
		return nil, err
	}
	counts, err := uc.Votes.CountVotes(ctx, questionID)
	if err != nil {
		return nil, err
	}
	items := make([]entities.ChoiceTally, 0, len(choices))
	for _, choice := range choices {
		items = append(items, entities.ChoiceTally{Choice: choice, Votes: counts[choice.ChoiceID]})
	}
	return items, nil
}
