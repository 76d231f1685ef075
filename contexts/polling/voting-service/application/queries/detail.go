package queries

import (
	"context"
	"strings"
	"time"

	"pollhub/contexts/polling/voting-service/domain/entities"
	domainerrors "pollhub/contexts/polling/voting-service/domain/errors"
	"pollhub/contexts/polling/voting-service/domain/services"
	"pollhub/contexts/polling/voting-service/domain/valueobjects"
	"pollhub/contexts/polling/voting-service/ports"
)

type DetailQuery struct {
	QuestionID string
	Identity   valueobjects.UserIdentity
	Now        time.Time
}

// DetailView is the voting form data. SelectedChoiceID is empty when the caller
// is anonymous or has not voted.
type DetailView struct {
	Question         entities.Question
	Choices          []entities.Choice
	SelectedChoiceID string
}

func (v DetailView) HasSelection() bool {
	return v.SelectedChoiceID != ""
}

type DetailUseCase struct {
	Questions ports.QuestionRepository
	Choices   ports.ChoiceRepository
	Votes     ports.VoteRepository
}

// Detail returns the question only while it is open for voting.
func (uc DetailUseCase) Detail(ctx context.Context, query DetailQuery) (DetailView, error) {
	if query.Now.IsZero() {
		return DetailView{}, domainerrors.ErrReferenceTimeRequired
	}
	now := query.Now.UTC()
	question, err := uc.Questions.GetQuestion(ctx, strings.TrimSpace(query.QuestionID))
	if err != nil {
		return DetailView{}, err
	}
	if !services.IsPublished(question, now) {
		return DetailView{}, domainerrors.ErrNotPublished
	}
	if !services.CanVote(question, now) {
		return DetailView{}, domainerrors.ErrVotingClosed
	}
	choices, err := uc.Choices.ListChoices(ctx, question.QuestionID)
	if err != nil {
		return DetailView{}, err
	}
	view := DetailView{Question: question, Choices: choices}
	if !query.Identity.IsAuthenticated() {
		return view, nil
	}
	vote, found, err := uc.Votes.FindVote(ctx, query.Identity.UserID(), question.QuestionID)
	if err != nil {
		return DetailView{}, err
	}
	if found {
		view.SelectedChoiceID = vote.ChoiceID
	}
	return view, nil
}
