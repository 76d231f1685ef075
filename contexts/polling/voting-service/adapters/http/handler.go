package httpadapter

import (
	"context"
	"log/slog"

	application "pollhub/contexts/polling/voting-service/application"
	"pollhub/contexts/polling/voting-service/application/commands"
	"pollhub/contexts/polling/voting-service/application/queries"
	"pollhub/contexts/polling/voting-service/domain/entities"
	"pollhub/contexts/polling/voting-service/domain/valueobjects"
	"pollhub/contexts/polling/voting-service/ports"
	httptransport "pollhub/contexts/polling/voting-service/transport/http"
)

// Handler maps transport DTOs onto use cases. The reference time for every
// request comes from Clock.
type Handler struct {
	Votes   commands.VoteUseCase
	Index   queries.IndexUseCase
	Detail  queries.DetailUseCase
	Results queries.ResultsUseCase
	Clock   ports.Clock
	Logger  *slog.Logger
}

// IndexHandler godoc
// @Summary List latest published questions
// @Tags polling
// @Produce json
// @Success 200 {object} httptransport.IndexResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /polls [get]
func (h Handler) IndexHandler(ctx context.Context) (httptransport.IndexResponse, error) {
	view, err := h.Index.Index(ctx, h.Clock.Now())
	if err != nil {
		return httptransport.IndexResponse{}, err
	}
	items := make([]httptransport.IndexItem, 0, len(view.Questions))
	for _, item := range view.Questions {
		items = append(items, httptransport.IndexItem{
			QuestionResponse:     mapQuestion(item.Question),
			WasPublishedRecently: item.WasPublishedRecently,
		})
	}
	return httptransport.IndexResponse{Items: items}, nil
}

// DetailHandler godoc
// @Summary Get a votable question with its choices
// @Tags polling
// @Produce json
// @Security BearerAuth
// @Param question_id path string true "Question id"
// @Success 200 {object} httptransport.DetailResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /polls/{question_id} [get]
func (h Handler) DetailHandler(
	ctx context.Context,
	identity valueobjects.UserIdentity,
	questionID string,
) (httptransport.DetailResponse, error) {
	view, err := h.Detail.Detail(ctx, queries.DetailQuery{
		QuestionID: questionID,
		Identity:   identity,
		Now:        h.Clock.Now(),
	})
	if err != nil {
		return httptransport.DetailResponse{}, err
	}
	choices := make([]httptransport.ChoiceResponse, 0, len(view.Choices))
	for _, choice := range view.Choices {
		choices = append(choices, httptransport.ChoiceResponse{
			ChoiceID: choice.ChoiceID,
			Text:     choice.Text,
		})
	}
	return httptransport.DetailResponse{
		Question:         mapQuestion(view.Question),
		Choices:          choices,
		SelectedChoiceID: view.SelectedChoiceID,
	}, nil
}

// ResultsHandler godoc
// @Summary Get per-choice vote counts
// @Tags polling
// @Produce json
// @Param question_id path string true "Question id"
// @Success 200 {object} httptransport.ResultsResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /polls/{question_id}/results [get]
func (h Handler) ResultsHandler(ctx context.Context, questionID string) (httptransport.ResultsResponse, error) {
	view, err := h.Results.Results(ctx, questionID, h.Clock.Now())
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	choices := make([]httptransport.ChoiceResult, 0, len(view.Choices))
	for _, item := range view.Choices {
		choices = append(choices, httptransport.ChoiceResult{
			ChoiceID: item.Choice.ChoiceID,
			Text:     item.Choice.Text,
			Votes:    item.Votes,
		})
	}
	return httptransport.ResultsResponse{
		Question:   mapQuestion(view.Question),
		Choices:    choices,
		TotalVotes: view.TotalVotes,
	}, nil
}

// CastVoteHandler godoc
// @Summary Cast or switch the caller's vote
// @Tags polling
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question_id path string true "Question id"
// @Param request body httptransport.CastVoteRequest true "Selected choice"
// @Success 200 {object} httptransport.VoteResponse
// @Success 201 {object} httptransport.VoteResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /polls/{question_id}/vote [post]
func (h Handler) CastVoteHandler(
	ctx context.Context,
	identity valueobjects.UserIdentity,
	questionID string,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("cast vote request received",
		"event", "http_cast_vote_received",
		"module", application.ModuleName,
		"layer", "transport",
		"question_id", questionID,
		"authenticated", identity.IsAuthenticated(),
	)
	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		Identity:   identity,
		QuestionID: questionID,
		ChoiceID:   req.ChoiceID,
		Now:        h.Clock.Now(),
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		VoteID:     result.Vote.VoteID,
		QuestionID: result.Vote.QuestionID,
		ChoiceID:   result.Vote.ChoiceID,
		UserID:     result.Vote.UserID,
		Created:    result.Created,
		Changed:    result.Changed,
		UpdatedAt:  result.Vote.UpdatedAt,
	}, nil
}

func mapQuestion(question entities.Question) httptransport.QuestionResponse {
	return httptransport.QuestionResponse{
		QuestionID: question.QuestionID,
		Text:       question.Text,
		PublishAt:  question.PublishAt,
		CloseAt:    question.CloseAt,
	}
}
