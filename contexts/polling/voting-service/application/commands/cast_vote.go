package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "pollhub/contexts/polling/voting-service/application"
	"pollhub/contexts/polling/voting-service/domain/entities"
	domainerrors "pollhub/contexts/polling/voting-service/domain/errors"
	"pollhub/contexts/polling/voting-service/domain/services"
	"pollhub/contexts/polling/voting-service/domain/valueobjects"
	"pollhub/contexts/polling/voting-service/ports"
)

// CastVoteCommand is the write-model input for casting or switching a vote.
// Now is the reference time for the voting window and must be set.
type CastVoteCommand struct {
	Identity   valueobjects.UserIdentity
	QuestionID string
	ChoiceID   string
	Now        time.Time
}

// CastVoteResult carries the stored vote. Created is set on the first vote for
// the (user, question) pair; Changed when an existing vote switched choice.
type CastVoteResult struct {
	Vote    entities.Vote
	Created bool
	Changed bool
}

// VoteUseCase enforces the single current vote per user and question.
type VoteUseCase struct {
	Questions ports.QuestionRepository
	Choices   ports.ChoiceRepository
	Votes     ports.VoteRepository
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// CastVote validates eligibility and upserts the caller's vote. Checks run in
// order and the first failure is returned: reference time, identity, question
// existence, publish window, voting window, choice ownership.
func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	questionID := strings.TrimSpace(cmd.QuestionID)
	choiceID := strings.TrimSpace(cmd.ChoiceID)
	logger.Info("cast vote processing started",
		"event", "polls_cast_vote_started",
		"module", application.ModuleName,
		"layer", "application",
		"user", cmd.Identity.String(),
		"question_id", questionID,
		"choice_id", choiceID,
	)
	if cmd.Now.IsZero() {
		return CastVoteResult{}, domainerrors.ErrReferenceTimeRequired
	}
	if !cmd.Identity.IsAuthenticated() {
		logger.Warn("cast vote rejected for anonymous caller",
			"event", "polls_cast_vote_unauthenticated",
			"module", application.ModuleName,
			"layer", "application",
			"question_id", questionID,
		)
		return CastVoteResult{}, domainerrors.ErrUnauthenticated
	}
	userID := cmd.Identity.UserID()
	now := cmd.Now.UTC()

	question, err := uc.Questions.GetQuestion(ctx, questionID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !services.IsPublished(question, now) {
		return CastVoteResult{}, domainerrors.ErrNotPublished
	}
	if !services.CanVote(question, now) {
		logger.Info("cast vote rejected outside voting window",
			"event", "polls_cast_vote_closed",
			"module", application.ModuleName,
			"layer", "application",
			"user_id", userID,
			"question_id", question.QuestionID,
		)
		return CastVoteResult{}, domainerrors.ErrVotingClosed
	}
	choice, err := uc.resolveChoice(ctx, question.QuestionID, choiceID)
	if err != nil {
		logger.Warn("cast vote choice rejected",
			"event", "polls_cast_vote_invalid_choice",
			"module", application.ModuleName,
			"layer", "application",
			"user_id", userID,
			"question_id", question.QuestionID,
			"choice_id", choiceID,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	var result CastVoteResult
	upsert := func(ctx context.Context) error {
		res, err := uc.upsert(ctx, userID, choice, now)
		if err != nil {
			return err
		}
		result = res
		return nil
	}
	err = uc.Votes.WithVoteLock(ctx, userID, question.QuestionID, upsert)
	if errors.Is(err, domainerrors.ErrConflict) {
		// A concurrent insert won the unique key; the second pass sees its row.
		logger.Warn("cast vote conflict; retrying as update",
			"event", "polls_cast_vote_conflict_retry",
			"module", application.ModuleName,
			"layer", "application",
			"user_id", userID,
			"question_id", question.QuestionID,
		)
		err = uc.Votes.WithVoteLock(ctx, userID, question.QuestionID, upsert)
	}
	if err != nil {
		logger.Error("cast vote failed",
			"event", "polls_cast_vote_failed",
			"module", application.ModuleName,
			"layer", "application",
			"user_id", userID,
			"question_id", question.QuestionID,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	logger.Info("vote recorded",
		"event", "polls_vote_recorded",
		"module", application.ModuleName,
		"layer", "application",
		"vote_id", result.Vote.VoteID,
		"user_id", userID,
		"question_id", question.QuestionID,
		"choice_id", result.Vote.ChoiceID,
		"created", result.Created,
		"changed", result.Changed,
	)
	return result, nil
}

func (uc VoteUseCase) resolveChoice(ctx context.Context, questionID string, choiceID string) (entities.Choice, error) {
	if choiceID == "" {
		return entities.Choice{}, domainerrors.ErrInvalidChoice
	}
	choice, err := uc.Choices.GetChoice(ctx, choiceID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrChoiceNotFound) {
			return entities.Choice{}, domainerrors.ErrInvalidChoice
		}
		return entities.Choice{}, err
	}
	if choice.QuestionID != questionID {
		return entities.Choice{}, domainerrors.ErrInvalidChoice
	}
	return choice, nil
}

func (uc VoteUseCase) upsert(ctx context.Context, userID string, choice entities.Choice, now time.Time) (CastVoteResult, error) {
	existing, found, err := uc.Votes.FindVote(ctx, userID, choice.QuestionID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if found {
		if existing.ChoiceID == choice.ChoiceID {
			return CastVoteResult{Vote: existing}, nil
		}
		existing.ChoiceID = choice.ChoiceID
		existing.UpdatedAt = now
		saved, err := uc.Votes.SaveVote(ctx, existing)
		if err != nil {
			return CastVoteResult{}, err
		}
		return CastVoteResult{Vote: saved, Changed: true}, nil
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	saved, err := uc.Votes.SaveVote(ctx, entities.Vote{
		VoteID:     voteID,
		UserID:     userID,
		ChoiceID:   choice.ChoiceID,
		QuestionID: choice.QuestionID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return CastVoteResult{}, err
	}
	return CastVoteResult{Vote: saved, Created: true}, nil
}
