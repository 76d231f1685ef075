package errors

import "errors"

var (
	ErrQuestionNotFound      = errors.New("question not found")
	ErrChoiceNotFound        = errors.New("choice not found")
	ErrNotPublished          = errors.New("question is not published yet")
	ErrVotingClosed          = errors.New("voting is closed for this question")
	ErrInvalidChoice         = errors.New("choice is missing or does not belong to the question")
	ErrUnauthenticated       = errors.New("user identity is required")
	ErrInvalidUserID         = errors.New("user id is required")
	ErrReferenceTimeRequired = errors.New("reference time is required")
	ErrInvalidQuestionInput  = errors.New("invalid question input")
	ErrInvalidChoiceInput    = errors.New("invalid choice input")
	ErrInvalidQuestionWindow = errors.New("close time must not be before publish time")
	ErrConflict              = errors.New("vote conflict")
)
