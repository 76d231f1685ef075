package services

import (
	"time"

	"pollhub/contexts/polling/voting-service/domain/entities"
	domainerrors "pollhub/contexts/polling/voting-service/domain/errors"
)

// RecentWindow is how far back a publish time still counts as recent.
const RecentWindow = 24 * time.Hour

// IsPublished reports whether the question is visible at now.
func IsPublished(question entities.Question, now time.Time) bool {
	return !now.Before(question.PublishAt)
}

// WasPublishedRecently reports whether PublishAt falls in [now-24h, now].
func WasPublishedRecently(question entities.Question, now time.Time) bool {
	return !question.PublishAt.Before(now.Add(-RecentWindow)) && !question.PublishAt.After(now)
}

// CanVote reports whether now is inside the voting window. Both bounds are
// inclusive; a question without CloseAt stays open once published.
func CanVote(question entities.Question, now time.Time) bool {
	if !IsPublished(question, now) {
		return false
	}
	if question.CloseAt == nil {
		return true
	}
	return !now.After(*question.CloseAt)
}

// ValidateWindow rejects a close time earlier than the publish time.
func ValidateWindow(publishAt time.Time, closeAt *time.Time) error {
	if closeAt != nil && closeAt.Before(publishAt) {
		return domainerrors.ErrInvalidQuestionWindow
	}
	return nil
}
