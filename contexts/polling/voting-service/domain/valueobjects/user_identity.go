package valueobjects

import (
	"strings"

	domainerrors "pollhub/contexts/polling/voting-service/domain/errors"
)

// UserIdentity is either an authenticated user id or anonymous. The zero
// value is anonymous.
type UserIdentity struct {
	userID string
}

func NewAuthenticatedIdentity(userID string) (UserIdentity, error) {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return UserIdentity{}, domainerrors.ErrInvalidUserID
	}
	return UserIdentity{userID: trimmed}, nil
}

func Anonymous() UserIdentity {
	return UserIdentity{}
}

func (u UserIdentity) IsAuthenticated() bool {
	return u.userID != ""
}

func (u UserIdentity) UserID() string {
	return u.userID
}

func (u UserIdentity) String() string {
	if !u.IsAuthenticated() {
		return "anonymous"
	}
	return u.userID
}
