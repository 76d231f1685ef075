package entities

import "time"

// Vote is a user's current selection for one question. QuestionID is derived
// from the choice and carried so storage can key on (user, question).
type Vote struct {
	VoteID     string
	UserID     string
	ChoiceID   string
	QuestionID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
