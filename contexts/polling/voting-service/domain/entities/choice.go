package entities

import "time"

// Choice belongs to exactly one question and is removed with it.
type Choice struct {
	ChoiceID   string
	QuestionID string
	Text       string
	CreatedAt  time.Time
}

// ChoiceTally is a choice with its derived vote count.
type ChoiceTally struct {
	Choice Choice
	Votes  int
}
