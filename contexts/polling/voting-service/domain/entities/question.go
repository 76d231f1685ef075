package entities

import "time"

// MaxTextLength bounds question and choice text.
const MaxTextLength = 200

type Question struct {
	QuestionID string
	Text       string
	PublishAt  time.Time
	CloseAt    *time.Time
	CreatedAt  time.Time
}
