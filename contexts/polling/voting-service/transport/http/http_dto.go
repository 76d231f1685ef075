package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type QuestionResponse struct {
	QuestionID string     `json:"question_id"`
	Text       string     `json:"question_text"`
	PublishAt  time.Time  `json:"publish_at"`
	CloseAt    *time.Time `json:"close_at,omitempty"`
}

type IndexItem struct {
	QuestionResponse
	WasPublishedRecently bool `json:"was_published_recently"`
}

type IndexResponse struct {
	Items []IndexItem `json:"items"`
}

type ChoiceResponse struct {
	ChoiceID string `json:"choice_id"`
	Text     string `json:"choice_text"`
}

type DetailResponse struct {
	Question         QuestionResponse `json:"question"`
	Choices          []ChoiceResponse `json:"choices"`
	SelectedChoiceID string           `json:"selected_choice_id,omitempty"`
}

type ChoiceResult struct {
	ChoiceID string `json:"choice_id"`
	Text     string `json:"choice_text"`
	Votes    int    `json:"votes"`
}

type ResultsResponse struct {
	Question   QuestionResponse `json:"question"`
	Choices    []ChoiceResult   `json:"choices"`
	TotalVotes int              `json:"total_votes"`
}

type CastVoteRequest struct {
	ChoiceID string `json:"choice_id"`
}

type VoteResponse struct {
	VoteID     string    `json:"vote_id"`
	QuestionID string    `json:"question_id"`
	ChoiceID   string    `json:"choice_id"`
	UserID     string    `json:"user_id"`
	Created    bool      `json:"created"`
	Changed    bool      `json:"changed"`
	UpdatedAt  time.Time `json:"updated_at"`
}
