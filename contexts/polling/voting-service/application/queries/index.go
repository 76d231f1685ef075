package queries

import (
	"context"
	"time"

	"pollhub/contexts/polling/voting-service/domain/entities"
	domainerrors "pollhub/contexts/polling/voting-service/domain/errors"
	"pollhub/contexts/polling/voting-service/domain/services"
	"pollhub/contexts/polling/voting-service/ports"
)

type IndexItem struct {
	Question             entities.Question
	WasPublishedRecently bool
}

// IndexView lists the latest published questions, newest first.
type IndexView struct {
	Questions []IndexItem
}

type IndexUseCase struct {
	Questions ports.QuestionRepository
	Limit     int
}

func (uc IndexUseCase) Index(ctx context.Context, now time.Time) (IndexView, error) {
	if now.IsZero() {
		return IndexView{}, domainerrors.ErrReferenceTimeRequired
	}
	now = now.UTC()
	questions, err := uc.Questions.ListRecentQuestions(ctx, now, ports.NormalizeLimit(uc.Limit))
	if err != nil {
		return IndexView{}, err
	}
	items := make([]IndexItem, 0, len(questions))
	for _, question := range questions {
		items = append(items, IndexItem{
			Question:             question,
			WasPublishedRecently: services.WasPublishedRecently(question, now),
		})
	}
	return IndexView{Questions: items}, nil
}
