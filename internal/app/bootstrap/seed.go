package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	votingservice "pollhub/contexts/polling/voting-service"
	"pollhub/contexts/polling/voting-service/application/commands"
)

// SeedFile is the JSON fixture format accepted through POLLS_SEED_FILE.
// Each question sets either PublishAt or PublishOffset; the offset is a Go
// duration relative to the time the seed is applied ("-24h", "2h").
type SeedFile struct {
	Questions []SeedQuestion `json:"questions"`
}

type SeedQuestion struct {
	Text          string     `json:"text"`
	PublishAt     *time.Time `json:"publish_at,omitempty"`
	PublishOffset string     `json:"publish_offset,omitempty"`
	CloseAt       *time.Time `json:"close_at,omitempty"`
	CloseOffset   string     `json:"close_offset,omitempty"`
	Choices       []string   `json:"choices"`
}

func LoadSeedFile(path string) (SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed SeedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return SeedFile{}, fmt.Errorf("decode seed file: %w", err)
	}
	return seed, nil
}

// ApplySeed creates the seeded questions and choices through the admin use
// case so text and window rules apply to fixtures too. A store that already
// holds questions is left untouched.
func ApplySeed(ctx context.Context, module votingservice.Module, seed SeedFile, logger *slog.Logger) error {
	admin := module.Admin
	now := time.Now().UTC()
	if admin.Clock != nil {
		now = admin.Clock.Now().UTC()
	}

	existing, err := admin.Questions.ListRecentQuestions(ctx, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		if logger != nil {
			logger.Info("seed skipped; store already holds questions",
				"event", "bootstrap_seed_skipped",
				"module", "internal/app/bootstrap",
				"layer", "platform",
			)
		}
		return nil
	}

	for index, item := range seed.Questions {
		publishAt, err := resolveSeedTime(now, item.PublishAt, item.PublishOffset)
		if err != nil {
			return fmt.Errorf("question %d publish time: %w", index, err)
		}
		var closeAt *time.Time
		if item.CloseAt != nil || strings.TrimSpace(item.CloseOffset) != "" {
			value, err := resolveSeedTime(now, item.CloseAt, item.CloseOffset)
			if err != nil {
				return fmt.Errorf("question %d close time: %w", index, err)
			}
			closeAt = &value
		}
		question, err := admin.CreateQuestion(ctx, commands.CreateQuestionCommand{
			Text:      item.Text,
			PublishAt: publishAt,
			CloseAt:   closeAt,
		})
		if err != nil {
			return fmt.Errorf("question %d: %w", index, err)
		}
		for _, text := range item.Choices {
			if _, err := admin.AddChoice(ctx, commands.AddChoiceCommand{
				QuestionID: question.QuestionID,
				Text:       text,
			}); err != nil {
				return fmt.Errorf("question %d choice %q: %w", index, text, err)
			}
		}
	}
	if logger != nil {
		logger.Info("seed applied",
			"event", "bootstrap_seed_applied",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"questions", len(seed.Questions),
		)
	}
	return nil
}

func resolveSeedTime(now time.Time, absolute *time.Time, offset string) (time.Time, error) {
	if absolute != nil {
		return absolute.UTC(), nil
	}
	offset = strings.TrimSpace(offset)
	if offset == "" {
		return now, nil
	}
	delta, err := time.ParseDuration(offset)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(delta), nil
}
