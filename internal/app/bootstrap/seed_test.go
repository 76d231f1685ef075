package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	votingservice "pollhub/contexts/polling/voting-service"
	"pollhub/contexts/polling/voting-service/adapters/memory"
)

func TestApplySeedCreatesQuestionsAndChoices(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	body := `{"questions":[
		{"text":"What's up?","publish_offset":"-1h","choices":["Not much","The sky"]},
		{"text":"Future question","publish_offset":"48h","choices":["Yes"]},
		{"text":"Closed question","publish_at":"2020-01-01T00:00:00Z","close_at":"2020-01-02T00:00:00Z","choices":["A","B"]}
	]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	seed, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	module := votingservice.NewInMemoryModule(memory.Seed{}, nil)
	if err := ApplySeed(context.Background(), module, seed, nil); err != nil {
		t.Fatalf("apply seed: %v", err)
	}

	ctx := context.Background()
	recent, err := module.Store.ListRecentQuestions(ctx, time.Now().UTC(), 10)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 published questions, got %d", len(recent))
	}
	if recent[0].Text != "What's up?" {
		t.Fatalf("expected newest question first, got %q", recent[0].Text)
	}
	choices, err := module.Store.ListChoices(ctx, recent[0].QuestionID)
	if err != nil {
		t.Fatalf("list choices: %v", err)
	}
	if len(choices) != 2 {
		t.Fatalf("expected 2 choices, got %d", len(choices))
	}

	// A second application is a no-op.
	if err := ApplySeed(ctx, module, seed, nil); err != nil {
		t.Fatalf("reapply seed: %v", err)
	}
	all, _ := module.Store.ListRecentQuestions(ctx, time.Now().Add(72*time.Hour), 10)
	if len(all) != 3 {
		t.Fatalf("expected seed to be applied once, got %d questions", len(all))
	}
}

func TestApplySeedRejectsInvalidWindow(t *testing.T) {
	seed := SeedFile{Questions: []SeedQuestion{{
		Text:          "Backwards",
		PublishOffset: "-1h",
		CloseOffset:   "-2h",
	}}}
	module := votingservice.NewInMemoryModule(memory.Seed{}, nil)
	if err := ApplySeed(context.Background(), module, seed, nil); err == nil {
		t.Fatalf("expected invalid window error")
	}
}

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9090": ":9090", ":7000": ":7000", " 81 ": ":81"}
	for input, want := range cases {
		if got := normalizeAddr(input); got != want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", input, got, want)
		}
	}
}
