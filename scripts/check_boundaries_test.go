package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGoFile(t *testing.T, root string, rel string, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCollectViolations(t *testing.T) {
	root := t.TempDir()
	writeGoFile(t, root, "polling/voting-service/domain/entities/ok.go", `package entities

import (
	"time"

	"pollhub/contexts/polling/voting-service/domain/errors"
)

var _ = time.Now
var _ = errors.ErrConflict
`)
	writeGoFile(t, root, "polling/voting-service/domain/services/bad.go", `package services

import (
	"github.com/google/uuid"
	"pollhub/contexts/polling/voting-service/ports"
)
`)
	writeGoFile(t, root, "polling/voting-service/application/commands/bad.go", `package commands

import (
	"pollhub/contexts/polling/voting-service/adapters/memory"
	"pollhub/internal/platform/config"
	"pollhub/contexts/other/service/ports"
)
`)
	writeGoFile(t, root, "polling/voting-service/adapters/postgres/ok.go", `package postgresadapter

import "gorm.io/gorm"
`)
	writeGoFile(t, root, "polling/voting-service/application/commands/ignored_test.go", `package commands

import "pollhub/internal/platform/config"
`)

	violations, err := collectViolations(root)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	got := map[string]bool{}
	for _, v := range violations {
		got[v.Import+" | "+v.Rule] = true
	}
	want := []string{
		"github.com/google/uuid | domain must not depend on third-party packages",
		"pollhub/contexts/polling/voting-service/ports | domain import is outside explicit allowlist",
		"pollhub/contexts/polling/voting-service/adapters/memory | application must not import adapters",
		"pollhub/internal/platform/config | application must not import runtime infrastructure",
		"pollhub/contexts/other/service/ports | cross-module imports are forbidden",
	}
	for _, key := range want {
		if !got[key] {
			t.Fatalf("missing violation %q in %+v", key, violations)
		}
	}
	if len(violations) != 6 {
		t.Fatalf("expected 6 violations, got %d: %+v", len(violations), violations)
	}
}
