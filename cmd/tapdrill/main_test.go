package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/verte-zerg/tapdrill/internal/model"
	"github.com/verte-zerg/tapdrill/internal/stats"
)

func TestConfirm(t *testing.T) {
	cases := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
	}
	for input, want := range cases {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(input), &out, "Delete? ")
		if err != nil {
			t.Fatalf("confirm(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("confirm(%q) = %v, want %v", input, got, want)
		}
		if out.String() != "Delete? " {
			t.Fatalf("unexpected prompt %q", out.String())
		}
	}
}

func TestWriteStatsReport(t *testing.T) {
	p := &stats.Progress{}
	base := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	p.Append(stats.TestResult{WPM: 40, Accuracy: 95, Timestamp: base, DurationSecs: 20, CharErrors: stats.CharCounts{'t': 2}})
	p.Append(stats.TestResult{WPM: 60, Accuracy: 99, Timestamp: base.Add(time.Minute), DurationSecs: 18, CharErrors: stats.CharCounts{}})

	var out bytes.Buffer
	if err := writeStatsReport(&out, p, 20, 5, 10); err != nil {
		t.Fatalf("writeStatsReport: %v", err)
	}
	for _, want := range []string{"Sessions: 2", "Avg WPM: 50.0", "Best WPM: 60.0", "Recent WPM (last 2)", "Weakest Characters"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("report missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := writeStatsReport(&out, &stats.Progress{}, 20, 5, 10); err != nil {
		t.Fatalf("writeStatsReport empty: %v", err)
	}
	if strings.TrimSpace(out.String()) != "No sessions found." {
		t.Fatalf("unexpected empty report %q", out.String())
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"stats", "reset", "config"} {
		if !names[want] {
			t.Fatalf("missing %s subcommand", want)
		}
	}
	for _, flag := range []string{"mode", "length", "wordlist"} {
		if root.Flags().Lookup(flag) == nil {
			t.Fatalf("missing --%s flag", flag)
		}
	}
	for _, flag := range []string{"storage", "log-level", "log-file"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Fatalf("missing --%s persistent flag", flag)
		}
	}
}

func TestLoadProgressCorruptHistoryIsEmpty(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	path := filepath.Join(dataHome, "tapdrill", "progress.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	logger, hook := logtest.NewNullLogger()
	progress, err := loadProgress(context.Background(), model.Config{Storage: model.StorageJSON}, logger)
	if err != nil {
		t.Fatalf("loadProgress: %v", err)
	}
	if progress.Len() != 0 {
		t.Fatalf("expected empty history, got %d results", progress.Len())
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning for the unreadable history, got %v", entry)
	}

	var out bytes.Buffer
	if err := writeStatsReport(&out, &progress, 20, 5, 10); err != nil {
		t.Fatalf("writeStatsReport: %v", err)
	}
	if strings.TrimSpace(out.String()) != "No sessions found." {
		t.Fatalf("unexpected report %q", out.String())
	}
}
