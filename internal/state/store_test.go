package state

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bmihaylov/wordmail/internal/generate"
)

func TestStore_LoadMissingFileReturnsFreshState(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"))

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(st.Sent) != 0 || len(st.Blocked) != 0 || st.Current != nil {
		t.Errorf("expected empty fresh state, got %+v", st)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"))
	now := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	st := NewSentState()
	st.AddSent("Look Forward To")
	st.Block("gibberish entry", "item missing from model response", now)
	st.Current = &DispatchRun{
		Date:      "2025-06-01",
		Iteration: 4,
		Pick:      []string{"resilient", "spill the beans"},
		Analysis: &generate.Analysis{Items: []generate.Item{
			{SourceText: "resilient", Category: generate.CategoryAdjective},
		}},
		CreatedAt: now,
	}

	if err := store.Save(st); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !loaded.HasSent("look forward to") {
		t.Error("sent entry lost across round trip")
	}
	entry, ok := loaded.Blocked["gibberish entry"]
	if !ok {
		t.Fatal("blocked entry lost across round trip")
	}
	if entry.FailureCount != 1 || entry.LastFailureReason != "item missing from model response" {
		t.Errorf("unexpected blocked entry: %+v", entry)
	}
	if loaded.Current == nil || loaded.Current.Analysis == nil {
		t.Fatal("in-flight run lost across round trip")
	}
	if len(loaded.Current.Pick) != 2 {
		t.Errorf("expected pick of 2, got %v", loaded.Current.Pick)
	}
}

func TestStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	_, err := NewStore(path).Load()
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestStore_SaveDoesNotLeaveTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "state.json"))

	if err := store.Save(NewSentState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "state.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only state.json, got %v", names)
	}
}

func TestSentState_BlockIncrementsFailureCount(t *testing.T) {
	st := NewSentState()
	first := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	st.Block("Broken Entry", "incomplete verb forms", first)
	st.Block("broken  entry", "model response is not valid JSON", second)

	entry, ok := st.Blocked["broken entry"]
	if !ok {
		t.Fatalf("expected normalized blocklist key, got %v", st.Blocked)
	}
	if entry.FailureCount != 2 {
		t.Errorf("expected failure count 2, got %d", entry.FailureCount)
	}
	if !entry.FirstSeen.Equal(first) || !entry.LastSeen.Equal(second) {
		t.Errorf("unexpected timestamps: %+v", entry)
	}
	if entry.LastFailureReason != "model response is not valid JSON" {
		t.Errorf("last failure reason not updated: %q", entry.LastFailureReason)
	}
	if entry.OriginalText != "Broken Entry" {
		t.Errorf("original casing lost: %q", entry.OriginalText)
	}
}

func TestSentState_ExcludedCoversSentAndBlocked(t *testing.T) {
	st := NewSentState()
	st.AddSent("alpha")
	st.AddSent("Alpha") // duplicate under normalization
	st.Block("beta", "reason", time.Now())

	excluded := st.Excluded()
	if len(st.Sent) != 1 {
		t.Errorf("sent set holds duplicates: %v", st.Sent)
	}
	if !excluded["alpha"] || !excluded["beta"] {
		t.Errorf("exclusion set incomplete: %v", excluded)
	}
}

func TestSentState_Finalize(t *testing.T) {
	st := NewSentState()
	st.Current = &DispatchRun{
		Date: "2025-06-01",
		Pick: []string{"one", "two"},
	}

	now := time.Now()
	st.Finalize("2025-06-01", now)

	if st.Current != nil {
		t.Error("current run not cleared")
	}
	if !st.HasSent("one") || !st.HasSent("two") {
		t.Error("pick not folded into sent set")
	}
	if !st.FinalizedOn("2025-06-01") {
		t.Error("day not marked finalized")
	}
	if st.CompletedIterationCount != 1 {
		t.Errorf("iteration counter not advanced: %d", st.CompletedIterationCount)
	}
}

func TestAppendBlockLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocklist.log")
	now := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	if err := AppendBlockLog(path, "bad\nentry", "reason\twith tab", now); err != nil {
		t.Fatalf("AppendBlockLog failed: %v", err)
	}
	if err := AppendBlockLog(path, "second", "another reason", now); err != nil {
		t.Fatalf("AppendBlockLog failed on second append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), string(data))
	}
	if strings.Count(lines[0], "\t") != 2 {
		t.Errorf("log line not tab-separated into 3 fields: %q", lines[0])
	}
}
