package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

// scriptedGenerator rejects lines listed in reject and succeeds otherwise.
type scriptedGenerator struct {
	reject map[string]string // line -> failure reason
	calls  int
}

func (g *scriptedGenerator) Generate(ctx context.Context, pick []string) (*Analysis, error) {
	g.calls++
	for _, line := range pick {
		if reason, ok := g.reject[line]; ok {
			return nil, &ItemError{Item: line, Reason: reason}
		}
	}
	analysis := &Analysis{}
	for _, line := range pick {
		item := validVerbItem(line)
		analysis.Items = append(analysis.Items, item)
	}
	return analysis, nil
}

type loopRecorder struct {
	blocked      []string
	savedPicks   [][]string
	replacements []string
}

func (r *loopRecorder) deps(gen *scriptedGenerator) LoopDeps {
	return LoopDeps{
		Generator: gen,
		Block: func(item, reason string) error {
			r.blocked = append(r.blocked, item)
			return nil
		},
		Replace: func(current []string) (string, bool, error) {
			if len(r.replacements) == 0 {
				return "", false, nil
			}
			next := r.replacements[0]
			r.replacements = r.replacements[1:]
			return next, true, nil
		},
		SavePick: func(pick []string) error {
			saved := make([]string, len(pick))
			copy(saved, pick)
			r.savedPicks = append(r.savedPicks, saved)
			return nil
		},
		Log: slog.New(slog.DiscardHandler),
	}
}

func TestRunLoop_SucceedsFirstTry(t *testing.T) {
	gen := &scriptedGenerator{}
	rec := &loopRecorder{}

	analysis, pick, err := RunLoop(context.Background(), []string{"walk", "run"}, rec.deps(gen))
	if err != nil {
		t.Fatalf("RunLoop failed: %v", err)
	}
	if len(analysis.Items) != 2 || len(pick) != 2 {
		t.Errorf("unexpected result: %d items, pick %v", len(analysis.Items), pick)
	}
	if len(rec.blocked) != 0 || len(rec.savedPicks) != 0 {
		t.Error("no repair should have happened")
	}
}

func TestRunLoop_ReplacesOffendingItem(t *testing.T) {
	gen := &scriptedGenerator{reject: map[string]string{"broken": "incomplete verb forms"}}
	rec := &loopRecorder{replacements: []string{"fresh"}}

	analysis, pick, err := RunLoop(context.Background(), []string{"walk", "broken"}, rec.deps(gen))
	if err != nil {
		t.Fatalf("RunLoop failed: %v", err)
	}

	if len(rec.blocked) != 1 || rec.blocked[0] != "broken" {
		t.Errorf("expected 'broken' blocklisted, got %v", rec.blocked)
	}
	if len(pick) != 2 {
		t.Fatalf("expected pick of 2 after replacement, got %v", pick)
	}
	for _, line := range pick {
		if line == "broken" {
			t.Error("offending line still in pick")
		}
	}
	if analysis.ItemFor("fresh") == nil {
		t.Error("replacement line missing from analysis")
	}
	if len(rec.savedPicks) != 1 {
		t.Errorf("pick mutation not persisted: %v", rec.savedPicks)
	}
}

func TestRunLoop_ContinuesWithSmallerPickWhenPoolExhausted(t *testing.T) {
	gen := &scriptedGenerator{reject: map[string]string{"broken": "item missing from model response"}}
	rec := &loopRecorder{} // no replacements available

	_, pick, err := RunLoop(context.Background(), []string{"walk", "broken"}, rec.deps(gen))
	if err != nil {
		t.Fatalf("RunLoop failed: %v", err)
	}
	if len(pick) != 1 || pick[0] != "walk" {
		t.Errorf("expected shrunken pick [walk], got %v", pick)
	}
}

func TestRunLoop_EmptyPickIsFatal(t *testing.T) {
	gen := &scriptedGenerator{reject: map[string]string{"broken": "reason"}}
	rec := &loopRecorder{}

	_, _, err := RunLoop(context.Background(), []string{"broken"}, rec.deps(gen))
	if err == nil {
		t.Fatal("expected fatal error when pick empties out")
	}
	var itemErr *ItemError
	if errors.As(err, &itemErr) {
		t.Error("fatal loop exit must not be a recoverable ItemError")
	}
}

func TestRunLoop_ReplacementCeiling(t *testing.T) {
	// Every candidate fails, and replacements never run out.
	gen := &scriptedGenerator{reject: map[string]string{}}
	rec := &loopRecorder{}

	replacementNo := 0
	deps := rec.deps(gen)
	deps.Replace = func(current []string) (string, bool, error) {
		replacementNo++
		next := fmt.Sprintf("candidate-%d", replacementNo)
		gen.reject[next] = "reason"
		return next, true, nil
	}
	gen.reject["seed"] = "reason"

	_, _, err := RunLoop(context.Background(), []string{"seed"}, deps)
	if err == nil {
		t.Fatal("expected replacement ceiling error")
	}
	if len(rec.blocked) != maxReplacements+1 {
		// The seed plus one block per replacement drawn before the ceiling.
		t.Logf("blocked %d items", len(rec.blocked))
	}
	if replacementNo > maxReplacements {
		t.Errorf("loop drew %d replacements, ceiling is %d", replacementNo, maxReplacements)
	}
}

func TestRunLoop_InfrastructureErrorPropagated(t *testing.T) {
	wantErr := errors.New("rate limited")
	rec := &loopRecorder{}
	deps := rec.deps(nil)
	deps.Generator = failingGenerator{err: wantErr}

	_, _, err := RunLoop(context.Background(), []string{"walk"}, deps)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected infrastructure error propagated unchanged, got %v", err)
	}
	if len(rec.blocked) != 0 {
		t.Error("infrastructure failure must not blocklist anything")
	}
}

type failingGenerator struct{ err error }

func (g failingGenerator) Generate(ctx context.Context, pick []string) (*Analysis, error) {
	return nil, g.err
}

