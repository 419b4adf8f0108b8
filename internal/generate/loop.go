package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bmihaylov/wordmail/internal"
)

// maxReplacements caps how many offending lines the loop may swap out
// before giving up. Hitting the ceiling signals a systemic problem, not a
// transient one.
const maxReplacements = 50

// LoopDeps are the collaborators of the resilient generation loop. The loop
// persists every pick mutation through them so a crash mid-repair loses
// neither the blocklist update nor the shrunken pick.
type LoopDeps struct {
	// Generator produces a validated analysis for a pick.
	Generator interface {
		Generate(ctx context.Context, pick []string) (*Analysis, error)
	}

	// Block records the offending line in the persistent blocklist and the
	// diagnostic log, and persists state.
	Block func(item, reason string) error

	// Replace draws one replacement line that is not sent, not blocked and
	// not already in the pick. ok=false means the pool is exhausted.
	Replace func(current []string) (replacement string, ok bool, err error)

	// SavePick persists the updated pick as part of the in-flight run.
	SavePick func(pick []string) error

	Log *slog.Logger
}

// RunLoop drives generation for the pick, swapping out lines the model
// cannot process until a full valid analysis is produced. It returns the
// analysis together with the possibly-mutated pick.
//
// Errors from the generator that are not *ItemError are infrastructure
// failures and are propagated unchanged; transient-failure retries live
// below the generator, not here.
func RunLoop(ctx context.Context, pick []string, deps LoopDeps) (*Analysis, []string, error) {
	replacements := 0

	for {
		if len(pick) == 0 {
			return nil, nil, fmt.Errorf("pick is empty, nothing left to generate")
		}

		analysis, err := deps.Generator.Generate(ctx, pick)
		if err == nil {
			return analysis, pick, nil
		}

		var itemErr *ItemError
		if !errors.As(err, &itemErr) {
			return nil, nil, err
		}

		if replacements >= maxReplacements {
			return nil, nil, fmt.Errorf("replacement ceiling of %d reached: %w", maxReplacements, err)
		}
		replacements++

		deps.Log.Warn("generation rejected item, swapping it out",
			slog.String("item", itemErr.Item),
			slog.String("reason", itemErr.Reason),
			slog.Int("replacement", replacements))

		if err := deps.Block(itemErr.Item, itemErr.Reason); err != nil {
			return nil, nil, fmt.Errorf("failed to blocklist %q: %w", itemErr.Item, err)
		}

		pick = removeLine(pick, itemErr.Item)

		replacement, ok, err := deps.Replace(pick)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to draw replacement: %w", err)
		}
		if ok {
			pick = append(pick, replacement)
		} else {
			deps.Log.Warn("no replacement available, continuing with smaller pick",
				slog.Int("remaining", len(pick)))
		}

		if err := deps.SavePick(pick); err != nil {
			return nil, nil, fmt.Errorf("failed to persist updated pick: %w", err)
		}
	}
}

// removeLine drops the line matching the item from the pick, compared on
// the normalized form.
func removeLine(pick []string, item string) []string {
	key := internal.NormalizeKey(item)
	out := make([]string, 0, len(pick))
	for _, line := range pick {
		if internal.NormalizeKey(line) != key {
			out = append(out, line)
		}
	}
	return out
}
