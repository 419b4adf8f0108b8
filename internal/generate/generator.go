package generate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bmihaylov/wordmail/internal/retry"
)

// Generator turns a pick of vocabulary lines into a validated Analysis.
type Generator struct {
	client Client
	policy retry.Policy
}

// NewGenerator creates a Generator on top of the given backend.
func NewGenerator(client Client, policy retry.Policy) *Generator {
	return &Generator{client: client, policy: policy}
}

// Generate produces a validated analysis for the pick. Structural problems
// with the response are returned as *ItemError naming the offending line;
// transport failures are retried with backoff and, once the retry budget is
// exhausted, surfaced unchanged.
//
// A response that is not parseable JSON carries no item attribution, so the
// first line of the pick is blamed: swapping it out changes the prompt,
// which is the only repair available for a malformed response.
func (g *Generator) Generate(ctx context.Context, pick []string) (*Analysis, error) {
	if len(pick) == 0 {
		return nil, fmt.Errorf("empty pick")
	}

	prompt := buildPrompt(pick)

	var raw string
	err := retry.Do(ctx, g.policy, func() error {
		var callErr error
		raw, callErr = g.client.GenerateJSON(ctx, prompt)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, &ItemError{Item: pick[0], Reason: "model response is not valid JSON"}
	}

	if err := analysis.Validate(pick); err != nil {
		return nil, err
	}

	// Seed the translated-examples slots so they stay parallel to the
	// source sentences until the translator fills them in.
	for i := range analysis.Items {
		item := &analysis.Items[i]
		if len(item.ExamplesTranslated) != len(item.ExamplesSource) {
			item.ExamplesTranslated = make([]string, len(item.ExamplesSource))
		}
	}

	return &analysis, nil
}
