// Package vocab loads the vocabulary word list and selects the daily pick.
package vocab

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/bmihaylov/wordmail/internal"
)

// Source holds the deduplicated vocabulary lines in first-seen order.
type Source struct {
	lines []string
}

// Load reads the word list file, one entry per line.
// Blank lines and lines starting with '#' are skipped. Entries are trimmed
// and deduplicated case-insensitively, keeping the first occurrence.
func Load(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()

	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := internal.NormalizeKey(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	return &Source{lines: lines}, nil
}

// Len returns the number of unique vocabulary lines.
func (s *Source) Len() int {
	return len(s.lines)
}

// Pick selects up to quota lines uniformly at random, without replacement,
// skipping any line whose normalized form is excluded. Fewer than quota
// lines are returned when the candidate pool is smaller than the quota.
func (s *Source) Pick(quota int, excluded map[string]bool) ([]string, error) {
	candidates := s.candidates(excluded)

	var pick []string
	for len(pick) < quota && len(candidates) > 0 {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(candidates))))
		if err != nil {
			return nil, fmt.Errorf("failed to draw random index: %w", err)
		}
		i := int(n.Int64())
		pick = append(pick, candidates[i])
		candidates = append(candidates[:i], candidates[i+1:]...)
	}

	return pick, nil
}

// PickOne selects a single replacement line that is neither excluded nor
// already part of the current pick. Returns ok=false when the pool is empty.
func (s *Source) PickOne(excluded map[string]bool, current []string) (string, bool, error) {
	inPick := make(map[string]bool, len(current))
	for _, line := range current {
		inPick[internal.NormalizeKey(line)] = true
	}

	var candidates []string
	for _, line := range s.candidates(excluded) {
		if !inPick[internal.NormalizeKey(line)] {
			candidates = append(candidates, line)
		}
	}
	if len(candidates) == 0 {
		return "", false, nil
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(candidates))))
	if err != nil {
		return "", false, fmt.Errorf("failed to draw random index: %w", err)
	}
	return candidates[n.Int64()], true, nil
}

func (s *Source) candidates(excluded map[string]bool) []string {
	var out []string
	for _, line := range s.lines {
		if !excluded[internal.NormalizeKey(line)] {
			out = append(out, line)
		}
	}
	return out
}
