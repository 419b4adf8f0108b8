// Package state holds the persisted run-state model: the permanently-sent
// set, the blocklist, and the at-most-one in-flight dispatch run.
package state

import (
	"time"

	"github.com/bmihaylov/wordmail/internal"
	"github.com/bmihaylov/wordmail/internal/generate"
)

// DateFormat is the calendar-day format used for run dates.
const DateFormat = "2006-01-02"

// BlockedEntry records a vocabulary line the generator could not process.
type BlockedEntry struct {
	OriginalText      string    `json:"originalText"`
	LastFailureReason string    `json:"lastFailureReason"`
	FirstSeen         time.Time `json:"firstSeen"`
	LastSeen          time.Time `json:"lastSeen"`
	FailureCount      int       `json:"failureCount"`
}

// DispatchRun is one calendar day's end-to-end attempt from pick to
// delivery. It never outlives its delivery: on success it is folded into
// the sent set and cleared.
type DispatchRun struct {
	Date      string   `json:"date"`
	Iteration int      `json:"iteration"`
	Pick      []string `json:"pick"`

	Analysis        *generate.Analysis `json:"analysis,omitempty"`
	RenderedSubject string             `json:"renderedSubject,omitempty"`
	RenderedBody    string             `json:"renderedBody,omitempty"`
	Delivered       bool               `json:"delivered"`

	CreatedAt      time.Time  `json:"createdAt"`
	PayloadReadyAt *time.Time `json:"payloadReadyAt,omitempty"`
	AudioReadyAt   *time.Time `json:"audioReadyAt,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
}

// SentState is the root persisted aggregate. The sent set and the blocklist
// are keyed by normalized text and grow monotonically.
type SentState struct {
	Sent    []string                `json:"sent"`
	Blocked map[string]BlockedEntry `json:"blocked"`

	LastCompletedDate       string    `json:"lastCompletedDate,omitempty"`
	LastRunTimestamp        time.Time `json:"lastRunTimestamp"`
	CompletedIterationCount int       `json:"completedIterationCount"`

	Current *DispatchRun `json:"current,omitempty"`
}

// NewSentState returns an empty fresh state.
func NewSentState() *SentState {
	return &SentState{Blocked: make(map[string]BlockedEntry)}
}

// HasSent reports whether the line's normalized form is in the sent set.
func (s *SentState) HasSent(line string) bool {
	key := internal.NormalizeKey(line)
	for _, sent := range s.Sent {
		if sent == key {
			return true
		}
	}
	return false
}

// AddSent adds the line's normalized form to the sent set. The set never
// shrinks and never holds duplicates.
func (s *SentState) AddSent(line string) {
	if !s.HasSent(line) {
		s.Sent = append(s.Sent, internal.NormalizeKey(line))
	}
}

// Block records a generation failure for the line, creating or updating its
// blocklist entry.
func (s *SentState) Block(line, reason string, now time.Time) {
	if s.Blocked == nil {
		s.Blocked = make(map[string]BlockedEntry)
	}
	key := internal.NormalizeKey(line)
	entry, ok := s.Blocked[key]
	if !ok {
		entry = BlockedEntry{OriginalText: line, FirstSeen: now}
	}
	entry.LastFailureReason = reason
	entry.LastSeen = now
	entry.FailureCount++
	s.Blocked[key] = entry
}

// Excluded returns the normalized keys a new pick must avoid: everything
// already sent or blocked.
func (s *SentState) Excluded() map[string]bool {
	excluded := make(map[string]bool, len(s.Sent)+len(s.Blocked))
	for _, key := range s.Sent {
		excluded[key] = true
	}
	for key := range s.Blocked {
		excluded[key] = true
	}
	return excluded
}

// FinalizedOn reports whether the given calendar day has already been
// completed.
func (s *SentState) FinalizedOn(date string) bool {
	return s.LastCompletedDate == date
}

// Finalize folds the current run's pick into the sent set, clears the run
// and advances the iteration counter. Called after successful delivery, or
// with an empty pick on graceful exhaustion.
func (s *SentState) Finalize(date string, now time.Time) {
	if s.Current != nil {
		for _, line := range s.Current.Pick {
			s.AddSent(line)
		}
	}
	s.Current = nil
	s.LastCompletedDate = date
	s.LastRunTimestamp = now
	s.CompletedIterationCount++
}
