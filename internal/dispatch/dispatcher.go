// Package dispatch drives one invocation of the daily vocabulary pipeline:
// load persisted state, resume or create the day's run, generate and
// translate the payload, deliver the email, and fold the pick into the
// permanently-sent set.
//
// Side effects on storage are strictly additive and every persisted write
// is a full atomic snapshot, so a hard kill at any point leaves the store
// consistent and resumable. The scheduler guarantees at most one process
// instance per state store; there is no in-process locking.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmihaylov/wordmail/internal/audio"
	"github.com/bmihaylov/wordmail/internal/generate"
	"github.com/bmihaylov/wordmail/internal/mail"
	"github.com/bmihaylov/wordmail/internal/retry"
	"github.com/bmihaylov/wordmail/internal/state"
	"github.com/bmihaylov/wordmail/internal/vocab"
)

// DefaultQuota is the number of vocabulary lines picked per day.
const DefaultQuota = 10

// Generator produces a validated analysis for a pick.
type Generator interface {
	Generate(ctx context.Context, pick []string) (*generate.Analysis, error)
}

// Translator fills the translated-example slots of an analysis. The whole
// step is best-effort and must not fail the run.
type Translator interface {
	Fill(ctx context.Context, analysis *generate.Analysis)
}

// PhoneticFetcher provides IPA transcriptions for vocabulary lines.
type PhoneticFetcher interface {
	Fetch(ctx context.Context, word string) (string, error)
}

// Options tune one dispatcher invocation.
type Options struct {
	// Phonetics, when set, annotates each item with its IPA transcription.
	// Best-effort, a failed lookup leaves the item without one.
	Phonetics PhoneticFetcher

	Quota        int
	DryRun       bool   // build everything but do not send or finalize
	AudioDir     string // where the attachment MP3 is written
	BlocklistLog string // append-only diagnostic log, empty disables it
	Policy       retry.Policy

	// Now is the clock, replaceable in tests.
	Now func() time.Time
}

// Dispatcher is the run-level orchestrator.
type Dispatcher struct {
	store      *state.Store
	source     *vocab.Source
	generator  Generator
	translator Translator
	audio      audio.Provider // nil skips audio synthesis
	sender     mail.Sender
	opts       Options
	log        *slog.Logger
}

// New creates a dispatcher. A nil audio provider disables the attachment.
func New(store *state.Store, source *vocab.Source, generator Generator, translator Translator, audioProvider audio.Provider, sender mail.Sender, opts Options, log *slog.Logger) *Dispatcher {
	if opts.Quota <= 0 {
		opts.Quota = DefaultQuota
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dispatcher{
		store:      store,
		source:     source,
		generator:  generator,
		translator: translator,
		audio:      audioProvider,
		sender:     sender,
		opts:       opts,
		log:        log,
	}
}

// Run executes one invocation. It returns an error only for unrecoverable
// storage problems; a run that fails mid-pipeline but leaves durable,
// resumable state behind is a stable outcome and reported as success, since
// the next scheduled invocation picks it up without operator intervention.
func (d *Dispatcher) Run(ctx context.Context) error {
	st, err := d.loadState()
	if err != nil {
		return err
	}

	today := d.opts.Now().Format(state.DateFormat)

	if st.Current == nil {
		done, err := d.startRun(st, today)
		if err != nil || done {
			return err
		}
	} else {
		d.log.Info("resuming unfinished run",
			slog.String("date", st.Current.Date),
			slog.Bool("payload_ready", st.Current.Analysis != nil))
	}

	if err := d.execute(ctx, st); err != nil {
		var storageErr *storageError
		if errors.As(err, &storageErr) {
			return err
		}
		d.log.Error("run left pending, next invocation will resume",
			slog.Any("error", err))
		return nil
	}

	return nil
}

// loadState reads the store, falling back to a fresh state when the file is
// corrupt. Losing the sent history may repeat a few words; an unreadable
// store would block every future run, which is worse.
func (d *Dispatcher) loadState() (*state.SentState, error) {
	st, err := d.store.Load()
	if errors.Is(err, state.ErrCorrupt) {
		d.log.Error("state file corrupt, starting from an empty state",
			slog.String("path", d.store.Path()), slog.Any("error", err))
		return state.NewSentState(), nil
	}
	if err != nil {
		return nil, &storageError{err}
	}
	return st, nil
}

// startRun selects a new pick and persists the created run before any
// network call, so a crash right after creation resumes instead of
// re-picking. done=true means the invocation is complete (already
// finalized today, or the vocabulary is exhausted).
func (d *Dispatcher) startRun(st *state.SentState, today string) (done bool, err error) {
	if st.FinalizedOn(today) {
		d.log.Info("already finalized today, nothing to do", slog.String("date", today))
		return true, nil
	}

	pick, err := d.source.Pick(d.opts.Quota, st.Excluded())
	if err != nil {
		return false, fmt.Errorf("pick selection failed: %w", err)
	}

	now := d.opts.Now()
	if len(pick) == 0 {
		d.log.Info("vocabulary exhausted, finalizing day with zero items",
			slog.String("date", today))
		st.Finalize(today, now)
		return true, d.saveState(st)
	}

	st.Current = &state.DispatchRun{
		Date:      today,
		Iteration: st.CompletedIterationCount + 1,
		Pick:      pick,
		CreatedAt: now,
	}
	if err := d.saveState(st); err != nil {
		return false, err
	}

	d.log.Info("created run", slog.String("date", today), slog.Int("pick", len(pick)))
	return false, nil
}

// execute drives the in-flight run through payload generation, translation,
// rendering, audio and delivery, persisting after each durable milestone.
func (d *Dispatcher) execute(ctx context.Context, st *state.SentState) error {
	run := st.Current

	if run.Analysis == nil {
		if err := d.buildPayload(ctx, st); err != nil {
			return err
		}
	} else {
		d.log.Info("reusing previously generated payload", slog.String("date", run.Date))
	}

	// Idempotent: already-filled slots are kept, missing ones come from
	// the cache or the backend.
	d.translator.Fill(ctx, run.Analysis)
	d.fillPhonetics(ctx, st)

	if run.RenderedBody == "" {
		subject, body, err := mail.Render(run.Date, run.Analysis)
		if err != nil {
			return err
		}
		run.RenderedSubject = subject
		run.RenderedBody = body
		if err := d.saveState(st); err != nil {
			return err
		}
	}

	audioPath := d.ensureAudio(ctx, st)

	if d.opts.DryRun {
		d.log.Info("dry run, not sending",
			slog.String("subject", run.RenderedSubject),
			slog.Int("body_bytes", len(run.RenderedBody)))
		fmt.Println(run.RenderedBody)
		return nil
	}

	err := retry.Do(ctx, d.opts.Policy, func() error {
		return d.sender.Send(mail.Message{
			Subject:   run.RenderedSubject,
			HTMLBody:  run.RenderedBody,
			AudioPath: audioPath,
		})
	})
	if err != nil {
		return fmt.Errorf("delivery failed: %w", err)
	}

	now := d.opts.Now()
	run.Delivered = true
	run.DeliveredAt = &now
	st.Finalize(run.Date, now)
	if err := d.saveState(st); err != nil {
		return err
	}

	d.log.Info("delivered and finalized",
		slog.String("date", run.Date),
		slog.Int("words", len(run.Pick)),
		slog.Int("iteration", st.CompletedIterationCount))
	return nil
}

// buildPayload runs the resilient generation loop and persists the payload
// milestone.
func (d *Dispatcher) buildPayload(ctx context.Context, st *state.SentState) error {
	run := st.Current

	analysis, pick, err := generate.RunLoop(ctx, run.Pick, generate.LoopDeps{
		Generator: d.generator,
		Block: func(item, reason string) error {
			st.Block(item, reason, d.opts.Now())
			if d.opts.BlocklistLog != "" {
				if logErr := state.AppendBlockLog(d.opts.BlocklistLog, item, reason, d.opts.Now()); logErr != nil {
					// Diagnostic only, never fatal.
					d.log.Warn("failed to append blocklist log", slog.Any("error", logErr))
				}
			}
			return d.saveState(st)
		},
		Replace: func(current []string) (string, bool, error) {
			return d.source.PickOne(st.Excluded(), current)
		},
		SavePick: func(pick []string) error {
			run.Pick = pick
			return d.saveState(st)
		},
		Log: d.log,
	})
	if err != nil {
		return fmt.Errorf("payload generation failed: %w", err)
	}

	now := d.opts.Now()
	run.Pick = pick
	run.Analysis = analysis
	run.PayloadReadyAt = &now
	return d.saveState(st)
}

// fillPhonetics annotates items that are still missing an IPA transcription.
// Skipped entirely without a fetcher, and any single failure only costs that
// item its transcription.
func (d *Dispatcher) fillPhonetics(ctx context.Context, st *state.SentState) {
	if d.opts.Phonetics == nil {
		return
	}
	run := st.Current

	changed := false
	for i := range run.Analysis.Items {
		item := &run.Analysis.Items[i]
		if item.Phonetic != "" {
			continue
		}
		transcription, err := d.opts.Phonetics.Fetch(ctx, item.SourceText)
		if err != nil {
			d.log.Warn("phonetic transcription failed",
				slog.String("word", item.SourceText), slog.Any("error", err))
			continue
		}
		item.Phonetic = transcription
		changed = true
	}
	if changed {
		if err := d.saveState(st); err != nil {
			d.log.Warn("failed to persist phonetic annotations", slog.Any("error", err))
		}
	}
}

// ensureAudio synthesizes the attachment MP3 unless it already exists from
// a previous attempt of this run. Failures are swallowed; the email ships
// without audio.
func (d *Dispatcher) ensureAudio(ctx context.Context, st *state.SentState) string {
	if d.audio == nil {
		return ""
	}
	run := st.Current

	path := filepath.Join(d.opts.AudioDir, "wordmail-"+run.Date+".mp3")
	if run.AudioReadyAt != nil {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	script := audio.BuildScript(run.Analysis)
	if err := d.audio.GenerateAudio(ctx, script, path); err != nil {
		d.log.Warn("audio synthesis failed, sending without attachment",
			slog.Any("error", err))
		return ""
	}

	now := d.opts.Now()
	run.AudioReadyAt = &now
	if err := d.saveState(st); err != nil {
		d.log.Warn("failed to persist audio milestone", slog.Any("error", err))
	}
	return path
}

func (d *Dispatcher) saveState(st *state.SentState) error {
	if err := d.store.Save(st); err != nil {
		return &storageError{err}
	}
	return nil
}

// storageError marks a failure to persist or load state. Unlike pipeline
// failures it cannot be resumed from, so it surfaces as a non-zero exit.
type storageError struct{ err error }

func (e *storageError) Error() string { return e.err.Error() }
func (e *storageError) Unwrap() error { return e.err }
