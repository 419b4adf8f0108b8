package translate

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/bmihaylov/wordmail/internal/generate"
	"github.com/bmihaylov/wordmail/internal/retry"
)

// maxBatchSize caps how many sentences are sent to the backend per call.
const maxBatchSize = 50

// Translator fills the translated-examples slots of a generated analysis.
// The whole step is best-effort: an unreachable backend leaves slots blank
// rather than blocking delivery.
type Translator struct {
	backend    Backend
	cache      *Cache
	breaker    *gobreaker.CircuitBreaker
	policy     retry.Policy
	sourceLang string
	targetLang string
	log        *slog.Logger
}

// NewTranslator creates a translator over the given backend and cache.
func NewTranslator(backend Backend, cache *Cache, policy retry.Policy, sourceLang, targetLang string, log *slog.Logger) *Translator {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "translation",
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Translator{
		backend:    backend,
		cache:      cache,
		breaker:    breaker,
		policy:     policy,
		sourceLang: sourceLang,
		targetLang: targetLang,
		log:        log,
	}
}

// slot addresses one untranslated example sentence within the analysis.
type slot struct {
	item     int
	example  int
	sentence string
}

// Fill ensures every item's ExamplesTranslated is parallel to its
// ExamplesSource, serving from the cache where possible and translating the
// rest in batches. The cache is persisted after every batch. Backend
// failures are logged and leave the affected slots blank.
func (t *Translator) Fill(ctx context.Context, analysis *generate.Analysis) {
	var pending []slot

	for i := range analysis.Items {
		item := &analysis.Items[i]
		if len(item.ExamplesTranslated) != len(item.ExamplesSource) {
			item.ExamplesTranslated = make([]string, len(item.ExamplesSource))
		}
		for j, sentence := range item.ExamplesSource {
			if item.ExamplesTranslated[j] != "" {
				continue
			}
			if cached, ok := t.cache.Get(sentence); ok && Acceptable(cached) {
				item.ExamplesTranslated[j] = cached
				continue
			}
			pending = append(pending, slot{item: i, example: j, sentence: sentence})
		}
	}

	for start := 0; start < len(pending); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		t.translateBatch(ctx, analysis, pending[start:end])
	}
}

func (t *Translator) translateBatch(ctx context.Context, analysis *generate.Analysis, batch []slot) {
	sentences := make([]string, len(batch))
	for i, s := range batch {
		sentences[i] = s.sentence
	}

	result, err := t.breaker.Execute(func() (interface{}, error) {
		var translations []string
		err := retry.Do(ctx, t.policy, func() error {
			var callErr error
			translations, callErr = t.backend.TranslateBatch(ctx, sentences, t.sourceLang, t.targetLang)
			return callErr
		})
		return translations, err
	})
	if err != nil {
		t.log.Warn("translation batch failed, leaving slots blank",
			slog.Int("sentences", len(sentences)), slog.Any("error", err))
		return
	}

	translations := result.([]string)
	accepted := 0
	for i, s := range batch {
		translation := translations[i]
		if !Acceptable(translation) {
			t.log.Warn("rejected unacceptable translation", slog.String("sentence", s.sentence))
			continue
		}
		analysis.Items[s.item].ExamplesTranslated[s.example] = translation
		t.cache.Put(s.sentence, translation)
		accepted++
	}

	if accepted > 0 {
		if err := t.cache.Save(); err != nil {
			// Cache persistence is best-effort.
			t.log.Warn("failed to save translation cache", slog.Any("error", err))
		}
	}
}
