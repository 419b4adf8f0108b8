// Package translate fills in Bulgarian translations for generated example
// sentences, batching them through a translation backend and caching every
// accepted result so a sentence is never translated twice.
package translate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bmihaylov/wordmail/internal"
)

// Cache is the persistent sentence-translation cache: a flat JSON mapping
// from the normalized source sentence to its translation, shared across all
// runs and growing monotonically.
type Cache struct {
	path    string
	entries map[string]string
}

// LoadCache reads the cache file. A missing or unparseable file yields an
// empty cache; the cache is an optimization, not a source of truth.
func LoadCache(path string) *Cache {
	cache := &Cache{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		return cache
	}
	if err := json.Unmarshal(data, &cache.entries); err != nil {
		cache.entries = make(map[string]string)
	}
	return cache
}

// Get looks up the translation for a source sentence.
func (c *Cache) Get(sentence string) (string, bool) {
	translation, ok := c.entries[internal.NormalizeKey(sentence)]
	return translation, ok
}

// Put stores a translation under the sentence's normalized key.
func (c *Cache) Put(sentence, translation string) {
	c.entries[internal.NormalizeKey(sentence)] = translation
}

// Len returns the number of cached translations.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Save writes the whole cache atomically. Called after every translated
// batch so partial progress survives a crash.
func (c *Cache) Save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal translation cache: %w", err)
	}
	if err := internal.WriteFileAtomic(c.path, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to save translation cache: %w", err)
	}
	return nil
}
