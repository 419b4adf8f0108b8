// Package generate calls an LLM to classify vocabulary lines and produce
// example sentences, and repairs malformed responses by swapping out the
// offending line instead of failing the whole run.
package generate

import (
	"fmt"

	"github.com/bmihaylov/wordmail/internal"
)

// Category classifies a vocabulary line.
type Category string

const (
	CategoryNoun        Category = "noun"
	CategoryVerb        Category = "verb"
	CategoryPhrasalVerb Category = "phrasal_verb"
	CategoryAdjective   Category = "adjective"
	CategoryAdverb      Category = "adverb"
	CategoryExpression  Category = "expression"
)

// exampleCount is the number of example sentences required for every
// non-expression item.
const exampleCount = 5

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryNoun, CategoryVerb, CategoryPhrasalVerb,
		CategoryAdjective, CategoryAdverb, CategoryExpression:
		return true
	}
	return false
}

// IsVerb reports whether the category requires conjugated verb forms.
func (c Category) IsVerb() bool {
	return c == CategoryVerb || c == CategoryPhrasalVerb
}

// VerbForms holds the three principal forms of a verb item.
type VerbForms struct {
	Present        string `json:"present"`
	PastSimple     string `json:"pastSimple"`
	PastParticiple string `json:"pastParticiple"`
}

// Complete reports whether all three forms are present.
func (f *VerbForms) Complete() bool {
	return f != nil && f.Present != "" && f.PastSimple != "" && f.PastParticiple != ""
}

// Translations holds word-level translations for an item. The per-tense
// lists are only populated for verb categories.
type Translations struct {
	General        []string `json:"general"`
	Present        []string `json:"present,omitempty"`
	PastSimple     []string `json:"pastSimple,omitempty"`
	PastParticiple []string `json:"pastParticiple,omitempty"`
}

// Item is the generated content for a single vocabulary line.
type Item struct {
	SourceText         string       `json:"sourceText"`
	Category           Category     `json:"category"`
	Phonetic           string       `json:"phonetic,omitempty"`
	VerbForms          *VerbForms   `json:"verbForms,omitempty"`
	Translations       Translations `json:"translations"`
	ExamplesSource     []string     `json:"examplesSource"`
	ExamplesTranslated []string     `json:"examplesTranslated"`
}

// Analysis is the validated generation payload covering one run's pick.
type Analysis struct {
	Items []Item `json:"items"`
}

// ItemFor returns the item matching the given vocabulary line, matched on
// the normalized form.
func (a *Analysis) ItemFor(line string) *Item {
	key := internal.NormalizeKey(line)
	for i := range a.Items {
		if internal.NormalizeKey(a.Items[i].SourceText) == key {
			return &a.Items[i]
		}
	}
	return nil
}

// Validate checks the analysis for structural completeness against the pick
// it was generated from. The first violation is returned as an *ItemError
// naming the offending vocabulary line.
//
// Expression items may come back with stray example sentences; those are
// cleared rather than rejected, since the item itself is usable.
func (a *Analysis) Validate(pick []string) error {
	for _, line := range pick {
		item := a.ItemFor(line)
		if item == nil {
			return &ItemError{Item: line, Reason: "item missing from model response"}
		}

		if !item.Category.IsValid() {
			return &ItemError{Item: line, Reason: "unknown category " + string(item.Category)}
		}

		if item.Category.IsVerb() {
			if !item.VerbForms.Complete() {
				return &ItemError{Item: line, Reason: "incomplete verb forms"}
			}
			if len(item.Translations.General) == 0 {
				return &ItemError{Item: line, Reason: "missing translations"}
			}
		}

		if item.Category == CategoryExpression {
			if len(item.Translations.General) == 0 {
				return &ItemError{Item: line, Reason: "missing translations"}
			}
			item.ExamplesSource = nil
			item.ExamplesTranslated = nil
			continue
		}

		if len(item.ExamplesSource) != exampleCount {
			return &ItemError{
				Item:   line,
				Reason: fmt.Sprintf("expected %d example sentences, got %d", exampleCount, len(item.ExamplesSource)),
			}
		}
	}

	return nil
}
