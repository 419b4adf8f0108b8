package audio

import (
	"strings"

	"github.com/bmihaylov/wordmail/internal/generate"
)

// BuildScript composes the spoken digest for one run: each vocabulary entry
// followed by its example sentences. Expressions have no examples, so only
// the entry itself is read. Ellipses give the TTS engine natural pauses
// between entries.
func BuildScript(analysis *generate.Analysis) string {
	var b strings.Builder

	for _, item := range analysis.Items {
		if b.Len() > 0 {
			b.WriteString(" ... ")
		}
		b.WriteString(item.SourceText)
		b.WriteString(".")
		for _, example := range item.ExamplesSource {
			b.WriteString(" ")
			b.WriteString(example)
		}
	}

	return b.String()
}
