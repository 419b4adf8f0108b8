package generate

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an English teacher preparing study material for a Bulgarian learner. You classify English vocabulary entries and produce example sentences. You always answer with a single valid JSON object and nothing else.`

// buildPrompt creates the generation prompt for one pick.
func buildPrompt(pick []string) string {
	var list strings.Builder
	for _, line := range pick {
		fmt.Fprintf(&list, "- %s\n", line)
	}

	return fmt.Sprintf(`For each of the following English vocabulary entries, produce one object in the "items" array of your JSON response:

%s
Output schema:
{
  "items": [
    {
      "sourceText": "<the entry exactly as given>",
      "category": "<noun|verb|phrasal_verb|adjective|adverb|expression>",
      "verbForms": {"present": "...", "pastSimple": "...", "pastParticiple": "..."},
      "translations": {
        "general": ["<Bulgarian translation>", "..."],
        "present": ["..."], "pastSimple": ["..."], "pastParticiple": ["..."]
      },
      "examplesSource": ["<English example sentence>", "..."]
    }
  ]
}

Rules:
- Include every entry from the list, with sourceText copied verbatim.
- For verbs and phrasal verbs, verbForms and the per-tense translation lists are mandatory.
- For every category except "expression", examplesSource must contain exactly 5 natural English sentences using the entry.
- For "expression", leave examplesSource empty and give 1-3 Bulgarian translations of the expression in translations.general.
- Omit verbForms for non-verb categories.
- Output ONLY the JSON object, no markdown, no explanations.`, list.String())
}
