package classify

import (
	"fmt"
	"strings"

	"github.com/pairlens/pairlens/internal/core/model"
)

// DefaultInstructions is the prompt preamble used when no PROMPT_TEMPLATE
// override is configured. The wording is biased toward precision: the model
// is told to prefer UNSURE over a doubtful SAME.
const DefaultInstructions = `You are comparing two records that each describe a real-world entity. Decide whether they describe the SAME entity or DIFFERENT entities.

Be precise: only answer SAME when the evidence clearly supports it. Minor spelling differences, abbreviations, or formatting differences in otherwise matching records still count as SAME. If the evidence is genuinely ambiguous, answer UNSURE - that is an acceptable answer and better than a wrong SAME.

Respond with a single JSON object with exactly three fields:
{"verdict": "SAME" | "DIFFERENT" | "UNSURE", "match_score": 1 | 0 | 2, "notes": "confidence=0.NN; <your reasoning>"}

match_score must be 1 for SAME, 0 for DIFFERENT, 2 for UNSURE. notes must begin with a confidence token of the form confidence=0.NN; followed by a short explanation.`

// BuildPrompt assembles the request text for one record: the instruction
// block followed by both candidates' fields and the proximity hint.
func BuildPrompt(instructions string, rec model.PendingRecord) string {
	if strings.TrimSpace(instructions) == "" {
		instructions = DefaultInstructions
	}

	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\n<RECORD A>\n")
	writeCandidate(&b, rec.Left)
	b.WriteString("</RECORD A>\n\n<RECORD B>\n")
	writeCandidate(&b, rec.Right)
	b.WriteString("</RECORD B>\n")

	if rec.Proximity != nil {
		fmt.Fprintf(&b, "\nDistance between the two records: %.1f\n", *rec.Proximity)
	}

	return b.String()
}

func writeCandidate(b *strings.Builder, c model.Candidate) {
	fmt.Fprintf(b, "ID: %s\nName: %s\nAddress: %s\n", c.ID, c.Name, c.Address)
	if c.Link != "" {
		fmt.Fprintf(b, "Link: %s\n", c.Link)
	}
}
