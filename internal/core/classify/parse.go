package classify

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pairlens/pairlens/internal/core/model"
)

// Parsed is the validated payload extracted from a classifier response,
// tagged with the parse branch that produced it.
type Parsed struct {
	Verdict    model.Verdict
	MatchScore int
	Notes      string
	Source     model.ParseSource
}

var (
	fenceRe      = regexp.MustCompile("(?s)^\\s*```(?:json)?\\s*(.*?)\\s*```\\s*$")
	verdictRe    = regexp.MustCompile(`(?i)"?verdict"?\s*[:=]\s*"?(SAME|DIFFERENT|UNSURE)"?`)
	scoreRe      = regexp.MustCompile(`(?i)"?match_score"?\s*[:=]\s*"?([0-2])"?`)
	notesRe      = regexp.MustCompile(`(?i)"notes"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	confidenceRe = regexp.MustCompile(`confidence\s*=\s*(0(?:\.[0-9]+)?|1(?:\.0+)?)`)
)

// StripFences removes a surrounding markdown code fence, if any. LLMs wrap
// JSON in fences often enough that this runs before every parse attempt.
func StripFences(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return strings.TrimSpace(raw)
}

// ParseResponse runs the strict-then-heuristic parse chain over a raw
// classifier response. A nil error means all three fields were recovered and
// validated; the returned Source says which branch succeeded. An error means
// the response is irrecoverable for this row (the caller falls back, it does
// not retry).
func ParseResponse(raw string) (Parsed, error) {
	text := StripFences(raw)

	if p, err := parseStrict(text); err == nil {
		return p, nil
	}

	if p, err := parseHeuristic(text); err == nil {
		return p, nil
	}

	return Parsed{}, fmt.Errorf("response matched neither strict nor heuristic form: %q", truncate(raw, 200))
}

type rawResult struct {
	Verdict    *string `json:"verdict"`
	MatchScore *int    `json:"match_score"`
	Notes      *string `json:"notes"`
}

func parseStrict(text string) (Parsed, error) {
	// Trim to the outermost braces; models pad JSON with prose.
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 || start >= end {
		return Parsed{}, fmt.Errorf("no JSON object found")
	}

	var r rawResult
	if err := json.Unmarshal([]byte(text[start:end+1]), &r); err != nil {
		return Parsed{}, fmt.Errorf("unmarshal: %w", err)
	}

	if r.Verdict == nil || r.MatchScore == nil || r.Notes == nil {
		return Parsed{}, fmt.Errorf("missing required field")
	}

	return validate(*r.Verdict, *r.MatchScore, *r.Notes, model.ParseStrict)
}

func parseHeuristic(text string) (Parsed, error) {
	vm := verdictRe.FindStringSubmatch(text)
	sm := scoreRe.FindStringSubmatch(text)
	nm := notesRe.FindStringSubmatch(text)
	if vm == nil || sm == nil || nm == nil {
		return Parsed{}, fmt.Errorf("field extraction failed")
	}

	score, err := strconv.Atoi(sm[1])
	if err != nil {
		return Parsed{}, err
	}

	notes := nm[1]
	if unq, err := strconv.Unquote(`"` + notes + `"`); err == nil {
		notes = unq
	}

	return validate(strings.ToUpper(vm[1]), score, notes, model.ParseHeuristic)
}

func validate(verdict string, score int, notes string, src model.ParseSource) (Parsed, error) {
	if !model.ValidVerdict(verdict) {
		return Parsed{}, fmt.Errorf("invalid verdict %q", verdict)
	}
	v := model.Verdict(verdict)

	if score != model.ScoreFor(v) {
		return Parsed{}, fmt.Errorf("match_score %d inconsistent with verdict %s", score, v)
	}

	if strings.TrimSpace(notes) == "" {
		return Parsed{}, fmt.Errorf("empty notes")
	}

	return Parsed{Verdict: v, MatchScore: score, Notes: notes, Source: src}, nil
}

// ExtractConfidence pulls the embedded confidence token out of a notes
// string. It never fails: a missing or malformed token yields nil.
func ExtractConfidence(notes string) *float64 {
	m := confidenceRe.FindStringSubmatch(notes)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil || f < 0 || f > 1 {
		return nil
	}
	return &f
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
