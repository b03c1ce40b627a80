package model

// Mode selects the run-log partition a chunk invocation writes to.
type Mode string

const (
	ModeProduction Mode = "production"
	ModeTesting    Mode = "testing"
)

// RunLogEntry is one persisted row per chunk invocation. Timestamp is kept
// as the RFC3339 string written to the sheet; the logical-run reconstructor
// parses it and isolates rows whose timestamp does not parse.
type RunLogEntry struct {
	Timestamp     string `json:"timestamp"`
	SpreadsheetID string `json:"spreadsheet_id"`
	Tab           string `json:"tab"`
	Mode          Mode   `json:"mode"`
	Model         string `json:"model"`
	Rows          int    `json:"rows"`

	Metrics ChunkMetrics `json:"metrics"`
}

// GroupKey is the tuple logical-run grouping compares: two adjacent log
// entries can only merge when their keys are equal.
type GroupKey struct {
	SpreadsheetID string
	Tab           string
	Mode          Mode
	Model         string
}

// Key returns the grouping tuple for the entry.
func (e RunLogEntry) Key() GroupKey {
	return GroupKey{
		SpreadsheetID: e.SpreadsheetID,
		Tab:           e.Tab,
		Mode:          e.Mode,
		Model:         e.Model,
	}
}

// LogicalRun is a derived aggregate of consecutive run-log entries inferred
// to belong to one caller-intended run. It is never persisted.
type LogicalRun struct {
	StartedAt     string `json:"started_at"`
	EndedAt       string `json:"ended_at"`
	SpreadsheetID string `json:"spreadsheet_id"`
	Tab           string `json:"tab"`
	Mode          Mode   `json:"mode"`
	Model         string `json:"model"`
	Chunks        int    `json:"chunks"`
	Rows          int    `json:"rows"`

	Metrics ChunkMetrics `json:"metrics"`
}
