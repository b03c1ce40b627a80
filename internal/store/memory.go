package store

import (
	"context"
	"sync"

	"github.com/pairlens/pairlens/internal/core/model"
)

// MemoryStore is a Store backed by in-process maps, for tests and dry runs.
// It mirrors the sheet contract: results retire rows from pending status,
// run-log partitions are append-only per mode.
type MemoryStore struct {
	mu       sync.RWMutex
	id       string
	rows     map[string][]RecordRow
	settings map[string]string
	runLogs  map[model.Mode][]model.RunLogEntry
}

func NewMemoryStore(id string) *MemoryStore {
	return &MemoryStore{
		id:       id,
		rows:     make(map[string][]RecordRow),
		settings: make(map[string]string),
		runLogs:  make(map[model.Mode][]model.RunLogEntry),
	}
}

// SeedRows loads dataset rows into a tab.
func (s *MemoryStore) SeedRows(tab string, rows []RecordRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[tab] = append([]RecordRow(nil), rows...)
}

// SetSetting writes one settings key.
func (s *MemoryStore) SetSetting(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
}

func (s *MemoryStore) ID() string {
	return s.id
}

func (s *MemoryStore) ReadRows(ctx context.Context, tab string) ([]RecordRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]RecordRow(nil), s.rows[tab]...), nil
}

func (s *MemoryStore) WriteResults(ctx context.Context, tab string, results []model.ClassificationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byRow := make(map[int]model.ClassificationResult, len(results))
	for _, r := range results {
		byRow[r.Row] = r
	}

	rows := s.rows[tab]
	for i := range rows {
		r, ok := byRow[rows[i].Record.Row]
		if !ok {
			continue
		}
		rows[i].Score = scoreString(r.MatchScore)
		rows[i].Verdict = string(r.Verdict)
		rows[i].Notes = r.Notes
	}
	return nil
}

func (s *MemoryStore) ReadSettings(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) AppendRunLog(ctx context.Context, entry model.RunLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runLogs[entry.Mode] = append(s.runLogs[entry.Mode], entry)
	return nil
}

func (s *MemoryStore) ReadRunLog(ctx context.Context, mode model.Mode) ([]model.RunLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.RunLogEntry(nil), s.runLogs[mode]...), nil
}

// SampleRows builds n synthetic pending pairs for seeding a MemoryStore,
// cycling a small set of fixtures so dry runs exercise SAME, DIFFERENT and
// ambiguous shapes.
func SampleRows(n int) []RecordRow {
	fixtures := []struct {
		left, right model.Candidate
		proximity   float64
	}{
		{
			left:      model.Candidate{ID: "loc-1001", Name: "Blue Bottle Coffee", Address: "300 Webster St, Oakland, CA"},
			right:     model.Candidate{ID: "loc-2001", Name: "Blue Bottle Coffee Co.", Address: "300 Webster Street, Oakland, CA 94607"},
			proximity: 4,
		},
		{
			left:      model.Candidate{ID: "loc-1002", Name: "Harbor Dental Group", Address: "88 Marina Blvd, San Francisco, CA"},
			right:     model.Candidate{ID: "loc-2002", Name: "Harborview Family Dentistry", Address: "90 Marina Blvd, San Francisco, CA"},
			proximity: 35,
		},
		{
			left:      model.Candidate{ID: "loc-1003", Name: "Sunrise Bakery", Address: "12 Elm St, Portland, OR"},
			right:     model.Candidate{ID: "loc-2003", Name: "Cascade Auto Repair", Address: "470 Burnside Ave, Portland, OR"},
			proximity: 2100,
		},
	}

	rows := make([]RecordRow, n)
	for i := range rows {
		f := fixtures[i%len(fixtures)]
		p := f.proximity
		rows[i] = RecordRow{
			Record: model.PendingRecord{
				Row:       i + 2,
				Left:      f.left,
				Right:     f.right,
				Proximity: &p,
			},
		}
	}
	return rows
}

func scoreString(score int) string {
	switch score {
	case 0:
		return "0"
	case 1:
		return "1"
	default:
		return "2"
	}
}
