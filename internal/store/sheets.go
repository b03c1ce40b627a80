package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pairlens/pairlens/internal/core/model"
)

// Dataset column layout, one record pair per row beneath a header row:
//
//	A  seq          H  link A
//	B  id A         I  link B
//	C  id B         J  proximity
//	D  name A       K  ground truth (same/different/blank)
//	E  name B       L  score
//	F  address A    M  verdict
//	G  address B    N  notes
const (
	datasetRange     = "A2:N"
	resultColFirst   = "L"
	resultColLast    = "N"
	runLogTab        = "RunLog"
	runLogTestingTab = "RunLog-Testing"
	runLogRange      = "A1:M"
)

// SheetsStore reads and writes the dataset through the Google Sheets API.
type SheetsStore struct {
	srv           *sheets.Service
	spreadsheetID string
	settingsTab   string
}

func NewSheetsStore(ctx context.Context, spreadsheetID, settingsTab, credentialsFile string) (*SheetsStore, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsStore{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		settingsTab:   settingsTab,
	}, nil
}

func (s *SheetsStore) ID() string {
	return s.spreadsheetID
}

func (s *SheetsStore) ReadRows(ctx context.Context, tab string) ([]RecordRow, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, tab+"!"+datasetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset range: %w", err)
	}

	rows := make([]RecordRow, 0, len(resp.Values))
	for i, raw := range resp.Values {
		sheetRow := i + 2 // data starts beneath the header
		rows = append(rows, parseRecordRow(sheetRow, raw))
	}
	return rows, nil
}

func parseRecordRow(sheetRow int, raw []interface{}) RecordRow {
	rec := model.PendingRecord{
		Row: sheetRow,
		Left: model.Candidate{
			ID:      cell(raw, 1),
			Name:    cell(raw, 3),
			Address: cell(raw, 5),
			Link:    cell(raw, 7),
		},
		Right: model.Candidate{
			ID:      cell(raw, 2),
			Name:    cell(raw, 4),
			Address: cell(raw, 6),
			Link:    cell(raw, 8),
		},
	}

	if v := cell(raw, 9); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			rec.Proximity = &f
		}
	}

	switch strings.ToLower(cell(raw, 10)) {
	case "same":
		rec.GroundTruth = model.GroundTruthSame
	case "different":
		rec.GroundTruth = model.GroundTruthDifferent
	}

	return RecordRow{
		Record:  rec,
		Score:   cell(raw, 11),
		Verdict: cell(raw, 12),
		Notes:   cell(raw, 13),
	}
}

func (s *SheetsStore) WriteResults(ctx context.Context, tab string, results []model.ClassificationResult) error {
	if len(results) == 0 {
		return nil
	}

	data := make([]*sheets.ValueRange, 0, len(results))
	for _, r := range results {
		data = append(data, &sheets.ValueRange{
			Range: fmt.Sprintf("%s!%s%d:%s%d", tab, resultColFirst, r.Row, resultColLast, r.Row),
			Values: [][]interface{}{
				{r.MatchScore, string(r.Verdict), r.Notes},
			},
		})
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	if _, err := s.srv.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to write %d results: %w", len(results), err)
	}
	return nil
}

func (s *SheetsStore) ReadSettings(ctx context.Context) (map[string]string, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, s.settingsTab+"!A1:B").Context(ctx).Do()
	if err != nil {
		// A spreadsheet without a settings tab runs on defaults.
		if isMissingRange(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := make(map[string]string, len(resp.Values))
	for _, row := range resp.Values {
		key := strings.TrimSpace(cell(row, 0))
		if key == "" {
			continue
		}
		settings[key] = cell(row, 1)
	}
	return settings, nil
}

// LogTab returns the run-log partition for a mode.
func LogTab(mode model.Mode) string {
	if mode == model.ModeTesting {
		return runLogTestingTab
	}
	return runLogTab
}

func (s *SheetsStore) AppendRunLog(ctx context.Context, entry model.RunLogEntry) error {
	m := entry.Metrics
	vr := &sheets.ValueRange{
		Values: [][]interface{}{{
			entry.Timestamp,
			entry.SpreadsheetID,
			entry.Tab,
			string(entry.Mode),
			entry.Model,
			entry.Rows,
			m.Same,
			m.Different,
			m.Unsure,
			avgCell(m.AvgConfidenceSame),
			avgCell(m.AvgConfidenceDifferent),
			avgCell(m.AvgConfidenceUnsure),
			m.DurationMS,
		}},
	}

	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, LogTab(entry.Mode)+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append run log row: %w", err)
	}
	return nil
}

func (s *SheetsStore) ReadRunLog(ctx context.Context, mode model.Mode) ([]model.RunLogEntry, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, LogTab(mode)+"!"+runLogRange).Context(ctx).Do()
	if err != nil {
		if isMissingRange(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read run log: %w", err)
	}

	entries := make([]model.RunLogEntry, 0, len(resp.Values))
	for _, row := range resp.Values {
		entries = append(entries, parseRunLogRow(row))
	}
	return entries, nil
}

func parseRunLogRow(row []interface{}) model.RunLogEntry {
	return model.RunLogEntry{
		Timestamp:     cell(row, 0),
		SpreadsheetID: cell(row, 1),
		Tab:           cell(row, 2),
		Mode:          model.Mode(cell(row, 3)),
		Model:         cell(row, 4),
		Rows:          intCell(row, 5),
		Metrics: model.ChunkMetrics{
			Same:                   intCell(row, 6),
			Different:              intCell(row, 7),
			Unsure:                 intCell(row, 8),
			AvgConfidenceSame:      floatCell(row, 9),
			AvgConfidenceDifferent: floatCell(row, 10),
			AvgConfidenceUnsure:    floatCell(row, 11),
			DurationMS:             int64(intCell(row, 12)),
		},
	}
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[i]))
}

func intCell(row []interface{}, i int) int {
	v := cell(row, i)
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 0
}

func floatCell(row []interface{}, i int) *float64 {
	v := cell(row, i)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func avgCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

// isMissingRange matches the Sheets API error for a range on a tab that
// does not exist.
func isMissingRange(err error) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}
	return gErr.Code == 400 && strings.Contains(gErr.Message, "Unable to parse range")
}
