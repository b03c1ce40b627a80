package core

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/pairlens/pairlens/internal/core/model"
	"github.com/pairlens/pairlens/internal/store"
)

type MockLLM struct {
	Response      string
	ResponseQueue []string
	Err           error
	Calls         atomic.Int64
}

func (m *MockLLM) Generate(ctx context.Context, modelName, prompt string) (string, error) {
	m.Calls.Add(1)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

// FailingStore wraps a MemoryStore and fails selected operations, for
// exercising chunk-level error paths.
type FailingStore struct {
	*store.MemoryStore
	FailReadRows     bool
	FailWriteResults bool
	FailSettings     bool
}

var errStoreUnreachable = errors.New("store unreachable")

func (s *FailingStore) ReadRows(ctx context.Context, tab string) ([]store.RecordRow, error) {
	if s.FailReadRows {
		return nil, errStoreUnreachable
	}
	return s.MemoryStore.ReadRows(ctx, tab)
}

func (s *FailingStore) WriteResults(ctx context.Context, tab string, results []model.ClassificationResult) error {
	if s.FailWriteResults {
		return errStoreUnreachable
	}
	return s.MemoryStore.WriteResults(ctx, tab, results)
}

func (s *FailingStore) ReadSettings(ctx context.Context) (map[string]string, error) {
	if s.FailSettings {
		return nil, errStoreUnreachable
	}
	return s.MemoryStore.ReadSettings(ctx)
}

func seedRows(st *store.MemoryStore, tab string, n int) {
	rows := make([]store.RecordRow, n)
	for i := range rows {
		rows[i] = store.RecordRow{
			Record: model.PendingRecord{
				Row:   i + 2,
				Left:  model.Candidate{ID: "a", Name: "Entity A", Address: "1 First St"},
				Right: model.Candidate{ID: "b", Name: "Entity B", Address: "2 Second St"},
			},
		}
	}
	st.SeedRows(tab, rows)
}
