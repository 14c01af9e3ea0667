package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/basket/internal/model"
)

// MockWriter is a mock implementation of ReportWriter for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, rules []model.Rule, summary model.Summary, meta RunMeta) error
	LastRules      []model.Rule
	LastMeta       RunMeta
	WriteCalls     []WriteCall
	LastSummary    model.Summary
	WriteCallCount int
	mu             sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error   error
	Meta    RunMeta
	Rules   []model.Rule
	Summary model.Summary
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write implements the ReportWriter interface.
func (m *MockWriter) Write(ctx context.Context, rules []model.Rule, summary model.Summary, meta RunMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++
	m.LastRules = rules
	m.LastSummary = summary
	m.LastMeta = meta

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, rules, summary, meta)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Rules:   rules,
		Summary: summary,
		Meta:    meta,
		Error:   err,
	})

	return err
}

// Reset clears all recorded calls.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount = 0
	m.WriteCalls = make([]WriteCall, 0)
	m.LastRules = nil
	m.LastSummary = model.Summary{}
	m.LastMeta = RunMeta{}
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError configures the mock to return err from Write.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, []model.Rule, model.Summary, RunMeta) error {
		return err
	}
}
