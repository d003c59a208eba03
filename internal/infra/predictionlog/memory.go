package predictionlog

import (
	"context"
	"sync"

	"github.com/yanqian/flight-fare/internal/domain/fare"
)

// MemoryLog keeps predictions in memory. Useful for tests and local dev.
type MemoryLog struct {
	mu      sync.RWMutex
	records []fare.PredictionRecord
}

// NewMemoryLog constructs an empty log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append implements fare.PredictionLog.
func (l *MemoryLog) Append(_ context.Context, record fare.PredictionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return nil
}

// Recent implements fare.PredictionLog, newest first.
func (l *MemoryLog) Recent(_ context.Context, limit int) ([]fare.PredictionRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]fare.PredictionRecord, 0, min(limit, len(l.records)))
	for i := len(l.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.records[i])
	}
	return out, nil
}

var _ fare.PredictionLog = (*MemoryLog)(nil)
