package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RunRecord is one generation run's audit entry.
type RunRecord struct {
	RunID        string    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	DurationMS   int64     `json:"duration_ms"`
	Goal         string    `json:"goal"`
	Fingerprint  string    `json:"fingerprint"`
	Ceiling      string    `json:"ceiling"`
	Artifacts    int       `json:"artifacts"`
	FromCache    int       `json:"from_cache"`
	Placeholders int       `json:"placeholders"`
}

// Audit appends run records to a JSON-lines history file. Appends are
// best-effort: a failed write is logged and dropped, never surfaced to the
// run that produced it.
type Audit struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewAudit creates an audit log at path. The file and its directory are
// created on first record, not here.
func NewAudit(path string, logger *zap.Logger) *Audit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Audit{path: path, logger: logger}
}

// Record appends one run record.
func (a *Audit) Record(rec RunRecord) {
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		a.logger.Warn("failed to encode audit record", zap.Error(err))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		a.logger.Warn("failed to create audit directory", zap.Error(err))
		return
	}
	file, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		a.logger.Warn("failed to open audit log", zap.Error(err))
		return
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		a.logger.Warn("failed to append audit record", zap.Error(err))
	}
}

// History reads every record in the log, oldest first. A missing log is an
// empty history.
func (a *Audit) History() ([]RunRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	var records []RunRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var rec RunRecord
		if err := dec.Decode(&rec); err != nil {
			// A torn final line from an interrupted append is expected;
			// everything before it is still valid.
			break
		}
		records = append(records, rec)
	}
	return records, nil
}
