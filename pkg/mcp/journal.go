package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// JournalEntry is the schema for one JSONL line written per tool call.
type JournalEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	IsError       bool           `json:"is_error"`
	Error         *string        `json:"error"`
}

// Journal appends one JSONL entry per tool call to a file.
// It is safe for concurrent use.
type Journal struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// OpenJournal opens (or creates) the file at path for append-only writing.
// Parent directories are created automatically.
// Returns nil, nil if path is empty; a nil Journal is disabled.
func OpenJournal(path string) (*Journal, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("journal: open file: %w", err)
	}
	return &Journal{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends a single entry.
func (j *Journal) Write(entry JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(entry)
}

// Close closes the underlying file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.f.Close()
}

// sanitizeParams returns a copy of args safe for the journal. Strings longer
// than 256 bytes are replaced by a "{key}_len" entry.
func sanitizeParams(args map[string]any) map[string]any {
	const shortStringMax = 256
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > shortStringMax {
			out[k+"_len"] = len(s)
		} else {
			out[k] = v
		}
	}
	return out
}

// responseBytes returns the serialized length of a result's content.
func responseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// now is a replaceable clock for testing.
var now = func() time.Time { return time.Now() }
