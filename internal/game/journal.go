package game

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Journal records every event of one match as zstd-compressed JSON
// lines, one file per match. A nil Journal discards everything, so a
// match without a journal directory costs nothing.
type Journal struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

type journalEntry struct {
	At    time.Time `json:"at"`
	Kind  EventKind `json:"kind"`
	Event any       `json:"event,omitempty"`
}

// OpenJournal creates the match's journal file under dir.
func OpenJournal(dir string, matchNumber int64) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("match-%d.jsonl.zst", matchNumber))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &Journal{f: f, enc: enc, w: bufio.NewWriter(enc)}, nil
}

// Record appends one event line.
func (j *Journal) Record(ev Event) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.w == nil {
		return
	}
	line, err := json.Marshal(journalEntry{At: time.Now().UTC(), Kind: ev.Kind, Event: ev.Payload})
	if err != nil {
		return
	}
	j.w.Write(line)
	j.w.WriteByte('\n')
}

// Close flushes and closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.w == nil {
		return nil
	}
	j.w.Flush()
	j.w = nil
	if err := j.enc.Close(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}
