// Package attemptlog persists quiz attempts as one JSONL artifact per
// session and computes aggregate statistics for the review path. Each line
// is a self-describing attempt record, so a partially corrupted file can
// still be recovered line by line.
package attemptlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bekhruzmd/flashgen/internal/model"
)

// ErrNoAttempts is returned when statistics are requested over zero
// attempts.
var ErrNoAttempts = errors.New("no attempts")

// Store writes and reads session artifacts inside a dedicated directory.
// Every session creates its own timestamp-named file; nothing ever appends
// to an earlier session's artifact.
type Store struct {
	dir string
	now func() time.Time
}

// New creates a store rooted at dir. The clock is injectable for tests.
func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// WithClock replaces the store's clock and returns the store.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Save writes the attempts to a new session artifact, one compact JSON
// object per line in encounter order, and returns the artifact path.
func (s *Store) Save(attempts []model.Attempt) (string, error) {
	if len(attempts) == 0 {
		return "", ErrNoAttempts
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create attempts directory: %w", err)
	}

	name := "quiz_session_" + s.now().Format("20060102_150405") + ".jsonl"
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create session file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, a := range attempts {
		if err := enc.Encode(a); err != nil {
			return "", fmt.Errorf("write attempt: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("flush session file: %w", err)
	}
	return path, nil
}

// LoadAll reads every session artifact in the store's directory in lexical
// (and therefore chronological) order. A file that cannot be read is skipped
// with a warning; a missing directory is an error.
func (s *Store) LoadAll() ([]model.Attempt, int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, 0, fmt.Errorf("read attempts directory: %w", err)
	}

	var attempts []model.Attempt
	files := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		loaded, err := loadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			slog.Warn("skipping unreadable session file", "file", e.Name(), "error", err)
			continue
		}
		files++
		attempts = append(attempts, loaded...)
	}
	return attempts, files, nil
}

// LoadOne reads a single named session artifact.
func (s *Store) LoadOne(name string) ([]model.Attempt, error) {
	return loadFile(filepath.Join(s.dir, name))
}

// loadFile parses one JSONL artifact. Blank lines are ignored and a line
// that fails to parse is skipped with a warning, not fatal to the read.
func loadFile(path string) ([]model.Attempt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()

	var attempts []model.Attempt
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var a model.Attempt
		if err := json.Unmarshal([]byte(line), &a); err != nil {
			slog.Warn("skipping unparseable attempt record",
				"file", filepath.Base(path), "line", lineNo, "error", err)
			continue
		}
		attempts = append(attempts, a)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return attempts, nil
}

// Summarize computes aggregate statistics over a set of attempts. It
// returns ErrNoAttempts for empty input rather than dividing by zero.
func Summarize(attempts []model.Attempt) (model.Stats, error) {
	if len(attempts) == 0 {
		return model.Stats{}, ErrNoAttempts
	}

	var total float64
	correct := 0
	for _, a := range attempts {
		total += a.Verdict.Score
		if a.Verdict.IsCorrect {
			correct++
		}
	}
	count := len(attempts)
	return model.Stats{
		Count:        count,
		AverageScore: total / float64(count),
		CorrectCount: correct,
		SuccessRate:  100 * float64(correct) / float64(count),
	}, nil
}
