package attemptlog

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bekhruzmd/flashgen/internal/model"
)

func testAttempt(question string, correct bool, score float64) model.Attempt {
	return model.Attempt{
		Question:      question,
		CorrectAnswer: "canonical answer for " + question,
		UserAnswer:    "user answer for " + question,
		Verdict: model.Verdict{
			IsCorrect:       correct,
			Score:           score,
			Feedback:        "feedback for " + question,
			KeyPointsMissed: []string{"point one", "point two"},
		},
		Timestamp: "2024-05-01T10:30:00Z",
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir()).WithClock(fixedClock(time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)))

	want := []model.Attempt{
		testAttempt("q1", true, 1.0),
		testAttempt("q2", false, 0.5),
		testAttempt("q3", false, 0.0),
	}

	path, err := store.Save(want)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "quiz_session_20240501_103000.jsonl" {
		t.Errorf("artifact name = %q", filepath.Base(path))
	}

	got, files, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if files != 1 {
		t.Errorf("files = %d, want 1", files)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d attempts, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.Question != w.Question || g.CorrectAnswer != w.CorrectAnswer ||
			g.UserAnswer != w.UserAnswer || g.Timestamp != w.Timestamp {
			t.Errorf("attempt %d = %+v, want %+v", i, g, w)
		}
		if g.Verdict.IsCorrect != w.Verdict.IsCorrect || g.Verdict.Score != w.Verdict.Score {
			t.Errorf("verdict %d = %+v, want %+v", i, g.Verdict, w.Verdict)
		}
		if len(g.Verdict.KeyPointsMissed) != len(w.Verdict.KeyPointsMissed) {
			t.Errorf("key points %d = %v", i, g.Verdict.KeyPointsMissed)
		}
	}
}

func TestSaveEmpty(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Save(nil); !errors.Is(err, ErrNoAttempts) {
		t.Errorf("Save(nil) error = %v, want ErrNoAttempts", err)
	}
}

// Each session gets its own artifact; saving twice never appends.
func TestSaveSeparateSessions(t *testing.T) {
	dir := t.TempDir()
	first := New(dir).WithClock(fixedClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
	second := New(dir).WithClock(fixedClock(time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)))

	if _, err := first.Save([]model.Attempt{testAttempt("early", true, 1.0)}); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if _, err := second.Save([]model.Attempt{testAttempt("late", false, 0.2)}); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	got, files, err := New(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if files != 2 {
		t.Errorf("files = %d, want 2", files)
	}
	if len(got) != 2 {
		t.Fatalf("attempts = %d, want 2", len(got))
	}
	// Lexical file order is chronological order.
	if got[0].Question != "early" || got[1].Question != "late" {
		t.Errorf("order = [%s, %s], want [early, late]", got[0].Question, got[1].Question)
	}
}

func TestLoadOne(t *testing.T) {
	dir := t.TempDir()
	store := New(dir).WithClock(fixedClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))

	path, err := store.Save([]model.Attempt{testAttempt("q1", true, 1.0)})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.LoadOne(filepath.Base(path))
	if err != nil {
		t.Fatalf("LoadOne: %v", err)
	}
	if len(got) != 1 || got[0].Question != "q1" {
		t.Errorf("got %+v", got)
	}

	if _, err := store.LoadOne("no_such_session.jsonl"); err == nil {
		t.Error("LoadOne on a missing file should fail")
	}
}

func TestLoadSkipsBadLines(t *testing.T) {
	dir := t.TempDir()
	content := `{"question":"good one","correct_answer":"a","user_answer":"u","verdict":{"is_correct":true,"score":1,"feedback":"f","key_points_missed":[]},"timestamp":"t"}
this line is corrupt

{"question":"good two","correct_answer":"a","user_answer":"u","verdict":{"is_correct":false,"score":0,"feedback":"f","key_points_missed":[]},"timestamp":"t"}
`
	if err := os.WriteFile(filepath.Join(dir, "quiz_session_20240501_100000.jsonl"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, _, err := New(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("attempts = %d, want 2 (bad line skipped, blank ignored)", len(got))
	}
	if got[0].Question != "good one" || got[1].Question != "good two" {
		t.Errorf("got %+v", got)
	}
}

func TestLoadAllIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a session"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, files, err := New(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if files != 0 || len(got) != 0 {
		t.Errorf("files = %d, attempts = %d, want 0, 0", files, len(got))
	}
}

func TestLoadAllMissingDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "does-not-exist"))
	if _, _, err := store.LoadAll(); err == nil {
		t.Error("LoadAll on a missing directory should fail")
	}
}

func TestSummarize(t *testing.T) {
	attempts := []model.Attempt{
		testAttempt("q1", true, 1.0),
		testAttempt("q2", false, 0.5),
		testAttempt("q3", false, 0.0),
	}

	stats, err := Summarize(attempts)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if stats.Count != 3 {
		t.Errorf("count = %d, want 3", stats.Count)
	}
	if stats.AverageScore != 0.5 {
		t.Errorf("average = %v, want 0.5", stats.AverageScore)
	}
	if stats.CorrectCount != 1 {
		t.Errorf("correct = %d, want 1", stats.CorrectCount)
	}
	if math.Abs(stats.SuccessRate-100.0/3) > 1e-9 {
		t.Errorf("success rate = %v, want ~33.3", stats.SuccessRate)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrNoAttempts) {
		t.Errorf("Summarize(nil) error = %v, want ErrNoAttempts", err)
	}
}
