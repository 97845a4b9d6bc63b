// Package quiz drives an interactive quiz over a prepared card deck: it
// presents questions, collects free-text answers, has them graded by the
// judge and optionally explained by the tutor, and accumulates attempts.
package quiz

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bekhruzmd/flashgen/internal/i18n"
	"github.com/bekhruzmd/flashgen/internal/model"
)

// Input sentinels recognized on the answer line, case-insensitive.
const (
	sentinelQuit = "quit"
	sentinelSkip = "skip"
)

// Config holds session construction parameters. Input, Output and Now are
// injectable so tests can script a whole session.
type Config struct {
	Explanations bool
	Input        io.Reader
	Output       io.Writer
	Now          func() time.Time // nil means time.Now
}

// Session runs one pass through a card deck. A session owns its attempt
// list until it finishes; persistence is the caller's job.
type Session struct {
	cards     []model.Card
	judge     *Judge
	explainer *Explainer
	cfg       Config

	in  *bufio.Scanner
	out io.Writer

	attempts []model.Attempt
	correct  int
}

// Summary is the outcome of a finished session.
type Summary struct {
	Attempts     []model.Attempt
	CorrectCount int
	TotalCards   int
	// Aborted is true when the user quit before the last card.
	Aborted bool
}

// Accuracy is the percentage of recorded attempts graded correct. Skipped
// cards never appear in the attempt list, so skipping does not penalize.
func (s Summary) Accuracy() float64 {
	if len(s.Attempts) == 0 {
		return 0
	}
	return 100 * float64(s.CorrectCount) / float64(len(s.Attempts))
}

// NewSession creates a session over an already prepared deck (shuffling and
// truncation happen in the deck package, before construction).
func NewSession(cards []model.Card, judge *Judge, explainer *Explainer, cfg Config) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Session{
		cards:     cards,
		judge:     judge,
		explainer: explainer,
		cfg:       cfg,
		in:        bufio.NewScanner(cfg.Input),
		out:       cfg.Output,
	}
}

// Run drives the session to completion or user abort and returns its
// summary. Grading and explanation failures never interrupt the flow.
func (s *Session) Run(ctx context.Context) Summary {
	total := len(s.cards)

	fmt.Fprintln(s.out, i18n.T("quiz.header"))
	fmt.Fprintln(s.out, i18n.Td("quiz.setup", map[string]any{
		"Count":        total,
		"Explanations": yesNo(s.cfg.Explanations),
	}))
	fmt.Fprintln(s.out, i18n.T("quiz.commands"))

	for i, card := range s.cards {
		fmt.Fprintf(s.out, "\n%s\n%s\n", i18n.Td("quiz.question", map[string]any{
			"Index": i + 1,
			"Total": total,
		}), card.Question)

		line, ok := s.readLine(i18n.T("quiz.answer_prompt"))
		if !ok {
			// Input exhausted: treat like quit.
			fmt.Fprintln(s.out, i18n.T("quiz.ended_by_user"))
			return s.summary(true)
		}

		answer := strings.TrimSpace(line)
		switch strings.ToLower(answer) {
		case sentinelQuit:
			fmt.Fprintln(s.out, i18n.T("quiz.ended_by_user"))
			return s.summary(true)
		case sentinelSkip:
			fmt.Fprintln(s.out, i18n.T("quiz.skipped"))
			continue
		}

		fmt.Fprintln(s.out, i18n.T("quiz.grading"))
		verdict := s.judge.Grade(ctx, card.Answer, answer)

		s.attempts = append(s.attempts, model.Attempt{
			Question:      card.Question,
			CorrectAnswer: card.Answer,
			UserAnswer:    answer,
			Verdict:       verdict,
			Timestamp:     s.cfg.Now().Format(time.RFC3339),
		})
		if verdict.IsCorrect {
			s.correct++
			fmt.Fprintln(s.out, i18n.T("quiz.correct"))
		} else {
			fmt.Fprintln(s.out, i18n.T("quiz.incorrect"))
		}
		s.printVerdict(card, verdict)

		if !verdict.IsCorrect && s.cfg.Explanations && s.confirm(i18n.T("quiz.offer_explanation")) {
			fmt.Fprintln(s.out, i18n.T("quiz.explaining"))
			text := s.explainer.Explain(ctx, card.Question, card.Answer, answer)
			fmt.Fprintf(s.out, "\n%s\n%s\n", i18n.T("quiz.explanation_title"), text)
		}
	}

	return s.summary(false)
}

func (s *Session) printVerdict(card model.Card, v model.Verdict) {
	fmt.Fprintln(s.out, i18n.Td("quiz.score", map[string]any{
		"Score": fmt.Sprintf("%.1f", v.Score),
	}))
	fmt.Fprintln(s.out, i18n.Td("quiz.feedback", map[string]any{
		"Feedback": v.Feedback,
	}))
	fmt.Fprintln(s.out, i18n.Td("quiz.correct_answer", map[string]any{
		"Answer": card.Answer,
	}))
	if len(v.KeyPointsMissed) > 0 {
		fmt.Fprintln(s.out, i18n.Td("quiz.key_points", map[string]any{
			"Points": strings.Join(v.KeyPointsMissed, "; "),
		}))
	}
}

// readLine prompts and reads one input line. The second return is false
// once input is exhausted.
func (s *Session) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

// confirm asks a yes/no question, defaulting to yes on an empty line or
// exhausted input.
func (s *Session) confirm(prompt string) bool {
	line, ok := s.readLine(prompt)
	if !ok {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "no":
		return false
	default:
		return true
	}
}

func (s *Session) summary(aborted bool) Summary {
	return Summary{
		Attempts:     s.attempts,
		CorrectCount: s.correct,
		TotalCards:   len(s.cards),
		Aborted:      aborted,
	}
}

func yesNo(b bool) string {
	if b {
		return i18n.T("yes")
	}
	return i18n.T("no")
}
