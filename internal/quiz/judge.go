package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bekhruzmd/flashgen/internal/llm"
	"github.com/bekhruzmd/flashgen/internal/llm/prompts"
	"github.com/bekhruzmd/flashgen/internal/model"
)

// Judge grades free-text answers against a flashcard's canonical answer,
// using the completion service as a semantic judge: conceptual equivalence
// counts, exact wording does not.
type Judge struct {
	llm llm.Completer
}

// NewJudge creates a judge backed by the given completion service.
func NewJudge(c llm.Completer) *Judge {
	return &Judge{llm: c}
}

// Grade returns a verdict for userAnswer. It never fails: an empty answer
// short-circuits to a zero-score verdict without a service call, and every
// service, parse or validation failure degrades to a verdict that gives the
// user the benefit of the doubt. An infrastructure failure must never
// penalize the user.
func (j *Judge) Grade(ctx context.Context, canonicalAnswer, userAnswer string) model.Verdict {
	if strings.TrimSpace(userAnswer) == "" {
		return model.Verdict{
			IsCorrect:       false,
			Score:           0.0,
			Feedback:        "No answer provided - give it a try!",
			KeyPointsMissed: []string{"Complete answer required"},
		}
	}

	verdict, err := j.grade(ctx, canonicalAnswer, userAnswer)
	if err != nil {
		slog.Warn("grading failed, giving benefit of the doubt", "error", err)
		return fallbackVerdict(err)
	}
	return verdict
}

func (j *Judge) grade(ctx context.Context, canonicalAnswer, userAnswer string) (model.Verdict, error) {
	prompt, err := prompts.BuildGrade(prompts.GradeData{
		CanonicalAnswer: canonicalAnswer,
		UserAnswer:      userAnswer,
	})
	if err != nil {
		return model.Verdict{}, fmt.Errorf("build grading prompt: %w", err)
	}

	raw, err := j.llm.Complete(ctx, prompt, llm.TempJudge)
	if err != nil {
		return model.Verdict{}, fmt.Errorf("judge service: %w", err)
	}

	obj, err := llm.ParseObject(raw)
	if err != nil {
		return model.Verdict{}, err
	}
	return verdictFrom(obj)
}

// verdictFrom validates the parsed judge output and builds a verdict from
// it. A missing or mistyped field is a construction failure; the only
// exceptions are key_points_missed, which may be absent, and score, which is
// clamped into [0, 1] rather than rejected.
func verdictFrom(obj map[string]any) (model.Verdict, error) {
	isCorrect, ok := obj["is_correct"].(bool)
	if !ok {
		return model.Verdict{}, fmt.Errorf("judge output: missing or invalid is_correct")
	}

	score, ok := obj["score"].(float64)
	if !ok {
		return model.Verdict{}, fmt.Errorf("judge output: missing or invalid score")
	}
	score = min(max(score, 0), 1)

	feedback, ok := obj["feedback"].(string)
	if !ok || strings.TrimSpace(feedback) == "" {
		return model.Verdict{}, fmt.Errorf("judge output: missing or empty feedback")
	}

	missed := []string{}
	if rawMissed, present := obj["key_points_missed"]; present {
		list, ok := rawMissed.([]any)
		if !ok {
			return model.Verdict{}, fmt.Errorf("judge output: key_points_missed is not a list")
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return model.Verdict{}, fmt.Errorf("judge output: key_points_missed contains a non-string entry")
			}
			missed = append(missed, s)
		}
	}

	return model.Verdict{
		IsCorrect:       isCorrect,
		Score:           score,
		Feedback:        feedback,
		KeyPointsMissed: missed,
	}, nil
}

func fallbackVerdict(cause error) model.Verdict {
	msg := cause.Error()
	if len(msg) > 100 {
		msg = msg[:100]
	}
	return model.Verdict{
		IsCorrect:       true, // benefit of the doubt
		Score:           0.8,
		Feedback:        "Grading system had an issue, but your answer looks reasonable: " + msg,
		KeyPointsMissed: []string{},
	}
}
