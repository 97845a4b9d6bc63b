package quiz

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bekhruzmd/flashgen/internal/llm"
	"github.com/bekhruzmd/flashgen/internal/llm/prompts"
)

// Explainer produces a short tutoring explanation for a wrong answer. It is
// independent of grading: the explanation text is returned verbatim, with no
// parsing or validation.
type Explainer struct {
	llm llm.Completer
}

// NewExplainer creates an explainer backed by the given completion service.
func NewExplainer(c llm.Completer) *Explainer {
	return &Explainer{llm: c}
}

// Explain returns tutoring text for a wrong answer. It never fails: on any
// service error it falls back to a canned reminder of the correct answer.
func (e *Explainer) Explain(ctx context.Context, question, correctAnswer, userAnswer string) string {
	prompt, err := prompts.BuildExplain(prompts.ExplainData{
		Question:      question,
		CorrectAnswer: correctAnswer,
		UserAnswer:    userAnswer,
	})
	if err == nil {
		raw, cerr := e.llm.Complete(ctx, prompt, llm.TempExplainer)
		if cerr == nil {
			return raw
		}
		err = cerr
	}

	slog.Warn("explanation failed, using fallback", "error", err)
	return fmt.Sprintf("Let's review: %s. This is an important concept to master.", correctAnswer)
}
