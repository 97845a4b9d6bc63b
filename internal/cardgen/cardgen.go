// Package cardgen turns raw study text into question/answer flashcards via
// the completion service.
package cardgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bekhruzmd/flashgen/internal/llm"
	"github.com/bekhruzmd/flashgen/internal/llm/prompts"
	"github.com/bekhruzmd/flashgen/internal/model"
)

const maxAttempts = 3

// Generator generates flashcards from study material.
type Generator struct {
	llm llm.Completer
}

// New creates a generator backed by the given completion service.
func New(c llm.Completer) *Generator {
	return &Generator{llm: c}
}

// Generate asks the service for a flashcard array, retrying on malformed or
// structurally invalid output. Unlike judge verdicts, array output gets the
// stronger bracket-extraction recovery before parsing.
func (g *Generator) Generate(ctx context.Context, text string) ([]model.Card, error) {
	prompt, err := prompts.BuildGenerate(prompts.GenerateData{Text: text})
	if err != nil {
		return nil, fmt.Errorf("build generation prompt: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		cards, err := g.generate(ctx, prompt)
		if err == nil {
			slog.Info("generated flashcards", "count", len(cards), "attempt", attempt)
			return cards, nil
		}
		lastErr = err
		slog.Warn("flashcard generation attempt failed",
			"attempt", attempt, "max_attempts", maxAttempts, "error", err)
	}
	return nil, fmt.Errorf("generate flashcards after %d attempts: %w", maxAttempts, lastErr)
}

func (g *Generator) generate(ctx context.Context, prompt string) ([]model.Card, error) {
	raw, err := g.llm.Complete(ctx, prompt, llm.TempGenerator)
	if err != nil {
		return nil, fmt.Errorf("generation service: %w", err)
	}

	arr, err := llm.ExtractArray(raw)
	if err != nil {
		return nil, err
	}

	var cards []model.Card
	if err := json.Unmarshal([]byte(arr), &cards); err != nil {
		return nil, fmt.Errorf("%w: not a card array", llm.ErrMalformedOutput)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: empty card array", llm.ErrMalformedOutput)
	}
	for i, c := range cards {
		if strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
			return nil, fmt.Errorf("%w: card %d missing question or answer", llm.ErrMalformedOutput, i)
		}
	}
	return cards, nil
}
