// Package deck loads flashcard files and prepares them for a quiz run.
package deck

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/bekhruzmd/flashgen/internal/model"
)

// Load reads a JSON array of cards from path. A missing or malformed card
// file aborts the action that requested it; there is no degraded mode for
// not knowing what to quiz on.
func Load(path string) ([]model.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cards file: %w", err)
	}
	var cards []model.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("parse cards file %s: %w", path, err)
	}
	return cards, nil
}

// Prepare returns the session's card sequence: optionally shuffled, then
// truncated to limit (0 means no limit). Truncation follows shuffling, so a
// limit on a shuffled deck selects a random subset rather than a fixed
// prefix. The input slice is not modified.
func Prepare(cards []model.Card, shuffle bool, limit int, rng *rand.Rand) []model.Card {
	out := make([]model.Card, len(cards))
	copy(out, cards)

	if shuffle {
		rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
