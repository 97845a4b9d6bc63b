package model

// Card is a single flashcard: one question with its canonical answer.
// The same shape is used by the card file, the generator and every exporter.
type Card struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Verdict is the judge's grading outcome for one answer.
//
// Verdicts are constructed only by the quiz judge (from a parsed service
// response, from the empty-answer fast path, or from the error fallback)
// and are never modified afterwards.
type Verdict struct {
	IsCorrect bool    `json:"is_correct"`
	Score     float64 `json:"score"` // always within [0, 1]
	Feedback  string  `json:"feedback"`
	// KeyPointsMissed lists essential concepts absent from the answer,
	// in rubric order. May be empty.
	KeyPointsMissed []string `json:"key_points_missed"`
}

// Attempt records one graded answer in a quiz session.
type Attempt struct {
	Question      string  `json:"question"`
	CorrectAnswer string  `json:"correct_answer"`
	UserAnswer    string  `json:"user_answer"`
	Verdict       Verdict `json:"verdict"`
	// Timestamp is RFC 3339, assigned by the session when the attempt is
	// recorded.
	Timestamp string `json:"timestamp"`
}

// Stats holds aggregate quiz statistics derived from a set of attempts.
// Stats are recomputed on every review; they are never persisted.
type Stats struct {
	Count        int
	AverageScore float64
	CorrectCount int
	// SuccessRate is a percentage: 100 * CorrectCount / Count.
	SuccessRate float64
}
