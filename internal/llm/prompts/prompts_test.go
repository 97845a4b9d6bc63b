package prompts

import (
	"strings"
	"testing"
)

func TestBuildGrade(t *testing.T) {
	prompt, err := BuildGrade(GradeData{
		CanonicalAnswer: "Photosynthesis converts sunlight into chemical energy",
		UserAnswer:      "Plants use sunlight to make food",
	})
	if err != nil {
		t.Fatalf("BuildGrade: %v", err)
	}

	for _, want := range []string{
		"CANONICAL ANSWER: Photosynthesis converts sunlight into chemical energy",
		"USER ANSWER: Plants use sunlight to make food",
		"GRADING RUBRIC",
		"1.0: Demonstrates clear understanding",
		"0.0-0.4: Incorrect",
		`"is_correct"`,
		`"score"`,
		`"feedback"`,
		`"key_points_missed"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("grading prompt missing %q", want)
		}
	}
}

func TestBuildExplain(t *testing.T) {
	prompt, err := BuildExplain(ExplainData{
		Question:      "What is a goroutine?",
		CorrectAnswer: "A lightweight thread managed by the Go runtime",
		UserAnswer:    "A kind of channel",
	})
	if err != nil {
		t.Fatalf("BuildExplain: %v", err)
	}

	for _, want := range []string{
		"QUESTION: What is a goroutine?",
		"CORRECT ANSWER: A lightweight thread managed by the Go runtime",
		"STUDENT'S ANSWER: A kind of channel",
		"EXPLANATION:",
		"FOLLOW-UP QUESTIONS:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("explain prompt missing %q", want)
		}
	}
}

func TestBuildGenerate(t *testing.T) {
	prompt, err := BuildGenerate(GenerateData{Text: "The mitochondria is the powerhouse of the cell."})
	if err != nil {
		t.Fatalf("BuildGenerate: %v", err)
	}

	if !strings.Contains(prompt, "The mitochondria is the powerhouse of the cell.") {
		t.Error("generation prompt missing study material")
	}
	if !strings.Contains(prompt, "Return ONLY a valid JSON array") {
		t.Error("generation prompt missing array instruction")
	}
}
