// Package prompts builds the three prompt texts sent to the completion
// service. Templates live in embedded files so wording changes never touch
// Go code.
package prompts

import (
	"bytes"
	"embed"
	"text/template"
)

//go:embed templates/*.txt
var templateFS embed.FS

var (
	gradeTmpl    = mustLoad("grade")
	explainTmpl  = mustLoad("explain")
	generateTmpl = mustLoad("generate")
)

func mustLoad(name string) *template.Template {
	content, err := templateFS.ReadFile("templates/" + name + ".txt")
	if err != nil {
		panic("prompts: missing template " + name + ": " + err.Error())
	}
	return template.Must(template.New(name).Parse(string(content)))
}

// GradeData holds template data for the grading prompt.
type GradeData struct {
	CanonicalAnswer string
	UserAnswer      string
}

// ExplainData holds template data for the mistake-explanation prompt.
type ExplainData struct {
	Question      string
	CorrectAnswer string
	UserAnswer    string
}

// GenerateData holds template data for the flashcard-generation prompt.
type GenerateData struct {
	Text string
}

// BuildGrade renders the semantic-grading prompt.
func BuildGrade(data GradeData) (string, error) {
	return render(gradeTmpl, data)
}

// BuildExplain renders the tutoring prompt for a wrong answer.
func BuildExplain(data ExplainData) (string, error) {
	return render(explainTmpl, data)
}

// BuildGenerate renders the flashcard-generation prompt.
func BuildGenerate(data GenerateData) (string, error) {
	return render(generateTmpl, data)
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
