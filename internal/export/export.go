// Package export writes flashcard decks in the supported output formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bekhruzmd/flashgen/internal/model"
)

// ErrUnsupportedFormat indicates the requested export format has no adapter.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Func writes a card deck to path.
type Func func(cards []model.Card, path string) error

var exporters = map[string]Func{
	"csv":  saveCSV,
	"tsv":  saveTSV,
	"json": saveJSON,
	"xlsx": saveXLSX,
	"md":   saveMarkdown,
	"txt":  saveText,
	"apkg": saveAnki,
}

// Formats lists the supported format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Export writes cards to path in the given format.
func Export(cards []model.Card, format, path string) error {
	fn, ok := exporters[format]
	if !ok {
		return fmt.Errorf("%w: %s (available: %s)",
			ErrUnsupportedFormat, format, strings.Join(Formats(), ", "))
	}
	return fn(cards, path)
}

func saveCSV(cards []model.Card, path string) error {
	return saveDelimited(cards, path, ',')
}

func saveTSV(cards []model.Card, path string) error {
	return saveDelimited(cards, path, '\t')
}

func saveDelimited(cards []model.Card, path string, delim rune) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = delim
	if err := w.Write([]string{"question", "answer"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range cards {
		if err := w.Write([]string{c.Question, c.Answer}); err != nil {
			return fmt.Errorf("write card: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func saveJSON(cards []model.Card, path string) error {
	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cards: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func saveXLSX(cards []model.Card, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if err := f.SetCellValue(sheet, "A1", "question"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellValue(sheet, "B1", "answer"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, c := range cards {
		row := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), c.Question); err != nil {
			return fmt.Errorf("write card %d: %w", i, err)
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), c.Answer); err != nil {
			return fmt.Errorf("write card %d: %w", i, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func saveMarkdown(cards []model.Card, path string) error {
	var sb strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&sb, "### Q: %s\nA: %s\n\n", c.Question, c.Answer)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func saveText(cards []model.Card, path string) error {
	var sb strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&sb, "Q: %s\nA: %s\n\n", c.Question, c.Answer)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
