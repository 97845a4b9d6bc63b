package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/bekhruzmd/flashgen/internal/model"
)

var testDeck = []model.Card{
	{Question: "What is Go?", Answer: "A programming language"},
	{Question: "What is a goroutine?", Answer: "A lightweight thread"},
}

func exportTo(t *testing.T, format string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck."+format)
	if err := Export(testDeck, format, path); err != nil {
		t.Fatalf("Export(%s): %v", format, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestExportCSV(t *testing.T) {
	got := readFile(t, exportTo(t, "csv"))
	want := "question,answer\nWhat is Go?,A programming language\nWhat is a goroutine?,A lightweight thread\n"
	if got != want {
		t.Errorf("csv = %q, want %q", got, want)
	}
}

func TestExportTSV(t *testing.T) {
	got := readFile(t, exportTo(t, "tsv"))
	want := "question\tanswer\nWhat is Go?\tA programming language\nWhat is a goroutine?\tA lightweight thread\n"
	if got != want {
		t.Errorf("tsv = %q, want %q", got, want)
	}
}

func TestExportJSON(t *testing.T) {
	var got []model.Card
	if err := json.Unmarshal([]byte(readFile(t, exportTo(t, "json"))), &got); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if len(got) != 2 || got[0] != testDeck[0] || got[1] != testDeck[1] {
		t.Errorf("round trip = %+v", got)
	}
}

func TestExportMarkdown(t *testing.T) {
	got := readFile(t, exportTo(t, "md"))
	want := "### Q: What is Go?\nA: A programming language\n\n### Q: What is a goroutine?\nA: A lightweight thread\n\n"
	if got != want {
		t.Errorf("md = %q, want %q", got, want)
	}
}

func TestExportText(t *testing.T) {
	got := readFile(t, exportTo(t, "txt"))
	want := "Q: What is Go?\nA: A programming language\n\nQ: What is a goroutine?\nA: A lightweight thread\n\n"
	if got != want {
		t.Errorf("txt = %q, want %q", got, want)
	}
}

func TestExportXLSX(t *testing.T) {
	path := exportTo(t, "xlsx")

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	checks := []struct {
		cell string
		want string
	}{
		{"A1", "question"},
		{"B1", "answer"},
		{"A2", "What is Go?"},
		{"B2", "A programming language"},
		{"A3", "What is a goroutine?"},
		{"B3", "A lightweight thread"},
	}
	for _, c := range checks {
		got, err := f.GetCellValue("Sheet1", c.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", c.cell, err)
		}
		if got != c.want {
			t.Errorf("%s = %q, want %q", c.cell, got, c.want)
		}
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	err := Export(testDeck, "pptx", filepath.Join(t.TempDir(), "deck.pptx"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
	if !strings.Contains(err.Error(), "available:") {
		t.Errorf("error should list available formats: %v", err)
	}
}

func TestFormats(t *testing.T) {
	want := []string{"apkg", "csv", "json", "md", "tsv", "txt", "xlsx"}
	got := Formats()
	if len(got) != len(want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Formats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
