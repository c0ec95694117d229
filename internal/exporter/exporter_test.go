package exporter

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"modelpulse/internal/core"
)

func sampleRecords() []core.ModelRecord {
	return []core.ModelRecord{
		{Model: "GPT-4", Organization: "OpenAI", ReleaseDate: time.Date(2023, 3, 14, 0, 0, 0, 0, time.UTC)},
		{Model: "Claude 2", Organization: "Anthropic", ReleaseDate: time.Date(2023, 7, 11, 0, 0, 0, 0, time.UTC)},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	want := [][]string{
		{"Model", "Organization", "Release Date"},
		{"GPT-4", "OpenAI", "2023-03-14"},
		{"Claude 2", "Anthropic", "2023-07-11"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("CSV rows = %v, want %v", rows, want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV failed on empty input: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("empty export should contain only the header, got %d rows", len(rows))
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("output is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Releases")
	if err != nil {
		t.Fatalf("read Releases sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "Model" || rows[1][0] != "GPT-4" || rows[2][2] != "2023-07-11" {
		t.Errorf("workbook contents wrong: %v", rows)
	}
}
