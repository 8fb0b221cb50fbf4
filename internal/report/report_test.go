package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"inout-engine/internal/importer"
	"inout-engine/internal/recurrence"
)

func TestNewGeneratorRejectsUnknownFormat(t *testing.T) {
	if _, err := NewGenerator("xml"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestConsoleImportReport(t *testing.T) {
	generator, err := NewGenerator(FormatConsole)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	result := &importer.ImportResult{Imported: 5, Skipped: 1, Duplicates: 2}
	if err := generator.WriteImportReport(result, &buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"IMPORT SUMMARY", "Rows processed: 8", "Imported:       5", "Duplicates:     2"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONImportReport(t *testing.T) {
	generator, _ := NewGenerator(FormatJSON)

	var buf bytes.Buffer
	result := &importer.ImportResult{Imported: 3, Duplicates: 1}
	if err := generator.WriteImportReport(result, &buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var decoded struct {
		Import importer.ImportResult `json:"import"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Import != *result {
		t.Errorf("decoded = %+v, want %+v", decoded.Import, *result)
	}
}

func TestSweepReports(t *testing.T) {
	result := &recurrence.SweepResult{Subscriptions: 2, Generated: 7, Skipped: 1}

	var console bytes.Buffer
	consoleGen, _ := NewGenerator(FormatConsole)
	if err := consoleGen.WriteSweepReport(result, &console); err != nil {
		t.Fatalf("console write failed: %v", err)
	}
	if !strings.Contains(console.String(), "Records generated:  7") {
		t.Errorf("console output missing generated count:\n%s", console.String())
	}

	var buf bytes.Buffer
	jsonGen, _ := NewGenerator(FormatJSON)
	if err := jsonGen.WriteSweepReport(result, &buf); err != nil {
		t.Fatalf("json write failed: %v", err)
	}
	var decoded struct {
		Sweep recurrence.SweepResult `json:"sweep"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Sweep != *result {
		t.Errorf("decoded = %+v, want %+v", decoded.Sweep, *result)
	}
}

func TestNilResultsRejected(t *testing.T) {
	generator, _ := NewGenerator(FormatConsole)
	if err := generator.WriteImportReport(nil, &bytes.Buffer{}); err == nil {
		t.Error("nil import result should be rejected")
	}
	if err := generator.WriteSweepReport(nil, &bytes.Buffer{}); err == nil {
		t.Error("nil sweep result should be rejected")
	}
}
