// Package report renders import and sweep outcomes for terminal display or
// programmatic consumption.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"inout-engine/internal/importer"
	"inout-engine/internal/recurrence"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
)

// IsValid checks if the output format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON:
		return true
	default:
		return false
	}
}

// Generator renders results in a fixed output format.
type Generator struct {
	format OutputFormat
}

// NewGenerator creates a report generator for the given format.
func NewGenerator(format OutputFormat) (*Generator, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	return &Generator{format: format}, nil
}

// WriteImportReport renders an import result to the writer.
func (g *Generator) WriteImportReport(result *importer.ImportResult, w io.Writer) error {
	if result == nil {
		return fmt.Errorf("import result cannot be nil")
	}

	if g.format == FormatJSON {
		return writeJSON(w, struct {
			GeneratedAt time.Time              `json:"generated_at"`
			Import      *importer.ImportResult `json:"import"`
		}{time.Now(), result})
	}

	fmt.Fprintf(w, "IMPORT SUMMARY\n")
	fmt.Fprintf(w, "  Rows processed: %d\n", result.Total())
	fmt.Fprintf(w, "  Imported:       %d\n", result.Imported)
	fmt.Fprintf(w, "  Duplicates:     %d\n", result.Duplicates)
	fmt.Fprintf(w, "  Skipped:        %d\n", result.Skipped)
	return nil
}

// WriteSweepReport renders a subscription sweep result to the writer.
func (g *Generator) WriteSweepReport(result *recurrence.SweepResult, w io.Writer) error {
	if result == nil {
		return fmt.Errorf("sweep result cannot be nil")
	}

	if g.format == FormatJSON {
		return writeJSON(w, struct {
			GeneratedAt time.Time               `json:"generated_at"`
			Sweep       *recurrence.SweepResult `json:"sweep"`
		}{time.Now(), result})
	}

	fmt.Fprintf(w, "SUBSCRIPTION SWEEP\n")
	fmt.Fprintf(w, "  Subscriptions:      %d\n", result.Subscriptions)
	fmt.Fprintf(w, "  Records generated:  %d\n", result.Generated)
	fmt.Fprintf(w, "  Skipped (invalid):  %d\n", result.Skipped)
	return nil
}

func writeJSON(w io.Writer, payload interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
