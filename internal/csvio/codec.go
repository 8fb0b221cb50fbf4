// Package csvio converts transaction records to and from the tracker's CSV
// interchange format.
//
// The wire format is RFC4180-ish but tolerant of what real exports produce:
// an optional UTF-8 BOM, CR / LF / CRLF row separators, an optional header
// row, and quoted fields that may embed commas, quotes and line breaks.
// Export is strict: fixed column order, header always present, UTC ISO-8601
// timestamps with fractional seconds, trailing newline.
package csvio

import (
	"strings"
	"time"

	"inout-engine/internal/models"
)

// Columns is the canonical column order of the interchange format.
var Columns = []string{"title", "amount", "currency", "type", "category", "notes", "timestamp"}

// timestampLayout is ISO-8601 with fractional seconds, always UTC on export.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Export renders records as CSV text. Pure: no side effects, deterministic
// for records with non-zero timestamps. Missing optional fields serialize as
// empty strings; fields are quoted only when they need it.
func Export(records []*models.TransactionRecord) string {
	var b strings.Builder

	b.WriteString(strings.Join(Columns, ","))
	b.WriteByte('\n')

	for _, record := range records {
		amount := ""
		if record.Amount.Valid {
			amount = record.Amount.Decimal.String()
		}

		timestamp := record.Timestamp
		if timestamp.IsZero() {
			timestamp = time.Now()
		}

		fields := []string{
			escapeField(record.Title),
			escapeField(amount),
			escapeField(record.Currency),
			escapeField(string(record.Kind)),
			escapeField(record.Category),
			escapeField(record.Notes),
			escapeField(timestamp.UTC().Format(timestampLayout)),
		}

		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}

	return b.String()
}

// Parse splits CSV text into raw data rows. A leading BOM is stripped, blank
// rows are skipped, and a first row whose lowercased, trimmed fields exactly
// equal Columns is consumed as the header. Quoted fields are taken literally,
// including embedded commas and line breaks, with "" decoding to one quote.
func Parse(text string) [][]string {
	text = strings.TrimPrefix(text, "\uFEFF")

	rows := splitRows(text)
	if len(rows) > 0 && matchesHeader(rows[0]) {
		rows = rows[1:]
	}

	return rows
}

// splitRows scans the whole text in one pass, tracking quote state so a
// quoted line break extends the current field instead of ending the row.
func splitRows(text string) [][]string {
	var rows [][]string
	var fields []string
	var current strings.Builder

	inQuotes := false
	rowHasContent := false

	endField := func() {
		fields = append(fields, current.String())
		current.Reset()
	}

	endRow := func() {
		if !rowHasContent && len(fields) == 0 {
			return // blank line
		}
		endField()
		rows = append(rows, fields)
		fields = nil
		rowHasContent = false
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if inQuotes {
			if ch == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					current.WriteRune('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				current.WriteRune(ch)
			}
			continue
		}

		switch ch {
		case ',':
			endField()
			rowHasContent = true
		case '"':
			inQuotes = true
			rowHasContent = true
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			endRow()
		case '\n':
			endRow()
		default:
			current.WriteRune(ch)
			rowHasContent = true
		}
	}
	endRow()

	return rows
}

// matchesHeader reports whether a row is the canonical header.
func matchesHeader(row []string) bool {
	if len(row) != len(Columns) {
		return false
	}
	for i, field := range row {
		if strings.ToLower(strings.TrimSpace(field)) != Columns[i] {
			return false
		}
	}
	return true
}

// escapeField quote-wraps a field iff it contains a comma, quote or line
// break, doubling embedded quotes.
func escapeField(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
}
