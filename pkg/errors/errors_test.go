package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *EngineError
		want int
	}{
		{"file", FileError(CodeFileNotFound, "/tmp/x.csv", nil), 2},
		{"parse", ParseError(CodeMalformedRow, 3, "row", "a,b", nil), 3},
		{"validation", ValidationError(CodeInvalidCriteria, "time_threshold", -1, nil), 3},
		{"store", StoreError(CodeCommitFailed, "import", nil), 4},
		{"subscription", SubscriptionError(CodeIncompleteDefinition, "sub-1", nil), 5},
		{"internal", InternalError(CodeUnexpectedError, "sweep", nil), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.GetExitCode(); got != tt.want {
				t.Errorf("exit code = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := StoreError(CodeConnection, "ping database", cause)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not reachable through errors.Is")
	}
	if len(err.StackTrace) == 0 {
		t.Error("expected a captured stack trace")
	}
}

func TestAsEngineErrorThroughChain(t *testing.T) {
	inner := ParseError(CodeMalformedRow, 7, "row", "x", nil)
	outer := fmt.Errorf("import failed: %w", inner)

	extracted, ok := AsEngineError(outer)
	if !ok {
		t.Fatal("EngineError not found in wrapped chain")
	}
	if extracted.Code != CodeMalformedRow {
		t.Errorf("code = %q, want %q", extracted.Code, CodeMalformedRow)
	}
}

func TestFormatForUser(t *testing.T) {
	cause := stderrors.New("no such file")
	err := FileError(CodeFileNotFound, "missing.csv", cause)

	out := FormatForUser(err)
	if !strings.Contains(out, "missing.csv") {
		t.Errorf("output missing the path: %q", out)
	}
	if !strings.Contains(out, "suggestion:") {
		t.Errorf("output missing the suggestion: %q", out)
	}
	if !strings.Contains(out, "no such file") {
		t.Errorf("output missing the cause: %q", out)
	}

	if got := FormatForUser(stderrors.New("plain")); got != "plain" {
		t.Errorf("plain error formatting = %q", got)
	}
	if got := FormatForUser(nil); got != "" {
		t.Errorf("nil error formatting = %q", got)
	}
}

func TestErrorStringIncludesSuggestion(t *testing.T) {
	err := New(CategoryInternal, CodeUnexpectedError, "boom").WithSuggestion("retry")
	if err.Error() != "boom (suggestion: retry)" {
		t.Errorf("Error() = %q", err.Error())
	}
}
