package bulletin

import (
	"errors"
	"fmt"
)

// Extraction failures. Every one of them is fatal for the issue being processed.
var (
	ErrUnrecognizedCategory = errors.New("unrecognized category")
	ErrMalformedDate        = errors.New("malformed date")
	ErrStructuralAnomaly    = errors.New("structural anomaly")
	ErrUnsupportedIssue     = errors.New("unsupported issue")
)

// Error describes a label, date or table shape that no rule accounts for.
// It unwraps to one of the sentinel errors above.
type Error struct {
	Kind   error
	Raw    string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v %q: %s", e.Kind, e.Raw, e.Detail)
	}
	return fmt.Sprintf("%v %q", e.Kind, e.Raw)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func unrecognized(raw, format string, args ...any) error {
	return &Error{Kind: ErrUnrecognizedCategory, Raw: raw, Detail: fmt.Sprintf(format, args...)}
}

func malformedDate(raw, format string, args ...any) error {
	return &Error{Kind: ErrMalformedDate, Raw: raw, Detail: fmt.Sprintf(format, args...)}
}

// Anomaly reports a table whose shape does not match the expected layout
func Anomaly(raw, format string, args ...any) error {
	return &Error{Kind: ErrStructuralAnomaly, Raw: raw, Detail: fmt.Sprintf(format, args...)}
}
