package matcher

import "fmt"

// Pattern fields reported by PatternError.
const (
	FieldKeyword        = "keyword"
	FieldFileIdentifier = "file identifier"
)

// PatternError reports a regular expression that failed to compile.
type PatternError struct {
	Field   string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s regex %q: %v", e.Field, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// MatchTimeoutError is reported by Iterator.Err when a single regex
// evaluation exceeds Options.Timeout.
type MatchTimeoutError struct {
	File string
	Page int
	Err  error
}

func (e *MatchTimeoutError) Error() string {
	if e.Page == 0 {
		return fmt.Sprintf("matching file name %q: %v", e.File, e.Err)
	}
	return fmt.Sprintf("matching %s page %d: %v", e.File, e.Page, e.Err)
}

func (e *MatchTimeoutError) Unwrap() error { return e.Err }
