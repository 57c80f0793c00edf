package confseed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/confseed/schema"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType  = "invalid_type"
	CodeRequired     = "required"
	CodeUnknownKey   = "unknown_key"
	CodePattern      = "pattern"
	CodeInvalidEnum  = "invalid_enum"
	CodeTooSmall     = "too_small"
	CodeTooBig       = "too_big"
	CodeTooShort     = "too_short"
	CodeTooLong      = "too_long"
	CodeTooFewItems  = "too_few_items"
	CodeTooManyItems = "too_many_items"
	CodeParseError   = "parse_error"
)

// Issue is a single validation error.
type Issue struct {
	Path    string // JSON Pointer into the instance (for example: /workers/2/name).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
// While one batch of sibling properties is walked, issues are collected
// rather than short-circuited, so callers see every error at that nesting
// level, not just the first.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// SchemaError reports a malformed schema document. It is raised before any
// instance processing begins and aborts the call.
type SchemaError = schema.Error

// ShapeError reports an instance node whose container kind is irreparably
// wrong for the schema position it occupies: an object-typed
// additionalProperties schema met a non-mapping value (for example the
// NoDefault placeholder leaked into an object position). Unlike ordinary
// validation issues it aborts the walk immediately, to avoid corrupting
// caller data.
type ShapeError struct {
	Path string
	Want string // expected container kind ("object" or "array")
	Got  any    // the offending value
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("confseed: expected %s at %s, got %T", e.Want, e.Path, e.Got)
}
