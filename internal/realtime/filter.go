package realtime

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilter is returned by ParseFilter for malformed expressions.
var ErrInvalidFilter = errors.New("invalid filter")

// Filter restricts a subscription to rows whose column equals a value.
// A nil *Filter matches every row.
type Filter struct {
	Column string
	Value  string
}

// Eq builds a filter for column = value.
func Eq(column, value string) *Filter {
	return &Filter{Column: column, Value: value}
}

// ParseFilter parses "column=eq.value". Only the eq operator is supported.
func ParseFilter(expr string) (*Filter, error) {
	column, rest, ok := strings.Cut(strings.TrimSpace(expr), "=")
	if !ok || column == "" {
		return nil, fmt.Errorf("%w: %q: missing column", ErrInvalidFilter, expr)
	}
	op, value, ok := strings.Cut(rest, ".")
	if !ok {
		return nil, fmt.Errorf("%w: %q: missing operator", ErrInvalidFilter, expr)
	}
	if op != "eq" {
		return nil, fmt.Errorf("%w: %q: unsupported operator %q", ErrInvalidFilter, expr, op)
	}
	if value == "" {
		return nil, fmt.Errorf("%w: %q: empty value", ErrInvalidFilter, expr)
	}
	return &Filter{Column: column, Value: value}, nil
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.Column + "=eq." + f.Value
}

// Matches reports whether the row passes the filter.
func (f *Filter) Matches(row Row) bool {
	if f == nil {
		return true
	}
	v, ok := row.String(f.Column)
	return ok && v == f.Value
}
