// Package normalize reformats raw answer text according to the question's
// declared kind. Normalization never blocks progress: when input does not
// match the expected shape the raw text passes through and the result is
// tagged so the caller can log or re-prompt.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind names the normalization rule bound to a question.
type Kind string

const (
	KindText    Kind = "text"    // trim surrounding whitespace only
	KindInteger Kind = "integer" // strip all non-digit characters
	KindDecimal Kind = "decimal" // digits plus one separator, emitted as "."
	KindDate    Kind = "date"    // first D[./-]M[./-]Y substring as DD.MM.YYYY
	KindUpper   Kind = "upper"   // upper-case (sender name field)
)

// Result is a tagged normalization outcome. Applied is false when the
// input did not match the expected shape and Value is the raw text.
type Result struct {
	Value   string
	Applied bool
}

var datePattern = regexp.MustCompile(`(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})`)

// Apply normalizes raw input under the given kind.
func Apply(raw string, kind Kind) Result {
	trimmed := strings.TrimSpace(raw)

	switch kind {
	case KindInteger:
		return normalizeInteger(trimmed)
	case KindDecimal:
		return normalizeDecimal(trimmed)
	case KindDate:
		return normalizeDate(trimmed)
	case KindUpper:
		return Result{Value: strings.ToUpper(trimmed), Applied: true}
	default:
		return Result{Value: trimmed, Applied: true}
	}
}

func normalizeInteger(s string) Result {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return Result{Value: s, Applied: false}
	}
	return Result{Value: b.String(), Applied: true}
}

func normalizeDecimal(s string) Result {
	var b strings.Builder
	sepSeen := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case (r == ',' || r == '.') && !sepSeen && b.Len() > 0:
			b.WriteRune('.')
			sepSeen = true
		}
	}
	out := strings.TrimSuffix(b.String(), ".")
	if out == "" {
		return Result{Value: s, Applied: false}
	}
	return Result{Value: out, Applied: true}
}

func normalizeDate(s string) Result {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return Result{Value: s, Applied: false}
	}

	day := atoi(m[1])
	month := atoi(m[2])
	year := atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1900 || year > 2100 {
		return Result{Value: s, Applied: false}
	}

	return Result{
		Value:   fmt.Sprintf("%02d.%02d.%04d", day, month, year),
		Applied: true,
	}
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
