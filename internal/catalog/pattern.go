package catalog

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyPattern is returned when no search terms were supplied
var ErrEmptyPattern = errors.New("search pattern has no terms")

// Pattern is an ordered list of search terms. A name matches when every term
// appears in it, in order, ignoring case, with anything in between.
type Pattern []string

// NewPattern builds a Pattern from raw arguments. Each argument is split on
// whitespace so that both `play lucy diamonds` and a typed "lucy diamonds"
// produce the same terms.
func NewPattern(args ...string) (Pattern, error) {
	var terms Pattern
	for _, arg := range args {
		terms = append(terms, strings.Fields(arg)...)
	}
	if len(terms) == 0 {
		return nil, ErrEmptyPattern
	}
	return terms, nil
}

// String returns the terms joined by a single space
func (p Pattern) String() string {
	return strings.Join(p, " ")
}

// Compile turns the pattern into a case-insensitive, unanchored regexp.
// Terms are matched literally and the gap between them may hold any
// characters, newlines included.
func (p Pattern) Compile() (*regexp.Regexp, error) {
	if len(p) == 0 {
		return nil, ErrEmptyPattern
	}

	quoted := make([]string, len(p))
	for i, term := range p {
		quoted[i] = regexp.QuoteMeta(term)
	}

	return regexp.Compile("(?is)" + strings.Join(quoted, ".*"))
}
