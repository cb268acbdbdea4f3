// Package pattern extracts tentative code tokens from raw page text. A token
// is the capture of a code expression, optionally anchored by a header
// expression that must immediately precede it (e.g. "REF:\s*" before the code
// digits). Extraction is purely textual; validation happens downstream.
package pattern

import (
	"fmt"
	"regexp"
)

// Defaults used when a pattern piece is left empty: the header matches
// immediately everywhere and the code matches any run of word characters.
const (
	DefaultHeader = ""
	DefaultCode   = `\w*`
)

// Extractor scans text with a single composed expression,
// header + "(" + code + ")", compiled once at construction.
type Extractor struct {
	re *regexp.Regexp
}

// New compiles the composed search expression. A malformed header or code
// pattern is a configuration error reported here, before any text is scanned.
func New(header, code string) (*Extractor, error) {
	if code == "" {
		code = DefaultCode
	}
	if _, err := regexp.Compile(header); err != nil {
		return nil, fmt.Errorf("header pattern: %w", err)
	}
	if _, err := regexp.Compile(code); err != nil {
		return nil, fmt.Errorf("code pattern: %w", err)
	}
	re, err := regexp.Compile(header + "(" + code + ")")
	if err != nil {
		return nil, fmt.Errorf("composed pattern: %w", err)
	}
	return &Extractor{re: re}, nil
}

// Extract returns the deduplicated capture-group values of every
// non-overlapping match in text. No matches yields an empty set, never an
// error, and two calls with the same text return the same set.
func (e *Extractor) Extract(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, m := range e.re.FindAllStringSubmatch(text, -1) {
		tokens[m[1]] = struct{}{}
	}
	return tokens
}

// String returns the composed expression, for diagnostics.
func (e *Extractor) String() string { return e.re.String() }
