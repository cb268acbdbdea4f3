// Package catalog holds the canonical set of valid codes and performs the
// exact-membership validation step of the recovery pipeline. The catalog is
// the literal ground truth: no case folding or whitespace normalization is
// applied here, so any normalization must happen upstream in pattern or
// substitution-map design.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Catalog is an immutable set of non-empty code strings. It is safe for
// concurrent use once constructed.
type Catalog struct {
	codes map[string]struct{}
}

// New builds a catalog from the given codes. Empty strings are dropped and
// duplicates collapse.
func New(codes ...string) *Catalog {
	c := &Catalog{codes: make(map[string]struct{}, len(codes))}
	for _, code := range codes {
		if code == "" {
			continue
		}
		c.codes[code] = struct{}{}
	}
	return c
}

// Load reads a newline-delimited code list from path. Blank lines are
// ignored and duplicate codes collapse into the set.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return c, nil
}

// Read parses a newline-delimited code list from r.
func Read(r io.Reader) (*Catalog, error) {
	c := &Catalog{codes: make(map[string]struct{})}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		c.codes[line] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Contains reports whether code is a member of the catalog.
func (c *Catalog) Contains(code string) bool {
	_, ok := c.codes[code]
	return ok
}

// Len returns the number of distinct codes.
func (c *Catalog) Len() int { return len(c.codes) }

// Codes returns the catalog contents as a sorted slice.
func (c *Catalog) Codes() []string {
	out := make([]string, 0, len(c.codes))
	for code := range c.codes {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Validate returns exactly the intersection of candidates with the catalog.
// It is idempotent, and an empty catalog always yields an empty result.
func (c *Catalog) Validate(candidates map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for cand := range candidates {
		if _, ok := c.codes[cand]; ok {
			out[cand] = struct{}{}
		}
	}
	return out
}

// Alphabet returns the sorted distinct characters appearing in the catalog's
// codes. Recognition backends can use it as a character whitelist to bias the
// engine toward strings that could be valid codes.
func (c *Catalog) Alphabet() string {
	seen := make(map[rune]struct{})
	for code := range c.codes {
		for _, r := range code {
			seen[r] = struct{}{}
		}
	}
	runes := make([]rune, 0, len(seen))
	for r := range seen {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}
