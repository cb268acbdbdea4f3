// Package substitute models OCR character confusion and expands tentative
// tokens into the set of strings they could plausibly represent. Confusions
// are positional and independent, so the candidate set for a token is the
// full cartesian product of per-position alternatives.
package substitute

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrOverflow is returned when a token's candidate count exceeds the
// caller-supplied cap. The token can be skipped or matched lazily via
// MatchAgainst instead.
var ErrOverflow = errors.New("substitute: candidate count exceeds cap")

const maxInt = int(^uint(0) >> 1)

// Map associates a confusable character with the characters it may actually
// represent, possibly including itself. A character absent from the map is
// never substituted. A Map is treated as immutable once constructed.
//
// For example, Map{'O': "O0", 'l': "1I"} means an extracted "O" might be a
// true "O" or "0", while an extracted "l" is always a misread of "1" or "I".
type Map map[rune]string

// Parse builds a Map from a comma-separated spec of the form
// "O=O0,l=1I". Each entry maps one character to its alternatives.
func Parse(spec string) (Map, error) {
	m := make(Map)
	if spec == "" {
		return m, nil
	}
	for _, entry := range strings.Split(spec, ",") {
		key, alts, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("substitution entry %q: want char=alternatives", entry)
		}
		if utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("substitution entry %q: key must be a single character", entry)
		}
		if alts == "" {
			return nil, fmt.Errorf("substitution entry %q: empty alternatives", entry)
		}
		r, _ := utf8.DecodeRuneInString(key)
		m[r] = alts
	}
	return m, nil
}

// Alternatives returns the plausible true characters for r: the mapped value
// when r is confusable, otherwise r itself.
func (m Map) Alternatives(r rune) string {
	if alts, ok := m[r]; ok {
		return alts
	}
	return string(r)
}

// Count returns the candidate count for token, the product of per-position
// branching factors. The result saturates at the maximum int instead of
// wrapping.
func (m Map) Count(token string) int {
	n := 1
	for _, r := range token {
		k := utf8.RuneCountInString(m.Alternatives(r))
		if k == 0 {
			return 0
		}
		if n > maxInt/k {
			return maxInt
		}
		n *= k
	}
	return n
}

// Expand materializes the full candidate set for token, built iteratively by
// extending partial strings one position at a time. The empty token expands
// to {""}. If Count(token) exceeds max (when max > 0), Expand returns
// ErrOverflow without materializing anything.
func (m Map) Expand(token string, max int) ([]string, error) {
	if max > 0 {
		if n := m.Count(token); n > max {
			return nil, fmt.Errorf("token %q expands to %d candidates: %w", token, n, ErrOverflow)
		}
	}
	acc := []string{""}
	for _, r := range token {
		alts := m.Alternatives(r)
		next := make([]string, 0, len(acc)*utf8.RuneCountInString(alts))
		for _, prefix := range acc {
			for _, alt := range alts {
				next = append(next, prefix+string(alt))
			}
		}
		acc = next
	}
	return acc, nil
}

// MatchAgainst walks token's candidate space lazily, one candidate at a time,
// and returns the candidates accepted by valid. Memory use is proportional to
// the token length plus the matches, never the full product, so it remains
// usable for tokens whose Count exceeds any materialization cap. Time is
// still proportional to the product; callers bound it with Count when needed.
func (m Map) MatchAgainst(token string, valid func(string) bool) []string {
	runes := []rune(token)
	alts := make([][]rune, len(runes))
	for i, r := range runes {
		alts[i] = []rune(m.Alternatives(r))
		if len(alts[i]) == 0 {
			return nil
		}
	}
	idx := make([]int, len(runes))
	buf := make([]rune, len(runes))
	var matched []string
	for {
		for i := range buf {
			buf[i] = alts[i][idx[i]]
		}
		if s := string(buf); valid(s) {
			matched = append(matched, s)
		}
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(alts[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return matched
		}
	}
}
