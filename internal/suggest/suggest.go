// Package suggest ranks known names by similarity to an unrecognized one and
// renders "did you mean" messages.
package suggest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// DefaultThreshold is the minimum score a candidate needs to be suggested.
const DefaultThreshold = 0.2

// DefaultMax caps the number of names listed in a message.
const DefaultMax = 5

// Score returns the normalized similarity of a and b in [0, 1].
// Comparison is case-insensitive; identical strings score 1.
func Score(a, b string) float64 {
	return levenshtein.Similarity(strings.ToLower(a), strings.ToLower(b), nil)
}

// Match is a scored candidate.
type Match struct {
	Name  string
	Score float64
}

// Option configures a Suggestion.
type Option func(*Suggestion)

// WithThreshold sets the minimum score. Values outside [0, 1] are ignored.
func WithThreshold(v float64) Option {
	return func(s *Suggestion) {
		if v >= 0 && v <= 1 {
			s.threshold = v
		}
	}
}

// WithMax sets how many matches a message lists. n <= 0 means no cap.
func WithMax(n int) Option {
	return func(s *Suggestion) { s.max = n }
}

// Suggestion holds the ranked matches for one unrecognized name.
type Suggestion struct {
	wanted    string
	threshold float64
	max       int
	matches   []Match
}

// New scores every candidate against wanted. Duplicate candidates are scored once.
func New(wanted string, candidates []string, opts ...Option) *Suggestion {
	s := &Suggestion{wanted: wanted, threshold: DefaultThreshold, max: DefaultMax}
	for _, o := range opts {
		o(s)
	}

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		score := Score(wanted, c)
		if score < s.threshold {
			continue
		}
		s.matches = append(s.matches, Match{Name: c, Score: score})
	}

	// Best first; ties broken by name so output never depends on input order.
	sort.Slice(s.matches, func(i, j int) bool {
		if s.matches[i].Score != s.matches[j].Score {
			return s.matches[i].Score > s.matches[j].Score
		}
		return s.matches[i].Name < s.matches[j].Name
	})
	if s.max > 0 && len(s.matches) > s.max {
		s.matches = s.matches[:s.max]
	}

	return s
}

// Matches returns the retained candidates, best first.
func (s *Suggestion) Matches() []Match {
	out := make([]Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// Say appends the suggestion to msg. msg is returned unchanged when nothing
// scored above the threshold.
func (s *Suggestion) Say(msg string) string {
	switch len(s.matches) {
	case 0:
		return msg
	case 1:
		return fmt.Sprintf("%s.\nDid you mean `%s`?", msg, s.matches[0].Name)
	}

	var b strings.Builder
	b.WriteString(msg)
	b.WriteString(".\nDid you mean one of these?")
	for _, m := range s.matches {
		fmt.Fprintf(&b, "\n    %s", m.Name)
	}
	return b.String()
}
