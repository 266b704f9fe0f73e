package build

import (
	"os"
	"strings"

	"github.com/orizon-lang/orizon/internal/prefs"
)

const (
	// FactsEnv carries the registered facts, comma separated, to child processes.
	FactsEnv = "ORIZON_BUILD_FACTS"
	// CIJobEnv names the CI job; when set it becomes a fact.
	CIJobEnv = "GITHUB_JOB"
)

// Facts derives the conditional-compilation facts of a build: target OS,
// C compiler identifier, target architecture, then "prod" for production
// builds and the CI job name when one is set. The order is significant.
func Facts(p *prefs.Preferences, getenv func(string) string) []string {
	if getenv == nil {
		getenv = os.Getenv
	}
	facts := make([]string, 0, 5)
	facts = append(facts,
		strings.ToLower(p.OS),
		strings.ToLower(p.CompilerIdentifier),
		strings.ToLower(p.Arch),
	)
	if p.IsProd {
		facts = append(facts, "prod")
	}
	if job := strings.TrimSpace(getenv(CIJobEnv)); job != "" {
		facts = append(facts, strings.ToLower(job))
	}
	return facts
}

// FactSet is the conditional-compilation state of the process. Registration
// preserves first-seen order and ignores tokens already present.
type FactSet struct {
	facts  []string
	seen   map[string]bool
	export func(key, value string) error
}

// NewFactSet creates an empty set. export publishes the joined facts after
// every registration; pass nil to publish through os.Setenv so delegated
// builders inherit them.
func NewFactSet(export func(key, value string) error) *FactSet {
	if export == nil {
		export = os.Setenv
	}
	return &FactSet{seen: make(map[string]bool), export: export}
}

// Register adds facts in order. Empty tokens are skipped.
func (s *FactSet) Register(facts []string) error {
	for _, f := range facts {
		if f == "" || s.seen[f] {
			continue
		}
		s.seen[f] = true
		s.facts = append(s.facts, f)
	}
	return s.export(FactsEnv, strings.Join(s.facts, ","))
}

// Facts returns the registered facts in order.
func (s *FactSet) Facts() []string {
	out := make([]string, len(s.facts))
	copy(out, s.facts)
	return out
}

// Has reports whether fact is registered.
func (s *FactSet) Has(fact string) bool { return s.seen[fact] }
