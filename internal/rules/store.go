package rules

import (
	"fmt"
	"log"
	"strings"

	"github.com/ithkuil-tools/case-copilot/internal/grammar"
)

// #region store

// Store holds the derived case constraints and answers compatibility
// queries. It is read-only after construction, so concurrent readers
// need no locking.
type Store struct {
	records map[string]*CaseRecord
}

// NewStore extracts and validates constraints from raw grammar entries.
// Inconsistent rules abort construction.
func NewStore(entries []grammar.Entry) (*Store, error) {
	records, err := Extract(entries)
	if err != nil {
		return nil, err
	}
	if err := ValidateRecords(records); err != nil {
		return nil, err
	}
	log.Printf("[RULES] loaded %d case rules", len(records))
	return &Store{records: records}, nil
}

// Size returns the number of known cases.
func (s *Store) Size() int {
	return len(s.records)
}

// #endregion store

// #region queries

// Allows reports whether the case permits the function. Unknown case
// codes always pass: the store cannot penalize codes it has no
// knowledge of.
func (s *Store) Allows(code string, f Function) bool {
	rec, ok := s.records[code]
	if !ok {
		return true
	}
	return rec.AllowsFunction(f)
}

// AllowedFunctions returns a copy of the case's allowed set, or the
// universal set for unknown codes.
func (s *Store) AllowedFunctions(code string) FunctionSet {
	rec, ok := s.records[code]
	if !ok {
		return AllFunctions()
	}
	return rec.Allowed.Clone()
}

// Record returns the constraint record for a case code.
func (s *Store) Record(code string) (*CaseRecord, bool) {
	rec, ok := s.records[code]
	return rec, ok
}

// CheckPair checks a case/function pair and, on violation, builds the
// explanatory message naming the case, its semantic role, and both sets.
func (s *Store) CheckPair(code string, f Function) (bool, string) {
	rec, ok := s.records[code]
	if !ok {
		return true, "" // unknown case - fail open for extensibility
	}
	if rec.AllowsFunction(f) {
		return true, ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) cannot co-occur with %s function. Semantic role: %s.",
		code, rec.Name, f, rec.SemanticRole)
	if len(rec.Allowed) > 0 {
		fmt.Fprintf(&b, " Allowed: %s.", rec.Allowed.String())
	}
	if len(rec.Forbidden) > 0 {
		fmt.Fprintf(&b, " Forbidden: %s.", rec.Forbidden.String())
	}
	return false, b.String()
}

// Describe returns a one-line semantic description of a case.
func (s *Store) Describe(code string) string {
	rec, ok := s.records[code]
	if !ok {
		return fmt.Sprintf("Unknown case: %s", code)
	}
	return fmt.Sprintf("%s (%s): %s...", rec.Name, rec.SemanticRole, truncate(rec.Description, 100))
}

// WhyNotAlternative explains why an alternative case doesn't fit, when
// the dataset carries that explanation.
func (s *Store) WhyNotAlternative(code, alternative string) (string, bool) {
	rec, ok := s.records[code]
	if !ok {
		return "", false
	}
	why, ok := rec.WhyNotAlternatives[alternative]
	return why, ok
}

// CommonMistakes lists known pitfalls for a case, if any.
func (s *Store) CommonMistakes(code string) []string {
	rec, ok := s.records[code]
	if !ok {
		return nil
	}
	return rec.CommonMistakes
}

// RuleStats summarizes the loaded rules.
func (s *Store) RuleStats() RuleStats {
	return ComputeStats(s.records)
}

// #endregion queries

// #region helpers

// truncate trims s to at most n bytes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// #endregion helpers
