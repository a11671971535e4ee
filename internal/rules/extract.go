package rules

import (
	"fmt"

	"github.com/ithkuil-tools/case-copilot/internal/grammar"
)

// #region errors

// ConfigurationError reports rule data that is unusable at load time.
// It is fatal: callers must not start a validator over inconsistent rules.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "rule configuration: " + e.Reason
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// #endregion errors

// #region case-record

// CaseRecord holds the derived constraints for one grammatical case.
// Records are built once at load time and never mutated afterwards.
type CaseRecord struct {
	Code         string
	Name         string
	SemanticRole SemanticRole
	Description  string
	Citation     string
	Allowed      FunctionSet
	Forbidden    FunctionSet

	// Explanatory extras carried through from the dataset.
	WhyNotAlternatives map[string]string
	CommonMistakes     []string
}

// AllowsFunction reports whether this case permits the given function.
// Forbidden wins first; a non-empty allowed set must then contain it.
func (r *CaseRecord) AllowsFunction(f Function) bool {
	if len(r.Forbidden) > 0 && r.Forbidden.Has(f) {
		return false
	}
	if len(r.Allowed) > 0 && !r.Allowed.Has(f) {
		return false
	}
	return true
}

// #endregion case-record

// #region extract

// Extract derives per-case constraint records from raw grammar entries.
// Only entries with type "case" are considered. A dataset with no case
// entries, or a case entry without a code, is a ConfigurationError.
func Extract(entries []grammar.Entry) (map[string]*CaseRecord, error) {
	cases := grammar.Cases(entries)
	if len(cases) == 0 {
		return nil, configErrorf("dataset contains no case entries")
	}

	records := make(map[string]*CaseRecord, len(cases))
	for _, c := range cases {
		if c.Code == "" {
			return nil, configErrorf("case entry %q has no code", c.ID)
		}

		role := SemanticRole(c.SemanticRole)
		if c.SemanticRole == "" {
			role = RoleUnknown
		}
		rule := RuleForRole(role)

		name := c.Name
		if name == "" {
			name = c.Code
		}

		records[c.Code] = &CaseRecord{
			Code:               c.Code,
			Name:               name,
			SemanticRole:       role,
			Description:        c.Description,
			Citation:           c.Citation,
			Allowed:            rule.Allowed,
			Forbidden:          rule.Forbidden,
			WhyNotAlternatives: c.WhyNotAlternatives,
			CommonMistakes:     c.CommonMistakes,
		}
	}
	return records, nil
}

// ValidateRecords checks extracted records for internal consistency:
// no case may both allow and forbid the same function. Any overlap is a
// ConfigurationError; the validator must never start over such rules.
func ValidateRecords(records map[string]*CaseRecord) error {
	for code, rec := range records {
		if overlap := rec.Allowed.Intersect(rec.Forbidden); len(overlap) > 0 {
			return configErrorf("case %s allows and forbids %s", code, overlap.String())
		}
	}
	return nil
}

// #endregion extract

// #region stats

// RuleStats summarizes a set of extracted case records.
type RuleStats struct {
	TotalCases           int
	StrictCases          int // cases with a non-empty forbidden set
	PermissiveCases      int
	CasesByFunction      map[Function]int // how many cases allow each function
	SemanticRolesCovered int
}

// ComputeStats tallies rule statistics over the given records.
func ComputeStats(records map[string]*CaseRecord) RuleStats {
	stats := RuleStats{
		TotalCases:      len(records),
		CasesByFunction: make(map[Function]int, 3),
	}
	roles := make(map[SemanticRole]struct{})
	for _, rec := range records {
		if len(rec.Forbidden) > 0 {
			stats.StrictCases++
		} else {
			stats.PermissiveCases++
		}
		for _, f := range []Function{FunctionStative, FunctionDynamic, FunctionManifestive} {
			if rec.Allowed.Has(f) {
				stats.CasesByFunction[f]++
			}
		}
		roles[rec.SemanticRole] = struct{}{}
	}
	stats.SemanticRolesCovered = len(roles)
	return stats
}

// #endregion stats
