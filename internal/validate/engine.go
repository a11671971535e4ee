package validate

import (
	"context"
	"fmt"
	"log"

	"github.com/ithkuil-tools/case-copilot/internal/rules"
)

// #region constants
const (
	// clarifyThreshold is the confidence floor below which a clean
	// verdict is flagged for review instead of rejected.
	clarifyThreshold = 0.85

	hitConfidence      = 0.95 // case found in the grammar index
	missConfidence     = 0.70 // well-formed case absent from the index
	fallbackConfidence = 0.90 // no retriever wired, or nothing to look up
)

// fallbackCitation grounds verdicts when no retriever is available.
const fallbackCitation = "Grammar §7 (Cases)"

// #endregion constants

// #region engine
// Engine applies coherence validation to candidate case/function pairs.
// It has absolute veto power over suggestions: the model proposes, the
// engine decides.
type Engine struct {
	store     *rules.Store
	retriever Retriever
	stats     *Stats
}

// NewEngine builds an engine over a rule store. The retriever is
// optional; verdicts fall back to a fixed confidence without it. A nil
// stats collector means the engine owns a private one.
func NewEngine(store *rules.Store, retriever Retriever, stats *Stats) *Engine {
	if stats == nil {
		stats = NewStats()
	}
	return &Engine{store: store, retriever: retriever, stats: stats}
}

// Stats exposes the engine's counter set.
func (e *Engine) Stats() *Stats {
	return e.stats
}

// #endregion engine

// #region validate
// Validate checks a candidate against all constraints and returns a
// verdict. Coherence stages run in strict order and short-circuit on
// the first failure; grounding runs only on a clean candidate.
func (e *Engine) Validate(ctx context.Context, candidate Candidate) Verdict {
	if errs := e.checkCoherence(candidate); len(errs) > 0 {
		e.stats.record(false, false)
		return Verdict{Passed: false, Confidence: 0, Errors: errs}
	}

	confidence, citations := e.ground(ctx, candidate)

	// Low confidence without errors passes with a warning, it is not
	// a rejection.
	if confidence < clarifyThreshold {
		e.stats.record(true, true)
		return Verdict{Passed: true, Confidence: confidence, Citations: citations, NeedsClarification: true}
	}

	e.stats.record(true, false)
	return Verdict{Passed: true, Confidence: confidence, Citations: citations}
}

// #endregion validate

// #region coherence
// checkCoherence runs the five-stage decision procedure over the
// case/function pair. At most one error is reported per call.
func (e *Engine) checkCoherence(candidate Candidate) []Error {
	caseVal, caseSet := candidate["case"]
	fnVal, fnSet := candidate["function"]

	// Stage 1: absence is not an error, there is nothing to check.
	if !caseSet || !fnSet || caseVal == nil || fnVal == nil {
		return nil
	}
	if s, ok := caseVal.(string); ok && s == "" {
		return nil
	}
	if s, ok := fnVal.(string); ok && s == "" {
		return nil
	}

	// Stage 2: both values must be text.
	caseStr, ok := caseVal.(string)
	if !ok {
		return []Error{{
			Level:      LevelCoherence,
			Kind:       KindType,
			Message:    fmt.Sprintf("Case must be a string, got %T", caseVal),
			Slot:       "case",
			Suggestion: "Use a 3-letter case code like AFF, ERG, ABS",
		}}
	}
	fnStr, ok := fnVal.(string)
	if !ok {
		return []Error{{
			Level:      LevelCoherence,
			Kind:       KindType,
			Message:    fmt.Sprintf("Function must be a string, got %T", fnVal),
			Slot:       "function",
			Suggestion: "Use STA for states or DYN for actions",
		}}
	}

	// Stage 3: function must belong to the closed enumeration. This
	// rejects role labels masquerading as functions.
	fn := rules.Function(fnStr)
	if !rules.ValidFunction(fn) {
		return []Error{{
			Level:      LevelCoherence,
			Kind:       KindEnum,
			Message:    fmt.Sprintf("Invalid function '%s'. Must be one of: %s", fnStr, rules.AllFunctions().String()),
			Slot:       "function",
			Suggestion: "Use STA for states or DYN for actions",
		}}
	}

	// Stage 4: case codes are exactly three uppercase letters.
	if !validCaseFormat(caseStr) {
		return []Error{{
			Level:      LevelCoherence,
			Kind:       KindFormat,
			Message:    fmt.Sprintf("Invalid case format '%s'. Cases are 3-letter uppercase codes like AFF, ERG, ABS", caseStr),
			Slot:       "case",
			Suggestion: "Use a valid case code",
		}}
	}

	// Stage 5: constraint lookup. Unknown cases pass for extensibility.
	if ok, msg := e.store.CheckPair(caseStr, fn); !ok {
		return []Error{{
			Level:      LevelCoherence,
			Kind:       KindConstraint,
			Message:    msg,
			Slot:       "case+function",
			Suggestion: fmt.Sprintf("Try one of: %s", e.store.AllowedFunctions(caseStr).String()),
		}}
	}

	return nil
}

// validCaseFormat reports whether s is exactly three uppercase ASCII
// letters.
func validCaseFormat(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// #endregion coherence

// #region grounding
// ground assigns confidence and citations to a candidate that cleared
// all coherence stages. A retriever hit yields high confidence with the
// chunk's citation; a miss lowers confidence without failing; no
// retriever yields a fixed fallback. Retriever errors are logged and
// treated as misses.
func (e *Engine) ground(ctx context.Context, candidate Candidate) (float64, []string) {
	caseStr, ok := candidate.Text("case")
	if e.retriever == nil || !ok || caseStr == "" {
		return fallbackConfidence, []string{fallbackCitation}
	}

	match, err := e.retriever.ForCase(ctx, caseStr)
	if err != nil {
		log.Printf("[VALIDATE] grammar lookup failed for %s: %v", caseStr, err)
		match = nil
	}
	if match == nil {
		return missConfidence, []string{fmt.Sprintf("Warning: Case %s not found in grammar database", caseStr)}
	}

	citations := []string{
		match.Citation,
		fmt.Sprintf("%s (%s): %s...", match.Name, match.SemanticRole, truncate(match.Description, 100)),
	}
	return hitConfidence, citations
}

// truncate trims s to at most n bytes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// #endregion grounding
