package validate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ithkuil-tools/case-copilot/internal/grammar"
	"github.com/ithkuil-tools/case-copilot/internal/retrieval"
	"github.com/ithkuil-tools/case-copilot/internal/rules"
)

// #region helpers

// testCases mirrors the case inventory of the grammar dataset: code,
// name, and semantic role per case.
var testCases = []struct {
	code, name, role string
}{
	{"AFF", "Affective", "EXPERIENCER"},
	{"ERG", "Ergative", "AGENT"},
	{"ABS", "Absolutive", "PATIENT"},
	{"IND", "Inducive", "AGENT+PATIENT"},
	{"INS", "Instrumental", "INSTRUMENT"},
	{"THM", "Thematic", "CONTENT"},
	{"STM", "Stimulative", "STIMULUS"},
	{"DAT", "Dative", "RECIPIENT"},
	{"EFF", "Effectuative", "ENABLER"},
	{"ACT", "Activative", "ACTIVATION"},
	{"ALL", "Allative", "GOAL"},
	{"APL", "Applicative", "PURPOSE"},
	{"ATT", "Attributive", "ATTRIBUTE"},
	{"POS", "Possessive", "POSSESSOR"},
	{"PRP", "Proprietive", "OWNER"},
	{"LOC", "Locative", "LOCATION"},
	{"ORI", "Orientative", "ORIENTATION"},
	{"GEN", "Genitive", "SOURCE"},
	{"ABL", "Ablative", "SOURCE"},
	{"PAR", "Partitive", "PART"},
	{"COR", "Correlative", "CORRELATION"},
	{"IDP", "Interdependent", "DEPENDENT"},
	{"DEP", "Dependent", "CONTINGENCY"},
	{"NAV", "Navigative", "PATH"},
	{"CNR", "Concursive", "SIMULTANEITY"},
	{"PCV", "Precursive", "BEFORE"},
	{"PCR", "Postcursive", "AFTER"},
	{"ELP", "Elapsive", "ELAPSED"},
	{"IRL", "Interrelative", "REFERENCE"},
	{"PDC", "Productive", "PRODUCER"},
	{"PUR", "Purposive", "FUNCTION"},
	{"TRA", "Transmissive", "TRANSIT"},
	{"COM", "Comitative", "ACCOMPANIMENT"},
}

func testGrammarEntries() []grammar.Entry {
	entries := make([]grammar.Entry, 0, len(testCases))
	for _, c := range testCases {
		entries = append(entries, grammar.Entry{
			ID:           "case_" + strings.ToLower(c.code),
			Type:         "case",
			Code:         c.code,
			Name:         c.name,
			SemanticRole: c.role,
			Description:  "The " + c.name + " case marks the " + strings.ToLower(c.role) + " participant.",
			Citation:     "Grammar 7 (" + c.code + ")",
		})
	}
	return entries
}

func newTestStore(t *testing.T) *rules.Store {
	t.Helper()
	store, err := rules.NewStore(testGrammarEntries())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

// fakeRetriever serves canned matches keyed by case code. A missing
// code is a miss; err short-circuits every lookup.
type fakeRetriever struct {
	matches map[string]*retrieval.Match
	err     error
	calls   int
}

func (f *fakeRetriever) ForCase(_ context.Context, code string) (*retrieval.Match, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.matches[code], nil
}

func newTestRetriever() *fakeRetriever {
	matches := make(map[string]*retrieval.Match, len(testCases))
	for _, c := range testCases {
		matches[c.code] = &retrieval.Match{
			Code:         c.code,
			Name:         c.name,
			SemanticRole: c.role,
			Description:  "The " + c.name + " case marks the " + strings.ToLower(c.role) + " participant.",
			Citation:     "Grammar 7 (" + c.code + ")",
			Score:        1.0,
		}
	}
	return &fakeRetriever{matches: matches}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(newTestStore(t), newTestRetriever(), nil)
}

// #endregion helpers

// #region core-cooccurrence-tests

func TestValidate_AffDynRejection(t *testing.T) {
	engine := newTestEngine(t)

	verdict := engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "DYN"})
	if verdict.Passed {
		t.Fatal("AFF+DYN should be rejected")
	}
	if len(verdict.Errors) != 1 {
		t.Fatalf("expected exactly 1 error, got %d", len(verdict.Errors))
	}
	e := verdict.Errors[0]
	if e.Level != LevelCoherence {
		t.Errorf("level = %s, want coherence", e.Level)
	}
	for _, want := range []string{"AFF", "DYN", "EXPERIENCER"} {
		if !strings.Contains(e.Message, want) {
			t.Errorf("message %q missing %q", e.Message, want)
		}
	}
	if verdict.Confidence != 0 {
		t.Errorf("rejected verdict confidence = %f, want 0", verdict.Confidence)
	}
}

func TestValidate_AffStaAcceptance(t *testing.T) {
	engine := newTestEngine(t)

	verdict := engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "STA"})
	if !verdict.Passed {
		t.Fatalf("AFF+STA should pass, errors: %v", verdict.Errors)
	}
	if verdict.Confidence <= 0.85 {
		t.Errorf("confidence = %f, want > 0.85", verdict.Confidence)
	}
	if len(verdict.Errors) != 0 {
		t.Errorf("expected no errors, got %v", verdict.Errors)
	}
}

func TestValidate_ErgDynAcceptance(t *testing.T) {
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{"case": "ERG", "function": "DYN"})
	if !verdict.Passed {
		t.Fatalf("ERG+DYN should pass, errors: %v", verdict.Errors)
	}
	if verdict.Confidence < 0.90 {
		t.Errorf("confidence = %f, want >= 0.90", verdict.Confidence)
	}
	if len(verdict.Citations) == 0 {
		t.Error("expected at least one citation")
	}
}

func TestValidate_ErgStaRejection(t *testing.T) {
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{"case": "ERG", "function": "STA"})
	if verdict.Passed {
		t.Fatal("ERG+STA should be rejected")
	}
	if !strings.Contains(verdict.Errors[0].Message, "ERG") {
		t.Errorf("message %q should name ERG", verdict.Errors[0].Message)
	}
}

func TestValidate_InsPairs(t *testing.T) {
	engine := newTestEngine(t)

	if !engine.Validate(context.Background(), Candidate{"case": "INS", "function": "DYN"}).Passed {
		t.Error("INS+DYN should pass")
	}
	verdict := engine.Validate(context.Background(), Candidate{"case": "INS", "function": "STA"})
	if verdict.Passed {
		t.Fatal("INS+STA should be rejected")
	}
	if !strings.Contains(verdict.Errors[0].Message, "INS") {
		t.Errorf("message %q should name INS", verdict.Errors[0].Message)
	}
}

func TestValidate_PermissivePatientContent(t *testing.T) {
	engine := newTestEngine(t)
	for _, code := range []string{"ABS", "THM", "IND"} {
		for _, fn := range []string{"STA", "DYN"} {
			if !engine.Validate(context.Background(), Candidate{"case": code, "function": fn}).Passed {
				t.Errorf("%s+%s should pass", code, fn)
			}
		}
	}
}

// #endregion core-cooccurrence-tests

// #region role-coverage-tests

func TestValidate_CaseFunctionMatrix(t *testing.T) {
	engine := newTestEngine(t)

	checks := []struct {
		code string
		fn   string
		want bool
	}{
		// Transrelative cases
		{"AFF", "STA", true},
		{"AFF", "DYN", false},
		{"AFF", "MNF", false},
		{"ERG", "DYN", true},
		{"ERG", "MNF", true},
		{"ERG", "STA", false},
		{"ABS", "STA", true},
		{"INS", "DYN", true},
		{"INS", "STA", false},
		{"DAT", "DYN", true},
		{"DAT", "STA", false}, // RECIPIENT allows DYN only
		{"STM", "STA", true},
		{"STM", "DYN", true},
		{"EFF", "DYN", true},
		{"ACT", "DYN", true},
		// Appositive cases
		{"POS", "STA", true},
		{"POS", "DYN", false}, // possession is static
		{"PRP", "STA", true},
		{"GEN", "STA", true},
		{"GEN", "DYN", true},
		{"ATT", "STA", true},
		{"PDC", "STA", true},
		// Associative cases
		{"APL", "DYN", true},
		{"APL", "STA", false},
		{"PUR", "DYN", true},
		{"PUR", "STA", true},
		{"TRA", "DYN", true},
		// Relational cases
		{"COR", "STA", true},
		{"COR", "DYN", true},
		{"COM", "STA", true},
		{"PAR", "STA", true},
		{"PAR", "DYN", true},
		{"IDP", "STA", true},
		{"IDP", "DYN", true},
		{"DEP", "STA", true},
		{"DEP", "DYN", true},
		// Spatio-temporal cases
		{"LOC", "STA", true},
		{"LOC", "DYN", true},
		{"ALL", "DYN", true},
		{"ALL", "STA", false},
		{"ABL", "STA", true},
		{"ABL", "DYN", true},
		{"ORI", "STA", true},
		{"ORI", "DYN", true},
		{"NAV", "DYN", true},
		{"CNR", "STA", true},
		{"CNR", "DYN", true},
		{"PCV", "STA", true},
		{"PCR", "DYN", true},
		{"ELP", "STA", true},
		{"IRL", "DYN", true},
	}
	for _, c := range checks {
		verdict := engine.Validate(context.Background(), Candidate{"case": c.code, "function": c.fn})
		if verdict.Passed != c.want {
			t.Errorf("%s+%s passed=%v, want %v (errors: %v)", c.code, c.fn, verdict.Passed, c.want, verdict.Errors)
		}
	}
}

// #endregion role-coverage-tests

// #region edge-case-tests

func TestValidate_EmptyCandidate(t *testing.T) {
	engine := newTestEngine(t)
	if !engine.Validate(context.Background(), Candidate{}).Passed {
		t.Error("empty candidate has nothing to check and should pass")
	}
}

func TestValidate_MissingCase(t *testing.T) {
	engine := newTestEngine(t)
	if !engine.Validate(context.Background(), Candidate{"function": "STA"}).Passed {
		t.Error("missing case should pass trivially")
	}
}

func TestValidate_MissingFunction(t *testing.T) {
	engine := newTestEngine(t)
	if !engine.Validate(context.Background(), Candidate{"case": "AFF"}).Passed {
		t.Error("missing function should pass trivially")
	}
}

func TestValidate_NilValues(t *testing.T) {
	engine := newTestEngine(t)
	if !engine.Validate(context.Background(), Candidate{"case": nil, "function": nil}).Passed {
		t.Error("nil values should be treated as missing")
	}
}

func TestValidate_EmptyStrings(t *testing.T) {
	engine := newTestEngine(t)
	if !engine.Validate(context.Background(), Candidate{"case": "", "function": ""}).Passed {
		t.Error("empty strings should be treated as missing")
	}
}

func TestValidate_InvalidFunction(t *testing.T) {
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "INVALID"})
	if verdict.Passed {
		t.Fatal("invalid function should be rejected")
	}
	e := verdict.Errors[0]
	if e.Kind != KindEnum {
		t.Errorf("kind = %s, want ENUM", e.Kind)
	}
	if !strings.Contains(e.Message, "Invalid function 'INVALID'. Must be one of: DYN, MNF, STA") {
		t.Errorf("unexpected message: %q", e.Message)
	}
}

func TestValidate_RoleLabelAsFunction(t *testing.T) {
	// EXPERIENCER is a semantic role, not a function, and must be
	// caught by the enum stage.
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "EXPERIENCER"})
	if verdict.Passed {
		t.Fatal("role label as function should be rejected")
	}
	if verdict.Errors[0].Kind != KindEnum {
		t.Errorf("kind = %s, want ENUM", verdict.Errors[0].Kind)
	}
	if !strings.Contains(verdict.Errors[0].Message, "Invalid function") {
		t.Errorf("unexpected message: %q", verdict.Errors[0].Message)
	}
}

func TestValidate_LowercaseCase(t *testing.T) {
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{"case": "aff", "function": "STA"})
	if verdict.Passed {
		t.Fatal("lowercase case code should be rejected")
	}
	e := verdict.Errors[0]
	if e.Kind != KindFormat {
		t.Errorf("kind = %s, want FORMAT", e.Kind)
	}
	if !strings.Contains(e.Message, "Invalid case format 'aff'") {
		t.Errorf("unexpected message: %q", e.Message)
	}
}

func TestValidate_WrongLengthCase(t *testing.T) {
	engine := newTestEngine(t)
	for _, code := range []string{"AF", "AFFF", "A1F"} {
		verdict := engine.Validate(context.Background(), Candidate{"case": code, "function": "STA"})
		if verdict.Passed {
			t.Errorf("case %q should fail the format check", code)
			continue
		}
		if verdict.Errors[0].Kind != KindFormat {
			t.Errorf("case %q kind = %s, want FORMAT", code, verdict.Errors[0].Kind)
		}
	}
}

func TestValidate_UnknownCasePasses(t *testing.T) {
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{"case": "XYZ", "function": "STA"})
	if !verdict.Passed {
		t.Fatalf("unknown well-formed case should pass, errors: %v", verdict.Errors)
	}
}

func TestValidate_NumericCase(t *testing.T) {
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{"case": 123, "function": "STA"})
	if verdict.Passed {
		t.Fatal("numeric case should be rejected")
	}
	e := verdict.Errors[0]
	if e.Kind != KindType {
		t.Errorf("kind = %s, want TYPE", e.Kind)
	}
	if !strings.Contains(e.Message, "must be a string") {
		t.Errorf("unexpected message: %q", e.Message)
	}
	if e.Slot != "case" {
		t.Errorf("slot = %q, want case", e.Slot)
	}
}

func TestValidate_NumericFunction(t *testing.T) {
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{"case": "AFF", "function": 456})
	if verdict.Passed {
		t.Fatal("numeric function should be rejected")
	}
	e := verdict.Errors[0]
	if e.Kind != KindType {
		t.Errorf("kind = %s, want TYPE", e.Kind)
	}
	if e.Slot != "function" {
		t.Errorf("slot = %q, want function", e.Slot)
	}
}

func TestValidate_TypeErrorShortCircuits(t *testing.T) {
	// A type failure must stop before the constraint stage: no lookup,
	// no retriever call.
	store := newTestStore(t)
	ret := newTestRetriever()
	engine := NewEngine(store, ret, nil)

	verdict := engine.Validate(context.Background(), Candidate{"case": 9.5, "function": "DYN"})
	if len(verdict.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(verdict.Errors))
	}
	if verdict.Errors[0].Kind != KindType {
		t.Errorf("kind = %s, want TYPE", verdict.Errors[0].Kind)
	}
	if ret.calls != 0 {
		t.Errorf("retriever called %d times on a failed candidate", ret.calls)
	}
}

func TestValidate_ExtraFieldsIgnored(t *testing.T) {
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{
		"case":     "AFF",
		"function": "STA",
		"aspect":   "HAB",
		"extra":    "data",
	})
	if !verdict.Passed {
		t.Errorf("extra fields must not affect validation, errors: %v", verdict.Errors)
	}
}

func TestValidate_InputNotMutated(t *testing.T) {
	engine := newTestEngine(t)
	candidate := Candidate{"case": "AFF", "function": "DYN", "other": "data"}

	engine.Validate(context.Background(), candidate)

	if len(candidate) != 3 {
		t.Fatalf("candidate has %d keys after validation, want 3", len(candidate))
	}
	if candidate["case"] != "AFF" || candidate["function"] != "DYN" || candidate["other"] != "data" {
		t.Errorf("candidate mutated: %v", candidate)
	}
}

func TestValidate_ErrorCarriesSuggestionAndSlot(t *testing.T) {
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{"case": "ERG", "function": "STA"})
	if verdict.Passed {
		t.Fatal("ERG+STA should be rejected")
	}
	e := verdict.Errors[0]
	if e.Suggestion == "" {
		t.Error("constraint errors must carry a suggestion")
	}
	if !strings.Contains(e.Suggestion, "Try one of:") {
		t.Errorf("suggestion = %q, want allowed alternatives", e.Suggestion)
	}
	if e.Slot != "case+function" {
		t.Errorf("slot = %q, want case+function", e.Slot)
	}
}

func TestVerdict_String(t *testing.T) {
	engine := newTestEngine(t)

	valid := engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "STA"})
	if got := valid.String(); !strings.HasPrefix(got, "VALID (confidence=0.95, 0 errors") {
		t.Errorf("valid String() = %q", got)
	}

	invalid := engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "DYN"})
	if got := invalid.String(); !strings.HasPrefix(got, "INVALID") {
		t.Errorf("invalid String() = %q", got)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	engine := newTestEngine(t)
	candidate := Candidate{"case": "AFF", "function": "DYN"}

	first := engine.Validate(context.Background(), candidate)
	second := engine.Validate(context.Background(), candidate)

	if first.Passed != second.Passed || first.Confidence != second.Confidence {
		t.Errorf("verdicts differ: %v vs %v", first, second)
	}
	if len(first.Errors) != len(second.Errors) {
		t.Fatalf("error counts differ: %d vs %d", len(first.Errors), len(second.Errors))
	}
	for i := range first.Errors {
		if first.Errors[i] != second.Errors[i] {
			t.Errorf("error %d differs: %v vs %v", i, first.Errors[i], second.Errors[i])
		}
	}
}

// #endregion edge-case-tests

// #region grounding-tests

func TestValidate_CitationsOnHit(t *testing.T) {
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{"case": "ERG", "function": "DYN"})
	if !verdict.Passed {
		t.Fatalf("ERG+DYN should pass, errors: %v", verdict.Errors)
	}
	if len(verdict.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(verdict.Citations))
	}
	if !strings.Contains(verdict.Citations[0], "Grammar") {
		t.Errorf("first citation %q should reference the grammar", verdict.Citations[0])
	}
	if !strings.Contains(verdict.Citations[1], "Ergative (AGENT):") {
		t.Errorf("second citation %q should carry name and role", verdict.Citations[1])
	}
	if !strings.HasSuffix(verdict.Citations[1], "...") {
		t.Errorf("second citation %q should end with ellipsis", verdict.Citations[1])
	}
	if verdict.Confidence != 0.95 {
		t.Errorf("hit confidence = %f, want 0.95", verdict.Confidence)
	}
}

func TestValidate_RetrieverMiss(t *testing.T) {
	engine := newTestEngine(t)

	// XYZ is well-formed and unknown: passes coherence, misses the index.
	verdict := engine.Validate(context.Background(), Candidate{"case": "XYZ", "function": "STA"})
	if !verdict.Passed {
		t.Fatalf("expected pass on miss, errors: %v", verdict.Errors)
	}
	if verdict.Confidence != 0.70 {
		t.Errorf("miss confidence = %f, want 0.70", verdict.Confidence)
	}
	if !verdict.NeedsClarification {
		t.Error("low-confidence pass should be flagged for clarification")
	}
	if len(verdict.Citations) != 1 || verdict.Citations[0] != "Warning: Case XYZ not found in grammar database" {
		t.Errorf("unexpected citations: %v", verdict.Citations)
	}
}

func TestValidate_NoRetrieverFallback(t *testing.T) {
	engine := NewEngine(newTestStore(t), nil, nil)

	verdict := engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "STA"})
	if !verdict.Passed {
		t.Fatalf("expected pass without retriever, errors: %v", verdict.Errors)
	}
	if verdict.Confidence != 0.90 {
		t.Errorf("fallback confidence = %f, want 0.90", verdict.Confidence)
	}
	if len(verdict.Citations) != 1 || verdict.Citations[0] != "Grammar §7 (Cases)" {
		t.Errorf("unexpected citations: %v", verdict.Citations)
	}
	if verdict.NeedsClarification {
		t.Error("fallback confidence clears the clarification threshold")
	}
}

func TestValidate_NoCaseUsesFallback(t *testing.T) {
	// Nothing to look up: even with a retriever present the fallback
	// confidence applies.
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{"function": "STA"})
	if verdict.Confidence != 0.90 {
		t.Errorf("confidence = %f, want 0.90", verdict.Confidence)
	}
}

func TestValidate_RetrieverErrorTreatedAsMiss(t *testing.T) {
	ret := &fakeRetriever{err: errors.New("index unavailable")}
	engine := NewEngine(newTestStore(t), ret, nil)

	verdict := engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "STA"})
	if !verdict.Passed {
		t.Fatalf("retriever errors must not fail validation, errors: %v", verdict.Errors)
	}
	if verdict.Confidence != 0.70 {
		t.Errorf("confidence = %f, want miss confidence 0.70", verdict.Confidence)
	}
}

func TestValidate_NoCitationsOnRejection(t *testing.T) {
	engine := newTestEngine(t)
	verdict := engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "DYN"})
	if len(verdict.Citations) != 0 {
		t.Errorf("rejected verdicts carry no citations, got %v", verdict.Citations)
	}
}

// #endregion grounding-tests

// #region stats-tests

func TestStats_InitialState(t *testing.T) {
	engine := newTestEngine(t)
	snap := engine.Stats().Snapshot()
	if snap.Total != 0 || snap.Passed != 0 || snap.Rejected != 0 {
		t.Errorf("fresh engine stats not zero: %+v", snap)
	}
}

func TestStats_IncrementOnPass(t *testing.T) {
	engine := newTestEngine(t)
	engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "STA"})

	snap := engine.Stats().Snapshot()
	if snap.Total != 1 || snap.Passed != 1 || snap.Rejected != 0 {
		t.Errorf("unexpected stats after pass: %+v", snap)
	}
}

func TestStats_IncrementOnReject(t *testing.T) {
	engine := newTestEngine(t)
	engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "DYN"})

	snap := engine.Stats().Snapshot()
	if snap.Total != 1 || snap.Passed != 0 || snap.Rejected != 1 {
		t.Errorf("unexpected stats after reject: %+v", snap)
	}
}

func TestStats_ClarificationCountsAsPassed(t *testing.T) {
	engine := newTestEngine(t)
	engine.Validate(context.Background(), Candidate{"case": "XYZ", "function": "STA"})

	snap := engine.Stats().Snapshot()
	if snap.ClarificationNeeded != 1 {
		t.Errorf("clarification_needed = %d, want 1", snap.ClarificationNeeded)
	}
	if snap.Passed != 1 {
		t.Errorf("a clarification still counts as passed, got passed=%d", snap.Passed)
	}
}

func TestStats_Rates(t *testing.T) {
	engine := newTestEngine(t)
	engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "STA"}) // pass
	engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "STA"}) // pass
	engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "DYN"}) // reject

	snap := engine.Stats().Snapshot()
	if snap.Total != 3 {
		t.Fatalf("total = %d, want 3", snap.Total)
	}
	if snap.PassRate < 0.66 || snap.PassRate > 0.67 {
		t.Errorf("pass_rate = %f, want ~0.667", snap.PassRate)
	}
	if snap.RejectionRate < 0.33 || snap.RejectionRate > 0.34 {
		t.Errorf("rejection_rate = %f, want ~0.333", snap.RejectionRate)
	}
}

func TestStats_SharedCollector(t *testing.T) {
	store := newTestStore(t)
	shared := NewStats()
	a := NewEngine(store, nil, shared)
	b := NewEngine(store, nil, shared)

	a.Validate(context.Background(), Candidate{"case": "AFF", "function": "STA"})
	b.Validate(context.Background(), Candidate{"case": "AFF", "function": "DYN"})

	snap := shared.Snapshot()
	if snap.Total != 2 || snap.Passed != 1 || snap.Rejected != 1 {
		t.Errorf("shared collector out of sync: %+v", snap)
	}
}

func TestStats_ValidationsIndependent(t *testing.T) {
	engine := newTestEngine(t)

	if !engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "STA"}).Passed {
		t.Error("AFF+STA should pass")
	}
	if engine.Validate(context.Background(), Candidate{"case": "AFF", "function": "DYN"}).Passed {
		t.Error("AFF+DYN should fail")
	}
	if !engine.Validate(context.Background(), Candidate{"case": "ERG", "function": "DYN"}).Passed {
		t.Error("ERG+DYN should pass")
	}
}

// #endregion stats-tests

// #region candidate-tests

func TestCandidate_Text(t *testing.T) {
	c := Candidate{"case": "AFF", "count": 3}

	if s, ok := c.Text("case"); !ok || s != "AFF" {
		t.Errorf("Text(case) = %q, %v", s, ok)
	}
	if _, ok := c.Text("count"); ok {
		t.Error("Text should report false for non-string values")
	}
	if _, ok := c.Text("missing"); ok {
		t.Error("Text should report false for absent keys")
	}
}

func TestCandidate_TextOr(t *testing.T) {
	c := Candidate{"case": "AFF", "empty": ""}

	if got := c.TextOr("case", "???"); got != "AFF" {
		t.Errorf("TextOr(case) = %q", got)
	}
	if got := c.TextOr("empty", "???"); got != "???" {
		t.Errorf("TextOr(empty) = %q, want fallback", got)
	}
	if got := c.TextOr("missing", "???"); got != "???" {
		t.Errorf("TextOr(missing) = %q, want fallback", got)
	}
}

// #endregion candidate-tests
