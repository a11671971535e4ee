package experiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/ithkuil-tools/case-copilot/internal/copilot"
)

// #region results

// unknownValue stands in when a reply carried no usable field.
const unknownValue = "???"

// Pair is a case+function combination.
type Pair struct {
	Case     string `json:"case"`
	Function string `json:"function"`
}

// Detail records one scenario's outcome in one arm.
type Detail struct {
	Input       string `json:"input"`
	Expected    Pair   `json:"expected"`
	Got         Pair   `json:"got"`
	Valid       bool   `json:"valid"`
	CaseCorrect bool   `json:"case_correct"`
	FuncCorrect bool   `json:"func_correct"`
	Attempts    int    `json:"attempts,omitempty"`
	Reasoning   string `json:"reasoning"`
}

// ArmResult tallies one arm of the comparison.
type ArmResult struct {
	Valid           int      `json:"valid"`
	CorrectCase     int      `json:"correct_case"`
	CorrectFunction int      `json:"correct_function"`
	FullyCorrect    int      `json:"fully_correct"`
	Details         []Detail `json:"details"`
}

func (a *ArmResult) tally(sc Scenario, res copilot.Result, withAttempts bool) {
	got := Pair{
		Case:     res.Candidate.TextOr("case", unknownValue),
		Function: res.Candidate.TextOr("function", unknownValue),
	}
	d := Detail{
		Input:       sc.Input,
		Expected:    Pair{Case: sc.WantCase, Function: sc.WantFunction},
		Got:         got,
		Valid:       res.Valid,
		CaseCorrect: got.Case == sc.WantCase,
		FuncCorrect: got.Function == sc.WantFunction,
		Reasoning:   res.Candidate.TextOr("reasoning", ""),
	}
	if withAttempts {
		d.Attempts = res.Attempts
	}
	if d.Valid {
		a.Valid++
	}
	if d.CaseCorrect {
		a.CorrectCase++
	}
	if d.FuncCorrect {
		a.CorrectFunction++
	}
	if d.CaseCorrect && d.FuncCorrect {
		a.FullyCorrect++
	}
	a.Details = append(a.Details, d)
}

// Results holds both arms of one experiment run.
type Results struct {
	Timestamp  string    `json:"timestamp"`
	TotalCases int       `json:"total_cases"`
	Baseline   ArmResult `json:"without_rag"`
	Grounded   ArmResult `json:"with_rag"`
}

// Improvement reports how many more scenarios the grounded arm got fully
// correct, and the relative gain over the baseline in percent. A zero
// baseline with any gain reports +Inf.
func (r Results) Improvement() (int, float64) {
	delta := r.Grounded.FullyCorrect - r.Baseline.FullyCorrect
	if r.Baseline.FullyCorrect == 0 {
		if delta > 0 {
			return delta, math.Inf(1)
		}
		return delta, 0
	}
	return delta, 100 * float64(delta) / float64(r.Baseline.FullyCorrect)
}

// Save writes the full results as indented JSON.
func (r Results) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// #endregion results

// #region harness

// Runner produces baseline and grounded suggestions for one input.
// Satisfied by copilot.Pipeline.
type Runner interface {
	SuggestBaseline(ctx context.Context, input string) (copilot.Result, error)
	SuggestGrounded(ctx context.Context, input string) (copilot.Result, error)
}

// Harness runs labeled scenarios through both pipeline arms and tallies
// how grounding changes accuracy.
type Harness struct {
	runner Runner
}

func NewHarness(runner Runner) *Harness {
	return &Harness{runner: runner}
}

// Run executes every scenario in both arms. Per-scenario pipeline errors
// are logged and scored as invalid; they never abort the run.
func (h *Harness) Run(ctx context.Context, scenarios []Scenario) (Results, error) {
	results := Results{
		Timestamp:  time.Now().Format(time.RFC3339),
		TotalCases: len(scenarios),
	}

	for i, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		log.Printf("[EXPERIMENT] [%d/%d] %q (expected %s+%s)",
			i+1, len(scenarios), sc.Input, sc.WantCase, sc.WantFunction)

		base, err := h.runner.SuggestBaseline(ctx, sc.Input)
		if err != nil {
			log.Printf("[EXPERIMENT] baseline arm failed for %q: %v", sc.Input, err)
			base = copilot.Result{}
		}
		results.Baseline.tally(sc, base, false)

		grounded, err := h.runner.SuggestGrounded(ctx, sc.Input)
		if err != nil {
			log.Printf("[EXPERIMENT] grounded arm failed for %q: %v", sc.Input, err)
			grounded = copilot.Result{}
		}
		results.Grounded.tally(sc, grounded, true)
	}
	return results, nil
}

// #endregion harness
