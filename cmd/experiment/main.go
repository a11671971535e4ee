package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ithkuil-tools/case-copilot/internal/copilot"
	"github.com/ithkuil-tools/case-copilot/internal/experiment"
	"github.com/ithkuil-tools/case-copilot/internal/grammar"
	"github.com/ithkuil-tools/case-copilot/internal/llm"
	"github.com/ithkuil-tools/case-copilot/internal/outcome"
	"github.com/ithkuil-tools/case-copilot/internal/retrieval"
	"github.com/ithkuil-tools/case-copilot/internal/rules"
	"github.com/ithkuil-tools/case-copilot/internal/validate"
)

var rule = strings.Repeat("=", 70)

// #region main

func main() {
	cases := flag.Int("cases", 0, "limit to the first N scenarios (0 runs all)")
	scenariosPath := flag.String("scenarios", "", "scenario fixture JSON (empty uses the built-in set)")
	outPath := flag.String("out", "experiment_results.json", "results JSON output path")
	grammarPath := flag.String("grammar", envOr("COPILOT_GRAMMAR", "data/grammar_chunks.json"), "path to grammar chunks JSON")
	dbPath := flag.String("db", envOr("COPILOT_DB", ""), "outcome log sqlite path (empty disables logging)")
	flag.Parse()

	if err := run(*cases, *scenariosPath, *outPath, *grammarPath, *dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(cases int, scenariosPath, outPath, grammarPath, dbPath string) error {
	scenarios := experiment.DefaultScenarios()
	if scenariosPath != "" {
		var err error
		scenarios, err = experiment.LoadScenarios(scenariosPath)
		if err != nil {
			return err
		}
	}
	if cases > 0 && cases < len(scenarios) {
		scenarios = scenarios[:cases]
	}

	entries, err := grammar.Load(grammarPath)
	if err != nil {
		return fmt.Errorf("load grammar: %w", err)
	}
	store, err := rules.NewStore(entries)
	if err != nil {
		return fmt.Errorf("build rule store: %w", err)
	}
	index := retrieval.NewIndex(entries, retrieval.DefaultConfig())
	engine := validate.NewEngine(store, index, nil)

	client, err := llm.NewClient(llm.DefaultConfig())
	if err != nil {
		return fmt.Errorf("suggestion client: %w", err)
	}

	var outcomes *outcome.Log
	if dbPath != "" {
		outcomes, err = outcome.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open outcome log: %w", err)
		}
		defer outcomes.Close()
	}

	pipeline := copilot.NewPipeline(client, index, engine, outcomes)
	harness := experiment.NewHarness(pipeline)

	fmt.Println(rule)
	fmt.Println("CASE SELECTION EXPERIMENT")
	fmt.Println("Comparing model accuracy: without grounding vs with grounding")
	fmt.Println(rule)

	results, err := harness.Run(context.Background(), scenarios)
	if err != nil {
		return fmt.Errorf("run experiment: %w", err)
	}

	printSummary(results)

	if err := results.Save(outPath); err != nil {
		return err
	}
	fmt.Printf("\nFull results saved to: %s\n", outPath)
	return nil
}

// #endregion run

// #region summary

func printSummary(r experiment.Results) {
	total := r.TotalCases

	fmt.Printf("\n%s\nEXPERIMENT RESULTS\n%s\n", rule, rule)
	fmt.Printf("\nTotal test cases: %d\n", total)

	fmt.Println("\n--- WITHOUT GROUNDING (baseline) ---")
	printArm(r.Baseline, total)

	fmt.Println("\n--- WITH GROUNDING ---")
	printArm(r.Grounded, total)

	delta, relative := r.Improvement()
	fmt.Printf("\nGROUNDING IMPROVEMENT: %+d cases (%.1f%% relative improvement)\n", delta, relative)
	fmt.Printf("\n%s\n", rule)
}

func printArm(a experiment.ArmResult, total int) {
	fmt.Printf("  Valid outputs:     %d/%d (%.1f%%)\n", a.Valid, total, pct(a.Valid, total))
	fmt.Printf("  Correct case:      %d/%d (%.1f%%)\n", a.CorrectCase, total, pct(a.CorrectCase, total))
	fmt.Printf("  Correct function:  %d/%d (%.1f%%)\n", a.CorrectFunction, total, pct(a.CorrectFunction, total))
	fmt.Printf("  Fully correct:     %d/%d (%.1f%%)\n", a.FullyCorrect, total, pct(a.FullyCorrect, total))
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

// #endregion summary

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
