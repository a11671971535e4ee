package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/ithkuil-tools/case-copilot/internal/grammar"
	"github.com/ithkuil-tools/case-copilot/internal/rules"
)

// #region main

func main() {
	grammarPath := flag.String("grammar", envOr("COPILOT_GRAMMAR", "data/grammar_chunks.json"), "path to grammar chunks JSON")
	samples := flag.Int("samples", 5, "number of sample case rules to print")
	flag.Parse()

	if err := run(*grammarPath, *samples); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region check

func run(grammarPath string, samples int) error {
	entries, err := grammar.Load(grammarPath)
	if err != nil {
		return fmt.Errorf("load grammar: %w", err)
	}

	records, err := rules.Extract(entries)
	if err != nil {
		return fmt.Errorf("extract rules: %w", err)
	}
	if err := rules.ValidateRecords(records); err != nil {
		return fmt.Errorf("rule conflict: %w", err)
	}

	stats := rules.ComputeStats(records)
	fmt.Printf("Cases:           %d\n", stats.TotalCases)
	fmt.Printf("Strict rules:    %d (forbidden set non-empty)\n", stats.StrictCases)
	fmt.Printf("Permissive:      %d\n", stats.PermissiveCases)
	fmt.Printf("Semantic roles:  %d\n", stats.SemanticRolesCovered)
	fmt.Println("\nCases allowing each function:")
	for _, f := range []rules.Function{rules.FunctionStative, rules.FunctionDynamic, rules.FunctionManifestive} {
		fmt.Printf("  %s: %d\n", f, stats.CasesByFunction[f])
	}

	printSamples(records, samples)
	fmt.Println("\nRule set is consistent.")
	return nil
}

func printSamples(records map[string]*rules.CaseRecord, n int) {
	if n <= 0 {
		return
	}
	codes := make([]string, 0, len(records))
	for code := range records {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	if n < len(codes) {
		codes = codes[:n]
	}

	fmt.Println("\nSample case rules:")
	for _, code := range codes {
		rec := records[code]
		allowed := rec.Allowed.String()
		if allowed == "" {
			allowed = "any"
		}
		if len(rec.Forbidden) > 0 {
			fmt.Printf("  %s %s (%s): allowed [%s], forbidden [%s]\n",
				rec.Code, rec.Name, rec.SemanticRole, allowed, rec.Forbidden.String())
		} else {
			fmt.Printf("  %s %s (%s): allowed [%s]\n",
				rec.Code, rec.Name, rec.SemanticRole, allowed)
		}
	}
}

// #endregion check

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
