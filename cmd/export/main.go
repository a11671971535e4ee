package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ithkuil-tools/case-copilot/internal/experiment"
	"github.com/ithkuil-tools/case-copilot/internal/outcome"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the outcome log sqlite database")
	outPath := flag.String("out", "", "output scenario fixture JSON path")
	last := flag.Int("last", 50, "number of most recent outcomes to consider")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: export --db path/to/outcomes.db --out path/to/scenarios.json [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *last, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

func run(dbPath string, last int, outPath string) error {
	outcomes, err := outcome.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer outcomes.Close()

	records, err := outcomes.Recent(last)
	if err != nil {
		return fmt.Errorf("query outcomes: %w", err)
	}

	scenarios := collectScenarios(records)
	if len(scenarios) == 0 {
		return fmt.Errorf("no clean passed outcomes among the last %d records", last)
	}

	fmt.Printf("Found %d clean passed outcomes\n", len(scenarios))

	data, err := json.MarshalIndent(scenarios, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scenarios: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}

	fmt.Printf("Wrote %s\n", outPath)
	return nil
}

// collectScenarios converts passed outcomes into labeled scenarios.
// Rows that needed clarification or lack a full pair are skipped, and
// repeated inputs keep only their newest outcome.
func collectScenarios(records []outcome.Record) []experiment.Scenario {
	seen := make(map[string]bool)
	var scenarios []experiment.Scenario

	for _, r := range records {
		if !r.Passed || r.Clarification {
			continue
		}
		if r.Input == "" || r.CaseCode == "" || r.FunctionCode == "" {
			continue
		}
		if seen[r.Input] {
			continue
		}
		seen[r.Input] = true
		scenarios = append(scenarios, experiment.Scenario{
			Input:        r.Input,
			WantCase:     r.CaseCode,
			WantFunction: r.FunctionCode,
			Note:         "exported outcome from " + r.CreatedAt.Format("2006-01-02"),
		})
	}

	// Recent returns newest first; fixtures read chronologically.
	for i, j := 0, len(scenarios)-1; i < j; i, j = i+1, j-1 {
		scenarios[i], scenarios[j] = scenarios[j], scenarios[i]
	}
	return scenarios
}

// #endregion export
