package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ithkuil-tools/case-copilot/internal/outcome"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the outcome log sqlite database")
	last := flag.Int("last", 20, "show N most recent outcomes")
	caseCode := flag.String("case", "", "show decay-weighted reliability for one case code")
	jsonOut := flag.Bool("json", false, "output as JSON instead of a table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/outcomes.db [--last N] [--case CODE] [--json]")
		os.Exit(2)
	}

	outcomes, err := outcome.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer outcomes.Close()

	if *caseCode != "" {
		err = runCaseMode(outcomes, strings.ToUpper(*caseCode), *jsonOut)
	} else {
		err = runListMode(outcomes, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region case-mode

type caseReport struct {
	Case        string  `json:"case"`
	Samples     int     `json:"samples"`
	Reliability float64 `json:"reliability"`
	Established bool    `json:"established"`
}

func runCaseMode(outcomes *outcome.Log, code string, jsonOut bool) error {
	rate, samples, err := outcomes.CaseReliability(code)
	if err != nil {
		return err
	}

	report := caseReport{
		Case:        code,
		Samples:     samples,
		Reliability: rate,
		Established: samples >= 3,
	}
	if jsonOut {
		return printJSON(report)
	}

	fmt.Printf("Case:        %s\n", report.Case)
	fmt.Printf("Samples:     %d\n", report.Samples)
	if !report.Established {
		fmt.Println("Reliability: not established (fewer than 3 samples)")
		return nil
	}
	fmt.Printf("Reliability: %.2f (decay-weighted pass rate, 7-day half-life)\n", report.Reliability)
	return nil
}

// #endregion case-mode

// #region list-mode

type listOutput struct {
	Summary outcome.Summary  `json:"summary"`
	Recent  []outcome.Record `json:"recent"`
}

func runListMode(outcomes *outcome.Log, last int, jsonOut bool) error {
	summary, err := outcomes.Summarize()
	if err != nil {
		return err
	}
	records, err := outcomes.Recent(last)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(listOutput{Summary: summary, Recent: records})
	}

	fmt.Printf("Outcomes: %d total, %d passed, %d rejected, %d needing clarification (pass rate %.1f%%)\n",
		summary.Total, summary.Passed, summary.Rejected,
		summary.ClarificationNeeded, 100*summary.PassRate)

	if len(records) == 0 {
		fmt.Println("no outcomes recorded")
		return nil
	}

	fmt.Printf("\n%-20s  %-9s  %-8s  %8s  %6s  %10s  %s\n",
		"Time", "Pair", "Arm", "Attempts", "Passed", "Confidence", "Input")
	fmt.Printf("%-20s  %-9s  %-8s  %8s  %6s  %10s  %s\n",
		"--------------------", "---------", "--------", "--------", "------", "----------", "----------------------------------------")

	for _, r := range records {
		pair := "-"
		if r.CaseCode != "" && r.FunctionCode != "" {
			pair = r.CaseCode + "+" + r.FunctionCode
		}
		arm := "baseline"
		if r.Grounded {
			arm = "grounded"
		}
		fmt.Printf("%-20s  %-9s  %-8s  %8d  %6v  %10.2f  %s\n",
			r.CreatedAt.Format("2006-01-02T15:04:05Z"), pair, arm,
			r.Attempts, r.Passed, r.Confidence, clip(r.Input, 40))
	}
	return nil
}

// #endregion list-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// #endregion output
