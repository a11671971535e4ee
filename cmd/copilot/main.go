package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ithkuil-tools/case-copilot/internal/copilot"
	"github.com/ithkuil-tools/case-copilot/internal/grammar"
	"github.com/ithkuil-tools/case-copilot/internal/llm"
	"github.com/ithkuil-tools/case-copilot/internal/outcome"
	"github.com/ithkuil-tools/case-copilot/internal/retrieval"
	"github.com/ithkuil-tools/case-copilot/internal/rules"
	"github.com/ithkuil-tools/case-copilot/internal/validate"
)

// #region main

func main() {
	grammarPath := flag.String("grammar", envOr("COPILOT_GRAMMAR", "data/grammar_chunks.json"), "path to grammar chunks JSON")
	dbPath := flag.String("db", envOr("COPILOT_DB", ""), "outcome log sqlite path (empty disables logging)")
	interactive := flag.Bool("interactive", false, "start the REPL instead of the scripted demo")
	flag.Parse()

	entries, err := grammar.Load(*grammarPath)
	if err != nil {
		log.Fatalf("failed to load grammar: %v", err)
	}
	store, err := rules.NewStore(entries)
	if err != nil {
		log.Fatalf("failed to build rule store: %v", err)
	}
	index := retrieval.NewIndex(entries, retrieval.DefaultConfig())
	engine := validate.NewEngine(store, index, nil)

	var outcomes *outcome.Log
	if *dbPath != "" {
		outcomes, err = outcome.Open(*dbPath)
		if err != nil {
			log.Fatalf("failed to open outcome log: %v", err)
		}
		defer outcomes.Close()
	}

	var pipeline *copilot.Pipeline
	client, err := llm.NewClient(llm.DefaultConfig())
	if err != nil {
		log.Printf("suggestions disabled: %v", err)
	} else {
		pipeline = copilot.NewPipeline(client, index, engine, outcomes)
	}

	if *interactive {
		runREPL(engine, store, pipeline)
		return
	}
	if pipeline == nil {
		fmt.Fprintln(os.Stderr, "the demo needs GROQ_API_KEY; use --interactive for validation-only commands")
		os.Exit(1)
	}
	runDemo(pipeline)
}

// #endregion main

// #region demo

type demoCase struct {
	input       string
	wantCase    string
	wantFn      string
	explanation string
}

var demoCases = []demoCase{
	{"feeling cold involuntarily", "AFF", "STA", "unwilled bodily sensation, EXPERIENCER"},
	{"deliberately breaking a vase", "ERG", "DYN", "intentional action, AGENT"},
	{"sneezing", "AFF", "STA", "involuntary reflex, EXPERIENCER"},
	{"using a hammer to hit a nail", "INS", "DYN", "tool in active use, INSTRUMENT"},
}

func runDemo(p *copilot.Pipeline) {
	ctx := context.Background()
	rule := strings.Repeat("=", 70)

	fmt.Println(rule)
	fmt.Println("ITHKUIL CASE CO-PILOT DEMO")
	fmt.Println(rule)
	fmt.Println("Grammar-grounded suggestions versus the bare model, with the")
	fmt.Println("validator enforcing hard case+function constraints.")

	baselineCorrect, groundedCorrect := 0, 0
	for i, dc := range demoCases {
		fmt.Printf("\n%s\n", strings.Repeat("-", 70))
		fmt.Printf("TEST %d: %q\n", i+1, dc.input)
		fmt.Printf("Correct answer: %s + %s (%s)\n", dc.wantCase, dc.wantFn, dc.explanation)

		fmt.Println("\nWITHOUT GROUNDING:")
		if res, err := p.SuggestBaseline(ctx, dc.input); err != nil {
			log.Printf("baseline error: %v", err)
		} else if reportArm(res, dc.wantCase, dc.wantFn) {
			baselineCorrect++
		}

		fmt.Println("\nWITH GROUNDING:")
		if res, err := p.SuggestGrounded(ctx, dc.input); err != nil {
			log.Printf("grounded error: %v", err)
		} else if reportArm(res, dc.wantCase, dc.wantFn) {
			groundedCorrect++
		}
	}

	total := len(demoCases)
	fmt.Printf("\n%s\nRESULTS SUMMARY\n%s\n", rule, rule)
	fmt.Printf("\nWithout grounding: %d/%d correct (%.0f%%)\n",
		baselineCorrect, total, 100*float64(baselineCorrect)/float64(total))
	fmt.Printf("With grounding:    %d/%d correct (%.0f%%)\n",
		groundedCorrect, total, 100*float64(groundedCorrect)/float64(total))
	if groundedCorrect > baselineCorrect {
		fmt.Printf("\nGrounding improved %d cases\n", groundedCorrect-baselineCorrect)
	}
}

func reportArm(res copilot.Result, wantCase, wantFn string) bool {
	gotCase := res.Candidate.TextOr("case", "???")
	gotFn := res.Candidate.TextOr("function", "???")
	correct := gotCase == wantCase && gotFn == wantFn

	status := "WRONG"
	if correct {
		status = "CORRECT"
	}
	fmt.Printf("   model chose: %s + %s [%s]\n", gotCase, gotFn, status)
	if reasoning := res.Candidate.TextOr("reasoning", ""); reasoning != "" {
		fmt.Printf("   reasoning: %q\n", clip(reasoning, 80))
	}
	if !res.Valid {
		fmt.Printf("   rejected: %s\n", res.Message)
	}
	if res.Attempts > 1 {
		fmt.Println("   (corrected after validator feedback)")
	}
	return correct
}

// #endregion demo

// #region repl

func runREPL(engine *validate.Engine, store *rules.Store, pipeline *copilot.Pipeline) {
	fmt.Println("Ithkuil case co-pilot. Describe a participant in English, or:")
	fmt.Println("  check CASE FUNCTION   validate a pair directly (no model call)")
	fmt.Println("  stats                 session validation counters")
	fmt.Println("  quit                  exit")
	if pipeline == nil {
		fmt.Println("note: GROQ_API_KEY unset, free-text suggestions are disabled")
	}

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch strings.ToLower(fields[0]) {
		case "quit", "exit":
			return
		case "stats":
			printStats(engine.Stats().Snapshot())
		case "check":
			if len(fields) != 3 {
				fmt.Println("usage: check CASE FUNCTION (example: check AFF STA)")
				continue
			}
			runCheck(ctx, engine, store, fields[1], fields[2])
		default:
			if pipeline == nil {
				fmt.Println("suggestions disabled (set GROQ_API_KEY); try: check CASE FUNCTION")
				continue
			}
			runSuggest(ctx, pipeline, line)
		}
	}
}

func runCheck(ctx context.Context, engine *validate.Engine, store *rules.Store, caseArg, fnArg string) {
	caseCode := strings.ToUpper(caseArg)
	candidate := validate.Candidate{
		"case":     caseCode,
		"function": strings.ToUpper(fnArg),
	}

	verdict := engine.Validate(ctx, candidate)
	fmt.Println(verdict.String())
	for _, e := range verdict.Errors {
		fmt.Printf("  [%s] %s\n", e.Kind, e.Message)
		if e.Suggestion != "" {
			fmt.Printf("  hint: %s\n", e.Suggestion)
		}
	}
	for _, c := range verdict.Citations {
		fmt.Printf("  source: %s\n", c)
	}
	fmt.Printf("  %s\n", store.Describe(caseCode))
}

func runSuggest(ctx context.Context, p *copilot.Pipeline, input string) {
	fmt.Println("\nWithout grounding:")
	if res, err := p.SuggestBaseline(ctx, input); err != nil {
		log.Printf("baseline error: %v", err)
	} else {
		printSuggestion(res)
	}

	fmt.Println("\nWith grounding:")
	if res, err := p.SuggestGrounded(ctx, input); err != nil {
		log.Printf("grounded error: %v", err)
	} else {
		printSuggestion(res)
	}
}

func printSuggestion(res copilot.Result) {
	fmt.Printf("   %s + %s\n",
		res.Candidate.TextOr("case", "???"), res.Candidate.TextOr("function", "???"))
	fmt.Printf("   %s (attempts: %d)\n", res.Message, res.Attempts)
	if reasoning := res.Candidate.TextOr("reasoning", ""); reasoning != "" {
		fmt.Printf("   reasoning: %s\n", clip(reasoning, 100))
	}
	for _, c := range res.Verdict.Citations {
		fmt.Printf("   source: %s\n", c)
	}
	if res.Verdict.NeedsClarification {
		fmt.Println("   (low grounding confidence, consider rephrasing)")
	}
}

func printStats(s validate.Snapshot) {
	fmt.Printf("validations: %d total, %d passed, %d rejected, %d needing clarification\n",
		s.Total, s.Passed, s.Rejected, s.ClarificationNeeded)
	if s.Total > 0 {
		fmt.Printf("pass rate: %.1f%%  rejection rate: %.1f%%\n",
			100*s.PassRate, 100*s.RejectionRate)
	}
}

// #endregion repl

// #region helpers

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
