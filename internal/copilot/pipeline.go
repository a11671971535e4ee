package copilot

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ithkuil-tools/case-copilot/internal/llm"
	"github.com/ithkuil-tools/case-copilot/internal/outcome"
	"github.com/ithkuil-tools/case-copilot/internal/retrieval"
	"github.com/ithkuil-tools/case-copilot/internal/validate"
)

// #region constants

const (
	// contextResults caps how many grammar chunks feed the grounded prompt.
	contextResults = 3

	// maxRetries bounds feedback loops after a rejection.
	maxRetries = 1

	firstTemperature = 0.3
	retryTemperature = 0.2

	parseFailureMessage = "Failed to parse LLM response"
)

// #endregion constants

// #region types

// Suggester produces a completion for a message history. Satisfied by
// llm.Client; tests substitute scripted fakes.
type Suggester interface {
	Complete(ctx context.Context, messages []llm.Message, temperature float32) (string, error)
}

// Result is the outcome of one suggestion turn.
type Result struct {
	TurnID    string
	Candidate validate.Candidate
	Raw       string
	Valid     bool
	Message   string
	Attempts  int
	Verdict   validate.Verdict
}

// Pipeline wires the suggestion producer, grammar retrieval, and the
// validation engine into one suggest-validate-retry loop.
type Pipeline struct {
	suggester Suggester
	index     *retrieval.Index
	engine    *validate.Engine
	outcomes  *outcome.Log
}

// NewPipeline assembles a pipeline. The outcome log may be nil; turns
// are then not persisted.
func NewPipeline(suggester Suggester, index *retrieval.Index, engine *validate.Engine, outcomes *outcome.Log) *Pipeline {
	log.Printf("[COPILOT] pipeline ready")
	return &Pipeline{
		suggester: suggester,
		index:     index,
		engine:    engine,
		outcomes:  outcomes,
	}
}

// #endregion types

// #region baseline

// SuggestBaseline asks for a case+function pair without grammar context
// and validates the reply. The baseline arm for comparisons.
func (p *Pipeline) SuggestBaseline(ctx context.Context, input string) (Result, error) {
	res := Result{TurnID: uuid.New().String(), Attempts: 1}

	messages := []llm.Message{
		{Role: llm.RoleUser, Content: baselinePrompt(input)},
	}
	reply, err := p.suggester.Complete(ctx, messages, firstTemperature)
	if err != nil {
		return Result{}, fmt.Errorf("baseline suggestion: %w", err)
	}
	res.Raw = reply

	res.Candidate = parseSuggestion(reply)
	if res.Candidate == nil {
		res.Message = parseFailureMessage
		p.record(res, input, false)
		return res, nil
	}

	res.Verdict = p.engine.Validate(ctx, res.Candidate)
	if res.Verdict.Passed {
		res.Valid = true
		res.Message = fmt.Sprintf("Valid (confidence: %.2f)", res.Verdict.Confidence)
	} else {
		res.Message = firstErrorMessage(res.Verdict)
	}
	p.record(res, input, false)
	return res, nil
}

// #endregion baseline

// #region grounded

// SuggestGrounded asks for a case+function pair with retrieved grammar
// context. On rejection it retries once, replaying the first exchange
// plus the rejection reason.
func (p *Pipeline) SuggestGrounded(ctx context.Context, input string) (Result, error) {
	res := Result{TurnID: uuid.New().String(), Attempts: 1}

	grammarContext := p.retrieveContext(input)

	messages := []llm.Message{
		{Role: llm.RoleUser, Content: groundedPrompt(input, grammarContext)},
	}
	reply, err := p.suggester.Complete(ctx, messages, firstTemperature)
	if err != nil {
		return Result{}, fmt.Errorf("grounded suggestion: %w", err)
	}
	res.Raw = reply

	res.Candidate = parseSuggestion(reply)
	if res.Candidate == nil {
		res.Message = parseFailureMessage
		p.record(res, input, true)
		return res, nil
	}

	res.Verdict = p.engine.Validate(ctx, res.Candidate)
	if res.Verdict.Passed {
		res.Valid = true
		res.Message = fmt.Sprintf("Valid (confidence: %.2f)", res.Verdict.Confidence)
		p.record(res, input, true)
		return res, nil
	}

	rejection := firstErrorMessage(res.Verdict)
	if maxRetries > 0 {
		retryRes, err := p.retry(ctx, input, rejection, grammarContext, messages, reply)
		if err != nil {
			return Result{}, err
		}
		if retryRes.Candidate != nil {
			retryRes.TurnID = res.TurnID
			p.record(retryRes, input, true)
			return retryRes, nil
		}
		// Retry reply never parsed. Report the first attempt's rejection
		// but count both calls.
		res.Attempts = 2
	}

	res.Message = rejection
	p.record(res, input, true)
	return res, nil
}

// retry replays the first exchange plus a feedback prompt carrying the
// rejection reason, at a lower temperature.
func (p *Pipeline) retry(ctx context.Context, input, rejection, grammarContext string, history []llm.Message, firstReply string) (Result, error) {
	messages := append(history,
		llm.Message{Role: llm.RoleAssistant, Content: firstReply},
		llm.Message{Role: llm.RoleUser, Content: retryPrompt(input, rejection, grammarContext)},
	)
	reply, err := p.suggester.Complete(ctx, messages, retryTemperature)
	if err != nil {
		return Result{}, fmt.Errorf("grounded retry: %w", err)
	}

	res := Result{Raw: reply, Attempts: 2}
	res.Candidate = parseSuggestion(reply)
	if res.Candidate == nil {
		return res, nil
	}

	res.Verdict = p.engine.Validate(ctx, res.Candidate)
	if res.Verdict.Passed {
		res.Valid = true
		res.Message = fmt.Sprintf("Valid after retry (confidence: %.2f)", res.Verdict.Confidence)
	} else {
		res.Message = firstErrorMessage(res.Verdict)
	}
	return res, nil
}

// #endregion grounded

// #region helpers

func (p *Pipeline) retrieveContext(input string) string {
	if p.index == nil {
		return retrieval.FormatContext(nil)
	}
	return retrieval.FormatContext(p.index.Retrieve(input, contextResults))
}

func firstErrorMessage(v validate.Verdict) string {
	if len(v.Errors) == 0 {
		return "Unknown error"
	}
	return v.Errors[0].Message
}

// record persists the turn when an outcome log is wired. Log failures
// never fail the suggestion.
func (p *Pipeline) record(res Result, input string, grounded bool) {
	if p.outcomes == nil {
		return
	}
	rec := outcome.Record{
		TurnID:        res.TurnID,
		Input:         input,
		CaseCode:      res.Candidate.TextOr("case", ""),
		FunctionCode:  res.Candidate.TextOr("function", ""),
		Grounded:      grounded,
		Attempts:      res.Attempts,
		Passed:        res.Valid,
		Clarification: res.Verdict.NeedsClarification,
		Confidence:    res.Verdict.Confidence,
	}
	if !res.Valid {
		rec.Error = res.Message
	}
	if err := p.outcomes.Record(rec); err != nil {
		log.Printf("[COPILOT] outcome log failed: %v", err)
	}
}

// #endregion helpers
