package experiment

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region scenario

// Scenario is one English input with its known correct case+function pair.
type Scenario struct {
	Input        string `json:"input"`
	WantCase     string `json:"want_case"`
	WantFunction string `json:"want_function"`
	Note         string `json:"note,omitempty"`
}

// LoadScenarios reads a scenario fixture JSON file.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	var scenarios []Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("parse scenario file %s: %w", path, err)
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("scenario file %s is empty", path)
	}
	for i, sc := range scenarios {
		if sc.Input == "" || sc.WantCase == "" || sc.WantFunction == "" {
			return nil, fmt.Errorf("scenario %d incomplete: need input, want_case, want_function", i)
		}
	}
	return scenarios, nil
}

// #endregion scenario

// #region defaults

// DefaultScenarios returns the built-in labeled set covering the strict
// pairings (AFF+STA, ERG+DYN, INS+DYN) plus permissive and neutral cases.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Input: "experiencing cold involuntarily", WantCase: "AFF", WantFunction: "STA", Note: "unwilled bodily sensation"},
		{Input: "feeling fear", WantCase: "AFF", WantFunction: "STA", Note: "unwilled emotion"},
		{Input: "sneezing", WantCase: "AFF", WantFunction: "STA", Note: "involuntary reflex"},
		{Input: "hearing a loud noise", WantCase: "AFF", WantFunction: "STA", Note: "sensory experience"},
		{Input: "feeling hungry", WantCase: "AFF", WantFunction: "STA", Note: "bodily state"},

		{Input: "deliberately breaking a vase", WantCase: "ERG", WantFunction: "DYN", Note: "intentional action"},
		{Input: "a person writing a letter", WantCase: "ERG", WantFunction: "DYN", Note: "volitional agent"},
		{Input: "the chef cooking dinner", WantCase: "ERG", WantFunction: "DYN", Note: "agent performing action"},
		{Input: "someone intentionally pushing a door", WantCase: "ERG", WantFunction: "DYN", Note: "deliberate force"},
		{Input: "a student solving a problem", WantCase: "ERG", WantFunction: "DYN", Note: "cognitive agent"},

		{Input: "using a hammer to hit a nail", WantCase: "INS", WantFunction: "DYN", Note: "tool in active use"},
		{Input: "the key that opens the door", WantCase: "INS", WantFunction: "DYN", Note: "instrument enabling action"},
		{Input: "cutting with a knife", WantCase: "INS", WantFunction: "DYN", Note: "tool being wielded"},

		{Input: "the vase that was broken", WantCase: "ABS", WantFunction: "STA", Note: "result state of patient"},
		{Input: "the door being opened", WantCase: "ABS", WantFunction: "DYN", Note: "patient undergoing change"},

		{Input: "the topic of discussion", WantCase: "THM", WantFunction: "STA", Note: "static content"},
		{Input: "what we are talking about", WantCase: "THM", WantFunction: "STA", Note: "thematic content"},

		{Input: "the noise that startled me", WantCase: "STM", WantFunction: "STA", Note: "stimulus causing reaction"},
		{Input: "the sight that frightened her", WantCase: "STM", WantFunction: "STA", Note: "stimulus for emotion"},

		{Input: "the person receiving a gift", WantCase: "DAT", WantFunction: "DYN", Note: "recipient of transfer"},
	}
}

// #endregion defaults
