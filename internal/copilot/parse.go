package copilot

import (
	"encoding/json"
	"regexp"

	"github.com/ithkuil-tools/case-copilot/internal/validate"
)

// #region parse

// Models are told to respond with only JSON but often wrap it in prose
// or code fences. Grab the first brace-delimited object and parse that.
var jsonPattern = regexp.MustCompile(`\{[^}]+\}`)

// parseSuggestion extracts a candidate from a raw model reply.
// Returns nil when no parseable JSON object is present.
func parseSuggestion(reply string) validate.Candidate {
	raw := jsonPattern.FindString(reply)
	if raw == "" {
		return nil
	}
	var candidate validate.Candidate
	if err := json.Unmarshal([]byte(raw), &candidate); err != nil {
		return nil
	}
	return candidate
}

// #endregion parse
