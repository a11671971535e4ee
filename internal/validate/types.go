package validate

import (
	"context"
	"fmt"

	"github.com/ithkuil-tools/case-copilot/internal/retrieval"
)

// #region candidate
// Candidate is a JSON-shaped semantic representation under validation.
// Extra fields are ignored and never mutated.
type Candidate map[string]any

// Text returns the string value for key. The second return is false when
// the key is absent or the value is not a string.
func (c Candidate) Text(key string) (string, bool) {
	v, ok := c[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// TextOr returns the string value for key, or fallback.
func (c Candidate) TextOr(key, fallback string) string {
	if s, ok := c.Text(key); ok && s != "" {
		return s
	}
	return fallback
}

// #endregion candidate

// #region errors
// Level classifies validation strictness.
type Level string

const (
	LevelStructure Level = "structure" // slot completeness, phonology
	LevelCoherence Level = "coherence" // co-occurrence constraints
	LevelSemantic  Level = "semantic"  // grounding against reference text
)

// Kind identifies which check within a level produced an error.
type Kind string

const (
	KindType       Kind = "TYPE"
	KindEnum       Kind = "ENUM"
	KindFormat     Kind = "FORMAT"
	KindConstraint Kind = "CONSTRAINT"
)

// Error is a single validation failure with explanation.
type Error struct {
	Level      Level  `json:"level"`
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	Slot       string `json:"slot,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// #endregion errors

// #region verdict
// Verdict is the result of one validation call.
type Verdict struct {
	Passed             bool     `json:"passed"`
	Confidence         float64  `json:"confidence"`
	Errors             []Error  `json:"errors"`
	Citations          []string `json:"citations"`
	NeedsClarification bool     `json:"needs_clarification"`
}

func (v Verdict) String() string {
	status := "INVALID"
	if v.Passed {
		status = "VALID"
	}
	return fmt.Sprintf("%s (confidence=%.2f, %d errors)", status, v.Confidence, len(v.Errors))
}

// #endregion verdict

// #region retriever
// Retriever looks up the grammar chunk for an exact case code. A nil
// match with nil error is a miss, not a failure.
type Retriever interface {
	ForCase(ctx context.Context, code string) (*retrieval.Match, error)
}

// #endregion retriever
