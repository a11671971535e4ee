package grammar

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region entry

// Entry is one chunk of the grammar reference dataset.
// Case entries (type "case") feed rule extraction and retrieval;
// other entry types are reference text only.
type Entry struct {
	ID                 string            `json:"id"`
	Type               string            `json:"type"`
	Code               string            `json:"code,omitempty"`
	Name               string            `json:"name,omitempty"`
	SemanticRole       string            `json:"semantic_role,omitempty"`
	Description        string            `json:"description,omitempty"`
	Citation           string            `json:"citation,omitempty"`
	EmbeddingText      string            `json:"embedding_text,omitempty"`
	WhyNotAlternatives map[string]string `json:"why_not_alternatives,omitempty"`
	CommonMistakes     []string          `json:"common_mistakes,omitempty"`
}

// #endregion entry

// #region load

// Load reads and parses a grammar chunks JSON file.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar file: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse grammar file %s: %w", path, err)
	}
	return entries, nil
}

// Cases filters entries down to case definitions.
func Cases(entries []Entry) []Entry {
	var cases []Entry
	for _, e := range entries {
		if e.Type == "case" {
			cases = append(cases, e)
		}
	}
	return cases
}

// #endregion load
