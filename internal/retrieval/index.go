package retrieval

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/ithkuil-tools/case-copilot/internal/grammar"
)

// #region index
// Index is a deterministic in-memory lexical index over grammar case
// chunks. Queries rank chunks by keyword overlap; exact code lookups
// bypass scoring entirely.
type Index struct {
	chunks []chunk
	byCode map[string]int
	config Config
}

type chunk struct {
	match  Match
	tokens []string
}

// NewIndex builds the index from grammar entries. Only case chunks are
// indexed; empty, overlong, and duplicate-code chunks are dropped.
func NewIndex(entries []grammar.Entry, config Config) *Index {
	idx := &Index{byCode: make(map[string]int), config: config}

	skipped := 0
	for _, e := range entries {
		if e.Type != "case" || e.Code == "" {
			continue
		}
		text := e.EmbeddingText
		if text == "" {
			text = strings.Join([]string{e.Name, e.Code, e.SemanticRole, e.Description}, " ")
		}
		if text == "" {
			skipped++
			continue
		}
		if config.MaxChunkLen > 0 && len(text) > config.MaxChunkLen {
			skipped++
			continue
		}
		if _, dup := idx.byCode[e.Code]; dup {
			skipped++
			continue
		}
		idx.byCode[e.Code] = len(idx.chunks)
		idx.chunks = append(idx.chunks, chunk{
			match: Match{
				Code:         e.Code,
				Name:         e.Name,
				SemanticRole: e.SemanticRole,
				Description:  e.Description,
				Citation:     e.Citation,
			},
			tokens: tokenize(text),
		})
	}

	log.Printf("[INDEX] indexed %d grammar chunks (skipped %d)", len(idx.chunks), skipped)
	return idx
}

// Size returns the number of indexed chunks.
func (idx *Index) Size() int {
	return len(idx.chunks)
}

// #endregion index

// #region retrieve
// Retrieve ranks chunks against a free-text query by shared-keyword
// fraction and returns the top n. Scores are in [0,1]; chunks with no
// shared keywords never appear. Results are deterministic: score
// descending, then code ascending.
func (idx *Index) Retrieve(query string, n int) []Match {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}
	querySet := tokenSet(queryTokens)

	var matches []Match
	for _, c := range idx.chunks {
		shared := overlap(querySet, c.tokens)
		if shared == 0 {
			continue
		}
		score := float64(shared) / float64(len(queryTokens))
		if score < idx.config.MinScore {
			continue
		}
		m := c.match
		m.Score = score
		matches = append(matches, m)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Code < matches[j].Code
	})

	if n <= 0 {
		n = idx.config.TopK
	}
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

// ForCase looks up the chunk for an exact case code. The match carries
// score 1.0; a missing code returns nil with no error.
func (idx *Index) ForCase(ctx context.Context, code string) (*Match, error) {
	i, ok := idx.byCode[code]
	if !ok {
		return nil, nil
	}
	m := idx.chunks[i].match
	m.Score = 1.0
	return &m, nil
}

// #endregion retrieve

// #region format
// FormatContext renders matches as the reference block handed to the
// suggestion prompt.
func FormatContext(matches []Match) string {
	if len(matches) == 0 {
		return "No specific rules found."
	}
	parts := make([]string, len(matches))
	for i, m := range matches {
		desc := m.Description
		if len(desc) > 200 {
			desc = desc[:200]
		}
		parts[i] = "- " + m.Code + " (" + m.Name + "): " + m.SemanticRole + "\n  " + desc
	}
	return strings.Join(parts, "\n\n")
}

// #endregion format
