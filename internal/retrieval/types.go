package retrieval

// #region config
// Config holds limits for the lexical grammar index.
type Config struct {
	TopK        int     // Max matches returned by a free-text query
	MaxChunkLen int     // Max chars of indexed text per chunk
	MinScore    float64 // Min keyword-overlap score; 0 keeps any overlap
}

// DefaultConfig returns sensible defaults for grammar lookup.
func DefaultConfig() Config {
	return Config{
		TopK:        5,
		MaxChunkLen: 2000,
		MinScore:    0,
	}
}

// #endregion config

// #region match
// Match is a single grammar chunk returned by a lookup, with a
// relevance score in [0,1].
type Match struct {
	Code         string
	Name         string
	SemanticRole string
	Description  string
	Citation     string
	Score        float64
}

// #endregion match
