package outcome

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema

const outcomesSchema = `
CREATE TABLE IF NOT EXISTS validation_outcomes (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    turn_id        TEXT NOT NULL,
    input          TEXT NOT NULL,
    case_code      TEXT,
    function_code  TEXT,
    grounded       INTEGER NOT NULL DEFAULT 0,
    attempts       INTEGER NOT NULL DEFAULT 1,
    passed         INTEGER NOT NULL DEFAULT 0,
    clarification  INTEGER NOT NULL DEFAULT 0,
    confidence     REAL NOT NULL DEFAULT 0,
    error          TEXT,
    created_at     TEXT NOT NULL
);
`

const outcomesIndex = `
CREATE INDEX IF NOT EXISTS idx_validation_outcomes_case
ON validation_outcomes(case_code, passed);
`

// #endregion schema

// #region types

// Record is one persisted validation outcome.
type Record struct {
	TurnID        string    `json:"turn_id"`
	Input         string    `json:"input"`
	CaseCode      string    `json:"case,omitempty"`
	FunctionCode  string    `json:"function,omitempty"`
	Grounded      bool      `json:"grounded"`
	Attempts      int       `json:"attempts"`
	Passed        bool      `json:"passed"`
	Clarification bool      `json:"clarification"`
	Confidence    float64   `json:"confidence"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// #endregion types

// #region log-struct

// Log persists validation outcomes in SQLite and serves decay-weighted
// reliability queries over them.
type Log struct {
	db *sql.DB
}

// Open opens (or creates) an outcome database at path and migrates it.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	return NewLog(db)
}

// NewLog initializes the validation_outcomes table over an existing
// connection and returns a Log.
func NewLog(db *sql.DB) (*Log, error) {
	if _, err := db.Exec(outcomesSchema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if _, err := db.Exec(outcomesIndex); err != nil {
		return nil, fmt.Errorf("migrate index: %w", err)
	}
	return &Log{db: db}, nil
}

// Close closes the underlying database connection.
func (l *Log) Close() error {
	return l.db.Close()
}

// #endregion log-struct

// #region record

// Record persists a single outcome row.
func (l *Log) Record(rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.Exec(`
		INSERT INTO validation_outcomes
		(turn_id, input, case_code, function_code, grounded, attempts,
		 passed, clarification, confidence, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TurnID,
		rec.Input,
		nullIfEmpty(rec.CaseCode),
		nullIfEmpty(rec.FunctionCode),
		boolToInt(rec.Grounded),
		rec.Attempts,
		boolToInt(rec.Passed),
		boolToInt(rec.Clarification),
		rec.Confidence,
		nullIfEmpty(rec.Error),
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// #endregion record

// #region summarize

// Summary aggregates the stored outcomes.
type Summary struct {
	Total               int     `json:"total"`
	Passed              int     `json:"passed"`
	Rejected            int     `json:"rejected"`
	ClarificationNeeded int     `json:"clarification_needed"`
	PassRate            float64 `json:"pass_rate"`
}

// Summarize tallies all stored outcomes.
func (l *Log) Summarize() (Summary, error) {
	var s Summary
	err := l.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(passed), 0),
		       COALESCE(SUM(clarification), 0)
		FROM validation_outcomes`,
	).Scan(&s.Total, &s.Passed, &s.ClarificationNeeded)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	s.Rejected = s.Total - s.Passed
	if s.Total > 0 {
		s.PassRate = float64(s.Passed) / float64(s.Total)
	}
	return s, nil
}

// #endregion summarize

// #region reliability

// CaseReliability returns the decay-weighted pass rate for a case code.
// Recent outcomes weigh more (7-day half-life). Returns (0, samples, nil)
// when fewer than 3 samples exist.
func (l *Log) CaseReliability(code string) (float64, int, error) {
	rows, err := l.db.Query(`
		SELECT passed, created_at
		FROM validation_outcomes
		WHERE case_code = ?`, code,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("reliability query: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	halfLife := 7.0 * 24.0 // 7 days in hours
	var weightedSum, totalWeight float64
	count := 0

	for rows.Next() {
		var passed int
		var createdAtStr string
		if err := rows.Scan(&passed, &createdAtStr); err != nil {
			return 0, 0, err
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			continue
		}
		ageHours := now.Sub(createdAt).Hours()
		weight := math.Exp(-ageHours / halfLife)
		weightedSum += float64(passed) * weight
		totalWeight += weight
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}

	if count < 3 || totalWeight == 0 {
		return 0, count, nil
	}
	return weightedSum / totalWeight, count, nil
}

// #endregion reliability

// #region recent

// Recent returns the newest outcomes, most recent first.
func (l *Log) Recent(limit int) ([]Record, error) {
	rows, err := l.db.Query(`
		SELECT turn_id, input, case_code, function_code, grounded, attempts,
		       passed, clarification, confidence, error, created_at
		FROM validation_outcomes
		ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent query: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var caseCode, functionCode, errText sql.NullString
		var grounded, passed, clarification int
		var createdStr string

		if err := rows.Scan(&rec.TurnID, &rec.Input, &caseCode, &functionCode,
			&grounded, &rec.Attempts, &passed, &clarification,
			&rec.Confidence, &errText, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec.CaseCode = caseCode.String
		rec.FunctionCode = functionCode.String
		rec.Error = errText.String
		rec.Grounded = grounded != 0
		rec.Passed = passed != 0
		rec.Clarification = clarification != 0
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion recent

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
