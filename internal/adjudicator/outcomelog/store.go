// Package outcomelog is a pure-Go, CGO-free sqlite-backed log of
// adjudication decisions, built on modernc.org/sqlite; it is the only
// package in this module that uses sqlite.
package outcomelog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/brightpath/carecoord/internal/adjudicator"
)

//go:embed migrations/001_decisions.sql
var schema string

// Store persists adjudicator.DecisionRecord rows.
type Store struct {
	db *sql.DB
}

// Open creates or attaches to a sqlite database under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("outcomelog: create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "decisions.db"))
	if err != nil {
		return nil, fmt.Errorf("outcomelog: open: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite is happiest with a single writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("outcomelog: set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("outcomelog: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// LogDecision implements adjudicator.OutcomeLogger.
func (s *Store) LogDecision(ctx context.Context, rec adjudicator.DecisionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (tier, decision_path, decision_reason, confidence, rule_set, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(rec.Tier), rec.DecisionPath, rec.DecisionReason, rec.Confidence, rec.RuleSet, rec.Version, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("outcomelog: insert: %w", err)
	}
	return nil
}

// DecisionPathRate returns the fraction of the most recent `limit` decisions
// that took decisionPath, for monitoring drift between LLM-accepted and
// deterministic-fallback outcomes.
func (s *Store) DecisionPathRate(ctx context.Context, decisionPath string, limit int) (float64, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			CAST(SUM(CASE WHEN decision_path = ? THEN 1 ELSE 0 END) AS REAL) / COUNT(*)
		FROM (SELECT decision_path FROM decisions ORDER BY created_at DESC LIMIT ?)`,
		decisionPath, limit,
	)
	var rate sql.NullFloat64
	if err := row.Scan(&rate); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("outcomelog: query rate: %w", err)
	}
	return rate.Float64, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
