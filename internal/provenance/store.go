// Package provenance records search runs in SQLite: one row per word search,
// its best and raw choices, and the characters of the best path.
package provenance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Hanaasagi/wordseg/pkg/langmodel"
	"github.com/Hanaasagi/wordseg/pkg/segsearch"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id          TEXT PRIMARY KEY,
	word            TEXT NOT NULL,
	prev_word       TEXT,
	result          TEXT,
	stop_reason     TEXT NOT NULL,
	classifications INTEGER NOT NULL,
	futile          INTEGER NOT NULL,
	pain_points     INTEGER NOT NULL,
	entries         INTEGER NOT NULL,
	elapsed_ns      INTEGER NOT NULL,
	metrics_json    TEXT,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS choices (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	kind        TEXT NOT NULL,
	text        TEXT NOT NULL,
	cost        REAL NOT NULL,
	ratings_sum REAL NOT NULL,
	certainty   REAL NOT NULL,
	permuter    TEXT NOT NULL,
	state       TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS path_steps (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id    TEXT NOT NULL,
	position  INTEGER NOT NULL,
	unichar   TEXT NOT NULL,
	span_col  INTEGER NOT NULL,
	span_row  INTEGER NOT NULL,
	rating    REAL NOT NULL,
	certainty REAL NOT NULL,
	cost      REAL NOT NULL,
	permuter  TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);
`

// Choice kinds
const (
	KindBest = "best"
	KindRaw  = "raw"
)

// Run is a recorded word search
type Run struct {
	RunID           string
	Word            string
	PrevWord        string
	Result          string
	StopReason      string
	Classifications int
	Futile          int
	PainPoints      int
	Entries         int
	Elapsed         time.Duration
	CreatedAt       time.Time
}

// Choice is a recorded best or raw choice
type Choice struct {
	Kind       string
	Text       string
	Cost       float64
	RatingsSum float64
	Certainty  float64
	Permuter   string
	State      []uint8
}

// Store manages recorded runs in SQLite
type Store struct {
	db *sql.DB
}

// Open opens the database at path, ":memory:" for an in-memory store, and
// creates the tables.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores the result of searching word
func (s *Store) Record(ctx context.Context, word, prevWord string, res *segsearch.Result) error {
	m := res.Metrics
	if m == nil {
		return fmt.Errorf("result without metrics")
	}
	metricsJSON, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, word, prev_word, result, stop_reason, classifications, futile, pain_points, entries, elapsed_ns, metrics_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID,
		word,
		nullIfEmpty(prevWord),
		nullIfEmpty(res.Text()),
		m.StopReason.String(),
		m.Classifications,
		m.FutileClassifications,
		m.TotalPainPoints(),
		m.EntriesCreated,
		m.Elapsed.Nanoseconds(),
		string(metricsJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, c := range []struct {
		kind   string
		choice *langmodel.WordChoice
	}{
		{KindBest, res.Best},
		{KindRaw, res.Raw},
	} {
		if c.choice == nil {
			continue
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO choices (run_id, kind, text, cost, ratings_sum, certainty, permuter, state)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.RunID, c.kind, c.choice.Text, c.choice.Cost, c.choice.RatingsSum,
			c.choice.Certainty, c.choice.Permuter.String(), encodeState(c.choice.State),
		)
		if err != nil {
			return fmt.Errorf("insert %s choice: %w", c.kind, err)
		}
	}

	for i, step := range res.Steps {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO path_steps (run_id, position, unichar, span_col, span_row, rating, certainty, cost, permuter)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.RunID, i, step.Unichar, step.Span.Col, step.Span.Row,
			step.Rating, step.Certainty, step.Cost, step.Permuter,
		)
		if err != nil {
			return fmt.Errorf("insert step %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Runs returns the most recent runs first, at most limit when limit > 0
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT run_id, word, COALESCE(prev_word, ''), COALESCE(result, ''), stop_reason,
		classifications, futile, pain_points, entries, elapsed_ns, created_at
		FROM runs ORDER BY rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var elapsed int64
		var created string
		if err := rows.Scan(&r.RunID, &r.Word, &r.PrevWord, &r.Result, &r.StopReason,
			&r.Classifications, &r.Futile, &r.PainPoints, &r.Entries, &elapsed, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Elapsed = time.Duration(elapsed)
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Choices returns the recorded choices of a run, best first
func (s *Store) Choices(ctx context.Context, runID string) ([]Choice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, text, cost, ratings_sum, certainty, permuter, state
		 FROM choices WHERE run_id = ? ORDER BY CASE kind WHEN 'best' THEN 0 ELSE 1 END`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query choices: %w", err)
	}
	defer rows.Close()

	var choices []Choice
	for rows.Next() {
		var c Choice
		var state string
		if err := rows.Scan(&c.Kind, &c.Text, &c.Cost, &c.RatingsSum, &c.Certainty, &c.Permuter, &state); err != nil {
			return nil, fmt.Errorf("scan choice: %w", err)
		}
		if c.State, err = decodeState(state); err != nil {
			return nil, err
		}
		choices = append(choices, c)
	}
	return choices, rows.Err()
}

// Steps returns the characters of the best path of a run in order
func (s *Store) Steps(ctx context.Context, runID string) ([]segsearch.Step, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT unichar, span_col, span_row, rating, certainty, cost, permuter
		 FROM path_steps WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	var steps []segsearch.Step
	for rows.Next() {
		var st segsearch.Step
		if err := rows.Scan(&st.Unichar, &st.Span.Col, &st.Span.Row, &st.Rating, &st.Certainty, &st.Cost, &st.Permuter); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		steps = append(steps, st)
	}
	return steps, rows.Err()
}

// Delete removes a run with its choices and steps
func (s *Store) Delete(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

func encodeState(state []uint8) string {
	parts := make([]string, len(state))
	for i, n := range state {
		parts[i] = strconv.Itoa(int(n))
	}
	return strings.Join(parts, ",")
}

func decodeState(s string) ([]uint8, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	state := make([]uint8, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid state %q: %w", s, err)
		}
		state[i] = uint8(n)
	}
	return state, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
