// Package store persists batch segmentation results in SQLite.
//
// A saved batch is three tables: one batches row (uuid primary key), one
// runs row per segmented run and one items row per response, all written in
// a single transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/semflu/batch"
	"github.com/katalvlaran/semflu/stats"
)

// ErrNotFound is returned when a batch id is unknown.
var ErrNotFound = errors.New("store: batch not found")

const schema = `
CREATE TABLE IF NOT EXISTS batches (
	batch_id      TEXT PRIMARY KEY,
	created_at    TEXT NOT NULL,
	algorithm     TEXT NOT NULL,
	runs          INTEGER NOT NULL,
	dropped       INTEGER NOT NULL,
	mean_length   REAL NOT NULL,
	std_length    REAL NOT NULL,
	mean_switches REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	batch_id          TEXT NOT NULL,
	seq               INTEGER NOT NULL,
	run_id            TEXT NOT NULL,
	algorithm         TEXT NOT NULL,
	fell_back         INTEGER NOT NULL,
	truncated         INTEGER NOT NULL,
	length            INTEGER NOT NULL,
	clusters          INTEGER NOT NULL,
	switches          INTEGER NOT NULL,
	unclassified      INTEGER NOT NULL,
	mean_cluster_size REAL NOT NULL,
	max_cluster_size  INTEGER NOT NULL,
	mean_irt          REAL NOT NULL,
	mean_switch_irt   REAL NOT NULL,
	mean_within_irt   REAL NOT NULL,
	score             INTEGER NOT NULL,
	elapsed_ns        INTEGER NOT NULL,
	PRIMARY KEY (batch_id, seq),
	FOREIGN KEY (batch_id) REFERENCES batches(batch_id)
);

CREATE TABLE IF NOT EXISTS items (
	batch_id   TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	counter    INTEGER NOT NULL,
	run_id     TEXT NOT NULL,
	entry      TEXT NOT NULL,
	irt        REAL NOT NULL,
	patch      INTEGER NOT NULL,
	patch_item INTEGER NOT NULL,
	from_end   INTEGER NOT NULL,
	last       INTEGER NOT NULL,
	mean_irt   REAL NOT NULL,
	category   TEXT NOT NULL,
	PRIMARY KEY (batch_id, seq, counter),
	FOREIGN KEY (batch_id, seq) REFERENCES runs(batch_id, seq)
);
`

// Store is a SQLite-backed result store. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err = db.Exec(pragma); err != nil {
			db.Close()

			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err = db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBatch writes rep and returns the new batch id.
func (s *Store) SaveBatch(ctx context.Context, rep *batch.Report) (string, error) {
	if rep == nil {
		return "", errors.New("store: nil report")
	}
	id := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (batch_id, created_at, algorithm, runs, dropped, mean_length, std_length, mean_switches)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), rep.Algorithm, len(rep.Results), len(rep.Dropped),
		rep.Corpus.MeanLength, rep.Corpus.StdLength, rep.Corpus.MeanSwitches,
	)
	if err != nil {
		return "", fmt.Errorf("insert batch: %w", err)
	}

	runStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO runs (batch_id, seq, run_id, algorithm, fell_back, truncated, length, clusters, switches,
		                   unclassified, mean_cluster_size, max_cluster_size, mean_irt, mean_switch_irt,
		                   mean_within_irt, score, elapsed_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare runs: %w", err)
	}
	defer runStmt.Close()

	itemStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (batch_id, seq, counter, run_id, entry, irt, patch, patch_item, from_end, last,
		                    mean_irt, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare items: %w", err)
	}
	defer itemStmt.Close()

	for seq, res := range rep.Results {
		sum := res.Summary
		var score int64
		if res.Solution != nil {
			score = res.Solution.Score.Combined()
		}
		if _, err = runStmt.ExecContext(ctx,
			id, seq, res.ID, res.Algorithm, res.FellBack, res.Truncated, sum.Length, sum.Clusters, sum.Switches,
			sum.Unclassified, sum.MeanClusterSize, sum.MaxClusterSize, sum.MeanIRT, sum.MeanSwitchIRT,
			sum.MeanWithinIRT, score, res.Elapsed.Nanoseconds(),
		); err != nil {
			return "", fmt.Errorf("insert run %q: %w", res.ID, err)
		}

		for _, it := range res.Items {
			if _, err = itemStmt.ExecContext(ctx,
				id, seq, it.Counter, it.RunID, it.Entry, it.IRT, it.Patch, it.PatchItem, it.FromEnd, it.Last,
				it.MeanIRT, it.Category,
			); err != nil {
				return "", fmt.Errorf("insert item %d of run %q: %w", it.Counter, res.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	return id, nil
}

// Items returns every item row of a batch in run order, then counter order.
func (s *Store) Items(ctx context.Context, batchID string) ([]stats.ItemRow, error) {
	if err := s.exists(ctx, batchID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, entry, irt, patch, patch_item, from_end, last, counter, mean_irt, category
		 FROM items WHERE batch_id = ? ORDER BY seq, counter`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	out := []stats.ItemRow{}
	for rows.Next() {
		var r stats.ItemRow
		if err = rows.Scan(&r.RunID, &r.Entry, &r.IRT, &r.Patch, &r.PatchItem, &r.FromEnd, &r.Last,
			&r.Counter, &r.MeanIRT, &r.Category); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

// Summaries returns the per-run summaries of a batch in input order.
func (s *Store) Summaries(ctx context.Context, batchID string) ([]stats.Summary, error) {
	if err := s.exists(ctx, batchID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, length, clusters, switches, unclassified, mean_cluster_size, max_cluster_size,
		        mean_irt, mean_switch_irt, mean_within_irt
		 FROM runs WHERE batch_id = ? ORDER BY seq`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := []stats.Summary{}
	for rows.Next() {
		var r stats.Summary
		if err = rows.Scan(&r.RunID, &r.Length, &r.Clusters, &r.Switches, &r.Unclassified,
			&r.MeanClusterSize, &r.MaxClusterSize, &r.MeanIRT, &r.MeanSwitchIRT, &r.MeanWithinIRT); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

func (s *Store) exists(ctx context.Context, batchID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM batches WHERE batch_id = ?`, batchID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", batchID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup batch: %w", err)
	}

	return nil
}
