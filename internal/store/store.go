// Package store keeps the history of scraping runs in sqlite. Tournaments are keyed
// by player, rating period, name, city and date, so scraping the same period twice
// updates the earlier rows instead of duplicating them.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fidescrape/internal/scrapers/fide"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id         TEXT PRIMARY KEY,
    player_id  TEXT     NOT NULL,
    months     INTEGER  NOT NULL,
    started_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tournaments (
    player_id           TEXT    NOT NULL,
    rating_period       TEXT    NOT NULL,
    name                TEXT    NOT NULL,
    city                TEXT    NOT NULL,
    country             TEXT    NOT NULL,
    date                TEXT    NOT NULL,
    points              TEXT    NOT NULL,
    rounds              INTEGER NOT NULL,
    avg_opponent_rating INTEGER NOT NULL,
    rating_change       TEXT    NOT NULL,
    performance         INTEGER NOT NULL,
    run_id              TEXT    NOT NULL REFERENCES runs(id),
    seq                 INTEGER NOT NULL,
    PRIMARY KEY (player_id, rating_period, name, city, date)
);

CREATE INDEX IF NOT EXISTS idx_tournaments_run ON tournaments(run_id, seq);
`

type Run struct {
	ID        string
	PlayerId  string
	Months    int
	StartedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, ":memory:" is allowed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	// sqlite is single-writer, this also keeps ":memory:" on one connection
	db.SetMaxOpenConns(1)

	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records a run and upserts its tournaments in one transaction, the run id is
// generated when empty.
func (s *Store) SaveRun(ctx context.Context, run Run, tournaments []fide.Tournament) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return run, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO runs (id, player_id, months, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.PlayerId, run.Months, run.StartedAt.UTC(),
	)
	if err != nil {
		return run, fmt.Errorf("store: insert run: %w", err)
	}

	for i, t := range tournaments {
		_, err = tx.ExecContext(
			ctx,
			`INSERT OR REPLACE INTO tournaments (
				player_id, rating_period, name, city, country, date,
				points, rounds, avg_opponent_rating, rating_change, performance,
				run_id, seq
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.PlayerId, t.RatingPeriod, t.Name, t.City, t.Country, t.Date,
			t.Points.String(), t.Rounds, t.AvgOpponentRating, t.RatingChange.String(), t.Performance,
			run.ID, i,
		)
		if err != nil {
			return run, fmt.Errorf("store: upsert tournament %q: %w", t.Name, err)
		}
	}

	return run, tx.Commit()
}

// Tournaments returns every stored tournament of a player, tournaments of the latest
// runs first and in their original order within a run.
func (s *Store) Tournaments(ctx context.Context, playerId string) ([]fide.Tournament, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT t.rating_period, t.name, t.city, t.country, t.date,
			t.points, t.rounds, t.avg_opponent_rating, t.rating_change, t.performance
		FROM tournaments t
		JOIN runs r ON r.id = t.run_id
		WHERE t.player_id = ?
		ORDER BY r.started_at DESC, t.seq ASC`,
		playerId,
	)
	if err != nil {
		return nil, fmt.Errorf("store: query tournaments: %w", err)
	}
	defer rows.Close()

	var result []fide.Tournament
	for rows.Next() {
		var t fide.Tournament
		var points, ratingChange string
		err = rows.Scan(
			&t.RatingPeriod, &t.Name, &t.City, &t.Country, &t.Date,
			&points, &t.Rounds, &t.AvgOpponentRating, &ratingChange, &t.Performance,
		)
		if err != nil {
			return nil, fmt.Errorf("store: scan tournament: %w", err)
		}
		t.Points, err = decimal.NewFromString(points)
		if err != nil {
			return nil, fmt.Errorf("store: tournament %q points: %w", t.Name, err)
		}
		t.RatingChange, err = decimal.NewFromString(ratingChange)
		if err != nil {
			return nil, fmt.Errorf("store: tournament %q rating change: %w", t.Name, err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Runs returns the runs of a player, latest first.
func (s *Store) Runs(ctx context.Context, playerId string) ([]Run, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, player_id, months, started_at FROM runs WHERE player_id = ? ORDER BY started_at DESC`,
		playerId,
	)
	if err != nil {
		return nil, fmt.Errorf("store: query runs: %w", err)
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		var r Run
		err = rows.Scan(&r.ID, &r.PlayerId, &r.Months, &r.StartedAt)
		if err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
