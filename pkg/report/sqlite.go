// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
)

const createReportsTable = `
CREATE TABLE IF NOT EXISTS reports (
	match_id     TEXT PRIMARY KEY,
	total_rounds INTEGER NOT NULL,
	players      TEXT NOT NULL,
	generated_at INTEGER NOT NULL,
	last_updated INTEGER NOT NULL
)`

const upsertReport = `
INSERT INTO reports (match_id, total_rounds, players, generated_at, last_updated)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(match_id) DO UPDATE SET
	total_rounds = excluded.total_rounds,
	players      = excluded.players,
	last_updated = excluded.last_updated`

// SQLiteSink keeps reports in a single table keyed by match id.
type SQLiteSink struct {
	db *sql.DB
}

func OpenSQLiteSink(ctx context.Context, path string) (*SQLiteSink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, createReportsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create reports table: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Name() string {
	return "sqlite"
}

func (s *SQLiteSink) Upsert(ctx context.Context, record models.ReportRecord) error {
	players, err := json.Marshal(record.Players)
	if err != nil {
		return fmt.Errorf("encode players of %s: %w", record.MatchID, err)
	}

	_, err = s.db.ExecContext(ctx, upsertReport,
		record.MatchID,
		record.TotalRounds,
		string(players),
		toMillis(record.GeneratedAt),
		toMillis(record.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("upsert report %s: %w", record.MatchID, err)
	}
	return nil
}

// Get returns models.ErrMatchNotFound when no report was stored for the match.
func (s *SQLiteSink) Get(ctx context.Context, matchID string) (*models.ReportRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT total_rounds, players, generated_at, last_updated FROM reports WHERE match_id = ?`, matchID)

	var (
		record      = models.ReportRecord{MatchID: matchID}
		players     string
		generatedAt int64
		lastUpdated int64
	)
	if err := row.Scan(&record.TotalRounds, &players, &generatedAt, &lastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrMatchNotFound
		}
		return nil, fmt.Errorf("read report %s: %w", matchID, err)
	}
	if err := json.Unmarshal([]byte(players), &record.Players); err != nil {
		return nil, fmt.Errorf("decode players of %s: %w", matchID, err)
	}
	record.GeneratedAt = fromMillis(generatedAt)
	record.LastUpdated = fromMillis(lastUpdated)
	return &record, nil
}

func (s *SQLiteSink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
