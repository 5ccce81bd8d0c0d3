// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
)

// FileSink writes one pretty-printed JSON file per match.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory %s: %w", dir, err)
	}
	return &FileSink{dir: dir}, nil
}

func (s *FileSink) Name() string {
	return "file"
}

func (s *FileSink) path(matchID string) string {
	return filepath.Join(s.dir, matchID+".json")
}

func (s *FileSink) Upsert(ctx context.Context, record models.ReportRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	existing, err := s.Get(record.MatchID)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	record = keepGeneratedAt(record, existing)

	body, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report %s: %w", record.MatchID, err)
	}

	tmp, err := os.CreateTemp(s.dir, record.MatchID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(record.MatchID)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace report %s: %w", record.MatchID, err)
	}
	return nil
}

// Get reads the stored report. A missing report yields an error wrapping fs.ErrNotExist.
func (s *FileSink) Get(matchID string) (*models.ReportRecord, error) {
	body, err := os.ReadFile(s.path(matchID))
	if err != nil {
		return nil, err
	}
	var record models.ReportRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", matchID, err)
	}
	return &record, nil
}
