// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package report persists match reports. Every sink upserts by match id and keeps the
// GeneratedAt of the first write.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
)

type Sink interface {
	Name() string
	Upsert(ctx context.Context, record models.ReportRecord) error
}

// WriteError names the sink that failed.
type WriteError struct {
	Sink string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s sink: %v", e.Sink, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// MultiSink writes to every sink and joins the failures.
type MultiSink []Sink

func (m MultiSink) Name() string {
	return "multi"
}

func (m MultiSink) Upsert(ctx context.Context, record models.ReportRecord) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Upsert(ctx, record); err != nil {
			errs = append(errs, &WriteError{Sink: sink.Name(), Err: err})
		}
	}
	return errors.Join(errs...)
}

// failedSinks lists the sinks named in err, or the fallback when none is named.
func failedSinks(err error, fallback string) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var names []string
		for _, inner := range joined.Unwrap() {
			names = append(names, failedSinks(inner, fallback)...)
		}
		return names
	}

	var writeErr *WriteError
	if errors.As(err, &writeErr) {
		return []string{writeErr.Sink}
	}
	return []string{fallback}
}

// keepGeneratedAt carries the creation time of an existing record forward.
func keepGeneratedAt(record models.ReportRecord, existing *models.ReportRecord) models.ReportRecord {
	if existing != nil && !existing.GeneratedAt.IsZero() {
		record.GeneratedAt = existing.GeneratedAt
	}
	return record
}
