// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package report

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/metrics"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/testsetup"
)

type countingMetrics struct {
	metrics.GameMetrics

	mu       sync.Mutex
	failures map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{GameMetrics: testsetup.NewMetrics(), failures: make(map[string]int)}
}

func (m *countingMetrics) AddReportWriteFailure(sink string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[sink]++
}

func (m *countingMetrics) failuresOf(sink string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures[sink]
}

type memorySink struct {
	mu      sync.Mutex
	records []models.ReportRecord
	started chan struct{}
	release chan struct{}
}

func (s *memorySink) Name() string { return "memory" }

func (s *memorySink) Upsert(_ context.Context, record models.ReportRecord) error {
	if s.started != nil {
		s.started <- struct{}{}
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *memorySink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func TestDispatcher_WritesInOrderAndDrainsOnClose(t *testing.T) {
	sink := &memorySink{}
	dispatcher := NewDispatcher(sink, newCountingMetrics(), 16)
	scope := testsetup.NewTestScope()

	for round := 1; round <= 5; round++ {
		dispatcher.Publish(scope, sampleRecord(round, firstWrite))
	}
	require.NoError(t, dispatcher.Close(context.Background()))

	require.Equal(t, 5, sink.count())
	for i, record := range sink.records {
		assert.Equal(t, i+1, record.TotalRounds)
	}

	dispatcher.Publish(scope, sampleRecord(6, firstWrite))
	assert.Equal(t, 5, sink.count(), "publishing after close is a no-op")
	assert.NoError(t, dispatcher.Close(context.Background()))
}

func TestDispatcher_FailuresAreCountedNotReturned(t *testing.T) {
	counters := newCountingMetrics()
	dispatcher := NewDispatcher(MultiSink{failingSink{name: "sqlite"}, &memorySink{}}, counters, 4)

	dispatcher.Publish(testsetup.NewTestScope(), sampleRecord(1, firstWrite))
	require.NoError(t, dispatcher.Close(context.Background()))

	assert.Equal(t, 1, counters.failuresOf("sqlite"))
	assert.Equal(t, 0, counters.failuresOf("memory"))
}

func TestDispatcher_DropsWhenQueueIsFull(t *testing.T) {
	sink := &memorySink{started: make(chan struct{}), release: make(chan struct{})}
	counters := newCountingMetrics()
	dispatcher := NewDispatcher(sink, counters, 1)
	scope := testsetup.NewTestScope()

	dispatcher.Publish(scope, sampleRecord(1, firstWrite))
	<-sink.started

	done := make(chan struct{})
	go func() {
		defer close(done)
		dispatcher.Publish(scope, sampleRecord(2, firstWrite))
		dispatcher.Publish(scope, sampleRecord(3, firstWrite))
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow sink")
	}
	assert.Equal(t, 1, counters.failuresOf(droppedLabel))

	go func() {
		for range sink.started {
		}
	}()
	close(sink.release)
	require.NoError(t, dispatcher.Close(context.Background()))
	assert.Equal(t, 2, sink.count())
}

func TestDispatcher_CloseHonoursContext(t *testing.T) {
	sink := &memorySink{started: make(chan struct{}), release: make(chan struct{})}
	dispatcher := NewDispatcher(sink, newCountingMetrics(), 1)

	dispatcher.Publish(testsetup.NewTestScope(), sampleRecord(1, firstWrite))
	<-sink.started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, dispatcher.Close(ctx), context.DeadlineExceeded)

	close(sink.release)
}
