// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package report

import (
	"context"
	"sync"
	"time"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/metrics"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
)

const droppedLabel = "queue_full"

type job struct {
	scope  *envelope.Scope
	record models.ReportRecord
}

// Dispatcher writes reports on its own goroutine so publishing never waits on a sink.
// Write failures are logged and counted, never returned.
type Dispatcher struct {
	sink         Sink
	metrics      metrics.GameMetrics
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	jobs   chan job
	done   chan struct{}
}

func NewDispatcher(sink Sink, metrics metrics.GameMetrics, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = constants.ReportQueueSize
	}
	d := &Dispatcher{
		sink:         sink,
		metrics:      metrics,
		writeTimeout: constants.ReportWriteTimeout,
		jobs:         make(chan job, queueSize),
		done:         make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish queues the record. When the queue is full or the dispatcher is closed the record is dropped.
func (d *Dispatcher) Publish(scope *envelope.Scope, record models.ReportRecord) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		scope.Log.Warnf("report dispatcher closed, dropping report of match %s", record.MatchID)
		return
	}

	select {
	case d.jobs <- job{scope: scope, record: record}:
	default:
		scope.Log.Warnf("report queue full, dropping report of match %s round %d", record.MatchID, record.TotalRounds)
		d.metrics.AddReportWriteFailure(droppedLabel)
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.jobs {
		d.write(j)
	}
}

func (d *Dispatcher) write(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.writeTimeout)
	defer cancel()

	err := d.sink.Upsert(ctx, j.record)
	if err == nil {
		j.scope.Log.Debugf("report of match %s saved (round %d)", j.record.MatchID, j.record.TotalRounds)
		return
	}

	for _, name := range failedSinks(err, d.sink.Name()) {
		d.metrics.AddReportWriteFailure(name)
	}
	j.scope.Log.WithError(err).Errorf("unable to save report of match %s", j.record.MatchID)
}

// Close stops accepting reports and waits for the queued ones to be written, or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
