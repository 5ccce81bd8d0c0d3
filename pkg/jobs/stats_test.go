// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package jobs

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/metrics"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/testsetup"
)

type fixedStats struct {
	calls atomic.Int32
	stats matchmaker.Stats
}

func (f *fixedStats) Stats() matchmaker.Stats {
	f.calls.Add(1)
	return f.stats
}

type gaugeMetrics struct {
	metrics.GameMetrics

	mu      sync.Mutex
	waiting int
	matches map[string]int
}

func newGaugeMetrics() *gaugeMetrics {
	return &gaugeMetrics{GameMetrics: testsetup.NewMetrics(), matches: make(map[string]int)}
}

func (g *gaugeMetrics) SetWaitingPlayers(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.waiting = count
}

func (g *gaugeMetrics) SetMatches(status string, count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.matches[status] = count
}

func TestStatsJob_SetsGauges(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	source := &fixedStats{stats: matchmaker.Stats{
		QueueLength:      4,
		ActiveMatches:    []models.MatchSnapshot{{MatchID: "a"}, {MatchID: "b"}},
		AvailableMatches: []models.MatchSnapshot{{MatchID: "c"}},
	}}
	gauges := newGaugeMetrics()

	NewStatsJob(source, gauges).Run()

	g.Expect(gauges.waiting).To(Equal(4))
	g.Expect(gauges.matches).To(Equal(map[string]int{"waiting": 1, "active": 2}))
}

func TestSchedule_RunsRepeatedly(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	source := &fixedStats{}
	scheduler, err := Schedule(NewStatsJob(source, newGaugeMetrics()), 20*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = scheduler.Shutdown() }()

	g.Eventually(source.calls.Load, time.Second, 10*time.Millisecond).Should(BeNumerically(">=", 2))
}

func TestSchedule_RejectsNonPositiveInterval(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	_, err := Schedule(NewStatsJob(&fixedStats{}, newGaugeMetrics()), 0)
	g.Expect(err).To(HaveOccurred())
}
