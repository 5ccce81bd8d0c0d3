// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusMetrics struct {
	waitingPlayers      prometheus.Gauge
	matches             prometheus.GaugeVec
	roundsResolved      prometheus.CounterVec
	roundResolutionTime prometheus.HistogramVec
	missionOutcomes     prometheus.CounterVec
	matchesEnded        prometheus.CounterVec
	reportWriteFailures prometheus.CounterVec
}

func setupPrometheusMetrics(registry *prometheus.Registry) prometheusMetrics {
	factory := promauto.With(registry)

	waitingPlayers := factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "mission_mm_waiting_players",
			Help: "Number of players in the waiting queue",
		})

	matches := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mission_mm_matches",
			Help: "Number of live matches per status",
		}, []string{"status"})

	roundsResolved := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mission_mm_rounds_resolved_total",
			Help: "Rounds resolved, by match objective",
		}, []string{"objective"})

	//nolint:promlinter
	roundResolutionTime := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mission_mm_round_resolution_elapsed_time_ms",
			Help:    "A histogram of round resolution elapsed time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"objective"})

	missionOutcomes := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mission_mm_mission_outcomes_total",
			Help: "Resolved missions by type and result",
		}, []string{"mission_type", "success"})

	matchesEnded := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mission_mm_matches_ended_total",
			Help: "Matches that left the directory, by reason",
		}, []string{"reason"})

	reportWriteFailures := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mission_mm_report_write_failures_total",
			Help: "Report writes that failed or were dropped, by sink",
		}, []string{"sink"})

	return prometheusMetrics{
		waitingPlayers:      waitingPlayers,
		matches:             *matches,
		roundsResolved:      *roundsResolved,
		roundResolutionTime: *roundResolutionTime,
		missionOutcomes:     *missionOutcomes,
		matchesEnded:        *matchesEnded,
		reportWriteFailures: *reportWriteFailures,
	}
}

func (metrics prometheusMetrics) SetWaitingPlayers(count int) {
	metrics.waitingPlayers.Set(float64(count))
}

func (metrics prometheusMetrics) SetMatches(status string, count int) {
	metrics.matches.With(prometheus.Labels{"status": status}).Set(float64(count))
}

func (metrics prometheusMetrics) AddRoundResolved(objective string) {
	metrics.roundsResolved.With(prometheus.Labels{"objective": objective}).Inc()
}

func (metrics prometheusMetrics) AddRoundResolutionElapsedTimeMs(objective string, elapsedTime time.Duration) {
	metrics.roundResolutionTime.With(prometheus.Labels{"objective": objective}).Observe(float64(elapsedTime.Milliseconds()))
}

func (metrics prometheusMetrics) AddMissionOutcome(missionType string, success bool) {
	metrics.missionOutcomes.With(prometheus.Labels{"mission_type": missionType, "success": strconv.FormatBool(success)}).Inc()
}

func (metrics prometheusMetrics) AddMatchEnded(reason string) {
	metrics.matchesEnded.With(prometheus.Labels{"reason": reason}).Inc()
}

func (metrics prometheusMetrics) AddReportWriteFailure(sink string) {
	metrics.reportWriteFailures.With(prometheus.Labels{"sink": sink}).Inc()
}
