// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package jobs runs the periodic background work of the server.
package jobs

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/metrics"
)

type StatsSource interface {
	Stats() matchmaker.Stats
}

// StatsJob copies directory counts into the gauges and logs a one-line summary.
type StatsJob struct {
	source  StatsSource
	metrics metrics.GameMetrics
	log     *logrus.Entry
}

func NewStatsJob(source StatsSource, gameMetrics metrics.GameMetrics) *StatsJob {
	return &StatsJob{
		source:  source,
		metrics: gameMetrics,
		log:     logrus.WithField("job", "stats"),
	}
}

func (j *StatsJob) Run() {
	stats := j.source.Stats()

	j.metrics.SetWaitingPlayers(stats.QueueLength)
	j.metrics.SetMatches(constants.MatchStatusWaiting, len(stats.AvailableMatches))
	j.metrics.SetMatches(constants.MatchStatusActive, len(stats.ActiveMatches))

	j.log.WithFields(logrus.Fields{
		"queueLength":       stats.QueueLength,
		"registeredPlayers": stats.RegisteredPlayers,
		"activeMatches":     len(stats.ActiveMatches),
		"availableMatches":  len(stats.AvailableMatches),
	}).Debug("directory stats")
}

// Schedule starts a scheduler running job every interval. The caller owns Shutdown.
func Schedule(job *StatsJob, interval time.Duration) (gocron.Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("stats interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(job.Run),
		gocron.WithName("directory-stats"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("schedule stats job: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}
