// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type GameMetrics interface {
	SetWaitingPlayers(count int)
	SetMatches(status string, count int)
	AddRoundResolved(objective string)
	AddRoundResolutionElapsedTimeMs(objective string, elapsedTime time.Duration)
	AddMissionOutcome(missionType string, success bool)
	AddMatchEnded(reason string)
	AddReportWriteFailure(sink string)
}

func NewMetrics(registry *prometheus.Registry) GameMetrics {
	return setupPrometheusMetrics(registry)
}
