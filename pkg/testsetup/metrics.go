// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"time"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/metrics"
)

type stubMetricsCollection struct{}

func (s stubMetricsCollection) SetWaitingPlayers(count int) {}

func (s stubMetricsCollection) SetMatches(status string, count int) {}

func (s stubMetricsCollection) AddRoundResolved(objective string) {}

func (s stubMetricsCollection) AddRoundResolutionElapsedTimeMs(objective string, elapsedTime time.Duration) {
}

func (s stubMetricsCollection) AddMissionOutcome(missionType string, success bool) {}

func (s stubMetricsCollection) AddMatchEnded(reason string) {}

func (s stubMetricsCollection) AddReportWriteFailure(sink string) {}

func NewMetrics() metrics.GameMetrics {
	return stubMetricsCollection{}
}
