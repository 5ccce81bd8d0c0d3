// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"github.com/AccelByte/extend-mission-matchmaker/pkg/config"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
)

// Stats is a point-in-time view of the directory.
type Stats struct {
	QueueLength       int                    `json:"queueLength"`
	WaitingPlayers    []string               `json:"waitingPlayers"`
	RegisteredPlayers int                    `json:"registeredPlayers"`
	ActiveMatches     []models.MatchSnapshot `json:"activeMatches"`
	AvailableMatches  []models.MatchSnapshot `json:"availableMatches"`
	Settings          config.Settings        `json:"settings"`
}
