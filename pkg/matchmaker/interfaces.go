// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package matchmaker owns the waiting queue and every live match, and moves players between them.
package matchmaker

import (
	"github.com/AccelByte/extend-mission-matchmaker/pkg/config"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
)

// PlayerService is what a connected player can trigger.
type PlayerService interface {
	// Register creates the player and sends it an init notification. An empty name gets a generated one.
	Register(rootScope *envelope.Scope, profile models.Profile, session models.Session) (*models.Player, error)

	// Admit seats the player in an open match or puts it in the waiting queue.
	Admit(rootScope *envelope.Scope, playerName string) error

	// ChooseMission submits the player's choice for the current round of its match.
	ChooseMission(rootScope *envelope.Scope, playerName string, missionType models.MissionType) error

	// RemovePlayer forgets the player. A match the player was seated in is ended for everyone.
	RemovePlayer(rootScope *envelope.Scope, playerName string, reason string) error
}

// ModeratorService is the operator control surface.
type ModeratorService interface {
	Stats() Stats
	UpdateSettings(rootScope *envelope.Scope, update config.ConfigUpdate) (config.Settings, error)
	CreateMatch(rootScope *envelope.Scope, requested models.MatchConfig) (models.MatchSnapshot, error)
	EndMatch(rootScope *envelope.Scope, matchID string) error
	DeleteMatch(rootScope *envelope.Scope, matchID string) error
	Kick(rootScope *envelope.Scope, playerName string) error
}
