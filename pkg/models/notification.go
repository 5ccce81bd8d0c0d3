// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
)

// Notification is one outbound message to a player. Data holds one of the payload types below.
type Notification struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type WaitingData struct {
	Position  int    `json:"position"`
	QueueSize int    `json:"queueSize"`
	MatchSize int    `json:"matchSize"`
	Message   string `json:"message"`
}

type MatchFoundData struct {
	MatchID    string `json:"matchId"`
	MaxPlayers int    `json:"maxPlayers"`
	Message    string `json:"message"`
}

type MatchJoinedData struct {
	MatchID    string          `json:"matchId"`
	MaxPlayers int             `json:"maxPlayers"`
	Players    []PlayerSummary `json:"players"`
	Config     MatchConfig     `json:"config"`
}

type PlayerJoinedData struct {
	MatchID    string          `json:"matchId"`
	PlayerName string          `json:"playerName"`
	MaxPlayers int             `json:"maxPlayers"`
	Players    []PlayerSummary `json:"players"`
}

type MatchStartedData struct {
	MatchID string          `json:"matchId"`
	Players []PlayerSummary `json:"players"`
	Config  MatchConfig     `json:"config"`
}

type MissionsData struct {
	MatchID        string         `json:"matchId"`
	Missions       []Mission      `json:"missions"`
	CurrentRound   int            `json:"currentRound"`
	MaxRounds      int            `json:"maxRounds"`
	MatchObjective MatchObjective `json:"matchObjective"`
	CreditsQuota   float64        `json:"creditsQuota"`
}

type RoundEndData struct {
	MatchID       string      `json:"matchId"`
	PlayerName    string      `json:"playerName"`
	MissionType   MissionType `json:"missionType"`
	Success       bool        `json:"success"`
	Roll          int         `json:"roll"`
	CreditsChange float64     `json:"creditsChange"`
	Credits       float64     `json:"credits"`
	Missions      []Mission   `json:"missions"`
	CurrentRound  int         `json:"currentRound"`
	MaxRounds     int         `json:"maxRounds"`
}

type MatchEndedData struct {
	MatchID      string          `json:"matchId"`
	Reason       string          `json:"reason"`
	FinalCredits float64         `json:"finalCredits"`
	IsWinner     bool            `json:"isWinner"`
	Winners      []string        `json:"winners"`
	TieBreak     []TieBreakRound `json:"tieBreak,omitempty"`
}

type MatchCancelledData struct {
	MatchID string `json:"matchId"`
	Reason  string `json:"reason"`
}

type KickedData struct {
	Reason string `json:"reason"`
}

type PlayerDisconnectedData struct {
	MatchID          string `json:"matchId"`
	PlayerName       string `json:"playerName"`
	RemainingPlayers int    `json:"remainingPlayers"`
}

type ErrorData struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// TieBreakRoll is one die thrown during sudden death.
type TieBreakRoll struct {
	Player string `json:"player"`
	Roll   int    `json:"roll"`
}

// TieBreakRound records every roll of one sudden-death sub-round and who survived it.
type TieBreakRound struct {
	Round     int            `json:"round"`
	Rolls     []TieBreakRoll `json:"rolls"`
	Survivors []string       `json:"survivors"`
}

func InitNotification(player *Player) Notification {
	return Notification{Type: constants.NotificationInit, Data: *player}
}

func ErrorNotification(err error) Notification {
	return Notification{Type: constants.NotificationError, Data: ErrorData{Message: err.Error(), Code: ErrorCode(err)}}
}
