// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package constants

import "time"

const (
	DieSides = 6

	// MaxTieBreakRounds bounds the sudden-death loop in case the dice never separate the tied players.
	MaxTieBreakRounds = 64

	ReportQueueSize     = 256
	ReportWriteTimeout  = 5 * time.Second
	SessionSendBuffer   = 32
	DefaultPlayerPrefix = "Player"
)

// Game defaults, used when no environment override is given.
const (
	DefaultMatchSize      = 3
	DefaultInitialCredits = 100
	DefaultCreditsQuota   = 500
	DefaultMaxRounds      = 10
	MaxMatchSize          = 10
)

const (
	MissionTypeIndividual = "individual"
	MissionTypeCollective = "collective"

	ObjectiveFixedRounds    = "fixedRounds"
	ObjectiveInfiniteRounds = "infiniteRounds"

	MatchStatusWaiting  = "waiting"
	MatchStatusActive   = "active"
	MatchStatusFinished = "finished"

	MatchOriginAuto      = "auto"
	MatchOriginModerator = "moderator"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Outbound notification types.
const (
	NotificationInit               = "init"
	NotificationWaitingForMatch    = "waitingForMatch"
	NotificationMatchFound         = "matchFound"
	NotificationMatchJoined        = "matchJoined"
	NotificationPlayerJoined       = "playerJoined"
	NotificationMatchStarted       = "matchStarted"
	NotificationMissions           = "missions"
	NotificationRoundEnd           = "roundEnd"
	NotificationMatchEnded         = "matchEnded"
	NotificationMatchCancelled     = "matchCancelled"
	NotificationKicked             = "kicked"
	NotificationPlayerDisconnected = "playerDisconnected"
	NotificationError              = "error"
)

// Inbound gateway message types.
const (
	MessageRegister      = "register"
	MessageChooseMission = "chooseMission"
)

// Match end reasons, also used as metric labels.
const (
	EndReasonCompleted    = "completed"
	EndReasonDisconnected = "player_disconnected"
	EndReasonKicked       = "player_kicked"
	EndReasonModerator    = "moderator_ended"
	EndReasonCancelled    = "cancelled"
)
