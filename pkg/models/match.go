// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"fmt"
	"time"

	validator "github.com/AccelByte/justice-input-validation-go"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
)

type MatchObjective string

const (
	ObjectiveFixedRounds    MatchObjective = constants.ObjectiveFixedRounds
	ObjectiveInfiniteRounds MatchObjective = constants.ObjectiveInfiniteRounds
)

func (o MatchObjective) Valid() bool {
	return o == ObjectiveFixedRounds || o == ObjectiveInfiniteRounds
}

type MatchStatus string

const (
	MatchWaiting  MatchStatus = constants.MatchStatusWaiting
	MatchActive   MatchStatus = constants.MatchStatusActive
	MatchFinished MatchStatus = constants.MatchStatusFinished
)

// MatchConfig is fixed when a match is created.
type MatchConfig struct {
	MaxPlayers     int            `json:"maxPlayers"     valid:"range(1|10)"`
	MatchObjective MatchObjective `json:"matchObjective" optional:"true"`
	CreditsQuota   float64        `json:"creditsQuota"   optional:"true"`
	MaxRounds      int            `json:"maxRounds"      valid:"range(1|2147483647)"`
	InitialCredits float64        `json:"initialCredits" optional:"true"`
}

func (c MatchConfig) Validate() error {
	if _, err := validator.ValidateStruct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	if c.MaxPlayers < 1 || c.MaxRounds < 1 {
		return fmt.Errorf("%w: max players and max rounds must be at least 1", ErrInvalidConfig)
	}
	if !c.MatchObjective.Valid() {
		return fmt.Errorf("%w: unknown match objective %q", ErrInvalidConfig, c.MatchObjective)
	}
	if c.CreditsQuota <= 0 {
		return fmt.Errorf("%w: credits quota must be positive", ErrInvalidConfig)
	}
	if c.InitialCredits <= 0 {
		return fmt.Errorf("%w: initial credits must be positive", ErrInvalidConfig)
	}
	return nil
}

// MatchSnapshot is a consistent, read-only view of a match.
type MatchSnapshot struct {
	MatchID        string          `json:"matchId"`
	Status         MatchStatus     `json:"status"`
	Origin         string          `json:"origin"`
	CurrentRound   int             `json:"currentRound"`
	MaxPlayers     int             `json:"maxPlayers"`
	PlayersCount   int             `json:"playersCount"`
	Players        []PlayerSummary `json:"players"`
	Missions       []Mission       `json:"missions"`
	PendingChoices int             `json:"pendingChoices"`
	MatchObjective MatchObjective  `json:"matchObjective"`
	CreditsQuota   float64         `json:"creditsQuota"`
	MaxRounds      int             `json:"maxRounds"`
	AverageCredits float64         `json:"averageCredits"`
	CreatedAt      time.Time       `json:"createdAt"`
}
