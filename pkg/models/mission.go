// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
)

type MissionType string

const (
	MissionIndividual MissionType = constants.MissionTypeIndividual
	MissionCollective MissionType = constants.MissionTypeCollective
)

// ParseMissionType accepts only the two mission types a player can choose.
func ParseMissionType(value string) (MissionType, error) {
	switch MissionType(value) {
	case MissionIndividual, MissionCollective:
		return MissionType(value), nil
	default:
		return "", ErrInvalidMissionType
	}
}

// MissionTemplate is a catalog entry, instantiated into a Mission once per round.
type MissionTemplate struct {
	Name        string  `json:"name"`
	Reward      float64 `json:"reward"`
	FailureCost float64 `json:"failureCost"`
	Difficulty  int     `json:"difficulty"`
}

// Mission is immutable once drawn.
type Mission struct {
	Type        MissionType `json:"type"`
	Name        string      `json:"name"`
	Reward      float64     `json:"reward"`
	FailureCost float64     `json:"failureCost"`
	Difficulty  int         `json:"difficulty"`
}

func (t MissionTemplate) Instantiate(missionType MissionType) Mission {
	return Mission{
		Type:        missionType,
		Name:        t.Name,
		Reward:      t.Reward,
		FailureCost: t.FailureCost,
		Difficulty:  t.Difficulty,
	}
}

// Choice is one player's pick for the current round.
type Choice struct {
	PlayerName  string      `json:"player"`
	MissionType MissionType `json:"choice"`
}
