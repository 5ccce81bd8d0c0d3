// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package resolution settles missions: it rolls the die, decides success and moves credits.
package resolution

import (
	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/mathutil"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/random"
)

// Outcome is the result of one mission for one player.
type Outcome struct {
	PlayerName string
	Mission    models.Mission
	Success    bool
	Roll       int
	Delta      float64
	Credits    float64
}

// Record converts the outcome into a report entry for the given round.
func (o Outcome) Record(round int) models.MissionRecord {
	result := constants.ResultFailure
	if o.Success {
		result = constants.ResultSuccess
	}
	return models.MissionRecord{
		Round:         round,
		MissionType:   o.Mission.Type,
		MissionName:   o.Mission.Name,
		Result:        result,
		Roll:          o.Roll,
		CreditsChange: o.Delta,
	}
}

type Engine struct {
	dice random.Dice
}

func NewEngine(dice random.Dice) *Engine {
	return &Engine{dice: dice}
}

// ResolveIndividual rolls once for the player and applies the reward or the failure cost.
func (e *Engine) ResolveIndividual(player *models.Player, mission models.Mission) Outcome {
	roll := e.dice.Roll()
	success := player.SkillLevel+roll >= mission.Difficulty

	delta := -mission.FailureCost
	if success {
		delta = mission.Reward
	}
	player.Credits += delta

	return Outcome{
		PlayerName: player.Name,
		Mission:    mission,
		Success:    success,
		Roll:       roll,
		Delta:      delta,
		Credits:    player.Credits,
	}
}

// ResolveCollective treats every player as one group with a single roll against the summed skill.
// A success splits the reward across the group, a failure charges each member the full failure cost.
// An empty group resolves nothing and rolls nothing.
func (e *Engine) ResolveCollective(players []*models.Player, mission models.Mission) []Outcome {
	if len(players) == 0 {
		return nil
	}

	totalSkill := mathutil.SumBy(players, func(p *models.Player) int { return p.SkillLevel })
	roll := e.dice.Roll()
	success := totalSkill+roll >= mission.Difficulty

	delta := -mission.FailureCost
	if success {
		delta = mission.Reward / float64(len(players))
	}

	outcomes := make([]Outcome, 0, len(players))
	for _, player := range players {
		player.Credits += delta
		outcomes = append(outcomes, Outcome{
			PlayerName: player.Name,
			Mission:    mission,
			Success:    success,
			Roll:       roll,
			Delta:      delta,
			Credits:    player.Credits,
		})
	}
	return outcomes
}
