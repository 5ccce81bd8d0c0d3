// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package resolution

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/mathutil"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/random"
)

func newPlayer(name string, skill int, credits float64) *models.Player {
	return models.NewPlayer(models.Profile{Name: name}, skill, credits, nil, time.Now())
}

func TestResolveIndividual_SkillPlusRollMeetsDifficulty(t *testing.T) {
	dice := random.NewScriptedDice(3)
	engine := NewEngine(dice)
	player := newPlayer("alice", 5, 100)
	mission := models.Mission{Type: models.MissionIndividual, Name: "Data Heist", Reward: 120, FailureCost: 40, Difficulty: 6}

	outcome := engine.ResolveIndividual(player, mission)

	assert.True(t, outcome.Success)
	assert.Equal(t, 3, outcome.Roll)
	assert.Equal(t, 120.0, outcome.Delta)
	assert.Equal(t, 220.0, player.Credits)
	assert.Equal(t, 220.0, outcome.Credits)
	assert.Equal(t, 1, dice.Rolls())
}

func TestResolveIndividual_Failure(t *testing.T) {
	engine := NewEngine(random.NewScriptedDice(1))
	player := newPlayer("bob", 3, 100)
	mission := models.Mission{Type: models.MissionIndividual, Name: "Arms Transport", Reward: 150, FailureCost: 50, Difficulty: 7}

	outcome := engine.ResolveIndividual(player, mission)

	assert.False(t, outcome.Success)
	assert.Equal(t, -50.0, outcome.Delta)
	assert.Equal(t, 50.0, player.Credits)

	record := outcome.Record(4)
	assert.Equal(t, models.MissionRecord{
		Round:         4,
		MissionType:   models.MissionIndividual,
		MissionName:   "Arms Transport",
		Result:        constants.ResultFailure,
		Roll:          1,
		CreditsChange: -50,
	}, record)
}

func TestResolveCollective_FailureChargesEveryMemberFlat(t *testing.T) {
	dice := random.NewScriptedDice(4)
	engine := NewEngine(dice)
	players := []*models.Player{newPlayer("a", 3, 100), newPlayer("b", 5, 100), newPlayer("c", 3, 100)}
	mission := models.Mission{Type: models.MissionCollective, Name: "Heavy Job", Reward: 200, FailureCost: 60, Difficulty: 20}

	outcomes := engine.ResolveCollective(players, mission)

	require.Len(t, outcomes, 3)
	assert.Equal(t, 1, dice.Rolls(), "the group rolls once")
	for i, outcome := range outcomes {
		assert.False(t, outcome.Success)
		assert.Equal(t, 4, outcome.Roll)
		assert.Equal(t, -60.0, outcome.Delta)
		assert.Equal(t, 40.0, players[i].Credits)
	}
	assert.Equal(t, -180.0, mathutil.SumBy(outcomes, func(o Outcome) float64 { return o.Delta }))
}

func TestResolveCollective_SuccessSplitsReward(t *testing.T) {
	engine := NewEngine(random.NewScriptedDice(2))
	players := []*models.Player{newPlayer("a", 3, 100), newPlayer("b", 3, 100), newPlayer("c", 3, 100)}
	mission := models.Mission{Type: models.MissionCollective, Name: "Corporate Sabotage", Reward: 180, FailureCost: 55, Difficulty: 7}

	outcomes := engine.ResolveCollective(players, mission)

	require.Len(t, outcomes, 3)
	for _, outcome := range outcomes {
		assert.True(t, outcome.Success)
		assert.Equal(t, 60.0, outcome.Delta)
		assert.Equal(t, constants.ResultSuccess, outcome.Record(1).Result)
	}
	assert.InDelta(t, 180.0, mathutil.SumBy(outcomes, func(o Outcome) float64 { return o.Delta }), 1e-9)
}

func TestResolveCollective_UnevenSplitSumsToReward(t *testing.T) {
	engine := NewEngine(random.NewScriptedDice(6))
	players := []*models.Player{newPlayer("a", 5, 0), newPlayer("b", 5, 0), newPlayer("c", 5, 0)}
	mission := models.Mission{Type: models.MissionCollective, Name: "Hostage Rescue", Reward: 200, FailureCost: 60, Difficulty: 8}

	outcomes := engine.ResolveCollective(players, mission)

	assert.InDelta(t, 200.0, mathutil.SumBy(outcomes, func(o Outcome) float64 { return o.Delta }), 1e-9)
}

func TestResolveCollective_EmptyGroupIsNoop(t *testing.T) {
	dice := random.NewScriptedDice(6)
	engine := NewEngine(dice)

	outcomes := engine.ResolveCollective(nil, models.Mission{Type: models.MissionCollective, Reward: 1, FailureCost: 1, Difficulty: 1})

	assert.Empty(t, outcomes)
	assert.Equal(t, 0, dice.Rolls())
}
