// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package victory decides when a match is over and who won it.
package victory

import (
	"fmt"
	"strings"

	"github.com/elliotchance/pie/v2"
	"gopkg.in/typ.v4/slices"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/mathutil"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/random"
)

// Standing is one roster entry, in roster order.
type Standing struct {
	Name    string
	Credits float64
}

type Input struct {
	Objective    models.MatchObjective
	CreditsQuota float64
	CurrentRound int
	MaxRounds    int
	Standings    []Standing
}

type Outcome struct {
	MatchEnded bool
	Winners    []string
	Reason     string
	TieBreak   []models.TieBreakRound
}

type Evaluator struct {
	dice random.Dice
}

func NewEvaluator(dice random.Dice) *Evaluator {
	return &Evaluator{dice: dice}
}

// Evaluate is the only end-of-match check; callers must not add their own round ceiling on top.
func (e *Evaluator) Evaluate(in Input) Outcome {
	if in.Objective == models.ObjectiveInfiniteRounds {
		return e.evaluateQuota(in)
	}
	return evaluateFixedRounds(in)
}

func evaluateFixedRounds(in Input) Outcome {
	if in.CurrentRound < in.MaxRounds {
		return Outcome{}
	}

	winners := names(reachedQuota(in.Standings, in.CreditsQuota))
	if len(winners) == 0 {
		return Outcome{
			MatchEnded: true,
			Winners:    []string{},
			Reason:     fmt.Sprintf("All %d rounds played and nobody reached %.0f credits.", in.MaxRounds, in.CreditsQuota),
		}
	}
	return Outcome{
		MatchEnded: true,
		Winners:    winners,
		Reason:     fmt.Sprintf("All %d rounds played. Reached %.0f credits: %s.", in.MaxRounds, in.CreditsQuota, strings.Join(winners, ", ")),
	}
}

func (e *Evaluator) evaluateQuota(in Input) Outcome {
	reached := reachedQuota(in.Standings, in.CreditsQuota)
	switch len(reached) {
	case 0:
		return Outcome{}
	case 1:
		return Outcome{
			MatchEnded: true,
			Winners:    []string{reached[0].Name},
			Reason:     fmt.Sprintf("%s reached the quota of %.0f credits.", reached[0].Name, in.CreditsQuota),
		}
	}

	best := mathutil.MaxOf(pie.Map(reached, func(s Standing) float64 { return s.Credits }))
	leaders := slices.Filter(reached, func(s Standing) bool { return s.Credits == best })
	if len(leaders) == 1 {
		return Outcome{
			MatchEnded: true,
			Winners:    []string{leaders[0].Name},
			Reason: fmt.Sprintf("%d players reached the quota of %.0f credits, %s wins with the most credits (%.0f).",
				len(reached), in.CreditsQuota, leaders[0].Name, best),
		}
	}

	return e.suddenDeath(names(leaders), best)
}

// suddenDeath rolls for every survivor each sub-round and keeps only the highest rolls.
// After constants.MaxTieBreakRounds the earliest survivor in roster order wins.
func (e *Evaluator) suddenDeath(tied []string, credits float64) Outcome {
	var reason strings.Builder
	fmt.Fprintf(&reason, "Tie at %.0f credits between %s. Sudden death:", credits, strings.Join(tied, ", "))

	survivors := tied
	history := make([]models.TieBreakRound, 0)
	for round := 1; len(survivors) > 1 && round <= constants.MaxTieBreakRounds; round++ {
		rolls := make([]models.TieBreakRoll, 0, len(survivors))
		for _, name := range survivors {
			rolls = append(rolls, models.TieBreakRoll{Player: name, Roll: e.dice.Roll()})
		}

		highest := mathutil.MaxOf(pie.Map(rolls, func(r models.TieBreakRoll) int { return r.Roll }))
		next := pie.Map(
			slices.Filter(rolls, func(r models.TieBreakRoll) bool { return r.Roll == highest }),
			func(r models.TieBreakRoll) string { return r.Player },
		)

		history = append(history, models.TieBreakRound{Round: round, Rolls: rolls, Survivors: next})
		fmt.Fprintf(&reason, " round %d (%s);", round, describeRolls(rolls))
		survivors = next
	}

	winner := survivors[0]
	if len(survivors) > 1 {
		fmt.Fprintf(&reason, " no winner after %d rounds, %s wins by roster order.", constants.MaxTieBreakRounds, winner)
	} else {
		fmt.Fprintf(&reason, " %s wins.", winner)
	}

	return Outcome{
		MatchEnded: true,
		Winners:    []string{winner},
		Reason:     reason.String(),
		TieBreak:   history,
	}
}

func reachedQuota(standings []Standing, quota float64) []Standing {
	return slices.Filter(standings, func(s Standing) bool { return s.Credits >= quota })
}

func names(standings []Standing) []string {
	return pie.Map(standings, func(s Standing) string { return s.Name })
}

func describeRolls(rolls []models.TieBreakRoll) string {
	return strings.Join(pie.Map(rolls, func(r models.TieBreakRoll) string {
		return fmt.Sprintf("%s rolled %d", r.Player, r.Roll)
	}), ", ")
}
