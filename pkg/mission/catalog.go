// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package mission holds the pools of mission templates and draws a fresh pair every round.
package mission

import (
	"fmt"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/random"
)

var defaultIndividual = []models.MissionTemplate{
	{Name: "Spice Smuggling", Reward: 100, FailureCost: 30, Difficulty: 5},
	{Name: "Arms Transport", Reward: 150, FailureCost: 50, Difficulty: 7},
	{Name: "Data Heist", Reward: 120, FailureCost: 40, Difficulty: 6},
}

var defaultCollective = []models.MissionTemplate{
	{Name: "Hostage Rescue", Reward: 200, FailureCost: 60, Difficulty: 8},
	{Name: "Corporate Sabotage", Reward: 180, FailureCost: 55, Difficulty: 7},
	{Name: "Military Base Demolition", Reward: 220, FailureCost: 70, Difficulty: 9},
}

// Catalog is safe for concurrent use as long as its Source is.
type Catalog struct {
	pools map[models.MissionType][]models.MissionTemplate
	src   random.Source
}

// NewDefaultCatalog returns the standard smuggling missions.
func NewDefaultCatalog(src random.Source) *Catalog {
	catalog, _ := NewCatalog(src, defaultIndividual, defaultCollective)
	return catalog
}

// NewCatalog builds a catalog from custom pools. Both pools need at least one template.
func NewCatalog(src random.Source, individual, collective []models.MissionTemplate) (*Catalog, error) {
	if len(individual) == 0 || len(collective) == 0 {
		return nil, fmt.Errorf("%w: both mission pools need at least one template", models.ErrInvalidConfig)
	}

	return &Catalog{
		pools: map[models.MissionType][]models.MissionTemplate{
			models.MissionIndividual: append([]models.MissionTemplate(nil), individual...),
			models.MissionCollective: append([]models.MissionTemplate(nil), collective...),
		},
		src: src,
	}, nil
}

// Draw picks one template of the given type at random.
func (c *Catalog) Draw(missionType models.MissionType) (models.Mission, error) {
	pool, ok := c.pools[missionType]
	if !ok {
		return models.Mission{}, models.ErrInvalidMissionType
	}
	return pool[c.src.Intn(len(pool))].Instantiate(missionType), nil
}

// DrawRound returns the individual mission followed by the collective one.
func (c *Catalog) DrawRound() []models.Mission {
	individual, _ := c.Draw(models.MissionIndividual)
	collective, _ := c.Draw(models.MissionCollective)
	return []models.Mission{individual, collective}
}

// Templates lists the pool for a mission type.
func (c *Catalog) Templates(missionType models.MissionType) []models.MissionTemplate {
	return append([]models.MissionTemplate(nil), c.pools[missionType]...)
}
