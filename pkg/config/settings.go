// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"

	validator "github.com/AccelByte/justice-input-validation-go"
	"github.com/elliotchance/pie/v2"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
)

// Settings are the game defaults a moderator can change while the server runs.
// They apply to players registered and matches created after the change.
type Settings struct {
	MatchSize      int     `json:"matchSize"        valid:"range(1|10)"`
	InitialCredits float64 `json:"initialCredits"   optional:"true"`
	SkillLevels    []int   `json:"fixedSkillLevels" optional:"true"`
	MaxRounds      int     `json:"maxRounds"        valid:"range(1|2147483647)"`
	MatchObjective string  `json:"matchObjective"`
	CreditsQuota   float64 `json:"creditsQuota"     optional:"true"`
	AutoMatch      bool    `json:"autoMatch"        optional:"true"`
}

// ConfigUpdate is a partial Settings change, nil fields are left untouched.
type ConfigUpdate struct {
	MatchSize      *int     `json:"matchSize,omitempty"`
	InitialCredits *float64 `json:"initialCredits,omitempty"`
	SkillLevels    []int    `json:"fixedSkillLevels,omitempty"`
	MaxRounds      *int     `json:"maxRounds,omitempty"`
	MatchObjective *string  `json:"matchObjective,omitempty"`
	CreditsQuota   *float64 `json:"creditsQuota,omitempty"`
	AutoMatch      *bool    `json:"autoMatch,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		MatchSize:      constants.DefaultMatchSize,
		InitialCredits: constants.DefaultInitialCredits,
		SkillLevels:    []int{3, 5},
		MaxRounds:      constants.DefaultMaxRounds,
		MatchObjective: constants.ObjectiveFixedRounds,
		CreditsQuota:   constants.DefaultCreditsQuota,
		AutoMatch:      true,
	}
}

func (s Settings) Validate() error {
	if _, err := validator.ValidateStruct(s); err != nil {
		return fmt.Errorf("%w: %s", models.ErrInvalidConfig, err.Error())
	}
	// zero values are skipped by the struct tags
	if s.MatchSize < 1 || s.MaxRounds < 1 {
		return fmt.Errorf("%w: match size and max rounds must be at least 1", models.ErrInvalidConfig)
	}
	if s.InitialCredits <= 0 {
		return fmt.Errorf("%w: initial credits must be positive", models.ErrInvalidConfig)
	}
	if s.CreditsQuota <= 0 {
		return fmt.Errorf("%w: credits quota must be positive", models.ErrInvalidConfig)
	}
	if len(s.SkillLevels) == 0 {
		return fmt.Errorf("%w: at least one skill level is required", models.ErrInvalidConfig)
	}
	if pie.Any(s.SkillLevels, func(level int) bool { return level <= 0 }) {
		return fmt.Errorf("%w: skill levels must be positive", models.ErrInvalidConfig)
	}
	if !models.MatchObjective(s.MatchObjective).Valid() {
		return fmt.Errorf("%w: unknown match objective %q", models.ErrInvalidConfig, s.MatchObjective)
	}
	return nil
}

// Apply returns a copy of s with the update merged in. The receiver is never modified,
// and an invalid result is rejected as a whole.
func (s Settings) Apply(update ConfigUpdate) (Settings, error) {
	next := s.Clone()
	if update.MatchSize != nil {
		next.MatchSize = *update.MatchSize
	}
	if update.InitialCredits != nil {
		next.InitialCredits = *update.InitialCredits
	}
	if update.SkillLevels != nil {
		next.SkillLevels = append([]int(nil), update.SkillLevels...)
	}
	if update.MaxRounds != nil {
		next.MaxRounds = *update.MaxRounds
	}
	if update.MatchObjective != nil {
		next.MatchObjective = *update.MatchObjective
	}
	if update.CreditsQuota != nil {
		next.CreditsQuota = *update.CreditsQuota
	}
	if update.AutoMatch != nil {
		next.AutoMatch = *update.AutoMatch
	}

	if err := next.Validate(); err != nil {
		return s, err
	}
	return next, nil
}

func (s Settings) Clone() Settings {
	clone := s
	clone.SkillLevels = append([]int(nil), s.SkillLevels...)
	return clone
}

// MatchConfig fills the unset fields of requested from the current defaults.
func (s Settings) MatchConfig(requested models.MatchConfig) models.MatchConfig {
	cfg := requested
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = s.MatchSize
	}
	if cfg.MatchObjective == "" {
		cfg.MatchObjective = models.MatchObjective(s.MatchObjective)
	}
	if cfg.CreditsQuota == 0 {
		cfg.CreditsQuota = s.CreditsQuota
	}
	if cfg.MaxRounds == 0 {
		cfg.MaxRounds = s.MaxRounds
	}
	if cfg.InitialCredits == 0 {
		cfg.InitialCredits = s.InitialCredits
	}
	return cfg
}
