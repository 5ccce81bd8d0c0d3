// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/copystructure"
)

// MissionRecord is one resolved mission for one player.
type MissionRecord struct {
	Round         int         `json:"round"`
	MissionType   MissionType `json:"missionType"`
	MissionName   string      `json:"missionName"`
	Result        string      `json:"result"`
	Roll          int         `json:"roll"`
	CreditsChange float64     `json:"creditsChange"`
}

type PlayerReport struct {
	SkillLevel     int             `json:"skillLevel"`
	MissionHistory []MissionRecord `json:"missionHistory"`
	CreditsHistory []float64       `json:"creditsHistory"`
}

// GameReport is the append-only history of a match. Entries are copied values,
// so nothing a live Player does later can rewrite them.
type GameReport struct {
	MatchID     string                   `json:"matchId"`
	TotalRounds int                      `json:"totalRounds"`
	Players     map[string]*PlayerReport `json:"players"`
}

// ReportRecord is what the report sinks persist, one per match id.
type ReportRecord struct {
	MatchID     string                   `json:"matchId"`
	TotalRounds int                      `json:"totalRounds"`
	Players     map[string]*PlayerReport `json:"players"`
	GeneratedAt time.Time                `json:"generatedAt"`
	LastUpdated time.Time                `json:"lastUpdated"`
}

func NewGameReport(matchID string) *GameReport {
	return &GameReport{
		MatchID: matchID,
		Players: make(map[string]*PlayerReport),
	}
}

// AddPlayer opens a history for the player. An existing history is never replaced.
func (r *GameReport) AddPlayer(name string, skillLevel int, initialCredits float64) {
	if _, ok := r.Players[name]; ok {
		return
	}
	r.Players[name] = &PlayerReport{
		SkillLevel:     skillLevel,
		MissionHistory: make([]MissionRecord, 0),
		CreditsHistory: []float64{initialCredits},
	}
}

func (r *GameReport) AppendMission(name string, record MissionRecord) {
	if p, ok := r.Players[name]; ok {
		p.MissionHistory = append(p.MissionHistory, record)
	}
}

func (r *GameReport) AppendCredits(name string, credits float64) {
	if p, ok := r.Players[name]; ok {
		p.CreditsHistory = append(p.CreditsHistory, credits)
	}
}

// Record deep-copies the report into a record stamped with now. The caller may keep mutating r.
func (r *GameReport) Record(now time.Time) (ReportRecord, error) {
	copied, err := copystructure.Copy(r.Players)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("copy report of match %s: %w", r.MatchID, err)
	}
	players, _ := copied.(map[string]*PlayerReport)

	return ReportRecord{
		MatchID:     r.MatchID,
		TotalRounds: r.TotalRounds,
		Players:     players,
		GeneratedAt: now,
		LastUpdated: now,
	}, nil
}
