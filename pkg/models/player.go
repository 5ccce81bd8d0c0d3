// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"time"
)

// Session delivers notifications to the connection that owns a player.
// Implementations must not block: they are called while match state is locked.
type Session interface {
	Send(notification Notification)
}

// Profile is what a client supplies at registration.
type Profile struct {
	Name   string `json:"name"`
	Age    int    `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// Player is a live participant. It is owned either by the waiting queue or by exactly one match roster;
// whoever owns it serializes access to the mutable fields.
type Player struct {
	Name         string    `json:"name"`
	SkillLevel   int       `json:"skillLevel"`
	Credits      float64   `json:"credits"`
	HasChosen    bool      `json:"hasChosen"`
	Age          int       `json:"age,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`

	session Session
}

// PlayerSummary is the public view of a player sent to other players and to the moderator.
type PlayerSummary struct {
	Name       string  `json:"name"`
	SkillLevel int     `json:"skillLevel"`
	Credits    float64 `json:"credits"`
	HasChosen  bool    `json:"hasChosen"`
}

func NewPlayer(profile Profile, skillLevel int, credits float64, session Session, registeredAt time.Time) *Player {
	return &Player{
		Name:         profile.Name,
		SkillLevel:   skillLevel,
		Credits:      credits,
		Age:          profile.Age,
		Gender:       profile.Gender,
		RegisteredAt: registeredAt,
		session:      session,
	}
}

// Notify sends n to the player's session, if it has one.
func (p *Player) Notify(n Notification) {
	if p == nil || p.session == nil {
		return
	}
	p.session.Send(n)
}

func (p *Player) Summary() PlayerSummary {
	return PlayerSummary{
		Name:       p.Name,
		SkillLevel: p.SkillLevel,
		Credits:    p.Credits,
		HasChosen:  p.HasChosen,
	}
}

// ResetForMatch prepares the player for a fresh match.
func (p *Player) ResetForMatch(initialCredits float64) {
	p.Credits = initialCredits
	p.HasChosen = false
}
