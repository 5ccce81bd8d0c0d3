// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package match runs a single game room: it fills the roster, draws missions, collects one choice per
// player and resolves the round once everyone has chosen.
package match

import (
	"fmt"
	"sync"
	"time"

	"github.com/elliotchance/pie/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/metrics"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/mission"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/resolution"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/utils"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/victory"
)

// ReportPublisher receives a copy of the report after every resolved round. Publish must not block.
type ReportPublisher interface {
	Publish(scope *envelope.Scope, record models.ReportRecord)
}

// Deps are shared by every match the directory creates.
type Deps struct {
	Catalog   *mission.Catalog
	Engine    *resolution.Engine
	Evaluator *victory.Evaluator
	Publisher ReportPublisher
	Metrics   metrics.GameMetrics
	Now       func() time.Time
}

// Match is safe for concurrent use. All roster, choice and round changes happen under mu.
type Match struct {
	mu sync.Mutex

	id           string
	origin       string
	config       models.MatchConfig
	status       models.MatchStatus
	currentRound int
	missions     []models.Mission
	roster       []*models.Player
	choices      map[string]models.MissionType
	report       *models.GameReport
	createdAt    time.Time

	deps Deps
}

// RoundResult tells the caller what a submitted choice caused.
type RoundResult struct {
	Resolved bool
	Ended    bool
	// Members is the roster at the end of the match, set only when Ended is true.
	Members []*models.Player
}

func New(id string, origin string, config models.MatchConfig, deps Deps) *Match {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Match{
		id:           id,
		origin:       origin,
		config:       config,
		status:       models.MatchWaiting,
		currentRound: 1,
		roster:       make([]*models.Player, 0, config.MaxPlayers),
		choices:      make(map[string]models.MissionType),
		report:       models.NewGameReport(id),
		createdAt:    deps.Now(),
		deps:         deps,
	}
}

func (m *Match) ID() string {
	return m.id
}

func (m *Match) Config() models.MatchConfig {
	return m.config
}

func (m *Match) Status() models.MatchStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// IsOpen reports whether the match is still waiting and has a free seat.
func (m *Match) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status == models.MatchWaiting && len(m.roster) < m.config.MaxPlayers
}

// FreeSeats is zero for matches that are no longer waiting.
func (m *Match) FreeSeats() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != models.MatchWaiting {
		return 0
	}
	return m.config.MaxPlayers - len(m.roster)
}

// AddPlayer seats the player and starts the match when the roster becomes full.
func (m *Match) AddPlayer(rootScope *envelope.Scope, player *models.Player) (bool, error) {
	scope := rootScope.NewChildScope("Match.AddPlayer").WithMatch(m.id).WithPlayer(player.Name)
	defer scope.Finish()

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.status == models.MatchFinished:
		return false, models.ErrStaleMatch
	case m.status != models.MatchWaiting:
		return false, models.ErrMatchStarted
	case len(m.roster) >= m.config.MaxPlayers:
		return false, models.ErrMatchFull
	}

	player.ResetForMatch(m.config.InitialCredits)
	m.roster = append(m.roster, player)
	m.report.AddPlayer(player.Name, player.SkillLevel, player.Credits)

	player.Notify(models.Notification{
		Type: constants.NotificationMatchJoined,
		Data: models.MatchJoinedData{
			MatchID:    m.id,
			MaxPlayers: m.config.MaxPlayers,
			Players:    m.summaries(),
			Config:     m.config,
		},
	})
	m.broadcast(models.Notification{
		Type: constants.NotificationPlayerJoined,
		Data: models.PlayerJoinedData{
			MatchID:    m.id,
			PlayerName: player.Name,
			MaxPlayers: m.config.MaxPlayers,
			Players:    m.summaries(),
		},
	})
	scope.Log.Infof("player joined (%d/%d)", len(m.roster), m.config.MaxPlayers)

	if len(m.roster) < m.config.MaxPlayers {
		return false, nil
	}
	m.start(scope)
	return true, nil
}

func (m *Match) start(scope *envelope.Scope) {
	m.status = models.MatchActive
	m.broadcast(models.Notification{
		Type: constants.NotificationMatchStarted,
		Data: models.MatchStartedData{MatchID: m.id, Players: m.summaries(), Config: m.config},
	})
	scope.Log.Infof("match started with objective %s", m.config.MatchObjective)
	m.beginRound()
}

// beginRound draws fresh missions and announces them. currentRound is not changed here.
func (m *Match) beginRound() {
	m.missions = m.deps.Catalog.DrawRound()
	m.choices = make(map[string]models.MissionType)
	for _, player := range m.roster {
		player.HasChosen = false
	}
	m.broadcast(models.Notification{
		Type: constants.NotificationMissions,
		Data: models.MissionsData{
			MatchID:        m.id,
			Missions:       m.copyMissions(),
			CurrentRound:   m.currentRound,
			MaxRounds:      m.config.MaxRounds,
			MatchObjective: m.config.MatchObjective,
			CreditsQuota:   m.config.CreditsQuota,
		},
	})
}

// SubmitChoice records the player's pick. The round is resolved within the same call
// as soon as every roster member has chosen.
func (m *Match) SubmitChoice(rootScope *envelope.Scope, playerName string, missionType models.MissionType) (RoundResult, error) {
	scope := rootScope.NewChildScope("Match.SubmitChoice").WithMatch(m.id).WithPlayer(playerName)
	defer scope.Finish()

	if _, err := models.ParseMissionType(string(missionType)); err != nil {
		return RoundResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.status {
	case models.MatchFinished:
		return RoundResult{}, models.ErrStaleMatch
	case models.MatchWaiting:
		return RoundResult{}, models.ErrMatchNotActive
	}

	player := m.member(playerName)
	if player == nil {
		return RoundResult{}, models.ErrNotInMatch
	}
	if _, chosen := m.choices[playerName]; chosen {
		return RoundResult{}, models.ErrAlreadyChosen
	}

	m.choices[playerName] = missionType
	player.HasChosen = true
	scope.Log.Debugf("chose %s mission (%d/%d)", missionType, len(m.choices), len(m.roster))

	if len(m.choices) < len(m.roster) {
		return RoundResult{}, nil
	}
	return m.resolveRound(scope), nil
}

func (m *Match) resolveRound(scope *envelope.Scope) RoundResult {
	started := time.Now()
	round := m.currentRound
	scope.SetAttributes(envelope.RoundTag, round)

	individual := pie.Filter(m.roster, func(p *models.Player) bool { return m.choices[p.Name] == models.MissionIndividual })
	collective := pie.Filter(m.roster, func(p *models.Player) bool { return m.choices[p.Name] == models.MissionCollective })

	outcomes := make(map[string]resolution.Outcome, len(m.roster))
	for _, player := range individual {
		outcomes[player.Name] = m.deps.Engine.ResolveIndividual(player, m.mission(models.MissionIndividual))
	}
	for _, outcome := range m.deps.Engine.ResolveCollective(collective, m.mission(models.MissionCollective)) {
		outcomes[outcome.PlayerName] = outcome
	}

	for _, player := range m.roster {
		outcome, ok := outcomes[player.Name]
		if !ok {
			continue
		}
		m.report.AppendMission(player.Name, outcome.Record(round))
		m.report.AppendCredits(player.Name, player.Credits)
		m.deps.Metrics.AddMissionOutcome(string(outcome.Mission.Type), outcome.Success)

		player.Notify(models.Notification{
			Type: constants.NotificationRoundEnd,
			Data: models.RoundEndData{
				MatchID:       m.id,
				PlayerName:    player.Name,
				MissionType:   outcome.Mission.Type,
				Success:       outcome.Success,
				Roll:          outcome.Roll,
				CreditsChange: outcome.Delta,
				Credits:       player.Credits,
				Missions:      m.copyMissions(),
				CurrentRound:  round,
				MaxRounds:     m.config.MaxRounds,
			},
		})
	}
	m.report.TotalRounds = round
	m.publishReport(scope)

	objective := string(m.config.MatchObjective)
	m.deps.Metrics.AddRoundResolved(objective)
	m.deps.Metrics.AddRoundResolutionElapsedTimeMs(objective, time.Since(started))
	scope.Log.Infof("round %d resolved: %d individual, %d collective", round, len(individual), len(collective))

	outcome := m.deps.Evaluator.Evaluate(victory.Input{
		Objective:    m.config.MatchObjective,
		CreditsQuota: m.config.CreditsQuota,
		CurrentRound: round,
		MaxRounds:    m.config.MaxRounds,
		Standings:    m.standings(),
	})
	if outcome.MatchEnded {
		m.finish(scope, outcome)
		return RoundResult{Resolved: true, Ended: true, Members: m.members()}
	}

	m.currentRound++
	m.beginRound()
	return RoundResult{Resolved: true}
}

func (m *Match) finish(scope *envelope.Scope, outcome victory.Outcome) {
	m.status = models.MatchFinished
	m.choices = make(map[string]models.MissionType)

	for _, player := range m.roster {
		player.Notify(models.Notification{
			Type: constants.NotificationMatchEnded,
			Data: models.MatchEndedData{
				MatchID:      m.id,
				Reason:       outcome.Reason,
				FinalCredits: player.Credits,
				IsWinner:     utils.Contains(outcome.Winners, player.Name),
				Winners:      outcome.Winners,
				TieBreak:     outcome.TieBreak,
			},
		})
	}
	m.deps.Metrics.AddMatchEnded(constants.EndReasonCompleted)
	scope.Log.Infof("match ended after %d rounds, winners %v", m.currentRound, outcome.Winners)
}

// Terminate ends the match early. leaver, when set, is dropped from the roster and named in the
// notices the others receive. It returns the remaining members, and false when the match had already finished.
func (m *Match) Terminate(rootScope *envelope.Scope, reason string, leaver string) ([]*models.Player, bool) {
	scope := rootScope.NewChildScope("Match.Terminate").WithMatch(m.id)
	defer scope.Finish()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == models.MatchFinished {
		return nil, false
	}
	wasActive := m.status == models.MatchActive
	m.status = models.MatchFinished
	m.choices = make(map[string]models.MissionType)

	remaining := pie.Filter(m.roster, func(p *models.Player) bool { return p.Name != leaver })
	m.roster = remaining

	message := terminationMessage(reason, leaver)
	for _, player := range remaining {
		player.HasChosen = false
		if leaver != "" {
			player.Notify(models.Notification{
				Type: constants.NotificationPlayerDisconnected,
				Data: models.PlayerDisconnectedData{MatchID: m.id, PlayerName: leaver, RemainingPlayers: len(remaining)},
			})
		}
		if !wasActive {
			player.Notify(models.Notification{
				Type: constants.NotificationMatchCancelled,
				Data: models.MatchCancelledData{MatchID: m.id, Reason: message},
			})
			continue
		}
		player.Notify(models.Notification{
			Type: constants.NotificationMatchEnded,
			Data: models.MatchEndedData{
				MatchID:      m.id,
				Reason:       message,
				FinalCredits: player.Credits,
				IsWinner:     false,
				Winners:      []string{},
			},
		})
	}

	if wasActive {
		m.publishReport(scope)
		m.deps.Metrics.AddMatchEnded(reason)
	}
	scope.Log.Infof("match terminated (%s), %d players remain", reason, len(remaining))
	return m.members(), true
}

// Cancel removes a match that never started. Every member receives matchCancelled.
func (m *Match) Cancel(rootScope *envelope.Scope) ([]*models.Player, error) {
	scope := rootScope.NewChildScope("Match.Cancel").WithMatch(m.id)
	defer scope.Finish()

	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.status {
	case models.MatchFinished:
		return nil, models.ErrStaleMatch
	case models.MatchActive:
		return nil, models.ErrMatchStarted
	}

	m.status = models.MatchFinished
	m.broadcast(models.Notification{
		Type: constants.NotificationMatchCancelled,
		Data: models.MatchCancelledData{MatchID: m.id, Reason: "The match was cancelled by a moderator"},
	})
	m.deps.Metrics.AddMatchEnded(constants.EndReasonCancelled)
	scope.Log.Infof("match cancelled with %d players seated", len(m.roster))
	return m.members(), nil
}

// Snapshot returns a consistent copy of the match state.
func (m *Match) Snapshot() models.MatchSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	credits := make([]float64, 0, len(m.roster))
	for _, player := range m.roster {
		credits = append(credits, player.Credits)
	}
	average := 0.0
	if len(credits) > 0 {
		average = stat.Mean(credits, nil)
	}

	return models.MatchSnapshot{
		MatchID:        m.id,
		Status:         m.status,
		Origin:         m.origin,
		CurrentRound:   m.currentRound,
		MaxPlayers:     m.config.MaxPlayers,
		PlayersCount:   len(m.roster),
		Players:        m.summaries(),
		Missions:       m.copyMissions(),
		PendingChoices: len(m.choices),
		MatchObjective: m.config.MatchObjective,
		CreditsQuota:   m.config.CreditsQuota,
		MaxRounds:      m.config.MaxRounds,
		AverageCredits: average,
		CreatedAt:      m.createdAt,
	}
}

// MemberNames lists the roster in seating order.
func (m *Match) MemberNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.roster))
	for _, player := range m.roster {
		names = append(names, player.Name)
	}
	return names
}

func (m *Match) publishReport(scope *envelope.Scope) {
	if m.deps.Publisher == nil {
		return
	}
	record, err := m.report.Record(m.deps.Now())
	if err != nil {
		scope.Log.WithError(err).Error("unable to snapshot match report")
		return
	}
	m.deps.Publisher.Publish(scope, record)
}

func (m *Match) broadcast(notification models.Notification) {
	for _, player := range m.roster {
		player.Notify(notification)
	}
}

func (m *Match) member(name string) *models.Player {
	for _, player := range m.roster {
		if player.Name == name {
			return player
		}
	}
	return nil
}

func (m *Match) members() []*models.Player {
	return append([]*models.Player(nil), m.roster...)
}

func (m *Match) mission(missionType models.MissionType) models.Mission {
	for _, mission := range m.missions {
		if mission.Type == missionType {
			return mission
		}
	}
	return models.Mission{Type: missionType}
}

func (m *Match) copyMissions() []models.Mission {
	return append([]models.Mission(nil), m.missions...)
}

func (m *Match) summaries() []models.PlayerSummary {
	summaries := make([]models.PlayerSummary, 0, len(m.roster))
	for _, player := range m.roster {
		summaries = append(summaries, player.Summary())
	}
	return summaries
}

func (m *Match) standings() []victory.Standing {
	standings := make([]victory.Standing, 0, len(m.roster))
	for _, player := range m.roster {
		standings = append(standings, victory.Standing{Name: player.Name, Credits: player.Credits})
	}
	return standings
}

func terminationMessage(reason string, leaver string) string {
	switch reason {
	case constants.EndReasonDisconnected:
		return fmt.Sprintf("%s disconnected, the match has ended", leaver)
	case constants.EndReasonKicked:
		return fmt.Sprintf("%s was kicked by a moderator, the match has ended", leaver)
	case constants.EndReasonModerator:
		return "The match was ended by a moderator"
	default:
		return fmt.Sprintf("The match has ended (%s)", reason)
	}
}
