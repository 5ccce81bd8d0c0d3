// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/common"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/config"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/match"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/random"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/utils"
)

// Directory owns the registry, the waiting queue and the match indices.
//
// Lock order is directory then match. Match methods may be called while mu is held,
// but mu is never acquired from inside a match.
type Directory struct {
	mu sync.Mutex

	players         map[string]*models.Player
	queue           []string
	matchesByID     map[string]*match.Match
	matchOrder      []string
	playerToMatchID map[string]string
	settings        config.Settings
	defaultNames    int

	skills    random.Source
	matchDeps match.Deps
	newID     func() string
	now       func() time.Time
}

var (
	_ PlayerService    = (*Directory)(nil)
	_ ModeratorService = (*Directory)(nil)
)

type Option func(*Directory)

// WithIDGenerator replaces the match id generator.
func WithIDGenerator(newID func() string) Option {
	return func(d *Directory) { d.newID = newID }
}

func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

func NewDirectory(settings config.Settings, skills random.Source, matchDeps match.Deps, opts ...Option) (*Directory, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	d := &Directory{
		players:         make(map[string]*models.Player),
		matchesByID:     make(map[string]*match.Match),
		playerToMatchID: make(map[string]string),
		settings:        settings.Clone(),
		skills:          skills,
		matchDeps:       matchDeps,
		newID:           utils.GenerateUUID,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.matchDeps.Now == nil {
		d.matchDeps.Now = d.now
	}
	return d, nil
}

func (d *Directory) Register(rootScope *envelope.Scope, profile models.Profile, session models.Session) (*models.Player, error) {
	scope := rootScope.NewChildScope("Directory.Register")
	defer scope.Finish()

	d.mu.Lock()
	defer d.mu.Unlock()

	if profile.Name == "" {
		profile.Name = d.nextDefaultName()
	}
	if _, taken := d.players[profile.Name]; taken {
		return nil, fmt.Errorf("%w: %s", models.ErrNameTaken, profile.Name)
	}

	levels := d.settings.SkillLevels
	skill := levels[d.skills.Intn(len(levels))]
	player := models.NewPlayer(profile, skill, d.settings.InitialCredits, session, d.now())
	d.players[player.Name] = player

	scope.WithPlayer(player.Name).Log.Infof("registered with skill level %d", skill)
	player.Notify(models.InitNotification(player))
	return player, nil
}

func (d *Directory) nextDefaultName() string {
	for {
		d.defaultNames++
		name := fmt.Sprintf("%s %d", constants.DefaultPlayerPrefix, d.defaultNames)
		if _, taken := d.players[name]; !taken {
			return name
		}
	}
}

func (d *Directory) Admit(rootScope *envelope.Scope, playerName string) error {
	scope := rootScope.NewChildScope("Directory.Admit").WithPlayer(playerName)
	defer scope.Finish()

	if playerName == "" {
		return models.ErrPlayerNotFound
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.players[playerName]; !ok {
		return models.ErrPlayerNotFound
	}
	if utils.Contains(d.queue, playerName) {
		return models.ErrAlreadyAdmitted
	}
	if _, seated := d.playerToMatchID[playerName]; seated {
		return models.ErrAlreadyAdmitted
	}

	d.queue = append(d.queue, playerName)
	d.drainQueue(scope)
	return nil
}

func (d *Directory) CreateMatch(rootScope *envelope.Scope, requested models.MatchConfig) (models.MatchSnapshot, error) {
	scope := rootScope.NewChildScope("Directory.CreateMatch")
	defer scope.Finish()

	d.mu.Lock()
	defer d.mu.Unlock()

	cfg := d.settings.MatchConfig(requested)
	if err := cfg.Validate(); err != nil {
		return models.MatchSnapshot{}, err
	}

	m := d.openMatch(scope, constants.MatchOriginModerator, cfg)
	d.drainQueue(scope)
	return m.Snapshot(), nil
}

func (d *Directory) ChooseMission(rootScope *envelope.Scope, playerName string, missionType models.MissionType) error {
	scope := rootScope.NewChildScope("Directory.ChooseMission").WithPlayer(playerName)
	defer scope.Finish()

	m, err := d.lookupMatch(playerName)
	if err != nil {
		return err
	}

	result, err := m.SubmitChoice(scope, playerName, missionType)
	if err != nil {
		return err
	}
	if !result.Ended {
		return nil
	}

	names := make([]string, 0, len(result.Members))
	for _, member := range result.Members {
		names = append(names, member.Name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.retireMatch(scope, m, names)
	d.drainQueue(scope)
	return nil
}

func (d *Directory) lookupMatch(playerName string) (*match.Match, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.players[playerName]; !ok {
		return nil, models.ErrNotRegistered
	}
	matchID, ok := d.playerToMatchID[playerName]
	if !ok {
		return nil, models.ErrNotInMatch
	}
	m, ok := d.matchesByID[matchID]
	if !ok {
		return nil, models.ErrStaleMatch
	}
	return m, nil
}

func (d *Directory) RemovePlayer(rootScope *envelope.Scope, playerName string, reason string) error {
	scope := rootScope.NewChildScope("Directory.RemovePlayer").WithPlayer(playerName)
	defer scope.Finish()

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.removePlayer(scope, playerName, reason)
}

func (d *Directory) removePlayer(scope *envelope.Scope, playerName string, reason string) error {
	if _, ok := d.players[playerName]; !ok {
		return models.ErrPlayerNotFound
	}
	delete(d.players, playerName)

	if queue, queued := utils.Remove(d.queue, playerName); queued {
		d.queue = queue
		scope.Log.Info("left the waiting queue")
		d.notifyQueue()
		return nil
	}

	matchID, seated := d.playerToMatchID[playerName]
	delete(d.playerToMatchID, playerName)
	if !seated {
		scope.Log.Info("removed before admission")
		return nil
	}

	if m, ok := d.matchesByID[matchID]; ok {
		m.Terminate(scope, reason, playerName)
		d.retireMatch(scope, m, m.MemberNames())
	}
	d.drainQueue(scope)
	return nil
}

func (d *Directory) Kick(rootScope *envelope.Scope, playerName string) error {
	scope := rootScope.NewChildScope("Directory.Kick").WithPlayer(playerName)
	defer scope.Finish()

	d.mu.Lock()
	defer d.mu.Unlock()

	player, ok := d.players[playerName]
	if !ok {
		return models.ErrPlayerNotFound
	}
	if _, seated := d.playerToMatchID[playerName]; !seated {
		return fmt.Errorf("%w: %s is not in a match", models.ErrPlayerNotFound, playerName)
	}

	player.Notify(models.Notification{
		Type: constants.NotificationKicked,
		Data: models.KickedData{Reason: "You were removed from the match by a moderator"},
	})
	return d.removePlayer(scope, playerName, constants.EndReasonKicked)
}

func (d *Directory) EndMatch(rootScope *envelope.Scope, matchID string) error {
	scope := rootScope.NewChildScope("Directory.EndMatch").WithMatch(matchID)
	defer scope.Finish()

	d.mu.Lock()
	defer d.mu.Unlock()

	m, ok := d.matchesByID[matchID]
	if !ok {
		return models.ErrMatchNotFound
	}

	m.Terminate(scope, constants.EndReasonModerator, "")
	d.retireMatch(scope, m, m.MemberNames())
	d.drainQueue(scope)
	return nil
}

func (d *Directory) DeleteMatch(rootScope *envelope.Scope, matchID string) error {
	scope := rootScope.NewChildScope("Directory.DeleteMatch").WithMatch(matchID)
	defer scope.Finish()

	d.mu.Lock()
	defer d.mu.Unlock()

	m, ok := d.matchesByID[matchID]
	if !ok {
		return models.ErrMatchNotFound
	}

	members, err := m.Cancel(scope)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(members))
	for _, member := range members {
		names = append(names, member.Name)
	}
	d.retireMatch(scope, m, names)
	d.drainQueue(scope)
	return nil
}

func (d *Directory) UpdateSettings(rootScope *envelope.Scope, update config.ConfigUpdate) (config.Settings, error) {
	scope := rootScope.NewChildScope("Directory.UpdateSettings")
	defer scope.Finish()

	d.mu.Lock()
	defer d.mu.Unlock()

	next, err := d.settings.Apply(update)
	if err != nil {
		return d.settings.Clone(), err
	}
	d.settings = next
	scope.Log.Infof("settings updated: %s", common.LogJSONFormatter(next))

	d.drainQueue(scope)
	return next.Clone(), nil
}

func (d *Directory) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats := Stats{
		QueueLength:       len(d.queue),
		WaitingPlayers:    append([]string{}, d.queue...),
		RegisteredPlayers: len(d.players),
		ActiveMatches:     make([]models.MatchSnapshot, 0),
		AvailableMatches:  make([]models.MatchSnapshot, 0),
		Settings:          d.settings.Clone(),
	}
	for _, matchID := range d.matchOrder {
		snapshot := d.matchesByID[matchID].Snapshot()
		switch snapshot.Status {
		case models.MatchActive:
			stats.ActiveMatches = append(stats.ActiveMatches, snapshot)
		case models.MatchWaiting:
			stats.AvailableMatches = append(stats.AvailableMatches, snapshot)
		}
	}
	return stats
}

// openMatch registers a new empty match. Caller holds mu.
func (d *Directory) openMatch(scope *envelope.Scope, origin string, cfg models.MatchConfig) *match.Match {
	m := match.New(d.newID(), origin, cfg, d.matchDeps)
	d.matchesByID[m.ID()] = m
	d.matchOrder = append(d.matchOrder, m.ID())
	scope.Log.WithField("matchID", m.ID()).Infof("%s match opened for %d players", origin, cfg.MaxPlayers)
	return m
}

// retireMatch drops a finished match from the indices and puts its registered members back in
// the queue, in roster order. Retiring the same match twice is a no-op. Caller holds mu.
func (d *Directory) retireMatch(scope *envelope.Scope, m *match.Match, members []string) {
	if current, ok := d.matchesByID[m.ID()]; !ok || current != m {
		return
	}
	delete(d.matchesByID, m.ID())
	d.matchOrder, _ = utils.Remove(d.matchOrder, m.ID())

	for _, name := range members {
		if d.playerToMatchID[name] == m.ID() {
			delete(d.playerToMatchID, name)
		}
		if _, registered := d.players[name]; registered && !utils.Contains(d.queue, name) {
			d.queue = append(d.queue, name)
		}
	}
	scope.Log.WithField("matchID", m.ID()).Infof("match retired, %d players back in the queue", len(members))
}

// drainQueue seats queued players into open matches oldest first, then forms new matches from the
// queue head while automatic matching is on. Caller holds mu.
func (d *Directory) drainQueue(scope *envelope.Scope) {
	for _, matchID := range append([]string(nil), d.matchOrder...) {
		m := d.matchesByID[matchID]
		for len(d.queue) > 0 && m.IsOpen() {
			if !d.seat(scope, m, d.popQueue()) {
				break
			}
		}
	}

	for d.settings.AutoMatch && len(d.queue) >= d.settings.MatchSize {
		cfg := d.settings.MatchConfig(models.MatchConfig{})
		m := d.openMatch(scope, constants.MatchOriginAuto, cfg)
		for i := 0; i < cfg.MaxPlayers; i++ {
			name := d.popQueue()
			d.players[name].Notify(models.Notification{
				Type: constants.NotificationMatchFound,
				Data: models.MatchFoundData{MatchID: m.ID(), MaxPlayers: cfg.MaxPlayers, Message: "Match found"},
			})
			if !d.seat(scope, m, name) {
				break
			}
		}
	}

	d.notifyQueue()
	d.matchDeps.Metrics.SetWaitingPlayers(len(d.queue))
}

func (d *Directory) popQueue() string {
	name := d.queue[0]
	d.queue = d.queue[1:]
	return name
}

// seat puts the player in m, or back at the head of the queue when m refuses it.
func (d *Directory) seat(scope *envelope.Scope, m *match.Match, name string) bool {
	player := d.players[name]
	d.playerToMatchID[name] = m.ID()
	if _, err := m.AddPlayer(scope, player); err != nil {
		delete(d.playerToMatchID, name)
		d.queue = append([]string{name}, d.queue...)
		scope.Log.WithError(err).Errorf("unable to seat %s in match %s", name, m.ID())
		return false
	}
	return true
}

func (d *Directory) notifyQueue() {
	for i, name := range d.queue {
		d.players[name].Notify(models.Notification{
			Type: constants.NotificationWaitingForMatch,
			Data: models.WaitingData{
				Position:  i + 1,
				QueueSize: len(d.queue),
				MatchSize: d.settings.MatchSize,
				Message:   fmt.Sprintf("Waiting for players (%d/%d)", len(d.queue), d.settings.MatchSize),
			},
		})
	}
}
