// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package match

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/mission"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/random"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/resolution"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/testsetup"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/victory"
)

var (
	heist   = models.MissionTemplate{Name: "Data Heist", Reward: 120, FailureCost: 40, Difficulty: 6}
	hardJob = models.MissionTemplate{Name: "Vault Job", Reward: 300, FailureCost: 60, Difficulty: 20}
)

type fixture struct {
	match     *Match
	publisher *testsetup.RecordingPublisher
	players   []*models.Player
	sessions  []*testsetup.RecordingSession
}

func newFixture(t *testing.T, cfg models.MatchConfig, dice random.Dice, skills ...int) *fixture {
	t.Helper()

	catalog, err := mission.NewCatalog(random.NewScripted(0), []models.MissionTemplate{heist}, []models.MissionTemplate{hardJob})
	require.NoError(t, err)

	publisher := testsetup.NewRecordingPublisher()
	m := New(fmt.Sprintf("match-%s", t.Name()), constants.MatchOriginAuto, cfg, Deps{
		Catalog:   catalog,
		Engine:    resolution.NewEngine(dice),
		Evaluator: victory.NewEvaluator(dice),
		Publisher: publisher,
		Metrics:   testsetup.NewMetrics(),
	})

	f := &fixture{match: m, publisher: publisher}
	for i, skill := range skills {
		session := testsetup.NewRecordingSession()
		player := models.NewPlayer(models.Profile{Name: fmt.Sprintf("p%d", i+1)}, skill, 0, session, time.Now())
		f.players = append(f.players, player)
		f.sessions = append(f.sessions, session)
	}
	return f
}

func (f *fixture) seatAll(t *testing.T) {
	t.Helper()
	for _, player := range f.players {
		_, err := f.match.AddPlayer(testsetup.NewTestScope(), player)
		require.NoError(t, err)
	}
}

func fixedRounds(players int, maxRounds int) models.MatchConfig {
	return models.MatchConfig{
		MaxPlayers: players, MatchObjective: models.ObjectiveFixedRounds, CreditsQuota: 500, MaxRounds: maxRounds, InitialCredits: 100,
	}
}

func TestAddPlayer_StartsWhenFull(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	f := newFixture(t, fixedRounds(3, 10), random.NewScriptedDice(1), 3, 5, 3)

	started, err := f.match.AddPlayer(g.TestScope, f.players[0])
	g.Expect(err).To(BeNil())
	g.Expect(started).To(BeFalse())
	g.Expect(f.match.IsOpen()).To(BeTrue())
	g.Expect(f.match.FreeSeats()).To(Equal(2))

	_, _ = f.match.AddPlayer(g.TestScope, f.players[1])
	started, err = f.match.AddPlayer(g.TestScope, f.players[2])
	g.Expect(err).To(BeNil())
	g.Expect(started).To(BeTrue())
	g.Expect(f.match.Status()).To(Equal(models.MatchActive))
	g.Expect(f.match.IsOpen()).To(BeFalse())

	g.Expect(f.sessions[0].Types()).To(Equal([]string{
		constants.NotificationMatchJoined,
		constants.NotificationPlayerJoined,
		constants.NotificationPlayerJoined,
		constants.NotificationPlayerJoined,
		constants.NotificationMatchStarted,
		constants.NotificationMissions,
	}))

	last, ok := f.sessions[2].Last(constants.NotificationMissions)
	g.Expect(ok).To(BeTrue())
	data := last.Data.(models.MissionsData)
	g.Expect(data.CurrentRound).To(Equal(1))
	g.Expect(data.Missions).To(HaveLen(2))
	g.Expect(data.Missions[0].Type).To(Equal(models.MissionIndividual))
	g.Expect(data.Missions[1].Type).To(Equal(models.MissionCollective))
}

func TestAddPlayer_RejectedOnceStarted(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	f := newFixture(t, fixedRounds(1, 10), random.NewScriptedDice(1), 3, 3)

	_, err := f.match.AddPlayer(g.TestScope, f.players[0])
	g.Expect(err).To(BeNil())

	_, err = f.match.AddPlayer(g.TestScope, f.players[1])
	g.Expect(err).To(MatchError(models.ErrMatchStarted))
}

func TestAddPlayer_ResetsCredits(t *testing.T) {
	f := newFixture(t, fixedRounds(2, 10), random.NewScriptedDice(1), 3)
	f.players[0].Credits = 999
	f.players[0].HasChosen = true

	_, err := f.match.AddPlayer(testsetup.NewTestScope(), f.players[0])
	require.NoError(t, err)

	assert.Equal(t, 100.0, f.players[0].Credits)
	assert.False(t, f.players[0].HasChosen)
}

func TestSubmitChoice_IndividualSuccessScenario(t *testing.T) {
	f := newFixture(t, fixedRounds(1, 10), random.NewScriptedDice(3), 5)
	f.seatAll(t)

	result, err := f.match.SubmitChoice(testsetup.NewTestScope(), "p1", models.MissionIndividual)
	require.NoError(t, err)
	assert.True(t, result.Resolved)
	assert.False(t, result.Ended)

	assert.Equal(t, 220.0, f.players[0].Credits)
	notification, ok := f.sessions[0].Last(constants.NotificationRoundEnd)
	require.True(t, ok)
	roundEnd := notification.Data.(models.RoundEndData)
	assert.True(t, roundEnd.Success)
	assert.Equal(t, 3, roundEnd.Roll)
	assert.Equal(t, 120.0, roundEnd.CreditsChange)
	assert.Equal(t, 220.0, roundEnd.Credits)
	assert.Equal(t, 1, roundEnd.CurrentRound)
	assert.Len(t, roundEnd.Missions, 2)

	snapshot := f.match.Snapshot()
	assert.Equal(t, 2, snapshot.CurrentRound)
	assert.Equal(t, 0, snapshot.PendingChoices)
	assert.False(t, f.players[0].HasChosen)
}

func TestSubmitChoice_CollectiveFailureScenario(t *testing.T) {
	f := newFixture(t, fixedRounds(3, 10), random.NewScriptedDice(4), 3, 5, 3)
	f.seatAll(t)
	scope := testsetup.NewTestScope()

	for _, player := range f.players {
		_, err := f.match.SubmitChoice(scope, player.Name, models.MissionCollective)
		require.NoError(t, err)
	}

	for i, player := range f.players {
		assert.Equal(t, 40.0, player.Credits, player.Name)
		notification, ok := f.sessions[i].Last(constants.NotificationRoundEnd)
		require.True(t, ok)
		roundEnd := notification.Data.(models.RoundEndData)
		assert.False(t, roundEnd.Success)
		assert.Equal(t, 4, roundEnd.Roll)
		assert.Equal(t, -60.0, roundEnd.CreditsChange)
	}
}

func TestSubmitChoice_MixedRoundResolvesEachKind(t *testing.T) {
	// p1 individual rolls first, then the collective group rolls once.
	dice := random.NewScriptedDice(1, 6)
	f := newFixture(t, fixedRounds(3, 10), dice, 3, 5, 3)
	f.seatAll(t)
	scope := testsetup.NewTestScope()

	_, err := f.match.SubmitChoice(scope, "p2", models.MissionCollective)
	require.NoError(t, err)
	_, err = f.match.SubmitChoice(scope, "p1", models.MissionIndividual)
	require.NoError(t, err)
	_, err = f.match.SubmitChoice(scope, "p3", models.MissionCollective)
	require.NoError(t, err)

	assert.Equal(t, 2, dice.Rolls())
	assert.Equal(t, 60.0, f.players[0].Credits, "3+1 misses difficulty 6")
	assert.Equal(t, 40.0, f.players[1].Credits, "8+6 misses difficulty 20")
	assert.Equal(t, 40.0, f.players[2].Credits)
}

func TestSubmitChoice_SecondChoiceRejected(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	f := newFixture(t, fixedRounds(2, 10), random.NewScriptedDice(3), 5, 5)
	f.seatAll(t)

	_, err := f.match.SubmitChoice(g.TestScope, "p1", models.MissionIndividual)
	g.Expect(err).To(BeNil())
	_, err = f.match.SubmitChoice(g.TestScope, "p1", models.MissionCollective)
	g.Expect(err).To(MatchError(models.ErrAlreadyChosen))

	g.Expect(f.match.Snapshot().PendingChoices).To(Equal(1))

	result, err := f.match.SubmitChoice(g.TestScope, "p2", models.MissionCollective)
	g.Expect(err).To(BeNil())
	g.Expect(result.Resolved).To(BeTrue())

	roundEnd := mustLast(t, f.sessions[0], constants.NotificationRoundEnd).Data.(models.RoundEndData)
	g.Expect(roundEnd.MissionType).To(Equal(models.MissionIndividual))
}

func TestSubmitChoice_Errors(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	f := newFixture(t, fixedRounds(2, 10), random.NewScriptedDice(3), 5, 5)

	_, err := f.match.AddPlayer(g.TestScope, f.players[0])
	g.Expect(err).To(BeNil())
	_, err = f.match.SubmitChoice(g.TestScope, "p1", models.MissionIndividual)
	g.Expect(err).To(MatchError(models.ErrMatchNotActive))

	_, err = f.match.AddPlayer(g.TestScope, f.players[1])
	g.Expect(err).To(BeNil())
	_, err = f.match.SubmitChoice(g.TestScope, "stranger", models.MissionIndividual)
	g.Expect(err).To(MatchError(models.ErrNotInMatch))
	_, err = f.match.SubmitChoice(g.TestScope, "p1", "solo")
	g.Expect(err).To(MatchError(models.ErrInvalidMissionType))

	f.match.Terminate(g.TestScope, constants.EndReasonModerator, "")
	_, err = f.match.SubmitChoice(g.TestScope, "p1", models.MissionIndividual)
	g.Expect(err).To(MatchError(models.ErrStaleMatch))
}

func TestSubmitChoice_StalledRoundNeverResolves(t *testing.T) {
	f := newFixture(t, fixedRounds(3, 10), random.NewScriptedDice(3), 3, 5, 3)
	f.seatAll(t)
	scope := testsetup.NewTestScope()

	_, err := f.match.SubmitChoice(scope, "p1", models.MissionIndividual)
	require.NoError(t, err)
	_, err = f.match.SubmitChoice(scope, "p2", models.MissionCollective)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	snapshot := f.match.Snapshot()
	assert.Equal(t, models.MatchActive, snapshot.Status)
	assert.Equal(t, 1, snapshot.CurrentRound)
	assert.Equal(t, 2, snapshot.PendingChoices)
	for _, session := range f.sessions {
		assert.Zero(t, session.Count(constants.NotificationRoundEnd))
	}
	assert.Empty(t, f.publisher.Records())
}

func TestSubmitChoice_ConcurrentChoicesResolveOncePerRound(t *testing.T) {
	const players = 8
	const rounds = 5

	skills := make([]int, players)
	for i := range skills {
		skills[i] = 3 + i%3
	}
	f := newFixture(t, fixedRounds(players, rounds), random.NewDice(random.NewSource(11)), skills...)
	f.seatAll(t)

	var resolved, ended int32
	for round := 1; round <= rounds; round++ {
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i, player := range f.players {
			wg.Add(1)
			go func(name string, pick models.MissionType) {
				defer wg.Done()
				<-start
				result, err := f.match.SubmitChoice(testsetup.NewTestScope(), name, pick)
				assert.NoError(t, err)
				if result.Resolved {
					atomic.AddInt32(&resolved, 1)
				}
				if result.Ended {
					atomic.AddInt32(&ended, 1)
				}
			}(player.Name, []models.MissionType{models.MissionIndividual, models.MissionCollective}[i%2])
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(round), atomic.LoadInt32(&resolved), "round %d", round)
	}

	assert.Equal(t, int32(1), ended)
	assert.Equal(t, models.MatchFinished, f.match.Status())
	for _, session := range f.sessions {
		assert.Equal(t, rounds, session.Count(constants.NotificationRoundEnd))
		assert.Equal(t, 1, session.Count(constants.NotificationMatchEnded))
	}
	assert.Len(t, f.publisher.Records(), rounds)
}

func TestFixedRounds_DoesNotEndEarly(t *testing.T) {
	cfg := fixedRounds(1, 3)
	cfg.CreditsQuota = 1
	f := newFixture(t, cfg, random.NewScriptedDice(6), 5)
	f.seatAll(t)
	scope := testsetup.NewTestScope()

	for round := 1; round <= 2; round++ {
		result, err := f.match.SubmitChoice(scope, "p1", models.MissionIndividual)
		require.NoError(t, err)
		require.False(t, result.Ended, "round %d", round)
	}

	result, err := f.match.SubmitChoice(scope, "p1", models.MissionIndividual)
	require.NoError(t, err)
	assert.True(t, result.Ended)
	require.Len(t, result.Members, 1)

	ended := mustLast(t, f.sessions[0], constants.NotificationMatchEnded).Data.(models.MatchEndedData)
	assert.True(t, ended.IsWinner)
	assert.Equal(t, []string{"p1"}, ended.Winners)
	assert.Equal(t, 460.0, ended.FinalCredits)
	assert.Equal(t, 1, f.sessions[0].Count(constants.NotificationMatchEnded))
}

func TestInfiniteRounds_EndsOnFirstQuotaReach(t *testing.T) {
	cfg := models.MatchConfig{MaxPlayers: 2, MatchObjective: models.ObjectiveInfiniteRounds, CreditsQuota: 330, MaxRounds: 1, InitialCredits: 100}
	// p1 always succeeds, p2 always fails.
	f := newFixture(t, cfg, random.NewScriptedDice(6), 5, 0)
	f.players[1].SkillLevel = -10
	f.seatAll(t)
	scope := testsetup.NewTestScope()

	var result RoundResult
	for round := 1; round <= 2; round++ {
		_, err := f.match.SubmitChoice(scope, "p1", models.MissionIndividual)
		require.NoError(t, err)
		var submitErr error
		result, submitErr = f.match.SubmitChoice(scope, "p2", models.MissionIndividual)
		require.NoError(t, submitErr)
		if round == 1 {
			require.False(t, result.Ended, "220 credits is below the quota")
		}
	}

	if !assert.True(t, result.Ended) {
		spew.Dump(f.match.Snapshot())
	}
	ended := mustLast(t, f.sessions[1], constants.NotificationMatchEnded).Data.(models.MatchEndedData)
	assert.False(t, ended.IsWinner)
	assert.Equal(t, []string{"p1"}, ended.Winners)
	assert.Equal(t, 2, f.match.Snapshot().CurrentRound)
}

func TestReport_PublishedEveryRound(t *testing.T) {
	f := newFixture(t, fixedRounds(2, 10), random.NewScriptedDice(3), 5, 2)
	f.seatAll(t)
	scope := testsetup.NewTestScope()

	for round := 0; round < 2; round++ {
		_, _ = f.match.SubmitChoice(scope, "p1", models.MissionIndividual)
		_, _ = f.match.SubmitChoice(scope, "p2", models.MissionIndividual)
	}

	records := f.publisher.Records()
	require.Len(t, records, 2)
	latest := records[1]
	assert.Equal(t, 2, latest.TotalRounds)
	require.Contains(t, latest.Players, "p1")
	assert.Len(t, latest.Players["p1"].MissionHistory, 2)
	assert.Equal(t, []float64{100, 220, 340}, latest.Players["p1"].CreditsHistory)
	assert.Equal(t, []float64{100, 60, 20}, latest.Players["p2"].CreditsHistory)

	// earlier records are not rewritten by later rounds
	assert.Len(t, records[0].Players["p1"].MissionHistory, 1)
}

func TestTerminate_NotifiesRemainingAndIsIdempotent(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	f := newFixture(t, fixedRounds(3, 10), random.NewScriptedDice(3), 3, 5, 3)
	f.seatAll(t)

	_, err := f.match.SubmitChoice(g.TestScope, "p2", models.MissionIndividual)
	g.Expect(err).To(BeNil())

	remaining, terminated := f.match.Terminate(g.TestScope, constants.EndReasonDisconnected, "p1")
	g.Expect(terminated).To(BeTrue())
	g.Expect(remaining).To(HaveLen(2))
	g.Expect(f.match.Status()).To(Equal(models.MatchFinished))
	g.Expect(f.match.MemberNames()).To(Equal([]string{"p2", "p3"}))

	for _, session := range f.sessions[1:] {
		types := session.Types()
		g.Expect(types[len(types)-2:]).To(Equal([]string{constants.NotificationPlayerDisconnected, constants.NotificationMatchEnded}))
		disconnected := mustLast(t, session, constants.NotificationPlayerDisconnected).Data.(models.PlayerDisconnectedData)
		g.Expect(disconnected.PlayerName).To(Equal("p1"))
		g.Expect(disconnected.RemainingPlayers).To(Equal(2))
	}
	g.Expect(f.sessions[0].Count(constants.NotificationMatchEnded)).To(Equal(0))
	g.Expect(f.publisher.Records()).To(HaveLen(1))

	again, terminated := f.match.Terminate(g.TestScope, constants.EndReasonModerator, "")
	g.Expect(terminated).To(BeFalse())
	g.Expect(again).To(BeEmpty())
	g.Expect(f.sessions[1].Count(constants.NotificationMatchEnded)).To(Equal(1))
}

func TestTerminate_WaitingMatchIsCancelledWithoutReport(t *testing.T) {
	f := newFixture(t, fixedRounds(3, 10), random.NewScriptedDice(3), 3, 5)
	f.seatAll(t)

	remaining, terminated := f.match.Terminate(testsetup.NewTestScope(), constants.EndReasonDisconnected, "p2")

	assert.True(t, terminated)
	require.Len(t, remaining, 1)
	assert.Equal(t, "p1", remaining[0].Name)
	assert.Equal(t, 1, f.sessions[0].Count(constants.NotificationMatchCancelled))
	assert.Empty(t, f.publisher.Records())
}

func TestCancel(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	f := newFixture(t, fixedRounds(3, 10), random.NewScriptedDice(3), 3, 5)
	f.seatAll(t)

	members, err := f.match.Cancel(g.TestScope)
	g.Expect(err).To(BeNil())
	g.Expect(members).To(HaveLen(2))
	g.Expect(f.sessions[1].Count(constants.NotificationMatchCancelled)).To(Equal(1))

	_, err = f.match.Cancel(g.TestScope)
	g.Expect(err).To(MatchError(models.ErrStaleMatch))

	started := newFixture(t, fixedRounds(1, 10), random.NewScriptedDice(3), 3)
	started.seatAll(t)
	_, err = started.match.Cancel(g.TestScope)
	g.Expect(err).To(MatchError(models.ErrMatchStarted))
}

func TestSnapshot_AverageCredits(t *testing.T) {
	f := newFixture(t, fixedRounds(2, 10), random.NewScriptedDice(3), 5, 2)
	assert.Equal(t, 0.0, f.match.Snapshot().AverageCredits)

	f.seatAll(t)
	scope := testsetup.NewTestScope()
	_, _ = f.match.SubmitChoice(scope, "p1", models.MissionIndividual)
	_, _ = f.match.SubmitChoice(scope, "p2", models.MissionIndividual)

	snapshot := f.match.Snapshot()
	assert.Equal(t, 140.0, snapshot.AverageCredits)
	assert.Equal(t, constants.MatchOriginAuto, snapshot.Origin)
	assert.Equal(t, 2, snapshot.PlayersCount)
}

func mustLast(t *testing.T, session *testsetup.RecordingSession, notificationType string) models.Notification {
	t.Helper()
	notification, ok := session.Last(notificationType)
	require.True(t, ok, "no %s notification", notificationType)
	return notification
}
