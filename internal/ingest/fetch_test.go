package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/shotmap/internal/provider"
	"github.com/albapepper/shotmap/internal/roster"
	"github.com/albapepper/shotmap/internal/store"
)

type fakeProvider struct {
	team      map[string][]provider.Match
	teamErr   map[string]error
	league    map[string][]provider.Match
	leagueErr error
	shots     map[string]provider.MatchShots
	shotErr   map[string]error
	shotCalls []string
}

func (p *fakeProvider) TeamMatches(_ context.Context, team, season string) ([]provider.Match, error) {
	if err := p.teamErr[season]; err != nil {
		return nil, err
	}
	return p.team[season], nil
}

func (p *fakeProvider) LeagueMatches(_ context.Context, league, season string) ([]provider.Match, error) {
	if p.leagueErr != nil {
		return nil, p.leagueErr
	}
	return p.league[season], nil
}

func (p *fakeProvider) MatchShots(_ context.Context, id string) (provider.MatchShots, error) {
	p.shotCalls = append(p.shotCalls, id)
	if err := p.shotErr[id]; err != nil {
		return provider.MatchShots{}, err
	}
	return p.shots[id], nil
}

// cancellingProvider cancels the run's context once it has served a given
// number of team or match requests.
type cancellingProvider struct {
	fakeProvider
	cancel     context.CancelFunc
	afterTeams int
	afterShots int
	teamCalls  int
}

func (p *cancellingProvider) TeamMatches(ctx context.Context, team, season string) ([]provider.Match, error) {
	p.teamCalls++
	if p.afterTeams > 0 && p.teamCalls > p.afterTeams {
		p.cancel()
		return nil, ctx.Err()
	}
	return p.fakeProvider.TeamMatches(ctx, team, season)
}

func (p *cancellingProvider) MatchShots(ctx context.Context, id string) (provider.MatchShots, error) {
	ms, err := p.fakeProvider.MatchShots(ctx, id)
	if p.afterShots > 0 && len(p.shotCalls) >= p.afterShots {
		p.cancel()
	}
	return ms, err
}

type fakeMirror struct {
	matches int
	shots   map[string]int
	err     error
}

func (m *fakeMirror) SaveMatches(_ context.Context, matches []provider.Match) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.matches += len(matches)
	return len(matches), nil
}

func (m *fakeMirror) SaveShots(_ context.Context, season string, shots []provider.Shot) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.shots == nil {
		m.shots = map[string]int{}
	}
	m.shots[season] += len(shots)
	return len(shots), nil
}

func match(id, home, away, season string) provider.Match {
	return provider.Match{
		ID:        id,
		Season:    season,
		IsResult:  true,
		Home:      provider.TeamRef{Title: home},
		Away:      provider.TeamRef{Title: away},
		HomeGoals: 2,
		AwayGoals: 1,
		DateTime:  "2024-09-15 13:00:00",
	}
}

func shot(id, player, side, result string, xg float64) provider.Shot {
	return provider.Shot{ID: id, Player: player, Side: side, Result: result, XG: xg, X: 0.9, Y: 0.5, Minute: 10}
}

func newFetcher(t *testing.T, p Provider, mirror Mirror) (*Fetcher, *store.Store) {
	t.Helper()
	s := store.New(t.TempDir(), "spurs_matches.csv", "tottenham_shots_%s.csv")
	f := NewFetcher(p, s, Options{Club: "Tottenham", League: "EPL", Mirror: mirror}, nil)
	return f, s
}

func TestFetchMatchesSkipsFailedSeason(t *testing.T) {
	p := &fakeProvider{
		team: map[string][]provider.Match{
			"2024": {match("1", "Tottenham", "Arsenal", "2024"), match("2", "Chelsea", "Tottenham", "2024")},
		},
		teamErr: map[string]error{"2023": errors.New("connection reset")},
	}
	f, s := newFetcher(t, p, nil)

	matches, report, err := f.FetchMatches(context.Background(), []string{"2023", "2024"})
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	assert.Equal(t, 1, report.Count(StatusFailed))
	assert.Equal(t, 1, report.Count(StatusSuccess))
	assert.Equal(t, 2, report.Rows())

	onDisk, err := s.ReadMatches()
	require.NoError(t, err)
	assert.Len(t, onDisk, 2)
	for _, m := range onDisk {
		assert.Equal(t, "2024", m.Season)
	}
}

func TestFetchMatchesAllSeasonsFail(t *testing.T) {
	p := &fakeProvider{teamErr: map[string]error{"2024": errors.New("boom")}}
	f, s := newFetcher(t, p, nil)

	require.NoError(t, s.WriteMatches([]provider.Match{match("1", "Tottenham", "Arsenal", "2019")}))

	matches, report, err := f.FetchMatches(context.Background(), []string{"2024"})
	require.NoError(t, err)
	assert.Nil(t, matches)
	assert.Equal(t, 1, report.Count(StatusFailed))

	onDisk, err := s.ReadMatches()
	require.NoError(t, err)
	assert.Empty(t, onDisk, "the previous run's matches are replaced")
}

func TestFetchMatchesCancelledWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &cancellingProvider{
		fakeProvider: fakeProvider{team: map[string][]provider.Match{
			"2023": {match("5", "Tottenham", "Arsenal", "2023")},
			"2024": {match("10", "Tottenham", "Arsenal", "2024")},
		}},
		cancel:     cancel,
		afterTeams: 1,
	}
	f, s := newFetcher(t, p, nil)
	require.NoError(t, s.WriteMatches([]provider.Match{match("1", "Tottenham", "Arsenal", "2019")}))

	_, _, err := f.FetchMatches(ctx, []string{"2023", "2024"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	onDisk, err := s.ReadMatches()
	require.NoError(t, err)
	require.Len(t, onDisk, 1)
	assert.Equal(t, "2019", onDisk[0].Season)
}

func TestFetchShots(t *testing.T) {
	p := &fakeProvider{
		league: map[string][]provider.Match{
			"2024": {
				match("10", "Tottenham", "Arsenal", "2024"),
				match("11", "Liverpool", "Everton", "2024"),
				match("12", "Chelsea", "Tottenham", "2024"),
				match("13", "Tottenham", "Fulham", "2024"),
				match("14", "Brentford", "Tottenham", "2024"),
			},
		},
		shots: map[string]provider.MatchShots{
			"10": {
				Home: []provider.Shot{
					shot("a", "Heung-Min Son", "h", provider.ResultGoal, 0.4),
					shot("b", "Richarlison", "h", provider.ResultSavedShot, 0.1),
				},
				Away: []provider.Shot{shot("c", "Bukayo Saka", "a", provider.ResultGoal, 0.6)},
			},
			"12": {
				Away: []provider.Shot{shot("d", "James Maddison", "a", provider.ResultMissedShots, 0.05)},
			},
		},
		shotErr: map[string]error{
			"13": fmt.Errorf("match 13: %w", provider.ErrInvalidMatch),
			"14": errors.New("timeout"),
		},
	}
	mirror := &fakeMirror{}
	f, s := newFetcher(t, p, mirror)

	res, err := f.FetchShots(context.Background(), "2024")
	require.NoError(t, err)

	assert.Equal(t, []string{"10", "12", "13", "14"}, p.shotCalls, "only club matches are requested")
	require.Len(t, res.Matches, 4)
	require.Len(t, res.Shots, 3, "non-roster shooters are dropped")
	assert.Equal(t, 1, res.Report.Count(StatusSkipped))
	assert.Equal(t, 1, res.Report.Count(StatusFailed))

	first := res.Shots[0]
	assert.Equal(t, "Heung-Min Son", first.Player)
	assert.Equal(t, "Tottenham", first.HomeTeam)
	assert.Equal(t, "Arsenal", first.AwayTeam)
	assert.Equal(t, "10", first.MatchID)
	assert.Equal(t, "2024", first.Season)
	assert.Equal(t, "2024-09-15 13:00:00", first.Date)

	assert.Equal(t, s.ShotsPath("2024"), res.Path)
	onDisk, err := s.ReadShots("2024")
	require.NoError(t, err)
	assert.Len(t, onDisk, 3)

	r := roster.Default()
	for _, sh := range onDisk {
		assert.True(t, r.Contains(sh.Player), sh.Player)
	}
	assert.Equal(t, 3, mirror.shots["2024"])
}

func TestFetchShotsNoShotsWritesNothing(t *testing.T) {
	p := &fakeProvider{
		league: map[string][]provider.Match{"2024": {match("10", "Tottenham", "Arsenal", "2024")}},
		shots: map[string]provider.MatchShots{
			"10": {Away: []provider.Shot{shot("c", "Bukayo Saka", "a", provider.ResultGoal, 0.6)}},
		},
	}
	f, s := newFetcher(t, p, nil)

	res, err := f.FetchShots(context.Background(), "2024")
	require.NoError(t, err)
	assert.Nil(t, res.Shots)
	assert.Len(t, res.Matches, 1)
	assert.False(t, s.ShotsExist("2024"))
}

func TestFetchShotsLeagueFailure(t *testing.T) {
	p := &fakeProvider{leagueErr: errors.New("503")}
	f, s := newFetcher(t, p, nil)

	res, err := f.FetchShots(context.Background(), "2024")
	require.NoError(t, err)
	assert.Nil(t, res.Shots)
	assert.Nil(t, res.Matches)
	assert.Equal(t, 1, res.Report.Count(StatusFailed))
	assert.False(t, s.ShotsExist("2024"))
}

func TestFetchShotsMirrorFailureIsNotFatal(t *testing.T) {
	p := &fakeProvider{
		league: map[string][]provider.Match{"2024": {match("10", "Tottenham", "Arsenal", "2024")}},
		shots: map[string]provider.MatchShots{
			"10": {Home: []provider.Shot{shot("a", "Richarlison", "h", provider.ResultGoal, 0.3)}},
		},
	}
	f, s := newFetcher(t, p, &fakeMirror{err: errors.New("db down")})

	res, err := f.FetchShots(context.Background(), "2024")
	require.NoError(t, err)
	assert.Len(t, res.Shots, 1)
	assert.True(t, s.ShotsExist("2024"))
	assert.Contains(t, res.Report.Errors(), "mirror shots 2024: db down")
}

func TestRunCombinedAnalysis(t *testing.T) {
	p := &fakeProvider{
		team: map[string][]provider.Match{
			"2023": {match("5", "Tottenham", "Arsenal", "2023")},
			"2024": {match("10", "Tottenham", "Arsenal", "2024")},
		},
		league: map[string][]provider.Match{
			"2023": {match("5", "Tottenham", "Arsenal", "2023")},
			"2024": {match("10", "Tottenham", "Arsenal", "2024")},
		},
		shots: map[string]provider.MatchShots{
			"5":  {Home: []provider.Shot{shot("a", "Richarlison", "h", provider.ResultGoal, 0.3)}},
			"10": {Home: []provider.Shot{shot("b", "Heung-Min Son", "h", provider.ResultSavedShot, 0.5)}},
		},
	}
	f, _ := newFetcher(t, p, nil)

	res, err := f.Run(context.Background(), []string{"2023", "2024"})
	require.NoError(t, err)
	assert.Len(t, res.Matches, 2)
	assert.Len(t, res.Shots, 2)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 2, res.Summary.Shots)
	assert.Equal(t, 1, res.Summary.Goals)
	assert.InDelta(t, 0.4, res.Summary.AverageXG, 1e-9)
}

func TestRunWithoutShotsForEverySeason(t *testing.T) {
	p := &fakeProvider{
		team:   map[string][]provider.Match{"2024": {match("10", "Tottenham", "Arsenal", "2024")}},
		league: map[string][]provider.Match{"2024": {match("10", "Tottenham", "Arsenal", "2024")}},
		shots: map[string]provider.MatchShots{
			"10": {Home: []provider.Shot{shot("b", "Heung-Min Son", "h", provider.ResultSavedShot, 0.5)}},
		},
	}
	f, _ := newFetcher(t, p, nil)

	res, err := f.Run(context.Background(), []string{"2023", "2024"})
	require.NoError(t, err)
	assert.Len(t, res.Shots, 1)
	assert.Nil(t, res.Summary)
	assert.Nil(t, res.Analysis)
}

func TestFetchShotsCancelledKeepsPreviousFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &cancellingProvider{
		fakeProvider: fakeProvider{
			league: map[string][]provider.Match{"2024": {
				match("10", "Tottenham", "Arsenal", "2024"),
				match("11", "Chelsea", "Tottenham", "2024"),
				match("12", "Tottenham", "Everton", "2024"),
			}},
			shots: map[string]provider.MatchShots{
				"10": {Home: []provider.Shot{shot("a", "Richarlison", "h", provider.ResultGoal, 0.3)}},
				"11": {Away: []provider.Shot{shot("b", "Heung-Min Son", "a", provider.ResultGoal, 0.5)}},
				"12": {Home: []provider.Shot{shot("c", "James Maddison", "h", provider.ResultSavedShot, 0.1)}},
			},
		},
		cancel:     cancel,
		afterShots: 1,
	}
	mirror := &fakeMirror{}
	f, s := newFetcher(t, p, mirror)

	previous := []provider.Shot{
		shot("x", "Richarlison", "h", provider.ResultGoal, 0.3),
		shot("y", "Heung-Min Son", "h", provider.ResultGoal, 0.5),
		shot("z", "James Maddison", "h", provider.ResultSavedShot, 0.1),
	}
	_, err := s.WriteShots("2024", previous)
	require.NoError(t, err)

	res, err := f.FetchShots(ctx, "2024")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res.Shots)
	assert.Equal(t, []string{"10"}, p.shotCalls, "no match is requested after cancellation")
	assert.Empty(t, mirror.shots)

	onDisk, err := s.ReadShots("2024")
	require.NoError(t, err)
	assert.Len(t, onDisk, 3, "the complete season file is untouched")
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &cancellingProvider{
		fakeProvider: fakeProvider{
			team:   map[string][]provider.Match{"2024": {match("10", "Tottenham", "Arsenal", "2024")}},
			league: map[string][]provider.Match{"2024": {match("10", "Tottenham", "Arsenal", "2024"), match("11", "Tottenham", "Everton", "2024")}},
		},
		cancel:     cancel,
		afterShots: 1,
	}
	f, s := newFetcher(t, p, nil)

	res, err := f.Run(ctx, []string{"2024"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res.Summary)
	assert.False(t, s.ShotsExist("2024"))
}
