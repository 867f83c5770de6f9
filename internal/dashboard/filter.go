package dashboard

import (
	"sort"

	"github.com/albapepper/shotmap/internal/provider"
)

// Filter returns the shots from matches involving team, taken by player,
// with X and Y rescaled from [0,1] to [0,100]. Empty team or player means
// no restriction. The input is not modified.
func Filter(data []provider.Shot, team, player string) []provider.Shot {
	out := make([]provider.Shot, 0, len(data))
	for _, s := range data {
		if team != "" && !s.InvolvesTeam(team) {
			continue
		}
		if player != "" && s.Player != player {
			continue
		}
		s.X *= 100
		s.Y *= 100
		out = append(out, s)
	}
	return out
}

// Teams lists every team appearing on either side of a match, sorted.
func Teams(data []provider.Shot) []string {
	seen := make(map[string]struct{})
	for _, s := range data {
		seen[s.HomeTeam] = struct{}{}
		seen[s.AwayTeam] = struct{}{}
	}
	delete(seen, "")
	return sortedKeys(seen)
}

// Players lists the shooters in matches involving team, sorted.
func Players(data []provider.Shot, team string) []string {
	seen := make(map[string]struct{})
	for _, s := range data {
		if s.InvolvesTeam(team) {
			seen[s.Player] = struct{}{}
		}
	}
	delete(seen, "")
	return sortedKeys(seen)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
