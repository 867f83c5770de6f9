package dashboard

import "github.com/albapepper/shotmap/internal/provider"

// Selection is the dashboard's filter state. With no team the player is
// always empty; with a team the player is empty or one of that team's
// shooters.
type Selection struct {
	Team   string
	Player string

	Teams   []string // team options
	Players []string // player options, only populated when a team is selected
}

// Select validates a requested team and player against data. Unknown
// teams are cleared, which clears the player too; a player who did not
// shoot in the team's matches is cleared.
func Select(data []provider.Shot, team, player string) Selection {
	sel := Selection{Teams: Teams(data)}
	if team == "" || !contains(sel.Teams, team) {
		return sel
	}
	sel.Team = team
	sel.Players = Players(data, team)
	if player != "" && contains(sel.Players, player) {
		sel.Player = player
	}
	return sel
}

// HasTeam reports whether a team is selected.
func (s Selection) HasTeam() bool { return s.Team != "" }

// Apply filters data by the selection.
func (s Selection) Apply(data []provider.Shot) []provider.Shot {
	return Filter(data, s.Team, s.Player)
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
