package ingest

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/albapepper/shotmap/internal/provider"
)

// DateLayout is the provider's match datetime format.
const DateLayout = "2006-01-02 15:04:05"

// AnalyzedShot is a shot with derived flags.
type AnalyzedShot struct {
	provider.Shot
	IsGoal     bool
	IsClubShot bool
	MatchDate  time.Time // zero when the date does not parse
}

// Analyze derives goal and club flags for every shot. A shot is the club's
// when the club name is contained in the team on the side its h_a flag
// points to. Nil in, nil out.
func Analyze(shots []provider.Shot, club string) []AnalyzedShot {
	if shots == nil {
		return nil
	}
	out := make([]AnalyzedShot, len(shots))
	for i, s := range shots {
		out[i] = AnalyzedShot{
			Shot:       s,
			IsGoal:     s.IsGoal(),
			IsClubShot: club != "" && strings.Contains(s.ShootingTeam(), club),
		}
		if t, err := time.Parse(DateLayout, s.Date); err == nil {
			out[i].MatchDate = t
		}
	}
	return out
}

// ClubSummary aggregates the club's own shots.
type ClubSummary struct {
	Shots     int
	Goals     int
	AverageXG float64
}

// SummarizeClub counts the club's shots and goals and averages their xG.
func SummarizeClub(analyzed []AnalyzedShot) ClubSummary {
	var sum ClubSummary
	var xg float64
	for _, s := range analyzed {
		if !s.IsClubShot {
			continue
		}
		sum.Shots++
		xg += s.XG
		if s.IsGoal {
			sum.Goals++
		}
	}
	if sum.Shots > 0 {
		sum.AverageXG = xg / float64(sum.Shots)
	}
	return sum
}

// sampleRows is how many shots PrintAnalysis lists.
const sampleRows = 5

// PrintAnalysis writes a sample of the shots followed by the club's
// totals.
func PrintAnalysis(w io.Writer, club string, analyzed []AnalyzedShot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nSample of shot data:")
	fmt.Fprintln(tw, "date\tplayer\tminute\tresult\txG")
	for i, s := range analyzed {
		if i == sampleRows {
			break
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%.3f\n", s.Date, s.Player, s.Minute, s.Result, s.XG)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sum := SummarizeClub(analyzed)
	_, err := fmt.Fprintf(w, "\nTotal %s shots: %d\nGoals scored: %d\nAverage xG per shot: %.3f\n",
		club, sum.Shots, sum.Goals, sum.AverageXG)
	return err
}
