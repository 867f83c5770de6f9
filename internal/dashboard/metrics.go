package dashboard

import (
	"fmt"

	"github.com/albapepper/shotmap/internal/provider"
)

// Metrics aggregates a filtered set of shots.
type Metrics struct {
	TotalShots int     `json:"total_shots"`
	Goals      int     `json:"goals"`
	Missed     int     `json:"missed"`
	XG         float64 `json:"xg"`
	XGDelta    float64 `json:"xg_delta"` // goals - xG
	Conversion float64 `json:"conversion_rate"`
}

// Summarize computes shot metrics. Conversion is zero when there are no
// shots; use FormatConversion to display it.
func Summarize(shots []provider.Shot) Metrics {
	var m Metrics
	for _, s := range shots {
		m.TotalShots++
		m.XG += s.XG
		if s.IsGoal() {
			m.Goals++
		}
	}
	m.Missed = m.TotalShots - m.Goals
	m.XGDelta = float64(m.Goals) - m.XG
	if m.TotalShots > 0 {
		m.Conversion = float64(m.Goals) / float64(m.TotalShots) * 100
	}
	return m
}

// HasShots reports whether any shot was counted.
func (m Metrics) HasShots() bool { return m.TotalShots > 0 }

// FormatXG renders summed xG to two decimals.
func (m Metrics) FormatXG() string {
	return fmt.Sprintf("%.2f", m.XG)
}

// FormatConversion renders the conversion rate to one decimal, or "N/A"
// when there are no shots.
func (m Metrics) FormatConversion() string {
	if !m.HasShots() {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", m.Conversion)
}

// MissedLabel is the delta shown under total shots, empty with no shots.
func (m Metrics) MissedLabel() string {
	if !m.HasShots() {
		return ""
	}
	return fmt.Sprintf("%d missed", m.Missed)
}

// XGDeltaLabel is the delta shown under xG, empty with no shots.
func (m Metrics) XGDeltaLabel() string {
	if !m.HasShots() {
		return ""
	}
	return fmt.Sprintf("%+.2f vs xG", m.XGDelta)
}
