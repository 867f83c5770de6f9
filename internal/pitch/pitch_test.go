package pitch

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		px, py int
	}{
		{"centre of goal line", 100, 50, Width / 2, headerH},
		{"halfway, right touchline", 50, 0, marginX + pitchW, headerH + pitchH},
		{"halfway, left touchline", 50, 100, marginX, headerH + pitchH},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px, py := Project(tt.x, tt.y)
			assert.Equal(t, tt.px, px)
			assert.Equal(t, tt.py, py)
		})
	}
}

func TestRadius(t *testing.T) {
	assert.Equal(t, 0, Radius(0))
	assert.Equal(t, 0, Radius(-1))
	assert.Equal(t, 12, Radius(0.5))
	assert.Greater(t, Radius(0.8), Radius(0.3))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, []string{"Shot Map for All Teams"}, Options{}.Title())
	assert.Equal(t, []string{"Shot Map for Tottenham", "Richarlison"}, Options{Team: "Tottenham", Player: "Richarlison"}.Title())
}

func TestRenderDrawsGoalsAfterShots(t *testing.T) {
	shots := []Shot{
		{X: 90, Y: 50, XG: 0.3, Goal: true},
		{X: 80, Y: 40, XG: 0.1},
		{X: 95, Y: 55, XG: 0.5, Goal: true, Label: "Heung-Min Son 70'"},
	}
	var buf bytes.Buffer
	Render(&buf, shots, Options{Team: "Tottenham", Player: "Heung-Min Son"})
	out := buf.String()

	assert.Contains(t, out, "Shot Map for Tottenham")
	assert.Contains(t, out, "Heung-Min Son</text>")
	assert.Contains(t, out, PitchColor)
	assert.Equal(t, 1, strings.Count(out, `class="shot"`))
	assert.Equal(t, 2, strings.Count(out, `class="goal"`))

	lastShot := strings.LastIndex(out, `class="shot"`)
	firstGoal := strings.Index(out, `class="goal"`)
	assert.Less(t, lastShot, firstGoal, "goals are drawn on top")

	assertWellFormed(t, out)
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, nil, Options{})
	out := buf.String()
	assert.Contains(t, out, "Shot Map for All Teams")
	assert.NotContains(t, out, `class="goal"`)
	assert.Contains(t, out, "Goal</text>", "legend is always drawn")
	assertWellFormed(t, out)
}

func assertWellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
	}
}
