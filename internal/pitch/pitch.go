// Package pitch draws a vertical half-pitch shot map as SVG.
//
// Shot coordinates use the Opta convention scaled to [0,100]: X runs along
// the pitch towards the attacked goal, Y across it. Only the attacking half
// (X >= 50) is drawn, goal at the top.
package pitch

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// Colours.
const (
	PitchColor = "#313332"
	LineColor  = "#FFFFFF"
	GoalColor  = "#FF4B4B"
	ShotColor  = "#A6A6A6"
)

// Marker area in px² per unit of xG.
const AreaPerXG = 900

// Geometry in px. One metre is ten pixels on a 68m x 105m pitch.
const (
	pitchW  = 680
	pitchH  = 525 // half length
	marginX = 40
	headerH = 80
	footerH = 60

	Width  = pitchW + 2*marginX
	Height = headerH + pitchH + footerH
)

// Opta landmarks.
const (
	boxX       = 83.0
	boxY1      = 21.1
	boxY2      = 78.9
	sixX       = 94.2
	sixY1      = 36.8
	sixY2      = 63.2
	goalY1     = 45.2
	goalY2     = 54.8
	spotX      = 88.5
	circleR    = 91.5 // 9.15m
	goalDepthM = 2.0
)

var (
	lineStyle  = fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:0.3;stroke-width:2", LineColor)
	goalStyle  = fmt.Sprintf("fill:%s;fill-opacity:0.8;stroke:%s;stroke-width:1", GoalColor, LineColor)
	shotStyle  = fmt.Sprintf("fill:%s;fill-opacity:0.6;stroke:%s;stroke-width:1", ShotColor, LineColor)
	titleStyle = fmt.Sprintf("fill:%s;font-size:16px;text-anchor:middle", LineColor)
)

// Shot is one marker.
type Shot struct {
	X, Y  float64 // Opta [0,100]
	XG    float64
	Goal  bool
	Label string // tooltip, optional
}

// Options control the chart labels.
type Options struct {
	Team   string
	Player string
}

// Title returns the chart title lines.
func (o Options) Title() []string {
	team := o.Team
	if team == "" {
		team = "All Teams"
	}
	lines := []string{"Shot Map for " + team}
	if o.Player != "" {
		lines = append(lines, o.Player)
	}
	return lines
}

// Render writes the shot map. Non-goals are drawn first so goals sit on
// top of them.
func Render(w io.Writer, shots []Shot, opts Options) {
	canvas := svg.New(w)
	canvas.Start(Width, Height)
	canvas.Rect(0, 0, Width, Height, "fill:"+PitchColor)

	drawTitle(canvas, opts)
	drawPitch(canvas)

	canvas.Group(`class="shots"`)
	for _, s := range shots {
		if !s.Goal {
			drawShot(canvas, s, `class="shot"`, shotStyle)
		}
	}
	for _, s := range shots {
		if s.Goal {
			drawShot(canvas, s, `class="goal"`, goalStyle)
		}
	}
	canvas.Gend()

	drawLegend(canvas)
	canvas.End()
}

// Project maps Opta coordinates to canvas pixels.
func Project(x, y float64) (int, int) {
	px := float64(marginX) + (100-y)*pitchW/100
	py := float64(headerH) + (100-x)*pitchH/50
	return round(px), round(py)
}

// Radius is the marker radius for xG, keeping area proportional to xG.
func Radius(xg float64) int {
	if xg <= 0 {
		return 0
	}
	return round(math.Sqrt(xg * AreaPerXG / math.Pi))
}

func drawShot(canvas *svg.SVG, s Shot, class, style string) {
	x := clamp(s.X, 50, 100)
	y := clamp(s.Y, 0, 100)
	px, py := Project(x, y)
	if s.Label != "" {
		canvas.Group(class)
		canvas.Title(s.Label)
		canvas.Circle(px, py, Radius(s.XG), style)
		canvas.Gend()
		return
	}
	canvas.Circle(px, py, Radius(s.XG), class, style)
}

func drawTitle(canvas *svg.SVG, opts Options) {
	for i, line := range opts.Title() {
		canvas.Text(Width/2, 32+i*22, line, titleStyle)
	}
}

func drawPitch(canvas *svg.SVG) {
	canvas.Gstyle(lineStyle)

	// Outline and halfway line.
	canvas.Rect(marginX, headerH, pitchW, pitchH)

	// Penalty area and six-yard box.
	boxRect(canvas, boxX, boxY1, boxY2)
	boxRect(canvas, sixX, sixY1, sixY2)

	// Goal mouth, drawn behind the goal line.
	gx1, gy := Project(100, goalY2)
	gx2, _ := Project(100, goalY1)
	depth := round(goalDepthM * 10)
	canvas.Rect(gx1, gy-depth, gx2-gx1, depth)

	// Penalty spot.
	sx, sy := Project(spotX, 50)
	canvas.Circle(sx, sy, 2, "fill:"+LineColor+";fill-opacity:0.3")

	// Penalty arc outside the box.
	_, by := Project(boxX, 50)
	dy := float64(by - sy)
	dx := round(math.Sqrt(circleR*circleR - dy*dy))
	canvas.Arc(sx-dx, by, round(circleR), round(circleR), 0, false, false, sx+dx, by)

	// Centre circle half on the halfway line.
	cx, cy := Project(50, 50)
	r := round(circleR)
	canvas.Arc(cx-r, cy, r, r, 0, false, true, cx+r, cy)
	canvas.Circle(cx, cy, 2, "fill:"+LineColor+";fill-opacity:0.3")

	canvas.Gend()
}

func boxRect(canvas *svg.SVG, x, y1, y2 float64) {
	left, top := Project(100, y2)
	right, bottom := Project(x, y1)
	canvas.Rect(left, top, right-left, bottom-top)
}

func drawLegend(canvas *svg.SVG) {
	y := headerH + pitchH + footerH/2
	cx := Width / 2
	textStyle := fmt.Sprintf("fill:%s;font-size:13px;dominant-baseline:middle", LineColor)

	canvas.Group(`class="legend"`)
	canvas.Circle(cx-70, y, 7, goalStyle)
	canvas.Text(cx-56, y, "Goal", textStyle)
	canvas.Circle(cx+20, y, 7, shotStyle)
	canvas.Text(cx+34, y, "Shot", textStyle)
	canvas.Gend()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(f float64) int {
	return int(math.Round(f))
}
