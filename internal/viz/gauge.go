package viz

import (
	"fmt"

	"github.com/charmbracelet/harmonica"
)

// Gauge eases a displayed reading toward its latest sample with a damped
// spring, so HUD bars glide instead of jumping every frame.
type Gauge struct {
	Label  string
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
	peak   float64
}

func NewGauge(label string, fps int) *Gauge {
	return &Gauge{Label: label, spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8)}
}

// Set records a new sample. The bar's full scale is the largest sample seen.
func (g *Gauge) Set(v float64) {
	g.target = v
	g.peak = max(g.peak, v)
}

// Update advances the spring by one frame.
func (g *Gauge) Update() {
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, g.target)
}

func (g *Gauge) Value() float64  { return g.pos }
func (g *Gauge) Target() float64 { return g.target }

func (g *Gauge) Reset() {
	g.pos, g.vel, g.target, g.peak = 0, 0, 0, 0
}

func (g *Gauge) ratio() float64 {
	if g.peak <= 0 {
		return 0
	}
	return max(0, min(g.pos/g.peak, 1))
}

func (g *Gauge) view(s styles, width int) string {
	return s.label.Render(g.Label) + s.bar(g.ratio(), width) + " " + s.value.Render(fmt.Sprintf("%.1f", g.target))
}
