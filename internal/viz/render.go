package viz

import (
	"math"

	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/particles"
	"github.com/san-kum/forcesim/internal/physics"
	"github.com/san-kum/forcesim/internal/sim"
)

// fadeLife is the life below which a particle shrinks to a single dot.
const fadeLife = 0.25

// Draw renders f onto c, replacing what was there.
func Draw(c *Canvas, p Projection, f sim.Frame) {
	c.Clear()
	c.DrawRect(0, 0, c.SubWidth()-1, c.SubHeight()-1)

	for _, fv := range f.Fields {
		if fv.Active {
			drawField(c, p, f, fv)
		}
	}
	for _, o := range f.Systems {
		x, y := p.ToCanvas(o)
		c.DrawCross(x, y, 1)
	}
	for _, pv := range f.Particles {
		drawParticle(c, p, pv)
	}
	for _, e := range f.Entities {
		drawEntity(c, p, e)
	}
}

func drawField(c *Canvas, p Projection, f sim.Frame, fv sim.FieldView) {
	switch fv.Kind {
	case physics.Drag:
		r := fv.Region
		x0, y0 := p.ToCanvas(dynamo.V(r.X, r.Y))
		x1, y1 := p.ToCanvas(dynamo.V(r.X+r.W, r.Y+r.H))
		for x := x0; x <= x1; x += 4 {
			c.Set(x, y0)
		}
		c.DrawLine(x0, y1-1, x1, y1-1)
	case physics.Attraction:
		x, y := p.ToCanvas(fv.At)
		c.DrawCircle(x, y, 3)
		if fv.Repel {
			c.DrawCross(x, y, 2)
		} else {
			c.Set(x, y)
		}
	case physics.Spring:
		ax, ay := p.ToCanvas(fv.At)
		c.DrawCross(ax, ay, 2)
		for _, e := range f.Entities {
			ex, ey := p.ToCanvas(e.Position)
			c.DrawLine(ax, ay, ex, ey)
		}
	case physics.Seek:
		x, y := p.ToCanvas(fv.At)
		c.DrawLine(x-2, y-2, x+2, y+2)
		c.DrawLine(x-2, y+2, x+2, y-2)
	}
}

func drawParticle(c *Canvas, p Projection, pv sim.ParticleView) {
	x, y := p.ToCanvas(pv.Position)
	if pv.Life < fadeLife {
		c.Set(x, y)
		return
	}
	switch pv.Shape {
	case particles.Point:
		c.Set(x, y)
	case particles.Quad:
		c.Set(x, y)
		c.Set(x+1, y)
		c.Set(x, y+1)
		c.Set(x+1, y+1)
	case particles.Triangle:
		c.Set(x, y-1)
		c.Set(x-1, y+1)
		c.Set(x+1, y+1)
	default:
		c.DrawCross(x, y, 1)
	}
}

func drawEntity(c *Canvas, p Projection, e sim.EntityView) {
	x, y := p.ToCanvas(e.Position)
	r := p.Length(e.Radius)
	c.DrawCircle(x, y, r)
	if e.Pinned {
		c.DrawCross(x, y, max(r/2, 1))
	}
	if e.Oriented {
		l := float64(max(r, 3))
		c.DrawLine(x, y, x+int(math.Round(l*math.Cos(e.Angle))), y+int(math.Round(l*math.Sin(e.Angle))))
	}
}
