package sim

import (
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/particles"
	"github.com/san-kum/forcesim/internal/physics"
)

type EntityView struct {
	Position dynamo.Vec2
	Velocity dynamo.Vec2
	Heading  float64
	Angle    float64
	Oriented bool
	Radius   float64
	Mass     float64
	Pinned   bool
}

type ParticleView struct {
	Position dynamo.Vec2
	Life     float64
	Shape    particles.Shape
	System   int
}

// FieldView exposes what a renderer needs to draw a field's marker.
type FieldView struct {
	Kind   physics.Kind
	At     dynamo.Vec2
	Region dynamo.Rect
	Repel  bool
	Active bool
}

// Frame is a read-only copy of the world after a tick.
type Frame struct {
	Tick      uint64
	Width     float64
	Height    float64
	Pointer   Pointer
	Entities  []EntityView
	Particles []ParticleView
	Fields    []FieldView
	Systems   []dynamo.Vec2
}

func (s *Simulation) Frame() Frame {
	var f Frame
	s.FrameInto(&f)
	return f
}

// FrameInto fills dst, reusing its slices.
func (s *Simulation) FrameInto(dst *Frame) {
	dst.Tick = s.tick
	dst.Width = s.cfg.Width
	dst.Height = s.cfg.Height
	dst.Pointer = s.pointer

	dst.Entities = dst.Entities[:0]
	for _, e := range s.entities {
		dst.Entities = append(dst.Entities, EntityView{
			Position: e.Position,
			Velocity: e.Velocity,
			Heading:  e.Heading(),
			Angle:    e.Angle,
			Oriented: e.Oriented,
			Radius:   e.Radius,
			Mass:     e.Mass,
			Pinned:   e.Pinned,
		})
	}

	dst.Particles = dst.Particles[:0]
	dst.Systems = dst.Systems[:0]
	for i, sys := range s.systems {
		dst.Systems = append(dst.Systems, sys.Origin())
		for _, p := range sys.Particles() {
			dst.Particles = append(dst.Particles, ParticleView{
				Position: p.Entity.Position,
				Life:     p.Life,
				Shape:    p.Shape,
				System:   i,
			})
		}
	}

	dst.Fields = dst.Fields[:0]
	appendField := func(f *physics.Field) {
		v := FieldView{Kind: f.Kind, Repel: f.Repel, Active: f.Active()}
		switch f.Kind {
		case physics.Attraction:
			v.At = f.Source
		case physics.Spring:
			v.At = f.Anchor
		case physics.Seek:
			v.At = f.Target
		case physics.Drag:
			v.Region = f.Region
		}
		dst.Fields = append(dst.Fields, v)
	}
	for _, f := range s.fields {
		appendField(f)
	}
	for _, sys := range s.systems {
		for _, f := range sys.Fields() {
			appendField(f)
		}
	}
}
