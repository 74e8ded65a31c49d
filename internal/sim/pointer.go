package sim

import (
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/particles"
)

// Pointer is the host's mouse state for the coming tick. Clicked marks the
// press edge and is consumed by the next Step.
type Pointer struct {
	X, Y    float64
	Pressed bool
	Clicked bool
}

func (p Pointer) Pos() dynamo.Vec2 { return dynamo.V(p.X, p.Y) }

type grab struct {
	entity *dynamo.Entity
	offset dynamo.Vec2
}

func (s *Simulation) handlePointer() {
	p := s.pointer
	pos := p.Pos()
	for _, f := range s.fields {
		f.Bind(pos, p.Pressed, s.cfg.Width/2)
	}
	for _, sys := range s.systems {
		for _, f := range sys.Fields() {
			f.Bind(pos, p.Pressed, s.cfg.Width/2)
		}
	}

	switch {
	case s.grab != nil && !p.Pressed:
		s.grab.entity.Pinned = false
		s.grab.entity.Velocity = dynamo.Vec2{}
		s.logger.Debug("entity released", "tick", s.tick)
		s.grab = nil
	case s.grab != nil:
		s.grab.entity.Position = pos.Add(s.grab.offset)
		s.grab.entity.Velocity = dynamo.Vec2{}
	case p.Clicked:
		if e := s.pick(pos); e != nil {
			e.Pinned = true
			s.grab = &grab{entity: e, offset: e.Position.Sub(pos)}
			s.logger.Debug("entity grabbed", "tick", s.tick)
		}
	}

	if p.Clicked && s.cfg.SpawnOnClick != nil {
		s.spawnAt(pos)
	}
	s.pointer.Clicked = false
}

// pick returns the topmost draggable entity under pos.
func (s *Simulation) pick(pos dynamo.Vec2) *dynamo.Entity {
	for i := len(s.entities) - 1; i >= 0; i-- {
		e := s.entities[i]
		if e.Radius > 0 && e.Position.Dist(pos) <= e.Radius {
			return e
		}
	}
	return nil
}

func (s *Simulation) spawnAt(pos dynamo.Vec2) {
	if s.cfg.MaxSystems > 0 && s.spawnedSystems >= s.cfg.MaxSystems {
		return
	}
	c := *s.cfg.SpawnOnClick
	c.Origin = pos
	sys, err := particles.NewSystem(c)
	if err != nil {
		s.logger.Warn("click spawn rejected", "err", err)
		return
	}
	s.systems = append(s.systems, sys)
	s.spawnedSystems++
	s.logger.Debug("particle system spawned", "tick", s.tick, "x", pos.X, "y", pos.Y)
}
