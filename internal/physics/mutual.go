package physics

import (
	"fmt"

	"github.com/san-kum/forcesim/internal/dynamo"
)

// Mutual applies inverse-square attraction (or repulsion) between every pair
// of entities. Forces are computed from one snapshot of positions, so no
// entity sees a neighbour that already moved this tick.
type Mutual struct {
	G           float64
	MinDistance float64
	MaxDistance float64
	Repel       bool

	buf []dynamo.Vec2
}

func NewMutual(g, minDist, maxDist float64, repel bool) (*Mutual, error) {
	m := &Mutual{G: g, MinDistance: minDist, MaxDistance: maxDist, Repel: repel}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mutual) Validate() error {
	if m.MinDistance <= 0 || m.MinDistance > m.MaxDistance {
		return fmt.Errorf("%w: mutual: distance range [%g, %g]", dynamo.ErrInvalidField, m.MinDistance, m.MaxDistance)
	}
	return nil
}

// Apply accumulates pairwise forces onto entities.
func (m *Mutual) Apply(entities []*dynamo.Entity) {
	n := len(entities)
	if cap(m.buf) < n {
		m.buf = make([]dynamo.Vec2, n)
	}
	m.buf = m.buf[:n]
	for i := range m.buf {
		m.buf[i] = dynamo.Vec2{}
	}

	for i := 0; i < n; i++ {
		a := entities[i]
		for j := i + 1; j < n; j++ {
			b := entities[j]
			// force of b on a; a's on b is equal and opposite
			f := InverseSquare(b.Position, a.Position, m.G, b.Mass, a.Mass, m.MinDistance, m.MaxDistance, m.Repel)
			m.buf[i] = m.buf[i].Add(f)
			m.buf[j] = m.buf[j].Sub(f)
		}
	}

	for i, e := range entities {
		e.ApplyForce(m.buf[i])
	}
}
