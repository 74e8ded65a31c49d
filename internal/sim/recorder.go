package sim

import "github.com/san-kum/forcesim/internal/dynamo"

// Recorder is an Observer that keeps one entity's position every tick.
type Recorder struct {
	Index     int
	Positions []dynamo.Vec2
}

func NewRecorder(index int) *Recorder {
	return &Recorder{Index: index}
}

func (r *Recorder) OnStep(s *Simulation) {
	if r.Index < 0 || r.Index >= len(s.entities) {
		return
	}
	r.Positions = append(r.Positions, s.entities[r.Index].Position)
}

// Axis returns the recorded X or Y series.
func (r *Recorder) Axis(a dynamo.Axis) []float64 {
	out := make([]float64, len(r.Positions))
	for i, p := range r.Positions {
		if a == dynamo.AxisX {
			out[i] = p.X
		} else {
			out[i] = p.Y
		}
	}
	return out
}
