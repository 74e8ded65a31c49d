package analysis

import "math"

// PhasePoint is one sample of a 2D trajectory.
type PhasePoint struct{ X, Y float64 }

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	Points []PhasePoint
}

// NewPhasePortrait pairs two equally long series, such as an entity's y
// position and y velocity.
func NewPhasePortrait(xs, ys []float64) *PhasePortrait2D {
	n := min(len(xs), len(ys))
	portrait := &PhasePortrait2D{Points: make([]PhasePoint, n)}
	for i := 0; i < n; i++ {
		portrait.Points[i] = PhasePoint{X: xs[i], Y: ys[i]}
	}
	return portrait
}

// Velocity differentiates a position series per tick. The first sample
// repeats the second so the lengths match.
func Velocity(pos []float64) []float64 {
	if len(pos) < 2 {
		return make([]float64, len(pos))
	}
	v := make([]float64, len(pos))
	for i := 1; i < len(pos); i++ {
		v[i] = pos[i] - pos[i-1]
	}
	v[0] = v[1]
	return v
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := blankCanvas(width, height)

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	return canvasString(canvas)
}

// PoincareSection records points when a trajectory crosses a threshold
type PoincareSection struct {
	Points []PhasePoint
}

// NewPoincareSection records (recordX, recordY) each time cross passes
// threshold going upward.
func NewPoincareSection(cross []float64, threshold float64, recordX, recordY []float64) *PoincareSection {
	n := min(len(cross), len(recordX), len(recordY))
	section := &PoincareSection{}
	for i := 1; i < n; i++ {
		if cross[i-1] < threshold && cross[i] >= threshold {
			section.Points = append(section.Points, PhasePoint{X: recordX[i], Y: recordY[i]})
		}
	}
	return section
}

// PoincareSectionToASCII converts section data to ASCII plot
func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}
	return PhasePortraitToASCII(&PhasePortrait2D{Points: section.Points}, width, height)
}
