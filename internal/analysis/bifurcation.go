package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/forcesim/internal/automation"
	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/experiment"
)

// BifurcationPoint holds the distinct settled values seen for one parameter
// value.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// BifurcationDiagram sweeps a scene parameter (any name automation.SetParam
// accepts) and records the distinct values of one entity coordinate after a
// transient. Values are quantized to 1e-3 before deduplication.
func BifurcationDiagram(
	cfg *config.Config,
	paramName string,
	paramMin, paramMax float64,
	paramSteps int,
	entity int,
	axis dynamo.Axis,
	transient, record int,
) ([]BifurcationPoint, error) {
	if paramSteps <= 1 {
		paramSteps = 2
	}
	paramStep := (paramMax - paramMin) / float64(paramSteps-1)
	results := make([]BifurcationPoint, 0, paramSteps)

	for i := 0; i < paramSteps; i++ {
		param := paramMin + float64(i)*paramStep

		c := cfg.Clone()
		if err := automation.SetParam(c, paramName, param); err != nil {
			return nil, err
		}
		s, err := experiment.Build(c, dynamo.NewRand(c.Seed))
		if err != nil {
			return nil, err
		}
		if entity < 0 || entity >= len(s.Entities()) {
			return nil, nil
		}
		e := s.Entities()[entity]

		for t := 0; t < transient; t++ {
			s.Step()
		}

		values := make([]float64, 0, 100)
		seen := make(map[int64]bool)
		for t := 0; t < record; t++ {
			s.Step()
			val := e.Position.X
			if axis == dynamo.AxisY {
				val = e.Position.Y
			}
			key := int64(math.Round(val * 1000))
			if !seen[key] {
				seen[key] = true
				values = append(values, val)
			}
		}

		results = append(results, BifurcationPoint{Param: param, Values: values})
	}

	return results, nil
}

// BifurcationToASCII converts bifurcation data to ASCII art
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range data {
		for _, v := range p.Values {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if math.IsInf(minVal, 1) {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := blankCanvas(width, height)
	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}
	return canvasString(canvas)
}

func blankCanvas(width, height int) [][]rune {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	return canvas
}

func canvasString(canvas [][]rune) string {
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
