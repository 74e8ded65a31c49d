package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/particles"
	"github.com/san-kum/forcesim/internal/physics"
	"github.com/san-kum/forcesim/internal/sim"
	"github.com/san-kum/forcesim/internal/viz"
)

const (
	background = "#0a0a0a"
	foreground = "#e0f7fa"
	fieldColor = "#00b4d8"
	dragColor  = "#023e8a"
)

// particleSize is the drawn size of a particle in world units.
const particleSize = 4

func header(sb *strings.Builder, w, h float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background)
}

// FrameToSVG draws a frame in world units: one SVG unit per world unit.
// Particles fade with their remaining life.
func FrameToSVG(f sim.Frame) string {
	var sb strings.Builder
	header(&sb, f.Width, f.Height)

	sb.WriteString(`<g id="fields">` + "\n")
	for _, fv := range f.Fields {
		if !fv.Active {
			continue
		}
		writeField(&sb, f, fv)
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, `<g id="particles" fill="%s">`+"\n", foreground)
	for _, p := range f.Particles {
		writeParticle(&sb, p)
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, `<g id="entities" stroke="%s" fill="none" stroke-width="2">`+"\n", foreground)
	for _, e := range f.Entities {
		r := e.Radius
		if r <= 0 {
			r = 1
		}
		fill := "none"
		if e.Pinned {
			fill = fieldColor
		}
		fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n", e.Position.X, e.Position.Y, r, fill)
		if e.Oriented {
			tip := e.Position.Add(dynamo.FromAngle(e.Angle, math.Max(r, 6)))
			fmt.Fprintf(&sb, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", e.Position.X, e.Position.Y, tip.X, tip.Y)
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func writeField(sb *strings.Builder, f sim.Frame, fv sim.FieldView) {
	switch fv.Kind {
	case physics.Drag:
		r := fv.Region
		fmt.Fprintf(sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.5"/>`+"\n", r.X, r.Y, r.W, r.H, dragColor)
	case physics.Attraction:
		fill := fieldColor
		if fv.Repel {
			fill = "none"
		}
		fmt.Fprintf(sb, `<circle cx="%.2f" cy="%.2f" r="8" stroke="%s" fill="%s"/>`+"\n", fv.At.X, fv.At.Y, fieldColor, fill)
	case physics.Spring:
		for _, e := range f.Entities {
			fmt.Fprintf(sb, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n", fv.At.X, fv.At.Y, e.Position.X, e.Position.Y, fieldColor)
		}
	case physics.Seek:
		fmt.Fprintf(sb, `<path d="M%.2f,%.2f l8,8 m0,-8 l-8,8" stroke="%s"/>`+"\n", fv.At.X-4, fv.At.Y-4, fieldColor)
	}
}

func writeParticle(sb *strings.Builder, p sim.ParticleView) {
	x, y, s := p.Position.X, p.Position.Y, float64(particleSize)
	switch p.Shape {
	case particles.Quad:
		fmt.Fprintf(sb, `<rect x="%.2f" y="%.2f" width="%.0f" height="%.0f" fill-opacity="%.3f"/>`+"\n", x-s/2, y-s/2, s, s, p.Life)
	case particles.Triangle:
		fmt.Fprintf(sb, `<polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill-opacity="%.3f"/>`+"\n", x, y-s/2, x-s/2, y+s/2, x+s/2, y+s/2, p.Life)
	case particles.Point:
		fmt.Fprintf(sb, `<circle cx="%.2f" cy="%.2f" r="1" fill-opacity="%.3f"/>`+"\n", x, y, p.Life)
	default:
		fmt.Fprintf(sb, `<circle cx="%.2f" cy="%.2f" r="%.0f" fill-opacity="%.3f"/>`+"\n", x, y, s/2, p.Life)
	}
}

// CanvasToSVG converts a braille canvas to SVG, one dot per lit sub-pixel.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	var sb strings.Builder
	header(&sb, float64(canvas.SubWidth())*scale, float64(canvas.SubHeight())*scale)
	fmt.Fprintf(&sb, `<g fill="%s">`+"\n", foreground)
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if canvas.Lit(x, y) {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", (float64(x)+0.5)*scale, (float64(y)+0.5)*scale, scale*0.4)
			}
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the path of one body in world units on a world-sized
// page. Wrap jumps longer than half the world break the path.
func TrajectoryToSVG(points []dynamo.Vec2, width, height float64, stroke string) string {
	if len(points) < 2 {
		return ""
	}
	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
	jump := math.Min(width, height) / 2
	for i, p := range points {
		cmd := "L"
		if i == 0 || p.Dist(points[i-1]) > jump {
			cmd = "M"
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, p.X, p.Y)
	}
	sb.WriteString(`"/>` + "\n</svg>")
	return sb.String()
}
