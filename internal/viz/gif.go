package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	dotPx      = 4
	frameDelay = 2
)

// GIFRecorder rasterises canvas frames and writes them as an animation.
type GIFRecorder struct {
	frames []*image.Paletted
	fg     color.Color
}

func NewGIFRecorder(fg color.Color) *GIFRecorder {
	return &GIFRecorder{fg: fg}
}

func (r *GIFRecorder) Len() int { return len(r.frames) }

// Capture draws every lit dot as a dotPx square.
func (r *GIFRecorder) Capture(c *Canvas) {
	img := image.NewPaletted(
		image.Rect(0, 0, c.SubWidth()*dotPx, c.SubHeight()*dotPx),
		color.Palette{color.Black, r.fg},
	)
	for y := 0; y < c.SubHeight(); y++ {
		for x := 0; x < c.SubWidth(); x++ {
			if !c.Lit(x, y) {
				continue
			}
			for py := 0; py < dotPx; py++ {
				for px := 0; px < dotPx; px++ {
					img.SetColorIndex(x*dotPx+px, y*dotPx+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save writes the captured frames to path and drops them.
func (r *GIFRecorder) Save(path string) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("no frames captured")
	}
	anim := gif.GIF{Image: r.frames, Delay: make([]int, len(r.frames))}
	for i := range anim.Delay {
		anim.Delay[i] = frameDelay
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	r.frames = nil
	return nil
}
