package config

import (
	"fmt"
	"slices"

	"github.com/san-kum/forcesim/internal/dynamo"
)

func scene(name string, ticks int, boundaryMode string, restitution float64) *Config {
	return &Config{
		Scene:    name,
		Seed:     DefaultSeed,
		Ticks:    ticks,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Boundary: BoundaryConfig{Mode: boundaryMode, Restitution: restitution},
	}
}

func with(c *Config, f func(c *Config)) *Config {
	f(c)
	return c
}

// particleSystem is the default emitter: one spawn per tick, 128 ticks of life.
func particleSystem(origin Point) SystemConfig {
	return SystemConfig{Origin: origin, SpawnPerTick: 1, DecayRate: 1.0 / 128.0, Mass: 1}
}

// Presets holds one scene per classic force example.
var Presets = map[string]*Config{
	"bouncing-ball": with(scene("bouncing-ball", 600, "bounce", 1), func(c *Config) {
		c.Entities = []EntityConfig{{Position: Point{128, 128}, Velocity: Point{2, 10.0 / 3.0}, Mass: 1, Radius: 32}}
	}),

	"basic-forces": with(scene("basic-forces", 600, "bounce", 1), func(c *Config) {
		c.Entities = []EntityConfig{{Count: 32, Mass: 0.1, MassMax: 5}}
		c.Fields = []FieldConfig{
			{Kind: "constant", Name: "gravity", Vector: Point{0, 0.1}},
			{Kind: "constant", Name: "wind", Vector: Point{0.01, 0}},
		}
	}),

	"fluid-resistance": with(scene("fluid-resistance", 600, "bounce", 1), func(c *Config) {
		gap := DefaultWidth / 16
		c.Entities = []EntityConfig{{
			Count: 16, Position: Point{gap / 2, 0}, Spacing: Point{gap, 0},
			Spread: Point{0, DefaultHeight / 4}, Mass: 0.1, MassMax: 5,
		}}
		c.Fields = []FieldConfig{
			{Kind: "constant", Name: "gravity", Vector: Point{0, 0.1}, ScaleByMass: true},
			{Kind: "drag", Name: "liquid", Coefficient: 0.1, Region: Box{0, DefaultHeight / 2, DefaultWidth, DefaultHeight / 2}},
		}
	}),

	"gravitational-attraction": with(scene("gravitational-attraction", 900, "none", 0), func(c *Config) {
		c.Entities = []EntityConfig{{Count: 32, Spread: Point{DefaultWidth, DefaultHeight}, Mass: 0.1, MassMax: 2}}
		c.Fields = []FieldConfig{
			{Kind: "attraction", Source: Point{160, 140}, G: 0.5, SourceMass: 20, MinDistance: 5, MaxDistance: 25},
			{Kind: "attraction", Source: Point{470, 120}, G: 0.3, SourceMass: 12, MinDistance: 5, MaxDistance: 25},
			{Kind: "attraction", Source: Point{220, 360}, G: 0.7, SourceMass: 28, MinDistance: 5, MaxDistance: 25},
			{Kind: "attraction", Source: Point{500, 340}, G: 0.4, SourceMass: 16, MinDistance: 5, MaxDistance: 25},
		}
	}),

	"mutual-attraction": with(scene("mutual-attraction", 900, "bounce", 0.42), func(c *Config) {
		c.Entities = []EntityConfig{{Count: 12, Spread: Point{DefaultWidth, DefaultHeight}, Mass: 3, MassMax: 6, Radius: 24}}
		c.Mutual = &MutualConfig{G: 0.5, MinDistance: 1, MaxDistance: 27}
	}),

	"mutual-repulsion": with(scene("mutual-repulsion", 900, "bounce", 0.42), func(c *Config) {
		c.Entities = []EntityConfig{{Count: 12, Spread: Point{DefaultWidth, DefaultHeight}, Mass: 3, MassMax: 6}}
		c.Mutual = &MutualConfig{G: 0.5, MinDistance: 1, MaxDistance: 27, Repel: true}
		c.Fields = []FieldConfig{{
			Kind: "attraction", Name: "pointer", Source: Point{DefaultWidth / 2, DefaultHeight / 2},
			G: 0.8, SourceMass: 16, MinDistance: 1, MaxDistance: 27,
			FollowPointer: true, OnlyWhilePressed: true,
		}}
	}),

	"helium-balloons": with(scene("helium-balloons", 900, "bounce", 1), func(c *Config) {
		c.Entities = []EntityConfig{{
			Count: 32, Position: Point{0, DefaultHeight * 4 / 5},
			Spread: Point{DefaultWidth, DefaultHeight / 5}, Mass: 1, Radius: 32,
		}}
		c.Fields = []FieldConfig{
			{Kind: "constant", Name: "helium", Vector: Point{0, -0.1}},
			{
				Kind: "noise_wind", Name: "wind", Scale: 2.0 / 3.0, Step: 0.01, Direction: Point{1, 0},
				Unsigned: true, NoiseSeed: 7, OnlyWhilePressed: true, MirrorByPointer: true,
			},
		}
	}),

	"angular-motion": with(scene("angular-motion", 900, "none", 0), func(c *Config) {
		c.Entities = []EntityConfig{{
			Count: 16, Spread: Point{DefaultWidth, DefaultHeight}, Jitter: Point{1, 1},
			Mass: 0.1, MassMax: 2, Oriented: true,
		}}
		c.Fields = []FieldConfig{{
			Kind: "attraction", Source: Point{DefaultWidth / 2, DefaultHeight / 2},
			G: 0.4, SourceMass: 20, MinDistance: 5, MaxDistance: 25,
		}}
	}),

	"noise-acceleration": with(scene("noise-acceleration", 900, "wrap", 0), func(c *Config) {
		c.Entities = []EntityConfig{{Position: Point{DefaultWidth / 2, DefaultHeight / 2}, Mass: 1, MaxSpeed: 9, Radius: 32}}
		c.Fields = []FieldConfig{{
			Kind: "noise_wind", Name: "noise", Scale: 2, Step: 0.01, Direction: Point{1, 1}, NoiseSeed: 3,
		}}
	}),

	"mouse-acceleration": with(scene("mouse-acceleration", 900, "none", 0), func(c *Config) {
		c.Entities = []EntityConfig{{Count: 20, Spread: Point{DefaultWidth, DefaultHeight}, Mass: 1, MaxSpeed: 4.2}}
		c.Fields = []FieldConfig{{
			Kind: "seek", Name: "pointer", Target: Point{DefaultWidth / 2, DefaultHeight / 2},
			Magnitude: 0.5, FollowPointer: true,
		}}
	}),

	"spring-forces": with(scene("spring-forces", 900, "none", 0), func(c *Config) {
		c.Entities = []EntityConfig{{
			Position: Point{DefaultWidth * 0.8, DefaultHeight * 0.666},
			Mass: 24, Damping: 0.996, Radius: 32,
		}}
		c.Fields = []FieldConfig{
			{Kind: "constant", Name: "gravity", Vector: Point{0, 0.42}, ScaleByMass: true},
			{Kind: "spring", Anchor: Point{DefaultWidth / 2, DefaultHeight / 24}, RestLength: DefaultHeight * 0.42, Stiffness: 0.24},
		}
	}),

	"single-particle-system": with(scene("single-particle-system", 600, "none", 0), func(c *Config) {
		c.Fields = []FieldConfig{{Kind: "constant", Name: "gravity", Vector: Point{0, 0.05}, ScaleByMass: true}}
		c.Systems = []SystemConfig{particleSystem(Point{DefaultWidth / 2, 42})}
	}),

	"particles-with-forces": with(scene("particles-with-forces", 600, "none", 0), func(c *Config) {
		c.Fields = []FieldConfig{{Kind: "constant", Name: "gravity", Vector: Point{0, 0.1}}}
		c.Systems = []SystemConfig{particleSystem(Point{DefaultWidth / 2, 42})}
	}),

	"particles-with-repeller": with(scene("particles-with-repeller", 600, "none", 0), func(c *Config) {
		c.Fields = []FieldConfig{{Kind: "constant", Name: "gravity", Vector: Point{0, 0.1}}}
		sys := particleSystem(Point{DefaultWidth / 2, 42})
		sys.Fields = []FieldConfig{{
			Kind: "attraction", Name: "repeller", Source: Point{DefaultWidth/2 - 16, 128},
			G: 42, SourceMass: 10, MinDistance: 5, Repel: true,
		}}
		c.Systems = []SystemConfig{sys}
	}),

	"multiple-particle-types": with(scene("multiple-particle-types", 600, "none", 0), func(c *Config) {
		c.Fields = []FieldConfig{{Kind: "constant", Name: "gravity", Vector: Point{0, 0.05}, ScaleByMass: true}}
		sys := particleSystem(Point{DefaultWidth / 2, 42})
		sys.Shapes = []string{"disc", "quad", "triangle"}
		c.Systems = []SystemConfig{sys}
	}),

	"multiple-particle-systems": with(scene("multiple-particle-systems", 600, "none", 0), func(c *Config) {
		c.Fields = []FieldConfig{{Kind: "constant", Name: "gravity", Vector: Point{0, 0.05}, ScaleByMass: true}}
		sys := particleSystem(Point{42, 42})
		sys.Count = 9
		sys.Spread = Point{DefaultWidth - 84, DefaultHeight - 84}
		sys.Shapes = []string{"quad"}
		c.Systems = []SystemConfig{sys}
		click := particleSystem(Point{})
		click.Shapes = []string{"quad"}
		c.SpawnOnClick = &click
		c.MaxSystems = 32
	}),
}

// GetPreset returns a copy of the named scene, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the scene names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve returns the config for a scene name, an error wrapping
// ErrUnknownScene when there is none.
func Resolve(name string) (*Config, error) {
	cfg := GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownScene, name)
	}
	return cfg, nil
}
