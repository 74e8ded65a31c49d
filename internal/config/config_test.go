package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/forcesim/internal/boundary"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/particles"
	"github.com/san-kum/forcesim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scene != "bouncing-ball" {
		t.Errorf("expected scene bouncing-ball, got %s", cfg.Scene)
	}
	if cfg.Ticks <= 0 {
		t.Error("ticks should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestPresets_AllValid(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if cfg == nil {
				t.Fatal("expected preset, got nil")
			}
			if cfg.Scene != name {
				t.Errorf("scene = %q, want %q", cfg.Scene, name)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("invalid preset: %v", err)
			}
		})
	}
}

func TestListPresets_Sorted(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("presets not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	a := GetPreset("basic-forces")
	a.Ticks = 1
	a.Fields[0].Vector = Point{9, 9}

	b := GetPreset("basic-forces")
	if b.Ticks == 1 || b.Fields[0].Vector == (Point{9, 9}) {
		t.Error("mutating a preset copy changed the registry")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if _, err := Resolve("nonexistent"); !errors.Is(err, dynamo.ErrUnknownScene) {
		t.Errorf("expected ErrUnknownScene, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	want := GetPreset("multiple-particle-systems")
	want.Seed = 42

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.Seed != 42 || got.Scene != want.Scene {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.SpawnOnClick == nil || got.SpawnOnClick.DecayRate != want.SpawnOnClick.DecayRate {
		t.Error("spawn_on_click lost")
	}
	if len(got.Systems) != 1 || got.Systems[0].Count != 9 {
		t.Errorf("systems lost: %+v", got.Systems)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := []byte(`
scene: custom
boundary: {mode: wrap}
entities:
  - position: [10, 20]
    velocity: [1, 0]
    mass: 2
fields:
  - kind: constant
    vector: [0, 0.1]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight || cfg.Ticks != DefaultTicks {
		t.Errorf("defaults not applied: %gx%g ticks %d", cfg.Width, cfg.Height, cfg.Ticks)
	}
	if cfg.Entities[0].Position != (Point{10, 20}) {
		t.Errorf("position = %v", cfg.Entities[0].Position)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{"bad yaml", "ticks: [", dynamo.ErrInvalidConfig},
		{"negative ticks", "ticks: -1", dynamo.ErrInvalidConfig},
		{"unknown boundary", "boundary: {mode: sticky}", dynamo.ErrInvalidPolicy},
		{"zero mass", "entities: [{mass: 0}]", dynamo.ErrNonPositiveMass},
		{"infinite mass", "entities: [{mass: .inf}]", dynamo.ErrNonPositiveMass},
		{"infinite mass_max", "entities: [{mass: 1, mass_max: .inf}]", dynamo.ErrInvalidConfig},
		{"infinite particle mass", "systems: [{spawn_per_tick: 1, decay_rate: 0.1, mass: .inf}]", dynamo.ErrInvalidSystem},
		{"unknown field", "fields: [{kind: magnet}]", dynamo.ErrInvalidField},
		{"bad attraction", "fields: [{kind: attraction, source_mass: 1, min_distance: 0}]", dynamo.ErrInvalidField},
		{"bad mutual", "mutual: {g: 1, min_distance: 5, max_distance: 1}", dynamo.ErrInvalidField},
		{"bad system", "systems: [{spawn_per_tick: 1, decay_rate: 0, mass: 1}]", dynamo.ErrInvalidSystem},
		{"bad shape", "systems: [{spawn_per_tick: 1, decay_rate: 0.1, mass: 1, shapes: [hexagon]}]", dynamo.ErrInvalidSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scene.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestEntityConfig_Entity(t *testing.T) {
	ec := EntityConfig{
		Count: 3, Position: Point{10, 0}, Spacing: Point{20, 0},
		Velocity: Point{1, 2}, Mass: 2, Damping: 0.99, Radius: 8, Oriented: true,
	}
	r := dynamo.NewRand(1)

	for i := 0; i < ec.N(); i++ {
		e := ec.Entity(i, r)
		if want := dynamo.V(10+20*float64(i), 0); e.Position != want {
			t.Errorf("entity %d at %v, want %v", i, e.Position, want)
		}
		if e.Mass != 2 || e.Damping != 0.99 || e.Radius != 8 || !e.Oriented {
			t.Errorf("entity %d attributes not copied: %+v", i, e)
		}
	}

	ranged := EntityConfig{Spread: Point{100, 50}, Mass: 1, MassMax: 3}
	for i := 0; i < 50; i++ {
		e := ranged.Entity(i, r)
		if e.Mass < 1 || e.Mass >= 3 {
			t.Fatalf("mass %g outside [1, 3)", e.Mass)
		}
		if e.Position.X < 0 || e.Position.X >= 100 || e.Position.Y < 0 || e.Position.Y >= 50 {
			t.Fatalf("position %v outside spread", e.Position)
		}
	}
}

func TestFieldConfig_Field(t *testing.T) {
	f, err := FieldConfig{Kind: "attraction", Source: Point{1, 2}, G: 1, SourceMass: 10, MinDistance: 5, Repel: true}.Field()
	if err != nil {
		t.Fatal(err)
	}
	if f.Kind != physics.Attraction || !f.Repel || !math.IsInf(f.MaxDistance, 1) {
		t.Errorf("unexpected field %+v", f)
	}

	wind, err := FieldConfig{Kind: "noise_wind", Scale: 1, Step: 0.01, Direction: Point{1, 0}}.Field()
	if err != nil {
		t.Fatal(err)
	}
	if wind.Sampler == nil {
		t.Error("noise wind built without a sampler")
	}

	drag, err := FieldConfig{Kind: "drag", Coefficient: 0.1, Region: Box{0, 240, 640, 240}}.Field()
	if err != nil {
		t.Fatal(err)
	}
	if drag.Region != (dynamo.Rect{X: 0, Y: 240, W: 640, H: 240}) {
		t.Errorf("region = %+v", drag.Region)
	}
}

func TestSystemConfig_Particles(t *testing.T) {
	sc := SystemConfig{
		Origin: Point{5, 6}, SpawnPerTick: 2, DecayRate: 0.1, Mass: 1,
		Velocity: &VelocityConfig{Dist: "gaussian", Base: Point{0, -1}, StdDev: Point{0.5, 0.5}},
		Shapes:   []string{"disc", "point"},
		Boundary: &BoundaryConfig{Mode: "bounce", Restitution: 0.8},
	}

	pc, err := sc.Particles(640, 480)
	if err != nil {
		t.Fatal(err)
	}
	if pc.Origin != dynamo.V(5, 6) || pc.SpawnPerTick != 2 {
		t.Errorf("unexpected config %+v", pc)
	}
	if pc.Velocity.Kind != particles.Gaussian {
		t.Errorf("velocity kind = %v", pc.Velocity.Kind)
	}
	if len(pc.Shapes) != 2 || pc.Shapes[1] != particles.Point {
		t.Errorf("shapes = %v", pc.Shapes)
	}
	if pc.Boundary.Mode != boundary.Bounce || pc.Boundary.Width != 640 {
		t.Errorf("boundary = %+v", pc.Boundary)
	}
}
