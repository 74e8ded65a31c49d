package viz

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/forcesim/internal/boundary"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/experiment"
	"github.com/san-kum/forcesim/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("Grid[0][0] = %U, want U+2801", c.Grid[0][0])
	}
	c.Set(1, 3)
	if c.Grid[0][0] != 0x2881 {
		t.Errorf("Grid[0][0] = %U, want U+2881", c.Grid[0][0])
	}
	c.Set(-1, 2)
	c.Set(100, 100)
	if !c.Lit(1, 3) || c.Lit(0, 1) {
		t.Error("Lit disagrees with Set")
	}
	if got := strings.Count(c.String(), "\n"); got != 2 {
		t.Errorf("String has %d rows, want 2", got)
	}
	c.Clear()
	if c.Lit(0, 0) {
		t.Error("Clear left a dot")
	}
}

func TestCanvasShapes(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawCircle(10, 10, 4)
	for _, p := range [][2]int{{14, 10}, {6, 10}, {10, 14}, {10, 6}} {
		if !c.Lit(p[0], p[1]) {
			t.Errorf("circle misses %v", p)
		}
	}
	if c.Lit(10, 10) {
		t.Error("circle outline lit its centre")
	}

	c.Clear()
	c.DrawLine(0, 0, 5, 5)
	for i := 0; i <= 5; i++ {
		if !c.Lit(i, i) {
			t.Errorf("diagonal misses (%d,%d)", i, i)
		}
	}
}

func TestProjection(t *testing.T) {
	p := Projection{WorldW: 640, WorldH: 480, Cols: 80, Rows: 24}
	x, y := p.ToCanvas(dynamo.V(8, 20))
	if x != 2 || y != 4 {
		t.Errorf("ToCanvas = (%d,%d), want (2,4)", x, y)
	}
	if got := p.Length(40); got != 10 {
		t.Errorf("Length(40) = %d, want 10", got)
	}
	for _, cell := range [][2]int{{0, 0}, {40, 12}, {79, 23}} {
		w := p.ToWorld(cell[0], cell[1])
		sx, sy := p.ToCanvas(w)
		if sx/2 != cell[0] || sy/4 != cell[1] {
			t.Errorf("cell %v maps back to (%d,%d)", cell, sx/2, sy/4)
		}
	}
	if p.Contains(80, 0) || p.Contains(-1, 3) || !p.Contains(0, 23) {
		t.Error("Contains bounds wrong")
	}
}

func newWorld(t *testing.T) *sim.Simulation {
	t.Helper()
	s, err := sim.New(sim.Config{
		Width: 640, Height: 480,
		Boundary: boundary.Policy{Mode: boundary.None, Width: 640, Height: 480},
	}, dynamo.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	s.AddEntity(&dynamo.Entity{Position: dynamo.V(320, 240), Mass: 1, Radius: 40})
	return s
}

func TestDrawFrame(t *testing.T) {
	s, err := sim.New(sim.Config{Width: 640, Height: 480}, dynamo.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	s.AddEntity(&dynamo.Entity{Position: dynamo.V(8, 20), Mass: 1})
	c := NewCanvas(80, 24)
	Draw(c, Projection{WorldW: 640, WorldH: 480, Cols: 80, Rows: 24}, s.Frame())
	if !c.Lit(2, 4) {
		t.Error("point entity not drawn")
	}
	if !c.Lit(0, 50) || !c.Lit(159, 50) {
		t.Error("border not drawn")
	}
}

func TestModelDrag(t *testing.T) {
	m, err := NewModel("drag", func() (*sim.Simulation, error) { return newWorld(t), nil })
	if err != nil {
		t.Fatal(err)
	}
	send := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(Model)
	}

	// Cell (40,12) is world (324,250), inside the body.
	send(tea.MouseMsg{X: 40 + canvasPadX, Y: 12 + canvasPadY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	send(TickMsg{})
	if e := m.Frame().Entities[0]; !e.Pinned {
		t.Fatal("press on body did not grab it")
	}

	send(tea.MouseMsg{X: 50 + canvasPadX, Y: 12 + canvasPadY, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	send(TickMsg{})
	e := m.Frame().Entities[0]
	if math.Abs(e.Position.X-400) > 1e-9 || math.Abs(e.Position.Y-240) > 1e-9 {
		t.Errorf("dragged body at %v, want (400,240)", e.Position)
	}

	send(tea.MouseMsg{X: 200, Y: 200, Action: tea.MouseActionRelease})
	send(TickMsg{})
	if m.Frame().Entities[0].Pinned {
		t.Error("release did not drop the body")
	}
}

func TestModelKeys(t *testing.T) {
	m, err := NewModel("keys", func() (*sim.Simulation, error) { return newWorld(t), nil })
	if err != nil {
		t.Fatal(err)
	}
	send := func(k string) {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		m = next.(Model)
	}

	for i := 0; i < 5; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	if m.Frame().Tick != 5 {
		t.Fatalf("tick = %d, want 5", m.Frame().Tick)
	}

	send(" ")
	if m.Running() {
		t.Fatal("space did not pause")
	}
	next, _ := m.Update(TickMsg{})
	m = next.(Model)
	if m.Frame().Tick != 5 {
		t.Error("paused model stepped on tick")
	}
	send(".")
	if m.Frame().Tick != 6 {
		t.Error("single step did not advance")
	}

	send("r")
	if m.Frame().Tick != 0 {
		t.Errorf("reset left tick at %d", m.Frame().Tick)
	}

	before := m.theme.Name
	send("t")
	if m.theme.Name == before {
		t.Error("theme did not change")
	}
	if !strings.Contains(m.View(), "KEYS") {
		t.Error("view lacks the scene title")
	}
}

func TestThemeCycle(t *testing.T) {
	th := GetTheme("missing")
	seen := map[string]bool{}
	for range ThemeNames() {
		seen[th.Name] = true
		th = th.Next()
	}
	if len(seen) != len(ThemeNames()) || th.Name != GetTheme("").Name {
		t.Errorf("Next visited %v", seen)
	}
}

func TestGauge(t *testing.T) {
	g := NewGauge("n", fps)
	g.Set(10)
	for i := 0; i < 600; i++ {
		g.Update()
	}
	if math.Abs(g.Value()-10) > 0.01 {
		t.Errorf("gauge settled at %v, want 10", g.Value())
	}
	g.Reset()
	if g.Value() != 0 || g.Target() != 0 {
		t.Error("Reset kept state")
	}
}

func TestGIFRecorder(t *testing.T) {
	r := NewGIFRecorder(color.White)
	path := filepath.Join(t.TempDir(), "out.gif")
	if err := r.Save(path); err == nil {
		t.Error("saving with no frames should fail")
	}

	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	r.Capture(c)
	r.Capture(c)
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("gif not written: %v", err)
	}
}

func TestAppMenu(t *testing.T) {
	a := NewApp(experiment.NewRegistry())
	first := a.Selected()
	a.Update(tea.KeyMsg{Type: tea.KeyDown})
	if a.Selected() == first {
		t.Error("down did not move the cursor")
	}
	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.live == nil {
		t.Fatalf("enter did not open %s: %v", a.Selected(), a.err)
	}
	a.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if a.live != nil {
		t.Error("esc did not return to the menu")
	}
	if !strings.Contains(a.View(), "FORCESIM") {
		t.Error("menu view lacks title")
	}
}
