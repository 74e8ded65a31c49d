package viz

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/forcesim/internal/sim"
)

const (
	cols            = 80
	rows            = 24
	fps             = 60
	historyCapacity = 600
	panelWidth      = 46
	canvasPadX      = 2
	canvasPadY      = 1
	gifPath         = "forcesim.gif"
)

// BuildFunc constructs a fresh simulation. The viewer calls it on start and
// on every reset.
type BuildFunc func() (*sim.Simulation, error)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a simulation once per frame and draws it on a braille canvas.
// The left mouse button drives the simulation's pointer.
type Model struct {
	name      string
	build     BuildFunc
	sim       *sim.Simulation
	frame     sim.Frame
	canvas    *Canvas
	proj      Projection
	theme     Theme
	styles    styles
	running   bool
	showHelp  bool
	pointer   sim.Pointer
	particles *Gauge
	speed     *Gauge
	partHist  []float64
	speedHist []float64
	rec       *GIFRecorder
	status    string
}

func NewModel(name string, build BuildFunc) (Model, error) {
	s, err := build()
	if err != nil {
		return Model{}, err
	}
	cfg := s.Config()
	m := Model{
		name:      name,
		build:     build,
		sim:       s,
		canvas:    NewCanvas(cols, rows),
		proj:      Projection{WorldW: cfg.Width, WorldH: cfg.Height, Cols: cols, Rows: rows},
		theme:     themes[0],
		styles:    newStyles(themes[0]),
		running:   true,
		particles: NewGauge("particles", fps),
		speed:     NewGauge("speed", fps),
		partHist:  make([]float64, 0, historyCapacity),
		speedHist: make([]float64, 0, historyCapacity),
	}
	m.refresh()
	return m, nil
}

// Simulation returns the simulation currently on screen.
func (m Model) Simulation() *sim.Simulation { return m.sim }
func (m Model) Running() bool               { return m.running }
func (m Model) Frame() sim.Frame            { return m.frame }

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "t":
			m.theme = m.theme.Next()
			m.styles = newStyles(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		m.particles.Update()
		m.speed.Update()
		if m.rec != nil {
			m.rec.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

// mouse maps a terminal mouse event to the simulation pointer. A release
// anywhere ends a drag; other events off the canvas are ignored.
func (m *Model) mouse(msg tea.MouseMsg) {
	col, row := msg.X-canvasPadX, msg.Y-canvasPadY
	p := m.pointer
	switch {
	case msg.Action == tea.MouseActionRelease:
		p.Pressed = false
	case !m.proj.Contains(col, row):
		return
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		p.Pressed, p.Clicked = true, true
	case msg.Action == tea.MouseActionPress:
		return
	}
	if m.proj.Contains(col, row) {
		pos := m.proj.ToWorld(col, row)
		p.X, p.Y = pos.X, pos.Y
	}
	m.sim.SetPointer(p)
	p.Clicked = false
	m.pointer = p
}

func (m *Model) step() {
	m.sim.Step()
	m.refresh()
}

// refresh copies the world into the frame buffer, redraws the canvas and
// feeds the HUD.
func (m *Model) refresh() {
	m.sim.FrameInto(&m.frame)
	Draw(m.canvas, m.proj, m.frame)

	n := float64(len(m.frame.Particles))
	speed := meanSpeed(m.frame)
	m.particles.Set(n)
	m.speed.Set(speed)
	m.partHist = pushHistory(m.partHist, n)
	m.speedHist = pushHistory(m.speedHist, speed)
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func meanSpeed(f sim.Frame) float64 {
	if len(f.Entities) == 0 {
		return 0
	}
	var sum float64
	for _, e := range f.Entities {
		sum += e.Velocity.Len()
	}
	return sum / float64(len(f.Entities))
}

func (m *Model) reset() {
	s, err := m.build()
	if err != nil {
		m.status = "reset failed: " + err.Error()
		return
	}
	m.sim = s
	m.pointer = sim.Pointer{}
	m.partHist = m.partHist[:0]
	m.speedHist = m.speedHist[:0]
	m.particles.Reset()
	m.speed.Reset()
	m.status = ""
	m.refresh()
}

func (m *Model) toggleRecording() {
	if m.rec == nil {
		m.rec = NewGIFRecorder(color.White)
		m.status = ""
		return
	}
	if err := m.rec.Save(gifPath); err != nil {
		m.status = err.Error()
	} else {
		m.status = "saved " + gifPath
	}
	m.rec = nil
}

func (m Model) View() string {
	st := m.styles
	var s strings.Builder

	s.WriteString(st.title.Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.rec != nil:
		s.WriteString(st.recording.Render(fmt.Sprintf("● REC %d", m.rec.Len())))
	case m.running:
		s.WriteString(st.running.Render("RUNNING"))
	default:
		s.WriteString(st.paused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.frame.Tick))
	row("Entities", fmt.Sprintf("%d", len(m.frame.Entities)))
	row("Systems", fmt.Sprintf("%d", len(m.frame.Systems)))
	active := 0
	for _, f := range m.frame.Fields {
		if f.Active {
			active++
		}
	}
	row("Fields", fmt.Sprintf("%d/%d active", active, len(m.frame.Fields)))
	pointer := fmt.Sprintf("%.0f, %.0f", m.pointer.X, m.pointer.Y)
	if m.pointer.Pressed {
		pointer += " ▼"
	}
	row("Pointer", pointer)
	s.WriteString("\n")

	s.WriteString(m.particles.view(st, 16) + "\n")
	s.WriteString(m.speed.view(st, 16) + "\n")

	hist, caption := m.speedHist, "mean speed"
	if len(m.frame.Systems) > 0 {
		hist, caption = m.partHist, "particles"
	}
	if len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption(caption))
		s.WriteString(st.graph.Render(chart) + "\n")
	} else {
		s.WriteString(st.sparkline(hist, 32) + "\n")
	}

	if m.status != "" {
		s.WriteString(st.paused.Render(m.status) + "\n")
	}
	s.WriteString("\n" + st.separator(32) + "\n")
	s.WriteString(st.key.Render("space") + st.muted.Render(" pause  ") +
		st.key.Render("r") + st.muted.Render(" reset  ") +
		st.key.Render("?") + st.muted.Render(" help  ") +
		st.key.Render("q") + st.muted.Render(" quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, st.canvas.Render(m.canvas.String()), st.panel.Render(s.String()))
	if m.showHelp {
		return main + "\n" + st.help.Render(helpText)
	}
	return main
}

const helpText = `space  pause or resume
.      single step while paused
r      rebuild the scene
t      cycle theme
g      start or stop GIF recording
mouse  drag bodies, click to spawn, steer pointer fields
q      quit`

// Run opens the live viewer full screen with mouse tracking.
func Run(name string, build BuildFunc) error {
	m, err := NewModel(name, build)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
