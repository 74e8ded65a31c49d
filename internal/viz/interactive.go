package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/experiment"
	"github.com/san-kum/forcesim/internal/sim"
)

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00b4d8")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4a6f8a"))
	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#90e0ef")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#557788"))
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#48cae4")).Bold(true)
)

// SceneBuilder returns a BuildFunc that rebuilds cfg from its own seed.
func SceneBuilder(cfg *config.Config, opts ...sim.Option) BuildFunc {
	return func() (*sim.Simulation, error) {
		return experiment.Build(cfg, dynamo.NewRand(cfg.Seed), opts...)
	}
}

// App is the scene picker. Choosing a scene hands the screen to a live
// Model; esc returns to the list.
type App struct {
	registry *experiment.Registry
	scenes   []string
	info     map[string]string
	cursor   int
	live     *Model
	err      error
}

func NewApp(reg *experiment.Registry) *App {
	a := &App{registry: reg, scenes: reg.ListScenes(), info: make(map[string]string)}
	for _, name := range a.scenes {
		if cfg, err := reg.GetScene(name); err == nil {
			a.info[name] = describe(cfg)
		}
	}
	return a
}

func describe(cfg *config.Config) string {
	entities := 0
	for _, e := range cfg.Entities {
		entities += e.N()
	}
	parts := []string{fmt.Sprintf("%d bodies", entities)}
	if n := len(cfg.Fields); n > 0 {
		parts = append(parts, fmt.Sprintf("%d fields", n))
	}
	if n := len(cfg.Systems); n > 0 {
		parts = append(parts, fmt.Sprintf("%d emitters", n))
	}
	if cfg.Mutual != nil {
		parts = append(parts, "mutual")
	}
	if cfg.SpawnOnClick != nil {
		parts = append(parts, "click to spawn")
	}
	return strings.Join(parts, ", ")
}

func (a *App) Selected() string { return a.scenes[a.cursor] }

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.live != nil {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			a.live = nil
			return a, nil
		}
		next, cmd := a.live.Update(msg)
		lm := next.(Model)
		a.live = &lm
		return a, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch k.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.scenes)-1 {
			a.cursor++
		}
	case "enter":
		return a, a.start()
	}
	return a, nil
}

func (a *App) start() tea.Cmd {
	name := a.Selected()
	cfg, err := a.registry.GetScene(name)
	if err != nil {
		a.err = err
		return nil
	}
	m, err := NewModel(name, SceneBuilder(cfg))
	if err != nil {
		a.err = err
		return nil
	}
	a.err = nil
	a.live = &m
	return m.Init()
}

func (a *App) View() string {
	if a.live != nil {
		return a.live.View()
	}
	var b strings.Builder
	b.WriteString("\n    " + menuTitle.Render("FORCESIM") + "\n")
	b.WriteString("    " + menuSub.Render("forces, particles and a mouse") + "\n\n")
	for i, name := range a.scenes {
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-26s", name)), menuSub.Render(a.info[name])))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n", menuIdle.Render(fmt.Sprintf("%-26s", name)), menuSub.Render(a.info[name])))
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + menuCursor.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuSub.Render(" move  ") +
		menuKey.Render("enter") + menuSub.Render(" open  ") +
		menuKey.Render("esc") + menuSub.Render(" back  ") +
		menuKey.Render("q") + menuSub.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive opens the scene picker.
func RunInteractive(reg *experiment.Registry) error {
	_, err := tea.NewProgram(NewApp(reg), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
