package viz

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/demsim/internal/dem"
	"github.com/san-kum/demsim/internal/experiment"
	"github.com/san-kum/demsim/internal/metrics"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 600
)

// FrameMsg carries a copy of the particle state at one snapshot.
type FrameMsg struct {
	Time      float64
	Particles []dem.Particle
	Stats     dem.Stats
}

// DoneMsg reports that the simulation goroutine has returned.
type DoneMsg struct {
	Err error
}

// Model shows the most recent snapshot of a running simulation. It never
// touches the simulator itself; state arrives as FrameMsg.
type Model struct {
	name    string
	tMax    float64
	walls   []dem.Wall
	canvas  *Canvas
	view    viewport
	plane   Plane
	frame   FrameMsg
	kinetic []float64
	frozen  bool
	done    bool
	err     error
}

func NewModel(name string, walls []dem.Wall, initial []dem.Particle, tMax float64) Model {
	return Model{
		name:    name,
		tMax:    tMax,
		walls:   walls,
		canvas:  NewCanvas(width, height),
		view:    fit(initial),
		frame:   FrameMsg{Particles: initial},
		kinetic: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.frozen = !m.frozen
		case "p":
			m.plane = (m.plane + 1) % 2
		case "f":
			m.view = fit(m.frame.Particles)
		}
	case FrameMsg:
		if m.frozen {
			return m, nil
		}
		m.frame = msg
		if len(m.kinetic) == historyCapacity {
			m.kinetic = append(m.kinetic[:0], m.kinetic[1:]...)
		}
		m.kinetic = append(m.kinetic, metrics.KineticEnergy(msg.Particles))
	case DoneMsg:
		m.done = true
		m.err = msg.Err
	}
	return m, nil
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("STOPPED: " + m.err.Error())
	case m.done:
		return StatusRunning.Render("DONE")
	case m.frozen:
		return StatusPaused.Render("FROZEN")
	}
	return StatusRunning.Render("RUNNING")
}

func (m Model) View() string {
	drawScene(m.canvas, m.view, m.plane, m.walls, m.frame.Particles)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.4g / %.4g", m.frame.Time, m.tMax))
	if m.tMax > 0 {
		s.WriteString(ProgressBar(m.frame.Time/m.tMax, 30) + "\n")
	}
	row("Particles", fmt.Sprintf("%d", len(m.frame.Particles)))
	row("Steps", fmt.Sprintf("%d", m.frame.Stats.Steps))
	row("Snapshots", fmt.Sprintf("%d", m.frame.Stats.Snapshots))
	row("Contacts", fmt.Sprintf("%d wall, %d pair", m.frame.Stats.WallContacts, m.frame.Stats.PairContacts))
	if n := len(m.kinetic); n > 0 {
		row("Kinetic", fmt.Sprintf("%.4g", m.kinetic[n-1]))
	}
	row("Plane", m.plane.String())

	if len(m.kinetic) > 1 {
		chart := asciigraph.Plot(m.kinetic, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Freeze P:Plane F:Fit Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Live runs exp in a background goroutine and shows it until the user
// quits. Quitting early cancels the simulation, so the returned error then
// wraps dem.ErrCanceled. Snapshots still stream to out when it is non-nil.
func Live(ctx context.Context, exp *experiment.Experiment, out io.Writer, opts ...tea.ProgramOption) (*experiment.Result, error) {
	sim := exp.GetSimulator()
	m := NewModel(exp.Config().Name, sim.Walls(), sim.Particles(), sim.Params().TMax)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, opts...)

	exp.AddObserver(dem.ObserverFunc(func(t float64, ps []dem.Particle) {
		p.Send(FrameMsg{Time: t, Particles: slices.Clone(ps), Stats: sim.Stats()})
	}))

	type outcome struct {
		res *experiment.Result
		err error
	}
	finished := make(chan outcome, 1)
	go func() {
		res, err := exp.Run(ctx, out)
		finished <- outcome{res, err}
		p.Send(DoneMsg{Err: err})
	}()

	_, uiErr := p.Run()
	cancel()
	o := <-finished

	if uiErr != nil {
		return o.res, uiErr
	}
	return o.res, o.err
}
