package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/physics"
)

const (
	canvasWidth     = 72
	canvasHeight    = 22
	historyCapacity = 400
	trailCapacity   = 300
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the bubbletea model for the live double pendulum view.
type Model struct {
	dp         *physics.DoublePendulum
	integrator dynamo.Integrator

	state        dynamo.State
	initialState dynamo.State
	t            float64
	dt           float64

	canvas        *Canvas
	trail         [][2]int
	energyHistory []float64
	initialEnergy float64

	running       bool
	stepsPerFrame int
	fps           int
}

// NewModel initializes the live view with a fresh trajectory.
func NewModel(dp *physics.DoublePendulum, integ dynamo.Integrator, initState []float64, dt float64, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	state := dynamo.State(initState).Clone()
	return Model{
		dp:            dp,
		integrator:    integ,
		state:         state,
		initialState:  state.Clone(),
		dt:            dt,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		trail:         make([][2]int, 0, trailCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		initialEnergy: dp.Energy(state),
		running:       true,
		stepsPerFrame: 4,
		fps:           fps,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			if m.stepsPerFrame < 64 {
				m.stepsPerFrame *= 2
			}
		case "-":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		case "r":
			m.state = m.initialState.Clone()
			m.t = 0
			m.trail = m.trail[:0]
			m.energyHistory = m.energyHistory[:0]
		}
		return m, nil

	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerFrame; i++ {
				next := m.integrator.Step(m.dp, m.state, m.t, m.dt)
				if !next.IsValid() {
					m.running = false
					break
				}
				m.state = next
				m.t += m.dt
			}
			m.energyHistory = append(m.energyHistory, m.dp.Energy(m.state))
			if len(m.energyHistory) > historyCapacity {
				m.energyHistory = m.energyHistory[1:]
			}

			_, _, x2, y2 := m.dp.Positions(m.state)
			px, py := m.toSubpixel(x2, y2)
			m.trail = append(m.trail, [2]int{px, py})
			if len(m.trail) > trailCapacity {
				m.trail = m.trail[1:]
			}
		}
		return m, m.tick()
	}

	return m, nil
}

// toSubpixel maps world coordinates to canvas sub-pixels.
func (m Model) toSubpixel(wx, wy float64) (int, int) {
	reach := m.dp.L1 + m.dp.L2
	subW, subH := canvasWidth*2, canvasHeight*4
	scale := float64(subH) * 0.45 / reach
	return subW/2 + int(wx*scale), subH/2 - int(wy*scale)
}

func (m Model) View() string {
	m.canvas.Clear()

	x1, y1, x2, y2 := m.dp.Positions(m.state)
	px0, py0 := m.toSubpixel(0, 0)
	px1, py1 := m.toSubpixel(x1, y1)
	px2, py2 := m.toSubpixel(x2, y2)

	for _, p := range m.trail {
		m.canvas.Set(p[0], p[1])
	}

	m.canvas.Line(px0, py0, px1, py1)
	m.canvas.Line(px1, py1, px2, py2)
	m.canvas.Circle(px1, py1, 2)
	m.canvas.Circle(px2, py2, 2)

	stats := m.renderStats()
	view := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(stats),
	)

	help := helpStyle.Render("space pause · +/- speed · r reset · q quit")
	return view + "\n" + help
}

func (m Model) renderStats() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("double pendulum"))
	b.WriteByte('\n')

	row := func(label string, format string, args ...any) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(fmt.Sprintf(format, args...)))
		b.WriteByte('\n')
	}

	row("t", "%.2f s", m.t)
	row("theta1", "%.3f rad", wrapAngle(m.state[0]))
	row("theta2", "%.3f rad", wrapAngle(m.state[1]))
	row("omega1", "%.3f rad/s", m.state[2])
	row("omega2", "%.3f rad/s", m.state[3])

	energy := m.dp.Energy(m.state)
	row("energy", "%.4f J", energy)
	if m.initialEnergy != 0 {
		drift := math.Abs(energy-m.initialEnergy) / math.Abs(m.initialEnergy)
		row("drift", "%.2e", drift)
	}
	row("speed", "%dx", m.stepsPerFrame)
	if !m.running {
		b.WriteString(headerStyle.Render("paused"))
		b.WriteByte('\n')
	}

	if len(m.energyHistory) > 2 {
		graph := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(6),
			asciigraph.Width(30),
			asciigraph.Caption("energy"),
		)
		b.WriteString(graphStyle.Render(graph))
	}

	return b.String()
}

func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
