package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/trajprox/internal/analysis"
	"github.com/san-kum/trajprox/internal/proximity"
	"github.com/san-kum/trajprox/internal/traj"
)

type TickMsg time.Time

// Inspector steps through the nodes of a trajectory. It never mutates the
// trajectory or the series it is given.
type Inspector struct {
	name      string
	traj      *traj.Trajectory
	dt        float64
	series    *proximity.Series
	threshold float64

	node      int
	playing   bool
	theme     int
	width     int
	showPhase bool
	joint     int
}

func NewInspector(name string, t *traj.Trajectory, dt float64, series *proximity.Series, threshold float64) Inspector {
	if series == nil {
		series = proximity.NewSeries()
	}
	return Inspector{name: name, traj: t, dt: dt, series: series, threshold: threshold, width: 80}
}

func (m Inspector) Node() int { return m.node }

func (m Inspector) Playing() bool { return m.playing }

// Joint is the joint whose phase portrait is shown.
func (m Inspector) Joint() int { return m.joint }

// Configurations is the configuration sequence being played back.
func (m Inspector) Configurations() []traj.Vector {
	return traj.Configurations(m.traj)
}

func (m Inspector) Init() tea.Cmd { return nil }

func (m Inspector) tick() tea.Cmd {
	d := time.Duration(m.dt * float64(time.Second))
	if d <= 0 {
		d = 50 * time.Millisecond
	}
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Inspector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	last := max(m.traj.Len()-1, 0)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.node = max(m.node-1, 0)
		case "right", "l":
			m.node = min(m.node+1, last)
		case "home", "g":
			m.node = 0
		case "end", "G":
			m.node = last
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "p":
			m.showPhase = !m.showPhase
		case "j":
			if m.traj.Dims.Config > 0 {
				m.joint = (m.joint + 1) % m.traj.Dims.Config
			}
		case " ":
			m.playing = !m.playing
			if m.playing {
				if m.node == last {
					m.node = 0
				}
				return m, m.tick()
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case TickMsg:
		if !m.playing {
			return m, nil
		}
		if m.node >= last {
			m.playing = false
			return m, nil
		}
		m.node++
		return m, m.tick()
	}
	return m, nil
}

func (m Inspector) View() string {
	th := Themes[m.theme]
	accent := lipgloss.NewStyle().Foreground(th.Accent).Bold(true)
	muted := lipgloss.NewStyle().Foreground(th.Muted)

	var sb strings.Builder
	n := m.traj.Len()
	sb.WriteString(accent.Render(m.name))
	if n == 0 {
		sb.WriteString("\n" + muted.Render("empty trajectory") + "\n")
		sb.WriteString(KeyHint.Render("q quit") + "\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "  node %d/%d  t=%.3fs\n", m.node+1, n, float64(m.node)*m.dt)
	barWidth := max(min(m.width-10, 60), 10)
	sb.WriteString(ProgressBar(float64(m.node)/float64(max(n-1, 1)), barWidth) + "\n\n")

	node := m.traj.Nodes[m.node]
	sb.WriteString(MetricLabel.Render("q ") + formatVector(node.Q) + "\n")
	sb.WriteString(MetricLabel.Render("v ") + formatVector(node.V) + "\n")
	sb.WriteString(Separator(barWidth) + "\n")

	labelWidth := 0
	for _, label := range m.series.Labels() {
		labelWidth = max(labelWidth, len(label))
	}
	for _, label := range m.series.Labels() {
		values, _ := m.series.Get(label)
		if m.node >= len(values) {
			continue
		}
		d := values[m.node]
		fmt.Fprintf(&sb, "%-*s %s  %s\n", labelWidth, label,
			th.level(d, m.threshold).Render(fmt.Sprintf("%9.4f", d)),
			Sparkline(values, 30))
	}

	if m.showPhase {
		if portrait := analysis.JointPhase(m.traj, m.joint); portrait != nil {
			sb.WriteString("\n" + MetricLabel.Render(fmt.Sprintf("joint %d phase (q, v)", m.joint)) + "\n")
			sb.WriteString(portrait.ToASCII(40, 10))
		}
	}

	sb.WriteString("\n" + KeyHint.Render("←/→ step  home/end jump  space play  p phase  j joint  t theme ("+th.Name+")  q quit") + "\n")
	return sb.String()
}

func formatVector(v traj.Vector) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%+.3f", x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
