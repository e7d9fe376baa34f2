package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

const (
	plotWidth   = 60
	plotHeight  = 14
	replayTicks = 200
	tickEvery   = time.Second / 30
)

type TickMsg time.Time

// Field is one line of run information shown beside the plot.
type Field struct {
	Label, Value string
}

// Viewer browses a solved trajectory.
type Viewer struct {
	title     string
	sol       *dynamo.Solution
	info      []Field
	metrics   map[string]float64
	component int
	cursor    int
	playing   bool
	phase     bool
	showHelp  bool
	theme     int
	width     int
}

// NewViewer opens sol with the cursor on the last sample.
func NewViewer(title string, sol *dynamo.Solution, info []Field, metrics map[string]float64) Viewer {
	cursor := sol.Len() - 1
	if cursor < 0 {
		cursor = 0
	}
	return Viewer{
		title:   title,
		sol:     sol,
		info:    info,
		metrics: metrics,
		cursor:  cursor,
		width:   plotWidth,
	}
}

func (v Viewer) Init() tea.Cmd { return nil }

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)
	case tea.WindowSizeMsg:
		v.width = msg.Width
	case TickMsg:
		if !v.playing {
			return v, nil
		}
		v.cursor += v.stride()
		if last := v.sol.Len() - 1; v.cursor >= last {
			v.cursor = max(last, 0)
			v.playing = false
			return v, nil
		}
		return v, tick()
	}
	return v, nil
}

func (v Viewer) handleKey(msg tea.KeyMsg) (Viewer, tea.Cmd) {
	last := max(v.sol.Len()-1, 0)

	switch msg.String() {
	case "q", "ctrl+c":
		return v, tea.Quit
	case "left", "h":
		v.cursor = max(v.cursor-1, 0)
	case "right", "l":
		v.cursor = min(v.cursor+1, last)
	case "home", "g":
		v.cursor = 0
	case "end", "G":
		v.cursor = last
	case "tab":
		if dim := v.sol.Dim(); dim > 0 {
			v.component = (v.component + 1) % dim
		}
	case "shift+tab":
		if dim := v.sol.Dim(); dim > 0 {
			v.component = (v.component + dim - 1) % dim
		}
	case "p":
		v.phase = !v.phase
	case "t":
		v.theme = (v.theme + 1) % len(Themes)
	case "?":
		v.showHelp = !v.showHelp
	case " ":
		v.playing = !v.playing
		if v.playing {
			if v.cursor >= last {
				v.cursor = 0
			}
			return v, tick()
		}
	}
	return v, nil
}

// stride replays any run in about replayTicks frames.
func (v Viewer) stride() int {
	return max(v.sol.Len()/replayTicks, 1)
}

// Cursor returns the index of the highlighted sample.
func (v Viewer) Cursor() int { return v.cursor }

// Component returns the index of the plotted state component.
func (v Viewer) Component() int { return v.component }

func (v Viewer) Playing() bool { return v.playing }

func (v Viewer) View() string {
	theme := Themes[v.theme]

	if v.sol.Len() == 0 {
		return HeaderStyle(theme).Render(v.title) + "\n\n" + ErrorText.Render("empty trajectory") + "\n"
	}

	left := v.plotView()

	var s strings.Builder
	status := StatusPaused.Render("PAUSED")
	if v.playing {
		status = StatusPlaying.Render("PLAYING")
	}
	s.WriteString(status + "\n\n")

	t, y := v.sol.T[v.cursor], v.sol.Y[v.cursor]
	s.WriteString(MetricLabel.Render("t") + MetricValue.Render(fmt.Sprintf("%.4g", t)) + "\n")
	s.WriteString(MetricLabel.Render("sample") + MetricValue.Render(fmt.Sprintf("%d/%d", v.cursor, v.sol.Len()-1)) + "\n")
	s.WriteString(ProgressBar(float64(v.cursor)/float64(max(v.sol.Len()-1, 1)), 20) + "\n\n")

	for j, val := range y {
		label := fmt.Sprintf("y%d", j)
		line := MetricLabel.Render(label) + MetricValue.Render(fmt.Sprintf("%.6g", val))
		if j == v.component {
			line = lipgloss.NewStyle().Foreground(theme.Accent).Render("> ") + line
		} else {
			line = "  " + line
		}
		s.WriteString(line + "\n")
	}

	if len(v.info) > 0 {
		s.WriteString("\n")
		for _, f := range v.info {
			s.WriteString(MetricLabel.Render(f.Label) + f.Value + "\n")
		}
	}

	if len(v.metrics) > 0 {
		s.WriteString("\n" + HeaderStyle(theme).Render("METRICS") + "\n")
		names := make([]string, 0, len(v.metrics))
		for name := range v.metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s.WriteString(MetricLabel.Render(name) + MetricValue.Render(fmt.Sprintf("%.4g", v.metrics[name])) + "\n")
		}
	}

	s.WriteString("\n" + SparklineChart(v.sol.Component(v.component), 30) + "\n")
	s.WriteString(KeyHint.Render("←→:Step Tab:Component P:Phase SP:Play T:Theme ?:Help Q:Quit"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, PanelStyle(theme).Render(s.String()))
	out := HeaderStyle(theme).Render(strings.ToUpper(v.title)) + "\n" + body
	if v.showHelp {
		out = helpText + "\n" + out
	}
	return out
}

func (v Viewer) plotView() string {
	end := v.cursor + 1

	if v.phase && v.sol.Dim() >= 2 {
		xIdx := v.component
		yIdx := (v.component + 1) % v.sol.Dim()
		c := NewCanvas(plotWidth/2+10, plotHeight)
		c.Plot(v.sol.Component(xIdx)[:end], v.sol.Component(yIdx)[:end])
		caption := fmt.Sprintf("y%d vs y%d", yIdx, xIdx)
		return lipgloss.NewStyle().Padding(0, 2).Render(c.String() + Subtle.Render(caption))
	}

	w := plotWidth
	if v.width > 0 && v.width < plotWidth+50 {
		w = max(v.width-50, 20)
	}

	series := v.sol.Component(v.component)[:end]
	if len(series) < 2 {
		return lipgloss.NewStyle().Padding(0, 2).Render(Subtle.Render("not enough samples to plot"))
	}
	graph := asciigraph.Plot(downsample(series, w),
		asciigraph.Height(plotHeight),
		asciigraph.Width(w),
		asciigraph.Caption(fmt.Sprintf("y%d", v.component)),
	)
	return lipgloss.NewStyle().Padding(0, 2).Render(graph)
}

// downsample keeps at most n evenly spaced values, always including the last.
func downsample(values []float64, n int) []float64 {
	if len(values) <= n || n < 2 {
		return values
	}
	out := make([]float64, n)
	step := float64(len(values)-1) / float64(n-1)
	for i := range out {
		out[i] = values[int(float64(i)*step+0.5)]
	}
	return out
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  ←/→ h/l   - Step one sample         ║
║  Home/End  - First/last sample       ║
║  Tab       - Next component          ║
║  P         - Toggle phase view       ║
║  Space     - Play/Pause replay       ║
║  T         - Cycle themes            ║
║  ?         - Toggle this help        ║
║  Q         - Quit                    ║
╚══════════════════════════════════════╝`
