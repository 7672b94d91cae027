package tui

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/galkin/internal/analysis"
	"github.com/san-kum/galkin/internal/config"
	"github.com/san-kum/galkin/internal/experiment"
	"github.com/san-kum/galkin/internal/qdf"
	"github.com/san-kum/galkin/internal/quadrature"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

var presetInfo = map[string]string{
	"fiducial":  "thin disk, staeckel actions",
	"staeckel":  "fiducial, finer grid",
	"adiabatic": "fiducial, adiabatic actions",
	"warm":      "hotter disk",
	"thick":     "long scale length, flaring",
}

const (
	step        = 0.05
	minR        = 0.1
	sampleCount = 400
)

type state int

const (
	stateMenu state = iota
	stateConfig
	stateExplore
)

type model struct {
	state    state
	cursor   int
	presets  []string
	selected string
	reg      *experiment.Registry

	params      map[string]float64
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string

	exp     *experiment.Experiment
	R, z    float64
	method  quadrature.Method
	seq     int
	busy    bool
	moments qdf.MomentSet
	err     error
	elapsed time.Duration
	history []float64
	samples [][3]float64

	width  int
	height int
}

type momentsMsg struct {
	seq     int
	moments qdf.MomentSet
	err     error
	elapsed time.Duration
}

type samplesMsg struct {
	seq     int
	samples [][3]float64
	err     error
}

// NewExplorer returns the explorer model. Potentials and transforms are
// resolved through reg.
func NewExplorer(reg *experiment.Registry) *model {
	return &model{
		state:      stateMenu,
		presets:    config.ListPresets(),
		reg:        reg,
		params:     make(map[string]float64),
		paramNames: []string{"hr", "sigma_r", "sigma_z", "hsigma_r", "hsigma_z", "delta", "R", "z"},
		R:          1,
		history:    make([]float64, 0, 60),
		width:      80,
		height:     24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case momentsMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.busy = false
		m.moments, m.err, m.elapsed = msg.moments, msg.err, msg.elapsed
		if msg.err == nil {
			m.history = append(m.history, msg.moments.MeanVT)
			if len(m.history) > 60 {
				m.history = m.history[1:]
			}
		}
		return m, nil
	case samplesMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.busy = false
		m.samples, m.err = msg.samples, msg.err
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateExplore:
		return m.exploreKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.state = stateConfig
		m.paramCursor = 0
		m.setParamsForPreset()
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				m.params[m.paramNames[m.paramCursor]] = val
			}
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = fmt.Sprintf("%.3f", m.params[m.paramNames[m.paramCursor]])
	case "s":
		if err := m.start(); err != nil {
			m.err = err
			return m, nil
		}
		m.state = stateExplore
		cmd := m.compute()
		return m, tea.Batch(tea.ClearScreen, cmd)
	case "left", "h":
		m.params[m.paramNames[m.paramCursor]] -= 0.01
	case "right", "l":
		m.params[m.paramNames[m.paramCursor]] += 0.01
	}
	return m, nil
}

func (m model) exploreKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
		m.reset()
		return m, tea.ClearScreen
	case "c":
		m.state = stateConfig
		m.params["R"], m.params["z"] = m.R, m.z
		m.reset()
		return m, tea.ClearScreen
	case "left", "h":
		m.R = math.Max(m.R-step, minR)
	case "right", "l":
		m.R += step
	case "up", "k":
		m.z += step
	case "down", "j":
		m.z -= step
	case "m":
		if m.method == quadrature.GL {
			m.method = quadrature.MC
		} else {
			m.method = quadrature.GL
		}
	case "s":
		cmd := m.sample()
		return m, cmd
	default:
		return m, nil
	}
	m.samples = nil
	cmd := m.compute()
	return m, cmd
}

func (m *model) setParamsForPreset() {
	cfg := config.GetPreset(m.selected)
	m.params["hr"] = cfg.DF.Hr
	m.params["sigma_r"] = cfg.DF.SigmaR
	m.params["sigma_z"] = cfg.DF.SigmaZ
	m.params["hsigma_r"] = cfg.DF.HsigmaR
	m.params["hsigma_z"] = cfg.DF.HsigmaZ
	m.params["delta"] = cfg.ActionAngle.Delta
	m.params["R"] = 1
	m.params["z"] = cfg.Profile.Z
	m.err = nil
}

func (m *model) start() error {
	cfg := config.GetPreset(m.selected)
	for _, name := range m.paramNames {
		if name == "R" || name == "z" {
			continue
		}
		if err := cfg.Set(name, m.params[name]); err != nil {
			return err
		}
	}

	// Log output would tear the alternate screen.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	exp, err := experiment.New(cfg, m.reg, logger)
	if err != nil {
		return err
	}

	m.exp = exp
	m.R = math.Max(m.params["R"], minR)
	m.z = m.params["z"]
	m.method = cfg.Method()
	m.history = make([]float64, 0, 60)
	m.samples = nil
	m.err = nil
	return nil
}

func (m *model) reset() {
	m.exp = nil
	m.busy = false
	m.history = nil
	m.samples = nil
	m.seq++
}

// compute returns a command that evaluates the moments at the current
// position. Results from superseded requests are dropped in Update.
func (m *model) compute() tea.Cmd {
	m.seq++
	m.busy = true
	exp, R, z, method, seq := m.exp, m.R, m.z, m.method, m.seq

	return func() tea.Msg {
		start := time.Now()
		opts := exp.MomentOptions()
		if method == quadrature.MC {
			opts = append(opts, qdf.MC(exp.Config().Quadrature.NMC))
		} else {
			opts = append(opts, qdf.GL(exp.Config().Quadrature.NGL))
		}
		set, err := exp.DF().Moments(R, z, opts...)
		return momentsMsg{seq: seq, moments: set, err: err, elapsed: time.Since(start)}
	}
}

func (m *model) sample() tea.Cmd {
	m.seq++
	m.busy = true
	exp, R, z, seq := m.exp, m.R, m.z, m.seq

	return func() tea.Msg {
		s, err := exp.DF().SampleV(R, z, sampleCount, quadrature.NewSource(uint64(seq)))
		return samplesMsg{seq: seq, samples: s, err: err}
	}
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateExplore:
		return m.viewExplore()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("            " + cyan.Render("g a l k i n") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter configure   q quit") + "\n")

	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.selected) + "  " + dim.Render(presetInfo[m.selected]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	for i, name := range m.paramNames {
		val := fmt.Sprintf("%8.3f", m.params[name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%8s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", name)) + dim.Render(val) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n      " + red.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  s explore  esc back") + "\n")

	return b.String()
}

func (m model) viewExplore() string {
	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render(fmt.Sprintf("%s %.0fms", m.method, float64(m.elapsed.Microseconds())/1000))
	if m.busy {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("computing")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  R=%s z=%s  %s\n\n",
		statusIcon, cyan.Render(m.selected),
		white.Render(fmt.Sprintf("%.2f", m.R)), white.Render(fmt.Sprintf("%+.2f", m.z)), statusText))

	if m.err != nil {
		b.WriteString("   " + red.Render(m.err.Error()) + "\n")
	} else {
		s := m.moments
		rows := []struct {
			label string
			value float64
		}{
			{"density", s.Density},
			{"⟨vR⟩", s.MeanVR}, {"⟨vT⟩", s.MeanVT}, {"⟨vz⟩", s.MeanVz},
			{"σR", math.Sqrt(s.SigmaR2)}, {"σT", math.Sqrt(s.SigmaT2)}, {"σz", math.Sqrt(s.Sigmaz2)},
			{"σRz", s.SigmaRz}, {"tilt°", s.Tilt},
		}
		for _, r := range rows {
			b.WriteString("   " + dim.Render(fmt.Sprintf("%-8s", r.label)) + white.Render(fmt.Sprintf("%12.5g", r.value)) + "\n")
		}
	}

	if len(m.history) > 1 {
		b.WriteString(fmt.Sprintf("\n   %s %s\n", dim.Render("⟨vT⟩"), cyan.Render(sparkline(m.history, 24))))
	}

	if len(m.samples) > 0 {
		w := max(m.width-10, 30)
		h := max(m.height-24, 8)
		plot := analysis.ScatterToASCII(analysis.VelocityScatter(m.samples, 0, 1), w, h)
		for _, line := range strings.Split(strings.TrimRight(plot, "\n"), "\n") {
			b.WriteString("   " + magenta.Render(line) + "\n")
		}
	}

	b.WriteString("\n" + dim.Render("   ←→ R  ↑↓ z  m gl/mc  s sample  c config  q quit") + "\n")

	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	stride := max(len(data)/width, 1)
	var sb strings.Builder
	for i := 0; i < width && i*stride < len(data); i++ {
		idx := int((data[i*stride] - minVal) / rang * 7)
		sb.WriteRune(chars[min(max(idx, 0), 7)])
	}
	return sb.String()
}

// RunExplorer starts the explorer on the alternate screen.
func RunExplorer(reg *experiment.Registry) error {
	p := tea.NewProgram(NewExplorer(reg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
