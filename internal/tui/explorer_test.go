package tui

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/galkin/internal/experiment"
	"github.com/san-kum/galkin/internal/qdf"
	"github.com/san-kum/galkin/internal/quadrature"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMenuToConfig(t *testing.T) {
	m := *NewExplorer(experiment.NewRegistry())

	m, _ = m.handleKey(key("enter"))
	if m.state != stateConfig {
		t.Fatalf("expected config state, got %d", m.state)
	}
	if m.selected != m.presets[0] {
		t.Errorf("expected %s selected, got %s", m.presets[0], m.selected)
	}
	if m.params["hr"] <= 0 {
		t.Errorf("expected preset hr, got %f", m.params["hr"])
	}
	if !strings.Contains(m.View(), m.selected) {
		t.Error("expected config view to name the preset")
	}
}

func TestExploreMovesAndDropsStaleResults(t *testing.T) {
	m := *NewExplorer(experiment.NewRegistry())
	m, _ = m.handleKey(key("enter"))

	m, cmd := m.handleKey(key("s"))
	if m.state != stateExplore || cmd == nil {
		t.Fatalf("expected explore state with a pending command, got %d", m.state)
	}
	first := m.seq

	m, cmd = m.handleKey(key("right"))
	if cmd == nil || math.Abs(m.R-(1+step)) > 1e-12 {
		t.Errorf("expected R %f with a command, got %f", 1+step, m.R)
	}

	updated, _ := m.Update(momentsMsg{seq: first, moments: qdf.MomentSet{MeanVT: 0.5}})
	if got := updated.(model); !got.busy || len(got.history) != 0 {
		t.Error("expected stale result to be ignored")
	}

	updated, _ = m.Update(momentsMsg{seq: m.seq, moments: qdf.MomentSet{MeanVT: 0.9}})
	got := updated.(model)
	if got.busy || got.moments.MeanVT != 0.9 || len(got.history) != 1 {
		t.Errorf("expected current result to be applied, got %+v", got.moments)
	}

	got, _ = got.handleKey(key("m"))
	if got.method != quadrature.MC {
		t.Errorf("expected mc after toggle, got %s", got.method)
	}
	if !strings.Contains(got.View(), "computing") {
		t.Error("expected busy indicator")
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline([]float64{0, 1}, 10); got != "▁█" {
		t.Errorf("expected ▁█, got %s", got)
	}
	if sparkline(nil, 10) != "" {
		t.Error("expected empty sparkline")
	}
}
