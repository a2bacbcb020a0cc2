package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/hiveplot/pkg/hive"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m MetricPickerModel, keys ...string) (MetricPickerModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(MetricPickerModel)
	}
	return m, cmd
}

func TestMetricPicker(t *testing.T) {
	metrics := []string{"betweenness", "closeness", "degree", "weight"}
	m := NewMetricPickerModel(metrics, 3, hive.DefaultOptions())

	if m.Cursor != 0 {
		t.Errorf("cursor should start on the current axis metric, got %d", m.Cursor)
	}
	if !strings.Contains(m.View(), "Select Axis Metric") {
		t.Error("first step should ask for the axis metric")
	}

	m, _ = press(m, "down", "j", "j")
	if m.Cursor != 3 {
		t.Fatalf("cursor = %d, want 3", m.Cursor)
	}
	m, _ = press(m, "down")
	if m.Cursor != 3 {
		t.Errorf("cursor moved past the end: %d", m.Cursor)
	}

	m, cmd := press(m, "enter")
	if cmd != nil {
		t.Error("choosing the axis metric should not quit")
	}
	if m.Options.AxisMetric != "weight" || m.Step != stepOrder {
		t.Fatalf("after first enter: axis = %q, step = %d", m.Options.AxisMetric, m.Step)
	}
	if m.Cursor != 2 {
		t.Errorf("cursor should jump to the current order metric, got %d", m.Cursor)
	}
	if view := m.View(); !strings.Contains(view, "Select Node Order Metric") || !strings.Contains(view, "attribute") {
		t.Errorf("second step view:\n%s", view)
	}

	m, _ = press(m, "k", "up", "up")
	m, cmd = press(m, "enter")
	if cmd == nil {
		t.Error("choosing the order metric should quit")
	}
	if !m.Done() || m.Options.NodeOrderMetric != "betweenness" {
		t.Errorf("Done = %v, order = %q", m.Done(), m.Options.NodeOrderMetric)
	}
	if m.View() != "" {
		t.Error("a finished picker renders nothing")
	}
}

func TestMetricPickerCancel(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		t.Run(k, func(t *testing.T) {
			m := NewMetricPickerModel([]string{"degree"}, 1, hive.DefaultOptions())
			m, cmd := press(m, k)
			if cmd == nil || !m.Cancelled || m.Done() {
				t.Errorf("%q should cancel the picker", k)
			}
		})
	}
}
