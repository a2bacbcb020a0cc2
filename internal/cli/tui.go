package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/hiveplot/pkg/dag"
	"github.com/matzehuels/hiveplot/pkg/hive"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// MetricPickerModel - Interactive metric selection
// =============================================================================

// pickerStep identifies which metric the picker is choosing.
type pickerStep int

const (
	stepAxis pickerStep = iota
	stepOrder
	stepDone
)

// MetricPickerModel is the bubbletea model that chooses the axis metric
// and then the node-order metric from a list of names.
type MetricPickerModel struct {
	Metrics    []string
	Registered int // Metrics[:Registered] are built-in, the rest are attributes
	Options    hive.Options
	Cursor     int
	Step       pickerStep
	Cancelled  bool
}

// NewMetricPickerModel creates a picker over metrics, starting on the
// current axis metric. The first registered names are built-in metrics.
func NewMetricPickerModel(metrics []string, registered int, opts hive.Options) MetricPickerModel {
	m := MetricPickerModel{Metrics: metrics, Registered: registered, Options: opts}
	m.Cursor = m.indexOf(opts.AxisMetric)
	return m
}

// Done reports whether both metrics were chosen.
func (m MetricPickerModel) Done() bool {
	return m.Step == stepDone && !m.Cancelled
}

func (m MetricPickerModel) indexOf(name string) int {
	if i := slices.Index(m.Metrics, strings.ToLower(name)); i >= 0 {
		return i
	}
	if i := slices.Index(m.Metrics, name); i >= 0 {
		return i
	}
	return 0
}

func (m MetricPickerModel) Init() tea.Cmd {
	return nil
}

func (m MetricPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Cancelled = true
		return m, tea.Quit
	}
	if len(m.Metrics) == 0 {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Metrics)-1 {
			m.Cursor++
		}
	case "enter":
		name := m.Metrics[m.Cursor]
		if m.Step == stepAxis {
			m.Options.AxisMetric = name
			m.Step = stepOrder
			m.Cursor = m.indexOf(m.Options.NodeOrderMetric)
			return m, nil
		}
		m.Options.NodeOrderMetric = name
		m.Step = stepDone
		return m, tea.Quit
	}
	return m, nil
}

func (m MetricPickerModel) View() string {
	if m.Step == stepDone || m.Cancelled {
		return ""
	}

	var b strings.Builder

	title := "Select Axis Metric"
	if m.Step == stepOrder {
		title = "Select Node Order Metric"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, name := range m.Metrics {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		kind := "built-in"
		if i >= m.Registered {
			kind = "attribute"
		}
		line := fmt.Sprintf("%s%-28s  %s", cursor, name, listDimStyle.Render(kind))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.Step == stepOrder {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("axis metric: " + m.Options.AxisMetric))
		b.WriteString("\n")
	}
	return b.String()
}

// pickMetrics runs the metric picker for g and returns opts with the
// chosen metrics. ok is false when the user quit without choosing.
func pickMetrics(ctx context.Context, g *dag.DAG, registered []string, opts hive.Options) (hive.Options, bool, error) {
	model := NewMetricPickerModel(pickableMetrics(g, registered), len(registered), opts)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return opts, false, err
	}
	m, ok := final.(MetricPickerModel)
	if !ok || !m.Done() {
		return opts, false, nil
	}
	return m.Options, true, nil
}
