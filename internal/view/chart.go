package view

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"nutriproof/internal/grade"
)

const defaultBarWidth = 30

// Chart is a rendered verdict distribution. A released chart renders as
// the empty string.
type Chart struct {
	slices   []grade.Slice
	width    int
	released bool
}

func NewChart(slices []grade.Slice, width int) *Chart {
	if width <= 0 {
		width = defaultBarWidth
	}
	return &Chart{slices: slices, width: width}
}

func (c *Chart) Slices() []grade.Slice { return c.slices }

func (c *Chart) Release() {
	c.released = true
	c.slices = nil
}

func (c *Chart) Released() bool { return c.released }

func (c *Chart) Render() string {
	if c.released {
		return ""
	}
	return RenderChart(c.slices, c.width)
}

// RenderChart draws one horizontal bar per slice, scaled to width.
func RenderChart(slices []grade.Slice, width int) string {
	if len(slices) == 0 {
		return mutedStyle.Render("No data to chart.")
	}
	if width <= 0 {
		width = defaultBarWidth
	}
	labelWidth := 0
	for _, s := range slices {
		labelWidth = max(labelWidth, lipgloss.Width(s.Label))
	}

	rows := make([]string, 0, len(slices))
	for _, s := range slices {
		n := s.Percent * width / 100
		if n == 0 && s.Count > 0 {
			n = 1
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(strings.Repeat("█", n))
		label := fmt.Sprintf("%-*s", labelWidth, s.Label)
		rows = append(rows, fmt.Sprintf("%s %s %d (%d%%)", label, bar, s.Count, s.Percent))
	}
	return strings.Join(rows, "\n")
}

// ChartSlot owns at most one chart at a time. Replacing the chart releases
// the one held before.
type ChartSlot struct {
	mu      sync.Mutex
	current *Chart
}

func (s *ChartSlot) Replace(c *Chart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current != c {
		s.current.Release()
	}
	s.current = c
}

func (s *ChartSlot) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Release()
		s.current = nil
	}
}

func (s *ChartSlot) Current() *Chart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
