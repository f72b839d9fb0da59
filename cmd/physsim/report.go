package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(30)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// report is a titled box of label/value rows.
type report struct {
	title string
	rows  []string
}

func newReport(title string) *report {
	return &report{title: title}
}

// row adds a label with one or more values joined by " / ".
func (r *report) row(label string, values ...any) {
	parts := make([]string, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case float32:
			parts[i] = fmt.Sprintf("%.3f", v)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	r.rows = append(r.rows, lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(label),
		valueStyle.Render(strings.Join(parts, " / ")),
	))
}

func (r *report) warn(format string, args ...any) {
	r.rows = append(r.rows, warnStyle.Render("! "+fmt.Sprintf(format, args...)))
}

func (r *report) section(name string) {
	r.rows = append(r.rows, "", titleStyle.Render(name))
}

func (r *report) String() string {
	body := lipgloss.JoinVertical(lipgloss.Left, r.rows...)
	return boxStyle.Render(titleStyle.Render(r.title) + "\n\n" + body)
}

func (r *report) print() {
	fmt.Println(r)
}
