// # cmd/implicit/ui.go
package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"implicit/internal/graph"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	cycles     [][]string
	lastUpdate time.Time
	fileCount  int
	edgeCount  int
}

type updateMsg struct {
	cycles    [][]string
	fileCount int
	edgeCount int
	metrics   map[string]graph.FileMetrics
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.cycles = msg.cycles
		m.fileCount = msg.fileCount
		m.edgeCount = msg.edgeCount
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, c := range m.cycles {
			items = append(items, item{
				title: "Dependency Cycle",
				desc:  strings.Join(c, " -> "),
			})
		}
		for _, hot := range topFanIn(msg.metrics, 10) {
			items = append(items, item{
				title: "High Fan-In",
				desc:  hot,
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d edges",
		m.lastUpdate.Format("15:04:05"), m.fileCount, m.edgeCount))

	var summary string
	if len(m.cycles) == 0 {
		summary = successStyle.Render("✅ No cycles")
	} else {
		summary = cycleStyle.Render(fmt.Sprintf("⚠️  %d Cycles", len(m.cycles)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Implicit Dependency Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Constant Dependencies"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}

func topFanIn(metrics map[string]graph.FileMetrics, limit int) []string {
	type entry struct {
		file  string
		fanIn int
	}

	entries := make([]entry, 0, len(metrics))
	for file, m := range metrics {
		if m.FanIn > 0 {
			entries = append(entries, entry{file: file, fanIn: m.FanIn})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].fanIn == entries[j].fanIn {
			return entries[i].file < entries[j].file
		}
		return entries[i].fanIn > entries[j].fanIn
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s referenced by %d files", e.file, e.fanIn))
	}
	return out
}
