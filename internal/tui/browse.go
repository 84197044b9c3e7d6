// Package tui provides an interactive browser over a digest
// aggregation using Bubble Tea: a repository list that drills down
// into the topics touched in each repository.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joss/ghdigest/internal/digest"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// level is the current drill-down depth.
type level int

const (
	levelRepos level = iota
	levelTopics
)

type repoItem struct {
	repo digest.RepoInteractions
}

func (i repoItem) Title() string { return i.repo.Ref.Name }

func (i repoItem) Description() string {
	n := len(i.repo.Topics)
	if n == 1 {
		return "1 topic"
	}
	return fmt.Sprintf("%d topics", n)
}

func (i repoItem) FilterValue() string { return i.repo.Ref.Name }

type topicItem struct {
	topic digest.TopicInteractions
}

func (i topicItem) Title() string {
	var b strings.Builder
	for _, k := range i.topic.Kinds {
		b.WriteString(k.Symbol())
	}
	fmt.Fprintf(&b, " #%d", i.topic.Topic.Number)
	return b.String()
}

func (i topicItem) Description() string { return digest.Sanitize(i.topic.Topic.Title) }

func (i topicItem) FilterValue() string { return i.topic.Topic.Title }

// Model is the browse TUI model.
type Model struct {
	repos  []digest.RepoInteractions
	list   list.Model
	level  level
	width  int
	height int
}

// New creates the browse model for an aggregation.
func New(agg *digest.Aggregation) Model {
	repos := agg.Repos()
	items := make([]list.Item, 0, len(repos))
	for _, r := range repos {
		items = append(items, repoItem{repo: r})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Repositories"
	l.Styles.Title = titleStyle
	l.SetShowHelp(true)

	return Model{repos: repos, list: l, level: levelRepos}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)

	case tea.KeyMsg:
		// Don't intercept keys while the user is filtering.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.level == levelRepos {
				if it, ok := m.list.SelectedItem().(repoItem); ok {
					m.enterTopics(it.repo)
				}
				return m, nil
			}
		case "esc", "backspace":
			if m.level == levelTopics {
				m.enterRepos()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	hint := "enter: topics · q: quit"
	if m.level == levelTopics {
		hint = "esc: back · q: quit"
	}
	return m.list.View() + helpStyle.Render(hint)
}

func (m *Model) enterTopics(repo digest.RepoInteractions) {
	items := make([]list.Item, 0, len(repo.Topics))
	for _, t := range repo.Topics {
		items = append(items, topicItem{topic: t})
	}
	m.list.SetItems(items)
	m.list.Title = repo.Ref.Name
	m.list.ResetSelected()
	m.level = levelTopics
}

func (m *Model) enterRepos() {
	items := make([]list.Item, 0, len(m.repos))
	for _, r := range m.repos {
		items = append(items, repoItem{repo: r})
	}
	m.list.SetItems(items)
	m.list.Title = "Repositories"
	m.list.ResetSelected()
	m.level = levelRepos
}

// Browse runs the interactive browser until the user quits.
func Browse(agg *digest.Aggregation) error {
	_, err := tea.NewProgram(New(agg), tea.WithAltScreen()).Run()
	return err
}
