package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kvarro/artigraph/assemble"
	"github.com/kvarro/artigraph/engine"
	"github.com/kvarro/artigraph/search"
	"github.com/kvarro/artigraph/store"
)

// browseKeys are the drill-in navigation bindings for the browse TUI.
type browseKeys struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Quit  key.Binding
}

var browseKeymap = browseKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "drill in"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

var browseCmd = &cobra.Command{
	Use:   "browse <artist-id>",
	Short: "Interactively drill into an artist's neighborhood (§6.5)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrowse,
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

func runBrowse(cmd *cobra.Command, args []string) error {
	root, err := store.ParseArtistID(args[0])
	if err != nil {
		return err
	}
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	m, err := newBrowseModel(e, root)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

// browseModel repeatedly calls explore_forward as the user drills into a
// neighborhood, rendering the current subgraph as a node list with
// similarity bars (§6.5 "browse").
type browseModel struct {
	engine  *engine.Engine
	root    store.ArtistID
	subject assemble.Node
	edges   []assemble.Edge
	names   map[store.ArtistID]string
	cursor  int
	err     error
}

func newBrowseModel(e *engine.Engine, root store.ArtistID) (*browseModel, error) {
	m := &browseModel{engine: e, root: root}
	if err := m.load(root); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *browseModel) load(id store.ArtistID) error {
	res, err := m.engine.ExploreForward(context.Background(), id, engine.Query{Algorithm: search.BFS})
	if err != nil {
		return err
	}
	names := make(map[store.ArtistID]string, len(res.Subgraph.Nodes))
	for _, n := range res.Subgraph.Nodes {
		names[n.ID] = n.Name
		if n.ID == id {
			m.subject = n
		}
	}
	var out []assemble.Edge
	for _, e := range res.Subgraph.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	m.edges = out
	m.names = names
	m.cursor = 0
	return nil
}

func (m *browseModel) Init() tea.Cmd { return nil }

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, browseKeymap.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, browseKeymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, browseKeymap.Down):
		if m.cursor < len(m.edges)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, browseKeymap.Enter):
		if m.cursor < len(m.edges) {
			if err := m.load(m.edges[m.cursor].To); err != nil {
				m.err = err
			}
		}
	}
	return m, nil
}

func (m *browseModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.subject.Name))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("error: %v\n", m.err))
	}
	for i, e := range m.edges {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		bar := barStyle.Render(strings.Repeat("#", int(e.Similarity*20)))
		b.WriteString(fmt.Sprintf("%s%-30s %s %.2f\n", cursor, m.names[e.To], bar, e.Similarity))
	}
	b.WriteString("\n")
	help := []string{browseKeymap.Up.Help().Key, browseKeymap.Enter.Help().Desc, browseKeymap.Quit.Help().Desc}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%s: move  %s  %s", help[0], help[1], help[2])))
	return b.String()
}
