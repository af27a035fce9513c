package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todoer/internal/commands"
	"github.com/sandeepkv93/todoer/internal/views"
)

func (m Model) openPalette() Model {
	m.Palette = PaletteState{Active: true}
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) closePalette() Model {
	m.Palette = PaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		m.commandInput = typeInto(m.commandInput, msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.logger.Debug("command", "input", raw)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m = m.closePalette()
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, commands.OrganizerHandlers(m.org, &m))
	m = m.closePalette()
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.logger.Warn("command failed", "input", raw, "err", err)
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	m.syncSelection()
	return m
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) openSearch() Model {
	m.Search = SearchState{Prompting: true}
	m.searchInput.SetValue("")
	m.searchInput.Focus()
	return m
}

func (m Model) handleSearchPromptKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Search = SearchState{}
		m.searchInput.Blur()
	case "enter":
		query := strings.TrimSpace(m.searchInput.Value())
		m.searchInput.Blur()
		results := m.org.Search(query)
		m.ShowResults(query, results)
		m.Status = StatusBar{Text: "search: " + query}
	default:
		m.searchInput = typeInto(m.searchInput, msg)
	}
	return m
}

// handleSearchResultsKey moves through visible results. It reports false for
// keys it does not consume so the normal bindings still apply.
func (m Model) handleSearchResultsKey(msg tea.KeyMsg) (Model, bool) {
	switch {
	case msg.String() == "esc":
		m.Search = SearchState{}
		return m, true
	case matches(msg, m.Keys.Down):
		if m.Search.Cursor < len(m.Search.Results)-1 {
			m.Search.Cursor++
		}
		return m, true
	case matches(msg, m.Keys.Up):
		if m.Search.Cursor > 0 {
			m.Search.Cursor--
		}
		return m, true
	case msg.String() == "enter":
		if len(m.Search.Results) == 0 {
			return m, true
		}
		target := m.Search.Results[m.Search.Cursor].Todo
		m.Search = SearchState{}
		m.Focus("all")
		m.SelectedTodoID = target.ID()
		m.syncSelection()
		return m, true
	}
	return m, false
}
