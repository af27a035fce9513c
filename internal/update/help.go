package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/todoer/internal/config"
	"github.com/sandeepkv93/todoer/internal/views"
)

type KeyMap struct {
	Quit         key.Binding
	Up           key.Binding
	Down         key.Binding
	Toggle       key.Binding
	Delete       key.Binding
	Command      key.Binding
	Search       key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	CycleSort    key.Binding
	CycleFilter  key.Binding
	Help         key.Binding
}

// NewKeyMap builds bindings from configured keys. Arrow keys always move the
// cursor and ctrl+c always quits.
func NewKeyMap(k config.Keymap) KeyMap {
	return KeyMap{
		Quit:         binding("quit", k.Quit, "ctrl+c"),
		Up:           binding("up", k.Up, "up"),
		Down:         binding("down", k.Down, "down"),
		Toggle:       binding("toggle done", k.Toggle),
		Delete:       binding("delete todo", k.Delete),
		Command:      binding("command", k.Command),
		Search:       binding("search", k.Search),
		NextCategory: binding("next category", k.NextCategory),
		PrevCategory: binding("previous category", k.PrevCategory),
		CycleSort:    binding("cycle sort", k.CycleSort),
		CycleFilter:  binding("cycle filter", k.CycleFilter),
		Help:         binding("help", k.Help),
	}
}

func binding(desc string, keys ...string) key.Binding {
	set := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			set = append(set, k)
		}
	}
	label := "-"
	if len(set) > 0 {
		label = displayKey(set[0])
	}
	return key.NewBinding(key.WithKeys(set...), key.WithHelp(label, desc))
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Command, k.Search, k.Toggle, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Delete},
		{k.NextCategory, k.PrevCategory, k.CycleSort, k.CycleFilter},
		{k.Command, k.Search, k.Help, k.Quit},
	}
}

var commandHelp = []string{
	"add <title> [due:<when>] [p:<1-3>] [cat:<name>]",
	"done | delete",
	"edit title|desc|due|p|cat <value>",
	"sort creation-date|name|due-date|priority",
	"filter no-filter|priority-one|priority-two|priority-three|completed|uncompleted",
	"search <query>",
	"cat new|rename|delete <name>",
	"goto <category>",
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	plain := make([]string, 0, len(commandHelp))
	for _, c := range commandHelp {
		plain = append(plain, "- /"+c)
	}
	h := m.helpModel
	h.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: h.View(m.Keys),
	})
}

func (m Model) footer() string {
	parts := make([]string, 0, 6)
	for _, b := range m.Keys.ShortHelp() {
		parts = append(parts, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
	}
	parts = append(parts, fmt.Sprintf("%s/%s category", m.Keys.NextCategory.Help().Key, m.Keys.PrevCategory.Help().Key))
	return "keys: " + strings.Join(parts, " | ")
}
