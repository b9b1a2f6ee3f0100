package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/streak/internal/records"
)

// AutocompleteModel is a text input that suggests previously used values.
type AutocompleteModel struct {
	input          textinput.Model
	candidates     []string
	suggestions    []string
	showing        bool
	selected       int
	style          lipgloss.Style
	maxSuggestions int
}

func NewAutocomplete(candidates []string, maxSuggestions int) AutocompleteModel {
	return AutocompleteModel{
		input:          textinput.New(),
		candidates:     candidates,
		maxSuggestions: maxSuggestions,
		style:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// LabelCandidates collects the distinct labels (activities, topics) of recs,
// most frequent first.
func LabelCandidates(recs []records.Record) []string {
	counts := map[string]int{}
	display := map[string]string{}
	for _, r := range recs {
		label := strings.TrimSpace(records.Label(r))
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		if _, ok := display[key]; !ok {
			display[key] = label
		}
		counts[key]++
	}
	out := make([]string, 0, len(display))
	for key := range display {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		if counts[out[i]] != counts[out[j]] {
			return counts[out[i]] > counts[out[j]]
		}
		return out[i] < out[j]
	})
	for i, key := range out {
		out[i] = display[key]
	}
	return out
}

// Update handles the autocomplete logic
func (m AutocompleteModel) Update(msg tea.Msg) (AutocompleteModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.showing && len(m.suggestions) > 0 {
		switch key.Type {
		case tea.KeyTab:
			m.selected = (m.selected + 1) % len(m.suggestions)
			return m, nil
		case tea.KeyShiftTab:
			m.selected = (m.selected - 1 + len(m.suggestions)) % len(m.suggestions)
			return m, nil
		case tea.KeyEnter:
			m.input.SetValue(m.suggestions[m.selected])
			m.input.CursorEnd()
			m.hide()
			return m, nil
		case tea.KeyEscape:
			m.hide()
			return m, nil
		}
	}

	old := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != old {
		m.refresh()
	}
	return m, cmd
}

func (m *AutocompleteModel) refresh() {
	m.suggestions = m.suggestions[:0]
	m.selected = 0
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if query != "" {
		for _, c := range m.candidates {
			lc := strings.ToLower(c)
			if lc != query && strings.Contains(lc, query) {
				m.suggestions = append(m.suggestions, c)
				if len(m.suggestions) == m.maxSuggestions {
					break
				}
			}
		}
	}
	m.showing = len(m.suggestions) > 0
}

func (m *AutocompleteModel) hide() {
	m.showing = false
	m.selected = 0
}

// View renders the autocomplete input and suggestions
func (m AutocompleteModel) View() string {
	var content strings.Builder
	content.WriteString(m.input.View())

	if m.showing {
		for i, suggestion := range m.suggestions {
			content.WriteString("\n")
			if i == m.selected {
				content.WriteString(m.style.Foreground(lipgloss.Color("12")).Render("▶ " + suggestion))
			} else {
				content.WriteString(m.style.Render("  " + suggestion))
			}
		}
	}
	return content.String()
}

func (m AutocompleteModel) Value() string { return m.input.Value() }

func (m *AutocompleteModel) SetValue(value string) { m.input.SetValue(value) }

func (m *AutocompleteModel) Focus() tea.Cmd {
	m.hide()
	return m.input.Focus()
}

func (m *AutocompleteModel) Blur() {
	m.input.Blur()
	m.hide()
}

func (m AutocompleteModel) Focused() bool { return m.input.Focused() }

func (m *AutocompleteModel) SetWidth(width int) { m.input.Width = width }

func (m *AutocompleteModel) SetPlaceholder(placeholder string) { m.input.Placeholder = placeholder }

func (m AutocompleteModel) Suggestions() []string { return m.suggestions }

// Showing returns whether suggestions are currently displayed
func (m AutocompleteModel) Showing() bool { return m.showing }
