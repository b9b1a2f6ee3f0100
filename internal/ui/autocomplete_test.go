package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/ramanasai/streak/internal/records"
)

func TestLabelCandidatesByFrequency(t *testing.T) {
	recs := []records.Record{
		records.StudyRecord{Topic: "Go"},
		records.StudyRecord{Topic: "Rust"},
		records.StudyRecord{Topic: "go"},
		records.StudyRecord{Topic: "  "},
		records.StudyRecord{Topic: "Algebra"},
	}
	assert.Equal(t, []string{"Go", "Algebra", "Rust"}, LabelCandidates(recs))
	assert.Empty(t, LabelCandidates(nil))
}

func TestAutocompleteSuggestAndAccept(t *testing.T) {
	ac := NewAutocomplete([]string{"Running", "Rowing", "Cycling", "Run"}, 2)
	ac.Focus()

	ac, _ = ac.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.True(t, ac.Showing())
	assert.Equal(t, []string{"Running", "Rowing"}, ac.Suggestions())

	ac, _ = ac.Update(tea.KeyMsg{Type: tea.KeyTab})
	ac, _ = ac.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Rowing", ac.Value())
	assert.False(t, ac.Showing())
}

func TestAutocompleteEscHides(t *testing.T) {
	ac := NewAutocomplete([]string{"Cycling"}, 5)
	ac.Focus()
	ac, _ = ac.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cyc")})
	assert.True(t, ac.Showing())
	ac, _ = ac.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, ac.Showing())
	assert.Equal(t, "cyc", ac.Value())
}
