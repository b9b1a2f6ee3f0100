package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramanasai/streak/internal/records"
	"github.com/ramanasai/streak/internal/utils"
)

type fieldKind int

const (
	fieldTime fieldKind = iota
	fieldText
	fieldMinutes
	fieldNotes
)

type formField struct {
	label string
	kind  fieldKind
	input AutocompleteModel
}

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// formModel collects one new record. Sleep asks for two instants, the
// other kinds for an instant, a label and a duration.
type formModel struct {
	kind   records.Kind
	fields []formField
	focus  int
	err    string
}

func newForm(kind records.Kind, labels []string) formModel {
	text := func(label, placeholder string, k fieldKind, candidates []string) formField {
		in := NewAutocomplete(candidates, 5)
		in.SetPlaceholder(placeholder)
		in.SetWidth(32)
		return formField{label: label, kind: k, input: in}
	}

	f := formModel{kind: kind}
	switch kind {
	case records.KindSleep:
		f.fields = []formField{
			text("Fell asleep", "yesterday 23:00", fieldTime, nil),
			text("Woke up", "07:00", fieldTime, nil),
			text("Notes", "optional", fieldNotes, nil),
		}
	case records.KindExercise:
		f.fields = []formField{
			text("When", "now", fieldTime, nil),
			text("Activity", "Running", fieldText, labels),
			text("Duration", "45 or 1h30m", fieldMinutes, nil),
			text("Notes", "optional", fieldNotes, nil),
		}
	default:
		f.fields = []formField{
			text("When", "now", fieldTime, nil),
			text("Topic", "Go generics", fieldText, labels),
			text("Duration", "45 or 1h30m", fieldMinutes, nil),
			text("Notes", "optional", fieldNotes, nil),
		}
	}
	f.fields[0].input.Focus()
	return f
}

func (f formModel) update(msg tea.KeyMsg) (formModel, tea.Cmd, formAction) {
	cur := &f.fields[f.focus].input
	if cur.Showing() {
		switch msg.Type {
		case tea.KeyTab, tea.KeyShiftTab, tea.KeyEnter, tea.KeyEscape:
			var cmd tea.Cmd
			*cur, cmd = cur.Update(msg)
			return f, cmd, formNone
		}
	}

	switch msg.String() {
	case "esc":
		return f, nil, formCancel
	case "ctrl+s":
		return f, nil, formSubmit
	case "tab", "down":
		return f, f.moveFocus(1), formNone
	case "shift+tab", "up":
		return f, f.moveFocus(-1), formNone
	case "enter":
		if f.focus == len(f.fields)-1 {
			return f, nil, formSubmit
		}
		return f, f.moveFocus(1), formNone
	}

	var cmd tea.Cmd
	*cur, cmd = cur.Update(msg)
	return f, cmd, formNone
}

func (f *formModel) moveFocus(delta int) tea.Cmd {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

// build validates the inputs and constructs the record. Relative inputs
// ("yesterday 23:00", "2h ago") resolve against now.
func (f formModel) build(now time.Time, loc *time.Location) (records.Record, error) {
	val := func(i int) string { return strings.TrimSpace(f.fields[i].input.Value()) }

	switch f.kind {
	case records.KindSleep:
		if val(0) == "" || val(1) == "" {
			return nil, errors.New("both sleep and wake times are required")
		}
		sleep, wake, err := utils.ParseSleepWindow(val(0), val(1), now, loc)
		if err != nil {
			return nil, err
		}
		return records.NewSleep(sleep, wake, val(2))
	}

	at := now
	if val(0) != "" {
		t, err := utils.ParseFlexibleDateAt(val(0), now, loc)
		if err != nil {
			return nil, fmt.Errorf("when: %w", err)
		}
		at = t
	}
	mins, err := utils.ParseMinutes(val(2))
	if err != nil {
		return nil, fmt.Errorf("duration: %w", err)
	}
	if f.kind == records.KindExercise {
		return records.NewExercise(at, val(1), mins, val(3))
	}
	return records.NewStudy(at, val(1), mins, val(3))
}

func (f formModel) view(t Theme) string {
	var b strings.Builder
	for i, fld := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = t.Selected.Render("▸ ")
		}
		b.WriteString(marker)
		b.WriteString(t.Label.Render(fmt.Sprintf("%-12s", fld.label)))
		b.WriteString(fld.input.View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(t.Error.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(t.Hint.Render("tab next • enter next/save • ctrl+s save • esc cancel"))
	return b.String()
}
