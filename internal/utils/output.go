package utils

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ramanasai/streak/internal/analytics"
	"github.com/ramanasai/streak/internal/records"
)

// OutputFormat represents different output formats
type OutputFormat string

const (
	FormatDefault OutputFormat = "default"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
	FormatCompact OutputFormat = "compact"
	FormatQuiet   OutputFormat = "quiet"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatDefault, nil
	case FormatDefault, FormatTable, FormatJSON, FormatCSV, FormatCompact, FormatQuiet:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want default|table|json|csv|compact|quiet)", s)
}

// RenderConfig contains configuration for output rendering
type RenderConfig struct {
	Format   OutputFormat
	Width    int
	Color    bool
	Location *time.Location
	// Now anchors relative ages ("3 hours ago").
	Now time.Time
}

// DefaultRenderConfig returns a default render configuration
func DefaultRenderConfig() *RenderConfig {
	width := 100
	if colEnv := os.Getenv("COLUMNS"); colEnv != "" {
		if v, err := strconv.Atoi(colEnv); err == nil && v > 40 {
			width = v
		}
	}

	return &RenderConfig{
		Format:   FormatDefault,
		Width:    width,
		Color:    true,
		Location: time.Local,
		Now:      time.Now(),
	}
}

// Entry is one record flattened for output.
type Entry struct {
	ID        string       `json:"id"`
	Kind      records.Kind `json:"kind"`
	When      time.Time    `json:"when"`
	Start     time.Time    `json:"start,omitempty"` // sleep only
	Label     string       `json:"label,omitempty"`
	Minutes   int          `json:"durationMinutes"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// EntryFrom flattens r. Unreadable timestamps stay zero.
func EntryFrom(r records.Record) Entry {
	e := Entry{
		ID:      r.RecordID(),
		Kind:    r.Kind(),
		Label:   records.Label(r),
		Minutes: r.Minutes(),
	}
	e.When, _ = records.ParseTime(r.EventTime())
	e.CreatedAt, _ = records.ParseTime(r.Created())
	switch v := r.(type) {
	case records.SleepRecord:
		e.Start, _ = records.ParseTime(v.SleepTime)
		e.Notes = v.Notes
	case records.ExerciseRecord:
		e.Notes = v.Notes
	case records.StudyRecord:
		e.Notes = v.Notes
	}
	return e
}

// EntryList represents a list of entries with pagination info
type EntryList struct {
	Kind       records.Kind      `json:"kind"`
	Entries    []Entry           `json:"entries"`
	Total      int               `json:"total"`
	Page       int               `json:"page,omitempty"`
	PerPage    int               `json:"per_page,omitempty"`
	TotalPages int               `json:"total_pages,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
}

// Renderer handles output formatting
type Renderer struct {
	config *RenderConfig
	styles *Styles
}

// Styles contains lipgloss styles for different elements
type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Meta      lipgloss.Style
	ID        lipgloss.Style
	Kind      lipgloss.Style
	Label     lipgloss.Style
	Duration  lipgloss.Style
	Text      lipgloss.Style
}

// NewRenderer creates a new renderer with the given config
func NewRenderer(config *RenderConfig) *Renderer {
	if config == nil {
		config = DefaultRenderConfig()
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Now.IsZero() {
		config.Now = time.Now()
	}
	return &Renderer{
		config: config,
		styles: initStyles(config.Color),
	}
}

func initStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			Title:     plain.Bold(true),
			Separator: plain,
			Meta:      plain,
			ID:        plain,
			Kind:      plain.Bold(true),
			Label:     plain,
			Duration:  plain,
			Text:      plain,
		}
	}
	return &Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Meta:      lipgloss.NewStyle().Faint(true),
		ID:        lipgloss.NewStyle().Faint(true),
		Kind:      lipgloss.NewStyle().Bold(true),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA")),
		Duration:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		Text:      lipgloss.NewStyle(),
	}
}

// RenderEntryList renders a list of entries according to the configured format
func (r *Renderer) RenderEntryList(list *EntryList) (string, error) {
	switch r.config.Format {
	case FormatJSON:
		return r.renderJSON(list)
	case FormatCSV:
		return r.renderCSV(list)
	case FormatTable:
		return r.renderTable(list)
	case FormatCompact:
		return r.renderCompact(list)
	case FormatQuiet:
		return r.renderQuiet(list)
	default:
		return r.renderDefault(list)
	}
}

func (r *Renderer) separator() string {
	return r.styles.Separator.Render(strings.Repeat("─", min(r.config.Width, 120)))
}

func (r *Renderer) renderDefault(list *EntryList) (string, error) {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render(list.Kind.Title() + " records"))
	if since := list.Filters["since"]; since != "" {
		b.WriteString("  ")
		b.WriteString(r.styles.Separator.Render("since "))
		b.WriteString(r.styles.Meta.Render(since))
	}
	b.WriteString("\n")
	b.WriteString(r.separator())
	b.WriteString("\n")

	if len(list.Entries) == 0 {
		b.WriteString(r.styles.Meta.Render("No records yet."))
		b.WriteString("\n")
		return b.String(), nil
	}

	if list.TotalPages > 1 {
		p := NewPagination(list.Total, list.PerPage, list.Page)
		b.WriteString(r.styles.Meta.Render(p.FormatSummary()))
		b.WriteString("\n")
	}

	for _, e := range list.Entries {
		b.WriteString(r.renderSingleEntry(e))
		b.WriteString(r.separator())
		b.WriteString("\n")
	}

	if list.TotalPages > 1 {
		p := NewPagination(list.Total, list.PerPage, list.Page)
		if nav := p.FormatNavigation(); nav != "" {
			b.WriteString(r.styles.Meta.Render(nav))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func (r *Renderer) renderSingleEntry(e Entry) string {
	var b strings.Builder

	meta := []string{r.styles.ID.Render("[" + shortID(e.ID) + "]")}
	meta = append(meta, r.styles.Meta.Render(r.when(e)))
	if e.Label != "" {
		meta = append(meta, r.styles.Label.Render(e.Label))
	}
	meta = append(meta, r.styles.Duration.Render(FormatMinutes(e.Minutes)))
	if !e.CreatedAt.IsZero() {
		meta = append(meta, r.styles.Meta.Render("logged "+humanize.RelTime(e.CreatedAt, r.config.Now, "ago", "from now")))
	}
	b.WriteString(strings.Join(meta, "  "))
	b.WriteString("\n")

	if e.Notes != "" {
		b.WriteString(r.styles.Text.Render("  " + e.Notes))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) when(e Entry) string {
	loc := r.config.Location
	if e.Kind == records.KindSleep && !e.Start.IsZero() {
		return e.Start.In(loc).Format("2006-01-02 15:04") + " → " + e.When.In(loc).Format("15:04")
	}
	if e.When.IsZero() {
		return "?"
	}
	return e.When.In(loc).Format("2006-01-02 15:04")
}

func (r *Renderer) renderJSON(list *EntryList) (string, error) {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func (r *Renderer) renderCSV(list *EntryList) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "kind", "start", "when", "label", "duration_minutes", "notes", "created_at"}); err != nil {
		return "", err
	}
	for _, e := range list.Entries {
		row := []string{
			e.ID,
			string(e.Kind),
			formatOptional(e.Start),
			formatOptional(e.When),
			e.Label,
			strconv.Itoa(e.Minutes),
			e.Notes,
			formatOptional(e.CreatedAt),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

func (r *Renderer) renderTable(list *EntryList) (string, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tLABEL\tDURATION\tLOGGED\tNOTES")
	for _, e := range list.Entries {
		notes := strings.ReplaceAll(e.Notes, "\n", " ")
		if len(notes) > 40 {
			notes = notes[:37] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(e.ID),
			r.when(e),
			dash(e.Label),
			FormatMinutes(e.Minutes),
			humanize.RelTime(e.CreatedAt, r.config.Now, "ago", "from now"),
			notes,
		)
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) renderCompact(list *EntryList) (string, error) {
	var b strings.Builder
	for _, e := range list.Entries {
		line := fmt.Sprintf("%s %s %s",
			r.styles.Meta.Render(r.when(e)),
			r.styles.Duration.Render(FormatMinutes(e.Minutes)),
			e.Label)
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// renderQuiet prints ids only, for scripting
func (r *Renderer) renderQuiet(list *EntryList) (string, error) {
	var b strings.Builder
	for _, e := range list.Entries {
		b.WriteString(e.ID)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// RenderDaily prints a dense daily series as "date  value unit" lines.
func RenderDaily(series []analytics.DailyTotal, unit string) string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, d := range series {
		fmt.Fprintf(tw, "%s\t%s %s\t\n", d.Date, humanize.FtoaWithDigits(d.Total, 2), unit)
	}
	_ = tw.Flush()
	return buf.String()
}

// FormatMinutes renders 95 as "1h35m" and 45 as "45m".
func FormatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatOptional(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return records.FormatTime(t)
}
