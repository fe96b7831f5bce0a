package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/KaramelBytes/nearabl-cli/internal/analysis"
	"github.com/KaramelBytes/nearabl-cli/internal/loader"
	"github.com/KaramelBytes/nearabl-cli/internal/record"
	"github.com/KaramelBytes/nearabl-cli/internal/render"
	"github.com/KaramelBytes/nearabl-cli/internal/utils"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Loader is the part of loader.Loader the browser needs.
type Loader interface {
	Load(ctx context.Context) *loader.Result
}

// LoadedMsg carries the finished load into the model.
type LoadedMsg struct {
	Result *loader.Result
}

// summaryLines bounds the summary to roughly this many terminal rows.
const summaryLines = 3

var columnWidths = map[record.Field]int{
	record.FirstName:   10,
	record.LastName:    10,
	record.CompanyName: 22,
	record.Address:     20,
	record.City:        12,
	record.County:      12,
	record.State:       5,
	record.Zip:         6,
	record.Phone1:      12,
	record.Phone2:      12,
	record.Email:       24,
	record.Web:         24,
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#2A2D77", Dark: "#8F94FB"})
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D32F2F"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Model is the interactive dataset browser.
type Model struct {
	ctx    context.Context
	loader Loader

	loading bool
	result  *loader.Result

	input      textinput.Model
	table      table.Model
	fields     []record.Field
	fieldIdx   int
	summaryBy  []record.Field
	summaryIdx int
	filtered   record.Dataset
	summary    map[string]int
	width      int
	height     int
	lastQuery  string
}

// New builds a browser that will load through ld once started.
func New(ctx context.Context, ld Loader, searchField, summaryField record.Field) Model {
	in := textinput.New()
	in.Placeholder = "search..."
	in.Prompt = "> "
	in.CharLimit = 120
	in.Width = 40
	in.Focus()

	cols := make([]table.Column, 0, record.Count())
	for _, f := range record.Fields() {
		cols = append(cols, table.Column{Title: f.Label(), Width: columnWidths[f]})
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	m := Model{
		ctx:       ctx,
		loader:    ld,
		loading:   true,
		input:     in,
		table:     t,
		fields:    record.Fields(),
		summaryBy: analysis.SummaryFields(),
	}
	m.fieldIdx = max(indexOf(m.fields, searchField), 0)
	// A configured summary field outside the usual set joins the cycle.
	if indexOf(m.summaryBy, summaryField) < 0 && indexOf(m.fields, summaryField) >= 0 {
		m.summaryBy = append(m.summaryBy, summaryField)
	}
	m.summaryIdx = max(indexOf(m.summaryBy, summaryField), 0)
	return m
}

func indexOf(fs []record.Field, f record.Field) int {
	for i, x := range fs {
		if x == f {
			return i
		}
	}
	return -1
}

// Init starts the load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.load)
}

func (m Model) load() tea.Msg {
	return LoadedMsg{Result: m.loader.Load(m.ctx)}
}

// SearchField is the field the query is matched against.
func (m Model) SearchField() record.Field { return m.fields[m.fieldIdx] }

// SummaryField is the grouping field of the summary line.
func (m Model) SummaryField() record.Field { return m.summaryBy[m.summaryIdx] }

// Filtered returns the current view.
func (m Model) Filtered() record.Dataset { return m.filtered }

// Summary returns the current counts.
func (m Model) Summary() map[string]int { return m.summary }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		m.result = msg.Result
		m.recompute()
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if h := msg.Height - 12; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.fieldIdx = (m.fieldIdx + 1) % len(m.fields)
			m.recompute()
			return m, nil
		case "shift+tab":
			m.fieldIdx = (m.fieldIdx + len(m.fields) - 1) % len(m.fields)
			m.recompute()
			return m, nil
		case "ctrl+g":
			m.summaryIdx = (m.summaryIdx + 1) % len(m.summaryBy)
			m.recompute()
			return m, nil
		case "up", "down", "pgup", "pgdown", "home", "end":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}

	if m.loading {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if q := m.input.Value(); q != m.lastQuery {
		m.recompute()
	}
	return m, tea.Batch(cmds...)
}

// recompute derives the filtered view and the summary from the loaded data.
func (m *Model) recompute() {
	if m.result == nil {
		return
	}
	m.lastQuery = m.input.Value()
	m.filtered = analysis.Filter(m.result.Records, m.SearchField(), m.lastQuery)
	m.summary = analysis.Summarize(m.result.Records, m.SummaryField())

	rows := make([]table.Row, 0, len(m.filtered))
	for _, r := range m.filtered {
		row := make(table.Row, 0, record.Count())
		for _, f := range record.Fields() {
			row = append(row, utils.Truncate(utils.OrDefault(r.Value(f), "-"), columnWidths[f]))
		}
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("neARabl Project"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Please wait ...\n")
		return b.String()
	}

	if m.result.UsedFallback {
		b.WriteString(noteStyle.Render(render.FallbackNote(m.result.Message)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.fieldPicker())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.summaryLine())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(render.StatusLine(len(m.filtered), len(m.result.Records), m.result.UsedFallback)))
	b.WriteString("\n\n")

	switch kind := render.CardFor(m.SearchField(), len(m.filtered)); {
	case len(m.filtered) == 0:
		b.WriteString(render.NoMatches)
	case kind != render.NoCard:
		b.WriteString(render.Card(m.filtered[0], kind))
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("tab/shift+tab: search field • ctrl+g: summary field • ↑/↓: scroll • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) fieldPicker() string {
	return fmt.Sprintf("Search by: %s", selectStyle.Render(m.SearchField().Label()))
}

func (m Model) summaryLine() string {
	counts := analysis.SortedCounts(m.summary, analysis.ByKey)
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s: %d", c.Value, c.Count))
	}
	line := strings.Join(parts, "  ")
	if m.width > 0 {
		line = utils.Truncate(line, m.width*summaryLines)
	}
	return fmt.Sprintf("People per %s: %s", selectStyle.Render(m.SummaryField().Title()), line)
}

// Run starts the browser full screen and blocks until the user quits.
func Run(ctx context.Context, ld Loader, searchField, summaryField record.Field) error {
	p := tea.NewProgram(New(ctx, ld, searchField, summaryField), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
