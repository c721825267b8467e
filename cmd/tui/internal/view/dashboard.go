package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgoodall/duebook/internal/client"
	"github.com/rgoodall/duebook/internal/dates"
	"github.com/rgoodall/duebook/internal/deadline"
)

// bucketFilters drives the [b] filter cycle. The empty bucket means "all".
var bucketFilters = []deadline.Bucket{
	"",
	deadline.BucketOverdue,
	deadline.BucketDueSoon,
	deadline.BucketUpcoming,
	deadline.BucketCompleted,
}

var bucketLabels = []string{"All", "Overdue", "Due Soon", "Upcoming", "Completed"}

type DashboardModel struct {
	CommonModel
	clientService *client.Service

	table     table.Model
	deadlines []client.Deadline

	bucketFilterIdx int

	loading bool
	err     error
}

func NewDashboardModel(clientSvc *client.Service) DashboardModel {
	columns := []table.Column{
		{Title: "Client", Width: 30},
		{Title: "Obligation", Width: 12},
		{Title: "Due", Width: 12},
		{Title: "Days", Width: 10},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DashboardModel{
		clientService: clientSvc,
		table:         t,
		loading:       true,
	}
}

func (m DashboardModel) Title() string { return "Deadlines Dashboard" }
func (m DashboardModel) ShortHelp() string {
	return "Esc: back | b: bucket filter | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadDeadlinesCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDeadlinesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.deadlines = msg.deadlines
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadDeadlinesCmd()
		case "b":
			m.bucketFilterIdx = (m.bucketFilterIdx + 1) % len(bucketFilters)
			m.refreshTable()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading deadlines...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Filter: [b] Bucket: %s", activeStyle(bucketLabels[m.bucketFilterIdx]))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *DashboardModel) refreshTable() {
	now := time.Now()
	filter := bucketFilters[m.bucketFilterIdx]

	rows := make([]table.Row, 0, len(m.deadlines))
	for _, d := range m.deadlines {
		bucket := deadline.ClassifyWorkflow(d.Due, d.Completed, now)
		if filter != "" && bucket != filter {
			continue
		}

		rows = append(rows, table.Row{
			d.ClientName,
			string(d.Obligation),
			FormatDate(d.Due),
			FormatDays(dates.DaysUntil(d.Due, now)),
			string(bucket),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadDeadlinesMsg struct {
	deadlines []client.Deadline
	err       error
}

func (m DashboardModel) loadDeadlinesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		deadlines, err := m.clientService.Deadlines(ctx)
		return loadDeadlinesMsg{deadlines: deadlines, err: err}
	}
}
