package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgoodall/duebook/internal/client"
	"github.com/rgoodall/duebook/internal/dates"
)

type clientsState int

const (
	clientsStateBrowse clientsState = iota
	clientsStateEdit
)

type ClientsModel struct {
	CommonModel
	clientService *client.Service

	state   clientsState
	table   table.Model
	clients []*client.Client
	form    *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formName    string
	formStagger string
}

func NewClientsModel(clientSvc *client.Service) ClientsModel {
	columns := []table.Column{
		{Title: "Name", Width: 30},
		{Title: "Type", Width: 12},
		{Title: "Company No", Width: 10},
		{Title: "Year End", Width: 12},
		{Title: "Accounts Due", Width: 12},
		{Title: "VAT Due", Width: 12},
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

	return ClientsModel{
		clientService: clientSvc,
		table:         t,
		loading:       true,
	}
}

func (m ClientsModel) Title() string { return "Clients" }
func (m ClientsModel) ShortHelp() string {
	if m.state == clientsStateEdit {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | e: edit | r: refresh"
}

func (m ClientsModel) Init() tea.Cmd {
	return m.loadClientsCmd()
}

func (m ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadClientsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.clients = msg.clients
		m.status = ""
		m.refreshTable()
		return m, nil

	case clientSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}
		m.state = clientsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadClientsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case clientsStateBrowse:
		return m.updateBrowse(msg)
	case clientsStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ClientsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadClientsCmd()
		case "e":
			return m.enterEditMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ClientsModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.clients) {
		return m, nil
	}

	c := m.clients[idx]
	m.formName = c.Name
	m.formStagger = ""
	if c.VATQuarterGroup != nil {
		m.formStagger = string(*c.VATQuarterGroup)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("vat_stagger").
				Title("VAT Stagger").
				Options(
					huh.NewOption("Not VAT registered", ""),
					huh.NewOption("Jan/Apr/Jul/Oct", string(dates.QuarterGroupJanAprJulOct)),
					huh.NewOption("Feb/May/Aug/Nov", string(dates.QuarterGroupFebMayAugNov)),
					huh.NewOption("Mar/Jun/Sep/Dec", string(dates.QuarterGroupMarJunSepDec)),
				).
				Value(&m.formStagger),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = clientsStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func (m ClientsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = clientsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ClientsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading clients...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == clientsStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Edit Client\n\n%s", m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ClientsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.clients))
	for _, c := range m.clients {
		companyNumber := "-"
		if c.CompanyNumber != nil {
			companyNumber = *c.CompanyNumber
		}

		rows = append(rows, table.Row{
			c.Name,
			string(c.Type),
			companyNumber,
			FormatDatePtr(c.Deadlines.YearEnd),
			FormatDatePtr(c.Deadlines.AccountsDue),
			FormatDatePtr(c.Deadlines.VATFilingDue),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadClientsMsg struct {
	clients []*client.Client
	err     error
}

func (m ClientsModel) loadClientsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		clients, err := m.clientService.List(ctx)
		return loadClientsMsg{clients: clients, err: err}
	}
}

type clientSaveMsg struct {
	err error
}

func (m ClientsModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.clients) {
		return nil
	}

	c := m.clients[idx]
	name := m.formName
	stagger := m.formStagger

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c.Name = name

		if stagger == "" {
			c.VATEnabled = false
			c.VATQuarterGroup = nil
		} else {
			group, err := dates.ParseQuarterGroup(stagger)
			if err != nil {
				return clientSaveMsg{err: err}
			}

			c.VATEnabled = true
			c.VATQuarterGroup = &group
		}

		return clientSaveMsg{err: m.clientService.Update(ctx, c)}
	}
}
