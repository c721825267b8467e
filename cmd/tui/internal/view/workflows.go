package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/dates"
	"github.com/rgoodall/duebook/internal/workflow"
)

type workflowsState int

const (
	workflowsStateBrowse workflowsState = iota
	workflowsStateTransition
	workflowsStateConfirmSkip
)

type WorkflowsModel struct {
	CommonModel
	workflowService *workflow.Service
	actorID         uuid.UUID

	state   workflowsState
	table   table.Model
	periods []*workflow.Period
	form    *huh.Form

	showCompleted bool
	loading       bool
	err           error
	status        string

	// Form bindings
	formStage   string
	formNotes   string
	formConfirm bool

	// Pending transition awaiting skip confirmation
	pendingSkip   *workflow.TransitionParams
	skippedStages []workflow.Stage
}

func NewWorkflowsModel(workflowSvc *workflow.Service, actorID uuid.UUID) WorkflowsModel {
	columns := []table.Column{
		{Title: "Type", Width: 16},
		{Title: "Period", Width: 10},
		{Title: "Filing Due", Width: 12},
		{Title: "Stage", Width: 26},
		{Title: "In Stage", Width: 10},
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

	return WorkflowsModel{
		workflowService: workflowSvc,
		actorID:         actorID,
		table:           t,
		loading:         true,
	}
}

func (m WorkflowsModel) Title() string { return "Workflows" }
func (m WorkflowsModel) ShortHelp() string {
	switch m.state {
	case workflowsStateTransition:
		return "Navigate form | Esc: cancel"
	case workflowsStateConfirmSkip:
		return "Confirm or cancel the skip"
	}
	return "Esc: back | t: move stage | c: toggle completed | r: refresh"
}

func (m WorkflowsModel) Init() tea.Cmd {
	return m.loadPeriodsCmd()
}

func (m WorkflowsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPeriodsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.periods = msg.periods
		m.refreshTable()
		return m, nil

	case transitionMsg:
		return m.handleTransitionResult(msg)

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case workflowsStateBrowse:
		return m.updateBrowse(msg)
	case workflowsStateTransition, workflowsStateConfirmSkip:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m WorkflowsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadPeriodsCmd()
		case "c":
			m.showCompleted = !m.showCompleted
			m.loading = true
			return m, m.loadPeriodsCmd()
		case "t":
			return m.enterTransitionMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m WorkflowsModel) enterTransitionMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.periods) {
		return m, nil
	}

	p := m.periods[idx]

	sequence, err := workflow.Sequence(p.Type)
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return m, nil
	}

	options := make([]huh.Option[string], 0, len(sequence))
	for _, s := range sequence {
		if s == p.CurrentStage || !workflow.IsUserSelectable(s) {
			continue
		}

		options = append(options, huh.NewOption(s.Display(), string(s)))
	}

	m.formStage = ""
	m.formNotes = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("stage").
				Title(fmt.Sprintf("Move from %q to", p.CurrentStage.Display())).
				Options(options...).
				Value(&m.formStage),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Value(&m.formNotes),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = workflowsStateTransition
	m.table.Blur()
	return m, m.form.Init()
}

func (m WorkflowsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m.leaveForm(), nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state {
	case workflowsStateTransition:
		return m.submitTransition()
	case workflowsStateConfirmSkip:
		if !m.formConfirm || m.pendingSkip == nil {
			return m.leaveForm(), nil
		}

		params := *m.pendingSkip
		params.ConfirmSkip = true
		return m, m.transitionCmd(params)
	}

	return m, cmd
}

func (m WorkflowsModel) leaveForm() WorkflowsModel {
	m.state = workflowsStateBrowse
	m.form = nil
	m.pendingSkip = nil
	m.skippedStages = nil
	m.table.Focus()
	return m
}

func (m WorkflowsModel) submitTransition() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.periods) {
		return m.leaveForm(), nil
	}

	p := m.periods[idx]

	params := workflow.TransitionParams{
		Key: workflow.Key{
			ClientID: p.ClientID,
			Type:     p.Type,
			PeriodID: p.PeriodID,
		},
		ToStage: workflow.Stage(m.formStage),
		Notes:   m.formNotes,
		ActorID: m.actorID,
		Now:     time.Now(),
	}

	return m, m.transitionCmd(params)
}

func (m WorkflowsModel) handleTransitionResult(msg transitionMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, workflow.ErrSkipNeedsConfirm) {
		m.pendingSkip = &msg.params
		m.skippedStages = nil
		if msg.result != nil {
			m.skippedStages = msg.result.Check.SkippedStages
		}

		m.formConfirm = false
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Key("confirm").
					Title(fmt.Sprintf("This move skips %d stage(s). Proceed?", len(m.skippedStages))).
					Affirmative("Skip them").
					Negative("Cancel").
					Value(&m.formConfirm),
			),
		).WithWidth(50).WithShowHelp(false)

		m.state = workflowsStateConfirmSkip
		return m, m.form.Init()
	}

	if msg.err != nil {
		m.status = fmt.Sprintf("Error: %v", msg.err)
	} else {
		m.status = fmt.Sprintf("Moved to %s", msg.params.ToStage.Display())
	}

	next := m.leaveForm()
	next.loading = true
	return next, next.loadPeriodsCmd()
}

func (m WorkflowsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading workflows...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	completedLabel := "Open"
	if m.showCompleted {
		completedLabel = "Completed"
	}

	header := fmt.Sprintf("Filter: [c] Showing: %s", activeStyle(completedLabel))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.form != nil {
		title := "Move Stage"
		if m.state == workflowsStateConfirmSkip {
			names := make([]string, 0, len(m.skippedStages))
			for _, s := range m.skippedStages {
				names = append(names, s.Display())
			}

			title = fmt.Sprintf("Skipping: %v", names)
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *WorkflowsModel) refreshTable() {
	now := time.Now()

	rows := make([]table.Row, 0, len(m.periods))
	for _, p := range m.periods {
		rows = append(rows, table.Row{
			string(p.Type),
			p.PeriodID,
			FormatDate(p.FilingDue),
			p.CurrentStage.Display(),
			FormatDays(dates.DaysUntil(now, p.StageEnteredAt)),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadPeriodsMsg struct {
	periods []*workflow.Period
	err     error
}

func (m WorkflowsModel) loadPeriodsCmd() tea.Cmd {
	completed := m.showCompleted

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		periods, err := m.workflowService.List(ctx, workflow.ListFilter{Completed: &completed})
		return loadPeriodsMsg{periods: periods, err: err}
	}
}

type transitionMsg struct {
	params workflow.TransitionParams
	result *workflow.TransitionResult
	err    error
}

func (m WorkflowsModel) transitionCmd(params workflow.TransitionParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.workflowService.Transition(ctx, params)
		return transitionMsg{params: params, result: result, err: err}
	}
}
