package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/rgoodall/duebook/cmd/tui/internal/view"
	"github.com/rgoodall/duebook/internal/client"
	clientStore "github.com/rgoodall/duebook/internal/client/store"
	"github.com/rgoodall/duebook/internal/config"
	"github.com/rgoodall/duebook/internal/ct"
	ctStore "github.com/rgoodall/duebook/internal/ct/store"
	"github.com/rgoodall/duebook/internal/database"
	"github.com/rgoodall/duebook/internal/workflow"
	workflowStore "github.com/rgoodall/duebook/internal/workflow/store"
)

type model struct {
	clientService   *client.Service
	workflowService *workflow.Service
	actorID         uuid.UUID

	currentView View

	dashboardView view.DashboardModel
	clientsView   view.ClientsModel
	workflowsView view.WorkflowsModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewClients   View = 2
	ViewWorkflows View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Stage transitions are attributed to whoever runs the TUI.
	actorID, err := uuid.Parse(os.Getenv("TUI_USER_ID"))
	if err != nil {
		slog.Error("TUI_USER_ID must be set to your user id")
		os.Exit(1)
	}

	ctSvc := ct.NewService(ctStore.New(db))
	clientSvc := client.NewService(clientStore.New(db), ctSvc)
	workflowSvc := workflow.NewService(workflowStore.New(db))

	return model{
		clientService:   clientSvc,
		workflowService: workflowSvc,
		actorID:         actorID,
		currentView:     ViewMenu,
		dashboardView:   view.NewDashboardModel(clientSvc),
		clientsView:     view.NewClientsModel(clientSvc),
		workflowsView:   view.NewWorkflowsModel(workflowSvc, actorID),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.clientService)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewClients
				m.clientsView = view.NewClientsModel(m.clientService)

				return m, m.clientsView.Init()
			case "3":
				m.currentView = ViewWorkflows
				m.workflowsView = view.NewWorkflowsModel(m.workflowService, m.actorID)

				return m, m.workflowsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewClients:
		var newModel tea.Model
		newModel, cmd = m.clientsView.Update(msg)
		m.clientsView = newModel.(view.ClientsModel)
	case ViewWorkflows:
		var newModel tea.Model
		newModel, cmd = m.workflowsView.Update(msg)
		m.workflowsView = newModel.(view.WorkflowsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Duebook TUI\n\n" +
				"1. Deadlines Dashboard\n" +
				"2. Clients\n" +
				"3. Workflows\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewClients:
		return m.clientsView.View()
	case ViewWorkflows:
		return m.workflowsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
