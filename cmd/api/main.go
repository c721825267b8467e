package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/rgoodall/duebook/internal/client"
	clientStore "github.com/rgoodall/duebook/internal/client/store"
	"github.com/rgoodall/duebook/internal/config"
	"github.com/rgoodall/duebook/internal/ct"
	ctStore "github.com/rgoodall/duebook/internal/ct/store"
	"github.com/rgoodall/duebook/internal/database"
	"github.com/rgoodall/duebook/internal/export"
	duebookHttp "github.com/rgoodall/duebook/internal/http"
	clientHandler "github.com/rgoodall/duebook/internal/http/client"
	ctHandler "github.com/rgoodall/duebook/internal/http/ct"
	dashboardHandler "github.com/rgoodall/duebook/internal/http/dashboard"
	exportHandler "github.com/rgoodall/duebook/internal/http/export"
	importHandler "github.com/rgoodall/duebook/internal/http/importcsv"
	workflowHandler "github.com/rgoodall/duebook/internal/http/workflow"
	"github.com/rgoodall/duebook/internal/importer"
	"github.com/rgoodall/duebook/internal/workflow"
	workflowStore "github.com/rgoodall/duebook/internal/workflow/store"
	"github.com/rgoodall/duebook/internal/workload"
	workloadStore "github.com/rgoodall/duebook/internal/workload/store"
)

func main() {
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
	defer db.Close()

	var (
		ctService       = ct.NewService(ctStore.New(db))
		clientService   = client.NewService(clientStore.New(db), ctService)
		workflowService = workflow.NewService(workflowStore.New(db))
		workloadService = workload.NewService(workloadStore.New(db))
		importService   = importer.NewService(clientService)
		exportService   = export.NewService(clientService)
	)

	var (
		clientH    = clientHandler.NewHandler(clientService)
		ctH        = ctHandler.NewHandler(ctService)
		workflowH  = workflowHandler.NewHandler(workflowService)
		dashboardH = dashboardHandler.NewHandler(clientService, workloadService)
		importH    = importHandler.NewHandler(importService)
		exportH    = exportHandler.NewHandler(exportService)
	)

	router := duebookHttp.New(clientH, ctH, workflowH, dashboardH, importH, exportH, []byte(cfg.Auth.JWTSecret))

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
