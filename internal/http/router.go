package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rgoodall/duebook/internal/http/auth"
	"github.com/rgoodall/duebook/internal/http/client"
	"github.com/rgoodall/duebook/internal/http/ct"
	"github.com/rgoodall/duebook/internal/http/dashboard"
	"github.com/rgoodall/duebook/internal/http/export"
	"github.com/rgoodall/duebook/internal/http/importcsv"
	"github.com/rgoodall/duebook/internal/http/workflow"
)

func New(
	clientsV1 *client.Handler,
	ctV1 *ct.Handler,
	workflowsV1 *workflow.Handler,
	dashboardV1 *dashboard.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
	authSecret []byte,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(authSecret))

		r.Route("/clients", func(r chi.Router) {
			clientsV1.Routes(r)

			r.Route("/{id}/ct", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				ctV1.Routes(r)
			})
		})

		r.Route("/workflows", func(r chi.Router) {
			workflowsV1.Routes(r)
		})

		r.Route("/dashboard", func(r chi.Router) {
			dashboardV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/export", func(r chi.Router) {
			exportV1.Routes(r)
		})
	})

	return router
}
