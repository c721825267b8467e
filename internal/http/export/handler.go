package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rgoodall/duebook/internal/export"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/reminders", h.reminders)
}

// reminders streams the deadline-reminder CSV for the firm's mail-merge.
// ?horizon_days= widens or narrows the default 30-day window;
// ?include_completed=true keeps finished work in.
func (h *Handler) reminders(w http.ResponseWriter, r *http.Request) {
	opts := export.Options{}

	if s := r.URL.Query().Get("horizon_days"); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil || days < 0 {
			http.Error(w, "invalid horizon_days", http.StatusBadRequest)
			return
		}

		opts.Horizon = days
	}

	opts.IncludeCompleted = r.URL.Query().Get("include_completed") == "true"

	now := time.Now()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"reminders_%s.csv\"", now.Format("20060102")))

	if _, err := h.svc.WriteCSV(r.Context(), w, opts, now); err != nil {
		// Headers are already gone; all we can do is log.
		slog.Error("failed to write reminder csv", "error", err)
	}
}
