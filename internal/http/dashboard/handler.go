package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/client"
	"github.com/rgoodall/duebook/internal/deadline"
	"github.com/rgoodall/duebook/internal/workload"
)

// DeadlineLister is the slice of the client service the dashboard needs.
type DeadlineLister interface {
	Deadlines(ctx context.Context) ([]client.Deadline, error)
}

type Handler struct {
	deadlines DeadlineLister
	workload  *workload.Service
}

func NewHandler(deadlines DeadlineLister, workloadSvc *workload.Service) *Handler {
	return &Handler{deadlines: deadlines, workload: workloadSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/deadlines", h.bucketedDeadlines)
	r.Get("/breakdown", h.breakdown)
	r.Get("/workload", h.workloadCounts)
}

type deadlineEntry struct {
	ClientID   uuid.UUID         `json:"client_id"`
	ClientName string            `json:"client_name"`
	Obligation client.Obligation `json:"obligation"`
	Due        time.Time         `json:"due"`
	AssigneeID *uuid.UUID        `json:"assignee_id,omitempty"`
}

type deadlinesResponse struct {
	Overdue  []deadlineEntry `json:"overdue"`
	DueSoon  []deadlineEntry `json:"due_soon"`
	Upcoming []deadlineEntry `json:"upcoming"`
}

// bucketedDeadlines renders the two-tier dashboard: overdue, due within a
// week, due within a month. Completed obligations and anything further out
// are not shown.
func (h *Handler) bucketedDeadlines(w http.ResponseWriter, r *http.Request) {
	items, err := h.deadlines.Deadlines(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	now := time.Now()

	resp := deadlinesResponse{
		Overdue:  []deadlineEntry{},
		DueSoon:  []deadlineEntry{},
		Upcoming: []deadlineEntry{},
	}

	for _, d := range items {
		entry := deadlineEntry{
			ClientID:   d.ClientID,
			ClientName: d.ClientName,
			Obligation: d.Obligation,
			Due:        d.Due,
			AssigneeID: d.AssigneeID,
		}

		switch deadline.ClassifyWorkflow(d.Due, d.Completed, now) {
		case deadline.BucketOverdue:
			resp.Overdue = append(resp.Overdue, entry)
		case deadline.BucketDueSoon:
			resp.DueSoon = append(resp.DueSoon, entry)
		case deadline.BucketUpcoming:
			resp.Upcoming = append(resp.Upcoming, entry)
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type breakdownResponse struct {
	Windows map[string]int `json:"windows"`
}

// breakdown renders the five-tier widget: counts of open obligations due
// within 7/15/30/60/90 days, each counted into exactly one window.
func (h *Handler) breakdown(w http.ResponseWriter, r *http.Request) {
	items, err := h.deadlines.Deadlines(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var dues []time.Time

	for _, d := range items {
		if !d.Completed {
			dues = append(dues, d.Due)
		}
	}

	resp := breakdownResponse{Windows: make(map[string]int)}

	for window, count := range deadline.Breakdown(dues, time.Now()) {
		resp.Windows[strconv.Itoa(int(window))] = count
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// workloadCounts renders per-line active/inactive counts: the whole firm by
// default, one staff member with ?user_id=.
func (h *Handler) workloadCounts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s := r.URL.Query().Get("user_id"); s != "" {
		userID, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid user_id", http.StatusBadRequest)
			return
		}

		summary, err := h.workload.ForUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := json.NewEncoder(w).Encode(summary); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	overview, err := h.workload.Overview(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(overview); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
