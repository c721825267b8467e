package workflow

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/http/auth"
	"github.com/rgoodall/duebook/internal/workflow"
)

type Handler struct {
	svc *workflow.Service
}

func NewHandler(svc *workflow.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)

	r.Route("/{type}/{clientID}/{periodID}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Get("/stages", h.stages)
		r.Get("/history", h.history)
		r.Post("/transition", h.transition)
		r.Put("/assignee", h.assign)
	})
}

// periodKey parses the identifying URL params shared by the period routes.
func periodKey(r *http.Request) (workflow.Key, error) {
	typ, err := workflow.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		return workflow.Key{}, err
	}

	clientID, err := uuid.Parse(chi.URLParam(r, "clientID"))
	if err != nil {
		return workflow.Key{}, errors.New("invalid client id")
	}

	periodID := chi.URLParam(r, "periodID")
	if periodID == "" {
		return workflow.Key{}, errors.New("missing period id")
	}

	return workflow.Key{ClientID: clientID, Type: typ, PeriodID: periodID}, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := workflow.ListFilter{}

	if s := r.URL.Query().Get("type"); s != "" {
		typ, err := workflow.ParseType(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		filter.Type = &typ
	}

	if s := r.URL.Query().Get("assigned_user_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid assigned_user_id", http.StatusBadRequest)
			return
		}

		filter.AssignedUserID = &id
	}

	if s := r.URL.Query().Get("completed"); s != "" {
		filter.Completed = new(s == "true")
	}

	periods, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(periods)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type getPeriodRequest struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	FilingDue   time.Time `json:"filing_due"`
}

// get returns the period, creating it lazily on first access. The period
// boundary query params seed the record when it does not exist yet.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bounds := getPeriodRequest{}

	if s := r.URL.Query().Get("period_start"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			bounds.PeriodStart = t
		}
	}

	if s := r.URL.Query().Get("period_end"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			bounds.PeriodEnd = t
		}
	}

	if s := r.URL.Query().Get("filing_due"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			bounds.FilingDue = t
		}
	}

	p, err := h.svc.GetOrCreate(r.Context(), workflow.CreateParams{
		Key:         key,
		PeriodStart: bounds.PeriodStart,
		PeriodEnd:   bounds.PeriodEnd,
		FilingDue:   bounds.FilingDue,
		Now:         time.Now(),
	})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type stagesResponse struct {
	Current Stage   `json:"current"`
	Allowed []Stage `json:"allowed"`
}

// stages returns the picker options for the period's current stage. System-set
// stages (manager and partner review) are filtered out: they are stamped by
// review actions, never chosen by hand.
func (h *Handler) stages(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			http.Error(w, "workflow period not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	allowed, err := workflow.AllowedNextStages(p.CurrentStage, key.Type)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := stagesResponse{Current: toStage(p.CurrentStage), Allowed: []Stage{}}

	for _, s := range allowed {
		if workflow.IsUserSelectable(s) {
			resp.Allowed = append(resp.Allowed, toStage(s))
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.svc.History(r.Context(), key)
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			http.Error(w, "workflow period not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toHistoryList(entries)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type transitionRequest struct {
	ToStage     string `json:"to_stage"`
	Notes       string `json:"notes"`
	ConfirmSkip bool   `json:"confirm_skip"`
}

type skipResponse struct {
	Error         string   `json:"error"`
	SkippedStages []string `json:"skipped_stages"`
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actorID, ok := auth.ActorID(r.Context())
	if !ok {
		http.Error(w, "missing actor", http.StatusUnauthorized)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Transition(r.Context(), workflow.TransitionParams{
		Key:         key,
		ToStage:     workflow.Stage(req.ToStage),
		Notes:       req.Notes,
		ConfirmSkip: req.ConfirmSkip,
		ActorID:     actorID,
		Now:         time.Now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			http.Error(w, "workflow period not found", http.StatusNotFound)
		case errors.Is(err, workflow.ErrCompleted):
			http.Error(w, "workflow period is completed", http.StatusConflict)
		case errors.Is(err, workflow.ErrSkipNeedsConfirm):
			writeSkipConflict(w, result)
		case errors.Is(err, workflow.ErrStageNotAllowed):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(result.Period)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeSkipConflict reports a detected stage skip so the UI can raise its
// confirmation dialog and retry with confirm_skip set.
func writeSkipConflict(w http.ResponseWriter, result *workflow.TransitionResult) {
	resp := skipResponse{
		Error:         "transition skips stages and requires confirmation",
		SkippedStages: []string{},
	}

	if result != nil {
		for _, s := range result.Check.SkippedStages {
			resp.SkippedStages = append(resp.SkippedStages, string(s))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type assignRequest struct {
	UserID *uuid.UUID `json:"user_id"`
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Assign(r.Context(), key, req.UserID); err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			http.Error(w, "workflow period not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
