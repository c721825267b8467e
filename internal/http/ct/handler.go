package ct

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/ct"
	"github.com/rgoodall/duebook/internal/http/auth"
)

type Handler struct {
	svc *ct.Service
}

func NewHandler(svc *ct.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts under /clients/{id}/ct.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Post("/filed", h.markFiled)
	r.Post("/override", h.override)
	r.Post("/reset", h.reset)
}

type trackingResponse struct {
	ClientID uuid.UUID `json:"client_id"`

	Status      ct.TrackingStatus `json:"status"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	PeriodStart *time.Time        `json:"period_start,omitempty"`
	PeriodEnd   *time.Time        `json:"period_end,omitempty"`

	Source         ct.Source  `json:"source"`
	ManualOverride *time.Time `json:"manual_override,omitempty"`

	FiledAt   *time.Time `json:"filed_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
}

func toResponse(t *ct.Tracking, now time.Time) trackingResponse {
	return trackingResponse{
		ClientID:       t.ClientID,
		Status:         ct.Status(*t, now),
		DueDate:        t.DueDate,
		PeriodStart:    t.PeriodStart,
		PeriodEnd:      t.PeriodEnd,
		Source:         t.Source,
		ManualOverride: t.ManualOverride,
		FiledAt:        t.FiledAt,
		UpdatedAt:      t.UpdatedAt,
		UpdatedBy:      t.UpdatedBy,
	}
}

func clientID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := clientID(r)
	if err != nil {
		http.Error(w, "invalid client id", http.StatusBadRequest)
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ct.ErrNotFound) {
			http.Error(w, "no ct tracking record", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(t, time.Now())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type markFiledRequest struct {
	// NextYearEnd, when known, rolls the obligation straight on to the
	// next period.
	NextYearEnd *time.Time `json:"next_year_end,omitempty"`
}

func (h *Handler) markFiled(w http.ResponseWriter, r *http.Request) {
	id, err := clientID(r)
	if err != nil {
		http.Error(w, "invalid client id", http.StatusBadRequest)
		return
	}

	actorID, ok := auth.ActorID(r.Context())
	if !ok {
		http.Error(w, "missing actor", http.StatusUnauthorized)
		return
	}

	var req markFiledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := h.svc.MarkFiled(r.Context(), id, actorID, time.Now(), req.NextYearEnd)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(t, time.Now())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type overrideRequest struct {
	DueDate time.Time `json:"due_date"`
}

func (h *Handler) override(w http.ResponseWriter, r *http.Request) {
	id, err := clientID(r)
	if err != nil {
		http.Error(w, "invalid client id", http.StatusBadRequest)
		return
	}

	actorID, ok := auth.ActorID(r.Context())
	if !ok {
		http.Error(w, "missing actor", http.StatusUnauthorized)
		return
	}

	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.DueDate.IsZero() {
		http.Error(w, "due_date is required", http.StatusBadRequest)
		return
	}

	t, err := h.svc.Override(r.Context(), id, req.DueDate, actorID, time.Now())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(t, time.Now())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type resetRequest struct {
	YearEnd time.Time `json:"year_end"`
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	id, err := clientID(r)
	if err != nil {
		http.Error(w, "invalid client id", http.StatusBadRequest)
		return
	}

	actorID, ok := auth.ActorID(r.Context())
	if !ok {
		http.Error(w, "missing actor", http.StatusUnauthorized)
		return
	}

	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.YearEnd.IsZero() {
		http.Error(w, "year_end is required", http.StatusBadRequest)
		return
	}

	t, err := h.svc.Reset(r.Context(), id, req.YearEnd, actorID, time.Now())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(t, time.Now())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
