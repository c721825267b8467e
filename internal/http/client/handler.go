package client

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/client"
	"github.com/rgoodall/duebook/internal/dates"
	"github.com/rgoodall/duebook/internal/http/auth"
)

type Handler struct {
	svc *client.Service
}

func NewHandler(svc *client.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/refresh-deadlines", h.refreshDeadlines)
}

type clientRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	CompanyNumber *string `json:"company_number"`

	IncorporationDate    *time.Time `json:"incorporation_date"`
	AccountingRefDay     int        `json:"accounting_ref_day"`
	AccountingRefMonth   int        `json:"accounting_ref_month"`
	LastAccountsMadeUpTo *time.Time `json:"last_accounts_made_up_to"`
	CHNextYearEnd        *time.Time `json:"ch_next_year_end"`

	VATEnabled      bool    `json:"vat_enabled"`
	VATQuarterGroup *string `json:"vat_quarter_group"`

	IsContractor    bool `json:"is_contractor"`
	IsSubcontractor bool `json:"is_subcontractor"`

	Assignees client.Assignees `json:"assignees"`
}

func (req clientRequest) apply(c *client.Client) error {
	c.Name = req.Name
	c.CompanyNumber = req.CompanyNumber
	c.IncorporationDate = req.IncorporationDate
	c.AccountingRefDay = req.AccountingRefDay
	c.AccountingRefMonth = time.Month(req.AccountingRefMonth)
	c.LastAccountsMadeUpTo = req.LastAccountsMadeUpTo
	c.CHNextYearEnd = req.CHNextYearEnd
	c.VATEnabled = req.VATEnabled
	c.IsContractor = req.IsContractor
	c.IsSubcontractor = req.IsSubcontractor
	c.Assignees = req.Assignees

	typ, err := client.ParseType(req.Type)
	if err != nil {
		return err
	}

	c.Type = typ

	if req.VATQuarterGroup != nil {
		group, err := dates.ParseQuarterGroup(*req.VATQuarterGroup)
		if err != nil {
			return err
		}

		c.VATQuarterGroup = &group
	} else {
		c.VATQuarterGroup = nil
	}

	return nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var c client.Client
	if err := req.apply(&c); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Create(r.Context(), &c); err != nil {
		if errors.Is(err, client.ErrInvalid) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(&c); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(clients); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(c); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if err := req.apply(c); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Update(r.Context(), c); err != nil {
		if errors.Is(err, client.ErrInvalid) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(c); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type refreshRequest struct {
	CompaniesHouseChanged bool `json:"companies_house_changed"`
}

type refreshResponse struct {
	Warnings []string `json:"warnings"`
}

func (h *Handler) refreshDeadlines(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	actorID, ok := auth.ActorID(r.Context())
	if !ok {
		http.Error(w, "missing actor", http.StatusUnauthorized)
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	warnings, err := h.svc.RefreshDeadlines(r.Context(), id, req.CompaniesHouseChanged, actorID, time.Now())
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if warnings == nil {
		warnings = []string{}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(refreshResponse{Warnings: warnings}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
