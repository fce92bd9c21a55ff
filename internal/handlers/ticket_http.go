package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"ticketdesk/internal/middleware"
	"ticketdesk/internal/models"
	"ticketdesk/internal/policy"
	"ticketdesk/internal/repository"
	"ticketdesk/internal/utils"
)

// TicketHTTP wires the ticket endpoints to the scope builder, the field
// policy and the repository.
type TicketHTTP struct {
	tickets  repository.TicketRepository
	services repository.ServiceLookup
	scopes   *repository.ScopeBuilder
	log      zerolog.Logger
}

func NewTicketHTTP(tickets repository.TicketRepository, services repository.ServiceLookup, scopes *repository.ScopeBuilder, log zerolog.Logger) *TicketHTTP {
	return &TicketHTTP{tickets: tickets, services: services, scopes: scopes, log: log}
}

// GET /tickets?service=&status=&user_id=&priority=
func (h *TicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.PrincipalFrom(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}

		qv := r.URL.Query()
		f := repository.TicketFilter{
			Service:  strings.TrimSpace(qv.Get("service")),
			Status:   strings.TrimSpace(qv.Get("status")),
			Priority: strings.TrimSpace(qv.Get("priority")),
			UserID:   utils.QueryInt64(qv, "user_id"),
		}

		scope, err := h.scopes.Build(r.Context(), p, f)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		items, err := h.tickets.List(r.Context(), scope)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, items)
	}
}

// POST /tickets — the caller becomes the owner; ownership is never
// reassigned afterwards.
func (h *TicketHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Service     string `json:"service"`
		Priority    string `json:"priority"`
		Description string `json:"description"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.PrincipalFrom(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Service = strings.TrimSpace(in.Service)
		in.Description = strings.TrimSpace(in.Description)
		if in.Service == "" || in.Description == "" {
			utils.Error(w, http.StatusBadRequest, "service and description required")
			return
		}

		prio := models.PriorityMedium
		if s := strings.TrimSpace(in.Priority); s != "" {
			v, ok := models.ParsePriority(s)
			if !ok {
				utils.Error(w, http.StatusBadRequest, "invalid priority")
				return
			}
			prio = v
		}

		t := &models.Ticket{
			Service:     in.Service,
			Priority:    prio,
			Status:      models.StatusOpen,
			Description: in.Description,
			UserID:      p.ID,
		}
		if err := h.tickets.Create(r.Context(), t); err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusCreated, t)
	}
}

// PUT /tickets/{id} — fetch the snapshot, check access, then apply only the
// fields the policy lets through. The fetch and the update are deliberately
// not one transaction; ownership is immutable so the window is harmless in
// practice.
func (h *TicketHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.PrincipalFrom(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid id")
			return
		}

		var patch policy.TicketPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		t, err := h.tickets.Get(r.Context(), id)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		if t == nil {
			utils.Error(w, http.StatusNotFound, "ticket not found")
			return
		}

		var psvc *string
		if p.Role == models.RoleManager {
			psvc, err = h.services.ServiceOf(r.Context(), p.ID)
			if err != nil {
				utils.Fail(w, h.log, err)
				return
			}
		}
		if d := policy.CanAccessTicket(p, psvc, t.UserID, t.Service); !d.Allowed() {
			utils.Error(w, http.StatusForbidden, "access denied")
			return
		}

		changes, err := policy.SelectTicketFields(p, patch, t.UserID)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}

		updated, err := h.tickets.Update(r.Context(), id, changes)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		if updated == nil {
			utils.Error(w, http.StatusNotFound, "ticket not found")
			return
		}
		utils.JSON(w, http.StatusOK, updated)
	}
}

// DELETE /tickets/{id} — owner or admin.
func (h *TicketHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.PrincipalFrom(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid id")
			return
		}

		t, err := h.tickets.Get(r.Context(), id)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		if t == nil {
			utils.Error(w, http.StatusNotFound, "ticket not found")
			return
		}
		if !policy.CanDeleteTicket(p, t.UserID) {
			utils.Error(w, http.StatusForbidden, "access denied")
			return
		}

		deleted, err := h.tickets.Delete(r.Context(), id)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		if deleted == nil {
			utils.Error(w, http.StatusNotFound, "ticket not found")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"message": "ticket deleted", "ticket": deleted})
	}
}
