package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"ticketdesk/internal/models"
	"ticketdesk/internal/policy"
	"ticketdesk/internal/repository"
	"ticketdesk/internal/utils"
)

type UserHTTP struct {
	users   repository.UserRepository
	tickets repository.TicketRepository
	log     zerolog.Logger
}

func NewUserHTTP(users repository.UserRepository, tickets repository.TicketRepository, log zerolog.Logger) *UserHTTP {
	return &UserHTTP{users: users, tickets: tickets, log: log}
}

// GET /users?q=&role=&limit=&offset= (admin only, gated in the router)
func (h *UserHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		f := repository.UserFilter{
			Q:      qv.Get("q"),
			Role:   qv.Get("role"),
			Limit:  utils.QueryInt(qv, "limit", 50),
			Offset: utils.QueryInt(qv, "offset", 0),
		}
		users, total, err := h.users.List(r.Context(), f)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
		utils.JSON(w, http.StatusOK, map[string]any{"items": users, "total": total})
	}
}

// GET /users/{id} (self or admin) — embeds the user's tickets, newest first.
func (h *UserHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid id")
			return
		}
		u, err := h.users.GetByID(r.Context(), id)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		if u == nil {
			utils.Error(w, http.StatusNotFound, "user not found")
			return
		}

		tickets, err := h.tickets.List(r.Context(), repository.Owned(id))
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, struct {
			models.User
			Tickets []models.Ticket `json:"tickets"`
		}{User: *u, Tickets: tickets})
	}
}

// PUT /users/{id} (admin only) — dynamic field set over name, email, role
// and service; an empty set is a validation failure.
func (h *UserHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		Role    *string `json:"role"`
		Service *string `json:"service"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid id")
			return
		}
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		var changes []policy.FieldChange
		if v := deref(in.Name); v != "" {
			changes = append(changes, policy.FieldChange{Column: "name", Value: v})
		}
		if v := deref(in.Email); v != "" {
			changes = append(changes, policy.FieldChange{Column: "email", Value: v})
		}
		if v := deref(in.Role); v != "" {
			role, ok := models.ParseRole(v)
			if !ok {
				utils.Error(w, http.StatusBadRequest, "invalid role")
				return
			}
			changes = append(changes, policy.FieldChange{Column: "role", Value: role})
		}
		if v := deref(in.Service); v != "" {
			changes = append(changes, policy.FieldChange{Column: "service", Value: v})
		}
		if len(changes) == 0 {
			utils.Error(w, http.StatusBadRequest, "no fields to update")
			return
		}

		u, err := h.users.Update(r.Context(), id, changes)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		if u == nil {
			utils.Error(w, http.StatusNotFound, "user not found")
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}

// DELETE /users/{id} (admin only)
func (h *UserHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid id")
			return
		}
		u, err := h.users.Delete(r.Context(), id)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		if u == nil {
			utils.Error(w, http.StatusNotFound, "user not found")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"message": "user deleted", "user": u})
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
