package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"ticketdesk/internal/service"
	"ticketdesk/internal/utils"

	"github.com/rs/zerolog"
)

type AuthHTTP struct {
	svc *service.AuthService
	log zerolog.Logger
}

func NewAuthHTTP(s *service.AuthService, log zerolog.Logger) *AuthHTTP {
	return &AuthHTTP{svc: s, log: log}
}

func (h *AuthHTTP) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Name     string  `json:"name"`
			Email    string  `json:"email"`
			Password string  `json:"password"`
			Service  *string `json:"service"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if in.Service != nil && strings.TrimSpace(*in.Service) == "" {
			in.Service = nil
		}

		u, tok, err := h.svc.Register(r.Context(), in.Name, in.Email, in.Password, in.Service)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusCreated, map[string]any{"user": u, "token": tok})
	}
}

func (h *AuthHTTP) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, tok, err := h.svc.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"user": u, "token": tok})
	}
}
