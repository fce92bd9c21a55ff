package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"ticketdesk/internal/middleware"
	"ticketdesk/internal/service"
	"ticketdesk/internal/utils"
)

type DashboardHTTP struct {
	stats *service.StatsService
	log   zerolog.Logger
}

func NewDashboardHTTP(stats *service.StatsService, log zerolog.Logger) *DashboardHTTP {
	return &DashboardHTTP{stats: stats, log: log}
}

// GET /dashboard/stats
func (h *DashboardHTTP) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.PrincipalFrom(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		stats, err := h.stats.Aggregate(r.Context(), p)
		if err != nil {
			utils.Fail(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, stats)
	}
}
