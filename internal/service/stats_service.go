package service

import (
	"context"

	"ticketdesk/internal/models"
	"ticketdesk/internal/policy"
	"ticketdesk/internal/repository"
)

// TicketCounter is the slice of the ticket repository the dashboard needs.
type TicketCounter interface {
	CountByStatus(ctx context.Context, scope repository.ScopeFilter) (models.TicketCounts, error)
	CountPerService(ctx context.Context) ([]models.ServiceCount, error)
}

type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// StatsService composes role-scoped dashboard rollups on top of the same
// scope builder the ticket listing uses.
type StatsService struct {
	tickets TicketCounter
	users   UserCounter
	scopes  *repository.ScopeBuilder
}

func NewStatsService(tickets TicketCounter, users UserCounter, scopes *repository.ScopeBuilder) *StatsService {
	return &StatsService{tickets: tickets, users: users, scopes: scopes}
}

// Aggregate returns the stats variant for the principal's role. A manager
// without a configured service gets an empty stats object, mirroring the
// listing's zero-match scope.
func (s *StatsService) Aggregate(ctx context.Context, p policy.Principal) (models.DashboardStats, error) {
	scope, err := s.scopes.Build(ctx, p, repository.TicketFilter{})
	if err != nil {
		return models.DashboardStats{}, err
	}

	switch p.Role {
	case models.RoleAdmin:
		counts, err := s.tickets.CountByStatus(ctx, scope)
		if err != nil {
			return models.DashboardStats{}, err
		}
		total, err := s.users.Count(ctx)
		if err != nil {
			return models.DashboardStats{}, err
		}
		services, err := s.tickets.CountPerService(ctx)
		if err != nil {
			return models.DashboardStats{}, err
		}
		return models.DashboardStats{
			Tickets:  &counts,
			Users:    &models.UserCount{Total: total},
			Services: services,
		}, nil

	case models.RoleManager:
		if scope.None {
			return models.DashboardStats{}, nil
		}
		counts, err := s.tickets.CountByStatus(ctx, scope)
		if err != nil {
			return models.DashboardStats{}, err
		}
		svc := ""
		if len(scope.Preds) > 0 {
			svc, _ = scope.Preds[0].Value.(string)
		}
		return models.DashboardStats{Tickets: &counts, Service: svc}, nil

	default: // plain user: personal counts only
		counts, err := s.tickets.CountByStatus(ctx, scope)
		if err != nil {
			return models.DashboardStats{}, err
		}
		return models.DashboardStats{Tickets: &counts}, nil
	}
}
