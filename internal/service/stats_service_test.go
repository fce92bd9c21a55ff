package service

import (
	"context"
	"testing"

	"ticketdesk/internal/models"
	"ticketdesk/internal/policy"
	"ticketdesk/internal/repository"

	"github.com/stretchr/testify/assert"
)

type fakeTickets struct {
	tickets  []models.Ticket
	services []models.ServiceCount
}

func matches(scope repository.ScopeFilter, t models.Ticket) bool {
	if scope.None {
		return false
	}
	for _, p := range scope.Preds {
		switch p.Column {
		case "user_id":
			if t.UserID != p.Value.(int64) {
				return false
			}
		case "service":
			if t.Service != p.Value.(string) {
				return false
			}
		case "status":
			if string(t.Status) != p.Value.(string) {
				return false
			}
		case "priority":
			if string(t.Priority) != p.Value.(string) {
				return false
			}
		}
	}
	return true
}

func (f *fakeTickets) CountByStatus(ctx context.Context, scope repository.ScopeFilter) (models.TicketCounts, error) {
	var c models.TicketCounts
	for _, t := range f.tickets {
		if !matches(scope, t) {
			continue
		}
		c.Total++
		switch t.Status {
		case models.StatusOpen:
			c.Open++
		case models.StatusInProgress:
			c.InProgress++
		case models.StatusResolved:
			c.Closed++
		}
	}
	return c, nil
}

func (f *fakeTickets) CountPerService(ctx context.Context) ([]models.ServiceCount, error) {
	return f.services, nil
}

type fakeUsers struct {
	total   int64
	service *string
}

func (f *fakeUsers) Count(ctx context.Context) (int64, error) { return f.total, nil }

func (f *fakeUsers) ServiceOf(ctx context.Context, userID int64) (*string, error) {
	return f.service, nil
}

func strptr(s string) *string { return &s }

func newStats(tickets *fakeTickets, users *fakeUsers) *StatsService {
	return NewStatsService(tickets, users, repository.NewScopeBuilder(users))
}

func TestAggregate_AdminBuckets(t *testing.T) {
	tickets := &fakeTickets{
		tickets: []models.Ticket{
			{ID: 1, Service: "IT", Status: models.StatusOpen, UserID: 7},
			{ID: 2, Service: "IT", Status: models.StatusInProgress, UserID: 7},
			{ID: 3, Service: "HR", Status: models.StatusResolved, UserID: 8},
			{ID: 4, Service: "HR", Status: models.StatusInProgress, UserID: 8},
		},
		services: []models.ServiceCount{{Service: "IT", Count: 2}, {Service: "HR", Count: 2}},
	}
	users := &fakeUsers{total: 12}

	stats, err := newStats(tickets, users).Aggregate(context.Background(), policy.Principal{ID: 1, Role: models.RoleAdmin})
	assert.NoError(t, err)
	assert.Equal(t, &models.TicketCounts{Total: 4, Open: 1, InProgress: 2, Closed: 1}, stats.Tickets)
	assert.Equal(t, &models.UserCount{Total: 12}, stats.Users)
	assert.Len(t, stats.Services, 2)
	assert.Empty(t, stats.Service)
}

func TestAggregate_UnknownStatusOnlyInTotal(t *testing.T) {
	tickets := &fakeTickets{tickets: []models.Ticket{
		{ID: 1, Status: models.StatusOpen, UserID: 7},
		{ID: 2, Status: models.Status("annule"), UserID: 7},
	}}

	stats, err := newStats(tickets, &fakeUsers{}).Aggregate(context.Background(), policy.Principal{ID: 1, Role: models.RoleAdmin})
	assert.NoError(t, err)
	assert.Equal(t, &models.TicketCounts{Total: 2, Open: 1}, stats.Tickets)
}

func TestAggregate_ManagerScopedToService(t *testing.T) {
	tickets := &fakeTickets{tickets: []models.Ticket{
		{ID: 1, Service: "IT", Status: models.StatusOpen, UserID: 7},
		{ID: 2, Service: "HR", Status: models.StatusOpen, UserID: 8},
		{ID: 3, Service: "IT", Status: models.StatusResolved, UserID: 9},
	}}
	users := &fakeUsers{service: strptr("IT")}

	stats, err := newStats(tickets, users).Aggregate(context.Background(), policy.Principal{ID: 3, Role: models.RoleManager})
	assert.NoError(t, err)
	assert.Equal(t, &models.TicketCounts{Total: 2, Open: 1, Closed: 1}, stats.Tickets)
	assert.Equal(t, "IT", stats.Service)
	assert.Nil(t, stats.Users)
	assert.Nil(t, stats.Services)
}

func TestAggregate_ManagerWithoutServiceEmptyStats(t *testing.T) {
	tickets := &fakeTickets{tickets: []models.Ticket{
		{ID: 1, Service: "IT", Status: models.StatusOpen, UserID: 7},
	}}

	stats, err := newStats(tickets, &fakeUsers{}).Aggregate(context.Background(), policy.Principal{ID: 3, Role: models.RoleManager})
	assert.NoError(t, err)
	assert.Equal(t, models.DashboardStats{}, stats)
}

func TestAggregate_UserPersonalCounts(t *testing.T) {
	tickets := &fakeTickets{tickets: []models.Ticket{
		{ID: 1, Status: models.StatusOpen, UserID: 7},
		{ID: 2, Status: models.StatusOpen, UserID: 8},
		{ID: 3, Status: models.StatusInProgress, UserID: 7},
	}}

	stats, err := newStats(tickets, &fakeUsers{}).Aggregate(context.Background(), policy.Principal{ID: 7, Role: models.RoleUser})
	assert.NoError(t, err)
	assert.Equal(t, &models.TicketCounts{Total: 2, Open: 1, InProgress: 1}, stats.Tickets)
	assert.Nil(t, stats.Users)
	assert.Empty(t, stats.Service)
}
