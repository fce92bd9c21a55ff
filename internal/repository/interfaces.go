package repository

import (
	"context"

	"ticketdesk/internal/models"
	"ticketdesk/internal/policy"
)

type TicketRepository interface {
	List(ctx context.Context, scope ScopeFilter) ([]models.Ticket, error)
	Get(ctx context.Context, id int64) (*models.Ticket, error)
	Create(ctx context.Context, t *models.Ticket) error
	Update(ctx context.Context, id int64, changes []policy.FieldChange) (*models.Ticket, error)
	Delete(ctx context.Context, id int64) (*models.Ticket, error)
	CountByStatus(ctx context.Context, scope ScopeFilter) (models.TicketCounts, error)
	CountPerService(ctx context.Context) ([]models.ServiceCount, error)
}

type UserFilter struct {
	Q      string // matches name or email, ILIKE
	Role   string
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string, role models.Role, service *string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, f UserFilter) ([]models.User, int, error)
	Update(ctx context.Context, id int64, changes []policy.FieldChange) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	ServiceOf(ctx context.Context, userID int64) (*string, error)
}
