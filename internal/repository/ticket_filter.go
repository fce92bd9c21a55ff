package repository

import (
	"context"
	"strconv"
	"strings"

	"ticketdesk/internal/models"
	"ticketdesk/internal/policy"
)

// TicketFilter carries the caller-supplied listing filters. These only ever
// narrow the role-seeded scope, they never widen it.
type TicketFilter struct {
	Service  string
	Status   string
	Priority string
	UserID   *int64
}

// Predicate is one (column, value) equality, AND-combined with its peers.
type Predicate struct {
	Column string
	Value  any
}

// ScopeFilter bounds a ticket query to rows the principal may see. None
// marks a filter that matches nothing, used for managers without a
// configured service.
type ScopeFilter struct {
	None  bool
	Preds []Predicate
}

// ServiceLookup resolves a user's service at decision time. nil means the
// user has none.
type ServiceLookup interface {
	ServiceOf(ctx context.Context, userID int64) (*string, error)
}

// ServiceLookupFunc adapts a function to ServiceLookup.
type ServiceLookupFunc func(ctx context.Context, userID int64) (*string, error)

func (f ServiceLookupFunc) ServiceOf(ctx context.Context, userID int64) (*string, error) {
	return f(ctx, userID)
}

// ScopeBuilder turns a principal plus requested filters into scope
// predicates.
type ScopeBuilder struct {
	services ServiceLookup
}

func NewScopeBuilder(services ServiceLookup) *ScopeBuilder {
	return &ScopeBuilder{services: services}
}

// Build seeds the predicate list from the role, then appends the requested
// filters. Predicate order is fixed: role seed, service, status, user_id,
// priority.
//
// A plain user is always pinned to their own tickets; a requested user_id is
// dropped for that role, not merged. A manager with no service matches zero
// rows rather than erroring.
func (b *ScopeBuilder) Build(ctx context.Context, p policy.Principal, f TicketFilter) (ScopeFilter, error) {
	var preds []Predicate

	switch p.Role {
	case models.RoleUser:
		preds = append(preds, Predicate{Column: "user_id", Value: p.ID})
	case models.RoleManager:
		svc, err := b.services.ServiceOf(ctx, p.ID)
		if err != nil {
			return ScopeFilter{}, err
		}
		if svc == nil || *svc == "" {
			return ScopeFilter{None: true}, nil
		}
		preds = append(preds, Predicate{Column: "service", Value: *svc})
	case models.RoleAdmin:
		// unscoped
	}

	if f.Service != "" {
		preds = append(preds, Predicate{Column: "service", Value: f.Service})
	}
	if f.Status != "" {
		preds = append(preds, Predicate{Column: "status", Value: f.Status})
	}
	if f.UserID != nil && (p.Role == models.RoleAdmin || p.Role == models.RoleManager) {
		preds = append(preds, Predicate{Column: "user_id", Value: *f.UserID})
	}
	if f.Priority != "" {
		preds = append(preds, Predicate{Column: "priority", Value: f.Priority})
	}

	return ScopeFilter{Preds: preds}, nil
}

// Owned returns a filter matching exactly one user's tickets.
func Owned(userID int64) ScopeFilter {
	return ScopeFilter{Preds: []Predicate{{Column: "user_id", Value: userID}}}
}

// Where renders the filter as a parameterized WHERE fragment. Columns are
// prefixed with alias, placeholders start at $start. An empty filter renders
// to an empty string.
func (f ScopeFilter) Where(alias string, start int) (string, []any) {
	if f.None {
		return "WHERE false", nil
	}
	if len(f.Preds) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(f.Preds))
	args := make([]any, 0, len(f.Preds))
	for i, p := range f.Preds {
		clauses = append(clauses, alias+p.Column+" = $"+strconv.Itoa(start+i))
		args = append(args, p.Value)
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}
