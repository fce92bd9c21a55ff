// Package policy holds the pure access-control decisions: which tickets a
// principal may touch and which fields it may change. Nothing here talks to
// the database; callers resolve a manager's service and pass it in, since it
// can change between requests and must not be cached on the principal.
package policy

import (
	"ticketdesk/internal/models"
)

// Principal is the authenticated identity for one request. Immutable; never
// persisted.
type Principal struct {
	ID    int64
	Email string
	Role  models.Role
}

// Decision is the outcome of an access check on a single resource.
type Decision int

const (
	// Allow grants access.
	Allow Decision = iota
	// DenyScope means the resource lies outside the principal's scope.
	DenyScope
	// DenyNone means the principal has no scope at all, e.g. a manager
	// without a configured service.
	DenyNone
)

func (d Decision) Allowed() bool { return d == Allow }

// CanAccessTicket decides whether p may read or mutate the ticket identified
// by its owner and service. principalService is the manager's service looked
// up at decision time; it is ignored for other roles.
func CanAccessTicket(p Principal, principalService *string, ownerID int64, ticketService string) Decision {
	switch p.Role {
	case models.RoleAdmin:
		return Allow
	case models.RoleManager:
		if principalService == nil || *principalService == "" {
			return DenyNone
		}
		if *principalService == ticketService {
			return Allow
		}
		return DenyScope
	case models.RoleUser:
		if ownerID == p.ID {
			return Allow
		}
		return DenyScope
	default:
		return DenyNone
	}
}

// CanDeleteTicket: owner or admin only. Managers triage tickets, they do not
// remove them.
func CanDeleteTicket(p Principal, ownerID int64) bool {
	return p.Role == models.RoleAdmin || ownerID == p.ID
}

// TicketField enumerates the mutable ticket columns.
type TicketField int

const (
	FieldStatus TicketField = iota
	FieldPriority
	FieldService
	FieldDescription
)

func (f TicketField) Column() string {
	switch f {
	case FieldStatus:
		return "status"
	case FieldPriority:
		return "priority"
	case FieldService:
		return "service"
	default:
		return "description"
	}
}

// CanSetField decides whether p may change one field of a ticket it already
// has access to. Ownership grants status and description; role grants
// priority and service. A plain user can flip the status of their own ticket
// but never its priority.
func CanSetField(p Principal, field TicketField, ownerID int64) bool {
	switch field {
	case FieldStatus:
		return true
	case FieldPriority:
		return p.Role == models.RoleAdmin || p.Role == models.RoleManager
	case FieldService:
		return p.Role == models.RoleAdmin
	case FieldDescription:
		return p.Role == models.RoleAdmin || ownerID == p.ID
	default:
		return false
	}
}
