package policy

import (
	"strings"

	"ticketdesk/internal/apperr"
)

// FieldChange is one (column, value) pair destined for a parameterized SET
// clause.
type FieldChange struct {
	Column string
	Value  any
}

// ErrNoUpdatableFields covers both an empty patch and a patch whose every
// field the caller may not touch; the policy cannot tell intent from
// permission deficiency.
var ErrNoUpdatableFields = apperr.New(apperr.Validation, "no updatable fields")

// TicketPatch is a proposed ticket update. Nil or blank fields count as
// absent.
type TicketPatch struct {
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Service     *string `json:"service"`
	Description *string `json:"description"`
}

func present(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}

// SelectTicketFields filters patch down to the fields p may set on a ticket
// owned by ownerID. Fields the caller may not touch are excluded, not
// merely ignored: if nothing survives, the update fails.
func SelectTicketFields(p Principal, patch TicketPatch, ownerID int64) ([]FieldChange, error) {
	var changes []FieldChange

	if v, ok := present(patch.Status); ok && CanSetField(p, FieldStatus, ownerID) {
		changes = append(changes, FieldChange{Column: "status", Value: v})
	}
	if v, ok := present(patch.Priority); ok && CanSetField(p, FieldPriority, ownerID) {
		changes = append(changes, FieldChange{Column: "priority", Value: v})
	}
	if v, ok := present(patch.Service); ok && CanSetField(p, FieldService, ownerID) {
		changes = append(changes, FieldChange{Column: "service", Value: v})
	}
	if v, ok := present(patch.Description); ok && CanSetField(p, FieldDescription, ownerID) {
		changes = append(changes, FieldChange{Column: "description", Value: v})
	}

	if len(changes) == 0 {
		return nil, ErrNoUpdatableFields
	}
	return changes, nil
}
