package policy

import (
	"testing"

	"ticketdesk/internal/models"

	"github.com/stretchr/testify/assert"
)

func columns(changes []FieldChange) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.Column
	}
	return out
}

func TestSelectTicketFields_UserPriorityOnly(t *testing.T) {
	// A user offering only a priority change on their own ticket ends up
	// with an empty permitted set.
	p := Principal{ID: 7, Role: models.RoleUser}
	patch := TicketPatch{Priority: strptr("haute")}

	changes, err := SelectTicketFields(p, patch, 7)
	assert.ErrorIs(t, err, ErrNoUpdatableFields)
	assert.Nil(t, changes)
}

func TestSelectTicketFields_ManagerServiceOnly(t *testing.T) {
	// service is excluded for managers, not merely ignored: when it is the
	// only field offered, the whole update fails.
	p := Principal{ID: 2, Role: models.RoleManager}
	patch := TicketPatch{Service: strptr("HR")}

	_, err := SelectTicketFields(p, patch, 99)
	assert.ErrorIs(t, err, ErrNoUpdatableFields)
}

func TestSelectTicketFields_ManagerStatusPriority(t *testing.T) {
	p := Principal{ID: 2, Role: models.RoleManager}
	patch := TicketPatch{
		Status:   strptr("en_cours"),
		Priority: strptr("haute"),
		Service:  strptr("HR"), // silently excluded alongside permitted fields
	}

	changes, err := SelectTicketFields(p, patch, 99)
	assert.NoError(t, err)
	assert.Equal(t, []string{"status", "priority"}, columns(changes))
}

func TestSelectTicketFields_OwnerStatusDescription(t *testing.T) {
	p := Principal{ID: 7, Role: models.RoleUser}
	patch := TicketPatch{
		Status:      strptr("resolu"),
		Description: strptr("fixed it myself"),
	}

	changes, err := SelectTicketFields(p, patch, 7)
	assert.NoError(t, err)
	assert.Equal(t, []string{"status", "description"}, columns(changes))
}

func TestSelectTicketFields_EmptyPatch(t *testing.T) {
	p := Principal{ID: 1, Role: models.RoleAdmin}

	_, err := SelectTicketFields(p, TicketPatch{}, 1)
	assert.ErrorIs(t, err, ErrNoUpdatableFields)

	// Blank strings count as absent, same as the fields not being sent.
	_, err = SelectTicketFields(p, TicketPatch{Status: strptr("  ")}, 1)
	assert.ErrorIs(t, err, ErrNoUpdatableFields)
}

func TestSelectTicketFields_AdminAll(t *testing.T) {
	p := Principal{ID: 1, Role: models.RoleAdmin}
	patch := TicketPatch{
		Status:      strptr("en_cours"),
		Priority:    strptr("basse"),
		Service:     strptr("HR"),
		Description: strptr("rerouted"),
	}

	changes, err := SelectTicketFields(p, patch, 99)
	assert.NoError(t, err)
	assert.Equal(t, []string{"status", "priority", "service", "description"}, columns(changes))
}
