package repository

import (
	"context"
	"errors"
	"testing"

	"ticketdesk/internal/models"
	"ticketdesk/internal/policy"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }
func i64(v int64) *int64      { return &v }

func staticService(svc *string) ServiceLookup {
	return ServiceLookupFunc(func(ctx context.Context, userID int64) (*string, error) {
		return svc, nil
	})
}

func TestBuild_UserForcedToOwnTickets(t *testing.T) {
	b := NewScopeBuilder(staticService(nil))
	p := policy.Principal{ID: 7, Role: models.RoleUser}

	// A requested user_id is dropped for plain users, not merged.
	scope, err := b.Build(context.Background(), p, TicketFilter{UserID: i64(42), Service: "HR", Status: "ouvert"})
	assert.NoError(t, err)
	assert.False(t, scope.None)
	assert.Equal(t, []Predicate{
		{Column: "user_id", Value: int64(7)},
		{Column: "service", Value: "HR"},
		{Column: "status", Value: "ouvert"},
	}, scope.Preds)
}

func TestBuild_ManagerWithoutServiceMatchesNothing(t *testing.T) {
	p := policy.Principal{ID: 3, Role: models.RoleManager}

	for _, svc := range []*string{nil, strptr("")} {
		b := NewScopeBuilder(staticService(svc))
		scope, err := b.Build(context.Background(), p, TicketFilter{})
		assert.NoError(t, err)
		assert.True(t, scope.None)

		where, args := scope.Where("t.", 1)
		assert.Equal(t, "WHERE false", where)
		assert.Empty(t, args)
	}
}

func TestBuild_ManagerSeedNotOverriddenByRequestedService(t *testing.T) {
	b := NewScopeBuilder(staticService(strptr("IT")))
	p := policy.Principal{ID: 3, Role: models.RoleManager}

	// Requested filters narrow, never widen: IT ∩ HR is empty by
	// AND-combination, not by replacing the seed.
	scope, err := b.Build(context.Background(), p, TicketFilter{Service: "HR"})
	assert.NoError(t, err)
	assert.Equal(t, []Predicate{
		{Column: "service", Value: "IT"},
		{Column: "service", Value: "HR"},
	}, scope.Preds)
}

func TestBuild_AdminOrderDeterministic(t *testing.T) {
	b := NewScopeBuilder(staticService(nil))
	p := policy.Principal{ID: 1, Role: models.RoleAdmin}

	scope, err := b.Build(context.Background(), p, TicketFilter{
		Priority: "haute",
		UserID:   i64(5),
		Status:   "en_cours",
		Service:  "IT",
	})
	assert.NoError(t, err)
	assert.Equal(t, []Predicate{
		{Column: "service", Value: "IT"},
		{Column: "status", Value: "en_cours"},
		{Column: "user_id", Value: int64(5)},
		{Column: "priority", Value: "haute"},
	}, scope.Preds)
}

func TestBuild_ManagerMayFilterByUserID(t *testing.T) {
	b := NewScopeBuilder(staticService(strptr("IT")))
	p := policy.Principal{ID: 3, Role: models.RoleManager}

	scope, err := b.Build(context.Background(), p, TicketFilter{UserID: i64(5)})
	assert.NoError(t, err)
	assert.Equal(t, []Predicate{
		{Column: "service", Value: "IT"},
		{Column: "user_id", Value: int64(5)},
	}, scope.Preds)
}

func TestBuild_LookupErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	b := NewScopeBuilder(ServiceLookupFunc(func(ctx context.Context, userID int64) (*string, error) {
		return nil, boom
	}))
	p := policy.Principal{ID: 3, Role: models.RoleManager}

	_, err := b.Build(context.Background(), p, TicketFilter{})
	assert.ErrorIs(t, err, boom)
}

func TestWhere_Rendering(t *testing.T) {
	scope := ScopeFilter{Preds: []Predicate{
		{Column: "user_id", Value: int64(7)},
		{Column: "status", Value: "ouvert"},
	}}

	where, args := scope.Where("t.", 1)
	assert.Equal(t, "WHERE t.user_id = $1 AND t.status = $2", where)
	assert.Equal(t, []any{int64(7), "ouvert"}, args)

	// Placeholder numbering follows the caller-chosen offset.
	where, args = scope.Where("", 3)
	assert.Equal(t, "WHERE user_id = $3 AND status = $4", where)
	assert.Equal(t, []any{int64(7), "ouvert"}, args)

	where, args = ScopeFilter{}.Where("t.", 1)
	assert.Equal(t, "", where)
	assert.Empty(t, args)
}

func TestOwned(t *testing.T) {
	scope := Owned(7)
	where, args := scope.Where("t.", 1)
	assert.Equal(t, "WHERE t.user_id = $1", where)
	assert.Equal(t, []any{int64(7)}, args)
}
