package postgres

import (
	"context"
	"strconv"
	"strings"

	"ticketdesk/internal/models"
	"ticketdesk/internal/policy"
	"ticketdesk/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepo struct{ db *pgxpool.Pool }

func NewTicketRepo(db *pgxpool.Pool) repository.TicketRepository { return &TicketRepo{db: db} }

const ticketCols = `t.id, t.service, t.priority, t.status, t.description, t.user_id, t.created_at, t.updated_at`

// List returns tickets matching the scope filter, newest first. Ordering is
// a fixed contract, independent of filters.
func (r *TicketRepo) List(ctx context.Context, scope repository.ScopeFilter) ([]models.Ticket, error) {
	where, args := scope.Where("t.", 1)

	sql := `
		SELECT ` + ticketCols + `, u.name, u.email
		FROM tickets t
		JOIN users u ON u.id = t.user_id
		` + where + `
		ORDER BY t.created_at DESC`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Ticket{}
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(
			&t.ID, &t.Service, &t.Priority, &t.Status, &t.Description,
			&t.UserID, &t.CreatedAt, &t.UpdatedAt, &t.UserName, &t.UserEmail,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TicketRepo) Get(ctx context.Context, id int64) (*models.Ticket, error) {
	var t models.Ticket
	err := r.db.QueryRow(ctx, `
		SELECT `+ticketCols+`, u.name, u.email
		FROM tickets t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1`, id).Scan(
		&t.ID, &t.Service, &t.Priority, &t.Status, &t.Description,
		&t.UserID, &t.CreatedAt, &t.UpdatedAt, &t.UserName, &t.UserEmail,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO tickets (service, priority, status, description, user_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`,
		t.Service, t.Priority, t.Status, t.Description, t.UserID).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update applies an already-policy-filtered field set. updated_at is
// refreshed on every successful mutation even when the values are identical
// to the current row.
func (r *TicketRepo) Update(ctx context.Context, id int64, changes []policy.FieldChange) (*models.Ticket, error) {
	sets := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+1)
	for _, c := range changes {
		args = append(args, c.Value)
		sets = append(sets, c.Column+" = $"+itoa(len(args)))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	sql := `
		UPDATE tickets SET ` + strings.Join(sets, ", ") + `
		WHERE id = $` + itoa(len(args)) + `
		RETURNING id, service, priority, status, description, user_id, created_at, updated_at`

	var t models.Ticket
	err := r.db.QueryRow(ctx, sql, args...).Scan(
		&t.ID, &t.Service, &t.Priority, &t.Status, &t.Description,
		&t.UserID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepo) Delete(ctx context.Context, id int64) (*models.Ticket, error) {
	var t models.Ticket
	err := r.db.QueryRow(ctx, `
		DELETE FROM tickets
		WHERE id = $1
		RETURNING id, service, priority, status, description, user_id, created_at, updated_at`, id).
		Scan(
			&t.ID, &t.Service, &t.Priority, &t.Status, &t.Description,
			&t.UserID, &t.CreatedAt, &t.UpdatedAt,
		)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// CountByStatus rolls tickets in scope up into status buckets. Statuses
// outside the three known ones land in total only.
func (r *TicketRepo) CountByStatus(ctx context.Context, scope repository.ScopeFilter) (models.TicketCounts, error) {
	where, args := scope.Where("", 1)
	sql := `
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN status = 'ouvert' THEN 1 END) AS open,
			COUNT(CASE WHEN status = 'en_cours' THEN 1 END) AS in_progress,
			COUNT(CASE WHEN status = 'resolu' THEN 1 END) AS closed
		FROM tickets ` + where

	var c models.TicketCounts
	err := r.db.QueryRow(ctx, sql, args...).Scan(&c.Total, &c.Open, &c.InProgress, &c.Closed)
	return c, err
}

func (r *TicketRepo) CountPerService(ctx context.Context) ([]models.ServiceCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT service, COUNT(*) AS count
		FROM tickets
		GROUP BY service
		ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ServiceCount
	for rows.Next() {
		var s models.ServiceCount
		if err := rows.Scan(&s.Service, &s.Count); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// small helper to avoid fmt on the query-building path.
func itoa(i int) string { return strconv.Itoa(i) }
