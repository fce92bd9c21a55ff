package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ticketdesk/internal/apperr"
	"ticketdesk/internal/models"
	"ticketdesk/internal/policy"
	"ticketdesk/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct{ db *pgxpool.Pool }

func NewUserRepo(db *pgxpool.Pool) repository.UserRepository { return &UserRepo{db: db} }

const userCols = `id, name, email, role, service, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string, role models.Role, service *string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, service)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+userCols,
		name, email, passwordHash, role, service).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Service, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translateUnique(err)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var u models.User
	var hash string
	err := r.db.QueryRow(ctx, `
		SELECT `+userCols+`, password_hash
		FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Service, &u.CreatedAt, &u.UpdatedAt, &hash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &u, hash, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		SELECT `+userCols+`
		FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Service, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// List returns a filtered, paginated user page and total count, newest
// first. Filters: q (name or email, ILIKE), role (exact).
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]models.User, int, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	clauses := []string{"1=1"}
	args := []any{}

	if s := strings.TrimSpace(f.Q); s != "" {
		p := "%" + s + "%"
		args = append(args, p, p)
		clauses = append(clauses, "(email ILIKE $"+itoa(len(args)-1)+" OR name ILIKE $"+itoa(len(args))+")")
	}
	if s := strings.TrimSpace(f.Role); s != "" {
		args = append(args, s)
		clauses = append(clauses, "role = $"+itoa(len(args)))
	}

	countSQL := `SELECT COUNT(*) FROM users WHERE ` + strings.Join(clauses, " AND ")
	var total int
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	listSQL := fmt.Sprintf(`
		SELECT `+userCols+`
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(clauses, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Service, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *UserRepo) Update(ctx context.Context, id int64, changes []policy.FieldChange) (*models.User, error) {
	sets := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+1)
	for _, c := range changes {
		args = append(args, c.Value)
		sets = append(sets, c.Column+" = $"+itoa(len(args)))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	sql := `
		UPDATE users SET ` + strings.Join(sets, ", ") + `
		WHERE id = $` + itoa(len(args)) + `
		RETURNING ` + userCols

	var u models.User
	err := r.db.QueryRow(ctx, sql, args...).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Service, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, translateUnique(err)
	}
	return &u, nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		DELETE FROM users
		WHERE id = $1
		RETURNING `+userCols, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Service, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// ServiceOf resolves a user's service at decision time; a manager's service
// can change between requests, so it is never cached on the principal.
func (r *UserRepo) ServiceOf(ctx context.Context, userID int64) (*string, error) {
	var svc *string
	err := r.db.QueryRow(ctx, `SELECT service FROM users WHERE id = $1`, userID).Scan(&svc)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return svc, nil
}

// translateUnique maps a unique-constraint violation (duplicate email) to a
// Conflict so handlers can answer 409 without inspecting driver errors.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Wrap(apperr.Conflict, "email already in use", err)
	}
	return err
}
