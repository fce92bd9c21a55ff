package service

import (
	"context"
	"strings"

	"ticketdesk/internal/apperr"
	"ticketdesk/internal/models"
	"ticketdesk/internal/utils"
)

var errInvalidCredentials = apperr.New(apperr.Unauthenticated, "invalid credentials")

// AuthStore is the slice of the user repository auth needs.
type AuthStore interface {
	Create(ctx context.Context, name, email, passwordHash string, role models.Role, service *string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, string, error)
}

type AuthService struct {
	users  AuthStore
	secret string
}

func NewAuthService(users AuthStore, secret string) *AuthService {
	return &AuthService{users: users, secret: secret}
}

// Register creates an account and issues a token. Self-registration is only
// allowed for plain users; managers and admins are promoted afterwards by an
// admin.
func (a *AuthService) Register(ctx context.Context, name, email, password string, service *string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, "", apperr.New(apperr.Validation, "name, email and password required")
	}
	if len(password) < 6 {
		return nil, "", apperr.New(apperr.Validation, "password must be at least 6 characters")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	u, err := a.users.Create(ctx, name, email, hash, models.RoleUser, service)
	if err != nil {
		return nil, "", err
	}
	tok, err := utils.SignJWT(a.secret, u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", apperr.New(apperr.Validation, "email and password required")
	}
	u, hash, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !utils.CheckPassword(hash, password) {
		return nil, "", errInvalidCredentials
	}
	tok, err := utils.SignJWT(a.secret, u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}
