package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ticketdesk/internal/models"
	"ticketdesk/internal/policy"
	"ticketdesk/internal/utils"

	"github.com/stretchr/testify/assert"
)

func protected(secret string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Authenticate(secret)(next)
}

func get(h http.Handler, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/tickets", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// Missing and invalid credentials are distinct outcomes: absent is
// unauthenticated, present-but-broken is forbidden.
func TestAuthenticate_MissingToken(t *testing.T) {
	h := protected("secret")
	w := get(h, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_GarbledToken(t *testing.T) {
	h := protected("secret")
	w := get(h, "Bearer not-a-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	tok, err := utils.SignJWT("other", 7, "a@b.fr", "user")
	assert.NoError(t, err)

	h := protected("secret")
	w := get(h, "Bearer "+tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthenticate_UnknownRole(t *testing.T) {
	tok, err := utils.SignJWT("secret", 7, "a@b.fr", "superuser")
	assert.NoError(t, err)

	h := protected("secret")
	w := get(h, "Bearer "+tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tok, err := utils.SignJWT("secret", 7, "alice@corp.fr", "manager")
	assert.NoError(t, err)

	var seen *policy.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFrom(r.Context()); ok {
			seen = &p
		}
	})
	w := get(Authenticate("secret")(next), "Bearer "+tok)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, seen) {
		assert.Equal(t, policy.Principal{ID: 7, Email: "alice@corp.fr", Role: models.RoleManager}, *seen)
	}
}
