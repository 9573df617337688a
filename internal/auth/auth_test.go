package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-aura/backend/internal/domain"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "campus-aura", 5)

	token, exp, err := tm.GenerateToken("u1", domain.RoleCoordinator, "c@example.com", "Coord")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "COORDINATOR", claims.Role)
	assert.Equal(t, "c@example.com", claims.Email)
}

func TestParseTokenRejectsWrongSecretAndIssuer(t *testing.T) {
	token, _, err := NewTokenManager("secret", "campus-aura", 5).GenerateToken("u1", domain.RoleUser, "", "")
	require.NoError(t, err)

	_, err = NewTokenManager("other", "campus-aura", 5).ParseToken(token)
	assert.Error(t, err)

	_, err = NewTokenManager("secret", "someone-else", 5).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{Role: "ADMIN", RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "", 5).ParseToken(token)
	assert.Error(t, err)
}

func newTestApp(tm *TokenManager, guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	mw := NewAuthMiddleware(tm)
	app.Get("/protected", mw.Handle, guard, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(string(p.Role) + ":" + p.SubjectID)
	})
	return app
}

func TestMiddlewareAndRoleGuards(t *testing.T) {
	tm := NewTokenManager("secret", "", 5)
	adminToken, _, _ := tm.GenerateToken("a1", domain.RoleAdmin, "", "")
	userToken, _, _ := tm.GenerateToken("u1", "", "", "")

	cases := []struct {
		name   string
		guard  fiber.Handler
		header string
		status int
	}{
		{"missing header", RequireAnyRole(), "", http.StatusUnauthorized},
		{"bad scheme", RequireAnyRole(), "Basic abc", http.StatusUnauthorized},
		{"garbage token", RequireAnyRole(), "Bearer abc", http.StatusUnauthorized},
		{"user on admin route", RequireAdmin(), "Bearer " + userToken, http.StatusForbidden},
		{"user on manager route", RequireEventManager(), "Bearer " + userToken, http.StatusForbidden},
		{"admin on admin route", RequireAdmin(), "Bearer " + adminToken, http.StatusOK},
		{"admin on manager route", RequireEventManager(), "Bearer " + adminToken, http.StatusOK},
		{"user any role", RequireAnyRole(), "bearer " + userToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(tm, tc.guard)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret-pass"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong"), ErrPasswordMismatch)
	assert.ErrorIs(t, ComparePassword("not-a-hash", "wrong"), ErrPasswordMismatch)

	hash, err = HashPassword("s3cret-pass", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestPrincipalActor(t *testing.T) {
	p := &Principal{SubjectID: "a1", Role: domain.RoleAdmin}
	assert.Equal(t, domain.Actor{ID: "a1", Admin: true}, p.Actor())

	var none *Principal
	assert.Equal(t, domain.Actor{}, none.Actor())
}
