package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/agentaudit/auditgate/pkg/infra/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type stubJwtManager struct {
	validateErr error
}

func (s *stubJwtManager) CreateToken() (string, error) { return "token", nil }

func (s *stubJwtManager) ValidateToken(tokenString string) error { return s.validateErr }

func newAuthTestApp(manager jwt.Manager) *fiber.App {
	app := fiber.New()
	app.Use(NewAdminAuthMiddleware(logrus.New(), manager).Middleware())
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAdminAuthMiddleware_MissingHeader(t *testing.T) {
	app := newAuthTestApp(&stubJwtManager{})

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminAuthMiddleware_InvalidFormat(t *testing.T) {
	app := newAuthTestApp(&stubJwtManager{})

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminAuthMiddleware_InvalidToken(t *testing.T) {
	app := newAuthTestApp(&stubJwtManager{validateErr: jwt.ErrInvalidToken})

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminAuthMiddleware_ValidToken(t *testing.T) {
	app := newAuthTestApp(&stubJwtManager{})

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
