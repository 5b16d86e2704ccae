package auth_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/auth"
	"gudang-backend/internal/config"
	"gudang-backend/internal/database"
	"gudang-backend/internal/models"
	"gudang-backend/internal/testkit"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var testCfg = &config.Config{
	JWTSecret: "test-secret-test-secret-test-secret",
	JWTTTL:    time.Hour,
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	testkit.Use(t, testkit.Open(t))

	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler})
	app.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler())
	app.Post("/auth/login", auth.LoginHandler(testCfg))

	protected := app.Group("", auth.JWTMiddleware(testCfg))
	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/logout", auth.LogoutHandler())
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func TestConcurrentSuperAdminRegistrationCreatesOne(t *testing.T) {
	app := newApp(t)

	const attempts = 4
	codes := make([]int, attempts)
	var g errgroup.Group
	for i := range attempts {
		g.Go(func() error {
			body := fmt.Sprintf(`{"name":"Admin %d","email":"admin%d@saj.id","password":"rahasia1"}`, i, i)
			req := httptest.NewRequest("POST", "/auth/register-super-admin", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			if err != nil {
				return err
			}
			codes[i] = resp.StatusCode
			return nil
		})
	}
	require.NoError(t, g.Wait())

	created := 0
	for _, code := range codes {
		if code == fiber.StatusCreated {
			created++
		} else {
			assert.Equal(t, fiber.StatusForbidden, code)
		}
	}
	assert.Equal(t, 1, created)

	var count int64
	require.NoError(t, database.DB.Model(&models.Profile{}).Where("role = ?", models.RoleSuperAdmin).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLoginMeLogout(t *testing.T) {
	app := newApp(t)

	resp, _ := do(t, app, "POST", "/auth/register-super-admin", "", `{"name":"Admin","email":" Admin@SAJ.id ","password":"rahasia1"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = do(t, app, "POST", "/auth/register-super-admin", "", `{"name":"Other","email":"other@saj.id","password":"rahasia1"}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := do(t, app, "POST", "/auth/login", "", `{"email":"admin@saj.id","password":"salah"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Email atau password salah", body["error"])

	resp, body = do(t, app, "POST", "/auth/login", "", `{"email":"admin@saj.id","password":"rahasia1"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, body = do(t, app, "GET", "/auth/me", token, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "superadmin", body["role"])
	assert.Equal(t, "admin@saj.id", body["email"])

	resp, _ = do(t, app, "POST", "/auth/logout", token, "")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/auth/me", token, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareRejectsBadHeaders(t *testing.T) {
	app := newApp(t)

	resp, _ := do(t, app, "GET", "/auth/me", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/auth/me", "not-a-jwt", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken(testCfg.JWTSecret, time.Hour, newProfile())
	require.NoError(t, err)

	claims, err := auth.ParseToken(testCfg.JWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "p-1", claims.UserID)

	_, err = auth.ParseToken("another-secret-another-secret-xx", token)
	assert.Error(t, err)
}
