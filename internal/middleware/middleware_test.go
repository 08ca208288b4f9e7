package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/middleware"
	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/services"
	"github.com/localnerve/lookout/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func newApp(tokens *services.Tokens) *fiber.App {
	app := fiber.New()
	app.Use(middleware.RequestID(), middleware.AccessLog())
	whoami := func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.JSON(fiber.Map{"id": actor.UserID, "role": actor.Role})
	}
	app.Get("/user", middleware.AuthUser(tokens), whoami)
	app.Get("/admin", middleware.AuthAdmin(tokens), whoami)
	app.Get("/version", middleware.VersionMiddleware(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("apiVersion").(string))
	})
	return app
}

func issue(t *testing.T, tokens *services.Tokens, role string) string {
	t.Helper()
	token, _, err := tokens.Issue(&models.User{ID: 7, Email: "u@x.com", Role: role})
	require.NoError(t, err)
	return token
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body utils.ErrorResponseStruct
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}

func TestAuthUser(t *testing.T) {
	tokens := services.NewTokens(secret, time.Hour)
	app := newApp(tokens)

	resp, err := app.Test(httptest.NewRequest("GET", "/user", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))

	req := httptest.NewRequest("GET", "/user", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.RoleUser))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(7), body["id"])

	req = httptest.NewRequest("GET", "/user", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: issue(t, tokens, models.RoleUser)})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/user", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthUserExpired(t *testing.T) {
	tokens := services.NewTokens(secret, -time.Minute)
	app := newApp(tokens)

	req := httptest.NewRequest("GET", "/user", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.RoleUser))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthAdmin(t *testing.T) {
	tokens := services.NewTokens(secret, time.Hour)
	app := newApp(tokens)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.RoleUser))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.RoleAdmin))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequestID(t *testing.T) {
	app := newApp(services.NewTokens(secret, time.Hour))

	resp, err := app.Test(httptest.NewRequest("GET", "/version", nil))
	require.NoError(t, err)
	generated := resp.Header.Get(middleware.RequestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest("GET", "/version", nil)
	req.Header.Set(middleware.RequestIDHeader, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", resp.Header.Get(middleware.RequestIDHeader))

	req = httptest.NewRequest("GET", "/version", nil)
	req.Header.Set(middleware.RequestIDHeader, "not a uuid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "not a uuid", resp.Header.Get(middleware.RequestIDHeader))
}

func TestVersionMiddleware(t *testing.T) {
	app := newApp(services.NewTokens(secret, time.Hour))

	req := httptest.NewRequest("GET", "/version", nil)
	req.Header.Set("X-Api-Version", "1.0")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", resp.Header.Get("X-Api-Version"))
}
