package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Publicador-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Publicador-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testServiceID = "scheduler-01"
	testRole      = "automatizacion"
	testIssuer    = "publicador-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con una ruta protegida
// que devuelve la identidad extraída del token.
func buildTestApp() *fiber.App {
	app := fiber.New()
	protected := app.Group("/api", apphttp.AuthMiddleware(testJWTSecret))
	protected.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service_id": apphttp.GetServiceID(c),
			"role":       apphttp.GetRole(c),
		})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	return resp.StatusCode, payload
}

func TestAuthMiddleware_TokenValido(t *testing.T) {
	app := buildTestApp()
	token, err := pkgjwt.Generate(testJWTSecret, testServiceID, testRole, testIssuer, testExpMin)
	require.NoError(t, err)

	status, payload := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, testServiceID, payload["service_id"])
	assert.Equal(t, testRole, payload["role"])
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := buildTestApp()
	status, payload := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", payload["code"])
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := buildTestApp()
	status, payload := doRequest(t, app, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", payload["code"])
}

func TestAuthMiddleware_FirmaIncorrecta(t *testing.T) {
	app := buildTestApp()
	token, err := pkgjwt.Generate("otro-secreto", testServiceID, testRole, testIssuer, testExpMin)
	require.NoError(t, err)

	status, payload := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", payload["code"])
}
