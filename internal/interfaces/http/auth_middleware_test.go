package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/ventas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/ventas-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID = "00000000-0000-0000-0000-000000000001"
	testEmail  = "ana@example.com"
)

func testJWTConfig() pkgjwt.Config {
	return pkgjwt.Config{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "ventas-backend-test",
		Audience:   "ventas-app-test",
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

// buildTestApp construye una aplicación Fiber mínima con el AuthMiddleware y
// un handler dummy que devuelve los locals cargados.
func buildTestApp(cfg pkgjwt.Config) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(cfg),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user_id": apphttp.GetUserID(c),
			})
		},
	)
	return app
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: token válido → 200 y los locals cargados con el subject.
func TestAuthMiddleware_TokenValido(t *testing.T) {
	cfg := testJWTConfig()
	app := buildTestApp(cfg)
	tok, err := pkgjwt.GenerateAccess(cfg, testUserID, testEmail)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Empty(t, resp.Header.Get("X-Token-Expiring-Soon"),
		"con una hora de TTL no debe marcar expiración próxima")
}

// Caso 2: sin header Authorization → 401 MISSING_TOKEN.
func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := buildTestApp(testJWTConfig())
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

// Caso 3: formato incorrecto (sin Bearer) → 401 INVALID_TOKEN.
func TestAuthMiddleware_FormatoIncorrecto(t *testing.T) {
	app := buildTestApp(testJWTConfig())
	resp := doRequest(t, app, "Basic abc123")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// Caso 4: token malformado → 401.
func TestAuthMiddleware_TokenMalformado(t *testing.T) {
	app := buildTestApp(testJWTConfig())
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 5: token expirado → 401 TOKEN_EXPIRED.
func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	cfg := testJWTConfig()
	app := buildTestApp(cfg)

	expiredCfg := cfg
	expiredCfg.AccessTTL = -time.Minute
	tok, err := pkgjwt.GenerateAccess(expiredCfg, testUserID, testEmail)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "TOKEN_EXPIRED")
}

// Caso 6: un refresh token no autoriza peticiones → 401.
func TestAuthMiddleware_RefreshRechazado(t *testing.T) {
	cfg := testJWTConfig()
	app := buildTestApp(cfg)
	tok, err := pkgjwt.GenerateRefresh(cfg, testUserID)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 7: con TTL restante menor a 5 minutos se agrega el header
// X-Token-Expiring-Soon a la respuesta.
func TestAuthMiddleware_HeaderExpiringSoon(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTTL = 2 * time.Minute
	app := buildTestApp(cfg)
	tok, err := pkgjwt.GenerateAccess(cfg, testUserID, testEmail)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Token-Expiring-Soon"))
}
