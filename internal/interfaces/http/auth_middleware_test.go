package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	apphttp "github.com/jhoicas/sedes-inventario/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/sedes-inventario/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret   = "test-secret-key-for-unit-tests"
	testUserID      = "00000000-0000-0000-0000-000000000001"
	testWarehouseID = "00000000-0000-0000-0000-000000000002"
	testIssuer      = "sedes-inventario-test"
	testExpMin      = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testWarehouseID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
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
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

func TestRequireRole_AlmacenAccedeRutaAdminOAlmacen(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleAlmacen)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAlmacen))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_SolicitanteBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleSolicitante))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_JefaBloqueadaEnRutaAlmacen(t *testing.T) {
	app := buildTestApp(entity.RoleAlmacen)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleJefa))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testWarehouseID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":      apphttp.GetUserID(c),
			"warehouse_id": apphttp.GetWarehouseID(c),
			"role":         apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleAlmacen))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testWarehouseID, body["warehouse_id"])
	assert.Equal(t, entity.RoleAlmacen, body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireActiveWarehouse
// ──────────────────────────────────────────────────────────────────────────────

type lookupFunc func(ctx context.Context, id string) (*entity.Warehouse, error)

func (f lookupFunc) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return f(ctx, id)
}

func buildScopedApp(lookup lookupFunc) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireActiveWarehouse(lookup),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestRequireActiveWarehouse(t *testing.T) {
	cases := []struct {
		name   string
		lookup lookupFunc
		want   int
		code   string
	}{
		{
			name: "sede activa pasa",
			lookup: func(_ context.Context, id string) (*entity.Warehouse, error) {
				return &entity.Warehouse{ID: id, Active: true}, nil
			},
			want: http.StatusOK,
		},
		{
			name: "sede inactiva",
			lookup: func(_ context.Context, id string) (*entity.Warehouse, error) {
				return &entity.Warehouse{ID: id}, nil
			},
			want: http.StatusForbidden,
			code: "WAREHOUSE_DISABLED",
		},
		{
			name:   "sede eliminada",
			lookup: func(context.Context, string) (*entity.Warehouse, error) { return nil, nil },
			want:   http.StatusForbidden,
			code:   "WAREHOUSE_DISABLED",
		},
		{
			name: "fallo de infraestructura",
			lookup: func(context.Context, string) (*entity.Warehouse, error) {
				return nil, errors.New("conexión rechazada")
			},
			want: http.StatusServiceUnavailable,
			code: "WAREHOUSE_CHECK_FAILED",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, buildScopedApp(tc.lookup), tokenForRole(t, entity.RoleAlmacen))
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
			if tc.code != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), tc.code)
			}
		})
	}
}

func TestRequireActiveWarehouse_TokenSinSedeNoConsulta(t *testing.T) {
	called := false
	app := buildScopedApp(func(context.Context, string) (*entity.Warehouse, error) {
		called = true
		return nil, nil
	})
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, called)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg: integridad del generate/parse con sede y rol
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse_ConSedeYRol(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testWarehouseID, entity.RoleSolicitante, testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, warehouseID, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testWarehouseID, warehouseID)
	assert.Equal(t, entity.RoleSolicitante, role)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testWarehouseID, entity.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testWarehouseID, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
