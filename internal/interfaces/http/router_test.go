package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/audit"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/catalog"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/guard"
	"github.com/jhoicas/backoffice-api/internal/application/orders"
	"github.com/jhoicas/backoffice-api/internal/application/receipt"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/backoffice-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/backoffice-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/backoffice-api/pkg/jwt"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "backoffice-test"
	testExpMin    = 60
)

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	users *memory.UserRepo
	auth  *auth.AuthUseCase
}

// buildTestApp arma el router completo sobre el almacén en memoria con auditoría activa.
func buildTestApp(t *testing.T, opts ...func(*apphttp.RouterDeps)) *testEnv {
	t.Helper()
	store := memory.NewStore(uow.Pipeline{Hooks: []uow.Hook{audit.NewRecorder()}})
	users := memory.NewUserRepository()
	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	deps := apphttp.RouterDeps{
		AuthUC:     authUC,
		CatalogUC:  catalog.NewUseCase(store, nil),
		DeleteUC:   guard.NewDeleteUseCase(store, guard.New(), nil),
		PlaceOrder: orders.NewPlaceOrderUseCase(store, nil),
		OrderQuery: orders.NewQueryUseCase(store),
		ReceiptUC:  receipt.NewUseCase(store, infrapdf.NewReceiptGenerator("Back-office")),
		AuditUC:    audit.NewUseCase(store),
		JWTSecret:  testJWTSecret,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, deps)
	return &testEnv{app: app, store: store, users: users, auth: authUC}
}

// tokenFor genera un JWT para el usuario y rol indicados.
func tokenFor(t *testing.T, userID int64, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func (e *testEnv) do(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) seed(t *testing.T) (clientID, productID int64) {
	t.Helper()
	c := &entity.Client{Name: "C1"}
	e.store.Put(c)
	p := &entity.Product{Name: "P1", Price: decimal.RequireFromString("10.00"), Stock: 5}
	e.store.Put(p)
	return c.ID, p.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Middleware de autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, http.MethodGet, "/api/clients", "Bearer esto.no.es.un.jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

func TestAuthMiddleware_FormatoIncorrecto_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, http.MethodGet, "/api/clients", "Token abc", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequestLogger_AsignaRequestID(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get(apphttp.HeaderRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set(apphttp.HeaderRequestID, "abc-123")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(apphttp.HeaderRequestID))
}

func TestRequireRole_LeitorNoPuedeEscribir(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, http.MethodPost, "/api/categories", tokenFor(t, 3, entity.RoleLeitor), dto.CategoryRequest{Name: "X"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/clients", tokenFor(t, 3, entity.RoleLeitor), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_EscrituraAnonimaConTokenObligatorio(t *testing.T) {
	env := buildTestApp(t, func(d *apphttp.RouterDeps) { d.WritesRequireToken = true })

	resp := env.do(t, http.MethodPost, "/api/categories", "", dto.CategoryRequest{Name: "X"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "MISSING_TOKEN", body.Code)
	assert.Empty(t, env.store.AuditLogs())

	// Las lecturas siguen abiertas.
	resp = env.do(t, http.MethodGet, "/api/clients", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/categories", tokenFor(t, 3, entity.RoleLeitor), dto.CategoryRequest{Name: "X"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/categories", tokenFor(t, 1, entity.RoleAdmin), dto.CategoryRequest{Name: "X"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	logs := env.store.AuditLogs()
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, int64(1), *logs[0].UserID)
}

func TestRequireRole_EscrituraAnonimaPermitidaPorDefecto(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, http.MethodPost, "/api/categories", "", dto.CategoryRequest{Name: "X"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas y auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestPlaceOrder_AnonimoAuditadoSinUsuario(t *testing.T) {
	env := buildTestApp(t)
	clientID, productID := env.seed(t)

	resp := env.do(t, http.MethodPost, "/api/orders", "", map[string]any{
		"client_id": clientID,
		"items":     []string{itemOf(productID, 3)},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	order := decode[dto.OrderResponse](t, resp)
	assert.True(t, order.TotalValue.Equal(decimal.RequireFromString("30")))

	for _, l := range env.store.AuditLogs() {
		assert.Nil(t, l.UserID)
		require.NotNil(t, l.IP)
	}
}

func TestPlaceOrder_ConTokenRegistraUsuario(t *testing.T) {
	env := buildTestApp(t)
	clientID, productID := env.seed(t)

	resp := env.do(t, http.MethodPost, "/api/orders", tokenFor(t, 7, entity.RoleOperador), map[string]any{
		"client_id": clientID,
		"items":     []string{itemOf(productID, 1)},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/audit-logs?entity=order&user_id=7", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := decode[dto.AuditLogListResponse](t, resp)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "INSERT", page.Items[0].Action)
	assert.Equal(t, "Order", page.Items[0].Entity)
	require.NotNil(t, page.Items[0].UserID)
	assert.Equal(t, int64(7), *page.Items[0].UserID)
}

func TestPlaceOrder_Rechazos(t *testing.T) {
	env := buildTestApp(t)
	clientID, productID := env.seed(t)

	tests := []struct {
		name   string
		body   map[string]any
		status int
		msg    string
	}{
		{"item mal formado", map[string]any{"client_id": clientID, "items": []string{"x"}}, fiber.StatusBadRequest, `invalid item: "x"`},
		{"cliente inexistente", map[string]any{"client_id": 999, "items": []string{itemOf(productID, 1)}}, fiber.StatusNotFound, "client 999 does not exist"},
		{"stock insuficiente", map[string]any{"client_id": clientID, "items": []string{itemOf(productID, 6)}}, fiber.StatusConflict, "insufficient stock for P1 (available: 5)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/orders", "", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tc.msg, body.Message)
		})
	}
	assert.Empty(t, env.store.AuditLogs())
}

func TestDeleteClient_ConOrdenesRetorna409(t *testing.T) {
	env := buildTestApp(t)
	clientID, productID := env.seed(t)
	resp := env.do(t, http.MethodPost, "/api/orders", "", map[string]any{
		"client_id": clientID,
		"items":     []string{itemOf(productID, 1)},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/clients/"+itoa(clientID), "", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "cannot delete: client has 1 order(s)", body.Message)
}

func TestOrder_DetalleYComprobante(t *testing.T) {
	env := buildTestApp(t)
	clientID, productID := env.seed(t)
	resp := env.do(t, http.MethodPost, "/api/orders", "", map[string]any{
		"client_id": clientID,
		"items":     []string{itemOf(productID, 2)},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	order := decode[dto.OrderResponse](t, resp)

	resp = env.do(t, http.MethodGet, "/api/orders/"+itoa(order.ID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	detail := decode[dto.OrderResponse](t, resp)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, 2, detail.Items[0].Quantity)

	resp = env.do(t, http.MethodGet, "/api/orders/"+itoa(order.ID)+"/receipt", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	resp = env.do(t, http.MethodGet, "/api/orders/abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	env := buildTestApp(t)
	_, err := env.auth.RegisterUser(context.Background(), auth.RegisterInput{Email: "admin@example.com", Password: "s3creta", Role: entity.RoleAdmin})
	require.NoError(t, err)

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@example.com", Password: "s3creta"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, out.Token)

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@example.com", Password: "mala"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func itemOf(productID int64, qty int) string {
	return itoa(productID) + "," + itoa(int64(qty))
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
