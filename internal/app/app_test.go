package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/pdv/internal/adapters/dto"
	"github.com/bnema/pdv/internal/adapters/in/http/middleware"
	"github.com/bnema/pdv/internal/config"
	"github.com/bnema/pdv/internal/domain"
)

func newTestApp(t *testing.T, opts ...func(*config.Config)) (*App, *echo.Echo) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:          8080,
			SessionSecret: strings.Repeat("s", config.MinSessionSecretLength),
			SessionMaxAge: time.Hour,
		},
		Database: config.DatabaseConfig{Path: filepath.Join(dir, "data", "pdv.db")},
		Backup:   config.BackupConfig{Dir: filepath.Join(dir, "backups")},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, a.NewRouter()
}

type client struct {
	t      *testing.T
	e      *echo.Echo
	cookie *http.Cookie
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, username, password string) *client {
	t.Helper()
	c := &client{t: t, e: e}
	rec := c.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionName {
			c.cookie = ck
		}
	}
	require.NotNil(t, c.cookie)
	return c
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createUser(t *testing.T, a *App, username string, admin bool) {
	t.Helper()
	_, err := a.Auth.CreateUser(context.Background(), domain.NewUser{Username: username, Name: username, Password: "password", IsAdmin: admin})
	require.NoError(t, err)
}

func TestHealthz(t *testing.T) {
	_, e := newTestApp(t)
	rec := (&client{t: t, e: e}).do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "ok", decode[dto.HealthResponse](t, rec).Status)
}

func TestAuth_LoginFlow(t *testing.T) {
	a, e := newTestApp(t)
	createUser(t, a, "admin", true)

	anon := &client{t: t, e: e}
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/api/auth/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin", Password: "wrong-password"}).Code)

	admin := login(t, e, "admin", "password")
	me := decode[dto.User](t, admin.do(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, "admin", me.Username)
	assert.True(t, me.IsAdmin)

	assert.Equal(t, http.StatusNoContent, admin.do(http.MethodPost, "/api/auth/logout", nil).Code)
}

func TestAuth_LoginThrottled(t *testing.T) {
	a, e := newTestApp(t, func(c *config.Config) {
		c.Server.LoginPerMinute = 1
		c.Server.LoginBurst = 2
	})
	createUser(t, a, "admin", true)

	anon := &client{t: t, e: e}
	bad := dto.LoginRequest{Username: "admin", Password: "wrong-password"}
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/api/auth/login", bad).Code)
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/api/auth/login", bad).Code)

	rec := anon.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin", Password: "password"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too many requests", decode[dto.ErrorResponse](t, rec).Error)

	// Other routes are not throttled.
	assert.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/healthz", nil).Code)
}

func TestBackups_RequireAdmin(t *testing.T) {
	a, e := newTestApp(t)
	createUser(t, a, "caixa", false)

	anon := &client{t: t, e: e}
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/api/admin/backups", nil).Code)

	cashier := login(t, e, "caixa", "password")
	assert.Equal(t, http.StatusForbidden, cashier.do(http.MethodGet, "/api/admin/backups", nil).Code)
	assert.Equal(t, http.StatusForbidden, cashier.do(http.MethodPost, "/api/admin/backups", nil).Code)

	files, err := a.Backup.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestBackups_CreateListDownloadDelete(t *testing.T) {
	a, e := newTestApp(t)
	createUser(t, a, "admin", true)
	admin := login(t, e, "admin", "password")

	rec := admin.do(http.MethodPost, "/api/admin/backups", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[dto.BackupCreateResponse](t, rec)
	assert.Regexp(t, `^snapshot-\d{8}T\d{6}\.\d{9}Z\.json$`, created.Backup.Name)
	assert.NotEmpty(t, created.Backup.Size)

	list := decode[dto.BackupsResponse](t, admin.do(http.MethodGet, "/api/admin/backups", nil))
	require.Len(t, list.Backups, 1)
	assert.Equal(t, created.Backup.Name, list.Backups[0].Name)
	assert.Equal(t, created.Backup.SizeBytes, list.Backups[0].SizeBytes)

	rec = admin.do(http.MethodGet, "/api/admin/backups/"+created.Backup.Name+"/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), created.Backup.Name)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc, "tables")

	assert.Equal(t, http.StatusNoContent, admin.do(http.MethodDelete, "/api/admin/backups/"+created.Backup.Name, nil).Code)
	assert.Equal(t, http.StatusNotFound, admin.do(http.MethodDelete, "/api/admin/backups/"+created.Backup.Name, nil).Code)
	assert.Equal(t, http.StatusBadRequest, admin.do(http.MethodDelete, "/api/admin/backups/pdv.db", nil).Code)
}

func TestBackups_RestoreOverHTTP(t *testing.T) {
	a, e := newTestApp(t)
	createUser(t, a, "admin", true)
	admin := login(t, e, "admin", "password")

	rec := admin.do(http.MethodPost, "/api/products", dto.ProductRequest{SKU: "ARZ-5", Name: "Arroz 5kg", PriceCents: 2990, Stock: 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[dto.Product](t, rec)

	snap := decode[dto.BackupCreateResponse](t, admin.do(http.MethodPost, "/api/admin/backups", nil))

	// Changes after the snapshot: a sale, a new client and a new user.
	rec = admin.do(http.MethodPost, "/api/products/"+itoa(product.ID)+"/movements", dto.MovementRequest{Kind: "out", Quantity: 3})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(7), decode[dto.MovementResponse](t, rec).Product.Stock)
	require.Equal(t, http.StatusCreated, admin.do(http.MethodPost, "/api/clients", dto.ClientRequest{Name: "Padaria"}).Code)
	createUser(t, a, "caixa", false)
	cashier := login(t, e, "caixa", "password")

	rec = admin.do(http.MethodPost, "/api/admin/backups/"+snap.Backup.Name+"/restore", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	restored := decode[dto.Product](t, admin.do(http.MethodGet, "/api/products/"+itoa(product.ID), nil))
	assert.Equal(t, int64(10), restored.Stock)
	assert.Empty(t, decode[[]dto.Client](t, admin.do(http.MethodGet, "/api/clients", nil)))
	assert.Empty(t, decode[[]dto.Movement](t, admin.do(http.MethodGet, "/api/products/"+itoa(product.ID)+"/movements", nil)))

	// The cashier did not exist in the snapshot, so the session no longer resolves.
	assert.Equal(t, http.StatusUnauthorized, cashier.do(http.MethodGet, "/api/auth/me", nil).Code)
}

func TestBackups_RestoreErrors(t *testing.T) {
	a, e := newTestApp(t)
	createUser(t, a, "admin", true)
	admin := login(t, e, "admin", "password")

	missing := domain.SnapshotFileName(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, http.StatusNotFound, admin.do(http.MethodPost, "/api/admin/backups/"+missing+"/restore", nil).Code)
	assert.Equal(t, http.StatusBadRequest, admin.do(http.MethodPost, "/api/admin/backups/backup.json/restore", nil).Code)

	name := writeSnapshot(t, a, `{"tables":{"users":"nope"}}`)
	rec := admin.do(http.MethodPost, "/api/admin/backups/"+name+"/restore", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[dto.ErrorResponse](t, rec).Error, "malformed snapshot")

	// The admin still exists, so the rejected restore changed nothing.
	assert.Equal(t, http.StatusOK, admin.do(http.MethodGet, "/api/auth/me", nil).Code)
}

func TestBackups_CreateFailureShowsCause(t *testing.T) {
	a, e := newTestApp(t)
	createUser(t, a, "admin", true)
	admin := login(t, e, "admin", "password")

	require.NoError(t, os.RemoveAll(a.Storage.Dir()))

	rec := admin.do(http.MethodPost, "/api/admin/backups", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[dto.ErrorResponse](t, rec)
	assert.Contains(t, body.Error, "snapshot failed")
	assert.Contains(t, body.Error, "failed to create temp backup file")
	assert.NotEmpty(t, body.RequestID)
}

func TestInventory_Products(t *testing.T) {
	a, e := newTestApp(t)
	createUser(t, a, "caixa", false)
	cashier := login(t, e, "caixa", "password")

	rec := cashier.do(http.MethodPost, "/api/categories", dto.CategoryRequest{Name: "Mercearia"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cat := decode[dto.Category](t, rec)

	rec = cashier.do(http.MethodPost, "/api/products", dto.ProductRequest{CategoryID: &cat.ID, SKU: "FEJ-1", Name: "Feijao 1kg", PriceCents: 899, Stock: 2, MinStock: 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	beans := decode[dto.Product](t, rec)
	assert.True(t, beans.LowStock)

	rec = cashier.do(http.MethodPost, "/api/products", dto.ProductRequest{SKU: "ACU-1", Name: "Acucar 1kg", PriceCents: 499, Stock: 40, MinStock: 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sugar := decode[dto.Product](t, rec)

	assert.Equal(t, http.StatusConflict, cashier.do(http.MethodPost, "/api/products", dto.ProductRequest{SKU: "FEJ-1", Name: "Outro"}).Code)
	assert.Equal(t, http.StatusBadRequest, cashier.do(http.MethodPost, "/api/products", dto.ProductRequest{SKU: "X-1"}).Code)
	assert.Equal(t, http.StatusBadRequest, cashier.do(http.MethodPost, "/api/products", dto.ProductRequest{SKU: "X-2", Name: "Negativo", PriceCents: -1}).Code)

	assert.Len(t, decode[[]dto.Product](t, cashier.do(http.MethodGet, "/api/products", nil)), 2)
	low := decode[[]dto.Product](t, cashier.do(http.MethodGet, "/api/products?low_stock=true", nil))
	require.Len(t, low, 1)
	assert.Equal(t, beans.ID, low[0].ID)
	assert.Equal(t, http.StatusBadRequest, cashier.do(http.MethodGet, "/api/products?low_stock=maybe", nil).Code)

	rec = cashier.do(http.MethodPut, "/api/products/"+itoa(sugar.ID), dto.ProductRequest{SKU: "ACU-1", Name: "Acucar Refinado 1kg", PriceCents: 549, MinStock: 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[dto.Product](t, rec)
	assert.Equal(t, "Acucar Refinado 1kg", updated.Name)
	assert.Equal(t, int64(549), updated.PriceCents)
	assert.Equal(t, int64(40), updated.Stock)

	got := decode[dto.Product](t, cashier.do(http.MethodGet, "/api/products/"+itoa(sugar.ID), nil))
	assert.Equal(t, updated.Name, got.Name)

	assert.Equal(t, http.StatusNoContent, cashier.do(http.MethodDelete, "/api/products/"+itoa(sugar.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, cashier.do(http.MethodGet, "/api/products/"+itoa(sugar.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, cashier.do(http.MethodDelete, "/api/products/"+itoa(sugar.ID), nil).Code)
	assert.Equal(t, http.StatusBadRequest, cashier.do(http.MethodGet, "/api/products/abc", nil).Code)

	anon := &client{t: t, e: e}
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/api/products", nil).Code)
}

func TestInventory_Movements(t *testing.T) {
	a, e := newTestApp(t)
	createUser(t, a, "caixa", false)
	cashier := login(t, e, "caixa", "password")

	rec := cashier.do(http.MethodPost, "/api/products", dto.ProductRequest{SKU: "LEI-1", Name: "Leite 1L", PriceCents: 529, Stock: 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	milk := decode[dto.Product](t, rec)
	path := "/api/products/" + itoa(milk.ID) + "/movements"

	rec = cashier.do(http.MethodPost, path, dto.MovementRequest{Kind: "in", Quantity: 12, Reason: "compra"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[dto.MovementResponse](t, rec)
	assert.Equal(t, "in", res.Movement.Kind)
	assert.Equal(t, int64(17), res.Product.Stock)
	require.NotNil(t, res.Movement.UserID)

	rec = cashier.do(http.MethodPost, path, dto.MovementRequest{Kind: "out", Quantity: 7, Reason: "venda"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(10), decode[dto.MovementResponse](t, rec).Product.Stock)

	rec = cashier.do(http.MethodPost, path, dto.MovementRequest{Kind: "out", Quantity: 11})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode[dto.ErrorResponse](t, rec).Error, "insufficient stock")
	assert.Equal(t, int64(10), decode[dto.Product](t, cashier.do(http.MethodGet, "/api/products/"+itoa(milk.ID), nil)).Stock)

	assert.Equal(t, http.StatusBadRequest, cashier.do(http.MethodPost, path, dto.MovementRequest{Kind: "out", Quantity: 0}).Code)
	assert.Equal(t, http.StatusBadRequest, cashier.do(http.MethodPost, path, dto.MovementRequest{Kind: "transfer", Quantity: 1}).Code)
	assert.Equal(t, http.StatusNotFound, cashier.do(http.MethodPost, "/api/products/9999/movements", dto.MovementRequest{Kind: "in", Quantity: 1}).Code)

	movements := decode[[]dto.Movement](t, cashier.do(http.MethodGet, path, nil))
	assert.Len(t, movements, 2)
	assert.Equal(t, http.StatusNotFound, cashier.do(http.MethodGet, "/api/products/9999/movements", nil).Code)

	// Products with history cannot be deleted.
	assert.Equal(t, http.StatusConflict, cashier.do(http.MethodDelete, "/api/products/"+itoa(milk.ID), nil).Code)
}

func TestInventory_Accounts(t *testing.T) {
	a, e := newTestApp(t)
	createUser(t, a, "admin", true)
	admin := login(t, e, "admin", "password")

	rec := admin.do(http.MethodPost, "/api/clients", dto.ClientRequest{Name: "Padaria Sol"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bakery := decode[dto.Client](t, rec)

	rec = admin.do(http.MethodPost, "/api/accounts", dto.AccountRequest{Kind: "receivable", Description: "Fatura 7", AmountCents: 4500, DueDate: "2026-11-10", ClientID: &bakery.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	invoice := decode[dto.Account](t, rec)
	assert.Equal(t, "open", invoice.Status)
	assert.Nil(t, invoice.PaidAt)

	rec = admin.do(http.MethodPost, "/api/accounts", dto.AccountRequest{Kind: "payable", Description: "Aluguel", AmountCents: 150000, DueDate: "2026-11-05"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rent := decode[dto.Account](t, rec)

	for _, bad := range []dto.AccountRequest{
		{Kind: "loan", Description: "x", AmountCents: 1, DueDate: "2026-11-05"},
		{Kind: "payable", AmountCents: 1, DueDate: "2026-11-05"},
		{Kind: "payable", Description: "x", AmountCents: 0, DueDate: "2026-11-05"},
		{Kind: "payable", Description: "x", AmountCents: 1, DueDate: "05/11/2026"},
	} {
		assert.Equal(t, http.StatusBadRequest, admin.do(http.MethodPost, "/api/accounts", bad).Code, bad)
	}

	rec = admin.do(http.MethodPost, "/api/accounts/"+itoa(invoice.ID)+"/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decode[dto.Account](t, rec)
	assert.Equal(t, "paid", paid.Status)
	assert.NotNil(t, paid.PaidAt)
	assert.Equal(t, http.StatusConflict, admin.do(http.MethodPost, "/api/accounts/"+itoa(invoice.ID)+"/pay", nil).Code)
	assert.Equal(t, http.StatusNotFound, admin.do(http.MethodPost, "/api/accounts/9999/pay", nil).Code)

	paidList := decode[[]dto.Account](t, admin.do(http.MethodGet, "/api/accounts?status=paid", nil))
	require.Len(t, paidList, 1)
	assert.Equal(t, invoice.ID, paidList[0].ID)
	payables := decode[[]dto.Account](t, admin.do(http.MethodGet, "/api/accounts?kind=payable", nil))
	require.Len(t, payables, 1)
	assert.Equal(t, rent.ID, payables[0].ID)

	assert.Equal(t, http.StatusNoContent, admin.do(http.MethodDelete, "/api/accounts/"+itoa(rent.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, admin.do(http.MethodDelete, "/api/accounts/"+itoa(rent.ID), nil).Code)
	assert.Len(t, decode[[]dto.Account](t, admin.do(http.MethodGet, "/api/accounts", nil)), 1)
}

func writeSnapshot(t *testing.T, a *App, doc string) string {
	t.Helper()
	file, err := a.Storage.Write(context.Background(), time.Now(), func(w io.Writer) error {
		_, err := io.WriteString(w, doc)
		return err
	})
	require.NoError(t, err)
	return file.Name
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
