package main

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cashapp-gateway/internal/auth"
	"cashapp-gateway/internal/config"
	"cashapp-gateway/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsQuery = `SELECT key, value\s+FROM gateway_settings`

func testConfig() *config.Config {
	return &config.Config{
		AppPort:   "8080",
		AppEnv:    "test",
		SecretKey: "test-secret",
		StoreURL:  "https://shop.example.com",
		ShopName:  "Corner Shop",
	}
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func adminRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("test-secret", 1, "admin@example.com", utils.RoleAdmin, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestNewServer(t *testing.T) {
	t.Run("Stored Settings", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(settingsQuery).
			WithArgs("cashapp").
			WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("title", "Cash App"))

		router, err := newServer(t.Context(), testConfig(), db)
		require.NoError(t, err)

		rr := serve(router, httptest.NewRequest("GET", "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

		rr = serve(router, httptest.NewRequest("GET", "/checkout/payment-methods", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[{"id":"cashapp","title":"Cash App","description":""}]`, rr.Body.String())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Settings Unavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(settingsQuery).WillReturnError(errors.New("connection refused"))

		router, err := newServer(t.Context(), testConfig(), db)
		require.NoError(t, err)

		rr := serve(router, httptest.NewRequest("GET", "/checkout/payment-methods", nil))
		assert.JSONEq(t, `[]`, rr.Body.String())

		rr = serve(router, adminRequest(t, "GET", "/admin/payment-gateways/cashapp/settings"))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"enabled":"no"`)
	})
}

func TestSetupRouter(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(settingsQuery).WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

	router, err := newServer(t.Context(), testConfig(), db)
	require.NoError(t, err)

	t.Run("Admin Requires Token", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest("GET", "/admin/payment-gateways/cashapp/settings", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Admin Metrics", func(t *testing.T) {
		rr := serve(router, adminRequest(t, "GET", "/admin/metrics"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Cart Session Cookie", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest("GET", "/checkout/payment-methods", nil))
		require.NotEmpty(t, rr.Result().Cookies())
		assert.Equal(t, "cart_session", rr.Result().Cookies()[0].Name)
	})

	t.Run("Unknown Route", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest("GET", "/graphql", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRun(t *testing.T) {
	origInitDB := initDBFunc
	defer func() { initDBFunc = origInitDB }()
	initDBFunc = func(cfg *config.Config) *sql.DB {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectQuery(settingsQuery).WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))
		mock.ExpectClose()
		return db
	}

	origStartServer := startServerFunc
	defer func() { startServerFunc = origStartServer }()
	var gotAddr string
	startServerFunc = func(addr string, handler http.Handler) error {
		gotAddr = addr
		return nil
	}

	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "user")
	t.Setenv("DB_PASSWORD", "pass")
	t.Setenv("DB_NAME", "db")

	assert.NoError(t, run())
	assert.Equal(t, ":9090", gotAddr)
}
