package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trananhduc/fashion_shop/internal/models"
	"github.com/trananhduc/fashion_shop/internal/repo"
)

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/v1/register", "", map[string]string{
		"username": "duc",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// re-registering the same username conflicts
	rec = app.do(t, http.MethodPost, "/api/v1/register", "", map[string]string{
		"username": "duc",
		"password": "another",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/login", "", map[string]string{
		"username": "duc",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var loginResp struct {
		Token string      `json:"access_token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)
	assert.Equal(t, models.RoleUser, loginResp.User.Role)

	rec = app.do(t, http.MethodGet, "/api/v1/me", loginResp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/v1/register", "", map[string]string{
		"username": "duc",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/login", "", map[string]string{
		"username": "duc",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/login", "", map[string]string{
		"username": "nobody",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_RejectsBadToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserAdminEndpoints(t *testing.T) {
	app := newTestApp(t)
	userToken := app.token(t, "user", models.RoleUser)
	staffToken := app.token(t, "staff", models.RoleStaff)
	adminToken := app.token(t, "admin", models.RoleAdmin)

	rec := app.do(t, http.MethodPost, "/api/v1/register", "", map[string]string{
		"username": "duc",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rolePath := "/api/v1/users/" + itoa(created.ID) + "/role"
	for _, token := range []string{userToken, staffToken} {
		rec = app.do(t, http.MethodPut, rolePath, token, map[string]string{"role": "STAFF"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}

	rec = app.do(t, http.MethodPut, rolePath, adminToken, map[string]string{"role": "MANAGER"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPut, rolePath, adminToken, map[string]string{"role": "STAFF"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var promoted models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &promoted))
	assert.Equal(t, models.RoleStaff, promoted.Role)

	// the promoted account can now use staff endpoints
	rec = app.do(t, http.MethodPost, "/api/v1/login", "", map[string]string{
		"username": "duc",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var loginResp struct {
		Token string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))
	rec = app.do(t, http.MethodGet, "/api/v1/orders", loginResp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/users", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = app.do(t, http.MethodGet, "/api/v1/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodDelete, "/api/v1/users/"+itoa(created.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, http.MethodGet, "/api/v1/users/"+itoa(created.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLockedAccountCannotLogin(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.token(t, "admin", models.RoleAdmin)

	rec := app.do(t, http.MethodPost, "/api/v1/register", "", map[string]string{
		"username": "duc",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = app.do(t, http.MethodPut, "/api/v1/users/"+itoa(created.ID)+"/lock", adminToken, map[string]bool{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/login", "", map[string]string{
		"username": "duc",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRevenueByDateEndpoint(t *testing.T) {
	app := newTestApp(t)
	userToken := app.token(t, "user", models.RoleUser)
	staffToken := app.token(t, "staff", models.RoleStaff)
	adminToken := app.token(t, "admin", models.RoleAdmin)

	a := app.seedProduct(t, 100, 10)
	rec := app.do(t, http.MethodPost, "/api/v1/orders", userToken, map[string]any{
		"items": []map[string]any{{"product_id": a.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))

	rec = app.do(t, http.MethodPut, "/api/v1/orders/"+itoa(order.ID)+"/status", staffToken, map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, rec.Code)

	today := time.Now().UTC().Format("2006-01-02")
	path := "/api/v1/dashboard/revenue-by-date?from=" + today + "&to=" + today

	rec = app.do(t, http.MethodGet, path, staffToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, path, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var days []repo.RevenueDay
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &days))
	require.Len(t, days, 1)
	assert.Equal(t, int64(200), days[0].Revenue)

	rec = app.do(t, http.MethodGet, "/api/v1/dashboard/revenue-by-date?from=bad&to="+today, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
