package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	mainapp "inventory/internal/app"
	"inventory/internal/database"
	"inventory/internal/forms"
	"inventory/internal/logger"
	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testJWTSecret = "test_jwt_secret"

// setupApp builds the production Fiber app over in-memory SQLite seeded with the sample products.
func setupApp(t *testing.T) (*fiber.App, repositories.ProductRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err, "failed to connect to in-memory database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Initialize(context.Background(), db))

	productRepo := repositories.NewGORMProductRepository(db)
	accounts := repositories.NewStaticAccountRepository(
		models.Account{UserID: "admin", Password: "admin_password", Role: models.RoleAdmin},
		models.Account{UserID: "user", Password: "user_password", Role: models.RoleUser},
	)

	authService := services.NewAuthService(accounts, testJWTSecret, time.Hour)

	return mainapp.New(productRepo, authService, nil), productRepo
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	logger.SetLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp, decoded
}

func login(t *testing.T, app *fiber.App, userID, password string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"user_id":  userID,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func listedIDs(t *testing.T, body map[string]any) []int {
	t.Helper()
	rows, ok := body["products"].([]any)
	require.True(t, ok, "products should be a list")
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		product := r.(map[string]any)["product"].(map[string]any)
		out = append(out, int(product["id"].(float64)))
	}
	return out
}

func validProduct() map[string]string {
	return map[string]string{
		"name":        "QA Checklist Notebook",
		"category":    "Other",
		"price":       "1200",
		"stock":       "30",
		"description": "<b>Handy</b> notebook.",
		"status":      "Published",
	}
}

func TestAuthLoginLogoutAndMe(t *testing.T) {
	app, _ := setupApp(t)

	token := login(t, app, " admin ", "admin_password")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"user_id": "admin", "role": "admin"}, body["user"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "logged out.", body["message"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthLoginFailures(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"user_id":  "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid user id or password.", body["message"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"user_id": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["errors"], "Password")
}

func TestAuthLoginAcceptsFormEncoding(t *testing.T) {
	app, _ := setupApp(t)

	form := url.Values{"user_id": {"user"}, "password": {"user_password"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListProducts(t *testing.T) {
	app, _ := setupApp(t)
	token := login(t, app, "user", "user_password")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/products", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []int{1, 2, 3, 4}, listedIDs(t, body))
	assert.Equal(t, "user", body["role"])
	assert.Equal(t, []any{"Books", "Appliances", "Food", "Other"}, body["categories"])

	rows := body["products"].([]any)
	assert.Equal(t, "stock-empty", rows[1].(map[string]any)["row_class"])

	_, body = doJSON(t, app, http.MethodGet, "/api/v1/products?category=Books", token, nil)
	assert.Equal(t, []int{1, 2}, listedIDs(t, body))
	assert.Equal(t, "Books", body["category"])

	_, body = doJSON(t, app, http.MethodGet, "/api/v1/products?min_price=1000", token, nil)
	assert.Equal(t, []int{1, 3}, listedIDs(t, body))

	_, body = doJSON(t, app, http.MethodGet, "/api/v1/products?keyword=Snack", token, nil)
	assert.Equal(t, []int{4}, listedIDs(t, body))

	_, body = doJSON(t, app, http.MethodGet, "/api/v1/products?category=Furniture&max_price=abc", token, nil)
	assert.Equal(t, []int{1, 2, 3, 4}, listedIDs(t, body))
	assert.Equal(t, []any{forms.MsgPriceFilter}, body["warnings"])
}

func TestListProducts_BugMarkerFails(t *testing.T) {
	app, _ := setupApp(t)
	token := login(t, app, "admin", "admin_password")

	target := "/api/v1/products?keyword=" + url.QueryEscape("x"+models.BugMarker+"y")
	resp, body := doJSON(t, app, http.MethodGet, target, token, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", body["message"])
}

func TestProductEndpointsWithoutAuth(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/products", "", validProduct())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/products/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateProduct(t *testing.T) {
	app, repo := setupApp(t)
	admin := login(t, app, "admin", "admin_password")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/products", admin, validProduct())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "product created.", body["message"])

	created := body["product"].(map[string]any)
	assert.Equal(t, float64(5), created["id"])
	assert.Equal(t, "Preparing", created["status"], "new products always start in Preparing")

	stored, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1200, stored.Price)
	assert.Equal(t, models.StatusPreparing, stored.Status)
}

func TestCreateProduct_ForbiddenForUser(t *testing.T) {
	app, repo := setupApp(t)
	user := login(t, app, "user", "user_password")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/products", user, validProduct())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "insufficient permissions.", body["message"])

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestCreateProduct_ValidationErrors(t *testing.T) {
	app, _ := setupApp(t)
	admin := login(t, app, "admin", "admin_password")

	in := validProduct()
	in["name"] = "   "
	in["price"] = "1000001"
	in["stock"] = "ten"

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/products", admin, in)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	errs := body["errors"].(map[string]any)
	assert.Equal(t, forms.MsgNameRequired, errs["name"])
	assert.Equal(t, forms.RangeMessage(forms.MinPrice, forms.MaxPrice), errs["price"])
	assert.Equal(t, forms.MsgNotANumber, errs["stock"])
	assert.NotContains(t, errs, "category")
	assert.Equal(t, "ten", body["form"].(map[string]any)["stock"], "submitted values are echoed back")
}

func TestGetProductAndFormOptions(t *testing.T) {
	app, _ := setupApp(t)
	user := login(t, app, "user", "user_password")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/products/2", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"Published"}, body["allowed_transitions"])
	assert.Equal(t, "2800", body["form"].(map[string]any)["price"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/99", user, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/abc", user, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/products/form-options", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"Preparing"}, body["create_statuses"])
	assert.Equal(t, []any{"Preparing", "Published", "Unpublished"}, body["edit_statuses"])
}

func TestUpdateProduct(t *testing.T) {
	app, repo := setupApp(t)
	user := login(t, app, "user", "user_password")

	in := map[string]string{
		"name":     "Test Automation Training Kit",
		"category": "Appliances",
		"price":    "58000",
		"stock":    "0",
		"status":   "Published",
	}
	resp, body := doJSON(t, app, http.MethodPut, "/api/v1/products/3", user, in)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "product updated.", body["message"])

	stored, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, stored.Status)
	assert.Equal(t, 0, stored.Stock)
}

func TestUpdateProduct_RejectsBackwardTransition(t *testing.T) {
	app, repo := setupApp(t)
	admin := login(t, app, "admin", "admin_password")

	in := map[string]string{
		"name":     "Intro to Automated Testing",
		"category": "Books",
		"price":    "3200",
		"stock":    "5",
		"status":   "Preparing",
	}
	resp, body := doJSON(t, app, http.MethodPut, "/api/v1/products/1", admin, in)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, forms.MsgBadTransition, body["errors"].(map[string]any)["status"])

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, stored.Status)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	app, _ := setupApp(t)
	user := login(t, app, "user", "user_password")

	resp, _ := doJSON(t, app, http.MethodPut, "/api/v1/products/42", user, validProduct())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteProduct(t *testing.T) {
	app, _ := setupApp(t)
	admin := login(t, app, "admin", "admin_password")
	user := login(t, app, "user", "user_password")

	resp, _ := doJSON(t, app, http.MethodDelete, "/api/v1/products/1", user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodDelete, "/api/v1/products/1", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "product deleted.", body["message"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/1", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/products/999", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = doJSON(t, app, http.MethodGet, "/api/v1/products", admin, nil)
	assert.Equal(t, []int{2, 3, 4}, listedIDs(t, body))
}
