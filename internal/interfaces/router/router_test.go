package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bitebuddy-backend/internal/config"
	"bitebuddy-backend/internal/infrastructure/database"
	"bitebuddy-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) *fiber.App {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	for sid, user := range map[string]string{
		"alice": `{"user":{"email":"alice@example.com","fullname":"Alice"}}`,
		"bob":   `{"user":{"email":"bob@example.com","fullname":"Bob"}}`,
	} {
		require.NoError(t, mr.Set(middleware.SessionRedisPrefix+sid, user))
	}

	return New(&config.Config{Env: "test", OrderRateLimit: 20}, db, rdb)
}

func call(t *testing.T, app *fiber.App, method, path, sid string, body interface{}) (int, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "s:" + sid})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestRouter_ListingToDelivery(t *testing.T) {
	app := setupRouter(t)

	status, out := call(t, app, "POST", "/api/v1/listings", "alice", map[string]interface{}{
		"foodName":    "Rice",
		"location":    "Dhaka",
		"quantity":    3,
		"exDate":      time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"description": "Freshly cooked rice",
		"price":       "2.50",
	})
	require.Equal(t, fiber.StatusCreated, status, out)
	listingID := out["data"].(map[string]interface{})["id"].(string)

	status, out = call(t, app, "GET", "/api/v1/listings?search=rice", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	items := out["data"].(map[string]interface{})["items"].([]interface{})
	assert.Len(t, items, 1)

	status, out = call(t, app, "POST", "/api/v1/orders", "bob", map[string]interface{}{"listingId": listingID})
	require.Equal(t, fiber.StatusCreated, status, out)
	order := out["data"].(map[string]interface{})
	orderID := order["id"].(string)
	assert.Equal(t, "7.5", order["totalPrice"])

	status, _ = call(t, app, "POST", "/api/v1/orders", "bob", map[string]interface{}{"listingId": listingID})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = call(t, app, "PATCH", "/api/v1/orders/"+orderID, "bob", map[string]string{"status": "Processing"})
	assert.Equal(t, fiber.StatusForbidden, status)

	for _, next := range []string{"Processing", "In Transit", "Delivered"} {
		status, out = call(t, app, "PATCH", "/api/v1/orders/"+orderID, "alice", map[string]string{"status": next})
		require.Equal(t, fiber.StatusOK, status, out)
	}
	status, _ = call(t, app, "PATCH", "/api/v1/orders/"+orderID, "alice", map[string]string{"status": "Cancelled"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, out = call(t, app, "GET", "/api/v1/dashboard/stats", "alice", nil)
	require.Equal(t, fiber.StatusOK, status)
	stats := out["data"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["added"])
	assert.Equal(t, float64(1), stats["received"])

	status, out = call(t, app, "GET", "/api/v1/listing-events", "alice", nil)
	require.Equal(t, fiber.StatusOK, status)
	events := out["data"].(map[string]interface{})["events"].([]interface{})
	assert.GreaterOrEqual(t, len(events), 2)
}

func TestRouter_Guards(t *testing.T) {
	app := setupRouter(t)

	status, _ := call(t, app, "POST", "/api/v1/listings", "", map[string]string{})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, "GET", "/api/v1/orders?email=alice@example.com", "bob", nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = call(t, app, "GET", "/api/v1/orders/chart?email=bob@example.com", "bob", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, out := call(t, app, "GET", "/api/v1/orders/not-a-uuid", "bob", nil)
	assert.Equal(t, fiber.StatusBadRequest, status, out)
}

func TestRouter_Health(t *testing.T) {
	app := setupRouter(t)

	status, out := call(t, app, "GET", "/health/json", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "bitebuddy-api", out["service"])
	deps := out["dependencies"].(map[string]interface{})
	assert.Contains(t, deps, "redis")
	assert.Contains(t, deps, "database")
}
