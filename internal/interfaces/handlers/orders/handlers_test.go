package orders

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ordersvc "bitebuddy-backend/internal/application/orders"
	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/infrastructure/database"
	"bitebuddy-backend/internal/middleware"
	"bitebuddy-backend/internal/pkg/clock"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func setupOrdersTest(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	h := &Handlers{Service: &ordersvc.Service{DB: db, Clock: clock.Fixed(testNow)}}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if email := c.Get("X-Test-User"); email != "" {
			c.Locals("user", map[string]interface{}{"email": email, "fullname": "Test User"})
		}
		return c.Next()
	})
	api := app.Group("/orders", middleware.RequireAuth())
	api.Post("/", h.Create)
	api.Get("/", middleware.RequireSelf("email"), h.List)
	api.Get("/:id", h.Get)
	api.Patch("/:id", h.UpdateStatus)
	return app, db
}

func seedListing(t *testing.T, db *gorm.DB, exDate time.Time) *domain.Listing {
	l := &domain.Listing{
		FoodName:    "Rice",
		Location:    "Dhaka",
		Quantity:    5,
		ExDate:      exDate,
		Description: "Freshly cooked meal",
		Price:       decimal.RequireFromString("2"),
		Status:      domain.ListingAvailable,
		OwnerEmail:  "alice@example.com",
		OwnerName:   "Alice",
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

func do(t *testing.T, app *fiber.App, method, path, user string, body interface{}) (*http.Response, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func kind(out map[string]interface{}) interface{} {
	return out["error"].(map[string]interface{})["kind"]
}

func TestOrderLifecycle(t *testing.T) {
	app, db := setupOrdersTest(t)
	l := seedListing(t, db, testNow.Add(48*time.Hour))

	resp, out := do(t, app, "POST", "/orders", "bob@example.com", map[string]interface{}{
		"listingId": l.ID.String(),
		"requester": map[string]interface{}{"email": "bob@example.com", "fullname": "Bob"},
		"details":   map[string]interface{}{"quantity": 2, "address": "12 Road", "deliveryDate": "2026-06-16"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	order := out["data"].(map[string]interface{})
	assert.Equal(t, "Pending", order["status"])
	assert.Equal(t, "4", order["totalPrice"])
	id := order["id"].(string)

	resp, out = do(t, app, "POST", "/orders", "carol@example.com", map[string]interface{}{"listingId": l.ID.String()})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NotEligible", kind(out))

	resp, _ = do(t, app, "PATCH", "/orders/"+id, "bob@example.com", map[string]interface{}{"status": "Processing"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, out = do(t, app, "PATCH", "/orders/"+id, "alice@example.com", map[string]interface{}{"status": "In Transit"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "In Transit", out["data"].(map[string]interface{})["status"])

	resp, out = do(t, app, "PATCH", "/orders/"+id, "alice@example.com", map[string]interface{}{"status": "Pending"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "InvalidTransition", kind(out))

	resp, out = do(t, app, "PATCH", "/orders/"+id, "alice@example.com", map[string]interface{}{"status": "Lost"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "InvalidInput", kind(out))

	resp, out = do(t, app, "GET", "/orders/"+id, "bob@example.com", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "In Transit", out["data"].(map[string]interface{})["status"])

	resp, _ = do(t, app, "GET", "/orders/"+id, "carol@example.com", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCreate_RequesterMismatch(t *testing.T) {
	app, db := setupOrdersTest(t)
	l := seedListing(t, db, testNow.Add(time.Hour))

	resp, out := do(t, app, "POST", "/orders", "bob@example.com", map[string]interface{}{
		"listingId": l.ID.String(),
		"requester": map[string]interface{}{"email": "mallory@example.com"},
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden", kind(out))

	var count int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreate_ExpiredAndBadInput(t *testing.T) {
	app, db := setupOrdersTest(t)
	expired := seedListing(t, db, testNow.Add(-time.Minute))

	resp, out := do(t, app, "POST", "/orders", "bob@example.com", map[string]interface{}{"listingId": expired.ID.String()})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NotEligible", kind(out))

	resp, _ = do(t, app, "POST", "/orders", "bob@example.com", map[string]interface{}{"listingId": "abc"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "POST", "/orders", "", map[string]interface{}{"listingId": expired.ID.String()})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestList(t *testing.T) {
	app, db := setupOrdersTest(t)
	for i := 0; i < 3; i++ {
		l := seedListing(t, db, testNow.Add(time.Hour))
		resp, _ := do(t, app, "POST", "/orders", "bob@example.com", map[string]interface{}{"listingId": l.ID.String()})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, out := do(t, app, "GET", "/orders?email=alice@example.com&role=donor&limit=2", "alice@example.com", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := out["data"].(map[string]interface{})
	assert.Len(t, data["orders"], 2)
	meta := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), meta["totalItems"])
	assert.Equal(t, float64(2), meta["totalPages"])
	assert.Equal(t, true, meta["hasNextPage"])

	resp, _ = do(t, app, "GET", "/orders?email=bob@example.com", "alice@example.com", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, out = do(t, app, "GET", "/orders?role=owner", "alice@example.com", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "InvalidInput", kind(out))
}
