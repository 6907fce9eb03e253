package reports

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	ordersvc "bitebuddy-backend/internal/application/orders"
	reportsvc "bitebuddy-backend/internal/application/reports"
	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/infrastructure/database"
	"bitebuddy-backend/internal/middleware"
	"bitebuddy-backend/internal/pkg/clock"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func setupReportsTest(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	c := clock.Fixed(testNow)
	h := &Handlers{Service: &reportsvc.Service{DB: db, Orders: &ordersvc.Service{DB: db, Clock: c}, Clock: c}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"email": "alice@example.com"})
		return c.Next()
	})
	app.Get("/orders/chart", middleware.RequireSelf("email"), h.Chart)
	app.Get("/orders/report", middleware.RequireSelf("email"), h.Report)
	app.Get("/dashboard/stats", h.Dashboard)
	return app, db
}

func get(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestChart_EmptyHasSixBuckets(t *testing.T) {
	app, _ := setupReportsTest(t)
	code, out := get(t, app, "/orders/chart?email=alice@example.com")
	require.Equal(t, fiber.StatusOK, code)
	buckets := out["data"].([]interface{})
	require.Len(t, buckets, 6)
	assert.Equal(t, "2026-01", buckets[0].(map[string]interface{})["month"])
	assert.Equal(t, "Jun 2026", buckets[5].(map[string]interface{})["label"])

	code, _ = get(t, app, "/orders/chart?months=abc")
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = get(t, app, "/orders/chart?email=bob@example.com")
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestReportAndDashboard(t *testing.T) {
	app, db := setupReportsTest(t)
	require.NoError(t, db.Create(&domain.Order{
		ListingID:      uuid.New(),
		FoodName:       "Rice",
		OwnerEmail:     "alice@example.com",
		RequesterEmail: "bob@example.com",
		Quantity:       1,
		OrderDate:      testNow.AddDate(0, -1, 0),
		Status:         domain.OrderDelivered,
	}).Error)

	code, out := get(t, app, "/orders/report?month=2026-05")
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, out["data"], 1)
	assert.Equal(t, float64(1), out["metadata"].(map[string]interface{})["count"])

	code, out = get(t, app, "/orders/report?month=2026-04")
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, out["data"])

	code, _ = get(t, app, "/orders/report?month=May")
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, out = get(t, app, "/dashboard/stats")
	require.Equal(t, fiber.StatusOK, code)
	stats := out["data"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["received"])
	assert.Equal(t, float64(0), stats["added"])
}
