package router

import (
	"context"
	"net/http"

	emailsvc "bitebuddy-backend/internal/application/emails"
	healthsvc "bitebuddy-backend/internal/application/health"
	lesvc "bitebuddy-backend/internal/application/listingevents"
	listsvc "bitebuddy-backend/internal/application/listings"
	ordersvc "bitebuddy-backend/internal/application/orders"
	reportsvc "bitebuddy-backend/internal/application/reports"
	uploadsvc "bitebuddy-backend/internal/application/uploads"
	"bitebuddy-backend/internal/config"
	"bitebuddy-backend/internal/infrastructure/database"
	authhandler "bitebuddy-backend/internal/interfaces/handlers/auth"
	healthhandler "bitebuddy-backend/internal/interfaces/handlers/health"
	lehandler "bitebuddy-backend/internal/interfaces/handlers/listingevents"
	listhandler "bitebuddy-backend/internal/interfaces/handlers/listings"
	orderhandler "bitebuddy-backend/internal/interfaces/handlers/orders"
	reporthandler "bitebuddy-backend/internal/interfaces/handlers/reports"
	uploadhandler "bitebuddy-backend/internal/interfaces/handlers/uploads"
	"bitebuddy-backend/internal/middleware"
	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/clock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CreateApp opens the store and Redis and wires every route.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, apperrors.Configuration("Database is not configured: DATABASE_URL is not set")
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, apperrors.Configuration("Invalid REDIS_URL")
	}
	rdb := redis.NewClient(opts)

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		rdb.Close()
		return nil, nil, nil, err
	}

	return New(cfg, db, rdb), db, rdb, nil
}

// New builds the Fiber app over an open store and Redis client.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(recover.New())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Session(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb: rdb,
		DB:  &gormDBPinger{db: db},
		Integrations: healthsvc.Integrations{
			ImageHost: cfg.ImgBBAPIKey != "",
			Mail:      cfg.SendinblueAPIKey != "",
		},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	sessionCfg := middleware.SessionConfig{
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}
	ah := &authhandler.Handlers{Rdb: rdb, Config: sessionCfg, DevPassword: cfg.DevPassword}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/session", ah.Session)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	clk := clock.Real{}
	uploads := &uploadsvc.Service{Host: &uploadsvc.ImgBBClient{
		APIKey:    cfg.ImgBBAPIKey,
		UploadURL: cfg.ImgBBUploadURL,
	}}
	var notifier emailsvc.Notifier
	if cfg.SendinblueAPIKey != "" {
		notifier = &emailsvc.BrevoClient{APIKey: cfg.SendinblueAPIKey, MailFrom: cfg.MailFrom}
	}

	ls := &listsvc.Service{DB: db, Clock: clk, Uploads: uploads}
	orderSvc := &ordersvc.Service{DB: db, Clock: clk, Notifier: notifier}
	rs := &reportsvc.Service{DB: db, Orders: orderSvc, Clock: clk}

	// Listings: browsing is public, writes need a session.
	lh := &listhandler.Handlers{Service: ls}
	lg := app.Group("/api/v1/listings")
	lg.Get("/", lh.Query)
	lg.Get("/mine", middleware.RequireAuth(), lh.Mine)
	lg.Get("/:id", lh.Get)
	lg.Post("/", middleware.RequireAuth(), lh.Create)
	lg.Put("/:id", middleware.RequireAuth(), lh.Update)
	lg.Delete("/:id", middleware.RequireAuth(), lh.Delete)

	// Orders
	oh := &orderhandler.Handlers{Service: orderSvc}
	rh := &reporthandler.Handlers{Service: rs}
	og := app.Group("/api/v1/orders", middleware.RequireAuth())
	og.Post("/", middleware.OrderRateLimit(cfg.OrderRateLimit), oh.Create)
	og.Get("/", middleware.RequireSelf("email"), oh.List)
	og.Get("/report", middleware.RequireSelf("email"), rh.Report)
	og.Get("/chart", middleware.RequireSelf("email"), rh.Chart)
	og.Get("/:id", oh.Get)
	og.Patch("/:id", oh.UpdateStatus)

	app.Get("/api/v1/dashboard/stats", middleware.RequireAuth(), rh.Dashboard)

	leh := &lehandler.Handlers{Service: &lesvc.Service{DB: db}}
	app.Get("/api/v1/listing-events", middleware.RequireAuth(), leh.GetOwnerEvents)

	uph := &uploadhandler.Handlers{Service: uploads}
	app.Post("/api/v1/uploads/food-image", middleware.RequireAuth(), uph.UploadFoodImage)

	return app
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
