package router

import (
	"net/http"

	authsvc "cosmed-backend/internal/application/auth"
	companysvc "cosmed-backend/internal/application/company"
	onbsvc "cosmed-backend/internal/application/onboarding"
	profilesvc "cosmed-backend/internal/application/profile"
	refsvc "cosmed-backend/internal/application/referencedata"
	"cosmed-backend/internal/config"
	"cosmed-backend/internal/infrastructure/database"
	authhandler "cosmed-backend/internal/interfaces/handlers/auth"
	companyhandler "cosmed-backend/internal/interfaces/handlers/company"
	healthhandler "cosmed-backend/internal/interfaces/handlers/health"
	onbhandler "cosmed-backend/internal/interfaces/handlers/onboarding"
	refhandler "cosmed-backend/internal/interfaces/handlers/referencedata"
	"cosmed-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	if db != nil && rdb != nil {
		// Auth
		as := &authsvc.Service{DB: db, Rdb: rdb, OTPTTL: cfg.OTPTTL()}
		ah := &authhandler.Handlers{Service: as, Rdb: rdb, Config: sessionCfg}
		ag := app.Group("/api/v1/auth")
		ag.Post("/register", ah.Register)
		ag.Post("/login", ah.Login)
		ag.Post("/request-otp", ah.RequestOTP)
		ag.Post("/verify-otp", ah.VerifyOTP)
		ag.Get("/me", ah.Me)
		ag.Delete("/logout", ah.Logout)

		// Company directory
		cs := &companysvc.Service{DB: db}
		ch := &companyhandler.Handlers{Service: cs}
		cg := app.Group("/api/v1/companies", middleware.RequireAuth())
		cg.Get("/check-legal-id", ch.CheckLegalID)
		cg.Get("/:id", ch.GetByID)
		cg.Get("/", ch.Search)

		// Reference data
		refs := &refsvc.Service{DB: db}
		refh := &refhandler.Handlers{Service: refs}
		refg := app.Group("/api/v1/reference", middleware.RequireAuth())
		refg.Get("/countries", refh.Countries)
		refg.Get("/departments", refh.Departments)
		refg.Get("/positions", refh.Positions)

		// Onboarding
		ps := &profilesvc.Service{DB: db}
		os := &onbsvc.Service{
			Companies: cs,
			Profiles:  ps,
			Progress:  &onbsvc.GormProgressStore{DB: db},
		}
		oh := &onbhandler.Handlers{Service: os, DefaultLocale: cfg.DefaultLocale}
		og := app.Group("/api/v1/onboarding", middleware.RequireAuth())
		og.Get("/progress", oh.LoadProgress)
		og.Put("/progress", oh.SaveProgress)
		og.Post("/complete", oh.Complete)
		og.Get("/needs-onboarding", oh.NeedsOnboarding)
		og.Get("/status", oh.GetStatus)
		og.Post("/reset", oh.Reset)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
