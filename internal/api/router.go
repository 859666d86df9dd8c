package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/hydrowise/hydration-service/internal/api/handler"
	"github.com/hydrowise/hydration-service/internal/api/middleware"
	"github.com/hydrowise/hydration-service/internal/core/ports"

	_ "github.com/hydrowise/hydration-service/docs"
)

// Deps are the collaborators the HTTP layer delegates to.
type Deps struct {
	Store   ports.HydrationStore
	Status  handler.HydrationStatus
	Policy  ports.TargetPolicy
	History ports.HistoryReader
	// Pingers are checked by the readiness probe, keyed by dependency name.
	Pingers   map[string]handler.Pinger
	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("hydration"))

	// --- Handlers ---
	hydrationHandler := handler.NewHydrationHandler(d.Store, d.Policy)
	contextHandler := handler.NewContextHandler(d.Policy)
	historyHandler := handler.NewHistoryHandler(d.History, d.Store.Today)

	read := middleware.RequireScope(middleware.ScopeRead)
	write := middleware.RequireScope(middleware.ScopeWrite)

	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret))

	// --- Hydration ---
	v1.GET("/state", hydrationHandler.State, read)
	v1.POST("/intake", hydrationHandler.AddWater, write)
	v1.POST("/intake/adjustments", hydrationHandler.Adjust, write)
	v1.POST("/intake/reset", hydrationHandler.ResetIntake, write)
	v1.POST("/day/reset", hydrationHandler.ResetDaily, write)
	v1.POST("/day/rollover", hydrationHandler.RollDay, write)

	// --- Target & profile ---
	v1.PUT("/target", hydrationHandler.SetTarget, write)
	v1.GET("/target/recommendation", hydrationHandler.Recommendation, read)
	v1.PATCH("/profile", hydrationHandler.UpdateProfile, write)
	v1.POST("/onboarding", hydrationHandler.Onboard, write)

	// --- Context signals ---
	v1.POST("/context/weather", contextHandler.Weather, write)
	v1.POST("/activity/samples", contextHandler.ActivitySamples, write)

	// --- History ---
	v1.GET("/history/weekly", historyHandler.Weekly, read)
	v1.GET("/history/today", historyHandler.Today, read)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Status, d.Pingers)

	e.GET("/health", healthHandler.Liveness)           // liveness: is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness: is the state loaded and storage up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
