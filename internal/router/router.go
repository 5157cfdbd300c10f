package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"pulseboard/internal/config"
	"pulseboard/internal/errors"
	"pulseboard/internal/handler"
	appmiddleware "pulseboard/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	counter appmiddleware.Counter,
	authHandler *handler.AuthHandler,
	entryHandler *handler.EntryHandler,
	eventsHandler *handler.EventsHandler,
	seedHandler *handler.SeedHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.Secure())

	e.HTTPErrorHandler = errorHandler(log)

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	jwtGuard := echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	})

	// Middleware is attached per route, not on the groups: group-level
	// middleware makes Echo register a catch-all for the prefix, which
	// turns wrong-method requests into 404s instead of 405s.
	general := appmiddleware.RateLimit(counter, appmiddleware.GeneralPolicy)
	authLimit := appmiddleware.RateLimit(counter, appmiddleware.AuthPolicy)
	streamLimit := appmiddleware.RateLimit(counter, appmiddleware.StreamPolicy)

	api := e.Group("/api")

	// Auth routes carry the stricter per-IP budget.
	authGroup := api.Group("/auth")
	authGroup.POST("/login", authHandler.Login, general, authLimit)
	authGroup.POST("/register", authHandler.Register, general, authLimit)
	authGroup.POST("/refresh", authHandler.Refresh, general, authLimit)
	authGroup.POST("/logout", authHandler.Logout, general, authLimit)
	authGroup.GET("/me", authHandler.Me, general, authLimit, jwtGuard)

	// Secured routes (require JWT authentication)
	api.GET("/user-data", entryHandler.List, general, jwtGuard)
	api.POST("/user-data", entryHandler.Create, general, jwtGuard)
	api.PUT("/user-data", entryHandler.Update, general, jwtGuard)
	api.DELETE("/user-data", entryHandler.Delete, general, jwtGuard)

	api.GET("/dashboards/:id/events", eventsHandler.Stream, general, streamLimit, jwtGuard)

	if cfg.DemoMode {
		api.POST("/seed/demo", seedHandler.SeedDemo, general)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// errorHandler renders every error as the shared JSON shape and keeps
// internal detail out of 500 responses.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he, ok := err.(*echo.HTTPError)
		if !ok {
			log.Error("unhandled error", zap.Error(err), zap.String("path", c.Path()))
			_ = c.JSON(http.StatusInternalServerError, errors.ErrorResponse{
				Error: "internal server error",
				Code:  "INTERNAL_ERROR",
			})
			return
		}

		switch m := he.Message.(type) {
		case errors.ErrorResponse:
			_ = c.JSON(he.Code, m)
		case string:
			_ = c.JSON(he.Code, errors.ErrorResponse{Error: m, Code: codeForStatus(he.Code)})
		default:
			_ = c.JSON(he.Code, he.Message)
		}
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}
