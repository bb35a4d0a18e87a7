package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"vidtube/internal/auth"
	"vidtube/internal/handler"
	"vidtube/internal/logger"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	log *logger.Logger,
	tokens *auth.TokenService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")
	users := api.Group("/users")

	jwtConfig := echojwt.Config{
		SigningKey:  tokens.AccessSecret(),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:accessToken",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.AccessClaims)
		},
	}
	requireAuth := echojwt.WithConfig(jwtConfig)

	// optionalAuth attaches identity when a valid token is present but lets
	// anonymous requests through.
	optionalConfig := jwtConfig
	optionalConfig.ContinueOnIgnoredError = true
	optionalConfig.ErrorHandler = func(c echo.Context, err error) error {
		return nil
	}
	optionalAuth := echojwt.WithConfig(optionalConfig)

	// Public routes
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/refresh-token", authHandler.Refresh)
	users.GET("/c/:username", userHandler.ChannelProfile, optionalAuth)

	// Secured routes
	users.POST("/logout", authHandler.Logout, requireAuth)
	users.POST("/change-password", authHandler.ChangePassword, requireAuth)
	users.GET("/current-user", userHandler.CurrentUser, requireAuth)
	users.PATCH("/update-account", userHandler.UpdateAccount, requireAuth)
	users.PATCH("/avatar", userHandler.UpdateAvatar, requireAuth)
	users.PATCH("/cover-image", userHandler.UpdateCoverImage, requireAuth)
	users.POST("/c/:username/subscribe", userHandler.Subscribe, requireAuth)
	users.DELETE("/c/:username/subscribe", userHandler.Unsubscribe, requireAuth)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
