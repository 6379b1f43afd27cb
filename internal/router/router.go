package router

import (
	stderrors "errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"harvesthub/internal/config"
	apperrors "harvesthub/internal/errors"
	"harvesthub/internal/handler"
	"harvesthub/internal/service"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Food   *handler.FoodHandler
	Match  *handler.MatchHandler
	Upload *handler.UploadHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log zerolog.Logger,
	gatherer prometheus.Gatherer,
	identity service.IdentityService,
	h Handlers,
) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(contextLogger(log))
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Validator = NewValidator()

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, handler.MessageResponse{Message: "Welcome to HarvestHub API!"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// Public routes
	e.POST("/register", h.Auth.Register)
	e.POST("/login", h.Auth.Login)
	e.GET("/uploads/:filename", h.Upload.ServeUpload)

	// Secured routes (require a bearer token naming an existing user)
	secured := e.Group("", bearerAuth(identity))
	secured.GET("/profile", h.User.Profile)
	secured.POST("/food", h.Food.CreateFood)
	secured.GET("/food", h.Food.ListFood)
	secured.POST("/match", h.Match.ClaimFood)
}

// resolveError marks failures raised while resolving an extracted token.
type resolveError struct{ err error }

func (e resolveError) Error() string { return e.err.Error() }
func (e resolveError) Unwrap() error { return e.err }

// bearerAuth resolves the Authorization bearer token to a user and stores
// it under handler.UserContextKey.
func bearerAuth(identity service.IdentityService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  handler.UserContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			ctx := c.Request().Context()
			user, err := identity.Resolve(ctx, token)
			if err != nil {
				return nil, resolveError{err: err}
			}
			l := zerolog.Ctx(ctx).With().Uint("user_id", user.ID).Logger()
			c.SetRequest(c.Request().WithContext(l.WithContext(ctx)))
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var resErr resolveError
			switch {
			case c.Request().Header.Get(echo.HeaderAuthorization) == "":
				err = apperrors.ErrTokenMissing
			case stderrors.As(err, &resErr):
				err = resErr.err
			default:
				// header present but not a bearer token
				err = apperrors.ErrTokenInvalid
			}
			httpErr := apperrors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// contextLogger attaches a request scoped logger to the request context.
func contextLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := base.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Logger()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))
			return next(c)
		}
	}
}

// requestLogger emits one line per request through the context logger.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l := zerolog.Ctx(c.Request().Context())
			ev := l.Info()
			if v.Error != nil {
				ev = l.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports failing fields by their json or form names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
