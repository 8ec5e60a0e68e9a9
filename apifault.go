package apifault

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/apifault/apifault/failure"
	"github.com/apifault/apifault/response"
)

// Titles carried by translated responses.
const (
	titleValidation   = "Validation failure"
	titleInvalidQuery = "Invalid query"
	titleInternal     = "Internal error"
)

// Config configures the translator
type Config struct {
	// Logger instance
	Logger *zap.Logger
	// SentryEnabled reports 5xx translations to Sentry
	SentryEnabled bool
	// MetricsEnabled counts translations in Prometheus
	MetricsEnabled bool
}

// DefaultConfig returns the default translator config
func DefaultConfig(logger *zap.Logger) Config {
	return Config{
		Logger:         logger,
		SentryEnabled:  false,
		MetricsEnabled: true,
	}
}

// Translator turns errors escaping route handlers into error responses.
// It holds no per-request state and a single instance serves the whole
// app.
type Translator struct {
	config Config
}

// New creates a new translator
func New(config Config) *Translator {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Translator{config: config}
}

// Handler returns the error handler to install in fiber.Config. It
// classifies the error, logs it, and writes the response envelope. The
// returned handler never fails: if encoding the envelope fails it falls
// back to a plain text response.
func (t *Translator) Handler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			status   int
			category string
			body     response.ErrorResponse
		)

		var (
			declared  *failure.Error
			ruleErrs  validator.ValidationErrors
			framework *fiber.Error
		)

		switch {
		case errors.As(err, &declared):
			status = fiber.StatusBadRequest
			category = "validation"
			body = response.NewError(response.NewErrorInformation(titleValidation, ""), declared.Failures())
			t.config.Logger.Warn("validation failure",
				zap.Int("failures", len(declared.Failures())),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("request_id", requestID(c)),
			)

		case errors.As(err, &ruleErrs):
			status = fiber.StatusBadRequest
			category = "binding"
			body = response.NewError(response.NewErrorInformation(titleValidation, ""), t.convertFieldErrors(ruleErrs))

		case isPersistenceError(err):
			status = fiber.StatusInternalServerError
			category = "persistence"
			body = response.NewError(response.NewErrorInformation(titleInvalidQuery, ""), nil)
			t.config.Logger.Warn("invalid query",
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("request_id", requestID(c)),
			)

		case errors.As(err, &framework):
			status = framework.Code
			category = "framework"
			body = response.NewError(response.NewErrorInformation(titleInternal, "500"), nil)
			t.config.Logger.Error("request failed",
				zap.Int("status", status),
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("request_id", requestID(c)),
			)

		default:
			status = fiber.StatusInternalServerError
			category = "runtime"
			body = response.NewError(response.NewErrorInformation(titleInternal, ""), nil)
			t.config.Logger.Error("unhandled error",
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("request_id", requestID(c)),
			)
		}

		if t.config.MetricsEnabled {
			translationsTotal.WithLabelValues(category, strconv.Itoa(status)).Inc()
		}

		// Report to Sentry for 5xx translations
		if t.config.SentryEnabled && status >= 500 {
			captureError(c, err)
		}

		if encErr := c.Status(status).JSON(body); encErr != nil {
			t.config.Logger.Error("error response encoding failed",
				zap.Error(encErr),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusInternalServerError).SendString(titleInternal)
		}
		return nil
	}
}

// requestID reads the request ID set by the RequestID middleware, if any.
func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("request_id").(string); ok {
		return id
	}
	return ""
}
