package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RecoverConfig configures the recover middleware
type RecoverConfig struct {
	// Logger instance
	Logger *zap.Logger
	// StackSize limits the logged stack trace size
	StackSize int
}

// DefaultRecoverConfig returns default recover config
func DefaultRecoverConfig(logger *zap.Logger) RecoverConfig {
	return RecoverConfig{
		Logger:    logger,
		StackSize: 4 << 10, // 4 KB
	}
}

// RecoverMiddleware converts panics into errors. The error is returned
// up the chain so the app's error handler translates it like any other
// uncaught failure; the stack trace is logged here because it is gone
// by the time the error handler runs.
type RecoverMiddleware struct {
	config RecoverConfig
}

// NewRecoverMiddleware creates a new recover middleware
func NewRecoverMiddleware(config RecoverConfig) *RecoverMiddleware {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &RecoverMiddleware{
		config: config,
	}
}

// Handler returns the recover handler
func (m *RecoverMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				if m.config.StackSize > 0 && len(stack) > m.config.StackSize {
					stack = stack[:m.config.StackSize]
				}

				var panicErr error
				switch v := r.(type) {
				case error:
					panicErr = v
				case string:
					panicErr = fmt.Errorf("%s", v)
				default:
					panicErr = fmt.Errorf("%v", v)
				}

				m.config.Logger.Error("panic recovered",
					zap.Error(panicErr),
					zap.String("path", c.Path()),
					zap.String("method", c.Method()),
					zap.String("ip", c.IP()),
					zap.String("stack", string(stack)),
					zap.String("request_id", GetRequestID(c)),
				)

				err = panicErr
			}
		}()

		return c.Next()
	}
}
