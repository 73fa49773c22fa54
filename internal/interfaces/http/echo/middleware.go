package echo

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	domain "github.com/geritapp/gerit/internal/domain/auth"
)

const sessionContextKey = "session"

// RequestLogger writes one log line per request through logger.
func RequestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			res := c.Response()
			entry := logger.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
				"route":      c.Path(),
				"status":     res.Status,
				"bytes":      res.Size,
				"latency_ms": time.Since(start).Milliseconds(),
				"request_id": res.Header().Get(echo.HeaderXRequestID),
			})
			switch {
			case res.Status >= 500:
				entry.Error("request")
			case res.Status >= 400:
				entry.Warn("request")
			default:
				entry.Info("request")
			}
			return nil
		}
	}
}

type sessionRestorer interface {
	Restore(ctx context.Context, token string) (domain.Session, error)
}

// RequireSession rejects requests without a live bearer token and keeps
// the session on the context for handlers.
func RequireSession(auth sessionRestorer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := auth.Restore(c.Request().Context(), bearerToken(c))
			if err != nil {
				return err
			}
			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func currentSession(c echo.Context) (domain.Session, bool) {
	s, ok := c.Get(sessionContextKey).(domain.Session)
	return s, ok
}
