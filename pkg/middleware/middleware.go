package middleware

import (
	"net/http"
	"strings"

	"github.com/Astemirdum/hotel-service/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

const (
	AuthorizationHeader = "Authorization"
	bearer              = "Bearer "

	TokenCookie = "token"
	claimsKey   = "claims"
)

// JwtAuthentication resolves the caller from a bearer token or the session cookie
// and rejects the request before it reaches a handler when that fails.
func JwtAuthentication(tokens *auth.TokenManager, denylist auth.Denylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, ok := extractToken(c)
			if !ok {
				return NewHTTPError(http.StatusUnauthorized, CodeUnauthenticated, "token required")
			}
			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				return NewHTTPError(http.StatusUnauthorized, CodeUnauthenticated, "invalid or expired token")
			}
			req := c.Request()
			revoked, err := denylist.IsRevoked(req.Context(), claims.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "internal error")
			}
			if revoked {
				return NewHTTPError(http.StatusUnauthorized, CodeUnauthenticated, "token revoked")
			}

			c.Set(claimsKey, claims)
			ctx := auth.SetAuthContext(req.Context(), auth.Principal{
				ID:   claims.Profile.ID,
				Role: claims.Profile.Role,
			})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

func extractToken(c echo.Context) (string, bool) {
	if authorization := c.Request().Header.Get(AuthorizationHeader); authorization != "" {
		if !strings.HasPrefix(authorization, bearer) {
			return "", false
		}
		token := strings.TrimPrefix(authorization, bearer)
		return token, token != ""
	}
	cookie, err := c.Cookie(TokenCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func GetClaims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	return claims, ok
}

func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.IsStaff(c.Request().Context()) {
			return NewHTTPError(http.StatusForbidden, CodeForbidden, "staff only")
		}
		return next(c)
	}
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.IsAdmin(c.Request().Context()) {
			return NewHTTPError(http.StatusForbidden, CodeForbidden, "admin only")
		}
		return next(c)
	}
}

func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

func RequestLoggerConfig(log *zap.Logger) middleware.RequestLoggerConfig {
	log = log.Named("echo")
	return middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
}
