package middleware

import (
	"net/http"
	"strings"

	"eventhub/core/cache"
	"eventhub/core/constants"
	"eventhub/core/errors"
	"eventhub/core/logger"
	"eventhub/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	cache cache.ICache
}

func NewMiddleware(c cache.ICache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware validates the bearer token and stores its claims in the echo
// context under "token_data".
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, string(errors.ErrMissingAuthorizationHeader))
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, string(errors.ErrInvalidTokenFormat))
			}
			token := parts[1]

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err != nil {
					logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted:Error:", err)
				} else if blacklisted {
					return echo.NewHTTPError(http.StatusUnauthorized, string(errors.ErrUnauthorized))
				}
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				if err == jwt.ErrTokenExpired {
					return echo.NewHTTPError(http.StatusUnauthorized, string(errors.ErrTokenExpired))
				}
				logger.Error("Middleware:AuthMiddleware:ValidateAndParseToken:Error:", err)
				return echo.NewHTTPError(http.StatusUnauthorized, string(errors.ErrUnauthorized))
			}

			c.Set("token_data", claims)
			return next(c)
		}
	}
}

// RequireRole restricts a route to users carrying the given role claim.
// It must run after AuthMiddleware.
func (m *Middleware) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData := c.Get("token_data")
			claims, ok := tokenData.(*utils.TokenClaims)
			if !ok || claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, string(errors.ErrUnauthorized))
			}
			if claims.Role != role && claims.Role != constants.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, string(errors.ErrForbidden))
			}
			return next(c)
		}
	}
}
