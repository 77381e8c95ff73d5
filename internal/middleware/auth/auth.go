package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/trananhduc/fashion_shop/internal/models"
)

const principalKey = "principal"

type Middleware struct {
	JWTSecret []byte
}

func New(jwtSecret []byte) *Middleware {
	return &Middleware{JWTSecret: jwtSecret}
}

// RequireLogin parses the bearer token and attaches the principal to the
// request context. Everything past here trusts that principal.
func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
		}
		roleRaw, _ := claims["role"].(string)
		role, ok := models.ParseRole(roleRaw)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid role claim")
		}

		c.Set(principalKey, models.Principal{UserID: uint(sub), Role: role})
		return next(c)
	}
}

func (m *Middleware) RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := Principal(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		if !p.IsStaff() {
			return echo.NewHTTPError(http.StatusForbidden, "staff only")
		}
		return next(c)
	}
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := Principal(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		if !p.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin only")
		}
		return next(c)
	}
}

func Principal(c echo.Context) (models.Principal, bool) {
	p, ok := c.Get(principalKey).(models.Principal)
	return p, ok
}
