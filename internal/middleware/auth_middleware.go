package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"myMarketplace/domain"
	"myMarketplace/pkg/logger"
	jsonres "myMarketplace/pkg/response"
	"myMarketplace/pkg/utils"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserID  = "user_id"
	ContextRole    = "role"
	ContextToken   = "token"
	ContextSubject = "subject"

	TokenCookieName = "token"
)

// TokenValidator looks a token up in the token store and returns the
// account key it was issued to.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// TokenParser is satisfied by utils.JWTManager.
type TokenParser interface {
	ParseJWT(tokenString string) (*utils.Claims, error)
}

func tokenFromRequest(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
			return "", false
		}
		return tokenParts[1], true
	}

	cookie, err := c.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, jsonres.Error("UNAUTHORIZED", msg, nil))
}

// Auth accepts a bearer token or the token cookie, checks the JWT and then
// requires the token to still be present in the token store.
func Auth(parser TokenParser, tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := tokenFromRequest(c)
			if !ok {
				return unauthorized(c, "Missing or malformed token")
			}

			claims, err := parser.ParseJWT(tokenString)
			if err != nil {
				return unauthorized(c, "Invalid token")
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			accountKey, err := tokens.ValidateToken(ctx, tokenString)
			if err != nil {
				logger.Warn("token not found in store", "error", err)
				return unauthorized(c, "Token expired or revoked")
			}

			if accountKey != claims.Role+":"+claims.UserID {
				logger.Error("token owner mismatch between jwt and store")
				return unauthorized(c, "Invalid token")
			}

			role := domain.Role(claims.Role)
			if role.IsAccountRole() {
				userID, err := strconv.ParseUint(claims.UserID, 10, 64)
				if err != nil {
					return unauthorized(c, "Invalid user id in token")
				}
				c.Set(ContextUserID, uint(userID))
			} else if role != domain.RoleAdmin {
				return unauthorized(c, "Unknown role")
			}

			c.Set(ContextRole, role)
			c.Set(ContextSubject, claims.UserID)
			c.Set(ContextToken, tokenString)

			return next(c)
		}
	}
}

// RequireRoles lets the request through only for the listed roles.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextRole).(domain.Role)
			if !ok {
				return unauthorized(c, "User not authenticated")
			}

			for _, r := range roles {
				if r == role {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, jsonres.Error(
				"FORBIDDEN", "Insufficient role for this resource", nil,
			))
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return RequireRoles(domain.RoleAdmin)
}

func UserID(c echo.Context) uint {
	id, _ := c.Get(ContextUserID).(uint)
	return id
}

func Role(c echo.Context) domain.Role {
	role, _ := c.Get(ContextRole).(domain.Role)
	return role
}

func Token(c echo.Context) string {
	token, _ := c.Get(ContextToken).(string)
	return token
}
