package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	usersvc "github.com/lifedash/lifedash/internal/app/service/user"
	"github.com/lifedash/lifedash/internal/models"
	"github.com/lifedash/lifedash/pkg/config"
	"github.com/lifedash/lifedash/pkg/response"
)

const currentUserKey = "currentUser"

// AuthMiddleware verifies the bearer token and resolves the signed-in user
// record. The token carries only the user id ("sub"); the admin flag comes
// from the store so revoking admin takes effect without reissuing tokens.
func AuthMiddleware(cfg *config.Config, users *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(200, response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(200, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(200, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid claims"))
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(200, response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing subject"))
			return
		}

		u, err := users.GetByID(c.Request.Context(), sub)
		if err != nil {
			c.AbortWithStatusJSON(200, response.ErrorT[any](response.APIResponseCodeUnauthorized, "unknown user"))
			return
		}

		c.Set(currentUserKey, u)
		c.Next()
	}
}

// AdminRequired gates the admin route group on the user's is_admin flag.
// This is a server-side boundary, not a UI hint.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !u.IsAdmin {
			c.AbortWithStatusJSON(200, response.ErrorT[any](response.APIResponseCodeForbidden, "admin access required"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}
