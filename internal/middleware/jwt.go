package middleware

import (
	"net/http"
	"strings"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-gonic/gin"
)

const contextKeyClaims = "admin_claims"

// RequireAdminJWT validates the bearer token and checks that it is still the
// admin's active session. Valid claims are stored on the request context.
func RequireAdminJWT(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		claims, err := auth.ParseToken(tokenString)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		active, err := auth.SessionActive(c.Request.Context(), claims)
		if err != nil {
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if !active {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Set(contextKeyClaims, claims)
		c.Next()
	}
}

// RequireSuperadmin restricts a route to superadmins. Must run after
// RequireAdminJWT.
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Role != model.RoleSuperadmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrSuperadminOnly)
			return
		}
		c.Next()
	}
}

// GetClaims returns the authenticated admin's claims, or nil outside an
// authenticated route.
func GetClaims(c *gin.Context) *service.Claims {
	v, ok := c.Get(contextKeyClaims)
	if !ok {
		return nil
	}
	claims, ok := v.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}
