package middleware

import (
	"net/http"

	"github.com/campusroll/attendance-backend/internal/response"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// RequireRole checks that the authenticated token carries one of the roles.
// It must run after RequireJWT or RequireWSAuth.
func RequireRole(roles ...service.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if !hasRole(claims, roles) {
			response.AbortFail(c, http.StatusForbidden, forbiddenCode(roles))
			return
		}
		c.Next()
	}
}

// hasRole reports whether claims match any role. An empty list admits every role.
func hasRole(claims *service.Claims, roles []service.Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if claims.Role == r {
			return true
		}
	}
	return false
}

func forbiddenCode(roles []service.Role) response.ErrCode {
	if len(roles) == 1 {
		switch roles[0] {
		case service.RoleAdmin:
			return response.ErrAdminAccessOnly
		case service.RoleStudent:
			return response.ErrStudentAccessOnly
		}
	}
	return response.ErrForbidden
}
