package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentfold/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredRoles []identity.UserRole)
}

// RequireSuperAdmin creates middleware that only passes platform super
// admin tokens.
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireSuperAdminWithConfig(RoleConfig{})
}

// RequireSuperAdminWithConfig creates super admin middleware with custom config
func RequireSuperAdminWithConfig(cfg RoleConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, nil, "No authentication claims found")
			return
		}
		if !claims.IsSuperAdmin {
			handleRoleDenied(c, cfg, nil, "Super admin access required")
			return
		}
		c.Next()
	}
}

// RequireRole creates middleware that requires one of the given business
// roles. Super admins always pass.
func RequireRole(roles ...identity.UserRole) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...identity.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, roles, "No authentication claims found")
			return
		}

		if claims.IsSuperAdmin {
			c.Next()
			return
		}

		userRole := identity.UserRole(claims.Role)
		for _, role := range roles {
			if userRole == role {
				if cfg.Logger != nil {
					cfg.Logger.Debug("Role check passed",
						zap.String("user_id", claims.UserID),
						zap.String("role", claims.Role),
					)
				}
				c.Next()
				return
			}
		}

		handleRoleDenied(c, cfg, roles, "User lacks required role")
	}
}

// RequireOwner is shorthand for owner-only routes
func RequireOwner() gin.HandlerFunc {
	return RequireRole(identity.UserRoleOwner)
}

// RequireManager passes owners and managers
func RequireManager() gin.HandlerFunc {
	return RequireRole(identity.UserRoleOwner, identity.UserRoleManager)
}

func handleRoleDenied(c *gin.Context, cfg RoleConfig, roles []identity.UserRole, reason string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Access denied",
			zap.String("path", c.Request.URL.Path),
			zap.String("reason", reason),
		)
	}

	if cfg.OnDenied != nil {
		cfg.OnDenied(c, roles)
		return
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": "Insufficient permissions",
		},
	})
}
