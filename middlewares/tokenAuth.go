package middlewares

import (
	"ClinicCore/models"
	"ClinicCore/utils"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// contextKey defines a custom context key type to store caller details.
type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
	tenantIDKey contextKey = "tenantID"
	emailKey    contextKey = "email"
)

// TokenAuthMiddleware validates the token and adds the caller's identity
// (userId, role, tenantId) to the request context. The token is read from
// the accessToken query parameter, falling back to the accessToken cookie.
func TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.DefaultQuery("accessToken", "")
		if token == "" {
			if cookie, err := c.Cookie(utils.AccessTokenCookie); err == nil {
				token = cookie
			}
		}
		if token == "" {
			HttpError(c, http.StatusUnauthorized, "Missing access token", nil)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token, models.RoleAdmin, models.RoleDoctor, models.RoleStaff, models.RoleNurse)
		if err != nil {
			HttpError(c, http.StatusUnauthorized, "Invalid token", err)
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, userRoleKey, claims.Role)
		ctx = context.WithValue(ctx, tenantIDKey, claims.TenantID)
		ctx = context.WithValue(ctx, emailKey, claims.Email)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleAuthMiddleware restricts access to callers holding the specified role
// in their token. Entity services re-check the membership row regardless;
// this only short-circuits obviously unauthorized requests.
func RoleAuthMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := ExtractUserRoleFromContext(c.Request.Context())
		if err != nil {
			HttpError(c, http.StatusUnauthorized, "User role not found in context", err)
			c.Abort()
			return
		}

		if role != requiredRole {
			HttpError(c, http.StatusForbidden, "Forbidden: insufficient privileges", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// ExtractUserIDFromContext retrieves the userID from the context.
func ExtractUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok {
		return 0, errors.New("user ID not found in context")
	}
	return userID, nil
}

// ExtractUserRoleFromContext retrieves the user role from the context.
func ExtractUserRoleFromContext(ctx context.Context) (string, error) {
	userRole, ok := ctx.Value(userRoleKey).(string)
	if !ok {
		return "", errors.New("user role not found in context")
	}
	return userRole, nil
}

// ExtractTenantIDFromContext retrieves the tenant ID from the context.
func ExtractTenantIDFromContext(ctx context.Context) (int64, error) {
	tenantID, ok := ctx.Value(tenantIDKey).(int64)
	if !ok {
		return 0, errors.New("tenant ID not found in context")
	}
	return tenantID, nil
}

// ExtractEmailFromContext retrieves the caller's email from the context.
func ExtractEmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(emailKey).(string)
	if !ok {
		return "", errors.New("email not found in context")
	}
	return email, nil
}
