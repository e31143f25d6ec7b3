package common

import (
	"errors"

	"github.com/gin-gonic/gin"
)

const (
	// Context keys set by the auth middleware.
	ContextUserIDKey = "auth_user_id"
	ContextRoleKey   = "auth_user_role"
)

// GetUserIDFromContext retrieves the authenticated user's ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := v.(uint)
	if !ok {
		return 0, errors.New("user ID in context is not of type uint")
	}
	return userID, nil
}

// GetRoleFromContext retrieves the authenticated user's role from the Gin context.
func GetRoleFromContext(c *gin.Context) (string, error) {
	v, exists := c.Get(ContextRoleKey)
	if !exists {
		return "", errors.New("role not found in context")
	}
	role, ok := v.(string)
	if !ok {
		return "", errors.New("role in context is not of type string")
	}
	return role, nil
}
