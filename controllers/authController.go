package controllers

import (
	"ClinicCore/handlers"
	"ClinicCore/middlewares"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes initializes all authentication routes directly on the router
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	router.POST("/auth/signup", ac.Handler.Signup)
	router.POST("/auth/login", ac.Handler.Login)
	router.POST("/auth/send-reset-code", ac.Handler.RequestPasswordReset)
	router.POST("/auth/reset-password", ac.Handler.ConfirmPasswordReset)

	// Protected routes: Requires a valid token
	authGroup := router.Group("/auth").Use(middlewares.TokenAuthMiddleware())
	{
		authGroup.POST("/refresh-token", ac.Handler.RefreshToken)
		authGroup.POST("/logoff", ac.Handler.Logoff)
	}
}
