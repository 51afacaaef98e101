package handlers

import (
	"ClinicCore/middlewares"
	"ClinicCore/services"
	"ClinicCore/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Signup onboards a new clinic. The admin it creates still has to log in,
// so no cookies are set here.
func (h *AuthHandler) Signup(c *gin.Context) {
	var data utils.SignupData
	if err := c.ShouldBindJSON(&data); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.service.Signup(c.Request.Context(), data)
	if err != nil {
		fail(c, err)
		return
	}

	middlewares.RespondJSON(c, http.StatusCreated, "clinic created", result)
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TenantCode string `json:"tenant_code"`
}

// Login verifies credentials. Users in several clinics get the choice list
// back and must repeat the call with tenant_code set.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password, req.TenantCode)
	if err != nil {
		fail(c, err)
		return
	}

	if result.IsMultiTenant {
		middlewares.RespondJSON(c, http.StatusOK, "select a clinic", result)
		return
	}

	utils.SetAuthCookies(c, result.AccessToken, result.RefreshToken)
	middlewares.RespondJSON(c, http.StatusOK, "login successful", result)
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(utils.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		refreshToken = c.Query("refreshToken")
	}
	if refreshToken == "" {
		middlewares.HttpError(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	accessToken, svcErr := h.service.RefreshSession(c.Request.Context(), refreshToken)
	if svcErr != nil {
		fail(c, svcErr)
		return
	}

	utils.SetAuthCookies(c, accessToken, refreshToken)
	middlewares.RespondJSON(c, http.StatusOK, "token refreshed", gin.H{"access_token": accessToken})
}

// Logoff clears the auth cookies.
func (h *AuthHandler) Logoff(c *gin.Context) {
	utils.ClearAuthCookies(c)
	middlewares.RespondJSON(c, http.StatusOK, "logged off", nil)
}

type resetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset emails a reset code. The response does not reveal
// whether the email exists.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "reset code sent if the account exists", nil)
}

type resetConfirmRequest struct {
	Email       string `json:"email"`
	ResetCode   string `json:"reset_code"`
	NewPassword string `json:"new_password"`
}

// ConfirmPasswordReset exchanges a valid reset code for a new password.
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.service.ConfirmPasswordReset(c.Request.Context(), req.Email, req.ResetCode, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "password updated", nil)
}
