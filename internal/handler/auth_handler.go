package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loandesk/internal/middleware"
	"loandesk/internal/service"
)

// AuthHandler handles operator authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/auth/login
// @Summary Operator login
// @Description Exchange credentials for an access token. A new login replaces the previous session for the same role.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} Response{data=service.Session}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Invalid credentials"
// @Failure 403 {object} ErrorResponseBody "Operator inactive"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required")
		return
	}

	session, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, session)
}

// Logout handles POST /api/auth/logout
// @Summary Operator logout
// @Description Revoke the current session
// @Tags auth
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "logged out"})
}

// Session handles GET /api/auth/session
// @Summary Current session
// @Description Return the authenticated operator's identity and token expiry
// @Tags auth
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	data := gin.H{
		"operatorId": claims.OperatorID,
		"username":   claims.Username,
		"role":       claims.Role,
	}
	if claims.ExpiresAt != nil {
		data["expiresAt"] = claims.ExpiresAt.Time
	}
	RespondOK(c, data)
}
