package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carrizal-edu/asistencia-api/internal/models"
	"github.com/carrizal-edu/asistencia-api/internal/service"
	appErrors "github.com/carrizal-edu/asistencia-api/pkg/errors"
	"github.com/carrizal-edu/asistencia-api/pkg/response"
)

// AuthHandler exposes the login endpoint for the teacher account.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary Authenticate the teacher account
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
