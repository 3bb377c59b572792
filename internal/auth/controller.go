package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinebook/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (ctrl *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	result, err := ctrl.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid username or password", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to log in", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Logged in successfully", result, nil)
}

func (ctrl *Controller) Me(c *gin.Context) {
	username, _ := c.Get("admin_username")
	response.RespondJSON(c, "success", http.StatusOK, "Session is valid", gin.H{
		"username": username,
	}, nil)
}

// Logout exists for client symmetry. Tokens are stateless, so the server has
// nothing to revoke; clients discard the token.
func (ctrl *Controller) Logout(c *gin.Context) {
	response.RespondJSON(c, "success", http.StatusOK, "Logged out successfully", nil, nil)
}
