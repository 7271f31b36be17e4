package userHandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"files-manager/internal/apperr"
	"files-manager/internal/service/authService"
)

type UserHandler struct {
	auth *authService.AuthService
}

func New(auth *authService.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID.Hex(), "email": u.Email})
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.auth.UserByToken(c.Request.Context(), c.GetHeader("X-Token"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": u.ID.Hex(), "email": u.Email})
}

func writeError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
}
