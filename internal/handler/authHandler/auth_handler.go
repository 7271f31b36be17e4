package authHandler

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"files-manager/internal/apperr"
	"files-manager/internal/service/authService"
)

type AuthHandler struct {
	auth *authService.AuthService
}

func New(auth *authService.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Connect exchanges Basic credentials for a session token.
func (h *AuthHandler) Connect(c *gin.Context) {
	email, password, ok := basicCredentials(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	token, err := h.auth.Connect(c.Request.Context(), email, password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) Disconnect(c *gin.Context) {
	if err := h.auth.Disconnect(c.Request.Context(), c.GetHeader("X-Token")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func basicCredentials(header string) (string, string, bool) {
	if !strings.HasPrefix(header, "Basic ") {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if err != nil {
		return "", "", false
	}
	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func writeError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
}
