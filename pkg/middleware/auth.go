package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"files-manager/internal/access"
	"files-manager/internal/apperr"
)

const userIDKey = "userID"

// Auth resolves the X-Token header and stores the caller's user id in the
// request context. Cache failures answer 500, everything else 401.
func Auth(ctrl *access.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Token")
		userID, err := ctrl.Resolve(c.Request.Context(), token)
		if err != nil {
			status := apperr.HTTPStatus(err)
			if status == http.StatusInternalServerError {
				c.AbortWithStatusJSON(status, gin.H{"error": "Internal error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by Auth. Only valid on routes behind it.
func UserID(c *gin.Context) primitive.ObjectID {
	return c.MustGet(userIDKey).(primitive.ObjectID)
}
