package appHandler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type AppHandler struct {
	redis *redis.Client
	db    *mongo.Database
	users Counter
	files Counter
}

func New(redisClient *redis.Client, db *mongo.Database, users, files Counter) *AppHandler {
	return &AppHandler{redis: redisClient, db: db, users: users, files: files}
}

func (h *AppHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"redis": h.redis.Ping(ctx).Err() == nil,
		"db":    h.db.Client().Ping(ctx, readpref.Primary()) == nil,
	})
}

func (h *AppHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	nbUsers, err := h.users.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	nbFiles, err := h.files.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": nbUsers, "files": nbFiles})
}
