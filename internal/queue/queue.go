// Package queue is the boundary to the redis-backed task queue. Producers
// depend on the Enqueuer interface so services can take a test double.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeThumbnail   = "thumbnail:generate"
	TypeUserWelcome = "user:welcome"
)

type ThumbnailPayload struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

type WelcomePayload struct {
	UserID string `json:"userId"`
}

type Enqueuer interface {
	EnqueueThumbnail(ctx context.Context, p ThumbnailPayload) error
	EnqueueWelcome(ctx context.Context, p WelcomePayload) error
}

type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, password string, db int) *Client {
	return &Client{client: asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})}
}

func (c *Client) EnqueueThumbnail(ctx context.Context, p ThumbnailPayload) error {
	return c.enqueue(ctx, TypeThumbnail, p)
}

func (c *Client) EnqueueWelcome(ctx context.Context, p WelcomePayload) error {
	return c.enqueue(ctx, TypeUserWelcome, p)
}

func (c *Client) enqueue(ctx context.Context, typ string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", typ, err)
	}
	if _, err := c.client.EnqueueContext(ctx, asynq.NewTask(typ, data)); err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", typ, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
