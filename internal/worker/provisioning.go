package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"files-manager/internal/model/user"
	"files-manager/internal/queue"
)

type UserGetter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*user.User, error)
}

// WelcomeWorker reacts to new-user events with a one-shot welcome
// notification. No durability beyond the queue's own redelivery.
type WelcomeWorker struct {
	users UserGetter
	log   *zap.Logger
}

func NewWelcomeWorker(users UserGetter, log *zap.Logger) *WelcomeWorker {
	return &WelcomeWorker{users: users, log: log}
}

func (w *WelcomeWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p queue.WelcomePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("invalid welcome payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.UserID == "" {
		return fmt.Errorf("Missing userId: %w", asynq.SkipRetry)
	}
	userID, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return fmt.Errorf("invalid userId %q: %w", p.UserID, asynq.SkipRetry)
	}

	u, err := w.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return fmt.Errorf("User not found: %w", asynq.SkipRetry)
	}

	// stand-in for an outbound notification
	w.log.Info(fmt.Sprintf("Welcome %s!", u.Email), zap.String("userId", p.UserID))
	return nil
}
