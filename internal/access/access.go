// Package access resolves session tokens and decides read/write
// permissions on catalog records. All checks are side effect free.
package access

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"files-manager/internal/apperr"
	"files-manager/internal/model/file"
)

type SessionGetter interface {
	Get(ctx context.Context, token string) (string, error)
}

type Controller struct {
	sessions SessionGetter
}

func New(sessions SessionGetter) *Controller {
	return &Controller{sessions: sessions}
}

// Resolve exchanges a token for the user id it was issued to. A missing,
// unknown or malformed token yields ErrUnauthorized; cache failures
// propagate as internal errors.
func (c *Controller) Resolve(ctx context.Context, token string) (primitive.ObjectID, error) {
	if token == "" {
		return primitive.NilObjectID, apperr.ErrUnauthorized
	}
	raw, err := c.sessions.Get(ctx, token)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to resolve token: %w", err)
	}
	if raw == "" {
		return primitive.NilObjectID, apperr.ErrUnauthorized
	}
	userID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.ErrUnauthorized
	}
	return userID, nil
}

// CanWrite reports whether userID may mutate f. Only the owner may.
func CanWrite(f *file.File, userID primitive.ObjectID) bool {
	return f.UserID == userID
}

// CanRead reports whether userID may read f's content. Anonymous callers
// pass the zero id, which never matches an owner.
func CanRead(f *file.File, userID primitive.ObjectID) bool {
	return f.IsPublic || (!userID.IsZero() && f.UserID == userID)
}
