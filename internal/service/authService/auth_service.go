// Package authService issues and revokes session tokens and registers
// users. Tokens are opaque, live only in the session cache and expire
// after sessionTTL.
package authService

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"files-manager/internal/apperr"
	"files-manager/internal/model/user"
	"files-manager/internal/queue"
)

const sessionTTL = 24 * time.Hour

type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*user.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type SessionRepository interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	queue    queue.Enqueuer
}

func New(users UserRepository, sessions SessionRepository, enqueuer queue.Enqueuer) *AuthService {
	return &AuthService{users: users, sessions: sessions, queue: enqueuer}
}

// Register creates a user and enqueues the welcome job once the insert is
// durable. Email uniqueness is enforced by the lookup.
func (s *AuthService) Register(ctx context.Context, email, password string) (*user.User, error) {
	if email == "" {
		return nil, apperr.Validation("Missing email")
	}
	if password == "" {
		return nil, apperr.Validation("Missing password")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, apperr.Validation("Already exist")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.queue.EnqueueWelcome(ctx, queue.WelcomePayload{UserID: u.ID.Hex()}); err != nil {
		return nil, fmt.Errorf("failed to enqueue welcome job: %w", err)
	}

	return u, nil
}

// Connect exchanges valid credentials for a fresh opaque token.
func (s *AuthService) Connect(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil {
		return "", apperr.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", apperr.ErrUnauthorized
	}

	token := uuid.NewString()
	if err := s.sessions.Save(ctx, token, u.ID.Hex(), sessionTTL); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return token, nil
}

// Disconnect revokes the session bound to token.
func (s *AuthService) Disconnect(ctx context.Context, token string) error {
	raw, err := s.sessions.Get(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to resolve token: %w", err)
	}
	if raw == "" {
		return apperr.ErrUnauthorized
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// UserByToken loads the user a token belongs to.
func (s *AuthService) UserByToken(ctx context.Context, token string) (*user.User, error) {
	raw, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	if raw == "" {
		return nil, apperr.ErrUnauthorized
	}
	userID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, apperr.ErrUnauthorized
	}
	return u, nil
}
