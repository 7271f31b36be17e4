package authService_test

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"files-manager/internal/apperr"
	"files-manager/internal/model/user"
	"files-manager/internal/queue"
	"files-manager/internal/repository/sessionRepo"
	"files-manager/internal/service/authService"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*user.User
}

func (r *fakeUserRepo) Create(_ context.Context, email, passwordHash string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &user.User{ID: primitive.NewObjectID(), Email: email, PasswordHash: passwordHash}
	r.users = append(r.users, u)
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type recordingQueue struct {
	welcomes []queue.WelcomePayload
}

func (q *recordingQueue) EnqueueThumbnail(context.Context, queue.ThumbnailPayload) error {
	return nil
}

func (q *recordingQueue) EnqueueWelcome(_ context.Context, p queue.WelcomePayload) error {
	q.welcomes = append(q.welcomes, p)
	return nil
}

func setupService(t *testing.T) (*authService.AuthService, *fakeUserRepo, *recordingQueue) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mr.Close)
	cli := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	users := &fakeUserRepo{}
	q := &recordingQueue{}
	return authService.New(users, sessionRepo.New(cli), q), users, q
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _, q := setupService(t)

	u, err := svc.Register(ctx, "bob@dylan.com", "toto1234!")
	assert.NoError(t, err)
	assert.Equal(t, "bob@dylan.com", u.Email)
	assert.NotEqual(t, "toto1234!", u.PasswordHash)

	t.Run("welcome job enqueued for the new user", func(t *testing.T) {
		assert.Len(t, q.welcomes, 1)
		assert.Equal(t, u.ID.Hex(), q.welcomes[0].UserID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "bob@dylan.com", "other")
		assert.EqualError(t, err, "Already exist")
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Register(ctx, "", "pw")
		assert.EqualError(t, err, "Missing email")
		_, err = svc.Register(ctx, "a@b.c", "")
		assert.EqualError(t, err, "Missing password")
	})
}

func TestConnectDisconnect(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	u, err := svc.Register(ctx, "bob@dylan.com", "toto1234!")
	assert.NoError(t, err)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		token, err := svc.Connect(ctx, "bob@dylan.com", "toto1234!")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		got, err := svc.UserByToken(ctx, token)
		assert.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Connect(ctx, "bob@dylan.com", "nope")
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Connect(ctx, "nobody@dylan.com", "toto1234!")
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("disconnect revokes the session", func(t *testing.T) {
		token, err := svc.Connect(ctx, "bob@dylan.com", "toto1234!")
		assert.NoError(t, err)

		assert.NoError(t, svc.Disconnect(ctx, token))
		_, err = svc.UserByToken(ctx, token)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)

		// second disconnect sees no session
		assert.ErrorIs(t, svc.Disconnect(ctx, token), apperr.ErrUnauthorized)
	})
}

func TestUserByToken_Unknown(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.UserByToken(ctx, "never-issued")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
