package sessionRepo_test

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"files-manager/internal/repository/sessionRepo"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	repo := sessionRepo.New(db)

	t.Run("Save", func(t *testing.T) {
		mock.ExpectSet("auth_token123", "507f1f77bcf86cd799439011", sessionRepo.SessionTTL).SetVal("OK")
		err := repo.Save(ctx, "token123", "507f1f77bcf86cd799439011", sessionRepo.SessionTTL)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get (known token)", func(t *testing.T) {
		mock.ExpectGet("auth_token123").SetVal("507f1f77bcf86cd799439011")
		userID, err := repo.Get(ctx, "token123")
		assert.NoError(t, err)
		assert.Equal(t, "507f1f77bcf86cd799439011", userID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get (unknown token)", func(t *testing.T) {
		mock.ExpectGet("auth_missing").RedisNil()
		userID, err := repo.Get(ctx, "missing")
		assert.NoError(t, err)
		assert.Equal(t, "", userID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete", func(t *testing.T) {
		mock.ExpectDel("auth_token123").SetVal(1)
		err := repo.Delete(ctx, "token123")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
