package worker_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"files-manager/internal/model/file"
	"files-manager/internal/queue"
	"files-manager/internal/storage"
	"files-manager/internal/worker"
)

type fakeFiles struct {
	records []*file.File
}

func (r *fakeFiles) GetOwned(_ context.Context, id, userID primitive.ObjectID) (*file.File, error) {
	for _, f := range r.records {
		if f.ID == id && f.UserID == userID {
			return f, nil
		}
	}
	return nil, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 80, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func thumbnailTask(t *testing.T, p queue.ThumbnailPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	return asynq.NewTask(queue.TypeThumbnail, data)
}

func TestThumbnailWorker(t *testing.T) {
	ctx := context.Background()
	store := storage.NewDisk(t.TempDir())
	owner := primitive.NewObjectID()

	src := pngBytes(t, 800, 600)
	path, err := store.Write(ctx, src)
	assert.NoError(t, err)

	rec := &file.File{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		Name:      "photo.png",
		Type:      file.TypeImage,
		LocalPath: path,
	}
	files := &fakeFiles{records: []*file.File{rec}}
	w := worker.NewThumbnailWorker(files, store, zap.NewNop())

	t.Run("generates all three widths before completing", func(t *testing.T) {
		task := thumbnailTask(t, queue.ThumbnailPayload{UserID: owner.Hex(), FileID: rec.ID.Hex()})
		assert.NoError(t, w.ProcessTask(ctx, task))

		for _, width := range file.ThumbnailWidths {
			data, err := store.Read(ctx, store.DerivativePath(path, width))
			assert.NoError(t, err)
			assert.NotEmpty(t, data)
			assert.NotEqual(t, src, data)

			img, err := png.Decode(bytes.NewReader(data))
			assert.NoError(t, err)
			assert.Equal(t, width, img.Bounds().Dx())
		}
	})

	t.Run("missing fileId is terminal", func(t *testing.T) {
		task := thumbnailTask(t, queue.ThumbnailPayload{UserID: owner.Hex()})
		err := w.ProcessTask(ctx, task)
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Contains(t, err.Error(), "Missing fileId")
	})

	t.Run("missing userId is terminal", func(t *testing.T) {
		task := thumbnailTask(t, queue.ThumbnailPayload{FileID: rec.ID.Hex()})
		err := w.ProcessTask(ctx, task)
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Contains(t, err.Error(), "Missing userId")
	})

	t.Run("unknown record is terminal", func(t *testing.T) {
		task := thumbnailTask(t, queue.ThumbnailPayload{
			UserID: owner.Hex(),
			FileID: primitive.NewObjectID().Hex(),
		})
		err := w.ProcessTask(ctx, task)
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Contains(t, err.Error(), "File not found")
	})

	t.Run("record owned by someone else is terminal", func(t *testing.T) {
		task := thumbnailTask(t, queue.ThumbnailPayload{
			UserID: primitive.NewObjectID().Hex(),
			FileID: rec.ID.Hex(),
		})
		err := w.ProcessTask(ctx, task)
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("undecodable content is terminal", func(t *testing.T) {
		badPath, err := store.Write(ctx, []byte("not an image"))
		assert.NoError(t, err)
		bad := &file.File{
			ID:        primitive.NewObjectID(),
			UserID:    owner,
			Name:      "fake.png",
			Type:      file.TypeImage,
			LocalPath: badPath,
		}
		files.records = append(files.records, bad)

		task := thumbnailTask(t, queue.ThumbnailPayload{UserID: owner.Hex(), FileID: bad.ID.Hex()})
		err = w.ProcessTask(ctx, task)
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("missing source content is retryable", func(t *testing.T) {
		gone := &file.File{
			ID:        primitive.NewObjectID(),
			UserID:    owner,
			Name:      "gone.png",
			Type:      file.TypeImage,
			LocalPath: path + "-missing",
		}
		files.records = append(files.records, gone)

		task := thumbnailTask(t, queue.ThumbnailPayload{UserID: owner.Hex(), FileID: gone.ID.Hex()})
		err := w.ProcessTask(ctx, task)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})
}
