// Package worker holds the background task handlers consumed from the
// job queue. Validation failures are terminal; transient store failures
// are left to the queue's own redelivery policy.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"files-manager/internal/model/file"
	"files-manager/internal/queue"
	"files-manager/internal/storage"
)

type FileGetter interface {
	GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*file.File, error)
}

// ThumbnailWorker resizes uploaded images into the fixed derivative
// widths. The job completes only after every width has been written;
// any single failure fails the whole job and leaves partial derivatives
// in place.
type ThumbnailWorker struct {
	files FileGetter
	store storage.Store
	log   *zap.Logger
}

func NewThumbnailWorker(files FileGetter, store storage.Store, log *zap.Logger) *ThumbnailWorker {
	return &ThumbnailWorker{files: files, store: store, log: log}
}

func (w *ThumbnailWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p queue.ThumbnailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("invalid thumbnail payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.FileID == "" {
		return fmt.Errorf("Missing fileId: %w", asynq.SkipRetry)
	}
	if p.UserID == "" {
		return fmt.Errorf("Missing userId: %w", asynq.SkipRetry)
	}
	fileID, err := primitive.ObjectIDFromHex(p.FileID)
	if err != nil {
		return fmt.Errorf("invalid fileId %q: %w", p.FileID, asynq.SkipRetry)
	}
	userID, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return fmt.Errorf("invalid userId %q: %w", p.UserID, asynq.SkipRetry)
	}

	f, err := w.files.GetOwned(ctx, fileID, userID)
	if err != nil {
		return fmt.Errorf("failed to load file record: %w", err)
	}
	if f == nil {
		return fmt.Errorf("File not found: %w", asynq.SkipRetry)
	}

	src, err := w.store.Read(ctx, f.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to read source content: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return fmt.Errorf("failed to decode image %q: %v: %w", f.Name, err, asynq.SkipRetry)
	}
	format, err := imaging.FormatFromFilename(f.Name)
	if err != nil {
		format = imaging.PNG
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(file.ThumbnailWidths))
	for _, width := range file.ThumbnailWidths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.generate(ctx, f, img, format, width); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		w.log.Error("thumbnail generation failed",
			zap.String("fileId", p.FileID),
			zap.Error(err),
		)
		return err
	}

	w.log.Info("thumbnails generated",
		zap.String("fileId", p.FileID),
		zap.Ints("widths", file.ThumbnailWidths),
	)
	return nil
}

func (w *ThumbnailWorker) generate(ctx context.Context, f *file.File, img image.Image, format imaging.Format, width int) error {
	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, thumb, format); err != nil {
		return fmt.Errorf("failed to encode %dpx derivative of %q: %w", width, f.Name, err)
	}
	path := w.store.DerivativePath(f.LocalPath, width)
	if err := w.store.Put(ctx, path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write %dpx derivative of %q: %w", width, filepath.Base(f.LocalPath), err)
	}
	return nil
}
