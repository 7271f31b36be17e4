// Package fileService is the file catalog: metadata CRUD, hierarchy,
// visibility toggles and content retrieval. Ownership failures are
// reported as plain absence so callers cannot probe for existence.
package fileService

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"files-manager/internal/access"
	"files-manager/internal/apperr"
	"files-manager/internal/model/file"
	"files-manager/internal/queue"
	"files-manager/internal/storage"
)

type FileRepository interface {
	Insert(ctx context.Context, f *file.File) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*file.File, error)
	GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*file.File, error)
	ListByParent(ctx context.Context, userID, parentID primitive.ObjectID, page int) ([]*file.File, error)
	SetPublic(ctx context.Context, id, userID primitive.ObjectID, public bool) (*file.File, error)
}

type FileService struct {
	files FileRepository
	store storage.Store
	queue queue.Enqueuer
}

func New(files FileRepository, store storage.Store, enqueuer queue.Enqueuer) *FileService {
	return &FileService{files: files, store: store, queue: enqueuer}
}

type CreateParams struct {
	Name     string
	Type     string
	ParentID string // "" or "0" for root, hex id otherwise
	IsPublic bool
	Data     []byte // decoded content, nil for folders
}

// Create validates and persists a new catalog entry. Content goes to the
// store first, then metadata; the thumbnail job is enqueued only once the
// metadata insert is durable.
func (s *FileService) Create(ctx context.Context, userID primitive.ObjectID, p CreateParams) (*file.File, error) {
	if p.Name == "" {
		return nil, apperr.Validation("Missing name")
	}
	if !file.ValidType(p.Type) {
		return nil, apperr.Validation("Missing type")
	}
	if p.Type != file.TypeFolder && len(p.Data) == 0 {
		return nil, apperr.Validation("Missing data")
	}

	parentID := primitive.NilObjectID
	if p.ParentID != "" && p.ParentID != "0" {
		pid, err := primitive.ObjectIDFromHex(p.ParentID)
		if err != nil {
			return nil, apperr.Validation("Parent not found")
		}
		parent, err := s.files.GetOwned(ctx, pid, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up parent: %w", err)
		}
		if parent == nil {
			return nil, apperr.Validation("Parent not found")
		}
		if parent.Type != file.TypeFolder {
			return nil, apperr.Validation("Parent is not a folder")
		}
		parentID = pid
	}

	f := &file.File{
		UserID:   userID,
		Name:     p.Name,
		Type:     p.Type,
		IsPublic: p.IsPublic,
		ParentID: parentID,
	}

	if p.Type != file.TypeFolder {
		path, err := s.store.Write(ctx, p.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to store content: %w", err)
		}
		f.LocalPath = path
	}

	if err := s.files.Insert(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to insert file: %w", err)
	}

	if p.Type == file.TypeImage {
		payload := queue.ThumbnailPayload{UserID: userID.Hex(), FileID: f.ID.Hex()}
		if err := s.queue.EnqueueThumbnail(ctx, payload); err != nil {
			return nil, fmt.Errorf("failed to enqueue thumbnail job: %w", err)
		}
	}

	return f, nil
}

// Get returns the metadata of an owned record. A record owned by someone
// else looks exactly like a missing one.
func (s *FileService) Get(ctx context.Context, userID primitive.ObjectID, id string) (*file.File, error) {
	fileID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	f, err := s.files.GetOwned(ctx, fileID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if f == nil {
		return nil, apperr.ErrNotFound
	}
	return f, nil
}

// List pages through the caller's records under parentID. Empty pages are
// an empty slice, never an error.
func (s *FileService) List(ctx context.Context, userID primitive.ObjectID, parentID string, page int) ([]*file.File, error) {
	if page < 0 {
		page = 0
	}
	pid := primitive.NilObjectID
	if parentID != "" && parentID != "0" {
		var err error
		pid, err = primitive.ObjectIDFromHex(parentID)
		if err != nil {
			// nothing can live under an id that cannot exist
			return []*file.File{}, nil
		}
	}
	files, err := s.files.ListByParent(ctx, userID, pid, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// SetPublic toggles visibility in a single atomic fetch-and-update and
// returns the post-update record.
func (s *FileService) SetPublic(ctx context.Context, userID primitive.ObjectID, id string, public bool) (*file.File, error) {
	fileID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	f, err := s.files.SetPublic(ctx, fileID, userID, public)
	if err != nil {
		return nil, fmt.Errorf("failed to update file: %w", err)
	}
	if f == nil {
		return nil, apperr.ErrNotFound
	}
	return f, nil
}

// GetContent loads the raw bytes of a record, a derivative when width is
// non-zero. requester is the zero id for anonymous callers. A derivative
// that has not been generated yet reads the same as a missing file.
func (s *FileService) GetContent(ctx context.Context, requester primitive.ObjectID, id string, width int) ([]byte, *file.File, error) {
	fileID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, apperr.ErrNotFound
	}
	f, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get file: %w", err)
	}
	if f == nil || !access.CanRead(f, requester) {
		return nil, nil, apperr.ErrNotFound
	}
	if f.Type == file.TypeFolder {
		return nil, nil, apperr.Validation("A folder doesn't have content")
	}

	path := f.LocalPath
	if width > 0 {
		path = s.store.DerivativePath(path, width)
	}
	data, err := s.store.Read(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read content: %w", err)
	}
	return data, f, nil
}
