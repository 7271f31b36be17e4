package fileRepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"files-manager/internal/model/file"
)

// PageSize is the fixed number of records returned per listing page.
const PageSize = 20

type FileRepository struct {
	coll *mongo.Collection
}

func New(db *mongo.Database) *FileRepository {
	return &FileRepository{coll: db.Collection("files")}
}

func (r *FileRepository) Insert(ctx context.Context, f *file.File) error {
	res, err := r.coll.InsertOne(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}
	f.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*file.File, error) {
	var f file.File
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return &f, nil
}

func (r *FileRepository) GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*file.File, error) {
	var f file.File
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return &f, nil
}

// ListByParent pages through the records owned by userID under parentID
// (zero id is the root) with a $match/$skip/$limit pipeline. Ordering is
// whatever the store returns for the snapshot.
func (r *FileRepository) ListByParent(ctx context.Context, userID, parentID primitive.ObjectID, page int) ([]*file.File, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "parentId": parentID}}},
		{{Key: "$skip", Value: page * PageSize}},
		{{Key: "$limit", Value: PageSize}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer cur.Close(ctx)

	files := make([]*file.File, 0, PageSize)
	if err := cur.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode files: %w", err)
	}
	return files, nil
}

// SetPublic flips the visibility of the owned record in a single
// findOneAndUpdate and returns the post-update document, nil when no
// record matches the (id, owner) pair.
func (r *FileRepository) SetPublic(ctx context.Context, id, userID primitive.ObjectID, public bool) (*file.File, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var f file.File
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"isPublic": public}},
		opts,
	).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update file: %w", err)
	}
	return &f, nil
}

func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return n, nil
}
