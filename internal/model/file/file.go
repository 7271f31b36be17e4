package file

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// ThumbnailWidths are the fixed derivative widths generated for every
// uploaded image.
var ThumbnailWidths = []int{100, 250, 500}

func ValidType(t string) bool {
	return t == TypeFolder || t == TypeFile || t == TypeImage
}

// File is the stored metadata of a catalog entry. LocalPath points at the
// stored content and never leaves the service layer.
type File struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Name      string             `bson:"name"`
	Type      string             `bson:"type"`
	IsPublic  bool               `bson:"isPublic"`
	ParentID  primitive.ObjectID `bson:"parentId"`
	LocalPath string             `bson:"localPath,omitempty"`
}

// Record is the externally visible shape of a File. ParentID renders as
// "0" for root entries.
type Record struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

func (f *File) Record() Record {
	parent := "0"
	if !f.ParentID.IsZero() {
		parent = f.ParentID.Hex()
	}
	return Record{
		ID:       f.ID.Hex(),
		UserID:   f.UserID.Hex(),
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: parent,
	}
}
