package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoredObject is the metadata record kept in Mongo for every blob written
// to disk. The blob itself lives under Config.FSPath.
type StoredObject struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OriginalName string             `json:"originalName" bson:"originalName"`
	Path         string             `json:"path" bson:"path"`
	Size         int64              `json:"size" bson:"size"`
	MimeType     string             `json:"mimeType" bson:"mimeType"`
	UploadedBy   string             `json:"uploadedBy,omitempty" bson:"uploadedBy,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// DownloadedObject pairs metadata with blob contents for storage reads.
type DownloadedObject struct {
	Metadata StoredObject
	Data     []byte
}
