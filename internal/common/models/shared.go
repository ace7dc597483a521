package models

import (
	"time"
)

type ContextKey string

const (
	UserIDKey ContextKey = "user_id"
)

// Audit tracks who touched an aggregate and when. Embedded by every
// persisted aggregate in the system.
type Audit struct {
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	CreatedBy string     `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	UpdatedBy string     `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
}

// NewAudit stamps a fresh audit block for a creation.
func NewAudit(by string) Audit {
	return Audit{CreatedAt: time.Now(), CreatedBy: by}
}

// Touch stamps an update.
func (a *Audit) Touch(by string) {
	now := time.Now()
	a.UpdatedAt = &now
	a.UpdatedBy = by
}

// ExternalReferenceId tags an aggregate with an identifier owned by an
// external system (e.g. the Nexo dossier number of an intervention).
type ExternalReferenceId struct {
	Type  string `json:"type" bson:"type"`
	Value string `json:"value" bson:"value"`
}

// Paginated is the standard list envelope returned by search endpoints.
type Paginated[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

// Log is the shape persisted by the async zap DB writer.
type Log struct {
	Message      string    `bson:"message" json:"message"`
	IpAddress    string    `bson:"ip_address" json:"ip_address"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
