package nexo

import (
	common_models "agir-planning/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImportStatus is used both for the whole log, for each file, and for each
// per-row outcome.
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusInProgress ImportStatus = "inProgress"
	ImportStatusSuccess    ImportStatus = "success"
	ImportStatusFailure    ImportStatus = "failure"
)

// IsTerminal reports whether the status can no longer change.
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusSuccess || s == ImportStatusFailure
}

type ModificationType string

const (
	ModificationCreation     ModificationType = "creation"
	ModificationModification ModificationType = "modification"
	ModificationDeletion     ModificationType = "deletion"
)

// FileType identifies the Nexo export a file was produced from. The
// interventions file always loads first; the others enrich it.
type FileType string

const (
	FileTypeInterventionsSE       FileType = "interventionsSE"
	FileTypeInterventionsBudgetSE FileType = "interventionsBudgetSE"
	FileTypeRehabAqConception     FileType = "rehabAqConception"
	FileTypeRehabEgConception     FileType = "rehabEgConception"
)

// ValidFileType reports whether t is one of the supported import types.
func ValidFileType(t FileType) bool {
	switch t {
	case FileTypeInterventionsSE, FileTypeInterventionsBudgetSE,
		FileTypeRehabAqConception, FileTypeRehabEgConception:
		return true
	}
	return false
}

// RowResult is the per-row outcome recorded in the import log. ID is the
// business key of the affected aggregate (the Nexo dossier number for
// interventions). Description is only present on failure.
type RowResult struct {
	ID               string           `json:"id" bson:"id"`
	LineNumber       int              `json:"lineNumber,omitempty" bson:"lineNumber,omitempty"`
	ImportStatus     ImportStatus     `json:"importStatus" bson:"importStatus"`
	ModificationType ModificationType `json:"modificationType,omitempty" bson:"modificationType,omitempty"`
	Description      string           `json:"description,omitempty" bson:"description,omitempty"`
}

// NexoImportFile is one uploaded spreadsheet inside an import log.
type NexoImportFile struct {
	ID            string       `json:"id" bson:"id"`
	Type          FileType     `json:"type" bson:"type"`
	Name          string       `json:"name" bson:"name"`
	ContentType   string       `json:"contentType" bson:"contentType"`
	StorageID     string       `json:"storageId" bson:"storageId"`
	Status        ImportStatus `json:"status" bson:"status"`
	NumberOfItems int          `json:"numberOfItems" bson:"numberOfItems"`
	Interventions []RowResult  `json:"interventions,omitempty" bson:"interventions,omitempty"`
	Projects      []RowResult  `json:"projects,omitempty" bson:"projects,omitempty"`
	ErrorDetail   string       `json:"errorDescription,omitempty" bson:"errorDescription,omitempty"`
}

// NexoImportLog is the aggregate root of one import run. It is created
// PENDING on the first upload, flips to IN_PROGRESS when started, and ends
// at SUCCESS or FAILURE. Terminal logs are never mutated again.
type NexoImportLog struct {
	ID     primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Status ImportStatus        `json:"status" bson:"status"`
	Files  []NexoImportFile    `json:"files" bson:"files"`
	Audit  common_models.Audit `json:"audit" bson:"audit"`
}

// FileByID returns a pointer into Files, or nil.
func (l *NexoImportLog) FileByID(fileID string) *NexoImportFile {
	for i := range l.Files {
		if l.Files[i].ID == fileID {
			return &l.Files[i]
		}
	}
	return nil
}
