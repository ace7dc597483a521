package submission

import (
	common_models "agir-planning/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusValid   = "valid"
	StatusInvalid = "invalid"
)

const (
	ProgressPreliminaryDraft = "preliminaryDraft"
	ProgressDesign           = "design"
	ProgressCallForTender    = "callForTender"
	ProgressGranted          = "granted"
	ProgressRealization      = "realization"
	ProgressClosing          = "closing"
)

// Submission bundles projects of a program book under one submission
// number for the drive/tendering process.
type Submission struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	SubmissionNumber string              `json:"submissionNumber" bson:"submissionNumber"`
	ProgramBookID    string              `json:"programBookId" bson:"programBookId"`
	ProjectIds       []string            `json:"projectIds" bson:"projectIds"`
	Status           string              `json:"status" bson:"status"`
	ProgressStatus   string              `json:"progressStatus" bson:"progressStatus"`
	Audit            common_models.Audit `json:"audit" bson:"audit"`
}

// RemoveProject withdraws a project from the submission, reporting whether
// it was a member.
func (s *Submission) RemoveProject(projectID string) bool {
	for i, id := range s.ProjectIds {
		if id == projectID {
			s.ProjectIds = append(s.ProjectIds[:i], s.ProjectIds[i+1:]...)
			return true
		}
	}
	return false
}
