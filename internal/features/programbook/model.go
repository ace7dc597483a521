package programbook

import (
	common_models "agir-planning/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusNew         = "new"
	StatusProgramming = "programming"
	StatusSubmitted   = "submittedFinal"
)

// ProgramBook collects programmed projects inside an annual program.
type ProgramBook struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	AnnualProgramID string              `json:"annualProgramId" bson:"annualProgramId"`
	Name            string              `json:"name" bson:"name"`
	ProjectTypes    []string            `json:"projectTypes,omitempty" bson:"projectTypes,omitempty"`
	BoroughIds      []string            `json:"boroughIds,omitempty" bson:"boroughIds,omitempty"`
	Status          string              `json:"status" bson:"status"`
	Audit           common_models.Audit `json:"audit" bson:"audit"`
}
