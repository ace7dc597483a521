package taxonomy

import (
	common_models "agir-planning/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Taxonomy groups used across the planning domain.
const (
	GroupExecutor          = "executor"
	GroupRequestor         = "requestor"
	GroupWorkType          = "workType"
	GroupAssetType         = "assetType"
	GroupBorough           = "borough"
	GroupProgramType       = "programType"
	GroupInterventionPhase = "nexoPhase"
)

// Taxonomy is one reference-data code inside a group.
type Taxonomy struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Group       string              `json:"group" bson:"group"`
	Code        string              `json:"code" bson:"code"`
	Label       map[string]string   `json:"label" bson:"label"` // language -> text
	IsActive    bool                `json:"isActive" bson:"isActive"`
	DisplayRank int                 `json:"displayOrder,omitempty" bson:"displayOrder,omitempty"`
	Properties  map[string]any      `json:"properties,omitempty" bson:"properties,omitempty"`
	Audit       common_models.Audit `json:"audit" bson:"audit"`
}
