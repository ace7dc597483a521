package annualprogram

import (
	common_models "agir-planning/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusNew         = "new"
	StatusProgramming = "programming"
	StatusSubmitted   = "submittedFinal"
)

// AnnualProgram is the yearly planning envelope of one executor. Program
// books hang off it.
type AnnualProgram struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	ExecutorID  string              `json:"executorId" bson:"executorId"`
	Year        int                 `json:"year" bson:"year"`
	Description string              `json:"description,omitempty" bson:"description,omitempty"`
	BudgetCap   float64             `json:"budgetCap" bson:"budgetCap"` // thousands
	Status      string              `json:"status" bson:"status"`
	SharedRoles []string            `json:"sharedRoles,omitempty" bson:"sharedRoles,omitempty"`
	Audit       common_models.Audit `json:"audit" bson:"audit"`
}
