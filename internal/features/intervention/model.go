package intervention

import (
	"encoding/json"

	common_models "agir-planning/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// External reference types linking interventions and assets back to the
// Nexo asset-management system. These are the durable keys used by later
// imports to locate prior state.
const (
	RefTypeNexoDossier         = "nexoReferenceNumber"
	RefTypeNexoAssetComparison = "nexoAssetComparison"
	RefTypeNexoAssetId         = "nexoAssetId"
)

// Intervention statuses.
const (
	StatusWished     = "wished"
	StatusIntegrated = "integrated"
	StatusCanceled   = "canceled"
)

// Geometry is a GeoJSON fragment. Coordinates are kept raw; the planning
// domain never computes on them, it only stores and serves them.
type Geometry struct {
	Type        string          `json:"type" bson:"type"`
	Coordinates json.RawMessage `json:"coordinates" bson:"coordinates"`
}

// AssetDesignData carries the rehabilitation conception attributes merged
// in from the REHAB_*_CONCEPTION import files.
type AssetDesignData struct {
	ContractRange       string `json:"contractRange,omitempty" bson:"contractRange,omitempty"`
	Infiltration        string `json:"infiltration,omitempty" bson:"infiltration,omitempty"`
	InfiltrationChamber string `json:"infiltrationChamber,omitempty" bson:"infiltrationChamber,omitempty"`
	UpstreamAssetType   string `json:"upstreamAssetType,omitempty" bson:"upstreamAssetType,omitempty"`
	DownstreamAssetType string `json:"downstreamAssetType,omitempty" bson:"downstreamAssetType,omitempty"`
}

// Asset is one physical asset touched by an intervention.
type Asset struct {
	ID                   string                              `json:"id" bson:"id"`
	TypeID               string                              `json:"typeId" bson:"typeId"`
	OwnerID              string                              `json:"ownerId,omitempty" bson:"ownerId,omitempty"`
	Length               float64                             `json:"length,omitempty" bson:"length,omitempty"`
	Geometry             *Geometry                           `json:"geometry,omitempty" bson:"geometry,omitempty"`
	DesignData           *AssetDesignData                    `json:"designData,omitempty" bson:"designData,omitempty"`
	ExternalReferenceIds []common_models.ExternalReferenceId `json:"externalReferenceIds,omitempty" bson:"externalReferenceIds,omitempty"`
}

// AnnualAllowance is one year of the intervention's budget distribution.
// Allowances are stored in thousands of dollars.
type AnnualAllowance struct {
	Year      int     `json:"year" bson:"year"`
	Allowance float64 `json:"allowance" bson:"allowance"`
}

type Budget struct {
	Allowance float64 `json:"allowance" bson:"allowance"` // global, in thousands
}

type Intervention struct {
	ID                   primitive.ObjectID                  `json:"id" bson:"_id,omitempty"`
	InterventionName     string                              `json:"interventionName" bson:"interventionName"`
	Status               string                              `json:"status" bson:"status"`
	BoroughID            string                              `json:"boroughId" bson:"boroughId"`
	ExecutorID           string                              `json:"executorId" bson:"executorId"`
	RequestorID          string                              `json:"requestorId,omitempty" bson:"requestorId,omitempty"`
	WorkTypeID           string                              `json:"workTypeId" bson:"workTypeId"`
	ProgramID            string                              `json:"programId,omitempty" bson:"programId,omitempty"`
	PlanificationYear    int                                 `json:"planificationYear" bson:"planificationYear"`
	StartYear            int                                 `json:"startYear" bson:"startYear"`
	EndYear              int                                 `json:"endYear" bson:"endYear"`
	GlobalBudget         Budget                              `json:"globalBudget" bson:"globalBudget"`
	AnnualDistribution   []AnnualAllowance                   `json:"annualDistribution,omitempty" bson:"annualDistribution,omitempty"`
	Assets               []Asset                             `json:"assets,omitempty" bson:"assets,omitempty"`
	ExternalReferenceIds []common_models.ExternalReferenceId `json:"externalReferenceIds,omitempty" bson:"externalReferenceIds,omitempty"`
	ProjectID            string                              `json:"projectId,omitempty" bson:"projectId,omitempty"`
	StreetName           string                              `json:"streetName,omitempty" bson:"streetName,omitempty"`
	StreetFrom           string                              `json:"streetFrom,omitempty" bson:"streetFrom,omitempty"`
	StreetTo             string                              `json:"streetTo,omitempty" bson:"streetTo,omitempty"`
	Audit                common_models.Audit                 `json:"audit" bson:"audit"`
}

// DossierNumber returns the Nexo dossier reference, empty if the
// intervention was not imported from Nexo.
func (i *Intervention) DossierNumber() string {
	for _, ref := range i.ExternalReferenceIds {
		if ref.Type == RefTypeNexoDossier {
			return ref.Value
		}
	}
	return ""
}

// FindAssetByComparison locates the asset carrying the given Nexo
// comparison key, returning its index or -1.
func (i *Intervention) FindAssetByComparison(comparison string) int {
	for idx, asset := range i.Assets {
		for _, ref := range asset.ExternalReferenceIds {
			if ref.Type == RefTypeNexoAssetComparison && ref.Value == comparison {
				return idx
			}
		}
	}
	return -1
}

// IsPNI reports whether the intervention belongs to a pre-identified
// program (carries a program marker, never owns a project).
func (i *Intervention) IsPNI() bool {
	return i.ProgramID != ""
}
