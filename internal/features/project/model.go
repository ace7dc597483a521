package project

import (
	common_models "agir-planning/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project statuses.
const (
	StatusPlanned    = "planned"
	StatusProgrammed = "programmed"
	StatusPostponed  = "postponed"
	StatusCanceled   = "canceled"
)

// AnnualPeriod is one year inside the project's annual distribution.
// Allowances are stored in thousands of dollars.
type AnnualPeriod struct {
	Rank      int     `json:"rank" bson:"rank"`
	Year      int     `json:"year" bson:"year"`
	Allowance float64 `json:"annualAllowance" bson:"annualAllowance"`
}

type AnnualDistribution struct {
	AnnualPeriods  []AnnualPeriod `json:"annualPeriods" bson:"annualPeriods"`
	TotalAllowance float64        `json:"totalAllowance" bson:"totalAllowance"`
}

type Budget struct {
	Allowance float64 `json:"allowance" bson:"allowance"` // global, in thousands
}

type Project struct {
	ID                   primitive.ObjectID                  `json:"id" bson:"_id,omitempty"`
	ProjectName          string                              `json:"projectName" bson:"projectName"`
	Status               string                              `json:"status" bson:"status"`
	BoroughID            string                              `json:"boroughId,omitempty" bson:"boroughId,omitempty"`
	ExecutorID           string                              `json:"executorId,omitempty" bson:"executorId,omitempty"`
	StartYear            int                                 `json:"startYear" bson:"startYear"`
	EndYear              int                                 `json:"endYear" bson:"endYear"`
	GlobalBudget         Budget                              `json:"globalBudget" bson:"globalBudget"`
	AnnualDistribution   AnnualDistribution                  `json:"annualDistribution" bson:"annualDistribution"`
	InterventionIds      []string                            `json:"interventionIds,omitempty" bson:"interventionIds,omitempty"`
	ProgramBookID        string                              `json:"programBookId,omitempty" bson:"programBookId,omitempty"`
	SubmissionNumber     string                              `json:"submissionNumber,omitempty" bson:"submissionNumber,omitempty"`
	ExternalReferenceIds []common_models.ExternalReferenceId `json:"externalReferenceIds,omitempty" bson:"externalReferenceIds,omitempty"`
	StreetName           string                              `json:"streetName,omitempty" bson:"streetName,omitempty"`
	Audit                common_models.Audit                 `json:"audit" bson:"audit"`
}

// RemoveIntervention drops an intervention id from the membership list,
// reporting whether it was present.
func (p *Project) RemoveIntervention(interventionID string) bool {
	for i, id := range p.InterventionIds {
		if id == interventionID {
			p.InterventionIds = append(p.InterventionIds[:i], p.InterventionIds[i+1:]...)
			return true
		}
	}
	return false
}

// YearSpan is the inclusive [start, end] year range covered by a set of
// intervention year spans.
type YearSpan struct {
	Start int
	End   int
}

// RecomputeAnnualPeriods rebuilds the project's year range and annual
// period list from the spans of its remaining interventions, preserving
// allowances of years that survive. The resulting period count always
// equals the combined intervention-year span.
func (p *Project) RecomputeAnnualPeriods(spans []YearSpan) {
	if len(spans) == 0 {
		p.AnnualDistribution = AnnualDistribution{}
		return
	}

	start, end := spans[0].Start, spans[0].End
	for _, s := range spans[1:] {
		if s.Start < start {
			start = s.Start
		}
		if s.End > end {
			end = s.End
		}
	}
	p.StartYear = start
	p.EndYear = end

	previous := make(map[int]float64, len(p.AnnualDistribution.AnnualPeriods))
	for _, period := range p.AnnualDistribution.AnnualPeriods {
		previous[period.Year] = period.Allowance
	}

	periods := make([]AnnualPeriod, 0, end-start+1)
	total := 0.0
	for year := start; year <= end; year++ {
		allowance := previous[year]
		periods = append(periods, AnnualPeriod{Rank: year - start, Year: year, Allowance: allowance})
		total += allowance
	}
	p.AnnualDistribution = AnnualDistribution{AnnualPeriods: periods, TotalAllowance: total}
}

// SetYearAllowance upserts one year's allowance into the distribution,
// extending the period list if the year is new.
func (p *Project) SetYearAllowance(year int, allowance float64) {
	for i := range p.AnnualDistribution.AnnualPeriods {
		if p.AnnualDistribution.AnnualPeriods[i].Year == year {
			p.AnnualDistribution.TotalAllowance += allowance - p.AnnualDistribution.AnnualPeriods[i].Allowance
			p.AnnualDistribution.AnnualPeriods[i].Allowance = allowance
			return
		}
	}
	rank := 0
	if n := len(p.AnnualDistribution.AnnualPeriods); n > 0 {
		rank = p.AnnualDistribution.AnnualPeriods[n-1].Rank + 1
	}
	p.AnnualDistribution.AnnualPeriods = append(p.AnnualDistribution.AnnualPeriods, AnnualPeriod{
		Rank: rank, Year: year, Allowance: allowance,
	})
	p.AnnualDistribution.TotalAllowance += allowance
}
