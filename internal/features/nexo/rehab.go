package nexo

import (
	"context"
	"fmt"

	"agir-planning/internal/features/intervention"
)

// RehabMerger enriches assets created by the interventions file with the
// rehabilitation conception attributes of the REHAB_*_CONCEPTION files.
type RehabMerger struct {
	Interventions intervention.InterventionRepository
}

func NewRehabMerger(interventions intervention.InterventionRepository) *RehabMerger {
	return &RehabMerger{Interventions: interventions}
}

// Run matches each design row to its asset by comparison key and merges
// the design attributes in place. Unmatched rows fail individually.
func (r *RehabMerger) Run(ctx context.Context, rows []RehabConceptionRow, userID string) ([]RowResult, error) {
	var results []RowResult
	for _, row := range rows {
		matches, err := r.Interventions.FindByAssetExternalReference(ctx, intervention.RefTypeNexoAssetComparison, row.Comparaison)
		if err != nil {
			return results, err
		}
		if len(matches) == 0 {
			results = append(results, failureResult(row.Comparaison, row.LineNumber, ModificationModification,
				fmt.Sprintf("Aucun actif ne correspond à la comparaison \"%s\"", row.Comparaison)))
			continue
		}

		itv := &matches[0]
		idx := itv.FindAssetByComparison(row.Comparaison)
		if idx < 0 {
			results = append(results, failureResult(row.Comparaison, row.LineNumber, ModificationModification,
				fmt.Sprintf("Aucun actif ne correspond à la comparaison \"%s\"", row.Comparaison)))
			continue
		}

		itv.Assets[idx].DesignData = &intervention.AssetDesignData{
			ContractRange:       row.PlageContrat,
			Infiltration:        row.Infiltration,
			InfiltrationChamber: row.InfiltrationChamber,
			UpstreamAssetType:   row.TypeActifAmont,
			DownstreamAssetType: row.TypeActifAval,
		}
		itv.Audit.Touch(userID)
		if err := r.Interventions.Save(ctx, itv); err != nil {
			return results, err
		}
		results = append(results, successResult(row.Comparaison, row.LineNumber, ModificationModification))
	}
	return results, nil
}
