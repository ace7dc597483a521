package nexo

import (
	"context"
	"testing"

	common_models "agir-planning/internal/common/models"
	"agir-planning/internal/features/intervention"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRehabIntervention(t *testing.T, repo *fakeInterventionRepo, dossier string, comparisons ...string) *intervention.Intervention {
	t.Helper()
	itv := &intervention.Intervention{
		InterventionName: "Existing " + dossier,
		Status:           intervention.StatusIntegrated,
		WorkTypeID:       "3",
		StartYear:        2024,
		EndYear:          2026,
		ExternalReferenceIds: []common_models.ExternalReferenceId{
			{Type: intervention.RefTypeNexoDossier, Value: dossier},
		},
	}
	for _, cmp := range comparisons {
		itv.Assets = append(itv.Assets, intervention.Asset{
			ID:     cmp,
			TypeID: "9",
			ExternalReferenceIds: []common_models.ExternalReferenceId{
				{Type: intervention.RefTypeNexoAssetComparison, Value: cmp},
			},
		})
	}
	require.NoError(t, repo.Save(context.Background(), itv))
	return itv
}

func designRow(comparison string, line int) RehabConceptionRow {
	return RehabConceptionRow{
		Comparaison:         comparison,
		PlageContrat:        "PC-10",
		Infiltration:        "oui",
		InfiltrationChamber: "non",
		TypeActifAmont:      "regard",
		TypeActifAval:       "conduite",
		LineNumber:          line,
	}
}

func TestRehabMergerMatch(t *testing.T) {
	repo := newFakeInterventionRepo()
	seedRehabIntervention(t, repo, "D-1", "C-1", "C-2")
	merger := NewRehabMerger(repo)

	results, err := merger.Run(context.Background(), []RehabConceptionRow{designRow("C-2", 2)}, "tester")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, ImportStatusSuccess, results[0].ImportStatus)
	assert.Equal(t, ModificationModification, results[0].ModificationType)
	assert.Equal(t, 2, results[0].LineNumber)

	matches, err := repo.FindByAssetExternalReference(context.Background(), intervention.RefTypeNexoAssetComparison, "C-2")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	idx := matches[0].FindAssetByComparison("C-2")
	require.GreaterOrEqual(t, idx, 0)
	merged := matches[0].Assets[idx].DesignData
	require.NotNil(t, merged)
	assert.Equal(t, "PC-10", merged.ContractRange)
	assert.Equal(t, "oui", merged.Infiltration)
	assert.Equal(t, "non", merged.InfiltrationChamber)
	assert.Equal(t, "regard", merged.UpstreamAssetType)
	assert.Equal(t, "conduite", merged.DownstreamAssetType)

	// The sibling asset is untouched.
	other := matches[0].FindAssetByComparison("C-1")
	require.GreaterOrEqual(t, other, 0)
	assert.Nil(t, matches[0].Assets[other].DesignData)
}

func TestRehabMergerNoMatch(t *testing.T) {
	repo := newFakeInterventionRepo()
	seedRehabIntervention(t, repo, "D-1", "C-1")
	merger := NewRehabMerger(repo)

	results, err := merger.Run(context.Background(), []RehabConceptionRow{designRow("C-404", 2)}, "tester")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, ImportStatusFailure, results[0].ImportStatus)
	assert.Equal(t, ModificationModification, results[0].ModificationType)
	assert.Equal(t, "Aucun actif ne correspond à la comparaison \"C-404\"", results[0].Description)
}

func TestRehabMergerMixedRows(t *testing.T) {
	repo := newFakeInterventionRepo()
	seedRehabIntervention(t, repo, "D-1", "C-1")
	merger := NewRehabMerger(repo)

	results, err := merger.Run(context.Background(), []RehabConceptionRow{
		designRow("C-1", 2),
		designRow("C-404", 3),
	}, "tester")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, ImportStatusSuccess, results[0].ImportStatus)
	assert.Equal(t, ImportStatusFailure, results[1].ImportStatus)
}
