package nexo

import (
	"context"
	"testing"

	common_models "agir-planning/internal/common/models"
	"agir-planning/internal/features/intervention"
	"agir-planning/internal/features/project"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type budgetFixture struct {
	reconciler    *BudgetReconciler
	interventions *fakeInterventionRepo
	projects      *fakeProjectRepo
}

func newBudgetFixture() *budgetFixture {
	f := &budgetFixture{
		interventions: newFakeInterventionRepo(),
		projects:      newFakeProjectRepo(),
	}
	f.reconciler = NewBudgetReconciler(f.interventions, f.projects, zap.NewNop())
	return f
}

// seed installs one intervention for the dossier with the given global
// allowance (in thousands) spanning 2024-2026.
func (f *budgetFixture) seed(t *testing.T, dossier string, allowance float64) *intervention.Intervention {
	t.Helper()
	itv := &intervention.Intervention{
		StartYear:    2024,
		EndYear:      2026,
		GlobalBudget: intervention.Budget{Allowance: allowance},
		ExternalReferenceIds: []common_models.ExternalReferenceId{
			{Type: intervention.RefTypeNexoDossier, Value: dossier},
		},
	}
	require.NoError(t, f.interventions.Save(context.Background(), itv))
	return itv
}

func budgetRow(dossier string, year int, amount int64, line int) InterventionBudgetSERow {
	return InterventionBudgetSERow{
		NoDossierSE: dossier,
		Annee:       year,
		Montant:     decimal.NewFromInt(amount),
		LineNumber:  line,
	}
}

func TestBudgetReconcilerSuccess(t *testing.T) {
	f := newBudgetFixture()
	itv := f.seed(t, "D-1", 2500) // 2,500,000 global

	results, err := f.reconciler.Run(context.Background(), []InterventionBudgetSERow{
		budgetRow("D-1", 2024, 1000000, 2),
		budgetRow("D-1", 2025, 1500000, 3),
	}, "tester")
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, result := range results {
		assert.Equal(t, ImportStatusSuccess, result.ImportStatus)
	}

	current, err := f.interventions.FindByID(context.Background(), itv.ID.Hex())
	require.NoError(t, err)
	require.Len(t, current.AnnualDistribution, 2)
	assert.Equal(t, 1000.0, current.AnnualDistribution[0].Allowance)
	assert.Equal(t, 1500.0, current.AnnualDistribution[1].Allowance)
}

func TestBudgetReconcilerSumExceedsGlobal(t *testing.T) {
	f := newBudgetFixture()
	itv := f.seed(t, "D-1", 2000) // 2,000,000 global

	results, err := f.reconciler.Run(context.Background(), []InterventionBudgetSERow{
		budgetRow("D-1", 2024, 1500000, 2),
		budgetRow("D-1", 2025, 1000000, 3),
	}, "tester")
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, result := range results {
		assert.Equal(t, ImportStatusFailure, result.ImportStatus)
		assert.Equal(t, "La répartition annuelle du budget pour le dossier \"D-1\" n'a pu être ajoutée dans AGIR car le budget global est strictement inférieur à la somme des budgets annuels.", result.Description)
	}

	current, err := f.interventions.FindByID(context.Background(), itv.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, current.AnnualDistribution, "no allocation may be persisted")
}

func TestBudgetReconcilerDuplicateYear(t *testing.T) {
	f := newBudgetFixture()
	f.seed(t, "D-1", 5000)

	results, err := f.reconciler.Run(context.Background(), []InterventionBudgetSERow{
		budgetRow("D-1", 2024, 1000, 2),
		budgetRow("D-1", 2024, 2000, 3),
	}, "tester")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, ImportStatusFailure, results[0].ImportStatus)
}

func TestBudgetReconcilerYearOutOfRange(t *testing.T) {
	f := newBudgetFixture()
	f.seed(t, "D-1", 5000)

	results, err := f.reconciler.Run(context.Background(), []InterventionBudgetSERow{
		budgetRow("D-1", 2030, 1000, 2),
	}, "tester")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, ImportStatusFailure, results[0].ImportStatus)
	assert.Contains(t, results[0].Description, "2030")
}

func TestBudgetReconcilerUnmatchedDossier(t *testing.T) {
	f := newBudgetFixture()

	results, err := f.reconciler.Run(context.Background(), []InterventionBudgetSERow{
		budgetRow("D-404", 2024, 1000, 2),
	}, "tester")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, ImportStatusFailure, results[0].ImportStatus)
	assert.Contains(t, results[0].Description, "D-404")
}

func TestBudgetReconcilerAmbiguousDossier(t *testing.T) {
	f := newBudgetFixture()
	f.seed(t, "D-1", 2500)
	f.seed(t, "D-1", 2500)

	results, err := f.reconciler.Run(context.Background(), []InterventionBudgetSERow{
		budgetRow("D-1", 2024, 1000, 2),
	}, "tester")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, ImportStatusFailure, results[0].ImportStatus)
}

func TestBudgetReconcilerUpdatesOwningProject(t *testing.T) {
	f := newBudgetFixture()
	itv := f.seed(t, "D-1", 2500)

	prj := &project.Project{ProjectName: "P", InterventionIds: []string{itv.ID.Hex()}}
	prj.RecomputeAnnualPeriods([]project.YearSpan{{Start: 2024, End: 2026}})
	require.NoError(t, f.projects.Save(context.Background(), prj))

	stored, _ := f.interventions.FindByID(context.Background(), itv.ID.Hex())
	stored.ProjectID = prj.ID.Hex()
	require.NoError(t, f.interventions.Save(context.Background(), stored))

	_, err := f.reconciler.Run(context.Background(), []InterventionBudgetSERow{
		budgetRow("D-1", 2025, 1500000, 2),
	}, "tester")
	require.NoError(t, err)

	current, err := f.projects.FindByID(context.Background(), prj.ID.Hex())
	require.NoError(t, err)
	var found bool
	for _, period := range current.AnnualDistribution.AnnualPeriods {
		if period.Year == 2025 {
			found = true
			assert.Equal(t, 1500.0, period.Allowance)
		}
	}
	assert.True(t, found)
}
