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

type matcherFixture struct {
	matcher       *Matcher
	interventions *fakeInterventionRepo
	projects      *fakeProjectRepo
	submissions   *fakeSubmissionService
	taxonomies    *fakeTaxonomyService
}

func newMatcherFixture() *matcherFixture {
	f := &matcherFixture{
		interventions: newFakeInterventionRepo(),
		projects:      newFakeProjectRepo(),
		submissions:   &fakeSubmissionService{},
		taxonomies:    &fakeTaxonomyService{invalid: map[string]bool{}},
	}
	f.matcher = NewMatcher(f.interventions, f.projects, f.submissions, f.taxonomies, zap.NewNop())
	return f
}

func activeRow(dossier, comparison string, line int) InterventionSERow {
	return InterventionSERow{
		NoDossierSE:        dossier,
		CodeTravaux:        "3",
		DescriptionTravaux: "Réhabilitation",
		CodeActif:          "9",
		Comparaison:        comparison,
		CodeExecutant:      "DEP",
		CodePhase:          "2",
		AnneeDebutTravaux:  2024,
		AnneeFinTravaux:    2026,
		Budget:             decimal.NewFromInt(2500000),
		Arrondissement:     "VM",
		Rue:                "Rue Sainte-Catherine",
		LineNumber:         line,
	}
}

func canceledRow(dossier, comparison string, line int) InterventionSERow {
	row := activeRow(dossier, comparison, line)
	row.CodePhase = codePhaseCanceled
	return row
}

// seedIntervention installs an existing imported intervention with one
// asset per comparison key, owned by a fresh project.
func (f *matcherFixture) seedIntervention(t *testing.T, dossier string, comparisons ...string) *intervention.Intervention {
	t.Helper()
	itv := &intervention.Intervention{
		InterventionName: "Existing " + dossier,
		Status:           intervention.StatusIntegrated,
		WorkTypeID:       "3",
		StartYear:        2024,
		EndYear:          2026,
		GlobalBudget:     intervention.Budget{Allowance: 2500},
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
	require.NoError(t, f.interventions.Save(context.Background(), itv))
	return itv
}

func (f *matcherFixture) seedProject(t *testing.T, interventionIDs ...string) *project.Project {
	t.Helper()
	prj := &project.Project{
		ProjectName:     "Existing project",
		Status:          project.StatusPlanned,
		InterventionIds: interventionIDs,
	}
	prj.RecomputeAnnualPeriods([]project.YearSpan{{Start: 2024, End: 2026}})
	require.NoError(t, f.projects.Save(context.Background(), prj))
	return prj
}

func TestGroupRows(t *testing.T) {
	rows := []InterventionSERow{
		activeRow("D-1", "C-1", 2),
		activeRow("D-2", "C-9", 3),
		activeRow("D-1", "C-2", 4),
	}

	groups := GroupRows(rows, DefaultGroupKey)
	require.Len(t, groups, 2)
	assert.Equal(t, "D-1", groups[0].Key.Dossier)
	assert.Len(t, groups[0].Rows, 2)
	assert.Equal(t, "D-2", groups[1].Key.Dossier)
}

func TestProcessGroupCreation(t *testing.T) {
	f := newMatcherFixture()
	group := RowGroup{
		Key:  GroupKey{Dossier: "D-1", WorkType: "3", AssetType: "9"},
		Rows: []InterventionSERow{activeRow("D-1", "C-1", 2), activeRow("D-1", "C-2", 3)},
	}

	outcome, err := f.matcher.ProcessGroup(context.Background(), group, "tester")
	require.NoError(t, err)

	require.Len(t, outcome.Interventions, 2)
	for _, result := range outcome.Interventions {
		assert.Equal(t, ImportStatusSuccess, result.ImportStatus)
		assert.Equal(t, ModificationCreation, result.ModificationType)
		assert.Equal(t, "D-1", result.ID)
	}

	created, err := f.interventions.FindByExternalReference(context.Background(), intervention.RefTypeNexoDossier, "D-1")
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Len(t, created[0].Assets, 2)
	assert.Equal(t, 2500.0, created[0].GlobalBudget.Allowance)

	// Standalone dossier gets an owning project.
	require.Len(t, outcome.Projects, 1)
	assert.Equal(t, ModificationCreation, outcome.Projects[0].ModificationType)
	prj, err := f.projects.FindByIntervention(context.Background(), created[0].ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, prj)
	assert.Len(t, prj.AnnualDistribution.AnnualPeriods, 3)
}

func TestProcessGroupCreationPNI(t *testing.T) {
	f := newMatcherFixture()
	row := activeRow("D-1", "C-1", 2)
	row.Carnet = "PRG-01"
	group := RowGroup{Key: DefaultGroupKey(row), Rows: []InterventionSERow{row}}

	outcome, err := f.matcher.ProcessGroup(context.Background(), group, "tester")
	require.NoError(t, err)

	assert.Empty(t, outcome.Projects)
	created, _ := f.interventions.FindByExternalReference(context.Background(), intervention.RefTypeNexoDossier, "D-1")
	require.Len(t, created, 1)
	assert.Equal(t, "PRG-01", created[0].ProgramID)
	assert.Empty(t, created[0].ProjectID)
}

func TestProcessGroupCreationInvalidExecutor(t *testing.T) {
	f := newMatcherFixture()
	f.taxonomies.invalid["executor/DEP"] = true
	row := activeRow("D-1", "C-1", 2)
	group := RowGroup{Key: DefaultGroupKey(row), Rows: []InterventionSERow{row}}

	outcome, err := f.matcher.ProcessGroup(context.Background(), group, "tester")
	require.NoError(t, err)

	require.Len(t, outcome.Interventions, 1)
	assert.Equal(t, ImportStatusFailure, outcome.Interventions[0].ImportStatus)
	assert.Contains(t, outcome.Interventions[0].Description, "DEP")

	created, _ := f.interventions.FindByExternalReference(context.Background(), intervention.RefTypeNexoDossier, "D-1")
	assert.Empty(t, created)
}

func TestProcessGroupCancellationNoMatch(t *testing.T) {
	f := newMatcherFixture()
	row := canceledRow("D-404", "C-1", 2)
	group := RowGroup{Key: DefaultGroupKey(row), Rows: []InterventionSERow{row}}

	outcome, err := f.matcher.ProcessGroup(context.Background(), group, "tester")
	require.NoError(t, err)

	require.Len(t, outcome.Interventions, 1)
	assert.Equal(t, ImportStatusSuccess, outcome.Interventions[0].ImportStatus)
	assert.Equal(t, ModificationDeletion, outcome.Interventions[0].ModificationType)
}

func TestProcessGroupCancellationDeletesLastAssetAndProject(t *testing.T) {
	f := newMatcherFixture()
	itv := f.seedIntervention(t, "D-1", "C-1")
	prj := f.seedProject(t, itv.ID.Hex())

	row := canceledRow("D-1", "C-1", 2)
	group := RowGroup{Key: DefaultGroupKey(row), Rows: []InterventionSERow{row}}

	outcome, err := f.matcher.ProcessGroup(context.Background(), group, "tester")
	require.NoError(t, err)

	remaining, _ := f.interventions.FindByExternalReference(context.Background(), intervention.RefTypeNexoDossier, "D-1")
	assert.Empty(t, remaining)

	_, err = f.projects.FindByID(context.Background(), prj.ID.Hex())
	assert.Error(t, err, "empty project should be deleted")
	assert.Equal(t, []string{prj.ID.Hex()}, f.submissions.withdrawn)

	require.Len(t, outcome.Projects, 1)
	assert.Equal(t, ModificationDeletion, outcome.Projects[0].ModificationType)
}

func TestProcessGroupCancellationKeepsProjectWithSurvivors(t *testing.T) {
	f := newMatcherFixture()
	doomed := f.seedIntervention(t, "D-1", "C-1")
	survivor := f.seedIntervention(t, "D-2", "C-9")
	prj := f.seedProject(t, doomed.ID.Hex(), survivor.ID.Hex())

	row := canceledRow("D-1", "C-1", 2)
	group := RowGroup{Key: DefaultGroupKey(row), Rows: []InterventionSERow{row}}

	_, err := f.matcher.ProcessGroup(context.Background(), group, "tester")
	require.NoError(t, err)

	kept, err := f.projects.FindByID(context.Background(), prj.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{survivor.ID.Hex()}, kept.InterventionIds)
	// Annual periods follow the surviving intervention's span.
	assert.Len(t, kept.AnnualDistribution.AnnualPeriods, survivor.EndYear-survivor.StartYear+1)
}

func TestProcessGroupModification(t *testing.T) {
	f := newMatcherFixture()
	itv := f.seedIntervention(t, "D-1", "C-1", "C-2", "C-3")

	updated := activeRow("D-1", "C-2", 2)
	updated.Geometry = &intervention.Geometry{Type: "Point", Coordinates: []byte("[-73.5,45.5]")}
	group := RowGroup{
		Key:  DefaultGroupKey(updated),
		Rows: []InterventionSERow{updated, canceledRow("D-1", "C-1", 3)},
	}

	outcome, err := f.matcher.ProcessGroup(context.Background(), group, "tester")
	require.NoError(t, err)

	require.Len(t, outcome.Interventions, 2)
	assert.Equal(t, ModificationModification, outcome.Interventions[0].ModificationType)
	assert.Equal(t, ModificationDeletion, outcome.Interventions[1].ModificationType)

	current, err := f.interventions.FindByID(context.Background(), itv.ID.Hex())
	require.NoError(t, err)
	require.Len(t, current.Assets, 2)
	assert.Equal(t, -1, current.FindAssetByComparison("C-1"))
	idx := current.FindAssetByComparison("C-2")
	require.GreaterOrEqual(t, idx, 0)
	require.NotNil(t, current.Assets[idx].Geometry)
	assert.Equal(t, "Point", current.Assets[idx].Geometry.Type)
}

func TestProcessGroupModificationPNIFlip(t *testing.T) {
	f := newMatcherFixture()
	itv := f.seedIntervention(t, "D-1", "C-1")
	prj := f.seedProject(t, itv.ID.Hex())

	row := activeRow("D-1", "C-1", 2)
	row.Carnet = "PRG-01"
	group := RowGroup{Key: DefaultGroupKey(row), Rows: []InterventionSERow{row}}

	outcome, err := f.matcher.ProcessGroup(context.Background(), group, "tester")
	require.NoError(t, err)

	current, err := f.interventions.FindByID(context.Background(), itv.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "PRG-01", current.ProgramID)

	// The intervention left its project, which became empty.
	_, err = f.projects.FindByID(context.Background(), prj.ID.Hex())
	assert.Error(t, err)
	require.Len(t, outcome.Projects, 1)
	assert.Equal(t, ModificationDeletion, outcome.Projects[0].ModificationType)
}
