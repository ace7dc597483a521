package nexo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"agir-planning/internal/apperrors"
	"agir-planning/internal/config"
	"agir-planning/internal/features/intervention"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type serviceFixture struct {
	service       NexoService
	logs          *fakeLogRepo
	storage       *fakeStorage
	interventions *fakeInterventionRepo
	projects      *fakeProjectRepo
	audits        *fakeAuditService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		logs:          newFakeLogRepo(),
		storage:       newFakeStorage(),
		interventions: newFakeInterventionRepo(),
		projects:      newFakeProjectRepo(),
		audits:        &fakeAuditService{},
	}
	logger := zap.NewNop()
	matcher := NewMatcher(f.interventions, f.projects, &fakeSubmissionService{}, &fakeTaxonomyService{invalid: map[string]bool{}}, logger)
	budgets := NewBudgetReconciler(f.interventions, f.projects, logger)
	rehabs := NewRehabMerger(f.interventions)
	importer := NewImporter(f.logs, f.storage, matcher, budgets, rehabs, DefaultGroupKey, nil, logger)
	f.service = NewNexoService(f.logs, f.storage, importer, f.audits, &config.Config{ImportStaleAfterMin: 60}, logger)
	return f
}

// interventionsCSV renders rows as a well-formed interventions file.
// Each entry maps column name to value; unset columns stay empty.
func interventionsCSV(rows ...map[string]string) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(interventionSEColumns, ","))
	b.WriteString("\n")
	for _, row := range rows {
		cells := make([]string, len(interventionSEColumns))
		for i, col := range interventionSEColumns {
			cells[i] = row[col]
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func csvRow(dossier, comparison, carnet string) map[string]string {
	return map[string]string{
		"noDossierSE":       dossier,
		"codeTravaux":       "3",
		"codeActif":         "9",
		"comparaison":       comparison,
		"codeExecutant":     "DEP",
		"codePhase":         "2",
		"anneeDebutTravaux": "2024",
		"anneeFinTravaux":   "2026",
		"budget":            "2500000",
		"carnet":            carnet,
		"arrondissement":    "VM",
	}
}

func awaitRun(t *testing.T, run *ImportRun) {
	t.Helper()
	select {
	case <-run.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("import did not complete")
	}
}

func TestInitImport(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	log, err := f.service.InitImport(ctx, UploadedFile{
		Name: "interventions.csv", ContentType: "text/csv",
		Type: FileTypeInterventionsSE, Data: interventionsCSV(csvRow("D-1", "C-1", "")),
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, ImportStatusPending, log.Status)
	require.Len(t, log.Files, 1)
	assert.NotEmpty(t, log.Files[0].StorageID)

	// A second upload joins the same pending log.
	log2, err := f.service.InitImport(ctx, UploadedFile{
		Name: "budget.csv", ContentType: "text/csv",
		Type: FileTypeInterventionsBudgetSE, Data: []byte("noDossierSE,annee,budgetAnnuel\n"),
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, log.ID, log2.ID)
	assert.Len(t, log2.Files, 2)
}

func TestInitImportRejectsUnknownFileType(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.InitImport(context.Background(), UploadedFile{
		Name: "x.csv", Type: FileType("bogus"), Data: []byte("a\n"),
	}, "tester")
	assert.True(t, apperrors.Is(err, apperrors.InvalidParameter))
}

func TestStartImportGuards(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	t.Run("unknown log", func(t *testing.T) {
		_, err := f.service.StartImport(ctx, "000000000000000000000000", "tester")
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})

	t.Run("malformed log id", func(t *testing.T) {
		_, err := f.service.StartImport(ctx, "not-an-object-id", "tester")
		assert.True(t, apperrors.Is(err, apperrors.InvalidParameter))
	})

	t.Run("lookup fault", func(t *testing.T) {
		f.logs.findErr = errors.New("connection reset")
		defer func() { f.logs.findErr = nil }()
		_, err := f.service.StartImport(ctx, "000000000000000000000000", "tester")
		assert.True(t, apperrors.Is(err, apperrors.Unexpected))
	})

	t.Run("terminal log", func(t *testing.T) {
		done := &NexoImportLog{Status: ImportStatusSuccess}
		require.NoError(t, f.logs.Save(ctx, done))
		_, err := f.service.StartImport(ctx, done.ID.Hex(), "tester")
		assert.True(t, apperrors.Is(err, apperrors.Unprocessable))
	})

	t.Run("another import running", func(t *testing.T) {
		running := &NexoImportLog{Status: ImportStatusInProgress}
		require.NoError(t, f.logs.Save(ctx, running))
		target := &NexoImportLog{Status: ImportStatusPending}
		require.NoError(t, f.logs.Save(ctx, target))

		_, err := f.service.StartImport(ctx, target.ID.Hex(), "tester")
		assert.True(t, apperrors.Is(err, apperrors.AlreadyExists))
	})
}

func TestImportEndToEnd(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	// 3 rows: 2 share a dossier (standalone), 1 belongs to a program.
	data := interventionsCSV(
		csvRow("NEXO_NO_DOSSIER", "C-1", ""),
		csvRow("NEXO_NO_DOSSIER", "C-2", ""),
		csvRow("ANOTHER_NO_DOSSIER", "C-9", "PRG-01"),
	)
	log, err := f.service.InitImport(ctx, UploadedFile{
		Name: "interventions.csv", ContentType: "text/csv",
		Type: FileTypeInterventionsSE, Data: data,
	}, "tester")
	require.NoError(t, err)

	run, err := f.service.StartImport(ctx, log.ID.Hex(), "tester")
	require.NoError(t, err)
	awaitRun(t, run)

	final, err := f.service.GetImport(ctx, log.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, ImportStatusSuccess, final.Status)

	require.Len(t, final.Files, 1)
	file := final.Files[0]
	assert.Equal(t, ImportStatusSuccess, file.Status)
	assert.Equal(t, 3, file.NumberOfItems)
	require.Len(t, file.Interventions, 3)
	for _, result := range file.Interventions {
		assert.Equal(t, ImportStatusSuccess, result.ImportStatus)
		assert.Equal(t, ModificationCreation, result.ModificationType)
	}
	require.Len(t, file.Projects, 1, "only the standalone dossier creates a project")

	items, _, err := f.interventions.FindAll(ctx, intervention.Criteria{}, 100, 0)
	require.NoError(t, err)
	assert.Len(t, items, 2, "sibling rows fold into one intervention")
}

func TestImportWrongFirstFile(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	log, err := f.service.InitImport(ctx, UploadedFile{
		Name: "budget.csv", ContentType: "text/csv",
		Type: FileTypeInterventionsBudgetSE,
		Data: []byte("noDossierSE,annee,budgetAnnuel\nD-1,2024,1000\n"),
	}, "tester")
	require.NoError(t, err)

	run, err := f.service.StartImport(ctx, log.ID.Hex(), "tester")
	require.NoError(t, err)
	awaitRun(t, run)

	final, err := f.service.GetImport(ctx, log.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, ImportStatusFailure, final.Status)
	assert.Equal(t, ImportStatusFailure, final.Files[0].Status)
	assert.Equal(t, "Le premier fichier d'import n'est pas interventionsSE", final.Files[0].ErrorDetail)
}

func TestImportRowLevelPartialFailure(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	bad := csvRow("D-2", "C-2", "")
	bad["codeExecutant"] = "" // mandatory
	data := interventionsCSV(csvRow("D-1", "C-1", ""), bad)

	log, err := f.service.InitImport(ctx, UploadedFile{
		Name: "interventions.csv", ContentType: "text/csv",
		Type: FileTypeInterventionsSE, Data: data,
	}, "tester")
	require.NoError(t, err)

	run, err := f.service.StartImport(ctx, log.ID.Hex(), "tester")
	require.NoError(t, err)
	awaitRun(t, run)

	final, err := f.service.GetImport(ctx, log.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, ImportStatusFailure, final.Status)

	file := final.Files[0]
	require.Len(t, file.Interventions, 2, "every row appears in the log")
	assert.Equal(t, ImportStatusSuccess, file.Interventions[0].ImportStatus)
	assert.Equal(t, ImportStatusFailure, file.Interventions[1].ImportStatus)
	assert.Contains(t, file.Interventions[1].Description, "codeExecutant")
}

func TestImportBudgetFileRunsAfterPartialLeadFailure(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	bad := csvRow("D-2", "C-2", "")
	bad["codeExecutant"] = ""
	_, err := f.service.InitImport(ctx, UploadedFile{
		Name: "interventions.csv", ContentType: "text/csv",
		Type: FileTypeInterventionsSE, Data: interventionsCSV(csvRow("D-1", "C-1", ""), bad),
	}, "tester")
	require.NoError(t, err)

	log, err := f.service.InitImport(ctx, UploadedFile{
		Name: "budget.csv", ContentType: "text/csv",
		Type: FileTypeInterventionsBudgetSE,
		Data: []byte("noDossierSE,annee,budgetAnnuel\nD-1,2024,1000000\n"),
	}, "tester")
	require.NoError(t, err)

	run, err := f.service.StartImport(ctx, log.ID.Hex(), "tester")
	require.NoError(t, err)
	awaitRun(t, run)

	final, err := f.service.GetImport(ctx, log.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, ImportStatusFailure, final.Status, "the failed lead row keeps the run FAILURE")

	// The budget file still reconciles against the intervention that was created.
	budgetFile := final.Files[1]
	assert.Equal(t, ImportStatusSuccess, budgetFile.Status)
	assert.Empty(t, budgetFile.ErrorDetail)
	require.Len(t, budgetFile.Interventions, 1)
	assert.Equal(t, ImportStatusSuccess, budgetFile.Interventions[0].ImportStatus)
	assert.Equal(t, ModificationModification, budgetFile.Interventions[0].ModificationType)

	matches, err := f.interventions.FindByExternalReference(ctx, intervention.RefTypeNexoDossier, "D-1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Len(t, matches[0].AnnualDistribution, 1)
	assert.Equal(t, 2024, matches[0].AnnualDistribution[0].Year)
	assert.Equal(t, float64(1000), matches[0].AnnualDistribution[0].Allowance)
}

func TestSearchImports(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	require.NoError(t, f.logs.Save(ctx, &NexoImportLog{Status: ImportStatusSuccess}))
	require.NoError(t, f.logs.Save(ctx, &NexoImportLog{Status: ImportStatusFailure}))

	page, err := f.service.SearchImports(ctx, LogCriteria{Status: ImportStatusSuccess}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}
