package nexo

import (
	"context"
	"fmt"
	"sort"

	common_models "agir-planning/internal/common/models"
	"agir-planning/internal/features/intervention"
	"agir-planning/internal/features/project"
	"agir-planning/internal/features/submission"
	"agir-planning/internal/features/taxonomy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GroupKey identifies one logical intervention unit inside an import
// file. Rows sharing a key contribute assets to the same intervention;
// rows differing in any component become separate interventions.
type GroupKey struct {
	Dossier   string
	WorkType  string
	AssetType string
}

// GroupKeyFunc derives the grouping key of a row. The exact rule is a
// deployment concern, so it is injected rather than hard-coded.
type GroupKeyFunc func(row InterventionSERow) GroupKey

// DefaultGroupKey groups by dossier number plus work-type and asset-type
// codes.
func DefaultGroupKey(row InterventionSERow) GroupKey {
	return GroupKey{Dossier: row.NoDossierSE, WorkType: row.CodeTravaux, AssetType: row.CodeActif}
}

// RowGroup is the ordered set of sibling rows behind one grouping key.
type RowGroup struct {
	Key  GroupKey
	Rows []InterventionSERow
}

// GroupRows splits parsed rows into groups, ordered by each group's
// first line number so processing stays deterministic.
func GroupRows(rows []InterventionSERow, keyFn GroupKeyFunc) []RowGroup {
	byKey := make(map[GroupKey]*RowGroup)
	var groups []*RowGroup
	for _, row := range rows {
		key := keyFn(row)
		group, ok := byKey[key]
		if !ok {
			group = &RowGroup{Key: key}
			byKey[key] = group
			groups = append(groups, group)
		}
		group.Rows = append(group.Rows, row)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Rows[0].LineNumber < groups[j].Rows[0].LineNumber
	})

	out := make([]RowGroup, len(groups))
	for i, g := range groups {
		out[i] = *g
	}
	return out
}

// GroupOutcome carries the per-row and per-project results of
// reconciling one row group.
type GroupOutcome struct {
	Interventions []RowResult
	Projects      []RowResult
}

// Matcher reconciles one row group against the existing intervention and
// project aggregates. All mutations for a group happen before the next
// group is processed, so project side effects never race.
type Matcher struct {
	Interventions intervention.InterventionRepository
	Projects      project.ProjectRepository
	Submissions   submission.SubmissionService
	Taxonomies    taxonomy.TaxonomyService
	Logger        *zap.Logger
}

func NewMatcher(interventions intervention.InterventionRepository, projects project.ProjectRepository, submissions submission.SubmissionService, taxonomies taxonomy.TaxonomyService, logger *zap.Logger) *Matcher {
	return &Matcher{
		Interventions: interventions,
		Projects:      projects,
		Submissions:   submissions,
		Taxonomies:    taxonomies,
		Logger:        logger,
	}
}

// ProcessGroup applies the creation/modification/deletion decision for
// one group and returns one outcome per input row. Errors inside the
// group become FAILURE outcomes; the returned error is reserved for
// persistence faults that should abort the file.
func (m *Matcher) ProcessGroup(ctx context.Context, group RowGroup, userID string) (GroupOutcome, error) {
	existing, err := m.findExisting(ctx, group.Key)
	if err != nil {
		return GroupOutcome{}, err
	}

	var canceled, active []InterventionSERow
	for _, row := range group.Rows {
		if row.IsCanceled() {
			canceled = append(canceled, row)
		} else {
			active = append(active, row)
		}
	}

	if len(active) == 0 {
		return m.processCancellation(ctx, group.Key, existing, canceled, userID)
	}
	if existing == nil {
		return m.processCreation(ctx, group.Key, active, canceled, userID)
	}
	return m.processModification(ctx, group.Key, existing, active, canceled, userID)
}

// findExisting locates the prior intervention for a group key, matching
// the dossier reference first and the work-type/asset-type codes second.
func (m *Matcher) findExisting(ctx context.Context, key GroupKey) (*intervention.Intervention, error) {
	candidates, err := m.Interventions.FindByExternalReference(ctx, intervention.RefTypeNexoDossier, key.Dossier)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		itv := &candidates[i]
		if itv.WorkTypeID != key.WorkType {
			continue
		}
		if len(itv.Assets) == 0 || itv.Assets[0].TypeID == key.AssetType {
			return itv, nil
		}
	}
	return nil, nil
}

func (m *Matcher) processCancellation(ctx context.Context, key GroupKey, existing *intervention.Intervention, canceled []InterventionSERow, userID string) (GroupOutcome, error) {
	var outcome GroupOutcome

	if existing == nil {
		// Nothing to delete; the rows are recorded as completed deletions.
		for _, row := range canceled {
			outcome.Interventions = append(outcome.Interventions, successResult(key.Dossier, row.LineNumber, ModificationDeletion))
		}
		return outcome, nil
	}

	for _, row := range canceled {
		if idx := existing.FindAssetByComparison(row.Comparaison); idx >= 0 {
			existing.Assets = append(existing.Assets[:idx], existing.Assets[idx+1:]...)
		}
		outcome.Interventions = append(outcome.Interventions, successResult(key.Dossier, row.LineNumber, ModificationDeletion))
	}

	if len(existing.Assets) == 0 {
		if err := m.Interventions.Delete(ctx, existing.ID.Hex()); err != nil {
			return outcome, err
		}
		projectResult, err := m.detachFromProject(ctx, existing, userID)
		if err != nil {
			return outcome, err
		}
		if projectResult != nil {
			outcome.Projects = append(outcome.Projects, *projectResult)
		}
		return outcome, nil
	}

	existing.Audit.Touch(userID)
	if err := m.Interventions.Save(ctx, existing); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (m *Matcher) processCreation(ctx context.Context, key GroupKey, active, canceled []InterventionSERow, userID string) (GroupOutcome, error) {
	var outcome GroupOutcome
	lead := active[0]

	if failure := m.validateCodes(ctx, lead); failure != "" {
		for _, row := range active {
			outcome.Interventions = append(outcome.Interventions, failureResult(key.Dossier, row.LineNumber, ModificationCreation, failure))
		}
		return outcome, nil
	}

	itv := &intervention.Intervention{
		InterventionName:  interventionName(lead),
		Status:            intervention.StatusIntegrated,
		BoroughID:         lead.Arrondissement,
		ExecutorID:        lead.CodeExecutant,
		WorkTypeID:        lead.CodeTravaux,
		PlanificationYear: lead.AnneeDebutTravaux,
		StartYear:         lead.AnneeDebutTravaux,
		EndYear:           lead.AnneeFinTravaux,
		GlobalBudget:      intervention.Budget{Allowance: toThousands(lead.Budget)},
		StreetName:        lead.Rue,
		StreetFrom:        lead.De,
		StreetTo:          lead.A,
		ExternalReferenceIds: []common_models.ExternalReferenceId{
			{Type: intervention.RefTypeNexoDossier, Value: key.Dossier},
		},
		Audit: common_models.NewAudit(userID),
	}
	if lead.IsPNI() {
		itv.ProgramID = lead.Carnet
	}
	for _, row := range active {
		itv.Assets = append(itv.Assets, newAsset(row))
	}

	if err := m.Interventions.Save(ctx, itv); err != nil {
		return outcome, err
	}
	for _, row := range active {
		outcome.Interventions = append(outcome.Interventions, successResult(key.Dossier, row.LineNumber, ModificationCreation))
	}
	for _, row := range canceled {
		outcome.Interventions = append(outcome.Interventions, successResult(key.Dossier, row.LineNumber, ModificationDeletion))
	}

	if !lead.IsPNI() {
		projectResult, err := m.createProject(ctx, itv, userID)
		if err != nil {
			return outcome, err
		}
		outcome.Projects = append(outcome.Projects, *projectResult)
	}
	return outcome, nil
}

func (m *Matcher) processModification(ctx context.Context, key GroupKey, existing *intervention.Intervention, active, canceled []InterventionSERow, userID string) (GroupOutcome, error) {
	var outcome GroupOutcome
	lead := active[0]

	if failure := m.validateCodes(ctx, lead); failure != "" {
		for _, row := range active {
			outcome.Interventions = append(outcome.Interventions, failureResult(key.Dossier, row.LineNumber, ModificationModification, failure))
		}
		return outcome, nil
	}

	wasPNI := existing.IsPNI()

	existing.InterventionName = interventionName(lead)
	existing.BoroughID = lead.Arrondissement
	existing.ExecutorID = lead.CodeExecutant
	existing.StartYear = lead.AnneeDebutTravaux
	existing.EndYear = lead.AnneeFinTravaux
	existing.GlobalBudget = intervention.Budget{Allowance: toThousands(lead.Budget)}
	existing.StreetName = lead.Rue
	existing.StreetFrom = lead.De
	existing.StreetTo = lead.A

	// Diff assets by comparison key: active rows add or replace, canceled
	// rows remove.
	for _, row := range active {
		if idx := existing.FindAssetByComparison(row.Comparaison); idx >= 0 {
			existing.Assets[idx].TypeID = row.CodeActif
			existing.Assets[idx].Geometry = row.Geometry
		} else {
			existing.Assets = append(existing.Assets, newAsset(row))
		}
		outcome.Interventions = append(outcome.Interventions, successResult(key.Dossier, row.LineNumber, ModificationModification))
	}
	for _, row := range canceled {
		if idx := existing.FindAssetByComparison(row.Comparaison); idx >= 0 {
			existing.Assets = append(existing.Assets[:idx], existing.Assets[idx+1:]...)
		}
		outcome.Interventions = append(outcome.Interventions, successResult(key.Dossier, row.LineNumber, ModificationDeletion))
	}

	isPNI := lead.IsPNI()
	if isPNI {
		existing.ProgramID = lead.Carnet
	} else {
		existing.ProgramID = ""
	}

	existing.Audit.Touch(userID)
	if err := m.Interventions.Save(ctx, existing); err != nil {
		return outcome, err
	}

	switch {
	case wasPNI && !isPNI:
		// Became standalone: needs an owning project.
		if prj, err := m.Projects.FindByIntervention(ctx, existing.ID.Hex()); err != nil {
			return outcome, err
		} else if prj == nil {
			projectResult, err := m.createProject(ctx, existing, userID)
			if err != nil {
				return outcome, err
			}
			outcome.Projects = append(outcome.Projects, *projectResult)
		}
	case !wasPNI && isPNI:
		// Moved into a program: leaves its project.
		projectResult, err := m.detachFromProject(ctx, existing, userID)
		if err != nil {
			return outcome, err
		}
		if projectResult != nil {
			outcome.Projects = append(outcome.Projects, *projectResult)
		}
	default:
		projectResult, err := m.refreshProject(ctx, existing, userID)
		if err != nil {
			return outcome, err
		}
		if projectResult != nil {
			outcome.Projects = append(outcome.Projects, *projectResult)
		}
	}
	return outcome, nil
}

// createProject opens a new project owning a single intervention.
func (m *Matcher) createProject(ctx context.Context, itv *intervention.Intervention, userID string) (*RowResult, error) {
	prj := &project.Project{
		ProjectName:     itv.InterventionName,
		Status:          project.StatusPlanned,
		BoroughID:       itv.BoroughID,
		ExecutorID:      itv.ExecutorID,
		StartYear:       itv.StartYear,
		EndYear:         itv.EndYear,
		GlobalBudget:    project.Budget{Allowance: itv.GlobalBudget.Allowance},
		InterventionIds: []string{itv.ID.Hex()},
		StreetName:      itv.StreetName,
		ExternalReferenceIds: []common_models.ExternalReferenceId{
			{Type: intervention.RefTypeNexoDossier, Value: itv.DossierNumber()},
		},
		Audit: common_models.NewAudit(userID),
	}
	prj.RecomputeAnnualPeriods([]project.YearSpan{{Start: itv.StartYear, End: itv.EndYear}})

	if err := m.Projects.Save(ctx, prj); err != nil {
		return nil, err
	}

	itv.ProjectID = prj.ID.Hex()
	if err := m.Interventions.Save(ctx, itv); err != nil {
		return nil, err
	}

	result := successResult(prj.ID.Hex(), 0, ModificationCreation)
	return &result, nil
}

// detachFromProject removes the intervention from its owning project,
// deleting the project when it becomes empty and recomputing its annual
// periods otherwise.
func (m *Matcher) detachFromProject(ctx context.Context, itv *intervention.Intervention, userID string) (*RowResult, error) {
	prj, err := m.Projects.FindByIntervention(ctx, itv.ID.Hex())
	if err != nil {
		return nil, err
	}
	if prj == nil {
		return nil, nil
	}

	prj.RemoveIntervention(itv.ID.Hex())

	if len(prj.InterventionIds) == 0 {
		if err := m.Submissions.WithdrawProject(ctx, prj.ID.Hex(), userID); err != nil {
			return nil, err
		}
		if err := m.Projects.Delete(ctx, prj.ID.Hex()); err != nil {
			return nil, err
		}
		result := successResult(prj.ID.Hex(), 0, ModificationDeletion)
		return &result, nil
	}

	if err := m.recomputeProject(ctx, prj, userID); err != nil {
		return nil, err
	}
	result := successResult(prj.ID.Hex(), 0, ModificationModification)
	return &result, nil
}

// refreshProject recomputes the owning project's span and distribution
// after its intervention changed.
func (m *Matcher) refreshProject(ctx context.Context, itv *intervention.Intervention, userID string) (*RowResult, error) {
	prj, err := m.Projects.FindByIntervention(ctx, itv.ID.Hex())
	if err != nil {
		return nil, err
	}
	if prj == nil {
		return nil, nil
	}
	if err := m.recomputeProject(ctx, prj, userID); err != nil {
		return nil, err
	}
	result := successResult(prj.ID.Hex(), 0, ModificationModification)
	return &result, nil
}

func (m *Matcher) recomputeProject(ctx context.Context, prj *project.Project, userID string) error {
	spans := make([]project.YearSpan, 0, len(prj.InterventionIds))
	for _, id := range prj.InterventionIds {
		member, err := m.Interventions.FindByID(ctx, id)
		if err != nil {
			m.Logger.Warn("project member lookup failed during recompute",
				zap.String("projectId", prj.ID.Hex()), zap.String("interventionId", id), zap.Error(err))
			continue
		}
		spans = append(spans, project.YearSpan{Start: member.StartYear, End: member.EndYear})
	}
	prj.RecomputeAnnualPeriods(spans)
	prj.Audit.Touch(userID)
	return m.Projects.Save(ctx, prj)
}

// validateCodes checks the row's taxonomy-backed codes, returning a
// localized failure description or empty when valid.
func (m *Matcher) validateCodes(ctx context.Context, row InterventionSERow) string {
	ok, err := m.Taxonomies.IsValidCode(ctx, taxonomy.GroupExecutor, row.CodeExecutant)
	if err != nil {
		m.Logger.Warn("taxonomy lookup failed", zap.String("group", taxonomy.GroupExecutor), zap.Error(err))
		return fmt.Sprintf("La validation du code exécutant \"%s\" a échoué", row.CodeExecutant)
	}
	if !ok {
		return fmt.Sprintf("Le code exécutant \"%s\" est invalide", row.CodeExecutant)
	}
	ok, err = m.Taxonomies.IsValidCode(ctx, taxonomy.GroupBorough, row.Arrondissement)
	if err != nil {
		m.Logger.Warn("taxonomy lookup failed", zap.String("group", taxonomy.GroupBorough), zap.Error(err))
		return fmt.Sprintf("La validation de l'arrondissement \"%s\" a échoué", row.Arrondissement)
	}
	if !ok {
		return fmt.Sprintf("L'arrondissement \"%s\" est invalide", row.Arrondissement)
	}
	return ""
}

func newAsset(row InterventionSERow) intervention.Asset {
	return intervention.Asset{
		ID:       uuid.NewString(),
		TypeID:   row.CodeActif,
		Geometry: row.Geometry,
		ExternalReferenceIds: []common_models.ExternalReferenceId{
			{Type: intervention.RefTypeNexoAssetComparison, Value: row.Comparaison},
			{Type: intervention.RefTypeNexoAssetId, Value: row.Comparaison},
		},
	}
}

func interventionName(row InterventionSERow) string {
	if row.DescriptionTravaux != "" && row.Rue != "" {
		return fmt.Sprintf("%s - %s", row.DescriptionTravaux, row.Rue)
	}
	if row.DescriptionTravaux != "" {
		return row.DescriptionTravaux
	}
	return row.NoDossierSE
}

func successResult(id string, lineNumber int, modType ModificationType) RowResult {
	return RowResult{ID: id, LineNumber: lineNumber, ImportStatus: ImportStatusSuccess, ModificationType: modType}
}

func failureResult(id string, lineNumber int, modType ModificationType, description string) RowResult {
	return RowResult{ID: id, LineNumber: lineNumber, ImportStatus: ImportStatusFailure, ModificationType: modType, Description: description}
}
