package nexo

import (
	"context"
	"fmt"

	"agir-planning/internal/features/intervention"
	"agir-planning/internal/features/project"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var thousand = decimal.NewFromInt(1000)

// toThousands converts a raw-dollar export amount to the thousands unit
// used by persisted allowances.
func toThousands(amount decimal.Decimal) float64 {
	value, _ := amount.Div(thousand).Float64()
	return value
}

// BudgetReconciler merges the annual budget file into interventions and
// their owning projects.
type BudgetReconciler struct {
	Interventions intervention.InterventionRepository
	Projects      project.ProjectRepository
	Logger        *zap.Logger
}

func NewBudgetReconciler(interventions intervention.InterventionRepository, projects project.ProjectRepository, logger *zap.Logger) *BudgetReconciler {
	return &BudgetReconciler{Interventions: interventions, Projects: projects, Logger: logger}
}

// Run processes every budget row, returning one outcome per row. Rows
// fail individually; the returned error is reserved for persistence
// faults that should abort the file.
func (b *BudgetReconciler) Run(ctx context.Context, rows []InterventionBudgetSERow, userID string) ([]RowResult, error) {
	// Rows are validated dossier by dossier so the sum constraint sees
	// the whole allocation set at once.
	byDossier := make(map[string][]InterventionBudgetSERow)
	var order []string
	for _, row := range rows {
		if _, ok := byDossier[row.NoDossierSE]; !ok {
			order = append(order, row.NoDossierSE)
		}
		byDossier[row.NoDossierSE] = append(byDossier[row.NoDossierSE], row)
	}

	var results []RowResult
	for _, dossier := range order {
		dossierResults, err := b.reconcileDossier(ctx, dossier, byDossier[dossier], userID)
		if err != nil {
			return results, err
		}
		results = append(results, dossierResults...)
	}
	return results, nil
}

func (b *BudgetReconciler) reconcileDossier(ctx context.Context, dossier string, rows []InterventionBudgetSERow, userID string) ([]RowResult, error) {
	failAll := func(description string) []RowResult {
		results := make([]RowResult, 0, len(rows))
		for _, row := range rows {
			results = append(results, failureResult(dossier, row.LineNumber, ModificationModification, description))
		}
		return results
	}

	matches, err := b.Interventions.FindByExternalReference(ctx, intervention.RefTypeNexoDossier, dossier)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return failAll(fmt.Sprintf("Aucune intervention ne correspond au dossier \"%s\"", dossier)), nil
	}
	if len(matches) > 1 {
		return failAll(fmt.Sprintf("Plusieurs interventions correspondent au dossier \"%s\"", dossier)), nil
	}
	itv := &matches[0]

	seen := make(map[int]bool, len(rows))
	total := decimal.Zero
	for _, row := range rows {
		if seen[row.Annee] {
			return failAll(fmt.Sprintf("L'année %d est présente plus d'une fois pour le dossier \"%s\"", row.Annee, dossier)), nil
		}
		seen[row.Annee] = true
		if row.Annee < itv.StartYear || row.Annee > itv.EndYear {
			return failAll(fmt.Sprintf("L'année %d est hors de la période de l'intervention du dossier \"%s\"", row.Annee, dossier)), nil
		}
		total = total.Add(row.Montant)
	}

	globalAllowance := decimal.NewFromFloat(itv.GlobalBudget.Allowance).Mul(thousand)
	if globalAllowance.LessThan(total) {
		return failAll(fmt.Sprintf("La répartition annuelle du budget pour le dossier \"%s\" n'a pu être ajoutée dans AGIR car le budget global est strictement inférieur à la somme des budgets annuels.", dossier)), nil
	}

	for _, row := range rows {
		upsertAnnualAllowance(itv, row.Annee, toThousands(row.Montant))
	}
	itv.Audit.Touch(userID)
	if err := b.Interventions.Save(ctx, itv); err != nil {
		return nil, err
	}

	if itv.ProjectID != "" {
		prj, err := b.Projects.FindByID(ctx, itv.ProjectID)
		if err != nil {
			b.Logger.Warn("owning project lookup failed during budget merge",
				zap.String("projectId", itv.ProjectID), zap.String("dossier", dossier), zap.Error(err))
		} else {
			for _, row := range rows {
				prj.SetYearAllowance(row.Annee, toThousands(row.Montant))
			}
			prj.Audit.Touch(userID)
			if err := b.Projects.Save(ctx, prj); err != nil {
				return nil, err
			}
		}
	}

	results := make([]RowResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, successResult(dossier, row.LineNumber, ModificationModification))
	}
	return results, nil
}

func upsertAnnualAllowance(itv *intervention.Intervention, year int, allowance float64) {
	for i := range itv.AnnualDistribution {
		if itv.AnnualDistribution[i].Year == year {
			itv.AnnualDistribution[i].Allowance = allowance
			return
		}
	}
	itv.AnnualDistribution = append(itv.AnnualDistribution, intervention.AnnualAllowance{Year: year, Allowance: allowance})
}
