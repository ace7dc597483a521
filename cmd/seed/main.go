package main

import (
	"context"

	"agir-planning/internal/common/models"
	"agir-planning/internal/config"
	"agir-planning/internal/database"
	"agir-planning/internal/features/taxonomy"
	"agir-planning/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type seedEntry struct {
	group string
	code  string
	fr    string
	en    string
}

// Baseline reference data every environment needs before the API and
// the Nexo import can run.
var seedEntries = []seedEntry{
	{taxonomy.GroupExecutor, "di", "Direction des infrastructures", "Infrastructure department"},
	{taxonomy.GroupExecutor, "dre", "Direction des réseaux d'eau", "Water networks department"},
	{taxonomy.GroupExecutor, "deeu", "Direction de l'épuration des eaux usées", "Wastewater treatment department"},
	{taxonomy.GroupRequestor, "dre", "Direction des réseaux d'eau", "Water networks department"},
	{taxonomy.GroupWorkType, "construction", "Construction", "Construction"},
	{taxonomy.GroupWorkType, "reconstruction", "Reconstruction", "Reconstruction"},
	{taxonomy.GroupWorkType, "rehabilitation", "Réhabilitation", "Rehabilitation"},
	{taxonomy.GroupAssetType, "aqueductSegment", "Segment d'aqueduc", "Aqueduct segment"},
	{taxonomy.GroupAssetType, "sewerSegment", "Segment d'égout", "Sewer segment"},
	{taxonomy.GroupBorough, "vm", "Ville-Marie", "Ville-Marie"},
	{taxonomy.GroupBorough, "rpp", "Rivière-des-Prairies–Pointe-aux-Trembles", "Rivière-des-Prairies–Pointe-aux-Trembles"},
	{taxonomy.GroupProgramType, "pcpr", "PCPR", "PCPR"},
	{taxonomy.GroupProgramType, "prcpr", "PRCPR", "PRCPR"},
	{taxonomy.GroupInterventionPhase, "2", "Conception", "Design"},
	{taxonomy.GroupInterventionPhase, "4", "Annulé", "Canceled"},
}

// Seed inserts the baseline taxonomies, skipping codes already present.
func Seed(lc fx.Lifecycle, repo taxonomy.TaxonomyRepository, logger *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Seeding taxonomy reference data")

				existing := map[string]bool{}
				all, err := repo.FindAll(context.Background())
				if err != nil {
					logger.Error("taxonomy lookup failed", zap.Error(err))
					return
				}
				for _, tax := range all {
					existing[tax.Group+"/"+tax.Code] = true
				}

				inserted := 0
				for _, entry := range seedEntries {
					if existing[entry.group+"/"+entry.code] {
						continue
					}
					tax := &taxonomy.Taxonomy{
						Group:    entry.group,
						Code:     entry.code,
						Label:    map[string]string{"fr": entry.fr, "en": entry.en},
						IsActive: true,
						Audit:    models.NewAudit("seed"),
					}
					if err := repo.Save(context.Background(), tax); err != nil {
						logger.Error("taxonomy seed failed",
							zap.String("group", entry.group), zap.String("code", entry.code), zap.Error(err))
						return
					}
					inserted++
				}
				logger.Info("Taxonomy seeding done", zap.Int("inserted", inserted))
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			taxonomy.NewTaxonomyRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
