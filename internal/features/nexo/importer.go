package nexo

import (
	"context"
	"sort"

	"agir-planning/internal/features/document"

	"go.uber.org/zap"
)

// ImportRun is the handle of one dispatched import. The triggering call
// returns it immediately; Done closes once the log has reached its
// terminal state, so callers can await completion instead of polling.
type ImportRun struct {
	logID string
	done  chan struct{}
}

func (r *ImportRun) LogID() string { return r.logID }

func (r *ImportRun) Done() <-chan struct{} { return r.done }

// Notifier receives the log each time its status changes. The websocket
// hub implements it; a nil notifier disables push updates.
type Notifier interface {
	NotifyImport(log *NexoImportLog)
}

// Importer runs the reconciliation pipeline for one import log:
// download each file, validate its structure, parse rows, and apply the
// matching, budget, or design merge stage for its type.
type Importer struct {
	Logs     ImportLogRepository
	Storage  document.StorageService
	Matcher  *Matcher
	Budgets  *BudgetReconciler
	Rehabs   *RehabMerger
	GroupKey GroupKeyFunc
	Notifier Notifier
	Logger   *zap.Logger
}

func NewImporter(logs ImportLogRepository, storage document.StorageService, matcher *Matcher, budgets *BudgetReconciler, rehabs *RehabMerger, groupKey GroupKeyFunc, notifier Notifier, logger *zap.Logger) *Importer {
	return &Importer{
		Logs:     logs,
		Storage:  storage,
		Matcher:  matcher,
		Budgets:  budgets,
		Rehabs:   rehabs,
		GroupKey: groupKey,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Dispatch starts the heavy processing in the background and returns a
// completion handle. The log must already be IN_PROGRESS.
func (imp *Importer) Dispatch(log *NexoImportLog, userID string) *ImportRun {
	run := &ImportRun{logID: log.ID.Hex(), done: make(chan struct{})}
	go func() {
		defer close(run.done)
		imp.process(context.Background(), log, userID)
	}()
	return run
}

func (imp *Importer) process(ctx context.Context, log *NexoImportLog, userID string) {
	overall := ImportStatusSuccess

	for i := range log.Files {
		file := &log.Files[i]

		if err := ValidateFileOrder(log, file); err != nil {
			file.Status = ImportStatusFailure
			file.ErrorDetail = err.Error()
			overall = ImportStatusFailure
			if i == 0 {
				// The lead-file rule is absolute: nothing else runs.
				break
			}
			continue
		}

		if err := imp.processFile(ctx, file, userID); err != nil {
			imp.Logger.Error("import file processing aborted",
				zap.String("logId", log.ID.Hex()), zap.String("fileId", file.ID), zap.Error(err))
			file.Status = ImportStatusFailure
			file.ErrorDetail = "Une erreur inattendue est survenue durant l'import"
		}
		if file.Status == ImportStatusFailure {
			overall = ImportStatusFailure
		}

		// Persist progress between files so a crash leaves an inspectable log.
		log.Audit.Touch(userID)
		if err := imp.Logs.Save(ctx, log); err != nil {
			imp.Logger.Error("import log save failed", zap.String("logId", log.ID.Hex()), zap.Error(err))
		}
	}

	log.Status = overall
	log.Audit.Touch(userID)
	if err := imp.Logs.Save(ctx, log); err != nil {
		imp.Logger.Error("import log finalize failed", zap.String("logId", log.ID.Hex()), zap.Error(err))
	}

	imp.Logger.Info("nexo import completed",
		zap.String("logId", log.ID.Hex()), zap.String("status", string(log.Status)))

	if imp.Notifier != nil {
		imp.Notifier.NotifyImport(log)
	}
}

// processFile runs one file end to end, recording outcomes on the file.
// The returned error means an infrastructure fault, not a data failure.
func (imp *Importer) processFile(ctx context.Context, file *NexoImportFile, userID string) error {
	blob, err := imp.Storage.Get(ctx, file.StorageID)
	if err != nil {
		return err
	}

	sheet, err := ParseSheet(file.Name, blob.Data)
	if err != nil {
		file.Status = ImportStatusFailure
		file.ErrorDetail = err.Error()
		return nil
	}
	file.NumberOfItems = len(sheet.Rows)

	if err := ValidateColumns(file.Type, sheet.Headers); err != nil {
		file.Status = ImportStatusFailure
		file.ErrorDetail = err.Error()
		return nil
	}

	switch file.Type {
	case FileTypeInterventionsSE:
		if err := imp.processInterventions(ctx, file, sheet, userID); err != nil {
			return err
		}
	case FileTypeInterventionsBudgetSE:
		if err := imp.processBudgets(ctx, file, sheet, userID); err != nil {
			return err
		}
	case FileTypeRehabAqConception, FileTypeRehabEgConception:
		if err := imp.processRehab(ctx, file, sheet, userID); err != nil {
			return err
		}
	}

	file.Status = ImportStatusSuccess
	for _, result := range file.Interventions {
		if result.ImportStatus == ImportStatusFailure {
			file.Status = ImportStatusFailure
			break
		}
	}
	return nil
}

func (imp *Importer) processInterventions(ctx context.Context, file *NexoImportFile, sheet *RawSheet, userID string) error {
	var rows []InterventionSERow
	var results []RowResult

	for i, record := range sheet.Rows {
		lineNumber := i + 2 // header is line 1
		row, err := NewInterventionSERow(record, lineNumber)
		if err != nil {
			results = append(results, failureResult(cleanCell(record["noDossierSE"]), lineNumber, "", err.Error()))
			continue
		}
		rows = append(rows, row)
	}

	keyFn := imp.GroupKey
	if keyFn == nil {
		keyFn = DefaultGroupKey
	}
	for _, group := range GroupRows(rows, keyFn) {
		outcome, err := imp.Matcher.ProcessGroup(ctx, group, userID)
		results = append(results, outcome.Interventions...)
		file.Projects = append(file.Projects, outcome.Projects...)
		if err != nil {
			file.Interventions = sortedByLine(results)
			return err
		}
	}

	file.Interventions = sortedByLine(results)
	return nil
}

func (imp *Importer) processBudgets(ctx context.Context, file *NexoImportFile, sheet *RawSheet, userID string) error {
	var rows []InterventionBudgetSERow
	var results []RowResult

	for i, record := range sheet.Rows {
		lineNumber := i + 2
		row, err := NewInterventionBudgetSERow(record, lineNumber)
		if err != nil {
			results = append(results, failureResult(cleanCell(record["noDossierSE"]), lineNumber, "", err.Error()))
			continue
		}
		rows = append(rows, row)
	}

	budgetResults, err := imp.Budgets.Run(ctx, rows, userID)
	results = append(results, budgetResults...)
	file.Interventions = sortedByLine(results)
	return err
}

func (imp *Importer) processRehab(ctx context.Context, file *NexoImportFile, sheet *RawSheet, userID string) error {
	var rows []RehabConceptionRow
	var results []RowResult

	for i, record := range sheet.Rows {
		lineNumber := i + 2
		row, err := NewRehabConceptionRow(record, lineNumber)
		if err != nil {
			results = append(results, failureResult(cleanCell(record["comparaison"]), lineNumber, "", err.Error()))
			continue
		}
		rows = append(rows, row)
	}

	rehabResults, err := imp.Rehabs.Run(ctx, rows, userID)
	results = append(results, rehabResults...)
	file.Interventions = sortedByLine(results)
	return err
}

// sortedByLine restores source file order in the log, whatever order the
// groups were processed in.
func sortedByLine(results []RowResult) []RowResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].LineNumber < results[j].LineNumber
	})
	return results
}
