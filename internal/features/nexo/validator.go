package nexo

import (
	"fmt"
	"strings"
)

// ValidateFileOrder enforces that the interventions file leads the
// import: it must be the first file of the log, and every other file
// type can only run once it has been processed. A failed lead file does
// not block the others, their rows still reconcile against whatever
// interventions exist.
func ValidateFileOrder(log *NexoImportLog, file *NexoImportFile) error {
	if file.Type == FileTypeInterventionsSE {
		if len(log.Files) == 0 || log.Files[0].ID != file.ID {
			return fmt.Errorf("Le premier fichier d'import n'est pas %s", FileTypeInterventionsSE)
		}
		return nil
	}
	if len(log.Files) == 0 || log.Files[0].Type != FileTypeInterventionsSE {
		return fmt.Errorf("Le premier fichier d'import n'est pas %s", FileTypeInterventionsSE)
	}
	if !log.Files[0].Status.IsTerminal() {
		return fmt.Errorf("Le fichier %s doit être importé avant le fichier %s", FileTypeInterventionsSE, file.Type)
	}
	return nil
}

// ValidateColumns checks that every mandatory column of the file type is
// present in the sheet headers.
func ValidateColumns(t FileType, headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, col := range ExpectedColumns(t) {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("La colonne %s est manquante", strings.Join(missing, ", "))
	}
	return nil
}
