package nexo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"agir-planning/internal/features/intervention"

	"github.com/shopspring/decimal"
)

// Nexo phase code marking a canceled dossier row.
const codePhaseCanceled = "4"

// Column schemas, by file type. Header names follow the Nexo export
// convention and are matched case-sensitively.
var (
	interventionSEColumns = []string{
		"noDossierSE", "codeTravaux", "descriptionTravaux", "codeActif",
		"descriptionActif", "comparaison", "geom", "codeExecutant",
		"uniteResponsable", "codePhase", "descriptionPhase",
		"anneeDebutTravaux", "anneeFinTravaux", "budget", "carnet",
		"descriptionCarnet", "arrondissement", "rue", "de", "a",
	}
	interventionBudgetSEColumns = []string{
		"noDossierSE", "annee", "budgetAnnuel",
	}
	rehabConceptionColumns = []string{
		"comparaison", "plageContrat", "infiltration",
		"infiltrationChambre", "typeActifAmont", "typeActifAval",
	}
)

// ExpectedColumns returns the mandatory header set for a file type.
func ExpectedColumns(t FileType) []string {
	switch t {
	case FileTypeInterventionsSE:
		return interventionSEColumns
	case FileTypeInterventionsBudgetSE:
		return interventionBudgetSEColumns
	case FileTypeRehabAqConception, FileTypeRehabEgConception:
		return rehabConceptionColumns
	default:
		return nil
	}
}

// InterventionSERow is one parsed interventions-file row. One row describes
// one asset change inside a dossier.
type InterventionSERow struct {
	NoDossierSE        string
	CodeTravaux        string
	DescriptionTravaux string
	CodeActif          string
	DescriptionActif   string
	Comparaison        string
	Geometry           *intervention.Geometry
	CodeExecutant      string
	UniteResponsable   string
	CodePhase          string
	DescriptionPhase   string
	AnneeDebutTravaux  int
	AnneeFinTravaux    int
	Budget             decimal.Decimal // raw dollars, as exported
	Carnet             string
	DescriptionCarnet  string
	Arrondissement     string
	Rue                string
	De                 string
	A                  string
	LineNumber         int
}

// IsCanceled reports whether the row carries the canceled phase code,
// which gives the row deletion semantics.
func (r InterventionSERow) IsCanceled() bool {
	return r.CodePhase == codePhaseCanceled
}

// IsPNI reports whether the row belongs to a pre-identified program
// (non-empty carnet marker). PNI rows never trigger project creation.
func (r InterventionSERow) IsPNI() bool {
	return r.Carnet != ""
}

// InterventionBudgetSERow is one annual budget allocation for a dossier.
type InterventionBudgetSERow struct {
	NoDossierSE string
	Annee       int
	Montant     decimal.Decimal // raw dollars
	LineNumber  int
}

// RehabConceptionRow enriches an asset (located by comparison key) with
// rehabilitation design attributes.
type RehabConceptionRow struct {
	Comparaison         string
	PlageContrat        string
	Infiltration        string
	InfiltrationChamber string
	TypeActifAmont      string
	TypeActifAval       string
	LineNumber          int
}

// cleanCell trims whitespace and collapses the literal "NULL" the Nexo
// export uses for absent values.
func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "NULL") {
		return ""
	}
	return v
}

func parseYearField(v, column string) (int, error) {
	if v == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("la valeur \"%s\" de la colonne %s n'est pas une année valide", v, column)
	}
	return year, nil
}

// parseAmount accepts the export's number formats: thousand spaces and
// either comma or dot decimals.
func parseAmount(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	normalized := strings.ReplaceAll(v, " ", "")
	normalized = strings.ReplaceAll(normalized, "\u00a0", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	return decimal.NewFromString(normalized)
}

// parseGeometry decodes the embedded GeoJSON string carried by the geom
// column. An empty cell yields a nil geometry.
func parseGeometry(v string) (*intervention.Geometry, error) {
	if v == "" {
		return nil, nil
	}
	var geom intervention.Geometry
	if err := json.Unmarshal([]byte(v), &geom); err != nil {
		return nil, fmt.Errorf("la géométrie n'est pas un GeoJSON valide: %w", err)
	}
	if geom.Type == "" {
		return nil, fmt.Errorf("la géométrie n'est pas un GeoJSON valide: type manquant")
	}
	return &geom, nil
}

// mandatory intervention-row fields; missing values fail the row, not the file.
var interventionSEMandatory = []string{
	"noDossierSE", "codeTravaux", "codeActif", "comparaison",
	"codeExecutant", "codePhase", "anneeDebutTravaux", "anneeFinTravaux",
	"arrondissement",
}

// NewInterventionSERow builds a typed row from one raw record. The
// returned error is a per-row failure, phrased for the import log.
func NewInterventionSERow(record map[string]string, lineNumber int) (InterventionSERow, error) {
	row := InterventionSERow{LineNumber: lineNumber}

	cleaned := make(map[string]string, len(record))
	for k, v := range record {
		cleaned[k] = cleanCell(v)
	}

	var missing []string
	for _, field := range interventionSEMandatory {
		if cleaned[field] == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return row, fmt.Errorf("les données obligatoires suivantes sont manquantes: %s", strings.Join(missing, ", "))
	}

	row.NoDossierSE = cleaned["noDossierSE"]
	row.CodeTravaux = cleaned["codeTravaux"]
	row.DescriptionTravaux = cleaned["descriptionTravaux"]
	row.CodeActif = cleaned["codeActif"]
	row.DescriptionActif = cleaned["descriptionActif"]
	row.Comparaison = cleaned["comparaison"]
	row.CodeExecutant = cleaned["codeExecutant"]
	row.UniteResponsable = cleaned["uniteResponsable"]
	row.CodePhase = cleaned["codePhase"]
	row.DescriptionPhase = cleaned["descriptionPhase"]
	row.Carnet = cleaned["carnet"]
	row.DescriptionCarnet = cleaned["descriptionCarnet"]
	row.Arrondissement = cleaned["arrondissement"]
	row.Rue = cleaned["rue"]
	row.De = cleaned["de"]
	row.A = cleaned["a"]

	var err error
	if row.AnneeDebutTravaux, err = parseYearField(cleaned["anneeDebutTravaux"], "anneeDebutTravaux"); err != nil {
		return row, err
	}
	if row.AnneeFinTravaux, err = parseYearField(cleaned["anneeFinTravaux"], "anneeFinTravaux"); err != nil {
		return row, err
	}
	if row.AnneeFinTravaux < row.AnneeDebutTravaux {
		return row, fmt.Errorf("l'année de fin %d précède l'année de début %d", row.AnneeFinTravaux, row.AnneeDebutTravaux)
	}
	if row.Budget, err = parseAmount(cleaned["budget"]); err != nil {
		return row, fmt.Errorf("le budget \"%s\" est invalide", cleaned["budget"])
	}
	if row.Geometry, err = parseGeometry(cleaned["geom"]); err != nil {
		return row, err
	}

	return row, nil
}

// NewInterventionBudgetSERow builds a typed budget row from a raw record.
func NewInterventionBudgetSERow(record map[string]string, lineNumber int) (InterventionBudgetSERow, error) {
	row := InterventionBudgetSERow{LineNumber: lineNumber}

	dossier := cleanCell(record["noDossierSE"])
	if dossier == "" {
		return row, fmt.Errorf("les données obligatoires suivantes sont manquantes: noDossierSE")
	}
	row.NoDossierSE = dossier

	var err error
	if row.Annee, err = parseYearField(cleanCell(record["annee"]), "annee"); err != nil {
		return row, err
	}
	if row.Annee == 0 {
		return row, fmt.Errorf("les données obligatoires suivantes sont manquantes: annee")
	}
	if row.Montant, err = parseAmount(cleanCell(record["budgetAnnuel"])); err != nil {
		return row, fmt.Errorf("le budget annuel \"%s\" est invalide", record["budgetAnnuel"])
	}
	return row, nil
}

// NewRehabConceptionRow builds a typed rehab design row from a raw record.
func NewRehabConceptionRow(record map[string]string, lineNumber int) (RehabConceptionRow, error) {
	row := RehabConceptionRow{LineNumber: lineNumber}

	comparison := cleanCell(record["comparaison"])
	if comparison == "" {
		return row, fmt.Errorf("les données obligatoires suivantes sont manquantes: comparaison")
	}
	row.Comparaison = comparison
	row.PlageContrat = cleanCell(record["plageContrat"])
	row.Infiltration = cleanCell(record["infiltration"])
	row.InfiltrationChamber = cleanCell(record["infiltrationChambre"])
	row.TypeActifAmont = cleanCell(record["typeActifAmont"])
	row.TypeActifAval = cleanCell(record["typeActifAval"])
	return row, nil
}
