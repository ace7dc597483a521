package nexo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseSheetCSV(t *testing.T) {
	content := []byte("noDossierSE,annee,budgetAnnuel\nD-1,2024,100000\nD-1,2025,200000\n")

	sheet, err := ParseSheet("budget.csv", content)
	require.NoError(t, err)

	assert.Equal(t, []string{"noDossierSE", "annee", "budgetAnnuel"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "D-1", sheet.Rows[0]["noDossierSE"])
	assert.Equal(t, "200000", sheet.Rows[1]["budgetAnnuel"])
}

func TestParseSheetCSVRaggedRow(t *testing.T) {
	content := []byte("noDossierSE,annee,budgetAnnuel\nD-1,2024\n")

	sheet, err := ParseSheet("budget.csv", content)
	require.NoError(t, err)

	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "", sheet.Rows[0]["budgetAnnuel"])
}

func TestParseSheetExcel(t *testing.T) {
	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheetName, "A1", &[]string{"noDossierSE", "annee", "budgetAnnuel"}))
	require.NoError(t, f.SetSheetRow(sheetName, "A2", &[]string{"D-1", "2024", "100000"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	sheet, err := ParseSheet("budget.xlsx", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, []string{"noDossierSE", "annee", "budgetAnnuel"}, sheet.Headers)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "2024", sheet.Rows[0]["annee"])
}

func TestParseSheetBadExcel(t *testing.T) {
	_, err := ParseSheet("broken.xlsx", []byte("not a workbook"))
	assert.Error(t, err)
}
