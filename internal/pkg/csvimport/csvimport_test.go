package csvimport

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

func TestParseDropsRowsMissingRequiredFields(t *testing.T) {
	input := "full_name,email\n" +
		"Asha Raman,asha@example.org\n" +
		"Daniel Okafor,daniel@example.org\n" +
		"Mei Lin,mei@example.org\n" +
		"No Email,\n"

	res, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, res.Rows, 3)
	assert.Equal(t, 1, res.Dropped)
}

func TestParseNormalisesHeadersAndCells(t *testing.T) {
	input := "\ufeff Full_Name , EMAIL ,Grad_Year,Department\n" +
		"  Asha Raman , Asha@Example.org ,2014, CS \n" +
		"Bad Year,bad@example.org,20x4,\n"

	res, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	first := res.Rows[0]
	assert.Equal(t, "Asha Raman", first.FullName)
	assert.Equal(t, "asha@example.org", first.Email)
	assert.Equal(t, "CS", first.Department)
	require.NotNil(t, first.GradYear)
	assert.Equal(t, 2014, *first.GradYear)

	assert.Nil(t, res.Rows[1].GradYear)
}

func TestParseRejectsMissingColumns(t *testing.T) {
	_, err := Parse(strings.NewReader("name,email\nA,b@example.org\n"))
	require.ErrorIs(t, err, apperrors.ErrInvalidCSV)

	_, err = Parse(strings.NewReader(""))
	require.ErrorIs(t, err, apperrors.ErrInvalidCSV)
}

func TestPreviewIsCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("full_name,email\n")
	for i := 0; i < 75; i++ {
		fmt.Fprintf(&b, "Person %d,p%d@example.org\n", i, i)
	}

	res, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Len(t, res.Rows, 75)
	assert.Len(t, res.Preview(), PreviewLimit)
}

func TestSampleCSVRoundTripsThroughParse(t *testing.T) {
	res, err := Parse(bytes.NewReader(SampleCSV()))
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.Zero(t, res.Dropped)
}

func TestExportEscapesAndBlanksEmail(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewExportWriter(&buf)
	require.NoError(t, err)

	year := 2010
	require.NoError(t, w.Write([]models.ExportRow{
		{FullName: `Ravi "RK" Kumar`, GradYear: &year, Department: "Civil, Structural", Company: "Acme", Title: "PM", Location: "Pune"},
		{FullName: "No Year"},
	}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Email,Graduation Year,Department,Company,Title,Location", lines[0])
	assert.Equal(t, `"Ravi ""RK"" Kumar",,2010,"Civil, Structural",Acme,PM,Pune`, lines[1])
	assert.Equal(t, "No Year,,,,,,", lines[2])
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "alumni_export_2026-03-09.csv", ExportFilename(time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)))
}
