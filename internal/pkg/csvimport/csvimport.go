// Package csvimport reads alumni spreadsheets into import rows and writes the
// directory export.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// PreviewLimit caps how many parsed rows a preview returns
const PreviewLimit = 50

// Columns is the import schema, in sample-file order
var Columns = []string{
	"full_name", "email", "headline", "bio", "grad_year", "department", "company", "role",
	"location", "father_name", "primary_mobile", "whatsapp_number", "linkedin_url",
	"twitter_url", "facebook_url", "instagram_url", "github_url", "website_url",
}

// Result is the outcome of parsing one file
type Result struct {
	Rows    []models.ImportRow
	Dropped int
}

// Parse reads a CSV with a header row. Cells are trimmed and headers matched
// case-insensitively; rows without a full_name or email are dropped and counted.
func Parse(r io.Reader) (*Result, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	header, err := rd.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", apperrors.ErrInvalidCSV)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidCSV, err)
	}

	idx := createIndexer(header)
	if _, ok := idx["full_name"]; !ok {
		return nil, fmt.Errorf("%w: missing full_name column", apperrors.ErrInvalidCSV)
	}
	if _, ok := idx["email"]; !ok {
		return nil, fmt.Errorf("%w: missing email column", apperrors.ErrInvalidCSV)
	}

	res := &Result{Rows: make([]models.ImportRow, 0)}
	line := 1
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", apperrors.ErrInvalidCSV, line, err)
		}

		row := rowFromRecord(rec, idx)
		if row.FullName == "" || row.Email == "" {
			res.Dropped++
			continue
		}
		res.Rows = append(res.Rows, row)
	}

	return res, nil
}

// Preview returns at most PreviewLimit rows of a parse result
func (r *Result) Preview() []models.ImportRow {
	if len(r.Rows) <= PreviewLimit {
		return r.Rows
	}
	return r.Rows[:PreviewLimit]
}

func rowFromRecord(rec []string, idx map[string]int) models.ImportRow {
	return models.ImportRow{
		FullName:       get(rec, idx, "full_name"),
		Email:          strings.ToLower(get(rec, idx, "email")),
		Headline:       get(rec, idx, "headline"),
		Bio:            get(rec, idx, "bio"),
		GradYear:       helpers.ParseYear(get(rec, idx, "grad_year")),
		Department:     get(rec, idx, "department"),
		Company:        get(rec, idx, "company"),
		Role:           get(rec, idx, "role"),
		Location:       get(rec, idx, "location"),
		FatherName:     get(rec, idx, "father_name"),
		PrimaryMobile:  get(rec, idx, "primary_mobile"),
		WhatsappNumber: get(rec, idx, "whatsapp_number"),
		LinkedinURL:    get(rec, idx, "linkedin_url"),
		TwitterURL:     get(rec, idx, "twitter_url"),
		FacebookURL:    get(rec, idx, "facebook_url"),
		InstagramURL:   get(rec, idx, "instagram_url"),
		GithubURL:      get(rec, idx, "github_url"),
		WebsiteURL:     get(rec, idx, "website_url"),
	}
}

func createIndexer(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

func get(rec []string, idx map[string]int, key string) string {
	i, ok := idx[key]
	if !ok || i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// SampleCSV is the downloadable template: header plus two example rows
func SampleCSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(Columns)
	_ = w.Write([]string{
		"Asha Raman", "asha.raman@example.org", "Platform engineer", "Builds data pipelines.", "2014",
		"Computer Science", "Acme Corp", "Staff Engineer", "Bengaluru", "", "", "",
		"https://www.linkedin.com/in/asharaman", "", "", "", "https://github.com/asharaman", "",
	})
	_ = w.Write([]string{
		"Daniel Okafor", "daniel.okafor@example.org", "", "", "2018",
		"Mechanical Engineering", "Globex", "Design Engineer", "Lagos", "", "", "",
		"", "", "", "", "", "https://danielokafor.dev",
	})
	w.Flush()
	return buf.Bytes()
}

// ExportHeader is the first line of the alumni export. Email is always blank.
var ExportHeader = []string{"Name", "Email", "Graduation Year", "Department", "Company", "Title", "Location"}

// ExportWriter streams export rows
type ExportWriter struct {
	w *csv.Writer
}

// NewExportWriter writes the header and returns a writer for the rows
func NewExportWriter(out io.Writer) (*ExportWriter, error) {
	w := csv.NewWriter(out)
	if err := w.Write(ExportHeader); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return &ExportWriter{w: w}, nil
}

// Write appends rows; csv.Writer does the quoting
func (e *ExportWriter) Write(rows []models.ExportRow) error {
	for _, r := range rows {
		year := ""
		if r.GradYear != nil {
			year = strconv.Itoa(*r.GradYear)
		}
		if err := e.w.Write([]string{r.FullName, "", year, r.Department, r.Company, r.Title, r.Location}); err != nil {
			return err
		}
	}
	e.w.Flush()
	return e.w.Error()
}

// ExportFilename is the attachment name for an export taken at t
func ExportFilename(t time.Time) string {
	return "alumni_export_" + t.Format("2006-01-02") + ".csv"
}
