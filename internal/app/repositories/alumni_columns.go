package repositories

import (
	"fmt"

	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// fieldColumns is the column order shared by staged_alumni_details and alumni_details
var fieldColumns = []string{
	"headline", "bio", "grad_year", "department", "current_company", "current_title",
	"location", "father_name", "primary_mobile", "whatsapp_number",
	"linkedin_url", "twitter_url", "facebook_url", "instagram_url", "github_url", "website_url",
}

var identifierColumns = []string{
	"enrollment_number", "roll_number", "registration_number", "certificate_number",
}

// selectColumns qualifies cols with alias and COALESCEs nullable text to ''
func selectColumns(alias string, cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		if col == "grad_year" {
			out = append(out, fmt.Sprintf("%s.%s", alias, col))
			continue
		}
		out = append(out, fmt.Sprintf("COALESCE(%s.%s, '')", alias, col))
	}
	return out
}

func fieldDest(f *models.AlumniFields) []any {
	return []any{
		&f.Headline, &f.Bio, &f.GradYear, &f.Department, &f.CurrentCompany, &f.CurrentTitle,
		&f.Location, &f.FatherName, &f.PrimaryMobile, &f.WhatsappNumber,
		&f.LinkedinURL, &f.TwitterURL, &f.FacebookURL, &f.InstagramURL, &f.GithubURL, &f.WebsiteURL,
	}
}

func identifierDest(i *models.Identifiers) []any {
	return []any{&i.EnrollmentNumber, &i.RollNumber, &i.RegistrationNumber, &i.CertificateNumber}
}

// fieldValues is fieldColumns' write side; blank strings become NULL
func fieldValues(f models.AlumniFields) []any {
	return []any{
		helpers.NullIfEmpty(f.Headline), helpers.NullIfEmpty(f.Bio), f.GradYear,
		helpers.NullIfEmpty(f.Department), helpers.NullIfEmpty(f.CurrentCompany), helpers.NullIfEmpty(f.CurrentTitle),
		helpers.NullIfEmpty(f.Location), helpers.NullIfEmpty(f.FatherName),
		helpers.NullIfEmpty(f.PrimaryMobile), helpers.NullIfEmpty(f.WhatsappNumber),
		helpers.NullIfEmpty(f.LinkedinURL), helpers.NullIfEmpty(f.TwitterURL), helpers.NullIfEmpty(f.FacebookURL),
		helpers.NullIfEmpty(f.InstagramURL), helpers.NullIfEmpty(f.GithubURL), helpers.NullIfEmpty(f.WebsiteURL),
	}
}

func identifierValues(i models.Identifiers) []any {
	return []any{
		helpers.NullIfEmpty(i.EnrollmentNumber), helpers.NullIfEmpty(i.RollNumber),
		helpers.NullIfEmpty(i.RegistrationNumber), helpers.NullIfEmpty(i.CertificateNumber),
	}
}

// excludedAssignments builds "col = EXCLUDED.col" for an ON CONFLICT DO UPDATE clause
func excludedAssignments(cols []string) string {
	out := ""
	for i, col := range cols {
		if i > 0 {
			out += ", "
		}
		out += col + " = EXCLUDED." + col
	}
	return out
}
