package catalog

import (
	"fmt"
	"strings"

	"github.com/spigell/lexnorm/internal/model"
)

// Row is one tabular catalog line before forward-fill.
type Row struct {
	JobRole       string
	NOSCode       string
	NOSName       string
	PCCode        string
	PCDescription string
}

// Report summarizes a load. Errors holds one message per rejected row.
type Report struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// isBlank treats spreadsheet placeholders the same as empty cells.
func isBlank(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}

// Normalize forward-fills job role, NOS code and NOS name from the nearest preceding
// non-blank value in the same column, then rejects rows that still miss any field.
// Rows are numbered from firstLine for error messages.
func Normalize(rows []Row, firstLine int) ([]model.Standard, Report) {
	report := Report{Total: len(rows), Errors: []string{}}
	standards := make([]model.Standard, 0, len(rows))

	var lastRole, lastNOSCode, lastNOSName string
	for i, row := range rows {
		row.JobRole = fill(row.JobRole, &lastRole)
		row.NOSCode = fill(row.NOSCode, &lastNOSCode)
		row.NOSName = fill(row.NOSName, &lastNOSName)

		if missing := missingFields(row); len(missing) > 0 {
			report.Errors = append(report.Errors,
				fmt.Sprintf("row %d: missing required fields: %s", firstLine+i, strings.Join(missing, ", ")))
			continue
		}

		standards = append(standards, model.Standard{
			JobRole:       strings.TrimSpace(row.JobRole),
			NOSCode:       strings.TrimSpace(row.NOSCode),
			NOSName:       strings.TrimSpace(row.NOSName),
			PCCode:        strings.TrimSpace(row.PCCode),
			PCDescription: strings.TrimSpace(row.PCDescription),
		})
	}

	report.Imported = len(standards)

	return standards, report
}

func fill(value string, last *string) string {
	if isBlank(value) {
		return *last
	}
	*last = value
	return value
}

func missingFields(row Row) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"job_role", row.JobRole},
		{"nos_code", row.NOSCode},
		{"nos_name", row.NOSName},
		{"pc_code", row.PCCode},
		{"pc_description", row.PCDescription},
	} {
		if isBlank(f.value) {
			missing = append(missing, f.name)
		}
	}
	return missing
}
