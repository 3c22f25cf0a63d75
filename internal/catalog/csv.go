package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	ColumnJobRole       = "Job Role"
	ColumnNOSCode       = "NOS Code"
	ColumnNOSName       = "NOS Name"
	ColumnPCCode        = "PC code"
	ColumnPCDescription = "PC Description"
)

var requiredColumns = []string{ColumnJobRole, ColumnNOSCode, ColumnNOSName, ColumnPCCode, ColumnPCDescription}

var ErrMissingColumns = errors.New("missing required columns")

// ReadCSV parses a catalog export. Header names match case-insensitively; extra columns are ignored
// and short lines read as blank cells.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumns)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	cell := func(record []string, col string) string {
		i := index[strings.ToLower(col)]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}

		rows = append(rows, Row{
			JobRole:       cell(record, ColumnJobRole),
			NOSCode:       cell(record, ColumnNOSCode),
			NOSName:       cell(record, ColumnNOSName),
			PCCode:        cell(record, ColumnPCCode),
			PCDescription: cell(record, ColumnPCDescription),
		})
	}

	return rows, nil
}
