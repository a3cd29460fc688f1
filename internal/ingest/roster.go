package ingest

import (
	"fmt"
	"sort"
	"strings"

	"sejong-dental-qr/internal/domain"
)

// RosterRow is one raw spreadsheet row before validation.
type RosterRow struct {
	Name     string
	Address  string
	Phone    string
	Director string
	Homepage string
}

// FieldWarning records an empty optional field for operator visibility.
type FieldWarning struct {
	ClinicName string
	Field      string
}

// Diagnostics collects non-fatal data-quality findings from one ingest pass.
// Returned instead of logged directly so the validation logic stays testable
// in isolation; the caller decides how to surface them.
type Diagnostics struct {
	DroppedEmptyNames int
	MissingFields     []FieldWarning
}

// BuildInputs turns raw roster rows into validated ClinicInput values.
//
// Rows whose name is empty after normalization are dropped and counted, not
// fatal. Duplicate normalized names are fatal: the name is the identity key,
// so the caller must resolve the ambiguity in the source spreadsheet.
func BuildInputs(rows []RosterRow) ([]domain.ClinicInput, Diagnostics, error) {
	var diags Diagnostics
	inputs := make([]domain.ClinicInput, 0, len(rows))

	for _, row := range rows {
		name := domain.NormalizeName(row.Name)
		if name == "" {
			diags.DroppedEmptyNames++
			continue
		}
		input := domain.ClinicInput{
			Name:     name,
			Address:  strings.TrimSpace(row.Address),
			Phone:    strings.TrimSpace(row.Phone),
			Director: strings.TrimSpace(row.Director),
			Homepage: strings.TrimSpace(row.Homepage),
		}
		for _, f := range []struct{ field, value string }{
			{"address", input.Address},
			{"phone", input.Phone},
			{"director", input.Director},
			{"homepage", input.Homepage},
		} {
			if f.value == "" {
				diags.MissingFields = append(diags.MissingFields, FieldWarning{ClinicName: name, Field: f.field})
			}
		}
		inputs = append(inputs, input)
	}

	if duplicates := findDuplicates(inputs); len(duplicates) > 0 {
		return nil, diags, fmt.Errorf("%w: after normalization: %s",
			domain.ErrDuplicateName, strings.Join(duplicates, ", "))
	}
	return inputs, diags, nil
}

func findDuplicates(inputs []domain.ClinicInput) []string {
	counts := make(map[string]int, len(inputs))
	for _, input := range inputs {
		counts[input.Name]++
	}
	var duplicates []string
	for name, count := range counts {
		if count > 1 {
			duplicates = append(duplicates, name)
		}
	}
	sort.Strings(duplicates)
	return duplicates
}
