package filter

import (
	"log/slog"

	httperr "github.com/aevon-lab/insight/internal/core/errors"
	"github.com/aevon-lab/insight/internal/core/report"
)

// VariableSet holds the variables declared by the definitions a report reads.
type VariableSet map[report.VariableDescriptor]struct{}

// NewVariableSet builds a set from store descriptors.
func NewVariableSet(descs []report.VariableDescriptor) VariableSet {
	set := make(VariableSet, len(descs))
	for _, d := range descs {
		set[d] = struct{}{}
	}
	return set
}

// Has reports whether a variable with this exact name and type is declared.
func (s VariableSet) Has(name string, t report.VariableType) bool {
	_, ok := s[report.VariableDescriptor{Name: name, Type: t}]
	return ok
}

// Result carries the filters evaluation should apply. Persisted is kept apart
// for the unfiltered instance count.
type Result struct {
	Effective report.Filters
	Persisted report.Filters
}

// Normalize merges a report's persisted filters with request-supplied ones.
//
// Additional variable filters naming a variable the definitions do not declare,
// or declaring it with another type, are dropped. Decision reports ignore
// additional filters. Duplicates are removed by structural equality.
func Normalize(
	persisted, additional report.Filters,
	definitionCount int,
	reportType report.DefinitionType,
	variables VariableSet,
) (Result, error) {
	if err := checkAppliedTo(persisted, definitionCount); err != nil {
		return Result{}, err
	}

	if reportType == report.DefinitionDecision && len(additional) > 0 {
		slog.Debug("[Filter] Ignoring additional filters on decision report", "count", len(additional))
		additional = nil
	}

	kept := make(report.Filters, 0, len(additional))
	for _, f := range additional {
		if v, ok := f.(report.VariableFilter); ok && !variables.Has(v.Name, v.VarType) {
			slog.Debug("[Filter] Dropping variable filter for undeclared variable",
				"variable", v.Name,
				"type", v.VarType)
			continue
		}
		kept = append(kept, f)
	}
	if err := checkAppliedTo(kept, definitionCount); err != nil {
		return Result{}, err
	}

	seen := make(map[string]struct{}, len(persisted)+len(kept))
	effective := make(report.Filters, 0, len(persisted)+len(kept))
	for _, f := range append(append(report.Filters{}, persisted...), kept...) {
		key := report.FilterKey(f)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		effective = append(effective, f)
	}

	return Result{
		Effective: effective,
		Persisted: append(report.Filters{}, persisted...),
	}, nil
}

func checkAppliedTo(filters report.Filters, definitionCount int) error {
	for _, f := range filters {
		for _, idx := range f.AppliesTo() {
			if idx < 0 || idx >= definitionCount {
				return httperr.Validationf("invalid appliedTo index %d for %s filter (report has %d definitions)",
					idx, f.Type(), definitionCount)
			}
		}
	}
	return nil
}
