package aggregation

import "fmt"

// Supported aggregation operators.
const (
	OpCount = "count"
	OpSum   = "sum"
	OpMin   = "min"
	OpMax   = "max"
	OpAvg   = "avg"
)

// DefaultOperator applies to duration and variable views without configured aggregation types.
const DefaultOperator = OpAvg

// avgPrecision is the number of decimal places kept when averaging.
const avgPrecision = 3

// ParseOperators validates configured aggregation types, drops duplicates and
// falls back to DefaultOperator for an empty list.
func ParseOperators(types []string) ([]string, error) {
	if len(types) == 0 {
		return []string{DefaultOperator}, nil
	}
	seen := make(map[string]struct{}, len(types))
	ops := make([]string, 0, len(types))
	for _, t := range types {
		if !ValidOperator(t) {
			return nil, fmt.Errorf("unknown aggregation type %q", t)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		ops = append(ops, t)
	}
	return ops, nil
}
