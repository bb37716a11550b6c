package report

import (
	"sort"
	"strings"
)

// Version selectors accepted in DefinitionSelection.Versions besides concrete versions.
const (
	AllVersions   = "all"
	LatestVersion = "latest"
)

// HasSelector reports whether versions contains the given sentinel selector.
func HasSelector(versions []string, selector string) bool {
	for _, v := range versions {
		if v == selector {
			return true
		}
	}
	return false
}

// CompareVersions orders version strings numerically when both are digit strings
// ("200" > "30" > "3"). Numeric versions rank above non-numeric ones; two
// non-numeric versions compare lexicographically.
func CompareVersions(a, b string) int {
	an, bn := isDigits(a), isDigits(b)
	switch {
	case an && bn:
		a, b = trimLeadingZeros(a), trimLeadingZeros(b)
		if len(a) != len(b) {
			if len(a) < len(b) {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	case an:
		return 1
	case bn:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

// SortVersionsDesc sorts versions from highest to lowest.
func SortVersionsDesc(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return CompareVersions(versions[i], versions[j]) > 0
	})
}

// LatestOf returns the highest version, or "" for an empty list.
func LatestOf(versions []string) string {
	latest := ""
	for i, v := range versions {
		if i == 0 || CompareVersions(v, latest) > 0 {
			latest = v
		}
	}
	return latest
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func trimLeadingZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" {
		return "0"
	}
	return t
}
