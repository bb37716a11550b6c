package report

import (
	"encoding/json"
	"sort"
)

// NoTenant marks data without an explicit tenant assignment ("not defined").
// It travels as JSON null.
const NoTenant = ""

// Tenants is a list of tenant ids in which NoTenant encodes as null.
type Tenants []string

func (t Tenants) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	out := make([]*string, len(t))
	for i := range t {
		if t[i] == NoTenant {
			continue
		}
		id := t[i]
		out[i] = &id
	}
	return json.Marshal(out)
}

func (t *Tenants) UnmarshalJSON(b []byte) error {
	var raw []*string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*t = nil
		return nil
	}
	out := make(Tenants, len(raw))
	for i, id := range raw {
		if id != nil {
			out[i] = *id
		}
	}
	*t = out
	return nil
}

// Contains reports whether id is in the list.
func (t Tenants) Contains(id string) bool {
	for _, candidate := range t {
		if candidate == id {
			return true
		}
	}
	return false
}

// SortTenants orders tenant ids with NoTenant first, then ascending.
func SortTenants(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		if ids[i] == NoTenant || ids[j] == NoTenant {
			return ids[i] == NoTenant && ids[j] != NoTenant
		}
		return ids[i] < ids[j]
	})
}

// UniqueTenants drops duplicates and returns the ids in tenant order.
func UniqueTenants(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	SortTenants(out)
	return out
}
