package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/storage"
)

type definitionKey struct {
	defType report.DefinitionType
	key     string
	version string
	tenant  string
}

// Store is an in-memory implementation of the definition, instance and report stores.
// Useful for testing and development.
type Store struct {
	mu          sync.RWMutex
	definitions map[definitionKey]report.Definition
	instances   map[string]report.Instance
	reports     map[string]report.StoredReport
	collections map[string][]report.CollectionScopeEntry
}

var (
	_ storage.DefinitionStore  = (*Store)(nil)
	_ storage.InstanceStore    = (*Store)(nil)
	_ storage.ReportRepository = (*Store)(nil)
)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		definitions: make(map[definitionKey]report.Definition),
		instances:   make(map[string]report.Instance),
		reports:     make(map[string]report.StoredReport),
		collections: make(map[string][]report.CollectionScopeEntry),
	}
}

func (s *Store) GetVersions(ctx context.Context, defType report.DefinitionType, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	versions := []string{}
	for k, def := range s.definitions {
		if k.defType != defType || k.key != key || def.Deleted {
			continue
		}
		if _, ok := seen[k.version]; ok {
			continue
		}
		seen[k.version] = struct{}{}
		versions = append(versions, k.version)
	}
	report.SortVersionsDesc(versions)
	return versions, nil
}

func (s *Store) GetTenants(ctx context.Context, defType report.DefinitionType, key string, versions []string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := toSet(versions)
	var tenants []string
	for k, def := range s.definitions {
		if k.defType != defType || k.key != key || def.Deleted {
			continue
		}
		if _, ok := wanted[k.version]; !ok {
			continue
		}
		tenants = append(tenants, k.tenant)
	}
	return report.UniqueTenants(tenants), nil
}

func (s *Store) IsDeleted(ctx context.Context, defType report.DefinitionType, key, version string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := false
	for k, def := range s.definitions {
		if k.defType != defType || k.key != key || k.version != version {
			continue
		}
		found = true
		if !def.Deleted {
			return false, nil
		}
	}
	if !found {
		return false, storage.ErrNotFound
	}
	return true, nil
}

func (s *Store) GetVariables(ctx context.Context, defType report.DefinitionType, key string, versions, tenants []string) ([]report.VariableDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wantVersions, wantTenants := toSet(versions), toSet(tenants)

	// Iterate in a stable order so results do not depend on map layout.
	keys := make([]definitionKey, 0, len(s.definitions))
	for k := range s.definitions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c := report.CompareVersions(keys[i].version, keys[j].version); c != 0 {
			return c < 0
		}
		return keys[i].tenant < keys[j].tenant
	})

	seen := make(map[report.VariableDescriptor]struct{})
	out := []report.VariableDescriptor{}
	for _, k := range keys {
		def := s.definitions[k]
		if k.defType != defType || k.key != key || def.Deleted {
			continue
		}
		if _, ok := wantVersions[k.version]; !ok {
			continue
		}
		if _, ok := wantTenants[k.tenant]; !ok {
			continue
		}
		for _, v := range def.Variables {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Store) SaveDefinition(ctx context.Context, def *report.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent external modification
	copy := *def
	copy.Variables = append([]report.VariableDescriptor(nil), def.Variables...)
	s.definitions[definitionKey{defType: def.Type, key: def.Key, version: def.Version, tenant: def.TenantID}] = copy
	return nil
}

func (s *Store) FindInstances(ctx context.Context, q storage.InstanceQuery) ([]*report.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, tenants := toSet(q.Versions), toSet(q.TenantIDs)
	var out []*report.Instance
	for _, inst := range s.instances {
		if inst.DefinitionType != q.DefinitionType || inst.DefinitionKey != q.DefinitionKey {
			continue
		}
		if _, ok := versions[inst.DefinitionVersion]; !ok {
			continue
		}
		if _, ok := tenants[inst.TenantID]; !ok {
			continue
		}
		copy := inst
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) SaveInstance(ctx context.Context, inst *report.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.instances[inst.ID] = *inst
	return nil
}

func (s *Store) GetReport(ctx context.Context, id string) (*report.StoredReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &r, nil
}

func (s *Store) GetCollectionScope(ctx context.Context, collectionID string) ([]report.CollectionScopeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.collections[collectionID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]report.CollectionScopeEntry{}, entries...), nil
}

// PutReport stores a single report under its id.
func (s *Store) PutReport(r *report.ReportDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *r
	s.reports[r.ID] = report.StoredReport{Single: &copy}
}

// PutCombinedReport stores a combined report under its id.
func (s *Store) PutCombinedReport(r *report.CombinedReportDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *r
	s.reports[r.ID] = report.StoredReport{Combined: &copy}
}

// PutCollection replaces the scope of a collection. A nil scope creates an empty collection.
func (s *Store) PutCollection(collectionID string, scope []report.CollectionScopeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[collectionID] = append([]report.CollectionScopeEntry{}, scope...)
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
