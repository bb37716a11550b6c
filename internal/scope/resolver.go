package scope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	httperr "github.com/aevon-lab/insight/internal/core/errors"
	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/storage"
	"golang.org/x/sync/singleflight"
)

// Scope is the set of definitions a collection's reports may read. A nil
// *Scope places no ceiling.
type Scope struct {
	CollectionID string
	entries      map[string]report.CollectionScopeEntry
}

// NewScope indexes collection scope entries by their id.
func NewScope(collectionID string, entries []report.CollectionScopeEntry) *Scope {
	s := &Scope{CollectionID: collectionID, entries: make(map[string]report.CollectionScopeEntry, len(entries))}
	for _, e := range entries {
		s.entries[e.ID()] = e
	}
	return s
}

// Entry looks up the scope entry for a definition.
func (s *Scope) Entry(defType report.DefinitionType, key string) (report.CollectionScopeEntry, bool) {
	e, ok := s.entries[report.ScopeEntryID(defType, key)]
	return e, ok
}

// Resolved is a definition selection with selectors expanded to concrete
// versions and tenants.
type Resolved struct {
	Key         string
	DisplayName string
	Versions    []string
	TenantIDs   []string
}

// Resolver expands version selectors and narrows tenants. Identical store
// lookups that overlap in time share one call; nothing is kept afterwards.
type Resolver struct {
	definitions storage.DefinitionStore
	reports     storage.ReportRepository
	group       singleflight.Group
}

// NewResolver creates a resolver over the given stores.
func NewResolver(definitions storage.DefinitionStore, reports storage.ReportRepository) *Resolver {
	return &Resolver{definitions: definitions, reports: reports}
}

// LoadScope returns the scope of a collection, or nil when collectionID is empty.
func (r *Resolver) LoadScope(ctx context.Context, collectionID string) (*Scope, error) {
	if collectionID == "" {
		return nil, nil
	}
	v, err := r.shared(ctx, "scope|"+collectionID, func(ctx context.Context) (interface{}, error) {
		return r.reports.GetCollectionScope(ctx, collectionID)
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, httperr.NotFoundf("collection %q does not exist", collectionID)
		}
		return nil, httperr.Evaluationf(err, "load scope of collection %q", collectionID)
	}
	return NewScope(collectionID, v.([]report.CollectionScopeEntry)), nil
}

// ResolveVersions expands "all" and "latest" against the non-deleted versions of
// a definition and keeps requested concrete versions that exist. The result is
// ordered newest first.
func (r *Resolver) ResolveVersions(
	ctx context.Context,
	defType report.DefinitionType,
	key string,
	requested []string,
	scope *Scope,
) ([]string, error) {
	if err := checkInScope(scope, defType, key); err != nil {
		return nil, err
	}

	available, err := r.versions(ctx, defType, key)
	if err != nil {
		return nil, err
	}
	if report.HasSelector(requested, report.AllVersions) {
		return available, nil
	}

	present := make(map[string]struct{}, len(available))
	for _, v := range available {
		present[v] = struct{}{}
	}

	picked := make(map[string]struct{}, len(requested))
	out := []string{}
	add := func(v string) {
		if _, dup := picked[v]; dup {
			return
		}
		picked[v] = struct{}{}
		out = append(out, v)
	}

	for _, v := range requested {
		switch v {
		case report.LatestVersion:
			if latest := report.LatestOf(available); latest != "" {
				add(latest)
			}
		default:
			if _, ok := present[v]; ok {
				add(v)
				continue
			}
			r.logAbsentVersion(ctx, defType, key, v)
		}
	}

	report.SortVersionsDesc(out)
	return out, nil
}

// ResolveTenants returns the tenants owning any of versions, narrowed to
// requested (nil requests every tenant) and to the scope entry's tenants.
// Unassigned comes first, then ascending ids.
func (r *Resolver) ResolveTenants(
	ctx context.Context,
	defType report.DefinitionType,
	key string,
	versions []string,
	requested []string,
	scope *Scope,
) ([]string, error) {
	if err := checkInScope(scope, defType, key); err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return []string{}, nil
	}

	available, err := r.tenants(ctx, defType, key, versions)
	if err != nil {
		return nil, err
	}

	allowed := available
	if requested != nil {
		allowed = intersect(allowed, requested)
	}
	if scope != nil {
		entry, _ := scope.Entry(defType, key)
		if len(entry.TenantIDs) > 0 {
			allowed = intersect(allowed, entry.TenantIDs)
		}
	}
	return report.UniqueTenants(allowed), nil
}

// Resolve expands one definition selection of a report.
func (r *Resolver) Resolve(
	ctx context.Context,
	defType report.DefinitionType,
	selection report.DefinitionSelection,
	scope *Scope,
) (Resolved, error) {
	versions, err := r.ResolveVersions(ctx, defType, selection.Key, selection.Versions, scope)
	if err != nil {
		return Resolved{}, err
	}

	var requested []string
	if selection.TenantIDs != nil {
		requested = []string(selection.TenantIDs)
	}
	tenants, err := r.ResolveTenants(ctx, defType, selection.Key, versions, requested, scope)
	if err != nil {
		return Resolved{}, err
	}

	return Resolved{
		Key:         selection.Key,
		DisplayName: selection.DisplayName,
		Versions:    versions,
		TenantIDs:   tenants,
	}, nil
}

// Variables returns the variables declared by a resolved selection.
func (r *Resolver) Variables(ctx context.Context, defType report.DefinitionType, res Resolved) ([]report.VariableDescriptor, error) {
	if len(res.Versions) == 0 || len(res.TenantIDs) == 0 {
		return nil, nil
	}
	key := fmt.Sprintf("variables|%s|%s|%s|%s", defType, res.Key, strings.Join(res.Versions, ","), strings.Join(res.TenantIDs, ","))
	v, err := r.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		return r.definitions.GetVariables(ctx, defType, res.Key, res.Versions, res.TenantIDs)
	})
	if err != nil {
		return nil, httperr.Evaluationf(err, "load variables of %s", report.ScopeEntryID(defType, res.Key))
	}
	return v.([]report.VariableDescriptor), nil
}

// shared runs fn once for every overlapping caller of key. The lookup is
// detached from the cancellation of whichever caller started it; each caller
// stops waiting when its own ctx is done.
func (r *Resolver) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := r.group.DoChan(key, func() (interface{}, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Resolver) versions(ctx context.Context, defType report.DefinitionType, key string) ([]string, error) {
	v, err := r.shared(ctx, fmt.Sprintf("versions|%s|%s", defType, key), func(ctx context.Context) (interface{}, error) {
		return r.definitions.GetVersions(ctx, defType, key)
	})
	if err != nil {
		return nil, httperr.Evaluationf(err, "load versions of %s", report.ScopeEntryID(defType, key))
	}
	// Shared with concurrent callers.
	out := append([]string{}, v.([]string)...)
	report.SortVersionsDesc(out)
	return out, nil
}

func (r *Resolver) tenants(ctx context.Context, defType report.DefinitionType, key string, versions []string) ([]string, error) {
	sfKey := fmt.Sprintf("tenants|%s|%s|%s", defType, key, strings.Join(versions, ","))
	v, err := r.shared(ctx, sfKey, func(ctx context.Context) (interface{}, error) {
		return r.definitions.GetTenants(ctx, defType, key, versions)
	})
	if err != nil {
		return nil, httperr.Evaluationf(err, "load tenants of %s", report.ScopeEntryID(defType, key))
	}
	return append([]string{}, v.([]string)...), nil
}

func (r *Resolver) logAbsentVersion(ctx context.Context, defType report.DefinitionType, key, version string) {
	deleted, err := r.definitions.IsDeleted(ctx, defType, key, version)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		slog.Info("[Scope] Requested version does not exist", "definition", report.ScopeEntryID(defType, key), "version", version)
	case err != nil:
		slog.Warn("[Scope] Failed to check requested version", "definition", report.ScopeEntryID(defType, key), "version", version, "error", err)
	case deleted:
		slog.Info("[Scope] Requested version is deleted", "definition", report.ScopeEntryID(defType, key), "version", version)
	}
}

func checkInScope(scope *Scope, defType report.DefinitionType, key string) error {
	if scope == nil {
		return nil
	}
	if _, ok := scope.Entry(defType, key); !ok {
		return httperr.NotFoundf("definition %s is not in the scope of collection %q",
			report.ScopeEntryID(defType, key), scope.CollectionID)
	}
	return nil
}

func intersect(values, allowed []string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}
