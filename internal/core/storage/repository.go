package storage

import (
	"context"
	"errors"

	"github.com/aevon-lab/insight/internal/core/report"
)

// ErrNotFound is returned when a report, collection or definition version does not exist.
var ErrNotFound = errors.New("not found")

// DefinitionStore serves process and decision definitions. Deleted definitions
// are hidden from every listing.
type DefinitionStore interface {
	// GetVersions returns the non-deleted versions of a definition key.
	GetVersions(ctx context.Context, defType report.DefinitionType, key string) ([]string, error)

	// GetTenants returns the tenants owning any of versions. NoTenant stands for unassigned.
	GetTenants(ctx context.Context, defType report.DefinitionType, key string, versions []string) ([]string, error)

	// IsDeleted reports whether a version exists only as deleted. Returns ErrNotFound for unknown versions.
	IsDeleted(ctx context.Context, defType report.DefinitionType, key, version string) (bool, error)

	// GetVariables returns the variables declared across the given versions and tenants.
	GetVariables(ctx context.Context, defType report.DefinitionType, key string, versions, tenants []string) ([]report.VariableDescriptor, error)

	// SaveDefinition inserts or replaces one (type, key, version, tenant) definition.
	SaveDefinition(ctx context.Context, def *report.Definition) error
}

// InstanceQuery selects the instances of one definition key.
type InstanceQuery struct {
	DefinitionType report.DefinitionType
	DefinitionKey  string
	Versions       []string
	TenantIDs      []string
}

// InstanceStore serves process and decision instances.
type InstanceStore interface {
	// FindInstances returns instances matching the query ordered by start date descending.
	FindInstances(ctx context.Context, q InstanceQuery) ([]*report.Instance, error)

	// SaveInstance inserts or replaces an instance by id.
	SaveInstance(ctx context.Context, inst *report.Instance) error
}

// ReportRepository serves persisted reports and collection scopes.
type ReportRepository interface {
	// GetReport returns a single or combined report. Returns ErrNotFound for unknown ids.
	GetReport(ctx context.Context, id string) (*report.StoredReport, error)

	// GetCollectionScope returns the scope entries of a collection. Returns ErrNotFound for unknown collections.
	GetCollectionScope(ctx context.Context, collectionID string) ([]report.CollectionScopeEntry, error)
}
