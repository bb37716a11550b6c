package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/storage"
	"github.com/lib/pq"
)

// DefinitionAdapter implements storage.DefinitionStore on the definitions table.
type DefinitionAdapter struct {
	db    *sql.DB
	nowFn func() time.Time
}

var _ storage.DefinitionStore = (*DefinitionAdapter)(nil)

// NewDefinitionAdapter creates a definition store sharing db.
func NewDefinitionAdapter(db *sql.DB) *DefinitionAdapter {
	return &DefinitionAdapter{db: db, nowFn: time.Now}
}

// GetVersions returns non-deleted versions ordered from highest to lowest.
func (a *DefinitionAdapter) GetVersions(ctx context.Context, defType report.DefinitionType, key string) ([]string, error) {
	versions, err := a.queryStrings(ctx, queryGetVersions, defType, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	report.SortVersionsDesc(versions)
	return versions, nil
}

// GetTenants returns the tenants owning any of versions, unassigned first.
func (a *DefinitionAdapter) GetTenants(ctx context.Context, defType report.DefinitionType, key string, versions []string) ([]string, error) {
	if len(versions) == 0 {
		return []string{}, nil
	}
	tenants, err := a.queryStrings(ctx, queryGetTenants, defType, key, pq.Array(versions))
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	report.SortTenants(tenants)
	return tenants, nil
}

func (a *DefinitionAdapter) IsDeleted(ctx context.Context, defType report.DefinitionType, key, version string) (bool, error) {
	var count int64
	var deleted bool
	err := a.db.QueryRowContext(ctx, queryIsDeleted, defType, key, version).Scan(&count, &deleted)
	if err != nil {
		return false, fmt.Errorf("failed to query deleted flag: %w", err)
	}
	if count == 0 {
		return false, storage.ErrNotFound
	}
	return deleted, nil
}

// GetVariables merges the variable declarations of the selected definitions.
// Each (name, type) pair is returned once, in first-seen order.
func (a *DefinitionAdapter) GetVariables(ctx context.Context, defType report.DefinitionType, key string, versions, tenants []string) ([]report.VariableDescriptor, error) {
	if len(versions) == 0 || len(tenants) == 0 {
		return []report.VariableDescriptor{}, nil
	}

	rows, err := a.db.QueryContext(ctx, queryGetVariables, defType, key, pq.Array(versions), pq.Array(tenants))
	if err != nil {
		return nil, fmt.Errorf("failed to query variables: %w", err)
	}
	defer rows.Close()

	seen := make(map[report.VariableDescriptor]struct{})
	out := []report.VariableDescriptor{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan variables: %w", err)
		}
		var vars []report.VariableDescriptor
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &vars); err != nil {
				return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
			}
		}
		for _, v := range vars {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variables: %w", err)
	}
	return out, nil
}

// SaveDefinition upserts one definition row.
func (a *DefinitionAdapter) SaveDefinition(ctx context.Context, def *report.Definition) error {
	variables := def.Variables
	if variables == nil {
		variables = []report.VariableDescriptor{}
	}
	variablesJSON, err := json.Marshal(variables)
	if err != nil {
		return fmt.Errorf("failed to marshal variables: %w", err)
	}

	_, err = a.db.ExecContext(ctx, queryUpsertDefinition,
		def.Type,
		def.Key,
		def.Version,
		def.TenantID,
		def.Name,
		def.Deleted,
		variablesJSON,
		a.nowFn().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save definition: %w", err)
	}

	slog.Debug("[Postgres] Saved definition",
		"type", def.Type,
		"key", def.Key,
		"version", def.Version,
		"tenant_id", def.TenantID,
		"deleted", def.Deleted)
	return nil
}

func (a *DefinitionAdapter) queryStrings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
