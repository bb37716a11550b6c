package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/storage"
	"github.com/lib/pq"
)

// ReportAdapter implements storage.ReportRepository on the reports and collection tables.
type ReportAdapter struct {
	db *sql.DB
}

var _ storage.ReportRepository = (*ReportAdapter)(nil)

func NewReportAdapter(db *sql.DB) *ReportAdapter {
	return &ReportAdapter{db: db}
}

// GetReport loads the report document stored under id.
func (a *ReportAdapter) GetReport(ctx context.Context, id string) (*report.StoredReport, error) {
	var raw []byte
	err := a.db.QueryRowContext(ctx, queryGetReport, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	return report.DecodeStoredReport(raw)
}

// GetCollectionScope returns every scope entry of a collection.
// An existing collection without entries yields an empty scope.
func (a *ReportAdapter) GetCollectionScope(ctx context.Context, collectionID string) ([]report.CollectionScopeEntry, error) {
	var exists bool
	if err := a.db.QueryRowContext(ctx, queryCollectionExists, collectionID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	if !exists {
		return nil, storage.ErrNotFound
	}

	rows, err := a.db.QueryContext(ctx, queryGetCollectionScope, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection scope: %w", err)
	}
	defer rows.Close()

	entries := []report.CollectionScopeEntry{}
	for rows.Next() {
		var entry report.CollectionScopeEntry
		var tenants pq.StringArray
		if err := rows.Scan(&entry.DefinitionType, &entry.DefinitionKey, &tenants); err != nil {
			return nil, fmt.Errorf("failed to scan scope entry: %w", err)
		}
		entry.TenantIDs = report.Tenants(tenants)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scope entries: %w", err)
	}
	return entries, nil
}
