package memory

import (
	"context"
	"testing"
	"time"

	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/storage"
	"github.com/stretchr/testify/require"
)

func seedDefinitions(t *testing.T, s *Store, defs ...report.Definition) {
	t.Helper()
	for i := range defs {
		require.NoError(t, s.SaveDefinition(context.Background(), &defs[i]))
	}
}

func TestStore_VersionsAndTenants(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedDefinitions(t, s,
		report.Definition{Type: report.DefinitionProcess, Key: "invoice", Version: "3", TenantID: "t2"},
		report.Definition{Type: report.DefinitionProcess, Key: "invoice", Version: "10", TenantID: "t1"},
		report.Definition{Type: report.DefinitionProcess, Key: "invoice", Version: "10", TenantID: ""},
		report.Definition{Type: report.DefinitionProcess, Key: "invoice", Version: "11", TenantID: "t3", Deleted: true},
		report.Definition{Type: report.DefinitionDecision, Key: "invoice", Version: "99"},
	)

	versions, err := s.GetVersions(ctx, report.DefinitionProcess, "invoice")
	require.NoError(t, err)
	require.Equal(t, []string{"10", "3"}, versions)

	tenants, err := s.GetTenants(ctx, report.DefinitionProcess, "invoice", []string{"10", "3", "11"})
	require.NoError(t, err)
	require.Equal(t, []string{"", "t1", "t2"}, tenants)

	deleted, err := s.IsDeleted(ctx, report.DefinitionProcess, "invoice", "11")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = s.IsDeleted(ctx, report.DefinitionProcess, "invoice", "10")
	require.NoError(t, err)
	require.False(t, deleted)

	_, err = s.IsDeleted(ctx, report.DefinitionProcess, "invoice", "12")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_GetVariables(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedDefinitions(t, s,
		report.Definition{Type: report.DefinitionProcess, Key: "invoice", Version: "1",
			Variables: []report.VariableDescriptor{{Name: "amount", Type: report.VariableDouble}}},
		report.Definition{Type: report.DefinitionProcess, Key: "invoice", Version: "2",
			Variables: []report.VariableDescriptor{{Name: "amount", Type: report.VariableDouble}, {Name: "approved", Type: report.VariableBoolean}}},
		report.Definition{Type: report.DefinitionProcess, Key: "invoice", Version: "2", TenantID: "t1",
			Variables: []report.VariableDescriptor{{Name: "secret", Type: report.VariableString}}},
	)

	vars, err := s.GetVariables(ctx, report.DefinitionProcess, "invoice", []string{"1", "2"}, []string{""})
	require.NoError(t, err)
	require.Equal(t, []report.VariableDescriptor{
		{Name: "amount", Type: report.VariableDouble},
		{Name: "approved", Type: report.VariableBoolean},
	}, vars)
}

func TestStore_FindInstances(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, inst := range []report.Instance{
		{ID: "a", DefinitionType: report.DefinitionProcess, DefinitionKey: "invoice", DefinitionVersion: "1", StartDate: base},
		{ID: "b", DefinitionType: report.DefinitionProcess, DefinitionKey: "invoice", DefinitionVersion: "2", StartDate: base.Add(time.Hour)},
		{ID: "c", DefinitionType: report.DefinitionProcess, DefinitionKey: "invoice", DefinitionVersion: "2", TenantID: "t1", StartDate: base},
		{ID: "d", DefinitionType: report.DefinitionProcess, DefinitionKey: "other", DefinitionVersion: "1", StartDate: base},
	} {
		inst := inst
		require.NoError(t, s.SaveInstance(ctx, &inst))
	}

	found, err := s.FindInstances(ctx, storage.InstanceQuery{
		DefinitionType: report.DefinitionProcess,
		DefinitionKey:  "invoice",
		Versions:       []string{"1", "2"},
		TenantIDs:      []string{""},
	})
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, "b", found[0].ID)
	require.Equal(t, "a", found[1].ID)
}

func TestStore_Reports(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	s.PutReport(&report.ReportDefinition{ID: "r1", Name: "single"})
	s.PutCombinedReport(&report.CombinedReportDefinition{ID: "c1", Combined: true, Reports: []string{"r1"}})
	s.PutCollection("col", []report.CollectionScopeEntry{{DefinitionType: report.DefinitionProcess, DefinitionKey: "invoice"}})
	s.PutCollection("empty", nil)

	got, err := s.GetReport(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, "single", got.Single.Name)

	got, err = s.GetReport(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, []string{"r1"}, got.Combined.Reports)

	_, err = s.GetReport(ctx, "nope")
	require.ErrorIs(t, err, storage.ErrNotFound)

	scope, err := s.GetCollectionScope(ctx, "col")
	require.NoError(t, err)
	require.Len(t, scope, 1)

	scope, err = s.GetCollectionScope(ctx, "empty")
	require.NoError(t, err)
	require.Empty(t, scope)

	_, err = s.GetCollectionScope(ctx, "unknown")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
