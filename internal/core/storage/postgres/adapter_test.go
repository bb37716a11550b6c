package postgres

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/storage"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestAdapter_SaveInstance(t *testing.T) {
	start := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name       string
		inst       *report.Instance
		mockResult func(mock sqlmock.Sqlmock, inst *report.Instance)
		assertions func(t *testing.T, err error)
	}{
		{
			name: "completed instance",
			inst: &report.Instance{
				ID:                "pi-1",
				DefinitionType:    report.DefinitionProcess,
				DefinitionKey:     "invoice",
				DefinitionVersion: "3",
				TenantID:          "t1",
				State:             report.StateCompleted,
				StartDate:         start,
				EndDate:           &end,
				Variables:         []report.VariableValue{{Name: "amount", Type: report.VariableDouble, Value: 12.5}},
			},
			mockResult: func(mock sqlmock.Sqlmock, inst *report.Instance) {
				mock.ExpectExec(regexp.QuoteMeta(queryUpsertInstance)).
					WithArgs(
						inst.ID,
						inst.DefinitionType,
						inst.DefinitionKey,
						inst.DefinitionVersion,
						inst.TenantID,
						inst.State,
						inst.StartDate,
						end,
						[]byte(`[{"name":"amount","type":"Double","value":12.5}]`),
						[]byte(`[]`),
					).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "running instance stores null end date",
			inst: &report.Instance{
				ID:                "pi-2",
				DefinitionType:    report.DefinitionProcess,
				DefinitionKey:     "invoice",
				DefinitionVersion: "3",
				State:             report.StateActive,
				StartDate:         start,
			},
			mockResult: func(mock sqlmock.Sqlmock, inst *report.Instance) {
				mock.ExpectExec(regexp.QuoteMeta(queryUpsertInstance)).
					WithArgs(
						inst.ID,
						inst.DefinitionType,
						inst.DefinitionKey,
						inst.DefinitionVersion,
						report.NoTenant,
						inst.State,
						inst.StartDate,
						nil,
						sqlmock.AnyArg(),
						sqlmock.AnyArg(),
					).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "marshal error short-circuits",
			inst: &report.Instance{
				ID:        "pi-bad",
				StartDate: start,
				Variables: []report.VariableValue{{Name: "x", Type: report.VariableDouble, Value: math.NaN()}},
			},
			assertions: func(t *testing.T, err error) {
				require.ErrorContains(t, err, "failed to marshal variables")
			},
		},
		{
			name: "exec error is wrapped",
			inst: &report.Instance{ID: "pi-3", StartDate: start},
			mockResult: func(mock sqlmock.Sqlmock, inst *report.Instance) {
				mock.ExpectExec(regexp.QuoteMeta(queryUpsertInstance)).
					WillReturnError(errors.New("connection reset"))
			},
			assertions: func(t *testing.T, err error) {
				require.ErrorContains(t, err, "failed to save instance")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adapter, mock, db := newMockAdapter(t)
			defer db.Close()

			if tc.mockResult != nil {
				tc.mockResult(mock, tc.inst)
			}

			err := adapter.SaveInstance(context.Background(), tc.inst)
			tc.assertions(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdapter_FindInstances(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	start := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(queryFindInstances)).
		WithArgs(report.DefinitionProcess, "invoice", pq.Array([]string{"2", "1"}), pq.Array([]string{"", "t1"})).
		WillReturnRows(sqlmock.NewRows(instanceRowColumns()).
			AddRow(
				"pi-2", "process", "invoice", "2", "t1", "COMPLETED",
				start.Add(time.Hour), end.Add(time.Hour),
				[]byte(`[{"name":"amount","type":"Integer","value":7}]`),
				[]byte(`[{"id":"task-1","assignee":"demo","candidateGroups":["sales"],"startDate":"2026-02-08T11:00:00Z"}]`),
			).
			AddRow(
				"pi-1", "process", "invoice", "1", "", "ACTIVE",
				start, nil, []byte(`[]`), []byte(`[]`),
			),
		).RowsWillBeClosed()

	instances, err := adapter.FindInstances(context.Background(), storage.InstanceQuery{
		DefinitionType: report.DefinitionProcess,
		DefinitionKey:  "invoice",
		Versions:       []string{"2", "1"},
		TenantIDs:      []string{"", "t1"},
	})
	require.NoError(t, err)
	require.Len(t, instances, 2)

	require.Equal(t, "pi-2", instances[0].ID)
	require.Equal(t, report.StateCompleted, instances[0].State)
	require.NotNil(t, instances[0].EndDate)
	require.Equal(t, float64(7), instances[0].Variables[0].Value)
	require.Equal(t, "demo", instances[0].UserTasks[0].Assignee)

	require.Equal(t, "pi-1", instances[1].ID)
	require.Equal(t, report.NoTenant, instances[1].TenantID)
	require.Nil(t, instances[1].EndDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_FindInstancesSkipsEmptyScope(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	instances, err := adapter.FindInstances(context.Background(), storage.InstanceQuery{
		DefinitionType: report.DefinitionProcess,
		DefinitionKey:  "invoice",
		Versions:       []string{"1"},
	})
	require.NoError(t, err)
	require.Empty(t, instances)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(querySchemaTables)).
		WithArgs(pq.Array(requiredTables)).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).
			AddRow("definitions").
			AddRow("instances").
			AddRow("reports"))

	err = validateSchema(db)
	require.ErrorContains(t, err, "missing tables: collections, collection_scopes")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_CloseReturnsDBCloseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dbCloseErr := errors.New("db close failed")

	mock.ExpectPrepare(regexp.QuoteMeta(queryFindInstances)).WillBeClosed()
	stmtFind, err := db.Prepare(queryFindInstances)
	require.NoError(t, err)

	mock.ExpectPrepare(regexp.QuoteMeta(queryUpsertInstance)).WillBeClosed()
	stmtSave, err := db.Prepare(queryUpsertInstance)
	require.NoError(t, err)

	mock.ExpectClose().WillReturnError(dbCloseErr)

	adapter := &Adapter{
		db:                db,
		stmtFindInstances: stmtFind,
		stmtSaveInstance:  stmtSave,
	}

	err = adapter.Close()
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to close database")
	require.ErrorIs(t, err, dbCloseErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	adapter := &Adapter{
		db:                db,
		stmtFindInstances: mustPrepareStmt(t, db, mock, queryFindInstances),
		stmtSaveInstance:  mustPrepareStmt(t, db, mock, queryUpsertInstance),
	}

	return adapter, mock, db
}

func mustPrepareStmt(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock, query string) *sql.Stmt {
	t.Helper()

	mock.ExpectPrepare(regexp.QuoteMeta(query))
	stmt, err := db.Prepare(query)
	require.NoError(t, err)

	return stmt
}

func instanceRowColumns() []string {
	return []string{
		"id",
		"definition_type",
		"definition_key",
		"definition_version",
		"tenant_id",
		"state",
		"start_date",
		"end_date",
		"variables",
		"user_tasks",
	}
}
