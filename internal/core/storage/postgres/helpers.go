package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aevon-lab/insight/internal/core/report"
)

// marshalInstanceJSON marshals an instance's variables and user tasks to JSON.
// Nil slices produce "[]" so the NOT NULL JSONB columns always hold an array.
func marshalInstanceJSON(inst *report.Instance) (variablesJSON, userTasksJSON []byte, err error) {
	variables := inst.Variables
	if variables == nil {
		variables = []report.VariableValue{}
	}
	variablesJSON, err = json.Marshal(variables)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal variables: %w", err)
	}

	tasks := inst.UserTasks
	if tasks == nil {
		tasks = []report.UserTask{}
	}
	userTasksJSON, err = json.Marshal(tasks)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal user tasks: %w", err)
	}

	return variablesJSON, userTasksJSON, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanInstanceRow scans a database row into an Instance.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanInstanceRow(row scanner) (*report.Instance, error) {
	var inst report.Instance
	var endDate sql.NullTime
	var variablesJSON, userTasksJSON []byte

	err := row.Scan(
		&inst.ID,
		&inst.DefinitionType,
		&inst.DefinitionKey,
		&inst.DefinitionVersion,
		&inst.TenantID,
		&inst.State,
		&inst.StartDate,
		&endDate,
		&variablesJSON,
		&userTasksJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan instance row: %w", err)
	}

	if endDate.Valid {
		end := endDate.Time
		inst.EndDate = &end
	}

	if len(variablesJSON) > 0 {
		if err := json.Unmarshal(variablesJSON, &inst.Variables); err != nil {
			return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
		}
	}

	if len(userTasksJSON) > 0 {
		if err := json.Unmarshal(userTasksJSON, &inst.UserTasks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user tasks: %w", err)
		}
	}

	return &inst, nil
}

// nullableTime maps an open end date to SQL NULL.
func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
