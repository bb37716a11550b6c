package report

import (
	"fmt"
	"time"
)

// VariableType is the declared type of a process variable.
type VariableType string

const (
	VariableString  VariableType = "String"
	VariableInteger VariableType = "Integer"
	VariableLong    VariableType = "Long"
	VariableShort   VariableType = "Short"
	VariableDouble  VariableType = "Double"
	VariableBoolean VariableType = "Boolean"
	VariableDate    VariableType = "Date"
)

// IsNumeric reports whether values of this type support range operators.
func (t VariableType) IsNumeric() bool {
	switch t {
	case VariableInteger, VariableLong, VariableShort, VariableDouble:
		return true
	}
	return false
}

// VariableDescriptor is a variable name as declared by a definition.
type VariableDescriptor struct {
	Name string       `json:"name"`
	Type VariableType `json:"type"`
}

// VariableValue is one variable on an instance. Value holds the decoded JSON value.
type VariableValue struct {
	Name  string       `json:"name"`
	Type  VariableType `json:"type"`
	Value interface{}  `json:"value"`
}

// InstanceState is the lifecycle state of a process instance.
type InstanceState string

const (
	StateActive    InstanceState = "ACTIVE"
	StateCompleted InstanceState = "COMPLETED"
	StateCanceled  InstanceState = "CANCELED"
	StateSuspended InstanceState = "SUSPENDED"
	StateIncident  InstanceState = "INCIDENT"
)

// UserTask is a human task executed as part of a process instance.
type UserTask struct {
	ID              string     `json:"id"`
	Assignee        string     `json:"assignee,omitempty"`
	CandidateGroups []string   `json:"candidateGroups,omitempty"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         *time.Time `json:"endDate,omitempty"`
}

// Duration returns the task duration when the task has ended.
func (t UserTask) Duration() (time.Duration, bool) {
	if t.EndDate == nil {
		return 0, false
	}
	return t.EndDate.Sub(t.StartDate), true
}

// Instance is a process or decision instance. Decision instances use StartDate
// as their evaluation date and carry no end date or user tasks.
type Instance struct {
	ID                string          `json:"id"`
	DefinitionType    DefinitionType  `json:"definitionType"`
	DefinitionKey     string          `json:"definitionKey"`
	DefinitionVersion string          `json:"definitionVersion"`
	TenantID          string          `json:"tenantId,omitempty"`
	State             InstanceState   `json:"state"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           *time.Time      `json:"endDate,omitempty"`
	Variables         []VariableValue `json:"variables,omitempty"`
	UserTasks         []UserTask      `json:"userTasks,omitempty"`
}

// Duration returns the instance duration when it has ended.
func (i *Instance) Duration() (time.Duration, bool) {
	if i.EndDate == nil {
		return 0, false
	}
	return i.EndDate.Sub(i.StartDate), true
}

// Variable looks up a variable by name.
func (i *Instance) Variable(name string) (VariableValue, bool) {
	for _, v := range i.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return VariableValue{}, false
}

// Validate ensures the instance carries the attributes the stores index on.
func (i *Instance) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("id is required")
	}
	if !i.DefinitionType.Valid() {
		return fmt.Errorf("definitionType must be process or decision")
	}
	if i.DefinitionKey == "" {
		return fmt.Errorf("definitionKey is required")
	}
	if i.DefinitionVersion == "" {
		return fmt.Errorf("definitionVersion is required")
	}
	if i.StartDate.IsZero() {
		return fmt.Errorf("startDate is required")
	}
	if i.EndDate != nil && i.EndDate.Before(i.StartDate) {
		return fmt.Errorf("endDate must not be before startDate")
	}
	return nil
}

// Definition is one deployed version of a process or decision model for one tenant.
type Definition struct {
	Type      DefinitionType       `json:"type"`
	Key       string               `json:"key"`
	Version   string               `json:"version"`
	TenantID  string               `json:"tenantId,omitempty"`
	Name      string               `json:"name,omitempty"`
	Deleted   bool                 `json:"deleted"`
	Variables []VariableDescriptor `json:"variables,omitempty"`
}

// Validate ensures the definition identity is complete.
func (d *Definition) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("type must be process or decision")
	}
	if d.Key == "" {
		return fmt.Errorf("key is required")
	}
	if d.Version == "" {
		return fmt.Errorf("version is required")
	}
	if d.Version == AllVersions || d.Version == LatestVersion {
		return fmt.Errorf("version %q is reserved", d.Version)
	}
	return nil
}
