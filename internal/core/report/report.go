package report

import (
	"encoding/json"
	"fmt"
)

// DefinitionType distinguishes process models from decision models.
type DefinitionType string

const (
	DefinitionProcess  DefinitionType = "process"
	DefinitionDecision DefinitionType = "decision"
)

// Valid reports whether t is a known definition type.
func (t DefinitionType) Valid() bool {
	return t == DefinitionProcess || t == DefinitionDecision
}

// ParseDefinitionType maps the path segment used by the API to a DefinitionType.
func ParseDefinitionType(s string) (DefinitionType, error) {
	t := DefinitionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown definition type %q", s)
	}
	return t, nil
}

// ViewEntity is the thing a report counts or measures.
type ViewEntity string

const (
	ViewProcessInstance  ViewEntity = "processInstance"
	ViewUserTask         ViewEntity = "userTask"
	ViewDecisionInstance ViewEntity = "decisionInstance"
	ViewVariable         ViewEntity = "variable"
)

// ViewProperty is the measured attribute of a view entity.
type ViewProperty string

const (
	PropertyFrequency ViewProperty = "frequency"
	PropertyDuration  ViewProperty = "duration"
	PropertyRawData   ViewProperty = "rawData"
	PropertyVariable  ViewProperty = "variable"
)

// VariableRef names a variable together with its declared type.
type VariableRef struct {
	Name string       `json:"name"`
	Type VariableType `json:"type"`
}

// View describes what a report measures.
type View struct {
	Entity     ViewEntity     `json:"entity"`
	Properties []ViewProperty `json:"properties"`
	Variable   *VariableRef   `json:"variable,omitempty"`
}

// HasProperty reports whether p is one of the view's properties.
func (v *View) HasProperty(p ViewProperty) bool {
	if v == nil {
		return false
	}
	for _, prop := range v.Properties {
		if prop == p {
			return true
		}
	}
	return false
}

// GroupByType selects the bucketing dimension of a report.
type GroupByType string

const (
	GroupByNone              GroupByType = "none"
	GroupByStartDate         GroupByType = "startDate"
	GroupByEndDate           GroupByType = "endDate"
	GroupByVariable          GroupByType = "variable"
	GroupByAssignee          GroupByType = "assignee"
	GroupByCandidateGroup    GroupByType = "candidateGroup"
	GroupByProcessDefinition GroupByType = "processDefinition"
)

// IsDate reports whether the grouping produces date buckets.
func (t GroupByType) IsDate() bool {
	return t == GroupByStartDate || t == GroupByEndDate
}

// GroupBy configures the bucketing dimension. Unit only applies to date groupings
// and to date-typed variable groupings.
type GroupBy struct {
	Type     GroupByType  `json:"type"`
	Unit     DateUnit     `json:"unit,omitempty"`
	Variable *VariableRef `json:"variable,omitempty"`
}

// Visualization is carried through to the response for the client's renderer.
type Visualization string

const (
	VisualizationTable  Visualization = "table"
	VisualizationNumber Visualization = "number"
	VisualizationBar    Visualization = "bar"
	VisualizationLine   Visualization = "line"
	VisualizationPie    Visualization = "pie"
)

// SortBy selects what a non-date map result is ordered by.
type SortBy string

const (
	SortByKey   SortBy = "key"
	SortByValue SortBy = "value"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sorting orders non-date map results.
type Sorting struct {
	By    SortBy    `json:"by"`
	Order SortOrder `json:"order"`
}

// TargetValue is display-only configuration preserved on the definition.
type TargetValue struct {
	Active bool   `json:"active"`
	Value  string `json:"value"`
}

// Configuration holds evaluation options that do not change the report's scope.
type Configuration struct {
	AggregationTypes []string     `json:"aggregationTypes,omitempty"`
	Sorting          *Sorting     `json:"sorting,omitempty"`
	TargetValue      *TargetValue `json:"targetValue,omitempty"`
}

// DefinitionSelection picks one definition key plus the versions and tenants to read.
// TenantIDs uses NoTenant for instances without a tenant.
type DefinitionSelection struct {
	Key         string   `json:"key"`
	Versions    []string `json:"versions"`
	TenantIDs   Tenants  `json:"tenantIds"`
	DisplayName string   `json:"displayName,omitempty"`
}

// ReportData is the mutable content of a single report.
type ReportData struct {
	Definitions   []DefinitionSelection `json:"definitions"`
	Filters       Filters               `json:"filter"`
	View          *View                 `json:"view"`
	GroupBy       *GroupBy              `json:"groupBy"`
	DistributedBy *GroupBy              `json:"distributedBy,omitempty"`
	Visualization Visualization         `json:"visualization"`
	Configuration Configuration         `json:"configuration"`
}

// ReportDefinition is a single (non-combined) report, persisted or inline.
type ReportDefinition struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Owner        string         `json:"owner,omitempty"`
	CollectionID string         `json:"collectionId,omitempty"`
	ReportType   DefinitionType `json:"reportType"`
	Combined     bool           `json:"combined"`
	Data         ReportData     `json:"data"`
}

// CombinedReportDefinition groups single reports whose results are shown together.
type CombinedReportDefinition struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CollectionID string   `json:"collectionId,omitempty"`
	Combined     bool     `json:"combined"`
	Reports      []string `json:"reports"`
}

// StoredReport is what the report repository hands back: exactly one of Single or Combined is set.
type StoredReport struct {
	Single   *ReportDefinition
	Combined *CombinedReportDefinition
}

// ID returns the identifier of whichever variant is populated.
func (r StoredReport) ID() string {
	if r.Combined != nil {
		return r.Combined.ID
	}
	if r.Single != nil {
		return r.Single.ID
	}
	return ""
}

// CollectionScopeEntry limits which definitions and tenants a collection's reports may read.
type CollectionScopeEntry struct {
	DefinitionType DefinitionType `json:"definitionType"`
	DefinitionKey  string         `json:"definitionKey"`
	TenantIDs      Tenants        `json:"tenantIds"`
}

// ID is the deterministic composite of type and key.
func (e CollectionScopeEntry) ID() string {
	return ScopeEntryID(e.DefinitionType, e.DefinitionKey)
}

// ScopeEntryID builds the scope entry id for a (type, key) pair.
func ScopeEntryID(t DefinitionType, key string) string {
	return string(t) + ":" + key
}

// DecodeStoredReport decodes a persisted report document, picking the variant by its "combined" flag.
func DecodeStoredReport(b []byte) (*StoredReport, error) {
	var probe struct {
		Combined bool `json:"combined"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if probe.Combined {
		var combined CombinedReportDefinition
		if err := json.Unmarshal(b, &combined); err != nil {
			return nil, fmt.Errorf("decode combined report: %w", err)
		}
		return &StoredReport{Combined: &combined}, nil
	}
	var single ReportDefinition
	if err := json.Unmarshal(b, &single); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &StoredReport{Single: &single}, nil
}
