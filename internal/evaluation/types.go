package evaluation

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/timezone"
	"github.com/aevon-lab/insight/internal/filter"
	"github.com/aevon-lab/insight/internal/scope"
	"github.com/shopspring/decimal"
)

// ResultType is the shape of an evaluation result.
type ResultType string

const (
	ResultRawData  ResultType = "RAW_DATA"
	ResultNumber   ResultType = "NUMBER"
	ResultMap      ResultType = "MAP"
	ResultHyperMap ResultType = "HYPER_MAP"
	ResultCombined ResultType = "COMBINED"
)

// Keys used for buckets whose source value is absent.
const (
	MissingKey    = "missing"
	UnassignedKey = "unassigned"
)

// Pagination selects a window of raw data rows.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Request is one evaluation call. Exactly one of ReportID and Inline is set.
type Request struct {
	ReportID          string
	Inline            *report.StoredReport
	AdditionalFilters report.Filters
	Pagination        *Pagination
	Timezone          string
}

// Input is everything the evaluator needs for a single report.
type Input struct {
	Report      *report.ReportDefinition
	Definitions []scope.Resolved
	Filters     filter.Result
	TZ          timezone.Context
	Now         time.Time
	Pagination  *Pagination
}

// Bucket is one group of a map or hyper-map measure. Date buckets carry their
// instant; Key is filled in by the assembler.
type Bucket struct {
	Key     string
	Label   string
	Instant *time.Time
	Value   *decimal.Decimal
	Nested  []Bucket
}

// RawRow is one instance of a raw data result.
type RawRow struct {
	Instance      *report.Instance
	DefinitionIdx int
}

// Measure is one computed property of a report.
type Measure struct {
	Property        report.ViewProperty
	AggregationType string
	Number          *decimal.Decimal
	Buckets         []Bucket
	Rows            []RawRow
}

// Aggregation is the evaluator's output before rendering.
type Aggregation struct {
	Type                        ResultType
	InstanceCount               int64
	InstanceCountWithoutFilters int64
	Measures                    []Measure
	Pagination                  *Pagination
}

// MapEntry is one rendered bucket.
type MapEntry struct {
	Key   string           `json:"key"`
	Label string           `json:"label"`
	Value *decimal.Decimal `json:"value"`
}

// HyperMapEntry is one rendered bucket holding nested buckets.
type HyperMapEntry struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Value []MapEntry `json:"value"`
}

// RawDataRow is one rendered raw data instance. Dates are in the client zone.
type RawDataRow struct {
	InstanceID        string                 `json:"instanceId"`
	DefinitionKey     string                 `json:"definitionKey"`
	DefinitionVersion string                 `json:"definitionVersion"`
	TenantID          *string                `json:"tenantId"`
	State             report.InstanceState   `json:"state,omitempty"`
	StartDate         string                 `json:"startDate"`
	EndDate           *string                `json:"endDate"`
	Duration          *int64                 `json:"duration"`
	Variables         map[string]interface{} `json:"variables"`
}

// MeasureResponse is one rendered measure. Data holds a number, a list of map
// or hyper-map entries, or raw data rows.
type MeasureResponse struct {
	Property        report.ViewProperty `json:"property"`
	AggregationType string              `json:"aggregationType,omitempty"`
	Data            interface{}         `json:"data"`
}

// ResultResponse is the rendered result of a single or combined report.
type ResultResponse struct {
	Type                        ResultType        `json:"type"`
	InstanceCount               int64             `json:"instanceCount"`
	InstanceCountWithoutFilters int64             `json:"instanceCountWithoutFilters"`
	Measures                    []MeasureResponse `json:"measures"`
	Pagination                  *Pagination       `json:"pagination,omitempty"`
	Data                        CombinedData      `json:"data,omitempty"`
}

// EvaluationResponse is the body returned by the evaluate endpoints.
type EvaluationResponse struct {
	ReportDefinition interface{}    `json:"reportDefinition"`
	Result           ResultResponse `json:"result"`
}

// CombinedEntry is the result of one constituent of a combined report.
type CombinedEntry struct {
	ReportID string
	Result   EvaluationResponse
}

// CombinedData renders as a JSON object keyed by report id, in constituent order.
type CombinedData []CombinedEntry

func (d CombinedData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.ReportID)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Result)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
