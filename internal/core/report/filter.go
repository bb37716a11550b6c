package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for dates in filters and results.
const DateLayout = "2006-01-02T15:04:05.000-0700"

// localDateLayout is accepted for fixed bounds that carry no offset.
const localDateLayout = "2006-01-02T15:04:05.000"

var offsetLayouts = []string{DateLayout, time.RFC3339Nano, "2006-01-02T15:04:05-0700"}
var localLayouts = []string{localDateLayout, "2006-01-02T15:04:05", "2006-01-02"}

// FilterType tags a filter variant on the wire.
type FilterType string

const (
	FilterInstanceStartDate FilterType = "instanceStartDate"
	FilterInstanceEndDate   FilterType = "instanceEndDate"
	FilterVariable          FilterType = "variable"
	FilterAssignee          FilterType = "assignee"
	FilterCandidateGroup    FilterType = "candidateGroup"
	FilterState             FilterType = "state"
)

// Operator is a comparison used by membership and variable filters.
type Operator string

const (
	OperatorIn           Operator = "in"
	OperatorNotIn        Operator = "not in"
	OperatorLess         Operator = "<"
	OperatorLessEqual    Operator = "<="
	OperatorGreater      Operator = ">"
	OperatorGreaterEqual Operator = ">="
)

// IsMembership reports whether o is "in" or "not in".
func (o Operator) IsMembership() bool {
	return o == OperatorIn || o == OperatorNotIn
}

func (o Operator) valid() bool {
	switch o {
	case OperatorIn, OperatorNotIn, OperatorLess, OperatorLessEqual, OperatorGreater, OperatorGreaterEqual:
		return true
	}
	return false
}

// Filter is the closed set of report filters. Implementations live in this
// package only; consumers switch over the concrete types.
type Filter interface {
	Type() FilterType
	// AppliesTo lists the definition indices the filter targets; empty means all.
	AppliesTo() []int
	isFilter()
}

// DateValue is the closed set of date filter values.
type DateValue interface {
	isDateValue()
}

// OffsetTime is a fixed date bound. When HasOffset is false the wall clock in
// Time is meant to be read in the caller's zone.
type OffsetTime struct {
	Time      time.Time
	HasOffset bool
}

// In returns the bound as an absolute instant, reading offset-less values in loc.
func (o OffsetTime) In(loc *time.Location) time.Time {
	if o.HasOffset {
		return o.Time
	}
	t := o.Time
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// ParseOffsetTime parses a bound with or without a zone offset.
func ParseOffsetTime(s string) (OffsetTime, error) {
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return OffsetTime{Time: t, HasOffset: true}, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return OffsetTime{Time: t}, nil
		}
	}
	return OffsetTime{}, fmt.Errorf("invalid date %q", s)
}

func (o OffsetTime) String() string {
	if o.HasOffset {
		return o.Time.Format(DateLayout)
	}
	return o.Time.Format(localDateLayout)
}

func (o OffsetTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *OffsetTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseOffsetTime(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// FixedDate bounds a date by explicit instants; either side may be open.
type FixedDate struct {
	Start *OffsetTime
	End   *OffsetTime
}

// RelativeDate covers the last Value whole units up to the start of the current
// unit, or the current unit up to now when Value is zero.
type RelativeDate struct {
	Value int
	Unit  DateUnit
}

// RollingDate covers now minus Value units up to now.
type RollingDate struct {
	Value int
	Unit  DateUnit
}

func (FixedDate) isDateValue()    {}
func (RelativeDate) isDateValue() {}
func (RollingDate) isDateValue()  {}

// InstanceDateFilter restricts instances by start or end date.
type InstanceDateFilter struct {
	Field   FilterType
	Date    DateValue
	Targets []int
}

// VariableFilter compares a process variable against Values.
type VariableFilter struct {
	Name     string
	VarType  VariableType
	Operator Operator
	Values   []string
	Targets  []int
}

// AssigneeFilter matches user tasks by assignee. An empty id stands for unassigned.
type AssigneeFilter struct {
	Operator Operator
	IDs      []string
	Targets  []int
}

// CandidateGroupFilter matches user tasks by candidate group.
type CandidateGroupFilter struct {
	Operator Operator
	IDs      []string
	Targets  []int
}

// StateFilter keeps instances in any of the given states.
type StateFilter struct {
	Values  []InstanceState
	Targets []int
}

func (f InstanceDateFilter) Type() FilterType { return f.Field }
func (VariableFilter) Type() FilterType       { return FilterVariable }
func (AssigneeFilter) Type() FilterType       { return FilterAssignee }
func (CandidateGroupFilter) Type() FilterType { return FilterCandidateGroup }
func (StateFilter) Type() FilterType          { return FilterState }

func (f InstanceDateFilter) AppliesTo() []int   { return f.Targets }
func (f VariableFilter) AppliesTo() []int       { return f.Targets }
func (f AssigneeFilter) AppliesTo() []int       { return f.Targets }
func (f CandidateGroupFilter) AppliesTo() []int { return f.Targets }
func (f StateFilter) AppliesTo() []int          { return f.Targets }

func (InstanceDateFilter) isFilter()   {}
func (VariableFilter) isFilter()       {}
func (AssigneeFilter) isFilter()       {}
func (CandidateGroupFilter) isFilter() {}
func (StateFilter) isFilter()          {}

// AppliesToIndex reports whether f targets the definition at index idx.
func AppliesToIndex(f Filter, idx int) bool {
	targets := f.AppliesTo()
	if len(targets) == 0 {
		return true
	}
	for _, t := range targets {
		if t == idx {
			return true
		}
	}
	return false
}

// Filters is a list of filters with the tagged wire encoding
// {"type": ..., "appliedTo": [...], "data": {...}}.
type Filters []Filter

type filterEnvelope struct {
	Type      FilterType      `json:"type"`
	AppliedTo []int           `json:"appliedTo,omitempty"`
	Data      json.RawMessage `json:"data"`
}

type dateAmount struct {
	Value int      `json:"value"`
	Unit  DateUnit `json:"unit"`
}

type dateData struct {
	Type   string      `json:"type"`
	Start  *OffsetTime `json:"start,omitempty"`
	End    *OffsetTime `json:"end,omitempty"`
	Amount *dateAmount `json:"amount,omitempty"`
}

type variableData struct {
	Name     string       `json:"name"`
	Type     VariableType `json:"type"`
	Operator Operator     `json:"operator"`
	Values   []string     `json:"values"`
}

type membershipData struct {
	Operator Operator  `json:"operator"`
	Values   []*string `json:"values"`
}

type stateData struct {
	Values []InstanceState `json:"values"`
}

// Date value kinds on the wire.
const (
	dateKindFixed    = "fixed"
	dateKindRelative = "relative"
	dateKindRolling  = "rolling"
)

// MarshalFilter encodes a single filter in its wire form.
func MarshalFilter(f Filter) ([]byte, error) {
	var data interface{}
	switch v := f.(type) {
	case InstanceDateFilter:
		d, err := encodeDate(v.Date)
		if err != nil {
			return nil, err
		}
		data = d
	case VariableFilter:
		data = variableData{Name: v.Name, Type: v.VarType, Operator: v.Operator, Values: v.Values}
	case AssigneeFilter:
		data = encodeMembership(v.Operator, v.IDs)
	case CandidateGroupFilter:
		data = encodeMembership(v.Operator, v.IDs)
	case StateFilter:
		data = stateData{Values: v.Values}
	default:
		return nil, fmt.Errorf("unsupported filter %T", f)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(filterEnvelope{Type: f.Type(), AppliedTo: f.AppliesTo(), Data: raw})
}

// UnmarshalFilter decodes one filter from its wire form.
func UnmarshalFilter(b []byte) (Filter, error) {
	var env filterEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, fmt.Errorf("filter %q has no data", env.Type)
	}
	switch env.Type {
	case FilterInstanceStartDate, FilterInstanceEndDate:
		var d dateData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, fmt.Errorf("filter %q: %w", env.Type, err)
		}
		value, err := decodeDate(d)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", env.Type, err)
		}
		return InstanceDateFilter{Field: env.Type, Date: value, Targets: env.AppliedTo}, nil
	case FilterVariable:
		var d variableData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, fmt.Errorf("filter %q: %w", env.Type, err)
		}
		if d.Name == "" {
			return nil, fmt.Errorf("filter %q: name is required", env.Type)
		}
		if err := checkOperator(d.Operator, d.Type.IsNumeric() || d.Type == VariableDate); err != nil {
			return nil, fmt.Errorf("filter %q: %w", env.Type, err)
		}
		return VariableFilter{Name: d.Name, VarType: d.Type, Operator: d.Operator, Values: d.Values, Targets: env.AppliedTo}, nil
	case FilterAssignee, FilterCandidateGroup:
		var d membershipData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, fmt.Errorf("filter %q: %w", env.Type, err)
		}
		if err := checkOperator(d.Operator, false); err != nil {
			return nil, fmt.Errorf("filter %q: %w", env.Type, err)
		}
		ids := decodeMembership(d.Values)
		if env.Type == FilterAssignee {
			return AssigneeFilter{Operator: d.Operator, IDs: ids, Targets: env.AppliedTo}, nil
		}
		return CandidateGroupFilter{Operator: d.Operator, IDs: ids, Targets: env.AppliedTo}, nil
	case FilterState:
		var d stateData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, fmt.Errorf("filter %q: %w", env.Type, err)
		}
		return StateFilter{Values: d.Values, Targets: env.AppliedTo}, nil
	default:
		return nil, fmt.Errorf("unknown filter type %q", env.Type)
	}
}

func (fs Filters) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(fs))
	for _, f := range fs {
		raw, err := MarshalFilter(f)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return json.Marshal(out)
}

func (fs *Filters) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return err
	}
	if raws == nil {
		*fs = nil
		return nil
	}
	out := make(Filters, 0, len(raws))
	for i, raw := range raws {
		f, err := UnmarshalFilter(raw)
		if err != nil {
			return fmt.Errorf("filter[%d]: %w", i, err)
		}
		out = append(out, f)
	}
	*fs = out
	return nil
}

// FilterKey is the canonical encoding used to compare filters structurally.
func FilterKey(f Filter) string {
	raw, err := MarshalFilter(f)
	if err != nil {
		return fmt.Sprintf("%T:%v", f, f)
	}
	return string(raw)
}

func encodeDate(v DateValue) (dateData, error) {
	switch d := v.(type) {
	case FixedDate:
		return dateData{Type: dateKindFixed, Start: d.Start, End: d.End}, nil
	case RelativeDate:
		return dateData{Type: dateKindRelative, Amount: &dateAmount{Value: d.Value, Unit: d.Unit}}, nil
	case RollingDate:
		return dateData{Type: dateKindRolling, Amount: &dateAmount{Value: d.Value, Unit: d.Unit}}, nil
	default:
		return dateData{}, fmt.Errorf("unsupported date value %T", v)
	}
}

func decodeDate(d dateData) (DateValue, error) {
	switch strings.ToLower(d.Type) {
	case dateKindFixed:
		if d.Start != nil && d.End != nil && d.End.Time.Before(d.Start.Time) && d.Start.HasOffset == d.End.HasOffset {
			return nil, fmt.Errorf("end must not be before start")
		}
		return FixedDate{Start: d.Start, End: d.End}, nil
	case dateKindRelative, dateKindRolling:
		if d.Amount == nil {
			return nil, fmt.Errorf("%s date requires an amount", d.Type)
		}
		if d.Amount.Value < 0 {
			return nil, fmt.Errorf("%s date value must not be negative", d.Type)
		}
		if !d.Amount.Unit.Valid() || d.Amount.Unit == UnitAutomatic {
			return nil, fmt.Errorf("%s date has invalid unit %q", d.Type, d.Amount.Unit)
		}
		if strings.ToLower(d.Type) == dateKindRelative {
			return RelativeDate{Value: d.Amount.Value, Unit: d.Amount.Unit}, nil
		}
		return RollingDate{Value: d.Amount.Value, Unit: d.Amount.Unit}, nil
	default:
		return nil, fmt.Errorf("unknown date filter type %q", d.Type)
	}
}

func checkOperator(op Operator, allowRange bool) error {
	if !op.valid() {
		return fmt.Errorf("unknown operator %q", op)
	}
	if !op.IsMembership() && !allowRange {
		return fmt.Errorf("operator %q is not supported here", op)
	}
	return nil
}

func encodeMembership(op Operator, ids []string) membershipData {
	values := make([]*string, len(ids))
	for i := range ids {
		if ids[i] == "" {
			continue
		}
		id := ids[i]
		values[i] = &id
	}
	return membershipData{Operator: op, Values: values}
}

func decodeMembership(values []*string) []string {
	ids := make([]string, len(values))
	for i, v := range values {
		if v != nil {
			ids[i] = *v
		}
	}
	return ids
}
