package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aevon-lab/insight/internal/core/aggregation"
	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/timezone"
	"github.com/shopspring/decimal"
)

// Predicate reports whether an instance passes every filter it was compiled from.
type Predicate func(inst *report.Instance) bool

// All accepts every instance.
func All(*report.Instance) bool { return true }

// Compile turns the filters targeting the definition at defIndex into a single
// predicate. Filters are ANDed. Date bounds are resolved once against now in
// the request's client zone.
func Compile(filters report.Filters, defIndex int, tz timezone.Context, now time.Time) Predicate {
	var checks []Predicate
	for _, f := range filters {
		if !report.AppliesToIndex(f, defIndex) {
			continue
		}
		checks = append(checks, compileOne(f, tz, now))
	}
	if len(checks) == 0 {
		return All
	}
	return func(inst *report.Instance) bool {
		for _, check := range checks {
			if !check(inst) {
				return false
			}
		}
		return true
	}
}

func compileOne(f report.Filter, tz timezone.Context, now time.Time) Predicate {
	switch v := f.(type) {
	case report.InstanceDateFilter:
		start, end := tz.QueryBounds(v.Date, now)
		field := v.Field
		return func(inst *report.Instance) bool {
			var t time.Time
			if field == report.FilterInstanceEndDate {
				if inst.EndDate == nil {
					return false
				}
				t = *inst.EndDate
			} else {
				t = inst.StartDate
			}
			return within(t, start, end)
		}
	case report.VariableFilter:
		return compileVariable(v, tz)
	case report.AssigneeFilter:
		return compileMembership(v.Operator, v.IDs, func(task report.UserTask) []string {
			return []string{task.Assignee}
		})
	case report.CandidateGroupFilter:
		return compileMembership(v.Operator, v.IDs, func(task report.UserTask) []string {
			if len(task.CandidateGroups) == 0 {
				return []string{""}
			}
			return task.CandidateGroups
		})
	case report.StateFilter:
		states := make(map[report.InstanceState]struct{}, len(v.Values))
		for _, s := range v.Values {
			states[s] = struct{}{}
		}
		return func(inst *report.Instance) bool {
			_, ok := states[inst.State]
			return ok
		}
	}
	return All
}

func within(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

// compileMembership matches instances by the ids found on their user tasks.
// "in" needs one task carrying a listed id; "not in" needs none to.
func compileMembership(op report.Operator, ids []string, idsOf func(report.UserTask) []string) Predicate {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return func(inst *report.Instance) bool {
		hit := false
		for _, task := range inst.UserTasks {
			for _, id := range idsOf(task) {
				if _, ok := wanted[id]; ok {
					hit = true
					break
				}
			}
		}
		if op == report.OperatorNotIn {
			return !hit
		}
		return hit
	}
}

// compileVariable compares a variable on the instance with the filter values.
// An instance without the variable only passes "not in".
func compileVariable(f report.VariableFilter, tz timezone.Context) Predicate {
	var cmp func(value interface{}, operand string) (int, bool)
	switch {
	case f.VarType.IsNumeric():
		cmp = compareDecimal
	case f.VarType == report.VariableDate:
		cmp = func(value interface{}, operand string) (int, bool) {
			return compareDate(value, operand, tz.Client)
		}
	case f.VarType == report.VariableBoolean:
		cmp = compareBool
	default:
		cmp = compareString
	}

	return func(inst *report.Instance) bool {
		v, ok := inst.Variable(f.Name)
		if !ok || v.Type != f.VarType || v.Value == nil {
			return f.Operator == report.OperatorNotIn
		}
		switch f.Operator {
		case report.OperatorIn, report.OperatorNotIn:
			hit := false
			for _, operand := range f.Values {
				if c, ok := cmp(v.Value, operand); ok && c == 0 {
					hit = true
					break
				}
			}
			return hit == (f.Operator == report.OperatorIn)
		default:
			if len(f.Values) == 0 {
				return false
			}
			c, ok := cmp(v.Value, f.Values[0])
			if !ok {
				return false
			}
			switch f.Operator {
			case report.OperatorLess:
				return c < 0
			case report.OperatorLessEqual:
				return c <= 0
			case report.OperatorGreater:
				return c > 0
			case report.OperatorGreaterEqual:
				return c >= 0
			}
			return false
		}
	}
}

func compareDecimal(value interface{}, operand string) (int, bool) {
	actual, ok := aggregation.ToDecimal(value)
	if !ok {
		return 0, false
	}
	want, err := decimal.NewFromString(strings.TrimSpace(operand))
	if err != nil {
		return 0, false
	}
	return actual.Cmp(want), true
}

func compareDate(value interface{}, operand string, loc *time.Location) (int, bool) {
	s, ok := value.(string)
	if !ok {
		return 0, false
	}
	actual, err := report.ParseOffsetTime(s)
	if err != nil {
		return 0, false
	}
	want, err := report.ParseOffsetTime(operand)
	if err != nil {
		return 0, false
	}
	return actual.In(loc).Compare(want.In(loc)), true
}

func compareBool(value interface{}, operand string) (int, bool) {
	actual, ok := value.(bool)
	if !ok {
		return 0, false
	}
	want, err := strconv.ParseBool(strings.TrimSpace(operand))
	if err != nil {
		return 0, false
	}
	if actual == want {
		return 0, true
	}
	return 1, true
}

func compareString(value interface{}, operand string) (int, bool) {
	return strings.Compare(fmt.Sprint(value), operand), true
}
