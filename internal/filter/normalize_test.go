package filter

import (
	"testing"
	"time"

	httperr "github.com/aevon-lab/insight/internal/core/errors"
	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/timezone"
	"github.com/stretchr/testify/require"
)

var declared = NewVariableSet([]report.VariableDescriptor{
	{Name: "amount", Type: report.VariableDouble},
	{Name: "approved", Type: report.VariableBoolean},
})

func stateFilter(targets ...int) report.StateFilter {
	return report.StateFilter{Values: []report.InstanceState{report.StateCompleted}, Targets: targets}
}

func TestNormalize_UnknownVariableFilterIsNoOp(t *testing.T) {
	persisted := report.Filters{stateFilter()}

	baseline, err := Normalize(persisted, nil, 1, report.DefinitionProcess, declared)
	require.NoError(t, err)

	withUnknown, err := Normalize(persisted, report.Filters{
		report.VariableFilter{Name: "doesNotExist", VarType: report.VariableString, Operator: report.OperatorIn, Values: []string{"x"}},
		report.VariableFilter{Name: "amount", VarType: report.VariableString, Operator: report.OperatorIn, Values: []string{"1"}},
	}, 1, report.DefinitionProcess, declared)
	require.NoError(t, err)

	require.Equal(t, baseline, withUnknown)
	require.Len(t, withUnknown.Effective, 1)
}

func TestNormalize_MergesAndDeduplicates(t *testing.T) {
	amount := report.VariableFilter{Name: "amount", VarType: report.VariableDouble, Operator: report.OperatorGreater, Values: []string{"100"}}

	got, err := Normalize(
		report.Filters{stateFilter(), amount},
		report.Filters{stateFilter(), amount, stateFilter(0)},
		2, report.DefinitionProcess, declared)
	require.NoError(t, err)

	require.Equal(t, report.Filters{stateFilter(), amount, stateFilter(0)}, got.Effective)
	require.Equal(t, report.Filters{stateFilter(), amount}, got.Persisted)
}

func TestNormalize_EmptyAdditionalIsNoOp(t *testing.T) {
	persisted := report.Filters{stateFilter()}

	fromNil, err := Normalize(persisted, nil, 1, report.DefinitionProcess, declared)
	require.NoError(t, err)
	fromEmpty, err := Normalize(persisted, report.Filters{}, 1, report.DefinitionProcess, declared)
	require.NoError(t, err)

	require.Equal(t, fromNil, fromEmpty)
	require.Equal(t, persisted, fromNil.Effective)
}

func TestNormalize_DecisionReportIgnoresAdditional(t *testing.T) {
	got, err := Normalize(nil, report.Filters{stateFilter(7)}, 1, report.DefinitionDecision, declared)
	require.NoError(t, err)
	require.Empty(t, got.Effective)
}

func TestNormalize_InvalidAppliedTo(t *testing.T) {
	tests := []struct {
		name       string
		persisted  report.Filters
		additional report.Filters
	}{
		{name: "persisted index past end", persisted: report.Filters{stateFilter(2)}},
		{name: "negative index", persisted: report.Filters{stateFilter(-1)}},
		{name: "additional index past end", additional: report.Filters{stateFilter(0, 5)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.persisted, tc.additional, 2, report.DefinitionProcess, declared)
			require.ErrorIs(t, err, httperr.ErrValidation)
			require.ErrorContains(t, err, "invalid appliedTo index")
		})
	}
}

func TestCompile_MatchesInstances(t *testing.T) {
	tz := timezone.New(time.UTC, "")
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	ended := now.Add(-time.Hour)

	inst := &report.Instance{
		ID:        "i1",
		State:     report.StateCompleted,
		StartDate: now.Add(-48 * time.Hour),
		EndDate:   &ended,
		Variables: []report.VariableValue{
			{Name: "amount", Type: report.VariableDouble, Value: 250.5},
			{Name: "approved", Type: report.VariableBoolean, Value: true},
			{Name: "region", Type: report.VariableString, Value: "emea"},
			{Name: "due", Type: report.VariableDate, Value: "2024-07-01T00:00:00.000+0000"},
		},
		UserTasks: []report.UserTask{
			{ID: "t1", Assignee: "kermit", CandidateGroups: []string{"accounting"}},
			{ID: "t2"},
		},
	}

	tests := []struct {
		name   string
		filter report.Filter
		want   bool
	}{
		{"amount greater", report.VariableFilter{Name: "amount", VarType: report.VariableDouble, Operator: report.OperatorGreater, Values: []string{"200"}}, true},
		{"amount less equal", report.VariableFilter{Name: "amount", VarType: report.VariableDouble, Operator: report.OperatorLessEqual, Values: []string{"250.4"}}, false},
		{"amount in", report.VariableFilter{Name: "amount", VarType: report.VariableDouble, Operator: report.OperatorIn, Values: []string{"1", "250.50"}}, true},
		{"boolean in", report.VariableFilter{Name: "approved", VarType: report.VariableBoolean, Operator: report.OperatorIn, Values: []string{"false"}}, false},
		{"string not in", report.VariableFilter{Name: "region", VarType: report.VariableString, Operator: report.OperatorNotIn, Values: []string{"apac"}}, true},
		{"date before", report.VariableFilter{Name: "due", VarType: report.VariableDate, Operator: report.OperatorLess, Values: []string{"2024-08-01T00:00:00"}}, true},
		{"missing variable in", report.VariableFilter{Name: "other", VarType: report.VariableString, Operator: report.OperatorIn, Values: []string{"x"}}, false},
		{"missing variable not in", report.VariableFilter{Name: "other", VarType: report.VariableString, Operator: report.OperatorNotIn, Values: []string{"x"}}, true},
		{"assignee in", report.AssigneeFilter{Operator: report.OperatorIn, IDs: []string{"kermit"}}, true},
		{"unassigned in", report.AssigneeFilter{Operator: report.OperatorIn, IDs: []string{""}}, true},
		{"assignee not in", report.AssigneeFilter{Operator: report.OperatorNotIn, IDs: []string{"kermit"}}, false},
		{"candidate group in", report.CandidateGroupFilter{Operator: report.OperatorIn, IDs: []string{"sales"}}, false},
		{"state", report.StateFilter{Values: []report.InstanceState{report.StateActive, report.StateCompleted}}, true},
		{"rolling start date", report.InstanceDateFilter{Field: report.FilterInstanceStartDate, Date: report.RollingDate{Value: 1, Unit: report.UnitDay}}, false},
		{"relative end date today", report.InstanceDateFilter{Field: report.FilterInstanceEndDate, Date: report.RelativeDate{Value: 0, Unit: report.UnitDay}}, true},
		{"other definition only", report.StateFilter{Values: []report.InstanceState{report.StateActive}, Targets: []int{1}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			match := Compile(report.Filters{tc.filter}, 0, tz, now)
			require.Equal(t, tc.want, match(inst))
		})
	}
}

func TestCompile_EndDateFilterSkipsRunningInstances(t *testing.T) {
	tz := timezone.New(time.UTC, "")
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	start := report.OffsetTime{Time: now.Add(-time.Hour), HasOffset: true}

	match := Compile(report.Filters{
		report.InstanceDateFilter{Field: report.FilterInstanceEndDate, Date: report.FixedDate{Start: &start}},
	}, 0, tz, now)

	require.False(t, match(&report.Instance{ID: "running", StartDate: now}))
}
