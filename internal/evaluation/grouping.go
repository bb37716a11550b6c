package evaluation

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aevon-lab/insight/internal/core/aggregation"
	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/timezone"
	"github.com/shopspring/decimal"
)

type groupKey struct {
	key   string
	label string
}

func (k groupKey) bucket(v *decimal.Decimal) Bucket {
	return Bucket{Key: k.key, Label: k.label, Value: v}
}

type group struct {
	groupKey
	instant *time.Time
	items   []item
}

func (g group) bucket(v *decimal.Decimal) Bucket {
	return Bucket{Key: g.key, Label: g.label, Instant: g.instant, Value: v}
}

// grouper splits items into buckets along a GroupBy dimension.
type grouper struct {
	in              Input
	automaticPoints int
	maxDateBuckets  int
}

// group returns the buckets of items and whether they are date buckets. Date
// buckets are ascending and include empty buckets between the first and last.
func (g grouper) group(by *report.GroupBy, items []item) ([]group, bool) {
	if instantOf, ok := g.dateField(by); ok {
		return g.dateGroups(items, instantOf, by.Unit), true
	}
	index := make(map[string]int)
	var groups []group
	for _, it := range items {
		for _, k := range g.keysOf(by, it) {
			i, ok := index[k.key]
			if !ok {
				i = len(groups)
				index[k.key] = i
				groups = append(groups, group{groupKey: k})
			}
			groups[i].items = append(groups[i].items, it)
		}
	}
	return groups, false
}

// innerKeys lists every distributedBy key present in items, in key order, so
// that all outer buckets of a hyper-map carry the same nested keys.
func (g grouper) innerKeys(by *report.GroupBy, items []item) []groupKey {
	seen := make(map[string]struct{})
	var keys []groupKey
	for _, it := range items {
		for _, k := range g.keysOf(by, it) {
			if _, ok := seen[k.key]; ok {
				continue
			}
			seen[k.key] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return compareKeys(keys[i].key, keys[j].key) < 0
	})
	return keys
}

func (g grouper) split(by *report.GroupBy, items []item) map[string][]item {
	out := make(map[string][]item)
	for _, it := range items {
		for _, k := range g.keysOf(by, it) {
			out[k.key] = append(out[k.key], it)
		}
	}
	return out
}

func (g grouper) dateField(by *report.GroupBy) (func(item) (time.Time, bool), bool) {
	switch by.Type {
	case report.GroupByStartDate:
		return func(it item) (time.Time, bool) { return it.startDate(), true }, true
	case report.GroupByEndDate:
		return func(it item) (time.Time, bool) {
			end := it.endDate()
			if end == nil {
				return time.Time{}, false
			}
			return *end, true
		}, true
	case report.GroupByVariable:
		if by.Variable.Type != report.VariableDate {
			return nil, false
		}
		name, loc := by.Variable.Name, g.in.TZ.Client
		return func(it item) (time.Time, bool) {
			v, ok := it.inst.Variable(name)
			if !ok || v.Type != report.VariableDate {
				return time.Time{}, false
			}
			s, ok := v.Value.(string)
			if !ok {
				return time.Time{}, false
			}
			parsed, err := report.ParseOffsetTime(s)
			if err != nil {
				return time.Time{}, false
			}
			return parsed.In(loc), true
		}, true
	}
	return nil, false
}

func (g grouper) dateGroups(items []item, instantOf func(item) (time.Time, bool), unit report.DateUnit) []group {
	type dated struct {
		at time.Time
		it item
	}
	var all []dated
	for _, it := range items {
		if at, ok := instantOf(it); ok {
			all = append(all, dated{at: at, it: it})
		}
	}
	if len(all) == 0 {
		return nil
	}

	earliest, latest := all[0].at, all[0].at
	for _, d := range all[1:] {
		if d.at.Before(earliest) {
			earliest = d.at
		}
		if d.at.After(latest) {
			latest = d.at
		}
	}

	var (
		starts   []time.Time
		bucketOf func(time.Time) time.Time
	)
	automatic := func() {
		k := g.automaticPoints
		if earliest.Equal(latest) {
			k = 1
		}
		auto := timezone.AutomaticBuckets(earliest, latest, k)
		starts, bucketOf = auto.Starts(), auto.BucketOf
	}
	if unit == "" || unit == report.UnitAutomatic {
		automatic()
	} else {
		tz := g.in.TZ
		var ok bool
		starts, ok = tz.BucketsUpTo(earliest, latest, unit, g.maxDateBuckets)
		if ok {
			bucketOf = func(t time.Time) time.Time { return tz.Truncate(t, unit) }
		} else {
			slog.Warn("[Evaluation] Date span exceeds bucket limit, using automatic grouping",
				"unit", unit, "earliest", earliest, "latest", latest, "max_buckets", g.maxDateBuckets)
			automatic()
		}
	}

	groups := make([]group, len(starts))
	index := make(map[int64]int, len(starts))
	for i := range starts {
		groups[i].instant = &starts[i]
		index[starts[i].UnixNano()] = i
	}
	for _, d := range all {
		if i, ok := index[bucketOf(d.at).UnixNano()]; ok {
			groups[i].items = append(groups[i].items, d.it)
		}
	}
	return groups
}

func (g grouper) keysOf(by *report.GroupBy, it item) []groupKey {
	switch by.Type {
	case report.GroupByAssignee:
		return taskKeys(it, func(t report.UserTask) []string { return []string{t.Assignee} })
	case report.GroupByCandidateGroup:
		return taskKeys(it, func(t report.UserTask) []string {
			if len(t.CandidateGroups) == 0 {
				return []string{""}
			}
			return t.CandidateGroups
		})
	case report.GroupByVariable:
		v, ok := it.inst.Variable(by.Variable.Name)
		if !ok || v.Value == nil || (by.Variable.Type != "" && v.Type != by.Variable.Type) {
			return []groupKey{{key: MissingKey, label: "Missing"}}
		}
		key := variableKey(v)
		return []groupKey{{key: key, label: key}}
	case report.GroupByProcessDefinition:
		def := g.in.Definitions[it.defIdx]
		label := def.DisplayName
		if label == "" {
			label = def.Key
		}
		return []groupKey{{key: def.Key, label: label}}
	}
	return nil
}

// taskKeys returns the distinct ids found on the item's user tasks. An
// instance item is keyed by every task it has.
func taskKeys(it item, idsOf func(report.UserTask) []string) []groupKey {
	tasks := it.inst.UserTasks
	if it.task != nil {
		tasks = []report.UserTask{*it.task}
	}
	seen := make(map[string]struct{})
	var keys []groupKey
	for _, task := range tasks {
		for _, id := range idsOf(task) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			if id == "" {
				keys = append(keys, groupKey{key: UnassignedKey, label: "Unassigned"})
				continue
			}
			keys = append(keys, groupKey{key: id, label: id})
		}
	}
	return keys
}

func variableKey(v report.VariableValue) string {
	if v.Type.IsNumeric() {
		if d, ok := aggregation.ToDecimal(v.Value); ok {
			return d.String()
		}
	}
	if b, ok := v.Value.(bool); ok {
		return strconv.FormatBool(b)
	}
	return fmt.Sprint(v.Value)
}

// sortBuckets orders non-date buckets by key ascending unless sorting says otherwise.
func sortBuckets(buckets []Bucket, sorting *report.Sorting) {
	by, desc := report.SortByKey, false
	if sorting != nil {
		if sorting.By != "" {
			by = sorting.By
		}
		desc = sorting.Order == report.SortDesc
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		var c int
		if by == report.SortByValue {
			c = compareValues(buckets[i].Value, buckets[j].Value)
		} else {
			c = compareKeys(buckets[i].Key, buckets[j].Key)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// compareKeys orders numeric keys by value and everything else as strings.
func compareKeys(a, b string) int {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	if errA == nil && errB == nil {
		return da.Cmp(db)
	}
	return strings.Compare(a, b)
}

// compareValues ranks a missing value below any number.
func compareValues(a, b *decimal.Decimal) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Cmp(*b)
}
