package evaluation

import (
	"context"
	"sort"
	"time"

	"github.com/aevon-lab/insight/internal/core/aggregation"
	httperr "github.com/aevon-lab/insight/internal/core/errors"
	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/storage"
	"github.com/aevon-lab/insight/internal/filter"
	"github.com/shopspring/decimal"
)

const (
	defaultAutomaticPoints = 80
	defaultRawDataLimit    = 20
	defaultMaxRawDataLimit = 10000
	defaultMaxDateBuckets  = 10000
)

// EvaluatorConfig bounds automatic buckets and raw data pages. Zero values fall back to defaults.
type EvaluatorConfig struct {
	AutomaticIntervalPoints int
	DefaultRawDataLimit     int
	MaxRawDataLimit         int
	MaxDateBuckets          int
}

// Evaluator computes the measures of a single report from the instance store.
type Evaluator struct {
	instances       storage.InstanceStore
	automaticPoints int
	defaultLimit    int
	maxLimit        int
	maxDateBuckets  int
}

// NewEvaluator creates an evaluator reading from instances.
func NewEvaluator(instances storage.InstanceStore, cfg EvaluatorConfig) *Evaluator {
	e := &Evaluator{
		instances:       instances,
		automaticPoints: cfg.AutomaticIntervalPoints,
		defaultLimit:    cfg.DefaultRawDataLimit,
		maxLimit:        cfg.MaxRawDataLimit,
		maxDateBuckets:  cfg.MaxDateBuckets,
	}
	if e.automaticPoints <= 0 {
		e.automaticPoints = defaultAutomaticPoints
	}
	if e.defaultLimit <= 0 {
		e.defaultLimit = defaultRawDataLimit
	}
	if e.maxLimit <= 0 {
		e.maxLimit = defaultMaxRawDataLimit
	}
	if e.maxLimit < e.defaultLimit {
		e.maxLimit = e.defaultLimit
	}
	if e.maxDateBuckets <= 0 {
		e.maxDateBuckets = defaultMaxDateBuckets
	}
	return e
}

// ResultTypeOf derives the result shape from a report's view and grouping.
func ResultTypeOf(data *report.ReportData) ResultType {
	switch {
	case data.View.HasProperty(report.PropertyRawData):
		return ResultRawData
	case data.GroupBy == nil || data.GroupBy.Type == report.GroupByNone || data.GroupBy.Type == "":
		return ResultNumber
	case data.DistributedBy != nil && data.DistributedBy.Type != report.GroupByNone && data.DistributedBy.Type != "":
		return ResultHyperMap
	default:
		return ResultMap
	}
}

// Check validates the parts of a report that need no store access and returns
// the page to apply to raw data results.
func (e *Evaluator) Check(r *report.ReportDefinition, p *Pagination) (*Pagination, error) {
	data := &r.Data
	if data.View == nil {
		return nil, httperr.Validationf("report %q has no view", r.ID)
	}
	if len(data.View.Properties) == 0 {
		return nil, httperr.Validationf("report %q view has no properties", r.ID)
	}
	if len(data.Definitions) == 0 {
		return nil, httperr.Validationf("report %q selects no definitions", r.ID)
	}

	resultType := ResultTypeOf(data)
	if p != nil && resultType != ResultRawData {
		return nil, httperr.Validationf("pagination is only supported for raw data reports, report %q is %s", r.ID, resultType)
	}

	for _, prop := range data.View.Properties {
		switch prop {
		case report.PropertyFrequency, report.PropertyDuration, report.PropertyRawData:
		case report.PropertyVariable:
			if data.View.Variable == nil || !data.View.Variable.Type.IsNumeric() {
				return nil, httperr.Validationf("variable view needs a numeric variable")
			}
		default:
			return nil, httperr.Validationf("unknown view property %q", prop)
		}
	}

	if _, err := aggregation.ParseOperators(data.Configuration.AggregationTypes); err != nil {
		return nil, httperr.Validationf("%s", err)
	}
	if err := checkGrouping(data.GroupBy, "groupBy"); err != nil {
		return nil, err
	}
	if err := checkGrouping(data.DistributedBy, "distributedBy"); err != nil {
		return nil, err
	}
	if data.DistributedBy != nil && data.DistributedBy.Type.IsDate() {
		return nil, httperr.Validationf("distributedBy does not support %s", data.DistributedBy.Type)
	}

	if resultType != ResultRawData {
		return nil, nil
	}
	page := &Pagination{Offset: 0, Limit: e.defaultLimit}
	if p != nil {
		if p.Offset < 0 {
			return nil, httperr.Validationf("offset must not be negative")
		}
		limit := p.Limit
		if limit == 0 {
			limit = e.defaultLimit
		}
		if limit < 0 || limit > e.maxLimit {
			return nil, httperr.Validationf("limit must be between 1 and %d", e.maxLimit)
		}
		page = &Pagination{Offset: p.Offset, Limit: limit}
	}
	return page, nil
}

func checkGrouping(g *report.GroupBy, field string) error {
	if g == nil {
		return nil
	}
	switch g.Type {
	case "", report.GroupByNone, report.GroupByStartDate, report.GroupByEndDate,
		report.GroupByAssignee, report.GroupByCandidateGroup, report.GroupByProcessDefinition:
	case report.GroupByVariable:
		if g.Variable == nil || g.Variable.Name == "" {
			return httperr.Validationf("%s variable needs a variable name", field)
		}
	default:
		return httperr.Validationf("unknown %s type %q", field, g.Type)
	}
	if g.Unit != "" && !g.Unit.Valid() {
		return httperr.Validationf("unknown %s unit %q", field, g.Unit)
	}
	return nil
}

// Evaluate loads the instances of every resolved definition, applies the
// filters and computes the report's measures.
func (e *Evaluator) Evaluate(ctx context.Context, in Input) (*Aggregation, error) {
	page, err := e.Check(in.Report, in.Pagination)
	if err != nil {
		return nil, err
	}

	loaded, err := e.load(ctx, in)
	if err != nil {
		return nil, err
	}

	matched := make([]RawRow, 0, len(loaded))
	var unfiltered int64
	effective := make([]filter.Predicate, len(in.Definitions))
	persisted := make([]filter.Predicate, len(in.Definitions))
	for idx := range in.Definitions {
		effective[idx] = filter.Compile(in.Filters.Effective, idx, in.TZ, in.Now)
		persisted[idx] = filter.Compile(in.Filters.Persisted, idx, in.TZ, in.Now)
	}
	for _, row := range loaded {
		if persisted[row.DefinitionIdx](row.Instance) {
			unfiltered++
		}
		if effective[row.DefinitionIdx](row.Instance) {
			matched = append(matched, row)
		}
	}

	data := &in.Report.Data
	agg := &Aggregation{
		Type:                        ResultTypeOf(data),
		InstanceCount:               int64(len(matched)),
		InstanceCountWithoutFilters: unfiltered,
	}

	if agg.Type == ResultRawData {
		agg.Pagination = page
		agg.Measures = []Measure{{Property: report.PropertyRawData, Rows: paginate(matched, page)}}
		return agg, nil
	}

	items := itemsOf(data.View, matched)
	specs := measureSpecs(data.View, data.Configuration)
	g := grouper{in: in, automaticPoints: e.automaticPoints, maxDateBuckets: e.maxDateBuckets}

	switch agg.Type {
	case ResultNumber:
		for _, spec := range specs {
			agg.Measures = append(agg.Measures, spec.measure(spec.reduce(items), nil))
		}
	case ResultMap:
		groups, dated := g.group(data.GroupBy, items)
		for _, spec := range specs {
			buckets := make([]Bucket, 0, len(groups))
			for _, grp := range groups {
				buckets = append(buckets, grp.bucket(spec.reduce(grp.items)))
			}
			if !dated {
				sortBuckets(buckets, data.Configuration.Sorting)
			}
			agg.Measures = append(agg.Measures, spec.measure(nil, buckets))
		}
	case ResultHyperMap:
		groups, dated := g.group(data.GroupBy, items)
		innerKeys := g.innerKeys(data.DistributedBy, items)
		for _, spec := range specs {
			buckets := make([]Bucket, 0, len(groups))
			for _, grp := range groups {
				outer := grp.bucket(nil)
				byKey := g.split(data.DistributedBy, grp.items)
				for _, key := range innerKeys {
					outer.Nested = append(outer.Nested, key.bucket(spec.reduce(byKey[key.key])))
				}
				buckets = append(buckets, outer)
			}
			if !dated {
				sortBuckets(buckets, nil)
			}
			agg.Measures = append(agg.Measures, spec.measure(nil, buckets))
		}
	}
	return agg, nil
}

func (e *Evaluator) load(ctx context.Context, in Input) ([]RawRow, error) {
	var rows []RawRow
	for idx, def := range in.Definitions {
		if len(def.Versions) == 0 || len(def.TenantIDs) == 0 {
			continue
		}
		found, err := e.instances.FindInstances(ctx, storage.InstanceQuery{
			DefinitionType: in.Report.ReportType,
			DefinitionKey:  def.Key,
			Versions:       def.Versions,
			TenantIDs:      def.TenantIDs,
		})
		if err != nil {
			return nil, httperr.Evaluationf(err, "load instances of %s", report.ScopeEntryID(in.Report.ReportType, def.Key))
		}
		for _, inst := range found {
			rows = append(rows, RawRow{Instance: inst, DefinitionIdx: idx})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Instance, rows[j].Instance
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		return a.ID < b.ID
	})
	return rows, nil
}

func paginate(rows []RawRow, page *Pagination) []RawRow {
	if page.Offset >= len(rows) {
		return []RawRow{}
	}
	end := page.Offset + page.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[page.Offset:end]
}

// item is the unit a measure counts: an instance, or one user task of it.
type item struct {
	inst   *report.Instance
	task   *report.UserTask
	defIdx int
}

func (it item) startDate() time.Time {
	if it.task != nil {
		return it.task.StartDate
	}
	return it.inst.StartDate
}

func (it item) endDate() *time.Time {
	if it.task != nil {
		return it.task.EndDate
	}
	return it.inst.EndDate
}

func (it item) duration() (time.Duration, bool) {
	if it.task != nil {
		return it.task.Duration()
	}
	return it.inst.Duration()
}

func itemsOf(view *report.View, rows []RawRow) []item {
	items := make([]item, 0, len(rows))
	for _, row := range rows {
		if view.Entity == report.ViewUserTask {
			for i := range row.Instance.UserTasks {
				items = append(items, item{inst: row.Instance, task: &row.Instance.UserTasks[i], defIdx: row.DefinitionIdx})
			}
			continue
		}
		items = append(items, item{inst: row.Instance, defIdx: row.DefinitionIdx})
	}
	return items
}

// measureSpec is one measure of the view: an operator plus the value it reduces.
type measureSpec struct {
	property report.ViewProperty
	op       string
	extract  func(it item) (decimal.Decimal, bool)
}

func measureSpecs(view *report.View, cfg report.Configuration) []measureSpec {
	ops, _ := aggregation.ParseOperators(cfg.AggregationTypes)
	var specs []measureSpec
	for _, prop := range view.Properties {
		switch prop {
		case report.PropertyFrequency:
			specs = append(specs, measureSpec{property: prop, op: aggregation.OpCount, extract: func(item) (decimal.Decimal, bool) {
				return decimal.NewFromInt(1), true
			}})
		case report.PropertyDuration:
			for _, op := range ops {
				specs = append(specs, measureSpec{property: prop, op: op, extract: func(it item) (decimal.Decimal, bool) {
					d, ok := it.duration()
					if !ok {
						return decimal.Zero, false
					}
					return aggregation.DurationMillis(d), true
				}})
			}
		case report.PropertyVariable:
			ref := *view.Variable
			for _, op := range ops {
				specs = append(specs, measureSpec{property: prop, op: op, extract: func(it item) (decimal.Decimal, bool) {
					v, ok := it.inst.Variable(ref.Name)
					if !ok || v.Type != ref.Type {
						return decimal.Zero, false
					}
					return aggregation.ToDecimal(v.Value)
				}})
			}
		}
	}
	return specs
}

// reduce returns nil when no item carries a value, except for frequency which counts zero.
func (m measureSpec) reduce(items []item) *decimal.Decimal {
	values := make([]decimal.Decimal, 0, len(items))
	for _, it := range items {
		if v, ok := m.extract(it); ok {
			values = append(values, v)
		}
	}
	v, ok := aggregation.Reduce(m.op, values)
	if !ok {
		if m.property == report.PropertyFrequency {
			zero := decimal.Zero
			return &zero
		}
		return nil
	}
	return &v
}

func (m measureSpec) measure(number *decimal.Decimal, buckets []Bucket) Measure {
	out := Measure{Property: m.property, Number: number, Buckets: buckets}
	if m.property != report.PropertyFrequency {
		out.AggregationType = m.op
	}
	return out
}
