package evaluation

import (
	"sort"

	"github.com/aevon-lab/insight/internal/core/aggregation"
	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/timezone"
)

// Assemble renders an aggregation for the client. Date buckets are ordered by
// instant and keyed in the client zone; raw data dates are rendered there too.
func Assemble(agg *Aggregation, tz timezone.Context) ResultResponse {
	out := ResultResponse{
		Type:                        agg.Type,
		InstanceCount:               agg.InstanceCount,
		InstanceCountWithoutFilters: agg.InstanceCountWithoutFilters,
		Measures:                    make([]MeasureResponse, 0, len(agg.Measures)),
		Pagination:                  agg.Pagination,
	}
	for _, m := range agg.Measures {
		resp := MeasureResponse{Property: m.Property, AggregationType: m.AggregationType}
		switch agg.Type {
		case ResultRawData:
			resp.Data = rawRows(m.Rows, tz)
		case ResultNumber:
			resp.Data = m.Number
		case ResultMap:
			resp.Data = mapEntries(m.Buckets, tz)
		case ResultHyperMap:
			entries := make([]HyperMapEntry, 0, len(m.Buckets))
			for _, b := range orderByInstant(m.Buckets) {
				key, label := bucketKey(b, tz)
				entries = append(entries, HyperMapEntry{Key: key, Label: label, Value: mapEntries(b.Nested, tz)})
			}
			resp.Data = entries
		}
		out.Measures = append(out.Measures, resp)
	}
	return out
}

func mapEntries(buckets []Bucket, tz timezone.Context) []MapEntry {
	entries := make([]MapEntry, 0, len(buckets))
	for _, b := range orderByInstant(buckets) {
		key, label := bucketKey(b, tz)
		entries = append(entries, MapEntry{Key: key, Label: label, Value: b.Value})
	}
	return entries
}

// orderByInstant sorts date buckets ascending by their instant. Other buckets
// keep the evaluator's order.
func orderByInstant(buckets []Bucket) []Bucket {
	if len(buckets) == 0 || buckets[0].Instant == nil {
		return buckets
	}
	out := append([]Bucket{}, buckets...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Instant.Before(*out[j].Instant)
	})
	return out
}

func bucketKey(b Bucket, tz timezone.Context) (string, string) {
	if b.Instant == nil {
		return b.Key, b.Label
	}
	key := tz.ResultKey(*b.Instant)
	return key, key
}

func rawRows(rows []RawRow, tz timezone.Context) []RawDataRow {
	out := make([]RawDataRow, 0, len(rows))
	for _, row := range rows {
		inst := row.Instance
		r := RawDataRow{
			InstanceID:        inst.ID,
			DefinitionKey:     inst.DefinitionKey,
			DefinitionVersion: inst.DefinitionVersion,
			State:             inst.State,
			StartDate:         tz.ResultKey(inst.StartDate),
			Variables:         make(map[string]interface{}, len(inst.Variables)),
		}
		if inst.TenantID != report.NoTenant {
			tenant := inst.TenantID
			r.TenantID = &tenant
		}
		if inst.EndDate != nil {
			end := tz.ResultKey(*inst.EndDate)
			r.EndDate = &end
		}
		if d, ok := inst.Duration(); ok {
			ms := aggregation.DurationMillis(d).IntPart()
			r.Duration = &ms
		}
		for _, v := range inst.Variables {
			r.Variables[v.Name] = v.Value
		}
		out = append(out, r)
	}
	return out
}
