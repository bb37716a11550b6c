package timezone

import (
	"log/slog"
	"strings"
	"time"

	"github.com/aevon-lab/insight/internal/core/aggregation"
	"github.com/aevon-lab/insight/internal/core/report"
)

// ClientTimezoneHeader carries the caller's IANA zone id.
const ClientTimezoneHeader = "X-Optimize-Client-Timezone"

// Context pairs the server's configured zone with the zone a request renders in.
// It is built per request and never shared.
type Context struct {
	Server *time.Location
	Client *time.Location
}

// New resolves the client zone from a header value. An empty or unknown zone
// falls back to the server zone without error.
func New(server *time.Location, header string) Context {
	if server == nil {
		server = time.UTC
	}
	ctx := Context{Server: server, Client: server}
	zone := strings.TrimSpace(header)
	if zone == "" {
		return ctx
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		slog.Debug("[Timezone] unknown client zone, using server zone", "zone", zone, "server_zone", server.String())
		return ctx
	}
	ctx.Client = loc
	return ctx
}

// ResultKey renders an instant in the client zone.
func (c Context) ResultKey(t time.Time) string {
	return t.In(c.Client).Format(report.DateLayout)
}

// ParseResultKey turns a rendered key back into an instant.
func ParseResultKey(key string) (time.Time, error) {
	return time.Parse(report.DateLayout, key)
}

// QueryBounds converts a date filter value into inclusive absolute bounds.
// A nil bound is open.
func (c Context) QueryBounds(date report.DateValue, now time.Time) (start, end *time.Time) {
	switch d := date.(type) {
	case report.FixedDate:
		if d.Start != nil {
			s := d.Start.In(c.Client)
			start = &s
		}
		if d.End != nil {
			e := d.End.In(c.Client)
			end = &e
		}
	case report.RelativeDate:
		current := c.Truncate(now, d.Unit)
		s := c.AddUnits(current, -d.Value, d.Unit)
		e := now
		if d.Value > 0 {
			// The current unit is excluded; bounds are inclusive.
			e = current.Add(-time.Nanosecond)
		}
		start, end = &s, &e
	case report.RollingDate:
		s := c.AddUnits(now, -d.Value, d.Unit)
		e := now
		start, end = &s, &e
	}
	return start, end
}

// Truncate returns the start of the unit containing t in the client zone.
// Day and coarser units follow the civil calendar; hours and minutes are cut in
// absolute time using the offset in effect at t, so DST transitions keep their
// repeated or skipped hour intact.
func (c Context) Truncate(t time.Time, unit report.DateUnit) time.Time {
	local := t.In(c.Client)
	y, m, d := local.Date()
	switch unit {
	case report.UnitYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, c.Client)
	case report.UnitQuarter:
		return time.Date(y, ((m-1)/3)*3+1, 1, 0, 0, 0, 0, c.Client)
	case report.UnitMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, c.Client)
	case report.UnitWeek:
		back := (int(local.Weekday()) + 6) % 7
		return time.Date(y, m, d-back, 0, 0, 0, 0, c.Client)
	case report.UnitDay:
		return time.Date(y, m, d, 0, 0, 0, 0, c.Client)
	case report.UnitHour:
		return truncateAbsolute(local, time.Hour)
	case report.UnitMinute:
		return truncateAbsolute(local, time.Minute)
	}
	return local
}

// Next returns the start of the unit following bucketStart. The result is
// truncated again so it matches Truncate when a zone skips midnight or shifts
// its offset by less than an hour.
func (c Context) Next(bucketStart time.Time, unit report.DateUnit) time.Time {
	return c.Truncate(c.AddUnits(bucketStart, 1, unit), unit)
}

// AddUnits moves t by n units. Calendar units use the client zone's civil
// calendar; hours and minutes are absolute durations.
func (c Context) AddUnits(t time.Time, n int, unit report.DateUnit) time.Time {
	local := t.In(c.Client)
	switch unit {
	case report.UnitYear:
		return local.AddDate(n, 0, 0)
	case report.UnitQuarter:
		return local.AddDate(0, 3*n, 0)
	case report.UnitMonth:
		return local.AddDate(0, n, 0)
	case report.UnitWeek:
		return local.AddDate(0, 0, 7*n)
	case report.UnitDay:
		return local.AddDate(0, 0, n)
	case report.UnitHour:
		return local.Add(time.Duration(n) * time.Hour)
	case report.UnitMinute:
		return local.Add(time.Duration(n) * time.Minute)
	}
	return local
}

// Buckets lists unit bucket starts covering [first, last] in the client zone,
// including empty buckets in between.
func (c Context) Buckets(first, last time.Time, unit report.DateUnit) []time.Time {
	out, _ := c.BucketsUpTo(first, last, unit, 0)
	return out
}

// BucketsUpTo is Buckets stopped at limit starts. It returns nil and false when
// the span needs more than limit buckets. A limit of zero or less means none.
func (c Context) BucketsUpTo(first, last time.Time, unit report.DateUnit, limit int) ([]time.Time, bool) {
	if last.Before(first) {
		first, last = last, first
	}
	var out []time.Time
	for b := c.Truncate(first, unit); !b.After(last); b = c.Next(b, unit) {
		if limit > 0 && len(out) == limit {
			return nil, false
		}
		out = append(out, b)
	}
	return out, true
}

func truncateAbsolute(local time.Time, d time.Duration) time.Time {
	_, offset := local.Zone()
	shift := time.Duration(offset) * time.Second
	return local.Add(shift).Truncate(d).Add(-shift).In(local.Location())
}

// Automatic describes equal-width buckets spanning a data range.
type Automatic struct {
	Origin time.Time
	Width  time.Duration
	Count  int
}

// AutomaticBuckets splits [earliest, latest] into at most k buckets computed on
// absolute instants.
func AutomaticBuckets(earliest, latest time.Time, k int) Automatic {
	if k <= 0 {
		k = 1
	}
	if latest.Before(earliest) {
		earliest, latest = latest, earliest
	}
	width := aggregation.AutomaticWidth(earliest, latest, k)
	// Ranges shorter than k milliseconds need fewer buckets to reach latest.
	span := latest.Sub(earliest)
	if need := int((span+width-1)/width) + 1; need < k {
		k = need
	}
	return Automatic{
		Origin: earliest,
		Width:  width,
		Count:  k,
	}
}

// Starts returns every bucket start in ascending order.
func (a Automatic) Starts() []time.Time {
	out := make([]time.Time, a.Count)
	for i := range out {
		out[i] = a.Origin.Add(time.Duration(i) * a.Width)
	}
	return out
}

// BucketOf maps t to its bucket start. The latest instant lands in the last bucket.
func (a Automatic) BucketOf(t time.Time) time.Time {
	b := aggregation.BucketFor(t, a.Origin, a.Width)
	last := a.Origin.Add(time.Duration(a.Count-1) * a.Width)
	if b.After(last) {
		return last
	}
	if b.Before(a.Origin) {
		return a.Origin
	}
	return b
}
