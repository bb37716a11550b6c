package timezone

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
	"time"

	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestNew_FallsBackToServerZone(t *testing.T) {
	berlin := mustLoad(t, "Europe/Berlin")

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "absent", header: "", want: "Europe/Berlin"},
		{name: "unknown", header: "Mars/Olympus_Mons", want: "Europe/Berlin"},
		{name: "garbage", header: "+01:00???", want: "Europe/Berlin"},
		{name: "valid", header: "America/New_York", want: "America/New_York"},
		{name: "padded", header: " UTC ", want: "UTC"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := New(berlin, tc.header)
			require.Equal(t, tc.want, ctx.Client.String())
			require.Equal(t, berlin, ctx.Server)
		})
	}

	require.Equal(t, time.UTC, New(nil, "").Client)
}

func TestQueryBounds_RelativeYearUsesClientZone(t *testing.T) {
	berlin := mustLoad(t, "Europe/Berlin")
	ctx := New(berlin, "UTC")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, berlin)

	start, end := ctx.QueryBounds(report.RelativeDate{Value: 0, Unit: report.UnitYear}, now)
	require.NotNil(t, start)
	require.NotNil(t, end)
	require.True(t, start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, end.Equal(now))

	// Midnight Jan 1 in Berlin is still the previous year in UTC.
	berlinNewYear := time.Date(2024, 1, 1, 0, 0, 0, 0, berlin)
	require.True(t, berlinNewYear.Before(*start))

	// Evaluated in Berlin the same instant is inside the window.
	berlinStart, _ := New(berlin, "").QueryBounds(report.RelativeDate{Value: 0, Unit: report.UnitYear}, now)
	require.True(t, berlinStart.Equal(berlinNewYear))
}

func TestQueryBounds_RelativeExcludesCurrentUnit(t *testing.T) {
	ctx := New(time.UTC, "")
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	start, end := ctx.QueryBounds(report.RelativeDate{Value: 1, Unit: report.UnitMonth}, now)
	require.True(t, start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, end.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)))
}

func TestQueryBounds_Rolling(t *testing.T) {
	ctx := New(time.UTC, "Europe/Berlin")
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	start, end := ctx.QueryBounds(report.RollingDate{Value: 1, Unit: report.UnitDay}, now)
	// The civil day across the spring-forward change is 23 hours long.
	require.Equal(t, 23*time.Hour, end.Sub(*start))
	require.True(t, end.Equal(now))
}

func TestQueryBounds_FixedKeepsExplicitOffset(t *testing.T) {
	ctx := New(time.UTC, "Asia/Tokyo")

	withOffset, err := report.ParseOffsetTime("2024-01-01T00:00:00.000+0100")
	require.NoError(t, err)
	local, err := report.ParseOffsetTime("2024-01-31T00:00:00")
	require.NoError(t, err)

	start, end := ctx.QueryBounds(report.FixedDate{Start: &withOffset, End: &local}, time.Now())
	require.True(t, start.Equal(time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)))
	require.True(t, end.Equal(time.Date(2024, 1, 30, 15, 0, 0, 0, time.UTC)))

	openStart, openEnd := ctx.QueryBounds(report.FixedDate{End: &local}, time.Now())
	require.Nil(t, openStart)
	require.NotNil(t, openEnd)
}

func TestTruncate_YearAcrossSummerTime(t *testing.T) {
	berlin := mustLoad(t, "Europe/Berlin")
	ctx := New(time.UTC, "Europe/Berlin")
	summer := time.Date(2024, 7, 15, 12, 0, 0, 0, berlin)

	bucket := ctx.Truncate(summer, report.UnitYear)
	key := ctx.ResultKey(bucket)
	require.Equal(t, "2024-01-01T00:00:00.000+0100", key)

	parsed, err := ParseResultKey(key)
	require.NoError(t, err)
	require.True(t, parsed.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, berlin)))
}

func TestTruncate_Units(t *testing.T) {
	ctx := New(time.UTC, "")
	ts := time.Date(2024, 8, 15, 13, 47, 31, 0, time.UTC) // Thursday

	tests := []struct {
		unit report.DateUnit
		want time.Time
	}{
		{unit: report.UnitYear, want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{unit: report.UnitQuarter, want: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
		{unit: report.UnitMonth, want: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)},
		{unit: report.UnitWeek, want: time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC)},
		{unit: report.UnitDay, want: time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)},
		{unit: report.UnitHour, want: time.Date(2024, 8, 15, 13, 0, 0, 0, time.UTC)},
		{unit: report.UnitMinute, want: time.Date(2024, 8, 15, 13, 47, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(string(tc.unit), func(t *testing.T) {
			require.True(t, tc.want.Equal(ctx.Truncate(ts, tc.unit)), "got %s", ctx.Truncate(ts, tc.unit))
		})
	}
}

func TestTruncate_HourAtFallBack(t *testing.T) {
	ctx := New(time.UTC, "Europe/Berlin")
	// 2024-10-27 02:30 happens twice in Berlin: 00:30Z (+02:00) and 01:30Z (+01:00).
	first := time.Date(2024, 10, 27, 0, 30, 0, 0, time.UTC)
	second := time.Date(2024, 10, 27, 1, 30, 0, 0, time.UTC)

	b1 := ctx.Truncate(first, report.UnitHour)
	b2 := ctx.Truncate(second, report.UnitHour)
	require.True(t, b1.Equal(time.Date(2024, 10, 27, 0, 0, 0, 0, time.UTC)))
	require.True(t, b2.Equal(time.Date(2024, 10, 27, 1, 0, 0, 0, time.UTC)))
	require.Equal(t, "2024-10-27T02:00:00.000+0200", ctx.ResultKey(b1))
	require.Equal(t, "2024-10-27T02:00:00.000+0100", ctx.ResultKey(b2))
	require.True(t, ctx.Next(b1, report.UnitHour).Equal(b2))
}

func TestBuckets_FillsGaps(t *testing.T) {
	ctx := New(time.UTC, "")
	first := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	buckets := ctx.Buckets(last, first, report.UnitMonth)
	require.Len(t, buckets, 4)
	require.True(t, buckets[0].Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, buckets[3].Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestAutomaticBuckets(t *testing.T) {
	earliest := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)
	latest := earliest.Add(80 * time.Hour)

	auto := AutomaticBuckets(latest, earliest, 80)
	require.Equal(t, time.Hour, auto.Width)
	starts := auto.Starts()
	require.Len(t, starts, 80)
	require.True(t, starts[0].Equal(earliest))

	require.True(t, auto.BucketOf(latest).Equal(starts[79]))
	require.True(t, auto.BucketOf(earliest.Add(90*time.Minute)).Equal(starts[1]))
	require.True(t, auto.BucketOf(earliest.Add(-time.Hour)).Equal(earliest))

	// Width is constant even though Berlin changes its clocks inside the range.
	ctx := New(time.UTC, "Europe/Berlin")
	for i := 1; i < len(starts); i++ {
		require.Equal(t, time.Hour, starts[i].Sub(starts[i-1]))
		a, _ := ParseResultKey(ctx.ResultKey(starts[i-1]))
		b, _ := ParseResultKey(ctx.ResultKey(starts[i]))
		require.True(t, a.Before(b))
	}
}

func TestAutomaticBuckets_ShortRangeStopsAtLatest(t *testing.T) {
	earliest := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		span      time.Duration
		wantCount int
	}{
		{name: "single instant", span: 0, wantCount: 1},
		{name: "five milliseconds", span: 5 * time.Millisecond, wantCount: 6},
		{name: "seventy nine milliseconds", span: 79 * time.Millisecond, wantCount: 80},
		{name: "eighty milliseconds", span: 80 * time.Millisecond, wantCount: 80},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			latest := earliest.Add(tc.span)
			auto := AutomaticBuckets(earliest, latest, 80)
			require.Equal(t, time.Millisecond, auto.Width)
			starts := auto.Starts()
			require.Len(t, starts, tc.wantCount)
			require.False(t, starts[len(starts)-1].After(latest))
			require.True(t, auto.BucketOf(latest).Equal(starts[len(starts)-1]))
		})
	}
}

func TestBucketsUpTo(t *testing.T) {
	ctx := New(time.UTC, "Europe/Berlin")
	first := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	starts, ok := ctx.BucketsUpTo(first, last, report.UnitHour, 1000)
	require.False(t, ok)
	require.Nil(t, starts)

	starts, ok = ctx.BucketsUpTo(first, last, report.UnitYear, 1000)
	require.True(t, ok)
	require.Len(t, starts, 35)
	require.Equal(t, ctx.Buckets(first, last, report.UnitYear), starts)

	starts, ok = ctx.BucketsUpTo(first, first.Add(2*time.Hour), report.UnitHour, 3)
	require.True(t, ok)
	require.Len(t, starts, 3)
}

var quickZones = []string{
	"UTC", "Europe/Berlin", "America/New_York", "Asia/Kolkata", "Australia/Lord_Howe",
	"Pacific/Chatham", "America/Sao_Paulo", "Asia/Kathmandu", "Europe/London",
}

var quickUnits = []report.DateUnit{
	report.UnitYear, report.UnitQuarter, report.UnitMonth, report.UnitWeek,
	report.UnitDay, report.UnitHour, report.UnitMinute,
}

type bucketCase struct {
	Server  string
	Client  string
	Unit    report.DateUnit
	Instant time.Time
	Span    time.Duration
}

func (bucketCase) Generate(r *rand.Rand, _ int) reflect.Value {
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	unit := quickUnits[r.Intn(len(quickUnits))]
	span := time.Duration(r.Int63n(int64(72 * time.Hour)))
	if unit == report.UnitYear || unit == report.UnitQuarter || unit == report.UnitMonth || unit == report.UnitWeek {
		span = time.Duration(r.Int63n(int64(3 * 365 * 24 * time.Hour)))
	}
	return reflect.ValueOf(bucketCase{
		Server:  quickZones[r.Intn(len(quickZones))],
		Client:  quickZones[r.Intn(len(quickZones))],
		Unit:    unit,
		Instant: base.Add(time.Duration(r.Int63n(int64(40 * 365 * 24 * time.Hour)))),
		Span:    span,
	})
}

func TestBuckets_KeysAscendAcrossZones(t *testing.T) {
	check := func(c bucketCase) bool {
		server, err := time.LoadLocation(c.Server)
		if err != nil {
			return false
		}
		ctx := New(server, c.Client)
		buckets := ctx.Buckets(c.Instant, c.Instant.Add(c.Span), c.Unit)
		if len(buckets) == 0 {
			return false
		}
		var prev time.Time
		for i, b := range buckets {
			parsed, err := ParseResultKey(ctx.ResultKey(b))
			if err != nil || !parsed.Equal(b.Truncate(time.Millisecond)) {
				return false
			}
			if i > 0 && !parsed.After(prev) {
				return false
			}
			prev = parsed
		}
		return true
	}
	require.NoError(t, quick.Check(check, &quick.Config{MaxCount: 300}))
}

func TestBuckets_ContainEveryTruncation(t *testing.T) {
	tests := []struct {
		name  string
		zone  string
		unit  report.DateUnit
		first time.Time
		last  time.Time
	}{
		// Midnight did not exist in Sao Paulo on 2018-11-04.
		{name: "skipped midnight", zone: "America/Sao_Paulo", unit: report.UnitDay,
			first: time.Date(2018, 11, 2, 12, 0, 0, 0, time.UTC), last: time.Date(2018, 11, 6, 12, 0, 0, 0, time.UTC)},
		// Lord Howe shifts by 30 minutes on 2024-10-06.
		{name: "half hour shift", zone: "Australia/Lord_Howe", unit: report.UnitHour,
			first: time.Date(2024, 10, 5, 12, 0, 0, 0, time.UTC), last: time.Date(2024, 10, 5, 18, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := New(time.UTC, tc.zone)
			buckets := ctx.Buckets(tc.first, tc.last, tc.unit)
			starts := make(map[int64]bool, len(buckets))
			for i, b := range buckets {
				if i > 0 {
					require.True(t, b.After(buckets[i-1]))
				}
				starts[b.UnixNano()] = true
			}
			for at := tc.first; !at.After(tc.last); at = at.Add(10 * time.Minute) {
				require.True(t, starts[ctx.Truncate(at, tc.unit).UnixNano()], "no bucket for %s", at)
			}
		})
	}
}
