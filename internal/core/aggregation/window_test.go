package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAutomaticWidth(t *testing.T) {
	start := time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 18*time.Minute, AutomaticWidth(start, start.Add(24*time.Hour), 80))
	require.Equal(t, time.Millisecond, AutomaticWidth(start, start, 80))
	require.Equal(t, time.Hour, AutomaticWidth(start, start.Add(time.Hour), 0))
}

func TestBucketFor(t *testing.T) {
	origin := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	ts := time.Date(2026, 2, 11, 10, 35, 42, 123456789, time.UTC)

	require.Equal(t,
		time.Date(2026, 2, 11, 10, 30, 0, 0, time.UTC),
		BucketFor(ts, origin, 10*time.Minute),
	)
	require.Equal(t, origin, BucketFor(origin, origin, time.Hour))
	require.Equal(t,
		time.Date(2026, 2, 11, 9, 50, 0, 0, time.UTC),
		BucketFor(origin.Add(-5*time.Minute), origin, 10*time.Minute),
	)
	require.Equal(t, ts, BucketFor(ts, origin, 0))
}

func TestBucketFor_IgnoresZoneOffsets(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2026-03-29 02:00 local is the spring-forward gap in Berlin.
	origin := time.Date(2026, 3, 29, 0, 0, 0, 0, berlin)
	got := BucketFor(origin.Add(3*time.Hour+10*time.Minute), origin, time.Hour)
	require.Equal(t, 3*time.Hour, got.Sub(origin))
}
