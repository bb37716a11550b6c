package aggregation

import (
	"time"
)

// AutomaticWidth splits [earliest, latest] into points equal-width buckets.
// A zero range still yields a one-millisecond bucket so that every instant maps somewhere.
func AutomaticWidth(earliest, latest time.Time, points int) time.Duration {
	if points <= 0 {
		points = 1
	}
	width := latest.Sub(earliest) / time.Duration(points)
	if width < time.Millisecond {
		width = time.Millisecond
	}
	return width
}

// BucketFor maps t onto the start of its equal-width bucket counted from origin.
// The arithmetic runs on absolute instants, so zone offsets never change a bucket's width.
// Example: BucketFor(10:35:42, 10:00:00, 10m) → 10:30:00
func BucketFor(t, origin time.Time, width time.Duration) time.Time {
	if width <= 0 {
		return t
	}
	n := t.Sub(origin) / width
	if t.Before(origin) && t.Sub(origin)%width != 0 {
		n--
	}
	return origin.Add(n * width)
}
