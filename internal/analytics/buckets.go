package analytics

import (
	"fmt"
	"time"
)

// Granularity selects the bucket width for timeline aggregation.
type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// Bucket is one fixed period in a timeline. Key is stable ("2025-01" or
// "2025"); Label is for display ("Jan 2025").
type Bucket struct {
	Key   string
	Label string
	Start time.Time
}

// Buckets generates the ordered, gapless sequence of buckets spanning
// [from, to] inclusive. Every period in the window appears exactly once even
// when it holds no activity. An inverted window yields an empty sequence.
func Buckets(from, to time.Time, g Granularity) []Bucket {
	if from.After(to) {
		return nil
	}

	var out []Bucket
	cur := bucketStart(from, g)
	for !cur.After(to) {
		out = append(out, Bucket{
			Key:   BucketKey(cur, g),
			Label: bucketLabel(cur, g),
			Start: cur,
		})
		cur = advance(cur, g)
	}
	return out
}

// BucketKey returns the stable key of the bucket containing t.
func BucketKey(t time.Time, g Granularity) string {
	if g == GranularityYear {
		return fmt.Sprintf("%04d", t.Year())
	}
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

func bucketLabel(t time.Time, g Granularity) string {
	if g == GranularityYear {
		return fmt.Sprintf("%04d", t.Year())
	}
	return t.Format("Jan 2006")
}

func bucketStart(t time.Time, g Granularity) time.Time {
	if g == GranularityYear {
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func advance(t time.Time, g Granularity) time.Time {
	if g == GranularityYear {
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 1, 0)
}

// monthsSpanned counts calendar months covered by [from, to] inclusive,
// never less than one so rate division stays defined.
func monthsSpanned(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
	if months < 1 {
		return 1
	}
	return months
}
