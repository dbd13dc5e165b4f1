// Package ranking groups the events shown on a volunteer dashboard into priority buckets.
//
// Every upcoming event lands in exactly one bucket, the first that matches in this order:
// happening tomorrow, already completed, matching an interest, within 2, 5 or 10 km, other.
// Events inside a bucket are ordered by date, then start time, then id.
package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/yigit/volunteerhub/internal/pkg/clock"
)

// BucketKey identifies a dashboard bucket
type BucketKey string

// Buckets in precedence order
const (
	BucketTomorrow   BucketKey = "tomorrow"
	BucketCompleted  BucketKey = "completed"
	BucketInterests  BucketKey = "interests"
	BucketWithin2km  BucketKey = "within_2km"
	BucketWithin5km  BucketKey = "within_5km"
	BucketWithin10km BucketKey = "within_10km"
	BucketOther      BucketKey = "other"
)

type bucketSpec struct {
	key   BucketKey
	title string
	badge string
}

var precedence = []bucketSpec{
	{BucketTomorrow, "Happening Tomorrow", "bg-danger"},
	{BucketCompleted, "Completed", "bg-dark"},
	{BucketInterests, "Matching Your Interests", "bg-success"},
	{BucketWithin2km, "Within 2km", "bg-primary"},
	{BucketWithin5km, "Within 5km", "bg-info"},
	{BucketWithin10km, "Within 10km", "bg-warning"},
	{BucketOther, "Other Events", "bg-secondary"},
}

// Distance thresholds in kilometres, inclusive
var distanceBands = []struct {
	key   BucketKey
	maxKm float64
}{
	{BucketWithin2km, 2},
	{BucketWithin5km, 5},
	{BucketWithin10km, 10},
}

// Candidate is an event as the categorizer sees it
type Candidate struct {
	ID        int64
	Category  string
	Date      time.Time     // calendar date, see clock.DateOf
	StartTime time.Duration // offset from midnight
	Completed bool
	// DistanceKm is nil when the distance is unknown
	DistanceKm *float64
}

// Bucket is one non-empty dashboard group
type Bucket struct {
	Key    BucketKey
	Title  string
	Badge  string
	Events []Candidate
}

// Result is the categorized dashboard
type Result struct {
	// Buckets holds the non-empty buckets in precedence order
	Buckets []Bucket
}

// Bucket returns the events of key, nil when the bucket is empty
func (r Result) Bucket(key BucketKey) []Candidate {
	for _, b := range r.Buckets {
		if b.Key == key {
			return b.Events
		}
	}
	return nil
}

// Completed returns the completed events, which are shown regardless of rank
func (r Result) Completed() []Candidate {
	return r.Bucket(BucketCompleted)
}

// IsUpcoming reports whether an event on date starting at start has not begun yet at now.
// now is read on its own wall clock.
func IsUpcoming(now, date time.Time, start time.Duration) bool {
	today := clock.DateOf(now)
	day := clock.DateOf(date)
	if day.After(today) {
		return true
	}
	return day.Equal(today) && start > clock.TimeOfDay(now)
}

// Categorize places each upcoming candidate into the first matching bucket. Candidates
// that are not upcoming at now are dropped. interests are matched as lowercase substrings
// of the category.
func Categorize(now time.Time, interests []string, events []Candidate) Result {
	tokens := NormalizeInterests(interests)
	tomorrow := clock.DateOf(now).AddDate(0, 0, 1)

	grouped := make(map[BucketKey][]Candidate, len(precedence))
	for _, ev := range events {
		if !IsUpcoming(now, ev.Date, ev.StartTime) {
			continue
		}
		key := classify(ev, tomorrow, tokens)
		grouped[key] = append(grouped[key], ev)
	}

	var result Result
	for _, spec := range precedence {
		members := grouped[spec.key]
		if len(members) == 0 {
			continue
		}
		sortChronologically(members)
		result.Buckets = append(result.Buckets, Bucket{
			Key:    spec.key,
			Title:  spec.title,
			Badge:  spec.badge,
			Events: members,
		})
	}
	return result
}

func classify(ev Candidate, tomorrow time.Time, interests []string) BucketKey {
	if clock.DateOf(ev.Date).Equal(tomorrow) {
		return BucketTomorrow
	}
	if ev.Completed {
		return BucketCompleted
	}
	if MatchesInterest(ev.Category, interests) {
		return BucketInterests
	}
	if ev.DistanceKm != nil {
		for _, band := range distanceBands {
			if *ev.DistanceKm <= band.maxKm {
				return band.key
			}
		}
	}
	return BucketOther
}

// MatchesInterest reports whether the lowercased category contains any normalized interest
func MatchesInterest(category string, interests []string) bool {
	category = strings.ToLower(category)
	for _, interest := range interests {
		if interest != "" && strings.Contains(category, interest) {
			return true
		}
	}
	return false
}

func sortChronologically(events []Candidate) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
}

// NormalizeInterests lowercases and trims each interest, dropping empty and repeated ones.
// Order of first appearance is kept.
func NormalizeInterests(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		token := strings.ToLower(strings.TrimSpace(item))
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// ParseInterests splits a comma separated interest list and normalizes it
func ParseInterests(s string) []string {
	return NormalizeInterests(strings.Split(s, ","))
}
