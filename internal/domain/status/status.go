// Package status derives lifecycle statuses for time-bounded entities and
// groups them into per-user buckets.
package status

import "time"

type Status string

const (
	Unknown    Status = "unknown"
	Available  Status = "available"
	InProgress Status = "in-progress"
	Completed  Status = "completed"
)

// Dated is anything scheduled within an optional date range. Either bound
// may be nil.
type Dated interface {
	Dates() (start, end *time.Time)
}

// Entity is a catalog entity that can be bucketed per user.
type Entity interface {
	Dated
	Key() string
}

// Classify derives the lifecycle status of d at the given instant.
//
// A future start date means available, a past end date means completed and
// anything else with at least one known date is in progress; both bounds are
// inclusive. With no term data at all the status is unknown.
func Classify(d Dated, now time.Time) Status {
	start, end := d.Dates()
	switch {
	case start == nil && end == nil:
		return Unknown
	case start != nil && now.Before(*start):
		return Available
	case end != nil && now.After(*end):
		return Completed
	}
	return InProgress
}

// Buckets is the per-user grouping of a catalog. Every entity the user holds
// a membership for lands in exactly one of InProgress, Assigned or
// Completed. Available holds every entity the user is not a member of,
// regardless of its dates. An ended entity nobody joined still counts as
// available.
type Buckets[T Entity] struct {
	InProgress []T
	Assigned   []T
	Completed  []T
	Available  []T
}

// Bucket routes every entity of the catalog into the user's buckets.
// memberOf is the set of entity ids the user holds a membership record for.
// Member entities without term data route to InProgress.
func Bucket[T Entity](catalog []T, memberOf map[string]struct{}, now time.Time) Buckets[T] {
	var b Buckets[T]
	for _, e := range catalog {
		if _, ok := memberOf[e.Key()]; !ok {
			b.Available = append(b.Available, e)
			continue
		}
		switch Classify(e, now) {
		case Available:
			b.Assigned = append(b.Assigned, e)
		case Completed:
			b.Completed = append(b.Completed, e)
		default:
			b.InProgress = append(b.InProgress, e)
		}
	}
	return b
}

// MemberSet builds the membership lookup set from a list of entity ids.
func MemberSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
