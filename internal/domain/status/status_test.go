package status

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type span struct {
	id    string
	start *time.Time
	end   *time.Time
}

func (s span) Key() string                    { return s.id }
func (s span) Dates() (start, end *time.Time) { return s.start, s.end }

func tp(t time.Time) *time.Time { return &t }

func TestClassify(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  Status
	}{
		{"no dates", nil, nil, Unknown},
		{"future start only", tp(future), nil, Available},
		{"past start only", tp(past), nil, InProgress},
		{"past end only", nil, tp(past), Completed},
		{"future end only", nil, tp(future), InProgress},
		{"straddling now", tp(past), tp(future), InProgress},
		{"both future", tp(future), tp(future.Add(time.Hour)), Available},
		{"both past", tp(past.Add(-time.Hour)), tp(past), Completed},
		{"start equals now", tp(now), tp(future), InProgress},
		{"end equals now", tp(past), tp(now), InProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(span{start: tt.start, end: tt.end}, now))
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	now := time.Now()
	s := span{start: tp(now.Add(-time.Hour)), end: tp(now.Add(time.Hour))}
	first := Classify(s, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(s, now))
	}
}

// Random date pairs must follow the decision tree: future start wins, then
// past end, then in progress.
func TestClassifyProperty(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	randDate := func() *time.Time {
		if rng.Intn(4) == 0 {
			return nil
		}
		return tp(now.Add(time.Duration(rng.Intn(2000)-1000) * time.Hour))
	}

	for i := 0; i < 1000; i++ {
		s := span{start: randDate(), end: randDate()}
		got := Classify(s, now)

		switch {
		case s.start == nil && s.end == nil:
			assert.Equal(t, Unknown, got)
		case s.start != nil && now.Before(*s.start):
			assert.Equal(t, Available, got)
		case s.end != nil && now.After(*s.end):
			assert.Equal(t, Completed, got)
		default:
			assert.Equal(t, InProgress, got)
		}
	}
}

func TestBucketExclusive(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(2))

	var catalog []span
	var memberIDs []string
	for i := 0; i < 200; i++ {
		s := span{id: fmt.Sprintf("e%d", i)}
		if rng.Intn(3) > 0 {
			s.start = tp(now.Add(time.Duration(rng.Intn(2000)-1000) * time.Hour))
		}
		if rng.Intn(3) > 0 {
			s.end = tp(now.Add(time.Duration(rng.Intn(2000)-1000) * time.Hour))
		}
		catalog = append(catalog, s)
		if rng.Intn(2) == 0 {
			memberIDs = append(memberIDs, s.id)
		}
	}

	b := Bucket(catalog, MemberSet(memberIDs), now)

	seen := make(map[string]int)
	for _, e := range b.InProgress {
		seen[e.id]++
	}
	for _, e := range b.Assigned {
		seen[e.id]++
	}
	for _, e := range b.Completed {
		seen[e.id]++
	}

	// Every membership entity appears in exactly one of the three buckets.
	require.Len(t, seen, len(memberIDs))
	for _, id := range memberIDs {
		assert.Equal(t, 1, seen[id], "entity %s", id)
	}

	// Non-members all land in available, members never do.
	assert.Len(t, b.Available, len(catalog)-len(memberIDs))
	for _, e := range b.Available {
		assert.NotContains(t, memberIDs, e.id)
	}
}

func TestBucketUnknownDatesCountAsInProgress(t *testing.T) {
	now := time.Now()
	b := Bucket([]span{{id: "x"}}, MemberSet([]string{"x"}), now)
	require.Len(t, b.InProgress, 1)
	assert.Empty(t, b.Assigned)
	assert.Empty(t, b.Completed)
	assert.Empty(t, b.Available)
}

// An ended entity the user never joined still shows as available. Kept on
// purpose; see DESIGN.md.
func TestBucketAvailableIgnoresDates(t *testing.T) {
	now := time.Now()
	ended := span{id: "old", end: tp(now.Add(-720 * time.Hour))}
	b := Bucket([]span{ended}, nil, now)
	require.Len(t, b.Available, 1)
	assert.Equal(t, "old", b.Available[0].id)
}
