package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCountDeltas(t *testing.T) {
	a := assert.New(t)

	created := CreationDelta(StatusActive.CountKey())
	a.Empty(cmp.Diff(CountDelta{"count": 1, "active": 1}, created))
	a.True(created.Balanced())

	moved := TransitionDelta(StatusActive.CountKey(), StatusDeleted.CountKey())
	a.Empty(cmp.Diff(CountDelta{"active": -1, "deleted": 1}, moved))
	a.True(moved.Balanced())

	same := TransitionDelta("read", "read")
	a.True(same.IsZero())
	a.True(same.Balanced())

	a.False(CountDelta{"count": 1}.Balanced())
}

// Applying every lifecycle edge to an aggregate keeps it consistent.
func TestDeltasKeepAggregateConsistent(t *testing.T) {
	counts := StatusCounts{Counts: map[string]int64{}}
	apply := func(d CountDelta) {
		for k, v := range d {
			counts.Counts[k] += v
		}
	}

	for i := 0; i < 3; i++ {
		apply(CreationDelta(RideLifecycle.Initial.CountKey()))
	}
	apply(TransitionDelta(StatusActive.CountKey(), StatusOngoing.CountKey()))
	apply(TransitionDelta(StatusOngoing.CountKey(), StatusCompleted.CountKey()))
	apply(TransitionDelta(StatusActive.CountKey(), StatusDeleted.CountKey()))

	a := assert.New(t)
	a.True(counts.Consistent(RideLifecycle.CountKeys()))
	a.Equal(int64(3), counts.Get("all"))
	a.Equal(int64(1), counts.Get("Active"))
	a.Equal(int64(1), counts.Get("completed"))
	a.Equal(int64(1), counts.Get("deleted"))
	a.Equal(int64(0), counts.Get("ongoing"))
}

func TestLabelKey(t *testing.T) {
	a := assert.New(t)
	a.Equal("count", LabelKey("all"))
	a.Equal("count", LabelKey(""))
	a.Equal("unread", LabelKey(" Unread "))
	a.Equal("read", ReadStateKey(true))
	a.Equal("unread", ReadStateKey(false))
	a.Equal(int64(0), StatusCounts{}.Get("all"))
}

func TestTagSet(t *testing.T) {
	a := assert.New(t)
	set := TagSet{Tags: []string{"Go"}}

	a.Equal(2, set.Merge("go", " Rust ", "", "mongo", "MONGO"))
	a.Equal([]string{"Go", "Rust", "mongo"}, set.Tags)

	a.True(set.Remove("rust"))
	a.False(set.Remove("java"))
	a.Equal([]string{"Go", "mongo"}, set.Tags)
}
