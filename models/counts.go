package models

import "strings"

const (
	// TotalKey holds the number of documents across every status.
	TotalKey = "count"
	// AllLabel is the filter label that selects every status.
	AllLabel = "all"

	ReadKey   = "read"
	UnreadKey = "unread"
)

// ReadStateKeys are the aggregate fields kept for contact messages.
var ReadStateKeys = []string{ReadKey, UnreadKey}

// LabelKey maps a filter label to the aggregate field counting it.
func LabelKey(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" || label == AllLabel {
		return TotalKey
	}
	return label
}

// ReadStateKey is the aggregate field for a contact's read flag.
func ReadStateKey(isRead bool) string {
	if isRead {
		return ReadKey
	}
	return UnreadKey
}

// CountDelta is the set of increments applied to an aggregate in one update.
type CountDelta map[string]int64

// CreationDelta counts a new document in its initial state.
func CreationDelta(key string) CountDelta {
	return CountDelta{TotalKey: 1, key: 1}
}

// TransitionDelta moves one document between two states. The total is untouched.
func TransitionDelta(fromKey, toKey string) CountDelta {
	if fromKey == toKey {
		return CountDelta{}
	}
	return CountDelta{fromKey: -1, toKey: 1}
}

// IsZero reports whether applying the delta would change nothing.
func (d CountDelta) IsZero() bool {
	for _, v := range d {
		if v != 0 {
			return false
		}
	}
	return true
}

// Balanced reports whether the per-state increments add up to the total increment.
func (d CountDelta) Balanced() bool {
	var sum int64
	for key, v := range d {
		if key != TotalKey {
			sum += v
		}
	}
	return sum == d[TotalKey]
}

// StatusCounts is the denormalized aggregate document of one collection scope.
type StatusCounts struct {
	ID         string           `bson:"_id" json:"id"`
	Collection string           `bson:"collection" json:"collection"`
	Scope      string           `bson:"scope" json:"scope"`
	Counts     map[string]int64 `bson:"counts" json:"counts"`
}

// Get returns the count for a filter label, "all" meaning the total.
func (c StatusCounts) Get(label string) int64 {
	if c.Counts == nil {
		return 0
	}
	return c.Counts[LabelKey(label)]
}

// Consistent reports whether the given per-state counts add up to the total.
func (c StatusCounts) Consistent(keys []string) bool {
	var sum int64
	for _, key := range keys {
		sum += c.Counts[key]
	}
	return sum == c.Counts[TotalKey]
}
