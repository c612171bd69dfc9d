package models

import (
	"strings"

	"github.com/rpupo63/unified-admin-dashboard/errs"
)

// Status is the lifecycle marker stored on every soft-deletable document.
type Status string

const (
	StatusActive      Status = "Active"
	StatusInactive    Status = "Inactive"
	StatusOngoing     Status = "Ongoing"
	StatusCompleted   Status = "Completed"
	StatusDeleted     Status = "Deleted"
	StatusDeactivated Status = "Deactivated"
)

var allStatuses = []Status{
	StatusActive,
	StatusInactive,
	StatusOngoing,
	StatusCompleted,
	StatusDeleted,
	StatusDeactivated,
}

// ParseStatus accepts any casing of a known status.
func ParseStatus(s string) (Status, bool) {
	for _, status := range allStatuses {
		if strings.EqualFold(s, string(status)) {
			return status, true
		}
	}
	return "", false
}

// CountKey is the field of a status aggregate that counts documents in this status.
func (s Status) CountKey() string {
	return strings.ToLower(string(s))
}

func (s Status) IsDeleted() bool {
	return s == StatusDeleted
}

// Lifecycle describes which statuses one kind of entity may move between.
type Lifecycle struct {
	Name     string
	Initial  Status
	statuses []Status
	next     map[Status][]Status
}

func newLifecycle(name string, initial Status, statuses []Status, next map[Status][]Status) Lifecycle {
	return Lifecycle{Name: name, Initial: initial, statuses: statuses, next: next}
}

var (
	// ContentLifecycle covers blogs, projects, experience, announcements and newsletter entries.
	ContentLifecycle = newLifecycle("content", StatusActive,
		[]Status{StatusActive, StatusInactive, StatusDeleted},
		map[Status][]Status{
			StatusActive:   {StatusInactive, StatusDeleted},
			StatusInactive: {StatusActive, StatusDeleted},
		})

	RideLifecycle = newLifecycle("ride", StatusActive,
		[]Status{StatusActive, StatusInactive, StatusOngoing, StatusCompleted, StatusDeleted},
		map[Status][]Status{
			StatusActive:    {StatusInactive, StatusOngoing, StatusDeleted},
			StatusInactive:  {StatusActive, StatusDeleted},
			StatusOngoing:   {StatusCompleted, StatusDeleted},
			StatusCompleted: {StatusDeleted},
		})

	RiderLifecycle = newLifecycle("rider", StatusActive,
		[]Status{StatusActive, StatusDeactivated},
		map[Status][]Status{
			StatusActive:      {StatusDeactivated},
			StatusDeactivated: {StatusActive},
		})
)

// Statuses lists every status of the lifecycle in display order.
func (l Lifecycle) Statuses() []Status {
	out := make([]Status, len(l.statuses))
	copy(out, l.statuses)
	return out
}

// Has reports whether s belongs to the lifecycle.
func (l Lifecycle) Has(s Status) bool {
	for _, status := range l.statuses {
		if status == s {
			return true
		}
	}
	return false
}

// Allows reports whether a document may move from one status to another.
// Staying in place is always allowed and changes nothing.
func (l Lifecycle) Allows(from, to Status) bool {
	if from == to {
		return l.Has(from)
	}
	for _, candidate := range l.next[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Check returns an invalid-transition error when Allows is false.
func (l Lifecycle) Check(from, to Status) error {
	if !l.Allows(from, to) {
		return errs.NewInvalidTransitionError(l.Name, string(from), string(to))
	}
	return nil
}

// CountKeys returns the aggregate fields maintained for this lifecycle.
func (l Lifecycle) CountKeys() []string {
	keys := make([]string, 0, len(l.statuses))
	for _, status := range l.statuses {
		keys = append(keys, status.CountKey())
	}
	return keys
}
