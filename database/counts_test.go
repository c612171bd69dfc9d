package database

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rpupo63/unified-admin-dashboard/models"
)

func TestIncDocument(t *testing.T) {
	got := incDocument(CollectionRides, "", models.TransitionDelta("active", "ongoing"))
	want := bson.M{
		"$inc":         bson.M{"counts.active": int64(-1), "counts.ongoing": int64(1)},
		"$setOnInsert": bson.M{"collection": CollectionRides, "scope": ""},
	}
	assert.Empty(t, cmp.Diff(want, got))
	assert.Equal(t, "rides", countsID(CollectionRides, ""))
	assert.Equal(t, "contacts:vikin", countsID(CollectionContacts, "vikin"))
}

func TestRecountPipeline(t *testing.T) {
	a := assert.New(t)

	a.Empty(cmp.Diff(bson.A{bson.M{"$group": bson.M{
		"_id":   bson.M{"value": "$status"},
		"count": bson.M{"$sum": 1},
	}}}, recountPipeline("status", "")))

	a.Empty(cmp.Diff(bson.A{bson.M{"$group": bson.M{
		"_id":   bson.M{"value": "$isRead", "scope": "$product"},
		"count": bson.M{"$sum": 1},
	}}}, recountPipeline("isRead", "product")))
}

func row(scope string, value interface{}, count int64) groupRow {
	var r groupRow
	r.ID.Scope = scope
	r.ID.Value = value
	r.Count = count
	return r
}

func TestFoldCounts(t *testing.T) {
	a := assert.New(t)

	rides := foldCounts(CollectionRides, []groupRow{
		row("", "Active", 4),
		row("", "Completed", 2),
		row("", "Deleted", 1),
	}, models.RideLifecycle.CountKeys(), statusKeyOf)

	a.Len(rides, 1)
	got := rides[""]
	a.Equal("rides", got.ID)
	a.Equal(map[string]int64{
		"count": 7, "active": 4, "inactive": 0, "ongoing": 0, "completed": 2, "deleted": 1,
	}, got.Counts)
	a.True(got.Consistent(models.RideLifecycle.CountKeys()))

	contacts := foldCounts(CollectionContacts, []groupRow{
		row("portfolio", true, 3),
		row("portfolio", false, 2),
		row("vikin", false, 5),
	}, models.ReadStateKeys, readStateKeyOf)

	a.Len(contacts, 2)
	a.Equal(map[string]int64{"count": 5, "read": 3, "unread": 2}, contacts["portfolio"].Counts)
	a.Equal(map[string]int64{"count": 5, "read": 0, "unread": 5}, contacts["vikin"].Counts)
	a.Equal("contacts:vikin", contacts["vikin"].ID)
}

func TestAnd(t *testing.T) {
	a := assert.New(t)
	a.Equal(bson.M{}, And(nil, bson.M{}))
	a.Equal(bson.M{"status": "Active"}, And(bson.M{"status": "Active"}, nil))
	a.Equal(bson.M{"$and": bson.A{bson.M{"a": 1}, bson.M{"b": 2}}}, And(bson.M{"a": 1}, bson.M{"b": 2}))
}

func TestListingFilters(t *testing.T) {
	a := assert.New(t)

	rides := LifecycleFilter(models.RideLifecycle)
	f, err := rides("all")
	a.NoError(err)
	a.Equal(bson.M{}, f)

	f, err = rides("ongoing")
	a.NoError(err)
	a.Equal(bson.M{"status": models.StatusOngoing}, f)

	_, err = rides("deactivated")
	a.Error(err)

	f, err = ReadStateFilter("unread")
	a.NoError(err)
	a.Equal(bson.M{"isRead": false}, f)

	_, err = ReadStateFilter("archived")
	a.Error(err)
}
