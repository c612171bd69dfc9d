package database

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

// setupTestDB connects to MONGODB_TEST_URI, which must point at a replica set
// since status changes run in transactions. Every test gets its own database.
func setupTestDB(t *testing.T) Database {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx := context.Background()
	client, db, err := Connect(ctx, uri, "dashboard_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		Disconnect(client)
	})

	d := New(db)
	require.NoError(t, d.EnsureIndexes(ctx))
	return d
}

func newRide(title string) *models.Ride {
	return &models.Ride{
		Title:             title,
		Description:       "test ride",
		StartDate:         time.Now().UTC().Truncate(time.Millisecond),
		Route:             "https://maps.example.com/" + title,
		Thumbnail:         "https://cdn.example.com/" + title + ".png",
		AverageKilometers: 42,
	}
}

func TestSoftDeleteKeepsRecord(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	rides := d.RideRepo()

	ride := newRide("alpha")
	require.NoError(t, rides.Add(ctx, ride))
	assert.Equal(t, models.StatusActive, ride.Status)

	deleted, err := rides.SoftDelete(ctx, ride.ID, bson.M{"updatedBy": "tester"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeleted, deleted.Status)

	stored, err := rides.FindByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeleted, stored.Status)
	assert.Equal(t, "tester", stored.UpdatedBy)

	n, err := rides.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// deleted is terminal
	_, err = rides.Transition(ctx, ride.ID, models.StatusActive, nil)
	assert.True(t, errs.IsInvalidTransitionError(err))

	counts, err := rides.Counts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Get("all"))
	assert.Equal(t, int64(1), counts.Get("deleted"))
	assert.Equal(t, int64(0), counts.Get("active"))
	assert.True(t, counts.Consistent(models.RideLifecycle.CountKeys()))
}

func TestPaginationHasNoOverlapOrGap(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	rides := d.RideRepo()

	for i := 0; i < 12; i++ {
		require.NoError(t, rides.Add(ctx, newRide(fmt.Sprintf("ride-%02d", i))))
	}

	book := NewCursorBook()
	scope := ScopeKey(rides.Collection(), "all", 5)

	first, err := rides.PageAt(ctx, book, scope, nil, 1, 5)
	require.NoError(t, err)
	require.Len(t, first.Rows, 5)
	assert.Equal(t, "ride-04", first.Next.Value)
	assert.Equal(t, first.Rows[4].ID, first.Next.ID)

	second, err := rides.PageAt(ctx, book, scope, nil, 2, 5)
	require.NoError(t, err)
	require.Len(t, second.Rows, 5)
	assert.Equal(t, "ride-05", second.Rows[0].Title)

	// jumping straight to page 3 of a fresh book walks pages 1 and 2 first
	third, err := rides.PageAt(ctx, NewCursorBook(), scope, nil, 3, 5)
	require.NoError(t, err)
	require.Len(t, third.Rows, 2)
	assert.Equal(t, "ride-10", third.Rows[0].Title)

	beyond, err := rides.PageAt(ctx, NewCursorBook(), scope, nil, 5, 5)
	require.NoError(t, err)
	assert.Empty(t, beyond.Rows)
}

func TestStatusFilterAppliesOnEveryPage(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	rides := d.RideRepo()

	for i := 0; i < 8; i++ {
		ride := newRide(fmt.Sprintf("ride-%02d", i))
		require.NoError(t, rides.Add(ctx, ride))
		if i%2 == 0 {
			_, err := rides.Transition(ctx, ride.ID, models.StatusOngoing, nil)
			require.NoError(t, err)
		}
	}

	filter, err := rides.Filter("ongoing")
	require.NoError(t, err)
	book := NewCursorBook()
	scope := ScopeKey(rides.Collection(), "ongoing", 2)

	for page := 1; page <= 2; page++ {
		result, err := rides.PageAt(ctx, book, scope, filter, page, 2)
		require.NoError(t, err)
		require.Len(t, result.Rows, 2)
		for _, ride := range result.Rows {
			assert.Equal(t, models.StatusOngoing, ride.Status)
		}
	}

	counts, err := rides.Counts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(4), counts.Get("ongoing"))
	assert.Equal(t, int64(4), counts.Get("active"))
	assert.Equal(t, int64(8), counts.Get("all"))
}

func TestContactReadCountsAndRecount(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	contacts := d.ContactRepo()

	var ids []string
	for i := 0; i < 3; i++ {
		c := &models.Contact{
			Product: models.ProductVikin,
			Name:    fmt.Sprintf("sender %d", i),
			Email:   "sender@example.com",
			Subject: "hello",
			Query:   "question",
		}
		require.NoError(t, contacts.Add(ctx, c))
		ids = append(ids, c.ID)
	}

	_, err := contacts.MarkRead(ctx, ids[0], true)
	require.NoError(t, err)
	_, err = contacts.MarkRead(ctx, ids[0], true)
	require.NoError(t, err)

	counts, err := contacts.Counts(ctx, string(models.ProductVikin))
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Get("read"))
	assert.Equal(t, int64(2), counts.Get("unread"))

	// drift introduced outside the repository is repaired by a recount
	require.NoError(t, d.Counts().Apply(ctx, CollectionContacts, "vikin", models.CountDelta{"read": 5}))
	_, err = d.Recount(ctx)
	require.NoError(t, err)

	counts, err = contacts.Counts(ctx, "vikin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Get("read"))
	assert.True(t, counts.Consistent(models.ReadStateKeys))
}

func TestTagsAndBasicDetails(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	set, added, err := d.TagRepo().Add(ctx, "blog", "Go", "go", "Mongo")
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"Go", "Mongo"}, set.Tags)

	_, err = d.TagRepo().Remove(ctx, "blog", "java")
	assert.True(t, errs.IsNotFound(err))

	details, err := d.BasicDetailsRepo().Get(ctx, models.ProductPortfolio)
	require.NoError(t, err)
	assert.Empty(t, details.UpdatedBy)

	details.Bio = "hello"
	details.Socials = map[string]string{"github": "https://github.com/example"}
	_, err = d.BasicDetailsRepo().Save(ctx, models.ProductPortfolio, details, "user-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, d.BasicDetailsRepo().DeleteSocial(ctx, models.ProductPortfolio, "github"))

	stored, err := d.BasicDetailsRepo().Get(ctx, models.ProductPortfolio)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Bio)
	assert.Empty(t, stored.Socials)
	assert.Len(t, stored.UpdatedBy, 1)
}

func TestLiveAnnouncementsNewestFirst(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	announcements := d.AnnouncementRepo()

	base := time.Now().UTC().Truncate(time.Millisecond)
	var ids []string
	for i, title := range []string{"older", "newer", "removed"} {
		a := &models.Announcement{Title: title, Message: "msg", AnnouncedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, announcements.Add(ctx, a))
		ids = append(ids, a.ID)
	}
	_, err := announcements.SoftDelete(ctx, ids[2], nil)
	require.NoError(t, err)

	live, err := announcements.Live(ctx)
	require.NoError(t, err)
	require.Len(t, live, 2)
	assert.Equal(t, ids[1], live[0].ID)
	assert.Equal(t, ids[0], live[1].ID)
}
