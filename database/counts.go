package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

// CountStore keeps one aggregate document per (collection, scope) in status_counts.
type CountStore struct {
	coll *mongo.Collection
}

func NewCountStore(db *mongo.Database) *CountStore {
	return &CountStore{coll: db.Collection(CollectionStatusCounts)}
}

func countsID(collection, scope string) string {
	if scope == "" {
		return collection
	}
	return collection + ":" + scope
}

// incDocument turns a delta into a single $inc update that creates the
// aggregate on first use.
func incDocument(collection, scope string, delta models.CountDelta) bson.M {
	inc := bson.M{}
	for key, v := range delta {
		if v != 0 {
			inc["counts."+key] = v
		}
	}
	return bson.M{
		"$inc":         inc,
		"$setOnInsert": bson.M{"collection": collection, "scope": scope},
	}
}

// Apply adds delta to the aggregate. Pass a session context to make it part of
// a transaction.
func (s *CountStore) Apply(ctx context.Context, collection, scope string, delta models.CountDelta) error {
	if delta.IsZero() {
		return nil
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": countsID(collection, scope)},
		incDocument(collection, scope, delta),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return errs.NewDatabaseError("update", "status counts", err)
	}
	return nil
}

// Get returns the aggregate, all zeros when none was written yet.
func (s *CountStore) Get(ctx context.Context, collection, scope string) (models.StatusCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var counts models.StatusCounts
	err := s.coll.FindOne(ctx, bson.M{"_id": countsID(collection, scope)}).Decode(&counts)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.StatusCounts{
			ID:         countsID(collection, scope),
			Collection: collection,
			Scope:      scope,
			Counts:     map[string]int64{},
		}, nil
	}
	if err != nil {
		return counts, errs.NewDatabaseError("find", "status counts", err)
	}
	if counts.Counts == nil {
		counts.Counts = map[string]int64{}
	}
	return counts, nil
}

// Put overwrites an aggregate. Used when recounting.
func (s *CountStore) Put(ctx context.Context, counts models.StatusCounts) error {
	counts.ID = countsID(counts.Collection, counts.Scope)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": counts.ID}, counts, options.Replace().SetUpsert(true))
	if err != nil {
		return errs.NewDatabaseError("replace", "status counts", err)
	}
	return nil
}

// groupRow is one line of the recount aggregation.
type groupRow struct {
	ID struct {
		Scope string      `bson:"scope"`
		Value interface{} `bson:"value"`
	} `bson:"_id"`
	Count int64 `bson:"count"`
}

func recountPipeline(keyField, scopeField string) bson.A {
	group := bson.M{"value": "$" + keyField}
	if scopeField != "" {
		group["scope"] = "$" + scopeField
	}
	return bson.A{
		bson.M{"$group": bson.M{
			"_id":   group,
			"count": bson.M{"$sum": 1},
		}},
	}
}

// foldCounts turns grouped rows into one aggregate per scope. keyOf maps a
// grouped field value to its aggregate key; keys are always present, even at zero.
func foldCounts(collection string, rows []groupRow, keys []string, keyOf func(interface{}) string) map[string]models.StatusCounts {
	out := map[string]models.StatusCounts{}
	get := func(scope string) models.StatusCounts {
		c, ok := out[scope]
		if !ok {
			c = models.StatusCounts{Collection: collection, Scope: scope, Counts: map[string]int64{models.TotalKey: 0}}
			for _, key := range keys {
				c.Counts[key] = 0
			}
			c.ID = countsID(collection, scope)
			out[scope] = c
		}
		return c
	}
	for _, row := range rows {
		c := get(row.ID.Scope)
		c.Counts[keyOf(row.ID.Value)] += row.Count
		c.Counts[models.TotalKey] += row.Count
	}
	return out
}
