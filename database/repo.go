package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/metrics"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

// Document is the pointer form of a stored record.
type Document[T any] interface {
	*T
	GetID() string
	SetID(string)
}

// Counting describes the status aggregate kept next to a collection.
type Counting struct {
	Store *CountStore
	// KeyField and ScopeField are grouped on when rebuilding the aggregate.
	KeyField   string
	ScopeField string
	Keys       []string
	// KeyOf maps a grouped KeyField value to its aggregate key.
	KeyOf func(interface{}) string
}

type RepoConfig struct {
	Collection string
	Entity     string
	SortField  string
	Lifecycle  *models.Lifecycle
	Counting   *Counting
	// Filter turns a listing filter label into a query; nil accepts only "all".
	Filter func(label string) (bson.M, error)
	// Protected fields are never overwritten by Replace.
	Protected []string
}

// Repo is the document store access shared by every collection. Records are
// never removed: SoftDelete moves them to the Deleted status.
type Repo[T any, P Document[T]] struct {
	coll      *mongo.Collection
	entity    string
	sortField string
	lifecycle *models.Lifecycle
	counting  *Counting
	filter    func(label string) (bson.M, error)
	protected []string
}

func NewRepo[T any, P Document[T]](db *mongo.Database, cfg RepoConfig) *Repo[T, P] {
	protected := append([]string{"_id", "status", "createdAt", "createdBy"}, cfg.Protected...)
	return &Repo[T, P]{
		coll:      db.Collection(cfg.Collection),
		entity:    cfg.Entity,
		sortField: cfg.SortField,
		lifecycle: cfg.Lifecycle,
		counting:  cfg.Counting,
		filter:    cfg.Filter,
		protected: protected,
	}
}

// Collection returns the collection name.
func (r *Repo[T, P]) Collection() string {
	return r.coll.Name()
}

func (r *Repo[T, P]) Lifecycle() *models.Lifecycle {
	return r.lifecycle
}

// FindByID returns a record by its ID
func (r *Repo[T, P]) FindByID(ctx context.Context, id string) (P, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc T
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, errs.NewDatabaseError("find", r.entity, err)
	}
	return P(&doc), nil
}

// FindAll returns every record matching filter. A nil sort orders by the listing sort field.
func (r *Repo[T, P]) FindAll(ctx context.Context, filter bson.M, sort bson.D) ([]P, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	if sort == nil {
		sort = pageSort(r.sortField)
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, errs.NewDatabaseError("list", r.entity, err)
	}
	defer cur.Close(ctx)

	docs := []T{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errs.NewDatabaseError("decode", r.entity, err)
	}
	out := make([]P, len(docs))
	for i := range docs {
		out[i] = P(&docs[i])
	}
	return out, nil
}

// Add inserts a record, assigning a new id when it has none, and counts it in
// the aggregate within the same transaction.
func (r *Repo[T, P]) Add(ctx context.Context, doc P) error {
	if doc.GetID() == "" {
		doc.SetID(uuid.NewString())
	}
	if err := r.checkInitialStatus(doc); err != nil {
		return err
	}

	insert := func(ctx context.Context) error {
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			return errs.NewDatabaseError("create", r.entity, err)
		}
		return nil
	}

	counted, ok := any(doc).(models.Counted)
	if r.counting == nil || !ok {
		ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
		return insert(ctx)
	}
	return r.inTransaction(ctx, "create "+r.entity, func(sc context.Context) error {
		if err := insert(sc); err != nil {
			return err
		}
		return r.counting.Store.Apply(sc, r.Collection(), counted.CountScope(), models.CreationDelta(counted.CountKey()))
	})
}

func (r *Repo[T, P]) checkInitialStatus(doc P) error {
	st, ok := any(doc).(models.Statused)
	if !ok || r.lifecycle == nil {
		return nil
	}
	if st.GetStatus() == "" {
		st.SetStatus(r.lifecycle.Initial)
	}
	if !r.lifecycle.Has(st.GetStatus()) || st.GetStatus().IsDeleted() {
		return errs.NewInvalidFieldError("status", "not a valid initial status for "+r.entity)
	}
	return nil
}

// Replace overwrites every field of the stored record except the protected
// ones (id, status, creation audit) and returns the stored result.
func (r *Repo[T, P]) Replace(ctx context.Context, id string, doc P) (P, error) {
	set, err := r.toSet(doc)
	if err != nil {
		return nil, err
	}
	if err := r.Patch(ctx, id, set); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Patch applies $set to one record. Status and aggregate fields must go through
// Transition or Mutate instead.
func (r *Repo[T, P]) Patch(ctx context.Context, id string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return errs.NewDatabaseError("update", r.entity, err)
	}
	if res.MatchedCount == 0 {
		return errs.NewNotFound(r.entity)
	}
	return nil
}

// Unset removes fields from one record.
func (r *Repo[T, P]) Unset(ctx context.Context, id string, fields ...string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	unset := bson.M{}
	for _, f := range fields {
		unset[f] = ""
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$unset": unset})
	if err != nil {
		return errs.NewDatabaseError("update", r.entity, err)
	}
	if res.MatchedCount == 0 {
		return errs.NewNotFound(r.entity)
	}
	return nil
}

// Upsert writes the whole record under id, creating it when missing.
func (r *Repo[T, P]) Upsert(ctx context.Context, id string, doc P) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc.SetID(id)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true)); err != nil {
		return errs.NewDatabaseError("save", r.entity, err)
	}
	return nil
}

func (r *Repo[T, P]) toSet(doc P) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, errs.NewMalformedPayloadError(r.entity, err)
	}
	set := bson.M{}
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, errs.NewMalformedPayloadError(r.entity, err)
	}
	for _, field := range r.protected {
		delete(set, field)
	}
	return set, nil
}

// Mutate loads a record, lets fn change it and return the $set to store, and
// moves the record between aggregate keys when its key changed. With an
// aggregate the read, the write and the $inc happen in one transaction.
func (r *Repo[T, P]) Mutate(ctx context.Context, id string, fn func(P) (bson.M, error)) (P, error) {
	var out P
	op := func(ctx context.Context) error {
		var doc T
		if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
			return errs.NewDatabaseError("find", r.entity, err)
		}
		p := P(&doc)
		counted, isCounted := any(p).(models.Counted)
		var before string
		if isCounted {
			before = counted.CountKey()
		}

		set, err := fn(p)
		if err != nil {
			return err
		}
		out = p
		if len(set) == 0 {
			return nil
		}
		if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
			return errs.NewDatabaseError("update", r.entity, err)
		}
		if r.counting == nil || !isCounted {
			return nil
		}
		return r.counting.Store.Apply(ctx, r.Collection(), counted.CountScope(), models.TransitionDelta(before, counted.CountKey()))
	}

	var err error
	if r.counting == nil {
		ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
		err = op(ctx)
	} else {
		err = r.inTransaction(ctx, "update "+r.entity, op)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transition moves a record to another status of its lifecycle, setting the
// extra fields alongside. Moving to the current status changes nothing.
func (r *Repo[T, P]) Transition(ctx context.Context, id string, to models.Status, extra bson.M) (P, error) {
	if r.lifecycle == nil {
		return nil, errs.NewInternalError(r.entity + " has no status lifecycle")
	}
	var from models.Status
	doc, err := r.Mutate(ctx, id, func(doc P) (bson.M, error) {
		st, ok := any(doc).(models.Statused)
		if !ok {
			return nil, errs.NewInternalError(r.entity + " has no status")
		}
		from = st.GetStatus()
		if err := r.lifecycle.Check(from, to); err != nil {
			return nil, err
		}
		if from == to {
			return nil, nil
		}
		st.SetStatus(to)
		set := bson.M{"status": to}
		for k, v := range extra {
			set[k] = v
		}
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	if from != to {
		metrics.StatusTransitions.WithLabelValues(r.Collection(), string(from), string(to)).Inc()
	}
	return doc, nil
}

// SoftDelete marks the record Deleted. There is no physical delete.
func (r *Repo[T, P]) SoftDelete(ctx context.Context, id string, extra bson.M) (P, error) {
	return r.Transition(ctx, id, models.StatusDeleted, extra)
}

// Page is one page of a cursor paginated listing. Next is the cursor of the
// last row, nil when the page is empty.
type Page[P any] struct {
	Rows []P
	Next *Cursor
}

// Page fetches at most size rows ordered after the cursor.
func (r *Repo[T, P]) Page(ctx context.Context, filter bson.M, size int, after *Cursor) (Page[P], error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	page := Page[P]{Rows: []P{}}
	opts := options.Find().SetSort(pageSort(r.sortField)).SetLimit(int64(size))
	cur, err := r.coll.Find(ctx, pageFilter(filter, r.sortField, after), opts)
	if err != nil {
		return page, errs.NewDatabaseError("list", r.entity, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc T
		if err := cur.Decode(&doc); err != nil {
			return page, errs.NewDatabaseError("decode", r.entity, err)
		}
		page.Rows = append(page.Rows, P(&doc))
		page.Next = cursorFrom(cur.Current, r.sortField)
	}
	if err := cur.Err(); err != nil {
		return page, errs.NewDatabaseError("list", r.entity, err)
	}
	return page, nil
}

func cursorFrom(raw bson.Raw, sortField string) *Cursor {
	id, _ := raw.Lookup("_id").StringValueOK()
	value, _ := raw.Lookup(sortField).StringValueOK()
	return &Cursor{Value: value, ID: id}
}

// PageAt returns page number page of the listing scope, continuing from the
// cursors in book and recording the cursor of every page it fetches.
func (r *Repo[T, P]) PageAt(ctx context.Context, book *CursorBook, scope string, filter bson.M, page, size int) (Page[P], error) {
	from, after := book.Start(scope, page)
	for p := from; ; p++ {
		result, err := r.Page(ctx, filter, size, after)
		if err != nil {
			return result, err
		}
		book.Record(scope, p, result.Next)
		if p >= page || result.Next == nil || len(result.Rows) < size {
			if p < page {
				return Page[P]{Rows: []P{}}, nil
			}
			return result, nil
		}
		after = result.Next
	}
}

func (r *Repo[T, P]) Count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, errs.NewDatabaseError("count", r.entity, err)
	}
	return n, nil
}

// Counts returns the status aggregate of scope. Collections without an
// aggregate report only their total.
func (r *Repo[T, P]) Counts(ctx context.Context, scope string) (models.StatusCounts, error) {
	if r.counting != nil {
		return r.counting.Store.Get(ctx, r.Collection(), scope)
	}
	total, err := r.Count(ctx, nil)
	if err != nil {
		return models.StatusCounts{}, err
	}
	return models.StatusCounts{
		Collection: r.Collection(),
		Scope:      scope,
		Counts:     map[string]int64{models.TotalKey: total},
	}, nil
}

// Filter resolves a listing filter label.
func (r *Repo[T, P]) Filter(label string) (bson.M, error) {
	if r.filter == nil {
		if models.LabelKey(label) != models.TotalKey {
			return nil, errs.NewInvalidFieldError("status", "this listing has no status filter")
		}
		return bson.M{}, nil
	}
	return r.filter(label)
}

// Recount rebuilds the aggregates of this collection from its records.
func (r *Repo[T, P]) Recount(ctx context.Context) ([]models.StatusCounts, error) {
	if r.counting == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Aggregate(ctx, recountPipeline(r.counting.KeyField, r.counting.ScopeField))
	if err != nil {
		return nil, errs.NewDatabaseError("aggregate", r.entity, err)
	}
	defer cur.Close(ctx)

	rows := []groupRow{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, errs.NewDatabaseError("aggregate", r.entity, err)
	}

	folded := foldCounts(r.Collection(), rows, r.counting.Keys, r.counting.KeyOf)
	out := make([]models.StatusCounts, 0, len(folded))
	for _, counts := range folded {
		if err := r.counting.Store.Put(ctx, counts); err != nil {
			return out, err
		}
		out = append(out, counts)
	}
	return out, nil
}

func (r *Repo[T, P]) inTransaction(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return errs.NewTransactionFailedError(operation, err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err == nil {
		return nil
	}
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return errs.NewTransactionFailedError(operation, err)
}

// LifecycleFilter accepts "all" or any status of l.
func LifecycleFilter(l models.Lifecycle) func(string) (bson.M, error) {
	return func(label string) (bson.M, error) {
		if models.LabelKey(label) == models.TotalKey {
			return bson.M{}, nil
		}
		status, ok := models.ParseStatus(label)
		if !ok || !l.Has(status) {
			return nil, errs.NewInvalidFieldError("status", "unknown status "+label)
		}
		return bson.M{"status": status}, nil
	}
}

// ReadStateFilter accepts "all", "read" and "unread".
func ReadStateFilter(label string) (bson.M, error) {
	switch models.LabelKey(label) {
	case models.TotalKey:
		return bson.M{}, nil
	case models.ReadKey:
		return bson.M{"isRead": true}, nil
	case models.UnreadKey:
		return bson.M{"isRead": false}, nil
	}
	return nil, errs.NewInvalidFieldError("status", "unknown read state "+label)
}

// And combines filters, dropping empty ones.
func And(filters ...bson.M) bson.M {
	parts := bson.A{}
	for _, f := range filters {
		if len(f) > 0 {
			parts = append(parts, f)
		}
	}
	switch len(parts) {
	case 0:
		return bson.M{}
	case 1:
		return parts[0].(bson.M)
	}
	return bson.M{"$and": parts}
}

func statusKeyOf(v interface{}) string {
	s, _ := v.(string)
	return models.Status(s).CountKey()
}

func readStateKeyOf(v interface{}) string {
	b, _ := v.(bool)
	return models.ReadStateKey(b)
}

// ensureIndexes creates the indexes listings sort and filter on.
func (r *Repo[T, P]) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: r.sortField, Value: 1}, {Key: "_id", Value: 1}}},
	}
	if r.lifecycle != nil {
		indexes = append(indexes, mongo.IndexModel{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: r.sortField, Value: 1}, {Key: "_id", Value: 1}},
		})
	}
	if r.counting != nil && r.counting.ScopeField != "" {
		indexes = append(indexes, mongo.IndexModel{
			Keys: bson.D{{Key: r.counting.ScopeField, Value: 1}, {Key: r.sortField, Value: 1}, {Key: "_id", Value: 1}},
		})
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return errs.NewDatabaseError("index", r.entity, err)
	}
	return nil
}

// distinctEmails returns the distinct email addresses of the records matching filter.
func (r *Repo[T, P]) distinctEmails(ctx context.Context, filter bson.M) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "email", filter)
	if err != nil {
		return nil, errs.NewDatabaseError("list", r.entity+" emails", err)
	}
	emails := make([]string, 0, len(values))
	for _, v := range values {
		if email, ok := v.(string); ok && email != "" {
			emails = append(emails, email)
		}
	}
	return emails, nil
}
