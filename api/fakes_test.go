package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rpupo63/unified-admin-dashboard/auth"
	"github.com/rpupo63/unified-admin-dashboard/database"
	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type fakeProvider struct {
	accounts map[string]string
}

func (p *fakeProvider) SignIn(_ context.Context, email, password string) (auth.Identity, error) {
	if pw, ok := p.accounts[email]; !ok || pw != password {
		return auth.Identity{}, errs.NewInvalidCredentialsError(nil)
	}
	return auth.Identity{UserID: "uid-" + email, Email: email}, nil
}

func (p *fakeProvider) CreateUser(_ context.Context, email, password string) (auth.Identity, error) {
	if _, ok := p.accounts[email]; ok {
		return auth.Identity{}, errs.NewAlreadyExists("account")
	}
	p.accounts[email] = password
	return auth.Identity{UserID: "uid-" + email, Email: email}, nil
}

type fakeRoles map[string]models.UserRole

func (r fakeRoles) Get(_ context.Context, userID string) (*models.UserRole, error) {
	role, ok := r[userID]
	if !ok {
		return nil, errs.NewNotFound("user role")
	}
	return &role, nil
}

func (r fakeRoles) Set(_ context.Context, role *models.UserRole) error {
	r[role.ID] = *role
	return nil
}

type testAuth struct {
	service  *auth.Service
	provider *fakeProvider
	roles    fakeRoles
	sessions *session.MemoryStore
	tokens   auth.Tokens
}

func newTestAuth(t *testing.T) testAuth {
	t.Helper()
	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)
	ta := testAuth{
		provider: &fakeProvider{accounts: map[string]string{}},
		roles:    fakeRoles{},
		sessions: session.NewMemoryStore(time.Hour),
		tokens:   tokens,
	}
	ta.service = auth.NewService(ta.provider, ta.roles, ta.sessions, tokens)
	return ta
}

// signIn stores a session for the role and returns it with its bearer token.
func (ta testAuth) signIn(t *testing.T, role, subRole string) (*session.Context, string) {
	t.Helper()
	sess := session.New("uid-"+role+subRole, role+"@example.com", role, subRole, fixedNow)
	require.NoError(t, ta.sessions.Save(context.Background(), sess))
	token, err := ta.tokens.Issue(sess.SessionID, sess.UserID, time.Now())
	require.NoError(t, err)
	return sess, token
}

// withSession injects sess the way the authenticate middleware does.
func withSession(sess *session.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ctxWithSession(r.Context(), sess)))
		})
	}
}

type pageCall struct {
	scope  string
	filter bson.M
	page   int
	size   int
}

// memBlogs is an in-memory blog post repository ordered by id.
type memBlogs struct {
	docs        map[string]models.BlogPost
	nextID      int
	pages       []pageCall
	countScopes []string
	transitions []bson.M
}

func newMemBlogs(posts ...models.BlogPost) *memBlogs {
	m := &memBlogs{docs: map[string]models.BlogPost{}}
	for _, p := range posts {
		m.docs[p.ID] = p
	}
	return m
}

func (m *memBlogs) sortedIDs() []string {
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *memBlogs) PageAt(_ context.Context, book *database.CursorBook, scope string, filter bson.M, page, size int) (database.Page[*models.BlogPost], error) {
	m.pages = append(m.pages, pageCall{scope: scope, filter: filter, page: page, size: size})

	ids := m.sortedIDs()
	rows := []*models.BlogPost{}
	for i := (page - 1) * size; i < len(ids) && len(rows) < size; i++ {
		doc := m.docs[ids[i]]
		rows = append(rows, &doc)
	}
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		book.Record(scope, page, &database.Cursor{Value: last.Title, ID: last.ID})
	}
	return database.Page[*models.BlogPost]{Rows: rows}, nil
}

func (m *memBlogs) Filter(label string) (bson.M, error) {
	key := models.LabelKey(label)
	if key == models.TotalKey {
		return bson.M{}, nil
	}
	status, ok := models.ParseStatus(key)
	if !ok {
		return nil, errs.NewInvalidFieldError("status", "unknown filter "+label)
	}
	return bson.M{"status": status}, nil
}

func (m *memBlogs) Counts(_ context.Context, scope string) (models.StatusCounts, error) {
	m.countScopes = append(m.countScopes, scope)
	counts := map[string]int64{models.TotalKey: int64(len(m.docs))}
	for _, doc := range m.docs {
		counts[doc.Status.CountKey()]++
	}
	return models.StatusCounts{Scope: scope, Counts: counts}, nil
}

func (m *memBlogs) FindByID(_ context.Context, id string) (*models.BlogPost, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, errs.NewNotFound("blog post")
	}
	return &doc, nil
}

func (m *memBlogs) Add(_ context.Context, doc *models.BlogPost) error {
	if doc.ID == "" {
		m.nextID++
		doc.ID = fmt.Sprintf("post-%d", m.nextID)
	}
	if doc.Status == "" {
		doc.Status = models.ContentLifecycle.Initial
	}
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memBlogs) Replace(_ context.Context, id string, doc *models.BlogPost) (*models.BlogPost, error) {
	current, ok := m.docs[id]
	if !ok {
		return nil, errs.NewNotFound("blog post")
	}
	doc.ID = id
	doc.Status = current.Status
	m.docs[id] = *doc
	return doc, nil
}

func (m *memBlogs) Transition(_ context.Context, id string, to models.Status, extra bson.M) (*models.BlogPost, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, errs.NewNotFound("blog post")
	}
	if err := models.ContentLifecycle.Check(doc.Status, to); err != nil {
		return nil, err
	}
	doc.Status = to
	m.docs[id] = doc
	m.transitions = append(m.transitions, extra)
	return &doc, nil
}

func (m *memBlogs) SoftDelete(ctx context.Context, id string, extra bson.M) (*models.BlogPost, error) {
	return m.Transition(ctx, id, models.StatusDeleted, extra)
}

func (m *memBlogs) Count(_ context.Context, _ bson.M) (int64, error) {
	return int64(len(m.docs)), nil
}

func samplePost(id string, product models.Product) models.BlogPost {
	return models.BlogPost{
		Base:      models.Base{ID: id},
		Product:   product,
		Title:     "Post " + id,
		Summary:   "Summary of " + id,
		Content:   "<p>body</p>",
		Thumbnail: models.Thumbnail{URL: "https://cdn.example.com/" + id + ".png", Path: "blogs/" + id + ".png"},
		Tags:      []string{"go"},
		Status:    models.StatusActive,
	}
}
