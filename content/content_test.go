package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"studio/docstore"
	"studio/types"
)

// hookStore wraps the in-memory store so tests can fail or stall
// individual List calls.
type hookStore struct {
	docstore.Store
	listErr   error
	listBlock chan struct{} // first List on blockColl waits here
	blockColl string
	entered   chan struct{} // closed when that List is parked
	once      sync.Once
}

func (h *hookStore) List(ctx context.Context, collection string, order docstore.Order) ([]docstore.Document, error) {
	if h.listErr != nil {
		return nil, h.listErr
	}
	if h.listBlock != nil && collection == h.blockColl {
		parked := false
		h.once.Do(func() {
			parked = true
			if h.entered != nil {
				close(h.entered)
			}
		})
		if parked {
			<-h.listBlock
		}
	}
	return h.Store.List(ctx, collection, order)
}

type recordingSink struct {
	changes []string
}

func (r *recordingSink) PublishChange(collection, op, id string) {
	r.changes = append(r.changes, collection+"/"+op)
}

type fakeBlobStore struct {
	uploads []string
	deletes []string
}

func (f *fakeBlobStore) Upload(ctx context.Context, path string, body io.Reader, contentType string) (string, error) {
	f.uploads = append(f.uploads, path)
	return "https://cdn.example.com/" + path, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, path string) error {
	f.deletes = append(f.deletes, path)
	return nil
}

func newTestService(t *testing.T) (*Service, *docstore.MemoryStore) {
	t.Helper()

	store := docstore.NewMemoryStore()
	svc := NewService(store, Config{})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("initial load failed: %v", err)
	}
	return svc, store
}

func TestCacheMatchesStoreAfterEveryMutation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	assertCacheFresh := func(step string) {
		t.Helper()
		docs, err := store.List(ctx, types.CollectionBlogs,
			docstore.Order{Field: docstore.FieldCreatedAt, Desc: true})
		if err != nil {
			t.Fatalf("%s: direct list failed: %v", step, err)
		}
		cached := svc.Articles()
		if len(cached) != len(docs) {
			t.Fatalf("%s: cache has %d articles, store has %d", step, len(cached), len(docs))
		}
		for i, doc := range docs {
			if cached[i].ID != doc[docstore.FieldID] {
				t.Fatalf("%s: cache order diverges from store at %d", step, i)
			}
		}
	}

	first, err := svc.AddArticle(ctx, types.Article{Title: "One"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	assertCacheFresh("after first add")

	second, err := svc.AddArticle(ctx, types.Article{Title: "Two"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	assertCacheFresh("after second add")

	if err := svc.UpdateArticle(ctx, first, docstore.Document{"title": "One, revised"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	assertCacheFresh("after update")

	if err := svc.DeleteArticle(ctx, second); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	assertCacheFresh("after delete")
}

func TestArticleByIDMissingIsNotAnError(t *testing.T) {
	svc, _ := newTestService(t)

	a, err := svc.ArticleByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("missing id must not error, got %v", err)
	}
	if a != nil {
		t.Fatalf("expected absence, got %+v", a)
	}
}

func TestArticlesOrderedNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"oldest", "middle", "newest"} {
		if _, err := svc.AddArticle(ctx, types.Article{Title: title}); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	got := svc.Articles()
	want := []string{"newest", "middle", "oldest"}
	for i := range want {
		if got[i].Title != want[i] {
			t.Fatalf("expected order %v, got %s at %d", want, got[i].Title, i)
		}
	}
	if !got[0].CreatedAt.After(got[2].CreatedAt) {
		t.Fatal("expected descending creation timestamps")
	}
}

func TestCategoriesOrderedByName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Tech", "Art", "Music"} {
		if _, err := svc.AddCategoryName(ctx, name); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	got := svc.Categories()
	want := []string{"Art", "Music", "Tech"}
	for i := range want {
		if got[i].Name != want[i] {
			t.Fatalf("expected order %v, got %s at %d", want, got[i].Name, i)
		}
	}
}

func TestAddCategoryNameDefaultsToBlogType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	bareID, err := svc.AddCategoryName(ctx, "Foo")
	if err != nil {
		t.Fatalf("bare add failed: %v", err)
	}
	structuredID, err := svc.AddCategory(ctx, types.Category{Name: "Foo", Type: types.CategoryTypeBlog})
	if err != nil {
		t.Fatalf("structured add failed: %v", err)
	}

	byID := make(map[string]types.Category)
	for _, c := range svc.Categories() {
		byID[c.ID] = c
	}
	bare, structured := byID[bareID], byID[structuredID]
	if bare.Name != structured.Name || bare.Type != structured.Type {
		t.Fatalf("bare %+v and structured %+v categories differ", bare, structured)
	}
	if bare.Type != types.CategoryTypeBlog {
		t.Fatalf("expected default blog type, got %s", bare.Type)
	}
}

func TestAddCategoryRejectsEmptyName(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.AddCategory(context.Background(), types.Category{}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestReadyFlipsOnlyAfterAllFetchesSettle(t *testing.T) {
	store := docstore.NewMemoryStore()
	release := make(chan struct{})
	hook := &hookStore{Store: store, listBlock: release, blockColl: types.CollectionProjects}
	svc := NewService(hook, Config{})

	done := make(chan error, 1)
	go func() { done <- svc.Load(context.Background()) }()

	// Three fetches are fast; the projects fetch is parked on the
	// hook. Ready must hold false the whole time.
	time.Sleep(20 * time.Millisecond)
	if svc.Ready() {
		t.Fatal("ready must not flip before the slow fetch settles")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !svc.Ready() {
		t.Fatal("ready must flip after all fetches settle")
	}
}

func TestAddArticleRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := types.Article{
		Title:      "Field notes",
		Excerpt:    "Short version",
		Content:    "<p>Long version</p>",
		Category:   "Tech",
		Tags:       []string{"go", "notes"},
		CoverImage: "https://cdn.example.com/cover.png",
		Featured:   true,
	}
	id, err := svc.AddArticle(ctx, in)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	got, err := svc.ArticleByID(ctx, id)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected the stored article")
	}
	if got.ID != id {
		t.Fatalf("expected assigned id %s, got %s", id, got.ID)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("expected server-assigned timestamps")
	}

	in.ID, in.CreatedAt, in.UpdatedAt = got.ID, got.CreatedAt, got.UpdatedAt
	if !reflect.DeepEqual(in, *got) {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in, *got)
	}
}

func TestStaleRefreshIsDiscarded(t *testing.T) {
	store := docstore.NewMemoryStore()
	release := make(chan struct{})
	hook := &hookStore{
		Store:     store,
		listBlock: release,
		blockColl: types.CollectionBlogs,
		entered:   make(chan struct{}),
	}
	svc := NewService(hook, Config{})
	ctx := context.Background()

	if _, err := store.Create(ctx, types.CollectionBlogs, docstore.Document{"title": "old"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// First refresh parks on the hook holding the old listing.
	stale := make(chan struct{})
	go func() {
		defer close(stale)
		_, _ = svc.RefreshArticles(ctx)
	}()
	<-hook.entered

	// A newer document lands and a second refresh completes first.
	if _, err := store.Create(ctx, types.CollectionBlogs, docstore.Document{"title": "new"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := svc.RefreshArticles(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if len(svc.Articles()) != 2 {
		t.Fatalf("expected 2 cached articles, got %d", len(svc.Articles()))
	}

	// Now the stale refresh finishes with its one-article listing; the
	// cache must keep the newer contents.
	close(release)
	<-stale
	if len(svc.Articles()) != 2 {
		t.Fatal("stale refresh overwrote a newer cache")
	}
}

func TestLenientReadAbsorbsFailure(t *testing.T) {
	store := docstore.NewMemoryStore()
	if _, err := store.Create(context.Background(), types.CollectionBlogs, docstore.Document{"title": "x"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	hook := &hookStore{Store: store, listErr: errors.New("store down")}
	svc := NewService(hook, Config{})

	articles, err := svc.RefreshArticles(context.Background())
	if err != nil {
		t.Fatalf("lenient mode must absorb read failures, got %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("expected empty result, got %d", len(articles))
	}
	if len(svc.Articles()) != 0 {
		t.Fatal("expected cache reset to empty on read failure")
	}
}

func TestStrictReadSurfacesFailure(t *testing.T) {
	store := docstore.NewMemoryStore()
	hook := &hookStore{Store: store, listErr: errors.New("store down")}
	svc := NewService(hook, Config{StrictReads: true})

	if _, err := svc.RefreshArticles(context.Background()); err == nil {
		t.Fatal("strict mode must surface read failures")
	}
}

func TestMutationsPublishChangeEvents(t *testing.T) {
	store := docstore.NewMemoryStore()
	sink := &recordingSink{}
	svc := NewService(store, Config{Events: sink})
	ctx := context.Background()

	id, err := svc.AddArticle(ctx, types.Article{Title: "x"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.DeleteArticle(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.UpdateProfile(ctx, docstore.Document{"name": "Jo"}); err != nil {
		t.Fatalf("profile update failed: %v", err)
	}

	want := []string{"blogs/created", "blogs/deleted", "settings/updated"}
	if !reflect.DeepEqual(sink.changes, want) {
		t.Fatalf("expected events %v, got %v", want, sink.changes)
	}
}

func TestProfileUpsertAndMerge(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if svc.Profile() != nil {
		t.Fatal("expected no profile before first save")
	}

	if err := svc.UpdateProfile(ctx, docstore.Document{"name": "Jo", "tagline": "writer"}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	p := svc.Profile()
	if p == nil || p.Name != "Jo" {
		t.Fatalf("expected created profile, got %+v", p)
	}

	if err := svc.UpdateProfile(ctx, docstore.Document{"tagline": "journalist"}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	p = svc.Profile()
	if p.Name != "Jo" || p.Tagline != "journalist" {
		t.Fatalf("expected merged profile, got %+v", p)
	}
	if !p.UpdatedAt.After(p.CreatedAt) {
		t.Fatal("expected updatedAt to advance past createdAt")
	}
}

func TestUploadAndDeleteFile(t *testing.T) {
	store := docstore.NewMemoryStore()
	blobs := &fakeBlobStore{}
	svc := NewService(store, Config{Blobs: blobs})
	ctx := context.Background()

	url, err := svc.UploadFile(ctx, strings.NewReader("png bytes"), "uploads/1700000000000_cover.png", "image/png")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if url != "https://cdn.example.com/uploads/1700000000000_cover.png" {
		t.Fatalf("unexpected url %s", url)
	}

	if err := svc.DeleteFile(ctx, "uploads/1700000000000_cover.png"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(blobs.deletes) != 1 {
		t.Fatalf("expected one delete, got %v", blobs.deletes)
	}
}

func TestUploadWithoutObjectStore(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.UploadFile(context.Background(), strings.NewReader("x"), "uploads/x", ""); err == nil {
		t.Fatal("expected error when object store is not configured")
	}
}

func TestFeaturedSubsetIsBounded(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.AddArticle(ctx, types.Article{
			Title:    fmt.Sprintf("featured %d", i),
			Featured: true,
		}); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	if _, err := svc.AddArticle(ctx, types.Article{Title: "plain"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	featured := svc.FeaturedArticles()
	if len(featured) != FeaturedLimit {
		t.Fatalf("expected %d featured articles, got %d", FeaturedLimit, len(featured))
	}
	for _, a := range featured {
		if !a.Featured {
			t.Fatalf("non-featured article %q in highlight subset", a.Title)
		}
	}
}
