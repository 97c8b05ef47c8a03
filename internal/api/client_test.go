package api_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pasteor/pasteor-cli/internal/api"
	"github.com/pasteor/pasteor-cli/internal/fakeapi"
	"github.com/pasteor/pasteor-cli/internal/model"
	"github.com/pasteor/pasteor-cli/internal/query"
)

const testToken = "token-alice"

func newTestClient(t *testing.T) (*api.Client, *fakeapi.Server) {
	t.Helper()
	srv := fakeapi.New()
	t.Cleanup(srv.Close)
	srv.AddUser(testToken, model.User{ID: 1, Email: "alice@example.com", Name: "Alice", Provider: "github"})
	return api.New(srv.URL(), 5*time.Second), srv
}

func mustCreate(t *testing.T, c *api.Client, token string, req model.CreatePasteRequest) model.Paste {
	t.Helper()
	p, err := c.CreatePaste(context.Background(), token, req)
	if err != nil {
		t.Fatalf("CreatePaste() = %v", err)
	}
	return p
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	created := mustCreate(t, c, testToken, model.CreatePasteRequest{
		Content:   "print('hi')",
		Language:  "python",
		ExpiresIn: "never",
	})

	if created.ID == "" {
		t.Fatal("created paste has empty id")
	}
	if created.URL == "" {
		t.Fatal("created paste has empty url")
	}

	got, err := c.GetPaste(context.Background(), created.ID, testToken)
	if err != nil {
		t.Fatalf("GetPaste() = %v", err)
	}
	if got.Content != "print('hi')" || got.Language != "python" {
		t.Fatalf("detail = %+v, want created content and language", got)
	}
	if !got.IsOwner {
		t.Fatal("owner fetch should report isOwner")
	}
}

func TestGetPasteNotFound(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	_, err := c.GetPaste(context.Background(), "missing-id", "")
	if !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMyPastesRequiresToken(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	_, err := c.MyPastes(context.Background(), "", query.Default())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestMyPastesFilterAndPaginate(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	for i := 0; i < 25; i++ {
		lang := "python"
		if i%2 == 0 {
			lang = "json"
		}
		mustCreate(t, c, testToken, model.CreatePasteRequest{
			Content:  "content",
			Title:    "paste",
			Language: lang,
		})
	}

	q := query.Default()
	res, err := c.MyPastes(context.Background(), testToken, q)
	if err != nil {
		t.Fatalf("MyPastes() = %v", err)
	}
	if res.TotalCount != 25 || res.TotalPages != 2 {
		t.Fatalf("totalCount=%d totalPages=%d, want 25/2", res.TotalCount, res.TotalPages)
	}
	if len(res.Items) != model.DefaultPageSize {
		t.Fatalf("page 1 has %d items, want %d", len(res.Items), model.DefaultPageSize)
	}

	q.Page = 2
	res, err = c.MyPastes(context.Background(), testToken, q)
	if err != nil {
		t.Fatalf("MyPastes(page 2) = %v", err)
	}
	if len(res.Items) != 5 {
		t.Fatalf("page 2 has %d items, want 5", len(res.Items))
	}

	q = query.Default()
	q.Language = "json"
	res, err = c.MyPastes(context.Background(), testToken, q)
	if err != nil {
		t.Fatalf("MyPastes(language) = %v", err)
	}
	if res.TotalCount != 13 {
		t.Fatalf("json-filtered totalCount = %d, want 13", res.TotalCount)
	}
}

func TestDeletePasteAndOwnership(t *testing.T) {
	t.Parallel()

	c, srv := newTestClient(t)
	srv.AddUser("token-bob", model.User{ID: 2, Email: "bob@example.com", Provider: "github"})

	p := mustCreate(t, c, testToken, model.CreatePasteRequest{Content: "secret"})

	// Another user may not delete it; the server's message comes through.
	err := c.DeletePaste(context.Background(), "token-bob", p.ID)
	if err == nil {
		t.Fatal("cross-user delete must fail")
	}
	if msg := api.UserMessage(err); msg != "you can only delete your own pastes" {
		t.Fatalf("user message = %q, want the server's own wording", msg)
	}

	if err := c.DeletePaste(context.Background(), testToken, p.ID); err != nil {
		t.Fatalf("owner delete = %v", err)
	}
	if srv.PasteCount() != 0 {
		t.Fatalf("paste count = %d after delete, want 0", srv.PasteCount())
	}
}

func TestUpdatePaste(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	p := mustCreate(t, c, testToken, model.CreatePasteRequest{Content: "v1", Language: "plaintext"})

	updated, err := c.UpdatePaste(context.Background(), testToken, p.ID, model.UpdatePasteRequest{
		Content:  "v2",
		Title:    "renamed",
		Language: "json",
	})
	if err != nil {
		t.Fatalf("UpdatePaste() = %v", err)
	}
	if updated.Content != "v2" || updated.Title != "renamed" || updated.Language != "json" {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestUserStatsAndLanguages(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	mustCreate(t, c, testToken, model.CreatePasteRequest{Content: "a", Language: "python"})
	mustCreate(t, c, testToken, model.CreatePasteRequest{Content: "b", Language: "css"})

	stats, err := c.UserStats(context.Background(), testToken)
	if err != nil {
		t.Fatalf("UserStats() = %v", err)
	}
	if stats.TotalPastes != 2 || stats.ActivePastes != 2 {
		t.Fatalf("stats = %+v", stats)
	}

	langs, err := c.UserLanguages(context.Background(), testToken)
	if err != nil {
		t.Fatalf("UserLanguages() = %v", err)
	}
	if len(langs) != 2 {
		t.Fatalf("languages = %v, want 2 entries", langs)
	}
}

func TestPublicStatsAndRecent(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	mustCreate(t, c, testToken, model.CreatePasteRequest{Content: "a", Language: "python"})
	mustCreate(t, c, "", model.CreatePasteRequest{Content: "b", Language: "python"})

	stats, err := c.PublicStats(context.Background())
	if err != nil {
		t.Fatalf("PublicStats() = %v", err)
	}
	if stats.TotalPastes != 2 {
		t.Fatalf("totalPastes = %d, want 2", stats.TotalPastes)
	}
	if len(stats.TopLanguages) == 0 || stats.TopLanguages[0].Language != "python" {
		t.Fatalf("topLanguages = %+v", stats.TopLanguages)
	}

	recent, err := c.RecentPastes(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentPastes() = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent = %d items, want 2", len(recent))
	}
}

func TestDetailCacheInvalidatedOnMutation(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	p := mustCreate(t, c, testToken, model.CreatePasteRequest{Content: "cache me"})

	if _, err := c.GetPaste(context.Background(), p.ID, testToken); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.CachedPaste(p.ID); !ok {
		t.Fatal("detail should be cached after a fetch")
	}

	if _, err := c.UpdatePaste(context.Background(), testToken, p.ID, model.UpdatePasteRequest{Content: "new"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.CachedPaste(p.ID); ok {
		t.Fatal("update must invalidate the cached detail")
	}
}

func TestViewsIncrementPerDetailFetch(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	p := mustCreate(t, c, testToken, model.CreatePasteRequest{Content: "count me"})

	for i := 0; i < 3; i++ {
		if _, err := c.GetPaste(context.Background(), p.ID, ""); err != nil {
			t.Fatal(err)
		}
	}
	got, err := c.GetPaste(context.Background(), p.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Views != 4 {
		t.Fatalf("views = %d, want 4", got.Views)
	}
}
