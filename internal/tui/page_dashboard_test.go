package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasteor/pasteor-cli/internal/api"
	"github.com/pasteor/pasteor-cli/internal/fakeapi"
	"github.com/pasteor/pasteor-cli/internal/model"
	"github.com/pasteor/pasteor-cli/internal/refresh"
	"github.com/pasteor/pasteor-cli/internal/session"
)

func newTestDeps(t *testing.T, token string) (Deps, *fakeapi.Server) {
	t.Helper()

	srv := fakeapi.New()
	t.Cleanup(srv.Close)

	client := api.New(srv.URL(), model.DefaultRequestTimeout)
	sess := session.New(filepath.Join(t.TempDir(), "session.yml"))

	if token != "" {
		srv.AddUser(token, model.User{ID: 1, Email: "alice@example.com", Name: "alice"})
		if err := sess.Login(context.Background(), client, token); err != nil {
			t.Fatalf("login: %v", err)
		}
	}

	return Deps{Client: client, Session: sess, Refresh: &refresh.Pending{}, Keys: DefaultKeyMap()}, srv
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func seedPastes(t *testing.T, srv *fakeapi.Server, deps Deps, token string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := deps.Client.CreatePaste(context.Background(), token, model.CreatePasteRequest{
			Content:  fmt.Sprintf("content %d", i),
			Title:    fmt.Sprintf("paste %d", i),
			Language: "go",
		})
		if err != nil {
			t.Fatalf("seed paste %d: %v", i, err)
		}
	}
}

func TestDashboardInit_AnonymousRedirectsToLogin(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, "")
	p := NewDashboardPage(deps)

	cmd := p.Init()
	if cmd == nil {
		t.Fatal("Init returned nil cmd for anonymous session")
	}

	msg := cmd()
	if _, ok := msg.(dashRedirectMsg); !ok {
		t.Fatalf("Init cmd produced %T, want dashRedirectMsg", msg)
	}

	_, nav := p.Update(msg)
	if nav == nil || nav.PageID != PageLogin {
		t.Fatalf("nav = %+v, want login redirect", nav)
	}
}

func TestDashboardInit_FetchesList(t *testing.T) {
	t.Parallel()

	deps, srv := newTestDeps(t, "tok")
	seedPastes(t, srv, deps, "tok", 3)

	p := NewDashboardPage(deps)
	p.Init()

	seq := p.list.Begin(p.ctrl.Query())
	msg := p.fetchListCmd(seq, p.ctrl.Query())()
	p.Update(msg)

	if got := len(p.list.Result().Items); got != 3 {
		t.Fatalf("list items = %d, want 3", got)
	}
	if p.list.Loading() {
		t.Fatal("loading still set after newest fetch applied")
	}
}

func TestDashboardStaleResponseIgnored(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, "tok")
	p := NewDashboardPage(deps)
	p.Init()

	oldSeq := p.list.Begin(p.ctrl.Query())
	newSeq := p.list.Begin(p.ctrl.Query())

	newRes := model.ListResult{
		Items:      []model.PasteSummary{{ID: "new", Title: "newest"}},
		TotalCount: 1,
		TotalPages: 1,
	}
	p.Update(dashListMsg{visit: p.visit, seq: newSeq, res: newRes})

	staleRes := model.ListResult{
		Items:      []model.PasteSummary{{ID: "old", Title: "stale"}},
		TotalCount: 1,
		TotalPages: 1,
	}
	p.Update(dashListMsg{visit: p.visit, seq: oldSeq, res: staleRes})

	items := p.list.Result().Items
	if len(items) != 1 || items[0].ID != "new" {
		t.Fatalf("items = %+v, want the newest fetch to stand", items)
	}
}

func TestDashboardUnauthorizedListRedirects(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, "tok")
	p := NewDashboardPage(deps)
	p.Init()

	seq := p.list.Begin(p.ctrl.Query())
	err := fmt.Errorf("%w: token expired", api.ErrUnauthorized)
	_, nav := p.Update(dashListMsg{visit: p.visit, seq: seq, err: err})

	if nav == nil || nav.PageID != PageLogin {
		t.Fatalf("nav = %+v, want login redirect on unauthorized", nav)
	}
}

func TestDashboardTransientErrorKeepsResult(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, "tok")
	p := NewDashboardPage(deps)
	p.Init()

	seq := p.list.Begin(p.ctrl.Query())
	p.Update(dashListMsg{visit: p.visit, seq: seq, res: model.ListResult{
		Items:      []model.PasteSummary{{ID: "a"}},
		TotalCount: 1,
		TotalPages: 1,
	}})

	seq = p.list.Begin(p.ctrl.Query())
	_, nav := p.Update(dashListMsg{visit: p.visit, seq: seq, err: errors.New("connection refused")})

	if nav != nil {
		t.Fatalf("nav = %+v, want none for transient failure", nav)
	}
	if got := len(p.list.Result().Items); got != 1 {
		t.Fatalf("items = %d, want previous result retained", got)
	}
	if p.notice.text == "" {
		t.Fatal("expected an error notice")
	}
}

func TestDashboardPageOverflowRefetchesLastPage(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, "tok")
	p := NewDashboardPage(deps)
	p.Init()

	p.ctrl.SetPage(3)
	p.queryDirty = false
	seq := p.list.Begin(p.ctrl.Query())

	cmd, _ := p.Update(dashListMsg{visit: p.visit, seq: seq, res: model.ListResult{
		TotalCount: 25,
		TotalPages: 2,
	}})

	if got := p.ctrl.Query().Page; got != 2 {
		t.Fatalf("page = %d, want clamped to 2", got)
	}
	if cmd == nil {
		t.Fatal("expected a refetch cmd after clamping")
	}
}

func TestDashboardFilterKeyIssuesSingleFetch(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, "tok")
	p := NewDashboardPage(deps)
	p.Init()

	// Drain the initial fetch so the synchronizer is idle.
	seq := p.list.Begin(p.ctrl.Query())
	p.Update(dashListMsg{visit: p.visit, seq: seq, res: model.ListResult{TotalPages: 1}})

	cmd, _ := p.Update(keyRune('s'))
	if cmd == nil {
		t.Fatal("sort key change issued no fetch")
	}
	if !p.list.Loading() {
		t.Fatal("loading not set after sort change")
	}
	if p.queryDirty {
		t.Fatal("queryDirty not drained by Update")
	}
}

func TestDashboardSearchSubmitResetsPage(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, "tok")
	p := NewDashboardPage(deps)
	p.Init()
	p.ctrl.SetPage(4)
	p.queryDirty = false

	p.Update(keyRune('/'))
	if !p.searchActive {
		t.Fatal("search input not active after /")
	}

	p.searchInput.SetValue("  hello  ")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	q := p.ctrl.Query()
	if q.Search != "hello" {
		t.Fatalf("search = %q, want trimmed %q", q.Search, "hello")
	}
	if q.Page != 1 {
		t.Fatalf("page = %d, want reset to 1", q.Page)
	}
}

func TestDashboardDeleteFlow(t *testing.T) {
	t.Parallel()

	deps, srv := newTestDeps(t, "tok")
	seedPastes(t, srv, deps, "tok", 2)

	p := NewDashboardPage(deps)
	p.Init()

	seq := p.list.Begin(p.ctrl.Query())
	p.Update(p.fetchListCmd(seq, p.ctrl.Query())())

	victim := p.list.Result().Items[0].ID

	p.Update(keyRune('d'))
	if !p.confirm.active() {
		t.Fatal("delete did not open confirmation")
	}

	cmd, _ := p.Update(keyRune('y'))
	if cmd == nil {
		t.Fatal("confirm produced no delete cmd")
	}

	// Optimistic removal is visible before the server answers.
	for _, item := range p.list.Result().Items {
		if item.ID == victim {
			t.Fatal("deleted paste still visible")
		}
	}

	if srv.PasteCount() != 2 {
		t.Fatalf("server paste count = %d before delete ran, want 2", srv.PasteCount())
	}

	// Resolve the batch: delete cmd then the refetches it schedules.
	done := p.deleteCmd(victim)()
	cmd, _ = p.Update(done)
	if p.deleting {
		t.Fatal("deleting flag not cleared")
	}
	if srv.PasteCount() != 1 {
		t.Fatalf("server paste count = %d, want 1", srv.PasteCount())
	}
	if cmd == nil {
		t.Fatal("delete completion scheduled no refetch")
	}

	// The authoritative refetch reconciles the optimistic removal.
	res := p.fetchListCmd(p.list.Begin(p.ctrl.Query()), p.ctrl.Query())()
	p.Update(res)
	if got := len(p.list.Result().Items); got != 1 {
		t.Fatalf("items after refetch = %d, want 1", got)
	}
}

func TestDashboardConfirmDismissKeepsPaste(t *testing.T) {
	t.Parallel()

	deps, srv := newTestDeps(t, "tok")
	seedPastes(t, srv, deps, "tok", 1)

	p := NewDashboardPage(deps)
	p.Init()
	p.Update(p.fetchListCmd(p.list.Begin(p.ctrl.Query()), p.ctrl.Query())())

	p.Update(keyRune('d'))
	p.Update(keyRune('n'))

	if p.confirm.active() {
		t.Fatal("confirmation still open after dismiss")
	}
	if got := len(p.list.Result().Items); got != 1 {
		t.Fatalf("items = %d, want untouched", got)
	}
	if srv.PasteCount() != 1 {
		t.Fatal("dismissed confirmation still deleted on server")
	}
}

func TestDashboardPageClampRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, "tok")
	p := NewDashboardPage(deps)
	p.Init()

	seq := p.list.Begin(p.ctrl.Query())
	p.Update(dashListMsg{visit: p.visit, seq: seq, res: model.ListResult{TotalCount: 25, TotalPages: 2}})

	p.Update(keyRune(']'))
	if got := p.ctrl.Query().Page; got != 2 {
		t.Fatalf("page = %d, want 2", got)
	}
	p.Update(keyRune(']'))
	if got := p.ctrl.Query().Page; got != 2 {
		t.Fatalf("page = %d, want clamped at 2", got)
	}
	p.Update(keyRune('['))
	p.Update(keyRune('['))
	if got := p.ctrl.Query().Page; got != 1 {
		t.Fatalf("page = %d, want clamped at 1", got)
	}
}

func TestDashboardReentryDropsPendingFetch(t *testing.T) {
	t.Parallel()

	deps, srv := newTestDeps(t, "tok")
	p := NewDashboardPage(deps)
	p.Init()

	// A fetch from the first visit, still in flight when the user leaves.
	// Its sequence number (1) is exactly what the rebuilt synchronizer
	// hands out first, so the sequence check alone cannot reject it.
	pending := p.fetchListCmd(p.list.Begin(p.ctrl.Query()), p.ctrl.Query())

	p.Init()
	p.Update(pending())

	if p.list.HasResult() {
		t.Fatal("previous visit's fetch mutated state after re-entry")
	}

	// The new visit's own fetch still lands.
	seedPastes(t, srv, deps, "tok", 2)
	seq := p.list.Begin(p.ctrl.Query())
	p.Update(p.fetchListCmd(seq, p.ctrl.Query())())
	if got := len(p.list.Result().Items); got != 2 {
		t.Fatalf("list items = %d, want 2", got)
	}
}

func TestDashboardEntryConsumesPendingRefresh(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, "tok")
	deps.Refresh.Record(refresh.Create)

	p := NewDashboardPage(deps)
	if cmd := p.Init(); cmd == nil {
		t.Fatal("entry issued no fetch")
	}
	if !deps.Refresh.Consume().None() {
		t.Fatal("entry left the pending mutation scope unconsumed")
	}
}
