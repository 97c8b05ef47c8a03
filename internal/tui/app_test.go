package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type stubPage struct {
	id        string
	initCalls int
	params    any
	nav       *PageNav
	seen      []tea.Msg
}

func (p *stubPage) ID() string { return p.id }

func (p *stubPage) Init() tea.Cmd {
	p.initCalls++
	return nil
}

func (p *stubPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	p.seen = append(p.seen, msg)
	nav := p.nav
	p.nav = nil
	return nil, nav
}

func (p *stubPage) View(int, int) string { return p.id }

func (p *stubPage) SetParams(params any) { p.params = params }

func TestAppRoutesToActivePageOnly(t *testing.T) {
	t.Parallel()

	first := &stubPage{id: "first"}
	second := &stubPage{id: "second"}
	app := NewApp(first, second)

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(first.seen) != 1 {
		t.Fatalf("active page saw %d msgs, want 1", len(first.seen))
	}
	if len(second.seen) != 0 {
		t.Fatalf("inactive page saw %d msgs, want 0", len(second.seen))
	}
}

func TestAppNavigationInitsTargetWithParams(t *testing.T) {
	t.Parallel()

	first := &stubPage{id: "first", nav: &PageNav{PageID: "second", Params: "paste-42"}}
	second := &stubPage{id: "second"}
	app := NewApp(first, second)

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if app.ActivePage() != "second" {
		t.Fatalf("active page = %q, want second", app.ActivePage())
	}
	if second.initCalls != 1 {
		t.Fatalf("target Init calls = %d, want 1", second.initCalls)
	}
	if second.params != "paste-42" {
		t.Fatalf("params = %v, want paste-42", second.params)
	}
}

func TestAppNavigationToUnknownPageStays(t *testing.T) {
	t.Parallel()

	first := &stubPage{id: "first", nav: &PageNav{PageID: "missing"}}
	app := NewApp(first)

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if app.ActivePage() != "first" {
		t.Fatalf("active page = %q, want first", app.ActivePage())
	}
}

func TestAppStaleMsgAfterNavigationIsNoOp(t *testing.T) {
	t.Parallel()

	first := &stubPage{id: "first", nav: &PageNav{PageID: "second"}}
	second := &stubPage{id: "second"}
	app := NewApp(first, second)

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// A message produced by the first page's in-flight work arrives after
	// the switch; it lands in the second page, which does not know the
	// type, and the first page never sees it.
	app.Update(dashListMsg{seq: 99})

	if len(first.seen) != 1 {
		t.Fatalf("former page saw %d msgs, want 1", len(first.seen))
	}
	if len(second.seen) != 1 {
		t.Fatalf("active page saw %d msgs, want 1", len(second.seen))
	}
}
