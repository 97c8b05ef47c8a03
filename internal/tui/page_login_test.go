package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasteor/pasteor-cli/internal/model"
)

func TestLoginSuccessNavigatesToDashboard(t *testing.T) {
	t.Parallel()

	deps, srv := newTestDeps(t, "")
	srv.AddUser("good-token", model.User{ID: 7, Email: "bob@example.com"})

	p := NewLoginPage(deps)
	p.Init()

	p.tokenInput.SetValue("good-token")
	cmd, _ := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no login cmd")
	}

	_, nav := p.Update(p.loginCmd("good-token")())
	if nav == nil || nav.PageID != PageDashboard {
		t.Fatalf("nav = %+v, want dashboard", nav)
	}
	if !deps.Session.Authenticated() {
		t.Fatal("session not authenticated after login")
	}
	if got := deps.Session.User().Email; got != "bob@example.com" {
		t.Fatalf("user email = %q", got)
	}
}

func TestLoginRejectedTokenShowsError(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, "")
	p := NewLoginPage(deps)
	p.Init()

	p.tokenInput.SetValue("bogus")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	_, nav := p.Update(p.loginCmd("bogus")())
	if nav != nil {
		t.Fatalf("nav = %+v, want none for rejected token", nav)
	}
	if deps.Session.Authenticated() {
		t.Fatal("session authenticated with a rejected token")
	}
	if p.notice.text == "" {
		t.Fatal("rejection produced no message")
	}
	if p.busy {
		t.Fatal("busy flag not cleared")
	}
}

func TestLoginEmptyTokenRejectedLocally(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, "")
	p := NewLoginPage(deps)
	p.Init()

	cmd, _ := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("empty token produced a login cmd")
	}
	if p.notice.text == "" {
		t.Fatal("no validation message for empty token")
	}
}
