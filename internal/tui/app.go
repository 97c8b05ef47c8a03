package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasteor/pasteor-cli/internal/api"
	"github.com/pasteor/pasteor-cli/internal/refresh"
	"github.com/pasteor/pasteor-cli/internal/session"
)

// Page IDs used for navigation between screens.
const (
	PageCompose   = "compose"
	PagePublic    = "public"
	PageDashboard = "dashboard"
	PageDetail    = "detail"
	PageEdit      = "edit"
	PageLogin     = "login"
)

// Page represents a top-level screen in the TUI.
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
	Params any
}

// ParamPage is a Page that accepts navigation parameters (e.g. a paste id)
// before its Init runs.
type ParamPage interface {
	Page
	SetParams(params any)
}

// Deps groups the shared collaborators every page needs.
type Deps struct {
	Client  *api.Client
	Session *session.Session
	// Mutation scope recorded by the page that completed the write and
	// consumed by the dashboard on its next entry.
	Refresh *refresh.Pending
	Keys    KeyMap
}

// App is the top-level Bubble Tea model that routes between pages.
// Messages are delivered to the active page only: a fetch started by a page
// the user has left lands in a page that does not recognize its message
// type, so teardown needs no explicit cancellation.
type App struct {
	pages      map[string]Page
	activePage string
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(pages ...Page) *App {
	pageMap := make(map[string]Page, len(pages))
	var firstID string
	for i, p := range pages {
		pageMap[p.ID()] = p
		if i == 0 {
			firstID = p.ID()
		}
	}
	return &App{
		pages:      pageMap,
		activePage: firstID,
	}
}

func (a *App) Init() tea.Cmd {
	if p, ok := a.pages[a.activePage]; ok {
		return p.Init()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	cmd, nav := p.Update(msg)

	if nav != nil {
		if target, exists := a.pages[nav.PageID]; exists {
			if pp, ok := target.(ParamPage); ok {
				pp.SetParams(nav.Params)
			}
			a.activePage = nav.PageID
			return a, tea.Batch(cmd, target.Init())
		}
	}

	return a, cmd
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}

// ActivePage exposes the current page id for tests.
func (a *App) ActivePage() string { return a.activePage }
