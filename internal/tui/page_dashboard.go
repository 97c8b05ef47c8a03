package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/pasteor/pasteor-cli/internal/api"
	"github.com/pasteor/pasteor-cli/internal/model"
	"github.com/pasteor/pasteor-cli/internal/query"
	"github.com/pasteor/pasteor-cli/internal/refresh"
	listsync "github.com/pasteor/pasteor-cli/internal/sync"
)

// dashListMsg carries one listing fetch result back to the dashboard. The
// visit counter pins it to the dashboard entry that issued the fetch.
type dashListMsg struct {
	visit uint64
	seq   uint64
	res   model.ListResult
	err   error
}

// dashAuxMsg carries the stats/facets fan-out result.
type dashAuxMsg struct {
	visit     uint64
	stats     model.UserStats
	hasStats  bool
	languages []string
	hasLangs  bool
	err       error
}

// dashDeleteDoneMsg reports a completed delete mutation.
type dashDeleteDoneMsg struct {
	visit uint64
	id    string
	err   error
}

// dashRedirectMsg asks the app to leave the dashboard for the login page.
type dashRedirectMsg struct{}

// DashboardPage is the owner-scoped listing: searchable, filterable,
// sortable, paginated, with an aggregate stats strip.
type DashboardPage struct {
	deps Deps

	ctrl *query.Controller
	list *listsync.Synchronizer

	// Bumped on every entry. Fetches started during an earlier visit carry
	// the old value and are dropped on arrival; without this a fresh
	// synchronizer could hand out a sequence number an old in-flight fetch
	// already holds.
	visit uint64

	// Set by the controller subscription; drained at the end of Update so
	// several mutations in one event still produce a single fetch.
	queryDirty bool

	stats    model.UserStats
	hasStats bool

	// Language facets the user has ever used; "all" is implicit.
	languages []string

	searchInput  textinput.Model
	searchActive bool

	selIdx int

	// Pending delete confirmation; empty id means no modal.
	confirm confirmState

	deleting bool

	notice notice

	width  int
	height int
}

// NewDashboardPage creates the dashboard.
func NewDashboardPage(deps Deps) *DashboardPage {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search your pastes..."
	searchInput.CharLimit = 200

	p := &DashboardPage{
		deps:        deps,
		searchInput: searchInput,
	}
	p.resetState()
	return p
}

// resetState rebuilds the request-scoped caches. Called on every entry; the
// visit bump invalidates any fetch still in flight from the previous visit.
func (p *DashboardPage) resetState() {
	if p.list != nil {
		p.list.Close()
	}
	p.visit++
	p.ctrl = query.NewController()
	p.ctrl.Subscribe(func(query.Query) { p.queryDirty = true })
	p.list = listsync.New()
	p.hasStats = false
	p.languages = nil
	p.selIdx = 0
	p.confirm = confirmState{}
	p.deleting = false
	p.searchActive = false
	p.searchInput.SetValue("")
	p.notice.clear()
}

func (p *DashboardPage) ID() string { return PageDashboard }

func (p *DashboardPage) Init() tea.Cmd {
	p.resetState()

	// Owner-scoped view: anonymous users go to login, never an error view.
	if !p.deps.Session.Authenticated() {
		return func() tea.Msg { return dashRedirectMsg{} }
	}

	// Mutations completed on other pages since the last visit are folded
	// into the entry fetch and cleared. Entry rebuilds every cache, so the
	// cold-start scope subsumes whatever was pending.
	scope := refresh.Scope{List: true, Stats: true, Languages: true}.
		Union(p.deps.Refresh.Consume())

	seq := p.list.Begin(p.ctrl.Query())
	return tea.Batch(
		p.fetchListCmd(seq, p.ctrl.Query()),
		p.fetchAuxCmd(scope.Stats, scope.Languages),
		spinnerTick(),
	)
}

// fetchListCmd executes the listing query; the sequence number travels with
// the result so stale responses are rejected on arrival.
func (p *DashboardPage) fetchListCmd(seq uint64, q query.Query) tea.Cmd {
	client := p.deps.Client
	token := p.deps.Session.Token()
	visit := p.visit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), model.DefaultRequestTimeout)
		defer cancel()
		res, err := client.MyPastes(ctx, token, q)
		return dashListMsg{visit: visit, seq: seq, res: res, err: err}
	}
}

// fetchAuxCmd fans out to the independent aggregate sources. They render in
// separate regions, so one failing does not block the other.
func (p *DashboardPage) fetchAuxCmd(wantStats, wantLangs bool) tea.Cmd {
	client := p.deps.Client
	token := p.deps.Session.Token()
	visit := p.visit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), model.DefaultRequestTimeout)
		defer cancel()

		msg := dashAuxMsg{visit: visit}
		g, gctx := errgroup.WithContext(ctx)

		if wantStats {
			g.Go(func() error {
				stats, err := client.UserStats(gctx, token)
				if err != nil {
					return err
				}
				msg.stats = stats
				msg.hasStats = true
				return nil
			})
		}
		if wantLangs {
			g.Go(func() error {
				langs, err := client.UserLanguages(gctx, token)
				if err != nil {
					return err
				}
				msg.languages = langs
				msg.hasLangs = true
				return nil
			})
		}

		msg.err = g.Wait()
		return msg
	}
}

// deleteCmd issues the delete mutation.
func (p *DashboardPage) deleteCmd(id string) tea.Cmd {
	client := p.deps.Client
	token := p.deps.Session.Token()
	visit := p.visit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), model.DefaultRequestTimeout)
		defer cancel()
		return dashDeleteDoneMsg{visit: visit, id: id, err: client.DeletePaste(ctx, token, id)}
	}
}

func (p *DashboardPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	var cmds []tea.Cmd
	var nav *PageNav

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height

	case dashRedirectMsg:
		return nil, &PageNav{PageID: PageLogin}

	case dashListMsg:
		if msg.visit != p.visit {
			break
		}
		switch p.list.Apply(msg.seq, msg.res, msg.err) {
		case listsync.PageOverflow:
			// The listing shrank under us (e.g. last item of the final page
			// deleted); clamp to the new last page and refetch.
			p.ctrl.SetPage(p.list.LastPage())
		case listsync.Failed:
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return nil, &PageNav{PageID: PageLogin}
			}
			p.notice.setError(api.UserMessage(msg.err))
		case listsync.Applied:
			p.clampSelection()
		}

	case dashAuxMsg:
		if msg.visit != p.visit {
			break
		}
		if msg.hasStats {
			p.stats = msg.stats
			p.hasStats = true
		}
		if msg.hasLangs {
			p.languages = msg.languages
		}
		if msg.err != nil && !errors.Is(msg.err, api.ErrUnauthorized) {
			p.notice.setError(api.UserMessage(msg.err))
		}

	case dashDeleteDoneMsg:
		if msg.visit != p.visit {
			break
		}
		// Busy state clears on every outcome.
		p.deleting = false
		if msg.err != nil {
			p.notice.setError(api.UserMessage(msg.err))
		} else {
			p.notice.set("Paste deleted")
		}
		// Full refetch corrects pagination whether or not the optimistic
		// removal was right.
		scope := refresh.ScopeFor(refresh.Delete)
		if scope.List {
			seq := p.list.Begin(p.ctrl.Query())
			cmds = append(cmds, p.fetchListCmd(seq, p.ctrl.Query()))
		}
		if scope.Stats || scope.Languages {
			cmds = append(cmds, p.fetchAuxCmd(scope.Stats, scope.Languages))
		}
		cmds = append(cmds, spinnerTick())

	case SpinnerTickMsg:
		if p.list.Loading() || p.deleting {
			cmds = append(cmds, spinnerTick())
		}

	case tea.KeyMsg:
		cmd, keyNav := p.handleKey(msg)
		cmds = append(cmds, cmd)
		nav = keyNav
	}

	// A single event may have touched several query fields; issue at most
	// one fetch for all of them.
	if p.queryDirty {
		p.queryDirty = false
		seq := p.list.Begin(p.ctrl.Query())
		cmds = append(cmds, p.fetchListCmd(seq, p.ctrl.Query()), spinnerTick())
	}

	return tea.Batch(cmds...), nav
}

func (p *DashboardPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	k := p.deps.Keys

	if key.Matches(msg, k.ForceQuit) {
		return tea.Quit, nil
	}

	// Confirm modal swallows everything while open.
	if p.confirm.active() {
		confirmed, done := p.confirm.handleKey(msg)
		if done && confirmed {
			id := p.confirm.id
			p.confirm = confirmState{}
			p.deleting = true
			// Optimistic removal for immediate feedback; the refetch after
			// dashDeleteDoneMsg is authoritative.
			p.list.MarkDeleted(id)
			p.clampSelection()
			return tea.Batch(p.deleteCmd(id), spinnerTick()), nil
		}
		if done {
			p.confirm = confirmState{}
		}
		return nil, nil
	}

	// Search input is an inline handler, not a modal.
	if p.searchActive {
		switch msg.String() {
		case "esc":
			p.searchActive = false
			p.searchInput.Blur()
			p.searchInput.SetValue(p.ctrl.Query().Search)
			return nil, nil
		case "enter":
			p.searchActive = false
			p.searchInput.Blur()
			p.ctrl.SetSearch(p.searchInput.Value())
			return nil, nil
		default:
			var cmd tea.Cmd
			p.searchInput, cmd = p.searchInput.Update(msg)
			return cmd, nil
		}
	}

	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit, nil

	case key.Matches(msg, k.Up):
		p.moveSelection(-1)

	case key.Matches(msg, k.Down):
		p.moveSelection(1)

	case key.Matches(msg, k.Enter):
		if item, ok := p.selectedItem(); ok {
			return nil, &PageNav{PageID: PageDetail, Params: item.ID}
		}

	case key.Matches(msg, k.Search):
		p.searchActive = true
		p.searchInput.SetValue(p.ctrl.Query().Search)
		return p.searchInput.Focus(), nil

	case key.Matches(msg, k.CycleLang):
		p.ctrl.SetLanguage(p.nextLanguage())

	case key.Matches(msg, k.CycleSort):
		p.ctrl.SetSort(p.ctrl.Query().Sort.Next())

	case key.Matches(msg, k.ResetFilters):
		p.searchInput.SetValue("")
		p.ctrl.ResetFilters()

	case key.Matches(msg, k.PrevPage):
		p.setPageClamped(p.ctrl.Query().Page - 1)

	case key.Matches(msg, k.NextPage):
		p.setPageClamped(p.ctrl.Query().Page + 1)

	case key.Matches(msg, k.Refresh):
		seq := p.list.Begin(p.ctrl.Query())
		return tea.Batch(
			p.fetchListCmd(seq, p.ctrl.Query()),
			p.fetchAuxCmd(true, true),
			spinnerTick(),
		), nil

	case key.Matches(msg, k.Delete):
		if item, ok := p.selectedItem(); ok && !p.deleting {
			p.confirm = confirmState{
				id:     item.ID,
				prompt: fmt.Sprintf("Delete %q? This cannot be undone.", item.DisplayTitle()),
			}
		}

	case key.Matches(msg, k.GoCompose):
		return nil, &PageNav{PageID: PageCompose}

	case key.Matches(msg, k.GoPublic):
		return nil, &PageNav{PageID: PagePublic}
	}

	return nil, nil
}

// setPageClamped applies Math.max/Math.min-style bounds before handing the
// page to the controller.
func (p *DashboardPage) setPageClamped(n int) {
	last := p.list.LastPage()
	if n < 1 {
		n = 1
	}
	if n > last {
		n = last
	}
	p.ctrl.SetPage(n)
}

// nextLanguage cycles all → facets… → all.
func (p *DashboardPage) nextLanguage() string {
	current := p.ctrl.Query().Language
	cycle := append([]string{model.AllLanguages}, p.languages...)
	for i, lang := range cycle {
		if lang == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return model.AllLanguages
}

func (p *DashboardPage) selectedItem() (model.PasteSummary, bool) {
	items := p.list.Result().Items
	if p.selIdx < 0 || p.selIdx >= len(items) {
		return model.PasteSummary{}, false
	}
	return items[p.selIdx], true
}

func (p *DashboardPage) moveSelection(delta int) {
	items := p.list.Result().Items
	if len(items) == 0 {
		p.selIdx = 0
		return
	}
	p.selIdx += delta
	p.clampSelection()
}

func (p *DashboardPage) clampSelection() {
	items := p.list.Result().Items
	if p.selIdx >= len(items) {
		p.selIdx = len(items) - 1
	}
	if p.selIdx < 0 {
		p.selIdx = 0
	}
}

func (p *DashboardPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing..."
	}
	p.width = width
	p.height = height

	if p.confirm.active() {
		return p.confirm.render(width, height)
	}

	var sections []string

	header := renderPasteorBranding() + "  " + titleStyle.Render("My Pastes")
	if u := p.deps.Session.User(); u != nil {
		header += subtitleStyle.Render("  " + u.DisplayName())
	}
	sections = append(sections, header)

	sections = append(sections, p.renderStatsStrip(width))
	sections = append(sections, p.renderFilterBar(width))
	sections = append(sections, p.renderList(width, height-10))
	sections = append(sections, p.renderPagination())

	help := "↑↓: select • enter: open • /: search • l: lang • s: sort • r: reset • d: delete • c: new • R: refresh • q: quit"
	sections = append(sections, renderStatusLine(width, "Dashboard", help, &p.notice))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatsStrip shows the aggregate counters; eventual consistency with
// the list is fine, so it renders whatever the last stats fetch said.
func (p *DashboardPage) renderStatsStrip(width int) string {
	if !p.hasStats {
		return subtitleStyle.Render("Stats loading...")
	}
	cells := []string{
		fmt.Sprintf("Total: %d", p.stats.TotalPastes),
		fmt.Sprintf("Views: %d", p.stats.TotalViews),
		fmt.Sprintf("Active: %d", p.stats.ActivePastes),
	}
	if p.stats.MostViewedPaste != "" {
		cells = append(cells, "Most viewed: "+truncate(p.stats.MostViewedPaste, 12))
	}
	var rendered []string
	total := 0
	for _, cell := range cells {
		total += len(cell) + 3
		if total > width {
			break
		}
		rendered = append(rendered, badgeStyle.Render(cell))
	}
	return strings.Join(rendered, " ")
}

func (p *DashboardPage) renderFilterBar(width int) string {
	q := p.ctrl.Query()

	if p.searchActive {
		return "Search: " + p.searchInput.View()
	}

	parts := []string{
		"search: " + orDash(q.Search),
		"language: " + q.Language,
		"sort: " + string(q.Sort),
	}
	return subtitleStyle.Render(truncate(strings.Join(parts, "  •  "), width))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (p *DashboardPage) renderList(width, height int) string {
	if height < 4 {
		height = 4
	}

	if p.list.Loading() && !p.list.HasResult() {
		return renderLoadingPlaceholder(width, height)
	}

	items := p.list.Result().Items
	if len(items) == 0 {
		var empty string
		if p.ctrl.Query() == query.Default() {
			empty = "No pastes yet. Press c to create your first paste."
		} else {
			empty = "No pastes match the current filters. Press r to reset."
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, helpStyle.Render(empty))
	}

	maxRows := height / 2
	var lines []string
	for i, item := range items {
		if i >= maxRows {
			break
		}
		lines = append(lines, renderPasteRow(item, width-2, i == p.selIdx))
	}
	return strings.Join(lines, "\n")
}

func (p *DashboardPage) renderPagination() string {
	res := p.list.Result()
	q := p.ctrl.Query()
	text := fmt.Sprintf("Page %d of %d  (%d pastes)", q.Page, p.list.LastPage(), res.TotalCount)
	if p.list.Loading() {
		text += "  " + spinnerFrame()
	}
	return subtitleStyle.Render(text)
}
