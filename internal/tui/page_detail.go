package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pasteor/pasteor-cli/internal/api"
	"github.com/pasteor/pasteor-cli/internal/model"
	"github.com/pasteor/pasteor-cli/internal/refresh"
)

// detailLoadedMsg carries the fetched paste, or the fetch error.
type detailLoadedMsg struct {
	id    string
	paste model.Paste
	err   error
}

// detailDeleteDoneMsg reports the delete outcome for the open paste.
type detailDeleteDoneMsg struct {
	err error
}

// DetailParams opens a paste by id with a one-shot notice shown on entry,
// for pages that redirect here and owe the user an explanation.
type DetailParams struct {
	ID     string
	Notice string
}

// DetailPage shows one paste in full, with copy and owner actions.
type DetailPage struct {
	deps Deps

	pasteID string
	paste   model.Paste
	// Shown once on the next entry, then forgotten.
	pendingNotice string
	loaded        bool
	// notFound distinguishes a missing paste from a transient failure; it
	// renders a dedicated view instead of an error banner.
	notFound bool
	loading  bool

	content viewport.Model

	confirm  confirmState
	deleting bool

	notice notice

	width  int
	height int
}

func NewDetailPage(deps Deps) *DetailPage {
	return &DetailPage{
		deps:    deps,
		content: viewport.New(0, 0),
	}
}

func (p *DetailPage) ID() string { return PageDetail }

// SetParams receives the paste id from the navigating page.
func (p *DetailPage) SetParams(params any) {
	switch v := params.(type) {
	case string:
		p.pasteID = v
	case DetailParams:
		p.pasteID = v.ID
		p.pendingNotice = v.Notice
	}
}

func (p *DetailPage) Init() tea.Cmd {
	p.loaded = false
	p.notFound = false
	p.deleting = false
	p.confirm = confirmState{}
	p.notice.clear()
	if p.pendingNotice != "" {
		p.notice.setError(p.pendingNotice)
		p.pendingNotice = ""
	}

	if p.pasteID == "" {
		p.notFound = true
		return nil
	}

	// Cached copies render immediately; a fresh fetch still runs so the
	// view count and ownership flag stay current.
	if cached, ok := p.deps.Client.CachedPaste(p.pasteID); ok {
		p.setPaste(cached)
	}

	p.loading = true
	return tea.Batch(p.fetchCmd(p.pasteID), spinnerTick())
}

func (p *DetailPage) fetchCmd(id string) tea.Cmd {
	client := p.deps.Client
	token := p.deps.Session.Token()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), model.DefaultRequestTimeout)
		defer cancel()
		paste, err := client.GetPaste(ctx, id, token)
		return detailLoadedMsg{id: id, paste: paste, err: err}
	}
}

func (p *DetailPage) deleteCmd() tea.Cmd {
	client := p.deps.Client
	token := p.deps.Session.Token()
	id := p.pasteID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), model.DefaultRequestTimeout)
		defer cancel()
		return detailDeleteDoneMsg{err: client.DeletePaste(ctx, token, id)}
	}
}

func (p *DetailPage) setPaste(paste model.Paste) {
	p.paste = paste
	p.loaded = true
	p.content.SetContent(paste.Content)
}

func (p *DetailPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.content.Width = msg.Width - 4
		p.content.Height = msg.Height - 9

	case detailLoadedMsg:
		// A rapid back-and-forward can leave an older page's fetch landing
		// here; only the current paste's result applies.
		if msg.id != p.pasteID {
			return nil, nil
		}
		p.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrNotFound) {
				p.notFound = true
				p.loaded = false
				return nil, nil
			}
			p.notice.setError(api.UserMessage(msg.err))
			return nil, nil
		}
		p.setPaste(msg.paste)

	case detailDeleteDoneMsg:
		p.deleting = false
		if msg.err != nil {
			p.notice.setError(api.UserMessage(msg.err))
			return nil, nil
		}
		p.deps.Refresh.Record(refresh.Delete)
		return nil, &PageNav{PageID: PageDashboard}

	case SpinnerTickMsg:
		if p.loading || p.deleting {
			return spinnerTick(), nil
		}

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return nil, nil
}

func (p *DetailPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	k := p.deps.Keys

	if key.Matches(msg, k.ForceQuit) {
		return tea.Quit, nil
	}

	if p.confirm.active() {
		confirmed, done := p.confirm.handleKey(msg)
		if done && confirmed {
			p.confirm = confirmState{}
			p.deleting = true
			return tea.Batch(p.deleteCmd(), spinnerTick()), nil
		}
		if done {
			p.confirm = confirmState{}
		}
		return nil, nil
	}

	switch {
	case key.Matches(msg, k.Quit), key.Matches(msg, k.Escape):
		return nil, &PageNav{PageID: PagePublic}

	case key.Matches(msg, k.GoDashboard):
		return nil, &PageNav{PageID: PageDashboard}

	case key.Matches(msg, k.CopyContent):
		if p.loaded {
			if err := clipboard.WriteAll(p.paste.Content); err != nil {
				p.notice.setError("clipboard unavailable")
			} else {
				p.notice.set("Content copied")
			}
		}
		return nil, nil

	case key.Matches(msg, k.CopyLink):
		if p.loaded {
			link := p.paste.URL
			if link == "" {
				link = p.deps.Client.BaseURL() + "/p/" + p.paste.ID
			}
			if err := clipboard.WriteAll(link); err != nil {
				p.notice.setError("clipboard unavailable")
			} else {
				p.notice.set("Link copied")
			}
		}
		return nil, nil

	case key.Matches(msg, k.Edit):
		if p.loaded && p.paste.IsOwner {
			return nil, &PageNav{PageID: PageEdit, Params: p.paste.ID}
		}
		return nil, nil

	case key.Matches(msg, k.Delete):
		if p.loaded && p.paste.IsOwner && !p.deleting {
			p.confirm = confirmState{
				id:     p.paste.ID,
				prompt: fmt.Sprintf("Delete %q? This cannot be undone.", p.paste.DisplayTitle()),
			}
		}
		return nil, nil

	case key.Matches(msg, k.Refresh):
		p.loading = true
		return tea.Batch(p.fetchCmd(p.pasteID), spinnerTick()), nil
	}

	var cmd tea.Cmd
	p.content, cmd = p.content.Update(msg)
	return cmd, nil
}

func (p *DetailPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing..."
	}
	p.width = width
	p.height = height

	if p.confirm.active() {
		return p.confirm.render(width, height)
	}

	if p.notFound {
		body := errorStyle.Render("Paste not found") + "\n\n" +
			helpStyle.Render("It may have expired or been deleted.\nPress esc to go back.")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
	}

	if !p.loaded {
		return renderLoadingPlaceholder(width, height)
	}

	header := renderPasteorBranding() + "  " + titleStyle.Render(p.paste.DisplayTitle())

	meta := []string{
		badgeStyle.Render(p.paste.Language),
		formatDate(p.paste.CreatedAt),
		fmt.Sprintf("%d views", p.paste.Views),
	}
	if p.paste.Author != nil {
		meta = append(meta, "by "+p.paste.Author.Name)
	}
	if p.paste.ExpiresAt != nil {
		meta = append(meta, warnStyle.Render("expires "+formatDate(*p.paste.ExpiresAt)))
	}
	metaRow := subtitleStyle.Render(strings.Join(meta, "  •  "))

	body := sectionStyle.Render(p.content.View())

	help := "y: copy content • u: copy link"
	if p.paste.IsOwner {
		help += " • e: edit • d: delete"
	}
	help += " • m: my pastes • esc: back"
	status := renderStatusLine(width, "Paste", help, &p.notice)

	return lipgloss.JoinVertical(lipgloss.Left, header, metaRow, body, status)
}
