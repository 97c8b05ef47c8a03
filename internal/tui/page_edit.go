package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pasteor/pasteor-cli/internal/api"
	"github.com/pasteor/pasteor-cli/internal/composer"
	"github.com/pasteor/pasteor-cli/internal/model"
	"github.com/pasteor/pasteor-cli/internal/refresh"
)

// editLoadedMsg carries the paste being edited.
type editLoadedMsg struct {
	id    string
	paste model.Paste
	err   error
}

// editDoneMsg reports the update request outcome.
type editDoneMsg struct {
	paste model.Paste
	err   error
}

// EditPage edits an existing paste. Only the owner may edit; anyone else is
// bounced back to the detail view with a notice saying why.
type EditPage struct {
	deps Deps

	pasteID string
	form    *composer.Form
	loaded  bool
	loading bool

	contentArea textarea.Model
	titleInput  textinput.Model
	focus       composerFocus

	notice notice

	width  int
	height int
}

func NewEditPage(deps Deps) *EditPage {
	area := textarea.New()
	area.CharLimit = 0

	title := textinput.New()
	title.Placeholder = "Untitled"
	title.CharLimit = 120

	return &EditPage{
		deps:        deps,
		form:        composer.New(),
		contentArea: area,
		titleInput:  title,
	}
}

func (p *EditPage) ID() string { return PageEdit }

func (p *EditPage) SetParams(params any) {
	if id, ok := params.(string); ok {
		p.pasteID = id
	}
}

func (p *EditPage) Init() tea.Cmd {
	p.loaded = false
	p.focus = focusContent
	p.notice.clear()

	if p.pasteID == "" {
		return func() tea.Msg {
			return editLoadedMsg{err: fmt.Errorf("%w: no paste selected", api.ErrNotFound)}
		}
	}

	p.loading = true
	return tea.Batch(p.fetchCmd(p.pasteID), spinnerTick())
}

func (p *EditPage) fetchCmd(id string) tea.Cmd {
	client := p.deps.Client
	token := p.deps.Session.Token()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), model.DefaultRequestTimeout)
		defer cancel()
		paste, err := client.GetPaste(ctx, id, token)
		return editLoadedMsg{id: id, paste: paste, err: err}
	}
}

func (p *EditPage) submitCmd() tea.Cmd {
	client := p.deps.Client
	token := p.deps.Session.Token()
	id := p.pasteID
	req := p.form.UpdateRequest()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), model.DefaultRequestTimeout)
		defer cancel()
		paste, err := client.UpdatePaste(ctx, token, id, req)
		return editDoneMsg{paste: paste, err: err}
	}
}

func (p *EditPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.contentArea.SetWidth(msg.Width - 6)
		p.contentArea.SetHeight(msg.Height - 12)

	case editLoadedMsg:
		if msg.id != p.pasteID {
			return nil, nil
		}
		p.loading = false
		if msg.err != nil {
			// Missing or foreign pastes are not editable; land somewhere
			// sensible instead of showing a dead form.
			return nil, &PageNav{PageID: PageDashboard}
		}
		if !msg.paste.IsOwner {
			return nil, &PageNav{
				PageID: PageDetail,
				Params: DetailParams{ID: msg.paste.ID, Notice: "You can only edit your own pastes"},
			}
		}
		p.form = composer.NewFromPaste(msg.paste)
		p.contentArea.SetValue(msg.paste.Content)
		p.titleInput.SetValue(msg.paste.Title)
		p.titleInput.Blur()
		p.loaded = true
		return p.contentArea.Focus(), nil

	case editDoneMsg:
		p.form.Complete(msg.err)
		if msg.err != nil {
			// Field values survive; the user can retry or back out.
			p.notice.setError(api.UserMessage(msg.err))
			return nil, nil
		}
		p.deps.Refresh.Record(refresh.Update)
		return nil, &PageNav{PageID: PageDetail, Params: msg.paste.ID}

	case SpinnerTickMsg:
		if p.loading || p.form.Busy() {
			return spinnerTick(), nil
		}

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return nil, nil
}

func (p *EditPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	k := p.deps.Keys

	switch {
	case key.Matches(msg, k.ForceQuit):
		return tea.Quit, nil

	case key.Matches(msg, k.Escape):
		return nil, &PageNav{PageID: PageDetail, Params: p.pasteID}
	}

	if !p.loaded {
		return nil, nil
	}

	switch {
	case key.Matches(msg, k.Submit):
		p.form.Content = p.contentArea.Value()
		p.form.Title = p.titleInput.Value()
		if err := p.form.BeginSubmit(); err != nil {
			if errors.Is(err, composer.ErrEmptyContent) || errors.Is(err, composer.ErrContentTooLarge) {
				p.notice.setError(err.Error())
			}
			return nil, nil
		}
		return tea.Batch(p.submitCmd(), spinnerTick()), nil

	case key.Matches(msg, k.NextField):
		if p.focus == focusContent {
			p.focus = focusTitle
			p.contentArea.Blur()
			return p.titleInput.Focus(), nil
		}
		p.focus = focusContent
		p.titleInput.Blur()
		return p.contentArea.Focus(), nil

	case key.Matches(msg, k.LangOption):
		p.form.CycleLanguage()
		return nil, nil
	}

	if p.form.Busy() {
		return nil, nil
	}

	var cmd tea.Cmd
	switch p.focus {
	case focusContent:
		p.contentArea, cmd = p.contentArea.Update(msg)
		p.form.Content = p.contentArea.Value()
	case focusTitle:
		p.titleInput, cmd = p.titleInput.Update(msg)
		p.form.Title = p.titleInput.Value()
	}
	return cmd, nil
}

func (p *EditPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing..."
	}
	p.width = width
	p.height = height

	if !p.loaded {
		return renderLoadingPlaceholder(width, height)
	}

	header := renderPasteorBranding() + "  " + titleStyle.Render("Edit paste")

	titleLabel := "Title: "
	if p.focus == focusTitle {
		titleLabel = titleStyle.Render(titleLabel)
	}
	titleRow := titleLabel + p.titleInput.View()

	optionsRow := subtitleStyle.Render("language: " + p.form.Language)

	contentBox := sectionStyle
	if p.focus == focusContent {
		contentBox = activeSectionStyle
	}
	content := contentBox.Render(p.contentArea.View())

	var busyRow string
	if p.form.Busy() {
		busyRow = noticeStyle.Render(spinnerFrame() + " Saving...")
	}

	help := "ctrl+s: save • tab: next field • ctrl+l: language • esc: cancel"
	status := renderStatusLine(width, "Edit", help, &p.notice)

	return lipgloss.JoinVertical(lipgloss.Left,
		header, titleRow, optionsRow, content, busyRow, status)
}
