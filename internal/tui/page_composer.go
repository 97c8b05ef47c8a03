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

// composeDoneMsg reports the create request outcome.
type composeDoneMsg struct {
	paste model.Paste
	err   error
}

// composerFocus names which widget owns key input.
type composerFocus int

const (
	focusContent composerFocus = iota
	focusTitle
)

// ComposePage creates a new paste. Anonymous submissions are allowed; the
// server just records no author.
type ComposePage struct {
	deps Deps

	form *composer.Form

	contentArea textarea.Model
	titleInput  textinput.Model
	focus       composerFocus

	notice notice

	width  int
	height int
}

func NewComposePage(deps Deps) *ComposePage {
	area := textarea.New()
	area.Placeholder = "Paste your code or text here..."
	area.CharLimit = 0

	title := textinput.New()
	title.Placeholder = "Untitled"
	title.CharLimit = 120

	return &ComposePage{
		deps:        deps,
		form:        composer.New(),
		contentArea: area,
		titleInput:  title,
	}
}

func (p *ComposePage) ID() string { return PageCompose }

func (p *ComposePage) Init() tea.Cmd {
	p.form = composer.New()
	p.contentArea.Reset()
	p.titleInput.Reset()
	p.focus = focusContent
	p.notice.clear()
	p.titleInput.Blur()
	return p.contentArea.Focus()
}

func (p *ComposePage) submitCmd() tea.Cmd {
	client := p.deps.Client
	token := p.deps.Session.Token()
	req := p.form.CreateRequest()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), model.DefaultRequestTimeout)
		defer cancel()
		paste, err := client.CreatePaste(ctx, token, req)
		return composeDoneMsg{paste: paste, err: err}
	}
}

func (p *ComposePage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.contentArea.SetWidth(msg.Width - 6)
		p.contentArea.SetHeight(msg.Height - 12)

	case composeDoneMsg:
		p.form.Complete(msg.err)
		if msg.err != nil {
			p.notice.setError(api.UserMessage(msg.err))
			return nil, nil
		}
		// The dashboard refetches what a create touches next time it is
		// entered; meanwhile, straight to the freshly created paste.
		p.deps.Refresh.Record(refresh.Create)
		return nil, &PageNav{PageID: PageDetail, Params: msg.paste.ID}

	case SpinnerTickMsg:
		if p.form.Busy() {
			return spinnerTick(), nil
		}

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return nil, nil
}

func (p *ComposePage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	k := p.deps.Keys

	switch {
	case key.Matches(msg, k.ForceQuit):
		return tea.Quit, nil

	case key.Matches(msg, k.Escape):
		return nil, &PageNav{PageID: PagePublic}

	case key.Matches(msg, k.Submit):
		return p.beginSubmit()

	case key.Matches(msg, k.NextField):
		p.cycleFocus()
		if p.focus == focusContent {
			p.titleInput.Blur()
			return p.contentArea.Focus(), nil
		}
		p.contentArea.Blur()
		return p.titleInput.Focus(), nil

	case key.Matches(msg, k.LangOption):
		p.form.CycleLanguage()
		return nil, nil

	case key.Matches(msg, k.ExpiryOption):
		p.form.CycleExpiry()
		return nil, nil
	}

	if p.form.Busy() {
		// Typing during submission would desync the form snapshot.
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

func (p *ComposePage) beginSubmit() (tea.Cmd, *PageNav) {
	p.form.Content = p.contentArea.Value()
	p.form.Title = p.titleInput.Value()

	if err := p.form.BeginSubmit(); err != nil {
		if !errors.Is(err, composer.ErrEmptyContent) && !errors.Is(err, composer.ErrContentTooLarge) {
			return nil, nil // already in flight
		}
		p.notice.setError(err.Error())
		return nil, nil
	}
	return tea.Batch(p.submitCmd(), spinnerTick()), nil
}

func (p *ComposePage) cycleFocus() {
	if p.focus == focusContent {
		p.focus = focusTitle
	} else {
		p.focus = focusContent
	}
}

func (p *ComposePage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing..."
	}
	p.width = width
	p.height = height

	header := renderPasteorBranding() + "  " + titleStyle.Render("New paste")

	titleLabel := "Title: "
	if p.focus == focusTitle {
		titleLabel = titleStyle.Render(titleLabel)
	}
	titleRow := titleLabel + p.titleInput.View()

	optionsRow := subtitleStyle.Render(fmt.Sprintf(
		"language: %s  •  expires: %s", p.form.Language, p.form.ExpiresIn))

	contentBox := sectionStyle
	if p.focus == focusContent {
		contentBox = activeSectionStyle
	}
	content := contentBox.Render(p.contentArea.View())

	sizeRow := p.renderSizeRow()

	var busyRow string
	if p.form.Busy() {
		busyRow = noticeStyle.Render(spinnerFrame() + " Submitting...")
	}

	help := "ctrl+s: submit • tab: next field • ctrl+l: language • ctrl+e: expiry • esc: back"
	status := renderStatusLine(width, "Compose", help, &p.notice)

	return lipgloss.JoinVertical(lipgloss.Left,
		header, titleRow, optionsRow, content, sizeRow, busyRow, status)
}

func (p *ComposePage) renderSizeRow() string {
	size := len(p.contentArea.Value())
	row := subtitleStyle.Render(fmt.Sprintf("%d / %d bytes", size, model.MaxContentBytes))
	p.form.Content = p.contentArea.Value()
	if note := p.form.SizeNote(); note != "" {
		if size > model.MaxContentBytes {
			row += "  " + errorStyle.Render(note)
		} else {
			row += "  " + warnStyle.Render(note)
		}
	}
	return row
}
