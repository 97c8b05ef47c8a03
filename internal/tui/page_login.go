package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pasteor/pasteor-cli/internal/api"
	"github.com/pasteor/pasteor-cli/internal/model"
)

// loginDoneMsg reports the token verification outcome.
type loginDoneMsg struct {
	err error
}

// LoginPage collects an API token and verifies it against the server.
type LoginPage struct {
	deps Deps

	tokenInput textinput.Model
	busy       bool

	notice notice

	width  int
	height int
}

func NewLoginPage(deps Deps) *LoginPage {
	input := textinput.New()
	input.Placeholder = "paste your API token"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 256

	return &LoginPage{deps: deps, tokenInput: input}
}

func (p *LoginPage) ID() string { return PageLogin }

func (p *LoginPage) Init() tea.Cmd {
	p.busy = false
	p.notice.clear()
	p.tokenInput.SetValue("")
	return p.tokenInput.Focus()
}

func (p *LoginPage) loginCmd(token string) tea.Cmd {
	sess := p.deps.Session
	client := p.deps.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), model.DefaultRequestTimeout)
		defer cancel()
		return loginDoneMsg{err: sess.Login(ctx, client, token)}
	}
}

func (p *LoginPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height

	case loginDoneMsg:
		p.busy = false
		if msg.err != nil {
			p.notice.setError(api.UserMessage(msg.err))
			return nil, nil
		}
		return nil, &PageNav{PageID: PageDashboard}

	case SpinnerTickMsg:
		if p.busy {
			return spinnerTick(), nil
		}

	case tea.KeyMsg:
		k := p.deps.Keys

		switch {
		case key.Matches(msg, k.ForceQuit):
			return tea.Quit, nil

		case key.Matches(msg, k.Escape):
			return nil, &PageNav{PageID: PagePublic}
		}

		if p.busy {
			return nil, nil
		}

		if msg.String() == "enter" {
			token := strings.TrimSpace(p.tokenInput.Value())
			if token == "" {
				p.notice.setError("token is required")
				return nil, nil
			}
			p.busy = true
			return tea.Batch(p.loginCmd(token), spinnerTick()), nil
		}

		var cmd tea.Cmd
		p.tokenInput, cmd = p.tokenInput.Update(msg)
		return cmd, nil
	}

	return nil, nil
}

func (p *LoginPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing..."
	}
	p.width = width
	p.height = height

	var rows []string
	rows = append(rows, renderPasteorBranding())
	rows = append(rows, titleStyle.Render("Sign in"))
	rows = append(rows, "")
	rows = append(rows, "Token: "+p.tokenInput.View())

	if p.busy {
		rows = append(rows, "", noticeStyle.Render(spinnerFrame()+" Verifying..."))
	}
	if msg := p.notice.render(); msg != "" {
		rows = append(rows, "", msg)
	}
	rows = append(rows, "", helpStyle.Render("enter: sign in  •  esc: back"))

	box := activeSectionStyle.Padding(1, 3).Render(strings.Join(rows, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
