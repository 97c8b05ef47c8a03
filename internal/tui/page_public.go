package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/pasteor/pasteor-cli/internal/api"
	"github.com/pasteor/pasteor-cli/internal/model"
)

// publicDataMsg carries the landing page fan-out result.
type publicDataMsg struct {
	recent    []model.PasteSummary
	hasRecent bool
	stats     model.PublicStats
	hasStats  bool
	err       error
}

// PublicPage is the anonymous landing view: recent public pastes plus
// site-wide aggregates with a language distribution chart.
type PublicPage struct {
	deps Deps

	recent    []model.PasteSummary
	hasRecent bool
	stats     model.PublicStats
	hasStats  bool
	loading   bool

	selIdx int

	notice notice

	width  int
	height int
}

func NewPublicPage(deps Deps) *PublicPage {
	return &PublicPage{deps: deps}
}

func (p *PublicPage) ID() string { return PagePublic }

func (p *PublicPage) Init() tea.Cmd {
	p.loading = true
	p.notice.clear()
	return tea.Batch(p.fetchCmd(), spinnerTick())
}

func (p *PublicPage) fetchCmd() tea.Cmd {
	client := p.deps.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), model.DefaultRequestTimeout)
		defer cancel()

		var msg publicDataMsg
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			recent, err := client.RecentPastes(gctx, model.DefaultRecentLimit)
			if err != nil {
				return err
			}
			msg.recent = recent
			msg.hasRecent = true
			return nil
		})
		g.Go(func() error {
			stats, err := client.PublicStats(gctx)
			if err != nil {
				return err
			}
			msg.stats = stats
			msg.hasStats = true
			return nil
		})

		msg.err = g.Wait()
		return msg
	}
}

func (p *PublicPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height

	case publicDataMsg:
		p.loading = false
		if msg.hasRecent {
			p.recent = msg.recent
			p.hasRecent = true
			if p.selIdx >= len(p.recent) {
				p.selIdx = 0
			}
		}
		if msg.hasStats {
			p.stats = msg.stats
			p.hasStats = true
		}
		if msg.err != nil {
			p.notice.setError(api.UserMessage(msg.err))
		}

	case SpinnerTickMsg:
		if p.loading {
			return spinnerTick(), nil
		}

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return nil, nil
}

func (p *PublicPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	k := p.deps.Keys

	switch {
	case key.Matches(msg, k.ForceQuit), key.Matches(msg, k.Quit):
		return tea.Quit, nil

	case key.Matches(msg, k.Up):
		if p.selIdx > 0 {
			p.selIdx--
		}

	case key.Matches(msg, k.Down):
		if p.selIdx < len(p.recent)-1 {
			p.selIdx++
		}

	case key.Matches(msg, k.Enter):
		if p.selIdx >= 0 && p.selIdx < len(p.recent) {
			return nil, &PageNav{PageID: PageDetail, Params: p.recent[p.selIdx].ID}
		}

	case key.Matches(msg, k.Refresh):
		p.loading = true
		return tea.Batch(p.fetchCmd(), spinnerTick()), nil

	case key.Matches(msg, k.GoCompose):
		return nil, &PageNav{PageID: PageCompose}

	case key.Matches(msg, k.GoDashboard):
		return nil, &PageNav{PageID: PageDashboard}

	case key.Matches(msg, k.GoLogin):
		return nil, &PageNav{PageID: PageLogin}
	}

	return nil, nil
}

func (p *PublicPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing..."
	}
	p.width = width
	p.height = height

	if p.loading && !p.hasRecent && !p.hasStats {
		return renderLoadingPlaceholder(width, height)
	}

	header := renderPasteorBranding() + "  " + subtitleStyle.Render("share code, fast")

	listWidth := width * 3 / 5
	statsWidth := width - listWidth - 2
	bodyHeight := height - 5

	left := sectionStyle.Width(listWidth).Render(p.renderRecent(listWidth-4, bodyHeight-2))
	right := sectionStyle.Width(statsWidth).Render(p.renderStats(statsWidth - 4))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	help := "↑↓: select • enter: open • c: new paste • m: my pastes • L: login • R: refresh • q: quit"
	status := renderStatusLine(width, "Pasteor", help, &p.notice)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (p *PublicPage) renderRecent(width, height int) string {
	title := titleStyle.Render("Recent pastes")

	if !p.hasRecent {
		return title + "\n" + helpStyle.Render("Loading...")
	}
	if len(p.recent) == 0 {
		return title + "\n" + helpStyle.Render("Nothing here yet. Press c to post the first paste.")
	}

	maxRows := height / 2
	var lines []string
	for i, item := range p.recent {
		if i >= maxRows {
			break
		}
		lines = append(lines, renderPasteRow(item, width, i == p.selIdx))
	}
	return title + "\n" + strings.Join(lines, "\n")
}

func (p *PublicPage) renderStats(width int) string {
	title := titleStyle.Render("Site stats")

	if !p.hasStats {
		return title + "\n" + helpStyle.Render("Loading...")
	}

	counters := fmt.Sprintf("%s pastes  •  %s views",
		noticeStyle.Render(fmt.Sprintf("%d", p.stats.TotalPastes)),
		noticeStyle.Render(fmt.Sprintf("%d", p.stats.TotalViews)))

	chart := p.renderLanguageChart(width)

	var popular []string
	for i, item := range p.stats.PopularPastes {
		if i >= 5 {
			break
		}
		popular = append(popular, fmt.Sprintf("  %s  %s",
			truncate(item.DisplayTitle(), width-12),
			subtitleStyle.Render(fmt.Sprintf("%d views", item.Views))))
	}

	sections := []string{title, counters}
	if chart != "" {
		sections = append(sections, subtitleStyle.Render("Top languages"), chart)
	}
	if len(popular) > 0 {
		sections = append(sections, subtitleStyle.Render("Popular"), strings.Join(popular, "\n"))
	}
	return strings.Join(sections, "\n\n")
}

// renderLanguageChart draws one bar per language, tallest first, with a
// textual legend underneath since single-cell bars carry no label.
func (p *PublicPage) renderLanguageChart(width int) string {
	langs := p.stats.TopLanguages
	if len(langs) == 0 {
		return ""
	}

	maxBars := width / 3
	if maxBars < 1 {
		maxBars = 1
	}
	if len(langs) > maxBars {
		langs = langs[:maxBars]
	}

	chartHeight := 5
	bc := barchart.New(len(langs)*3, chartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(2),
		barchart.WithNoAxis(),
	)

	barStyles := []lipgloss.Style{
		lipgloss.NewStyle().Foreground(ColorBlue).Background(ColorBlue),
		lipgloss.NewStyle().Foreground(ColorGreen).Background(ColorGreen),
		lipgloss.NewStyle().Foreground(ColorOrange).Background(ColorOrange),
		lipgloss.NewStyle().Foreground(ColorGray).Background(ColorGray),
	}

	var legend []string
	for i, lang := range langs {
		style := barStyles[i%len(barStyles)]
		bc.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: lang.Language, Value: float64(lang.Count), Style: style},
			},
		})
		legend = append(legend, style.UnsetBackground().Render("■")+" "+
			fmt.Sprintf("%s (%d)", lang.Language, lang.Count))
	}

	bc.Draw()
	return bc.View() + "\n" + subtitleStyle.Render(strings.Join(legend, "  "))
}
