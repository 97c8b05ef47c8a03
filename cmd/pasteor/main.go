package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/pasteor/pasteor-cli/internal/api"
	"github.com/pasteor/pasteor-cli/internal/logx"
	"github.com/pasteor/pasteor-cli/internal/refresh"
	"github.com/pasteor/pasteor-cli/internal/session"
	"github.com/pasteor/pasteor-cli/internal/tui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	var configPath string
	var apiURL string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/pasteor/config.yml)")
	flag.StringVar(&apiURL, "api-url", "", "override the Pasteor API base URL")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Pasteor CLI\n")
		fmt.Printf("  Version: %s\n", version)
		fmt.Printf("  Commit:  %s\n", commit)
		fmt.Printf("  Built:   %s\n", buildTime)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}

	if err := logx.Init(cfg.LogFile, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	log.Info().Str("version", version).Str("api_url", cfg.APIURL).Msg("starting pasteor")

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	client := api.New(cfg.APIURL, cfg.RequestTimeout)

	sess := session.New(cfg.TokenPath)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	err := sess.Hydrate(ctx, client)
	cancel()
	if err != nil {
		// The UI still works anonymously; note it and carry on.
		log.Warn().Err(err).Msg("could not restore session")
	}

	deps := tui.Deps{
		Client:  client,
		Session: sess,
		Refresh: &refresh.Pending{},
		Keys:    tui.DefaultKeyMap(),
	}

	app := tui.NewApp(
		tui.NewPublicPage(deps),
		tui.NewDashboardPage(deps),
		tui.NewComposePage(deps),
		tui.NewDetailPage(deps),
		tui.NewEditPage(deps),
		tui.NewLoginPage(deps),
	)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("pasteor requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
