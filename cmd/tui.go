package cmd

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"callboard/internal/assist"
	"callboard/internal/auth"
	"callboard/internal/config"
	"callboard/internal/tui"
	"callboard/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	session := auth.NewSession(cfg)

	model := tui.New(cfg, session, newAssistant(cfg, logger), logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, cfg, p)

	_, err = p.Run()
	return err
}

// newAssistant returns nil when no API key is configured; the TUI then
// shows a hint on the AI entry points instead of failing at startup.
func newAssistant(cfg *config.Config, logger *slog.Logger) tui.Assistant {
	a, err := assist.New(nil, cfg.Model, logger)
	if err != nil {
		logger.Debug("assistant disabled", "err", err)
		return nil
	}
	return a
}

// startTUIWatcher watches the config directory so an external
// `callboard login` or `callboard setup` takes effect in a running board.
func startTUIWatcher(ctx context.Context, cfg *config.Config, p *tea.Program) {
	w, err := watcher.New(cfg.Dir(), func() {
		p.Send(tui.SessionReloadMsg{})
	})
	if err != nil {
		return // non-fatal: the board works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}
