package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mossriver/poolside/internal/idp"
	"github.com/mossriver/poolside/internal/shared"
	"github.com/mossriver/poolside/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive sign-in console.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Log.Path
	if logPath == "" {
		logPath = "./tmp/poolside-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	if cognito, ok := r.adapter.(*idp.CognitoAdapter); ok {
		cognito.SetLogger(fileLogger)
	}

	model := ui.NewModel(ctx, r.adapter, r.idpConfig(), fileLogger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
