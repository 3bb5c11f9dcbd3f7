package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/moviesir/moviesir/internal/recommend"
	"github.com/moviesir/moviesir/internal/shared"
	"github.com/moviesir/moviesir/internal/ui"
	"github.com/urfave/cli/v3"
)

// Onboard launches the swipe-based taste onboarding TUI.
func (r *Runner) Onboard(ctx context.Context, cmd *cli.Command) error {
	user, err := r.currentUser()
	if err != nil {
		return err
	}
	if r.movies == nil || r.onboarding == nil {
		return fmt.Errorf("%w: movie service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/moviesir-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewOnboardingModel(ctx, r.movies, r.onboarding, user)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// Chat launches the chatbot TUI.
func (r *Runner) Chat(ctx context.Context, cmd *cli.Command) error {
	user, err := r.currentUser()
	if err != nil {
		return err
	}
	if r.movies == nil {
		return fmt.Errorf("%w: movie service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/moviesir-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	primary := recommend.NewBackendStrategy(r.movies)
	fallback := recommend.NewFallbackStrategy(r.movies, r.users, fileLogger)
	delay := time.Duration(r.config.Chat.TypingDelayMS) * time.Millisecond

	model := ui.NewChatModel(ctx, user, primary, fallback, delay)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
