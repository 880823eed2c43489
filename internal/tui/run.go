package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/shopper-segments/internal/cluster"
	"github.com/Veraticus/shopper-segments/internal/plot"
	"github.com/Veraticus/shopper-segments/internal/tui/themes"
)

// Config holds the viewer settings.
type Config struct {
	Input  io.Reader
	Output io.Writer
	Theme  themes.Theme
	// AltScreen runs the viewer in the alternate screen buffer.
	AltScreen bool
}

// Option configures the viewer.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		AltScreen: true,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithIO replaces the terminal with the given streams and disables the
// alternate screen.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *Config) {
		c.Input = in
		c.Output = out
		c.AltScreen = false
	}
}

// ShowPlots opens the viewer and blocks until the user closes it or ctx is
// canceled.
func ShowPlots(ctx context.Context, elbow []cluster.ElbowPoint, points []plot.Point, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if cfg.Input != nil {
		programOpts = append(programOpts, tea.WithInput(cfg.Input))
	}
	if cfg.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(cfg.Output))
	}

	program := tea.NewProgram(NewPlotViewer(elbow, points, cfg.Theme), programOpts...)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to run plot viewer: %w", err)
	}
	return nil
}
