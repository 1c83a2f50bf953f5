package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/steveyegge/pakeforge/internal/discovery"
	"github.com/steveyegge/pakeforge/internal/exitcode"
	"github.com/steveyegge/pakeforge/internal/pake"
	"github.com/steveyegge/pakeforge/internal/session"
	"github.com/steveyegge/pakeforge/internal/tui/forge"
	"github.com/steveyegge/pakeforge/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:     "ui",
	GroupID: GroupBuild,
	Short:   "Open the build form (default)",
	Long: `Open the full-screen build form.

Panes:
  F1  Build     URL, name, icon, identifier, size and window options
  F2  History   past builds; enter reloads one into the form
  F3  Builds    artifacts found under the project; enter opens one

ctrl+p installs dependencies, ctrl+b builds. Only one runs at a time; the
log pane shows its output. F5 toggles the full key list.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	if !ui.IsInteractive() {
		return exitcode.Usage("the build form needs an interactive terminal; use 'pakeforge build' in scripts")
	}

	p, err := loadProject(nil)
	if err != nil {
		return err
	}
	defer p.Close()

	// Cancelled on exit so a running install or build does not outlive the UI.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ctrl := session.NewFromConfig(ctx, p.cfg, p.newRunner(), p.store, p.log, nil)
	// The worker may still log or save history; let it finish before the
	// log file is closed.
	defer func() {
		cancel()
		ctrl.Wait()
	}()

	patterns := p.patterns()
	changes, err := discovery.Watch(ctx, p.cfg.ProjectDir, patterns)
	if err != nil {
		p.log.WithError(err).Warn("artifact watch disabled")
		changes = nil
	}

	m := forge.New(forge.Options{
		Actions:    ctrl,
		Store:      p.store,
		ProjectDir: p.cfg.ProjectDir,
		Patterns:   patterns,
		Defaults: pake.BuildRequest{
			Width:  p.cfg.Defaults.Width,
			Height: p.cfg.Defaults.Height,
		},
		Open:    openPath,
		Changes: changes,
	})

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	ctrl.SetSink(forge.NewSink(prog))

	p.log.WithField("project", p.cfg.ProjectDir).Info("ui started")
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running ui: %w", err)
	}
	if ctrl.Busy() {
		p.log.Warn("ui closed while an action was running; stopping it")
	}
	return nil
}
