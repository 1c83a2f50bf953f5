package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/steveyegge/pakeforge/internal/config"
	"github.com/steveyegge/pakeforge/internal/discovery"
	"github.com/steveyegge/pakeforge/internal/exitcode"
	"github.com/steveyegge/pakeforge/internal/history"
	"github.com/steveyegge/pakeforge/internal/logging"
	"github.com/steveyegge/pakeforge/internal/runner"
	"github.com/steveyegge/pakeforge/internal/style"
)

// project is the per-invocation state shared by commands: the resolved
// config, the session logger, and the history ledger.
type project struct {
	cfg      *config.Config
	cfgPath  string
	log      *logrus.Logger
	closeLog func() error
	store    *history.FileStore
}

// loadProject resolves the config from --project/--config and opens the
// log file. console, when non-nil, also receives log entries.
func loadProject(console io.Writer) (*project, error) {
	cfg, err := config.Load(projectFlag, configFlag)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.ErrUsage, "loading config", err)
	}

	log, closeLog, err := logging.Setup(logging.Options{
		Path:    cfg.LogPath(),
		Debug:   debugFlag,
		Console: console,
	})
	if err != nil {
		style.PrintWarning("logging disabled: %v", err)
	}

	cfgPath := configFlag
	if cfgPath == "" {
		cfgPath = config.Path(cfg.ProjectDir)
	}

	return &project{
		cfg:      cfg,
		cfgPath:  cfgPath,
		log:      log,
		closeLog: closeLog,
		store:    history.NewFileStore(cfg.HistoryPath(), log),
	}, nil
}

// Close releases the log file.
func (p *project) Close() {
	_ = p.closeLog()
}

// debugConsole is the console writer for headless commands: stderr under
// --debug, otherwise nil so entries only reach the log file.
func debugConsole(cmd *cobra.Command) io.Writer {
	if !debugFlag {
		return nil
	}
	return cmd.ErrOrStderr()
}

// newRunner returns a process runner rooted at the project directory.
func (p *project) newRunner() runner.Runner {
	return &runner.Exec{Dir: p.cfg.ProjectDir}
}

func (p *project) patterns() []discovery.Pattern {
	return discovery.PatternsFromGlobs(p.cfg.ArtifactPatterns)
}
