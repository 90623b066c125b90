package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/settled-dev/settled/internal/config"
	"github.com/settled-dev/settled/internal/gitops"
	"github.com/settled-dev/settled/internal/logger"
	"github.com/settled-dev/settled/internal/runlog"
)

// workspace bundles what every command needs: the resolved directory,
// its config, and a logger at the configured level.
type workspace struct {
	dir string
	cfg *config.Config
	log zerolog.Logger
}

func openWorkspace(dir string) (*workspace, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading workspace config: %w", err)
	}

	return &workspace{
		dir: absDir,
		cfg: cfg,
		log: logger.New(cfg.Logging.Level),
	}, nil
}

// finishRun snapshots the workspace (when auto-commit is on) and appends
// a run-log entry. Failures here are logged, not fatal: the run's real
// output is already on disk.
func (ws *workspace) finishRun(command, details string) {
	entry := runlog.NewEntry(command, details)

	if ws.cfg.Git.AutoCommit {
		hash, err := gitops.Snapshot(ws.dir, command+": "+details, ws.cfg.Git.AuthorName, ws.cfg.Git.AuthorEmail)
		if err != nil {
			ws.log.Warn().Err(err).Msg("workspace snapshot failed")
		}
		entry.CommitHash = hash
	}

	if err := runlog.Append(ws.dir, []runlog.Entry{entry}); err != nil {
		ws.log.Warn().Err(err).Msg("run log append failed")
	}
}
