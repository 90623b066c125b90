package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/settled-dev/settled/internal/export"
	"github.com/settled-dev/settled/internal/invoices"
	"github.com/settled-dev/settled/internal/ledger"
	"github.com/settled-dev/settled/internal/match"
)

func newExportCommand() *cobra.Command {
	var workspaceDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a reconciliation workbook to exports/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(workspaceDir)
			if err != nil {
				return err
			}
			return runExport(cmd, ws)
		},
	}

	cmd.Flags().StringVar(&workspaceDir, "workspace", ".", "workspace directory")

	return cmd
}

func runExport(cmd *cobra.Command, ws *workspace) error {
	payments, err := ledger.Load(ws.dir)
	if err != nil {
		return err
	}
	store, err := invoices.Load(ws.dir)
	if err != nil {
		return err
	}

	// Matching is deterministic, so re-running it here is equivalent to
	// reading back the last match output.
	rep := match.Match(payments, store.All())

	path, err := export.Save(ws.dir, rep, store.All(), time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	ws.finishRun("export", filepath.Base(path))
	return nil
}
