package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/settled-dev/settled/internal/invoices"
	"github.com/settled-dev/settled/internal/ledger"
	"github.com/settled-dev/settled/internal/match"
	"github.com/settled-dev/settled/internal/model"
	"github.com/settled-dev/settled/internal/report"
)

// Workspace file names for match output.
const (
	matchesCSVFileName  = "matches.csv"
	matchesJSONFileName = "matches.json"
)

func newMatchCommand() *cobra.Command {
	var workspaceDir string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match ledger payments against extracted invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(workspaceDir)
			if err != nil {
				return err
			}
			return runMatch(cmd, ws)
		},
	}

	cmd.Flags().StringVar(&workspaceDir, "workspace", ".", "workspace directory")

	return cmd
}

func runMatch(cmd *cobra.Command, ws *workspace) error {
	payments, err := ledger.Load(ws.dir)
	if err != nil {
		return err
	}
	if len(payments) == 0 {
		return fmt.Errorf("ledger %s is empty; nothing to match", ledger.FileName)
	}

	store, err := invoices.Load(ws.dir)
	if err != nil {
		return err
	}
	if len(store.All()) == 0 {
		return fmt.Errorf("invoice store is empty; run extract first")
	}

	rep := match.Match(payments, store.All())

	if err := saveReport(ws.dir, rep); err != nil {
		return err
	}

	report.WriteReconciliation(cmd.OutOrStdout(), rep)

	ws.finishRun("match", fmt.Sprintf("%d matched, %d unmatched", len(rep.Matches), len(rep.Unmatched)))
	return nil
}

func saveReport(workspace string, rep model.Report) error {
	csvPath := filepath.Join(workspace, matchesCSVFileName)
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", csvPath, err)
	}
	defer f.Close()

	if err := match.WriteMatches(f, rep.Matches); err != nil {
		return fmt.Errorf("writing %s: %w", csvPath, err)
	}

	jsonPath := filepath.Join(workspace, matchesJSONFileName)
	jf, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", jsonPath, err)
	}
	defer jf.Close()

	if err := match.WriteJSON(jf, rep); err != nil {
		return fmt.Errorf("writing %s: %w", jsonPath, err)
	}
	return nil
}
