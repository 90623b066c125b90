package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/settled-dev/settled/internal/api"
	"github.com/settled-dev/settled/internal/ledger"
	"github.com/settled-dev/settled/internal/model"
)

func newPaymentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Manage the payment ledger",
	}

	cmd.AddCommand(newPaymentsPullCommand())

	return cmd
}

func newPaymentsPullCommand() *cobra.Command {
	var workspaceDir string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch unlinked payments from the invoice-flow API into the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(workspaceDir)
			if err != nil {
				return err
			}
			return runPaymentsPull(cmd, ws)
		},
	}

	cmd.Flags().StringVar(&workspaceDir, "workspace", ".", "workspace directory")

	return cmd
}

func runPaymentsPull(cmd *cobra.Command, ws *workspace) error {
	if ws.cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is not configured")
	}
	key, err := ws.cfg.APIKey()
	if err != nil {
		return err
	}
	client := api.NewClient(ws.cfg.API.BaseURL, key, ws.log)

	remote, err := client.ListPayments(cmd.Context())
	if err != nil {
		return err
	}

	var payments []model.PaymentRecord
	for _, p := range remote {
		if p.InvoiceID != nil {
			continue
		}
		rec, err := p.ToPaymentRecord()
		if err != nil {
			return err
		}
		payments = append(payments, rec)
	}

	if err := ledger.Save(ws.dir, payments); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pulled %d payments into %s\n", len(payments), ledger.FileName)
	ws.finishRun("payments pull", fmt.Sprintf("%d payments", len(payments)))
	return nil
}
