package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/settled-dev/settled/internal/api"
	"github.com/settled-dev/settled/internal/invoices"
	"github.com/settled-dev/settled/internal/match"
	"github.com/settled-dev/settled/internal/model"
)

func newUploadCommand() *cobra.Command {
	var workspaceDir string
	var skipUpload bool

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload invoices to the invoice-flow API and link matched payments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(workspaceDir)
			if err != nil {
				return err
			}
			return runUpload(cmd, ws, skipUpload)
		},
	}

	cmd.Flags().StringVar(&workspaceDir, "workspace", ".", "workspace directory")
	cmd.Flags().BoolVar(&skipUpload, "skip-upload", false, "only link payments, do not upload documents")

	return cmd
}

func runUpload(cmd *cobra.Command, ws *workspace, skipUpload bool) error {
	if ws.cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is not configured")
	}
	key, err := ws.cfg.APIKey()
	if err != nil {
		return err
	}
	client := api.NewClient(ws.cfg.API.BaseURL, key, ws.log)
	ctx := cmd.Context()

	if !skipUpload {
		if err := uploadDocuments(ctx, ws, client); err != nil {
			return err
		}
	}

	applied, unmatched, err := linkPayments(ctx, ws, client)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Linked %d payments; %d left unmatched\n", applied, unmatched)
	ws.finishRun("upload", fmt.Sprintf("%d payments linked", applied))
	return nil
}

// uploadDocuments pushes every document in the local store to the API,
// along with the fields extraction found, so the server does not have
// to re-derive them.
func uploadDocuments(ctx context.Context, ws *workspace, client *api.Client) error {
	store, err := invoices.Load(ws.dir)
	if err != nil {
		return err
	}

	for _, rec := range store.All() {
		path, ok := findDocument(ws.dir, rec.SourceID)
		if !ok {
			ws.log.Warn().Str("source", rec.SourceID).Msg("document missing, skipping upload")
			continue
		}
		if _, err := client.UploadInvoice(ctx, path, rec); err != nil {
			return err
		}
	}
	return nil
}

// findDocument locates a document by name in invoices/ or invoices/processed/.
func findDocument(workspace, name string) (string, bool) {
	for _, dir := range []string{"invoices", filepath.Join("invoices", "processed")} {
		path := filepath.Join(workspace, dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// linkPayments runs the matcher over the server's own invoice and
// payment lists, then applies each match via attach-invoice.
func linkPayments(ctx context.Context, ws *workspace, client *api.Client) (applied, unmatched int, err error) {
	remoteInvoices, err := client.ListInvoices(ctx)
	if err != nil {
		return 0, 0, err
	}
	remotePayments, err := client.ListPayments(ctx)
	if err != nil {
		return 0, 0, err
	}

	invoiceIDs := make(map[string]string)
	var invoiceRecs []model.InvoiceRecord
	for _, inv := range remoteInvoices {
		rec, err := inv.ToInvoiceRecord()
		if err != nil {
			return 0, 0, err
		}
		if rec.InvoiceNumber != nil {
			invoiceIDs[*rec.InvoiceNumber] = inv.ID
		}
		invoiceRecs = append(invoiceRecs, rec)
	}

	var payments []model.PaymentRecord
	var paymentIDs []string
	for _, p := range remotePayments {
		if p.InvoiceID != nil {
			continue // already linked
		}
		rec, err := p.ToPaymentRecord()
		if err != nil {
			return 0, 0, err
		}
		payments = append(payments, rec)
		paymentIDs = append(paymentIDs, p.ID)
	}

	rep := match.Match(payments, invoiceRecs)

	// Matches and unmatched both preserve payment-processing order, so
	// one forward walk recovers which payment ID each match belongs to.
	mi := 0
	for i, p := range payments {
		if mi >= len(rep.Matches) {
			break
		}
		m := rep.Matches[mi]
		if !m.Payment.Date.Equal(p.Date) || !m.Payment.Amount.Equal(p.Amount) {
			continue
		}
		if err := client.AttachInvoice(ctx, paymentIDs[i], invoiceIDs[m.InvoiceNumber]); err != nil {
			return applied, len(rep.Unmatched), err
		}
		ws.log.Info().
			Str("payment", paymentIDs[i]).
			Str("invoice", m.InvoiceNumber).
			Int("date_diff_days", m.DateDiffDays).
			Msg("payment linked")
		applied++
		mi++
	}

	return applied, len(rep.Unmatched), nil
}
