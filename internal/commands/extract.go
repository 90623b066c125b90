package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/settled-dev/settled/internal/docs"
	"github.com/settled-dev/settled/internal/extract"
	"github.com/settled-dev/settled/internal/invoices"
	"github.com/settled-dev/settled/internal/model"
	"github.com/settled-dev/settled/internal/report"
	"github.com/settled-dev/settled/internal/vision"
)

func newExtractCommand() *cobra.Command {
	var workspaceDir string
	var keep bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract invoice fields from documents in invoices/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(workspaceDir)
			if err != nil {
				return err
			}
			return runExtract(cmd, ws, keep)
		},
	}

	cmd.Flags().StringVar(&workspaceDir, "workspace", ".", "workspace directory")
	cmd.Flags().BoolVar(&keep, "keep", false, "leave documents in invoices/ instead of moving them to processed/")

	return cmd
}

func runExtract(cmd *cobra.Command, ws *workspace, keep bool) error {
	files, err := docs.Scan(ws.dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No documents to extract.")
		return nil
	}

	var ocr docs.OCRClient
	if key := ws.cfg.VisionKey(); key != "" {
		ocr = vision.NewClient("", key, ws.log)
	}
	source := docs.NewSource(ocr)

	extractor := extract.New(extract.Options{
		IssuerAliases:   ws.cfg.Business.IssuerAliases,
		CompanyKeywords: ws.cfg.Extractor.CompanyKeywords,
	})

	store, err := invoices.Load(ws.dir)
	if err != nil {
		return err
	}

	var extracted []model.InvoiceRecord
	for _, file := range files {
		text, err := source.Text(cmd.Context(), file)
		if err != nil {
			// Text acquisition failing is the degraded-mode case, not
			// a reason to abort the batch.
			ws.log.Warn().Err(err).Str("file", file.Name).Msg("text acquisition failed, using filename only")
			text = ""
		}

		rec := extractor.Extract(text, file.Name)
		extracted = append(extracted, rec)
		store.Add(rec)
		ws.log.Debug().Str("file", file.Name).Str("invoice", rec.Number()).Msg("extracted")

		if !keep {
			if err := docs.MarkProcessed(ws.dir, file.Name); err != nil {
				return err
			}
		}
	}

	if err := store.Save(ws.dir); err != nil {
		return err
	}

	report.WriteExtraction(cmd.OutOrStdout(), extracted)

	ws.finishRun("extract", fmt.Sprintf("%d documents", len(extracted)))
	return nil
}
