package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/simaogato/bookkeeper-backend/internal/adapter/warehouse"
	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/logger"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy ledger data to external systems",
	}

	var from, to string
	bq := &cobra.Command{
		Use:   "bigquery",
		Short: "Stream transactions in a date range into the warehouse table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := opts.accountID()
			if err != nil {
				return err
			}
			r, err := parseRange(from, to)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := a.context(cmd.Context())

			txs, err := a.ledger.ListTransactions(ctx, accountID, domain.TransactionFilter{From: r.From, To: r.To})
			if err != nil {
				return err
			}
			cats, err := a.ledger.ListCategories(ctx, accountID)
			if err != nil {
				return err
			}
			names := make(map[uuid.UUID]string, len(cats))
			for _, c := range cats {
				names[c.ID] = c.Name
			}

			wh := a.cfg.Warehouse
			exporter, err := warehouse.NewExporter(ctx, wh.Project, wh.Dataset, wh.Table)
			if err != nil {
				return err
			}
			defer exporter.Close()

			rows := warehouse.RowsFromTransactions(txs, names, time.Now())
			n, err := exporter.Export(ctx, rows)
			if err != nil {
				return err
			}
			log := logger.FromContext(ctx)
			log.Info().
				Str("dataset", wh.Dataset).
				Str("table", wh.Table).
				Int("rows", n).
				Msg("Exported transactions")
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s.%s.%s\n", n, wh.Project, wh.Dataset, wh.Table)
			return nil
		},
	}
	bq.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD (required)")
	bq.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD (required)")

	cmd.AddCommand(bq)
	return cmd
}
