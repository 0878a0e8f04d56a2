package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

type reportRunner func(ctx context.Context, a *app, accountID uuid.UUID, r domain.DateRange) (any, error)

func newReportCommand(opts *rootOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print reports as JSON",
	}
	cmd.PersistentFlags().StringVar(&from, "from", "", "first day, YYYY-MM-DD (required)")
	cmd.PersistentFlags().StringVar(&to, "to", "", "last day, YYYY-MM-DD (required)")

	sub := func(use, short string, run reportRunner) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
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

				out, err := run(a.context(cmd.Context()), a, accountID, r)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), out)
			},
		}
	}

	cmd.AddCommand(
		sub("cashflow", "Cash flow with projected forecasts", func(ctx context.Context, a *app, id uuid.UUID, r domain.DateRange) (any, error) {
			return a.reports.GetCashFlow(ctx, id, r)
		}),
		sub("dre", "Income statement", func(ctx context.Context, a *app, id uuid.UUID, r domain.DateRange) (any, error) {
			return a.reports.GetIncomeStatement(ctx, id, r)
		}),
		sub("analysis", "Contribution margin and result ratios", func(ctx context.Context, a *app, id uuid.UUID, r domain.DateRange) (any, error) {
			return a.reports.GetAnalysis(ctx, id, r)
		}),
		sub("daily", "Income and expense per day", func(ctx context.Context, a *app, id uuid.UUID, r domain.DateRange) (any, error) {
			return a.reports.GetDailyFlow(ctx, id, r)
		}),
	)
	return cmd
}

func parseRange(from, to string) (domain.DateRange, error) {
	start, err := domain.ParseDate(from)
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := domain.ParseDate(to)
	if err != nil {
		return domain.DateRange{}, err
	}
	r := domain.DateRange{From: start, To: end}
	return r, r.Validate()
}
