package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newBatchesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "Inspect and undo statement imports",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List import batches, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := opts.accountID()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			batches, err := a.imports.ListImportBatches(a.context(cmd.Context()), accountID)
			if err != nil {
				return err
			}
			for _, b := range batches {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\n",
					b.ID, b.ImportedAt.Format(time.RFC3339), b.FileName, b.TransactionCount)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <batch-id>",
		Short: "Delete an import batch and every transaction it created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := opts.accountID()
			if err != nil {
				return err
			}
			batchID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid batch id %q", args[0])
			}
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			deleted, err := a.imports.DeleteImportBatch(a.context(cmd.Context()), accountID, batchID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted batch %s and %d transactions\n", batchID, deleted)
			return nil
		},
	}

	cmd.AddCommand(list, del)
	return cmd
}
