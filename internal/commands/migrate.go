package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the ledger schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Schema ready (%s)\n", a.db.Dialect)
			return nil
		},
	}
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default category chart for an account",
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

			created, err := a.seeder.Seed(a.context(cmd.Context()), accountID)
			if err != nil {
				return fmt.Errorf("seeding categories: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d categories\n", created)
			return nil
		},
	}
}

func newBankAccountsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank-accounts",
		Short: "Manage bank accounts",
	}

	var institution string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a bank account",
		Args:  cobra.ExactArgs(1),
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

			bank, err := a.ledger.CreateBankAccount(a.context(cmd.Context()), accountID, args[0], institution)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bank.ID)
			return nil
		},
	}
	create.Flags().StringVar(&institution, "institution", "", "bank name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List bank accounts",
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

			banks, err := a.ledger.ListBankAccounts(a.context(cmd.Context()), accountID)
			if err != nil {
				return err
			}
			for _, b := range banks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", b.ID, b.Name, b.Institution)
			}
			return nil
		},
	}

	cmd.AddCommand(create, list)
	return cmd
}
