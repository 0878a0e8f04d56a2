package commands

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags
var Version = "dev"

type rootOptions struct {
	configPath string
	account    string
}

// NewRootCommand creates the root CLI command with all subcommands registered
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "bookkeeper",
		Short:   "Forecast lifecycle and bank statement reconciliation",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("BOOKKEEPER_CONFIG"), "path to bookkeeper.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.account, "account", os.Getenv("BOOKKEEPER_ACCOUNT"), "account (tenant) id")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newBankAccountsCommand(opts),
		newImportCommand(opts),
		newBatchesCommand(opts),
		newReportCommand(opts),
		newExportCommand(opts),
	)

	return rootCmd
}

// accountID parses the --account flag
func (o *rootOptions) accountID() (uuid.UUID, error) {
	if o.account == "" {
		return uuid.Nil, fmt.Errorf("--account is required (or set BOOKKEEPER_ACCOUNT)")
	}
	id, err := uuid.Parse(o.account)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid account id %q", o.account)
	}
	return id, nil
}
