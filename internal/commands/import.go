package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/importer"
	"github.com/simaogato/bookkeeper-backend/internal/logger"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/reconciliation"
)

type importOptions struct {
	bankAccount string
	format      string
	rulesFile   string
	onConflict  string
	dryRun      bool
}

// importSummary is printed after planning and, unless dry run, committing
type importSummary struct {
	File          string   `json:"file"`
	Lines         int      `json:"lines"`
	Classified    int      `json:"classified"`
	UnknownRules  []string `json:"unknown_categories,omitempty"`
	Clean         int      `json:"clean"`
	Conflicts     int      `json:"conflicts"`
	Resolution    string   `json:"resolution"`
	DryRun        bool     `json:"dry_run"`
	ImportBatchID string   `json:"import_batch_id,omitempty"`
	Inserted      int      `json:"inserted"`
	Replaced      int      `json:"replaced"`
	Kept          int      `json:"kept"`
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	iopts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import <statement-file>",
		Short: "Import a bank statement, reconciling it against the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, iopts, args[0])
		},
	}

	cmd.Flags().StringVar(&iopts.bankAccount, "bank-account", "", "bank account id the statement belongs to (required)")
	_ = cmd.MarkFlagRequired("bank-account")
	cmd.Flags().StringVar(&iopts.format, "format", "", "statement format (defaults to import.format)")
	cmd.Flags().StringVar(&iopts.rulesFile, "rules", "", "categorization rules YAML (defaults to import.rules_file)")
	cmd.Flags().StringVar(&iopts.onConflict, "on-conflict", "keep", "resolution for probable duplicates: keep or replace")
	cmd.Flags().BoolVar(&iopts.dryRun, "dry-run", false, "plan only, write nothing")

	return cmd
}

func runImport(cmd *cobra.Command, opts *rootOptions, iopts *importOptions, path string) error {
	accountID, err := opts.accountID()
	if err != nil {
		return err
	}
	bankAccountID, err := uuid.Parse(iopts.bankAccount)
	if err != nil {
		return fmt.Errorf("invalid bank account id %q", iopts.bankAccount)
	}
	resolution, err := reconciliation.ParseResolution(iopts.onConflict)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}

	a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := a.context(cmd.Context())

	format := iopts.format
	if format == "" {
		format = a.cfg.Import.Format
	}
	registry := importer.DefaultRegistry()
	parser := registry.Get(format)
	if parser == nil {
		return fmt.Errorf("unknown statement format %q (available: %v)", format, registry.Formats())
	}

	lines, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		return err
	}

	var rules []domain.CategoryRule
	rulesFile := iopts.rulesFile
	if rulesFile == "" {
		rulesFile = a.cfg.Import.RulesFile
	}
	if rulesFile != "" {
		if rules, err = importer.LoadRules(rulesFile); err != nil {
			return err
		}
	}
	categories, err := a.ledger.ListCategories(ctx, accountID)
	if err != nil {
		return err
	}
	assignment := importer.NewRuleClassifier(rules).Assign(bankAccountID, lines, categories)
	if len(assignment.Unknown) > 0 {
		log := logger.FromContext(ctx)
		log.Warn().Strs("categories", assignment.Unknown).Msg("rules name categories the account does not have")
	}

	plan, err := a.imports.PlanImport(ctx, accountID, bankAccountID, assignment.Candidates)
	if err != nil {
		return err
	}
	plan.ResolveAll(resolution)

	summary := importSummary{
		File:         filepath.Base(path),
		Lines:        len(lines),
		Classified:   assignment.Classified,
		UnknownRules: assignment.Unknown,
		Clean:        len(plan.Clean),
		Conflicts:    len(plan.Conflicts),
		Resolution:   string(resolution),
		DryRun:       iopts.dryRun,
	}
	if iopts.dryRun {
		return writeJSON(cmd.OutOrStdout(), summary)
	}

	result, err := a.imports.CommitImport(ctx, accountID, reconciliation.CommitInput{
		BankAccountID: bankAccountID,
		Clean:         plan.Clean,
		Conflicts:     plan.Conflicts,
		File:          reconciliation.FileMeta{Name: summary.File, Content: content},
	})
	if err != nil {
		return err
	}
	if result.ImportBatchID != nil {
		summary.ImportBatchID = result.ImportBatchID.String()
	}
	summary.Inserted = result.Inserted
	summary.Replaced = result.Replaced
	summary.Kept = result.Kept
	return writeJSON(cmd.OutOrStdout(), summary)
}
