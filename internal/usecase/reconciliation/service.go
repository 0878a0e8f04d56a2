package reconciliation

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/logger"
)

// Archive stores raw statement files next to the batch they produced
type Archive interface {
	// Put stores content under key and returns a URI identifying it
	Put(ctx context.Context, key string, content []byte) (string, error)

	// Delete removes a previously stored object by URI
	Delete(ctx context.Context, uri string) error
}

// FileMeta describes the statement file being committed
type FileMeta struct {
	Name    string
	Content []byte // Optional raw bytes, archived when an Archive is configured
}

// CommitInput is a resolved plan ready to be written
type CommitInput struct {
	BankAccountID uuid.UUID
	Clean         []Candidate
	Conflicts     []Conflict
	File          FileMeta
}

// CommitResult reports what a commit wrote
type CommitResult struct {
	ImportBatchID *uuid.UUID // nil when nothing was inserted
	Inserted      int
	Replaced      int
	Kept          int
}

// NothingToImport reports whether the commit was a no-op
func (r *CommitResult) NothingToImport() bool {
	return r.ImportBatchID == nil
}

// ImportService plans and commits bank statement imports
type ImportService struct {
	Store   domain.LedgerStore
	Clock   domain.Clock
	Archive Archive // Optional
}

// NewImportService creates a new ImportService instance
func NewImportService(store domain.LedgerStore, clock domain.Clock, archive Archive) *ImportService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &ImportService{
		Store:   store,
		Clock:   clock,
		Archive: archive,
	}
}

// PlanImport matches candidates against the bank account's existing transactions.
// It reads only; nothing is written until CommitImport.
func (s *ImportService) PlanImport(ctx context.Context, accountID, bankAccountID uuid.UUID, candidates []Candidate) (*Plan, error) {
	if _, err := s.Store.BankAccounts().GetByID(ctx, accountID, bankAccountID); err != nil {
		return nil, err
	}

	normalized := make([]Candidate, 0, len(candidates))
	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, domain.InvalidInputf("candidate %d: %v", i+1, err)
		}
		if c.BankAccountID != uuid.Nil && c.BankAccountID != bankAccountID {
			return nil, domain.InvalidInputf("candidate %d targets bank account %s, expected %s", i+1, c.BankAccountID, bankAccountID)
		}
		c.BankAccountID = bankAccountID
		normalized = append(normalized, c)
	}

	existing, err := s.Store.Transactions().List(ctx, accountID, domain.TransactionFilter{BankAccountID: &bankAccountID})
	if err != nil {
		return nil, err
	}

	plan := Match(normalized, existing)
	plan.BankAccountID = bankAccountID
	return &plan, nil
}

// CommitImport writes a resolved plan in one unit of work.
// Logic:
//  1. Clean candidates are always inserted
//  2. ReplaceWithNew conflicts delete the existing transaction and insert the candidate.
//     The existing transaction must be in the target bank account and still match.
//  3. KeepExisting conflicts write nothing
//  4. An import batch is created only when something is inserted, and every
//     inserted transaction references it
//
// When nothing would be inserted the commit is a no-op and the result
// reports NothingToImport.
func (s *ImportService) CommitImport(ctx context.Context, accountID uuid.UUID, input CommitInput) (*CommitResult, error) {
	if strings.TrimSpace(input.File.Name) == "" {
		return nil, domain.InvalidInputf("statement file name is required")
	}

	inserts := make([]Candidate, 0, len(input.Clean)+len(input.Conflicts))
	inserts = append(inserts, input.Clean...)

	var replaced []replacement
	seen := make(map[uuid.UUID]int, len(input.Conflicts))
	result := &CommitResult{}
	for i, c := range input.Conflicts {
		resolution, err := ParseResolution(string(c.Resolution))
		if err != nil {
			return nil, err
		}
		if c.Existing == nil {
			return nil, domain.InvalidInputf("conflict %d has no existing transaction", i+1)
		}
		if first, dup := seen[c.Existing.ID]; dup {
			return nil, domain.InvalidInputf("conflicts %d and %d name the same existing transaction %s", first, i+1, c.Existing.ID)
		}
		seen[c.Existing.ID] = i + 1
		if resolution == KeepExisting {
			result.Kept++
			continue
		}
		replaced = append(replaced, replacement{conflict: i + 1, existingID: c.Existing.ID, candidate: c.Candidate})
		inserts = append(inserts, c.Candidate)
	}

	if len(inserts) == 0 {
		return result, nil
	}

	batchID := uuid.New()
	transactions := make([]*domain.Transaction, 0, len(inserts))
	for i, c := range inserts {
		if c.BankAccountID != uuid.Nil && c.BankAccountID != input.BankAccountID {
			return nil, domain.InvalidInputf("record %d targets bank account %s, expected %s", i+1, c.BankAccountID, input.BankAccountID)
		}
		importID := batchID
		tx := &domain.Transaction{
			ID:            uuid.New(),
			AccountID:     accountID,
			Date:          c.Date,
			Description:   c.Description,
			Value:         c.Value,
			Kind:          c.Kind,
			CategoryID:    c.CategoryID,
			BankAccountID: input.BankAccountID,
			Reconciled:    true,
			ImportID:      &importID,
		}
		if err := tx.Validate(); err != nil {
			return nil, domain.InvalidInputf("record %d: %v", i+1, err)
		}
		transactions = append(transactions, tx)
	}

	batch := &domain.ImportBatch{
		ID:               batchID,
		AccountID:        accountID,
		FileName:         input.File.Name,
		ImportedAt:       s.Clock.Now().UTC(),
		BankAccountID:    input.BankAccountID,
		TransactionCount: len(transactions),
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}

	if s.Archive != nil && len(input.File.Content) > 0 {
		key := path.Join(accountID.String(), batchID.String(), path.Base(input.File.Name))
		uri, err := s.Archive.Put(ctx, key, input.File.Content)
		if err != nil {
			return nil, err
		}
		batch.SourceURI = uri
	}

	err := s.Store.Atomic(ctx, func(l domain.Ledger) error {
		if _, err := l.BankAccounts().GetByID(ctx, accountID, input.BankAccountID); err != nil {
			return err
		}
		if err := l.Imports().Create(ctx, batch); err != nil {
			return err
		}
		for _, r := range replaced {
			existing, err := l.Transactions().GetByID(ctx, accountID, r.existingID)
			if err != nil {
				return err
			}
			if existing.BankAccountID != input.BankAccountID {
				return domain.InvalidInputf("conflict %d: transaction %s belongs to another bank account", r.conflict, r.existingID)
			}
			if !r.candidate.matches(existing) {
				return domain.Conflictf("conflict %d: transaction %s no longer matches the statement record", r.conflict, r.existingID)
			}
			if err := l.Transactions().Delete(ctx, accountID, r.existingID); err != nil {
				return err
			}
		}
		for _, tx := range transactions {
			if err := l.Transactions().Create(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})

	log := logger.FromContext(ctx)
	if err != nil {
		if batch.SourceURI != "" {
			if delErr := s.Archive.Delete(ctx, batch.SourceURI); delErr != nil {
				log.Warn().Err(delErr).Str("uri", batch.SourceURI).Msg("failed to remove archived statement")
			}
		}
		return nil, err
	}

	result.ImportBatchID = &batchID
	result.Inserted = len(transactions)
	result.Replaced = len(replaced)

	log.Info().
		Str("account_id", accountID.String()).
		Str("import_batch_id", batchID.String()).
		Str("file", input.File.Name).
		Int("inserted", result.Inserted).
		Int("replaced", result.Replaced).
		Int("kept", result.Kept).
		Msg("statement imported")

	return result, nil
}

// replacement is a conflict resolved by replacing the existing transaction
type replacement struct {
	conflict   int // 1-based position in CommitInput.Conflicts
	existingID uuid.UUID
	candidate  Candidate
}

// DeleteImportBatch removes an import batch and every transaction it produced.
// Returns the number of transactions removed.
func (s *ImportService) DeleteImportBatch(ctx context.Context, accountID, batchID uuid.UUID) (int, error) {
	var batch *domain.ImportBatch
	deleted := 0
	err := s.Store.Atomic(ctx, func(l domain.Ledger) error {
		var err error
		batch, err = l.Imports().GetByID(ctx, accountID, batchID)
		if err != nil {
			return err
		}
		deleted, err = l.Transactions().DeleteByImport(ctx, accountID, batchID)
		if err != nil {
			return err
		}
		return l.Imports().Delete(ctx, accountID, batchID)
	})
	if err != nil {
		return 0, err
	}

	log := logger.FromContext(ctx)
	if s.Archive != nil && batch.SourceURI != "" {
		if err := s.Archive.Delete(ctx, batch.SourceURI); err != nil {
			log.Warn().Err(err).Str("uri", batch.SourceURI).Msg("failed to remove archived statement")
		}
	}

	log.Info().
		Str("account_id", accountID.String()).
		Str("import_batch_id", batchID.String()).
		Int("deleted", deleted).
		Msg("import batch deleted")

	return deleted, nil
}

// ListImportBatches returns the account's import batches, most recent first
func (s *ImportService) ListImportBatches(ctx context.Context, accountID uuid.UUID) ([]*domain.ImportBatch, error) {
	return s.Store.Imports().List(ctx, accountID)
}
