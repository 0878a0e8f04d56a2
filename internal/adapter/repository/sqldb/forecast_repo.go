package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

const forecastColumns = `id, account_id, date, description, value, kind, category_id, bank_account_id, realized, installment_current, installment_total, group_id`

// forecastRepository implements domain.ForecastRepository
type forecastRepository struct {
	c conn
}

// Create inserts a new forecast
func (r forecastRepository) Create(ctx context.Context, f *domain.Forecast) error {
	query := `
		INSERT INTO forecasts (` + forecastColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.c.exec(ctx, query,
		f.ID,
		f.AccountID,
		f.Date.String(),
		f.Description,
		f.Value.String(),
		string(f.Kind),
		nullableUUID(f.CategoryID),
		f.BankAccountID,
		f.Realized,
		nullableInt(f.InstallmentCurrent),
		nullableInt(f.InstallmentTotal),
		nullableUUID(f.GroupID),
	)
	if err != nil {
		return fmt.Errorf("failed to create forecast: %w", err)
	}

	return nil
}

// GetByID retrieves a forecast owned by the account
func (r forecastRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.Forecast, error) {
	query := `SELECT ` + forecastColumns + ` FROM forecasts WHERE id = ? AND account_id = ?`

	f, err := scanForecast(r.c.queryRow(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("forecast %s", id)
		}
		return nil, fmt.Errorf("failed to get forecast by ID: %w", err)
	}
	return f, nil
}

// MarkRealized flips realized with a conditional update so only one caller wins
func (r forecastRepository) MarkRealized(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	res, err := r.c.exec(ctx,
		`UPDATE forecasts SET realized = ? WHERE id = ? AND account_id = ? AND realized = ?`,
		true, id, accountID, false,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark forecast realized: %w", err)
	}

	n, err := affected(res)
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}

	// Nothing changed: either already realized or absent
	if _, err := r.GetByID(ctx, accountID, id); err != nil {
		return false, err
	}
	return false, nil
}

// Delete removes one forecast owned by the account
func (r forecastRepository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	res, err := r.c.exec(ctx, `DELETE FROM forecasts WHERE id = ? AND account_id = ?`, id, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete forecast: %w", err)
	}

	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("forecast %s", id)
	}
	return nil
}

// DeleteGroup removes every member of a group, or those dated on or after from
func (r forecastRepository) DeleteGroup(ctx context.Context, accountID, groupID uuid.UUID, from *civil.Date) (int, error) {
	query := `DELETE FROM forecasts WHERE group_id = ? AND account_id = ?`
	args := []any{groupID.String(), accountID}
	if from != nil {
		query += ` AND date >= ?`
		args = append(args, from.String())
	}

	res, err := r.c.exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete forecast group: %w", err)
	}
	return affected(res)
}

// ListGroup returns the members of a group ordered by installment
func (r forecastRepository) ListGroup(ctx context.Context, accountID, groupID uuid.UUID) ([]*domain.Forecast, error) {
	query := `SELECT ` + forecastColumns + ` FROM forecasts
		WHERE group_id = ? AND account_id = ?
		ORDER BY installment_current`

	return r.list(ctx, query, groupID.String(), accountID)
}

// List returns matching forecasts ordered by date then id
func (r forecastRepository) List(ctx context.Context, accountID uuid.UUID, filter domain.ForecastFilter) ([]*domain.Forecast, error) {
	where := []string{"account_id = ?"}
	args := []any{accountID}

	if !domain.IsZeroDate(filter.From) {
		where = append(where, "date >= ?")
		args = append(args, filter.From.String())
	}
	if !domain.IsZeroDate(filter.To) {
		where = append(where, "date <= ?")
		args = append(args, filter.To.String())
	}
	if !filter.IncludeRealized {
		where = append(where, "realized = ?")
		args = append(args, false)
	}

	query := `SELECT ` + forecastColumns + ` FROM forecasts WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY date, id`

	return r.list(ctx, query, args...)
}

func (r forecastRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Forecast, error) {
	rows, err := r.c.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list forecasts: %w", err)
	}
	defer rows.Close()

	forecasts := make([]*domain.Forecast, 0)
	for rows.Next() {
		f, err := scanForecast(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forecast: %w", err)
		}
		forecasts = append(forecasts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forecasts: %w", err)
	}

	return forecasts, nil
}

func scanForecast(row rowScanner) (*domain.Forecast, error) {
	var f domain.Forecast
	var dateStr, valueStr, kind string
	var categoryID, groupID sql.NullString
	var current, total sql.NullInt64

	err := row.Scan(
		&f.ID,
		&f.AccountID,
		&dateStr,
		&f.Description,
		&valueStr,
		&kind,
		&categoryID,
		&f.BankAccountID,
		&f.Realized,
		&current,
		&total,
		&groupID,
	)
	if err != nil {
		return nil, err
	}

	if f.Date, err = parseDate(dateStr); err != nil {
		return nil, err
	}
	if f.Value, err = parseDecimal(valueStr); err != nil {
		return nil, err
	}
	f.Kind = domain.MovementKind(kind)
	if f.CategoryID, err = scanUUID(categoryID); err != nil {
		return nil, err
	}
	if f.GroupID, err = scanUUID(groupID); err != nil {
		return nil, err
	}
	f.InstallmentCurrent = scanInt(current)
	f.InstallmentTotal = scanInt(total)

	return &f, nil
}
