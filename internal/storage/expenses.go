package storage

import (
	"context"
	"fmt"
	"log/slog"

	"caja/internal/core"
)

// CreateExpense inserts the expense and its ledger movement in one
// transaction.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense, m core.Movement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create expense: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, description, amount_cents, category, method, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Description, e.Amount.Cents, e.Category, string(e.Method),
		toMillis(e.Date), toMillis(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	if err := insertMovementTx(ctx, tx, m); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense created",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, userID, id string) (core.Expense, error) {
	var e core.Expense
	var date, created int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, description, amount_cents, category, method, date, created_at
		 FROM expenses WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&e.ID, &e.UserID, &e.Description, &e.Amount.Cents, &e.Category, &e.Method, &date, &created)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", notFound(err))
	}
	e.Date = fromMillis(date)
	e.CreatedAt = fromMillis(created)
	return e, nil
}

// ListExpensesBetween returns the user's expenses with date inside the
// inclusive millis range, newest first.
func (r *SQLiteRepository) ListExpensesBetween(ctx context.Context, userID string, start, end int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, description, amount_cents, category, method, date, created_at
		 FROM expenses WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date DESC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		var date, created int64
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Amount.Cents, &e.Category, &e.Method, &date, &created); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Date = fromMillis(date)
		e.CreatedAt = fromMillis(created)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateExpense rewrites the mutable fields and keeps the linked
// movement in step inside the same transaction.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update expense: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount_cents = ?, category = ?, method = ?, date = ?
		 WHERE id = ? AND user_id = ?`,
		e.Description, e.Amount.Cents, e.Category, string(e.Method), toMillis(e.Date),
		e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE movements SET description = ?, amount_cents = ?, method = ?, date = ?, exported = 0
		 WHERE expense_id = ? AND user_id = ?`,
		e.Description, e.Amount.Cents, string(e.Method), toMillis(e.Date),
		e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("update expense movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update expense: %w", err)
	}
	return nil
}

// DeleteExpense removes the expense and its linked movement together.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete expense: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM movements WHERE expense_id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete expense movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}
