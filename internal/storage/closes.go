package storage

import (
	"context"
	"fmt"
	"log/slog"

	"caja/internal/core"
)

// CreateMonthlyClose persists a close snapshot. With replace set, any
// prior closes for the same (user, year, month) are removed in the
// same transaction; otherwise the new snapshot is appended alongside
// them. Snapshots are never updated in place.
func (r *SQLiteRepository) CreateMonthlyClose(ctx context.Context, mc core.MonthlyClose, replace bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create close: %w", err)
	}
	defer tx.Rollback()

	if replace {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM monthly_closes WHERE user_id = ? AND year = ? AND month = ?`,
			mc.UserID, mc.Year, mc.Month); err != nil {
			return fmt.Errorf("delete prior closes: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO monthly_closes (id, user_id, year, month, total_sales_cents,
		                             total_payments_cents, total_expenses_cents,
		                             net_balance_cents, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mc.ID, mc.UserID, mc.Year, mc.Month, mc.TotalSales.Cents,
		mc.TotalPayments.Cents, mc.TotalExpenses.Cents, mc.NetBalance.Cents,
		toMillis(mc.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert close: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create close: %w", err)
	}

	slog.InfoContext(ctx, "Monthly close persisted",
		"id", mc.ID,
		"year", mc.Year,
		"month", mc.Month,
		"replace", replace,
		"net_balance_cents", mc.NetBalance.Cents)
	return nil
}

// ListMonthlyCloses returns the user's closes newest month first.
func (r *SQLiteRepository) ListMonthlyCloses(ctx context.Context, userID string) ([]core.MonthlyClose, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, year, month, total_sales_cents, total_payments_cents,
		        total_expenses_cents, net_balance_cents, created_at
		 FROM monthly_closes WHERE user_id = ?
		 ORDER BY year DESC, month DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list closes: %w", err)
	}
	defer rows.Close()

	closes := []core.MonthlyClose{}
	for rows.Next() {
		var mc core.MonthlyClose
		var created int64
		if err := rows.Scan(&mc.ID, &mc.UserID, &mc.Year, &mc.Month, &mc.TotalSales.Cents,
			&mc.TotalPayments.Cents, &mc.TotalExpenses.Cents, &mc.NetBalance.Cents, &created); err != nil {
			return nil, fmt.Errorf("scan close: %w", err)
		}
		mc.CreatedAt = fromMillis(created)
		closes = append(closes, mc)
	}
	return closes, rows.Err()
}
