package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"caja/internal/core"
)

func insertMovementTx(ctx context.Context, tx *sql.Tx, m core.Movement) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO movements (id, user_id, kind, amount_cents, method, description,
		                        invoice_id, expense_id, client, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, string(m.Kind), m.Amount.Cents, string(m.Method), m.Description,
		nullable(m.InvoiceID), nullable(m.ExpenseID), nullable(m.Client),
		toMillis(m.Date), toMillis(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateMovement inserts a standalone movement, one not born from an
// invoice payment or expense write.
func (r *SQLiteRepository) CreateMovement(ctx context.Context, m core.Movement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create movement: %w", err)
	}
	defer tx.Rollback()

	if err := insertMovementTx(ctx, tx, m); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create movement: %w", err)
	}

	slog.InfoContext(ctx, "Movement recorded",
		"id", m.ID,
		"kind", m.Kind,
		"method", m.Method,
		"amount_cents", m.Amount.Cents)
	return nil
}

func scanMovement(rows interface{ Scan(...any) error }) (core.Movement, error) {
	var m core.Movement
	var invoiceID, expenseID, client sql.NullString
	var date, created int64
	err := rows.Scan(&m.ID, &m.UserID, &m.Kind, &m.Amount.Cents, &m.Method, &m.Description,
		&invoiceID, &expenseID, &client, &date, &created)
	if err != nil {
		return core.Movement{}, err
	}
	m.InvoiceID = invoiceID.String
	m.ExpenseID = expenseID.String
	m.Client = client.String
	m.Date = fromMillis(date)
	m.CreatedAt = fromMillis(created)
	return m, nil
}

const movementColumns = `id, user_id, kind, amount_cents, method, description,
	invoice_id, expense_id, client, date, created_at`

func (r *SQLiteRepository) GetMovement(ctx context.Context, userID, id string) (core.Movement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movementColumns+` FROM movements WHERE id = ? AND user_id = ?`, id, userID)
	m, err := scanMovement(row)
	if err != nil {
		return core.Movement{}, fmt.Errorf("get movement: %w", notFound(err))
	}
	return m, nil
}

// GetMovementAnyOwner loads a movement by id alone. The export worker
// runs without a user scope.
func (r *SQLiteRepository) GetMovementAnyOwner(ctx context.Context, id string) (core.Movement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movementColumns+` FROM movements WHERE id = ?`, id)
	m, err := scanMovement(row)
	if err != nil {
		return core.Movement{}, fmt.Errorf("get movement: %w", notFound(err))
	}
	return m, nil
}

// ListMovementsBetween returns the user's movements with date inside
// the inclusive millis range, newest first.
func (r *SQLiteRepository) ListMovementsBetween(ctx context.Context, userID string, start, end int64) ([]core.Movement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movementColumns+` FROM movements
		 WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date DESC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	movements := []core.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// DeleteMovement removes a standalone movement. Movements born from an
// invoice payment or an expense are corrected through their source
// entity, not here.
func (r *SQLiteRepository) DeleteMovement(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM movements WHERE id = ? AND user_id = ? AND invoice_id IS NULL AND expense_id IS NULL`,
		id, userID)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Movement deleted", "id", id)
	return nil
}

// PendingExportMovement is the minimal row the export queue needs.
type PendingExportMovement struct {
	ID        string
	CreatedAt time.Time
}

// ListPendingExportMovements returns movements not yet copied to the
// ledger backup, oldest first.
func (r *SQLiteRepository) ListPendingExportMovements(ctx context.Context, limit int) ([]PendingExportMovement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM movements WHERE exported = 0 ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending export movements: %w", err)
	}
	defer rows.Close()

	pending := []PendingExportMovement{}
	for rows.Next() {
		var p PendingExportMovement
		var created int64
		if err := rows.Scan(&p.ID, &created); err != nil {
			return nil, fmt.Errorf("scan pending movement: %w", err)
		}
		p.CreatedAt = fromMillis(created)
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkMovementExported marks a movement as successfully copied to the
// ledger backup.
func (r *SQLiteRepository) MarkMovementExported(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE movements SET exported = 1, export_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark movement exported: %w", err)
	}
	slog.InfoContext(ctx, "Movement marked as exported", "id", id)
	return nil
}

// MarkMovementExportError flags a movement whose export failed so the
// periodic sweep retries it.
func (r *SQLiteRepository) MarkMovementExportError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE movements SET export_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark movement export error: %w", err)
	}
	slog.WarnContext(ctx, "Movement marked with export error", "id", id)
	return nil
}
