package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"caja/internal/core"
)

// InvoiceFilter narrows ListInvoices. Zero value means no filtering.
type InvoiceFilter struct {
	From        int64 // unix millis, inclusive; 0 means unbounded
	To          int64 // unix millis, inclusive; 0 means unbounded
	Client      string
	PendingOnly bool
}

// CreateInvoice inserts the invoice, its items and any initial payment
// history in one transaction. When movement is non-nil (the invoice
// was created with money already collected) the movement row joins the
// same transaction.
func (r *SQLiteRepository) CreateInvoice(ctx context.Context, inv core.Invoice, movement *core.Movement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create invoice: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (id, user_id, client, total_cents, paid_cents, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.UserID, inv.Client, inv.Total.Cents, inv.AmountPaid.Cents,
		toMillis(inv.Date), toMillis(inv.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	if err := insertItemsTx(ctx, tx, inv.ID, inv.Items); err != nil {
		return err
	}

	for _, p := range inv.PaymentHistory {
		if err := insertPaymentTx(ctx, tx, p); err != nil {
			return err
		}
	}

	if movement != nil {
		if err := insertMovementTx(ctx, tx, *movement); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create invoice: %w", err)
	}

	slog.InfoContext(ctx, "Invoice created",
		"id", inv.ID,
		"client", inv.Client,
		"total_cents", inv.Total.Cents,
		"paid_cents", inv.AmountPaid.Cents)
	return nil
}

func insertItemsTx(ctx context.Context, tx *sql.Tx, invoiceID string, items []core.InvoiceItem) error {
	for i, it := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_items (invoice_id, name, quantity, unit_price_cents, position)
			 VALUES (?, ?, ?, ?, ?)`,
			invoiceID, it.Name, it.Quantity, it.UnitPrice.Cents, i)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

func insertPaymentTx(ctx context.Context, tx *sql.Tx, p core.Payment) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO payments (id, invoice_id, amount_cents, method, paid_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.InvoiceID, p.Amount.Cents, string(p.Method), toMillis(p.PaidAt))
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetInvoice loads the invoice with items and payment history. A
// foreign-owned or missing id is core.ErrNotFound either way.
func (r *SQLiteRepository) GetInvoice(ctx context.Context, userID, id string) (core.Invoice, error) {
	var inv core.Invoice
	var date, created int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, client, total_cents, paid_cents, date, created_at
		 FROM invoices WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&inv.ID, &inv.UserID, &inv.Client, &inv.Total.Cents, &inv.AmountPaid.Cents, &date, &created)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("get invoice: %w", notFound(err))
	}
	inv.Date = fromMillis(date)
	inv.CreatedAt = fromMillis(created)

	if inv.Items, err = r.invoiceItems(ctx, id); err != nil {
		return core.Invoice{}, err
	}
	if inv.PaymentHistory, err = r.invoicePayments(ctx, id); err != nil {
		return core.Invoice{}, err
	}
	return inv, nil
}

func (r *SQLiteRepository) invoiceItems(ctx context.Context, invoiceID string) ([]core.InvoiceItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, quantity, unit_price_cents FROM invoice_items
		 WHERE invoice_id = ? ORDER BY position`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	items := []core.InvoiceItem{}
	for rows.Next() {
		var it core.InvoiceItem
		if err := rows.Scan(&it.Name, &it.Quantity, &it.UnitPrice.Cents); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) invoicePayments(ctx context.Context, invoiceID string) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, invoice_id, amount_cents, method, paid_at FROM payments
		 WHERE invoice_id = ? ORDER BY paid_at`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := []core.Payment{}
	for rows.Next() {
		var p core.Payment
		var paidAt int64
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount.Cents, &p.Method, &paidAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.PaidAt = fromMillis(paidAt)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ListInvoices returns the user's invoices matching the filter, newest
// first, without payment history (list views do not need it).
func (r *SQLiteRepository) ListInvoices(ctx context.Context, userID string, f InvoiceFilter) ([]core.Invoice, error) {
	query := `SELECT id, user_id, client, total_cents, paid_cents, date, created_at
	          FROM invoices WHERE user_id = ?`
	args := []any{userID}

	if f.From != 0 {
		query += ` AND date >= ?`
		args = append(args, f.From)
	}
	if f.To != 0 {
		query += ` AND date <= ?`
		args = append(args, f.To)
	}
	if f.Client != "" {
		query += ` AND client LIKE ?`
		args = append(args, "%"+f.Client+"%")
	}
	if f.PendingOnly {
		query += ` AND paid_cents < total_cents`
	}
	query += ` ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []core.Invoice{}
	for rows.Next() {
		var inv core.Invoice
		var date, created int64
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Client, &inv.Total.Cents, &inv.AmountPaid.Cents, &date, &created); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.Date = fromMillis(date)
		inv.CreatedAt = fromMillis(created)
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// AddPayment records an installment atomically: the paid amount
// increment, the history row and the movement row commit together or
// not at all. The increment happens in SQL so concurrent payments
// cannot lose updates. Amounts past the total are accepted; the
// balance simply goes negative.
func (r *SQLiteRepository) AddPayment(ctx context.Context, userID string, p core.Payment, m core.Movement) (core.Invoice, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("begin add payment: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE invoices SET paid_cents = paid_cents + ?
		 WHERE id = ? AND user_id = ?`,
		p.Amount.Cents, p.InvoiceID, userID)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("apply payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Invoice{}, fmt.Errorf("apply payment: %w", err)
	}
	if n == 0 {
		return core.Invoice{}, core.ErrNotFound
	}

	if err := insertPaymentTx(ctx, tx, p); err != nil {
		return core.Invoice{}, err
	}
	if err := insertMovementTx(ctx, tx, m); err != nil {
		return core.Invoice{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Invoice{}, fmt.Errorf("commit add payment: %w", err)
	}

	slog.InfoContext(ctx, "Payment recorded",
		"invoice_id", p.InvoiceID,
		"amount_cents", p.Amount.Cents,
		"method", p.Method)

	return r.GetInvoice(ctx, userID, p.InvoiceID)
}

// ReplaceItems swaps the invoice's line items and updates the total.
// The paid amount and payment history are untouched.
func (r *SQLiteRepository) ReplaceItems(ctx context.Context, userID, invoiceID string, items []core.InvoiceItem, newTotal core.Money) (core.Invoice, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("begin replace items: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE invoices SET total_cents = ? WHERE id = ? AND user_id = ?`,
		newTotal.Cents, invoiceID, userID)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("update invoice total: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Invoice{}, fmt.Errorf("update invoice total: %w", err)
	}
	if n == 0 {
		return core.Invoice{}, core.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, invoiceID); err != nil {
		return core.Invoice{}, fmt.Errorf("clear invoice items: %w", err)
	}
	if err := insertItemsTx(ctx, tx, invoiceID, items); err != nil {
		return core.Invoice{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Invoice{}, fmt.Errorf("commit replace items: %w", err)
	}

	return r.GetInvoice(ctx, userID, invoiceID)
}

// ListInvoicesBetween returns the user's invoices with date inside the
// inclusive millis range, for the aggregation queries.
func (r *SQLiteRepository) ListInvoicesBetween(ctx context.Context, userID string, start, end int64) ([]core.Invoice, error) {
	return r.ListInvoices(ctx, userID, InvoiceFilter{From: start, To: end})
}
