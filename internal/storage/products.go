package storage

import (
	"context"
	"fmt"
	"log/slog"

	"caja/internal/core"
)

// CreateProduct inserts a catalog entry. A name already in the user's
// catalog maps to core.ErrNameTaken; the comparison is
// case-insensitive via the column collation.
func (r *SQLiteRepository) CreateProduct(ctx context.Context, p core.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, user_id, name, unit_price_cents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, p.UnitPrice.Cents, toMillis(p.CreatedAt), toMillis(p.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrNameTaken
		}
		return fmt.Errorf("create product: %w", err)
	}

	slog.InfoContext(ctx, "Product created", "id", p.ID, "name", p.Name)
	return nil
}

func (r *SQLiteRepository) GetProduct(ctx context.Context, userID, id string) (core.Product, error) {
	var p core.Product
	var created, updated int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, unit_price_cents, created_at, updated_at
		 FROM products WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&p.ID, &p.UserID, &p.Name, &p.UnitPrice.Cents, &created, &updated)
	if err != nil {
		return core.Product{}, fmt.Errorf("get product: %w", notFound(err))
	}
	p.CreatedAt = fromMillis(created)
	p.UpdatedAt = fromMillis(updated)
	return p, nil
}

// ListProducts returns the user's catalog sorted by name. A non-empty
// name narrows to case-insensitive substring matches.
func (r *SQLiteRepository) ListProducts(ctx context.Context, userID, name string) ([]core.Product, error) {
	query := `SELECT id, user_id, name, unit_price_cents, created_at, updated_at
	          FROM products WHERE user_id = ?`
	args := []any{userID}
	if name != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+name+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []core.Product{}
	for rows.Next() {
		var p core.Product
		var created, updated int64
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.UnitPrice.Cents, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.CreatedAt = fromMillis(created)
		p.UpdatedAt = fromMillis(updated)
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct rewrites name and price. Renaming onto another entry
// in the catalog maps to core.ErrNameTaken.
func (r *SQLiteRepository) UpdateProduct(ctx context.Context, p core.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, unit_price_cents = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		p.Name, p.UnitPrice.Cents, toMillis(p.UpdatedAt), p.ID, p.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrNameTaken
		}
		return fmt.Errorf("update product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteProduct(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Product deleted", "id", id)
	return nil
}
