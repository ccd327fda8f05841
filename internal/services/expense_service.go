package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"caja/internal/amqp"
	"caja/internal/core"
	"caja/internal/storage"

	"github.com/google/uuid"
)

// ExpenseService orchestrates expense writes. Every expense projects
// into a ledger movement committed in the same transaction.
type ExpenseService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	offset     time.Duration
}

func NewExpenseService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, offset time.Duration) *ExpenseService {
	return &ExpenseService{storage: storage, amqpClient: amqpClient, offset: offset}
}

func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = uuid.NewString()
	e.Description = strings.TrimSpace(e.Description)
	if strings.TrimSpace(e.Category) == "" {
		e.Category = core.DefaultExpenseCategory
	}
	e.CreatedAt = time.Now().UTC()
	if e.Date.IsZero() {
		e.Date = e.CreatedAt
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	m := core.Movement{
		ID:          uuid.NewString(),
		UserID:      e.UserID,
		Kind:        core.KindExpense,
		Amount:      e.Amount,
		Method:      e.Method,
		Description: e.Description,
		ExpenseID:   e.ID,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}

	if err := s.storage.CreateExpense(ctx, e, m); err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	publishExport(ctx, s.amqpClient, m.ID)
	return e, nil
}

func (s *ExpenseService) Get(ctx context.Context, userID, id string) (core.Expense, error) {
	return s.storage.GetExpense(ctx, userID, id)
}

// ListBetween returns the expenses of the inclusive local day range.
func (s *ExpenseService) ListBetween(ctx context.Context, userID string, from, to core.Date) ([]core.Expense, error) {
	start, _ := core.DayBounds(from, s.offset)
	_, end := core.DayBounds(to, s.offset)
	return s.storage.ListExpensesBetween(ctx, userID, start.UnixMilli(), end.UnixMilli())
}

// Update rewrites an expense; the linked movement follows in the same
// transaction.
func (s *ExpenseService) Update(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.Description = strings.TrimSpace(e.Description)
	if strings.TrimSpace(e.Category) == "" {
		e.Category = core.DefaultExpenseCategory
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.storage.UpdateExpense(ctx, e); err != nil {
		return core.Expense{}, err
	}
	return s.storage.GetExpense(ctx, e.UserID, e.ID)
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	return s.storage.DeleteExpense(ctx, userID, id)
}
