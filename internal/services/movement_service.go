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

// MovementService records standalone cash-flow events and produces the
// kind-by-method reconciliation grids.
type MovementService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	offset     time.Duration
}

func NewMovementService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, offset time.Duration) *MovementService {
	return &MovementService{storage: storage, amqpClient: amqpClient, offset: offset}
}

// Record persists a standalone movement, one not tied to an invoice or
// expense.
func (s *MovementService) Record(ctx context.Context, m core.Movement) (core.Movement, error) {
	m.ID = uuid.NewString()
	m.Description = strings.TrimSpace(m.Description)
	m.InvoiceID = ""
	m.ExpenseID = ""
	m.CreatedAt = time.Now().UTC()
	if m.Date.IsZero() {
		m.Date = m.CreatedAt
	}
	if err := m.Validate(); err != nil {
		return core.Movement{}, err
	}

	if err := s.storage.CreateMovement(ctx, m); err != nil {
		return core.Movement{}, fmt.Errorf("record movement: %w", err)
	}

	publishExport(ctx, s.amqpClient, m.ID)
	return m, nil
}

// ListDay returns the movements of one local day, newest first.
func (s *MovementService) ListDay(ctx context.Context, userID string, d core.Date) ([]core.Movement, error) {
	start, end := core.DayBounds(d, s.offset)
	return s.storage.ListMovementsBetween(ctx, userID, start.UnixMilli(), end.UnixMilli())
}

// Delete removes a standalone movement. Movements linked to invoices
// or expenses are not deletable here.
func (s *MovementService) Delete(ctx context.Context, userID, id string) error {
	return s.storage.DeleteMovement(ctx, userID, id)
}

// DaySummary builds the kind-by-method grid for one local day.
func (s *MovementService) DaySummary(ctx context.Context, userID string, d core.Date) (core.MovementSummary, error) {
	movements, err := s.ListDay(ctx, userID, d)
	if err != nil {
		return core.MovementSummary{}, err
	}
	return core.SummarizeMovements(d.Key(), movements), nil
}

// RangeSummary builds the per-day grids plus totals for an inclusive
// day range.
func (s *MovementService) RangeSummary(ctx context.Context, userID string, from, to core.Date) (core.MovementRangeSummary, error) {
	if from.After(to.Time) {
		return core.MovementRangeSummary{}, core.ErrInvalidDate
	}
	start, _ := core.DayBounds(from, s.offset)
	_, end := core.DayBounds(to, s.offset)
	movements, err := s.storage.ListMovementsBetween(ctx, userID, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return core.MovementRangeSummary{}, err
	}
	return core.BuildMovementRangeSummary(from, to, movements, s.offset), nil
}
