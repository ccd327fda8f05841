package services

import (
	"context"
	"fmt"
	"time"

	"caja/internal/core"
	"caja/internal/storage"

	"github.com/google/uuid"
)

// CloseService snapshots a month's aggregate into an immutable record.
type CloseService struct {
	storage *storage.SQLiteRepository
	reports *ReportService
}

func NewCloseService(storage *storage.SQLiteRepository, reports *ReportService) *CloseService {
	return &CloseService{storage: storage, reports: reports}
}

// CloseMonth computes the monthly aggregate and persists it. With
// replace set, prior closes for the same month are dropped in the same
// transaction; otherwise the snapshot is appended next to them.
func (s *CloseService) CloseMonth(ctx context.Context, userID string, year, month int, replace bool) (core.MonthlyClose, error) {
	summary, err := s.reports.Monthly(ctx, userID, year, month)
	if err != nil {
		return core.MonthlyClose{}, err
	}

	mc := core.MonthlyClose{
		ID:            uuid.NewString(),
		UserID:        userID,
		Year:          year,
		Month:         month,
		TotalSales:    summary.Sales,
		TotalPayments: summary.Collected,
		TotalExpenses: summary.Expenses,
		NetBalance:    summary.Collected.Sub(summary.Expenses),
		CreatedAt:     time.Now().UTC(),
	}
	if err := mc.Validate(); err != nil {
		return core.MonthlyClose{}, err
	}

	if err := s.storage.CreateMonthlyClose(ctx, mc, replace); err != nil {
		return core.MonthlyClose{}, fmt.Errorf("close month: %w", err)
	}
	return mc, nil
}

// Preview returns the same numbers a close would snapshot, without
// persisting anything.
func (s *CloseService) Preview(ctx context.Context, userID string, year, month int) (core.MonthSummary, error) {
	return s.reports.Monthly(ctx, userID, year, month)
}

func (s *CloseService) List(ctx context.Context, userID string) ([]core.MonthlyClose, error) {
	return s.storage.ListMonthlyCloses(ctx, userID)
}
