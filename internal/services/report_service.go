package services

import (
	"context"
	"time"

	"caja/internal/core"
	"caja/internal/storage"
)

// ReportService computes the invoice-and-expense aggregates. All the
// arithmetic lives in core; this layer only resolves date ranges and
// fetches rows.
type ReportService struct {
	storage *storage.SQLiteRepository
	offset  time.Duration
}

func NewReportService(storage *storage.SQLiteRepository, offset time.Duration) *ReportService {
	return &ReportService{storage: storage, offset: offset}
}

func (s *ReportService) rows(ctx context.Context, userID string, start, end time.Time) ([]core.Invoice, []core.Expense, error) {
	invoices, err := s.storage.ListInvoicesBetween(ctx, userID, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, nil, err
	}
	expenses, err := s.storage.ListExpensesBetween(ctx, userID, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, nil, err
	}
	return invoices, expenses, nil
}

// Daily aggregates one local day.
func (s *ReportService) Daily(ctx context.Context, userID string, d core.Date) (core.DaySummary, error) {
	start, end := core.DayBounds(d, s.offset)
	invoices, expenses, err := s.rows(ctx, userID, start, end)
	if err != nil {
		return core.DaySummary{}, err
	}
	return core.SummarizeDay(d, invoices, expenses), nil
}

// Range aggregates an inclusive day range with a per-day breakdown.
func (s *ReportService) Range(ctx context.Context, userID string, from, to core.Date) (core.RangeSummary, error) {
	if from.After(to.Time) {
		return core.RangeSummary{}, core.ErrInvalidDate
	}
	start, _ := core.DayBounds(from, s.offset)
	_, end := core.DayBounds(to, s.offset)
	invoices, expenses, err := s.rows(ctx, userID, start, end)
	if err != nil {
		return core.RangeSummary{}, err
	}
	return core.BuildRangeSummary(from, to, invoices, expenses, s.offset), nil
}

// Monthly aggregates one local calendar month. It never persists
// anything and is safe to call repeatedly.
func (s *ReportService) Monthly(ctx context.Context, userID string, year, month int) (core.MonthSummary, error) {
	if !core.ValidMonth(month) {
		return core.MonthSummary{}, core.ErrInvalidMonth
	}
	start, end := core.MonthBounds(year, month, s.offset)
	invoices, expenses, err := s.rows(ctx, userID, start, end)
	if err != nil {
		return core.MonthSummary{}, err
	}
	return core.MonthSummary{
		Year:          year,
		Month:         month,
		SummaryTotals: core.Summarize(invoices, expenses),
	}, nil
}
