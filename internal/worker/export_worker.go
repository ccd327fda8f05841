// Package worker copies ledger movements from SQLite to the Google
// Sheets backup, driven by AMQP messages with a periodic sweep as the
// safety net.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"caja/internal/amqp"
	"caja/internal/sheets"
	"caja/internal/storage"
)

type ExportWorker struct {
	storage   *storage.SQLiteRepository
	ledger    sheets.LedgerAppender
	batchSize int
}

func NewExportWorker(storage *storage.SQLiteRepository, ledger sheets.LedgerAppender, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single movement export message from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.MovementExportMessage) error {
	slog.InfoContext(ctx, "Processing export message", "id", msg.ID)

	if err := w.exportMovement(ctx, msg.ID); err != nil {
		return fmt.Errorf("export movement: %w", err)
	}
	return nil
}

// ProcessPending exports movements that never made it through the
// queue. This is the backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.ListPendingExportMovements(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending movements: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending movements", "count", len(pending))

	for _, p := range pending {
		if err := w.exportMovement(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export movement", "id", p.ID, "error", err)
			continue
		}
	}
	return nil
}

// StartupCheck drains a larger pending batch once at worker startup to
// recover from downtime.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.storage.ListPendingExportMovements(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending movements for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending movements found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending movements on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, p := range pending {
		if err := w.exportMovement(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export movement during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)
	return nil
}

func (w *ExportWorker) exportMovement(ctx context.Context, id string) error {
	m, err := w.storage.GetMovementAnyOwner(ctx, id)
	if err != nil {
		if markErr := w.storage.MarkMovementExportError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", id, "error", markErr)
		}
		return fmt.Errorf("get movement from storage: %w", err)
	}

	ref, err := w.ledger.AppendMovement(ctx, m)
	if err != nil {
		if markErr := w.storage.MarkMovementExportError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkMovementExported(ctx, id); err != nil {
		// The export itself worked; log and move on.
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Movement exported",
		"id", id,
		"ledger_ref", ref,
		"amount_cents", m.Amount.Cents)
	return nil
}
