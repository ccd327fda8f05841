// Package services orchestrates the ledger operations across storage,
// the export queue and document generation.
package services

import (
	"context"
	"log/slog"

	"caja/internal/amqp"
)

// publishExport enqueues a movement for the ledger backup. The queue
// is optional; with no client configured the movement stays pending
// and the worker's sweep picks it up if a worker ever runs.
func publishExport(ctx context.Context, client *amqp.Client, movementID string) {
	if client == nil {
		return
	}
	if err := client.PublishMovementExport(ctx, movementID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export message",
			"id", movementID, "error", err)
		// Don't fail the request, the write already committed.
	}
}
