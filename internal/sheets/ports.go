package sheets

import (
	"context"

	"caja/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerAppender copies one movement as a row to the external
	// ledger backup.
	LedgerAppender interface {
		AppendMovement(ctx context.Context, m core.Movement) (rowRef string, err error)
	}
)
