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

// PaymentInput is one installment as the caller describes it.
type PaymentInput struct {
	Amount core.Money
	Method core.Method
}

// InvoiceService orchestrates invoice writes across storage and the
// export queue.
type InvoiceService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewInvoiceService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *InvoiceService {
	return &InvoiceService{storage: storage, amqpClient: amqpClient}
}

// Create persists a new invoice. A missing total is computed from the
// items. When initial is non-nil the invoice starts with that amount
// already collected: the payment history entry and the ledger movement
// commit in the same transaction as the invoice.
func (s *InvoiceService) Create(ctx context.Context, inv core.Invoice, initial *PaymentInput) (core.Invoice, error) {
	inv.ID = uuid.NewString()
	inv.Client = strings.TrimSpace(inv.Client)
	inv.AmountPaid = core.Money{}
	inv.PaymentHistory = nil
	inv.CreatedAt = time.Now().UTC()
	if inv.Date.IsZero() {
		inv.Date = inv.CreatedAt
	}

	if inv.Total.IsZero() {
		inv.Total = inv.ItemsTotal()
	}
	if err := inv.Validate(); err != nil {
		return core.Invoice{}, err
	}

	var movement *core.Movement
	if initial != nil {
		if err := initial.Amount.Validate(); err != nil {
			return core.Invoice{}, err
		}
		if _, err := core.ParseMethod(string(initial.Method)); err != nil {
			return core.Invoice{}, err
		}

		p := core.Payment{
			ID:        uuid.NewString(),
			InvoiceID: inv.ID,
			Amount:    initial.Amount,
			Method:    initial.Method,
			PaidAt:    inv.CreatedAt,
		}
		inv.AmountPaid = initial.Amount
		inv.PaymentHistory = []core.Payment{p}
		m := s.movementForPayment(inv, p)
		movement = &m
	}

	if err := s.storage.CreateInvoice(ctx, inv, movement); err != nil {
		return core.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}

	if movement != nil {
		publishExport(ctx, s.amqpClient, movement.ID)
	}
	return s.storage.GetInvoice(ctx, inv.UserID, inv.ID)
}

func (s *InvoiceService) Get(ctx context.Context, userID, id string) (core.Invoice, error) {
	return s.storage.GetInvoice(ctx, userID, id)
}

func (s *InvoiceService) List(ctx context.Context, userID string, f storage.InvoiceFilter) ([]core.Invoice, error) {
	return s.storage.ListInvoices(ctx, userID, f)
}

// RecordPayment applies one installment. The paid-amount increment,
// history entry and ledger movement are a single transaction in
// storage.
func (s *InvoiceService) RecordPayment(ctx context.Context, userID, invoiceID string, in PaymentInput) (core.Invoice, error) {
	if err := in.Amount.Validate(); err != nil {
		return core.Invoice{}, err
	}
	if _, err := core.ParseMethod(string(in.Method)); err != nil {
		return core.Invoice{}, err
	}

	inv, err := s.storage.GetInvoice(ctx, userID, invoiceID)
	if err != nil {
		return core.Invoice{}, err
	}

	p := core.Payment{
		ID:        uuid.NewString(),
		InvoiceID: invoiceID,
		Amount:    in.Amount,
		Method:    in.Method,
		PaidAt:    time.Now().UTC(),
	}
	m := s.movementForPayment(inv, p)

	updated, err := s.storage.AddPayment(ctx, userID, p, m)
	if err != nil {
		return core.Invoice{}, err
	}

	publishExport(ctx, s.amqpClient, m.ID)
	return updated, nil
}

// ReplaceItems swaps the line items and recomputes the total from
// them. Payments and history are never touched; a fully paid invoice
// can drop back to partially paid if the new total is higher.
func (s *InvoiceService) ReplaceItems(ctx context.Context, userID, invoiceID string, items []core.InvoiceItem) (core.Invoice, error) {
	if len(items) == 0 {
		return core.Invoice{}, core.ErrNoItems
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return core.Invoice{}, err
		}
	}

	var total core.Money
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}

	return s.storage.ReplaceItems(ctx, userID, invoiceID, items, total)
}

func (s *InvoiceService) movementForPayment(inv core.Invoice, p core.Payment) core.Movement {
	return core.Movement{
		ID:          uuid.NewString(),
		UserID:      inv.UserID,
		Kind:        core.KindPayment,
		Amount:      p.Amount,
		Method:      p.Method,
		Description: fmt.Sprintf("installment from %s", inv.Client),
		InvoiceID:   inv.ID,
		Client:      inv.Client,
		Date:        p.PaidAt,
		CreatedAt:   time.Now().UTC(),
	}
}
