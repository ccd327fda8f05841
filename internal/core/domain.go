package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
	ErrInvalidYear        = errors.New("invalid year")
	ErrInvalidMethod      = errors.New("method must be cash or wallet")
	ErrInvalidKind        = errors.New("kind must be payment or expense")
	ErrEmptyDescription   = errors.New("description cannot be empty")
	ErrEmptyClient        = errors.New("client cannot be empty")
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrNoItems            = errors.New("invoice needs at least one item")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNameTaken          = errors.New("product name already in use")
)

// Method is the payment channel. The business handles physical cash
// and one mobile wallet; nothing else.
type Method string

const (
	MethodCash   Method = "cash"
	MethodWallet Method = "wallet"
)

func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodCash:
		return MethodCash, nil
	case MethodWallet:
		return MethodWallet, nil
	}
	return "", ErrInvalidMethod
}

// MovementKind distinguishes money coming in from money going out.
type MovementKind string

const (
	KindPayment MovementKind = "payment"
	KindExpense MovementKind = "expense"
)

func ParseMovementKind(s string) (MovementKind, error) {
	switch MovementKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPayment:
		return KindPayment, nil
	case KindExpense:
		return KindExpense, nil
	}
	return "", ErrInvalidKind
}

// InvoiceStatus is derived from total and amountPaid, never stored.
type InvoiceStatus string

const (
	StatusUnpaid        InvoiceStatus = "unpaid"
	StatusPartiallyPaid InvoiceStatus = "partially_paid"
	StatusPaid          InvoiceStatus = "paid"
)

// User is an account holder. Every ledger entity belongs to exactly
// one user.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// Company is the business profile attached to a user, one per user.
type Company struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Contact   string    `json:"contact,omitempty"`
	LogoPath  string    `json:"logoPath,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Product is a catalog entry used to price invoice lines. Names are
// unique per user, compared case-insensitively. Invoice items copy the
// name and price at sale time instead of referencing the catalog row,
// so later price changes never rewrite past invoices.
type Product struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	UnitPrice Money     `json:"unitPrice"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if err := p.UnitPrice.Validate(); err != nil {
		return err
	}
	return nil
}

// InvoiceItem is a line on an invoice.
type InvoiceItem struct {
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice Money  `json:"unitPrice"`
}

func (it InvoiceItem) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return ErrEmptyName
	}
	if it.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := it.UnitPrice.Validate(); err != nil {
		return err
	}
	return nil
}

// Subtotal returns quantity times unit price.
func (it InvoiceItem) Subtotal() Money {
	return Money{Cents: it.Quantity * it.UnitPrice.Cents}
}

// Payment is one installment recorded against an invoice. The history
// is append-only; corrections are new invoices, not edits.
type Payment struct {
	ID        string    `json:"id"`
	InvoiceID string    `json:"-"`
	Amount    Money     `json:"amount"`
	Method    Method    `json:"method"`
	PaidAt    time.Time `json:"paidAt"`
}

func (p Payment) Validate() error {
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if _, err := ParseMethod(string(p.Method)); err != nil {
		return err
	}
	return nil
}

// Invoice is a sale with installment payments. BalanceDue and Status
// are always recomputed from Total and AmountPaid.
type Invoice struct {
	ID             string        `json:"id"`
	UserID         string        `json:"-"`
	Client         string        `json:"client"`
	Items          []InvoiceItem `json:"items"`
	Total          Money         `json:"total"`
	AmountPaid     Money         `json:"amountPaid"`
	Date           time.Time     `json:"date"`
	PaymentHistory []Payment     `json:"paymentHistory"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// BalanceDue is negative when the client paid past the total.
func (inv Invoice) BalanceDue() Money {
	return inv.Total.Sub(inv.AmountPaid)
}

func (inv Invoice) Status() InvoiceStatus {
	switch {
	case inv.AmountPaid.Cents >= inv.Total.Cents:
		return StatusPaid
	case inv.AmountPaid.Cents > 0:
		return StatusPartiallyPaid
	}
	return StatusUnpaid
}

// ItemsTotal sums the line subtotals.
func (inv Invoice) ItemsTotal() Money {
	var t Money
	for _, it := range inv.Items {
		t = t.Add(it.Subtotal())
	}
	return t
}

func (inv Invoice) Validate() error {
	if strings.TrimSpace(inv.Client) == "" {
		return ErrEmptyClient
	}
	if inv.Total.Cents <= 0 {
		return ErrInvalidAmount
	}
	if inv.AmountPaid.IsNegative() {
		return ErrInvalidAmount
	}
	if inv.Date.IsZero() {
		return ErrInvalidDate
	}
	for _, it := range inv.Items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON adds the derived balanceDue and status fields.
func (inv Invoice) MarshalJSON() ([]byte, error) {
	type alias Invoice
	return json.Marshal(struct {
		alias
		BalanceDue Money         `json:"balanceDue"`
		Status     InvoiceStatus `json:"status"`
	}{
		alias:      alias(inv),
		BalanceDue: inv.BalanceDue(),
		Status:     inv.Status(),
	})
}

// DefaultExpenseCategory applies when the caller sends none.
const DefaultExpenseCategory = "General"

// Expense is a standalone business expense.
type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Description string    `json:"description"`
	Amount      Money     `json:"amount"`
	Category    string    `json:"category"`
	Method      Method    `json:"method"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if _, err := ParseMethod(string(e.Method)); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Movement is one cash-flow event, the unit the daily reconciliation
// runs on. Payments and expenses both project into movements.
type Movement struct {
	ID          string       `json:"id"`
	UserID      string       `json:"-"`
	Kind        MovementKind `json:"kind"`
	Amount      Money        `json:"amount"`
	Method      Method       `json:"method"`
	Description string       `json:"description"`
	InvoiceID   string       `json:"invoiceId,omitempty"`
	ExpenseID   string       `json:"expenseId,omitempty"`
	Client      string       `json:"client,omitempty"`
	Date        time.Time    `json:"date"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func (m Movement) Validate() error {
	if _, err := ParseMovementKind(string(m.Kind)); err != nil {
		return err
	}
	if err := m.Amount.Validate(); err != nil {
		return err
	}
	if _, err := ParseMethod(string(m.Method)); err != nil {
		return err
	}
	if strings.TrimSpace(m.Description) == "" {
		return ErrEmptyDescription
	}
	if m.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthlyClose is an immutable snapshot of a month's aggregate. Once
// written it is never updated; replacing means delete then insert.
type MonthlyClose struct {
	ID            string    `json:"id"`
	UserID        string    `json:"-"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	TotalSales    Money     `json:"totalSales"`
	TotalPayments Money     `json:"totalPayments"`
	TotalExpenses Money     `json:"totalExpenses"`
	NetBalance    Money     `json:"netBalance"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (mc MonthlyClose) Validate() error {
	if !ValidMonth(mc.Month) {
		return ErrInvalidMonth
	}
	if mc.Year < 2000 || mc.Year > 2200 {
		return ErrInvalidYear
	}
	return nil
}
