package core

import (
	"sort"
	"time"
)

// SummaryTotals is the invoice-and-expense aggregate for one period.
// NetBalance and AvailableCash are cash basis: collected money minus
// expenses, with pending balances excluded.
type SummaryTotals struct {
	Sales         Money `json:"sales"`
	Collected     Money `json:"collected"`
	Pending       Money `json:"pending"`
	InvoiceCount  int   `json:"invoiceCount"`
	Expenses      Money `json:"expenses"`
	ExpenseCount  int   `json:"expenseCount"`
	NetBalance    Money `json:"netBalance"`
	AvailableCash Money `json:"availableCash"`
}

// DaySummary is SummaryTotals pinned to one local calendar day.
type DaySummary struct {
	Date string `json:"date"`
	SummaryTotals
}

// RangeSummary covers an inclusive day range, with per-day rows and
// overall totals. The rows sum to the totals.
type RangeSummary struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Totals SummaryTotals `json:"totals"`
	Days   []DaySummary  `json:"days"`
}

// MonthSummary is the non-persisting monthly aggregate, the same
// numbers a close would snapshot.
type MonthSummary struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	SummaryTotals
}

// Summarize folds invoices and expenses into period totals. Pure.
func Summarize(invoices []Invoice, expenses []Expense) SummaryTotals {
	var t SummaryTotals
	for _, inv := range invoices {
		t.Sales = t.Sales.Add(inv.Total)
		t.Collected = t.Collected.Add(inv.AmountPaid)
		t.Pending = t.Pending.Add(inv.BalanceDue())
		t.InvoiceCount++
	}
	for _, e := range expenses {
		t.Expenses = t.Expenses.Add(e.Amount)
		t.ExpenseCount++
	}
	t.NetBalance = t.Collected.Sub(t.Expenses)
	t.AvailableCash = t.NetBalance
	return t
}

// SummarizeDay builds the one-day summary for already range-filtered
// rows.
func SummarizeDay(d Date, invoices []Invoice, expenses []Expense) DaySummary {
	return DaySummary{Date: d.Key(), SummaryTotals: Summarize(invoices, expenses)}
}

// GroupInvoicesByDay buckets invoices by their local calendar day.
func GroupInvoicesByDay(invoices []Invoice, offset time.Duration) map[string][]Invoice {
	out := make(map[string][]Invoice)
	for _, inv := range invoices {
		k := LocalDayKey(inv.Date, offset)
		out[k] = append(out[k], inv)
	}
	return out
}

// GroupExpensesByDay buckets expenses by their local calendar day.
func GroupExpensesByDay(expenses []Expense, offset time.Duration) map[string][]Expense {
	out := make(map[string][]Expense)
	for _, e := range expenses {
		k := LocalDayKey(e.Date, offset)
		out[k] = append(out[k], e)
	}
	return out
}

// MergeDaySummaries joins two independently grouped sides into per-day
// rows. A day present on either side appears; the missing side
// contributes zeros. Rows come back sorted day-descending.
func MergeDaySummaries(invoicesByDay map[string][]Invoice, expensesByDay map[string][]Expense) []DaySummary {
	keys := make(map[string]struct{}, len(invoicesByDay)+len(expensesByDay))
	for k := range invoicesByDay {
		keys[k] = struct{}{}
	}
	for k := range expensesByDay {
		keys[k] = struct{}{}
	}

	days := make([]DaySummary, 0, len(keys))
	for k := range keys {
		days = append(days, DaySummary{
			Date:          k,
			SummaryTotals: Summarize(invoicesByDay[k], expensesByDay[k]),
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days
}

// BuildRangeSummary assembles the per-day breakdown plus totals for an
// inclusive day range. Grouping happens on each side independently and
// the merge is zero-filling, so a day with only expenses still shows.
func BuildRangeSummary(from, to Date, invoices []Invoice, expenses []Expense, offset time.Duration) RangeSummary {
	return RangeSummary{
		From:   from.Key(),
		To:     to.Key(),
		Totals: Summarize(invoices, expenses),
		Days:   MergeDaySummaries(GroupInvoicesByDay(invoices, offset), GroupExpensesByDay(expenses, offset)),
	}
}

// MethodBreakdown splits one movement kind across payment channels.
type MethodBreakdown struct {
	Cash        Money `json:"cash"`
	Wallet      Money `json:"wallet"`
	Total       Money `json:"total"`
	CashCount   int   `json:"cashCount"`
	WalletCount int   `json:"walletCount"`
}

func (b *MethodBreakdown) add(m Movement) {
	switch m.Method {
	case MethodCash:
		b.Cash = b.Cash.Add(m.Amount)
		b.CashCount++
	case MethodWallet:
		b.Wallet = b.Wallet.Add(m.Amount)
		b.WalletCount++
	}
	b.Total = b.Total.Add(m.Amount)
}

// NetByMethod is payments minus expenses per channel.
type NetByMethod struct {
	Cash   Money `json:"cash"`
	Wallet Money `json:"wallet"`
	Total  Money `json:"total"`
}

// MovementSummary is the kind-by-method grid for one day. Absent
// buckets stay zero rather than being omitted. The range-totals grid
// carries no date.
type MovementSummary struct {
	Date       string          `json:"date,omitempty"`
	Payments   MethodBreakdown `json:"payments"`
	Expenses   MethodBreakdown `json:"expenses"`
	NetBalance NetByMethod     `json:"netBalance"`
}

// MovementRangeSummary is the per-day movement breakdown over a range.
type MovementRangeSummary struct {
	From   string            `json:"from"`
	To     string            `json:"to"`
	Totals MovementSummary   `json:"totals"`
	Days   []MovementSummary `json:"days"`
}

// SummarizeMovements folds movements into the kind-by-method grid.
func SummarizeMovements(key string, movements []Movement) MovementSummary {
	s := MovementSummary{Date: key}
	for _, m := range movements {
		switch m.Kind {
		case KindPayment:
			s.Payments.add(m)
		case KindExpense:
			s.Expenses.add(m)
		}
	}
	s.NetBalance = NetByMethod{
		Cash:   s.Payments.Cash.Sub(s.Expenses.Cash),
		Wallet: s.Payments.Wallet.Sub(s.Expenses.Wallet),
		Total:  s.Payments.Total.Sub(s.Expenses.Total),
	}
	return s
}

// GroupMovementsByDay buckets movements by their local calendar day.
func GroupMovementsByDay(movements []Movement, offset time.Duration) map[string][]Movement {
	out := make(map[string][]Movement)
	for _, m := range movements {
		k := LocalDayKey(m.Date, offset)
		out[k] = append(out[k], m)
	}
	return out
}

// BuildMovementRangeSummary assembles per-day movement grids plus the
// overall grid, sorted day-descending.
func BuildMovementRangeSummary(from, to Date, movements []Movement, offset time.Duration) MovementRangeSummary {
	byDay := GroupMovementsByDay(movements, offset)
	days := make([]MovementSummary, 0, len(byDay))
	for k, dayMovs := range byDay {
		days = append(days, SummarizeMovements(k, dayMovs))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })

	totals := SummarizeMovements("", movements)
	return MovementRangeSummary{
		From:   from.Key(),
		To:     to.Key(),
		Totals: totals,
		Days:   days,
	}
}
