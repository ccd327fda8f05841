package core

import (
	"encoding/json"
	"testing"
	"time"
)

func day(d int, hour int) time.Time {
	return time.Date(2024, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	invoices := []Invoice{
		{Total: Money{Cents: 10000}, AmountPaid: Money{Cents: 4000}},
		{Total: Money{Cents: 5000}, AmountPaid: Money{Cents: 5000}},
	}
	expenses := []Expense{
		{Amount: Money{Cents: 3000}},
	}

	got := Summarize(invoices, expenses)

	if got.Sales.Cents != 15000 {
		t.Errorf("Sales = %d, want 15000", got.Sales.Cents)
	}
	if got.Collected.Cents != 9000 {
		t.Errorf("Collected = %d, want 9000", got.Collected.Cents)
	}
	if got.Pending.Cents != 6000 {
		t.Errorf("Pending = %d, want 6000", got.Pending.Cents)
	}
	if got.InvoiceCount != 2 || got.ExpenseCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", got.InvoiceCount, got.ExpenseCount)
	}
	// Net balance is cash basis: collected minus expenses, pending
	// excluded.
	if got.NetBalance.Cents != 6000 {
		t.Errorf("NetBalance = %d, want 6000", got.NetBalance.Cents)
	}
	if got.AvailableCash.Cents != got.NetBalance.Cents {
		t.Errorf("AvailableCash = %d, want %d", got.AvailableCash.Cents, got.NetBalance.Cents)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil, nil)
	if got.Sales.Cents != 0 || got.NetBalance.Cents != 0 || got.InvoiceCount != 0 {
		t.Errorf("empty summary not zero: %+v", got)
	}
}

func TestMergeDaySummariesZeroFills(t *testing.T) {
	// Day 10 has only an invoice, day 11 only an expense, day 12 both.
	invByDay := map[string][]Invoice{
		"2024-03-10": {{Total: Money{Cents: 10000}, AmountPaid: Money{Cents: 10000}}},
		"2024-03-12": {{Total: Money{Cents: 2000}, AmountPaid: Money{Cents: 2000}}},
	}
	expByDay := map[string][]Expense{
		"2024-03-11": {{Amount: Money{Cents: 500}}},
		"2024-03-12": {{Amount: Money{Cents: 700}}},
	}

	days := MergeDaySummaries(invByDay, expByDay)

	if len(days) != 3 {
		t.Fatalf("len = %d, want 3", len(days))
	}
	// Sorted day-descending.
	if days[0].Date != "2024-03-12" || days[1].Date != "2024-03-11" || days[2].Date != "2024-03-10" {
		t.Fatalf("order = %s, %s, %s", days[0].Date, days[1].Date, days[2].Date)
	}

	// Expense-only day zero-fills the invoice side.
	if days[1].InvoiceCount != 0 || days[1].Sales.Cents != 0 {
		t.Errorf("expense-only day has invoice data: %+v", days[1])
	}
	if days[1].Expenses.Cents != 500 || days[1].NetBalance.Cents != -500 {
		t.Errorf("expense-only day totals wrong: %+v", days[1])
	}

	// Invoice-only day zero-fills the expense side.
	if days[2].ExpenseCount != 0 || days[2].Expenses.Cents != 0 {
		t.Errorf("invoice-only day has expense data: %+v", days[2])
	}

	if days[0].NetBalance.Cents != 1300 {
		t.Errorf("mixed day net = %d, want 1300", days[0].NetBalance.Cents)
	}
}

func TestBuildRangeSummaryTotalsEqualRowSum(t *testing.T) {
	invoices := []Invoice{
		{Total: Money{Cents: 10000}, AmountPaid: Money{Cents: 6000}, Date: day(10, 14)},
		{Total: Money{Cents: 4000}, AmountPaid: Money{Cents: 4000}, Date: day(11, 9)},
	}
	expenses := []Expense{
		{Amount: Money{Cents: 1500}, Date: day(10, 18)},
		{Amount: Money{Cents: 500}, Date: day(12, 8)},
	}

	rs := BuildRangeSummary(NewDate(2024, 3, 10), NewDate(2024, 3, 12), invoices, expenses, 0)

	var sales, collected, exp int64
	var invCount, expCount int
	for _, d := range rs.Days {
		sales += d.Sales.Cents
		collected += d.Collected.Cents
		exp += d.Expenses.Cents
		invCount += d.InvoiceCount
		expCount += d.ExpenseCount
	}

	if sales != rs.Totals.Sales.Cents {
		t.Errorf("row sales sum %d != totals %d", sales, rs.Totals.Sales.Cents)
	}
	if collected != rs.Totals.Collected.Cents {
		t.Errorf("row collected sum %d != totals %d", collected, rs.Totals.Collected.Cents)
	}
	if exp != rs.Totals.Expenses.Cents {
		t.Errorf("row expense sum %d != totals %d", exp, rs.Totals.Expenses.Cents)
	}
	if invCount != rs.Totals.InvoiceCount || expCount != rs.Totals.ExpenseCount {
		t.Errorf("row counts %d/%d != totals %d/%d", invCount, expCount, rs.Totals.InvoiceCount, rs.Totals.ExpenseCount)
	}
}

func TestGroupInvoicesByDayUsesLocalDay(t *testing.T) {
	offset := -5 * time.Hour
	// 03:00Z on the 16th is still the local 15th at UTC-5.
	invoices := []Invoice{
		{ID: "a", Date: time.Date(2024, 3, 16, 3, 0, 0, 0, time.UTC)},
		{ID: "b", Date: time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC)},
	}
	byDay := GroupInvoicesByDay(invoices, offset)

	if len(byDay["2024-03-15"]) != 1 || byDay["2024-03-15"][0].ID != "a" {
		t.Errorf("local 15th bucket = %+v", byDay["2024-03-15"])
	}
	if len(byDay["2024-03-16"]) != 1 || byDay["2024-03-16"][0].ID != "b" {
		t.Errorf("local 16th bucket = %+v", byDay["2024-03-16"])
	}
}

func TestSummarizeMovements(t *testing.T) {
	movements := []Movement{
		{Kind: KindPayment, Method: MethodCash, Amount: Money{Cents: 10000}},
		{Kind: KindPayment, Method: MethodWallet, Amount: Money{Cents: 5000}},
		{Kind: KindExpense, Method: MethodCash, Amount: Money{Cents: 3000}},
		{Kind: KindExpense, Method: MethodWallet, Amount: Money{Cents: 2000}},
	}

	s := SummarizeMovements("2024-03-15", movements)

	if s.Payments.Cash.Cents != 10000 || s.Payments.Wallet.Cents != 5000 || s.Payments.Total.Cents != 15000 {
		t.Errorf("payments = %+v", s.Payments)
	}
	if s.Expenses.Cash.Cents != 3000 || s.Expenses.Wallet.Cents != 2000 || s.Expenses.Total.Cents != 5000 {
		t.Errorf("expenses = %+v", s.Expenses)
	}
	if s.NetBalance.Cash.Cents != 7000 {
		t.Errorf("net cash = %d, want 7000", s.NetBalance.Cash.Cents)
	}
	if s.NetBalance.Wallet.Cents != 3000 {
		t.Errorf("net wallet = %d, want 3000", s.NetBalance.Wallet.Cents)
	}
	if s.NetBalance.Total.Cents != 10000 {
		t.Errorf("net total = %d, want 10000", s.NetBalance.Total.Cents)
	}
}

func TestSummarizeMovementsZeroFill(t *testing.T) {
	s := SummarizeMovements("2024-03-15", []Movement{
		{Kind: KindPayment, Method: MethodCash, Amount: Money{Cents: 4000}},
	})
	if s.Payments.Wallet.Cents != 0 || s.Payments.WalletCount != 0 {
		t.Errorf("wallet bucket should be zero: %+v", s.Payments)
	}
	if s.Expenses.Total.Cents != 0 {
		t.Errorf("expense grid should be zero: %+v", s.Expenses)
	}
	if s.NetBalance.Total.Cents != 4000 {
		t.Errorf("net total = %d, want 4000", s.NetBalance.Total.Cents)
	}
}

func TestBuildMovementRangeSummarySortsDescending(t *testing.T) {
	movements := []Movement{
		{Kind: KindPayment, Method: MethodCash, Amount: Money{Cents: 100}, Date: day(10, 10)},
		{Kind: KindPayment, Method: MethodCash, Amount: Money{Cents: 200}, Date: day(12, 10)},
		{Kind: KindExpense, Method: MethodWallet, Amount: Money{Cents: 50}, Date: day(11, 10)},
	}

	rs := BuildMovementRangeSummary(NewDate(2024, 3, 10), NewDate(2024, 3, 12), movements, 0)

	if len(rs.Days) != 3 {
		t.Fatalf("len = %d, want 3", len(rs.Days))
	}
	if rs.Days[0].Date != "2024-03-12" || rs.Days[2].Date != "2024-03-10" {
		t.Errorf("order = %s .. %s", rs.Days[0].Date, rs.Days[2].Date)
	}
	if rs.Totals.NetBalance.Total.Cents != 250 {
		t.Errorf("totals net = %d, want 250", rs.Totals.NetBalance.Total.Cents)
	}
}

func TestMovementRangeTotalsCarryNoDate(t *testing.T) {
	movements := []Movement{
		{Kind: KindPayment, Method: MethodCash, Amount: Money{Cents: 10000}, Date: day(15, 12)},
	}
	rs := BuildMovementRangeSummary(NewDate(2024, 3, 1), NewDate(2024, 3, 31), movements, 0)

	b, err := json.Marshal(rs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw struct {
		Totals map[string]json.RawMessage   `json:"totals"`
		Days   []map[string]json.RawMessage `json:"days"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw.Totals["date"]; ok {
		t.Error("range totals must not carry a date field")
	}
	if len(raw.Days) != 1 {
		t.Fatalf("days = %d, want 1", len(raw.Days))
	}
	if _, ok := raw.Days[0]["date"]; !ok {
		t.Error("per-day rows must keep their date field")
	}
}
