package docgen

import (
	"os"
	"strings"
	"testing"
	"time"

	"caja/internal/core"
)

func TestRenderReceipt(t *testing.T) {
	r, err := NewRenderer(t.TempDir())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	inv := core.Invoice{
		ID:     "inv-123",
		Client: "Acme",
		Items: []core.InvoiceItem{
			{Name: "widget", Quantity: 2, UnitPrice: core.Money{Cents: 1500}},
		},
		Total:      core.Money{Cents: 3000},
		AmountPaid: core.Money{Cents: 1000},
		PaymentHistory: []core.Payment{
			{Amount: core.Money{Cents: 1000}, Method: core.MethodCash, PaidAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)},
		},
		Date: time.Date(2024, 3, 15, 5, 0, 0, 0, time.UTC),
	}
	company := core.Company{Name: "Mi Negocio", City: "Bogotá", Contact: "300 123 4567"}

	path, err := r.RenderReceipt(inv, company)
	if err != nil {
		t.Fatalf("RenderReceipt: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read receipt: %v", err)
	}
	out := string(b)

	for _, want := range []string{
		"Mi Negocio",
		"RECEIPT inv-123",
		"Client: Acme",
		"widget",
		"30.00",
		"10.00",
		"20.00",
		"partially_paid",
		"cash",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("receipt missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReceiptNoCompany(t *testing.T) {
	r, err := NewRenderer(t.TempDir())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	inv := core.Invoice{
		ID:     "inv-9",
		Client: "Walk-in",
		Total:  core.Money{Cents: 500},
		Date:   time.Now(),
	}
	path, err := r.RenderReceipt(inv, core.Company{})
	if err != nil {
		t.Fatalf("RenderReceipt: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read receipt: %v", err)
	}
	if !strings.Contains(string(b), "(none)") {
		t.Errorf("receipt should note missing payments:\n%s", b)
	}
}
