// Package docgen renders invoice receipts as plain-text documents.
package docgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"caja/internal/core"
)

const receiptTemplate = `{{.CompanyName}}
{{- if .CompanyAddress}}
{{.CompanyAddress}}{{if .CompanyCity}}, {{.CompanyCity}}{{end}}
{{- end}}
{{- if .CompanyContact}}
{{.CompanyContact}}
{{- end}}

RECEIPT {{.Invoice.ID}}
Date:   {{.Date}}
Client: {{.Invoice.Client}}

{{range .Invoice.Items -}}
{{printf "%-30s %4d x %10s = %12s" .Name .Quantity (money .UnitPrice) (money .Subtotal)}}
{{end -}}
{{line}}
{{printf "%-37s %21s" "Total" (money .Invoice.Total)}}
{{printf "%-37s %21s" "Paid" (money .Invoice.AmountPaid)}}
{{printf "%-37s %21s" "Balance due" (money .Invoice.BalanceDue)}}
Status: {{.Invoice.Status}}

Payments:
{{range .Invoice.PaymentHistory -}}
{{printf "  %s  %-8s %12s" (date .PaidAt) .Method (money .Amount)}}
{{end -}}
{{- if not .Invoice.PaymentHistory}}  (none)
{{end}}`

// Renderer writes receipts under a docs directory, one file per
// invoice.
type Renderer struct {
	docsDir string
	tmpl    *template.Template
}

func NewRenderer(docsDir string) (*Renderer, error) {
	tmpl := template.New("receipt").Funcs(template.FuncMap{
		"money": func(m core.Money) string { return fmt.Sprintf("%.2f", m.Float()) },
		"date":  func(t interface{ Format(string) string }) string { return t.Format("2006-01-02") },
		"line":  func() string { return strings.Repeat("-", 59) },
	})
	tmpl, err := tmpl.Parse(receiptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse receipt template: %w", err)
	}
	return &Renderer{docsDir: docsDir, tmpl: tmpl}, nil
}

type receiptData struct {
	CompanyName    string
	CompanyAddress string
	CompanyCity    string
	CompanyContact string
	Date           string
	Invoice        core.Invoice
}

// RenderReceipt writes the receipt file and returns its path. The
// company may be the zero value when no profile exists yet.
func (r *Renderer) RenderReceipt(inv core.Invoice, company core.Company) (string, error) {
	if err := os.MkdirAll(r.docsDir, 0755); err != nil {
		return "", fmt.Errorf("create docs dir: %w", err)
	}

	name := company.Name
	if name == "" {
		name = "Receipt"
	}
	data := receiptData{
		CompanyName:    name,
		CompanyAddress: company.Address,
		CompanyCity:    company.City,
		CompanyContact: company.Contact,
		Date:           inv.Date.Format("2006-01-02"),
		Invoice:        inv,
	}

	path := filepath.Join(r.docsDir, fmt.Sprintf("receipt_%s.txt", inv.ID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create receipt file: %w", err)
	}
	defer f.Close()

	if err := r.tmpl.Execute(f, data); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return path, nil
}
