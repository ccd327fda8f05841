package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"caja/internal/config"
	"caja/internal/docgen"
	"caja/internal/services"
	"caja/internal/storage"

	"github.com/stretchr/testify/require"
)

type testClient struct {
	t     *testing.T
	base  string
	token string
}

func newTestServer(t *testing.T) *testClient {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Port:           "0",
		JWTSecret:      "test-secret-key-0123456789",
		TokenExpiry:    time.Hour,
		UTCOffset:      -5 * time.Hour,
		UploadDir:      filepath.Join(dir, "uploads"),
		DocsDir:        filepath.Join(dir, "docs"),
		MaxUploadBytes: 1 << 20,
	}

	repo, err := storage.NewSQLiteRepository(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	docs, err := docgen.NewRenderer(cfg.DocsDir)
	require.NoError(t, err)

	offset := cfg.UTCOffset
	reports := services.NewReportService(repo, offset)
	srv := NewServer(cfg, repo, Services{
		Users:     services.NewUserService(repo),
		Company:   services.NewCompanyService(repo, cfg.UploadDir),
		Invoices:  services.NewInvoiceService(repo, nil),
		Expenses:  services.NewExpenseService(repo, nil, offset),
		Movements: services.NewMovementService(repo, nil, offset),
		Products:  services.NewProductService(repo),
		Reports:   reports,
		Closes:    services.NewCloseService(repo, reports),
		Docs:      docs,
	})

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return &testClient{t: t, base: ts.URL}
}

func (c *testClient) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, buf)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	return resp
}

// json runs the request, decodes the body into out when non-nil, and
// returns the status code.
func (c *testClient) json(method, path string, body, out any) int {
	c.t.Helper()
	resp := c.do(method, path, body)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// register creates an account and leaves the client authenticated.
func (c *testClient) register(name, email string) {
	c.t.Helper()
	var auth struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	status := c.json("POST", "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": "secret1",
	}, &auth)
	require.Equal(c.t, http.StatusCreated, status)
	require.NotEmpty(c.t, auth.Token)
	c.token = auth.Token
}

type invoiceResponse struct {
	ID             string  `json:"id"`
	Client         string  `json:"client"`
	Total          float64 `json:"total"`
	AmountPaid     float64 `json:"amountPaid"`
	BalanceDue     float64 `json:"balanceDue"`
	Status         string  `json:"status"`
	PaymentHistory []struct {
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
	} `json:"paymentHistory"`
}

func TestAuthEndpoints(t *testing.T) {
	c := newTestServer(t)
	c.register("Ana", "ana@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		status := c.json("POST", "/api/auth/register", map[string]string{
			"name": "Ana 2", "email": "ana@example.com", "password": "secret1",
		}, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("login", func(t *testing.T) {
		var auth struct {
			Token string `json:"token"`
		}
		status := c.json("POST", "/api/auth/login", map[string]string{
			"email": "ana@example.com", "password": "secret1",
		}, &auth)
		require.Equal(t, http.StatusOK, status)
		require.NotEmpty(t, auth.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		status := c.json("POST", "/api/auth/login", map[string]string{
			"email": "ana@example.com", "password": "nope",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("missing token", func(t *testing.T) {
		anon := &testClient{t: t, base: c.base}
		status := anon.json("GET", "/api/invoices", nil, nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("garbage token", func(t *testing.T) {
		bad := &testClient{t: t, base: c.base, token: "not.a.token"}
		status := bad.json("GET", "/api/invoices", nil, nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestInvoiceEndpoints(t *testing.T) {
	c := newTestServer(t)
	c.register("Ana", "ana@example.com")

	var inv invoiceResponse
	status := c.json("POST", "/api/invoices", map[string]any{
		"client": "Acme",
		"date":   "2024-03-10",
		"items": []map[string]any{
			{"name": "widget", "quantity": 2, "unitPrice": 15.00},
			{"name": "gadget", "quantity": 1, "unitPrice": 20.00},
		},
		"amountPaid": 20.00,
		"method":     "cash",
	}, &inv)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, 50.00, inv.Total)
	require.Equal(t, 20.00, inv.AmountPaid)
	require.Equal(t, 30.00, inv.BalanceDue)
	require.Equal(t, "partially_paid", inv.Status)
	require.Len(t, inv.PaymentHistory, 1)

	t.Run("get", func(t *testing.T) {
		var got invoiceResponse
		status := c.json("GET", "/api/invoices/"+inv.ID, nil, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, inv.ID, got.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		status := c.json("GET", "/api/invoices/missing", nil, nil)
		require.Equal(t, http.StatusNotFound, status)
	})

	t.Run("pay off", func(t *testing.T) {
		var got invoiceResponse
		status := c.json("POST", "/api/invoices/"+inv.ID+"/payments", map[string]any{
			"amount": 30.00, "method": "wallet",
		}, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "paid", got.Status)
		require.Equal(t, 0.00, got.BalanceDue)
	})

	t.Run("payment past total goes negative", func(t *testing.T) {
		var got invoiceResponse
		status := c.json("POST", "/api/invoices/"+inv.ID+"/payments", map[string]any{
			"amount": 0.01, "method": "cash",
		}, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "paid", got.Status)
		require.Equal(t, -0.01, got.BalanceDue)
	})

	t.Run("bad method rejected", func(t *testing.T) {
		status := c.json("POST", "/api/invoices/"+inv.ID+"/payments", map[string]any{
			"amount": 1.00, "method": "credit_card",
		}, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("replace items raises total", func(t *testing.T) {
		var got invoiceResponse
		status := c.json("PUT", "/api/invoices/"+inv.ID+"/items", map[string]any{
			"items": []map[string]any{
				{"name": "widget", "quantity": 2, "unitPrice": 15.00},
				{"name": "gadget", "quantity": 1, "unitPrice": 20.00},
				{"name": "extra", "quantity": 1, "unitPrice": 10.00},
			},
		}, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, 60.00, got.Total)
		require.Equal(t, "partially_paid", got.Status)
	})

	t.Run("list pending only", func(t *testing.T) {
		var list []invoiceResponse
		status := c.json("GET", "/api/invoices?pending=true", nil, &list)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, list, 1)
	})

	t.Run("list single day", func(t *testing.T) {
		var list []invoiceResponse
		status := c.json("GET", "/api/invoices?date=2024-03-10", nil, &list)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, list, 1)

		var empty []invoiceResponse
		status = c.json("GET", "/api/invoices?date=2024-03-11", nil, &empty)
		require.Equal(t, http.StatusOK, status)
		require.Empty(t, empty)
	})

	t.Run("document", func(t *testing.T) {
		resp := c.do("GET", "/api/invoices/"+inv.ID+"/document", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Contains(t, string(b), "RECEIPT "+inv.ID)
		require.Contains(t, string(b), "Client: Acme")
	})
}

func TestExpenseEndpoints(t *testing.T) {
	c := newTestServer(t)
	c.register("Ana", "ana@example.com")

	var created struct {
		ID       string  `json:"id"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
	}
	status := c.json("POST", "/api/expenses", map[string]any{
		"description": "supplies",
		"amount":      30.00,
		"method":      "cash",
		"date":        "2024-03-12",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, 30.00, created.Amount)
	require.Equal(t, "General", created.Category)

	t.Run("list requires range", func(t *testing.T) {
		status := c.json("GET", "/api/expenses", nil, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("list", func(t *testing.T) {
		var list []map[string]any
		status := c.json("GET", "/api/expenses?from=2024-03-01&to=2024-03-31", nil, &list)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, list, 1)
	})

	t.Run("list single day", func(t *testing.T) {
		var list []map[string]any
		status := c.json("GET", "/api/expenses?date=2024-03-12", nil, &list)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, list, 1)
	})

	t.Run("update keeps date", func(t *testing.T) {
		var updated struct {
			Amount float64 `json:"amount"`
		}
		status := c.json("PUT", "/api/expenses/"+created.ID, map[string]any{
			"description": "more supplies",
			"amount":      45.00,
			"method":      "wallet",
			"category":    "Inventory",
		}, &updated)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, 45.00, updated.Amount)

		var list []map[string]any
		status = c.json("GET", "/api/expenses?from=2024-03-12&to=2024-03-12", nil, &list)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, list, 1)
	})

	t.Run("delete", func(t *testing.T) {
		status := c.json("DELETE", "/api/expenses/"+created.ID, nil, nil)
		require.Equal(t, http.StatusOK, status)
		status = c.json("DELETE", "/api/expenses/"+created.ID, nil, nil)
		require.Equal(t, http.StatusNotFound, status)
	})
}

func TestMovementEndpoints(t *testing.T) {
	c := newTestServer(t)
	c.register("Ana", "ana@example.com")

	seed := []map[string]any{
		{"kind": "payment", "method": "cash", "amount": 100.00, "description": "sale", "date": "2024-03-15"},
		{"kind": "payment", "method": "wallet", "amount": 50.00, "description": "sale", "date": "2024-03-15"},
		{"kind": "expense", "method": "cash", "amount": 30.00, "description": "supplies", "date": "2024-03-15"},
		{"kind": "expense", "method": "wallet", "amount": 20.00, "description": "fees", "date": "2024-03-15"},
	}
	var firstID string
	for i, body := range seed {
		var got struct {
			ID string `json:"id"`
		}
		status := c.json("POST", "/api/movements", body, &got)
		require.Equal(t, http.StatusCreated, status)
		if i == 0 {
			firstID = got.ID
		}
	}

	t.Run("list day", func(t *testing.T) {
		var list []map[string]any
		status := c.json("GET", "/api/movements?date=2024-03-15", nil, &list)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, list, 4)
	})

	t.Run("missing date", func(t *testing.T) {
		status := c.json("GET", "/api/movements", nil, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("day summary", func(t *testing.T) {
		var got struct {
			NetBalance struct {
				Cash   float64 `json:"cash"`
				Wallet float64 `json:"wallet"`
				Total  float64 `json:"total"`
			} `json:"netBalance"`
		}
		status := c.json("GET", "/api/movements/summary?date=2024-03-15", nil, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, 70.00, got.NetBalance.Cash)
		require.Equal(t, 30.00, got.NetBalance.Wallet)
		require.Equal(t, 100.00, got.NetBalance.Total)
	})

	t.Run("range summary", func(t *testing.T) {
		var got struct {
			Days []map[string]any `json:"days"`
		}
		status := c.json("GET", "/api/movements/summary?from=2024-03-01&to=2024-03-31", nil, &got)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, got.Days, 1)
	})

	t.Run("bad kind", func(t *testing.T) {
		status := c.json("POST", "/api/movements", map[string]any{
			"kind": "transfer", "method": "cash", "amount": 1.00, "description": "x",
		}, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("delete standalone", func(t *testing.T) {
		status := c.json("DELETE", "/api/movements/"+firstID, nil, nil)
		require.Equal(t, http.StatusOK, status)
	})
}

func TestProductEndpoints(t *testing.T) {
	c := newTestServer(t)
	c.register("Ana", "ana@example.com")

	var created struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		UnitPrice float64 `json:"unitPrice"`
	}
	status := c.json("POST", "/api/products", map[string]any{
		"name": "Empanada", "unitPrice": 25.00,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "Empanada", created.Name)
	require.Equal(t, 25.00, created.UnitPrice)

	t.Run("duplicate name", func(t *testing.T) {
		status := c.json("POST", "/api/products", map[string]any{
			"name": "empanada", "unitPrice": 30.00,
		}, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("get", func(t *testing.T) {
		var got struct {
			ID string `json:"id"`
		}
		status := c.json("GET", "/api/products/"+created.ID, nil, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, created.ID, got.ID)
	})

	t.Run("search", func(t *testing.T) {
		status := c.json("POST", "/api/products", map[string]any{
			"name": "Arepa", "unitPrice": 15.00,
		}, nil)
		require.Equal(t, http.StatusCreated, status)

		var list []map[string]any
		status = c.json("GET", "/api/products?name=EMPA", nil, &list)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, list, 1)

		var all []map[string]any
		status = c.json("GET", "/api/products", nil, &all)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, all, 2)
	})

	t.Run("update", func(t *testing.T) {
		var got struct {
			UnitPrice float64 `json:"unitPrice"`
		}
		status := c.json("PUT", "/api/products/"+created.ID, map[string]any{
			"name": "Empanada", "unitPrice": 28.00,
		}, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, 28.00, got.UnitPrice)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		status := c.json("POST", "/api/products", map[string]any{
			"name": "  ", "unitPrice": 10.00,
		}, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("foreign catalog hidden", func(t *testing.T) {
		other := &testClient{t: t, base: c.base}
		other.register("Bea", "bea2@example.com")
		status := other.json("GET", "/api/products/"+created.ID, nil, nil)
		require.Equal(t, http.StatusNotFound, status)
	})

	t.Run("delete", func(t *testing.T) {
		status := c.json("DELETE", "/api/products/"+created.ID, nil, nil)
		require.Equal(t, http.StatusOK, status)
		status = c.json("GET", "/api/products/"+created.ID, nil, nil)
		require.Equal(t, http.StatusNotFound, status)
	})
}

func TestReportEndpoints(t *testing.T) {
	c := newTestServer(t)
	c.register("Ana", "ana@example.com")

	status := c.json("POST", "/api/invoices", map[string]any{
		"client": "Acme", "date": "2024-03-10", "total": 100.00,
		"amountPaid": 40.00, "method": "cash",
	}, nil)
	require.Equal(t, http.StatusCreated, status)
	status = c.json("POST", "/api/expenses", map[string]any{
		"description": "supplies", "amount": 30.00, "method": "cash", "date": "2024-03-12",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	t.Run("daily", func(t *testing.T) {
		var got struct {
			Date      string  `json:"date"`
			Sales     float64 `json:"sales"`
			Collected float64 `json:"collected"`
			Pending   float64 `json:"pending"`
		}
		status := c.json("GET", "/api/reports/daily?date=2024-03-10", nil, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "2024-03-10", got.Date)
		require.Equal(t, 100.00, got.Sales)
		require.Equal(t, 40.00, got.Collected)
		require.Equal(t, 60.00, got.Pending)
	})

	t.Run("daily missing date", func(t *testing.T) {
		status := c.json("GET", "/api/reports/daily", nil, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("range", func(t *testing.T) {
		var got struct {
			Totals struct {
				Sales      float64 `json:"sales"`
				NetBalance float64 `json:"netBalance"`
			} `json:"totals"`
			Days []map[string]any `json:"days"`
		}
		status := c.json("GET", "/api/reports/range?from=2024-03-01&to=2024-03-31", nil, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, 100.00, got.Totals.Sales)
		require.Equal(t, 10.00, got.Totals.NetBalance)
		require.Len(t, got.Days, 2)
	})

	t.Run("monthly", func(t *testing.T) {
		var got struct {
			Year  int     `json:"year"`
			Month int     `json:"month"`
			Sales float64 `json:"sales"`
		}
		status := c.json("GET", "/api/reports/monthly?year=2024&month=3", nil, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, 2024, got.Year)
		require.Equal(t, 100.00, got.Sales)
	})

	t.Run("bad month", func(t *testing.T) {
		status := c.json("GET", "/api/reports/monthly?year=2024&month=13", nil, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})
}

func TestCloseEndpoints(t *testing.T) {
	c := newTestServer(t)
	c.register("Ana", "ana@example.com")

	status := c.json("POST", "/api/invoices", map[string]any{
		"client": "Acme", "date": "2024-03-10", "total": 100.00,
		"amountPaid": 100.00, "method": "cash",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var mc struct {
		ID            string  `json:"id"`
		TotalSales    float64 `json:"totalSales"`
		TotalPayments float64 `json:"totalPayments"`
		NetBalance    float64 `json:"netBalance"`
	}
	status = c.json("POST", "/api/closes", map[string]any{"year": 2024, "month": 3}, &mc)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, 100.00, mc.TotalSales)
	require.Equal(t, 100.00, mc.TotalPayments)
	require.Equal(t, 100.00, mc.NetBalance)

	t.Run("replace leaves one", func(t *testing.T) {
		status := c.json("POST", "/api/closes", map[string]any{"year": 2024, "month": 3, "replace": true}, nil)
		require.Equal(t, http.StatusCreated, status)
		var list []map[string]any
		status = c.json("GET", "/api/closes", nil, &list)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, list, 1)
	})

	t.Run("preview", func(t *testing.T) {
		var got struct {
			Sales float64 `json:"sales"`
		}
		status := c.json("GET", "/api/closes/preview?year=2024&month=3", nil, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, 100.00, got.Sales)
	})

	t.Run("bad month", func(t *testing.T) {
		status := c.json("POST", "/api/closes", map[string]any{"year": 2024, "month": 0}, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})
}

func TestCompanyEndpoints(t *testing.T) {
	c := newTestServer(t)
	c.register("Ana", "ana@example.com")

	t.Run("missing profile", func(t *testing.T) {
		status := c.json("GET", "/api/company", nil, nil)
		require.Equal(t, http.StatusNotFound, status)
	})

	var saved struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	status := c.json("PUT", "/api/company", map[string]any{
		"name": "Mi Negocio", "city": "Bogotá",
	}, &saved)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Mi Negocio", saved.Name)

	t.Run("update keeps id", func(t *testing.T) {
		var again struct {
			ID string `json:"id"`
		}
		status := c.json("PUT", "/api/company", map[string]any{"name": "Mi Negocio SA"}, &again)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, saved.ID, again.ID)
	})

	t.Run("logo upload", func(t *testing.T) {
		png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
		resp := c.upload("/api/company/logo", "logo.png", png)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got struct {
			LogoPath string `json:"logoPath"`
		}
		status := c.json("GET", "/api/company", nil, &got)
		require.Equal(t, http.StatusOK, status)
		require.NotEmpty(t, got.LogoPath)
	})

	t.Run("non-image rejected", func(t *testing.T) {
		resp := c.upload("/api/company/logo", "logo.png", []byte("definitely not an image"))
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("delete logo", func(t *testing.T) {
		status := c.json("DELETE", "/api/company/logo", nil, nil)
		require.Equal(t, http.StatusOK, status)
	})

	t.Run("delete company", func(t *testing.T) {
		status := c.json("DELETE", "/api/company", nil, nil)
		require.Equal(t, http.StatusOK, status)
		status = c.json("GET", "/api/company", nil, nil)
		require.Equal(t, http.StatusNotFound, status)
	})
}

func (c *testClient) upload(path, filename string, data []byte) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("logo", filename)
	require.NoError(c.t, err)
	_, err = fw.Write(data)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req, err := http.NewRequest("POST", c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	return resp
}

func TestOwnershipAcrossUsers(t *testing.T) {
	c := newTestServer(t)
	c.register("Ana", "ana@example.com")

	var inv invoiceResponse
	status := c.json("POST", "/api/invoices", map[string]any{
		"client": "Acme", "total": 100.00,
	}, &inv)
	require.Equal(t, http.StatusCreated, status)

	other := &testClient{t: t, base: c.base}
	other.register("Bea", "bea@example.com")

	status = other.json("GET", "/api/invoices/"+inv.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, status)

	status = other.json("POST", "/api/invoices/"+inv.ID+"/payments", map[string]any{
		"amount": 1.00, "method": "cash",
	}, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestHealthEndpoints(t *testing.T) {
	c := newTestServer(t)

	resp := c.do("GET", "/healthz", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do("GET", "/readyz", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
