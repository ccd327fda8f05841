// Package http exposes the JSON API: auth, invoices, expenses,
// movements, reports, monthly closes and the company profile.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"caja/internal/config"
	"caja/internal/docgen"
	"caja/internal/services"
	"caja/internal/storage"
)

// Server wires the handlers over the service layer.
type Server struct {
	http.Server

	cfg     *config.Config
	repo    *storage.SQLiteRepository
	users   *services.UserService
	company *services.CompanyService

	invoices  *services.InvoiceService
	expenses  *services.ExpenseService
	movements *services.MovementService
	products  *services.ProductService
	reports   *services.ReportService
	closes    *services.CloseService

	docs    *docgen.Renderer
	limiter *loginLimiter
}

// Services groups everything the HTTP layer delegates to.
type Services struct {
	Users     *services.UserService
	Company   *services.CompanyService
	Invoices  *services.InvoiceService
	Expenses  *services.ExpenseService
	Movements *services.MovementService
	Products  *services.ProductService
	Reports   *services.ReportService
	Closes    *services.CloseService
	Docs      *docgen.Renderer
}

func NewServer(cfg *config.Config, repo *storage.SQLiteRepository, svcs Services) *Server {
	s := &Server{
		Server: http.Server{
			Addr:         ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		cfg:       cfg,
		repo:      repo,
		users:     svcs.Users,
		company:   svcs.Company,
		invoices:  svcs.Invoices,
		expenses:  svcs.Expenses,
		movements: svcs.Movements,
		products:  svcs.Products,
		reports:   svcs.Reports,
		closes:    svcs.Closes,
		docs:      svcs.Docs,
		limiter:   newLoginLimiter(30),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/register", s.limiter.wrap(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.limiter.wrap(s.handleLogin))

	mux.Handle("POST /api/invoices", s.requireAuth(s.handleCreateInvoice))
	mux.Handle("GET /api/invoices", s.requireAuth(s.handleListInvoices))
	mux.Handle("GET /api/invoices/{id}", s.requireAuth(s.handleGetInvoice))
	mux.Handle("POST /api/invoices/{id}/payments", s.requireAuth(s.handleAddPayment))
	mux.Handle("PUT /api/invoices/{id}/items", s.requireAuth(s.handleReplaceItems))
	mux.Handle("GET /api/invoices/{id}/document", s.requireAuth(s.handleInvoiceDocument))

	mux.Handle("POST /api/expenses", s.requireAuth(s.handleCreateExpense))
	mux.Handle("GET /api/expenses", s.requireAuth(s.handleListExpenses))
	mux.Handle("PUT /api/expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.Handle("DELETE /api/expenses/{id}", s.requireAuth(s.handleDeleteExpense))

	mux.Handle("POST /api/movements", s.requireAuth(s.handleCreateMovement))
	mux.Handle("GET /api/movements", s.requireAuth(s.handleListMovements))
	mux.Handle("DELETE /api/movements/{id}", s.requireAuth(s.handleDeleteMovement))
	mux.Handle("GET /api/movements/summary", s.requireAuth(s.handleMovementSummary))

	mux.Handle("POST /api/products", s.requireAuth(s.handleCreateProduct))
	mux.Handle("GET /api/products", s.requireAuth(s.handleListProducts))
	mux.Handle("GET /api/products/{id}", s.requireAuth(s.handleGetProduct))
	mux.Handle("PUT /api/products/{id}", s.requireAuth(s.handleUpdateProduct))
	mux.Handle("DELETE /api/products/{id}", s.requireAuth(s.handleDeleteProduct))

	mux.Handle("GET /api/reports/daily", s.requireAuth(s.handleDailyReport))
	mux.Handle("GET /api/reports/range", s.requireAuth(s.handleRangeReport))
	mux.Handle("GET /api/reports/monthly", s.requireAuth(s.handleMonthlyReport))

	mux.Handle("POST /api/closes", s.requireAuth(s.handleCloseMonth))
	mux.Handle("GET /api/closes", s.requireAuth(s.handleListCloses))
	mux.Handle("GET /api/closes/preview", s.requireAuth(s.handleClosePreview))

	mux.Handle("GET /api/company", s.requireAuth(s.handleGetCompany))
	mux.Handle("POST /api/company", s.requireAuth(s.handleSaveCompany))
	mux.Handle("PUT /api/company", s.requireAuth(s.handleSaveCompany))
	mux.Handle("DELETE /api/company", s.requireAuth(s.handleDeleteCompany))
	mux.Handle("POST /api/company/logo", s.requireAuth(s.handleUploadLogo))
	mux.Handle("DELETE /api/company/logo", s.requireAuth(s.handleDeleteLogo))

	s.Handler = s.withRequestLog(withSecurityHeaders(mux))
	return s
}

// Shutdown stops the listener and the limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady also checks the database so load balancers stop routing
// to an instance whose storage is gone.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type ctxKey string

const (
	ctxKeyUserID    ctxKey = "user_id"
	ctxKeyRequestID ctxKey = "request_id"
)

func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKeyUserID).(string)
	return id
}

// responseWriter captures the status code for the completion log line.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r.WithContext(ctx))

		slog.InfoContext(ctx, "request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
