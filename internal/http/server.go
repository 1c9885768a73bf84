package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/middleware/security"
	"budget/internal/middleware/trace"
	"budget/internal/sheets"
	appweb "budget/web"
)

// Budget is the state the view renders and mutates.
type Budget interface {
	Snapshot() core.Snapshot
	Warnings() []error

	AddIncome(ctx context.Context, d core.IncomeDraft) (core.IncomeItem, error)
	AddExpense(ctx context.Context, d core.ExpenseDraft) (core.ExpenseItem, error)
	BeginEditIncome(ctx context.Context, id int64) (core.IncomeItem, error)
	BeginEditExpense(ctx context.Context, id int64) (core.ExpenseItem, error)
	CancelEdit(ctx context.Context)
	UpdateIncome(ctx context.Context, d core.IncomeDraft) (bool, error)
	UpdateExpense(ctx context.Context, d core.ExpenseDraft) (bool, error)
	DeleteIncome(ctx context.Context, id int64) (bool, error)
	DeleteExpense(ctx context.Context, id int64) (bool, error)
}

type Server struct {
	http.Server
	templates *template.Template
	budget    Budget
	logger    *log.Logger
	trace     *trace.Middleware
	storage   sheets.SlotInspector
	started   time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, budget Budget, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		budget:  budget,
		logger:  logger.WithComponent(log.ComponentHTTP),
		trace:   trace.NewMiddleware(logger),
		started: time.Now(),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Error("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/summary", s.handleSummaryAPI)

	mux.HandleFunc("POST /income", s.handleAddIncome)
	mux.HandleFunc("POST /income/update", s.handleUpdateIncome)
	mux.HandleFunc("POST /income/{id}/edit", s.handleEditIncome)
	mux.HandleFunc("POST /income/{id}/delete", s.handleDeleteIncome)

	mux.HandleFunc("POST /expenses", s.handleAddExpense)
	mux.HandleFunc("POST /expenses/update", s.handleUpdateExpense)
	mux.HandleFunc("POST /expenses/{id}/edit", s.handleEditExpense)
	mux.HandleFunc("POST /expenses/{id}/delete", s.handleDeleteExpense)

	mux.HandleFunc("POST /edit/cancel", s.handleCancelEdit)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Handler = s.trace.Middleware(headers.Middleware(mux))

	return s
}

// SetStorage makes /healthz check the slot store as well.
func (s *Server) SetStorage(st sheets.SlotInspector) {
	s.storage = st
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "HTTP server shutting down", log.FieldOperation, log.OpShutdown)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
