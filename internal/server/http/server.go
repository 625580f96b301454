// Package http exposes the BitNet REST API over chi.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/bitnet/internal/logging"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
	"github.com/dmitrijs2005/bitnet/internal/server/services"
	"github.com/dmitrijs2005/bitnet/internal/server/telemetry"
)

// UserService is the account logic the API needs.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Profile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) (*services.ResetGrant, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	Authenticate(ctx context.Context, token string) (int64, error)
}

// CompanyService is the company directory logic the API needs.
type CompanyService interface {
	Create(ctx context.Context, ownerID int64, in models.CompanyInput) (*models.Company, error)
	Mine(ctx context.Context, ownerID int64) (*models.Company, error)
	UpdateMine(ctx context.Context, ownerID int64, in models.CompanyInput) (*models.Company, error)
	List(ctx context.Context) ([]*models.Company, error)
	Get(ctx context.Context, id int64) (*models.Company, error)
	QRCode(ctx context.Context, ownerID int64) (*services.QRCode, error)
}

// Options tune transport behaviour.
type Options struct {
	CORSOrigins []string
	// DevMode adds error details to 500 responses.
	DevMode bool
	// ExposeResetToken returns reset tokens and links from forgot-password.
	ExposeResetToken bool
}

type Server struct {
	users     UserService
	companies CompanyService
	metrics   *telemetry.Metrics
	logger    logging.Logger
	opts      Options
	now       func() time.Time
}

func NewServer(users UserService, companies CompanyService, metrics *telemetry.Metrics, l logging.Logger, opts Options) *Server {
	if metrics == nil {
		metrics = telemetry.NewMetrics()
	}
	return &Server{
		users:     users,
		companies: companies,
		metrics:   metrics,
		logger:    l.With("module", "http_server"),
		opts:      opts,
		now:       time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(s.recoverer)
	r.Use(s.tracing)
	r.Use(s.observe)

	r.Get("/health", s.handleHealth)
	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/reset-password", s.handleResetPassword)
		r.With(s.authMiddleware).Get("/profile", s.handleGetProfile)
		r.With(s.authMiddleware).Put("/profile", s.handleUpdateProfile)
	})

	r.Route("/api/companies", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/", s.handleCreateCompany)
		r.Get("/", s.handleListCompanies)
		r.Get("/my-profile", s.handleGetMyCompany)
		r.Put("/my-profile", s.handleUpdateMyCompany)
		r.Get("/my-profile/qr", s.handleMyCompanyQR)
		r.Get("/{id}", s.handleGetCompany)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})

	return r
}

// Run serves the API on addr until ctx is done, then shuts down within 10s.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}
