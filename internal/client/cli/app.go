package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/bitnet/internal/client/api"
	"github.com/dmitrijs2005/bitnet/internal/client/client"
	"github.com/dmitrijs2005/bitnet/internal/client/config"
	"github.com/dmitrijs2005/bitnet/internal/client/ledger"
	"github.com/dmitrijs2005/bitnet/internal/client/models"
	"github.com/dmitrijs2005/bitnet/internal/client/services"
	"github.com/dmitrijs2005/bitnet/internal/client/storage"
	"github.com/dmitrijs2005/bitnet/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const healthCheckInterval = 30 * time.Second

// contactLedger is the part of the ledger the contact commands use.
type contactLedger interface {
	Get(ctx context.Context, companyID int64) (models.Contact, error)
	List(ctx context.Context, f models.Filter) ([]models.Contact, error)
	Remove(ctx context.Context, companyID int64) error
	AppendNote(ctx context.Context, companyID int64, text, author string) (models.Note, error)
	ScheduleMeeting(ctx context.Context, companyID int64, m models.Meeting) (models.Meeting, error)
	AddReminder(ctx context.Context, companyID int64, r models.Reminder) (models.Reminder, error)
	SetConnectionStatus(ctx context.Context, companyID int64, status models.ConnectionStatus) (models.Contact, error)
	SetCategory(ctx context.Context, companyID int64, category models.Category) (models.Contact, error)
}

type App struct {
	config    *config.Config
	log       logging.Logger
	db        *sql.DB
	health    func(ctx context.Context) error
	probe     io.Closer
	session   services.SessionService
	companies services.CompanyService
	contacts  services.ContactService
	ledger    contactLedger
	reader    *bufio.Reader
	out       io.Writer

	modeMu sync.RWMutex
	mode   Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewJSONLogger(os.Stderr, c.LogLevel)

	db, err := storage.Open(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := storage.NewStore(db)
	apiClient := api.New(c.ServerURL, c.RequestTimeout)
	l := ledger.New(store, log, ledger.Options{})

	// connectivity is probed over gRPC health when an address is configured
	health := apiClient.Health
	var probe io.Closer
	if c.GRPCAddr != "" {
		hc, err := client.NewHealthClient(c.GRPCAddr)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("error creating health client: %w", err)
		}
		health, probe = hc.Ping, hc
	}

	return &App{
		config:    c,
		log:       log,
		db:        db,
		health:    health,
		probe:     probe,
		session:   services.NewSessionService(apiClient, store, log),
		companies: services.NewCompanyService(apiClient, &http.Client{Timeout: c.RequestTimeout}, c.ExportDir, log),
		contacts:  services.NewContactService(l, c.ExportDir, log),
		ledger:    l,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()
	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.health(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher probes the server every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.User() != nil
}

func (a *App) getStatus() string {
	s := "guest"
	if u := a.session.User(); u != nil {
		s = u.Email
	}
	if m := a.Mode(); m != "" {
		s += " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

// restore picks up a saved session and refreshes the profile when the server
// is reachable. Offline, the cached profile is used as is.
func (a *App) restore(ctx context.Context) {
	a.checkOnline(ctx)

	u, err := a.session.Restore(ctx)
	if err != nil {
		if !errors.Is(err, services.ErrNotLoggedIn) {
			a.log.Warn(ctx, "session restore failed", "error", err)
		}
		return
	}
	if a.Mode() == ModeOnline {
		if fresh, err := a.session.RefreshProfile(ctx); err == nil {
			u = fresh
		} else if errors.Is(err, api.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Your session has expired, please log in again.")
			return
		}
	}
	if u != nil {
		fmt.Fprintf(a.out, "Welcome back, %s %s\n", u.FirstName, u.LastName)
	}
}

// Run blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to BitNet CLI (type 'help' for commands)")
	a.restore(ctx)

	go a.StartOnlineStatusWatcher(ctx, healthCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if a.probe != nil {
		_ = a.probe.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
