package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/bitnet/internal/client/api"
	"github.com/dmitrijs2005/bitnet/internal/client/config"
	"github.com/dmitrijs2005/bitnet/internal/client/ledger"
	"github.com/dmitrijs2005/bitnet/internal/client/services"
	"github.com/dmitrijs2005/bitnet/internal/client/storage"
	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/logging"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake session ----

type fakeSession struct {
	user *models.User

	restoreErr error
	refreshErr error

	registerIn api.RegisterRequest
	loginEmail string
	loginPass  string
	loginErr   error

	logoutCalled bool
	updateIn     models.ProfileUpdate
	forgot       *api.ForgotResult
	resetToken   string
	resetPass    string
}

func (f *fakeSession) Restore(context.Context) (*models.User, error) {
	if f.restoreErr != nil {
		return nil, f.restoreErr
	}
	return f.user, nil
}
func (f *fakeSession) Register(_ context.Context, in api.RegisterRequest) (*models.User, error) {
	f.registerIn = in
	f.user = &models.User{ID: 1, Email: in.Email, FirstName: in.FirstName, LastName: in.LastName}
	return f.user, nil
}
func (f *fakeSession) Login(_ context.Context, email string, password []byte) (*models.User, error) {
	f.loginEmail, f.loginPass = email, string(password)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.user = &models.User{ID: 1, Email: email, FirstName: "Ada", LastName: "Lovelace"}
	return f.user, nil
}
func (f *fakeSession) Logout(context.Context) error {
	f.logoutCalled = true
	f.user = nil
	return nil
}
func (f *fakeSession) RefreshProfile(context.Context) (*models.User, error) {
	if f.refreshErr != nil {
		if errors.Is(f.refreshErr, api.ErrUnauthorized) {
			f.user = nil
		}
		return nil, f.refreshErr
	}
	return f.user, nil
}
func (f *fakeSession) UpdateProfile(_ context.Context, upd models.ProfileUpdate) (*models.User, error) {
	f.updateIn = upd
	upd.Apply(f.user)
	return f.user, nil
}
func (f *fakeSession) ForgotPassword(context.Context, string) (*api.ForgotResult, error) {
	return f.forgot, nil
}
func (f *fakeSession) ResetPassword(_ context.Context, token string, pw []byte) error {
	f.resetToken, f.resetPass = token, string(pw)
	return nil
}
func (f *fakeSession) User() *models.User { return f.user }

// ---- helpers ----

// newTestApp builds an App over a real ledger in a temp SQLite file. Prompts
// read from input; output is collected in the returned buffer.
func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer, *fakeSession) {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.NewDiscardLogger()
	l := ledger.New(storage.NewStore(db), log, ledger.Options{})
	sess := &fakeSession{}
	out := &bytes.Buffer{}

	return &App{
		log:       log,
		health:    func(context.Context) error { return nil },
		session:   sess,
		companies: &fakeCompanies{},
		contacts:  services.NewContactService(l, filepath.Join(t.TempDir(), "exports"), log),
		ledger:    l,
		reader:    bufio.NewReader(strings.NewReader(input)),
		out:       out,
	}, out, sess
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

// ---- tests ----

func TestIsLoggedInAndStatus(t *testing.T) {
	a, _, sess := newTestApp(t, "")
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "(guest)", a.getStatus())

	sess.user = &models.User{Email: "ada@example.com"}
	a.setMode(ModeOnline)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(ada@example.com online)", a.getStatus())
}

func TestCheckOnline_SwitchesMode(t *testing.T) {
	a, _, _ := newTestApp(t, "")
	up := true
	a.health = func(context.Context) error {
		if up {
			return nil
		}
		return api.ErrUnavailable
	}

	a.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, a.Mode())

	up = false
	a.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, a.Mode())
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	a, _, _ := newTestApp(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	<-done
}

func TestRestore(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		a, out, sess := newTestApp(t, "")
		sess.restoreErr = services.ErrNotLoggedIn
		a.restore(context.Background())
		assert.Empty(t, out.String())
	})

	t.Run("welcome back", func(t *testing.T) {
		a, out, sess := newTestApp(t, "")
		sess.user = &models.User{FirstName: "Ada", LastName: "Lovelace"}
		a.restore(context.Background())
		assert.Equal(t, "Welcome back, Ada Lovelace\n", out.String())
	})

	t.Run("expired token", func(t *testing.T) {
		a, out, sess := newTestApp(t, "")
		sess.user = &models.User{FirstName: "Ada"}
		sess.refreshErr = api.ErrUnauthorized
		a.restore(context.Background())
		assert.Contains(t, out.String(), "session has expired")
		assert.False(t, a.isLoggedIn())
	})

	t.Run("offline uses cache", func(t *testing.T) {
		a, out, sess := newTestApp(t, "")
		a.health = func(context.Context) error { return api.ErrUnavailable }
		sess.user = &models.User{FirstName: "Ada", LastName: "Lovelace"}
		sess.refreshErr = common.ErrInternal
		a.restore(context.Background())
		assert.Equal(t, ModeOffline, a.Mode())
		assert.Equal(t, "Welcome back, Ada Lovelace\n", out.String())
	})
}

func TestRun_ExitsOnQuit(t *testing.T) {
	capturePrint(t)
	a, out, sess := newTestApp(t, "contacts\nexit\n")
	sess.restoreErr = services.ErrNotLoggedIn

	a.Run(context.Background())
	assert.Contains(t, out.String(), "Welcome to BitNet CLI")
	assert.Contains(t, out.String(), "No contacts found")
}

func TestNewApp_OpensStore(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DBPath = filepath.Join(t.TempDir(), "app.db")
	cfg.ExportDir = t.TempDir()

	a, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, a.probe, "gRPC probe is used when an address is set")
	a.Close()

	cfg.GRPCAddr = ""
	a, err = NewApp(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, a.probe)
	a.Close()

	cfg.DBPath = filepath.Join(t.TempDir(), "missing", "dir", "app.db")
	_, err = NewApp(context.Background(), cfg)
	assert.Error(t, err)
}
