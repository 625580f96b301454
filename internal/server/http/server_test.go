package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bitnet/internal/exchange"
	"github.com/dmitrijs2005/bitnet/internal/logging"
	"github.com/dmitrijs2005/bitnet/internal/server/config"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bitnet/internal/server/services"
	"github.com/dmitrijs2005/bitnet/internal/server/telemetry"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.BaseURL = "https://bitnet.test"

	rm := repomanager.NewMemoryRepositoryManager()
	log := logging.NewDiscardLogger()
	users := services.NewUserService(nil, rm, cfg, log)
	companies := services.NewCompanyService(nil, rm,
		exchange.Encoder{Strategy: exchange.StrategyRaw, BaseURL: cfg.BaseURL}, 256, nil, log)

	s := NewServer(users, companies, telemetry.NewMetrics(), log, opts)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func register(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	code, body := do(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     email,
		"password":  "secret1",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	})
	require.Equal(t, http.StatusCreated, code, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func companyInput(name string) models.CompanyInput {
	return models.CompanyInput{
		Name:         name,
		Industry:     "Technology",
		Description:  "Analytical engines",
		ContactEmail: "hello@" + strings.ToLower(name) + ".test",
		Website:      "https://" + strings.ToLower(name) + ".test",
		Address:      models.Address{City: "London", Country: "UK"},
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})

	for _, path := range []string{"/health", "/api/health"} {
		code, body := do(t, ts, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "OK", body["status"])
		assert.Equal(t, "2024-05-01T12:00:00Z", body["timestamp"])
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, Options{})

	code, body := do(t, ts, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Route not found", body["error"])
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := register(t, ts, "ada@example.com")

	t.Run("duplicate registration", func(t *testing.T) {
		code, body := do(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "ADA@example.com", "password": "secret1", "firstName": "A", "lastName": "L",
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "User with this email already exists", body["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		code, body := do(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "x@y.z"})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Email, password, first name, and last name are required", body["error"])
	})

	t.Run("login ok", func(t *testing.T) {
		code, body := do(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ada@example.com", "password": "secret1",
		})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Login successful", body["message"])
		assert.NotEmpty(t, body["token"])
		user := body["user"].(map[string]interface{})
		assert.Equal(t, "ada@example.com", user["email"])
		assert.NotContains(t, user, "passwordHash")
	})

	t.Run("login wrong password", func(t *testing.T) {
		code, body := do(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ada@example.com", "password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "Invalid email or password", body["error"])
	})

	t.Run("profile", func(t *testing.T) {
		code, body := do(t, ts, http.MethodGet, "/api/auth/profile", token, nil)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Ada", body["user"].(map[string]interface{})["firstName"])
	})

	t.Run("profile update", func(t *testing.T) {
		code, body := do(t, ts, http.MethodPut, "/api/auth/profile", token, map[string]string{"jobTitle": "Engineer"})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Engineer", body["user"].(map[string]interface{})["jobTitle"])
	})

	t.Run("profile without token", func(t *testing.T) {
		code, body := do(t, ts, http.MethodGet, "/api/auth/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "Access token required", body["error"])
	})

	t.Run("profile with bad token", func(t *testing.T) {
		code, body := do(t, ts, http.MethodGet, "/api/auth/profile", "garbage", nil)
		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "Invalid or expired token", body["error"])
	})

	t.Run("invalid json", func(t *testing.T) {
		resp, err := ts.Client().Post(ts.URL+"/api/auth/login", "application/json", strings.NewReader("{"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestPasswordReset(t *testing.T) {
	ts := newTestServer(t, Options{ExposeResetToken: true})
	register(t, ts, "ada@example.com")

	code, body := do(t, ts, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, forgotPasswordMessage, body["message"])
	assert.NotContains(t, body, "resetToken")

	code, body = do(t, ts, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "ada@example.com"})
	require.Equal(t, http.StatusOK, code)
	resetToken, _ := body["resetToken"].(string)
	require.NotEmpty(t, resetToken)
	assert.Equal(t, "https://bitnet.test/reset-password?token="+resetToken, body["resetLink"])

	code, body = do(t, ts, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token": resetToken, "newPassword": "brandnew",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Password reset successful", body["message"])

	code, _ = do(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "brandnew",
	})
	assert.Equal(t, http.StatusOK, code)

	// Tokens are single use.
	code, _ = do(t, ts, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token": resetToken, "newPassword": "another1",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestForgotPasswordHidesTokenByDefault(t *testing.T) {
	ts := newTestServer(t, Options{})
	register(t, ts, "ada@example.com")

	code, body := do(t, ts, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "ada@example.com"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, forgotPasswordMessage, body["message"])
	assert.NotContains(t, body, "resetToken")
	assert.NotContains(t, body, "resetLink")
}

func TestCompanies(t *testing.T) {
	ts := newTestServer(t, Options{})
	ada := register(t, ts, "ada@example.com")
	bob := register(t, ts, "bob@example.com")

	code, body := do(t, ts, http.MethodGet, "/api/companies/my-profile", ada, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Company profile not found", body["error"])

	code, body = do(t, ts, http.MethodPost, "/api/companies", ada, companyInput("Engines"))
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "Company profile created successfully", body["message"])
	created := body["company"].(map[string]interface{})
	id := int64(created["id"].(float64))

	code, body = do(t, ts, http.MethodPost, "/api/companies", ada, companyInput("Again"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User already has a company profile", body["error"])

	bad := companyInput("Bad")
	bad.Industry = "Alchemy"
	code, body = do(t, ts, http.MethodPost, "/api/companies", bob, bad)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.True(t, strings.HasPrefix(body["error"].(string), "Industry must be one of: "))

	code, _ = do(t, ts, http.MethodPost, "/api/companies", bob, companyInput("Looms"))
	require.Equal(t, http.StatusCreated, code)

	upd := companyInput("Engines Ltd")
	code, body = do(t, ts, http.MethodPut, "/api/companies/my-profile", ada, upd)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Company profile updated successfully", body["message"])
	assert.Equal(t, "Engines Ltd", body["company"].(map[string]interface{})["name"])

	code, body = do(t, ts, http.MethodGet, "/api/companies", bob, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body["companies"], 2)

	code, body = do(t, ts, http.MethodGet, "/api/companies/"+jsonNumber(id), bob, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Engines Ltd", body["company"].(map[string]interface{})["name"])

	code, _ = do(t, ts, http.MethodGet, "/api/companies/9999", bob, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = do(t, ts, http.MethodGet, "/api/companies/abc", bob, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid company id", body["error"])

	code, _ = do(t, ts, http.MethodGet, "/api/companies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestCompanyQR(t *testing.T) {
	ts := newTestServer(t, Options{})
	ada := register(t, ts, "ada@example.com")

	code, _ := do(t, ts, http.MethodGet, "/api/companies/my-profile/qr", ada, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body := do(t, ts, http.MethodPost, "/api/companies", ada, companyInput("Engines"))
	require.Equal(t, http.StatusCreated, code)
	id := int64(body["company"].(map[string]interface{})["id"].(float64))

	code, body = do(t, ts, http.MethodGet, "/api/companies/my-profile/qr", ada, nil)
	require.Equal(t, http.StatusOK, code)

	img, _ := body["qrCode"].(string)
	assert.True(t, strings.HasPrefix(img, "data:image/png;base64,"))

	data := body["data"].(map[string]interface{})
	assert.Equal(t, exchange.Marker, data["type"])
	assert.Equal(t, "Engines", data["name"])
	assert.Equal(t, "https://bitnet.test/company/"+jsonNumber(id), data["url"])

	p, err := exchange.ParseText(body["text"].(string))
	require.NoError(t, err)
	assert.Equal(t, id, p.CompanyID)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, Options{})
	register(t, ts, "ada@example.com")

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `bitnet_events_total{event="user_registered"} 1`)
	assert.Contains(t, buf.String(), `route="/api/auth/register"`)
}

type panickyUsers struct{ UserService }

func (panickyUsers) Login(context.Context, string, string) (*models.User, string, error) {
	panic("boom")
}

type failingUsers struct{ UserService }

func (failingUsers) Login(context.Context, string, string) (*models.User, string, error) {
	return nil, "", errors.New("connection refused")
}

func TestInternalErrors(t *testing.T) {
	log := logging.NewDiscardLogger()
	login := map[string]string{"email": "a@b.c", "password": "x"}

	t.Run("panic is recovered", func(t *testing.T) {
		ts := httptest.NewServer(NewServer(panickyUsers{}, nil, nil, log, Options{}).Router())
		defer ts.Close()

		code, body := do(t, ts, http.MethodPost, "/api/auth/login", "", login)
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Internal server error", body["error"])
	})

	t.Run("details hidden outside dev mode", func(t *testing.T) {
		ts := httptest.NewServer(NewServer(failingUsers{}, nil, nil, log, Options{}).Router())
		defer ts.Close()

		code, body := do(t, ts, http.MethodPost, "/api/auth/login", "", login)
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.NotContains(t, body, "details")
	})

	t.Run("details shown in dev mode", func(t *testing.T) {
		ts := httptest.NewServer(NewServer(failingUsers{}, nil, nil, log, Options{DevMode: true}).Router())
		defer ts.Close()

		code, body := do(t, ts, http.MethodPost, "/api/auth/login", "", login)
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "connection refused", body["details"])
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bearerToken(tt.header), tt.header)
	}
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
