// Package api is a typed client for the BitNet HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/bitnet/internal/exchange"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company,omitempty"`
	JobTitle  string `json:"jobTitle,omitempty"`
}

type AuthResult struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
	Token   string      `json:"token"`
}

type ForgotResult struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
	ResetLink  string `json:"resetLink"`
}

// QR is the rendered QR of the caller's company.
type QR struct {
	Image string           `json:"qrCode"`
	Data  exchange.Payload `json:"data"`
	Text  string           `json:"text"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &Error{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	in := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", upd, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*ForgotResult, error) {
	var out ForgotResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	in := map[string]string{"token": token, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/api/auth/reset-password", in, nil)
}

type companyEnvelope struct {
	Company models.Company `json:"company"`
}

func (c *Client) CreateCompany(ctx context.Context, in models.CompanyInput) (*models.Company, error) {
	var out companyEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/companies", in, &out); err != nil {
		return nil, err
	}
	return &out.Company, nil
}

func (c *Client) MyCompany(ctx context.Context) (*models.Company, error) {
	var out companyEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/companies/my-profile", nil, &out); err != nil {
		return nil, err
	}
	return &out.Company, nil
}

func (c *Client) UpdateMyCompany(ctx context.Context, in models.CompanyInput) (*models.Company, error) {
	var out companyEnvelope
	if err := c.do(ctx, http.MethodPut, "/api/companies/my-profile", in, &out); err != nil {
		return nil, err
	}
	return &out.Company, nil
}

func (c *Client) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var out struct {
		Companies []models.Company `json:"companies"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/companies", nil, &out); err != nil {
		return nil, err
	}
	return out.Companies, nil
}

func (c *Client) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	var out companyEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/companies/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out.Company, nil
}

func (c *Client) MyCompanyQR(ctx context.Context) (*QR, error) {
	var out QR
	if err := c.do(ctx, http.MethodGet, "/api/companies/my-profile/qr", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
