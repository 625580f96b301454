// Package services contains server-side business logic. This file implements
// UserService: registration, login, profile reads and edits, and the
// forgot/reset password flow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/dbx"
	"github.com/dmitrijs2005/bitnet/internal/logging"
	"github.com/dmitrijs2005/bitnet/internal/server/auth"
	"github.com/dmitrijs2005/bitnet/internal/server/config"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/repomanager"
)

const minPasswordLength = 6

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	JobTitle  string `json:"jobTitle"`
}

// ResetGrant is what ForgotPassword issues for a known email.
type ResetGrant struct {
	Token string
	Link  string
}

type UserService struct {
	db                 *sql.DB
	repomanager        repomanager.RepositoryManager
	jwtSecret          []byte
	tokenValidity      time.Duration
	resetTokenValidity time.Duration
	baseURL            string
	log                logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                 db,
		repomanager:        m,
		jwtSecret:          []byte(cfg.SecretKey),
		tokenValidity:      cfg.TokenValidityDuration,
		resetTokenValidity: cfg.ResetTokenValidityDuration,
		baseURL:            strings.TrimRight(cfg.BaseURL, "/"),
		log:                log.With("module", "users"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns it with a session token.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	email := normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return nil, "", common.NewError(common.ErrValidation, "Email, password, first name, and last name are required")
	}
	if !strings.Contains(email, "@") {
		return nil, "", common.NewError(common.ErrValidation, "Please provide a valid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", common.NewError(common.ErrValidation, "Password must be at least 6 characters long")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: hash password: %v", common.ErrInternal, err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Company:      strings.TrimSpace(in.Company),
		JobTitle:     strings.TrimSpace(in.JobTitle),
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, "", common.NewError(common.ErrAlreadyExists, "User with this email already exists")
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Login checks credentials. Unknown emails and wrong passwords fail the same way.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", common.NewError(common.ErrValidation, "Email and password are required")
	}

	invalid := common.NewError(common.ErrUnauthorized, "Invalid email or password")

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", invalid
		}
		return nil, "", fmt.Errorf("error loading user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", invalid
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of upd. Names may not be blanked.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error) {
	for _, name := range []*string{upd.FirstName, upd.LastName} {
		if name != nil && strings.TrimSpace(*name) == "" {
			return nil, common.NewError(common.ErrValidation, "First name and last name cannot be empty")
		}
	}

	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		upd.Apply(user)
		updated, err = repo.Update(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return updated, nil
}

// ForgotPassword issues a reset token when email belongs to a user. For
// unknown emails it returns a nil grant and no error, so callers answer the
// same way in both cases.
func (s *UserService) ForgotPassword(ctx context.Context, email string) (*ResetGrant, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, common.NewError(common.ErrValidation, "Email is required")
	}

	if _, err := s.repomanager.Users(s.db).GetByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Debug(ctx, "password reset requested for unknown email")
			return nil, nil
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("%w: generate reset token: %v", common.ErrInternal, err)
	}
	if err := s.repomanager.ResetTokens(s.db).Create(ctx, email, token, s.resetTokenValidity); err != nil {
		return nil, fmt.Errorf("error storing reset token: %w", err)
	}

	s.log.Info(ctx, "password reset token issued")
	return &ResetGrant{
		Token: token,
		Link:  s.baseURL + "/reset-password?token=" + url.QueryEscape(token),
	}, nil
}

// ResetPassword consumes token and sets a new password. Expired tokens are
// deleted and rejected.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return common.NewError(common.ErrValidation, "Token and new password are required")
	}
	if len(newPassword) < minPasswordLength {
		return common.NewError(common.ErrValidation, "Password must be at least 6 characters long")
	}

	invalid := common.NewError(common.ErrValidation, "Invalid or expired reset token")

	tokens := s.repomanager.ResetTokens(s.db)
	rt, err := tokens.Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return invalid
		}
		return fmt.Errorf("error loading reset token: %w", err)
	}
	if rt.Expired(time.Now()) {
		if err := tokens.Delete(ctx, token); err != nil {
			s.log.Warn(ctx, "failed to delete expired reset token", "error", err)
		}
		return common.NewError(common.ErrResetTokenExpired, "Reset token has expired")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: hash password: %v", common.ErrInternal, err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		user, err := users.GetByEmail(ctx, rt.Email)
		if err != nil {
			return err
		}
		if err := users.UpdatePassword(ctx, user.ID, hash); err != nil {
			return err
		}
		return s.repomanager.ResetTokens(tx).Delete(ctx, token)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return invalid
		}
		return fmt.Errorf("error resetting password: %w", err)
	}

	s.log.Info(ctx, "password reset")
	return nil
}

// Authenticate resolves a bearer token to a user id.
func (s *UserService) Authenticate(ctx context.Context, token string) (int64, error) {
	if strings.TrimSpace(token) == "" {
		return 0, common.NewError(common.ErrUnauthorized, "Access token required")
	}
	id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		s.log.Debug(ctx, "token rejected", "error", err)
		return 0, common.NewError(common.ErrInvalidToken, "Invalid or expired token")
	}
	return id, nil
}

func (s *UserService) issueToken(userID int64) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", common.ErrInternal, err)
	}
	return token, nil
}
