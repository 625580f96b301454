package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/logging"
	"github.com/dmitrijs2005/bitnet/internal/server/auth"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerAnn(t *testing.T, s *UserService) *models.User {
	t.Helper()
	u, _, err := s.Register(context.Background(), RegisterInput{
		Email: " Ann@Example.com ", Password: "secret1", FirstName: "Ann", LastName: "Lee", Company: "Acme",
	})
	require.NoError(t, err)
	return u
}

func TestRegister_Success(t *testing.T) {
	s := newTestUserService(t, repomanager.NewMemoryRepositoryManager())

	u, token, err := s.Register(context.Background(), RegisterInput{
		Email: " Ann@Example.com ", Password: "secret1", FirstName: "Ann", LastName: "Lee",
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "secret1"))

	id, err := auth.GetUserIDFromToken(token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestRegister_Validation(t *testing.T) {
	s := newTestUserService(t, repomanager.NewMemoryRepositoryManager())

	tests := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"missing last name", RegisterInput{Email: "a@b.c", Password: "secret1", FirstName: "A"}, "Email, password, first name, and last name are required"},
		{"blank names", RegisterInput{Email: "a@b.c", Password: "secret1", FirstName: " ", LastName: " "}, "Email, password, first name, and last name are required"},
		{"bad email", RegisterInput{Email: "nope", Password: "secret1", FirstName: "A", LastName: "B"}, "Please provide a valid email address"},
		{"short password", RegisterInput{Email: "a@b.c", Password: "12345", FirstName: "A", LastName: "B"}, "Password must be at least 6 characters long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, tt.msg, common.Message(err))
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	s := newTestUserService(t, repomanager.NewMemoryRepositoryManager())
	registerAnn(t, s)

	_, _, err := s.Register(context.Background(), RegisterInput{
		Email: "ann@example.com", Password: "secret1", FirstName: "Ann", LastName: "Lee",
	})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.Equal(t, "User with this email already exists", common.Message(err))
}

func TestRegister_RepoError(t *testing.T) {
	s := newTestUserService(t, failingRepoManager{})

	_, _, err := s.Register(context.Background(), RegisterInput{
		Email: "a@b.c", Password: "secret1", FirstName: "A", LastName: "B",
	})
	assert.True(t, isBoom(err))
	assert.ErrorContains(t, err, "error creating user")
}

func TestLogin_Flows(t *testing.T) {
	s := newTestUserService(t, repomanager.NewMemoryRepositoryManager())
	ann := registerAnn(t, s)
	ctx := context.Background()

	u, token, err := s.Login(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, u.ID)
	assert.NotEmpty(t, token)

	_, _, err = s.Login(ctx, "ann@example.com", "wrong-password")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", common.Message(err))

	_, _, err = s.Login(ctx, "ghost@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", common.Message(err))

	_, _, err = s.Login(ctx, "", "secret1")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Email and password are required", common.Message(err))

	_, _, err = newTestUserService(t, failingRepoManager{}).Login(ctx, "a@b.c", "secret1")
	assert.True(t, isBoom(err))
}

func TestProfileAndUpdate(t *testing.T) {
	s := newTestUserService(t, repomanager.NewMemoryRepositoryManager())
	ann := registerAnn(t, s)
	ctx := context.Background()

	got, err := s.Profile(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Company)

	title := "CTO"
	bio := "Builds things"
	updated, err := s.UpdateProfile(ctx, ann.ID, models.ProfileUpdate{JobTitle: &title, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "CTO", updated.JobTitle)
	assert.Equal(t, "Builds things", updated.Bio)
	assert.Equal(t, "Ann", updated.FirstName)

	blank := "  "
	_, err = s.UpdateProfile(ctx, ann.ID, models.ProfileUpdate{FirstName: &blank})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Profile(ctx, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = s.UpdateProfile(ctx, 999, models.ProfileUpdate{JobTitle: &title})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateProfile_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	s := NewUserService(db, failingRepoManager{}, testConfig(), logging.NewDiscardLogger())
	title := "CTO"
	_, err = s.UpdateProfile(context.Background(), 1, models.ProfileUpdate{JobTitle: &title})
	assert.True(t, isBoom(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForgotAndResetPassword(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := newTestUserService(t, rm)
	ann := registerAnn(t, s)
	ctx := context.Background()

	grant, err := s.ForgotPassword(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.Len(t, grant.Token, 64)
	assert.Equal(t, "https://bitnet.test/reset-password?token="+grant.Token, grant.Link)

	require.NoError(t, s.ResetPassword(ctx, grant.Token, "newsecret"))

	_, _, err = s.Login(ctx, "ann@example.com", "newsecret")
	require.NoError(t, err)
	_, _, err = s.Login(ctx, "ann@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// Tokens are single use.
	err = s.ResetPassword(ctx, grant.Token, "another1")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Invalid or expired reset token", common.Message(err))

	got, err := s.Profile(ctx, ann.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(got.PasswordHash, "newsecret"))
}

func TestForgotPassword_UnknownAndMissing(t *testing.T) {
	s := newTestUserService(t, repomanager.NewMemoryRepositoryManager())
	ctx := context.Background()

	grant, err := s.ForgotPassword(ctx, "ghost@example.com")
	assert.NoError(t, err)
	assert.Nil(t, grant)

	_, err = s.ForgotPassword(ctx, "  ")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Email is required", common.Message(err))

	_, err = newTestUserService(t, failingRepoManager{}).ForgotPassword(ctx, "a@b.c")
	assert.True(t, isBoom(err))
}

func TestResetPassword_ExpiredTokenIsDeleted(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := newTestUserService(t, rm)
	registerAnn(t, s)
	ctx := context.Background()

	require.NoError(t, rm.ResetTokens(nil).Create(ctx, "ann@example.com", "old", -time.Minute))

	err := s.ResetPassword(ctx, "old", "newsecret")
	assert.ErrorIs(t, err, common.ErrResetTokenExpired)
	assert.Equal(t, "Reset token has expired", common.Message(err))

	_, err = rm.ResetTokens(nil).Find(ctx, "old")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestResetPassword_Validation(t *testing.T) {
	s := newTestUserService(t, repomanager.NewMemoryRepositoryManager())
	ctx := context.Background()

	err := s.ResetPassword(ctx, "", "newsecret")
	assert.Equal(t, "Token and new password are required", common.Message(err))

	err = s.ResetPassword(ctx, "tok", "123")
	assert.Equal(t, "Password must be at least 6 characters long", common.Message(err))

	err = s.ResetPassword(ctx, "unknown", "newsecret")
	assert.Equal(t, "Invalid or expired reset token", common.Message(err))
}

func TestResetPassword_UserGone(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := newTestUserService(t, rm)
	ctx := context.Background()

	require.NoError(t, rm.ResetTokens(nil).Create(ctx, "ghost@example.com", "tok", time.Minute))
	err := s.ResetPassword(ctx, "tok", "newsecret")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	s := newTestUserService(t, repomanager.NewMemoryRepositoryManager())
	ctx := context.Background()

	_, err := s.Authenticate(ctx, "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "Access token required", common.Message(err))

	_, err = s.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	assert.Equal(t, "Invalid or expired token", common.Message(err))

	expired, err := auth.GenerateToken(5, []byte("k"), -time.Minute)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	token, err := auth.GenerateToken(5, []byte("k"), time.Hour)
	require.NoError(t, err)
	id, err := s.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	other, err := auth.GenerateToken(5, []byte("other"), time.Hour)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, other)
	assert.True(t, strings.Contains(err.Error(), "Invalid or expired token"))
}
