package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bitnet/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ = `(?s)^\s*INSERT\s+INTO\s+password_reset_tokens\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
	selectQ = `(?s)^\s*SELECT\s+email,\s*expires_at\s+FROM\s+password_reset_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
	deleteQ = `(?s)^\s*DELETE\s+FROM\s+password_reset_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WithArgs("tok", "ann@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), "ann@example.com", "tok", 15*time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("insert failed"))

	err := repo.Create(context.Background(), "ann@example.com", "tok", time.Minute)
	if err == nil || !regexp.MustCompile(`error performing sql request: .*insert failed`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestFind(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(10 * time.Minute)
	mock.ExpectQuery(selectQ).WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"email", "expires_at"}).AddRow("ann@example.com", exp))

	rt, err := repo.Find(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if rt.Token != "tok" || rt.Email != "ann@example.com" || !rt.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected token: %+v", rt)
	}

	mock.ExpectQuery(selectQ).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	if _, err := repo.Find(context.Background(), "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}

	mock.ExpectQuery(selectQ).WithArgs("x").WillReturnError(errors.New("db err"))
	if _, err := repo.Find(context.Background(), "x"); err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs("tok").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), "tok"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(deleteQ).WithArgs("tok").WillReturnError(errors.New("db err"))
	if err := repo.Delete(context.Background(), "tok"); err == nil {
		t.Fatalf("expected error")
	}
}
