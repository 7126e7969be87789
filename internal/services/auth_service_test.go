package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/UpwanSingh/FleetControl-sub002/internal/auth"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/repositories"
)

func newAuthService(t *testing.T) (AuthService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return AuthService{
		DB:        db,
		Secret:    []byte("test-secret"),
		TokenTTL:  time.Hour,
		RequestID: "test",
		Now:       time.Now,
	}, mock
}

func TestLoginIssuesDriverToken(t *testing.T) {
	svc, mock := newAuthService(t)
	hash, err := auth.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	mock.ExpectQuery("FROM users WHERE username=\\?").
		WithArgs("ravi").
		WillReturnRows(sqlmock.NewRows(repositories.UserColumns).
			AddRow(int64(4), int64(1), int64(7), "Ravi", "ravi", hash, "driver", true, testNow))

	res, err := svc.Login(context.Background(), " Ravi ", "s3cret-pass")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	rc, err := auth.ParseToken(svc.Secret, res.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if rc.Role != domain.RoleDriver || rc.DriverID != 7 || rc.OwnerID != 1 {
		t.Fatalf("unexpected claims %+v", rc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, mock := newAuthService(t)
	hash, _ := auth.HashPassword("s3cret-pass")

	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows(repositories.UserColumns))
	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows(repositories.UserColumns).
		AddRow(int64(4), int64(1), nil, "Asha", "asha", hash, "owner", true, testNow))
	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows(repositories.UserColumns).
		AddRow(int64(4), int64(1), nil, "Asha", "asha", hash, "owner", false, testNow))

	attempts := []struct{ user, pass string }{
		{"nobody", "s3cret-pass"},
		{"asha", "wrong-pass"},
		{"asha", "s3cret-pass"},
	}
	for _, a := range attempts {
		if _, err := svc.Login(context.Background(), a.user, a.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", a.user, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterOwnerBecomesOwnTenant(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("UPDATE users SET owner_id=\\?").
		WithArgs(int64(12), int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u, err := svc.RegisterOwner(context.Background(), "Asha  Transport", "Asha", "s3cret-pass")
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if u.ID != 12 || u.OwnerID != 12 || u.Username != "asha" || u.Name != "Asha Transport" {
		t.Fatalf("unexpected user %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterOwnerDuplicateUsername(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'asha' for key 'username'"})
	mock.ExpectRollback()

	if _, err := svc.RegisterOwner(context.Background(), "Asha", "asha", "s3cret-pass"); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterOwnerValidation(t *testing.T) {
	svc, mock := newAuthService(t)
	cases := []struct{ name, user, pass string }{
		{"", "asha", "s3cret-pass"},
		{"Asha", "a", "s3cret-pass"},
		{"Asha", "asha!", "s3cret-pass"},
		{"Asha", "asha", "short"},
	}
	for _, c := range cases {
		if _, err := svc.RegisterOwner(context.Background(), c.name, c.user, c.pass); !domain.IsValidation(err) {
			t.Fatalf("%+v: expected validation error, got %v", c, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateDriverLoginOwnerOnly(t *testing.T) {
	svc, mock := newAuthService(t)
	if _, err := svc.CreateDriverLogin(context.Background(), testDrv, 7, "ravi", "s3cret-pass"); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FROM drivers").WithArgs(int64(1), int64(7)).WillReturnRows(driverRow(7, true, 0))
	mock.ExpectExec("INSERT INTO users").
		WithArgs(int64(1), int64(7), "Ravi Kumar", "ravi", sqlmock.AnyArg(), "driver", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(13, 1))
	expectAuditInsert(mock, domain.EntityDriver, domain.ActionUpdate)
	mock.ExpectCommit()

	u, err := svc.CreateDriverLogin(context.Background(), testOwner, 7, "Ravi", "s3cret-pass")
	if err != nil {
		t.Fatalf("create login error: %v", err)
	}
	if u.ID != 13 || u.DriverID == nil || *u.DriverID != 7 {
		t.Fatalf("unexpected user %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
