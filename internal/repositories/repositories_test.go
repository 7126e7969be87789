package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

func TestMarkDeductedReportsConflictOnPartialUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	at := time.Date(2024, 3, 31, 18, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE advances SET is_deducted=1, deducted_at=\\?\\s+WHERE owner_id=\\? AND is_deducted=0 AND id IN \\(\\?,\\?\\)").
		WithArgs(at, int64(1), int64(4), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = AdvanceRepository{DB: db}.MarkDeducted(context.Background(), 1, []int64{4, 5}, at)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkDeductedNoIDsIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	if err := (AdvanceRepository{DB: db}).MarkDeducted(context.Background(), 1, nil, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListOutstandingOrdersOldestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("ORDER BY issued_at ASC, id ASC").
		WithArgs(int64(1), int64(7)).
		WillReturnRows(sqlmock.NewRows(AdvanceColumns).
			AddRow(int64(1), int64(1), int64(7), 100.0, day, "cash", false, nil).
			AddRow(int64(2), int64(1), int64(7), 50.0, day.AddDate(0, 0, 1), "", false, nil))

	got, err := AdvanceRepository{DB: db}.ListOutstanding(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[0].Note != "cash" || got[1].DeductedAt != nil {
		t.Fatalf("unexpected advances %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditInsertValidatesBeforeWriting(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	repo := AuditRepository{DB: db}
	bad := []models.AuditLogEntry{
		{EntityType: "BOOKING", Action: domain.ActionCreate, Reason: "x", PerformedBy: "owner:a", CreatedAt: now},
		{EntityType: domain.EntityTrip, Action: "PATCH", Reason: "x", PerformedBy: "owner:a", CreatedAt: now},
		{EntityType: domain.EntityTrip, Action: domain.ActionCreate, Reason: " ", PerformedBy: "owner:a", CreatedAt: now},
		{EntityType: domain.EntityTrip, Action: domain.ActionCreate, Reason: "x", PerformedBy: "", CreatedAt: now},
		{EntityType: domain.EntityTrip, Action: domain.ActionCreate, Reason: "x", PerformedBy: "owner:a"},
	}
	for i, e := range bad {
		if _, err := repo.Insert(context.Background(), e); !domain.IsValidation(err) {
			t.Fatalf("entry %d: expected validation error, got %v", i, err)
		}
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(int64(1), "TRIP", int64(9), "OVERRIDE", "owner:Asha", "recount", nil, "bagCount=80", now).
		WillReturnResult(sqlmock.NewResult(3, 1))
	id, err := repo.Insert(context.Background(), models.AuditLogEntry{
		OwnerID: 1, EntityType: domain.EntityTrip, EntityID: 9, Action: domain.ActionOverride,
		PerformedBy: "owner:Asha", Reason: " recount ", NewValue: "bagCount=80", CreatedAt: now,
	})
	if err != nil || id != 3 {
		t.Fatalf("unexpected insert result %d %v", id, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditListFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("WHERE owner_id=\\? AND entity_type=\\? AND entity_id=\\? AND action=\\?").
		WithArgs(int64(1), "TRIP", int64(9), "OVERRIDE", 20, 20).
		WillReturnRows(sqlmock.NewRows(AuditColumns).
			AddRow(int64(3), int64(1), "TRIP", int64(9), "OVERRIDE", "owner:Asha", "recount", nil, "bagCount=80", time.Now()))

	got, err := AuditRepository{DB: db}.List(context.Background(), 1, AuditFilter{
		EntityType: domain.EntityTrip,
		EntityID:   9,
		Action:     domain.ActionOverride,
		Page:       domain.Pagination{Page: 2, PageSize: 20},
	})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(got) != 1 || got[0].Action != domain.ActionOverride || got[0].OriginalValue != "" {
		t.Fatalf("unexpected entries %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApplyOverrideStaleVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE trips").
		WithArgs(80, "completed", int64(1), int64(9), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = TripsRepository{DB: db}.ApplyOverride(context.Background(), 1, 9, 80, domain.TripCompleted, 2)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripInsertDuplicateCorrelationIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO trips").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-abc' for key 'uq_trips_correlation'"})

	_, err = TripsRepository{DB: db}.Insert(context.Background(), models.Trip{CorrelationID: "abc", OwnerID: 1, BagCount: 10})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !errors.Is(err, ErrDuplicateCorrelationID) {
		t.Fatalf("expected duplicate correlation marker, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserInsertDuplicateUsernameIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err = UserRepository{DB: db}.Insert(context.Background(), models.User{OwnerID: 1, Username: "asha"})
	if !domain.IsConflict(err) || errors.Is(err, ErrDuplicateCorrelationID) {
		t.Fatalf("expected plain conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
