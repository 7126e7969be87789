package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/http/middleware"
	"github.com/UpwanSingh/FleetControl-sub002/internal/repositories"
)

var (
	ownerRC  = domain.RequestContext{UserID: 1, OwnerID: 1, Role: domain.RoleOwner, Name: "Asha"}
	driverRC = domain.RequestContext{UserID: 2, OwnerID: 1, DriverID: 7, Role: domain.RoleDriver, Name: "Ravi"}
	fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEngine mounts fn behind a middleware that authenticates as rc.
func testEngine(rc domain.RequestContext, method, path string, fn gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		middleware.SetRequestContext(c, rc)
		c.Next()
	})
	r.Handle(method, path, fn)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return out
}

func TestRespondDomainErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ValidationError{Field: "bag_count", Msg: "bag count must be greater than 0"}, http.StatusBadRequest},
		{domain.ForbiddenError{Action: "settle a driver"}, http.StatusForbidden},
		{domain.NotFoundError{Resource: "driver", ID: 9}, http.StatusNotFound},
		{domain.ConflictError{Resource: "trip", Msg: "stale"}, http.StatusConflict},
		{domain.NoRateConfiguredError{DistanceKm: 42}, http.StatusUnprocessableEntity},
		{domain.ConfigurationError{Setting: "labour cost"}, http.StatusUnprocessableEntity},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		RespondDomainError(c, tc.err)
		if w.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
	}
}

func TestRespondDomainErrorHidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondDomainError(c, errors.New("dial tcp 10.0.0.5:3306: refused"))
	if strings.Contains(w.Body.String(), "10.0.0.5") {
		t.Fatalf("internal error leaked: %s", w.Body.String())
	}
}

func TestCreateTripMissingSlabReturnsConfigurationMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM drivers").
		WillReturnRows(sqlmock.NewRows(repositories.DriverColumns).
			AddRow(int64(7), int64(1), "Ravi", "", true, 0.0, fixedNow))
	mock.ExpectQuery("FROM clients").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "company_id", "name", "distance_km"}).
			AddRow(int64(4), int64(1), int64(3), "Far Mill", 42.0))
	mock.ExpectQuery("FROM pickup_locations").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).AddRow(int64(5), int64(1), "Yard"))
	mock.ExpectQuery("FROM companies").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "rate_per_bag", "is_active"}).
			AddRow(int64(3), int64(1), "Acme", 12.0, true))
	mock.ExpectQuery("FROM driver_rate_slabs").
		WillReturnRows(sqlmock.NewRows(repositories.SlabColumns).
			AddRow(int64(1), int64(1), 0.0, 25.0, 5.0, true))
	mock.ExpectRollback()

	h := Handler{DB: db, Location: time.UTC, Now: func() time.Time { return fixedNow }}
	r := testEngine(driverRC, http.MethodPost, "/trips", h.CreateTrip)

	body := `{"client_id":4,"pickup_location_id":5,"bag_count":100,"status":"completed"}`
	req := httptest.NewRequest(http.MethodPost, "/trips", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["message"]; got != "no rate configured for 42km - ask owner to add a slab" {
		t.Fatalf("unexpected message %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateTripRejectsEmptyBody(t *testing.T) {
	h := Handler{Location: time.UTC}
	r := testEngine(driverRC, http.MethodPost, "/trips", h.CreateTrip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/trips", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestNetPayableDriverCannotViewOthers(t *testing.T) {
	h := Handler{Location: time.UTC}
	r := testEngine(driverRC, http.MethodGet, "/drivers/:id/net-payable", h.GetNetPayable)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/drivers/8/net-payable", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestNetPayableRejectsReversedDates(t *testing.T) {
	h := Handler{Location: time.UTC}
	r := testEngine(ownerRC, http.MethodGet, "/drivers/:id/net-payable", h.GetNetPayable)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/drivers/7/net-payable?start_date=2024-03-31&end_date=2024-03-01", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestProfitReportUsesInclusiveDays(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM trips").
		WithArgs(int64(1), start, end).
		WillReturnRows(sqlmock.NewRows(repositories.TripColumns).AddRow(
			int64(1), "c1", int64(1), int64(7), int64(3), int64(4), int64(5),
			100, 5.0, 10.0, 1.0, 8.0, "completed", true, false, false, 0, int64(1), start, start,
		))

	h := Handler{DB: db, Location: time.UTC}
	r := testEngine(ownerRC, http.MethodGet, "/reports/profit", h.ProfitReport)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/profit?start_date=2024-03-01&end_date=2024-03-31", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	summary, _ := decode(t, w)["summary"].(map[string]any)
	if summary["netProfit"] != 400.0 || summary["tripCount"] != 1.0 {
		t.Fatalf("unexpected summary %v", summary)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows(repositories.UserColumns))

	h := Handler{DB: db, JWTSecret: []byte("test-secret")}
	r := gin.New()
	r.POST("/auth/login", h.Login)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"ghost","password":"whatever1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
