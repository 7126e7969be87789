package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UpwanSingh/FleetControl-sub002/internal/auth"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func protected() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Auth(secret))
	r.GET("/me", func(c *gin.Context) {
		rc, _ := GetRequestContext(c)
		c.JSON(http.StatusOK, gin.H{"owner_id": rc.OwnerID, "role": rc.Role})
	})
	r.GET("/owner-only", RequireRoles(domain.RoleOwner), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func bearer(t *testing.T, rc domain.RequestContext) string {
	t.Helper()
	tok, err := auth.SignToken(secret, rc, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	return "Bearer " + tok
}

func TestAuthMiddleware(t *testing.T) {
	r := protected()
	owner := domain.RequestContext{UserID: 1, OwnerID: 1, Role: domain.RoleOwner, Name: "Asha"}

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", bearer(t, owner), http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, w.Code)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s: missing request id header", tc.name)
		}
	}
}

func TestRequireRoles(t *testing.T) {
	r := protected()
	driver := domain.RequestContext{UserID: 2, OwnerID: 1, DriverID: 7, Role: domain.RoleDriver, Name: "Ravi"}
	owner := domain.RequestContext{UserID: 1, OwnerID: 1, Role: domain.RoleOwner, Name: "Asha"}

	req := httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	req.Header.Set("Authorization", bearer(t, driver))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("driver: expected 403, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	req.Header.Set("Authorization", bearer(t, owner))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("owner: expected 204, got %d", w.Code)
	}
}

func TestRequestIDKeepsClientValue(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" {
		t.Fatalf("expected client request id, got %q", w.Body.String())
	}
}
