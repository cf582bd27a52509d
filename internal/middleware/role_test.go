package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func invokeWithRole(t *testing.T, mw echo.MiddlewareFunc, role interface{}) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name string
		mw   echo.MiddlewareFunc
		role interface{}
		want int
	}{
		{"admin allowed on admin route", RequireRole("ADMIN"), "ADMIN", http.StatusOK},
		{"user forbidden on admin route", RequireRole("ADMIN"), "USER", http.StatusForbidden},
		{"user allowed on shared route", RequireRole("USER", "ADMIN"), "USER", http.StatusOK},
		{"admin allowed on shared route", RequireRole("USER", "ADMIN"), "ADMIN", http.StatusOK},
		{"missing role forbidden", RequireRole("ADMIN"), nil, http.StatusForbidden},
		{"non-string role forbidden", RequireRole("ADMIN"), 42, http.StatusForbidden},
		{"unknown role forbidden", RequireRole("USER", "ADMIN"), "AUDITOR", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := invokeWithRole(t, tc.mw, tc.role)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
