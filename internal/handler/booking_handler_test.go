package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/campusbook/room-booking/internal/repository"
)

// newJSONContext builds an echo context carrying a JSON body and, when uid
// is non-zero, the claims JWTAuth would have set.  These tests cover the
// request-shape paths that fail before any repository is touched.
func newJSONContext(method, target, body string, uid uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != 0 {
		c.Set("user_id", float64(uid)) // JWT numeric claims decode as float64
		c.Set("role", role)
		c.Set("dept_id", float64(1))
	}
	return c, rec
}

func decodeErrors(t *testing.T, rec *httptest.ResponseRecorder) []map[string]string {
	t.Helper()
	var body struct {
		Errors []map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body.Errors
}

func TestBookingCreateRejectsUnauthenticated(t *testing.T) {
	h := &BookingHandler{}
	c, rec := newJSONContext(http.MethodPost, "/v1/bookings", `{}`, 0, "")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBookingCreateValidation(t *testing.T) {
	h := &BookingHandler{}

	t.Run("malformed json", func(t *testing.T) {
		c, rec := newJSONContext(http.MethodPost, "/v1/bookings", `{nope`, 7, "USER")
		if err := h.Create(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("field errors are collected", func(t *testing.T) {
		body := `{"roomId":0,"category":"PARTY","startDate":"soon","endDate":"2026-12-01","description":"x","schedules":[]}`
		c, rec := newJSONContext(http.MethodPost, "/v1/bookings", body, 7, "USER")
		if err := h.Create(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		fields := map[string]bool{}
		for _, e := range decodeErrors(t, rec) {
			fields[e["field"]] = true
		}
		for _, f := range []string{"roomId", "category", "startDate", "schedules"} {
			if !fields[f] {
				t.Fatalf("expected error for %q, got %v", f, fields)
			}
		}
	})
}

func TestBookingGetRejectsBadID(t *testing.T) {
	h := &BookingHandler{}
	c, rec := newJSONContext(http.MethodGet, "/v1/bookings/abc", "", 7, "USER")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRespondDetailOwnership(t *testing.T) {
	detail := &repository.BookingDetail{RequestID: 5, UserID: 42}

	t.Run("foreign booking is forbidden for a plain user", func(t *testing.T) {
		c, rec := newJSONContext(http.MethodGet, "/v1/bookings/5", "", 7, "USER")
		if err := respondDetail(c, 7, detail); err != nil {
			t.Fatalf("respond: %v", err)
		}
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "42") {
			t.Fatalf("forbidden body must not leak booking detail: %s", rec.Body.String())
		}
	})

	t.Run("owner sees their own booking", func(t *testing.T) {
		c, rec := newJSONContext(http.MethodGet, "/v1/bookings/5", "", 42, "USER")
		if err := respondDetail(c, 42, detail); err != nil {
			t.Fatalf("respond: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("admin sees any booking", func(t *testing.T) {
		c, rec := newJSONContext(http.MethodGet, "/v1/bookings/5", "", 7, "ADMIN")
		if err := respondDetail(c, 7, detail); err != nil {
			t.Fatalf("respond: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestAdminUpdateStatusRejectsBadDecision(t *testing.T) {
	h := &AdminBookingHandler{}
	for _, status := range []string{"PENDING", "MAYBE", ""} {
		c, rec := newJSONContext(http.MethodPut, "/v1/admin/bookings/5/status", `{"status":"`+status+`"}`, 7, "ADMIN")
		c.SetParamNames("id")
		c.SetParamValues("5")
		if err := h.UpdateStatus(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status %q: expected 400, got %d", status, rec.Code)
		}
		errs := decodeErrors(t, rec)
		if len(errs) != 1 || errs[0]["field"] != "status" {
			t.Fatalf("status %q: unexpected errors %v", status, errs)
		}
	}
}

func TestAdminScheduleCreateValidation(t *testing.T) {
	h := &AdminScheduleHandler{}
	body := `{"requestId":0,"day":"FUNDAY","startTime":"10:00","endTime":"09:00"}`
	c, rec := newJSONContext(http.MethodPost, "/v1/admin/schedules", body, 7, "ADMIN")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fields := map[string]bool{}
	for _, e := range decodeErrors(t, rec) {
		fields[e["field"]] = true
	}
	for _, f := range []string{"requestId", "day"} {
		if !fields[f] {
			t.Fatalf("expected error for %q, got %v", f, fields)
		}
	}
}
