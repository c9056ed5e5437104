package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-api/internal/audit"
	"github.com/BruksfildServices01/booking-api/internal/config"
	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
	"github.com/BruksfildServices01/booking-api/internal/infra/ratelimit"
	"github.com/BruksfildServices01/booking-api/internal/logging"
	"github.com/BruksfildServices01/booking-api/internal/models"
	"github.com/BruksfildServices01/booking-api/internal/testutil"
	"github.com/BruksfildServices01/booking-api/internal/validators"
)

const testSecret = "test-secret"

type server struct {
	t  *testing.T
	db *gorm.DB
	r  *gin.Engine
}

func newServer(t *testing.T, limiter func(*miniredis.Miniredis) *ratelimit.RedisLimiter) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validators.Init()

	db := testutil.NewDB(t)
	cfg := &config.Config{
		AppEnv:             "test",
		JWTSecret:          testSecret,
		Timezone:           "Europe/Paris",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}

	deps := Deps{
		Log:   logging.Discard(),
		Audit: audit.New(db),
	}
	if limiter != nil {
		mr := miniredis.RunT(t)
		deps.Limiter = limiter(mr)
	}

	r := gin.New()
	RegisterRoutes(r, db, cfg, deps)
	return &server{t: t, db: db, r: r}
}

func token(t *testing.T, p identity.Principal) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  p.UserID,
		"role": string(p.Role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func (s *server) do(method, path string, p *identity.Principal, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if p != nil {
		req.Header.Set("Authorization", "Bearer "+token(s.t, *p))
	}

	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Code   string            `json:"error_code"`
	Fields map[string]string `json:"fields"`
}

type listBody[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func createBody(employerID uint) map[string]any {
	return map[string]any{
		"employer_id":  employerID,
		"date":         testutil.Slot().Format(time.RFC3339),
		"description":  "haircut",
		"total_amount": "40.00",
	}
}

// ======================================================
// AUTH
// ======================================================

func TestAuth_RejectsMissingAndForgedTokens(t *testing.T) {
	s := newServer(t, nil)

	w := s.do(http.MethodGet, "/api/appointments", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing_authorization_header", decode[errorBody](t, w).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", decode[errorBody](t, w).Code)
}

func TestAuth_RejectsUnknownRole(t *testing.T) {
	s := newServer(t, nil)

	p := identity.Principal{UserID: 1, Role: "admin"}
	w := s.do(http.MethodGet, "/api/appointments", &p, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token_payload", decode[errorBody](t, w).Code)
}

// ======================================================
// APPOINTMENTS
// ======================================================

func TestAppointments_FullLifecycleOverHTTP(t *testing.T) {
	s := newServer(t, nil)
	client := testutil.SeedClient(t, s.db, "ana")
	employer := testutil.SeedEmployer(t, s.db, "bob")

	w := s.do(http.MethodPost, "/api/appointments", &client.Principal, createBody(employer.Employer.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ap := decode[models.Appointment](t, w)
	assert.Equal(t, domain.StatusPending, ap.Status)
	assert.True(t, ap.Date.Equal(testutil.Slot()))

	w = s.do(http.MethodGet, "/api/notifications/unread-count", &employer.Principal, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]int64](t, w)["unread"])

	path := fmt.Sprintf("/api/appointments/%d", ap.ID)
	for _, next := range []string{"accepted", "in_progress"} {
		w = s.do(http.MethodPatch, path+"/status", &employer.Principal, map[string]string{"status": next})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = s.do(http.MethodPost, path+"/payment", &client.Principal, map[string]string{"payment_method": "cash"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[models.Appointment](t, w).IsPaid)

	w = s.do(http.MethodPost, path+"/review", &client.Principal, map[string]any{"rating": 5, "feedback": "great"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.StatusCompleted, decode[models.Appointment](t, w).Status)

	var emp models.Employer
	require.NoError(t, s.db.First(&emp, employer.Employer.ID).Error)
	assert.InDelta(t, 5.0, emp.AverageRating, 1e-9)
	assert.Equal(t, 1, emp.TotalReviews)

	w = s.do(http.MethodGet, "/api/appointments?status=completed", &employer.Principal, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[listBody[map[string]any]](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "ana", list.Data[0]["client_name"])
}

func TestAppointments_CreateValidationAndConflicts(t *testing.T) {
	s := newServer(t, nil)
	client := testutil.SeedClient(t, s.db, "ana")
	other := testutil.SeedClient(t, s.db, "carla")
	employer := testutil.SeedEmployer(t, s.db, "bob")

	w := s.do(http.MethodPost, "/api/appointments", &client.Principal, map[string]any{"date": "tomorrow"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "invalid_request", body.Code)
	assert.Contains(t, body.Fields, "employer_id")

	bad := createBody(employer.Employer.ID)
	bad["date"] = "14/01/2030"
	w = s.do(http.MethodPost, "/api/appointments", &client.Principal, bad)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, "/api/appointments", &client.Principal, createBody(employer.Employer.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/appointments", &other.Principal, createBody(employer.Employer.ID))
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_unavailable", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, "/api/appointments", &employer.Principal, createBody(employer.Employer.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAppointments_LocalDateIsReadInBusinessTimezone(t *testing.T) {
	s := newServer(t, nil)
	client := testutil.SeedClient(t, s.db, "ana")
	employer := testutil.SeedEmployer(t, s.db, "bob")

	body := createBody(employer.Employer.ID)
	body["date"] = "2030-01-14T10:00"

	w := s.do(http.MethodPost, "/api/appointments", &client.Principal, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, decode[models.Appointment](t, w).Date.Equal(testutil.Slot()))
}

func TestAppointments_IllegalTransitionIsConflict(t *testing.T) {
	s := newServer(t, nil)
	client := testutil.SeedClient(t, s.db, "ana")
	employer := testutil.SeedEmployer(t, s.db, "bob")
	ap := testutil.SeedAppointment(t, s.db, client, employer, domain.StatusPending, testutil.Slot())

	path := fmt.Sprintf("/api/appointments/%d/status", ap.ID)
	w := s.do(http.MethodPatch, path, &employer.Principal, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPatch, "/api/appointments/abc/status", &employer.Principal, map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/api/appointments/9999/status", &employer.Principal, map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAppointments_ReviewRatingOutOfRange(t *testing.T) {
	s := newServer(t, nil)
	client := testutil.SeedClient(t, s.db, "ana")
	employer := testutil.SeedEmployer(t, s.db, "bob")
	ap := testutil.SeedAppointment(t, s.db, client, employer, domain.StatusCompleted, testutil.Slot())

	w := s.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/review", ap.ID), &client.Principal, map[string]any{"rating": 9})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "invalid_rating", body.Code)
	assert.Contains(t, body.Fields, "rating")
}

// ======================================================
// AVAILABILITY
// ======================================================

func TestAvailability_CheckAndManageWindows(t *testing.T) {
	s := newServer(t, nil)
	client := testutil.SeedClient(t, s.db, "ana")
	employer := testutil.SeedEmployer(t, s.db, "bob")

	checkURL := fmt.Sprintf("/api/employers/%d/availability?at=%s", employer.Employer.ID, "2030-01-14T10:00")
	w := s.do(http.MethodGet, checkURL, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, w)["available"])

	testutil.SeedAppointment(t, s.db, client, employer, domain.StatusAccepted, testutil.Slot())
	w = s.do(http.MethodGet, checkURL, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["available"])

	w = s.do(http.MethodPost, "/api/me/availabilities", &employer.Principal, map[string]any{
		"day_of_week": 2, "start_time": "9am", "end_time": "12:00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "start_time")

	w = s.do(http.MethodPost, "/api/me/availabilities", &employer.Principal, map[string]any{
		"day_of_week": 0, "start_time": "10:00", "end_time": "12:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	row := decode[models.Availability](t, w)
	assert.True(t, row.IsAvailable)

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/me/availabilities/%d", row.ID), &employer.Principal, map[string]any{"is_available": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[models.Availability](t, w).IsAvailable)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/employers/%d/availabilities", employer.Employer.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[listBody[models.Availability]](t, w).Total)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/me/availabilities/%d", row.ID), &client.Principal, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/me/availabilities/%d", row.ID), &employer.Principal, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

// ======================================================
// NOTIFICATIONS
// ======================================================

func TestNotifications_ListAndMarkRead(t *testing.T) {
	s := newServer(t, nil)
	client := testutil.SeedClient(t, s.db, "ana")
	employer := testutil.SeedEmployer(t, s.db, "bob")

	w := s.do(http.MethodPost, "/api/appointments", &client.Principal, createBody(employer.Employer.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/notifications?unread=true", &employer.Principal, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[listBody[models.Notification]](t, w)
	require.Equal(t, 1, list.Total)
	n := list.Data[0]
	assert.Equal(t, "appointment_request", string(n.Type))

	w = s.do(http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", n.ID), &client.Principal, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", n.ID), &employer.Principal, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.Notification](t, w).IsRead)

	w = s.do(http.MethodGet, "/api/notifications?unread=true", &employer.Principal, nil)
	assert.Equal(t, 0, decode[listBody[models.Notification]](t, w).Total)
}

// ======================================================
// AUDIT / OPS
// ======================================================

func TestAuditLogs_ScopedToCaller(t *testing.T) {
	s := newServer(t, nil)
	client := testutil.SeedClient(t, s.db, "ana")
	employer := testutil.SeedEmployer(t, s.db, "bob")

	w := s.do(http.MethodPost, "/api/appointments", &client.Principal, createBody(employer.Employer.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/me/audit-logs?entity=appointment", &client.Principal, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["total"])

	w = s.do(http.MethodGet, "/api/me/audit-logs", &employer.Principal, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["total"])
}

func TestHealthAndRequestID(t *testing.T) {
	s := newServer(t, nil)

	w := s.do(http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRateLimit_BlocksBookingBurst(t *testing.T) {
	s := newServer(t, func(mr *miniredis.Miniredis) *ratelimit.RedisLimiter {
		rdb := ratelimit.NewRedisClient(mr.Addr(), "")
		return ratelimit.NewRedisLimiter(rdb, 1, time.Minute, "test")
	})
	client := testutil.SeedClient(t, s.db, "ana")
	employer := testutil.SeedEmployer(t, s.db, "bob")

	w := s.do(http.MethodPost, "/api/appointments", &client.Principal, createBody(employer.Employer.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/appointments", &client.Principal, createBody(employer.Employer.ID))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/appointments", &client.Principal, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAppointments_ResponsesOmitUnloadedParties(t *testing.T) {
	s := newServer(t, nil)
	client := testutil.SeedClient(t, s.db, "ana")
	employer := testutil.SeedEmployer(t, s.db, "bob")

	w := s.do(http.MethodPost, "/api/appointments", &client.Principal, createBody(employer.Employer.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.NotContains(t, created, "client")
	assert.NotContains(t, created, "employer")
	assert.NotZero(t, created["client_id"])
	assert.NotZero(t, created["employer_id"])

	path := fmt.Sprintf("/api/appointments/%v/status", created["id"])
	w = s.do(http.MethodPatch, path, &employer.Principal, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[map[string]any](t, w)
	assert.NotContains(t, updated, "client")
	assert.NotContains(t, updated, "employer")
}

// ======================================================
// PAYMENT WEBHOOK
// ======================================================

func TestPaymentWebhook_IgnoresOtherTopicsAndNeedsGateway(t *testing.T) {
	s := newServer(t, nil)

	w := s.do(http.MethodPost, "/api/payments/mercadopago/webhook?type=merchant_order&data.id=1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ignored", decode[map[string]any](t, w)["status"])

	w = s.do(http.MethodPost, "/api/payments/mercadopago/webhook", nil, map[string]any{"type": "payment", "data": map[string]any{}})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "payment_id_required", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, "/api/payments/mercadopago/webhook", nil, map[string]any{"type": "payment", "data": map[string]any{"id": "123"}})
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	assert.Equal(t, "payment_gateway_disabled", decode[errorBody](t, w).Code)
}
