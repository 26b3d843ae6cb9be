package paperkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBusinessFromQuery validates the query parameter extractor.
func TestBusinessFromQuery(t *testing.T) {
	extractor := BusinessFromQuery("business_id")

	r := httptest.NewRequest("GET", "/api/schedules?business_id=biz-1", nil)
	businessID, err := extractor(r)
	assert.NoError(t, err)
	assert.Equal(t, "biz-1", businessID)

	r = httptest.NewRequest("GET", "/api/schedules", nil)
	businessID, err = extractor(r)
	assert.NoError(t, err)
	assert.Empty(t, businessID)
}

// TestBusinessFromHeader validates the header extractor.
func TestBusinessFromHeader(t *testing.T) {
	extractor := BusinessFromHeader("X-Business-ID")

	r := httptest.NewRequest("GET", "/api/attendance", nil)
	r.Header.Set("X-Business-ID", "biz-1")
	businessID, err := extractor(r)
	assert.NoError(t, err)
	assert.Equal(t, "biz-1", businessID)
}

// TestBusinessFromContext validates the context extractor.
func TestBusinessFromContext(t *testing.T) {
	extractor := BusinessFromContext()

	r := httptest.NewRequest("GET", "/api/attendance", nil)
	r = r.WithContext(WithBusinessContext(r.Context(), "biz-1"))
	businessID, err := extractor(r)
	assert.NoError(t, err)
	assert.Equal(t, "biz-1", businessID)
}

// TestStaticBusinessAndNoBusiness validates the constant extractors.
func TestStaticBusinessAndNoBusiness(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	businessID, err := StaticBusiness("biz-main")(r)
	assert.NoError(t, err)
	assert.Equal(t, "biz-main", businessID)

	businessID, err = NoBusiness()(r)
	assert.NoError(t, err)
	assert.Empty(t, businessID)
}

// TestMiddlewareOptions validates the option application.
func TestMiddlewareOptions(t *testing.T) {
	customExtractorCalled := false
	customHandlerCalled := false

	mw := NewMiddleware(nil,
		WithIdentityExtractor(func(r *http.Request) string {
			customExtractorCalled = true
			return ""
		}),
		WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			customHandlerCalled = true
			assert.ErrorIs(t, err, ErrNoIdentityID)
			w.WriteHeader(http.StatusUnauthorized)
		}),
	)

	handler := mw.RequirePermission("profile", "read", NoBusiness())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without an identity")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/profile", nil))

	assert.True(t, customExtractorCalled)
	assert.True(t, customHandlerCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestDefaultErrorHandlerStatusCodes validates the status mapping.
func TestDefaultErrorHandlerStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{NewError(ErrUnauthorized, "denied"), http.StatusForbidden},
		{NewError(ErrInvalidRule, "bad rule"), http.StatusBadRequest},
		{NewError(ErrInvalidMatrix, "bad entry"), http.StatusBadRequest},
		{NewError(ErrDatabaseError, "boom"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		rec := httptest.NewRecorder()
		defaultErrorHandler(rec, httptest.NewRequest("GET", "/", nil), c.err)
		assert.Equal(t, c.code, rec.Code, "error %v", c.err)
	}
}

// TestInjectAuditContext validates audit metadata extraction from headers.
func TestInjectAuditContext(t *testing.T) {
	mw := NewMiddleware(nil)

	var captured AuditContext
	handler := mw.InjectAuditContext()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetAuditContext(r.Context())
	}))

	r := httptest.NewRequest("POST", "/papers", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	r.Header.Set("User-Agent", "test-agent")
	r.Header.Set("X-Request-ID", "req-1")
	r = r.WithContext(WithIdentityID(r.Context(), "alice"))

	handler.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "203.0.113.9", captured.IPAddress)
	assert.Equal(t, "test-agent", captured.UserAgent)
	assert.Equal(t, "req-1", captured.RequestID)
	assert.Equal(t, "alice", captured.ActorID)
}

// TestInjectAuditContextFallbackIP validates the remote address fallback.
func TestInjectAuditContextFallbackIP(t *testing.T) {
	mw := NewMiddleware(nil)

	var ip string
	handler := mw.InjectAuditContext()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = GetIPAddress(r.Context())
	}))

	r := httptest.NewRequest("POST", "/papers", nil)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, r.RemoteAddr, ip)
}

// TestMiddlewareRequirePermissionIntegration exercises the full decision
// pipeline behind the middleware against a real database.
func TestMiddlewareRequirePermissionIntegration(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	businessID := h.UniqueID("biz")
	h.CreateRegistration(activeRegistration(businessID, "test-admin", VerificationVerified))
	manager := h.UniqueID("manager")
	h.SetupManager(manager, businessID)
	worker := h.UniqueID("worker")
	h.SetupWorker(worker, businessID)

	mw := NewMiddleware(h.GetService())
	handlerRan := false
	handler := mw.RequirePermission("attendance", "approve", BusinessFromHeader("X-Business-ID"))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerRan = true
			require.NotNil(t, FromContext(r.Context()), "checker loaded into context")
		}))

	// Manager passes.
	r := httptest.NewRequest("POST", "/attendance/approve", nil)
	r.Header.Set("X-Business-ID", businessID)
	r = r.WithContext(WithIdentityID(r.Context(), manager))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.True(t, handlerRan)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Worker is denied with 403.
	handlerRan = false
	r = httptest.NewRequest("POST", "/attendance/approve", nil)
	r.Header.Set("X-Business-ID", businessID)
	r = r.WithContext(WithIdentityID(r.Context(), worker))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// TestMiddlewareRequireRoleIntegration validates role gating end to end.
func TestMiddlewareRequireRoleIntegration(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	owner := h.UniqueID("owner")
	businessID := h.SetupOwner(owner)
	seeker := h.UniqueID("seeker")
	h.CreateIdentity(personalIdentity(seeker))

	mw := NewMiddleware(h.GetService())
	handler := mw.RequireRole(RoleOwner, StaticBusiness(businessID))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest("DELETE", "/business", nil)
	r = r.WithContext(WithIdentityID(r.Context(), owner))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)

	r = httptest.NewRequest("DELETE", "/business", nil)
	r = r.WithContext(WithIdentityID(r.Context(), seeker))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// TestMiddlewareLoadCheckerIntegration validates checker loading without
// gating.
func TestMiddlewareLoadCheckerIntegration(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	businessID := h.UniqueID("biz")
	h.CreateRegistration(activeRegistration(businessID, "test-admin", VerificationVerified))
	worker := h.UniqueID("worker")
	h.SetupWorker(worker, businessID)

	mw := NewMiddleware(h.GetService())
	handler := mw.LoadChecker()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checker := FromContext(r.Context())
		require.NotNil(t, checker)
		assert.True(t, checker.HasRole(RoleWorker, businessID))
	}))

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r = r.WithContext(WithIdentityID(r.Context(), worker))
	handler.ServeHTTP(httptest.NewRecorder(), r)

	// Without an identity the handler still runs, checker-less.
	ran := false
	passthrough := mw.LoadChecker()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
		assert.Nil(t, FromContext(r.Context()))
	}))
	passthrough.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/dashboard", nil))
	assert.True(t, ran)
}
