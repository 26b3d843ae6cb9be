package paperkit

import (
	"net/http"
)

// Middleware provides HTTP middleware for permission and role checking.
type Middleware struct {
	service       *Service
	getIdentityID func(*http.Request) string
	errorHandler  func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := paperkit.NewMiddleware(service,
//	    paperkit.WithIdentityExtractor(func(r *http.Request) string {
//	        return r.Context().Value("identity_id").(string)
//	    }),
//	)
func NewMiddleware(service *Service, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		service:       service,
		getIdentityID: defaultGetIdentityID,
		errorHandler:  defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithIdentityExtractor sets a custom function to extract the identity ID from a request.
func WithIdentityExtractor(fn func(*http.Request) string) MiddlewareOption {
	return func(m *Middleware) {
		m.getIdentityID = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetIdentityID(r *http.Request) string {
	return GetIdentityID(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if IsUnauthorized(err) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if IsInvalidRule(err) || IsInvalidMatrix(err) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// BusinessExtractor extracts a business ID from an HTTP request. An empty
// business ID with a nil error means the request carries no business context,
// which is valid for globally scoped permissions.
type BusinessExtractor func(*http.Request) (businessID string, err error)

// BusinessFromParam creates a BusinessExtractor that reads the business ID
// from URL parameters. Compatible with chi, gorilla/mux, and standard
// library patterns.
//
// Example:
//
//	// For route /businesses/{businessID}/attendance
//	mw.RequirePermission("attendance", "approve", paperkit.BusinessFromParam("businessID"))
func BusinessFromParam(paramName string) BusinessExtractor {
	return func(r *http.Request) (string, error) {
		// Try chi/go-chi style
		businessID := r.PathValue(paramName)
		if businessID == "" {
			// Try context (set by router middleware)
			if v := r.Context().Value(paramName); v != nil {
				if s, ok := v.(string); ok {
					businessID = s
				}
			}
		}
		return businessID, nil
	}
}

// BusinessFromQuery creates a BusinessExtractor that reads the business ID
// from query parameters.
//
// Example:
//
//	// For route /api/schedules?business_id=biz_123
//	mw.RequirePermission("schedules", "read", paperkit.BusinessFromQuery("business_id"))
func BusinessFromQuery(queryParam string) BusinessExtractor {
	return func(r *http.Request) (string, error) {
		return r.URL.Query().Get(queryParam), nil
	}
}

// BusinessFromHeader creates a BusinessExtractor that reads the business ID
// from a header.
//
// Example:
//
//	// For header X-Business-ID: biz_123
//	mw.RequireRole(paperkit.RoleManager, paperkit.BusinessFromHeader("X-Business-ID"))
func BusinessFromHeader(headerName string) BusinessExtractor {
	return func(r *http.Request) (string, error) {
		return r.Header.Get(headerName), nil
	}
}

// BusinessFromContext creates a BusinessExtractor that reads the business ID
// from the request context, as set by WithBusinessContext.
func BusinessFromContext() BusinessExtractor {
	return func(r *http.Request) (string, error) {
		return GetBusinessContext(r.Context()), nil
	}
}

// StaticBusiness creates a BusinessExtractor that always returns the same
// business ID. Useful for single-tenant deployments.
func StaticBusiness(businessID string) BusinessExtractor {
	return func(r *http.Request) (string, error) {
		return businessID, nil
	}
}

// NoBusiness creates a BusinessExtractor that never supplies a business
// context. Use it for globally scoped permissions like profile access.
//
// Example:
//
//	mw.RequirePermission("profile", "update", paperkit.NoBusiness())
func NoBusiness() BusinessExtractor {
	return func(r *http.Request) (string, error) {
		return "", nil
	}
}

// RequirePermission creates middleware that requires a permission on a
// resource/action pair. The extractor supplies the business context; the
// full decision pipeline runs, including business resolution and condition
// injection.
//
// Example:
//
//	router.With(mw.RequirePermission("attendance", "approve", paperkit.BusinessFromParam("businessID"))).
//	    Post("/businesses/{businessID}/attendance/approve", approveHandler)
func (m *Middleware) RequirePermission(resource, action string, extractor BusinessExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identityID := m.getIdentityID(r)
			if identityID == "" {
				m.errorHandler(w, r, ErrNoIdentityID)
				return
			}

			businessID, err := extractor(r)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			result, err := m.service.CheckPermission(ctx, identityID, resource, action, businessID, nil)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}
			if !result.Granted {
				m.errorHandler(w, r, NewError(ErrUnauthorized, result.Reason).
					WithEntry(resource, action).
					WithIdentity(identityID).
					WithBusiness(businessID))
				return
			}

			// Add checker to context for use in handlers
			checker, err := m.service.GetChecker(ctx, identityID)
			if err == nil {
				ctx = WithChecker(ctx, checker)
				if businessID != "" {
					ctx = WithBusinessContext(ctx, businessID)
				}
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole creates middleware that requires a role within the extracted
// business scope. An empty extracted business ID checks across all scopes.
//
// Example:
//
//	router.With(mw.RequireRole(paperkit.RoleOwner, paperkit.BusinessFromParam("businessID"))).
//	    Delete("/businesses/{businessID}", deleteBusinessHandler)
func (m *Middleware) RequireRole(role Role, extractor BusinessExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identityID := m.getIdentityID(r)
			if identityID == "" {
				m.errorHandler(w, r, ErrNoIdentityID)
				return
			}

			businessID, err := extractor(r)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			if !m.service.HasRole(ctx, identityID, role, businessID) {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "missing required role").
					WithRole(role).
					WithIdentity(identityID).
					WithBusiness(businessID))
				return
			}

			checker, err := m.service.GetChecker(ctx, identityID)
			if err == nil {
				ctx = WithChecker(ctx, checker)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole creates middleware that requires any of the specified roles
// within the extracted business scope.
//
// Example:
//
//	router.With(mw.RequireAnyRole([]paperkit.Role{paperkit.RoleManager, paperkit.RoleSupervisor}, extractor)).
//	    Get("/businesses/{businessID}/reports", reportsHandler)
func (m *Middleware) RequireAnyRole(roles []Role, extractor BusinessExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identityID := m.getIdentityID(r)
			if identityID == "" {
				m.errorHandler(w, r, ErrNoIdentityID)
				return
			}

			businessID, err := extractor(r)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			checker, err := m.service.GetChecker(ctx, identityID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			if !checker.HasAnyRole(roles, businessID) {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "missing required role").
					WithIdentity(identityID).
					WithBusiness(businessID))
				return
			}

			ctx = WithChecker(ctx, checker)
			r = r.WithContext(ctx)

			next.ServeHTTP(w, r)
		})
	}
}

// LoadChecker creates middleware that loads the identity's Checker into
// context. Use this when you want to do permission checks in the handler
// rather than middleware.
//
// Example:
//
//	router.With(mw.LoadChecker()).Get("/dashboard", dashboardHandler)
//
//	func dashboardHandler(w http.ResponseWriter, r *http.Request) {
//	    checker := paperkit.FromContext(r.Context())
//	    if checker.Allowed("attendance", "approve", businessID, nil) {
//	        // Show approval features
//	    }
//	}
func (m *Middleware) LoadChecker() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identityID := m.getIdentityID(r)
			if identityID == "" {
				// No identity, continue without checker
				next.ServeHTTP(w, r)
				return
			}

			checker, err := m.service.GetChecker(ctx, identityID)
			if err != nil {
				// Log error but continue
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithChecker(ctx, checker)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// InjectAuditContext creates middleware that extracts audit information from
// the request and adds it to the context for use in paper lifecycle
// operations.
//
// Example:
//
//	router.Use(mw.InjectAuditContext())
func (m *Middleware) InjectAuditContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Extract IP address
			ip := r.Header.Get("X-Forwarded-For")
			if ip == "" {
				ip = r.Header.Get("X-Real-IP")
			}
			if ip == "" {
				ip = r.RemoteAddr
			}
			ctx = WithIPAddress(ctx, ip)

			// Extract User Agent
			ctx = WithUserAgent(ctx, r.UserAgent())

			// Extract Request ID (commonly set by other middleware)
			requestID := r.Header.Get("X-Request-ID")
			if requestID != "" {
				ctx = WithRequestID(ctx, requestID)
			}

			// Set actor ID from identity ID if available
			identityID := m.getIdentityID(r)
			if identityID != "" {
				ctx = WithActorID(ctx, identityID)
				ctx = WithIdentityID(ctx, identityID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
