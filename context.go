package paperkit

import (
	"context"
)

// Context keys for PaperKit values.
type contextKey string

const (
	contextKeyIdentityID contextKey = "paperkit:identity_id"
	contextKeyActorID    contextKey = "paperkit:actor_id"
	contextKeyBusinessID contextKey = "paperkit:business_id"
	contextKeyIPAddress  contextKey = "paperkit:ip_address"
	contextKeyUserAgent  contextKey = "paperkit:user_agent"
	contextKeyRequestID  contextKey = "paperkit:request_id"
	contextKeyChecker    contextKey = "paperkit:checker"
)

// WithIdentityID adds an identity ID to the context.
// This is the subject being checked for permissions.
func WithIdentityID(ctx context.Context, identityID string) context.Context {
	return context.WithValue(ctx, contextKeyIdentityID, identityID)
}

// GetIdentityID retrieves the identity ID from context.
// Returns empty string if not set.
func GetIdentityID(ctx context.Context) string {
	if v := ctx.Value(contextKeyIdentityID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// MustGetIdentityID retrieves the identity ID from context.
// Panics if not set.
func MustGetIdentityID(ctx context.Context) string {
	identityID := GetIdentityID(ctx)
	if identityID == "" {
		panic("paperkit: identity ID not in context")
	}
	return identityID
}

// WithActorID adds an actor ID to the context.
// This is the identity performing the action (for audit purposes).
// Often the same as the subject, but can differ for back-office actions.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, contextKeyActorID, actorID)
}

// GetActorID retrieves the actor ID from context.
// Falls back to the identity ID if the actor ID is not explicitly set.
func GetActorID(ctx context.Context) string {
	if v := ctx.Value(contextKeyActorID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	// Fallback to identity ID
	return GetIdentityID(ctx)
}

// WithBusinessContext adds a business scope to the context, narrowing any
// checks done through the context-carried Checker.
func WithBusinessContext(ctx context.Context, businessID string) context.Context {
	return context.WithValue(ctx, contextKeyBusinessID, businessID)
}

// GetBusinessContext retrieves the business scope from context.
// Returns empty string if not set, which means "no context supplied".
func GetBusinessContext(ctx context.Context) string {
	if v := ctx.Value(contextKeyBusinessID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithIPAddress adds the client IP address to the context (for audit).
func WithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKeyIPAddress, ip)
}

// GetIPAddress retrieves the IP address from context.
func GetIPAddress(ctx context.Context) string {
	if v := ctx.Value(contextKeyIPAddress); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithUserAgent adds the user agent to the context (for audit).
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, contextKeyUserAgent, ua)
}

// GetUserAgent retrieves the user agent from context.
func GetUserAgent(ctx context.Context) string {
	if v := ctx.Value(contextKeyUserAgent); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context (for audit and correlation).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(contextKeyRequestID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithChecker adds a Checker to the context.
// This is set by middleware and can be retrieved in handlers.
func WithChecker(ctx context.Context, checker *Checker) context.Context {
	return context.WithValue(ctx, contextKeyChecker, checker)
}

// GetChecker retrieves the Checker from context.
// Returns nil if not set.
func GetChecker(ctx context.Context) *Checker {
	if v := ctx.Value(contextKeyChecker); v != nil {
		if c, ok := v.(*Checker); ok {
			return c
		}
	}
	return nil
}

// FromContext retrieves the Checker from context.
// Alias for GetChecker for convenience.
func FromContext(ctx context.Context) *Checker {
	return GetChecker(ctx)
}

// AuditContext holds all audit-related information from context.
type AuditContext struct {
	ActorID   string
	IPAddress string
	UserAgent string
	RequestID string
}

// GetAuditContext extracts all audit information from context.
func GetAuditContext(ctx context.Context) AuditContext {
	return AuditContext{
		ActorID:   GetActorID(ctx),
		IPAddress: GetIPAddress(ctx),
		UserAgent: GetUserAgent(ctx),
		RequestID: GetRequestID(ctx),
	}
}

// WithAuditContext adds all audit information to context at once.
func WithAuditContext(ctx context.Context, ac AuditContext) context.Context {
	if ac.ActorID != "" {
		ctx = WithActorID(ctx, ac.ActorID)
	}
	if ac.IPAddress != "" {
		ctx = WithIPAddress(ctx, ac.IPAddress)
	}
	if ac.UserAgent != "" {
		ctx = WithUserAgent(ctx, ac.UserAgent)
	}
	if ac.RequestID != "" {
		ctx = WithRequestID(ctx, ac.RequestID)
	}
	return ctx
}
