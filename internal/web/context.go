package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/backoffice/internal/core"
)

// WithRequestMetadata adds IP and User-Agent to context for audit logging.
// The session id is attached by the session middleware.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, clientIP(r)) // Already processed by TrustedRealIP
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}
