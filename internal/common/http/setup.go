package http

import (
	"net/http"

	"github.com/AlibekovAA/tada/internal/common/constants"
	"github.com/AlibekovAA/tada/internal/common/httpmetrics"
	"github.com/AlibekovAA/tada/internal/common/logger"
)

// BuildBaseHandler wraps handler with the middleware every request passes
// through, outermost first: security headers, trace id, recovery, body size
// limit, request metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(TraceIDMiddleware(recovery(maxRequestSize(collector.Wrap(handler)))))
}
