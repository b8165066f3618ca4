package api

import (
	"net/http"

	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/httpclient"
	"github.com/felixgeelhaar/workday/pkg/observability"
	"github.com/google/uuid"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"
)

// withRequestContext puts the request, correlation and user IDs in the
// request context. A missing X-User-ID means the default user.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = observability.WithRequestID(ctx, requestID)
		w.Header().Set(headerRequestID, requestID)

		correlationID := r.Header.Get(headerCorrelationID)
		if correlationID == "" {
			correlationID = requestID
		}
		ctx = observability.WithCorrelationID(ctx, correlationID)

		userID := s.defaultUser
		if raw := r.Header.Get(httpclient.UserHeader); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, badRequest("X-User-ID must be a UUID"))
				return
			}
			userID = parsed
		}
		ctx = observability.WithUserID(ctx, userID.String())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFrom returns the user set by withRequestContext.
func userFrom(r *http.Request) uuid.UUID {
	id, err := uuid.Parse(observability.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil
	}
	return id
}
