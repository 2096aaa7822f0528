package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"leavedesk/internal/requestctx"
)

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := requestctx.WithRequestID(r.Context(), reqID)
		if actorID := strings.TrimSpace(r.Header.Get("X-Actor-ID")); actorID != "" {
			ctx = requestctx.WithActorID(ctx, actorID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}

func GetActorID(ctx context.Context) string {
	return requestctx.GetActorID(ctx)
}
