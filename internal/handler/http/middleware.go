package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/iliaxp/LiberaryApplication/pkg/httputil"
	"github.com/iliaxp/LiberaryApplication/pkg/logger"
	"github.com/iliaxp/LiberaryApplication/pkg/middleware"
	"github.com/iliaxp/LiberaryApplication/pkg/validator"
)

type contextKey string

const sessionIDKey contextKey = "session_id"

type sessionHeader struct {
	ID string `validate:"required,max=128,printascii"`
}

// SessionIDFromHeader reads the X-Session-ID header and stores it in the
// request context. A request without one starts a new session: an id is
// generated and echoed back in the response header.
func SessionIDFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := r.Header.Get(middleware.SessionIDHeader)

		if id == "" {
			id = uuid.New().String()
		} else if err := validator.Validate(sessionHeader{ID: id}); err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid X-Session-ID header"},
			})
			return
		}
		// RequestLogger may already have tagged a client-supplied id.
		if logger.SessionIDFromContext(ctx) != id {
			ctx = logger.WithSessionID(ctx, id)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("session_id", id)))
		}

		w.Header().Set(middleware.SessionIDHeader, id)
		ctx = context.WithValue(ctx, sessionIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// ContentTypeJSON rejects request bodies that are not application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
