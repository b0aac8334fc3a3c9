package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	// HealthPath is excluded from request logging.
	HealthPath = "/health"

	HeaderRequestID   = "X-Request-ID"
	HeaderProcessTime = "X-Process-Time"

	// DetailInternal is the only body ever returned for unanticipated failures.
	DetailInternal = "Internal server error"

	requestIDLength = 8
)

// NewRouter creates a chi router with standard middleware (RealIP, Recoverer, RequestLogger, Timeout).
// Recoverer sits outside RequestLogger so failed requests are logged before the 500 is written.
func NewRouter(log *slog.Logger, timeout time.Duration) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(Recoverer(log))
	r.Use(RequestLogger(log))
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	return r
}

// WriteJSON writes a JSON response with proper headers.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}

// WriteDetail writes the uniform {"detail": ...} error body.
func WriteDetail(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, map[string]string{"detail": detail})
}

// HealthHandler returns a simple health check endpoint.
func HealthHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Warn("health write failed", "err", err)
		}
	}
}

// NewRequestID returns a short correlation id.
func NewRequestID() string {
	return uuid.NewString()[:requestIDLength]
}

// RequestLog returns log annotated with the request's correlation id, if any.
func RequestLog(log *slog.Logger, r *http.Request) *slog.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return log.With("request_id", id)
	}
	return log
}

// RequestLogger assigns a correlation id to every non-health request, reports it
// and the processing time as response headers, and logs the outcome.
func RequestLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == HealthPath {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			requestID := NewRequestID()
			ctx := context.WithValue(r.Context(), middleware.RequestIDKey, requestID)
			w.Header().Set(HeaderRequestID, requestID)

			tw := &timingWriter{ResponseWriter: w, start: start}
			ww := middleware.NewWrapResponseWriter(tw, r.ProtoMajor)

			defer func() {
				if rec := recover(); rec != nil {
					log.Error("request failed",
						"method", r.Method,
						"path", r.URL.Path,
						"duration_ms", elapsedMillis(start),
						"err", fmt.Sprint(rec),
						"request_id", requestID,
					)
					panic(rec)
				}
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", elapsedMillis(start),
				"request_id", requestID,
			)
		})
	}
}

// Recoverer logs panics via slog and answers with a generic 500.
func Recoverer(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("panic recovered", "panic", rec, "path", r.URL.Path, "method", r.Method)
					WriteDetail(w, http.StatusInternalServerError, DetailInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Fail writes an error response with consistent logging. err is logged, never returned to the caller.
func Fail(log *slog.Logger, w http.ResponseWriter, detail string, err error, status int) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		log.Error(detail, "err", err, "status", status)
	} else {
		log.Warn(detail, "err", err, "status", status)
	}
	WriteDetail(w, status, detail)
}

// timingWriter stamps the processing time header just before headers go out.
type timingWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
}

func (tw *timingWriter) WriteHeader(code int) {
	if !tw.wroteHeader {
		tw.wroteHeader = true
		tw.Header().Set(HeaderProcessTime, FormatProcessTime(time.Since(tw.start)))
	}
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timingWriter) Write(b []byte) (int, error) {
	if !tw.wroteHeader {
		tw.WriteHeader(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}

func (tw *timingWriter) Flush() {
	if !tw.wroteHeader {
		tw.WriteHeader(http.StatusOK)
	}
	if f, ok := tw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (tw *timingWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}

// FormatProcessTime renders d as milliseconds with two decimals, e.g. "12.34ms".
func FormatProcessTime(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
}

func elapsedMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
