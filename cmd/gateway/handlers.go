package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gemini-gateway/internal/app"
	"gemini-gateway/internal/document"
	"gemini-gateway/internal/events"
	"gemini-gateway/internal/httputil"
	"gemini-gateway/internal/service"
)

const (
	publishAttempts = 3
	publishBackoff  = 100 * time.Millisecond

	// multipartOverhead is the slack allowed on top of MaxUploadSize for form boundaries and fields.
	multipartOverhead = 1 << 20
)

type askRequest struct {
	Question string `json:"question" validate:"required,notblank"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// summarizeRequest knobs are pointers so an explicit empty value is rejected
// while an absent (or null) one falls back to the default.
type summarizeRequest struct {
	Text   string  `json:"text" form:"text" validate:"required,min=20"`
	Length *string `json:"length" form:"length" validate:"omitempty,oneof=short medium detailed"`
	Focus  *string `json:"focus" form:"focus" validate:"omitempty,oneof=simple normal professional"`
}

func (s summarizeRequest) toService() service.SummarizeRequest {
	req := service.SummarizeRequest{Text: s.Text}
	if s.Length != nil {
		req.Length = service.Length(*s.Length)
	}
	if s.Focus != nil {
		req.Focus = service.Focus(*s.Focus)
	}
	return req
}

// formValue returns the named multipart field, or nil when the form omits it.
func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// newRouter assembles the public routes. Everything but /health needs the bearer token.
func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log, deps.Config.RequestTimeout)

	r.Get(httputil.HealthPath, httputil.HealthHandler(deps.Log))

	r.Group(func(r chi.Router) {
		r.Use(deps.Guard.Middleware(deps.Log))
		r.Post("/ask", askHandler(deps))
		r.Post("/summarize", summarizeHandler(deps))
		r.Post("/summarize/upload", uploadHandler(deps))
	})
	return r
}

func askHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := httputil.RequestLog(deps.Log, r)

		var req askRequest
		if err := decodeAndValidate(r, &req); err != nil {
			httputil.ValidationError(log, w, err)
			return
		}

		answer, err := deps.Asker.Ask(r.Context(), req.Question)
		if err != nil {
			status := writeServiceError(log, w, err)
			publishEvent(w, r, deps, events.OperationAsk, status, false, start)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, askResponse{Answer: answer})
		publishEvent(w, r, deps, events.OperationAsk, http.StatusOK, false, start)
	}
}

func summarizeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := httputil.RequestLog(deps.Log, r)

		var req summarizeRequest
		if err := decodeAndValidate(r, &req); err != nil {
			httputil.ValidationError(log, w, err)
			return
		}
		summarize(w, r, deps, log, req, events.OperationSummarize, start)
	}
}

func uploadHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := httputil.RequestLog(deps.Log, r)
		tooLarge := fmt.Sprintf("file too large (max %d bytes)", maxFileSize)

		if r.ContentLength > maxFileSize+multipartOverhead {
			httputil.Fail(log, w, tooLarge, nil, http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+multipartOverhead)

		file, header, err := r.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				httputil.Fail(log, w, tooLarge, err, http.StatusRequestEntityTooLarge)
				return
			}
			httputil.Fail(log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(log, w, tooLarge, nil, http.StatusRequestEntityTooLarge)
			return
		}

		mediaType, err := document.DetectType(header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			httputil.Fail(log, w, err.Error(), err, http.StatusBadRequest)
			return
		}
		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(log, w, "failed to read file", err, http.StatusBadRequest)
			return
		}
		text, err := document.ExtractText(mediaType, content)
		if err != nil {
			httputil.Fail(log, w, "file could not be read", err, http.StatusBadRequest)
			return
		}

		req := summarizeRequest{
			Text:   text,
			Length: formValue(r, "length"),
			Focus:  formValue(r, "focus"),
		}
		if err := httputil.Validator.Struct(req); err != nil {
			httputil.ValidationError(log, w, err)
			return
		}
		log.Info("upload extracted", "filename", header.Filename, "type", mediaType, "bytes", header.Size)
		summarize(w, r, deps, log, req, events.OperationUpload, start)
	}
}

func summarize(w http.ResponseWriter, r *http.Request, deps app.Deps, log *slog.Logger, req summarizeRequest, op events.Operation, start time.Time) {
	res, err := deps.Summarizer.Summarize(r.Context(), req.toService())
	if err != nil {
		status := writeServiceError(log, w, err)
		publishEvent(w, r, deps, op, status, false, start)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
	publishEvent(w, r, deps, op, http.StatusOK, res.Cached, start)
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		return err
	}
	return httputil.Validator.Struct(dst)
}

// writeServiceError maps a service failure onto the response and returns the status written.
func writeServiceError(log *slog.Logger, w http.ResponseWriter, err error) int {
	if kind, ok := service.KindOf(err); ok {
		log.Error("upstream model failure", "kind", kind.String(), "err", err)
		httputil.WriteDetail(w, http.StatusBadGateway, kind.Detail())
		return http.StatusBadGateway
	}
	if errors.Is(err, service.ErrInvalidRequest) {
		httputil.ValidationError(log, w, err)
		return http.StatusUnprocessableEntity
	}
	httputil.Fail(log, w, httputil.DetailInternal, err, http.StatusInternalServerError)
	return http.StatusInternalServerError
}

// publishEvent records the call on the usage stream. The response is flushed
// first so publish retries never delay the caller. Failures are logged only.
func publishEvent(w http.ResponseWriter, r *http.Request, deps app.Deps, op events.Operation, status int, cached bool, start time.Time) {
	if err := http.NewResponseController(w).Flush(); err != nil {
		httputil.RequestLog(deps.Log, r).Debug("response flush unsupported", "err", err)
	}
	event := events.Event{
		RequestID:  middleware.GetReqID(r.Context()),
		Operation:  op,
		Provider:   deps.Config.LLMProvider,
		Model:      deps.Config.Model(),
		Status:     status,
		Cached:     cached,
		DurationMs: time.Since(start).Milliseconds(),
	}
	ctx := context.WithoutCancel(r.Context())
	if err := events.PublishWithRetry(ctx, deps.Events, event, publishAttempts, publishBackoff); err != nil {
		httputil.RequestLog(deps.Log, r).Warn("failed to publish usage event", "operation", op, "err", err)
	}
}
