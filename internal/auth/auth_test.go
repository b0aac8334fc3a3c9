package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Basic abc", "", false},
		{"Bearer abc def", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := ParseBearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestGuardCheck(t *testing.T) {
	g := NewGuard("s3cret")

	assert.NoError(t, g.Check("Bearer s3cret"))
	assert.ErrorIs(t, g.Check("Bearer wrong"), ErrUnauthorized)
	assert.ErrorIs(t, g.Check("Bearer s3cret-longer"), ErrUnauthorized)
	assert.ErrorIs(t, g.Check(""), ErrUnauthorized)
	assert.ErrorIs(t, g.Check("s3cret"), ErrUnauthorized)
}

func TestGuardWithEmptyTokenRejectsEverything(t *testing.T) {
	g := NewGuard("")
	assert.ErrorIs(t, g.Check("Bearer "), ErrUnauthorized)
	assert.ErrorIs(t, g.Check("Bearer anything"), ErrUnauthorized)
}

func TestMiddleware(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := NewGuard("s3cret")
	called := false
	h := g.Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("rejects missing token", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ask", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		assert.JSONEq(t, `{"detail":"Invalid or missing API Key"}`, w.Body.String())
	})

	t.Run("passes valid token", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/ask", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
