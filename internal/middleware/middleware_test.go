package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-tasks/internal/config"
	"github.com/jrsteele09/go-tasks/internal/middleware"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	var order []string
	mark := func(name string) middleware.Middleware {
		return func(next http.HandlerFunc) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next(w, r)
			}
		}
	}

	h := middleware.Chain(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}, mark("first"), mark("second"))

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRecover(t *testing.T) {
	var got any
	h := middleware.Chain(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}, middleware.Recover(func(w http.ResponseWriter, r *http.Request, recovered any) {
		got = recovered
		w.WriteHeader(http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h(rec, httptest.NewRequest(http.MethodGet, "/tasks/1", nil))
	})
	require.Equal(t, "boom", got)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoggingKeepsStatus(t *testing.T) {
	h := middleware.Chain(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
	}, middleware.Logging("DEV"))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/sign-in", rec.Header().Get("Location"))
}

func TestCors(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173")
	cfg := config.New()

	called := false
	h := middleware.Chain(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, middleware.Cors(cfg))

	t.Run("preflight from allowed origin", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodOptions, "/_rpc/whoami", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		h(rec, req)

		require.False(t, called)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		require.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("request from unknown origin", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/_rpc/whoami", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		h(rec, req)

		require.True(t, called)
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
