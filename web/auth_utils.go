package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-tasks/gate"
)

func (s *Server) setViewerCookie(w http.ResponseWriter, viewerID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     ViewerCookieName,
		Value:    viewerID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// redirectNavigator navigates by redirecting the current request. A 303 from a page
// load keeps the requested URL out of the history, which is the replace behaviour.
type redirectNavigator struct {
	w http.ResponseWriter
	r *http.Request
}

func (n redirectNavigator) Navigate(path string, _ gate.NavigateOptions) {
	n.w.Header().Set("Cache-Control", "no-store")
	redirectSuccess(n.w, n.r, path)
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects. The message is shown as a toast.
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	fullPath := path + "?error=" + url.QueryEscape(errorMsg)

	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", fullPath)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, fullPath, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// returnPath is the local path a form asks to go back to, or fallback
func returnPath(r *http.Request, fallback string) string {
	p := r.FormValue("return_to")
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return fallback
	}
	if u, err := url.Parse(p); err != nil || u.Host != "" {
		return fallback
	}
	return p
}
