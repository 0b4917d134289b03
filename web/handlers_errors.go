package web

import (
	"net/http"
)

const (
	SomethingWentWrong = "Something went wrong"
	PageNotFound       = "Page not found"
)

// renderPanic is the top-level fallback for a view that panicked. It offers a retry
// link that renders the same view again.
func (s *Server) renderPanic(w http.ResponseWriter, r *http.Request, _ any) {
	retry := r.URL.RequestURI()
	if r.Method != http.MethodGet {
		retry = RouteRoot
	}
	data := errorPageData{
		PageData: s.pageData(r, viewerFrom(r.Context()), SomethingWentWrong, ""),
		Message:  SomethingWentWrong,
		RetryURL: retry,
	}
	w.Header().Set("Cache-Control", "no-store")
	render(w, http.StatusInternalServerError, s.errorPage, data)
}

// NotFoundHandler renders every path no route matches
func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := errorPageData{
			PageData: s.pageData(r, viewerFrom(r.Context()), PageNotFound, ""),
			Message:  PageNotFound,
		}
		render(w, http.StatusNotFound, s.errorPage, data)
	}
}
