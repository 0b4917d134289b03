package web

import (
	"html/template"
	"net/http"

	"github.com/jrsteele09/go-tasks/tasks"
	"github.com/jrsteele09/go-tasks/web/viewers"
)

// Page kinds tell the event stream which gate policy the open page is under
const (
	pageProtected = "protected"
	pageGuest     = "guest"

	// viewTasks asks the event stream to watch the task list
	viewTasks = "tasks"
)

// PageData is the layout model shared by every page
type PageData struct {
	AppName  string
	Title    string
	Page     string // pageProtected or pageGuest; empty pages get no event stream
	View     string // view name the event stream observes data for
	Username string
	Error    string // toast shown once, carried by ?error=
}

type tasksPageData struct {
	PageData
	List      tasks.List
	LoadError string
}

type taskPageData struct {
	PageData
	Task        tasks.Task
	Description template.HTML
	LoadError   string
}

type authPageData struct {
	PageData
	FormUsername string
	FormError    string
}

type errorPageData struct {
	PageData
	Message  string
	RetryURL string
}

func (s *Server) pageData(r *http.Request, v *viewers.Viewer, title, page string) PageData {
	data := PageData{
		AppName: s.config.GetAppName(),
		Title:   title,
		Page:    page,
		Error:   r.URL.Query().Get("error"),
	}
	if v != nil {
		data.Username = v.Gate.CurrentIdentity().Username()
	}
	return data
}
