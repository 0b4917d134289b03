package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/jrsteele09/go-tasks/gate"
	"github.com/jrsteele09/go-tasks/internal/query"
	"github.com/jrsteele09/go-tasks/tasks"
	"github.com/rs/zerolog/log"
)

const (
	eventNavigate = "navigate"
	eventRefresh  = "refresh"

	keepAliveInterval = 25 * time.Second
)

// navigateEvent is the payload of a navigate event
type navigateEvent struct {
	Path    string `json:"path"`
	Replace bool   `json:"replace"`
}

// eventStream writes server-sent events. Events are buffered so a Guard never blocks on the network.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	mu      sync.Mutex
	nextID  int
	pending chan sseEvent
}

type sseEvent struct {
	name string
	data any
}

func (es *eventStream) push(name string, data any) {
	select {
	case es.pending <- sseEvent{name: name, data: data}:
	default:
		log.Warn().Str("event", name).Msg("event stream full, dropping event")
	}
}

func (es *eventStream) write(ev sseEvent) error {
	payload, err := json.Marshal(ev.data)
	if err != nil {
		return err
	}
	es.mu.Lock()
	defer es.mu.Unlock()
	es.nextID++
	if _, err := fmt.Fprintf(es.w, "id: %d\nevent: %s\ndata: %s\n\n", es.nextID, ev.name, payload); err != nil {
		return err
	}
	es.flusher.Flush()
	return nil
}

func (es *eventStream) ping() error {
	es.mu.Lock()
	defer es.mu.Unlock()
	if _, err := fmt.Fprint(es.w, ": ping\n\n"); err != nil {
		return err
	}
	es.flusher.Flush()
	return nil
}

// EventsHandler streams navigation for the open page. The page's Guard re-runs on every
// identity change and pushes a navigate event when it redirects; page=tasks also gets a
// refresh event when the task list changes underneath it.
func (s *Server) EventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming not supported", http.StatusInternalServerError)
			return
		}

		v := viewerFrom(r.Context())
		ctx := r.Context()

		// EventSource resends the last id after a dropped connection
		if r.Header.Get("Last-Event-ID") != "" {
			if err := v.Cache.Reconnect(ctx); err != nil {
				return
			}
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		es := &eventStream{w: w, flusher: flusher, pending: make(chan sseEvent, 8)}
		nav := gate.NavigatorFunc(func(path string, opts gate.NavigateOptions) {
			es.push(eventNavigate, navigateEvent{Path: path, Replace: opts.Replace})
		})

		switch r.URL.Query().Get("page") {
		case pageProtected:
			guard := gate.Protect(v.Gate, nav)
			defer guard.Stop()
		case pageGuest:
			guard := gate.GuestOnly(v.Gate, nav)
			defer guard.Stop()
		}

		if r.URL.Query().Get("view") == viewTasks {
			list := v.Todos()
			defer list.Close()
			stop := watchList(list, es)
			defer stop()
		}

		keepAlive := time.NewTicker(s.keepAlive)
		defer keepAlive.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-es.pending:
				if err := es.write(ev); err != nil {
					return
				}
			case <-keepAlive.C:
				if err := es.ping(); err != nil {
					return
				}
				// an open page keeps its viewer from being evicted
				v.Touch(s.now())
			}
		}
	}
}

// watchList pushes a refresh event whenever the list settles with different data than
// the page was rendered from
func watchList(list *query.Query[tasks.List], es *eventStream) func() {
	var mu sync.Mutex
	last := list.State().Data
	return list.Subscribe(func(state query.State[tasks.List]) {
		if state.Fetching || !state.IsSuccess() {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if reflect.DeepEqual(state.Data, last) {
			return
		}
		last = state.Data
		es.push(eventRefresh, struct{}{})
	})
}

// FocusHandler is posted by the page when its window regains focus. Observed queries that
// refetch on focus are refreshed; changes reach the page through its event stream.
func (s *Server) FocusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := viewerFrom(r.Context())
		if err := v.Cache.Focus(r.Context()); err != nil {
			log.Debug().Err(err).Str("viewer_id", v.ID).Msg("focus refetch interrupted")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
