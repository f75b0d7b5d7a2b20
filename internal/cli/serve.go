package cli

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	observe "github.com/ravegoth/obj-observe"
)

// ChangeEvent is one recorded mutation of the served state.
type ChangeEvent struct {
	Key   string    `json:"key"`
	Old   any       `json:"old"`
	New   any       `json:"new"`
	First bool      `json:"first,omitempty"`
	Time  time.Time `json:"ts"`
}

type eventLog struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (l *eventLog) append(e ChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) snapshot() []ChangeEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ChangeEvent(nil), l.events...)
}

// Server exposes an observed key/value state over HTTP: writes go through
// the observation engine, every change lands in an event log and in the
// Prometheus registry.
type Server struct {
	logger  *slog.Logger
	state   *observe.Map[string, any]
	events  *eventLog
	metrics *prometheus.Registry
}

// NewServer wires an observed map to an event log and metric collectors.
func NewServer(logger *slog.Logger) *Server {
	registry := prometheus.NewRegistry()
	changes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obj_observe_changes_total",
			Help: "Total number of notified state changes",
		},
		[]string{"key"},
	)
	reentrant := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "obj_observe_reentrant_writes_total",
		Help: "Total number of reentrant writes that skipped notification",
	})
	observers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "obj_observe_observers",
		Help: "Number of currently registered observers",
	})
	registry.MustRegister(changes, reentrant, observers)

	events := &eventLog{}
	state := observe.NewMap[string, any](
		observe.WithLogger(logger),
		observe.WithHooks(observe.Hooks{
			OnObserve: func(key string) { observers.Inc() },
			OnRemove:  func(key string, count int) { observers.Sub(float64(count)) },
			OnNotify: func(key string, old, new any) {
				changes.WithLabelValues(key).Inc()
				first := old == observe.NoValue
				if first {
					old = nil
				}
				events.append(ChangeEvent{
					Key:   key,
					Old:   old,
					New:   new,
					First: first,
					Time:  time.Now().UTC(),
				})
			},
			OnReentrantWrite: func(key string) { reentrant.Inc() },
		}),
	)

	return &Server{
		logger:  logger,
		state:   state,
		events:  events,
		metrics: registry,
	}
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/state", s.handleGetState)
	r.Put("/state/{key}", s.handlePutKey)
	r.Get("/events", s.handleGetEvents)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) handleGetState(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Snapshot())
}

func (s *Server) handlePutKey(w http.ResponseWriter, req *http.Request) {
	key := chi.URLParam(req, "key")

	var value any
	if err := json.NewDecoder(req.Body).Decode(&value); err != nil {
		http.Error(w, "invalid JSON value: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.state.Set(key, value)
	s.logger.Info("state updated", "key", key)
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "value": value})
}

func (s *Server) handleGetEvents(w http.ResponseWriter, req *http.Request) {
	events := s.events.snapshot()
	if events == nil {
		events = []ChangeEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Addr  string
	Debug bool
}

// RunServe starts the HTTP server and blocks until it fails.
func RunServe(opts ServeOptions) error {
	logger := createLogger(opts.Debug)
	server := NewServer(logger)

	logger.Info("serving observed state", "addr", opts.Addr)
	return http.ListenAndServe(opts.Addr, server.Handler())
}
