package observable

import (
	"io"
	"log/slog"
)

// Hooks defines optional instrumentation callbacks, in the spirit of
// lifecycle hooks: the host can wire them to metrics, logs or an event
// log without the engine depending on any particular backend.
//
// Hooks run synchronously on the mutating goroutine. OnNotify fires once
// per notified write (not once per observer), before the observers run.
type Hooks struct {
	OnObserve        func(key string)
	OnRemove         func(key string, count int)
	OnNotify         func(key string, old, new any)
	OnReentrantWrite func(key string)
}

// Option configures a Map or Object at construction time.
type Option func(*settings)

// WithLogger sets a structured logger for debug-level registration and
// notification events. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHooks registers instrumentation hooks.
func WithHooks(hooks Hooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

type settings struct {
	logger *slog.Logger
	hooks  Hooks
}

func newSettings(opts []Option) settings {
	s := settings{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s *settings) observed(key string) {
	s.logger.Debug("observer registered", "key", key)
	if s.hooks.OnObserve != nil {
		s.hooks.OnObserve(key)
	}
}

func (s *settings) removed(key string, count int) {
	if count == 0 {
		return
	}
	s.logger.Debug("observers removed", "key", key, "count", count)
	if s.hooks.OnRemove != nil {
		s.hooks.OnRemove(key, count)
	}
}

func (s *settings) notified(key string, old, new any) {
	s.logger.Debug("change", "key", key, "old", old, "new", new)
	if s.hooks.OnNotify != nil {
		s.hooks.OnNotify(key, old, new)
	}
}

func (s *settings) reentered(key string) {
	s.logger.Debug("reentrant write", "key", key)
	if s.hooks.OnReentrantWrite != nil {
		s.hooks.OnReentrantWrite(key)
	}
}
