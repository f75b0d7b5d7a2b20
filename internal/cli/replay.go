package cli

import (
	"fmt"
	"io"

	observe "github.com/ravegoth/obj-observe"
)

// ReplayOptions configures a scenario replay.
type ReplayOptions struct {
	Path  string
	Debug bool
	Quiet bool
	Out   io.Writer
}

// RunReplay loads a scenario, observes its watched keys and replays the
// scripted writes, printing one line per change event.
func RunReplay(opts ReplayOptions) error {
	logger := createLogger(opts.Debug)

	sc, err := LoadScenario(opts.Path)
	if err != nil {
		return err
	}
	logger.Debug("scenario loaded", "name", sc.Name, "steps", len(sc.Steps))

	renderer := NewRenderer(opts.Out)
	state := observe.FromMap(sc.Initial, observe.WithLogger(logger))

	notifications := 0
	for _, key := range sc.WatchKeys() {
		state.On(key, func(old, new any) {
			notifications++
			if !opts.Quiet {
				fmt.Fprintln(opts.Out, renderer.Change(key, old, new))
			}
		})
	}

	for _, step := range sc.Steps {
		state.Set(step.Key, step.Value)
	}

	name := sc.Name
	if name == "" {
		name = opts.Path
	}
	fmt.Fprintln(opts.Out, renderer.Summary(name, len(sc.Steps), notifications))
	return nil
}
