package controller

import (
	"sync"

	"github.com/farmtech-solutions/irrigation-core/internal/model"
)

// Relay is the in-memory pump register standing in for the digital output
// line: a single binary state, initialized off. Listeners registered with
// OnChange observe transitions only, never repeated writes of the same
// state.
type Relay struct {
	mu        sync.Mutex
	state     model.PumpState
	listeners []func(model.PumpState)
}

func NewRelay() *Relay {
	return &Relay{state: model.PumpOff}
}

// OnChange registers a transition listener. Listeners run synchronously on
// the writer's goroutine; keep them cheap.
func (r *Relay) OnChange(fn func(model.PumpState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *Relay) Set(on bool) error {
	next := model.PumpOff
	if on {
		next = model.PumpOn
	}

	r.mu.Lock()
	if r.state == next {
		r.mu.Unlock()
		return nil
	}
	r.state = next
	listeners := make([]func(model.PumpState), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return nil
}

func (r *Relay) State() model.PumpState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
