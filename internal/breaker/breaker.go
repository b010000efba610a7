// Package breaker implements per-name circuit breakers over
// sony/gobreaker's TwoStepCircuitBreaker, whose two-phase Allow()/done()
// API maps directly onto a check-then-record call shape: Allow decides
// whether a call may proceed, and the caller reports success or failure
// afterward.
package breaker

import (
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned by Allow when the named circuit is open.
var ErrOpen = errors.New("breaker: circuit open")

// Registry holds one TwoStepCircuitBreaker per name, created lazily.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.TwoStepCircuitBreaker
	settings func(name string) gobreaker.Settings
}

// NewRegistry constructs a Registry. If settingsFn is nil, DefaultSettings
// is used for every circuit.
func NewRegistry(settingsFn func(name string) gobreaker.Settings) *Registry {
	if settingsFn == nil {
		settingsFn = DefaultSettings
	}
	return &Registry{breakers: make(map[string]*gobreaker.TwoStepCircuitBreaker), settings: settingsFn}
}

// DefaultSettings opens a circuit after 5 consecutive failures, and
// allows one trial call after a 30s cooldown in the Open state.
func DefaultSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

func (r *Registry) get(name string) *gobreaker.TwoStepCircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, ok := r.breakers[name]; ok {
		return cb
	}
	cb := gobreaker.NewTwoStepCircuitBreaker(r.settings(name))
	r.breakers[name] = cb
	return cb
}

// Allow checks out the named circuit. If it permits the call, Allow
// returns a done func the caller must invoke exactly once with the
// outcome. If the circuit is open, Allow returns ErrOpen and a nil done
// func.
func (r *Registry) Allow(name string) (done func(success bool), err error) {
	cb := r.get(name)
	done, err = cb.Allow()
	if err != nil {
		return nil, ErrOpen
	}
	return done, nil
}

// Reset discards the named circuit's state, so the next Allow call starts
// fresh as Closed.
func (r *Registry) Reset(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.breakers, name)
}

// Status is a point-in-time snapshot of one circuit's state and counters.
type Status struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Counts  gobreaker.Counts `json:"counts"`
}

// StatusAll reports Status for every circuit the Registry has created.
func (r *Registry) StatusAll() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Status, 0, len(r.breakers))
	for name, cb := range r.breakers {
		out = append(out, Status{Name: name, State: cb.State().String(), Counts: cb.Counts()})
	}
	return out
}
