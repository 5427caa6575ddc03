package handlers

import (
	"time"

	"github.com/spherical/pdf-converter/internal/observability"
)

// State is a step of one conversion request.
type State string

const (
	StateReceived   State = "received"
	StateValidated  State = "validated"
	StateConverting State = "converting"
	StateResponding State = "responding"
	StateCleanedUp  State = "cleaned_up"
	StateErrored    State = "errored"
)

// next lists the legal transitions. Errored is reachable from every state
// that is not terminal and still leads to cleanup.
var next = map[State][]State{
	StateReceived:   {StateValidated, StateErrored},
	StateValidated:  {StateConverting, StateErrored},
	StateConverting: {StateResponding, StateErrored},
	StateResponding: {StateCleanedUp, StateErrored},
	StateErrored:    {StateCleanedUp},
}

// lifecycle tracks a single request. It is owned by the handler goroutine.
type lifecycle struct {
	id       string
	state    State
	received time.Time
	logger   *observability.Logger
	history  []State
}

func newLifecycle(id string, logger *observability.Logger) *lifecycle {
	lc := &lifecycle{
		id:       id,
		state:    StateReceived,
		received: time.Now(),
		logger:   logger,
		history:  []State{StateReceived},
	}
	logger.Debug().Str("state", string(StateReceived)).Msg("Request received")
	return lc
}

// to moves to s. Illegal transitions are logged and ignored.
func (lc *lifecycle) to(s State) {
	for _, allowed := range next[lc.state] {
		if allowed == s {
			lc.logger.Debug().
				Str("from", string(lc.state)).
				Str("state", string(s)).
				Dur("elapsed", time.Since(lc.received)).
				Msg("Request state changed")
			lc.state = s
			lc.history = append(lc.history, s)
			return
		}
	}
	lc.logger.Warn().
		Str("from", string(lc.state)).
		Str("state", string(s)).
		Msg("Ignoring illegal request state change")
}

