// Package supervisor runs background goroutines and turns unexpected panics
// into a logged, non-zero process exit.
package supervisor

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/spherical/pdf-converter/internal/observability"
)

// Supervisor tracks background work for the lifetime of the process.
type Supervisor struct {
	logger *observability.Logger
	exit   func(code int)
	wg     sync.WaitGroup
}

// New creates a supervisor that exits the process on panics.
func New(logger *observability.Logger) *Supervisor {
	return &Supervisor{logger: logger, exit: os.Exit}
}

// Go runs fn in its own goroutine. A returned error is logged and the process
// keeps running; a panic is logged at fatal level and ends the process with
// status 1.
func (s *Supervisor) Go(name string, fn func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.fatal(name, r)
			}
		}()

		if err := fn(); err != nil {
			s.logger.Error().
				Str("task", name).
				Err(err).
				Msg("Background task failed")
		}
	}()
}

// Wait blocks until every task started with Go has returned.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

// Recover is meant to be deferred directly in main.
func (s *Supervisor) Recover() {
	if r := recover(); r != nil {
		s.fatal("main", r)
	}
}

func (s *Supervisor) fatal(name string, r any) {
	s.logger.Critical().
		Str("task", name).
		Str("panic", fmt.Sprint(r)).
		Str("stack", string(debug.Stack())).
		Msg("Unrecoverable failure, exiting")
	s.exit(1)
}
