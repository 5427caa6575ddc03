package supervisor

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spherical/pdf-converter/internal/observability"
)

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestSupervisor() (*Supervisor, *safeBuffer, *[]int) {
	out := &safeBuffer{}
	logger := observability.NewLogger(observability.LogConfig{Level: "debug", Output: out, ServiceName: "test"})
	var mu sync.Mutex
	codes := []int{}
	s := New(logger)
	s.exit = func(code int) {
		mu.Lock()
		codes = append(codes, code)
		mu.Unlock()
	}
	return s, out, &codes
}

func TestGo_ErrorIsLoggedAndProcessContinues(t *testing.T) {
	s, out, codes := newTestSupervisor()

	s.Go("sweeper", func() error { return errors.New("disk gone") })
	s.Wait()

	assert.Empty(t, *codes)
	assert.Contains(t, out.String(), "disk gone")
	assert.Contains(t, out.String(), "sweeper")
}

func TestGo_PanicExitsWithStatusOne(t *testing.T) {
	s, out, codes := newTestSupervisor()

	s.Go("listener", func() error { panic("boom") })
	s.Wait()

	assert.Equal(t, []int{1}, *codes)
	assert.Contains(t, out.String(), "boom")
}

func TestGo_NilErrorIsQuiet(t *testing.T) {
	s, out, codes := newTestSupervisor()

	s.Go("noop", func() error { return nil })
	s.Wait()

	assert.Empty(t, *codes)
	assert.Empty(t, out.String())
}

func TestRecover(t *testing.T) {
	s, _, codes := newTestSupervisor()

	func() {
		defer s.Recover()
		panic("main failed")
	}()

	assert.Equal(t, []int{1}, *codes)
}
