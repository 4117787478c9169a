package gmlan

import (
	"time"

	"github.com/openecutools/gmdiag/common"
	"go.uber.org/atomic"
)

// TesterPresent periodically re-asserts the diagnostic session so the
// ECU does not drop back to normal operation while the tool is idle or
// busy with a long transfer. It only ever transmits; no responses are
// read. Give it a dedicated transport (typically broadcast) so it does
// not race the foreground operation for responses.
type TesterPresent struct {
	transport Transport
	log       common.Logger
	timings   *common.Timings

	running *atomic.Bool
	stop    chan struct{}
	done    chan struct{}
}

// NewTesterPresent builds a keep-alive transmitter for t. A nil logger
// is silent; nil timings use the defaults.
func NewTesterPresent(t Transport, timings *common.Timings, log common.Logger) *TesterPresent {
	if timings == nil {
		timings = common.NewTimings()
	}
	if log == nil {
		log = common.NopLogger()
	}
	return &TesterPresent{
		transport: t,
		log:       log,
		timings:   timings,
		running:   atomic.NewBool(false),
	}
}

// Start sends an immediate wake pulse and then transmits TesterPresent
// every keep-alive period until Stop is called. Starting a running
// transmitter is a no-op.
func (tp *TesterPresent) Start() {
	if !tp.running.CompareAndSwap(false, true) {
		return
	}
	tp.stop = make(chan struct{})
	tp.done = make(chan struct{})
	go tp.loop(tp.stop, tp.done)
}

// Stop requests cancellation and blocks until the loop has exited. No
// message is sent after Stop returns. Stopping a stopped transmitter is
// a no-op.
func (tp *TesterPresent) Stop() {
	if !tp.running.CompareAndSwap(true, false) {
		return
	}
	close(tp.stop)
	<-tp.done
}

// Running reports whether the background loop is active.
func (tp *TesterPresent) Running() bool {
	return tp.running.Load()
}

func (tp *TesterPresent) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	req := &Request{Service: ServiceTesterPresent}
	tp.send(req)

	wake := time.NewTimer(tp.timings.KeepAliveWakeDelay())
	select {
	case <-stop:
		wake.Stop()
		return
	case <-wake.C:
	}

	ticker := time.NewTicker(tp.timings.KeepAlivePeriod())
	defer ticker.Stop()
	for {
		tp.send(req)
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

func (tp *TesterPresent) send(req *Request) {
	if err := tp.transport.Send(req); err != nil {
		tp.log.Warn("tester present send failed", "err", err)
	}
}
