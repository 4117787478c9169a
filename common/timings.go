package common

import "time"

// Timings collects the protocol timing parameters shared by the
// diagnostic operations and the tester-present keep-alive.
type Timings struct {
	// reply timeout: how long an operation waits for the ECU to answer a
	// single request before the exchange counts as failed.
	replyTimeout time.Duration
	// inter-step delay: ECU processing latency observed after
	// DisableNormalCommunication and ProgrammingMode requestProgramming.
	interStepDelay time.Duration
	// keep-alive wake delay: pause between the initial TesterPresent wake
	// pulse and the start of the periodic transmission.
	keepAliveWakeDelay time.Duration
	// keep-alive period: interval between periodic TesterPresent messages.
	keepAlivePeriod time.Duration
}

// NewTimings returns Timings with the GMLAN defaults.
func NewTimings() *Timings {
	return &Timings{
		replyTimeout:       1 * time.Second,
		interStepDelay:     50 * time.Millisecond,
		keepAliveWakeDelay: 300 * time.Millisecond,
		keepAlivePeriod:    3 * time.Second,
	}
}

func (t *Timings) ReplyTimeout() time.Duration {
	return t.replyTimeout
}

func (t *Timings) SetReplyTimeout(d time.Duration) {
	t.replyTimeout = d
}

func (t *Timings) InterStepDelay() time.Duration {
	return t.interStepDelay
}

func (t *Timings) SetInterStepDelay(d time.Duration) {
	t.interStepDelay = d
}

func (t *Timings) KeepAliveWakeDelay() time.Duration {
	return t.keepAliveWakeDelay
}

func (t *Timings) SetKeepAliveWakeDelay(d time.Duration) {
	t.keepAliveWakeDelay = d
}

func (t *Timings) KeepAlivePeriod() time.Duration {
	return t.keepAlivePeriod
}

func (t *Timings) SetKeepAlivePeriod(d time.Duration) {
	t.keepAlivePeriod = d
}
