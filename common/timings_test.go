package common

import (
	"testing"
	"time"
)

func TestTimingsDefaults(t *testing.T) {
	tm := NewTimings()

	if tm.ReplyTimeout() != time.Second {
		t.Errorf("expected default reply timeout 1s, got %v", tm.ReplyTimeout())
	}
	if tm.InterStepDelay() != 50*time.Millisecond {
		t.Errorf("expected default inter-step delay 50ms, got %v", tm.InterStepDelay())
	}
	if tm.KeepAliveWakeDelay() != 300*time.Millisecond {
		t.Errorf("expected default keep-alive wake delay 300ms, got %v", tm.KeepAliveWakeDelay())
	}
	if tm.KeepAlivePeriod() != 3*time.Second {
		t.Errorf("expected default keep-alive period 3s, got %v", tm.KeepAlivePeriod())
	}
}

func TestTimingsSetters(t *testing.T) {
	tm := NewTimings()

	tm.SetReplyTimeout(250 * time.Millisecond)
	if tm.ReplyTimeout() != 250*time.Millisecond {
		t.Errorf("reply timeout not updated, got %v", tm.ReplyTimeout())
	}

	tm.SetInterStepDelay(10 * time.Millisecond)
	if tm.InterStepDelay() != 10*time.Millisecond {
		t.Errorf("inter-step delay not updated, got %v", tm.InterStepDelay())
	}

	tm.SetKeepAliveWakeDelay(time.Millisecond)
	if tm.KeepAliveWakeDelay() != time.Millisecond {
		t.Errorf("wake delay not updated, got %v", tm.KeepAliveWakeDelay())
	}

	tm.SetKeepAlivePeriod(time.Minute)
	if tm.KeepAlivePeriod() != time.Minute {
		t.Errorf("keep-alive period not updated, got %v", tm.KeepAlivePeriod())
	}
}
