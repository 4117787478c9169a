package gmlan

import (
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
)

// InitDiagnostics moves the ECU from normal operation into the
// programming state: DisableNormalCommunication, ReportProgrammedState,
// ProgrammingMode requestProgramming, ProgrammingMode enableProgramming.
//
// When broadcast is non-nil the DisableNormalCommunication request goes
// out fire-and-forget on it (recommended on a network with several
// ECUs); otherwise it is sent on t and must be answered positively. The
// enableProgramming step never expects a response. A failed step aborts
// the attempt and, while retry budget remains, the whole sequence
// restarts from the first step.
func (c *Client) InitDiagnostics(t, broadcast Transport, timeout time.Duration, retries int) error {
	timeout = c.replyTimeout(timeout)
	seq := newProgrammingSequence(c.log)

	attempt := func() error {
		_ = seq.Reset()

		disable := &Request{Service: ServiceDisableNormalCommunication}
		if broadcast != nil {
			c.log.Debug("sending DisableNormalCommunication as broadcast")
			if err := broadcast.Send(disable); err != nil {
				return fmt.Errorf("disable normal communication: %w", err)
			}
		} else {
			c.log.Debug("sending DisableNormalCommunication")
			if err := c.expectPositive(t, disable, timeout); err != nil {
				return fmt.Errorf("disable normal communication: %w", err)
			}
		}
		_ = seq.DisableNormalComm()
		time.Sleep(c.cfg.Timings.InterStepDelay())

		c.log.Debug("sending ReportProgrammedState")
		report := &Request{Service: ServiceReportProgrammedState}
		if err := c.expectPositive(t, report, timeout); err != nil {
			return fmt.Errorf("report programmed state: %w", err)
		}
		_ = seq.ReportProgrammedState()

		c.log.Debug("sending ProgrammingMode requestProgramming")
		request := &Request{Service: ServiceProgrammingMode, SubFunction: SubRequestProgrammingMode}
		if err := c.expectPositive(t, request, timeout); err != nil {
			return fmt.Errorf("request programming mode: %w", err)
		}
		_ = seq.RequestProgramming()
		time.Sleep(c.cfg.Timings.InterStepDelay())

		// No response expected once programming is enabled.
		c.log.Debug("sending ProgrammingMode enableProgramming")
		enable := &Request{Service: ServiceProgrammingMode, SubFunction: SubEnableProgrammingMode}
		if err := t.Send(enable); err != nil {
			return fmt.Errorf("enable programming mode: %w", err)
		}
		_ = seq.EnableProgramming()
		return nil
	}

	err := retry.Do(attempt,
		retry.Attempts(uint(normalizeRetries(retries)+1)),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(0),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("diagnostic session init failed, retrying", "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		c.log.Error("diagnostic session init failed", "err", err)
		return err
	}
	c.log.Info("ECU in programming state")
	return nil
}

// expectPositive performs one uncorrelated round trip and requires the
// positive service code for req. The programming-entry steps do not use
// the response-pending poller; interim negatives fail the step.
func (c *Client) expectPositive(t Transport, req *Request, timeout time.Duration) error {
	resp, err := t.SendReceive(req, timeout)
	if err != nil {
		return err
	}
	if resp == nil {
		return ErrTimeout
	}
	if resp.Service != req.Service.PositiveResponse() {
		return errUnexpected(resp, req.Service.PositiveResponse())
	}
	return nil
}
