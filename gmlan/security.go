package gmlan

import (
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
)

// KeyFunc derives the security key for a seed issued by the ECU. The
// algorithm is supplied by the caller; nothing is assumed about it.
type KeyFunc func(seed uint16) uint16

// GetSecurityAccess authenticates on the ECU with the seed/key
// procedure at the given access level. Levels are odd by definition; the
// key is submitted at level+1. An even level or nil keyFn fails
// immediately without transport activity.
//
// A seed of zero means the ECU is already unlocked and no key is sent
// (GMW3110 convention). An invalid-key negative consumes one retry and
// requests a fresh seed; a stale seed is never reused.
func (c *Client) GetSecurityAccess(t Transport, level byte, keyFn KeyFunc, timeout time.Duration, retries int) error {
	if level%2 == 0 {
		c.log.Warn("security access level must be odd", "level", level)
		return fmt.Errorf("%w: security access level %d is even", ErrInvalidParameter, level)
	}
	if keyFn == nil {
		c.log.Warn("no key derivation function supplied")
		return fmt.Errorf("%w: nil key function", ErrInvalidParameter)
	}
	timeout = c.replyTimeout(timeout)

	seedReq := &Request{Service: ServiceSecurityAccess, SubFunction: level}

	attempt := func() error {
		c.log.Debug("requesting seed", "level", level)
		resp, err := t.SendReceive(seedReq, timeout)
		if err != nil {
			return fmt.Errorf("seed request: %w", err)
		}
		if resp == nil {
			return fmt.Errorf("seed request: %w", ErrTimeout)
		}
		if resp.Service != ServiceSecurityAccess.PositiveResponse() {
			return fmt.Errorf("seed request: %w", errUnexpected(resp, ServiceSecurityAccess.PositiveResponse()))
		}

		if resp.Seed == 0 {
			c.log.Info("ECU security already unlocked (seed 0x0000)")
			c.unlocked.Store(true)
			return nil
		}

		keyReq := &Request{
			Service:     ServiceSecurityAccess,
			SubFunction: level + 1,
			Key:         keyFn(resp.Seed),
		}
		c.log.Debug("responding with key", "seed", fmt.Sprintf("0x%04X", resp.Seed))
		keyResp, err := t.SendReceive(keyReq, timeout)
		if err != nil {
			return fmt.Errorf("key submission: %w", err)
		}
		if keyResp == nil {
			return fmt.Errorf("key submission: %w", ErrTimeout)
		}
		if keyResp.Service == ServiceSecurityAccess.PositiveResponse() {
			c.log.Info("security access granted", "level", level)
			c.unlocked.Store(true)
			return nil
		}
		if keyResp.Negative() && keyResp.ReturnCode == ReturnInvalidKey {
			return fmt.Errorf("key submission: %w", ErrInvalidKey)
		}
		return fmt.Errorf("key submission: %w", errUnexpected(keyResp, ServiceSecurityAccess.PositiveResponse()))
	}

	err := retry.Do(attempt,
		retry.Attempts(uint(normalizeRetries(retries)+1)),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(0),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("security access attempt failed, retrying", "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		c.log.Error("security access failed", "level", level, "err", err)
	}
	return err
}
