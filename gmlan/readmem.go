package gmlan

import (
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
)

// ReadMemoryByAddress reads length bytes of ECU memory starting at addr.
// The address must fit the configured addressing scheme and length must
// be within (0, maxRecordLen+1-width]; violations fail without any
// transport activity. The response is resolved through the
// response-pending poller; any other outcome consumes one retry and
// resends the identical request.
func (c *Client) ReadMemoryByAddress(t Transport, addr uint32, length int, timeout time.Duration, retries int) ([]byte, error) {
	if !c.validAddress(addr) {
		c.log.Warn("invalid address for addressing scheme",
			"addr", fmt.Sprintf("0x%X", addr), "scheme", c.cfg.AddressingScheme)
		return nil, fmt.Errorf("%w: address 0x%X out of range for %d-byte scheme",
			ErrInvalidParameter, addr, c.cfg.AddressingScheme)
	}
	ceiling := maxRecordLen + 1 - c.cfg.AddressingScheme
	if length <= 0 || length > ceiling {
		c.log.Warn("invalid read length for addressing scheme",
			"length", length, "max", ceiling)
		return nil, fmt.Errorf("%w: read length %d outside (0, %d]",
			ErrInvalidParameter, length, ceiling)
	}
	timeout = c.replyTimeout(timeout)

	req := &Request{Service: ServiceReadMemoryByAddress, Address: addr, MemorySize: uint32(length)}

	var data []byte
	err := retry.Do(func() error {
		resp, err := c.request(t, req, timeout)
		if err != nil {
			return err
		}
		if resp.Service != ServiceReadMemoryByAddress.PositiveResponse() {
			return errUnexpected(resp, ServiceReadMemoryByAddress.PositiveResponse())
		}
		data = resp.Data
		return nil
	},
		retry.Attempts(uint(normalizeRetries(retries)+1)),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(0),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("memory read failed, retrying", "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		c.log.Error("memory read failed", "addr", fmt.Sprintf("0x%X", addr), "err", err)
		return nil, fmt.Errorf("read memory by address: %w", err)
	}
	return data, nil
}
