package gmlan

import (
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
)

// RequestDownload declares the uncompressed size of an upcoming
// transfer. The response is resolved through the response-pending
// poller; any other outcome than the positive service code consumes one
// retry and resends the identical request.
func (c *Client) RequestDownload(t Transport, length uint32, timeout time.Duration, retries int) error {
	timeout = c.replyTimeout(timeout)
	req := &Request{Service: ServiceRequestDownload, MemorySize: length}

	err := retry.Do(func() error {
		resp, err := c.request(t, req, timeout)
		if err != nil {
			return err
		}
		if resp.Service != ServiceRequestDownload.PositiveResponse() {
			return errUnexpected(resp, ServiceRequestDownload.PositiveResponse())
		}
		return nil
	},
		retry.Attempts(uint(normalizeRetries(retries)+1)),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(0),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("request download failed, retrying", "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		c.log.Error("request download failed", "length", length, "err", err)
		return fmt.Errorf("request download: %w", err)
	}
	return nil
}

// TransferData writes payload to ECU memory at addr, split into
// sequential chunks of at most maxChunk bytes. A maxChunk that is
// non-positive or above the protocol ceiling (maxRecordLen minus the
// addressing width) is clamped to the ceiling.
//
// Each chunk gets a fresh retry budget; once a chunk exhausts it the
// whole upload fails with no partial-success signal, even if earlier
// chunks were accepted.
func (c *Client) TransferData(t Transport, addr uint32, payload []byte, maxChunk int, timeout time.Duration, retries int) error {
	if !c.validAddress(addr) {
		c.log.Warn("invalid address for addressing scheme",
			"addr", fmt.Sprintf("0x%X", addr), "scheme", c.cfg.AddressingScheme)
		return fmt.Errorf("%w: address 0x%X out of range for %d-byte scheme",
			ErrInvalidParameter, addr, c.cfg.AddressingScheme)
	}

	ceiling := maxRecordLen - c.cfg.AddressingScheme
	if maxChunk <= 0 || maxChunk > ceiling {
		maxChunk = ceiling
	}
	timeout = c.replyTimeout(timeout)
	budget := normalizeRetries(retries)

	for offset := 0; offset < len(payload); offset += maxChunk {
		end := offset + maxChunk
		if end > len(payload) {
			end = len(payload)
		}
		req := &Request{
			Service: ServiceTransferData,
			Address: addr + uint32(offset),
			Data:    payload[offset:end],
		}

		err := retry.Do(func() error {
			resp, err := c.request(t, req, timeout)
			if err != nil {
				return err
			}
			if resp.Service != ServiceTransferData.PositiveResponse() {
				return errUnexpected(resp, ServiceTransferData.PositiveResponse())
			}
			return nil
		},
			retry.Attempts(uint(budget+1)),
			retry.DelayType(retry.FixedDelay),
			retry.Delay(0),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) {
				c.log.Warn("transfer data chunk failed, retrying",
					"offset", offset, "attempt", n+1, "err", err)
			}),
		)
		if err != nil {
			c.log.Error("transfer data aborted", "offset", offset, "err", err)
			return fmt.Errorf("transfer data at offset %d: %w", offset, err)
		}
		c.log.Debug("chunk transferred", "offset", offset, "len", end-offset)
	}
	return nil
}

// TransferPayload uploads payload to addr: RequestDownload for the total
// length, then TransferData for the chunks. If the size declaration
// fails no data is sent.
func (c *Client) TransferPayload(t Transport, addr uint32, payload []byte, maxChunk int, timeout time.Duration, retries int) error {
	if err := c.RequestDownload(t, uint32(len(payload)), timeout, retries); err != nil {
		return err
	}
	return c.TransferData(t, addr, payload, maxChunk, timeout, retries)
}
