package gmlan

import (
	"errors"
	"fmt"
	"time"

	"github.com/openecutools/gmdiag/common"
	"go.uber.org/atomic"
)

var (
	// ErrTimeout indicates the ECU did not answer within the configured
	// timeout.
	ErrTimeout = errors.New("gmlan: timeout waiting for response")
	// ErrNegativeResponse indicates the ECU answered with a negative
	// response or an unexpected service code.
	ErrNegativeResponse = errors.New("gmlan: negative response")
	// ErrInvalidKey indicates the ECU rejected the submitted security key.
	ErrInvalidKey = errors.New("gmlan: security key rejected")
	// ErrInvalidParameter indicates a precondition violation detected
	// before any transport activity; never retried.
	ErrInvalidParameter = errors.New("gmlan: invalid parameter")
)

// maxRecordLen is the protocol ceiling for the dataRecord of a single
// message. TransferData subtracts the addressing width from it; a memory
// read may return one byte more than a write can carry.
const maxRecordLen = 4093

// Client drives GMLAN diagnostic services over transports it does not
// own. A Client is not safe for concurrent foreground use on a single
// transport; the tester-present keep-alive is the only component meant
// to run alongside an operation, on its own transport.
type Client struct {
	cfg      Config
	log      common.Logger
	unlocked *atomic.Bool
}

// New creates a Client. The zero Config is usable: 4-byte addressing,
// silent logger, default timings.
func New(cfg Config) *Client {
	cfg.applyDefaults()
	return &Client{
		cfg:      cfg,
		log:      cfg.Logger,
		unlocked: atomic.NewBool(false),
	}
}

// SecurityUnlocked reports whether a prior GetSecurityAccess succeeded
// (including the zero-seed already-unlocked case).
func (c *Client) SecurityUnlocked() bool {
	return c.unlocked.Load()
}

// replyTimeout substitutes the configured default for non-positive
// caller timeouts.
func (c *Client) replyTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return c.cfg.Timings.ReplyTimeout()
	}
	return timeout
}

// normalizeRetries maps any caller-supplied retry count onto a
// non-negative budget of additional attempts.
func normalizeRetries(retries int) int {
	if retries < 0 {
		return -retries
	}
	return retries
}

// validAddress checks addr against the configured addressing scheme.
func (c *Client) validAddress(addr uint32) bool {
	return uint64(addr) < uint64(1)<<(8*c.cfg.AddressingScheme)
}

// errUnexpected wraps a terminal response that is not the wanted
// positive service code.
func errUnexpected(resp *Response, want Service) error {
	if resp.Negative() {
		return fmt.Errorf("%w to %s: %s", ErrNegativeResponse, resp.RequestService, resp.ReturnCode)
	}
	return fmt.Errorf("%w: got %s, want %s", ErrNegativeResponse, resp.Service, want)
}
