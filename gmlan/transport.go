package gmlan

import "time"

// AllNodes addressing parameters for functional (broadcast) requests,
// per GMW3110: requests go out on CAN identifier 0x101 with the AllNodes
// extended address 0xFE and no response identifier.
const (
	AllNodesRequestID       uint32 = 0x101
	AllNodesResponseID      uint32 = 0x000
	AllNodesExtendedAddress byte   = 0xFE
)

// Transport is the point-to-point channel the protocol engine drives.
// Implementations deliver whole application messages; framing and
// segmentation happen below this interface.
//
// A single Transport must not be shared by two concurrent foreground
// operations: responses are correlated first-received. The tester-present
// keep-alive should run on its own (typically broadcast) transport.
type Transport interface {
	// Send transmits req without waiting for an answer.
	Send(req *Request) error

	// SendReceive transmits req and blocks until the first response
	// arrives or timeout elapses. A silent ECU yields ErrTimeout.
	SendReceive(req *Request, timeout time.Duration) (*Response, error)

	// Listen passively waits up to timeout for at most count messages
	// matching the predicate, returning fewer (possibly none) when the
	// window closes. It must not transmit anything.
	Listen(count int, timeout time.Duration, match func(*Response) bool) ([]*Response, error)
}
