// Package loopback provides an in-process gmlan.Transport backed by a
// caller-supplied ECU responder. It is the transport used by the example
// harness and by integration-style tests; real buses plug in below the
// gmlan.Transport interface instead.
package loopback

import (
	"sync"
	"time"

	"github.com/openecutools/gmdiag/gmlan"
	"github.com/openecutools/gmdiag/utils"
)

// Responder produces the ECU's reaction to one request. An empty result
// models a silent ECU. When several responses are returned, the first is
// delivered as the immediate answer and the rest become continuation
// frames observable through Listen — which is how a "response pending"
// interim followed by the terminal answer is scripted.
type Responder func(req *gmlan.Request) []*gmlan.Response

// Params fixes the addressing a transport is bound to.
type Params struct {
	RequestID       uint32
	ResponseID      uint32
	ExtendedAddress byte
}

// Endpoint is one side of the loopback pair, implementing
// gmlan.Transport for the tool.
type Endpoint struct {
	mu        sync.Mutex
	params    Params
	responder Responder
	backlog   *utils.Queue[*gmlan.Response]
}

// New creates a point-to-point endpoint answering through responder.
func New(responder Responder) *Endpoint {
	return &Endpoint{
		responder: responder,
		backlog:   utils.NewQueue[*gmlan.Response](),
	}
}

// NewBroadcast creates an endpoint bound to the AllNodes functional
// addressing (CAN ID 0x101, extended address 0xFE). Broadcast requests
// never produce a readable response; use it for the tester-present
// keep-alive and the broadcast path of InitDiagnostics.
func NewBroadcast(responder Responder) *Endpoint {
	e := New(responder)
	e.params = Params{
		RequestID:       gmlan.AllNodesRequestID,
		ResponseID:      gmlan.AllNodesResponseID,
		ExtendedAddress: gmlan.AllNodesExtendedAddress,
	}
	return e
}

// Params returns the addressing the endpoint is bound to.
func (e *Endpoint) Params() Params {
	return e.params
}

func (e *Endpoint) respond(req *gmlan.Request) []*gmlan.Response {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.responder == nil {
		return nil
	}
	return e.responder(req)
}

// Send transmits fire-and-forget. The ECU still observes the request;
// any responses it would have produced are dropped, as nothing reads
// answers to functional requests.
func (e *Endpoint) Send(req *gmlan.Request) error {
	e.respond(req)
	return nil
}

// SendReceive delivers the ECU's first response and buffers the rest as
// continuation frames. A silent ECU yields gmlan.ErrTimeout.
func (e *Endpoint) SendReceive(req *gmlan.Request, timeout time.Duration) (*gmlan.Response, error) {
	resps := e.respond(req)
	if len(resps) == 0 {
		return nil, gmlan.ErrTimeout
	}
	for _, r := range resps[1:] {
		e.backlog.Put(r)
	}
	return resps[0], nil
}

// Listen drains buffered continuation frames matching the predicate,
// waiting up to timeout for each. Non-matching frames are discarded.
func (e *Endpoint) Listen(count int, timeout time.Duration, match func(*gmlan.Response) bool) ([]*gmlan.Response, error) {
	deadline := time.Now().Add(timeout)
	var out []*gmlan.Response
	for len(out) < count {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		r, err := e.backlog.Get(remaining)
		if err != nil {
			break
		}
		if match == nil || match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
