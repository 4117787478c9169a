package gmlan

import (
	"sync"
	"time"
)

// mockECU is a scriptable Transport: handler decides how the ECU reacts
// to each request. The first returned response is the immediate answer,
// the rest become continuation frames served by Listen. Every outgoing
// message is recorded.
type mockECU struct {
	mu      sync.Mutex
	handler func(req *Request) []*Response
	sent    []*Request
	backlog []*Response
}

func newMockECU(handler func(req *Request) []*Response) *mockECU {
	return &mockECU{handler: handler}
}

func (m *mockECU) Send(req *Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, req)
	if m.handler != nil {
		m.handler(req)
	}
	return nil
}

func (m *mockECU) SendReceive(req *Request, timeout time.Duration) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, req)
	if m.handler == nil {
		return nil, ErrTimeout
	}
	resps := m.handler(req)
	if len(resps) == 0 {
		return nil, ErrTimeout
	}
	m.backlog = append(m.backlog, resps[1:]...)
	return resps[0], nil
}

func (m *mockECU) Listen(count int, timeout time.Duration, match func(*Response) bool) ([]*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Response
	var rest []*Response
	for _, r := range m.backlog {
		if len(out) < count && (match == nil || match(r)) {
			out = append(out, r)
			continue
		}
		rest = append(rest, r)
	}
	m.backlog = rest
	return out, nil
}

func (m *mockECU) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *mockECU) sentRequests() []*Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Request, len(m.sent))
	copy(out, m.sent)
	return out
}

// sentTo filters the recorded requests by service.
func (m *mockECU) sentTo(s Service) []*Request {
	var out []*Request
	for _, req := range m.sentRequests() {
		if req.Service == s {
			out = append(out, req)
		}
	}
	return out
}

func positive(s Service) *Response {
	return &Response{Service: s.PositiveResponse()}
}

func negative(s Service, rc ReturnCode) *Response {
	return &Response{Service: ServiceNegativeResponse, RequestService: s, ReturnCode: rc}
}

func pending(s Service) *Response {
	return negative(s, ReturnResponsePending)
}

// testClient builds a quiet client with fast timings for tests.
func testClient(scheme int) *Client {
	return New(Config{AddressingScheme: scheme})
}
