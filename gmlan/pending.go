package gmlan

import "time"

// awaitTerminal turns the immediate answer to req into its terminal
// response, absorbing any number of "response pending" interim negatives
// that echo req's service. Each absorption passively listens (same
// timeout) for a further message correlated to req; a closed window is a
// timeout. Pending absorption never counts against a retry budget.
func (c *Client) awaitTerminal(t Transport, req *Request, resp *Response, timeout time.Duration) (*Response, error) {
	for resp.Pending() && resp.RequestService == req.Service {
		c.log.Debug("response pending", "service", req.Service)
		msgs, err := t.Listen(1, timeout, func(r *Response) bool { return r.Answers(req) })
		if err != nil {
			return nil, err
		}
		if len(msgs) == 0 {
			return nil, ErrTimeout
		}
		resp = msgs[0]
	}
	return resp, nil
}

// request performs one round trip resolved through awaitTerminal. Used
// by RequestDownload, TransferData and ReadMemoryByAddress; the session
// initiation and security handshakes exchange directly.
func (c *Client) request(t Transport, req *Request, timeout time.Duration) (*Response, error) {
	resp, err := t.SendReceive(req, timeout)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrTimeout
	}
	return c.awaitTerminal(t, req, resp, timeout)
}
