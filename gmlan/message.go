package gmlan

// Request is a single diagnostic service request. Requests are built by
// the operations and sent as-is; only the fields relevant to Service are
// populated.
type Request struct {
	Service     Service
	SubFunction byte

	// Address is the target memory address for TransferData and
	// ReadMemoryByAddress.
	Address uint32

	// MemorySize declares the uncompressed payload size for
	// RequestDownload and the block size for ReadMemoryByAddress.
	MemorySize uint32

	// Key is the security key submitted at SecurityAccess level+1.
	Key uint16

	// Data is the dataRecord carried by TransferData.
	Data []byte
}

// Response is a single message produced by the transport. Either a
// positive response (Service = request service + 0x40) or a negative
// response (Service = 0x7F) with the request service echoed alongside a
// return code.
type Response struct {
	Service Service

	// RequestService and ReturnCode are only meaningful on negative
	// responses.
	RequestService Service
	ReturnCode     ReturnCode

	// Seed is the challenge carried by a positive SecurityAccess response.
	Seed uint16

	// Data is the dataRecord of a positive response, e.g. the bytes
	// returned by ReadMemoryByAddress.
	Data []byte
}

// Negative reports whether r is a negative response.
func (r *Response) Negative() bool {
	return r.Service == ServiceNegativeResponse
}

// Pending reports whether r is the "request correctly received, response
// pending" interim negative.
func (r *Response) Pending() bool {
	return r.Negative() && r.ReturnCode == ReturnResponsePending
}

// Answers reports whether r correlates to req: a positive response with
// the matching service code, or a negative response echoing it.
func (r *Response) Answers(req *Request) bool {
	if req == nil || r == nil {
		return false
	}
	if r.Negative() {
		return r.RequestService == req.Service
	}
	return r.Service == req.Service.PositiveResponse()
}
