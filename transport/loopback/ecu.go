package loopback

import (
	"sync"

	"github.com/openecutools/gmdiag/gmlan"
)

// SimulatedECU models enough of a GMLAN node to run the full
// programming flow in-process: session entry, seed/key unlock, chunked
// download into a sparse memory map and memory reads.
type SimulatedECU struct {
	mu sync.Mutex

	// Seed is handed out on a seed request; zero means already unlocked.
	Seed uint16
	// Key is the expected answer to Seed.
	Key uint16

	programming bool
	unlocked    bool
	memory      map[uint32]byte
}

// NewSimulatedECU creates an ECU expecting key for seed.
func NewSimulatedECU(seed, key uint16) *SimulatedECU {
	return &SimulatedECU{
		Seed:   seed,
		Key:    key,
		memory: make(map[uint32]byte),
	}
}

// Memory returns the bytes currently stored at [addr, addr+length).
// Unwritten cells read as zero.
func (e *SimulatedECU) Memory(addr uint32, length int) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]byte, length)
	for i := range out {
		out[i] = e.memory[addr+uint32(i)]
	}
	return out
}

// Programming reports whether the node entered the programming state.
func (e *SimulatedECU) Programming() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.programming
}

// Respond implements Responder.
func (e *SimulatedECU) Respond(req *gmlan.Request) []*gmlan.Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch req.Service {
	case gmlan.ServiceTesterPresent:
		return nil

	case gmlan.ServiceDisableNormalCommunication,
		gmlan.ServiceReportProgrammedState:
		return []*gmlan.Response{{Service: req.Service.PositiveResponse()}}

	case gmlan.ServiceProgrammingMode:
		if req.SubFunction == gmlan.SubEnableProgrammingMode {
			e.programming = true
			return nil
		}
		return []*gmlan.Response{{Service: req.Service.PositiveResponse()}}

	case gmlan.ServiceSecurityAccess:
		if req.SubFunction%2 == 1 {
			seed := e.Seed
			if e.unlocked {
				seed = 0
			}
			return []*gmlan.Response{{Service: req.Service.PositiveResponse(), Seed: seed}}
		}
		if req.Key == e.Key {
			e.unlocked = true
			return []*gmlan.Response{{Service: req.Service.PositiveResponse()}}
		}
		return []*gmlan.Response{{
			Service:        gmlan.ServiceNegativeResponse,
			RequestService: req.Service,
			ReturnCode:     gmlan.ReturnInvalidKey,
		}}

	case gmlan.ServiceRequestDownload:
		if !e.programming {
			return []*gmlan.Response{{
				Service:        gmlan.ServiceNegativeResponse,
				RequestService: req.Service,
				ReturnCode:     gmlan.ReturnConditionsNotCorrect,
			}}
		}
		return []*gmlan.Response{{Service: req.Service.PositiveResponse()}}

	case gmlan.ServiceTransferData:
		if !e.unlocked && e.Seed != 0 {
			return []*gmlan.Response{{
				Service:        gmlan.ServiceNegativeResponse,
				RequestService: req.Service,
				ReturnCode:     gmlan.ReturnSecurityAccessDenied,
			}}
		}
		for i, b := range req.Data {
			e.memory[req.Address+uint32(i)] = b
		}
		return []*gmlan.Response{{Service: req.Service.PositiveResponse()}}

	case gmlan.ServiceReadMemoryByAddress:
		data := make([]byte, req.MemorySize)
		for i := range data {
			data[i] = e.memory[req.Address+uint32(i)]
		}
		return []*gmlan.Response{{Service: req.Service.PositiveResponse(), Data: data}}
	}

	return []*gmlan.Response{{
		Service:        gmlan.ServiceNegativeResponse,
		RequestService: req.Service,
		ReturnCode:     gmlan.ReturnServiceNotSupported,
	}}
}
