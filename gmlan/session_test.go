package gmlan

import (
	"errors"
	"testing"
	"time"

	"github.com/openecutools/gmdiag/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cooperativeECU() func(req *Request) []*Response {
	return func(req *Request) []*Response {
		switch req.Service {
		case ServiceDisableNormalCommunication:
			return []*Response{positive(ServiceDisableNormalCommunication)}
		case ServiceReportProgrammedState:
			return []*Response{positive(ServiceReportProgrammedState)}
		case ServiceProgrammingMode:
			if req.SubFunction == SubRequestProgrammingMode {
				return []*Response{positive(ServiceProgrammingMode)}
			}
			return nil // enableProgramming is never answered
		}
		return nil
	}
}

// Scenario: a cooperative ECU answers the three response-bearing steps
// positively; the whole sequence is exactly four messages and observes
// the two inter-step delays.
func TestInitDiagnosticsHappyPath(t *testing.T) {
	ecu := newMockECU(cooperativeECU())

	timings := common.NewTimings()
	timings.SetInterStepDelay(30 * time.Millisecond)
	c := New(Config{AddressingScheme: 1, Timings: timings})

	start := time.Now()
	err := c.InitDiagnostics(ecu, nil, 100*time.Millisecond, 0)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 4, ecu.sentCount())
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond, "both inter-step delays must be observed")

	wantServices := []Service{
		ServiceDisableNormalCommunication,
		ServiceReportProgrammedState,
		ServiceProgrammingMode,
		ServiceProgrammingMode,
	}
	for i, req := range ecu.sentRequests() {
		assert.Equal(t, wantServices[i], req.Service, "message %d", i)
	}
	assert.Equal(t, SubRequestProgrammingMode, ecu.sentRequests()[2].SubFunction)
	assert.Equal(t, SubEnableProgrammingMode, ecu.sentRequests()[3].SubFunction)
}

func TestInitDiagnosticsBroadcastPath(t *testing.T) {
	ecu := newMockECU(cooperativeECU())
	// Broadcast transport never answers; fire-and-forget only.
	broadcast := newMockECU(nil)

	c := testClient(1)
	err := c.InitDiagnostics(ecu, broadcast, 50*time.Millisecond, 0)

	require.NoError(t, err)
	require.Equal(t, 1, broadcast.sentCount())
	assert.Equal(t, ServiceDisableNormalCommunication, broadcast.sentRequests()[0].Service)
	// DisableNormalCommunication went out on broadcast, the rest unicast.
	assert.Equal(t, 3, ecu.sentCount())
}

// A silent ECU exhausts the budget: n+1 attempts, each aborted at the
// first step.
func TestInitDiagnosticsRetryBudget(t *testing.T) {
	ecu := newMockECU(nil)
	c := testClient(1)

	err := c.InitDiagnostics(ecu, nil, 10*time.Millisecond, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 3, ecu.sentCount())
}

// A failure in a later step restarts the sequence from the first step.
func TestInitDiagnosticsRestartsFromStepOne(t *testing.T) {
	calls := 0
	ecu := newMockECU(func(req *Request) []*Response {
		switch req.Service {
		case ServiceDisableNormalCommunication:
			return []*Response{positive(ServiceDisableNormalCommunication)}
		case ServiceReportProgrammedState:
			calls++
			if calls == 1 {
				return []*Response{negative(ServiceReportProgrammedState, ReturnConditionsNotCorrect)}
			}
			return []*Response{positive(ServiceReportProgrammedState)}
		case ServiceProgrammingMode:
			if req.SubFunction == SubRequestProgrammingMode {
				return []*Response{positive(ServiceProgrammingMode)}
			}
			return nil
		}
		return nil
	})
	c := testClient(1)

	err := c.InitDiagnostics(ecu, nil, 10*time.Millisecond, 1)

	require.NoError(t, err)
	// attempt 1: disable + report (negative); attempt 2: all four.
	assert.Equal(t, 6, ecu.sentCount())
	assert.Len(t, ecu.sentTo(ServiceDisableNormalCommunication), 2)
}

func TestInitDiagnosticsNegativeRetriesNormalized(t *testing.T) {
	ecu := newMockECU(nil)
	c := testClient(1)

	err := c.InitDiagnostics(ecu, nil, 10*time.Millisecond, -1)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, 2, ecu.sentCount())
}
