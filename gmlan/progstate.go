package gmlan

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/openecutools/gmdiag/common"
)

// Programming-entry sequence states. One attempt of InitDiagnostics
// walks them in order; a failed step resets to idle before the retry.
var (
	StateSessionIdle          = "IDLE"
	StateNormalCommDisabled   = "NORMAL-COMM-DISABLED"
	StateProgrammedStateKnown = "PROGRAMMED-STATE-KNOWN"
	StateProgrammingRequested = "PROGRAMMING-REQUESTED"
	StateProgrammingEnabled   = "PROGRAMMING-ENABLED"
)

type programmingSequence struct {
	fsm *fsm.FSM
}

func newProgrammingSequence(log common.Logger) *programmingSequence {
	ps := &programmingSequence{}

	ps.fsm = fsm.NewFSM(
		StateSessionIdle,
		fsm.Events{
			{Name: "disableNormalComm", Src: []string{StateSessionIdle}, Dst: StateNormalCommDisabled},
			{Name: "reportProgrammedState", Src: []string{StateNormalCommDisabled}, Dst: StateProgrammedStateKnown},
			{Name: "requestProgramming", Src: []string{StateProgrammedStateKnown}, Dst: StateProgrammingRequested},
			{Name: "enableProgramming", Src: []string{StateProgrammingRequested}, Dst: StateProgrammingEnabled},
			{Name: "reset", Src: []string{
				StateSessionIdle,
				StateNormalCommDisabled,
				StateProgrammedStateKnown,
				StateProgrammingRequested,
				StateProgrammingEnabled,
			}, Dst: StateSessionIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debug("programming sequence", "state", e.Dst)
			},
		},
	)

	return ps
}

func (ps *programmingSequence) Current() string {
	return ps.fsm.Current()
}

func (ps *programmingSequence) DisableNormalComm() error {
	return ps.fsm.Event(context.Background(), "disableNormalComm")
}

func (ps *programmingSequence) ReportProgrammedState() error {
	return ps.fsm.Event(context.Background(), "reportProgrammedState")
}

func (ps *programmingSequence) RequestProgramming() error {
	return ps.fsm.Event(context.Background(), "requestProgramming")
}

func (ps *programmingSequence) EnableProgramming() error {
	return ps.fsm.Event(context.Background(), "enableProgramming")
}

func (ps *programmingSequence) Reset() error {
	return ps.fsm.Event(context.Background(), "reset")
}
