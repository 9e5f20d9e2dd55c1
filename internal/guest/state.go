// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package guest

// State is the guest life cycle state as observed by the monitor.
//
// The only transitions are Unstarted to Running on a successful boot
// and Running to Halted on an unrecoverable fault. Halted is terminal.
type State int32

const (
	// StateUnstarted means the guest vCPU has not been started. A
	// failed boot leaves the guest in this state for good.
	StateUnstarted State = iota

	// StateRunning means the guest vCPU has been started and may
	// generate faults and receive virtual interrupts.
	StateRunning

	// StateHalted means the guest hit an unrecoverable fault and must
	// not be resumed.
	StateHalted
)

// String implements [fmt.Stringer].
func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	default:
		return "invalid"
	}
}
