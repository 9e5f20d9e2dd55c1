// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package guest

import "log/slog"

// FaultLogInterval is the number of handled faults between liveness log
// lines.
const FaultLogInterval = 100000

// Message is an opaque trapped-exception message as delivered by the
// hosting runtime. Its interpretation belongs to the fault dispatcher.
type Message struct {
	Label uint64
	Count uint64
}

// Reply is the message delivered back to the faulting guest context on
// resume.
type Reply struct {
	Label uint64
	Count uint64
}

// Verdict is the outcome of handling a single guest fault. Resume means
// guest execution continues and Reply is delivered to the guest
// context. A zero Verdict halts the guest with no reply.
type Verdict struct {
	Resume bool
	Reply  Reply
}

// Fault is the entry point for trapped guest exceptions. It is invoked
// by the hosting runtime once per fault and always produces a verdict.
//
// A successfully emulated fault yields a resume verdict with an empty
// reply. A fault the dispatcher cannot handle is unrecoverable at this
// layer: the guest transitions to [StateHalted] and must not be
// resumed. There is no partial recovery and no fault injection back
// into the guest.
func (m *Monitor) Fault(vcpu VCPUID, msg Message) Verdict {
	handled := m.stats.faults.Add(1)
	if handled%FaultLogInterval == 0 {
		m.log.Info("Handled guest faults",
			slog.Uint64("count", handled))
	}

	if err := m.cfg.Dispatcher.Handle(vcpu, msg); err != nil {
		m.log.Error("Unrecoverable guest fault, halting guest",
			slog.Uint64("vcpu", uint64(vcpu)),
			slog.Uint64("label", msg.Label),
			slog.Any("error", err))
		m.setState(StateHalted)

		return Verdict{}
	}

	return Verdict{Resume: true}
}
