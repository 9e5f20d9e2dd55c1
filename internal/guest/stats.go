// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package guest

import "sync/atomic"

// stats holds the monitor's event counters. The counters are
// informational: they are never reset and overflow is acceptable.
type stats struct {
	faults           atomic.Uint64
	injected         atomic.Uint64
	dropped          atomic.Uint64
	unknownChannels  atomic.Uint64
	registerFailures atomic.Uint64
	acks             atomic.Uint64
}

// Stats is a snapshot of the monitor's event counters.
type Stats struct {
	// Faults is the number of trapped guest exceptions handled,
	// regardless of verdict.
	Faults uint64

	// Injected is the number of virtual interrupts accepted by the
	// controller.
	Injected uint64

	// Dropped is the number of virtual interrupts the controller
	// rejected or that arrived for a halted guest.
	Dropped uint64

	// UnknownChannels is the number of notifications on channels
	// outside the registered set.
	UnknownChannels uint64

	// RegisterFailures is the number of interrupt sources that could
	// not be registered during boot and therefore never reach the
	// guest.
	RegisterFailures uint64

	// Acks is the number of physical interrupt acknowledgments issued.
	Acks uint64
}

// Stats returns a snapshot of the event counters. Safe to call
// concurrently with the entry points.
func (m *Monitor) Stats() Stats {
	return Stats{
		Faults:           m.stats.faults.Load(),
		Injected:         m.stats.injected.Load(),
		Dropped:          m.stats.dropped.Load(),
		UnknownChannels:  m.stats.unknownChannels.Load(),
		RegisterFailures: m.stats.registerFailures.Load(),
		Acks:             m.stats.acks.Load(),
	}
}
