// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

// Package guest implements the control front end for a single guest
// virtual machine: boot orchestration, forwarding of physical interrupt
// notifications as virtual interrupts, and the fault entry point that
// turns a trapped guest exception into a resume-or-halt decision.
//
// The heavy lifting is delegated to collaborators behind small
// interfaces: an [ImageLoader] relocates the boot images, an
// [IRQController] keeps the virtual interrupt state, a
// [FaultDispatcher] decodes and emulates trapped exceptions, and a
// [Platform] talks to the hosting microkernel.
//
// A [Monitor] is purely reactive. After [Monitor.Boot] it only acts
// when the hosting runtime delivers an event to [Monitor.Notify] or
// [Monitor.Fault]. The runtime must not invoke these entry points
// concurrently for the same guest; the monitor relies on this
// serialization instead of locking. [Monitor.Stats] and [Monitor.State]
// are safe to call from other goroutines.
package guest
