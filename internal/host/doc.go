// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

// Package host adapts a [guest.Monitor] to a hosting environment. The
// monitor's entry points must be invoked one at a time; [Loop] provides
// this discipline by draining all events on a single goroutine, the way
// a microkernel runtime would deliver notifications and faults to a
// protection-domain entry point.
//
// On Linux, [IRQFd] provides an eventfd-backed physical interrupt
// source in the style of KVM's irqfd: any writer to the file descriptor
// raises the interrupt, and pulses arriving while the event is pending
// coalesce like a latched line.
package host
