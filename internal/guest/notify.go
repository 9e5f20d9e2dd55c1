// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package guest

import "log/slog"

// Notify handles a physical interrupt notification from the hosting
// runtime.
//
// For a registered channel the physical source is acknowledged first,
// exactly once per call, so a second physical pulse arriving during
// injection is never lost at the hardware level. Then the mapped
// virtual interrupt is injected. An injection failure is a dropped
// interrupt: logged and counted, not retried. Notifications on unknown
// channels and notifications while the guest is halted are logged
// no-ops.
func (m *Monitor) Notify(ch Channel) {
	binding, ok := m.bindings[ch]
	if !ok {
		m.log.Error("Notification on unexpected channel",
			slog.Uint64("channel", uint64(ch)))
		m.stats.unknownChannels.Add(1)

		return
	}

	m.ackChannel(ch)

	if m.State() == StateHalted {
		m.log.Warn("IRQ for halted guest dropped",
			slog.String("channel", ch.String()),
			slog.Uint64("irq", uint64(binding.IRQ)))
		m.stats.dropped.Add(1)

		return
	}

	if err := m.cfg.Controller.Inject(binding.IRQ); err != nil {
		m.log.Warn("IRQ dropped",
			slog.String("channel", ch.String()),
			slog.Uint64("irq", uint64(binding.IRQ)),
			slog.Any("error", err))
		m.stats.dropped.Add(1)

		return
	}

	m.stats.injected.Add(1)
}
