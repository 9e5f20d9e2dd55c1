// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package guest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virtmon/virtmon/internal/guest"
)

func bootedMonitor(t *testing.T) (*guest.Monitor, *fakes) {
	t.Helper()

	mon, f := newTestMonitor(t)

	_, err := mon.Boot()
	require.NoError(t, err)

	// Drop the boot-time drain ack so tests only see notification acks.
	f.platform.Acks = nil

	return mon, f
}

func TestMonitorNotify(t *testing.T) {
	mon, f := bootedMonitor(t)

	mon.Notify(guest.ChannelSerial)

	assert.Equal(t, []guest.Channel{guest.ChannelSerial}, f.platform.Acks)
	assert.Equal(t, []guest.IRQ{guest.SerialIRQ}, f.controller.Injected)
	assert.Equal(t, guest.StateRunning, mon.State())

	stats := mon.Stats()
	assert.EqualValues(t, 1, stats.Injected)
	assert.EqualValues(t, 0, stats.Dropped)
}

func TestMonitorNotify_AcksOncePerCall(t *testing.T) {
	tests := []struct {
		name      string
		injectErr error
	}{
		{
			name: "injection succeeds",
		},
		{
			name:      "injection fails",
			injectErr: errCollaborator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon, f := bootedMonitor(t)
			f.controller.InjectErr = tt.injectErr

			const calls = 5
			for i := 0; i < calls; i++ {
				mon.Notify(guest.ChannelSerial)
			}

			// The physical source is acknowledged exactly once per
			// notification, regardless of the injection outcome.
			assert.Len(t, f.platform.Acks, calls)
		})
	}
}

func TestMonitorNotify_InjectionFailureIsDropped(t *testing.T) {
	mon, f := bootedMonitor(t)

	// First pulse latches the IRQ, second one finds it still pending.
	f.controller.InjectErrs = []error{nil, errCollaborator}

	mon.Notify(guest.ChannelSerial)
	mon.Notify(guest.ChannelSerial)

	assert.Equal(t, guest.StateRunning, mon.State())
	assert.Len(t, f.platform.Acks, 2)
	assert.Equal(t, []guest.IRQ{guest.SerialIRQ}, f.controller.Injected)

	stats := mon.Stats()
	assert.EqualValues(t, 1, stats.Injected)
	assert.EqualValues(t, 1, stats.Dropped)
}

func TestMonitorNotify_UnknownChannel(t *testing.T) {
	mon, f := bootedMonitor(t)

	assert.NotPanics(t, func() {
		mon.Notify(guest.Channel(42))
	})

	assert.Empty(t, f.platform.Acks)
	assert.Empty(t, f.controller.Injected)
	assert.EqualValues(t, 1, mon.Stats().UnknownChannels)
	assert.Equal(t, guest.StateRunning, mon.State())
}

func TestMonitorNotify_KeepsGuestRunning(t *testing.T) {
	mon, f := bootedMonitor(t)

	const pulses = 100
	for i := 0; i < pulses; i++ {
		mon.Notify(guest.ChannelSerial)
	}

	assert.Equal(t, guest.StateRunning, mon.State())
	assert.Len(t, f.controller.Injected, pulses)
	assert.EqualValues(t, pulses, mon.Stats().Injected)
}

func TestMonitorNotify_HaltedGuest(t *testing.T) {
	mon, f := bootedMonitor(t)

	// Halt the guest with an unrecoverable fault.
	f.dispatcher.Err = errCollaborator
	verdict := mon.Fault(guest.BootVCPU, guest.Message{})
	require.False(t, verdict.Resume)
	require.Equal(t, guest.StateHalted, mon.State())

	assert.NotPanics(t, func() {
		mon.Notify(guest.ChannelSerial)
	})

	// The physical source is still acknowledged, but nothing is
	// injected.
	assert.Len(t, f.platform.Acks, 1)
	assert.Empty(t, f.controller.Injected)
	assert.EqualValues(t, 1, mon.Stats().Dropped)
	assert.Equal(t, guest.StateHalted, mon.State())
}

func TestMonitorNotify_PlatformAckFailure(t *testing.T) {
	mon, f := bootedMonitor(t)
	f.platform.Err = errCollaborator

	// An ack failure does not prevent the injection attempt.
	assert.NotPanics(t, func() {
		mon.Notify(guest.ChannelSerial)
	})

	assert.Equal(t, []guest.IRQ{guest.SerialIRQ}, f.controller.Injected)
}
