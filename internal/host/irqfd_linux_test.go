// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

//go:build linux

package host_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virtmon/virtmon/internal/guest"
	"github.com/virtmon/virtmon/internal/host"
)

func waitForStats(
	t *testing.T,
	mon *guest.Monitor,
	cond func(guest.Stats) bool,
) {
	t.Helper()

	require.Eventually(t, func() bool {
		return cond(mon.Stats())
	}, 5*time.Second, 10*time.Millisecond)
}

func TestIRQFdNotifiesLoop(t *testing.T) {
	mon, controller := newBootedMonitor(t)

	source, err := host.NewIRQFd(guest.ChannelSerial)
	require.NoError(t, err)

	t.Cleanup(func() { _ = source.Close() })

	loop := host.NewLoop(mon)
	stop := runLoop(t, loop, source)

	require.NoError(t, source.Fire())

	waitForStats(t, mon, func(s guest.Stats) bool {
		return s.Injected == 1
	})

	stop()

	assert.Equal(t, []guest.IRQ{guest.SerialIRQ}, controller.Injected)
}

func TestIRQFdCoalescesPulses(t *testing.T) {
	mon, _ := newBootedMonitor(t)

	source, err := host.NewIRQFd(guest.ChannelSerial)
	require.NoError(t, err)

	t.Cleanup(func() { _ = source.Close() })

	// Pulses fired before anyone watches accumulate in the eventfd
	// counter and surface as a single notification.
	for i := 0; i < 5; i++ {
		require.NoError(t, source.Fire())
	}

	loop := host.NewLoop(mon)
	stop := runLoop(t, loop, source)

	waitForStats(t, mon, func(s guest.Stats) bool {
		return s.Injected+s.Dropped >= 1
	})

	stop()

	// One ack from the boot-time drain, one from the notification.
	stats := mon.Stats()
	assert.EqualValues(t, 1, stats.Injected+stats.Dropped)
	assert.EqualValues(t, 2, stats.Acks)
}

func TestIRQFdFireAfterClose(t *testing.T) {
	source, err := host.NewIRQFd(guest.ChannelSerial)
	require.NoError(t, err)

	require.NoError(t, source.Close())

	err = source.Fire()
	require.ErrorIs(t, err, host.ErrSourceClosed)

	// Close is idempotent.
	require.NoError(t, source.Close())
}
