// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

//go:build linux

package host

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/virtmon/virtmon/internal/guest"
	"golang.org/x/sys/unix"
)

// irqFdPollTimeout bounds how long a Watch iteration blocks in poll
// before rechecking for cancellation.
const irqFdPollTimeout = 100 * time.Millisecond

// IRQFd is an eventfd-backed [IRQSource] bound to a single notification
// channel. Writing to the file descriptor raises the interrupt; the
// eventfd counter coalesces pulses that arrive while the event is
// pending, like a latched interrupt line.
type IRQFd struct {
	channel guest.Channel

	mu     sync.Mutex
	fd     int
	closed bool
}

// NewIRQFd creates an [IRQFd] for the given channel.
func NewIRQFd(ch guest.Channel) (*IRQFd, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("eventfd: %w", err)
	}

	return &IRQFd{
		channel: ch,
		fd:      fd,
	}, nil
}

// FD returns the underlying file descriptor, for handing to an external
// interrupt producer.
func (s *IRQFd) FD() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fd
}

// Fire raises the interrupt once.
func (s *IRQFd) Fire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSourceClosed
	}

	var val [8]byte

	binary.LittleEndian.PutUint64(val[:], 1)

	if _, err := unix.Write(s.fd, val[:]); err != nil {
		return fmt.Errorf("eventfd write: %w", err)
	}

	return nil
}

// Close releases the file descriptor. A running Watch returns on its
// next poll iteration.
func (s *IRQFd) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	return unix.Close(s.fd)
}

// Watch implements [IRQSource]. Any number of pulses since the last
// read is delivered as a single notification.
func (s *IRQFd) Watch(ctx context.Context, notify func(guest.Channel)) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		readable, open, err := s.poll()
		if err != nil {
			return err
		}

		if !open {
			return nil
		}

		if !readable {
			continue
		}

		pending, err := s.drain()
		if err != nil {
			return err
		}

		if pending {
			notify(s.channel)
		}
	}
}

// poll waits for the eventfd to become readable, bounded by the poll
// timeout so cancellation and Close are noticed.
func (s *IRQFd) poll() (readable, open bool, err error) {
	s.mu.Lock()
	fd := s.fd
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return false, false, nil
	}

	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	n, err := unix.Poll(fds, int(irqFdPollTimeout.Milliseconds()))
	if errors.Is(err, unix.EINTR) {
		return false, true, nil
	}

	if err != nil {
		return false, false, fmt.Errorf("poll eventfd: %w", err)
	}

	readable = n > 0 && fds[0].Revents&unix.POLLIN != 0

	return readable, true, nil
}

// drain consumes the eventfd counter, coalescing all pulses since the
// last read into one pending interrupt.
func (s *IRQFd) drain() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, nil
	}

	var val [8]byte

	_, err := unix.Read(s.fd, val[:])
	if errors.Is(err, unix.EAGAIN) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("eventfd read: %w", err)
	}

	return true, nil
}
