// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package host

import (
	"context"

	"github.com/virtmon/virtmon/internal/guest"
	"golang.org/x/sync/errgroup"
)

// IRQSource produces physical interrupt notifications. Watch blocks
// until the context is canceled, calling notify once per observed
// interrupt event.
type IRQSource interface {
	Watch(ctx context.Context, notify func(guest.Channel)) error
}

// event is a single delivery to the monitor. Exactly one of the fault
// reply channel or the plain notification is used.
type event struct {
	channel guest.Channel

	fault *faultEvent
}

type faultEvent struct {
	vcpu  guest.VCPUID
	msg   guest.Message
	reply chan guest.Verdict
}

// Loop serializes event delivery into a [guest.Monitor]. All events are
// handled on the goroutine running [Loop.Run], satisfying the monitor's
// single-threaded invocation contract.
type Loop struct {
	mon    *guest.Monitor
	events chan event
	done   chan struct{}
}

// NewLoop creates a [Loop] for the given monitor.
func NewLoop(mon *guest.Monitor) *Loop {
	return &Loop{
		mon:    mon,
		events: make(chan event),
		done:   make(chan struct{}),
	}
}

// Run watches all sources and drains events into the monitor until the
// context is canceled. It returns the first source error, or nil on
// cancellation.
func (l *Loop) Run(ctx context.Context, sources ...IRQSource) error {
	defer close(l.done)

	eg, ctx := errgroup.WithContext(ctx)

	for _, source := range sources {
		source := source
		eg.Go(func() error {
			return source.Watch(ctx, func(ch guest.Channel) {
				_ = l.Notify(ctx, ch)
			})
		})
	}

	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-l.events:
				l.deliver(ev)
			}
		}
	})

	return eg.Wait()
}

func (l *Loop) deliver(ev event) {
	if ev.fault != nil {
		ev.fault.reply <- l.mon.Fault(ev.fault.vcpu, ev.fault.msg)
		return
	}

	l.mon.Notify(ev.channel)
}

// Notify submits a physical interrupt notification. It blocks until the
// loop accepts the event or the context or loop ends.
func (l *Loop) Notify(ctx context.Context, ch guest.Channel) error {
	select {
	case l.events <- event{channel: ch}:
		return nil
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fault submits a trapped guest exception and waits for the verdict.
// The fault is handled on the loop goroutine, serialized with all other
// events.
func (l *Loop) Fault(
	ctx context.Context,
	vcpu guest.VCPUID,
	msg guest.Message,
) (guest.Verdict, error) {
	fault := &faultEvent{
		vcpu:  vcpu,
		msg:   msg,
		reply: make(chan guest.Verdict, 1),
	}

	select {
	case l.events <- event{fault: fault}:
	case <-l.done:
		return guest.Verdict{}, ErrLoopClosed
	case <-ctx.Done():
		return guest.Verdict{}, ctx.Err()
	}

	select {
	case verdict := <-fault.reply:
		return verdict, nil
	case <-ctx.Done():
		return guest.Verdict{}, ctx.Err()
	}
}
