// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

// Package guesttest provides scriptable fakes for the collaborator
// interfaces of the guest package.
package guesttest

import (
	"github.com/virtmon/virtmon/internal/guest"
	"github.com/virtmon/virtmon/internal/image"
)

// Loader implements the image loader contract. It records calls and
// returns the configured entry point and error.
type Loader struct {
	Entry image.GuestAddr
	Err   error

	Calls    int
	RAMBase  image.GuestAddr
	ImageSet *image.Set
}

func (l *Loader) SetupImages(
	ramBase image.GuestAddr,
	set *image.Set,
) (image.GuestAddr, error) {
	l.Calls++
	l.RAMBase = ramBase
	l.ImageSet = set

	if l.Err != nil {
		return 0, l.Err
	}

	return l.Entry, nil
}

// Registration records a single Register call on [Controller].
type Registration struct {
	VCPU guest.VCPUID
	IRQ  guest.IRQ
	Ack  guest.AckFunc
}

// Controller implements the virtual interrupt controller contract.
type Controller struct {
	InitErr     error
	RegisterErr error

	// InjectErr is returned by every Inject call. InjectErrs, if not
	// empty, takes precedence and is consumed one element per call.
	InjectErr  error
	InjectErrs []error

	InitCalls  int
	Registered []Registration
	Injected   []guest.IRQ
}

func (c *Controller) Init() error {
	c.InitCalls++
	return c.InitErr
}

func (c *Controller) Register(
	vcpu guest.VCPUID,
	irq guest.IRQ,
	ack guest.AckFunc,
) error {
	if c.RegisterErr != nil {
		return c.RegisterErr
	}

	c.Registered = append(c.Registered, Registration{vcpu, irq, ack})

	return nil
}

func (c *Controller) Inject(irq guest.IRQ) error {
	if len(c.InjectErrs) > 0 {
		err := c.InjectErrs[0]
		c.InjectErrs = c.InjectErrs[1:]

		if err != nil {
			return err
		}
	} else if c.InjectErr != nil {
		return c.InjectErr
	}

	c.Injected = append(c.Injected, irq)

	return nil
}

// FaultCall records a single Handle call on [Dispatcher].
type FaultCall struct {
	VCPU guest.VCPUID
	Msg  guest.Message
}

// Dispatcher implements the fault dispatcher contract. HandleFunc, if
// set, takes precedence over Err.
type Dispatcher struct {
	Err        error
	HandleFunc func(vcpu guest.VCPUID, msg guest.Message) error

	Calls []FaultCall
}

func (d *Dispatcher) Handle(vcpu guest.VCPUID, msg guest.Message) error {
	d.Calls = append(d.Calls, FaultCall{vcpu, msg})

	if d.HandleFunc != nil {
		return d.HandleFunc(vcpu, msg)
	}

	return d.Err
}

// VCPU implements the vCPU start contract.
type VCPU struct {
	Err error

	Started bool
	Entry   image.GuestAddr
	DTB     image.GuestAddr
	Initrd  image.GuestAddr
}

func (v *VCPU) Start(entry, dtb, initrd image.GuestAddr) error {
	if v.Err != nil {
		return v.Err
	}

	v.Started = true
	v.Entry = entry
	v.DTB = dtb
	v.Initrd = initrd

	return nil
}

// Platform implements the platform acknowledgment contract.
type Platform struct {
	Err error

	Acks []guest.Channel
}

func (p *Platform) AckIRQ(ch guest.Channel) error {
	p.Acks = append(p.Acks, ch)
	return p.Err
}
