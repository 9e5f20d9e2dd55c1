// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package guest

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/virtmon/virtmon/internal/image"
)

// IRQ is a guest-visible interrupt line number.
type IRQ uint32

// VCPUID identifies a guest virtual CPU.
type VCPUID uint32

const (
	// BootVCPU is the virtual CPU the guest is booted on.
	BootVCPU VCPUID = 0

	// SerialIRQ is the guest interrupt line of the serial device.
	SerialIRQ IRQ = 33
)

// AckFunc acknowledges a virtual interrupt once the guest has handled
// it. It is registered with the [IRQController] at boot and invoked by
// the controller, not by the monitor.
type AckFunc func(vcpu VCPUID, irq IRQ)

// ImageLoader relocates the guest boot images into guest memory and
// returns the guest entry point.
type ImageLoader interface {
	SetupImages(ramBase image.GuestAddr, set *image.Set) (image.GuestAddr, error)
}

// IRQController is the virtual interrupt controller of the guest. It
// owns all pending and active virtual interrupt state.
type IRQController interface {
	// Init prepares the controller. Must be called before Register or
	// Inject.
	Init() error

	// Register binds a guest interrupt line to a vCPU and an
	// acknowledgment callback.
	Register(vcpu VCPUID, irq IRQ, ack AckFunc) error

	// Inject marks the interrupt pending for the guest. It fails if the
	// controller cannot accept the interrupt, for example because it is
	// already pending.
	Inject(irq IRQ) error
}

// FaultDispatcher decodes and emulates a trapped guest exception. A nil
// return means the guest may resume; an error means the fault is not
// recoverable at this layer.
type FaultDispatcher interface {
	Handle(vcpu VCPUID, msg Message) error
}

// VCPU starts the guest virtual CPU.
type VCPU interface {
	// Start begins guest execution at the entry point, passing the DTB
	// and initrd guest addresses as boot arguments. It returns once the
	// vCPU is started; execution continues asynchronously.
	Start(entry, dtb, initrd image.GuestAddr) error
}

// Platform is the hosting microkernel side of the monitor.
type Platform interface {
	// AckIRQ acknowledges the physical interrupt source behind the
	// channel. Acknowledging an already clear source is a no-op.
	AckIRQ(ch Channel) error
}

// IRQBinding maps a notification channel to a guest interrupt line.
type IRQBinding struct {
	Channel Channel
	IRQ     IRQ

	// Ack is registered with the controller for this line. If nil, a
	// default callback acknowledging the channel on the platform is
	// used.
	Ack AckFunc
}

// Config defines a [Monitor]. All collaborator fields are required.
type Config struct {
	// Images is the guest boot image set.
	Images *image.Set

	// RAMBase is the guest address the guest RAM window starts at. It
	// is provided by the hosting runtime.
	RAMBase image.GuestAddr

	Loader     ImageLoader
	Controller IRQController
	Dispatcher FaultDispatcher
	VCPU       VCPU
	Platform   Platform

	// Bindings are the channel-to-interrupt mappings registered during
	// boot. If empty, the serial binding is used.
	Bindings []IRQBinding

	// Log is the logger used by the monitor. Defaults to
	// [slog.Default].
	Log *slog.Logger
}

// Validate checks for missing required fields.
func (cfg *Config) Validate() error {
	missing := ""

	switch {
	case cfg.Images == nil:
		missing = "image set"
	case cfg.Loader == nil:
		missing = "image loader"
	case cfg.Controller == nil:
		missing = "interrupt controller"
	case cfg.Dispatcher == nil:
		missing = "fault dispatcher"
	case cfg.VCPU == nil:
		missing = "vCPU"
	case cfg.Platform == nil:
		missing = "platform"
	}

	if missing != "" {
		return fmt.Errorf("%w: %s missing", ErrConfigInvalid, missing)
	}

	for _, b := range cfg.Bindings {
		if !b.Channel.isKnown() {
			return fmt.Errorf("%w: %d", ErrChannelInvalid, b.Channel)
		}
	}

	return nil
}

// Monitor is the control front end for a single guest. It owns the
// guest state machine, the channel binding table and the event
// counters.
//
// Boot, Notify and Fault must be invoked by a single logical thread of
// control. State and Stats may be called concurrently.
type Monitor struct {
	cfg Config
	log *slog.Logger

	// Written once during Boot, read-only afterwards.
	bindings map[Channel]IRQBinding
	entry    image.GuestAddr

	state atomic.Int32
	stats stats
}

// NewMonitor creates a [Monitor] from the given config.
func NewMonitor(cfg Config) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(cfg.Bindings) == 0 {
		cfg.Bindings = []IRQBinding{
			{Channel: ChannelSerial, IRQ: SerialIRQ},
		}
	}

	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	return &Monitor{
		cfg: cfg,
		log: log,
	}, nil
}

// State returns the current guest state.
func (m *Monitor) State() State {
	return State(m.state.Load())
}

func (m *Monitor) setState(s State) {
	m.state.Store(int32(s))
}

// EntryPoint returns the guest entry point. Zero before a successful
// boot.
func (m *Monitor) EntryPoint() image.GuestAddr {
	return m.entry
}

// Boot places the guest images, initializes the virtual interrupt
// controller, registers the interrupt bindings, drains possibly latched
// interrupt sources and starts the guest vCPU.
//
// Each step is a hard precondition for the next, except interrupt
// registration: a registration failure only disconnects that source
// from the guest and is logged and counted, not escalated. Any fatal
// step failure leaves the guest unstarted; retrying with the same
// inputs yields the same error.
func (m *Monitor) Boot() (image.GuestAddr, error) {
	if m.State() != StateUnstarted {
		return 0, &BootError{Step: "start", Err: ErrAlreadyStarted}
	}

	m.log.Info("Booting guest",
		slog.String("ram_base", m.cfg.RAMBase.String()),
		slog.Int("kernel_size", len(m.cfg.Images.Kernel)),
		slog.Int("dtb_size", len(m.cfg.Images.DTB)),
		slog.Int("initrd_size", len(m.cfg.Images.Initrd)))

	entry, err := m.cfg.Loader.SetupImages(m.cfg.RAMBase, m.cfg.Images)
	if err != nil {
		return 0, &BootError{
			Step: "images",
			Err:  errors.Join(ErrImageSetup, err),
		}
	}

	if entry == 0 {
		return 0, &BootError{Step: "images", Err: ErrImageSetup}
	}

	if err := m.cfg.Controller.Init(); err != nil {
		return 0, &BootError{
			Step: "controller",
			Err:  errors.Join(ErrControllerInit, err),
		}
	}

	bindings := make(map[Channel]IRQBinding, len(m.cfg.Bindings))
	for _, b := range m.cfg.Bindings {
		if b.Ack == nil {
			b.Ack = m.defaultAck(b.Channel)
		}

		err := m.cfg.Controller.Register(BootVCPU, b.IRQ, b.Ack)
		if err != nil {
			// The guest still boots, but this interrupt source can
			// never reach it.
			m.log.Error("IRQ registration failed, source disconnected",
				slog.String("channel", b.Channel.String()),
				slog.Uint64("irq", uint64(b.IRQ)),
				slog.Any("error", err))
			m.stats.registerFailures.Add(1)

			continue
		}

		bindings[b.Channel] = b
	}

	// Drain any interrupt latched before the controller was ready.
	// Acknowledging a clear source is a no-op.
	for ch := range bindings {
		m.ackChannel(ch)
	}

	m.bindings = bindings

	err = m.cfg.VCPU.Start(entry, m.cfg.Images.DTBAddr, m.cfg.Images.InitrdAddr)
	if err != nil {
		return 0, &BootError{
			Step: "start",
			Err:  errors.Join(ErrGuestStart, err),
		}
	}

	m.entry = entry
	m.setState(StateRunning)

	m.log.Info("Guest started",
		slog.String("entry", entry.String()),
		slog.String("dtb", m.cfg.Images.DTBAddr.String()),
		slog.String("initrd", m.cfg.Images.InitrdAddr.String()))

	return entry, nil
}

func (m *Monitor) defaultAck(ch Channel) AckFunc {
	return func(VCPUID, IRQ) {
		m.ackChannel(ch)
	}
}

func (m *Monitor) ackChannel(ch Channel) {
	m.stats.acks.Add(1)

	if err := m.cfg.Platform.AckIRQ(ch); err != nil {
		m.log.Warn("IRQ acknowledge failed",
			slog.String("channel", ch.String()),
			slog.Any("error", err))
	}
}
