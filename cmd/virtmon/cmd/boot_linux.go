// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

//go:build linux

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/virtmon/virtmon/internal/guest"
	"github.com/virtmon/virtmon/internal/host"
	"github.com/virtmon/virtmon/internal/image"
	"golang.org/x/sync/errgroup"
)

var (
	bootRAMSize uint64
	runFor      time.Duration
)

func init() {
	rootCmd.AddCommand(bootCmd)

	bootCmd.Flags().Uint64Var(&ramBase, "ram-base",
		uint64(image.DefaultRAMBase), "guest RAM base address")
	bootCmd.Flags().Uint64Var(&dtbAddr, "dtb-addr",
		uint64(image.DefaultDTBAddr), "guest DTB load address")
	bootCmd.Flags().Uint64Var(&initrdAddr, "initrd-addr",
		uint64(image.DefaultInitrdAddr), "guest initrd load address")
	bootCmd.Flags().Uint64Var(&bootRAMSize, "ram-size",
		image.DefaultRAMSize, "guest RAM size in bytes")
	bootCmd.Flags().DurationVar(&runFor, "run-for",
		2*time.Second, "how long to run the event loop")
}

var bootCmd = &cobra.Command{
	Use:   "boot <kernel> <dtb> <initrd>",
	Short: "Boot a guest image set with in-memory collaborators",
	Long: `Boot places the images into a host-side guest RAM window, starts the
monitor with demonstration collaborators, fires a synthetic serial
interrupt through an eventfd and prints the event counters. It is a
harness for exercising the control front end without a microkernel.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadSet(args)
		if err != nil {
			return err
		}

		base := image.GuestAddr(ramBase)

		mon, err := guest.NewMonitor(guest.Config{
			Images:     set,
			RAMBase:    base,
			Loader:     image.NewLoader(base, bootRAMSize),
			Controller: &latchController{},
			Dispatcher: resumeDispatcher{},
			VCPU:       logVCPU{},
			Platform:   logPlatform{},
		})
		if err != nil {
			return err
		}

		entry, err := mon.Boot()
		if err != nil {
			return err
		}

		source, err := host.NewIRQFd(guest.ChannelSerial)
		if err != nil {
			return err
		}
		defer source.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), runFor)
		defer cancel()

		loop := host.NewLoop(mon)

		eg, ctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			return loop.Run(ctx, source)
		})

		if err := source.Fire(); err != nil {
			return err
		}

		// One synthetic trap to exercise the fault path.
		verdict, err := loop.Fault(ctx, guest.BootVCPU, guest.Message{})
		if err != nil {
			return err
		}

		if err := eg.Wait(); err != nil {
			return err
		}

		stats := mon.Stats()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "entry point:  %s\n", entry)
		fmt.Fprintf(out, "state:        %s\n", mon.State())
		fmt.Fprintf(out, "fault resume: %v\n", verdict.Resume)
		fmt.Fprintf(out, "injected:     %d\n", stats.Injected)
		fmt.Fprintf(out, "dropped:      %d\n", stats.Dropped)
		fmt.Fprintf(out, "faults:       %d\n", stats.Faults)

		return nil
	},
}

// latchController is a single-slot pending latch standing in for the
// virtual interrupt controller. A second injection while the line is
// pending is rejected, which the monitor records as a drop.
type latchController struct {
	registered map[guest.IRQ]guest.AckFunc
	pending    map[guest.IRQ]bool
}

func (c *latchController) Init() error {
	c.registered = make(map[guest.IRQ]guest.AckFunc)
	c.pending = make(map[guest.IRQ]bool)

	return nil
}

func (c *latchController) Register(
	vcpu guest.VCPUID,
	irq guest.IRQ,
	ack guest.AckFunc,
) error {
	c.registered[irq] = ack
	return nil
}

func (c *latchController) Inject(irq guest.IRQ) error {
	if _, ok := c.registered[irq]; !ok {
		return fmt.Errorf("IRQ %d not registered", irq)
	}

	if c.pending[irq] {
		return fmt.Errorf("IRQ %d already pending", irq)
	}

	c.pending[irq] = true

	return nil
}

// resumeDispatcher emulates every fault successfully.
type resumeDispatcher struct{}

func (resumeDispatcher) Handle(guest.VCPUID, guest.Message) error {
	return nil
}

type logVCPU struct{}

func (logVCPU) Start(entry, dtb, initrd image.GuestAddr) error {
	slog.Info("Guest vCPU started",
		slog.String("entry", entry.String()),
		slog.String("dtb", dtb.String()),
		slog.String("initrd", initrd.String()))

	return nil
}

type logPlatform struct{}

func (logPlatform) AckIRQ(ch guest.Channel) error {
	slog.Debug("Physical IRQ acknowledged",
		slog.String("channel", ch.String()))

	return nil
}
