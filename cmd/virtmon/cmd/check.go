// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/virtmon/virtmon/internal/image"
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Uint64Var(&ramBase, "ram-base",
		uint64(image.DefaultRAMBase), "guest RAM base address")
	checkCmd.Flags().Uint64Var(&dtbAddr, "dtb-addr",
		uint64(image.DefaultDTBAddr), "guest DTB load address")
	checkCmd.Flags().Uint64Var(&initrdAddr, "initrd-addr",
		uint64(image.DefaultInitrdAddr), "guest initrd load address")
}

var (
	ramBase    uint64
	dtbAddr    uint64
	initrdAddr uint64
)

func loadSet(args []string) (*image.Set, error) {
	set, err := image.Load(args[0], args[1], args[2])
	if err != nil {
		return nil, err
	}

	set.DTBAddr = image.GuestAddr(dtbAddr)
	set.InitrdAddr = image.GuestAddr(initrdAddr)

	return set, nil
}

var checkCmd = &cobra.Command{
	Use:   "check <kernel> <dtb> <initrd>",
	Short: "Validate a guest image set and print its placement",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadSet(args)
		if err != nil {
			return err
		}

		base := image.GuestAddr(ramBase)

		if err := set.Validate(base); err != nil {
			return err
		}

		kernelStart, kernelSize, err := set.KernelRegion(base)
		if err != nil {
			return err
		}

		entries, err := image.InitrdEntries(set.Initrd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "entry point:  %s\n", kernelStart)
		fmt.Fprintf(out, "kernel:       %s, %d bytes\n", kernelStart, kernelSize)
		fmt.Fprintf(out, "dtb:          %s, %d bytes\n", set.DTBAddr, len(set.DTB))
		fmt.Fprintf(out, "initrd:       %s, %d bytes, %d entries\n",
			set.InitrdAddr, len(set.Initrd), entries)

		return nil
	},
}
