// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package image

import "fmt"

// Loader relocates boot images into a host-side guest RAM window. It
// implements the image loader contract the boot orchestrator depends
// on: place all images, then return the guest entry point, or zero on
// failure.
type Loader struct {
	base GuestAddr
	ram  []byte
}

// NewLoader creates a [Loader] backed by a zeroed RAM window of the
// given size, mapped at the given guest base address.
func NewLoader(base GuestAddr, size uint64) *Loader {
	return &Loader{
		base: base,
		ram:  make([]byte, size),
	}
}

// RAM exposes the backing RAM window. The slice aliases the loader's
// memory, so writes are visible to subsequent reads.
func (l *Loader) RAM() []byte {
	return l.ram
}

// SetupImages validates the set, copies kernel, DTB and initrd to their
// guest addresses and returns the guest entry point.
func (l *Loader) SetupImages(ramBase GuestAddr, set *Set) (GuestAddr, error) {
	if err := set.Validate(ramBase); err != nil {
		return 0, err
	}

	entry, _, err := set.KernelRegion(ramBase)
	if err != nil {
		return 0, err
	}

	copies := []struct {
		name string
		addr GuestAddr
		blob []byte
	}{
		{"kernel", entry, set.Kernel},
		{"dtb", set.DTBAddr, set.DTB},
		{"initrd", set.InitrdAddr, set.Initrd},
	}

	for _, c := range copies {
		if err := l.copyIn(c.addr, c.blob); err != nil {
			return 0, fmt.Errorf("place %s: %w", c.name, err)
		}
	}

	return entry, nil
}

func (l *Loader) copyIn(addr GuestAddr, blob []byte) error {
	if addr < l.base {
		return fmt.Errorf("%w: %s below RAM base %s",
			ErrImageTooLarge, addr, l.base)
	}

	offset := uint64(addr - l.base)
	if offset+uint64(len(blob)) > uint64(len(l.ram)) {
		return fmt.Errorf("%w: %d bytes at %s", ErrImageTooLarge,
			len(blob), addr)
	}

	copy(l.ram[offset:], blob)

	return nil
}
