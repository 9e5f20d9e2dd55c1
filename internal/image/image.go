// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package image

import (
	"fmt"
	"os"
)

// Default guest placement, shared across platforms for simplicity. The
// values leave enough room below the DTB for a modest initrd and do not
// intersect the kernel region for any sane text offset.
const (
	DefaultRAMBase    GuestAddr = 0x40000000
	DefaultRAMSize    uint64    = 0x10000000
	DefaultDTBAddr    GuestAddr = 0x4f000000
	DefaultInitrdAddr GuestAddr = 0x4d000000
)

// GuestAddr is a guest-physical address.
type GuestAddr uint64

// String implements [fmt.Stringer].
func (a GuestAddr) String() string {
	return fmt.Sprintf("%#x", uint64(a))
}

// Set is the complete set of boot images for a single guest together
// with the fixed guest load addresses for the DTB and the initrd. It is
// immutable once constructed.
type Set struct {
	// Kernel is the raw arm64 boot image.
	Kernel []byte

	// DTB is the flattened device tree passed to the kernel.
	DTB []byte

	// Initrd is the initial RAM disk, a cpio (newc) archive.
	Initrd []byte

	// DTBAddr is the fixed guest address the DTB is loaded at.
	DTBAddr GuestAddr

	// InitrdAddr is the fixed guest address the initrd is loaded at.
	InitrdAddr GuestAddr
}

// NewSet creates a [Set] with the default DTB and initrd load
// addresses.
func NewSet(kernel, dtb, initrd []byte) *Set {
	return &Set{
		Kernel:     kernel,
		DTB:        dtb,
		Initrd:     initrd,
		DTBAddr:    DefaultDTBAddr,
		InitrdAddr: DefaultInitrdAddr,
	}
}

// Load reads a [Set] from the given file paths, using the default load
// addresses.
func Load(kernelPath, dtbPath, initrdPath string) (*Set, error) {
	kernel, err := os.ReadFile(kernelPath)
	if err != nil {
		return nil, fmt.Errorf("read kernel: %w", err)
	}

	dtb, err := os.ReadFile(dtbPath)
	if err != nil {
		return nil, fmt.Errorf("read dtb: %w", err)
	}

	initrd, err := os.ReadFile(initrdPath)
	if err != nil {
		return nil, fmt.Errorf("read initrd: %w", err)
	}

	return NewSet(kernel, dtb, initrd), nil
}

// region is a half-open guest address range.
type region struct {
	start GuestAddr
	size  uint64
}

func (r region) end() GuestAddr {
	return r.start + GuestAddr(r.size)
}

func (r region) overlaps(other region) bool {
	if r.size == 0 || other.size == 0 {
		return false
	}

	return r.start < other.end() && other.start < r.end()
}

// KernelRegion returns the guest region the kernel occupies once
// relocated to the given RAM base. The placement follows the arm64 boot
// protocol: RAM base plus the header's text offset, sized by the
// header's image size or the blob length, whichever is larger.
func (s *Set) KernelRegion(ramBase GuestAddr) (GuestAddr, uint64, error) {
	hdr, err := parseKernelHeader(s.Kernel)
	if err != nil {
		return 0, 0, err
	}

	size := hdr.imageSize
	if blobSize := uint64(len(s.Kernel)); blobSize > size {
		size = blobSize
	}

	return ramBase + GuestAddr(hdr.textOffset), size, nil
}

// EntryPoint returns the guest address execution starts at for the
// given RAM base. For an arm64 boot image this is the start of the
// kernel region.
func (s *Set) EntryPoint(ramBase GuestAddr) (GuestAddr, error) {
	start, _, err := s.KernelRegion(ramBase)
	if err != nil {
		return 0, err
	}

	return start, nil
}

// Validate checks all blobs against their formats and verifies that the
// kernel, DTB and initrd placement regions are pairwise disjoint for
// the given RAM base.
func (s *Set) Validate(ramBase GuestAddr) error {
	kernelStart, kernelSize, err := s.KernelRegion(ramBase)
	if err != nil {
		return err
	}

	if err := validateDTB(s.DTB); err != nil {
		return err
	}

	if _, err := InitrdEntries(s.Initrd); err != nil {
		return err
	}

	regions := []struct {
		name string
		region
	}{
		{"kernel", region{kernelStart, kernelSize}},
		{"dtb", region{s.DTBAddr, uint64(len(s.DTB))}},
		{"initrd", region{s.InitrdAddr, uint64(len(s.Initrd))}},
	}

	for i, a := range regions {
		for _, b := range regions[i+1:] {
			if a.overlaps(b.region) {
				return fmt.Errorf("%w: %s %s+%#x, %s %s+%#x",
					ErrImageOverlap,
					a.name, a.start, a.size,
					b.name, b.start, b.size)
			}
		}
	}

	return nil
}
