// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package image

import "errors"

var (
	// ErrKernelImageInvalid is returned if the kernel blob is empty or
	// does not carry a valid arm64 boot image header.
	ErrKernelImageInvalid = errors.New("invalid kernel image")

	// ErrDTBInvalid is returned if the device tree blob does not start
	// with the flattened device tree magic or claims a size larger than
	// the blob itself.
	ErrDTBInvalid = errors.New("invalid device tree blob")

	// ErrInitrdInvalid is returned if the initial RAM disk is not a
	// readable cpio (newc) archive.
	ErrInitrdInvalid = errors.New("invalid initial RAM disk")

	// ErrImageOverlap is returned if the guest placement regions of the
	// kernel, DTB and initrd are not pairwise disjoint.
	ErrImageOverlap = errors.New("image placement regions overlap")

	// ErrImageTooLarge is returned if an image does not fit into the
	// guest RAM window at its load address.
	ErrImageTooLarge = errors.New("image does not fit into guest RAM")
)
