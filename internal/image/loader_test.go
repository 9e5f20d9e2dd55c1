// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package image_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virtmon/virtmon/internal/image"
)

func TestLoaderSetupImages(t *testing.T) {
	set := validSet()
	loader := image.NewLoader(ramBase, image.DefaultRAMSize)

	entry, err := loader.SetupImages(ramBase, set)
	require.NoError(t, err)

	// The entry point is the kernel's guest-mapped load address.
	expectedEntry, expectedErr := set.EntryPoint(ramBase)
	require.NoError(t, expectedErr)
	assert.Equal(t, expectedEntry, entry)

	ram := loader.RAM()

	kernelOffset := uint64(entry - ramBase)
	assert.Equal(t, set.Kernel, ram[kernelOffset:kernelOffset+uint64(len(set.Kernel))])

	dtbOffset := uint64(set.DTBAddr - ramBase)
	assert.Equal(t, set.DTB, ram[dtbOffset:dtbOffset+uint64(len(set.DTB))])

	initrdOffset := uint64(set.InitrdAddr - ramBase)
	assert.Equal(t, set.Initrd, ram[initrdOffset:initrdOffset+uint64(len(set.Initrd))])
}

func TestLoaderSetupImages_InvalidSet(t *testing.T) {
	set := validSet()
	set.Kernel = nil

	loader := image.NewLoader(ramBase, image.DefaultRAMSize)

	entry, err := loader.SetupImages(ramBase, set)
	require.ErrorIs(t, err, image.ErrKernelImageInvalid)
	assert.Zero(t, entry)
}

func TestLoaderSetupImages_ImageTooLarge(t *testing.T) {
	set := validSet()

	// RAM window ends before the DTB load address.
	loader := image.NewLoader(ramBase, 0x100000)

	entry, err := loader.SetupImages(ramBase, set)
	require.ErrorIs(t, err, image.ErrImageTooLarge)
	assert.Zero(t, entry)
}

func TestLoaderSetupImages_BelowRAMBase(t *testing.T) {
	set := validSet()
	set.InitrdAddr = ramBase - 0x1000

	loader := image.NewLoader(ramBase, image.DefaultRAMSize)

	entry, err := loader.SetupImages(ramBase, set)
	require.ErrorIs(t, err, image.ErrImageTooLarge)
	assert.Zero(t, entry)
}
