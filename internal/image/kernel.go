// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package image

import (
	"encoding/binary"
	"fmt"
)

// arm64 boot image header, as defined by the kernel's booting
// documentation. All fields are little-endian.
const (
	kernelHeaderSize  = 64
	kernelMagicOffset = 56
	kernelMagic       = 0x644d5241 // "ARM\x64"

	// Image placement offset used before the image_size field existed.
	// An image_size of zero signals such a legacy image.
	legacyTextOffset = 0x80000
)

type kernelHeader struct {
	textOffset uint64
	imageSize  uint64
}

func parseKernelHeader(blob []byte) (kernelHeader, error) {
	if len(blob) < kernelHeaderSize {
		return kernelHeader{}, fmt.Errorf("%w: %d bytes",
			ErrKernelImageInvalid, len(blob))
	}

	magic := binary.LittleEndian.Uint32(blob[kernelMagicOffset:])
	if magic != kernelMagic {
		return kernelHeader{}, fmt.Errorf("%w: bad magic %#08x",
			ErrKernelImageInvalid, magic)
	}

	hdr := kernelHeader{
		textOffset: binary.LittleEndian.Uint64(blob[8:]),
		imageSize:  binary.LittleEndian.Uint64(blob[16:]),
	}

	if hdr.imageSize == 0 {
		hdr.textOffset = legacyTextOffset
	}

	return hdr, nil
}

// Flattened device tree header magic, big-endian.
const dtbMagic = 0xd00dfeed

func validateDTB(blob []byte) error {
	if len(blob) < 8 {
		return fmt.Errorf("%w: %d bytes", ErrDTBInvalid, len(blob))
	}

	if magic := binary.BigEndian.Uint32(blob); magic != dtbMagic {
		return fmt.Errorf("%w: bad magic %#08x", ErrDTBInvalid, magic)
	}

	if totalSize := binary.BigEndian.Uint32(blob[4:]); uint64(totalSize) > uint64(len(blob)) {
		return fmt.Errorf("%w: header claims %d bytes, blob has %d",
			ErrDTBInvalid, totalSize, len(blob))
	}

	return nil
}
