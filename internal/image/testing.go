// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package image

import (
	"bytes"
	"encoding/binary"

	"github.com/cavaliergopher/cpio"
)

// MakeKernel builds a minimal arm64 boot image of the given total size
// with the given text offset. The payload beyond the header is zeroed.
// It panics on a size smaller than the header, as it is only intended
// for tests.
func MakeKernel(size int, textOffset uint64) []byte {
	if size < kernelHeaderSize {
		panic("kernel image smaller than header")
	}

	blob := make([]byte, size)
	binary.LittleEndian.PutUint64(blob[8:], textOffset)
	binary.LittleEndian.PutUint64(blob[16:], uint64(size))
	binary.LittleEndian.PutUint32(blob[kernelMagicOffset:], kernelMagic)

	return blob
}

// MakeDTB builds a blob with a valid flattened device tree header of
// the given total size.
func MakeDTB(size int) []byte {
	if size < 8 {
		panic("dtb smaller than header")
	}

	blob := make([]byte, size)
	binary.BigEndian.PutUint32(blob, dtbMagic)
	binary.BigEndian.PutUint32(blob[4:], uint32(size))

	return blob
}

// MakeInitrd builds a cpio (newc) archive containing the given files,
// padded with zero bytes up to minSize if necessary.
func MakeInitrd(minSize int, files map[string][]byte) []byte {
	var buf bytes.Buffer

	writer := cpio.NewWriter(&buf)

	for name, body := range files {
		hdr := &cpio.Header{
			Name: name,
			Mode: cpio.TypeReg | 0o644,
			Size: int64(len(body)),
		}

		if err := writer.WriteHeader(hdr); err != nil {
			panic(err)
		}

		if _, err := writer.Write(body); err != nil {
			panic(err)
		}
	}

	if err := writer.Close(); err != nil {
		panic(err)
	}

	// The kernel ignores trailing padding after the cpio trailer.
	for buf.Len() < minSize {
		buf.WriteByte(0)
	}

	return buf.Bytes()
}
