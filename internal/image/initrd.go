// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package image

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/cavaliergopher/cpio"
)

// InitrdEntries walks the initrd archive and returns the number of file
// entries it contains. It returns [ErrInitrdInvalid] if the blob is not
// a readable cpio (newc) archive.
func InitrdEntries(blob []byte) (int, error) {
	if len(blob) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInitrdInvalid)
	}

	reader := cpio.NewReader(bytes.NewReader(blob))

	entries := 0

	for {
		_, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}

		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInitrdInvalid, err)
		}

		entries++
	}
}
