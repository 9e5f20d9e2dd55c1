// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

// Package image models the set of boot images a Linux guest needs: the
// kernel image, the device tree blob and the initial RAM disk. It
// validates the blobs against their on-disk formats, checks that their
// guest placement does not overlap, and provides a reference loader
// that relocates them into a guest RAM window.
//
// The DTB and initrd guest addresses are configuration constants, not
// guest-RAM-relative. The kernel placement is derived from the arm64
// boot image header.
package image
