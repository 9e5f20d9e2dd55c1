// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package host

import "errors"

var (
	// ErrLoopClosed is returned if an event is submitted after the loop
	// has stopped.
	ErrLoopClosed = errors.New("event loop closed")

	// ErrSourceClosed is returned if an interrupt source is fired after
	// it has been closed.
	ErrSourceClosed = errors.New("interrupt source closed")
)
