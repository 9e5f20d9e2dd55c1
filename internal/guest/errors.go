// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package guest

import "errors"

var (
	// ErrImageSetup is returned if the image loader fails or reports a
	// zero entry point. Fatal for the boot attempt, the guest stays
	// unstarted.
	ErrImageSetup = errors.New("guest image setup failed")

	// ErrControllerInit is returned if the virtual interrupt controller
	// cannot be initialized. Fatal for the boot attempt.
	ErrControllerInit = errors.New("virtual interrupt controller init failed")

	// ErrGuestStart is returned if starting the boot vCPU fails.
	ErrGuestStart = errors.New("starting guest vCPU failed")

	// ErrAlreadyStarted is returned by [Monitor.Boot] if the guest has
	// been started before.
	ErrAlreadyStarted = errors.New("guest already started")

	// ErrChannelInvalid is returned if a channel value is not part of
	// the known channel set.
	ErrChannelInvalid = errors.New("unknown notification channel")

	// ErrConfigInvalid is returned if a [Config] misses a required
	// collaborator or image set.
	ErrConfigInvalid = errors.New("invalid monitor configuration")
)

// BootError wraps a failure of a single boot step. The boot sequence is
// strictly ordered, so the step names the first thing that went wrong.
type BootError struct {
	Step string
	Err  error
}

// Error implements the [error] interface.
func (e *BootError) Error() string {
	return "boot " + e.Step + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*BootError) Is(other error) bool {
	_, ok := other.(*BootError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *BootError) Unwrap() error {
	return e.Err
}
