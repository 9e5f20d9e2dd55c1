// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package guest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virtmon/virtmon/internal/guest"
)

func TestChannel_MarshalText(t *testing.T) {
	tests := []struct {
		name        string
		input       guest.Channel
		expected    string
		expectedErr error
	}{
		{
			name:     "serial",
			input:    guest.ChannelSerial,
			expected: "serial",
		},
		{
			name:        "unknown",
			input:       guest.Channel(7),
			expectedErr: guest.ErrChannelInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := tt.input.MarshalText()
			require.ErrorIs(t, err, tt.expectedErr)

			assert.Equal(t, tt.expected, string(actual))
		})
	}
}

func TestChannel_UnmarshalText(t *testing.T) {
	tests := []struct {
		input       string
		expected    guest.Channel
		expectedErr error
	}{
		{
			input:    "serial",
			expected: guest.ChannelSerial,
		},
		{
			input:       "unknown",
			expectedErr: guest.ErrChannelInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var actual guest.Channel

			err := actual.UnmarshalText([]byte(tt.input))
			require.ErrorIs(t, err, tt.expectedErr)

			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		input    guest.State
		expected string
	}{
		{guest.StateUnstarted, "unstarted"},
		{guest.StateRunning, "running"},
		{guest.StateHalted, "halted"},
		{guest.State(9), "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.String())
		})
	}
}
