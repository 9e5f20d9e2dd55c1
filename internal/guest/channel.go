// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package guest

// Channel identifies a physical interrupt notification source. Channel
// values are stable small integers assigned by the hosting microkernel
// configuration. The set of known channels is closed; a notification on
// any other value is reported and dropped.
type Channel uint32

const (
	// ChannelSerial is the notification channel of the serial device
	// interrupt.
	ChannelSerial Channel = 1
)

var channelNames = map[Channel]string{
	ChannelSerial: "serial",
}

func (c Channel) isKnown() bool {
	_, ok := channelNames[c]
	return ok
}

// String implements [fmt.Stringer]. It returns an empty string for
// unknown channels.
func (c Channel) String() string {
	return channelNames[c]
}

// MarshalText implements [encoding.TextMarshaler].
func (c Channel) MarshalText() ([]byte, error) {
	if !c.isKnown() {
		return nil, ErrChannelInvalid
	}

	return []byte(c.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (c *Channel) UnmarshalText(text []byte) error {
	for channel, name := range channelNames {
		if name == string(text) {
			*c = channel
			return nil
		}
	}

	return ErrChannelInvalid
}
