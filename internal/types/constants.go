// Package types provides type-safe constants shared across the pdfdeck
// codebase, replacing magic strings with typed values that carry their own
// validation and parsing.
package types

import (
	"fmt"
	"strings"
)

// UpdateChannel represents a release track consulted for updates.
type UpdateChannel string

const (
	// ChannelStable tracks published stable releases.
	ChannelStable UpdateChannel = "stable"
	// ChannelBeta tracks pre-release builds.
	ChannelBeta UpdateChannel = "beta"
)

// AllUpdateChannels returns all valid update channels.
func AllUpdateChannels() []UpdateChannel {
	return []UpdateChannel{ChannelStable, ChannelBeta}
}

// Validate checks if the UpdateChannel is a valid value.
// Empty channel is considered valid (defaults to stable).
func (c UpdateChannel) Validate() error {
	switch c {
	case ChannelStable, ChannelBeta, "":
		return nil
	default:
		return fmt.Errorf("invalid update channel '%s' (must be stable or beta)", c)
	}
}

// String returns the string representation of the UpdateChannel.
func (c UpdateChannel) String() string {
	return string(c)
}

// IsBeta returns true if the channel is beta.
func (c UpdateChannel) IsBeta() bool {
	return c == ChannelBeta
}

// Default returns the default channel if empty, otherwise the current value.
func (c UpdateChannel) Default() UpdateChannel {
	if c == "" {
		return ChannelStable
	}
	return c
}

// ManifestName returns the release manifest file name for this channel.
func (c UpdateChannel) ManifestName() string {
	if c.IsBeta() {
		return "beta.yml"
	}
	return "latest.yml"
}

// ParseUpdateChannel parses a string into an UpdateChannel.
// Returns an error if the string is not a valid channel.
func ParseUpdateChannel(s string) (UpdateChannel, error) {
	c := UpdateChannel(strings.ToLower(s))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c.Default(), nil
}

// ProcessingAction represents one step of a PDF processing profile.
type ProcessingAction string

const (
	ActionNormalizeA4   ProcessingAction = "normalize_a4"
	ActionCompress      ProcessingAction = "compress"
	ActionAddWatermark  ProcessingAction = "add_watermark"
	ActionAddStamp      ProcessingAction = "add_stamp"
	ActionAddBates      ProcessingAction = "add_bates"
	ActionScrubMetadata ProcessingAction = "scrub_metadata"
	ActionFlatten       ProcessingAction = "flatten"
	ActionConvertPDFA   ProcessingAction = "convert_pdfa"
)

// AllProcessingActions returns all valid processing actions.
func AllProcessingActions() []ProcessingAction {
	return []ProcessingAction{
		ActionNormalizeA4,
		ActionCompress,
		ActionAddWatermark,
		ActionAddStamp,
		ActionAddBates,
		ActionScrubMetadata,
		ActionFlatten,
		ActionConvertPDFA,
	}
}

// Validate checks if the ProcessingAction is a valid value.
func (a ProcessingAction) Validate() error {
	for _, valid := range AllProcessingActions() {
		if a == valid {
			return nil
		}
	}
	if a == "" {
		return fmt.Errorf("processing action is required")
	}
	return fmt.Errorf("invalid processing action '%s'", a)
}

// String returns the string representation of the ProcessingAction.
func (a ProcessingAction) String() string {
	return string(a)
}

// ParseProcessingAction parses a string into a ProcessingAction.
// Returns an error if the string is not a valid action.
func ParseProcessingAction(s string) (ProcessingAction, error) {
	a := ProcessingAction(strings.ToLower(s))
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}
