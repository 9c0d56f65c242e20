// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "PandaNexus"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// IsCallerRole reports whether callers may supply messages with this role.
// System instructions are always synthesized by the core.
func (r Role) IsCallerRole() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one entry of a conversation, in order.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Image is an https or data: URL attached to the message.
	Image string `json:"image,omitempty"`
}

// NewUserMessage creates a user message with text content.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message with text content.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// WithImage returns a copy of the message carrying the given image reference.
func (m Message) WithImage(ref string) Message {
	m.Image = ref
	return m
}

// HasImage reports whether an image reference is attached.
func (m Message) HasImage() bool {
	return strings.TrimSpace(m.Image) != ""
}

// IsBlank reports whether the message has neither text nor an image.
// Whitespace-only text counts as empty.
func (m Message) IsBlank() bool {
	return strings.TrimSpace(m.Content) == "" && !m.HasImage()
}

// Latest returns the last message of a history and whether one exists.
func Latest(history []Message) (Message, bool) {
	if len(history) == 0 {
		return Message{}, false
	}
	return history[len(history)-1], true
}
