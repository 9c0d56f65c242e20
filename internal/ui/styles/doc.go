// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the color palette and small rendering helpers used by
the PandaNexus terminal client.

All colors are Lip Gloss AdaptiveColor values so the client reads well on
both light and dark terminals.

# Colors (colors.go)

  - Purple - assistant replies
  - Cyan - brand color, prompts, user messages
  - Emerald - success, remote model replies
  - Amber - warnings, fallback replies
  - Rose - errors

Each service category has its own accent (CategoryColor) so the active
service is recognizable in the prompt.

# Status helpers

RenderSuccess, RenderError, RenderWarning and RenderInfo prefix messages with
an ASCII indicator ([OK], [X], [!], [i]) so status never depends on color
alone.

# Spinner (spinner.go)

Spinner draws a one-line "thinking" indicator on a terminal while a request
is in flight. It writes carriage-return frames and clears itself on Stop.
*/
package styles
