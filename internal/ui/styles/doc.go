// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the docuscout TUI.
//
// The package exposes an adaptive color palette (colors.go) and a Theme
// (theme.go) that bundles every lipgloss style the views need. Colors use
// lipgloss.AdaptiveColor so the same palette reads well on light and dark
// terminals; the configured ui.theme preference can pin the background
// instead of detecting it.
//
// Views never construct ad-hoc styles for shared concerns; they take a
// *Theme so the whole application restyles from one place.
package styles
