// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// Two workflows are provided:
//
//  1. [ChatModel] : the conversational recommender. The user walks the
//     greeting → genre → time flow with quick replies (or free text), and
//     the recommend call runs asynchronously with results rendered into the
//     chat transcript.
//  2. [OnboardingModel] : the first-run flow. OTT platform selection, the
//     movie swipe deck, and submission of the derived taste profile.
//
// Both models implement bubbletea/Elm's standard Init/Update/View pattern.
// Slow work (HTTP calls, the bot's typing delay) runs via tea.Cmd so the
// event loop never blocks.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
