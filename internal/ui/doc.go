// Package ui implements a read-only terminal browser for the music review store using bubbletea's Elm architecture.
//
// The browser has three tabbed views, each backed by a bubbles table:
//  1. [TracksView] : Tracks with singer, composer and average rating; "/" searches title and artist names
//  2. [UsersView] : Accounts ordered by role and login
//  3. [ReviewsView] : Reviews, newest first, with relative dates
//
// Pressing enter opens a detail pane for the selected row (esc returns). "r" reloads the current view.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern. Data is loaded through
// commands that call the [Source] and report back with loaded messages, so Update never blocks on the database.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
