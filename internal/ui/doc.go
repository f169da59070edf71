// Package ui renders user-facing console events for repoup.
//
// ConsoleLogger exposes semantic event methods (header, info, success,
// warning, error, dim, newline) so services never format terminal output
// themselves. Styling uses lipgloss and can be disabled per instance; error
// events are directed to a separate error stream.
package ui
