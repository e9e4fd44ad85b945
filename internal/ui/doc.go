// Package ui provides theme and color support for the application's user interface.
// It defines color schemes, severity color mappings and ANSI escape code helpers
// for consistent styling across the CLI and other presentation layers.
//
// This package is designed to be a shared dependency for packages that need
// color output, reducing coupling between business logic and presentation.
package ui
