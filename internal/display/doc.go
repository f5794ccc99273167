// Package display renders user-facing warnings for the codeagg CLI.
//
// A Warning has a title and optional message, affected files and
// suggestion:
//
//	warning := display.WarnUnreadable(result.Unreadable)
//	warning.Display(os.Stderr)
//
// Colors come from fatih/color and are dropped automatically when the
// output is not a terminal.
package display
