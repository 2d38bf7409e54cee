// Package app wires application dependencies for the CLI and TUI.
//
// It opens the keyed store named by config, builds the persistence gateway
// and the list store on top of it, and restores the last autosave.
package app
