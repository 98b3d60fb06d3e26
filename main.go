// Package main is the entry point for the nupdate CLI application.
//
// This file bootstraps the application by invoking the command execution
// logic defined in the cmd package. The nupdate tool scans project
// manifests for outdated package references and applies policy-filtered
// updates.
package main

import "github.com/ajxudir/nupdate/cmd"

// main initializes and runs the nupdate CLI application.
//
// It delegates all command parsing and execution to the cmd package,
// which handles the scan, update, and version subcommands.
func main() {
	cmd.Execute()
}
