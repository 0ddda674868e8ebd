// Package cli defines the Cobra command tree for the dashlaunch CLI. Each file
// in this package registers one top-level command (launch, setup, doctor,
// etc.) with the root command. Command implementations delegate to internal
// packages for the actual work and only handle flag parsing, settings
// resolution and output formatting.
package cli
