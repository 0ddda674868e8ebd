// Package launcher runs the dashboard launch sequence: make sure the
// virtual environment exists, activate it, install the dependency manifest
// when one is present, start the application runner, and hold the terminal
// open once the runner exits.
//
// Every setup step is a hard stop. The first failure aborts the sequence,
// skips all later steps, and surfaces as a *StepError that maps to exit
// code 1. The runner's own exit status is passed through but, unless
// Settings.CheckLaunch is set, is not treated as a failure.
package launcher
