package launcher

import (
	"bufio"
	"fmt"
	"os"

	"github.com/agentx-labs/dashlaunch/internal/config"
)

const holdPrompt = "Press Enter to close this window..."

// Hold keeps the terminal open until the user presses Enter, so trailing
// runner output stays readable when the launcher was started from a file
// manager or shortcut. Whether it waits depends on Settings.Hold.
func (l *Launcher) Hold() {
	if !l.shouldHold() {
		return
	}

	stdout := l.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stdin := l.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	fmt.Fprintln(stdout)
	fmt.Fprint(stdout, holdPrompt)
	// EOF or a read error on stdin simply ends the hold.
	_, _ = bufio.NewReader(stdin).ReadString('\n')
	fmt.Fprintln(stdout)
}

func (l *Launcher) shouldHold() bool {
	switch l.Settings.Hold {
	case config.HoldAlways:
		return true
	case config.HoldNever:
		return false
	default:
		return l.Interactive != nil && l.Interactive()
	}
}
