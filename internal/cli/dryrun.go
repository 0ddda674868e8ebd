package cli

import (
	"fmt"
	"io"

	"github.com/agentx-labs/dashlaunch/internal/launcher"
)

// renderPlan prints the steps a launch or setup would take.
func renderPlan(w io.Writer, dir string, steps []launcher.PlannedStep) {
	fmt.Fprintln(w, TitleStyle.Render("Dry Run"))
	fmt.Fprintf(w, "  %s %s\n\n", SubtitleStyle.Render("Project:"), dir)

	for i, s := range steps {
		fmt.Fprintf(w, "  %d. %s", i+1, s.Step)
		if s.Skip != "" {
			fmt.Fprintf(w, " %s\n", SubtitleStyle.Render("(skipped: "+s.Skip+")"))
		} else {
			fmt.Fprintln(w)
		}
		if s.Command != nil {
			fmt.Fprintf(w, "     %s\n", CmdStyle.Render(s.Command.String()))
		}
		for _, note := range s.Notes {
			fmt.Fprintf(w, "     - %s\n", note)
		}
	}
	fmt.Fprintln(w)
}
