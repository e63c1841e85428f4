package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joss/opius/internal/tui"
)

func interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Generate plans interactively",
		Run: func(cmd *cobra.Command, args []string) {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				fatalError(fmt.Errorf("interactive mode requires a terminal"))
			}

			gen, err := newGenerator()
			if err != nil {
				fatalError(err)
			}
			if err := tui.Run(gen); err != nil {
				fatalError(err)
			}
		},
	}
}
