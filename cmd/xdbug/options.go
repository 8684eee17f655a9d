package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xiaoshicae/xdbug/xopt"
)

var (
	enabledColor  = color.New(color.FgGreen, color.Bold)
	disabledColor = color.New(color.FgHiBlack)
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options [letters]",
		Short: "Decode an options string and list every feature",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			o := xopt.Parse(text)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "options: %q\n", o.String())
			for _, f := range o.Features() {
				mark, c := "-", disabledColor
				if f.Enabled {
					mark, c = "+", enabledColor
				}
				fmt.Fprintf(out, "  %s %s\n", c.Sprintf("%s %c", mark, f.Letter), f.Name)
			}
			return nil
		},
	}
}
