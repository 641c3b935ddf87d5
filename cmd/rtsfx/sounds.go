// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ik5/rtsfx/synth"
)

func newSoundsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sounds",
		Short: "List the built-in sound effects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tDURATION\tAMPLITUDE")
			for _, k := range synth.Kinds() {
				fmt.Fprintf(w, "%s\t%dms\t%.1f\n", k, k.DurationMs(), k.DefaultAmplitude())
			}
			return w.Flush()
		},
	}
}
