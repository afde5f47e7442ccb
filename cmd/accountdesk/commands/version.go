package commands

import (
	"fmt"

	"github.com/ncobase/accountdesk/version"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// no config or logger needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			short, _ := cmd.Flags().GetBool("short")
			jsonOutput, _ := cmd.Flags().GetBool("json")

			info := version.GetVersionInfo()
			w := cmd.OutOrStdout()
			switch {
			case short:
				fmt.Fprintln(w, info.Version)
			case jsonOutput:
				out, err := info.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, out)
			default:
				fmt.Fprintf(w, "accountdesk %s\n", info.Version)
				fmt.Fprintf(w, "  branch:     %s\n", info.Branch)
				fmt.Fprintf(w, "  revision:   %s\n", info.Revision)
				fmt.Fprintf(w, "  built:      %s\n", info.BuiltAt)
				fmt.Fprintf(w, "  go version: %s\n", info.GoVersion)
				fmt.Fprintf(w, "  platform:   %s\n", info.Platform)
			}
			return nil
		},
	}
	cmd.Flags().Bool("short", false, "print version string only")
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}
