//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

// sgsctl is the bridge a host application shells out to: it hands simulator output to a running server
package main

import (
	"fmt"
	"os"

	"github.com/e-gun/SimGraphServer/internal/vv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sgsctl",
		Short: "Drive the charts of a running " + vv.MYNAME,
		Long: `sgsctl creates chart sessions on a running server, initializes them,
and adds or removes simulation runs. Simulator output can be handed over
as the JSON '[label, points]' payload or as YAML.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("server", fmt.Sprintf("http://%s:%d", vv.SERVEDFROMHOST, vv.SERVEDFROMPORT), "Server base URL")
	rootCmd.PersistentFlags().Bool("json", false, "Output the server's JSON as is")

	rootCmd.AddCommand(
		newVersionCmd(),
		newNewCmd(),
		newInitCmd(),
		newAddCmd(),
		newPopCmd(),
		newShowCmd(),
		newHoverCmd(),
		newDropCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sgsctl (%s) version %s\n", vv.SHORTNAME, vv.VERSION)
		},
	}
}
