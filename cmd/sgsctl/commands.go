//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/e-gun/SimGraphServer/internal/chart"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// handle - what "/chart/new" replies
type handle struct {
	ID      string `json:"id"`
	Surface string `json:"surface"`
	View    string `json:"view"`
}

type removed struct {
	Removed   bool           `json:"removed"`
	Dataset   *chart.Dataset `json:"dataset"`
	Remaining int            `json:"remaining"`
}

// raw - with --json print the server's reply and skip the formatting
func raw(cmd *cobra.Command, b []byte) bool {
	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut {
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	}
	return jsonOut
}

func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a chart session and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/chart/new"
			if cmd.Flags().Changed("surface") {
				s, _ := cmd.Flags().GetString("surface")
				path += "?surface=" + url.QueryEscape(s)
			}

			var h handle
			b, err := clientfor(cmd).getjson(http.MethodPost, path, "", &h)
			if err != nil {
				return err
			}
			if !raw(cmd, b) {
				fmt.Fprintln(cmd.OutOrStdout(), h.ID)
			}
			return nil
		},
	}
	cmd.Flags().String("surface", "", "Element id the chart is drawn into")
	return cmd
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <id>",
		Short: "Initialize (or reset) the chart of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hc, _ := cmd.Flags().GetBool("high-contrast")
			yn := "no"
			if hc {
				yn = "yes"
			}

			var v chart.View
			b, err := clientfor(cmd).getjson(http.MethodPost, "/chart/"+args[0]+"/init?hc="+yn, "", &v)
			if err != nil {
				return err
			}
			if !raw(cmd, b) {
				fmt.Fprintf(cmd.OutOrStdout(), "initialized %s on '%s' (high contrast: %t)\n", v.ID, v.Surface, v.Style.HighContrast)
			}
			return nil
		},
	}
	cmd.Flags().Bool("high-contrast", false, "Use the night mode style")
	return cmd
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <id> [file]",
		Short: "Add a simulation run; reads stdin without a file",
		Long: `Add a simulation run to the chart. The input is either the JSON
'[label, points]' payload or YAML:

    label: Simulation 1
    points:
      - {x: 2020-05-01, y: 12}
      - {x: 2020-05-02, y: 7}

Statistics the input leaves out are derived by the server.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label, _ := cmd.Flags().GetString("label")

			name := ""
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 2 && args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
				name = args[1]
			}

			b, err := io.ReadAll(in)
			if err != nil {
				return err
			}

			var payload string
			if isyaml(name, b) {
				payload, err = yamlpayload(b, label)
			} else {
				payload, err = relabel(b, label)
			}
			if err != nil {
				return err
			}

			var ds chart.Dataset
			rb, err := clientfor(cmd).getjson(http.MethodPost, "/chart/"+args[0]+"/dataset", payload, &ds)
			if err != nil {
				return err
			}
			if !raw(cmd, rb) {
				message.NewPrinter(language.English).Fprintf(cmd.OutOrStdout(), "added '%s' (%s): %d days\n", ds.Label, ds.Color, len(ds.Points))
			}
			return nil
		},
	}
	cmd.Flags().String("label", "", "Title for the run (default: whatever the input says)")
	return cmd
}

func newPopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pop <id>",
		Short: "Remove the most recently added run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r removed
			b, err := clientfor(cmd).getjson(http.MethodDelete, "/chart/"+args[0]+"/dataset", "", &r)
			if err != nil {
				return err
			}
			if raw(cmd, b) {
				return nil
			}
			if !r.Removed || r.Dataset == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to remove")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed '%s'; %d left\n", r.Dataset.Label, r.Remaining)
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Summarize every run on the chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ss []chart.SeriesSummary
			b, err := clientfor(cmd).getjson(http.MethodGet, "/chart/"+args[0]+"/summary", "", &ss)
			if err != nil {
				return err
			}
			if raw(cmd, b) {
				return nil
			}

			p := message.NewPrinter(language.English)
			if len(ss) == 0 {
				p.Fprintln(cmd.OutOrStdout(), "no runs on this chart")
				return nil
			}
			for i, s := range ss {
				p.Fprintf(cmd.OutOrStdout(), "%2d  %-24s %10d reviews  %5d days  %8.1f/day  mature %s\n",
					i, s.Label, int64(s.Reviews), s.Days, s.MeanPerDay, s.Mature)
			}
			return nil
		},
	}
}

func newHoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hover <id> <dataset> <point>",
		Short: "Print the tooltip for one point",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := clientfor(cmd).do(http.MethodGet, fmt.Sprintf("/chart/%s/hover/%s/%s", args[0], args[1], args[2]), "")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func newDropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop <id>",
		Short: "Discard a chart session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := clientfor(cmd).do(http.MethodDelete, "/chart/"+args[0], ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dropped %s\n", args[0])
			return nil
		},
	}
}
