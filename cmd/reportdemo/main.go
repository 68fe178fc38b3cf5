// Command reportdemo builds a sample report from an SQLite database and
// renders it as text, HTML or JSON.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var opts options

var rootCmd = &cobra.Command{
	Use:   "reportdemo",
	Short: "Render a sample report as text, HTML or JSON",
	Long: "Seeds a database with relation and benchmark statistics, builds a report from it " +
		"section by section and flushes every section as soon as it is complete.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), opts, cmd.OutOrStdout())
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "text", "output format: text, html or json")
	f.StringVarP(&opts.out, "out", "o", "", "write to this file instead of stdout")
	f.IntVarP(&opts.width, "width", "w", 0, "target width, 0 probes the terminal")
	f.StringVar(&opts.config, "config", "", "YAML configuration file")
	f.IntVar(&opts.visibleLines, "visible-lines", 0, "table lines shown in HTML before collapsing")
	f.StringVar(&opts.db, "db", ":memory:", "SQLite database to seed and query")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log layout and query details to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
