// Package cli wires the command surface: provision and uninstall. All
// configuration is resolved here, once, and passed down explicitly; nothing
// below this package reads flags or prompts the operator.
package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hadoopbox/hadoopbox/internal/config"
	"github.com/hadoopbox/hadoopbox/internal/pipeline"
	"github.com/hadoopbox/hadoopbox/internal/runlog"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

var baseDir string

var rootCmd = &cobra.Command{
	Use:   "hadoopbox",
	Short: "Provision a single-node Hadoop + Hive + Pig stack",
	Long: `hadoopbox: provision a single-node Hadoop (HDFS + YARN) + Hive + Pig
stack under one base directory, and tear it down again.

provision downloads the component archives, renders single-node
configuration, formats storage (guarded when data exists), initializes the
metastore schema, starts every role, verifies liveness, and writes a
standalone stackctl supervisor script. uninstall stops the stack and removes
everything provision created.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		util.Error("%v", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "",
		"base directory for installs, data, and logs (default $HOME/hadoopbox)")

	rootCmd.AddCommand(newProvisionCmd())
	rootCmd.AddCommand(newUninstallCmd())
}

// loadConfig builds the run configuration and opens the run log. Every line
// printed to the console from here on is mirrored into the log file.
func loadConfig() (*config.Config, *runlog.Log, error) {
	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, nil, err
	}

	log, err := runlog.Open(cfg.Paths().LogsDir())
	if err != nil {
		return nil, nil, err
	}

	util.SetMirror(func(level, msg string) {
		switch level {
		case "warn":
			log.Warn(msg)
		case "error":
			log.Error(msg)
		default:
			log.Info(msg)
		}
	})

	return cfg, log, nil
}

// printSummary renders the per-stage outcome table and the run log path.
// Shown on success and on failure alike.
func printSummary(results []pipeline.Result, logPath string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Stage", "Outcome", "Detail"})
	for _, res := range results {
		detail := res.Detail
		if res.Err != nil {
			detail = res.Err.Error()
		}
		t.AppendRow(table.Row{res.Stage, res.Outcome.String(), detail})
	}
	t.Render()

	if logPath != "" {
		fmt.Printf("Run log: %s\n", logPath)
	}
}
