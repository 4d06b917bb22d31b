package cli

import (
	"github.com/spf13/cobra"

	"github.com/hadoopbox/hadoopbox/internal/pipeline"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

func newUninstallCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Stop the stack and remove everything provision created",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()

			// Declining the teardown is a normal exit, not a failure.
			dec := newPrompter(assumeYes, false, false)
			if !dec.ConfirmUninstall(cfg.BaseDir) {
				util.Log("Uninstall declined; nothing removed")
				return nil
			}

			results, err := pipeline.Uninstall(cfg)

			printSummary(results, log.Path())
			if err != nil {
				return err
			}

			util.Success("Stack removed from %s", cfg.BaseDir)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false,
		"skip the uninstall confirmation")

	return cmd
}
