package cli

import (
	"github.com/spf13/cobra"

	"github.com/hadoopbox/hadoopbox/internal/pipeline"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

func newProvisionCmd() *cobra.Command {
	var (
		assumeYes bool
		reuse     bool
		replace   bool
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Install, configure, and start the full stack",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()

			util.Log("Provisioning under %s", cfg.BaseDir)

			dec := newPrompter(assumeYes, reuse, replace)
			results, err := pipeline.Provision(cmd.Context(), cfg, dec)

			printSummary(results, log.Path())
			if err != nil {
				return err
			}

			util.Success("Provisioning complete. Manage the stack with %s", cfg.Paths().SupervisorPath())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false,
		"answer yes to destructive confirmations (reformat)")
	cmd.Flags().BoolVar(&reuse, "reuse-existing", false,
		"keep any already-installed component trees")
	cmd.Flags().BoolVar(&replace, "replace-existing", false,
		"remove and re-fetch any already-installed component trees")
	cmd.MarkFlagsMutuallyExclusive("reuse-existing", "replace-existing")

	return cmd
}
