package pipeline

import (
	"fmt"
	"strings"

	"github.com/hadoopbox/hadoopbox/internal/config"
	"github.com/hadoopbox/hadoopbox/internal/supervise"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

// Uninstall tears the stack down: stop everything, then remove the install
// trees, the persistent data area, and the generated artifacts. Every
// removal is independently best-effort; a target that is already gone is
// reported, not an error, so running uninstall twice is safe. Logs are kept:
// the run log documenting the teardown lives under the base dir itself.
func Uninstall(cfg *config.Config) ([]Result, error) {
	sup := supervise.New(cfg)
	return Run(UninstallStages(cfg, sup.Stop))
}

// UninstallStages assembles the teardown stage list. The stop function is
// injected so tests can tear down a directory tree without touching the
// host's process table.
func UninstallStages(cfg *config.Config, stop func() []string) []Stage {
	p := cfg.Paths()

	return []Stage{
		{Name: "stop services", Run: func() Result {
			if warnings := stop(); len(warnings) > 0 {
				return warning(strings.Join(warnings, "; "))
			}
			return success()
		}},
		{Name: "remove installs", Run: func() Result {
			var paths []string
			for _, comp := range cfg.Components() {
				paths = append(paths, comp.InstallPath(p.InstallRoot()))
			}
			paths = append(paths, p.InstallRoot())
			return removeAll("install tree", paths)
		}},
		{Name: "remove data area", Run: func() Result {
			return removeAll("data area", []string{p.DataDir()})
		}},
		{Name: "remove artifacts", Run: func() Result {
			return removeAll("artifact", []string{
				p.ConfDir(),
				p.SupervisorPath(),
				p.BinDir(),
				p.HintsDir(),
			})
		}},
	}
}

// removeAll deletes each path, logging per path. Missing targets are
// reported as not found; failures downgrade the stage to a warning rather
// than halting the teardown.
func removeAll(kind string, paths []string) Result {
	var problems []string
	removed := 0

	for _, path := range paths {
		existed, err := util.RemoveIfExists(path)
		switch {
		case err != nil:
			util.Warn("Could not remove %s %s: %v", kind, path, err)
			problems = append(problems, fmt.Sprintf("%s: %v", path, err))
		case existed:
			util.Log("Removed %s %s", kind, path)
			removed++
		default:
			util.Log("%s %s not found", kind, path)
		}
	}

	if len(problems) > 0 {
		return warning(strings.Join(problems, "; "))
	}
	if removed == 0 {
		return skipped("nothing to remove")
	}
	return success()
}
