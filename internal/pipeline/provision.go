package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hadoopbox/hadoopbox/internal/config"
	"github.com/hadoopbox/hadoopbox/internal/env"
	"github.com/hadoopbox/hadoopbox/internal/fetch"
	"github.com/hadoopbox/hadoopbox/internal/metastore"
	"github.com/hadoopbox/hadoopbox/internal/store"
	"github.com/hadoopbox/hadoopbox/internal/supervise"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

// The collaborators the provisioning stages drive, as minimal interfaces so
// stage sequencing can be tested without touching the host.
type installer interface {
	Install(ctx context.Context, comp config.Component, disp config.Disposition) (string, error)
}

type storage interface {
	EnsureDataDirs() error
	Observe() (store.State, error)
	Format(disp config.Disposition) (bool, error)
	SeedFilesystemDirs()
}

type schemaIniter interface {
	Init() (bool, error)
}

type serviceManager interface {
	Start() ([]string, error)
	Verify() supervise.Health
}

type provisionDeps struct {
	probe      func(*config.Config) (*env.Report, error)
	installer  installer
	store      storage
	schema     schemaIniter
	services   serviceManager
	emitScript func(*config.Config) (string, error)
}

func realProvisionDeps(cfg *config.Config) provisionDeps {
	return provisionDeps{
		probe:      env.Probe,
		installer:  fetch.New(cfg),
		store:      store.New(cfg),
		schema:     metastore.New(cfg),
		services:   supervise.New(cfg),
		emitScript: supervise.EmitScript,
	}
}

// Provision runs the full provisioning pipeline: preflight, per-component
// fetch and configure, data-area creation, storage format, metastore schema
// init, service start, verification, and the supervisor artifact. Returns
// every completed stage result; the error is the fatal stage's, nil when the
// host ended up fully provisioned.
func Provision(ctx context.Context, cfg *config.Config, dec Decider) ([]Result, error) {
	return Run(ProvisionStages(ctx, cfg, dec))
}

// ProvisionStages assembles the provisioning stage list against the real
// fetcher, store, schema tool, and supervisor.
func ProvisionStages(ctx context.Context, cfg *config.Config, dec Decider) []Stage {
	return provisionStages(ctx, cfg, dec, realProvisionDeps(cfg))
}

func provisionStages(ctx context.Context, cfg *config.Config, dec Decider, deps provisionDeps) []Stage {
	stages := []Stage{
		{Name: "preflight", Run: func() Result {
			report, err := deps.probe(cfg)
			if err != nil {
				return fatal(err)
			}
			util.Log("Disk headroom: %.1f GiB, java major version: %d",
				float64(report.AvailableBytes)/float64(1<<30), report.JavaMajor)
			for _, w := range report.Warnings {
				util.Warn("%s", w)
			}
			if len(report.Warnings) > 0 {
				return warning(fmt.Sprintf("%d preflight warnings", len(report.Warnings)))
			}
			return success()
		}},
	}

	for _, comp := range cfg.Components() {
		comp := comp
		stages = append(stages,
			Stage{Name: "fetch " + comp.Name, Run: func() Result {
				return fetchComponent(ctx, deps.installer, comp, dec)
			}},
			Stage{Name: "configure " + comp.Name, Run: func() Result {
				return configureComponent(cfg, comp)
			}},
		)
	}

	stages = append(stages,
		Stage{Name: "data area", Run: func() Result {
			if err := deps.store.EnsureDataDirs(); err != nil {
				return fatal(err)
			}
			return success()
		}},
		Stage{Name: "format storage", Run: func() Result {
			state, err := deps.store.Observe()
			if err != nil {
				return fatal(err)
			}
			// Only a populated store needs an operator decision.
			disp := config.DispositionAbort
			if state == store.StateFormatted {
				disp = dec.ReformatStore()
			}
			skip, err := deps.store.Format(disp)
			if err != nil {
				return fatal(err)
			}
			if skip {
				return skipped("metadata store already formatted")
			}
			return success()
		}},
		Stage{Name: "metastore schema", Run: func() Result {
			skip, err := deps.schema.Init()
			if err != nil {
				return fatal(err)
			}
			if skip {
				return skipped("schema already initialized")
			}
			return success()
		}},
		Stage{Name: "start services", Run: func() Result {
			warnings, err := deps.services.Start()
			if err != nil {
				return fatal(err)
			}
			if len(warnings) > 0 {
				return warning(strings.Join(warnings, "; "))
			}
			return success()
		}},
		Stage{Name: "verify", Run: func() Result {
			health := deps.services.Verify()
			for _, rs := range health.Statuses {
				if rs.Running {
					util.Log("%s: live (pid %d)", rs.Name, rs.PID)
				} else {
					util.Log("%s: not running", rs.Name)
				}
			}
			if !health.Healthy {
				return fatal(fmt.Errorf("only %d of %d essential roles are live (need %d); check %s",
					health.EssentialLive, essentialCount(cfg), supervise.HealthQuorum, cfg.Paths().LogsDir()))
			}
			util.Success("Stack healthy: %d essential roles live", health.EssentialLive)
			deps.store.SeedFilesystemDirs()
			return success()
		}},
		Stage{Name: "supervisor artifact", Run: func() Result {
			path, err := deps.emitScript(cfg)
			if err != nil {
				return fatal(err)
			}
			util.Log("Wrote supervisor to %s", path)
			return success()
		}},
	)

	return stages
}

// fetchComponent installs one component, consulting the decider only when a
// previous install is in the way. A declined conflict keeps the existing
// tree and skips the fetch; that is a success, so re-running provisioning
// against a provisioned host converges instead of failing.
func fetchComponent(ctx context.Context, fetcher installer, comp config.Component, dec Decider) Result {
	_, err := fetcher.Install(ctx, comp, config.DispositionAbort)
	if err == nil {
		return success()
	}
	if !errors.Is(err, fetch.ErrAlreadyInstalled) {
		return fatal(err)
	}

	disp := dec.InstallConflict(comp.Name)
	if disp != config.DispositionReuse && disp != config.DispositionReplace {
		return skipped("existing install kept")
	}
	if _, err := fetcher.Install(ctx, comp, disp); err != nil {
		return fatal(err)
	}
	return success()
}

// configureComponent materializes the component's site files. The scripting
// engine carries no configuration of its own; it reads the storage and
// compute settings through the environment the supervisor exports.
func configureComponent(cfg *config.Config, comp config.Component) Result {
	switch comp.Name {
	case config.ComponentHadoop:
		if err := cfg.RenderHadoop(); err != nil {
			return fatal(err)
		}
	case config.ComponentHive:
		if err := cfg.RenderHive(); err != nil {
			return fatal(err)
		}
	default:
		return skipped("no configuration files")
	}
	return success()
}

func essentialCount(cfg *config.Config) int {
	n := 0
	for _, r := range supervise.Roles(cfg) {
		if r.Essential {
			n++
		}
	}
	return n
}
