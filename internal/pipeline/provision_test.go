package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hadoopbox/hadoopbox/internal/config"
	"github.com/hadoopbox/hadoopbox/internal/env"
	"github.com/hadoopbox/hadoopbox/internal/fetch"
	"github.com/hadoopbox/hadoopbox/internal/store"
	"github.com/hadoopbox/hadoopbox/internal/supervise"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

// fakeInstaller mirrors the fetcher's disposition contract against plain
// directories instead of a mirror.
type fakeInstaller struct {
	cfg      *config.Config
	installs int
}

func (f *fakeInstaller) Install(ctx context.Context, comp config.Component, disp config.Disposition) (string, error) {
	dest := comp.InstallPath(f.cfg.Paths().InstallRoot())
	if util.DirExists(dest) {
		switch disp {
		case config.DispositionReuse:
			return dest, nil
		case config.DispositionReplace:
			if err := os.RemoveAll(dest); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("%w: %s at %s", fetch.ErrAlreadyInstalled, comp.Name, dest)
		}
	}
	f.installs++
	if err := os.MkdirAll(filepath.Join(dest, "bin"), 0755); err != nil {
		return "", err
	}
	return dest, nil
}

// fakeStorage keeps the real observe-then-format contract on a temp dir but
// formats by dropping a marker instead of running the format command.
type fakeStorage struct {
	cfg     *config.Config
	formats int
	seeds   int
}

func (f *fakeStorage) EnsureDataDirs() error {
	p := f.cfg.Paths()
	return util.MkdirAll(p.NameNodeDir(), p.DataNodeDir(), p.TmpDir())
}

func (f *fakeStorage) Observe() (store.State, error) {
	empty, err := util.IsDirEmpty(f.cfg.Paths().NameNodeDir())
	if err != nil {
		return store.StateUnformatted, err
	}
	if empty {
		return store.StateUnformatted, nil
	}
	return store.StateFormatted, nil
}

func (f *fakeStorage) Format(disp config.Disposition) (bool, error) {
	state, err := f.Observe()
	if err != nil {
		return false, err
	}
	if state == store.StateFormatted && disp != config.DispositionProceed {
		return true, nil
	}
	f.formats++
	marker := filepath.Join(f.cfg.Paths().NameNodeDir(), "VERSION")
	return false, os.WriteFile(marker, []byte("namespaceID=1\n"), 0644)
}

func (f *fakeStorage) SeedFilesystemDirs() { f.seeds++ }

type fakeSchema struct {
	cfg   *config.Config
	inits int
}

func (f *fakeSchema) Init() (bool, error) {
	dbDir := f.cfg.Paths().MetastoreDBDir()
	if empty, err := util.IsDirEmpty(dbDir); err != nil {
		return false, err
	} else if !empty {
		return true, nil
	}
	f.inits++
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return false, err
	}
	return false, os.WriteFile(filepath.Join(dbDir, "seg0"), []byte("x"), 0644)
}

type fakeServices struct {
	starts int
}

func (f *fakeServices) Start() ([]string, error) {
	f.starts++
	return nil, nil
}

func (f *fakeServices) Verify() supervise.Health {
	return supervise.Health{EssentialLive: 3, Healthy: true}
}

// recordingDecider answers every guarded decision with a fixed disposition
// and counts how often it was consulted.
type recordingDecider struct {
	install   config.Disposition
	reformat  config.Disposition
	conflicts int
	reformats int
}

func (d *recordingDecider) InstallConflict(string) config.Disposition {
	d.conflicts++
	return d.install
}

func (d *recordingDecider) ReformatStore() config.Disposition {
	d.reformats++
	return d.reformat
}

func testProvisionDeps(cfg *config.Config) (provisionDeps, *fakeInstaller, *fakeStorage, *fakeSchema) {
	inst := &fakeInstaller{cfg: cfg}
	stor := &fakeStorage{cfg: cfg}
	schema := &fakeSchema{cfg: cfg}
	deps := provisionDeps{
		probe:     func(*config.Config) (*env.Report, error) { return &env.Report{JavaMajor: 11}, nil },
		installer: inst,
		store:     stor,
		schema:    schema,
		services:  &fakeServices{},
		emitScript: func(c *config.Config) (string, error) {
			path := c.Paths().SupervisorPath()
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return "", err
			}
			return path, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755)
		},
	}
	return deps, inst, stor, schema
}

func TestProvisionRerunWithAllDeclinesIsNoOp(t *testing.T) {
	cfg := config.Default(t.TempDir())
	deps, inst, stor, schema := testProvisionDeps(cfg)
	dec := &recordingDecider{install: config.DispositionAbort, reformat: config.DispositionAbort}

	if _, err := Run(provisionStages(context.Background(), cfg, dec, deps)); err != nil {
		t.Fatalf("first provisioning run error = %v", err)
	}
	if inst.installs != len(cfg.Components()) || stor.formats != 1 || schema.inits != 1 {
		t.Fatalf("first run: installs=%d formats=%d inits=%d", inst.installs, stor.formats, schema.inits)
	}

	// Mark the data area so mutation would be visible.
	sentinel := filepath.Join(cfg.Paths().NameNodeDir(), "edits_001")
	if err := os.WriteFile(sentinel, []byte("precious"), 0644); err != nil {
		t.Fatal(err)
	}

	results, err := Run(provisionStages(context.Background(), cfg, dec, deps))
	if err != nil {
		t.Fatalf("second provisioning run error = %v", err)
	}

	for _, res := range results {
		if res.Outcome != OutcomeSuccess && res.Outcome != OutcomeSkipped {
			t.Errorf("stage %s outcome = %v (%s %v), want success or skipped",
				res.Stage, res.Outcome, res.Detail, res.Err)
		}
	}

	// Every guarded action was declined and therefore skipped.
	for _, res := range results {
		switch res.Stage {
		case "fetch hadoop", "fetch hive", "fetch pig":
			if res.Outcome != OutcomeSkipped || res.Detail != "existing install kept" {
				t.Errorf("%s: outcome = %v (%q), want skipped with existing install kept", res.Stage, res.Outcome, res.Detail)
			}
		case "format storage":
			if res.Outcome != OutcomeSkipped {
				t.Errorf("format storage outcome = %v, want skipped", res.Outcome)
			}
		case "metastore schema":
			if res.Outcome != OutcomeSkipped {
				t.Errorf("metastore schema outcome = %v, want skipped", res.Outcome)
			}
		}
	}

	// Nothing was re-fetched, re-formatted, or re-initialized.
	if inst.installs != len(cfg.Components()) {
		t.Errorf("installs = %d after rerun, want %d", inst.installs, len(cfg.Components()))
	}
	if stor.formats != 1 {
		t.Errorf("formats = %d after rerun, want 1", stor.formats)
	}
	if schema.inits != 1 {
		t.Errorf("schema inits = %d after rerun, want 1", schema.inits)
	}

	// The decider was consulted once per conflict, and the data survived.
	if dec.conflicts != len(cfg.Components()) || dec.reformats != 1 {
		t.Errorf("decider consulted %d/%d times, want %d/1", dec.conflicts, dec.reformats, len(cfg.Components()))
	}
	data, err := os.ReadFile(sentinel)
	if err != nil || string(data) != "precious" {
		t.Errorf("data area modified by rerun: %q, %v", data, err)
	}
}

func TestProvisionReplaceConflictRefetches(t *testing.T) {
	cfg := config.Default(t.TempDir())
	deps, inst, _, _ := testProvisionDeps(cfg)

	first := &recordingDecider{install: config.DispositionAbort, reformat: config.DispositionAbort}
	if _, err := Run(provisionStages(context.Background(), cfg, first, deps)); err != nil {
		t.Fatalf("first provisioning run error = %v", err)
	}

	replace := &recordingDecider{install: config.DispositionReplace, reformat: config.DispositionAbort}
	results, err := Run(provisionStages(context.Background(), cfg, replace, deps))
	if err != nil {
		t.Fatalf("replace run error = %v", err)
	}

	for _, res := range results {
		if res.Stage == "fetch hadoop" && res.Outcome != OutcomeSuccess {
			t.Errorf("fetch hadoop outcome = %v after replace, want success", res.Outcome)
		}
	}
	if inst.installs != 2*len(cfg.Components()) {
		t.Errorf("installs = %d, want %d (every component replaced)", inst.installs, 2*len(cfg.Components()))
	}
}
