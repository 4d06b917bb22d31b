package supervise

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hadoopbox/hadoopbox/internal/config"
)

// fakeRunner records every invocation instead of executing anything.
type fakeRunner struct {
	calls    []string // "run <name> <args...>" or "detach <name> <args...>"
	startErr map[string]error
}

func (f *fakeRunner) Run(name string, args []string, extraEnv []string) ([]byte, error) {
	f.calls = append(f.calls, "run "+name+" "+strings.Join(args, " "))
	return nil, nil
}

func (f *fakeRunner) StartDetached(name string, args []string, extraEnv []string, logFile string) (int, error) {
	f.calls = append(f.calls, "detach "+name+" "+strings.Join(args, " "))
	if err := f.startErr[name]; err != nil {
		return 0, err
	}
	return 4000 + len(f.calls), nil
}

// fakeLiveness reports the configured roles as live.
type fakeLiveness struct {
	live map[string]int
}

func (f *fakeLiveness) FindPID(role Role) int {
	return f.live[role.Name]
}

func testSupervisor(t *testing.T, live map[string]int) (*Supervisor, *fakeRunner) {
	t.Helper()
	runner := &fakeRunner{}
	s := &Supervisor{
		cfg:      config.Default(t.TempDir()),
		runner:   runner,
		liveness: &fakeLiveness{live: live},
		sleep:    func(time.Duration) {},
	}
	return s, runner
}

func TestStartLaunchesRolesInDependencyOrder(t *testing.T) {
	s, runner := testSupervisor(t, nil)

	if _, err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	wantOrder := []string{"namenode", "datanode", "resourcemanager", "nodemanager", "metastore", "hiveserver2"}
	var started []string
	for _, call := range runner.calls {
		if !strings.HasPrefix(call, "detach ") {
			continue
		}
		for _, role := range Roles(s.cfg) {
			if strings.HasSuffix(call, strings.Join(append([]string{role.Exec}, role.Args...), " ")) {
				started = append(started, role.Name)
			}
		}
	}

	if len(started) != len(wantOrder) {
		t.Fatalf("started %d roles (%v), want %d", len(started), started, len(wantOrder))
	}
	for i, name := range wantOrder {
		if started[i] != name {
			t.Errorf("start position %d = %s, want %s", i, started[i], name)
		}
	}
}

func TestStartStopsMatchingProcessesFirst(t *testing.T) {
	s, runner := testSupervisor(t, map[string]int{"namenode": 101, "metastore": 102})

	if _, err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Both live roles must be killed before any role is launched.
	firstDetach := -1
	lastKill := -1
	for i, call := range runner.calls {
		if strings.HasPrefix(call, "run pkill") {
			lastKill = i
		}
		if firstDetach == -1 && strings.HasPrefix(call, "detach ") {
			firstDetach = i
		}
	}

	if lastKill == -1 {
		t.Fatal("Start() did not stop running processes first")
	}
	if firstDetach != -1 && lastKill > firstDetach {
		t.Errorf("kill at call %d came after first launch at %d", lastKill, firstDetach)
	}
}

func TestStopReverseOrderAndBestEffort(t *testing.T) {
	// Everything live except datanode, which must be skipped silently.
	live := map[string]int{
		"namenode":        11,
		"resourcemanager": 13,
		"nodemanager":     14,
		"metastore":       15,
		"hiveserver2":     16,
	}
	s, runner := testSupervisor(t, live)

	warnings := s.Stop()
	if len(warnings) != 0 {
		t.Errorf("Stop() warnings = %v, want none", warnings)
	}

	var killed []string
	for _, call := range runner.calls {
		for _, role := range Roles(s.cfg) {
			if call == "run pkill -f "+role.Marker {
				killed = append(killed, role.Name)
			}
		}
	}

	want := []string{"hiveserver2", "metastore", "nodemanager", "resourcemanager", "namenode"}
	if len(killed) != len(want) {
		t.Fatalf("killed = %v, want %v", killed, want)
	}
	for i := range want {
		if killed[i] != want[i] {
			t.Errorf("kill position %d = %s, want %s", i, killed[i], want[i])
		}
	}
}

func TestStopWhenNothingRunningIsClean(t *testing.T) {
	s, runner := testSupervisor(t, nil)

	if warnings := s.Stop(); len(warnings) != 0 {
		t.Errorf("Stop() warnings = %v on an idle host", warnings)
	}
	for _, call := range runner.calls {
		if strings.HasPrefix(call, "run pkill") {
			t.Errorf("Stop() issued %q with nothing running", call)
		}
	}
}

func TestStartFailureOnCoreRoleIsFatal(t *testing.T) {
	s, runner := testSupervisor(t, nil)
	runner.startErr = map[string]error{
		Roles(s.cfg)[0].Exec: fmt.Errorf("no such file"),
	}

	_, err := s.Start()
	if err == nil || !strings.Contains(err.Error(), "namenode") {
		t.Errorf("Start() error = %v, want namenode failure", err)
	}
}

func TestStartFailureOnComputeRoleOnlyWarns(t *testing.T) {
	s, runner := testSupervisor(t, nil)
	yarn, _ := RoleByName(s.cfg, "resourcemanager")
	runner.startErr = map[string]error{
		yarn.Exec: fmt.Errorf("no such file"),
	}

	warnings, err := s.Start()
	if err != nil {
		t.Fatalf("Start() error = %v; compute roles must not be fatal", err)
	}

	want := 0
	for _, w := range warnings {
		if strings.Contains(w, "resourcemanager") || strings.Contains(w, "nodemanager") {
			want++
		}
	}
	if want != 2 {
		t.Errorf("compute-role warnings = %d (%v), want 2", want, warnings)
	}

	// The SQL roles after the failed compute roles must still launch.
	launchedMetastore := false
	for _, call := range runner.calls {
		if strings.HasSuffix(call, "--service metastore") {
			launchedMetastore = true
		}
	}
	if !launchedMetastore {
		t.Error("metastore was not launched after a compute-role failure")
	}
}

func TestRestartStopsThenStarts(t *testing.T) {
	s, runner := testSupervisor(t, map[string]int{"namenode": 21})
	paused := false
	s.sleep = func(d time.Duration) {
		if d == s.cfg.RestartPause {
			paused = true
		}
	}

	if _, err := s.Restart(); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	if !paused {
		t.Error("Restart() did not pause between stop and start")
	}

	// The namenode kill must precede its relaunch.
	kill, launch := -1, -1
	nn, _ := RoleByName(s.cfg, "namenode")
	for i, call := range runner.calls {
		if call == "run pkill -f "+nn.Marker && kill == -1 {
			kill = i
		}
		if strings.HasSuffix(call, nn.Exec+" namenode") && launch == -1 {
			launch = i
		}
	}
	if kill == -1 || launch == -1 || kill > launch {
		t.Errorf("restart order wrong: kill at %d, launch at %d", kill, launch)
	}
}

func TestVerifyHealthQuorum(t *testing.T) {
	tests := []struct {
		name        string
		live        map[string]int
		wantLive    int
		wantHealthy bool
	}{
		{
			name:        "all essential roles up",
			live:        map[string]int{"namenode": 1, "metastore": 2, "hiveserver2": 3},
			wantLive:    3,
			wantHealthy: true,
		},
		{
			name:        "one essential role down",
			live:        map[string]int{"namenode": 1, "metastore": 2},
			wantLive:    2,
			wantHealthy: true,
		},
		{
			name:        "only one essential role up",
			live:        map[string]int{"namenode": 1},
			wantLive:    1,
			wantHealthy: false,
		},
		{
			name:        "compute roles never count",
			live:        map[string]int{"namenode": 1, "resourcemanager": 4, "nodemanager": 5},
			wantLive:    1,
			wantHealthy: false,
		},
		{
			name:        "nothing running",
			live:        nil,
			wantLive:    0,
			wantHealthy: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := testSupervisor(t, tt.live)
			health := s.Verify()
			if health.EssentialLive != tt.wantLive {
				t.Errorf("EssentialLive = %d, want %d", health.EssentialLive, tt.wantLive)
			}
			if health.Healthy != tt.wantHealthy {
				t.Errorf("Healthy = %v, want %v", health.Healthy, tt.wantHealthy)
			}
		})
	}
}

func TestRenderScriptDeterministic(t *testing.T) {
	cfg := config.Default("/srv/hadoopbox")

	first := RenderScript(cfg)
	second := RenderScript(cfg)
	if first != second {
		t.Error("RenderScript() output differs across calls")
	}

	if !strings.HasPrefix(first, "#!/bin/sh\n") {
		t.Error("script missing shebang")
	}
	for _, want := range []string{"do_start()", "do_stop()", "do_status()", "start_one namenode", "HADOOP_CONF_DIR", "PIG_HOME", "PIG_CLASSPATH"} {
		if !strings.Contains(first, want) {
			t.Errorf("script missing %q", want)
		}
	}

	// Stop must walk roles in reverse: hiveserver2 before namenode.
	hs2 := strings.Index(first, "stop_one hiveserver2")
	nn := strings.Index(first, "stop_one namenode")
	if hs2 == -1 || nn == -1 || hs2 > nn {
		t.Error("script stop order is not reversed")
	}
}

func TestEmitScriptWritesExecutable(t *testing.T) {
	cfg := config.Default(t.TempDir())

	path, err := EmitScript(cfg)
	if err != nil {
		t.Fatalf("EmitScript() error = %v", err)
	}
	if path != cfg.Paths().SupervisorPath() {
		t.Errorf("EmitScript() path = %q, want %q", path, cfg.Paths().SupervisorPath())
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("supervisor script missing: %v", err)
	}
	if info.Mode().Perm()&0111 == 0 {
		t.Errorf("supervisor script mode = %v, not executable", info.Mode())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != RenderScript(cfg) {
		t.Error("emitted script differs from rendered content")
	}
}

func TestRoleEnvCoversEveryComponentHome(t *testing.T) {
	cfg := config.Default("/srv/hadoopbox")

	env := RoleEnv(cfg)
	joined := strings.Join(env, "\n")
	for _, want := range []string{
		"HADOOP_HOME=" + cfg.HadoopHome(),
		"HIVE_HOME=" + cfg.HiveHome(),
		"PIG_HOME=" + cfg.PigHome(),
		"PIG_CLASSPATH=" + cfg.Paths().HadoopConfDir(),
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("RoleEnv() missing %q", want)
		}
	}
}

func TestRolesRegistryShape(t *testing.T) {
	cfg := config.Default("/srv/hadoopbox")
	roles := Roles(cfg)

	if len(roles) != 6 {
		t.Fatalf("Roles() length = %d, want 6", len(roles))
	}

	essential := 0
	for _, r := range roles {
		if r.Essential {
			essential++
		}
		if r.Exec == "" || r.Marker == "" || r.LogName == "" {
			t.Errorf("role %s is missing launch metadata", r.Name)
		}
	}
	if essential != 3 {
		t.Errorf("essential roles = %d, want 3", essential)
	}

	if _, err := RoleByName(cfg, "metastore"); err != nil {
		t.Errorf("RoleByName(metastore) error = %v", err)
	}
	if _, err := RoleByName(cfg, "zookeeper"); err == nil {
		t.Error("RoleByName(zookeeper) did not fail")
	}
}
