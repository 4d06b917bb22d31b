package supervise

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hadoopbox/hadoopbox/internal/config"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

// HealthQuorum is the minimum number of live essential roles for the stack
// to count as healthy. With three essential roles, one may be down (for
// example hiveserver2 still warming up) without failing verification.
const HealthQuorum = 2

// RoleStatus is one row of a status report.
type RoleStatus struct {
	Name      string
	Component string
	Essential bool
	PID       int
	Running   bool
	Detail    string // raw ps line for the pid, best effort
}

// Health is the result of a verification pass.
type Health struct {
	Statuses      []RoleStatus
	EssentialLive int
	Healthy       bool
}

// Supervisor starts, stops, and verifies the managed roles. Start is
// idempotent by construction: it always stops matching processes first, so a
// second start converges to the same single set of processes.
type Supervisor struct {
	cfg      *config.Config
	runner   CommandRunner
	liveness LivenessChecker
	sleep    func(time.Duration)
}

// New creates a supervisor backed by real process execution.
func New(cfg *config.Config) *Supervisor {
	return &Supervisor{
		cfg:      cfg,
		runner:   ExecRunner{},
		liveness: ProcessScan{},
		sleep:    time.Sleep,
	}
}

// Start launches all roles in dependency order, each detached with its
// output redirected under the logs dir. Any already-running instances are
// stopped first so a start never stacks duplicate processes.
//
// A launch failure is fatal for core roles; for the optional compute roles
// it becomes a warning and the remaining roles still start.
func (s *Supervisor) Start() ([]string, error) {
	// Defensive stop: converge to zero before launching.
	warnings := s.Stop()
	for _, warn := range warnings {
		util.Warn("%s", warn)
	}

	logsDir := s.cfg.Paths().LogsDir()
	if err := util.MkdirAll(logsDir); err != nil {
		return warnings, err
	}

	env := RoleEnv(s.cfg)
	for _, role := range Roles(s.cfg) {
		logFile := filepath.Join(logsDir, role.LogName)
		pid, err := s.runner.StartDetached(role.Exec, role.Args, env, logFile)
		if err != nil {
			if role.Optional {
				msg := fmt.Sprintf("failed to start %s (continuing without it): %v", role.Name, err)
				util.Warn("%s", msg)
				warnings = append(warnings, msg)
				continue
			}
			return warnings, fmt.Errorf("failed to start %s: %w", role.Name, err)
		}
		util.Log("Started %s (pid %d), logging to %s", role.Name, pid, logFile)
	}

	// Let the JVMs come up before anyone samples liveness.
	s.sleep(s.cfg.SettleDelay)
	return warnings, nil
}

// Stop terminates all roles in reverse dependency order by command-line
// marker. Best effort: failures become warnings, a role that is not running
// is not an error, and stopping twice is safe.
func (s *Supervisor) Stop() []string {
	var warnings []string

	roles := Roles(s.cfg)
	for i := len(roles) - 1; i >= 0; i-- {
		role := roles[i]
		if s.liveness.FindPID(role) == 0 {
			continue
		}

		if out, err := s.runner.Run("pkill", []string{"-f", role.Marker}, nil); err != nil {
			// pkill exits 1 when nothing matched; the process died between
			// the scan and the kill. Anything else is worth surfacing.
			if !strings.Contains(err.Error(), "exit status 1") {
				warnings = append(warnings,
					fmt.Sprintf("failed to stop %s: %v (%s)", role.Name, err, strings.TrimSpace(string(out))))
			}
			continue
		}
		util.Log("Stopped %s", role.Name)
	}

	return warnings
}

// Restart stops the stack, waits for ports and pid tables to clear, and
// starts it again.
func (s *Supervisor) Restart() ([]string, error) {
	for _, warn := range s.Stop() {
		util.Warn("%s", warn)
	}
	s.sleep(s.cfg.RestartPause)
	return s.Start()
}

// Status reports every role's liveness, with a raw ps line per live pid.
func (s *Supervisor) Status() []RoleStatus {
	var statuses []RoleStatus
	for _, role := range Roles(s.cfg) {
		pid := s.liveness.FindPID(role)
		st := RoleStatus{
			Name:      role.Name,
			Component: role.Component,
			Essential: role.Essential,
			PID:       pid,
			Running:   pid != 0,
		}
		if pid != 0 {
			if out, err := s.runner.Run("ps", []string{"-p", strconv.Itoa(pid), "-o", "pid=,etime=,rss="}, nil); err == nil {
				st.Detail = strings.TrimSpace(string(out))
			}
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// Verify samples liveness and applies the health quorum: at least
// HealthQuorum essential roles must be live. Compute roles never affect the
// verdict; a dead one only shows up in the statuses.
func (s *Supervisor) Verify() Health {
	statuses := s.Status()

	live := 0
	for _, st := range statuses {
		if st.Essential && st.Running {
			live++
		}
	}

	return Health{
		Statuses:      statuses,
		EssentialLive: live,
		Healthy:       live >= HealthQuorum,
	}
}
