package supervise

import (
	"fmt"
	"os"
	"strings"

	"github.com/hadoopbox/hadoopbox/internal/config"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

// EmitScript renders the standalone supervisor script to $BASE/bin/stackctl
// and returns its path. The script is plain POSIX sh, generated from the
// same role registry the in-process supervisor uses, so the two never
// disagree about commands, markers, or ordering. Rendering is deterministic:
// the same configuration always produces byte-identical output.
func EmitScript(cfg *config.Config) (string, error) {
	path := cfg.Paths().SupervisorPath()
	if err := util.MkdirAll(cfg.Paths().BinDir()); err != nil {
		return "", err
	}

	script := RenderScript(cfg)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		return "", fmt.Errorf("failed to write supervisor script: %w", err)
	}
	return path, nil
}

// RenderScript produces the supervisor script text for a configuration.
func RenderScript(cfg *config.Config) string {
	p := cfg.Paths()
	roles := Roles(cfg)

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("# stackctl - start/stop/status for the managed data stack.\n")
	b.WriteString("# Generated; regenerate by re-running provisioning.\n")
	b.WriteString("set -u\n\n")

	for _, kv := range RoleEnv(cfg) {
		eq := strings.IndexByte(kv, '=')
		b.WriteString(fmt.Sprintf("export %s=%s\n", kv[:eq], util.ShellEscape(kv[eq+1:])))
	}
	b.WriteString(fmt.Sprintf("LOGS=%s\n\n", util.ShellEscape(p.LogsDir())))

	b.WriteString("start_one() { # name command...\n")
	b.WriteString("    name=$1; shift\n")
	b.WriteString("    nohup \"$@\" >>\"$LOGS/$name.log\" 2>&1 &\n")
	b.WriteString("    echo \"started $name (pid $!)\"\n")
	b.WriteString("}\n\n")

	b.WriteString("stop_one() { # name marker\n")
	b.WriteString("    if pkill -f \"$2\" 2>/dev/null; then\n")
	b.WriteString("        echo \"stopped $1\"\n")
	b.WriteString("    fi\n")
	b.WriteString("}\n\n")

	b.WriteString("status_one() { # name marker\n")
	b.WriteString("    pid=$(pgrep -f \"$2\" 2>/dev/null | head -n 1)\n")
	b.WriteString("    if [ -n \"$pid\" ]; then\n")
	b.WriteString("        echo \"$1: running (pid $pid)\"\n")
	b.WriteString("    else\n")
	b.WriteString("        echo \"$1: stopped\"\n")
	b.WriteString("    fi\n")
	b.WriteString("}\n\n")

	b.WriteString("do_start() {\n")
	b.WriteString("    mkdir -p \"$LOGS\"\n")
	for _, r := range roles {
		args := make([]string, 0, len(r.Args)+2)
		args = append(args, util.ShellEscape(r.Name), util.ShellEscape(r.Exec))
		for _, a := range r.Args {
			args = append(args, util.ShellEscape(a))
		}
		b.WriteString("    start_one " + strings.Join(args, " ") + "\n")
	}
	b.WriteString("}\n\n")

	b.WriteString("do_stop() {\n")
	for i := len(roles) - 1; i >= 0; i-- {
		r := roles[i]
		b.WriteString(fmt.Sprintf("    stop_one %s %s\n",
			util.ShellEscape(r.Name), util.ShellEscape(r.Marker)))
	}
	b.WriteString("}\n\n")

	b.WriteString("do_status() {\n")
	for _, r := range roles {
		b.WriteString(fmt.Sprintf("    status_one %s %s\n",
			util.ShellEscape(r.Name), util.ShellEscape(r.Marker)))
	}
	b.WriteString("}\n\n")

	b.WriteString("case \"${1:-}\" in\n")
	b.WriteString("    start) do_stop; do_start ;;\n")
	b.WriteString(fmt.Sprintf("    restart) do_stop; sleep %d; do_start ;;\n",
		int(cfg.RestartPause.Seconds())))
	b.WriteString("    stop) do_stop ;;\n")
	b.WriteString("    status) do_status ;;\n")
	b.WriteString("    *) echo \"usage: $0 {start|stop|restart|status|help}\" ;;\n")
	b.WriteString("esac\n")

	return b.String()
}
