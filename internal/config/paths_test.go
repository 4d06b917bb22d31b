package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPathsLayout(t *testing.T) {
	p := &Paths{BaseDir: "/srv/hadoopbox"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"install root", p.InstallRoot(), "/srv/hadoopbox/opt"},
		{"data area", p.DataDir(), "/srv/hadoopbox/data"},
		{"metadata store", p.NameNodeDir(), "/srv/hadoopbox/data/namenode"},
		{"block store", p.DataNodeDir(), "/srv/hadoopbox/data/datanode"},
		{"scratch", p.TmpDir(), "/srv/hadoopbox/data/tmp"},
		{"metastore db", p.MetastoreDBDir(), "/srv/hadoopbox/data/metastore_db"},
		{"hadoop conf", p.HadoopConfDir(), "/srv/hadoopbox/conf/hadoop"},
		{"hive conf", p.HiveConfDir(), "/srv/hadoopbox/conf/hive"},
		{"logs", p.LogsDir(), "/srv/hadoopbox/logs"},
		{"supervisor artifact", p.SupervisorPath(), "/srv/hadoopbox/bin/stackctl"},
		{"hints", p.HintsDir(), "/srv/hadoopbox/hints"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestComponentDescriptors(t *testing.T) {
	cfg := Default("/srv/hadoopbox")
	comps := cfg.Components()

	if len(comps) != 3 {
		t.Fatalf("Components() length = %d, want 3", len(comps))
	}

	hadoop := comps[0]
	if hadoop.Name != ComponentHadoop {
		t.Errorf("first component = %q, want hadoop", hadoop.Name)
	}

	url := hadoop.DownloadURL(cfg.MirrorURL)
	want := "https://archive.apache.org/dist/hadoop/common/hadoop-3.3.6/hadoop-3.3.6.tar.gz"
	if url != want {
		t.Errorf("DownloadURL = %q, want %q", url, want)
	}

	install := hadoop.InstallPath(cfg.Paths().InstallRoot())
	if install != filepath.Join("/srv/hadoopbox/opt", "hadoop-3.3.6") {
		t.Errorf("InstallPath = %q", install)
	}

	// Trailing slash on the mirror must not double up
	url = hadoop.DownloadURL("https://mirror.example.com/dist/")
	if strings.Contains(url, "//hadoop") {
		t.Errorf("DownloadURL = %q contains doubled slash", url)
	}

	// Pig owns no long-running roles
	pig := comps[2]
	if len(pig.Roles) != 0 {
		t.Errorf("pig roles = %v, want none", pig.Roles)
	}
}
