package metric

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry_ObserveState(t *testing.T) {
	r := NewRegistry()

	r.ObserveState("ModeApplied")
	r.ObserveState("IdentityResolved")

	if got := testutil.ToFloat64(r.bootState.WithLabelValues("IdentityResolved")); got != 1 {
		t.Errorf("IdentityResolved = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(r.bootState); n != 1 {
		t.Errorf("state series = %d, want only the current state", n)
	}
}

func TestRegistry_Identity(t *testing.T) {
	r := NewRegistry()
	r.ObserveIdentity("created")
	r.ObserveIdentity("loaded")
	r.ObserveIdentity("loaded")

	if got := testutil.ToFloat64(r.identityOutcome.WithLabelValues("loaded")); got != 2 {
		t.Errorf("loaded = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.identityOutcome.WithLabelValues("created")); got != 1 {
		t.Errorf("created = %v, want 1", got)
	}
}

func TestRegistry_Finish(t *testing.T) {
	r := NewRegistry()
	r.ObserveFinish(1500*time.Millisecond, 3)

	if got := testutil.ToFloat64(r.bootDuration); got != 1.5 {
		t.Errorf("duration = %v, want 1.5", got)
	}
	if got := testutil.ToFloat64(r.bootExitCode); got != 3 {
		t.Errorf("exit code = %v, want 3", got)
	}
}

func TestRegistry_WriteFile(t *testing.T) {
	r := NewRegistry()
	r.ObserveState("Launched")
	r.ObserveInstall(2 * time.Second)
	r.ObserveLaunch(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "gridboot.prom")
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`gridboot_boot_state{state="Launched"} 1`,
		"gridboot_install_duration_seconds_count 1",
		"gridboot_launch_timestamp_seconds 1.7e+09",
		"gridboot_build_info{",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}

func TestRegistry_WriteFileNoPath(t *testing.T) {
	if err := NewRegistry().WriteFile(""); !errors.Is(err, ErrNoPath) {
		t.Errorf("WriteFile(\"\") error = %v, want ErrNoPath", err)
	}
}

func TestBuildCollector(t *testing.T) {
	if n := testutil.CollectAndCount(NewBuildCollector()); n != 1 {
		t.Errorf("build_info series = %d, want 1", n)
	}
}
