package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/hiveplot/pkg/buildinfo"
)

// isolate points every config and cache lookup at fresh temp dirs.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(configEnv, "")
	t.Chdir(t.TempDir())
}

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)

	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandTree(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"layout", "axes", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.Use != appName {
		t.Errorf("root Use = %q, want %q", root.Use, appName)
	}
}

func TestVersion(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("--version error: %v", err)
	}
	if !strings.Contains(out, buildinfo.Version) {
		t.Errorf("--version output %q should contain %q", out, buildinfo.Version)
	}
}

func TestCachePath(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	cfg := writeFile(t, "hiveplot.toml", "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	out, err := runCLI(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}
}

func TestCacheClearEmpty(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("cache clear output = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the program name")
	}

	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("completion for an unsupported shell should fail")
	}
}

func TestMetricFlagCompletion(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "__complete", "layout", "g.json", "--axis-metric", "")
	if err != nil {
		t.Fatalf("__complete error: %v", err)
	}
	for _, name := range []string{"betweenness", "degree", "indegree"} {
		if !strings.Contains(out, name) {
			t.Errorf("completion output missing %q:\n%s", name, out)
		}
	}
}
