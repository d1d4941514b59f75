package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	configinfra "github.com/doeshing/heartrisk-go/internal/infrastructure/config"
)

func runConfig(t *testing.T, rt *Runtime, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "heartrisk", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(NewConfigCommand(rt))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"config"}, args...))
	err := root.Execute()
	return out.String(), err
}

func newRuntime(t *testing.T) *Runtime {
	t.Helper()
	for _, key := range []string{configinfra.EnvConfigPath, configinfra.EnvBackendURL, configinfra.EnvEncoding, configinfra.EnvAddr, configinfra.EnvLogLevel} {
		t.Setenv(key, "")
	}
	return &Runtime{ConfigPath: filepath.Join(t.TempDir(), "config.yaml")}
}

func TestConfigDiffOnFreshFile(t *testing.T) {
	rt := newRuntime(t)

	out, err := runConfig(t, rt, "diff")
	if err != nil {
		t.Fatalf("config diff error = %v", err)
	}
	if strings.TrimSpace(out) != MsgNoDifferencesFromDefault {
		t.Errorf("config diff = %q", out)
	}
}

func TestConfigSetGetAndDiff(t *testing.T) {
	rt := newRuntime(t)

	if _, err := runConfig(t, rt, "set", "backend.base_url", "http://predict.internal:9000"); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	if _, err := runConfig(t, rt, "set", "form.defaults.sex", "Female"); err != nil {
		t.Fatalf("config set enum error = %v", err)
	}

	out, err := runConfig(t, rt, "get", "backend.base_url")
	if err != nil {
		t.Fatalf("config get error = %v", err)
	}
	if strings.TrimSpace(out) != "http://predict.internal:9000" {
		t.Errorf("config get = %q", out)
	}

	out, err = runConfig(t, rt, "diff")
	if err != nil {
		t.Fatalf("config diff error = %v", err)
	}
	if !strings.Contains(out, "predict.internal") || !strings.Contains(out, "Sex") {
		t.Errorf("diff does not show both edits:\n%s", out)
	}
}

func TestConfigSetRejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown key", key: "backend.proxy", value: "x"},
		{name: "invalid encoding", key: "backend.encoding", value: "binary"},
		{name: "invalid url", key: "backend.base_url", value: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newRuntime(t)
			if _, err := runConfig(t, rt, "set", tt.key, tt.value); err == nil {
				t.Fatalf("config set %s=%s succeeded", tt.key, tt.value)
			}
			out, _ := runConfig(t, rt, "diff")
			if strings.TrimSpace(out) != MsgNoDifferencesFromDefault {
				t.Errorf("rejected edit was saved:\n%s", out)
			}
		})
	}
}

func TestConfigResetKeepsBackup(t *testing.T) {
	rt := newRuntime(t)
	if err := os.WriteFile(rt.ConfigPath, []byte("backend:\n  base_url: http://old:1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runConfig(t, rt, "reset")
	if err != nil {
		t.Fatalf("config reset error = %v", err)
	}
	if !strings.Contains(out, "Previous configuration saved to") {
		t.Errorf("reset output = %q", out)
	}

	backups, _ := filepath.Glob(rt.ConfigPath + ".*.bak")
	if len(backups) != 1 {
		t.Fatalf("expected one backup, found %v", backups)
	}
	data, _ := os.ReadFile(backups[0])
	if !strings.Contains(string(data), "http://old:1") {
		t.Errorf("backup content = %q", data)
	}

	out, _ = runConfig(t, rt, "diff")
	if strings.TrimSpace(out) != MsgNoDifferencesFromDefault {
		t.Errorf("file differs from defaults after reset:\n%s", out)
	}
}

func TestConfigPathAndValidate(t *testing.T) {
	rt := newRuntime(t)

	out, err := runConfig(t, rt, "path")
	if err != nil || strings.TrimSpace(out) != rt.ConfigPath {
		t.Fatalf("config path = %q, %v", out, err)
	}

	out, err = runConfig(t, rt, "validate")
	if err != nil || strings.TrimSpace(out) != MsgConfigurationValid {
		t.Fatalf("config validate = %q, %v", out, err)
	}
}
