package commands

import (
	"os"
	"strings"
	"testing"
)

func TestDoctorReportsInvalidConfig(t *testing.T) {
	rt := newRuntime(t)
	if err := os.WriteFile(rt.ConfigPath, []byte("log:\n  level: loud\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runRoot(t, NewDoctorCommand(rt), "doctor")
	if err == nil {
		t.Fatal("doctor error = nil, want failed checks")
	}
	if !strings.Contains(out, "[ERROR] Config values - log.level") {
		t.Errorf("doctor output missing config check:\n%s", out)
	}
}
