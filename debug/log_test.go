package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogWritesCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	defer Disable()

	Log("surface", "slot %d -> %s", 3, "Track 1: Set Volume")
	for i := 0; i < 4; i++ {
		LogEvery(2, "feedback", "tick")
	}
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "surface") || !strings.Contains(out, "slot 3 -> Track 1: Set Volume") {
		t.Errorf("log missing entry:\n%s", out)
	}
	if n := strings.Count(out, "tick (every 2"); n != 2 {
		t.Errorf("LogEvery wrote %d lines, want 2:\n%s", n, out)
	}
}

func TestLogDisabledIsNoop(t *testing.T) {
	Disable()
	if Enabled() {
		t.Fatal("still enabled")
	}
	Log("midi", "dropped %d", 1) // must not panic
}
