package sectorfx

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfigOverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
seed: 42
num_laps: 5
disabled_specials: [443, 449]
scripts:
  dir: scripts
  timeout: 10ms
`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Seed != 42 || cfg.NumLaps != 5 {
		t.Fatalf("expected seed 42 and 5 laps, got %d and %d", cfg.Seed, cfg.NumLaps)
	}
	if cfg.TicRate != 35 || cfg.Gravity != 0.5 || cfg.MaxQuakeOffset != 24 {
		t.Fatalf("expected untouched fields to keep their defaults, got %+v", cfg)
	}
	if !cfg.specialDisabled(449) || cfg.specialDisabled(400) {
		t.Fatalf("expected only the listed specials to be disabled")
	}
	if cfg.Scripts.Dir != "scripts" || cfg.Scripts.Timeout != 10*time.Millisecond {
		t.Fatalf("expected script settings to be read, got %+v", cfg.Scripts)
	}
	if cfg.Scripts.MaxAllocs != -1 {
		t.Fatalf("expected the default allocation limit, got %d", cfg.Scripts.MaxAllocs)
	}
}

func TestParseConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero ticrate", "ticrate: 0"},
		{"negative quake offset", "max_quake_offset: -1"},
		{"wrong type", "num_laps: lots"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data)); err == nil {
				t.Fatalf("expected an error for %q", tt.data)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	name := filepath.Join(t.TempDir(), "sectorfx.yaml")
	if err := os.WriteFile(name, []byte("gametype: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(name)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Gametype != 2 {
		t.Fatalf("expected gametype 2, got %d", cfg.Gametype)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
