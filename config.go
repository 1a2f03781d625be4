package sectorfx

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables a level is created with.
type Config struct {
	TicRate          int          `yaml:"ticrate"`
	Seed             uint64       `yaml:"seed"`
	Gravity          float64      `yaml:"gravity"`
	NumLaps          int          `yaml:"num_laps"`
	NumStarposts     int          `yaml:"num_starposts"`
	Gametype         int          `yaml:"gametype"`
	MaxQuakeOffset   float64      `yaml:"max_quake_offset"`
	DisabledSpecials []int        `yaml:"disabled_specials"`
	Scripts          ScriptConfig `yaml:"scripts"`
}

// ScriptConfig configures the script environment. It lives here so one file
// configures both the engine and the bridge.
type ScriptConfig struct {
	Dir       string        `yaml:"dir"`
	Watch     bool          `yaml:"watch"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxAllocs int64         `yaml:"max_allocs"`
}

func DefaultConfig() Config {
	return Config{
		TicRate:        35,
		Seed:           0,
		Gravity:        0.5,
		NumLaps:        3,
		MaxQuakeOffset: 24,
		Scripts: ScriptConfig{
			Timeout:   50 * time.Millisecond,
			MaxAllocs: -1,
		},
	}
}

// ParseConfig decodes yaml over the defaults, so a file only names what it
// changes.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("sectorfx: unmarshal config: %w", err)
	}
	if cfg.TicRate <= 0 {
		return Config{}, fmt.Errorf("sectorfx: ticrate must be positive, got %d", cfg.TicRate)
	}
	if cfg.MaxQuakeOffset < 0 {
		return Config{}, fmt.Errorf("sectorfx: max_quake_offset must not be negative")
	}
	return cfg, nil
}

func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("sectorfx: load %s: %w", filename, err)
	}
	return ParseConfig(data)
}

func (c *Config) specialDisabled(code int) bool {
	for _, d := range c.DisabledSpecials {
		if d == code {
			return true
		}
	}
	return false
}
