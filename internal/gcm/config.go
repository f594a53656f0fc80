package gcm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Separator names accepted by the external formatter. The name, not the
// character, is what travels on the formatter's argv.
var validSeparators = map[string]bool{
	"space":     true,
	"comma":     true,
	"semicolon": true,
}

// ToolsConfig locates the external collaborators. Defaults resolve relative
// to the directory of the running executable.
type ToolsConfig struct {
	Python       string
	FormatScript string
	Shell        string
	WorkScript   string
	Cluster      string
}

// Config is the resolved run configuration: defaults, then config file,
// then GCM_* environment, then CLI flags.
type Config struct {
	OutputDir   string
	OutputFile  string
	ScratchDir  string
	Seed        int
	Chi         float64
	Sep         string
	StepTimeout time.Duration

	LogLevel  string
	LogFormat string

	Tools ToolsConfig
}

// LoadConfig builds the configuration. flags may be nil; configFile may be
// empty.
func LoadConfig(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()

	toolDir := defaultToolDir()
	v.SetDefault("output_dir", ".")
	v.SetDefault("output_file", "clustering_output.txt")
	v.SetDefault("scratch_dir", ".")
	v.SetDefault("seed", 12345)
	v.SetDefault("chi", 0.0)
	v.SetDefault("sep", "space")
	v.SetDefault("step_timeout", time.Duration(0))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("tools.python", "python")
	v.SetDefault("tools.format_script", filepath.Join(toolDir, "format_edgelist.py"))
	v.SetDefault("tools.shell", "bash")
	v.SetDefault("tools.work_script", filepath.Join(toolDir, "work.sh"))
	v.SetDefault("tools.cluster", filepath.Join(toolDir, "a.out"))

	v.SetEnvPrefix("GCM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := &Config{
		OutputDir:   v.GetString("output_dir"),
		OutputFile:  v.GetString("output_file"),
		ScratchDir:  v.GetString("scratch_dir"),
		Seed:        v.GetInt("seed"),
		Chi:         v.GetFloat64("chi"),
		Sep:         v.GetString("sep"),
		StepTimeout: v.GetDuration("step_timeout"),
		LogLevel:    v.GetString("log.level"),
		LogFormat:   v.GetString("log.format"),
		Tools: ToolsConfig{
			Python:       v.GetString("tools.python"),
			FormatScript: v.GetString("tools.format_script"),
			Shell:        v.GetString("tools.shell"),
			WorkScript:   v.GetString("tools.work_script"),
			Cluster:      v.GetString("tools.cluster"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the external protocol cannot accept.
func (c *Config) Validate() error {
	if !validSeparators[c.Sep] {
		return fmt.Errorf("invalid sep %q: must be space, comma or semicolon", c.Sep)
	}
	return nil
}

func defaultToolDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
