package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/taskman/internal/paths"
	"github.com/mesh-intelligence/taskman/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir,omitempty"`
	Strict  bool   `yaml:"strict"`
}

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml and create the data directory",
		Long: `Create the configuration directory and a config.yaml if none exists.

The data directory defaults to the platform data directory
($XDG_DATA_HOME/taskman on Linux) unless --data-dir is given. An existing
config.yaml is left untouched.`,
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}

	dataDir := a.flags.dataDir
	if dataDir == "" {
		dataDir, err = paths.DefaultDataDir()
	} else {
		dataDir, err = filepath.Abs(dataDir)
	}
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	backend := a.flags.backend
	if backend == "" {
		backend = types.BackendJSON
	}
	cfg := configFile{Backend: backend, DataDir: dataDir, Strict: a.flags.strict}
	if err := (types.Config{Backend: cfg.Backend}).Validate(); err != nil {
		return userError(fmt.Errorf("backend %q: %w", backend, err))
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}
	configPath := filepath.Join(configDir, configFileExt)
	written, err := writeConfigIfMissing(configPath, cfg)
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create data directory: %w", err))
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "Wrote %s\n", configPath)
	} else {
		fmt.Fprintf(out, "Keeping existing %s\n", configPath)
	}
	return nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist and reports whether it wrote anything.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# taskman configuration\n")
	return true, os.WriteFile(path, append(header, data...), 0o644)
}
