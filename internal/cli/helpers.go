package cli

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskman/internal/jsonfile"
	"github.com/mesh-intelligence/taskman/internal/registry"
	"github.com/mesh-intelligence/taskman/internal/sqlite"
	"github.com/mesh-intelligence/taskman/pkg/types"
)

// openStore creates the Store selected by cfg.Backend.
func openStore(cfg types.Config, logger *log.Logger) (types.Store, error) {
	switch cfg.Backend {
	case types.BackendJSON:
		return jsonfile.New(cfg.StoragePath(),
			jsonfile.WithStrict(cfg.Strict),
			jsonfile.WithLogger(logger),
		), nil
	case types.BackendSQLite:
		return sqlite.Open(cfg.StoragePath(),
			sqlite.WithStrict(cfg.Strict),
			sqlite.WithLogger(logger),
		), nil
	default:
		return nil, types.ErrBackendUnknown
	}
}

// openRegistry loads config, opens the store and loads the registry. The
// returned func closes the store and must be deferred by the caller.
func (a *app) openRegistry(cmd *cobra.Command) (*registry.Registry, func(), error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, nil, sysError(err)
	}

	logger := a.logger(cmd)
	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, nil, sysError(fmt.Errorf("open store: %w", err))
	}

	reg, err := registry.New(store, registry.WithLogger(logger))
	if err != nil {
		store.Close()
		return nil, nil, sysError(err)
	}

	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Printf("warning: close store: %v", err)
		}
	}
	return reg, closeStore, nil
}

// parseID converts a task ID argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, userError(fmt.Errorf("%w %q: please enter a valid number", types.ErrInvalidID, arg))
	}
	return id, nil
}

// warnUnsaved reports a failed save. The command itself still succeeds: the
// change was applied, it just did not reach disk.
func (a *app) warnUnsaved(cmd *cobra.Command, err error) {
	if err != nil {
		a.logger(cmd).Printf("warning: %v", err)
	}
}
