package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poetrydesk/internal/config"
	"poetrydesk/internal/domain"
	"poetrydesk/internal/logging"
	"poetrydesk/internal/repository/sqlite"
	"poetrydesk/internal/service"
)

// app holds global flag values and the state built from them
type app struct {
	configPath string
	dbName     string
	storageDir string
	create     bool
	verbose    bool

	cfg         *config.Config
	logger      *zap.Logger
	provisioner *service.Provisioner
	eventBus    *service.EventBus
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "poetrydesk",
		Short: "Keep poets, critics and their poems in per-project SQLite files",
		Long: `poetrydesk manages a small poetry database: poets, critics and the
poems poets submit to critics. Each project is its own SQLite file under
the storage directory (DataBases by default).

Select a database with --db NAME, and add --create to make a new one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: discovered, see $"+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&a.dbName, "db", "", "Database name (default: database.name from config)")
	rootCmd.PersistentFlags().StringVar(&a.storageDir, "storage", "", "Directory holding database files (default: storage.dir from config)")
	rootCmd.PersistentFlags().BoolVar(&a.create, "create", false, "Create the database instead of opening it")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newPeopleCmd(a, domain.RolePoet),
		newPeopleCmd(a, domain.RoleCritic),
		newPoemCmd(a),
		newImportCmd(a),
		newDatabasesCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

// setup loads config, applies flag overrides and builds the logger and
// provisioner
func (a *app) setup() error {
	cfg, path, err := config.Resolve(a.configPath)
	if err != nil {
		return err
	}
	if a.storageDir != "" {
		cfg.Storage.Dir = a.storageDir
	}
	if a.dbName != "" {
		cfg.Database.Name = a.dbName
	}
	a.cfg = cfg

	a.logger, err = logging.New(cfg.Log.Level, a.verbose)
	if err != nil {
		return err
	}
	if path != "" {
		a.logger.Debug("Loaded config", zap.String("path", path))
	}

	opts := sqlite.Options{
		ForeignKeys: cfg.Database.ForeignKeys,
		BusyTimeout: cfg.Database.BusyTimeout.Duration(),
	}
	a.provisioner = service.NewProvisioner(cfg.Storage.Dir, opts, cfg.PoemUniqueness(), a.logger)
	a.eventBus = service.NewEventBus()
	return nil
}

// services creates or opens the selected database
func (a *app) services(ctx context.Context) (*service.Services, error) {
	name := a.cfg.Database.Name
	if name == "" {
		return nil, errors.New("no database selected: pass --db NAME or set database.name in the config")
	}

	var (
		store *service.Store
		err   error
	)
	if a.create {
		store, err = a.provisioner.Create(ctx, name)
	} else {
		store, err = a.provisioner.Open(ctx, name)
	}
	if err != nil {
		if errors.Is(err, domain.ErrDatabaseNotFound) {
			return nil, fmt.Errorf("%w (use --create to make it)", err)
		}
		return nil, err
	}
	return service.NewServices(store, a.eventBus, a.logger), nil
}

// describe turns a service error into a message for the terminal.
// Validation errors list one requirement per line.
func describe(err error) error {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	var b strings.Builder
	b.WriteString("invalid input:")
	for _, field := range sortedKeys(verr.Fields) {
		fmt.Fprintf(&b, "\n  %s: %s", field, verr.Fields[field])
	}
	return errors.New(b.String())
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
