package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"poetrydesk/internal/domain"
	"poetrydesk/internal/repository/sqlite"
)

// DatabaseExt is the file extension of project databases
const DatabaseExt = ".db"

// Store is an opened project database with its three repositories wired to
// the same gateway
type Store struct {
	Name    string
	Path    string
	Poets   *sqlite.PersonRepository
	Critics *sqlite.PersonRepository
	Poems   *sqlite.PoemRepository
}

// Provisioner creates and opens project databases under one storage
// directory. It is built once at startup and handed to whoever needs it.
type Provisioner struct {
	dir        string
	opts       sqlite.Options
	uniqueness domain.PoemUniqueness
	logger     *zap.Logger
}

// NewProvisioner creates a provisioner for databases stored in dir
func NewProvisioner(dir string, opts sqlite.Options, uniqueness domain.PoemUniqueness, logger *zap.Logger) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !uniqueness.Valid() {
		uniqueness = domain.UniquePerPoet
	}

	p := &Provisioner{
		dir:        dir,
		opts:       opts,
		uniqueness: uniqueness,
		logger:     logger.Named("provisioner"),
	}

	if uniqueness == domain.UniquePerPoet {
		p.logger.Warn("each poet may submit only one poem in total; set poems.uniqueness to poet_critic to allow one poem per critic")
	}

	return p
}

// Dir returns the storage directory
func (p *Provisioner) Dir() string {
	return p.dir
}

// Path returns the file path of the named database
func (p *Provisioner) Path(name string) string {
	return filepath.Join(p.dir, name+DatabaseExt)
}

// Exists reports whether the named database file is present
func (p *Provisioner) Exists(name string) bool {
	info, err := os.Stat(p.Path(name))
	return err == nil && info.Mode().IsRegular()
}

// Create makes a new database file with the project schema and opens it.
// An existing file is never overwritten. If the schema cannot be created the
// partial file is removed.
func (p *Provisioner) Create(ctx context.Context, name string) (*Store, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	path := p.Path(name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%s: %w", name, domain.ErrDatabaseExists)
		}
		return nil, fmt.Errorf("failed to create database file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to create database file: %w", err)
	}

	gw := sqlite.NewGateway(path, p.opts, p.logger)
	if err := sqlite.CreateSchema(ctx, gw); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			p.logger.Warn("failed to remove partial database", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}

	p.logger.Info("database created", zap.String("name", name), zap.String("path", path))
	return p.store(name, gw), nil
}

// Open wires repositories to an existing database file. No DDL runs.
func (p *Provisioner) Open(ctx context.Context, name string) (*Store, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !p.Exists(name) {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrDatabaseNotFound)
	}

	path := p.Path(name)
	gw := sqlite.NewGateway(path, p.opts, p.logger)
	if err := checkSchema(ctx, gw); err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	p.logger.Info("database opened", zap.String("name", name), zap.String("path", path))
	return p.store(name, gw), nil
}

// List returns the names of the databases in the storage directory, sorted.
// A missing directory means no databases.
func (p *Provisioner) List() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != DatabaseExt {
			continue
		}
		name := strings.TrimSuffix(e.Name(), DatabaseExt)
		if domain.DatabaseNameRule.Match(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (p *Provisioner) store(name string, gw *sqlite.Gateway) *Store {
	return &Store{
		Name:    name,
		Path:    gw.Path(),
		Poets:   sqlite.NewPersonRepository(gw, domain.RolePoet),
		Critics: sqlite.NewPersonRepository(gw, domain.RoleCritic),
		Poems:   sqlite.NewPoemRepository(gw, p.uniqueness),
	}
}

func validateName(name string) error {
	if !domain.DatabaseNameRule.Match(name) {
		return fmt.Errorf("%q: %w (%s)", name, domain.ErrInvalidDatabaseName, domain.DatabaseNameRule.Requirement)
	}
	return nil
}

// checkSchema makes sure the file holds the three project tables
func checkSchema(ctx context.Context, gw *sqlite.Gateway) error {
	tables, err := gw.FetchColumn(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN (?, ?, ?);`,
		sqlite.TablePoets, sqlite.TableCritics, sqlite.TablePoems)
	if err != nil {
		return err
	}
	if len(tables) != 3 {
		return fmt.Errorf("not a poetry database: found tables %v", tables)
	}
	return nil
}
