package migration

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// Migrator aplica las migraciones SQL embebidas con golang-migrate.
type Migrator struct {
	migrate *migrate.Migrate
	logger  zerolog.Logger
}

// New construye el Migrator a partir de DATABASE_URL (postgres:// o postgresql://).
func New(databaseURL string, logger zerolog.Logger) (*Migrator, error) {
	src, err := iofs.New(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("migration: abrir fuente embebida: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, PgxURL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("migration: crear instancia: %w", err)
	}
	return &Migrator{migrate: m, logger: logger}, nil
}

// PgxURL cambia el esquema de la URL al del driver pgx/v5 de golang-migrate.
func PgxURL(databaseURL string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(databaseURL, scheme) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, scheme)
		}
	}
	return databaseURL
}

// Up aplica todas las migraciones pendientes.
func (m *Migrator) Up() error {
	m.logger.Info().Msg("aplicando migraciones")
	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info().Msg("sin migraciones pendientes")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up: %w", err)
	}
	return m.logVersion()
}

// Down revierte todas las migraciones.
func (m *Migrator) Down() error {
	m.logger.Warn().Msg("revirtiendo todas las migraciones")
	err := m.migrate.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down: %w", err)
	}
	return nil
}

// Steps aplica n migraciones (positivo = up, negativo = down).
func (m *Migrator) Steps(n int) error {
	m.logger.Info().Int("steps", n).Msg("aplicando pasos de migración")
	err := m.migrate.Steps(n)
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration steps: %w", err)
	}
	return m.logVersion()
}

// Version devuelve la versión actual; 0 si no hay migraciones aplicadas.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration version: %w", err)
	}
	return version, dirty, nil
}

// Force fija la versión sin ejecutar migraciones (para reparar un estado dirty).
func (m *Migrator) Force(version int) error {
	m.logger.Warn().Int("version", version).Msg("forzando versión de migración")
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("migration force %d: %w", version, err)
	}
	return nil
}

// Close libera la fuente y la conexión.
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration: cerrar fuente: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration: cerrar base de datos: %w", dbErr)
	}
	return nil
}

func (m *Migrator) logVersion() error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("migraciones aplicadas")
	return nil
}

// Files expone las migraciones embebidas.
func Files() fs.FS {
	return embeddedMigrations
}
