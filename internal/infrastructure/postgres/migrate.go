package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Driver pgx/v5 registra el scheme "pgx5" para golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// Source file lee los .sql desde disco.
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/jhoicas/ventas-api/pkg/logger"
)

// RunMigrations aplica las migraciones pendientes al arranque. El esquema debe
// estar al día antes de servir tráfico.
func RunMigrations(dsn, migrationsPath string, log *logger.Logger) error {
	m, err := migrate.New("file://"+migrationsPath, toPgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("inicializar migraciones: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("versión de migraciones: %w", err)
	}
	if dirty {
		return fmt.Errorf("esquema en estado dirty en la versión %d (requiere intervención manual)", version)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Uint("version", uint(version)).Msg("esquema al día, sin migraciones pendientes")
			return nil
		}
		return fmt.Errorf("aplicar migraciones: %w", err)
	}

	newVersion, _, _ := m.Version()
	log.Info().Uint("from", uint(version)).Uint("to", uint(newVersion)).Msg("migraciones aplicadas")
	return nil
}

// toPgx5DSN convierte postgres:// o postgresql:// al scheme pgx5:// que exige golang-migrate.
func toPgx5DSN(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "pgx5://"):
		return dsn
	case strings.HasPrefix(dsn, "postgresql://"):
		return "pgx5://" + strings.TrimPrefix(dsn, "postgresql://")
	case strings.HasPrefix(dsn, "postgres://"):
		return "pgx5://" + strings.TrimPrefix(dsn, "postgres://")
	}
	return dsn
}
