package sqlDb

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/paulvitic/hotel-booking/ddd"
)

const (
	SQLite   = "sqlite3"
	Postgres = "postgres"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

//go:embed migrations
var migrations embed.FS

// NewDB opens and pings a sqlite3 or postgres database.
func NewDB(driver string, dsn string) (*sqlx.DB, error) {
	if driver != SQLite && driver != Postgres {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	if driver == SQLite {
		// One connection serialises access to the file.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to %s database: %w", driver, err)
	}
	return db, nil
}

// Migrate applies (up) or reverts (down) every schema migration on its own connection.
func Migrate(driver string, dsn string, direction Direction, logger *ddd.Logger) error {
	db, err := NewDB(driver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	source, err := iofs.New(migrations, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	var instance database.Driver
	switch driver {
	case SQLite:
		instance, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
	case Postgres:
		instance, err = postgres.WithInstance(db.DB, &postgres.Config{})
	}
	if err != nil {
		return fmt.Errorf("preparing %s migrations: %w", driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}

	switch direction {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("%s schema already %s to date", driver, direction)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrating %s: %w", direction, err)
	}

	version, _, _ := m.Version()
	logger.Info("migrated %s schema %s to version %d", driver, direction, version)
	return nil
}
