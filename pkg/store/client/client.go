package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/de-tools/port-atlas/pkg/services/config"
	"github.com/de-tools/port-atlas/pkg/store/dialect"
	"github.com/de-tools/port-atlas/pkg/store/duckdb"
	_ "github.com/databricks/databricks-sql-go"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	sf "github.com/snowflakedb/gosnowflake"
	_ "modernc.org/sqlite"
)

type Settings struct {
	Driver       string
	DSN          string
	Profile      string
	MaxOpenConns int
}

// Open connects to the configured store. A named profile takes precedence over
// the inline driver and DSN. The returned handle is meant to be shared for the
// lifetime of the process.
func Open(ctx context.Context, settings Settings, profiles config.ProfileRegistry) (*sql.DB, dialect.Dialect, error) {
	logger := zerolog.Ctx(ctx)

	profile := config.Profile{Driver: settings.Driver, DSN: settings.DSN}
	if settings.Profile != "" {
		if profiles == nil {
			return nil, dialect.Dialect{}, fmt.Errorf("store profile %s requested but no profiles file is configured", settings.Profile)
		}
		p, err := profiles.GetProfile(ctx, settings.Profile)
		if err != nil {
			return nil, dialect.Dialect{}, err
		}
		profile = p
	}

	d, err := dialect.For(profile.Driver)
	if err != nil {
		return nil, dialect.Dialect{}, err
	}

	db, err := open(ctx, d.Name, profile)
	if err != nil {
		return nil, dialect.Dialect{}, fmt.Errorf("open %s store: %w", d.Name, err)
	}

	if settings.MaxOpenConns > 0 {
		db.SetMaxOpenConns(settings.MaxOpenConns)
	}
	if d.Name == dialect.SQLite && strings.Contains(profile.DSN, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, dialect.Dialect{}, fmt.Errorf("ping %s store: %w", d.Name, err)
	}

	logger.Info().Str("driver", d.Name).Str("profile", settings.Profile).Msg("store connected")
	return db, d, nil
}

func open(ctx context.Context, driver string, profile config.Profile) (*sql.DB, error) {
	switch driver {
	case dialect.DuckDB:
		return duckdb.NewDB(duckdb.Settings{DbPath: profile.DSN})
	case dialect.Postgres:
		return sql.Open("postgres", profile.DSN)
	case dialect.SQLite:
		return sql.Open("sqlite", profile.DSN)
	case dialect.Snowflake:
		dsn := profile.DSN
		if dsn == "" {
			var err error
			if dsn, err = snowflakeDSN(profile); err != nil {
				return nil, err
			}
		}
		return sql.Open("snowflake", dsn)
	case dialect.Databricks:
		dsn := profile.DSN
		if dsn == "" {
			var err error
			if dsn, err = DatabricksDSN(ctx, profile, nil); err != nil {
				return nil, err
			}
		}
		return sql.Open("databricks", dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}

func snowflakeDSN(profile config.Profile) (string, error) {
	cfg := &sf.Config{
		Account:   profile.Get("account"),
		User:      profile.Get("user"),
		Password:  profile.Get("password"),
		Database:  profile.Get("database"),
		Schema:    profile.Get("schema"),
		Warehouse: profile.Get("warehouse"),
		Role:      profile.Get("role"),
	}
	if cfg.Account == "" || cfg.User == "" {
		return "", fmt.Errorf("snowflake profile %s needs account and user", profile.Name)
	}
	return sf.DSN(cfg)
}
