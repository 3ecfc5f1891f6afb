package sqlbuilder

import (
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Config holds everything a Table needs to reach its database.
//
// Either DB and Dialect are given, in which case the connection is borrowed
// from DB, or Driver plus the connection parameters (or a raw DSN) are, and a
// *sql.DB is opened and owned by the Table.
type Config struct {
	Driver   string        `mapstructure:"driver"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Database string        `mapstructure:"database"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DSN      string        `mapstructure:"dsn"`
	Timeout  time.Duration `mapstructure:"timeout"`

	DB      *sql.DB      `mapstructure:"-"`
	Dialect *Dialect     `mapstructure:"-"`
	Logger  Logger       `mapstructure:"-"`
	Tracer  trace.Tracer `mapstructure:"-"`
}

var defaultConfig *Config

// Setup registers conf as the process wide default used by New. Call it once
// during initialization, before any Table is created.
func Setup(conf Config) error {
	if _, err := conf.dialect(); err != nil {
		return err
	}
	defaultConfig = &conf
	return nil
}

func (c Config) dialect() (*Dialect, error) {
	if c.Dialect != nil {
		return c.Dialect, nil
	}
	return getDialect(c.Driver)
}

func (c Config) logger() Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return NopLogger()
}
