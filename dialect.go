package sqlbuilder

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	// Drivers
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type columnSpec struct {
	Name string
	IsPK bool
}

type Dialect struct {
	// Name is reported as db.system in traces.
	Name       string
	DriverName string
	// Returning is true when INSERT ... RETURNING is understood.
	Returning            bool
	PlaceHolderGenerator func(n int) []string
	QuoteIdentifier      func(s string) string
	DataSourceName       func(c Config) string
	// ListColumns takes its placeholders from the dialect it is called with.
	ListColumns func(ctx context.Context, d *Dialect, q Queryer, table string) ([]columnSpec, error)
}

var Dialects = &struct {
	MySQL      *Dialect
	PostgreSQL *Dialect
	SQLite3    *Dialect
	SQLite     *Dialect
}{
	MySQL: &Dialect{
		Name:                 "mysql",
		DriverName:           "mysql",
		Returning:            false,
		PlaceHolderGenerator: questionMarks,
		QuoteIdentifier:      doubleQuote,
		DataSourceName:       mysqlDSN,
		ListColumns:          mysqlColumns,
	},
	PostgreSQL: &Dialect{
		Name:                 "postgresql",
		DriverName:           "postgres",
		Returning:            true,
		PlaceHolderGenerator: postgresPlaceholder,
		QuoteIdentifier:      pq.QuoteIdentifier,
		DataSourceName:       postgresDSN,
		ListColumns:          postgresColumns,
	},
	SQLite3: &Dialect{
		Name:                 "sqlite",
		DriverName:           "sqlite3",
		Returning:            true,
		PlaceHolderGenerator: questionMarks,
		QuoteIdentifier:      doubleQuote,
		DataSourceName:       sqliteDSN,
		ListColumns:          sqliteColumns,
	},
	// SQLite is the pure Go driver from modernc.org, it needs no cgo.
	SQLite: &Dialect{
		Name:                 "sqlite",
		DriverName:           "sqlite",
		Returning:            true,
		PlaceHolderGenerator: questionMarks,
		QuoteIdentifier:      doubleQuote,
		DataSourceName:       sqliteDSN,
		ListColumns:          sqliteColumns,
	},
}

func getDialect(driver string) (*Dialect, error) {
	switch driver {
	case "mysql":
		return Dialects.MySQL, nil
	case "sqlite3":
		return Dialects.SQLite3, nil
	case "sqlite":
		return Dialects.SQLite, nil
	case "postgres", "postgresql":
		return Dialects.PostgreSQL, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, driver)
	}
}

func doubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func postgresDSN(c Config) string {
	if c.DSN != "" {
		return c.DSN
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     hostPort(c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=disable",
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String()
}

// mysqlDSN turns on ANSI_QUOTES so that "identifiers" are read the same way
// the other dialects read them.
func mysqlDSN(c Config) string {
	if c.DSN != "" {
		return c.DSN
	}
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = hostPort(c.Host, c.Port)
	cfg.DBName = c.Database
	cfg.ParseTime = true
	cfg.Params = map[string]string{"sql_mode": "'ANSI_QUOTES'"}
	return cfg.FormatDSN()
}

func sqliteDSN(c Config) string {
	if c.DSN != "" {
		return c.DSN
	}
	return c.Database
}

func hostPort(host string, port int) string {
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func sqliteColumns(ctx context.Context, _ *Dialect, q Queryer, table string) ([]columnSpec, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", doubleQuote(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cols []columnSpec
	for rows.Next() {
		var (
			cid      int
			name     string
			typ      string
			notNull  int
			defValue any
			pk       int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defValue, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, columnSpec{Name: name, IsPK: pk == 1})
	}
	return cols, rows.Err()
}

func postgresColumns(ctx context.Context, d *Dialect, q Queryer, table string) ([]columnSpec, error) {
	ph := d.PlaceHolderGenerator(1)
	query := `SELECT c.column_name, COALESCE(bool_or(tc.constraint_type = 'PRIMARY KEY'), false)
FROM information_schema.columns c
LEFT JOIN information_schema.key_column_usage k
	ON k.table_schema = c.table_schema AND k.table_name = c.table_name AND k.column_name = c.column_name
LEFT JOIN information_schema.table_constraints tc
	ON tc.constraint_schema = k.constraint_schema AND tc.constraint_name = k.constraint_name
WHERE c.table_schema = current_schema() AND c.table_name = ` + pop(&ph) + `
GROUP BY c.column_name, c.ordinal_position
ORDER BY c.ordinal_position`
	return scanColumnSpecs(q.QueryContext(ctx, query, table))
}

func mysqlColumns(ctx context.Context, d *Dialect, q Queryer, table string) ([]columnSpec, error) {
	ph := d.PlaceHolderGenerator(1)
	query := `SELECT column_name, column_key = 'PRI'
FROM information_schema.columns
WHERE table_schema = DATABASE() AND table_name = ` + pop(&ph) + `
ORDER BY ordinal_position`
	return scanColumnSpecs(q.QueryContext(ctx, query, table))
}

func scanColumnSpecs(rows *sql.Rows, err error) ([]columnSpec, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cols []columnSpec
	for rows.Next() {
		var c columnSpec
		if err := rows.Scan(&c.Name, &c.IsPK); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// ColumnNamesOf lists the columns of any table reachable through q, in
// declaration order. A missing table yields no columns and no error.
func ColumnNamesOf(ctx context.Context, q Queryer, dialect *Dialect, table string) ([]string, error) {
	specs, err := dialect.ListColumns(ctx, dialect, q, table)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	return names, nil
}
