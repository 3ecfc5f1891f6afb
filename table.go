package sqlbuilder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/golobby/sqlbuilder/disambiguate"
	"github.com/golobby/sqlbuilder/op"
)

// Disambiguator qualifies column names shared between joined tables.
type Disambiguator = disambiguate.Resolver

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Table is a handle on one database table. It owns a single connection for
// its whole life and is not safe for concurrent use.
//
// Statement failures are never returned by the builders, they are recorded on
// the Table and can be inspected with LastError and HasError. Every executed
// statement overwrites that record.
type Table struct {
	name    string
	pk      string
	columns []string

	conf    Config
	dialect *Dialect
	db      *sql.DB
	ownsDB  bool
	conn    *sql.Conn
	tx      *sql.Tx
	depth   int

	lastError *ErrorInfo
	failures  int

	logger        Logger
	tracer        trace.Tracer
	disambiguator Disambiguator
}

// New opens table with the default Config registered by Setup.
func New(table string, pk ...string) (*Table, error) {
	if defaultConfig == nil {
		return nil, ErrNoConfig
	}
	return Open(*defaultConfig, table, pk...)
}

// Open connects to the database described by conf and discovers the columns
// of table. When pk is omitted the primary key is taken from the schema.
//
// Only a failure to connect is returned. If the table cannot be inspected the
// error is recorded on the returned Table.
func Open(conf Config, table string, pk ...string) (*Table, error) {
	dialect, err := conf.dialect()
	if err != nil {
		return nil, err
	}
	db, owns := conf.DB, false
	if db == nil {
		db, err = sql.Open(dialect.DriverName, dialect.DataSourceName(conf))
		if err != nil {
			return nil, fmt.Errorf("sqlbuilder: open %s: %w", dialect.DriverName, err)
		}
		owns = true
	}
	conn, err := db.Conn(context.Background())
	if err != nil {
		if owns {
			_ = db.Close()
		}
		return nil, fmt.Errorf("sqlbuilder: connect %s: %w", dialect.DriverName, err)
	}
	t := &Table{
		name:          table,
		conf:          conf,
		dialect:       dialect,
		db:            db,
		ownsDB:        owns,
		conn:          conn,
		logger:        conf.logger(),
		tracer:        conf.Tracer,
		disambiguator: disambiguate.Lexical{},
	}
	if t.tracer == nil {
		t.tracer = defaultTracer()
	}
	if len(pk) > 0 {
		t.pk = pk[0]
	}
	t.discover()
	return t, nil
}

func (t *Table) discover() {
	ctx, cancel := t.context(context.Background())
	defer cancel()
	specs, err := t.dialect.ListColumns(ctx, t.dialect, t.conn, t.name)
	if err != nil {
		t.record("", err)
		return
	}
	for _, col := range specs {
		t.columns = append(t.columns, col.Name)
		if t.pk == "" && col.IsPK {
			t.pk = col.Name
		}
	}
}

func (t *Table) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.conf.Timeout > 0 {
		return context.WithTimeout(ctx, t.conf.Timeout)
	}
	return context.WithCancel(ctx)
}

func (t *Table) executor() executor {
	if t.tx != nil {
		return t.tx
	}
	return t.conn
}

// Close rolls back a transaction left open and releases the connection.
func (t *Table) Close() error {
	if t.conn == nil {
		return nil
	}
	if t.tx != nil {
		t.logger.Warnf("closing %s with an open transaction, rolling back", t.name)
		_ = t.tx.Rollback()
		t.tx = nil
		t.depth = 0
	}
	err := t.conn.Close()
	t.conn = nil
	if t.ownsDB {
		if dbErr := t.db.Close(); err == nil {
			err = dbErr
		}
	}
	return err
}

// PerformSQL executes query on the Table's connection, inside the running
// transaction if there is one, and records its outcome.
func (t *Table) PerformSQL(query string) *Result {
	return t.PerformSQLContext(context.Background(), query)
}

// PerformSQLContext is PerformSQL with a caller context. Statements starting
// with SELECT, WITH, VALUES, PRAGMA, SHOW, EXPLAIN or DESCRIBE, or carrying a
// RETURNING keyword outside quotes, are read as result sets.
func (t *Table) PerformSQLContext(ctx context.Context, query string) *Result {
	return t.perform(ctx, query, returnsRows(query))
}

// perform runs query as a result set when rows is true, otherwise as an exec
// whose affected rows and last insert id are reported.
func (t *Table) perform(ctx context.Context, query string, rows bool) *Result {
	res := &Result{Records: Records{}}
	if t.conn == nil {
		res.Err = t.record(query, ErrClosed)
		return res
	}
	ctx, cancel := t.context(ctx)
	defer cancel()

	if QueryLoggingEnabled() {
		t.logger.Debugf("%s", query)
	}
	ctx, span := t.startSpan(ctx, query)
	start := time.Now()

	var err error
	if rows {
		var rs *sql.Rows
		rs, err = t.executor().QueryContext(ctx, query)
		if err == nil {
			res.Records, res.Columns, err = scanRecords(rs)
			res.RowsAffected = int64(len(res.Records))
		}
	} else {
		var r sql.Result
		r, err = t.executor().ExecContext(ctx, query)
		if err == nil {
			res.RowsAffected, err = r.RowsAffected()
			if id, idErr := r.LastInsertId(); idErr == nil {
				res.LastInsertID = id
			}
		}
	}
	if info := t.record(query, err); info != nil {
		res.Err = info
	}
	endSpan(span, res, time.Since(start))
	return res
}

// control runs transaction bookkeeping statements. They are logged but leave
// the recorded error alone.
func (t *Table) control(query string) error {
	ctx, cancel := t.context(context.Background())
	defer cancel()
	if QueryLoggingEnabled() {
		t.logger.Debugf("%s", query)
	}
	_, err := t.executor().ExecContext(ctx, query)
	return err
}

func (t *Table) record(statement string, err error) *ErrorInfo {
	if err == nil {
		t.lastError = nil
		return nil
	}
	info := newErrorInfo(statement, err)
	t.lastError = info
	t.failures++
	t.logger.Errorf("%s", info)
	return info
}

func (t *Table) TableName() string {
	return t.name
}

func (t *Table) PrimaryKeyName() string {
	return t.pk
}

func (t *Table) Dialect() *Dialect {
	return t.dialect
}

// ColumnNames returns the columns discovered when the Table was opened.
func (t *Table) ColumnNames() []string {
	return append([]string(nil), t.columns...)
}

// ColumnNamesOf inspects any other table through this Table's connection.
// Failures are recorded and yield nil.
func (t *Table) ColumnNamesOf(table string) []string {
	if table == t.name {
		return t.ColumnNames()
	}
	if t.conn == nil {
		t.record("", ErrClosed)
		return nil
	}
	ctx, cancel := t.context(context.Background())
	defer cancel()
	names, err := ColumnNamesOf(ctx, t.executor(), t.dialect, table)
	if err != nil {
		t.record("", err)
		return nil
	}
	return names
}

func (t *Table) LastError() *ErrorInfo {
	return t.lastError
}

func (t *Table) HasError() bool {
	return t.lastError != nil
}

// SetDisambiguator replaces the lexical resolver used by joined SELECTs.
func (t *Table) SetDisambiguator(d Disambiguator) {
	t.disambiguator = d
}

func (t *Table) quote(identifier string) string {
	return t.dialect.QuoteIdentifier(identifier)
}

// Select starts a SELECT. With no fields every discovered column is
// selected, or * when there are none.
func (t *Table) Select(fields ...string) *SelectStmt {
	if len(fields) == 0 {
		fields = t.ColumnNames()
	}
	return &SelectStmt{table: t, fields: fields}
}

func (t *Table) Insert(fields ...string) *InsertStmt {
	return &InsertStmt{table: t, fields: fields}
}

func (t *Table) Update(values map[string]any) *UpdateStmt {
	return &UpdateStmt{table: t, values: values}
}

func (t *Table) Delete(where op.Clause) *DeleteStmt {
	return &DeleteStmt{table: t, where: where.SQL()}
}
